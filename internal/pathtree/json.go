package pathtree

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// MarshalJSON encodes the tree as a JSON object with keys in insertion order.
func (t *Tree) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range t.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		encodedKey, err := json.Marshal(key)
		if err != nil {
			return nil, fmt.Errorf("encode key %q: %w", key, err)
		}
		buf.Write(encodedKey)
		buf.WriteByte(':')
		encodedValue, err := json.Marshal(t.nodes[key])
		if err != nil {
			return nil, fmt.Errorf("encode value for %q: %w", key, err)
		}
		buf.Write(encodedValue)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// JSON renders the tree as a JSON document. A non-empty indent selects
// pretty-printed output.
func (t *Tree) JSON(indent string) ([]byte, error) {
	if indent == "" {
		return json.Marshal(t)
	}
	return json.MarshalIndent(t, "", indent)
}
