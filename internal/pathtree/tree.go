package pathtree

import (
	"errors"
	"fmt"
	"strings"
)

// DefaultSeparator joins and splits delimited key paths.
const DefaultSeparator = "."

var (
	// ErrInvalidPath indicates an insertion with an empty path.
	ErrInvalidPath = errors.New("invalid tree path")
	// ErrPathConflict indicates an intermediate segment already holds a scalar
	// and the tree uses the strict conflict policy.
	ErrPathConflict = errors.New("tree path conflict")
)

// ConflictPolicy controls what happens when an insertion needs to descend
// through a key that already holds a scalar value.
type ConflictPolicy int

const (
	// ConflictDemote converts the scalar into a subtree containing one entry
	// whose key is the stringified former value and whose value is nil. This
	// mirrors long-standing behaviour that downstream consumers rely on, even
	// though it turns a value into a key.
	ConflictDemote ConflictPolicy = iota
	// ConflictError rejects the insertion with ErrPathConflict.
	ConflictError
)

// Tree is an ordered mapping from string keys to scalar values or nested
// trees. The zero value is not usable; construct with New or NewStrict.
type Tree struct {
	keys   []string
	nodes  map[string]any
	policy ConflictPolicy
}

// New returns an empty tree using the demoting conflict policy.
func New() *Tree {
	return &Tree{nodes: make(map[string]any), policy: ConflictDemote}
}

// NewStrict returns an empty tree that rejects scalar path conflicts.
func NewStrict() *Tree {
	return &Tree{nodes: make(map[string]any), policy: ConflictError}
}

// NewWithPolicy returns an empty tree using the provided conflict policy.
func NewWithPolicy(policy ConflictPolicy) *Tree {
	return &Tree{nodes: make(map[string]any), policy: policy}
}

// Policy reports the tree's conflict policy.
func (t *Tree) Policy() ConflictPolicy {
	return t.policy
}

// Len returns the number of top-level keys.
func (t *Tree) Len() int {
	return len(t.keys)
}

// Keys returns the top-level keys in insertion order.
func (t *Tree) Keys() []string {
	out := make([]string, len(t.keys))
	copy(out, t.keys)
	return out
}

// Value returns the value stored under a top-level key.
func (t *Tree) Value(key string) (any, bool) {
	v, ok := t.nodes[key]
	return v, ok
}

// Set stores a value under a top-level key, overwriting any previous value.
// New keys append to the insertion order; overwrites keep their position.
func (t *Tree) Set(key string, value any) {
	if _, ok := t.nodes[key]; !ok {
		t.keys = append(t.keys, key)
	}
	t.nodes[key] = value
}

// Insert places value at the leaf addressed by path, creating intermediate
// subtrees as needed. An empty path yields ErrInvalidPath. When an
// intermediate segment holds a scalar the tree's conflict policy applies; the
// final segment always overwrites. A segment holding nil, such as a prior
// demotion's placeholder, is replaced by a subtree without another demotion.
func (t *Tree) Insert(path []string, value any) error {
	if len(path) == 0 {
		return fmt.Errorf("%w: empty path", ErrInvalidPath)
	}
	type demotion struct {
		sub *Tree
		key string
	}
	var demoted []demotion
	current := t
	for _, segment := range path[:len(path)-1] {
		existing, ok := current.nodes[segment]
		if sub, isTree := existing.(*Tree); ok && isTree {
			current = sub
			continue
		}
		sub := NewWithPolicy(t.policy)
		if ok && existing != nil {
			if t.policy == ConflictError {
				return fmt.Errorf("%w: segment %q already holds value %v", ErrPathConflict, segment, existing)
			}
			demoted = append(demoted, demotion{sub, fmt.Sprint(existing)})
		}
		current.Set(segment, sub)
		current = sub
	}
	current.Set(path[len(path)-1], value)
	// Demotion: the former scalar survives only as a key, appended after the
	// descending child so the child serializes first.
	for _, d := range demoted {
		if _, exists := d.sub.nodes[d.key]; !exists {
			d.sub.Set(d.key, nil)
		}
	}
	return nil
}

// InsertPath splits a dot-delimited key and inserts the value at the
// resulting path.
func (t *Tree) InsertPath(key string, value any) error {
	return t.InsertPathSep(key, DefaultSeparator, value)
}

// InsertPathSep splits key on the provided separator and inserts the value
// at the resulting path. An empty separator treats the key as one segment.
func (t *Tree) InsertPathSep(key, sep string, value any) error {
	if sep == "" {
		return t.Insert([]string{key}, value)
	}
	return t.Insert(strings.Split(key, sep), value)
}

// Get walks the path and returns the value found at its end.
func (t *Tree) Get(path ...string) (any, bool) {
	if len(path) == 0 {
		return nil, false
	}
	current := t
	for _, segment := range path[:len(path)-1] {
		sub, ok := current.nodes[segment].(*Tree)
		if !ok {
			return nil, false
		}
		current = sub
	}
	v, ok := current.nodes[path[len(path)-1]]
	return v, ok
}

// GetString returns the string stored at path, or "" when the path is absent
// or holds a non-string value.
func (t *Tree) GetString(path ...string) string {
	v, ok := t.Get(path...)
	if !ok {
		return ""
	}
	s, _ := v.(string)
	return s
}

// Merge copies the other tree's top-level entries into t, overwriting on key
// collision. Subtrees are deep-copied so the two trees never alias.
func (t *Tree) Merge(other *Tree) {
	if other == nil {
		return
	}
	for _, key := range other.keys {
		t.Set(key, cloneValue(other.nodes[key]))
	}
}

// Clone returns a deep copy of the tree.
func (t *Tree) Clone() *Tree {
	out := NewWithPolicy(t.policy)
	for _, key := range t.keys {
		out.Set(key, cloneValue(t.nodes[key]))
	}
	return out
}

// Flatten returns a new single-level tree whose keys are the sep-joined paths
// of every leaf, in depth-first insertion order. The receiver is not mutated.
// Empty subtrees contribute no keys.
func (t *Tree) Flatten(sep string) *Tree {
	out := NewWithPolicy(t.policy)
	t.flattenInto(out, "", sep)
	return out
}

func (t *Tree) flattenInto(out *Tree, prefix, sep string) {
	for _, key := range t.keys {
		full := key
		if prefix != "" {
			full = prefix + sep + key
		}
		if sub, ok := t.nodes[key].(*Tree); ok {
			sub.flattenInto(out, full, sep)
			continue
		}
		out.Set(full, t.nodes[key])
	}
}

func cloneValue(v any) any {
	if sub, ok := v.(*Tree); ok {
		return sub.Clone()
	}
	return v
}
