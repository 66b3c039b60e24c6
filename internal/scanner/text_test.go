package scanner

import (
	"context"
	"testing"

	"mdeco/internal/textutil"
)

func TestTextCollectorCountsLinesAndWords(t *testing.T) {
	path := writeTempFile(t, "notes.txt", "one two three\nfour five\n\nsix\n")

	c, err := NewText(Options{})
	if err != nil {
		t.Fatalf("NewText: %v", err)
	}
	if err := c.CheckReadiness(); err != nil {
		t.Fatalf("readiness: %v", err)
	}

	result, err := c.Scan(context.Background(), path)
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if got := result.GetString("text_metadata", "charset"); got != textutil.CharsetUTF8 {
		t.Errorf("charset = %q", got)
	}
	if v, _ := result.Get("text_metadata", "byte_order_mark"); v != false {
		t.Errorf("byte_order_mark = %v", v)
	}
	if v, _ := result.Get("text_metadata", "line_count"); v != int64(4) {
		t.Errorf("line_count = %v", v)
	}
	if v, _ := result.Get("text_metadata", "word_count"); v != int64(6) {
		t.Errorf("word_count = %v", v)
	}
}

func TestTextCollectorDecodesUTF16(t *testing.T) {
	// "hi there\nbye\n" as UTF-16LE with BOM.
	content := []byte{0xFF, 0xFE}
	for _, r := range "hi there\nbye\n" {
		content = append(content, byte(r), 0x00)
	}
	path := writeTempFile(t, "wide.txt", string(content))

	c, err := NewText(Options{})
	if err != nil {
		t.Fatalf("NewText: %v", err)
	}
	if err := c.CheckReadiness(); err != nil {
		t.Fatalf("readiness: %v", err)
	}

	result, err := c.Scan(context.Background(), path)
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if got := result.GetString("text_metadata", "charset"); got != textutil.CharsetUTF16LE {
		t.Errorf("charset = %q", got)
	}
	if v, _ := result.Get("text_metadata", "byte_order_mark"); v != true {
		t.Errorf("byte_order_mark = %v", v)
	}
	if v, _ := result.Get("text_metadata", "line_count"); v != int64(2) {
		t.Errorf("line_count = %v", v)
	}
	if v, _ := result.Get("text_metadata", "word_count"); v != int64(3) {
		t.Errorf("word_count = %v", v)
	}
}

func TestTextCollectorEmptyFile(t *testing.T) {
	path := writeTempFile(t, "empty.txt", "")

	c, err := NewText(Options{})
	if err != nil {
		t.Fatalf("NewText: %v", err)
	}
	if err := c.CheckReadiness(); err != nil {
		t.Fatalf("readiness: %v", err)
	}

	result, err := c.Scan(context.Background(), path)
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if v, _ := result.Get("text_metadata", "line_count"); v != int64(0) {
		t.Errorf("line_count = %v", v)
	}
	if v, _ := result.Get("text_metadata", "word_count"); v != int64(0) {
		t.Errorf("word_count = %v", v)
	}
}
