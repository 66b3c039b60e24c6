package pathtree

import (
	"errors"
	"testing"
)

func TestInsertAndGet(t *testing.T) {
	tree := New()
	if err := tree.Insert([]string{"a", "b", "c"}, 3); err != nil {
		t.Fatalf("insert: %v", err)
	}
	got, ok := tree.Get("a", "b", "c")
	if !ok {
		t.Fatalf("expected value at a.b.c")
	}
	if got != 3 {
		t.Fatalf("expected 3, got %v", got)
	}
}

func TestInsertEmptyPath(t *testing.T) {
	tree := New()
	err := tree.Insert(nil, 1)
	if !errors.Is(err, ErrInvalidPath) {
		t.Fatalf("expected ErrInvalidPath, got %v", err)
	}
}

func TestInsertOverwritesLeaf(t *testing.T) {
	tree := New()
	if err := tree.InsertPath("a.b", "old"); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if err := tree.InsertPath("a.b", "new"); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	if got := tree.GetString("a", "b"); got != "new" {
		t.Fatalf("expected overwrite, got %q", got)
	}
}

func TestJSONSerialization(t *testing.T) {
	tree := New()
	if err := tree.InsertPath("a.b.c", 3); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if err := tree.InsertPath("answer", 42); err != nil {
		t.Fatalf("insert: %v", err)
	}
	data, err := tree.JSON("")
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"a":{"b":{"c":3}},"answer":42}`
	if string(data) != want {
		t.Fatalf("unexpected JSON: got %s, want %s", data, want)
	}
}

func TestScalarDemotion(t *testing.T) {
	tree := New()
	if err := tree.InsertPath("answer", 42); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if err := tree.InsertPath("answer.to.everything", 42); err != nil {
		t.Fatalf("insert through scalar: %v", err)
	}

	got, ok := tree.Get("answer", "to", "everything")
	if !ok || got != 42 {
		t.Fatalf("expected 42 at answer.to.everything, got %v (ok=%v)", got, ok)
	}
	// The former scalar survives as a key with a null value.
	demoted, ok := tree.Get("answer", "42")
	if !ok {
		t.Fatalf("expected demoted key answer.42 to exist")
	}
	if demoted != nil {
		t.Fatalf("expected nil value for demoted key, got %v", demoted)
	}

	data, err := tree.JSON("")
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"answer":{"to":{"everything":42},"42":null}}`
	if string(data) != want {
		t.Fatalf("unexpected JSON: got %s, want %s", data, want)
	}
}

func TestNilPlaceholderPromotedWithoutDemotion(t *testing.T) {
	tree := New()
	if err := tree.InsertPath("answer", 42); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if err := tree.InsertPath("answer.to.everything", 42); err != nil {
		t.Fatalf("insert through scalar: %v", err)
	}
	// Descending through the demoted placeholder replaces its nil value with
	// a subtree; no "<nil>" key appears.
	if err := tree.InsertPath("answer.42.deeper", "x"); err != nil {
		t.Fatalf("insert through placeholder: %v", err)
	}
	if got := tree.GetString("answer", "42", "deeper"); got != "x" {
		t.Fatalf("expected x at answer.42.deeper, got %q", got)
	}
	data, err := tree.JSON("")
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"answer":{"to":{"everything":42},"42":{"deeper":"x"}}}`
	if string(data) != want {
		t.Fatalf("unexpected JSON: got %s, want %s", data, want)
	}
}

func TestStrictPolicyRejectsConflict(t *testing.T) {
	tree := NewStrict()
	if err := tree.InsertPath("answer", 42); err != nil {
		t.Fatalf("insert: %v", err)
	}
	err := tree.InsertPath("answer.to.everything", 42)
	if !errors.Is(err, ErrPathConflict) {
		t.Fatalf("expected ErrPathConflict, got %v", err)
	}
	// The original leaf must be untouched after the rejected insert.
	if got, _ := tree.Get("answer"); got != 42 {
		t.Fatalf("expected answer to remain 42, got %v", got)
	}
}

func TestFlatten(t *testing.T) {
	tree := New()
	if err := tree.InsertPath("a.b.c", 4.2); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if err := tree.InsertPath("answer", 42); err != nil {
		t.Fatalf("insert: %v", err)
	}

	flat := tree.Flatten(".")
	keys := flat.Keys()
	wantKeys := []string{"a.b.c", "answer"}
	if len(keys) != len(wantKeys) {
		t.Fatalf("expected %d keys, got %d: %v", len(wantKeys), len(keys), keys)
	}
	for i, k := range wantKeys {
		if keys[i] != k {
			t.Fatalf("key %d: got %q, want %q", i, keys[i], k)
		}
	}
	if v, _ := flat.Value("a.b.c"); v != 4.2 {
		t.Fatalf("expected 4.2 at a.b.c, got %v", v)
	}

	// Flatten must not mutate the source.
	if _, ok := tree.Get("a", "b", "c"); !ok {
		t.Fatalf("source tree mutated by Flatten")
	}
}

func TestFlattenRoundTrip(t *testing.T) {
	tree := New()
	pairs := map[string]any{
		"file_hash.algorithm":     "sha256",
		"file_hash.value":         "abc",
		"file_timestamps.created": "2008-06-11 13:29:26",
		"file_name":               "clip.avi",
	}
	for key, value := range pairs {
		if err := tree.InsertPath(key, value); err != nil {
			t.Fatalf("insert %s: %v", key, err)
		}
	}

	flat := tree.Flatten(".")
	if flat.Len() != len(pairs) {
		t.Fatalf("expected %d flat keys, got %d", len(pairs), flat.Len())
	}
	for key, want := range pairs {
		got, ok := flat.Value(key)
		if !ok || got != want {
			t.Fatalf("flat[%s]: got %v (ok=%v), want %v", key, got, ok, want)
		}
	}

	// Rebuilding from the flat view yields an equivalent tree.
	rebuilt := New()
	for _, key := range flat.Keys() {
		v, _ := flat.Value(key)
		if err := rebuilt.InsertPath(key, v); err != nil {
			t.Fatalf("rebuild %s: %v", key, err)
		}
	}
	a, err := tree.JSON("")
	if err != nil {
		t.Fatalf("marshal original: %v", err)
	}
	b, err := rebuilt.JSON("")
	if err != nil {
		t.Fatalf("marshal rebuilt: %v", err)
	}
	if string(a) != string(b) {
		t.Fatalf("round trip mismatch:\n%s\n%s", a, b)
	}
}

func TestMergeOverwritesAndCopies(t *testing.T) {
	left := New()
	if err := left.InsertPath("file_name", "a.txt"); err != nil {
		t.Fatalf("insert: %v", err)
	}
	right := New()
	if err := right.InsertPath("file_name", "b.txt"); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if err := right.InsertPath("file_hash.value", "abc"); err != nil {
		t.Fatalf("insert: %v", err)
	}

	left.Merge(right)
	if got := left.GetString("file_name"); got != "b.txt" {
		t.Fatalf("expected last write to win, got %q", got)
	}

	// Mutating the source after the merge must not affect the destination.
	if err := right.InsertPath("file_hash.value", "changed"); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if got := left.GetString("file_hash", "value"); got != "abc" {
		t.Fatalf("merge aliased subtree: got %q", got)
	}
}

func TestKeyOrderPreserved(t *testing.T) {
	tree := New()
	order := []string{"zulu", "alpha", "mike"}
	for i, key := range order {
		tree.Set(key, i)
	}
	got := tree.Keys()
	for i, key := range order {
		if got[i] != key {
			t.Fatalf("key %d: got %q, want %q", i, got[i], key)
		}
	}
}

func TestUnicodeKeysAndValues(t *testing.T) {
	tree := New()
	if err := tree.InsertPath("名前", "ファイル"); err != nil {
		t.Fatalf("insert: %v", err)
	}
	data, err := tree.JSON("")
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"名前":"ファイル"}`
	if string(data) != want {
		t.Fatalf("unexpected JSON: got %s, want %s", data, want)
	}
}
