package catalog_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"mdeco/internal/catalog"
	"mdeco/internal/pathtree"
)

func mustOpenStore(t *testing.T) *catalog.Store {
	t.Helper()
	store, err := catalog.Open(filepath.Join(t.TempDir(), "catalog.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func sampleMetadata(name, hash string, size int64) *pathtree.Tree {
	tree := pathtree.New()
	tree.Set("file_name", name)
	tree.Set("file_type", "text")
	tree.Set("file_size", size)
	tree.Set("mime_type", "text/plain")
	hashTree := pathtree.New()
	hashTree.Set("algorithm", "sha256")
	hashTree.Set("value", hash)
	tree.Set("file_hash", hashTree)
	return tree
}

func TestOpenInitializesSchema(t *testing.T) {
	store := mustOpenStore(t)

	ctx := context.Background()
	run, err := store.BeginRun(ctx, "/srv/media")
	if err != nil {
		t.Fatalf("BeginRun failed: %v", err)
	}
	if run.ID == "" {
		t.Fatal("expected run ID to be assigned")
	}

	fetched, err := store.Run(ctx, run.ID)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if fetched.Root != "/srv/media" || fetched.Finished {
		t.Fatalf("unexpected run: %#v", fetched)
	}
}

func TestOpenRejectsSecondInstance(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.db")
	first, err := catalog.Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer first.Close()

	if _, err := catalog.Open(path); !errors.Is(err, catalog.ErrLocked) {
		t.Fatalf("expected ErrLocked, got %v", err)
	}
}

func TestReopenAfterClose(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.db")
	store, err := catalog.Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if _, err := store.BeginRun(context.Background(), "/data"); err != nil {
		t.Fatalf("BeginRun failed: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	reopened, err := catalog.Open(path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer reopened.Close()

	runs, err := reopened.Runs(context.Background(), 0)
	if err != nil {
		t.Fatalf("Runs failed: %v", err)
	}
	if len(runs) != 1 || runs[0].Root != "/data" {
		t.Fatalf("unexpected runs after reopen: %#v", runs)
	}
}

func TestFinishRunRecordsStats(t *testing.T) {
	store := mustOpenStore(t)
	ctx := context.Background()

	run, err := store.BeginRun(ctx, "/data")
	if err != nil {
		t.Fatalf("BeginRun failed: %v", err)
	}
	stats := catalog.RunStats{Scanned: 12, Skipped: 3, Failed: 1}
	if err := store.FinishRun(ctx, run.ID, stats); err != nil {
		t.Fatalf("FinishRun failed: %v", err)
	}

	fetched, err := store.Run(ctx, run.ID)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if !fetched.Finished || fetched.FilesScanned != 12 || fetched.FilesSkipped != 3 || fetched.FilesFailed != 1 {
		t.Fatalf("unexpected finished run: %#v", fetched)
	}
}

func TestFinishRunUnknownID(t *testing.T) {
	store := mustOpenStore(t)
	err := store.FinishRun(context.Background(), "no-such-run", catalog.RunStats{})
	if !errors.Is(err, catalog.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSaveFileAndFetch(t *testing.T) {
	store := mustOpenStore(t)
	ctx := context.Background()

	run, err := store.BeginRun(ctx, "/data")
	if err != nil {
		t.Fatalf("BeginRun failed: %v", err)
	}

	metadata := sampleMetadata("notes.txt", "abc123", 42)
	record, err := store.SaveFile(ctx, run.ID, "/data/notes.txt", metadata)
	if err != nil {
		t.Fatalf("SaveFile failed: %v", err)
	}
	if record.ID == 0 || record.FileName != "notes.txt" || record.FileSize != 42 {
		t.Fatalf("unexpected record: %#v", record)
	}

	fetched, err := store.FileByPath(ctx, "/data/notes.txt")
	if err != nil {
		t.Fatalf("FileByPath failed: %v", err)
	}
	if fetched.HashAlgorithm != "sha256" || fetched.HashValue != "abc123" {
		t.Fatalf("unexpected fetched record: %#v", fetched)
	}
	if fetched.MetadataJSON == "" || fetched.MetadataJSON[0] != '{' {
		t.Fatalf("metadata JSON not stored: %q", fetched.MetadataJSON)
	}
}

func TestSaveFileReplacesWithinRun(t *testing.T) {
	store := mustOpenStore(t)
	ctx := context.Background()

	run, err := store.BeginRun(ctx, "/data")
	if err != nil {
		t.Fatalf("BeginRun failed: %v", err)
	}
	if _, err := store.SaveFile(ctx, run.ID, "/data/a.txt", sampleMetadata("a.txt", "old", 1)); err != nil {
		t.Fatalf("SaveFile failed: %v", err)
	}
	if _, err := store.SaveFile(ctx, run.ID, "/data/a.txt", sampleMetadata("a.txt", "new", 2)); err != nil {
		t.Fatalf("SaveFile (replace) failed: %v", err)
	}

	records, err := store.ListFiles(ctx, run.ID, 0)
	if err != nil {
		t.Fatalf("ListFiles failed: %v", err)
	}
	if len(records) != 1 || records[0].HashValue != "new" || records[0].FileSize != 2 {
		t.Fatalf("unexpected records after replace: %#v", records)
	}
}

func TestFileByPathNotFound(t *testing.T) {
	store := mustOpenStore(t)
	_, err := store.FileByPath(context.Background(), "/nowhere")
	if !errors.Is(err, catalog.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDuplicatesGroupsByHash(t *testing.T) {
	store := mustOpenStore(t)
	ctx := context.Background()

	run, err := store.BeginRun(ctx, "/data")
	if err != nil {
		t.Fatalf("BeginRun failed: %v", err)
	}
	files := map[string]string{
		"/data/one.txt":     "same",
		"/data/two.txt":     "same",
		"/data/three.txt":   "same",
		"/data/unique.txt":  "lonely",
		"/data/another.bin": "pair",
		"/data/copy.bin":    "pair",
	}
	for path, hash := range files {
		name := filepath.Base(path)
		if _, err := store.SaveFile(ctx, run.ID, path, sampleMetadata(name, hash, 1)); err != nil {
			t.Fatalf("SaveFile %s failed: %v", path, err)
		}
	}

	groups, err := store.Duplicates(ctx)
	if err != nil {
		t.Fatalf("Duplicates failed: %v", err)
	}
	if len(groups) != 2 {
		t.Fatalf("expected 2 duplicate groups, got %#v", groups)
	}
	sizes := map[string]int{}
	for _, group := range groups {
		sizes[group.Value] = len(group.Paths)
	}
	if sizes["same"] != 3 || sizes["pair"] != 2 {
		t.Fatalf("unexpected group sizes: %#v", sizes)
	}
}

func TestListFilesLimit(t *testing.T) {
	store := mustOpenStore(t)
	ctx := context.Background()

	run, err := store.BeginRun(ctx, "/data")
	if err != nil {
		t.Fatalf("BeginRun failed: %v", err)
	}
	for _, name := range []string{"a", "b", "c"} {
		path := "/data/" + name
		if _, err := store.SaveFile(ctx, run.ID, path, sampleMetadata(name, name, 1)); err != nil {
			t.Fatalf("SaveFile failed: %v", err)
		}
	}

	records, err := store.ListFiles(ctx, "", 2)
	if err != nil {
		t.Fatalf("ListFiles failed: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
}
