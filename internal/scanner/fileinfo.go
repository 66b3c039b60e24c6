package scanner

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"mdeco/internal/checksum"
	"mdeco/internal/deps"
	"mdeco/internal/fileutil"
	"mdeco/internal/pathtree"
)

// FileInfoCollector is the catch-all collector. It gathers metadata the
// operating system and a content hash can provide for any file, so it is
// always safe to run and always produces the six baseline fields.
type FileInfoCollector struct {
	base
	opts Options
}

// NewFileInfo constructs the generic file-info collector.
func NewFileInfo(opts Options) (*FileInfoCollector, error) {
	opts = opts.withDefaults()
	c := &FileInfoCollector{
		base: newBase("file-info", []string{"*/*"}, opts.TreePolicy),
		opts: opts,
	}
	c.bind(c)
	registrations := []struct {
		name string
		fn   StepFunc
	}{
		{"file_name", c.addFileName},
		{"file_type", c.addFileType},
		{"file_size", c.addFileSize},
		{"mime_type", c.addMimeType},
		{"file_hash", c.addFileHash},
		{"file_timestamps", c.addTimestamps},
	}
	for _, reg := range registrations {
		if err := c.register(c, reg.name, reg.fn); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Requirements reports no external dependencies; everything comes from the
// OS and the standard hash implementations.
func (c *FileInfoCollector) Requirements() []deps.Requirement {
	return nil
}

// CheckReadiness always succeeds for the generic collector.
func (c *FileInfoCollector) CheckReadiness() error {
	c.markReady()
	return nil
}

// Scan runs the six baseline steps against the file.
func (c *FileInfoCollector) Scan(ctx context.Context, path string) (*pathtree.Tree, error) {
	return c.runScan(ctx, path)
}

func (c *FileInfoCollector) addFileName(_ context.Context, path string) (*pathtree.Tree, error) {
	fragment := c.newFragment()
	fragment.Set("file_name", filepath.Base(path))
	return fragment, nil
}

// addFileType is best-effort: an undetermined MIME type yields the literal
// "unknown" instead of failing the scan.
func (c *FileInfoCollector) addFileType(_ context.Context, path string) (*pathtree.Tree, error) {
	fileType := UnknownFileType
	if mime, err := c.opts.Sniff(path); err == nil && mime != "" {
		if class, _, found := strings.Cut(mime, "/"); found && class != "" {
			fileType = class
		}
	}
	fragment := c.newFragment()
	fragment.Set("file_type", fileType)
	return fragment, nil
}

func (c *FileInfoCollector) addFileSize(_ context.Context, path string) (*pathtree.Tree, error) {
	size, err := fileutil.FileSize(path)
	if err != nil {
		return nil, fmt.Errorf("file size: %w", err)
	}
	fragment := c.newFragment()
	fragment.Set("file_size", size)
	return fragment, nil
}

func (c *FileInfoCollector) addMimeType(_ context.Context, path string) (*pathtree.Tree, error) {
	mime, err := c.opts.Sniff(path)
	if err != nil || mime == "" {
		mime = DefaultMimeType
	}
	fragment := c.newFragment()
	fragment.Set("mime_type", mime)
	return fragment, nil
}

func (c *FileInfoCollector) addFileHash(_ context.Context, path string) (*pathtree.Tree, error) {
	digest, err := checksum.SumFile(path, c.opts.ChecksumAlgorithm, c.opts.ChecksumBlockSize)
	if err != nil {
		return nil, fmt.Errorf("content hash: %w", err)
	}
	hash := c.newFragment()
	hash.Set("algorithm", c.opts.ChecksumAlgorithm)
	hash.Set("value", digest)

	fragment := c.newFragment()
	fragment.Set("file_hash", hash)
	return fragment, nil
}

func (c *FileInfoCollector) addTimestamps(_ context.Context, path string) (*pathtree.Tree, error) {
	modified, err := fileutil.Timestamp(path, fileutil.ModeModified, c.opts.TimestampsLocal)
	if err != nil {
		return nil, fmt.Errorf("modified timestamp: %w", err)
	}
	created, err := fileutil.Timestamp(path, fileutil.ModeCreated, c.opts.TimestampsLocal)
	if err != nil {
		return nil, fmt.Errorf("created timestamp: %w", err)
	}

	stamps := c.newFragment()
	stamps.Set("modified", fileutil.FormatTimestamp(modified))
	stamps.Set("created", fileutil.FormatTimestamp(created))

	fragment := c.newFragment()
	fragment.Set("file_timestamps", stamps)
	return fragment, nil
}
