package scanner

import (
	"context"
	"errors"
	"fmt"

	"mdeco/internal/deps"
	"mdeco/internal/media/exifdata"
	"mdeco/internal/pathtree"
)

// ImageCollector extracts EXIF metadata from image files. Parsing is
// delegated to the compiled-in exifdata collaborator, so readiness has no
// runtime prerequisite to verify.
type ImageCollector struct {
	base
	opts Options
}

// NewImage constructs the image metadata collector.
func NewImage(opts Options) (*ImageCollector, error) {
	opts = opts.withDefaults()
	c := &ImageCollector{
		base: newBase("image-info", []string{"image/*"}, opts.TreePolicy),
		opts: opts,
	}
	c.bind(c)
	if err := c.register(c, "image_metadata", c.addImageMetadata); err != nil {
		return nil, err
	}
	return c, nil
}

// Requirements reports no external binaries; the EXIF parser is linked in.
func (c *ImageCollector) Requirements() []deps.Requirement {
	return nil
}

// CheckReadiness marks the collector ready. The EXIF library is part of the
// binary, so there is nothing external to verify.
func (c *ImageCollector) CheckReadiness() error {
	c.markReady()
	return nil
}

// Scan extracts the image_metadata field.
func (c *ImageCollector) Scan(ctx context.Context, path string) (*pathtree.Tree, error) {
	return c.runScan(ctx, path)
}

// addImageMetadata inserts every dotted-key EXIF entry into a nested
// subtree, so "Exif.DateTime" becomes {"Exif": {"DateTime": ...}}. Images
// without an EXIF segment yield an empty subtree rather than an error.
func (c *ImageCollector) addImageMetadata(_ context.Context, path string) (*pathtree.Tree, error) {
	entries, err := c.opts.ExtractImage(path, exifdata.Options{FractionsAsFloat: c.opts.FractionsAsFloat})
	if err != nil && !errors.Is(err, exifdata.ErrNoMetadata) {
		return nil, fmt.Errorf("image metadata: %w", err)
	}

	metadata := c.newFragment()
	for _, entry := range entries {
		if err := metadata.InsertPath(entry.Key, entry.Value); err != nil {
			return nil, fmt.Errorf("image metadata key %q: %w", entry.Key, err)
		}
	}

	fragment := c.newFragment()
	fragment.Set("image_metadata", metadata)
	return fragment, nil
}
