// Package exifdata extracts EXIF metadata from image files as dotted-key
// entries ready for insertion into the metadata tree.
//
// Parsing is delegated to github.com/rwcarlsen/goexif; this package only
// normalizes field values (rationals, numeric strings) and fixes the entry
// order so output stays deterministic.
package exifdata

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/rwcarlsen/goexif/exif"
	"github.com/rwcarlsen/goexif/tiff"

	"mdeco/internal/textutil"
)

// keyPrefix namespaces EXIF fields in the metadata tree.
const keyPrefix = "Exif"

// ErrNoMetadata indicates the image carries no EXIF segment.
var ErrNoMetadata = errors.New("no exif metadata")

// Entry is one extracted metadata field with a dot-delimited key.
type Entry struct {
	Key   string
	Value any
}

// Options control value rendering.
type Options struct {
	// FractionsAsFloat renders rational values as floats instead of "n/d".
	FractionsAsFloat bool
}

// Extract reads the EXIF segment of the image at path and returns its fields
// as dotted-key entries sorted by key. Images without EXIF data yield
// ErrNoMetadata so callers can treat the absence as empty rather than fatal.
func Extract(path string, opts Options) ([]Entry, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open image: %w", err)
	}
	defer file.Close()

	decoded, err := exif.Decode(file)
	if err != nil {
		if exif.IsCriticalError(err) {
			return nil, fmt.Errorf("%w: %s: %v", ErrNoMetadata, path, err)
		}
		// Non-critical decode problems still produce usable fields.
	}
	if decoded == nil {
		return nil, fmt.Errorf("%w: %s", ErrNoMetadata, path)
	}

	collector := &fieldCollector{opts: opts}
	if err := decoded.Walk(collector); err != nil {
		return nil, fmt.Errorf("walk exif fields: %w", err)
	}

	sort.Slice(collector.entries, func(i, j int) bool {
		return collector.entries[i].Key < collector.entries[j].Key
	})
	return collector.entries, nil
}

type fieldCollector struct {
	opts    Options
	entries []Entry
}

func (c *fieldCollector) Walk(name exif.FieldName, tag *tiff.Tag) error {
	if tag == nil {
		return nil
	}
	c.entries = append(c.entries, Entry{
		Key:   keyPrefix + "." + string(name),
		Value: tagValue(tag, c.opts),
	})
	return nil
}

func tagValue(tag *tiff.Tag, opts Options) any {
	if tag.Count > 1 {
		return tag.String()
	}
	switch tag.Format() {
	case tiff.IntVal:
		if v, err := tag.Int64(0); err == nil {
			return v
		}
	case tiff.FloatVal:
		if v, err := tag.Float(0); err == nil {
			return v
		}
	case tiff.RatVal:
		num, den, err := tag.Rat2(0)
		if err == nil {
			if opts.FractionsAsFloat && den != 0 {
				return float64(num) / float64(den)
			}
			if den == 1 {
				return num
			}
			return fmt.Sprintf("%d/%d", num, den)
		}
	case tiff.StringVal:
		if v, err := tag.StringVal(); err == nil {
			return textutil.CoerceNumber(strings.TrimSpace(v))
		}
	}
	return tag.String()
}
