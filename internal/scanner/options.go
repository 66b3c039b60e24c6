package scanner

import (
	"context"
	"time"

	"mdeco/internal/checksum"
	"mdeco/internal/config"
	"mdeco/internal/deps"
	"mdeco/internal/media/exifdata"
	"mdeco/internal/media/ffprobe"
	"mdeco/internal/mimetype"
	"mdeco/internal/pathtree"
)

// Collaborator hooks. Collectors call external concerns through these
// function types so tests and embedders can substitute implementations.
type (
	// SniffFunc guesses a file's MIME type; empty string means undetermined.
	SniffFunc func(path string) (string, error)
	// LookupFunc locates an executable on the search path.
	LookupFunc func(name, searchPath string) (string, bool)
	// ProbeFunc runs the multimedia probe tool against a file.
	ProbeFunc func(ctx context.Context, binary, path string, timeout time.Duration) (ffprobe.Result, error)
	// ImageExtractFunc reads image metadata as dotted-key entries.
	ImageExtractFunc func(path string, opts exifdata.Options) ([]exifdata.Entry, error)
)

// Options configures collector construction and dispatch policy.
type Options struct {
	ChecksumAlgorithm string
	ChecksumBlockSize int
	TimestampsLocal   bool
	TreePolicy        pathtree.ConflictPolicy
	FractionsAsFloat  bool
	ProbeCommand      string
	ProbeTimeout      time.Duration

	// RequireAll turns a failed collector readiness check into a
	// construction error instead of excluding the collector.
	RequireAll bool
	// CombinedProbe registers one audio+video collector instead of the two
	// separate ones.
	CombinedProbe bool

	Sniff        SniffFunc
	Lookup       LookupFunc
	Probe        ProbeFunc
	ExtractImage ImageExtractFunc
}

// OptionsFromConfig maps application configuration onto collector options.
func OptionsFromConfig(cfg *config.Config) Options {
	opts := Options{}
	if cfg != nil {
		opts.ChecksumAlgorithm = cfg.Scan.ChecksumAlgorithm
		opts.ChecksumBlockSize = cfg.Scan.ChecksumBlockSize
		opts.TimestampsLocal = cfg.Scan.TimestampsLocal
		opts.FractionsAsFloat = cfg.Scan.FractionsAsFloat
		opts.ProbeCommand = cfg.Scan.FFprobeCommand
		opts.ProbeTimeout = time.Duration(cfg.Scan.FFprobeTimeout) * time.Second
		opts.RequireAll = cfg.Scan.RequireAll
		opts.CombinedProbe = cfg.Scan.CombinedProbe
		if cfg.Scan.StrictTreePaths {
			opts.TreePolicy = pathtree.ConflictError
		}
	}
	return opts.withDefaults()
}

func (o Options) withDefaults() Options {
	if o.ChecksumAlgorithm == "" {
		o.ChecksumAlgorithm = checksum.DefaultAlgorithm
	}
	if o.ChecksumBlockSize <= 0 {
		o.ChecksumBlockSize = checksum.DefaultBlockSize
	}
	if o.ProbeCommand == "" {
		o.ProbeCommand = "ffprobe"
	}
	if o.ProbeTimeout <= 0 {
		o.ProbeTimeout = ffprobe.DefaultTimeout
	}
	if o.Sniff == nil {
		o.Sniff = mimetype.Guess
	}
	if o.Lookup == nil {
		o.Lookup = deps.FindExecutable
	}
	if o.Probe == nil {
		o.Probe = ffprobe.Inspect
	}
	if o.ExtractImage == nil {
		o.ExtractImage = exifdata.Extract
	}
	return o
}
