package crawler

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"mdeco/internal/pathtree"
	"mdeco/internal/scanner"
)

// DefaultWorkers bounds concurrent file scans when no worker count is
// configured.
const DefaultWorkers = 4

// Result is one scanned file delivered to the sink.
type Result struct {
	Path     string
	Metadata *pathtree.Tree
}

// Sink receives scan results. Emit may be called from multiple worker
// goroutines; implementations synchronize internally.
type Sink interface {
	Emit(ctx context.Context, result Result) error
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(ctx context.Context, result Result) error

func (f SinkFunc) Emit(ctx context.Context, result Result) error {
	return f(ctx, result)
}

// Stats summarizes a finished crawl.
type Stats struct {
	Scanned int64
	Skipped int64
	Failed  int64
}

// Crawler walks directories and scans the files it finds.
type Crawler struct {
	service *scanner.Service
	logger  *slog.Logger
	workers int
	exclude []string
}

// Option adjusts crawler construction.
type Option func(*Crawler)

// WithWorkers sets how many files are scanned concurrently.
func WithWorkers(n int) Option {
	return func(c *Crawler) {
		if n > 0 {
			c.workers = n
		}
	}
}

// WithExclude adds glob patterns matched against base names; matching files
// are skipped and matching directories are not descended into.
func WithExclude(patterns ...string) Option {
	return func(c *Crawler) {
		c.exclude = append(c.exclude, patterns...)
	}
}

// New constructs a crawler over the given scan service.
func New(service *scanner.Service, logger *slog.Logger, opts ...Option) (*Crawler, error) {
	if service == nil {
		return nil, errors.New("crawler: nil scan service")
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	c := &Crawler{service: service, logger: logger, workers: DefaultWorkers}
	for _, opt := range opts {
		opt(c)
	}
	for _, pattern := range c.exclude {
		if _, err := filepath.Match(pattern, "probe"); err != nil {
			return nil, fmt.Errorf("crawler: bad exclude pattern %q: %w", pattern, err)
		}
	}
	return c, nil
}

// Run walks root and scans every regular file that no exclude pattern
// matches, delivering results to the sink. A scan failure is logged and
// counted without stopping the walk; a sink failure or context cancellation
// aborts the whole crawl. The returned stats cover work completed before
// any abort.
func (c *Crawler) Run(ctx context.Context, root string, sink Sink) (Stats, error) {
	var scanned, skipped, failed atomic.Int64

	group, ctx := errgroup.WithContext(ctx)
	group.SetLimit(c.workers)

	// The sink contract is per-call synchronization; serialize here so sinks
	// like a JSON stream writer stay simple.
	var emitMu sync.Mutex

	walkErr := filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			if entry != nil && entry.IsDir() {
				c.logger.Warn("cannot read directory, skipping", "path", path, "error", err)
				failed.Add(1)
				return fs.SkipDir
			}
			c.logger.Warn("cannot stat entry, skipping", "path", path, "error", err)
			failed.Add(1)
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if c.excluded(entry.Name()) {
			skipped.Add(1)
			if entry.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if entry.IsDir() {
			return nil
		}
		if !entry.Type().IsRegular() {
			skipped.Add(1)
			return nil
		}

		group.Go(func() error {
			metadata, err := c.service.GetMetadata(ctx, path)
			if err != nil {
				if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
					return err
				}
				c.logger.Warn("scan failed", "path", path, "error", err)
				failed.Add(1)
				return nil
			}
			emitMu.Lock()
			defer emitMu.Unlock()
			if err := sink.Emit(ctx, Result{Path: path, Metadata: metadata}); err != nil {
				return fmt.Errorf("emit %s: %w", path, err)
			}
			scanned.Add(1)
			return nil
		})
		return nil
	})

	groupErr := group.Wait()
	stats := Stats{
		Scanned: scanned.Load(),
		Skipped: skipped.Load(),
		Failed:  failed.Load(),
	}
	if walkErr != nil && !errors.Is(walkErr, context.Canceled) {
		return stats, fmt.Errorf("walk %s: %w", root, walkErr)
	}
	if groupErr != nil {
		return stats, groupErr
	}
	if walkErr != nil {
		return stats, walkErr
	}
	return stats, nil
}

func (c *Crawler) excluded(name string) bool {
	for _, pattern := range c.exclude {
		if matched, _ := filepath.Match(pattern, name); matched {
			return true
		}
	}
	return false
}
