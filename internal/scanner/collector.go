package scanner

import (
	"context"
	"fmt"
	"sync/atomic"

	"mdeco/internal/deps"
	"mdeco/internal/fileutil"
	"mdeco/internal/pathtree"
)

// DefaultMimeType is reported when the file's MIME type cannot be determined.
const DefaultMimeType = "application/octet-stream"

// UnknownFileType is the best-effort fallback for the coarse file type.
const UnknownFileType = "unknown"

// StepFunc is one extraction step: it turns a file path into a partial
// metadata tree keyed by the top-level field the step owns.
type StepFunc func(ctx context.Context, path string) (*pathtree.Tree, error)

type step struct {
	name string
	fn   StepFunc
}

// Collector turns one file path into a partial metadata tree.
type Collector interface {
	// Name identifies the collector in logs and status output.
	Name() string
	// Patterns lists the MIME glob patterns the collector claims.
	Patterns() []string
	// Requirements lists the external dependencies the collector checks.
	Requirements() []deps.Requirement
	// CheckReadiness verifies external prerequisites and marks the
	// collector ready. Idempotent; safe to call again after a failure.
	CheckReadiness() error
	// Ready reports whether a readiness check has succeeded.
	Ready() bool
	// Scan runs the collector's steps against the file and merges their
	// fragments. Requires a prior successful CheckReadiness.
	Scan(ctx context.Context, path string) (*pathtree.Tree, error)
}

// base carries the state shared by every collector variant: identity,
// patterns, the readiness flag, and the ordered step list.
type base struct {
	name     string
	patterns []string
	policy   pathtree.ConflictPolicy
	ready    atomic.Bool
	owner    Collector
	steps    []step
}

func newBase(name string, patterns []string, policy pathtree.ConflictPolicy) base {
	return base{name: name, patterns: patterns, policy: policy}
}

func (b *base) Name() string {
	return b.name
}

func (b *base) Patterns() []string {
	out := make([]string, len(b.patterns))
	copy(out, b.patterns)
	return out
}

func (b *base) Ready() bool {
	return b.ready.Load()
}

// bind records which collector owns this base. Must be called before
// register; step registration is rejected for any other owner.
func (b *base) bind(owner Collector) {
	b.owner = owner
}

// register appends a named step. The owner must be the collector bound to
// this base, which guards against cross-wiring steps between variants.
func (b *base) register(owner Collector, name string, fn StepFunc) error {
	if fn == nil {
		return fmt.Errorf("%w: step %q: nil function", ErrRegistration, name)
	}
	if owner == nil || b.owner == nil || owner != b.owner {
		return fmt.Errorf("%w: step %q does not belong to collector %q", ErrRegistration, name, b.name)
	}
	b.steps = append(b.steps, step{name: name, fn: fn})
	return nil
}

// markReady flips the readiness flag. Collector readiness checks call this
// after their external prerequisites verify.
func (b *base) markReady() {
	b.ready.Store(true)
}

// runScan enforces the scan contract shared by all variants: readiness
// first, then a regular-file check, then the steps in registration order.
// Any step failure fails the whole scan.
func (b *base) runScan(ctx context.Context, path string) (*pathtree.Tree, error) {
	if !b.ready.Load() {
		return nil, fmt.Errorf("%w: %s: run CheckReadiness first", ErrNotReady, b.name)
	}
	if _, err := fileutil.StatRegular(path); err != nil {
		return nil, fmt.Errorf("scan %s: %w", b.name, err)
	}

	result := pathtree.NewWithPolicy(b.policy)
	for _, st := range b.steps {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("scan %s: %w", b.name, err)
		}
		fragment, err := st.fn(ctx, path)
		if err != nil {
			return nil, fmt.Errorf("scan %s: step %s: %w", b.name, st.name, err)
		}
		result.Merge(fragment)
	}
	return result, nil
}

// newFragment builds an empty tree using the collector's conflict policy.
func (b *base) newFragment() *pathtree.Tree {
	return pathtree.NewWithPolicy(b.policy)
}
