package scanner

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"mdeco/internal/deps"
	"mdeco/internal/fileutil"
	"mdeco/internal/pathtree"
)

// Service routes files to the collectors whose MIME patterns match and
// merges their partial trees into one metadata result.
type Service struct {
	logger     *slog.Logger
	opts       Options
	collectors []Collector
}

// NewService constructs the dispatch service with the standard collector
// set. The catch-all file-info collector registers first and must be ready;
// specialized collectors that fail their readiness check are logged and
// excluded from dispatch unless RequireAll is set, in which case the
// failure becomes a construction error.
func NewService(opts Options, logger *slog.Logger) (*Service, error) {
	opts = opts.withDefaults()
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	s := &Service{logger: logger, opts: opts}

	generic, err := NewFileInfo(opts)
	if err != nil {
		return nil, err
	}
	if err := generic.CheckReadiness(); err != nil {
		return nil, fmt.Errorf("file-info collector: %w", err)
	}
	s.collectors = append(s.collectors, generic)

	specialized := make([]Collector, 0, 4)
	image, err := NewImage(opts)
	if err != nil {
		return nil, err
	}
	specialized = append(specialized, image)

	if opts.CombinedProbe {
		multimedia, err := NewMultimedia(opts)
		if err != nil {
			return nil, err
		}
		specialized = append(specialized, multimedia)
	} else {
		audio, err := NewAudio(opts)
		if err != nil {
			return nil, err
		}
		video, err := NewVideo(opts)
		if err != nil {
			return nil, err
		}
		specialized = append(specialized, audio, video)
	}

	text, err := NewText(opts)
	if err != nil {
		return nil, err
	}
	specialized = append(specialized, text)

	for _, collector := range specialized {
		if err := collector.CheckReadiness(); err != nil {
			if opts.RequireAll {
				return nil, fmt.Errorf("collector %s: %w", collector.Name(), err)
			}
			logger.Warn("collector unavailable, excluded from dispatch",
				"collector", collector.Name(), "error", err)
			continue
		}
		s.collectors = append(s.collectors, collector)
	}
	return s, nil
}

// AddCollector registers an additional ready collector. Collectors that
// have not passed their readiness check are rejected.
func (s *Service) AddCollector(c Collector) error {
	if c == nil {
		return fmt.Errorf("nil collector")
	}
	if !c.Ready() {
		return fmt.Errorf("%w: %s", ErrNotReady, c.Name())
	}
	s.collectors = append(s.collectors, c)
	return nil
}

// Collectors returns the registered collectors in dispatch order.
func (s *Service) Collectors() []Collector {
	out := make([]Collector, len(s.collectors))
	copy(out, s.collectors)
	return out
}

// Requirements aggregates the external dependencies of every standard
// collector variant, deduplicated by name, for status reporting.
func (s *Service) Requirements() []deps.Requirement {
	seen := make(map[string]bool)
	var requirements []deps.Requirement
	for _, collector := range s.collectors {
		for _, req := range collector.Requirements() {
			if seen[req.Name] {
				continue
			}
			seen[req.Name] = true
			requirements = append(requirements, req)
		}
	}
	return requirements
}

// AllRequirements aggregates the external dependencies of every standard
// collector variant, whether or not their readiness checks pass. Used for
// status reporting.
func AllRequirements(opts Options) []deps.Requirement {
	opts = opts.withDefaults()
	return []deps.Requirement{probeRequirement(opts.ProbeCommand)}
}

// SelectCollectors returns the collectors whose patterns match the MIME
// type, in registration order. The catch-all collector registers first, so
// baseline fields are always present. An empty MIME type matches only the
// catch-all pattern.
func (s *Service) SelectCollectors(mimeType string) []Collector {
	if mimeType == "" {
		mimeType = DefaultMimeType
	}
	var selected []Collector
	for _, collector := range s.collectors {
		for _, pattern := range collector.Patterns() {
			if MatchesPattern(pattern, mimeType) {
				selected = append(selected, collector)
				break
			}
		}
	}
	return selected
}

// GetMetadata classifies the file, runs every matching collector, and
// merges their trees by top-level key union. The first collector error
// aborts the call; per-file isolation is the crawling caller's concern.
func (s *Service) GetMetadata(ctx context.Context, path string) (*pathtree.Tree, error) {
	if _, err := fileutil.StatRegular(path); err != nil {
		return nil, err
	}
	mimeType, err := s.opts.Sniff(path)
	if err != nil {
		return nil, fmt.Errorf("classify %s: %w", path, err)
	}

	result := pathtree.NewWithPolicy(s.opts.TreePolicy)
	for _, collector := range s.SelectCollectors(mimeType) {
		fragment, err := collector.Scan(ctx, path)
		if err != nil {
			return nil, err
		}
		result.Merge(fragment)
	}
	return result, nil
}

// MatchesPattern reports whether a MIME type matches a "type/subtype" glob
// where either side may be "*".
func MatchesPattern(pattern, mimeType string) bool {
	patternClass, patternSub, ok := strings.Cut(pattern, "/")
	if !ok {
		return false
	}
	class, sub, ok := strings.Cut(mimeType, "/")
	if !ok {
		return false
	}
	if patternClass != "*" && !strings.EqualFold(patternClass, class) {
		return false
	}
	return patternSub == "*" || strings.EqualFold(patternSub, sub)
}
