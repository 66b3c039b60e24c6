package scanner

import (
	"context"
	"fmt"
	"sync"

	"mdeco/internal/deps"
	"mdeco/internal/pathtree"
)

// probeBinding resolves and remembers the probe binary shared by the
// multimedia collector variants. The resolved path is written during the
// readiness check and read by every scan; the mutex keeps re-checks safe
// when collectors are shared across concurrent scans.
type probeBinding struct {
	mu       sync.RWMutex
	resolved string
}

func (p *probeBinding) set(path string) {
	p.mu.Lock()
	p.resolved = path
	p.mu.Unlock()
}

func (p *probeBinding) get() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.resolved
}

func probeRequirement(command string) deps.Requirement {
	return deps.Requirement{
		Name:        "FFprobe",
		Command:     command,
		Description: "Audio/video stream metadata extraction",
	}
}

// checkProbe resolves the configured probe binary on the search path.
func checkProbe(opts Options, binding *probeBinding, collector string) error {
	resolved, ok := opts.Lookup(opts.ProbeCommand, "")
	if !ok {
		return fmt.Errorf("%w: %s: cannot find %q executable on PATH", ErrMissingDependency, collector, opts.ProbeCommand)
	}
	binding.set(resolved)
	return nil
}

// AudioCollector extracts stream and container metadata from audio files
// via the external probe tool.
type AudioCollector struct {
	base
	opts  Options
	probe probeBinding
}

// NewAudio constructs the audio metadata collector.
func NewAudio(opts Options) (*AudioCollector, error) {
	opts = opts.withDefaults()
	c := &AudioCollector{
		base: newBase("audio-info", []string{"audio/*"}, opts.TreePolicy),
		opts: opts,
	}
	c.bind(c)
	if err := c.register(c, "audio_metadata", c.addAudioMetadata); err != nil {
		return nil, err
	}
	return c, nil
}

// Requirements lists the probe binary dependency.
func (c *AudioCollector) Requirements() []deps.Requirement {
	return []deps.Requirement{probeRequirement(c.opts.ProbeCommand)}
}

// CheckReadiness verifies the probe binary is discoverable on PATH.
func (c *AudioCollector) CheckReadiness() error {
	if err := checkProbe(c.opts, &c.probe, c.name); err != nil {
		return err
	}
	c.markReady()
	return nil
}

// Scan extracts the audio_metadata field.
func (c *AudioCollector) Scan(ctx context.Context, path string) (*pathtree.Tree, error) {
	return c.runScan(ctx, path)
}

func (c *AudioCollector) addAudioMetadata(ctx context.Context, path string) (*pathtree.Tree, error) {
	result, err := c.opts.Probe(ctx, c.probe.get(), path, c.opts.ProbeTimeout)
	if err != nil {
		return nil, err
	}
	fragment := c.newFragment()
	fragment.Set("audio_metadata", result.Tree())
	return fragment, nil
}

// VideoCollector extracts stream and container metadata from video files
// via the external probe tool.
type VideoCollector struct {
	base
	opts  Options
	probe probeBinding
}

// NewVideo constructs the video metadata collector.
func NewVideo(opts Options) (*VideoCollector, error) {
	opts = opts.withDefaults()
	c := &VideoCollector{
		base: newBase("video-info", []string{"video/*"}, opts.TreePolicy),
		opts: opts,
	}
	c.bind(c)
	if err := c.register(c, "video_metadata", c.addVideoMetadata); err != nil {
		return nil, err
	}
	return c, nil
}

// Requirements lists the probe binary dependency.
func (c *VideoCollector) Requirements() []deps.Requirement {
	return []deps.Requirement{probeRequirement(c.opts.ProbeCommand)}
}

// CheckReadiness verifies the probe binary is discoverable on PATH.
func (c *VideoCollector) CheckReadiness() error {
	if err := checkProbe(c.opts, &c.probe, c.name); err != nil {
		return err
	}
	c.markReady()
	return nil
}

// Scan extracts the video_metadata field.
func (c *VideoCollector) Scan(ctx context.Context, path string) (*pathtree.Tree, error) {
	return c.runScan(ctx, path)
}

func (c *VideoCollector) addVideoMetadata(ctx context.Context, path string) (*pathtree.Tree, error) {
	result, err := c.opts.Probe(ctx, c.probe.get(), path, c.opts.ProbeTimeout)
	if err != nil {
		return nil, err
	}
	fragment := c.newFragment()
	fragment.Set("video_metadata", result.Tree())
	return fragment, nil
}

// MultimediaCollector handles both audio and video files with a single
// probe invocation, classifying the output field from the probe result:
// any video stream makes it video_metadata, otherwise audio_metadata.
type MultimediaCollector struct {
	base
	opts  Options
	probe probeBinding
}

// NewMultimedia constructs the combined audio/video collector.
func NewMultimedia(opts Options) (*MultimediaCollector, error) {
	opts = opts.withDefaults()
	c := &MultimediaCollector{
		base: newBase("multimedia-info", []string{"video/*", "audio/*"}, opts.TreePolicy),
		opts: opts,
	}
	c.bind(c)
	if err := c.register(c, "multimedia_metadata", c.addMultimediaMetadata); err != nil {
		return nil, err
	}
	return c, nil
}

// Requirements lists the probe binary dependency.
func (c *MultimediaCollector) Requirements() []deps.Requirement {
	return []deps.Requirement{probeRequirement(c.opts.ProbeCommand)}
}

// CheckReadiness verifies the probe binary is discoverable on PATH.
func (c *MultimediaCollector) CheckReadiness() error {
	if err := checkProbe(c.opts, &c.probe, c.name); err != nil {
		return err
	}
	c.markReady()
	return nil
}

// Scan extracts either the video_metadata or audio_metadata field.
func (c *MultimediaCollector) Scan(ctx context.Context, path string) (*pathtree.Tree, error) {
	return c.runScan(ctx, path)
}

func (c *MultimediaCollector) addMultimediaMetadata(ctx context.Context, path string) (*pathtree.Tree, error) {
	result, err := c.opts.Probe(ctx, c.probe.get(), path, c.opts.ProbeTimeout)
	if err != nil {
		return nil, err
	}
	field := "audio_metadata"
	if result.VideoStreamCount() > 0 {
		field = "video_metadata"
	}
	fragment := c.newFragment()
	fragment.Set(field, result.Tree())
	return fragment, nil
}
