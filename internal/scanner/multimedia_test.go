package scanner

import (
	"context"
	"errors"
	"testing"
	"time"

	"mdeco/internal/media/ffprobe"
)

func lookupFound(t *testing.T) LookupFunc {
	t.Helper()
	return func(name, _ string) (string, bool) { return "/opt/tools/" + name, true }
}

func lookupMissing(string, string) (string, bool) { return "", false }

func audioOnlyResult() ffprobe.Result {
	return ffprobe.Result{
		Streams: []map[string]any{
			{"codec_type": "audio", "codec_name": "flac", "sample_rate": "44100"},
		},
		Format: map[string]any{"format_name": "flac", "duration": "183.4"},
	}
}

func movieResult() ffprobe.Result {
	return ffprobe.Result{
		Streams: []map[string]any{
			{"codec_type": "video", "codec_name": "h264", "width": float64(1920)},
			{"codec_type": "audio", "codec_name": "aac"},
		},
		Format: map[string]any{"format_name": "matroska"},
	}
}

func TestAudioCollectorMissingProbe(t *testing.T) {
	c, err := NewAudio(Options{Lookup: lookupMissing})
	if err != nil {
		t.Fatalf("NewAudio: %v", err)
	}
	if err := c.CheckReadiness(); !errors.Is(err, ErrMissingDependency) {
		t.Fatalf("expected ErrMissingDependency, got %v", err)
	}
	if c.Ready() {
		t.Fatal("collector marked ready after failed check")
	}
}

func TestAudioCollectorScan(t *testing.T) {
	var probedBinary string
	opts := Options{
		Lookup: lookupFound(t),
		Probe: func(_ context.Context, binary, _ string, _ time.Duration) (ffprobe.Result, error) {
			probedBinary = binary
			return audioOnlyResult(), nil
		},
	}
	c, err := NewAudio(opts)
	if err != nil {
		t.Fatalf("NewAudio: %v", err)
	}
	if err := c.CheckReadiness(); err != nil {
		t.Fatalf("readiness: %v", err)
	}

	path := writeTempFile(t, "song.flac", "not really flac")
	result, err := c.Scan(context.Background(), path)
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if probedBinary != "/opt/tools/ffprobe" {
		t.Errorf("probe ran %q, want resolved path", probedBinary)
	}
	if got := result.GetString("audio_metadata", "format", "format_name"); got != "flac" {
		t.Errorf("audio_metadata.format.format_name = %q", got)
	}
	if got := result.GetString("audio_metadata", "streams", "0", "codec_name"); got != "flac" {
		t.Errorf("audio_metadata.streams.0.codec_name = %q", got)
	}
}

func TestVideoCollectorScan(t *testing.T) {
	opts := Options{
		Lookup: lookupFound(t),
		Probe: func(context.Context, string, string, time.Duration) (ffprobe.Result, error) {
			return movieResult(), nil
		},
	}
	c, err := NewVideo(opts)
	if err != nil {
		t.Fatalf("NewVideo: %v", err)
	}
	if err := c.CheckReadiness(); err != nil {
		t.Fatalf("readiness: %v", err)
	}

	path := writeTempFile(t, "movie.mkv", "not really matroska")
	result, err := c.Scan(context.Background(), path)
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if got := result.GetString("video_metadata", "streams", "0", "codec_name"); got != "h264" {
		t.Errorf("video_metadata.streams.0.codec_name = %q", got)
	}
	if got := result.GetString("video_metadata", "streams", "1", "codec_name"); got != "aac" {
		t.Errorf("video_metadata.streams.1.codec_name = %q", got)
	}
}

func TestVideoCollectorProbeErrorFailsScan(t *testing.T) {
	opts := Options{
		Lookup: lookupFound(t),
		Probe: func(context.Context, string, string, time.Duration) (ffprobe.Result, error) {
			return ffprobe.Result{}, ffprobe.ErrProbeTimeout
		},
	}
	c, err := NewVideo(opts)
	if err != nil {
		t.Fatalf("NewVideo: %v", err)
	}
	if err := c.CheckReadiness(); err != nil {
		t.Fatalf("readiness: %v", err)
	}

	path := writeTempFile(t, "movie.mkv", "x")
	if _, err := c.Scan(context.Background(), path); !errors.Is(err, ffprobe.ErrProbeTimeout) {
		t.Fatalf("expected ErrProbeTimeout, got %v", err)
	}
}

func TestMultimediaCollectorClassifiesField(t *testing.T) {
	tests := []struct {
		name      string
		result    ffprobe.Result
		wantField string
	}{
		{"video streams present", movieResult(), "video_metadata"},
		{"audio only", audioOnlyResult(), "audio_metadata"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := Options{
				Lookup: lookupFound(t),
				Probe: func(context.Context, string, string, time.Duration) (ffprobe.Result, error) {
					return tt.result, nil
				},
			}
			c, err := NewMultimedia(opts)
			if err != nil {
				t.Fatalf("NewMultimedia: %v", err)
			}
			if err := c.CheckReadiness(); err != nil {
				t.Fatalf("readiness: %v", err)
			}

			path := writeTempFile(t, "clip", "payload")
			result, err := c.Scan(context.Background(), path)
			if err != nil {
				t.Fatalf("scan: %v", err)
			}
			keys := result.Keys()
			if len(keys) != 1 || keys[0] != tt.wantField {
				t.Fatalf("result keys %v, want [%s]", keys, tt.wantField)
			}
		})
	}
}

func TestMultimediaPatternsCoverBothClasses(t *testing.T) {
	c, err := NewMultimedia(Options{Lookup: lookupFound(t)})
	if err != nil {
		t.Fatalf("NewMultimedia: %v", err)
	}
	patterns := c.Patterns()
	if len(patterns) != 2 || patterns[0] != "video/*" || patterns[1] != "audio/*" {
		t.Fatalf("patterns = %v", patterns)
	}
	reqs := c.Requirements()
	if len(reqs) != 1 || reqs[0].Name != "FFprobe" {
		t.Fatalf("requirements = %v", reqs)
	}
}
