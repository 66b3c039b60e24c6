package ffprobe

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"sort"
	"strconv"
	"strings"
	"time"

	"mdeco/internal/pathtree"
)

// DefaultTimeout bounds a single ffprobe invocation.
const DefaultTimeout = 30 * time.Second

var (
	// ErrMalformedOutput indicates ffprobe produced output that is not the
	// expected JSON document.
	ErrMalformedOutput = errors.New("malformed ffprobe output")
	// ErrProbeTimeout indicates the ffprobe invocation exceeded its deadline.
	ErrProbeTimeout = errors.New("ffprobe timeout")
)

// Result holds the parsed ffprobe payload. Streams and format entries are
// kept as generic maps so no reported field is dropped.
type Result struct {
	Streams []map[string]any `json:"streams"`
	Format  map[string]any   `json:"format"`
}

// Inspect executes ffprobe against the provided path and decodes the JSON
// response. A non-positive timeout falls back to DefaultTimeout.
func Inspect(ctx context.Context, binary, path string, timeout time.Duration) (Result, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = "ffprobe"
	}
	path = strings.TrimSpace(path)
	if path == "" {
		return Result{}, errors.New("ffprobe inspect: empty path")
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, binary, "-v", "error", "-hide_banner", "-show_format", "-show_streams", "-of", "json", "--", path)
	// Without a wait delay, Wait blocks until every inherited copy of the
	// output pipe closes, so a child left behind by a killed probe would hold
	// the call open past the deadline.
	cmd.WaitDelay = time.Second
	output, err := cmd.CombinedOutput()
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return Result{}, fmt.Errorf("%w: %s after %s", ErrProbeTimeout, path, timeout)
		}
		return Result{}, fmt.Errorf("ffprobe inspect: %w: %s", err, strings.TrimSpace(string(output)))
	}

	var result Result
	if err := json.Unmarshal(output, &result); err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrMalformedOutput, err)
	}
	return result, nil
}

// Tree converts the probe result into a nested tree: container metadata
// under "format" and one subtree per stream under "streams", keyed by index.
// Map keys are sorted for deterministic output.
func (r Result) Tree() *pathtree.Tree {
	tree := pathtree.New()
	if len(r.Streams) > 0 {
		streams := pathtree.New()
		for i, stream := range r.Streams {
			streams.Set(strconv.Itoa(i), treeFromMap(stream))
		}
		tree.Set("streams", streams)
	}
	if len(r.Format) > 0 {
		tree.Set("format", treeFromMap(r.Format))
	}
	return tree
}

// StreamCount returns the number of streams with the given codec type.
func (r Result) StreamCount(codecType string) int {
	count := 0
	for _, stream := range r.Streams {
		if value, ok := stream["codec_type"].(string); ok && strings.EqualFold(value, codecType) {
			count++
		}
	}
	return count
}

// VideoStreamCount returns the number of video streams discovered.
func (r Result) VideoStreamCount() int {
	return r.StreamCount("video")
}

// AudioStreamCount returns the number of audio streams discovered.
func (r Result) AudioStreamCount() int {
	return r.StreamCount("audio")
}

func treeFromMap(m map[string]any) *pathtree.Tree {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	tree := pathtree.New()
	for _, key := range keys {
		tree.Set(key, convertValue(m[key]))
	}
	return tree
}

func convertValue(v any) any {
	switch value := v.(type) {
	case map[string]any:
		return treeFromMap(value)
	case []any:
		tree := pathtree.New()
		for i, item := range value {
			tree.Set(strconv.Itoa(i), convertValue(item))
		}
		return tree
	default:
		return value
	}
}
