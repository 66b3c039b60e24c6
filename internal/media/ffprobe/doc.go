// Package ffprobe executes the ffprobe binary and converts its JSON output
// into the metadata tree.
//
// The full stream and format payload is retained as generic maps so every
// field ffprobe reports survives into the result; Tree renders them as a
// deterministic nested tree with streams keyed by index.
//
// Primary entry point:
//   - Inspect: executes ffprobe under a bounded timeout and parses the result
//
// Malformed tool output and timeouts surface as distinct error kinds
// (ErrMalformedOutput, ErrProbeTimeout) so callers can classify failures.
package ffprobe
