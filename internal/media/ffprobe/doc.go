// Package ffprobe provides a typed wrapper around ffprobe JSON output for
// audio files.
//
// Key types:
//   - Result: parsed ffprobe output containing audio streams and format metadata
//   - Stream: audio stream properties (sample rate, channels, bit rate)
//   - Format: container-level metadata (duration, size, bitrate)
//
// Inspect executes ffprobe and returns the parsed Result. Helper methods on
// Result turn the string-encoded numbers into floats and integers.
package ffprobe
