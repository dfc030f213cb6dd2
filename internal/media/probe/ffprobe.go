package probe

import (
	"context"
	"fmt"
	"math"

	"corpusmix/internal/media/ffprobe"
)

// FFprobe asks an external ffprobe binary for size and byte rate. It accepts
// any container ffprobe understands.
type FFprobe struct {
	Binary string
}

// Probe applies the same size/byte-rate formula as WAV. When ffprobe reports
// no bit rate the container duration is used instead.
func (p FFprobe) Probe(ctx context.Context, path string) (float64, error) {
	result, err := ffprobe.Inspect(ctx, p.Binary, path)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrUnreadable, err)
	}
	if result.AudioStreamCount() == 0 {
		return 0, fmt.Errorf("%w: %s has no audio stream", ErrUnreadable, path)
	}
	if rate := result.BytesPerSecond(); rate > 0 && result.SizeBytes() > 0 {
		return durationFromRate(result.SizeBytes(), rate)
	}
	seconds := result.DurationSeconds()
	if math.IsNaN(seconds) || seconds <= 0 {
		return 0, fmt.Errorf("%w: %s reports no duration", ErrUnreadable, path)
	}
	return seconds, nil
}
