package probe

import (
	"context"
	"fmt"
	"os"

	"github.com/go-audio/wav"
)

// WAV reads the RIFF/WAVE header directly.
type WAV struct{}

// Probe divides the total file size by the header's average byte rate. The
// size includes the header bytes.
func (WAV) Probe(_ context.Context, path string) (float64, error) {
	file, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrUnreadable, err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrUnreadable, err)
	}

	decoder := wav.NewDecoder(file)
	if !decoder.IsValidFile() {
		if err := decoder.Err(); err != nil {
			return 0, fmt.Errorf("%w: decode header of %s: %w", ErrUnreadable, path, err)
		}
		return 0, fmt.Errorf("%w: %s is not a valid wav file", ErrUnreadable, path)
	}
	return durationFromRate(info.Size(), float64(decoder.AvgBytesPerSec))
}
