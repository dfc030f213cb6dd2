package probe

import (
	"context"
	"errors"
	"fmt"

	"corpusmix/internal/config"
)

// ErrUnreadable reports that a clip could not be opened or decoded.
var ErrUnreadable = errors.New("audio unreadable")

// Prober returns the playback duration of the clip at path, in seconds.
type Prober interface {
	Probe(ctx context.Context, path string) (float64, error)
}

// Func adapts a plain function to the Prober interface.
type Func func(ctx context.Context, path string) (float64, error)

// Probe calls f.
func (f Func) Probe(ctx context.Context, path string) (float64, error) {
	return f(ctx, path)
}

// New returns the prober selected by the configured backend.
func New(cfg config.Probe) (Prober, error) {
	switch cfg.Backend {
	case config.ProbeBackendWAV, "":
		return WAV{}, nil
	case config.ProbeBackendFFprobe:
		return FFprobe{Binary: cfg.FFprobeBinary}, nil
	default:
		return nil, fmt.Errorf("probe backend %q not supported", cfg.Backend)
	}
}

func durationFromRate(size int64, bytesPerSecond float64) (float64, error) {
	if bytesPerSecond <= 0 {
		return 0, fmt.Errorf("%w: byte rate is zero", ErrUnreadable)
	}
	return float64(size) / bytesPerSecond, nil
}
