package probe

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"corpusmix/internal/logging"
)

// CacheKey identifies one version of a clip on disk as measured by one
// backend.
type CacheKey struct {
	Backend string
	Path    string
	Size    int64
	ModTime time.Time
}

// CacheStore persists probe results between runs.
type CacheStore interface {
	Lookup(ctx context.Context, key CacheKey) (float64, bool, error)
	Save(ctx context.Context, key CacheKey, seconds float64) error
}

// Cached consults Store before delegating to Next. Failed probes are never
// stored, so a repaired clip is probed again on the next run.
type Cached struct {
	Next  Prober
	Store CacheStore
	// Backend names Next; durations from other backends are never served.
	Backend string
	Logger  *slog.Logger
}

// Probe implements Prober.
func (c Cached) Probe(ctx context.Context, path string) (float64, error) {
	key, ok := cacheKeyFor(c.Backend, path)
	if !ok || c.Store == nil {
		return c.Next.Probe(ctx, path)
	}
	logger := c.Logger
	if logger == nil {
		logger = logging.NewNop()
	}

	seconds, hit, err := c.Store.Lookup(ctx, key)
	if err != nil {
		logger.Debug("duration cache lookup failed", logging.String(logging.FieldClip, path), logging.Error(err))
	} else if hit {
		return seconds, nil
	}

	seconds, err = c.Next.Probe(ctx, path)
	if err != nil {
		return seconds, err
	}
	if err := c.Store.Save(ctx, key, seconds); err != nil {
		logger.Debug("duration cache save failed", logging.String(logging.FieldClip, path), logging.Error(err))
	}
	return seconds, nil
}

func cacheKeyFor(backend, path string) (CacheKey, bool) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return CacheKey{}, false
	}
	info, err := os.Stat(abs)
	if err != nil || info.IsDir() {
		return CacheKey{}, false
	}
	return CacheKey{Backend: backend, Path: abs, Size: info.Size(), ModTime: info.ModTime().UTC()}, true
}
