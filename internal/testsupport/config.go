package testsupport

import (
	"path/filepath"
	"testing"

	"corpusmix/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config whose input and output directories live in a
// fresh temp directory. Defaults are otherwise untouched.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.DatasetsDir = filepath.Join(base, "datasets")
	cfg.Paths.PoolDir = filepath.Join(base, "mixed_wavs")
	cfg.Paths.ListsDir = filepath.Join(base, "mixed_lists")
	cfg.Probe.CachePath = filepath.Join(base, ".corpusmix", "durations.db")
	cfg.Pipeline.CheckFreeSpace = false

	for _, opt := range opts {
		opt(&cfg)
	}
	return &cfg
}

// WithWorkers sets the parallel dataset load limit.
func WithWorkers(n int) ConfigOption {
	return func(c *config.Config) {
		c.Pipeline.Workers = n
	}
}

// WithVerifiedCopies enables checksum verification of pool copies.
func WithVerifiedCopies() ConfigOption {
	return func(c *config.Config) {
		c.Pipeline.VerifyCopies = true
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.DatasetsDir)
}
