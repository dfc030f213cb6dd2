package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"corpusmix/internal/config"
	"corpusmix/internal/logging"
	"corpusmix/internal/media/probe"
	"corpusmix/internal/probecache"
)

type rootFlags struct {
	config    string
	logLevel  string
	logFormat string
}

type commandContext struct {
	flags *rootFlags

	configOnce sync.Once
	config     *config.Config
	configPath string
	configSeen bool
	configErr  error
}

func newCommandContext(flags *rootFlags) *commandContext {
	return &commandContext{flags: flags}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		cfg, path, exists, err := config.Load(strings.TrimSpace(c.flags.config))
		if err != nil {
			c.configErr = err
			return
		}
		if level := strings.TrimSpace(c.flags.logLevel); level != "" {
			cfg.Logging.Level = strings.ToLower(level)
		}
		if format := strings.TrimSpace(c.flags.logFormat); format != "" {
			cfg.Logging.Format = strings.ToLower(format)
		}
		if err := cfg.Validate(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
		c.configPath = path
		c.configSeen = exists
	})
	return c.config, c.configErr
}

// runSession bundles the per-invocation logger and prober.
type runSession struct {
	runID  string
	logger *slog.Logger
	prober probe.Prober
	close  func()
}

func (c *commandContext) openSession(ctx context.Context, logOut io.Writer) (*runSession, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	runID := uuid.NewString()
	logger, logFile, err := logging.NewFromConfig(cfg, runID, logOut)
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}
	if c.configSeen {
		logger.Debug("configuration loaded", logging.String("path", c.configPath))
	}

	prober, closeProber, err := openProber(ctx, cfg, logger)
	if err != nil {
		_ = logFile.Close()
		return nil, err
	}
	closeFn := func() {
		closeProber()
		_ = logFile.Close()
	}
	return &runSession{runID: runID, logger: logger, prober: prober, close: closeFn}, nil
}

// openProber builds the configured prober and wraps it with the duration
// cache when enabled. A cache that cannot be opened is skipped with a warning.
func openProber(ctx context.Context, cfg *config.Config, logger *slog.Logger) (probe.Prober, func(), error) {
	base, err := probe.New(cfg.Probe)
	if err != nil {
		return nil, nil, err
	}
	if !cfg.Probe.CacheEnabled {
		return base, func() {}, nil
	}
	store, err := probecache.Open(ctx, cfg.Probe.CachePath)
	if err != nil {
		logging.WarnWithContext(logger, "duration cache unavailable; probing every clip", "probe_cache_unavailable",
			logging.String("cache_path", cfg.Probe.CachePath),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check probe.cache_path permissions or disable probe.cache_enabled"),
		)
		return base, func() {}, nil
	}
	cached := probe.Cached{Next: base, Store: store, Backend: cfg.Probe.Backend, Logger: logger}
	return cached, func() { _ = store.Close() }, nil
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
