package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateCorpus(); err != nil {
		return err
	}
	if err := c.validateProbe(); err != nil {
		return err
	}
	if err := c.validatePipeline(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validatePaths() error {
	if c.Paths.PoolDir == c.Paths.DatasetsDir || c.Paths.ListsDir == c.Paths.DatasetsDir {
		return errors.New("paths.pool_dir and paths.lists_dir must differ from paths.datasets_dir")
	}
	return nil
}

func (c *Config) validateCorpus() error {
	if c.Corpus.MinTotalSeconds < 0 {
		return errors.New("corpus.min_total_seconds must not be negative")
	}
	if c.Corpus.LongClipSeconds <= 0 {
		return errors.New("corpus.long_clip_seconds must be positive")
	}
	return nil
}

func (c *Config) validateProbe() error {
	switch c.Probe.Backend {
	case ProbeBackendWAV, ProbeBackendFFprobe:
		return nil
	default:
		return fmt.Errorf("probe.backend: unsupported value %q (want %q or %q)", c.Probe.Backend, ProbeBackendWAV, ProbeBackendFFprobe)
	}
}

func (c *Config) validatePipeline() error {
	if c.Pipeline.Workers < 1 {
		return errors.New("pipeline.workers must be positive")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}
