package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	if err := c.normalizeProbe(); err != nil {
		return err
	}
	c.normalizeCorpus()
	if err := c.normalizeLogging(); err != nil {
		return err
	}
	if c.Pipeline.Workers == 0 {
		c.Pipeline.Workers = defaultWorkers
	}
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.DatasetsDir) == "" {
		c.Paths.DatasetsDir = defaultDatasetsDir
	}
	if c.Paths.DatasetsDir, err = expandPath(strings.TrimSpace(c.Paths.DatasetsDir)); err != nil {
		return fmt.Errorf("paths.datasets_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.PoolDir) == "" {
		c.Paths.PoolDir = defaultPoolDir
	}
	if c.Paths.PoolDir, err = expandPath(strings.TrimSpace(c.Paths.PoolDir)); err != nil {
		return fmt.Errorf("paths.pool_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.ListsDir) == "" {
		c.Paths.ListsDir = defaultListsDir
	}
	if c.Paths.ListsDir, err = expandPath(strings.TrimSpace(c.Paths.ListsDir)); err != nil {
		return fmt.Errorf("paths.lists_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeProbe() error {
	c.Probe.Backend = strings.ToLower(strings.TrimSpace(c.Probe.Backend))
	if c.Probe.Backend == "" {
		c.Probe.Backend = defaultProbeBackend
	}
	c.Probe.FFprobeBinary = strings.TrimSpace(c.Probe.FFprobeBinary)
	if c.Probe.FFprobeBinary == "" {
		c.Probe.FFprobeBinary = defaultFFprobeBinary
	}
	if strings.TrimSpace(c.Probe.CachePath) == "" {
		c.Probe.CachePath = defaultProbeCachePath
	}
	var err error
	if c.Probe.CachePath, err = expandPath(strings.TrimSpace(c.Probe.CachePath)); err != nil {
		return fmt.Errorf("probe.cache_path: %w", err)
	}
	return nil
}

// Placeholder strings are carried verbatim; only surrounding whitespace on the
// vocoder tag is tolerated and trimmed.
func (c *Config) normalizeCorpus() {
	c.Corpus.VocoderTag = strings.TrimSpace(c.Corpus.VocoderTag)
	if c.Corpus.VocoderTag == "" {
		c.Corpus.VocoderTag = defaultVocoderTag
	}
}

func (c *Config) normalizeLogging() error {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	if file := strings.TrimSpace(c.Logging.File); file != "" {
		expanded, err := expandPath(file)
		if err != nil {
			return fmt.Errorf("logging.file: %w", err)
		}
		c.Logging.File = expanded
	}
	return nil
}
