package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Probe backends understood by the duration prober.
const (
	ProbeBackendWAV     = "wav"
	ProbeBackendFFprobe = "ffprobe"
)

// Paths contains input and output directory locations.
type Paths struct {
	DatasetsDir string `toml:"datasets_dir"`
	PoolDir     string `toml:"pool_dir"`
	ListsDir    string `toml:"lists_dir"`
}

// Corpus contains acceptance thresholds and the placeholder values carried
// into model_info.json.
type Corpus struct {
	// MinTotalSeconds is the inclusive lower bound on a dataset's summed clip
	// duration. Default: 300
	MinTotalSeconds float64 `toml:"min_total_seconds"`
	// LongClipSeconds triggers an informational warning for validation clips
	// at or above this length. Default: 10
	LongClipSeconds  float64 `toml:"long_clip_seconds"`
	VocoderTag       string  `toml:"vocoder_tag"`
	ModelName        string  `toml:"model_name"`
	AcousticModelTag string  `toml:"acoustic_model_tag"`
	TrainList        string  `toml:"train_list"`
}

// Probe contains configuration for clip duration probing.
type Probe struct {
	Backend       string `toml:"backend"`
	FFprobeBinary string `toml:"ffprobe_binary"`
	CacheEnabled  bool   `toml:"cache_enabled"`
	CachePath     string `toml:"cache_path"`
}

// Pipeline contains execution settings.
type Pipeline struct {
	Workers        int  `toml:"workers"`
	VerifyCopies   bool `toml:"verify_copies"`
	CheckFreeSpace bool `toml:"check_free_space"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
	// File, when set, receives a copy of every record and is rotated by size.
	File string `toml:"file"`
}

// Config encapsulates all configuration values for corpusmix.
type Config struct {
	Paths    Paths    `toml:"paths"`
	Corpus   Corpus   `toml:"corpus"`
	Probe    Probe    `toml:"probe"`
	Pipeline Pipeline `toml:"pipeline"`
	Logging  Logging  `toml:"logging"`
}

// DefaultConfigPath returns the absolute path of the project configuration
// file in the working directory.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultProjectConfigRel)
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized. A missing file is not an error; defaults are used.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if strings.TrimSpace(path) == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			return "", false, err
		}
		path = defaultPath
	}
	expanded, err := expandPath(path)
	if err != nil {
		return "", false, err
	}
	info, err := os.Stat(expanded)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return expanded, false, nil
		}
		return "", false, fmt.Errorf("stat config: %w", err)
	}
	if info.IsDir() {
		return "", false, fmt.Errorf("config path %q is a directory", expanded)
	}
	return expanded, true, nil
}

// EnsureOutputDirectories creates the clip pool and list directories when
// they are absent.
func (c *Config) EnsureOutputDirectories() error {
	for _, dir := range []string{c.Paths.PoolDir, c.Paths.ListsDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// TrainListPath returns the merged training manifest location.
func (c *Config) TrainListPath() string {
	return filepath.Join(c.Paths.ListsDir, "list_train.txt")
}

// ValListPath returns the merged validation manifest location.
func (c *Config) ValListPath() string {
	return filepath.Join(c.Paths.ListsDir, "list_val.txt")
}

// ModelInfoPath returns the metadata file location.
func (c *Config) ModelInfoPath() string {
	return filepath.Join(c.Paths.ListsDir, "model_info.json")
}

// LockPath returns the advisory lock file guarding the output directories.
func (c *Config) LockPath() string {
	return filepath.Join(c.Paths.ListsDir, ".corpusmix.lock")
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
