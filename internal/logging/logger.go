package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"

	"corpusmix/internal/config"
)

const (
	logFileMaxSizeMB  = 10
	logFileMaxBackups = 5
)

// Options describes logger construction parameters.
type Options struct {
	Level  string
	Format string
	// RunID, when set, is attached to every record as run_id.
	RunID string
	// Writer receives records; nil means stdout.
	Writer io.Writer
}

// New constructs a slog logger using the provided options.
func New(opts Options) (*slog.Logger, error) {
	levelVar := new(slog.LevelVar)
	levelVar.Set(parseLevel(opts.Level))

	out := opts.Writer
	if out == nil {
		out = os.Stdout
	}
	addSource := levelVar.Level() <= slog.LevelDebug

	var handler slog.Handler
	switch format := strings.ToLower(strings.TrimSpace(opts.Format)); format {
	case "json":
		handler = newJSONHandler(out, levelVar, addSource)
	case "", "console":
		handler = newPrettyHandler(out, levelVar, addSource)
	default:
		return nil, fmt.Errorf("log format: unsupported value %q", opts.Format)
	}

	if runID := strings.TrimSpace(opts.RunID); runID != "" {
		handler = handler.WithAttrs([]slog.Attr{slog.String(FieldRunID, runID)})
	}
	return slog.New(handler), nil
}

// NewFromConfig creates a logger honouring the configured format and level.
// Records go to w, or stdout when w is nil, and additionally to the rotating
// logging.file when one is configured. The returned closer releases that
// file and must be called once the logger is no longer used.
func NewFromConfig(cfg *config.Config, runID string, w io.Writer) (*slog.Logger, io.Closer, error) {
	if w == nil {
		w = os.Stdout
	}
	opts := Options{Level: "info", Format: "console", RunID: runID, Writer: w}
	var closer io.Closer = nopCloser{}
	if cfg != nil {
		opts.Level = cfg.Logging.Level
		opts.Format = cfg.Logging.Format
		if path := strings.TrimSpace(cfg.Logging.File); path != "" {
			file, err := openLogFile(path)
			if err != nil {
				return nil, nil, err
			}
			opts.Writer = io.MultiWriter(w, file)
			closer = file
		}
	}
	logger, err := New(opts)
	if err != nil {
		_ = closer.Close()
		return nil, nil, err
	}
	return logger, closer, nil
}

func openLogFile(path string) (*lumberjack.Logger, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("ensure log directory: %w", err)
	}
	return &lumberjack.Logger{
		Filename:   path,
		MaxSize:    logFileMaxSizeMB,
		MaxBackups: logFileMaxBackups,
	}, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

func parseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
