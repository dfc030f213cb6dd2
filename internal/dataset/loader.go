package dataset

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"corpusmix/internal/fileutil"
	"corpusmix/internal/logging"
	"corpusmix/internal/manifest"
	"corpusmix/internal/media/probe"
)

// LinePolicy decides what a bad manifest line costs.
type LinePolicy int

const (
	// TrainPolicyAbortDataset rejects the whole dataset on the first
	// malformed line or missing clip.
	TrainPolicyAbortDataset LinePolicy = iota
	// ValPolicySkipLine drops only the offending line and logs a warning.
	ValPolicySkipLine
)

func (p LinePolicy) String() string {
	switch p {
	case TrainPolicyAbortDataset:
		return "abort_dataset"
	case ValPolicySkipLine:
		return "skip_line"
	default:
		return fmt.Sprintf("LinePolicy(%d)", int(p))
	}
}

// DefaultLongClipSeconds is the validation clip length that draws a warning.
const DefaultLongClipSeconds = 10.0

// Loader reads and probes validated datasets.
type Loader struct {
	Prober probe.Prober
	Logger *slog.Logger
	// LongClipSeconds defaults to DefaultLongClipSeconds when zero.
	LongClipSeconds float64
}

type manifestPass struct {
	name     string
	policy   LinePolicy
	warnLong bool
}

var (
	trainPass = manifestPass{name: TrainListName, policy: TrainPolicyAbortDataset}
	valPass   = manifestPass{name: ValListName, policy: ValPolicySkipLine, warnLong: true}
)

// Load parses the training manifest and then the validation manifest of the
// dataset in dir. The returned error is a *LoadError wrapping
// ErrMissingTrainClip or ErrMalformedTrainLine when the training pass rejects
// the dataset; other errors are I/O failures or context cancellation.
func (l *Loader) Load(ctx context.Context, dir string) (*Dataset, error) {
	ds := &Dataset{Name: filepath.Base(dir), Dir: dir}
	logger := logging.NewComponentLogger(l.Logger, "loader").With(logging.String(logging.FieldDataset, ds.Name))

	train, err := l.loadManifest(ctx, logger, ds, trainPass)
	if err != nil {
		return nil, err
	}
	val, err := l.loadManifest(ctx, logger, ds, valPass)
	if err != nil {
		return nil, err
	}
	ds.Train = train
	ds.Val = val

	logger.Debug("dataset loaded",
		logging.Int("train_lines", len(train)),
		logging.Int("val_lines", len(val)),
	)
	return ds, nil
}

func (l *Loader) loadManifest(ctx context.Context, logger *slog.Logger, ds *Dataset, pass manifestPass) ([]LineEntry, error) {
	path := filepath.Join(ds.Dir, pass.name)
	file, err := os.Open(path)
	if err != nil {
		return nil, &LoadError{Dataset: ds.Name, Path: pass.name, Err: err}
	}
	defer file.Close()

	logger = logger.With(logging.String(logging.FieldManifest, pass.name))
	var entries []LineEntry
	for rec, err := range manifest.Parse(file) {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		if err != nil {
			var lineErr *manifest.LineError
			if !errors.As(err, &lineErr) {
				return nil, &LoadError{Dataset: ds.Name, Path: pass.name, Err: err}
			}
			if pass.policy == TrainPolicyAbortDataset {
				return nil, &LoadError{Dataset: ds.Name, Path: pass.name, Line: lineErr.Line, Err: fmt.Errorf("%w: %w", ErrMalformedTrainLine, lineErr.Err)}
			}
			logging.WarnWithContext(logger, "manifest line has no delimiter; line skipped", "manifest_line_malformed",
				logging.Int(logging.FieldLine, lineErr.Line),
				logging.String(logging.FieldImpact, "line excluded from merged validation list"),
			)
			continue
		}

		if rec.Extra > 0 {
			logging.WarnWithContext(logger, "transcript contains extra delimiters; trailing fields dropped", "manifest_extra_fields",
				logging.Int(logging.FieldLine, rec.Line),
				logging.Int("extra_fields", rec.Extra),
				logging.String(logging.FieldImpact, "only the second field is kept as transcript"),
			)
		}

		if !manifest.IsLocalClip(rec.Clip) {
			if pass.policy == TrainPolicyAbortDataset {
				return nil, &LoadError{Dataset: ds.Name, Path: rec.Clip, Line: rec.Line, Err: ErrClipOutsideDataset}
			}
			logging.WarnWithContext(logger, "clip reference leaves the dataset; line skipped", "clip_outside_dataset",
				logging.String(logging.FieldClip, rec.Clip),
				logging.Int(logging.FieldLine, rec.Line),
				logging.String(logging.FieldImpact, "line excluded from merged validation list"),
			)
			continue
		}

		resolved := filepath.Join(ds.Dir, filepath.FromSlash(rec.Clip))
		if !fileutil.Exists(resolved) {
			if pass.policy == TrainPolicyAbortDataset {
				return nil, &LoadError{Dataset: ds.Name, Path: resolved, Line: rec.Line, Err: ErrMissingTrainClip}
			}
			logging.WarnWithContext(logger, "clip does not exist; line skipped", "clip_missing",
				logging.String(logging.FieldClip, resolved),
				logging.Int(logging.FieldLine, rec.Line),
				logging.String(logging.FieldImpact, "line excluded from merged validation list"),
			)
			continue
		}

		seconds, err := l.Prober.Probe(ctx, resolved)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			logging.WarnWithContext(logger, "clip duration unavailable; counted as zero", "clip_unreadable",
				logging.String(logging.FieldClip, resolved),
				logging.Error(err),
				logging.String(logging.FieldImpact, "clip kept but adds nothing to the dataset total"),
			)
			seconds = 0
		}
		if pass.warnLong && seconds >= l.longClipSeconds() {
			logger.Warn("validation clip is unusually long",
				logging.String(logging.FieldClip, resolved),
				logging.Float64("seconds", seconds),
				logging.Float64("threshold_seconds", l.longClipSeconds()),
				logging.String(logging.FieldEventType, "clip_long"),
			)
		}

		entries = append(entries, LineEntry{
			SourcePath:      rec.Clip,
			ClipBasename:    manifest.ClipBasename(rec.Clip),
			Text:            rec.Text,
			ResolvedPath:    resolved,
			DurationSeconds: seconds,
		})
	}
	return entries, nil
}

func (l *Loader) longClipSeconds() float64 {
	if l.LongClipSeconds > 0 {
		return l.LongClipSeconds
	}
	return DefaultLongClipSeconds
}
