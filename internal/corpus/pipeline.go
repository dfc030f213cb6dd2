package corpus

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"
	"golang.org/x/sync/errgroup"

	"corpusmix/internal/config"
	"corpusmix/internal/dataset"
	"corpusmix/internal/fileutil"
	"corpusmix/internal/logging"
	"corpusmix/internal/media/probe"
	"corpusmix/internal/preflight"
)

// ErrInsufficientSpace is returned when the pool filesystem cannot hold the
// clips about to be copied.
var ErrInsufficientSpace = errors.New("insufficient free space for clip pool")

// Status is where a discovered dataset ended up.
type Status int

const (
	StatusAccepted Status = iota
	StatusInvalid
	StatusLoadFailed
	StatusEmpty
	StatusTooShort
)

func (s Status) String() string {
	switch s {
	case StatusAccepted:
		return "accepted"
	case StatusInvalid:
		return "invalid"
	case StatusLoadFailed:
		return "load failed"
	case StatusEmpty:
		return "empty"
	case StatusTooShort:
		return "too short"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// Outcome describes one discovered dataset.
type Outcome struct {
	Name         string
	Dir          string
	Status       Status
	SequenceID   int
	TrainLines   int
	ValLines     int
	TotalSeconds float64
	// Reasons holds rejection diagnostics, empty when accepted.
	Reasons []string
}

// Plan is the result of discovery, validation, loading and aggregation.
type Plan struct {
	Outcomes []Outcome
	Accepted []*Accepted
	// ValidCount is the number of datasets that passed validation.
	ValidCount int
}

// Report summarises a completed merge.
type Report struct {
	*Plan
	Stats         WriteStats
	ModelInfoPath string
	Elapsed       time.Duration
}

// Pipeline runs one merge over the configured directories.
type Pipeline struct {
	Config *config.Config
	Prober probe.Prober
	Logger *slog.Logger
}

func (p *Pipeline) logger() *slog.Logger {
	return logging.NewComponentLogger(p.Logger, "pipeline")
}

// Plan discovers, validates, loads and aggregates datasets without writing
// anything. Datasets are considered in directory-name order; loading runs on
// up to Pipeline.Workers goroutines and decisions are made in that same order.
func (p *Pipeline) Plan(ctx context.Context) (*Plan, error) {
	cfg := p.Config
	logger := p.logger()

	dirs, err := discover(cfg.Paths.DatasetsDir)
	if err != nil {
		return nil, err
	}
	logger.Info("datasets discovered",
		logging.String("datasets_dir", cfg.Paths.DatasetsDir),
		logging.Int("count", len(dirs)),
	)

	plan := &Plan{Outcomes: make([]Outcome, len(dirs))}
	var valid []int
	for i, dir := range dirs {
		plan.Outcomes[i] = Outcome{Name: filepath.Base(dir), Dir: dir, SequenceID: -1}
		if err := dataset.Validate(dir); err != nil {
			reasons := []string{err.Error()}
			var structural *dataset.StructuralError
			if errors.As(err, &structural) {
				reasons = structural.Missing
			}
			plan.Outcomes[i].Status = StatusInvalid
			plan.Outcomes[i].Reasons = reasons
			logging.WarnWithContext(logger, "errors in dataset; skipped", "dataset_invalid",
				logging.String(logging.FieldDataset, plan.Outcomes[i].Name),
				logging.String(logging.FieldReason, strings.Join(reasons, "; ")),
				logging.String(logging.FieldErrorHint, "each dataset needs list_train.txt, list_val.txt and wavs/"),
				logging.String(logging.FieldImpact, "dataset excluded from the corpus"),
			)
			continue
		}
		valid = append(valid, i)
	}
	plan.ValidCount = len(valid)
	if len(valid) == 0 {
		return plan, nil
	}

	loaded, err := p.loadAll(ctx, dirs, valid)
	if err != nil {
		return nil, err
	}

	agg := &Aggregator{MinTotalSeconds: cfg.Corpus.MinTotalSeconds, VocoderTag: cfg.Corpus.VocoderTag}
	for n, i := range valid {
		out := &plan.Outcomes[i]
		res := loaded[n]
		if res.err != nil {
			out.Status = StatusLoadFailed
			out.Reasons = []string{res.err.Error()}
			logging.WarnWithContext(logger, "dataset could not be loaded; skipped", "dataset_load_failed",
				logging.String(logging.FieldDataset, out.Name),
				logging.Error(res.err),
				logging.String(logging.FieldImpact, "dataset excluded from the corpus"),
			)
			continue
		}
		out.TrainLines = len(res.ds.Train)
		out.ValLines = len(res.ds.Val)

		decision := agg.Decide(res.ds)
		out.TotalSeconds = decision.TotalSeconds
		switch decision.Kind {
		case KindAccepted:
			out.Status = StatusAccepted
			out.SequenceID = decision.Accepted.SequenceID
			plan.Accepted = append(plan.Accepted, decision.Accepted)
			logger.Info("dataset accepted",
				logging.String(logging.FieldDataset, out.Name),
				logging.Int(logging.FieldSequenceID, out.SequenceID),
				logging.Float64("minutes", decision.Accepted.TotalMinutes),
			)
		case RejectEmpty:
			out.Status = StatusEmpty
			out.Reasons = []string{decision.Reason}
			logging.WarnWithContext(logger, "dataset has no usable lines; discarded", "dataset_empty",
				logging.String(logging.FieldDataset, out.Name),
				logging.String(logging.FieldReason, decision.Reason),
				logging.String(logging.FieldErrorHint, "check that the train and val lists are not blank"),
				logging.String(logging.FieldImpact, "dataset excluded from the corpus"),
			)
		case RejectBelowThreshold:
			out.Status = StatusTooShort
			out.Reasons = []string{decision.Reason}
			logging.WarnWithContext(logger, "dataset is too short; discarded", "dataset_too_short",
				logging.String(logging.FieldDataset, out.Name),
				logging.Float64("seconds", decision.TotalSeconds),
				logging.Float64("min_seconds", cfg.Corpus.MinTotalSeconds),
				logging.String(logging.FieldImpact, "dataset excluded from the corpus"),
			)
		}
	}
	return plan, nil
}

type loadResult struct {
	ds  *dataset.Dataset
	err error
}

func (p *Pipeline) loadAll(ctx context.Context, dirs []string, valid []int) ([]loadResult, error) {
	loader := &dataset.Loader{
		Prober:          p.Prober,
		Logger:          p.Logger,
		LongClipSeconds: p.Config.Corpus.LongClipSeconds,
	}
	results := make([]loadResult, len(valid))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(p.Config.Pipeline.Workers, 1))
	for n, i := range valid {
		dir := dirs[i]
		g.Go(func() error {
			ds, err := loader.Load(gctx, dir)
			if err != nil {
				if ctxErr := gctx.Err(); ctxErr != nil {
					return ctxErr
				}
				results[n].err = err
				return nil
			}
			results[n].ds = ds
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// Run plans the merge and then writes the merged manifests, the clip pool
// and model_info.json. Nothing is written when no dataset is accepted.
func (p *Pipeline) Run(ctx context.Context) (*Report, error) {
	started := time.Now()
	cfg := p.Config
	logger := p.logger()

	plan, err := p.Plan(ctx)
	if err != nil {
		return nil, err
	}
	if plan.ValidCount == 0 {
		return nil, fmt.Errorf("%w: none of %d entries in %s passed validation", ErrNoValidDatasets, len(plan.Outcomes), cfg.Paths.DatasetsDir)
	}
	if len(plan.Accepted) == 0 {
		return nil, fmt.Errorf("%w: none of %d valid datasets was accepted", ErrNoValidDatasets, plan.ValidCount)
	}

	if err := cfg.EnsureOutputDirectories(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIOFatal, err)
	}
	lock := flock.New(cfg.LockPath())
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w (%s)", ErrLocked, cfg.LockPath())
	}
	defer func() {
		_ = lock.Unlock()
	}()

	if cfg.Pipeline.CheckFreeSpace {
		need := pooledBytes(plan.Accepted)
		result := preflight.CheckFreeSpace("Clip pool", cfg.Paths.PoolDir, need)
		if !result.Passed {
			return nil, fmt.Errorf("%w: %s", ErrInsufficientSpace, result.Detail)
		}
		logger.Debug("free space ok", logging.String("detail", result.Detail))
	}

	writer, err := OpenWriter(WriterOptions{
		PoolDir:       cfg.Paths.PoolDir,
		TrainListPath: cfg.TrainListPath(),
		ValListPath:   cfg.ValListPath(),
		VerifyCopies:  cfg.Pipeline.VerifyCopies,
		Logger:        p.Logger,
	})
	if err != nil {
		return nil, err
	}
	for _, acc := range plan.Accepted {
		if err := writer.Write(ctx, acc); err != nil {
			_ = writer.Close()
			return nil, err
		}
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}

	info := BuildModelInfo(plan.Accepted, MetadataDefaults{
		ModelName:        cfg.Corpus.ModelName,
		AcousticModelTag: cfg.Corpus.AcousticModelTag,
		TrainList:        cfg.Corpus.TrainList,
	})
	if err := WriteModelInfo(cfg.ModelInfoPath(), info); err != nil {
		return nil, err
	}

	report := &Report{
		Plan:          plan,
		Stats:         writer.Stats(),
		ModelInfoPath: cfg.ModelInfoPath(),
		Elapsed:       time.Since(started),
	}
	logger.Info("merge complete",
		logging.Int("speakers", info.NSpeakers),
		logging.Int("clips", report.Stats.ClipsCopied),
		logging.Duration("elapsed", report.Elapsed),
	)
	return report, nil
}

// discover lists dataset candidates in name order. Dot entries are ignored;
// anything else, files included, is a candidate and fails validation if it
// is not a dataset directory.
func discover(datasetsDir string) ([]string, error) {
	if !fileutil.IsDir(datasetsDir) {
		return nil, fmt.Errorf("%w: %s", ErrDatasetsDirMissing, datasetsDir)
	}
	entries, err := os.ReadDir(datasetsDir)
	if err != nil {
		return nil, fmt.Errorf("read datasets directory: %w", err)
	}
	dirs := make([]string, 0, len(entries))
	for _, entry := range entries {
		if strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		dirs = append(dirs, filepath.Join(datasetsDir, entry.Name()))
	}
	return dirs, nil
}

func pooledBytes(accepted []*Accepted) uint64 {
	var total uint64
	for _, acc := range accepted {
		acc.Entries(func(e dataset.LineEntry) {
			if info, err := os.Stat(e.ResolvedPath); err == nil && info.Size() > 0 {
				total += uint64(info.Size())
			}
		})
	}
	return total
}
