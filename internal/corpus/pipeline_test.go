package corpus_test

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"corpusmix/internal/config"
	"corpusmix/internal/corpus"
	"corpusmix/internal/logging"
	"corpusmix/internal/media/probe"
	"corpusmix/internal/testsupport"
)

// namedDurations reports durations keyed by clip base name.
func namedDurations(durations map[string]float64) probe.Prober {
	return probe.Func(func(_ context.Context, path string) (float64, error) {
		seconds, ok := durations[filepath.Base(path)]
		if !ok {
			return 0, probe.ErrUnreadable
		}
		return seconds, nil
	})
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(data)
}

// writeScenario lays out dataset A (three train lines totalling 310 s and one
// 5 s val line) and dataset B (50 s) and returns a prober for their clips.
func writeScenario(t *testing.T, cfg *config.Config) probe.Prober {
	t.Helper()
	testsupport.WriteDataset(t, cfg.Paths.DatasetsDir, "A", testsupport.Dataset{
		Train: []testsupport.Line{
			{Clip: "wavs/a1.wav", Text: "hello"},
			{Clip: "wavs/a3.wav", Text: "there"},
			{Clip: "wavs/a4.wav", Text: "again"},
		},
		Val:   []testsupport.Line{{Clip: "wavs/a2.wav", Text: "bye"}},
		Clips: []string{"wavs/a1.wav", "wavs/a2.wav", "wavs/a3.wav", "wavs/a4.wav"},
	})
	testsupport.WriteDataset(t, cfg.Paths.DatasetsDir, "B", testsupport.Dataset{
		Train: []testsupport.Line{{Clip: "wavs/b1.wav", Text: "short"}},
		Clips: []string{"wavs/b1.wav"},
	})
	return namedDurations(map[string]float64{"a1.wav": 100, "a3.wav": 100, "a4.wav": 110, "a2.wav": 5, "b1.wav": 50})
}

func TestRunMergesAcceptedDatasets(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	prober := writeScenario(t, cfg)

	p := &corpus.Pipeline{Config: cfg, Prober: prober, Logger: logging.NewNop()}
	report, err := p.Run(context.Background())
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	wantTrain := "wavs/0_a1.wav|hello|0\nwavs/0_a3.wav|there|0\nwavs/0_a4.wav|again|0\n"
	if got := readFile(t, cfg.TrainListPath()); got != wantTrain {
		t.Fatalf("train list = %q", got)
	}
	if got := readFile(t, cfg.ValListPath()); got != "wavs/0_a2.wav|bye|0\n" {
		t.Fatalf("val list = %q", got)
	}
	for name, want := range map[string]string{"0_a1.wav": "clip:wavs/a1.wav", "0_a2.wav": "clip:wavs/a2.wav"} {
		if got := readFile(t, filepath.Join(cfg.Paths.PoolDir, name)); got != want {
			t.Fatalf("pool clip %s = %q, want %q", name, got, want)
		}
	}
	pooled, err := os.ReadDir(cfg.Paths.PoolDir)
	if err != nil {
		t.Fatal(err)
	}
	if len(pooled) != 4 {
		t.Fatalf("pool holds %d clips, want 4", len(pooled))
	}
	for _, entry := range pooled {
		if !strings.HasPrefix(entry.Name(), "0_") {
			t.Fatalf("unexpected pool entry %s", entry.Name())
		}
	}
	for _, path := range []string{cfg.TrainListPath(), cfg.ValListPath()} {
		for _, line := range strings.Split(strings.TrimSpace(readFile(t, path)), "\n") {
			clip := strings.TrimPrefix(strings.SplitN(line, "|", 2)[0], "wavs/")
			if _, err := os.Stat(filepath.Join(cfg.Paths.PoolDir, clip)); err != nil {
				t.Fatalf("manifest line %q points at missing pool file: %v", line, err)
			}
		}
	}

	var info corpus.ModelInfo
	if err := json.Unmarshal([]byte(readFile(t, cfg.ModelInfoPath())), &info); err != nil {
		t.Fatalf("decode model info: %v", err)
	}
	if info.NSpeakers != 1 || len(info.Actors) != 1 {
		t.Fatalf("unexpected model info %+v", info)
	}
	actor := info.Actors[0]
	if actor.ID != 0 || actor.Name != "A" || actor.Waveglow != "Vatras" || actor.Length != 5.25 {
		t.Fatalf("unexpected actor %+v", actor)
	}

	if report.Stats.ClipsCopied != 4 || report.Stats.TrainLines != 3 || report.Stats.ValLines != 1 {
		t.Fatalf("unexpected stats %+v", report.Stats)
	}
	if len(report.Outcomes) != 2 || report.Outcomes[1].Status != corpus.StatusTooShort {
		t.Fatalf("unexpected outcomes %+v", report.Outcomes)
	}
}

func TestModelInfoLayout(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	prober := writeScenario(t, cfg)

	p := &corpus.Pipeline{Config: cfg, Prober: prober, Logger: logging.NewNop()}
	if _, err := p.Run(context.Background()); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	want := `{
    "name": "",
    "n_speakers": 1,
    "tacotron": "",
    "train_list": "",
    "actors": [
        {
            "id": 0,
            "name": "A",
            "waveglow": "Vatras",
            "length": 5.25
        }
    ]
}
`
	if got := readFile(t, cfg.ModelInfoPath()); got != want {
		t.Fatalf("model_info.json =\n%s\nwant\n%s", got, want)
	}
}

func TestRunSkipsInvalidDatasetsAndKeepsIDsContiguous(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithWorkers(4))
	root := cfg.Paths.DatasetsDir
	testsupport.WriteDataset(t, root, "a_first", testsupport.Dataset{
		Train: []testsupport.Line{{Clip: "wavs/x.wav", Text: "one"}},
		Clips: []string{"wavs/x.wav"},
	})
	testsupport.WriteDataset(t, root, "b_broken", testsupport.Dataset{SkipValList: true})
	testsupport.WriteDataset(t, root, "c_missing_clip", testsupport.Dataset{
		Train: []testsupport.Line{{Clip: "wavs/y.wav", Text: "two"}},
	})
	testsupport.WriteDataset(t, root, "d_second", testsupport.Dataset{
		Train: []testsupport.Line{{Clip: "wavs/x.wav", Text: "three"}},
		Val:   []testsupport.Line{{Clip: "wavs/v.wav", Text: "four"}},
		Clips: []string{"wavs/x.wav", "wavs/v.wav"},
	})
	testsupport.WriteFile(t, filepath.Join(root, "README.txt"), "not a dataset")
	testsupport.WriteFile(t, filepath.Join(root, ".DS_Store"), "")

	prober := namedDurations(map[string]float64{"x.wav": 300, "y.wav": 300, "v.wav": 1})
	p := &corpus.Pipeline{Config: cfg, Prober: prober, Logger: logging.NewNop()}
	report, err := p.Run(context.Background())
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	wantTrain := "wavs/0_x.wav|one|0\nwavs/1_x.wav|three|1\n"
	if got := readFile(t, cfg.TrainListPath()); got != wantTrain {
		t.Fatalf("train list = %q, want %q", got, wantTrain)
	}
	if got := readFile(t, cfg.ValListPath()); got != "wavs/1_v.wav|four|1\n" {
		t.Fatalf("val list = %q", got)
	}
	if got := readFile(t, filepath.Join(cfg.Paths.PoolDir, "1_x.wav")); got != "clip:wavs/x.wav" {
		t.Fatalf("pool clip = %q", got)
	}

	statuses := map[string]corpus.Status{}
	for _, o := range report.Outcomes {
		statuses[o.Name] = o.Status
	}
	want := map[string]corpus.Status{
		"a_first":        corpus.StatusAccepted,
		"b_broken":       corpus.StatusInvalid,
		"c_missing_clip": corpus.StatusLoadFailed,
		"d_second":       corpus.StatusAccepted,
		"README.txt":     corpus.StatusInvalid,
	}
	if len(statuses) != len(want) {
		t.Fatalf("outcomes = %+v", report.Outcomes)
	}
	for name, status := range want {
		if statuses[name] != status {
			t.Fatalf("%s status = %v, want %v", name, statuses[name], status)
		}
	}
}

func TestRunFailsWithoutDatasetsDir(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	p := &corpus.Pipeline{Config: cfg, Prober: namedDurations(nil), Logger: logging.NewNop()}

	_, err := p.Run(context.Background())
	if !errors.Is(err, corpus.ErrDatasetsDirMissing) {
		t.Fatalf("expected ErrDatasetsDirMissing, got %v", err)
	}
	if _, statErr := os.Stat(cfg.Paths.ListsDir); !os.IsNotExist(statErr) {
		t.Fatalf("lists dir should not be created: %v", statErr)
	}
}

func TestRunFailsWhenNothingIsValid(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	testsupport.WriteDataset(t, cfg.Paths.DatasetsDir, "broken", testsupport.Dataset{SkipClipDir: true})
	p := &corpus.Pipeline{Config: cfg, Prober: namedDurations(nil), Logger: logging.NewNop()}

	_, err := p.Run(context.Background())
	if !errors.Is(err, corpus.ErrNoValidDatasets) {
		t.Fatalf("expected ErrNoValidDatasets, got %v", err)
	}
	if !strings.Contains(err.Error(), "validation") {
		t.Fatalf("expected validation diagnostic, got %v", err)
	}
}

func TestRunFailsWhenEverythingIsTooShort(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	testsupport.WriteDataset(t, cfg.Paths.DatasetsDir, "B", testsupport.Dataset{
		Train: []testsupport.Line{{Clip: "wavs/b1.wav", Text: "short"}},
		Clips: []string{"wavs/b1.wav"},
	})
	p := &corpus.Pipeline{Config: cfg, Prober: namedDurations(map[string]float64{"b1.wav": 50}), Logger: logging.NewNop()}

	if _, err := p.Run(context.Background()); !errors.Is(err, corpus.ErrNoValidDatasets) {
		t.Fatalf("expected ErrNoValidDatasets, got %v", err)
	}
	if _, err := os.Stat(cfg.ModelInfoPath()); !os.IsNotExist(err) {
		t.Fatalf("model info should not be written: %v", err)
	}
}

func TestPlanWritesNothing(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	prober := writeScenario(t, cfg)
	p := &corpus.Pipeline{Config: cfg, Prober: prober, Logger: logging.NewNop()}

	plan, err := p.Plan(context.Background())
	if err != nil {
		t.Fatalf("Plan returned error: %v", err)
	}
	if len(plan.Accepted) != 1 || plan.Accepted[0].Name != "A" {
		t.Fatalf("unexpected plan %+v", plan)
	}
	for _, dir := range []string{cfg.Paths.PoolDir, cfg.Paths.ListsDir} {
		if _, err := os.Stat(dir); !os.IsNotExist(err) {
			t.Fatalf("%s should not exist after planning: %v", dir, err)
		}
	}
}

func TestRunWithWAVProbeAndVerifiedCopies(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithVerifiedCopies())
	cfg.Corpus.MinTotalSeconds = 3
	dir := testsupport.WriteDataset(t, cfg.Paths.DatasetsDir, "speaker", testsupport.Dataset{
		Train: []testsupport.Line{{Clip: "wavs/one.wav", Text: "one"}, {Clip: "wavs/two.wav", Text: "two"}},
		Val:   []testsupport.Line{{Clip: "wavs/three.wav", Text: "three"}},
	})
	for _, name := range []string{"one.wav", "two.wav", "three.wav"} {
		testsupport.WriteWAV(t, filepath.Join(dir, "wavs", name), testsupport.WAVSampleRate)
	}

	p := &corpus.Pipeline{Config: cfg, Prober: probe.WAV{}, Logger: logging.NewNop()}
	report, err := p.Run(context.Background())
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if len(report.Accepted) != 1 {
		t.Fatalf("expected one accepted dataset, got %d", len(report.Accepted))
	}
	if report.Accepted[0].TotalSeconds < 3 {
		t.Fatalf("total seconds = %v", report.Accepted[0].TotalSeconds)
	}
	for _, name := range []string{"0_one.wav", "0_two.wav", "0_three.wav"} {
		src := readFile(t, filepath.Join(dir, "wavs", strings.TrimPrefix(name, "0_")))
		if got := readFile(t, filepath.Join(cfg.Paths.PoolDir, name)); got != src {
			t.Fatalf("pooled %s differs from source", name)
		}
	}
}

func TestRunRejectsConcurrentRun(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	prober := writeScenario(t, cfg)
	if err := cfg.EnsureOutputDirectories(); err != nil {
		t.Fatal(err)
	}
	held := flockFor(t, cfg.LockPath())
	defer held.Unlock()

	p := &corpus.Pipeline{Config: cfg, Prober: prober, Logger: logging.NewNop()}
	if _, err := p.Run(context.Background()); !errors.Is(err, corpus.ErrLocked) {
		t.Fatalf("expected ErrLocked, got %v", err)
	}
}
