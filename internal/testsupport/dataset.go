package testsupport

import (
	"path/filepath"
	"strings"
	"testing"
)

// Line is one manifest row for a synthetic dataset.
type Line struct {
	Clip string
	Text string
}

// Dataset describes a source dataset laid out by WriteDataset.
type Dataset struct {
	Train []Line
	Val   []Line
	// Clips lists the files to create under the dataset directory, relative
	// to it (for example "wavs/a.wav"). Content is a short placeholder.
	Clips []string
	// SkipTrainList, SkipValList and SkipClipDir omit structural pieces.
	SkipTrainList bool
	SkipValList   bool
	SkipClipDir   bool
}

// WriteDataset lays out ds under root/name and returns the dataset directory.
func WriteDataset(t testing.TB, root, name string, ds Dataset) string {
	t.Helper()
	dir := filepath.Join(root, name)
	if !ds.SkipTrainList {
		WriteFile(t, filepath.Join(dir, "list_train.txt"), renderLines(ds.Train))
	}
	if !ds.SkipValList {
		WriteFile(t, filepath.Join(dir, "list_val.txt"), renderLines(ds.Val))
	}
	if !ds.SkipClipDir {
		WriteFile(t, filepath.Join(dir, "wavs", ".keep"), "")
		for _, clip := range ds.Clips {
			WriteFile(t, filepath.Join(dir, filepath.FromSlash(clip)), "clip:"+clip)
		}
	}
	return dir
}

func renderLines(lines []Line) string {
	var b strings.Builder
	for _, line := range lines {
		b.WriteString(line.Clip)
		b.WriteByte('|')
		b.WriteString(line.Text)
		b.WriteByte('\n')
	}
	return b.String()
}
