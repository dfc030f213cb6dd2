package dataset

// Layout names inside a dataset directory.
const (
	TrainListName = "list_train.txt"
	ValListName   = "list_val.txt"
	ClipDirName   = "wavs"
)

// LineEntry is one retained manifest row.
type LineEntry struct {
	// SourcePath is the clip reference exactly as written in the manifest.
	SourcePath string
	// ClipBasename is SourcePath without a leading "wavs/".
	ClipBasename string
	// Text is the transcript, untouched.
	Text string
	// ResolvedPath is the dataset directory joined with SourcePath.
	ResolvedPath string
	// DurationSeconds is 0 when the clip could not be probed.
	DurationSeconds float64
}

// Dataset is a loaded source dataset. It has no identity until the corpus
// aggregator accepts it.
type Dataset struct {
	Name  string
	Dir   string
	Train []LineEntry
	Val   []LineEntry
}

// EntryCount returns the number of retained train and validation lines.
func (d *Dataset) EntryCount() int {
	return len(d.Train) + len(d.Val)
}

// Entries calls fn for every retained line, validation lines first, which is
// the order clips are copied into the pool.
func (d *Dataset) Entries(fn func(LineEntry)) {
	for _, e := range d.Val {
		fn(e)
	}
	for _, e := range d.Train {
		fn(e)
	}
}
