package corpus

import "errors"

var (
	// ErrIOFatal wraps output failures (directory creation, manifest writes,
	// clip copies) that end the run.
	ErrIOFatal = errors.New("output failure")
	// ErrNoValidDatasets is returned when discovery leaves nothing to merge.
	ErrNoValidDatasets = errors.New("no valid datasets")
	// ErrDatasetsDirMissing is returned when the datasets directory is absent.
	ErrDatasetsDirMissing = errors.New("datasets directory not found")
	// ErrLocked is returned when another run holds the output lock.
	ErrLocked = errors.New("another corpusmix run is writing the same output")
)
