package dataset

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrMissingTrainClip rejects a dataset whose training manifest references
	// a clip that does not exist.
	ErrMissingTrainClip = errors.New("training clip missing")
	// ErrMalformedTrainLine rejects a dataset whose training manifest holds a
	// line without a field delimiter.
	ErrMalformedTrainLine = errors.New("malformed training manifest line")
	// ErrClipOutsideDataset rejects a dataset whose training manifest
	// references a clip outside its own directory.
	ErrClipOutsideDataset = errors.New("clip reference leaves the dataset directory")
)

// StructuralError lists every required item missing from a dataset directory.
type StructuralError struct {
	Dir     string
	Missing []string
}

func (e *StructuralError) Error() string {
	return fmt.Sprintf("dataset %s is incomplete: %s", e.Dir, strings.Join(e.Missing, "; "))
}

// LoadError wraps the reason a dataset was rejected while loading.
type LoadError struct {
	Dataset string
	// Path is the clip or manifest the failure points at.
	Path string
	Line int
	Err  error
}

func (e *LoadError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("dataset %s: %s line %d: %v", e.Dataset, e.Path, e.Line, e.Err)
	}
	return fmt.Sprintf("dataset %s: %s: %v", e.Dataset, e.Path, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }
