package dataset

import (
	"path/filepath"

	"corpusmix/internal/fileutil"
)

// Validate checks dir for the training manifest, the validation manifest and
// the clip directory. All three are checked even after a failure so the
// returned *StructuralError lists every missing item.
func Validate(dir string) error {
	var missing []string
	if !fileutil.Exists(filepath.Join(dir, TrainListName)) {
		missing = append(missing, TrainListName+" not found")
	}
	if !fileutil.Exists(filepath.Join(dir, ValListName)) {
		missing = append(missing, ValListName+" not found")
	}
	if !fileutil.Exists(filepath.Join(dir, ClipDirName)) {
		missing = append(missing, ClipDirName+" directory not found")
	}
	if len(missing) > 0 {
		return &StructuralError{Dir: dir, Missing: missing}
	}
	return nil
}
