package corpus_test

import (
	"testing"

	"github.com/gofrs/flock"
)

func flockFor(t *testing.T, path string) *flock.Flock {
	t.Helper()
	lock := flock.New(path)
	ok, err := lock.TryLock()
	if err != nil || !ok {
		t.Fatalf("lock %s: ok=%v err=%v", path, ok, err)
	}
	return lock
}
