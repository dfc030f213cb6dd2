package main

import (
	"context"
	"errors"
	"fmt"
	"os"
)

func main() {
	os.Exit(run())
}

// run executes the command tree and maps its outcome to an exit code. An
// interrupted merge exits non-zero without repeating the cancellation.
func run() int {
	err := newRootCommand().Execute()
	if err == nil {
		return 0
	}
	if !errors.Is(err, context.Canceled) {
		fmt.Fprintln(os.Stderr, "corpusmix:", err)
	}
	return 1
}
