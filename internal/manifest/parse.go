package manifest

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"iter"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Delimiter separates manifest fields.
const Delimiter = "|"

const maxLineBytes = 1 << 20

// ErrMissingDelimiter marks a line that does not split into a clip reference
// and a transcript.
var ErrMissingDelimiter = errors.New("line has no field delimiter")

// Record is one parsed manifest line.
type Record struct {
	// Line is the 1-based line number within the manifest.
	Line int
	// Clip is field 0, the clip reference as written.
	Clip string
	// Text is field 1, the transcript, untouched.
	Text string
	// Extra counts fields after the transcript. They are not part of Text.
	Extra int
}

// LineError reports a parse failure for a single manifest line.
type LineError struct {
	Line int
	Err  error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e *LineError) Unwrap() error { return e.Err }

// Parse lazily yields the records of a manifest stream. A leading UTF-8 byte
// order mark is removed. The newline ending the final line does not start
// another line, but every other line counts, blank ones included. A line
// without a delimiter yields a *LineError and iteration continues; the caller decides
// whether that is fatal. A read failure yields a plain error and ends the
// sequence.
func Parse(r io.Reader) iter.Seq2[Record, error] {
	return func(yield func(Record, error) bool) {
		scanner := bufio.NewScanner(transform.NewReader(r, unicode.BOMOverride(transform.Nop)))
		scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

		lineNo := 0
		for scanner.Scan() {
			lineNo++
			rec, err := parseLine(lineNo, scanner.Text())
			if !yield(rec, err) {
				return
			}
		}
		if err := scanner.Err(); err != nil {
			yield(Record{}, fmt.Errorf("read manifest: %w", err))
		}
	}
}

func parseLine(lineNo int, line string) (Record, error) {
	fields := strings.Split(line, Delimiter)
	if len(fields) < 2 {
		return Record{Line: lineNo}, &LineError{Line: lineNo, Err: ErrMissingDelimiter}
	}
	return Record{
		Line:  lineNo,
		Clip:  fields[0],
		Text:  fields[1],
		Extra: len(fields) - 2,
	}, nil
}
