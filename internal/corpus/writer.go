package corpus

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"corpusmix/internal/dataset"
	"corpusmix/internal/fileutil"
	"corpusmix/internal/logging"
	"corpusmix/internal/manifest"
)

// WriterOptions configures OpenWriter.
type WriterOptions struct {
	PoolDir       string
	TrainListPath string
	ValListPath   string
	// VerifyCopies compares size and checksum of every pooled clip.
	VerifyCopies bool
	Logger       *slog.Logger
}

// WriteStats counts what a Writer has produced so far.
type WriteStats struct {
	TrainLines  int
	ValLines    int
	ClipsCopied int
	BytesCopied int64
}

// Writer owns the two merged manifests and the clip pool for one run. It is
// not safe for concurrent use; datasets must be written in ascending
// sequence id order.
type Writer struct {
	poolDir string
	train   *manifestStream
	val     *manifestStream
	copy    func(src, dst string) error
	logger  *slog.Logger

	nextID int
	stats  WriteStats
}

type manifestStream struct {
	path string
	file *os.File
	buf  *bufio.Writer
}

func openStream(path string) (*manifestStream, error) {
	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("%w: create %s: %w", ErrIOFatal, path, err)
	}
	return &manifestStream{path: path, file: file, buf: bufio.NewWriter(file)}, nil
}

func (s *manifestStream) writeLine(line string) error {
	if _, err := s.buf.WriteString(line); err != nil {
		return fmt.Errorf("%w: write %s: %w", ErrIOFatal, s.path, err)
	}
	return nil
}

func (s *manifestStream) close() error {
	flushErr := s.buf.Flush()
	closeErr := s.file.Close()
	if err := errors.Join(flushErr, closeErr); err != nil {
		return fmt.Errorf("%w: finalize %s: %w", ErrIOFatal, s.path, err)
	}
	return nil
}

// OpenWriter creates the pool directory and truncates both merged manifests.
func OpenWriter(opts WriterOptions) (*Writer, error) {
	if err := os.MkdirAll(opts.PoolDir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: create directory %s: %w", ErrIOFatal, opts.PoolDir, err)
	}
	for _, path := range []string{opts.TrainListPath, opts.ValListPath} {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("%w: create directory %s: %w", ErrIOFatal, filepath.Dir(path), err)
		}
	}

	train, err := openStream(opts.TrainListPath)
	if err != nil {
		return nil, err
	}
	val, err := openStream(opts.ValListPath)
	if err != nil {
		_ = train.close()
		return nil, err
	}

	copyFn := fileutil.CopyFile
	if opts.VerifyCopies {
		copyFn = fileutil.CopyFileVerified
	}
	return &Writer{
		poolDir: opts.PoolDir,
		train:   train,
		val:     val,
		copy:    copyFn,
		logger:  logging.NewComponentLogger(opts.Logger, "writer"),
	}, nil
}

// Write appends the dataset's manifest lines, training lines to the merged
// training manifest and validation lines to the merged validation manifest,
// then copies its clips into the pool, validation clips first.
func (w *Writer) Write(ctx context.Context, acc *Accepted) error {
	if acc == nil || acc.Dataset == nil {
		return errors.New("write: nil dataset")
	}
	if acc.SequenceID != w.nextID {
		return fmt.Errorf("write %s: sequence id %d out of order, expected %d", acc.Name, acc.SequenceID, w.nextID)
	}
	id := acc.SequenceID

	for _, e := range acc.Train {
		if err := w.train.writeLine(manifest.FormatLine(id, e.ClipBasename, e.Text)); err != nil {
			return err
		}
	}
	for _, e := range acc.Val {
		if err := w.val.writeLine(manifest.FormatLine(id, e.ClipBasename, e.Text)); err != nil {
			return err
		}
	}
	w.stats.TrainLines += len(acc.Train)
	w.stats.ValLines += len(acc.Val)

	var copyErr error
	acc.Entries(func(e dataset.LineEntry) {
		if copyErr != nil {
			return
		}
		if err := ctx.Err(); err != nil {
			copyErr = err
			return
		}
		copyErr = w.copyClip(id, e)
	})
	if copyErr != nil {
		return copyErr
	}

	w.nextID++
	w.logger.Info("dataset merged",
		logging.String(logging.FieldDataset, acc.Name),
		logging.Int(logging.FieldSequenceID, id),
		logging.Int("train_lines", len(acc.Train)),
		logging.Int("val_lines", len(acc.Val)),
		logging.Float64("minutes", acc.TotalMinutes),
	)
	return nil
}

func (w *Writer) copyClip(id int, e dataset.LineEntry) error {
	name := filepath.FromSlash(manifest.PoolName(id, e.ClipBasename))
	if !filepath.IsLocal(name) || !strings.HasPrefix(filepath.Clean(name), strconv.Itoa(id)+"_") {
		return fmt.Errorf("%w: clip %s does not map into the pool", ErrIOFatal, e.SourcePath)
	}
	dst := filepath.Join(w.poolDir, name)
	if dir := filepath.Dir(dst); dir != w.poolDir {
		// Clip references below wavs/ keep their subdirectories in the pool.
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("%w: create directory %s: %w", ErrIOFatal, dir, err)
		}
	}
	if err := w.copy(e.ResolvedPath, dst); err != nil {
		return fmt.Errorf("%w: failed to copy file from %s to %s: %w", ErrIOFatal, e.ResolvedPath, dst, err)
	}
	if info, err := os.Stat(dst); err == nil {
		w.stats.BytesCopied += info.Size()
	}
	w.stats.ClipsCopied++
	w.logger.Debug("clip copied",
		logging.String(logging.FieldClip, e.ResolvedPath),
		logging.String("destination", dst),
	)
	return nil
}

// Stats returns the counters accumulated so far.
func (w *Writer) Stats() WriteStats {
	return w.stats
}

// Close flushes and closes both manifests.
func (w *Writer) Close() error {
	return errors.Join(w.train.close(), w.val.close())
}
