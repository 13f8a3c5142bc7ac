package driver

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/gofrs/flock"

	"github.com/oleg578/tsvmend"
	"github.com/oleg578/tsvmend/internal/charset"
	"github.com/oleg578/tsvmend/internal/logging"
)

var (
	// ErrInputNotFound is returned before any stream is opened when the input path does not exist.
	ErrInputNotFound = errors.New("input file does not exist")
	// ErrLocked is returned when another run holds the output lock.
	ErrLocked = errors.New("output is locked by another run")
)

// I/O operation names carried by IOError.
const (
	OpOpen  = "open"
	OpRead  = "read"
	OpWrite = "write"
	OpClose = "close"
)

// IOError records a failed file operation and the path it touched.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Job describes one repair pass.
type Job struct {
	Input          string
	Output         string
	InputEncoding  string
	OutputEncoding string
	Options        tsvmend.Options
}

// LockPath returns the lock file guarding output.
func LockPath(output string) string {
	return output + ".lock"
}

type closer struct {
	op   string
	path string
	fn   func() error
}

// Run executes job. Partially written output is left on disk when the pass fails.
func Run(job Job, logger *slog.Logger) (stats tsvmend.Stats, err error) {
	logger = logging.NewComponentLogger(logger, "driver")

	info, statErr := os.Stat(job.Input)
	switch {
	case errors.Is(statErr, fs.ErrNotExist):
		return stats, fmt.Errorf("%w: %s", ErrInputNotFound, job.Input)
	case statErr != nil:
		return stats, &IOError{Op: OpOpen, Path: job.Input, Err: statErr}
	case info.IsDir():
		return stats, &IOError{Op: OpOpen, Path: job.Input, Err: errors.New("is a directory")}
	}

	inEnc, err := charset.Lookup(job.InputEncoding)
	if err != nil {
		return stats, fmt.Errorf("input encoding: %w", err)
	}
	outEnc, err := charset.Lookup(job.OutputEncoding)
	if err != nil {
		return stats, fmt.Errorf("output encoding: %w", err)
	}

	lockPath := LockPath(job.Output)
	lock := flock.New(lockPath)
	locked, err := lock.TryLock()
	if err != nil {
		return stats, &IOError{Op: OpOpen, Path: lockPath, Err: err}
	}
	if !locked {
		return stats, fmt.Errorf("%w: %s", ErrLocked, lockPath)
	}

	// Released in reverse order of acquisition. The lock file stays on disk so
	// every run locks the same inode.
	closers := []closer{{op: OpClose, path: lockPath, fn: lock.Unlock}}
	defer func() {
		err = release(logger, closers, err)
		if err == nil {
			logStats(logger, stats)
		}
	}()

	logger.Debug("opening streams",
		slog.String(logging.FieldInput, job.Input),
		slog.String(logging.FieldOutput, job.Output),
		slog.String("input_encoding", job.InputEncoding),
		slog.String("output_encoding", job.OutputEncoding),
	)

	in, err := os.Open(job.Input)
	if err != nil {
		return stats, &IOError{Op: OpOpen, Path: job.Input, Err: err}
	}
	closers = append(closers, closer{op: OpClose, path: job.Input, fn: in.Close})

	out, err := os.Create(job.Output)
	if err != nil {
		return stats, &IOError{Op: OpOpen, Path: job.Output, Err: err}
	}
	closers = append(closers, closer{op: OpClose, path: job.Output, fn: out.Close})

	encoder := charset.NewWriter(out, outEnc)
	closers = append(closers, closer{op: OpClose, path: job.Output, fn: encoder.Close})

	stats, err = tsvmend.Repair(charset.NewReader(in, inEnc), encoder, job.Options)
	if err != nil {
		var readErr *tsvmend.ReadError
		var writeErr *tsvmend.WriteError
		switch {
		case errors.As(err, &readErr):
			err = &IOError{Op: OpRead, Path: job.Input, Err: err}
		case errors.As(err, &writeErr):
			err = &IOError{Op: OpWrite, Path: job.Output, Err: err}
		}
		return stats, err
	}
	return stats, nil
}

// release runs closers in reverse order. The first cleanup failure becomes the
// result when err is nil; otherwise cleanup failures are logged and err is kept.
func release(logger *slog.Logger, closers []closer, err error) error {
	for i := len(closers) - 1; i >= 0; i-- {
		c := closers[i]
		cerr := c.fn()
		if cerr == nil {
			continue
		}
		if err != nil {
			logger.Error("cleanup failed", slog.String("op", c.op), slog.String("path", c.path), slog.Any("error", cerr))
			continue
		}
		err = &IOError{Op: c.op, Path: c.path, Err: cerr}
	}
	return err
}

func logStats(logger *slog.Logger, stats tsvmend.Stats) {
	logger.Info("repair finished",
		slog.Int("lines", stats.Lines),
		slog.Int("records", stats.Records),
		slog.Int("absorbed", stats.Absorbed),
		slog.Int("max_joined", stats.MaxJoined),
	)
	switch {
	case stats.Flushed:
		logger.Warn("trailing partial record flushed with empty fields", slog.Int("fields", stats.LeftoverFields))
	case stats.LeftoverFields > 0:
		logger.Warn("trailing partial record dropped", slog.Int("fields", stats.LeftoverFields))
	}
}
