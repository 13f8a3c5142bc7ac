package tsvmend

import (
	"errors"
	"fmt"
	"io"
)

// Options configures a single Repair pass.
type Options struct {
	ReassemblerOptions

	// UseCRLF terminates output records with \r\n.
	UseCRLF bool
	// FlushPartial writes an incomplete trailing record, padded with empty
	// fields, instead of dropping it.
	FlushPartial bool
}

// Stats summarises one Repair pass.
type Stats struct {
	Lines          int
	Records        int
	Absorbed       int
	MaxJoined      int
	LeftoverFields int
	Flushed        bool
}

// ReadError marks a failure of the line source, as opposed to the destination.
type ReadError struct {
	Line int
	Err  error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("tsvmend: read after line %d: %v", e.Line, e.Err)
}

func (e *ReadError) Unwrap() error { return e.Err }

// WriteError marks a failure of the record destination.
type WriteError struct {
	Record int
	Err    error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("tsvmend: write record %d: %v", e.Record, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

// Repair reads UTF-8 text from src, rebuilds its records, and writes them to dst.
// dst is flushed before Repair returns. The returned Stats are valid even when
// err is non-nil.
func Repair(src io.Reader, dst io.Writer, opts Options) (Stats, error) {
	var stats Stats

	lines := NewLineReader(src)
	ra := NewReassembler(opts.ReassemblerOptions)
	w := NewWriter(dst)
	w.Delimiter = ra.opts.Delimiter
	w.UseCRLF = opts.UseCRLF

	collect := func() {
		stats.Lines = lines.Line()
		stats.Records = w.Records()
		stats.Absorbed = ra.Absorbed()
		stats.MaxJoined = ra.MaxJoined()
	}

	for {
		line, err := lines.ReadLine()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			collect()
			return stats, &ReadError{Line: lines.Line(), Err: err}
		}

		record, ok, err := ra.Push(line)
		if err != nil {
			// Records completed before the bad line still reach dst.
			if ferr := w.Flush(); ferr != nil {
				err = errors.Join(err, &WriteError{Record: w.Records(), Err: ferr})
			}
			collect()
			return stats, err
		}
		if !ok {
			continue
		}
		if err := w.Write(record); err != nil {
			collect()
			return stats, &WriteError{Record: w.Records() + 1, Err: err}
		}
	}

	stats.LeftoverFields = len(ra.Remainder())
	if opts.FlushPartial {
		if record, ok := ra.Flush(); ok {
			if err := w.Write(record); err != nil {
				collect()
				return stats, &WriteError{Record: w.Records() + 1, Err: err}
			}
			stats.Flushed = true
		}
	}

	if err := w.Flush(); err != nil {
		collect()
		return stats, &WriteError{Record: w.Records(), Err: err}
	}
	collect()
	return stats, nil
}
