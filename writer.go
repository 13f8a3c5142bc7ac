package tsvmend

import (
	"bufio"
	"errors"
	"io"
)

var (
	errNilWriter      = errors.New("tsvmend: writer is nil")
	errWriterNoTarget = errors.New("tsvmend: writer destination cannot be nil")
)

// Writer emits repaired records. Every field, including the last, is followed
// by the delimiter before the line terminator.
type Writer struct {
	dst *bufio.Writer

	// Delimiter follows every field. Default is '\t'.
	Delimiter byte
	// UseCRLF writes records terminated with \r\n when set.
	UseCRLF bool

	records int
	err     error
}

// NewWriter creates a new Writer with internal buffering tuned for bulk writes.
func NewWriter(w io.Writer) *Writer {
	if w == nil {
		panic(errWriterNoTarget.Error())
	}
	return &Writer{
		dst:       bufio.NewWriterSize(w, defaultBufferSize),
		Delimiter: DefaultDelimiter,
	}
}

// Reset updates the underlying writer while preserving the configuration flags.
func (w *Writer) Reset(dst io.Writer) {
	if w == nil {
		panic(errNilWriter.Error())
	}
	if dst == nil {
		panic(errWriterNoTarget.Error())
	}
	if w.dst == nil {
		w.dst = bufio.NewWriterSize(dst, defaultBufferSize)
	} else {
		w.dst.Reset(dst)
	}
	w.records = 0
	w.err = nil
}

// Write emits a single record terminated with the configured newline sequence.
// Field contents are written verbatim.
func (w *Writer) Write(record []string) error {
	if w == nil {
		return errNilWriter
	}
	if w.dst == nil {
		return errWriterNoTarget
	}
	if w.err != nil {
		return w.err
	}

	delim := w.Delimiter
	if delim == 0 {
		delim = DefaultDelimiter
	}

	for i := range record {
		if _, err := w.dst.WriteString(record[i]); err != nil {
			w.err = err
			return err
		}
		if err := w.dst.WriteByte(delim); err != nil {
			w.err = err
			return err
		}
	}

	if w.UseCRLF {
		if _, err := w.dst.Write([]byte{'\r', '\n'}); err != nil {
			w.err = err
			return err
		}
	} else {
		if err := w.dst.WriteByte('\n'); err != nil {
			w.err = err
			return err
		}
	}
	w.records++
	return nil
}

// Flush flushes pending buffered data to the underlying writer.
func (w *Writer) Flush() error {
	if w == nil {
		return errNilWriter
	}
	if w.dst == nil {
		return errWriterNoTarget
	}
	if w.err != nil {
		return w.err
	}
	if err := w.dst.Flush(); err != nil {
		w.err = err
		return err
	}
	return nil
}

// Error reports the first error encountered by the writer.
func (w *Writer) Error() error {
	if w == nil {
		return errNilWriter
	}
	return w.err
}

// Records reports how many records have been accepted since construction or the last Reset.
func (w *Writer) Records() int {
	if w == nil {
		return 0
	}
	return w.records
}
