package tsvmend

import (
	"bytes"
	"io"
)

const defaultBufferSize = 1 << 12 // 4096 bytes

// LineReader yields physical lines from a UTF-8 stream without their terminators.
type LineReader struct {
	src io.Reader

	buf    []byte
	bufPos int
	bufLen int
	bufErr error

	lineBuf  []byte
	finished bool
	line     int
}

// NewLineReader creates a LineReader that consumes text from r, panicking if r is nil.
func NewLineReader(r io.Reader) *LineReader {
	if r == nil {
		panic("tsvmend: line source cannot be nil")
	}
	return &LineReader{
		src:     r,
		buf:     make([]byte, defaultBufferSize),
		lineBuf: make([]byte, 0, 256),
	}
}

// ReadLine returns the next physical line. A line ends at "\n", "\r", or "\r\n";
// a final line without a terminator is still returned. io.EOF signals that no
// more lines remain.
func (r *LineReader) ReadLine() (string, error) {
	if r == nil || r.src == nil || r.finished {
		return "", io.EOF
	}

	r.lineBuf = r.lineBuf[:0]
	for {
		if r.bufPos >= r.bufLen {
			if r.bufErr != nil {
				err := r.bufErr
				r.bufErr = nil
				if err == io.EOF {
					r.finished = true
					// An unterminated tail is still a line; an empty tail is not.
					if len(r.lineBuf) > 0 {
						r.line++
						return string(r.lineBuf), nil
					}
					return "", io.EOF
				}
				return "", err
			}
			r.fill()
			continue
		}

		data := r.buf[r.bufPos:r.bufLen]
		idx := bytes.IndexAny(data, "\r\n")
		if idx == -1 {
			r.lineBuf = append(r.lineBuf, data...)
			r.bufPos = r.bufLen
			continue
		}

		r.lineBuf = append(r.lineBuf, data[:idx]...)
		r.bufPos += idx + 1
		if data[idx] == '\r' {
			// Consume the LF of a CRLF pair, even across a refill.
			next, err := r.peekByte()
			if err == nil && next == '\n' {
				r.bufPos++
			} else if err != nil && err != io.EOF {
				return "", err
			}
		}
		r.line++
		return string(r.lineBuf), nil
	}
}

// Line reports the 1-based number of the line most recently returned by ReadLine.
func (r *LineReader) Line() int {
	if r == nil {
		return 0
	}
	return r.line
}

// fill pulls the next chunk from src, keeping a read error for after the data is consumed.
func (r *LineReader) fill() {
	n, err := r.src.Read(r.buf)
	if n == 0 {
		r.bufErr = err
		return
	}
	r.bufPos = 0
	r.bufLen = n
	r.bufErr = err
}

// peekByte returns the next buffered byte (refilling from src as needed) and propagates any read error.
func (r *LineReader) peekByte() (byte, error) {
	for {
		if r.bufPos < r.bufLen {
			return r.buf[r.bufPos], nil
		}
		if r.bufErr != nil {
			return 0, r.bufErr
		}

		n, err := r.src.Read(r.buf)
		if n == 0 && err != nil {
			r.bufErr = err
			return 0, err
		}
		if n == 0 {
			continue
		}
		r.bufPos = 0
		r.bufLen = n
		r.bufErr = err
	}
}
