package tsvmend

import (
	"errors"
	"fmt"
)

const (
	// DefaultColumns is the field count of a logical record.
	DefaultColumns = 5
	// DefaultDelimiter separates fields within a line.
	DefaultDelimiter = '\t'
	// DefaultMarker replaces every line break absorbed into a field. It is the
	// four characters ', \, n, ' and not a control character.
	DefaultMarker = `'\n'`
)

// ErrFieldOverflow is returned when joining a physical line would push a record past its column count.
var ErrFieldOverflow = errors.New("tsvmend: too many fields for record")

// LineError reports the physical line at which reassembly failed.
type LineError struct {
	Line   int
	Fields int
	Err    error
}

// Error formats the failure with the stored Line and Fields values.
func (e *LineError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("tsvmend: line %d (%d fields buffered): %v", e.Line, e.Fields, e.Err)
}

// Unwrap returns the underlying Err so LineError participates in errors.Is.
func (e *LineError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// ReassemblerOptions configures a Reassembler. Zero values select the defaults.
type ReassemblerOptions struct {
	// Columns is the number of fields in a logical record.
	Columns int
	// Delimiter is the field separator.
	Delimiter byte
	// Marker is inserted wherever a physical line break is absorbed.
	Marker string
	// Split selects the tokenization of each physical line.
	Split SplitMode
	// SkipBlankLines ignores empty lines that arrive between records.
	SkipBlankLines bool
}

func (o ReassemblerOptions) withDefaults() ReassemblerOptions {
	if o.Columns <= 0 {
		o.Columns = DefaultColumns
	}
	if o.Delimiter == 0 {
		o.Delimiter = DefaultDelimiter
	}
	if o.Marker == "" {
		o.Marker = DefaultMarker
	}
	return o
}

// Reassembler rebuilds logical records from physical lines. It owns the
// pending buffer for one pass and is not safe for concurrent use.
type Reassembler struct {
	opts ReassemblerOptions

	pending  []string
	trailing bool
	line     int

	joined    int
	absorbed  int
	maxJoined int
}

// NewReassembler returns a Reassembler with an empty pending buffer.
func NewReassembler(opts ReassemblerOptions) *Reassembler {
	opts = opts.withDefaults()
	return &Reassembler{
		opts:    opts,
		pending: make([]string, 0, opts.Columns+1),
	}
}

// Push merges the next physical line into the pending buffer. When the buffer
// reaches the column count the completed record is returned with ok set; the
// returned slice is never reused by later calls.
func (r *Reassembler) Push(line string) (record []string, ok bool, err error) {
	r.line++
	delim := r.opts.Delimiter
	trailing := endsWithDelimiter(line, delim)
	defer func() { r.trailing = trailing }()

	if line == "" && len(r.pending) == 0 && r.opts.SkipBlankLines {
		return nil, false, nil
	}

	tokens := splitLine(line, delim, r.opts.Split)
	if len(r.pending) == 0 {
		r.pending = append(r.pending, tokens...)
		r.joined = 1
	} else if len(tokens) > 0 {
		if r.trailing {
			// The previous line ended on a delimiter, so this token opens a new field.
			r.pending = append(r.pending, r.opts.Marker+tokens[0])
		} else {
			last := len(r.pending) - 1
			r.pending[last] += r.opts.Marker + tokens[0]
		}
		r.pending = append(r.pending, tokens[1:]...)
		r.joined++
		r.absorbed++
	}

	n := r.opts.Columns
	if len(r.pending) != n && trailing && r.opts.Split == SplitPreserve {
		// Drop the empty placeholder opened by the trailing delimiter.
		if last := len(r.pending) - 1; last >= 0 && r.pending[last] == "" {
			r.pending = r.pending[:last]
		}
	}

	switch {
	case len(r.pending) == n:
		record = make([]string, n)
		copy(record, r.pending)
		if r.joined > r.maxJoined {
			r.maxJoined = r.joined
		}
		r.reset()
		return record, true, nil
	case len(r.pending) > n:
		fields := len(r.pending)
		r.reset()
		return nil, false, &LineError{Line: r.line, Fields: fields, Err: ErrFieldOverflow}
	}
	return nil, false, nil
}

// Remainder returns a copy of the fields buffered for an incomplete record.
func (r *Reassembler) Remainder() []string {
	if len(r.pending) == 0 {
		return nil
	}
	out := make([]string, len(r.pending))
	copy(out, r.pending)
	return out
}

// Flush returns the incomplete record padded with empty fields to the column
// count and clears the buffer. ok is false when nothing was pending.
func (r *Reassembler) Flush() (record []string, ok bool) {
	if len(r.pending) == 0 {
		return nil, false
	}
	record = make([]string, r.opts.Columns)
	copy(record, r.pending)
	r.reset()
	return record, true
}

// Absorbed reports how many physical line breaks have been replaced by the marker.
func (r *Reassembler) Absorbed() int {
	return r.absorbed
}

// MaxJoined reports the largest number of physical lines merged into one emitted record.
func (r *Reassembler) MaxJoined() int {
	return r.maxJoined
}

func (r *Reassembler) reset() {
	r.pending = r.pending[:0]
	r.joined = 0
}
