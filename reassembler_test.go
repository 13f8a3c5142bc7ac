package tsvmend

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

const m = DefaultMarker

func TestReassemblerPush(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		lines   []string
		split   SplitMode
		want    [][]string
		pending []string
	}{
		{
			name:  "wellFormed",
			lines: []string{"a\tb\tc\td\te", "f\tg\th\ti\tj"},
			want: [][]string{
				{"a", "b", "c", "d", "e"},
				{"f", "g", "h", "i", "j"},
			},
		},
		{
			name:  "fullLineEmitsBeforeContinuation",
			lines: []string{"h1\th2\th3\th4\tpart1", "part2\tn1\tn2\tn3"},
			want: [][]string{
				{"h1", "h2", "h3", "h4", "part1"},
			},
			pending: []string{"part2", "n1", "n2", "n3"},
		},
		{
			name:  "continuationJoinsLastField",
			lines: []string{"h1\th2\th3\th4", "part\tn5"},
			want: [][]string{
				{"h1", "h2", "h3", "h4" + m + "part", "n5"},
			},
		},
		{
			name:  "severalBreaksInOneField",
			lines: []string{"a\tb\tc\tline1", "line2", "line3\te"},
			want: [][]string{
				{"a", "b", "c", "line1" + m + "line2" + m + "line3", "e"},
			},
		},
		{
			name:  "trailingTabCompletesRecord",
			lines: []string{"h1\th2\th3\th4\t", "n1\tn2\tn3\tn4\tn5"},
			want: [][]string{
				{"h1", "h2", "h3", "h4", ""},
				{"n1", "n2", "n3", "n4", "n5"},
			},
		},
		{
			name:  "trailingTabOpensNewField",
			lines: []string{"a\tb\t", "c\td\te"},
			want: [][]string{
				{"a", "b", m + "c", "d", "e"},
			},
		},
		{
			name:  "repairedOutputIsStable",
			lines: []string{"a\tb\tc\td\te\t", "f\tg\th\ti\t\t"},
			want: [][]string{
				{"a", "b", "c", "d", "e"},
				{"f", "g", "h", "i", ""},
			},
		},
		{
			name:  "consecutiveDelimitersKeepEmptyFields",
			lines: []string{"a\t\t\t\te"},
			want: [][]string{
				{"a", "", "", "", "e"},
			},
		},
		{
			name:  "blankLineInsideField",
			lines: []string{"a\tb\tc\tx", "", "y\te"},
			want: [][]string{
				{"a", "b", "c", "x" + m + m + "y", "e"},
			},
		},
		{
			name:    "partialRecordStaysPending",
			lines:   []string{"a\tb\tc\td\te", "f\tg"},
			want:    [][]string{{"a", "b", "c", "d", "e"}},
			pending: []string{"f", "g"},
		},
		{
			name:  "trimTrailingMatchesReference",
			split: SplitTrimTrailing,
			lines: []string{"a\tb\t", "c\td\te"},
			want: [][]string{
				{"a", "b", m + "c", "d", "e"},
			},
		},
		{
			name:  "trimTrailingAcceptsRepairedOutput",
			split: SplitTrimTrailing,
			lines: []string{"a\tb\tc\td\te\t"},
			want: [][]string{
				{"a", "b", "c", "d", "e"},
			},
		},
		{
			name:    "trimTrailingNeverCompletesOnTrailingTab",
			split:   SplitTrimTrailing,
			lines:   []string{"h1\th2\th3\th4\t"},
			pending: []string{"h1", "h2", "h3", "h4"},
		},
		{
			name:    "trimTrailingDelimiterOnlyLineContributesNothing",
			split:   SplitTrimTrailing,
			lines:   []string{"a\tb", "\t\t", "c"},
			pending: []string{"a", "b", m + "c"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			ra := NewReassembler(ReassemblerOptions{Split: tc.split})
			var got [][]string
			for _, line := range tc.lines {
				record, ok, err := ra.Push(line)
				if err != nil {
					t.Fatalf("Push(%q) returned unexpected error: %v", line, err)
				}
				if ok {
					got = append(got, record)
				}
				if n := len(ra.Remainder()); n >= DefaultColumns {
					t.Fatalf("Push(%q) left %d fields pending, want fewer than %d", line, n, DefaultColumns)
				}
			}
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("Push() records mismatch:\n got: %#v\nwant: %#v", got, tc.want)
			}
			if pending := ra.Remainder(); !reflect.DeepEqual(pending, tc.pending) {
				t.Fatalf("Remainder() = %#v, want %#v", pending, tc.pending)
			}
		})
	}
}

func TestReassemblerOverflow(t *testing.T) {
	t.Parallel()

	ra := NewReassembler(ReassemblerOptions{})
	if _, _, err := ra.Push("a\tb\tc"); err != nil {
		t.Fatalf("Push() error = %v", err)
	}
	_, ok, err := ra.Push("x\ty\tz\tw")
	if ok {
		t.Fatalf("Push() emitted a record on overflow")
	}
	if !errors.Is(err, ErrFieldOverflow) {
		t.Fatalf("Push() error = %v, want ErrFieldOverflow", err)
	}
	var lerr *LineError
	if !errors.As(err, &lerr) {
		t.Fatalf("Push() error type %T, want *LineError", err)
	}
	if lerr.Line != 2 || lerr.Fields != 6 {
		t.Fatalf("LineError = line %d fields %d, want line 2 fields 6", lerr.Line, lerr.Fields)
	}
	if rem := ra.Remainder(); rem != nil {
		t.Fatalf("Remainder() after overflow = %#v, want nil", rem)
	}
}

func TestReassemblerWideFirstLineOverflows(t *testing.T) {
	t.Parallel()

	ra := NewReassembler(ReassemblerOptions{Columns: 3})
	if _, _, err := ra.Push("a\tb\tc\td"); !errors.Is(err, ErrFieldOverflow) {
		t.Fatalf("Push() error = %v, want ErrFieldOverflow", err)
	}
}

func TestReassemblerSkipBlankLines(t *testing.T) {
	t.Parallel()

	lines := []string{"", "a\tb\tc\td\te", "", "f\tg\th\ti\tj"}

	for _, skip := range []bool{false, true} {
		ra := NewReassembler(ReassemblerOptions{SkipBlankLines: skip})
		var got [][]string
		for _, line := range lines {
			record, ok, err := ra.Push(line)
			if err != nil {
				t.Fatalf("skip=%v: Push(%q) error = %v", skip, line, err)
			}
			if ok {
				got = append(got, record)
			}
		}

		var want [][]string
		if skip {
			want = [][]string{{"a", "b", "c", "d", "e"}, {"f", "g", "h", "i", "j"}}
		} else {
			want = [][]string{{m + "a", "b", "c", "d", "e"}, {m + "f", "g", "h", "i", "j"}}
		}
		if !reflect.DeepEqual(got, want) {
			t.Fatalf("skip=%v: records mismatch:\n got: %#v\nwant: %#v", skip, got, want)
		}
	}
}

func TestReassemblerTrimModeEmptyLineJoinsLastField(t *testing.T) {
	t.Parallel()

	ra := NewReassembler(ReassemblerOptions{Split: SplitTrimTrailing})
	var got []string
	for _, line := range []string{"a\tb\tx", "", "c\td\te"} {
		record, ok, err := ra.Push(line)
		if err != nil {
			t.Fatalf("Push(%q) error = %v", line, err)
		}
		if ok {
			got = record
		}
	}

	// The empty line does not end with a delimiter, so "c" stays in the third field.
	want := []string{"a", "b", "x" + m + m + "c", "d", "e"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("record = %#v, want %#v", got, want)
	}
}

func TestReassemblerFlush(t *testing.T) {
	t.Parallel()

	ra := NewReassembler(ReassemblerOptions{})
	if _, ok := ra.Flush(); ok {
		t.Fatalf("Flush() on empty buffer reported a record")
	}
	if _, _, err := ra.Push("a\tb"); err != nil {
		t.Fatalf("Push() error = %v", err)
	}
	record, ok := ra.Flush()
	if !ok {
		t.Fatalf("Flush() reported no record")
	}
	want := []string{"a", "b", "", "", ""}
	if !reflect.DeepEqual(record, want) {
		t.Fatalf("Flush() = %#v, want %#v", record, want)
	}
	if rem := ra.Remainder(); rem != nil {
		t.Fatalf("Remainder() after Flush = %#v, want nil", rem)
	}
}

func TestReassemblerCustomOptions(t *testing.T) {
	t.Parallel()

	ra := NewReassembler(ReassemblerOptions{Columns: 2, Delimiter: ';', Marker: "<br>"})
	var got [][]string
	for _, line := range []string{"k1;first", "second", "k2;v2"} {
		record, ok, err := ra.Push(line)
		if err != nil {
			t.Fatalf("Push(%q) error = %v", line, err)
		}
		if ok {
			got = append(got, record)
		}
	}
	// "k1;first" is already two fields, so "second" starts the next record.
	want := [][]string{{"k1", "first"}, {"second<br>k2", "v2"}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("records mismatch:\n got: %#v\nwant: %#v", got, want)
	}
}

func TestReassemblerCounters(t *testing.T) {
	t.Parallel()

	ra := NewReassembler(ReassemblerOptions{})
	for _, line := range []string{"a\tb", "c", "d\te\tf\tg", "h\ti\tj\tk\tl"} {
		if _, _, err := ra.Push(line); err != nil {
			t.Fatalf("Push(%q) error = %v", line, err)
		}
	}
	if ra.Absorbed() != 2 {
		t.Fatalf("Absorbed() = %d, want 2", ra.Absorbed())
	}
	if ra.MaxJoined() != 3 {
		t.Fatalf("MaxJoined() = %d, want 3", ra.MaxJoined())
	}
}

func TestRecordIsNotAliased(t *testing.T) {
	t.Parallel()

	ra := NewReassembler(ReassemblerOptions{Columns: 1})
	first, _, _ := ra.Push("one")
	second, _, _ := ra.Push("two")
	if first[0] != "one" || second[0] != "two" {
		t.Fatalf("records alias the pending buffer: first=%q second=%q", first[0], second[0])
	}
}

func TestLineErrorMethods(t *testing.T) {
	t.Parallel()

	err := &LineError{Line: 3, Fields: 7, Err: ErrFieldOverflow}
	if got := err.Error(); !strings.Contains(got, "line 3") || !strings.Contains(got, "7 fields") {
		t.Fatalf("Error() returned %q, want descriptive output", got)
	}
	if !errors.Is(err, ErrFieldOverflow) {
		t.Fatalf("LineError should unwrap to ErrFieldOverflow")
	}

	var nilErr *LineError
	if nilErr.Error() != "" {
		t.Fatalf("nil LineError should return empty string")
	}
	if nilErr.Unwrap() != nil {
		t.Fatalf("nil LineError should return nil from Unwrap")
	}
}

func TestParseSplitMode(t *testing.T) {
	t.Parallel()

	for name, want := range map[string]SplitMode{
		"":              SplitPreserve,
		"preserve":      SplitPreserve,
		"TRIM_TRAILING": SplitTrimTrailing,
		"legacy":        SplitTrimTrailing,
	} {
		got, err := ParseSplitMode(name)
		if err != nil || got != want {
			t.Fatalf("ParseSplitMode(%q) = %v, %v; want %v", name, got, err, want)
		}
	}
	if _, err := ParseSplitMode("collapse"); err == nil {
		t.Fatalf("ParseSplitMode(collapse) expected error")
	}
	if SplitTrimTrailing.String() != "trim_trailing" {
		t.Fatalf("String() = %q", SplitTrimTrailing.String())
	}
}
