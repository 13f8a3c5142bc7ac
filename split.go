package tsvmend

import (
	"fmt"
	"strings"
)

// SplitMode selects how a physical line is cut into raw tokens.
type SplitMode int

const (
	// SplitPreserve keeps every empty token, including one after a trailing delimiter.
	SplitPreserve SplitMode = iota
	// SplitTrimTrailing drops trailing empty tokens, so a line made only of
	// delimiters yields no tokens at all. This is the legacy tool's split rule;
	// an empty line still does not count as ending with a delimiter.
	SplitTrimTrailing
)

// String returns the configuration name of the mode.
func (m SplitMode) String() string {
	switch m {
	case SplitPreserve:
		return "preserve"
	case SplitTrimTrailing:
		return "trim_trailing"
	default:
		return fmt.Sprintf("SplitMode(%d)", int(m))
	}
}

// ParseSplitMode maps a configuration name onto a SplitMode.
func ParseSplitMode(name string) (SplitMode, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "preserve":
		return SplitPreserve, nil
	case "trim_trailing", "trim-trailing", "legacy":
		return SplitTrimTrailing, nil
	default:
		return SplitPreserve, fmt.Errorf("tsvmend: unknown split mode %q", name)
	}
}

// splitLine cuts line on delim. A line without delim yields the whole line as one token.
func splitLine(line string, delim byte, mode SplitMode) []string {
	tokens := strings.Split(line, string(delim))
	if mode != SplitTrimTrailing || line == "" {
		return tokens
	}
	end := len(tokens)
	for end > 0 && tokens[end-1] == "" {
		end--
	}
	return tokens[:end]
}

// endsWithDelimiter reports whether the last delimiter in line is its final byte.
func endsWithDelimiter(line string, delim byte) bool {
	return len(line) > 0 && line[len(line)-1] == delim
}
