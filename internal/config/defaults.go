package config

import "github.com/oleg578/tsvmend"

const (
	defaultInputFile      = "data.tsv"
	defaultOutputFile     = "dataOut.tsv"
	defaultInputEncoding  = "utf-16le"
	defaultOutputEncoding = "utf-8"
	defaultSplit          = "preserve"
	defaultLineEnding     = LineEndingNative
	defaultLogLevel       = "info"
	defaultLogFormat      = "console"

	envLogLevel = "TSVMEND_LOG_LEVEL"
)

// Line ending names accepted by format.line_ending.
const (
	LineEndingNative = "native"
	LineEndingLF     = "lf"
	LineEndingCRLF   = "crlf"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Files: Files{
			Input:  defaultInputFile,
			Output: defaultOutputFile,
		},
		Encoding: Encoding{
			Input:  defaultInputEncoding,
			Output: defaultOutputEncoding,
		},
		Format: Format{
			Columns:    tsvmend.DefaultColumns,
			Delimiter:  string(rune(tsvmend.DefaultDelimiter)),
			Marker:     tsvmend.DefaultMarker,
			Split:      defaultSplit,
			LineEnding: defaultLineEnding,
		},
		Logging: Logging{
			Level:  defaultLogLevel,
			Format: defaultLogFormat,
		},
	}
}
