// Package main hosts the tsvmend command.
//
// Run with no arguments it repairs data.tsv in the working directory into
// dataOut.tsv next to it. Flags and an optional TOML config file select other
// paths, encodings, and record layouts. The command is the only place that
// prints user-facing status lines and maps failures to exit codes; the repair
// itself lives in internal/driver.
package main
