// Package logging assembles the slog loggers used by the tsvmend command.
//
// It owns the console and JSON handlers, level parsing, and output routing.
// Console output colors level labels only when the destination is a terminal.
package logging
