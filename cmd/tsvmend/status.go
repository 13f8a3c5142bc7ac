package main

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/oleg578/tsvmend/internal/logging"
)

// writeStatus prints the final status line, colored only on an interactive terminal.
func writeStatus(w io.Writer, message string, ok bool) {
	if logging.ColorEnabled(w) {
		colors := text.Colors{text.FgRed, text.Bold}
		if ok {
			colors = text.Colors{text.FgGreen, text.Bold}
		}
		message = colors.Sprint(message)
	}
	fmt.Fprintln(w, message)
}
