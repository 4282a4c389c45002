package termio

import (
	"os"

	"golang.org/x/term"
)

// Styler wraps text in escapes when writing to a terminal, and leaves it
// untouched otherwise (e.g. when output is redirected to a file).
type Styler struct {
	enabled bool
}

// NewStyler constructs a styler for a given output file.
func NewStyler(file *os.File) Styler {
	return Styler{term.IsTerminal(int(file.Fd()))}
}

// PlainStyler constructs a styler which never writes escapes.
func PlainStyler() Styler {
	return Styler{false}
}

// Style some text with a given escape.
func (p Styler) Style(escape AnsiEscape, text string) string {
	if !p.enabled || text == "" {
		return text
	}
	//
	return escape.Build() + text + ResetAnsiEscape().Build()
}
