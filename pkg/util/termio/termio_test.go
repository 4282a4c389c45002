package termio

import (
	"testing"

	"github.com/consensys/go-armasm/pkg/util/assert"
)

func TestAnsiEscape(t *testing.T) {
	assert.Equal(t, "\033[m", NewAnsiEscape().Build())
	assert.Equal(t, "\033[31m", NewAnsiEscape().FgColour(TERM_RED).Build())
	assert.Equal(t, "\033[1;33m", BoldAnsiEscape().FgColour(TERM_YELLOW).Build())
	assert.Equal(t, "\033[0m", ResetAnsiEscape().Build())
}

func TestStyler(t *testing.T) {
	escape := BoldAnsiEscape().FgColour(TERM_RED)
	//
	assert.Equal(t, "error", PlainStyler().Style(escape, "error"))
	assert.Equal(t, "\033[1;31merror\033[0m", Styler{true}.Style(escape, "error"))
	assert.Equal(t, "", Styler{true}.Style(escape, ""))
}
