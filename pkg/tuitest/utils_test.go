package tuitest

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStripANSI(t *testing.T) {
	in := "\x1b[1;38;2;255;0;0mred\x1b[0m   \n\x1b[7mx\x1b[0m\n\n"
	assert.Equal(t, "red\nx", StripANSI(in))
}

func TestStripANSI_OSCHyperlink(t *testing.T) {
	in := "\x1b]8;;https://example.com\x07link\x1b]8;;\x07 \x1b[?25lok"
	assert.Equal(t, "link ok", StripANSI(in))
}

func TestKeyPress(t *testing.T) {
	assert.Equal(t, "j", KeyPress('j').String())
	assert.Equal(t, "enter", KeyEnter().String())
	assert.Equal(t, "tab", KeyTab().String())
	assert.Equal(t, "shift+tab", KeyShiftTab().String())
	assert.Equal(t, "esc", KeyEsc().String())
}
