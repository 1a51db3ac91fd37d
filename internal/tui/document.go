package tui

import (
	"fmt"
	"os"
	"strings"
)

// Document is a file loaded for display. Lines are split on newlines with
// trailing carriage returns removed; positions index runes within a line.
type Document struct {
	Path  string
	Lines [][]rune
}

// LoadDocument reads the file at path.
func LoadDocument(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return NewDocument(path, string(data)), nil
}

// NewDocument builds a document from text.
func NewDocument(path, text string) *Document {
	raw := strings.Split(text, "\n")
	if len(raw) > 1 && raw[len(raw)-1] == "" {
		raw = raw[:len(raw)-1]
	}

	lines := make([][]rune, len(raw))
	for i, l := range raw {
		lines[i] = []rune(strings.TrimSuffix(l, "\r"))
	}
	return &Document{Path: path, Lines: lines}
}

// LineCount returns the number of lines. An empty file has one empty line.
func (d *Document) LineCount() int {
	return len(d.Lines)
}

// LineLen returns the rune length of line i, or 0 when out of range.
func (d *Document) LineLen(i int) int {
	if i < 0 || i >= len(d.Lines) {
		return 0
	}
	return len(d.Lines[i])
}

// Line returns line i as a string, or "" when out of range.
func (d *Document) Line(i int) string {
	if i < 0 || i >= len(d.Lines) {
		return ""
	}
	return string(d.Lines[i])
}

// tabSpan returns how many cells a tab occupies when it starts at column col.
func tabSpan(col, width int) int {
	if width < 1 {
		width = 1
	}
	return width - col%width
}
