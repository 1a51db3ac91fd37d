// Package note defines the annotation records attached to source file ranges.
package note

import (
	"fmt"
	"time"
)

// Status is the review state of a note. It is stored and encoded as
// "pending" or "done"; anything else reads back as StatusUnknown.
type Status int

const (
	StatusUnknown Status = iota
	StatusPending
	StatusDone
)

// ParseStatus maps a stored status value onto Status. Values other than
// "pending" and "done" yield StatusUnknown.
func ParseStatus(s string) Status {
	switch s {
	case "pending":
		return StatusPending
	case "done":
		return StatusDone
	default:
		return StatusUnknown
	}
}

// String returns the stored form of the status. StatusUnknown has no stored
// form and returns an empty string.
func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusDone:
		return "done"
	default:
		return ""
	}
}

// Known reports whether s is pending or done.
func (s Status) Known() bool {
	return s == StatusPending || s == StatusDone
}

// Toggle returns the status a check/uncheck action sets. The second return
// value is false for StatusUnknown, which has no opposite.
func (s Status) Toggle() (Status, bool) {
	switch s {
	case StatusPending:
		return StatusDone, true
	case StatusDone:
		return StatusPending, true
	default:
		return StatusUnknown, false
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. Unrecognized values are
// accepted as StatusUnknown.
func (s *Status) UnmarshalText(text []byte) error {
	*s = ParseStatus(string(text))
	return nil
}

// Position is a zero-based line and character offset in a document.
type Position struct {
	Line      int `json:"line"`
	Character int `json:"character"`
}

// Before reports whether p comes strictly before o in document order.
func (p Position) Before(o Position) bool {
	if p.Line != o.Line {
		return p.Line < o.Line
	}
	return p.Character < o.Character
}

// String formats the position as line:character.
func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Character)
}

// Range spans two positions in a document.
type Range struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

// Contains reports whether pos falls inside the range, both ends included.
func (r Range) Contains(pos Position) bool {
	return !pos.Before(r.Start) && !r.End.Before(pos)
}

// Note is a free-text annotation anchored to a range of a file.
//
// Positions are recorded at creation time and are not adjusted when the file
// changes afterwards.
type Note struct {
	ID            string    `json:"id"`
	FileName      string    `json:"fileName"`
	PositionStart Position  `json:"positionStart"`
	PositionEnd   Position  `json:"positionEnd"`
	Text          string    `json:"text"`
	CodeSnippet   string    `json:"codeSnippet,omitempty"`
	Status        Status    `json:"status"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// Range returns the anchored range of the note.
func (n Note) Range() Range {
	return Range{Start: n.PositionStart, End: n.PositionEnd}
}

// Line returns the one-based line number the note starts on, as shown to users.
func (n Note) Line() int {
	return n.PositionStart.Line + 1
}
