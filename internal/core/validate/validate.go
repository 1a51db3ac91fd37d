// Package validate provides shared validation functions.
package validate

import (
	"fmt"
	"strings"

	"github.com/hay-kot/criterio"
)

// NoteText validates a note text is non-empty after trimming whitespace.
func NoteText(text string) error {
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("text is required")
	}
	return nil
}

// NoteTextField returns a criterio validator for note texts.
func NoteTextField(field, text string) error {
	return criterio.Run(field, text, NoteText)
}

// LineNumber validates a 1-based line or column number.
func LineNumber(n int) error {
	if n < 1 {
		return fmt.Errorf("must be 1 or greater, got %d", n)
	}
	return nil
}
