package doctor

import (
	"bufio"
	"context"
	"fmt"
	"os"

	"github.com/colonyops/codenote/internal/core/note"
)

// NoteRemover deletes notes by ID.
type NoteRemover interface {
	Remove(ctx context.Context, id string) error
}

// NotesCheck reports notes whose anchor no longer matches the file on disk:
// the file is gone, the range runs past the last line, or the status is not
// one the tool understands. Notes on missing files are fixable by removal.
type NotesCheck struct {
	lister  note.Lister
	remover NoteRemover
	autofix bool
}

// NewNotesCheck creates a notes check. When autofix is set, notes anchored to
// missing files are removed through remover.
func NewNotesCheck(lister note.Lister, remover NoteRemover, autofix bool) *NotesCheck {
	return &NotesCheck{lister: lister, remover: remover, autofix: autofix}
}

func (c *NotesCheck) Name() string {
	return "Notes"
}

func (c *NotesCheck) Run(ctx context.Context) Result {
	result := Result{Name: c.Name()}

	notes, err := c.lister.List(ctx)
	if err != nil {
		result.Items = append(result.Items, CheckItem{
			Label:  "notes",
			Status: StatusFail,
			Detail: fmt.Sprintf("cannot list: %v", err),
		})
		return result
	}

	lineCounts := make(map[string]int)
	for _, n := range notes {
		label := fmt.Sprintf("%s %s:%d", n.ID, n.FileName, n.Line())

		count, seen := lineCounts[n.FileName]
		if !seen {
			count, err = countLines(n.FileName)
			if err != nil {
				count = -1
			}
			lineCounts[n.FileName] = count
		}

		switch {
		case count < 0:
			result.Items = append(result.Items, c.missingFile(ctx, n, label))
		case n.PositionEnd.Line >= count:
			result.Items = append(result.Items, CheckItem{
				Label:  label,
				Status: StatusWarn,
				Detail: fmt.Sprintf("range ends on line %d but the file has %d", n.PositionEnd.Line+1, count),
			})
		case !n.Status.Known():
			result.Items = append(result.Items, CheckItem{
				Label:  label,
				Status: StatusWarn,
				Detail: "unknown status",
			})
		}
	}

	if len(result.Items) == 0 {
		result.Items = append(result.Items, CheckItem{
			Label:  "anchors",
			Status: StatusPass,
			Detail: fmt.Sprintf("%d note(s) match their files", len(notes)),
		})
	}
	return result
}

func (c *NotesCheck) missingFile(ctx context.Context, n note.Note, label string) CheckItem {
	if !c.autofix || c.remover == nil {
		return CheckItem{
			Label:   label,
			Status:  StatusWarn,
			Detail:  "file does not exist",
			Fixable: true,
		}
	}

	if err := c.remover.Remove(ctx, n.ID); err != nil {
		return CheckItem{
			Label:  label,
			Status: StatusFail,
			Detail: fmt.Sprintf("file does not exist, remove failed: %v", err),
		}
	}
	return CheckItem{
		Label:  label,
		Status: StatusPass,
		Detail: "file does not exist, note removed",
	}
}

// countLines returns the number of lines in path. A trailing newline does not
// start a new line and an empty file has one line.
func countLines(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer func() { _ = f.Close() }()

	count := 0
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		count++
	}
	if err := sc.Err(); err != nil {
		return 0, err
	}
	return max(count, 1), nil
}
