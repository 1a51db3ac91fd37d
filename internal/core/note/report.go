package note

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Report renders notes as a Markdown summary grouped by status. Notes with
// an unknown status are listed last under "Other".
func Report(notes []Note) string {
	var pending, done, other []Note
	for _, n := range notes {
		switch n.Status {
		case StatusPending:
			pending = append(pending, n)
		case StatusDone:
			done = append(done, n)
		default:
			other = append(other, n)
		}
	}

	var b strings.Builder
	b.WriteString("# Code Annotations\n\n")
	fmt.Fprintf(&b, "%d pending, %d done\n\n", len(pending), len(done))

	writeSection(&b, "Pending", pending)
	writeSection(&b, "Done", done)
	writeSection(&b, "Other", other)

	return b.String()
}

func writeSection(b *strings.Builder, title string, notes []Note) {
	if len(notes) == 0 {
		return
	}

	fmt.Fprintf(b, "## %s\n\n", title)
	for _, n := range notes {
		fmt.Fprintf(b, "### %s:%d\n\n", n.FileName, n.Line())
		b.WriteString(n.Text)
		b.WriteString("\n\n")
		if n.CodeSnippet != "" {
			fmt.Fprintf(b, "```%s\n%s\n```\n\n", fenceLanguage(n.FileName), strings.TrimRight(n.CodeSnippet, "\n"))
		}
	}
}

// fenceLanguage picks a code fence info string from the file extension.
func fenceLanguage(fileName string) string {
	ext := strings.TrimPrefix(filepath.Ext(fileName), ".")
	switch ext {
	case "ts", "tsx":
		return "typescript"
	case "js", "jsx", "mjs":
		return "javascript"
	case "py":
		return "python"
	case "rb":
		return "ruby"
	case "rs":
		return "rust"
	case "sh", "bash":
		return "shell"
	case "yml":
		return "yaml"
	case "md":
		return "markdown"
	default:
		return ext
	}
}
