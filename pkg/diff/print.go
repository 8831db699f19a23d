package diff

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

var (
	headerStyle  = lipgloss.NewStyle().Bold(true)
	addedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	removedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	contextStyle = lipgloss.NewStyle().Faint(true)
)

// Fprint writes a human-readable report for one compared file. When colorize
// is false (stdout is not a terminal) the styles are skipped.
func Fprint(w io.Writer, name string, res Result, colorize bool) {
	style := func(s lipgloss.Style, text string) string {
		if !colorize {
			return text
		}
		return s.Render(text)
	}

	switch res.Kind {
	case Identical:
		return
	case DestMissing:
		fmt.Fprintf(w, "%s\n", style(headerStyle, name+" (not deployed)"))
		return
	case SourceMissing:
		fmt.Fprintf(w, "%s\n", style(headerStyle, name+" (missing from store)"))
		return
	}

	fmt.Fprintf(w, "%s\n", style(headerStyle, name))
	if res.Binary {
		fmt.Fprintln(w, "  binary content differs")
		return
	}

	for i, hunk := range res.Hunks {
		if i > 0 {
			fmt.Fprintln(w, "  ...")
		}
		for _, line := range hunk.Lines {
			switch line.Op {
			case OpAdded:
				fmt.Fprintf(w, "%s\n", style(addedStyle, "  + "+line.Text))
			case OpRemoved:
				fmt.Fprintf(w, "%s\n", style(removedStyle, "  - "+line.Text))
			default:
				fmt.Fprintf(w, "%s\n", style(contextStyle, "    "+line.Text))
			}
		}
	}
}
