package display

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// textStyles are bound to the destination writer so colors are dropped
// when it is not a terminal
type textStyles struct {
	heading lipgloss.Style
	path    lipgloss.Style
	status  lipgloss.Style
	warning lipgloss.Style
	err     lipgloss.Style
}

func newTextStyles(w io.Writer) textStyles {
	r := lipgloss.NewRenderer(w)
	return textStyles{
		heading: r.NewStyle().Bold(true).Foreground(lipgloss.Color("170")),
		path:    r.NewStyle().Faint(true),
		status:  r.NewStyle().Italic(true),
		warning: r.NewStyle().Foreground(lipgloss.Color("214")),
		err:     r.NewStyle().Bold(true).Foreground(lipgloss.Color("196")),
	}
}

// renderText writes the quick-panel listing: heading and message on one
// line, the display location below it.
func renderText(w io.Writer, rep Report) error {
	st := newTextStyles(w)
	var sb strings.Builder

	if rep.Error != "" {
		sb.WriteString(st.err.Render(rep.Status))
		sb.WriteString(": ")
		sb.WriteString(rep.Error)
		sb.WriteString("\n")
		_, err := io.WriteString(w, sb.String())
		return err
	}

	for _, warning := range rep.Warnings {
		sb.WriteString(st.warning.Render("warning: " + warning))
		sb.WriteString("\n")
	}

	width := 0
	for _, g := range rep.Groups {
		for _, m := range g.Matches {
			width = max(width, lipgloss.Width(m.Heading))
		}
	}

	for _, g := range rep.Groups {
		for _, m := range g.Matches {
			heading := m.Heading + strings.Repeat(" ", width-lipgloss.Width(m.Heading))
			fmt.Fprintf(&sb, "%s  %s\n", st.heading.Render(heading), m.Message)
			fmt.Fprintf(&sb, "%s  %s\n", strings.Repeat(" ", width), st.path.Render(m.Location(g.DisplayPath)))
		}
	}

	sb.WriteString(st.status.Render(rep.Status))
	sb.WriteString("\n")

	_, err := io.WriteString(w, sb.String())
	return err
}
