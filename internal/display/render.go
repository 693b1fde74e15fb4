package display

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/standardbeagle/todoview/internal/engine"
)

// Render writes rs to w in opts.Format
func Render(w io.Writer, rs *engine.ResultSet, opts Options) error {
	return RenderReport(w, NewReport(rs, opts), opts.Format)
}

// RenderError writes a rejected query to w in opts.Format
func RenderError(w io.Writer, raw string, err error, opts Options) error {
	return RenderReport(w, NewErrorReport(raw, err), opts.Format)
}

// RenderReport dispatches on format. An empty format renders text.
func RenderReport(w io.Writer, rep Report, format string) error {
	switch format {
	case "", "text":
		return renderText(w, rep)
	case "locations":
		return renderLocations(w, rep)
	case "json":
		return renderJSON(w, rep)
	case "html":
		return renderHTML(w, rep)
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

// renderLocations writes one path:line:column line per match, the way
// compilers and grep -n do, so editors can jump to them.
func renderLocations(w io.Writer, rep Report) error {
	if rep.Error != "" {
		_, err := fmt.Fprintf(w, "%s: %s\n", rep.Status, rep.Error)
		return err
	}
	for _, g := range rep.Groups {
		for _, m := range g.Matches {
			if _, err := fmt.Fprintf(w, "%s: %s: %s\n", m.Location(g.DisplayPath), m.Heading, m.Message); err != nil {
				return err
			}
		}
	}
	return nil
}

func renderJSON(w io.Writer, rep Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(rep)
}
