// Package extract turns a source into annotation matches.
package extract

import (
	"github.com/standardbeagle/todoview/internal/annotation"
	"github.com/standardbeagle/todoview/internal/debug"
	tverrors "github.com/standardbeagle/todoview/internal/errors"
	"github.com/standardbeagle/todoview/internal/source"
)

// Extractor applies a compiled pattern and a message formatter to sources
type Extractor struct {
	pattern   *annotation.Pattern
	formatter annotation.Formatter
}

// New creates an extractor. A nil formatter leaves messages verbatim.
func New(pattern *annotation.Pattern, formatter annotation.Formatter) *Extractor {
	if formatter == nil {
		formatter = annotation.Verbatim
	}
	return &Extractor{pattern: pattern, formatter: formatter}
}

// Extract returns the matches in src in document order. Errors are always
// per-file (see errors.IsPerFile) and come with no matches.
func (e *Extractor) Extract(src source.Source) ([]annotation.Match, error) {
	hits, err := src.Search(e.pattern)
	if err != nil {
		if !tverrors.IsPerFile(err) {
			err = tverrors.NewFileError("search", src.Path(), err)
		}
		return nil, err
	}

	matches := make([]annotation.Match, 0, len(hits))
	for _, h := range hits {
		matches = append(matches, annotation.Match{
			Position: h.Position,
			Category: h.Found.Category,
			Assignee: h.Found.Assignee,
			Message:  e.formatter(h.Found.Message),
		})
	}
	return matches, nil
}

// ExtractOrSkip is Extract with the catch-and-continue policy applied: a
// per-file failure is logged and reported as no matches.
func (e *Extractor) ExtractOrSkip(src source.Source) []annotation.Match {
	matches, err := e.Extract(src)
	if err != nil {
		debug.LogScan("skipping %s %s: %v\n", src.Kind(), src.Path(), err)
		return nil
	}
	return matches
}
