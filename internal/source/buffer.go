package source

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/standardbeagle/todoview/internal/annotation"
	tverrors "github.com/standardbeagle/todoview/internal/errors"
)

// TextBuffer is the host's view of an open, possibly unsaved, document
type TextBuffer interface {
	// Text returns the full current contents
	Text() string
	// RowCol converts a byte offset in Text into a 0-indexed row and character column
	RowCol(offset int) (row, col int)
}

// Buffer is a live editor buffer identified by its file path
type Buffer struct {
	path string
	text TextBuffer
}

// NewBuffer wraps a host text buffer. path may be empty for unsaved scratch buffers.
func NewBuffer(path string, text TextBuffer) *Buffer {
	return &Buffer{path: path, text: text}
}

func (b *Buffer) Path() string { return b.path }
func (b *Buffer) Kind() Kind   { return KindBuffer }

// Search scans the whole buffer text in one pass and converts each hit's offset
// through the buffer's own line index.
func (b *Buffer) Search(p *annotation.Pattern) ([]Hit, error) {
	text := b.text.Text()
	if !utf8.ValidString(text) {
		return nil, tverrors.NewDecodeError(b.path, invalidOffset([]byte(text)))
	}

	found := p.FindAll(text)
	hits := make([]Hit, 0, len(found))
	for _, f := range found {
		row, col := b.text.RowCol(f.Start)
		hits = append(hits, Hit{
			Position: annotation.Position{Row: row, Column: col},
			Found:    f,
		})
	}
	return hits, nil
}

// StringBuffer is an in-memory TextBuffer with a precomputed line index.
// Line endings ("\r\n" and a lone "\r") are normalized to "\n" the way
// editors present buffer text.
type StringBuffer struct {
	text       string
	lineStarts []int
}

// lineEndings maps "\r\n" and a lone "\r" to "\n"
var lineEndings = strings.NewReplacer("\r\n", "\n", "\r", "\n")

// NewStringBuffer creates a text buffer over s
func NewStringBuffer(s string) *StringBuffer {
	s = lineEndings.Replace(s)
	starts := []int{0}
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &StringBuffer{text: s, lineStarts: starts}
}

func (sb *StringBuffer) Text() string { return sb.text }

func (sb *StringBuffer) RowCol(offset int) (int, int) {
	if offset < 0 {
		offset = 0
	}
	if offset > len(sb.text) {
		offset = len(sb.text)
	}
	// Last line start that is <= offset
	row := sort.Search(len(sb.lineStarts), func(i int) bool {
		return sb.lineStarts[i] > offset
	}) - 1
	start := sb.lineStarts[row]
	return row, utf8.RuneCountInString(sb.text[start:offset])
}

// LineCount returns the number of lines in the buffer
func (sb *StringBuffer) LineCount() int {
	return len(sb.lineStarts)
}
