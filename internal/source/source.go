// Package source models the two kinds of scannable input: live editor buffers
// and plain files on disk. Both expose the same Search capability so extraction
// is written once.
package source

import (
	"bufio"
	"bytes"
	"os"
	"unicode/utf8"

	"github.com/standardbeagle/todoview/internal/annotation"
	tverrors "github.com/standardbeagle/todoview/internal/errors"
)

// Kind distinguishes buffers from files
type Kind int

const (
	KindBuffer Kind = iota
	KindFile
)

func (k Kind) String() string {
	if k == KindBuffer {
		return "buffer"
	}
	return "file"
}

// Hit is a raw annotation with its position, before message formatting
type Hit struct {
	Position annotation.Position
	Found    annotation.Found
}

// Source is anything the scanner can read. Sources are borrowed for the
// duration of one scan and never retained.
type Source interface {
	// Path identifies the source; an empty path means the source has no backing file.
	Path() string
	Kind() Kind
	// Search returns the pattern's hits in document order.
	Search(p *annotation.Pattern) ([]Hit, error)
}

// File is a path on disk read as UTF-8 text, one line at a time
type File struct {
	path string
}

// NewFile creates a file source
func NewFile(path string) *File {
	return &File{path: path}
}

func (f *File) Path() string { return f.path }
func (f *File) Kind() Kind   { return KindFile }

// Search reads the file and applies the pattern once per line, keeping only the
// first hit on each line. Content that is not valid UTF-8 yields a DecodeError
// and no hits.
func (f *File) Search(p *annotation.Pattern) ([]Hit, error) {
	content, err := os.ReadFile(f.path)
	if err != nil {
		return nil, tverrors.ClassifyReadError(f.path, err)
	}
	if !utf8.Valid(content) {
		return nil, tverrors.NewDecodeError(f.path, invalidOffset(content))
	}

	var hits []Hit
	scanner := bufio.NewScanner(bytes.NewReader(content))
	scanner.Buffer(make([]byte, 0, 64*1024), len(content)+1)
	scanner.Split(ScanTextLines)
	row := 0
	for scanner.Scan() {
		line := scanner.Text()
		if found, ok := p.Match(line); ok {
			hits = append(hits, Hit{
				Position: annotation.Position{Row: row, Column: annotation.Column(line, found.Start)},
				Found:    found,
			})
		}
		row++
	}
	if err := scanner.Err(); err != nil {
		return nil, tverrors.NewFileError("scan", f.path, err)
	}
	return hits, nil
}

// ScanTextLines is a bufio.SplitFunc for text read with universal newlines:
// "\r\n", "\n" and a lone "\r" each end a line and are not part of it.
func ScanTextLines(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}
	if i := bytes.IndexAny(data, "\r\n"); i >= 0 {
		if data[i] == '\n' {
			return i + 1, data[:i], nil
		}
		// A trailing '\r' may be the first half of "\r\n"
		if i+1 == len(data) && !atEOF {
			return 0, nil, nil
		}
		if i+1 < len(data) && data[i+1] == '\n' {
			return i + 2, data[:i], nil
		}
		return i + 1, data[:i], nil
	}
	if atEOF {
		return len(data), data, nil
	}
	return 0, nil, nil
}

func invalidOffset(b []byte) int {
	for i := 0; i < len(b); {
		r, size := utf8.DecodeRune(b[i:])
		if r == utf8.RuneError && size <= 1 {
			return i
		}
		i += size
	}
	return len(b)
}
