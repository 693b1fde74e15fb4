package annotation

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Position is a 0-indexed row and character column within a source
type Position struct {
	Row    int `json:"row"`
	Column int `json:"column"`
}

// Match is one annotation found in a source. Matches are created per scan and
// never mutated afterwards.
type Match struct {
	Position Position `json:"position"`
	Category string   `json:"category"`
	Assignee string   `json:"assignee,omitempty"`
	Message  string   `json:"message"`
}

// Heading renders the category with its assignee, e.g. "TODO(alice)"
func (m Match) Heading() string {
	if m.Assignee == "" {
		return m.Category
	}
	return fmt.Sprintf("%s(%s)", m.Category, m.Assignee)
}

// Location encodes a navigation target as path:line:column with a 1-based line
func (m Match) Location(path string) string {
	return fmt.Sprintf("%s:%d:%d", path, m.Position.Row+1, m.Position.Column)
}

// Formatter rewrites a message at extraction time
type Formatter func(msg string) string

// truncateAfter is the message length above which an unterminated message gets a " ..." cue
const truncateAfter = 30

// FormatMessage appends " ..." to messages longer than 30 characters that do
// not end in '.', '?' or '!'.
func FormatMessage(msg string) string {
	if strings.HasSuffix(msg, ".") || strings.HasSuffix(msg, "?") || strings.HasSuffix(msg, "!") {
		return msg
	}
	if utf8.RuneCountInString(msg) > truncateAfter {
		return msg + " ..."
	}
	return msg
}

// Verbatim leaves messages untouched
func Verbatim(msg string) string {
	return msg
}
