// Package annotation recognizes keyword-prefixed comments such as
// "TODO: fix this" or "FIXME(alice): refactor" in a single line of text.
//
// A Pattern is compiled once from the configured category keywords and is
// immutable afterwards, so it can be shared by concurrent queries.
package annotation

import (
	"regexp"
	"strings"
	"unicode/utf8"

	tverrors "github.com/standardbeagle/todoview/internal/errors"
)

// template is filled with the keyword alternation. Groups: 1 category, 2 assignee, 3 message.
// The leading guard is a word boundary that counts any Unicode letter or digit
// as part of a word; RE2's \b only knows ASCII.
const template = `(?:^|[^\p{L}\p{N}_])(%s)(?:\((.+)\))?: (.+)$`

// Pattern matches annotation comments for a fixed set of category keywords
type Pattern struct {
	categories []string
	line       *regexp.Regexp // one line at a time, $ anchors at end of input
	text       *regexp.Regexp // multi-line text, $ anchors at each line end
}

// Found is a single pattern hit. Start is the byte offset of the keyword and
// End the offset just past the message.
type Found struct {
	Start    int
	End      int
	Category string
	Assignee string
	Message  string
}

// Compile builds a Pattern matching any of the given keywords as whole words.
// Keyword order is kept; the leftmost keyword wins when two could match at the
// same position.
func Compile(categories []string) (*Pattern, error) {
	keywords := make([]string, 0, len(categories))
	for _, c := range categories {
		if c == "" {
			continue
		}
		keywords = append(keywords, c)
	}
	if len(keywords) == 0 {
		return nil, tverrors.NewConfigError("categories", "", tverrors.ErrNoCategories)
	}

	quoted := make([]string, len(keywords))
	for i, k := range keywords {
		quoted[i] = regexp.QuoteMeta(k)
	}
	expr := strings.Replace(template, "%s", strings.Join(quoted, "|"), 1)

	line, err := regexp.Compile(expr)
	if err != nil {
		return nil, tverrors.NewConfigError("categories", strings.Join(keywords, ","), err)
	}
	text := regexp.MustCompile("(?m)" + expr)

	return &Pattern{
		categories: keywords,
		line:       line,
		text:       text,
	}, nil
}

// Categories returns the keywords the pattern was compiled from
func (p *Pattern) Categories() []string {
	out := make([]string, len(p.categories))
	copy(out, p.categories)
	return out
}

// Regexp returns the single-line expression for callers that apply it themselves
func (p *Pattern) Regexp() *regexp.Regexp {
	return p.line
}

// String returns the source of the single-line expression
func (p *Pattern) String() string {
	return p.line.String()
}

// Match returns the leftmost annotation in line. The line must not include its
// terminator.
func (p *Pattern) Match(line string) (Found, bool) {
	loc := p.line.FindStringSubmatchIndex(line)
	if loc == nil {
		return Found{}, false
	}
	return found(line, loc), true
}

// FindAll returns every non-overlapping annotation in text in document order.
// Offsets are absolute byte offsets into text.
func (p *Pattern) FindAll(text string) []Found {
	locs := p.text.FindAllStringSubmatchIndex(text, -1)
	if len(locs) == 0 {
		return nil
	}
	out := make([]Found, 0, len(locs))
	for _, loc := range locs {
		out = append(out, found(text, loc))
	}
	return out
}

func found(s string, loc []int) Found {
	f := Found{
		Start:    loc[2],
		End:      loc[1],
		Category: s[loc[2]:loc[3]],
		Message:  s[loc[6]:loc[7]],
	}
	if loc[4] >= 0 {
		f.Assignee = s[loc[4]:loc[5]]
	}
	return f
}

// Column converts a byte offset within line into a character offset
func Column(line string, byteOffset int) int {
	if byteOffset > len(line) {
		byteOffset = len(line)
	}
	return utf8.RuneCountInString(line[:byteOffset])
}
