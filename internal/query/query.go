// Package query parses the compact colon-delimited query language:
//
//	scope:categories:assignees[:sortBy]
//
// Scope is "file"/"f", "open"/"o", or anything else for the whole project.
// Categories and assignees are comma-separated lists where "*" matches any
// value. The optional sort key is "file", "type"/"category" or "assignee".
package query

import (
	"strings"

	tverrors "github.com/standardbeagle/todoview/internal/errors"
)

// DefaultEmptyQuery is run when the query string is empty
const DefaultEmptyQuery = "*:*:*"

// Wildcard matches any value in a filter list
const Wildcard = "*"

// Scope selects which sources a query searches
type Scope int

const (
	ScopeAll Scope = iota
	ScopeFile
	ScopeOpen
)

func (s Scope) String() string {
	switch s {
	case ScopeFile:
		return "file"
	case ScopeOpen:
		return "open"
	default:
		return "all"
	}
}

// ParseScope maps a scope token onto a Scope. Unknown tokens mean ScopeAll.
func ParseScope(token string) Scope {
	switch token {
	case "file", "f":
		return ScopeFile
	case "open", "o":
		return ScopeOpen
	default:
		return ScopeAll
	}
}

// SortKey orders the groups of a result set
type SortKey int

const (
	SortNone SortKey = iota
	SortPath
	SortCategory
	SortAssignee
)

func (k SortKey) String() string {
	switch k {
	case SortPath:
		return "file"
	case SortCategory:
		return "category"
	case SortAssignee:
		return "assignee"
	default:
		return "none"
	}
}

// ParseSortKey maps a sort token onto a SortKey. Unknown tokens mean SortNone.
func ParseSortKey(token string) SortKey {
	switch token {
	case "file":
		return SortPath
	case "type", "category":
		return SortCategory
	case "assignee":
		return SortAssignee
	default:
		return SortNone
	}
}

// sortTokens are the recognized sort field values, used for suggestions
var sortTokens = []string{"file", "type", "category", "assignee"}

// Query is a parsed query string
type Query struct {
	Raw        string  `json:"raw"`
	Scope      Scope   `json:"-"`
	ScopeToken string  `json:"scope"`
	Categories Filter  `json:"categories"`
	Assignees  Filter  `json:"assignees"`
	SortBy     SortKey `json:"-"`
	SortToken  string  `json:"sort,omitempty"`
}

// Parser parses query strings. The zero value treats an empty query as an error.
type Parser struct {
	// EmptyQuery is substituted for an empty query string; empty disables it
	EmptyQuery string
}

// NewParser returns a parser that runs DefaultEmptyQuery for empty input
func NewParser() *Parser {
	return &Parser{EmptyQuery: DefaultEmptyQuery}
}

// Parse parses a query string using DefaultEmptyQuery for empty input
func Parse(s string) (*Query, error) {
	return NewParser().Parse(s)
}

// Parse splits s into three or four fields. Any other field count is a
// ParseError; no other input is rejected.
func (p *Parser) Parse(s string) (*Query, error) {
	raw := s
	if s == "" && p != nil && p.EmptyQuery != "" {
		s = p.EmptyQuery
	}

	fields := strings.Split(s, ":")
	if len(fields) != 3 && len(fields) != 4 {
		return nil, tverrors.NewParseError(raw, len(fields), tverrors.ErrFieldCount)
	}

	q := &Query{
		Raw:        raw,
		Scope:      ParseScope(fields[0]),
		ScopeToken: fields[0],
		Categories: ParseFilter(fields[1]),
		Assignees:  ParseFilter(fields[2]),
	}
	if len(fields) == 4 {
		q.SortToken = fields[3]
		q.SortBy = ParseSortKey(fields[3])
	}
	return q, nil
}

// String renders the query in canonical form
func (q *Query) String() string {
	parts := []string{q.ScopeToken, q.Categories.String(), q.Assignees.String()}
	if q.SortToken != "" {
		parts = append(parts, q.SortToken)
	}
	return strings.Join(parts, ":")
}
