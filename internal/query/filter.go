package query

import "strings"

// Filter is a list of accepted values for one match field
type Filter []string

// ParseFilter splits a comma-separated field. Elements are kept verbatim, so
// an empty field yields a single empty-string element.
func ParseFilter(field string) Filter {
	return Filter(strings.Split(field, ","))
}

// Any reports whether the filter contains the wildcard
func (f Filter) Any() bool {
	for _, v := range f {
		if v == Wildcard {
			return true
		}
	}
	return false
}

// Contains reports whether value is listed literally
func (f Filter) Contains(value string) bool {
	for _, v := range f {
		if v == value {
			return true
		}
	}
	return false
}

// Matches reports whether value passes the filter
func (f Filter) Matches(value string) bool {
	return f.Any() || f.Contains(value)
}

func (f Filter) String() string {
	return strings.Join(f, ",")
}

// Options tune match acceptance
type Options struct {
	// EmptyAssigneeMatchesUnassigned lets an explicit empty assignee filter
	// element select annotations that have no assignee. When false only the
	// wildcard selects unassigned annotations.
	EmptyAssigneeMatchesUnassigned bool
}

// DefaultOptions returns the default acceptance options
func DefaultOptions() Options {
	return Options{EmptyAssigneeMatchesUnassigned: true}
}

// Accepts reports whether an annotation with the given category and assignee
// satisfies both filters.
func (q *Query) Accepts(category, assignee string, opts Options) bool {
	if !q.Categories.Matches(category) {
		return false
	}
	if q.Assignees.Any() {
		return true
	}
	if assignee == "" {
		return opts.EmptyAssigneeMatchesUnassigned && q.Assignees.Contains("")
	}
	return q.Assignees.Contains(assignee)
}
