package query

import (
	"fmt"

	"github.com/hbollon/go-edlib"
)

// maxSuggestDistance bounds the edit distance of a "did you mean" suggestion
const maxSuggestDistance = 2

// Lint returns warnings for parts of q that can never match or are ignored:
// category filters that are not configured keywords and unknown sort tokens.
// Warnings never block a query.
func Lint(q *Query, categories []string) []string {
	var warnings []string

	if !q.Categories.Any() {
		known := make(map[string]bool, len(categories))
		for _, c := range categories {
			known[c] = true
		}
		for _, c := range q.Categories {
			if known[c] {
				continue
			}
			if best, d := closest(c, categories); best != "" && d <= maxSuggestDistance {
				warnings = append(warnings, fmt.Sprintf("unknown category '%s' (did you mean '%s'?)", c, best))
			} else {
				warnings = append(warnings, fmt.Sprintf("unknown category '%s'", c))
			}
		}
	}

	if q.SortToken != "" && q.SortBy == SortNone {
		if best, d := closest(q.SortToken, sortTokens); d <= maxSuggestDistance {
			warnings = append(warnings, fmt.Sprintf("unknown sort key '%s' (did you mean '%s'?), results are unsorted", q.SortToken, best))
		} else {
			warnings = append(warnings, fmt.Sprintf("unknown sort key '%s', results are unsorted", q.SortToken))
		}
	}

	return warnings
}

// closest finds the candidate with the smallest Levenshtein distance to input
func closest(input string, candidates []string) (string, int) {
	bestMatch := ""
	bestDistance := 1000

	for _, c := range candidates {
		distance := edlib.LevenshteinDistance(input, c)
		if distance < bestDistance {
			bestDistance = distance
			bestMatch = c
		}
	}
	return bestMatch, bestDistance
}
