package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	tverrors "github.com/standardbeagle/todoview/internal/errors"
	"github.com/standardbeagle/todoview/internal/pathfilter"
	"github.com/standardbeagle/todoview/internal/query"
)

// Validator validates configuration and sets smart defaults
type Validator struct{}

// NewValidator creates a new configuration validator
func NewValidator() *Validator {
	return &Validator{}
}

// ValidateAndSetDefaults validates configuration and applies smart defaults.
// Every problem found is reported, wrapped in a MultiError.
func (v *Validator) ValidateAndSetDefaults(cfg *Config) error {
	v.setSmartDefaults(cfg)

	var errs []error
	errs = append(errs, v.validateCategories(cfg.Categories)...)
	errs = append(errs, v.validateRoots(cfg.Roots)...)
	errs = append(errs, v.validateExclude(cfg.Exclude)...)
	errs = append(errs, v.validateQueryConfig(&cfg.Query)...)
	errs = append(errs, v.validateOutputConfig(&cfg.Output)...)

	return tverrors.NewMultiError(errs).ErrorOrNil()
}

// validateCategories checks that every keyword can appear in a query filter
func (v *Validator) validateCategories(categories []string) []error {
	if len(categories) == 0 {
		return []error{tverrors.NewConfigError("categories", "", tverrors.ErrNoCategories)}
	}

	var errs []error
	for _, c := range categories {
		if c == "" || strings.ContainsAny(c, " \t\r\n:,()") {
			errs = append(errs, tverrors.NewConfigError("categories", c,
				errors.New("category must be non-empty without whitespace, ':', ',' or parentheses")))
		}
	}
	return errs
}

// validateRoots validates project roots
func (v *Validator) validateRoots(roots []string) []error {
	if len(roots) == 0 {
		return []error{tverrors.NewConfigError("roots", "", errors.New("at least one project root is required"))}
	}
	var errs []error
	for _, r := range roots {
		if r == "" {
			errs = append(errs, tverrors.NewConfigError("roots", r, errors.New("project root cannot be empty")))
		}
	}
	return errs
}

// validateExclude checks that wildcard patterns compile
func (v *Validator) validateExclude(rules pathfilter.Rules) []error {
	var errs []error
	check := func(field string, patterns []string) {
		for _, p := range patterns {
			if pathfilter.IsWildcard(p) && !doublestar.ValidatePattern(p) {
				errs = append(errs, tverrors.NewConfigError(field, p, doublestar.ErrBadPattern))
			}
		}
	}
	check("exclude.folders", rules.FolderExclude)
	check("exclude.binary", rules.BinaryFile)
	check("exclude.files", rules.FileExclude)
	return errs
}

// validateQueryConfig checks that the empty query default is itself a valid query
func (v *Validator) validateQueryConfig(q *Query) []error {
	if q.EmptyQuery == "" {
		return nil
	}
	if _, err := (&query.Parser{}).Parse(q.EmptyQuery); err != nil {
		return []error{tverrors.NewConfigError("query.empty_query", q.EmptyQuery, err)}
	}
	return nil
}

// validateOutputConfig validates output configuration
func (v *Validator) validateOutputConfig(out *Output) []error {
	if !IsOutputFormat(out.Format) {
		return []error{tverrors.NewConfigError("output.format", out.Format,
			fmt.Errorf("format must be one of %s", strings.Join(OutputFormats, ", ")))}
	}
	return nil
}

// setSmartDefaults fills values left empty and removes duplicate keywords
func (v *Validator) setSmartDefaults(cfg *Config) {
	if cfg.Output.Format == "" {
		cfg.Output.Format = "text"
	}

	// Keep the first occurrence of each keyword
	seen := make(map[string]bool, len(cfg.Categories))
	categories := cfg.Categories[:0:0]
	for _, c := range cfg.Categories {
		if seen[c] {
			continue
		}
		seen[c] = true
		categories = append(categories, c)
	}
	if cfg.Categories != nil {
		cfg.Categories = categories
	}
}

// ValidateConfig is a convenience function for quick validation
func ValidateConfig(cfg *Config) error {
	validator := NewValidator()
	return validator.ValidateAndSetDefaults(cfg)
}
