// Package validation provides field-level validation for request payloads.
//
// Violations maps a field to an error code; codes are translated for clients
// with the i18n catalogue. Rules tables describe per-field constraints and are
// applied either in one pass (Validate) or on each assignment (Record).
package validation

import (
	"sort"
	"strings"

	"github.com/diewo77/go-mairie/i18n"
)

// Violations maps a field name to an error code.
type Violations map[string]string

func (v Violations) Empty() bool { return len(v) == 0 }

// Add records code for field unless the field already failed.
func (v Violations) Add(field, code string) {
	if _, ok := v[field]; !ok {
		v[field] = code
	}
}

// Basic validators
func Required(field, value string, v Violations) {
	if strings.TrimSpace(value) == "" {
		v[field] = "required"
	}
}

func PositiveFloat(field string, val float64, v Violations) {
	if val <= 0 {
		v[field] = "must_be_positive"
	}
}

func RangeFloat(field string, val, minVal, maxVal float64, v Violations) {
	if val < minVal || val > maxVal {
		v[field] = "out_of_range"
	}
}

// Failure is the outcome of a rule that rejected a value.
type Failure struct {
	Code string
	Args []any
}

// Message renders the failure in lang.
func (f Failure) Message(lang string) string {
	return i18n.Tf(lang, f.Code, f.Args...)
}

// ValidationError aggregates the failures of one validation pass.
type ValidationError struct {
	Failures map[string]Failure
}

// NewValidationError builds an error with a single failing field.
func NewValidationError(field, code string, args ...any) *ValidationError {
	return &ValidationError{Failures: map[string]Failure{field: {Code: code, Args: args}}}
}

// FromViolations converts code-only violations.
func FromViolations(v Violations) *ValidationError {
	e := &ValidationError{Failures: make(map[string]Failure, len(v))}
	for field, code := range v {
		e.Failures[field] = Failure{Code: code}
	}
	return e
}

// Error lists "field: constraint" pairs in field order, in English.
func (e *ValidationError) Error() string {
	fields := e.fields()
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, f+": "+e.Failures[f].Message("en"))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Violations returns the failing fields with their codes.
func (e *ValidationError) Violations() Violations {
	v := make(Violations, len(e.Failures))
	for field, f := range e.Failures {
		v[field] = f.Code
	}
	return v
}

// Messages returns the failing fields with messages translated to lang.
func (e *ValidationError) Messages(lang string) map[string]string {
	m := make(map[string]string, len(e.Failures))
	for field, f := range e.Failures {
		m[field] = f.Message(lang)
	}
	return m
}

// Merge adds the failures of other that are not already present.
func (e *ValidationError) Merge(other *ValidationError) {
	if other == nil {
		return
	}
	if e.Failures == nil {
		e.Failures = make(map[string]Failure)
	}
	for field, f := range other.Failures {
		if _, ok := e.Failures[field]; !ok {
			e.Failures[field] = f
		}
	}
}

func (e *ValidationError) fields() []string {
	fields := make([]string, 0, len(e.Failures))
	for f := range e.Failures {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return fields
}
