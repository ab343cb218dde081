package validation

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// Rule checks one value and returns nil when it is acceptable.
type Rule func(value any) *Failure

// Rules maps a field name to the rules applied to it, in order.
type Rules map[string][]Rule

var emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

func asString(value any) (string, *Failure) {
	switch s := value.(type) {
	case string:
		return s, nil
	case *string:
		if s != nil {
			return *s, nil
		}
	}
	return "", &Failure{Code: "not_a_string"}
}

// StringLength requires a string whose trimmed length, in characters, is in [min,max].
func StringLength(min, max int) Rule {
	return func(value any) *Failure {
		s, f := asString(value)
		if f != nil {
			return f
		}
		n := utf8.RuneCountInString(strings.TrimSpace(s))
		if n < min || n > max {
			return &Failure{Code: "length_between", Args: []any{min, max}}
		}
		return nil
	}
}

// MinLength requires a string of at least n characters, untrimmed.
func MinLength(n int) Rule {
	return func(value any) *Failure {
		s, f := asString(value)
		if f != nil {
			return f
		}
		if utf8.RuneCountInString(s) < n {
			return &Failure{Code: "min_length", Args: []any{n}}
		}
		return nil
	}
}

// Email requires a local@domain.tld shaped string.
func Email() Rule {
	return func(value any) *Failure {
		s, f := asString(value)
		if f != nil {
			return f
		}
		if !emailRegex.MatchString(strings.TrimSpace(s)) {
			return &Failure{Code: "invalid_email"}
		}
		return nil
	}
}

// NotBlank requires a string with at least one non-space character.
func NotBlank() Rule {
	return func(value any) *Failure {
		s, f := asString(value)
		if f != nil {
			return f
		}
		if strings.TrimSpace(s) == "" {
			return &Failure{Code: "required"}
		}
		return nil
	}
}

// Excludes rejects a string containing any of the characters in chars.
func Excludes(chars string) Rule {
	return func(value any) *Failure {
		s, f := asString(value)
		if f != nil {
			return f
		}
		if strings.ContainsAny(s, chars) {
			return &Failure{Code: "invalid_characters", Args: []any{chars}}
		}
		return nil
	}
}

// OneOf requires a string equal to one of allowed.
func OneOf(allowed ...string) Rule {
	return func(value any) *Failure {
		s, f := asString(value)
		if f != nil {
			return f
		}
		for _, a := range allowed {
			if s == a {
				return nil
			}
		}
		return &Failure{Code: "invalid_choice"}
	}
}

// Check runs the rules registered for field against value.
// Unknown fields always pass.
func (r Rules) Check(field string, value any) *Failure {
	for _, rule := range r[field] {
		if f := rule(value); f != nil {
			return f
		}
	}
	return nil
}

// Validate checks every field present in values in a single pass and
// returns nil when all of them pass.
func Validate(values map[string]any, rules Rules) *ValidationError {
	var verr *ValidationError
	for field, value := range values {
		if f := rules.Check(field, value); f != nil {
			if verr == nil {
				verr = &ValidationError{Failures: make(map[string]Failure)}
			}
			verr.Failures[field] = *f
		}
	}
	return verr
}

// RequireFields reports every listed field that is absent or blank in values.
func RequireFields(values map[string]any, fields ...string) *ValidationError {
	var verr *ValidationError
	for _, field := range fields {
		v, ok := values[field]
		blank := !ok || v == nil
		if s, isStr := v.(string); isStr && strings.TrimSpace(s) == "" {
			blank = true
		}
		if blank {
			if verr == nil {
				verr = &ValidationError{Failures: make(map[string]Failure)}
			}
			verr.Failures[field] = Failure{Code: "required"}
		}
	}
	return verr
}
