// Package validators ships the builtin validator library: the canonical
// rule kinds (required, email, min/max, minLength/maxLength, pattern,
// oneOf), the cross-field match rule, and a markup-rejecting plain-text
// rule. Every validator resolves its message through the ambient context so
// catalogues can localize; the built-in English text is the fallback.
package validators

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"time"

	"github.com/goliatone/go-formstate/pkg/validation"
)

// Message keys resolved through validation.Context. Catalogue entries may use
// fmt verbs matching each rule's arguments.
const (
	KeyRequired  = "validation.required"
	KeyEmail     = "validation.email"
	KeyMinLength = "validation.minLength"
	KeyMaxLength = "validation.maxLength"
	KeyMin       = "validation.min"
	KeyMax       = "validation.max"
	KeyPattern   = "validation.pattern"
	KeyOneOf     = "validation.oneOf"
	KeyMatches   = "validation.matches"
	KeyPlainText = "validation.plainText"
)

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// Required fails on nil, empty or whitespace-only strings, and empty string
// slices.
func Required() validation.Validator {
	return validation.Func(func(value any, ctx validation.Context) string {
		if isEmpty(value) {
			return ctx.Message(KeyRequired, "this field is required")
		}
		return ""
	})
}

// Email accepts empty values (compose with Required) and otherwise demands a
// plausible address shape.
func Email() validation.Validator {
	return validation.Func(func(value any, ctx validation.Context) string {
		s, ok := asString(value)
		if !ok || s == "" {
			return ""
		}
		if !emailPattern.MatchString(s) {
			return ctx.Message(KeyEmail, "must be a valid email address")
		}
		return ""
	})
}

// MinLength demands at least n characters (or n elements for string
// slices). Empty values pass.
func MinLength(n int) validation.Validator {
	return validation.Func(func(value any, ctx validation.Context) string {
		length, ok := lengthOf(value)
		if !ok || length == 0 {
			return ""
		}
		if length < n {
			return ctx.Message(KeyMinLength, fmt.Sprintf("must be at least %d characters", n), n)
		}
		return ""
	})
}

// MaxLength demands at most n characters (or n elements for string slices).
func MaxLength(n int) validation.Validator {
	return validation.Func(func(value any, ctx validation.Context) string {
		length, ok := lengthOf(value)
		if !ok {
			return ""
		}
		if length > n {
			return ctx.Message(KeyMaxLength, fmt.Sprintf("must be at most %d characters", n), n)
		}
		return ""
	})
}

// Min demands a numeric value of at least limit. Non-numeric values pass.
func Min(limit float64) validation.Validator {
	return validation.Func(func(value any, ctx validation.Context) string {
		f, ok := asFloat(value)
		if !ok {
			return ""
		}
		if f < limit {
			return ctx.Message(KeyMin, fmt.Sprintf("must be at least %v", limit), limit)
		}
		return ""
	})
}

// Max demands a numeric value of at most limit. Non-numeric values pass.
func Max(limit float64) validation.Validator {
	return validation.Func(func(value any, ctx validation.Context) string {
		f, ok := asFloat(value)
		if !ok {
			return ""
		}
		if f > limit {
			return ctx.Message(KeyMax, fmt.Sprintf("must be at most %v", limit), limit)
		}
		return ""
	})
}

// Pattern demands that string values match the compiled expression. Empty
// values pass.
func Pattern(re *regexp.Regexp) validation.Validator {
	return validation.Func(func(value any, ctx validation.Context) string {
		s, ok := asString(value)
		if !ok || s == "" || re == nil {
			return ""
		}
		if !re.MatchString(s) {
			return ctx.Message(KeyPattern, fmt.Sprintf("must match %s", re.String()), re.String())
		}
		return ""
	})
}

// OneOf restricts string values to the listed options. Empty values pass.
func OneOf(options ...string) validation.Validator {
	allowed := make(map[string]struct{}, len(options))
	for _, opt := range options {
		allowed[opt] = struct{}{}
	}
	return validation.Func(func(value any, ctx validation.Context) string {
		s, ok := asString(value)
		if !ok || s == "" {
			return ""
		}
		if _, ok := allowed[s]; !ok {
			return ctx.Message(KeyOneOf, fmt.Sprintf("must be one of: %s", strings.Join(options, ", ")), strings.Join(options, ", "))
		}
		return ""
	})
}

// MatchesField is a cross-field validator demanding equality with another
// field's value, the confirm-password rule. It declares the other field as a
// dependency so editing it re-validates this one.
func MatchesField(other string) validation.CrossField {
	return validation.CrossFunc{
		Fields: []string{other},
		Check: func(value any, ctx validation.Context) string {
			if isEmpty(value) {
				return ""
			}
			if !equalValues(value, ctx.Values[other]) {
				return ctx.Message(KeyMatches, fmt.Sprintf("must match %s", other), other)
			}
			return ""
		},
	}
}

// RequiredWhen is a cross-field validator that makes a field mandatory
// whenever another field holds the expected value.
func RequiredWhen(other string, expected any) validation.CrossField {
	return validation.CrossFunc{
		Fields: []string{other},
		Check: func(value any, ctx validation.Context) string {
			if !equalValues(ctx.Values[other], expected) {
				return ""
			}
			if isEmpty(value) {
				return ctx.Message(KeyRequired, "this field is required")
			}
			return ""
		},
	}
}

func isEmpty(value any) bool {
	switch v := value.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(v) == ""
	case []string:
		return len(v) == 0
	default:
		return false
	}
}

func asString(value any) (string, bool) {
	s, ok := value.(string)
	return s, ok
}

func lengthOf(value any) (int, bool) {
	switch v := value.(type) {
	case string:
		return len([]rune(v)), true
	case []string:
		return len(v), true
	default:
		return 0, false
	}
}

func asFloat(value any) (float64, bool) {
	switch v := value.(type) {
	case int:
		return float64(v), true
	case int8:
		return float64(v), true
	case int16:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case float32:
		return float64(v), true
	case float64:
		return v, true
	default:
		return 0, false
	}
}

func equalValues(a, b any) bool {
	if ta, ok := a.(time.Time); ok {
		tb, ok := b.(time.Time)
		return ok && ta.Equal(tb)
	}
	// DeepEqual keeps slice-typed values (e.g. []string) from panicking on ==.
	return reflect.DeepEqual(a, b)
}
