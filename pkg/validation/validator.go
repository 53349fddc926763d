package validation

import "strings"

// Validator checks a single field value and reports a human-readable problem.
// An empty string means the value is acceptable. Validators must be pure: they
// may read the Context but never mutate form state.
type Validator interface {
	Validate(value any, ctx Context) string
}

// Func adapts a plain function to the Validator interface.
type Func func(value any, ctx Context) string

// Validate implements Validator.
func (f Func) Validate(value any, ctx Context) string {
	if f == nil {
		return ""
	}
	return f(value, ctx)
}

// CrossField is a Validator that also reads other fields' values through
// Context.Values. It declares the field names whose edits must trigger its
// re-evaluation.
type CrossField interface {
	Validator
	DependentFields() []string
}

// CrossFunc adapts a function plus a dependency list to CrossField.
type CrossFunc struct {
	Fields []string
	Check  func(value any, ctx Context) string
}

// Validate implements Validator.
func (c CrossFunc) Validate(value any, ctx Context) string {
	if c.Check == nil {
		return ""
	}
	return c.Check(value, ctx)
}

// DependentFields implements CrossField.
func (c CrossFunc) DependentFields() []string {
	return c.Fields
}

// Translator resolves localized message templates. pkg/messages provides the
// in-memory implementation; callers can plug their own catalogue.
type Translator interface {
	Translate(locale, key string, args ...any) (string, error)
}

// Context is the ambient state handed to every validator invocation: the
// locale and message catalogue used to build error strings, plus a read-only
// view of the full value map for cross-field checks.
type Context struct {
	Locale     string
	Translator Translator
	Values     map[string]any
}

// WithValues returns a copy of the context carrying the supplied value map.
func (c Context) WithValues(values map[string]any) Context {
	c.Values = values
	return c
}

// Message resolves key through the context's translator, falling back to the
// supplied message when no translator is configured or the key is missing.
func (c Context) Message(key, fallback string, args ...any) string {
	if c.Translator == nil || strings.TrimSpace(key) == "" {
		return fallback
	}
	msg, err := c.Translator.Translate(c.Locale, key, args...)
	if err != nil || strings.TrimSpace(msg) == "" {
		return fallback
	}
	return msg
}

// DependenciesOf returns the declared dependency set of v, or nil when v is
// not a cross-field validator.
func DependenciesOf(v Validator) []string {
	if cross, ok := v.(CrossField); ok {
		return cross.DependentFields()
	}
	return nil
}

// DependsOn reports whether v declares a dependency on the named field.
func DependsOn(v Validator, name string) bool {
	for _, dep := range DependenciesOf(v) {
		if dep == name {
			return true
		}
	}
	return false
}
