package validators

import (
	"html"

	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-formstate/pkg/validation"
)

// PlainText rejects string values carrying HTML markup. The check runs the
// value through bluemonday's strict policy and fails when sanitization
// changes it, which catches tags, event handlers, and scheme tricks alike.
// Empty values pass.
func PlainText() validation.Validator {
	policy := bluemonday.StrictPolicy()
	return validation.Func(func(value any, ctx validation.Context) string {
		s, ok := asString(value)
		if !ok || s == "" {
			return ""
		}
		sanitized := html.UnescapeString(policy.Sanitize(s))
		if sanitized != s {
			return ctx.Message(KeyPlainText, "must not contain markup")
		}
		return ""
	})
}
