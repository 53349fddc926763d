package field

import (
	"time"

	"github.com/goliatone/go-formstate/pkg/validation"
)

// TypeTag is the runtime type discriminator carried alongside every field.
// Direct call sites get compile-time checking through the generic helpers in
// the root package; the tag stays authoritative for dynamic call sites such
// as deserialized field lists.
type TypeTag string

const (
	TypeString  TypeTag = "string"
	TypeInt     TypeTag = "integer"
	TypeFloat   TypeTag = "number"
	TypeBool    TypeTag = "boolean"
	TypeTime    TypeTag = "time"
	TypeStrings TypeTag = "strings"
	TypeAny     TypeTag = "any"
)

// TagOf derives the TypeTag for a runtime value. Unrecognised types map to
// TypeAny.
func TagOf(value any) TypeTag {
	switch value.(type) {
	case string:
		return TypeString
	case int, int8, int16, int32, int64:
		return TypeInt
	case float32, float64:
		return TypeFloat
	case bool:
		return TypeBool
	case time.Time:
		return TypeTime
	case []string:
		return TypeStrings
	default:
		return TypeAny
	}
}

// Matches reports whether a runtime value is acceptable for a declared tag.
// Nil is acceptable for every tag, and TypeAny accepts everything.
func Matches(tag TypeTag, value any) bool {
	if value == nil || tag == TypeAny {
		return true
	}
	return TagOf(value) == tag
}

// Definition describes one registered form field. A definition is immutable
// once registered; ReplaceValidators installs a fresh entry rather than
// mutating an existing one in place.
type Definition struct {
	Name       string
	Type       TypeTag
	Initial    any
	Validators []validation.Validator
}
