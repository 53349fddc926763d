package field

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknown marks operations referencing a field name that is not in
	// the catalogue.
	ErrUnknown = errors.New("field: unknown field")
	// ErrDuplicate marks attempts to register a name twice.
	ErrDuplicate = errors.New("field: duplicate field")
	// ErrTypeMismatch marks a value whose runtime type does not match the
	// field's declared tag.
	ErrTypeMismatch = errors.New("field: type mismatch")
)

// Unknown builds the canonical unknown-field error.
func Unknown(name string) error {
	return fmt.Errorf("%w: %q", ErrUnknown, name)
}

// Duplicate builds the canonical duplicate-field error.
func Duplicate(name string) error {
	return fmt.Errorf("%w: %q", ErrDuplicate, name)
}

// TypeMismatch builds the canonical mismatch error for a field/value pair.
func TypeMismatch(name string, declared TypeTag, value any) error {
	return fmt.Errorf("%w: field %q declares %s, got %s", ErrTypeMismatch, name, declared, TagOf(value))
}
