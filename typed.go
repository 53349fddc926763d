package formstate

import (
	"github.com/goliatone/go-formstate/pkg/field"
)

// Value is the compile-time checked read: it resolves the field and asserts
// the stored value to T. A nil stored value yields T's zero value. Type
// mismatches surface as field.ErrTypeMismatch, mirroring the dynamic path.
func Value[T any](f *Form, name string) (T, error) {
	var zero T
	raw, err := f.GetValue(name)
	if err != nil {
		return zero, err
	}
	if raw == nil {
		return zero, nil
	}
	typed, ok := raw.(T)
	if !ok {
		declared, _ := f.Snapshot().TypeOf(name)
		return zero, field.TypeMismatch(name, declared, zero)
	}
	return typed, nil
}

// Update is the compile-time checked write. The catalogue tag is still
// verified at runtime so a handle declared with the wrong T cannot corrupt a
// field.
func Update[T any](f *Form, name string, value T) error {
	return f.UpdateField(name, value)
}

// UpdateDebounced is the compile-time checked debounced write.
func UpdateDebounced[T any](f *Form, name string, value T) error {
	return f.UpdateFieldWithDebounce(name, value)
}
