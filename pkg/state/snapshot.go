// Package state holds the immutable form snapshot and the pure transition
// functions that produce new snapshots from events. Nothing in this package
// mutates a snapshot in place; the controller owns "the current snapshot"
// and replaces it wholesale.
package state

import (
	"reflect"

	"github.com/goliatone/go-formstate/pkg/field"
	"github.com/goliatone/go-formstate/pkg/strategy"
)

// Snapshot is the externally observed form state: values, errors (only
// fields currently in error are present), overall validity, the active
// strategy, and the declared type of every field.
type Snapshot struct {
	values   map[string]any
	errors   map[string]string
	valid    bool
	strategy strategy.Strategy
	types    map[string]field.TypeTag
}

// Initial builds the snapshot of a freshly constructed form: initial values,
// no errors, validity per the strategy's starting semantics.
func Initial(cat *field.Catalogue, strat strategy.Strategy) Snapshot {
	return Snapshot{
		values:   cat.InitialValues(),
		errors:   make(map[string]string),
		valid:    strat.InitialValid(),
		strategy: strat,
		types:    cat.Types(),
	}
}

// Value returns a field's current value. The second result reports whether
// the field is registered.
func (s Snapshot) Value(name string) (any, bool) {
	v, ok := s.values[name]
	return v, ok
}

// Values copies the current value map.
func (s Snapshot) Values() map[string]any {
	return cloneValues(s.values)
}

// Error returns a field's current error message, if any.
func (s Snapshot) Error(name string) (string, bool) {
	msg, ok := s.errors[name]
	return msg, ok
}

// Errors copies the current error map.
func (s Snapshot) Errors() map[string]string {
	return cloneErrors(s.errors)
}

// HasErrors reports whether any field is currently in error.
func (s Snapshot) HasErrors() bool {
	return len(s.errors) > 0
}

// IsValid reports overall form validity under the active strategy.
func (s Snapshot) IsValid() bool {
	return s.valid
}

// Strategy returns the active validation strategy.
func (s Snapshot) Strategy() strategy.Strategy {
	return s.strategy
}

// TypeOf returns a field's declared type tag.
func (s Snapshot) TypeOf(name string) (field.TypeTag, bool) {
	tag, ok := s.types[name]
	return tag, ok
}

// Types copies the name -> declared-tag mapping.
func (s Snapshot) Types() map[string]field.TypeTag {
	out := make(map[string]field.TypeTag, len(s.types))
	for name, tag := range s.types {
		out[name] = tag
	}
	return out
}

// FieldNames returns the registered names in unspecified order.
func (s Snapshot) FieldNames() []string {
	out := make([]string, 0, len(s.values))
	for name := range s.values {
		out = append(out, name)
	}
	return out
}

// Equal reports deep equality of two snapshots. The controller relies on
// this to suppress redundant emissions.
func (s Snapshot) Equal(other Snapshot) bool {
	if s.valid != other.valid || s.strategy != other.strategy {
		return false
	}
	if len(s.errors) != len(other.errors) || len(s.types) != len(other.types) {
		return false
	}
	for name, msg := range s.errors {
		if other.errors[name] != msg {
			return false
		}
	}
	for name, tag := range s.types {
		got, ok := other.types[name]
		if !ok || got != tag {
			return false
		}
	}
	if len(s.values) != len(other.values) {
		return false
	}
	for name, value := range s.values {
		got, ok := other.values[name]
		if !ok || !reflect.DeepEqual(value, got) {
			return false
		}
	}
	return true
}

func cloneValues(src map[string]any) map[string]any {
	out := make(map[string]any, len(src))
	for name, value := range src {
		out[name] = value
	}
	return out
}

func cloneErrors(src map[string]string) map[string]string {
	out := make(map[string]string, len(src))
	for name, msg := range src {
		out[name] = msg
	}
	return out
}
