// Package strategy defines the validation timing policies and the
// coordinator that interprets them. The single self-mutating policy
// (onSubmitThenRealTime demoting itself to realTimeOnly after a failed
// submit) is kept in an explicit state-machine transition table so it can be
// audited and tested in isolation.
package strategy

import (
	"fmt"

	"github.com/goliatone/go-formstate/pkg/validation"
)

// Strategy is a validation timing policy.
type Strategy string

const (
	// Disabled never validates; errors stay empty and the form is always
	// valid.
	Disabled Strategy = "disabled"
	// OnSubmitOnly stores edits silently and validates only at submit time.
	OnSubmitOnly Strategy = "onSubmitOnly"
	// OnSubmitThenRealTime behaves like OnSubmitOnly until the first failed
	// submit, then switches to RealTimeOnly.
	OnSubmitThenRealTime Strategy = "onSubmitThenRealTime"
	// RealTimeOnly validates the edited field plus its dependents on every
	// edit. Validity additionally requires every validator-bearing field to
	// be touched.
	RealTimeOnly Strategy = "realTimeOnly"
	// AllFieldsRealTime re-validates the whole form on every edit; touch
	// state is irrelevant.
	AllFieldsRealTime Strategy = "allFieldsRealTime"
)

// All lists every known strategy.
func All() []Strategy {
	return []Strategy{Disabled, OnSubmitOnly, OnSubmitThenRealTime, RealTimeOnly, AllFieldsRealTime}
}

// Valid reports whether s names a known strategy.
func (s Strategy) Valid() bool {
	switch s {
	case Disabled, OnSubmitOnly, OnSubmitThenRealTime, RealTimeOnly, AllFieldsRealTime:
		return true
	default:
		return false
	}
}

// Parse resolves a strategy from its string form.
func Parse(raw string) (Strategy, error) {
	s := Strategy(raw)
	if !s.Valid() {
		return "", fmt.Errorf("strategy: unknown strategy %q", raw)
	}
	return s, nil
}

// ValidatesOnEdit reports whether an edit triggers validation.
func (s Strategy) ValidatesOnEdit() bool {
	return s == RealTimeOnly || s == AllFieldsRealTime
}

// ValidatesAllOnEdit reports whether an edit re-validates the whole form
// rather than just the edited field and its dependents.
func (s Strategy) ValidatesAllOnEdit() bool {
	return s == AllFieldsRealTime
}

// ValidatesOnSubmit reports whether submit runs a validation pass.
func (s Strategy) ValidatesOnSubmit() bool {
	return s != Disabled
}

// InitialValid is the isValid value of a freshly constructed snapshot.
// Real-time strategies start invalid because untouched validator-bearing
// fields gate validity.
func (s Strategy) InitialValid() bool {
	switch s {
	case RealTimeOnly, AllFieldsRealTime:
		return false
	default:
		return true
	}
}

// RequiresTouch reports whether overall validity demands that every
// validator-bearing field has been touched.
func (s Strategy) RequiresTouch() bool {
	return s == RealTimeOnly
}

// Validity computes overall form validity under this strategy for the given
// values, current errors, and touch state.
func (s Strategy) Validity(values map[string]any, errs map[string]string, touched map[string]bool, validators map[string][]validation.Validator, ctx validation.Context) bool {
	switch s {
	case Disabled:
		return true
	case OnSubmitOnly, OnSubmitThenRealTime:
		// Submit-driven policies: validity reflects the recorded errors,
		// untouched fields do not gate it.
		return len(errs) == 0
	case AllFieldsRealTime:
		return validation.OverallValidityWithErrorsIgnoringTouched(values, errs, validators, ctx)
	default:
		return validation.OverallValidityWithErrors(values, errs, touched, validators, ctx)
	}
}
