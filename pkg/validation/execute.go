package validation

// Run evaluates a single validator against a value. A nil validator never
// fails.
func Run(v Validator, value any, ctx Context) string {
	if v == nil {
		return ""
	}
	return v.Validate(value, ctx)
}

// RunList evaluates an ordered validator list, returning the first non-empty
// message. Later validators are skipped once one fails.
func RunList(validators []Validator, value any, ctx Context) string {
	for _, v := range validators {
		if msg := Run(v, value, ctx); msg != "" {
			return msg
		}
	}
	return ""
}

// RunField evaluates the named field's validator list against the supplied
// value map. Fields without validators always pass.
func RunField(name string, values map[string]any, validators map[string][]Validator, ctx Context) string {
	list, ok := validators[name]
	if !ok || len(list) == 0 {
		return ""
	}
	return RunList(list, values[name], ctx.WithValues(values))
}

// RunAll evaluates every field that has validators, returning a map holding
// only the fields currently in error.
func RunAll(values map[string]any, validators map[string][]Validator, ctx Context) map[string]string {
	out := make(map[string]string)
	scoped := ctx.WithValues(values)
	for name, list := range validators {
		if len(list) == 0 {
			continue
		}
		if msg := RunList(list, values[name], scoped); msg != "" {
			out[name] = msg
		}
	}
	return out
}

// OverallValidity reports whether every validator-bearing field is touched
// and passes its validators. Fields without validators never gate validity.
func OverallValidity(values map[string]any, validators map[string][]Validator, touched map[string]bool, ctx Context) bool {
	scoped := ctx.WithValues(values)
	for name, list := range validators {
		if len(list) == 0 {
			continue
		}
		if !touched[name] {
			return false
		}
		if RunList(list, values[name], scoped) != "" {
			return false
		}
	}
	return true
}

// OverallValidityIgnoringTouched is OverallValidity without the touched
// requirement, used by strategies where touch state is irrelevant.
func OverallValidityIgnoringTouched(values map[string]any, validators map[string][]Validator, ctx Context) bool {
	scoped := ctx.WithValues(values)
	for name, list := range validators {
		if len(list) == 0 {
			continue
		}
		if RunList(list, values[name], scoped) != "" {
			return false
		}
	}
	return true
}

// OverallValidityWithErrors extends OverallValidity by also treating any
// entry in the supplied error map as invalidating, even when the validators
// themselves would pass. This keeps externally injected (e.g. server-side)
// errors authoritative.
func OverallValidityWithErrors(values map[string]any, errs map[string]string, touched map[string]bool, validators map[string][]Validator, ctx Context) bool {
	if len(errs) > 0 {
		return false
	}
	return OverallValidity(values, validators, touched, ctx)
}

// OverallValidityWithErrorsIgnoringTouched is the touch-free variant of
// OverallValidityWithErrors.
func OverallValidityWithErrorsIgnoringTouched(values map[string]any, errs map[string]string, validators map[string][]Validator, ctx Context) bool {
	if len(errs) > 0 {
		return false
	}
	return OverallValidityIgnoringTouched(values, validators, ctx)
}
