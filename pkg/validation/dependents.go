package validation

// RunDependents re-runs every field whose cross-field validators declare a
// dependency on the changed field. Fields are visited in the supplied order
// (catalogue registration order) so results are deterministic. The returned
// map holds an entry for every field that was re-evaluated; an empty string
// means the field is now clear. Fields with only plain validators are never
// visited.
func RunDependents(changed string, order []string, values map[string]any, validators map[string][]Validator, ctx Context) map[string]string {
	out := make(map[string]string)
	scoped := ctx.WithValues(values)
	for _, name := range order {
		if name == changed {
			continue
		}
		list := validators[name]
		if !dependsOnAny(list, changed) {
			continue
		}
		out[name] = RunList(list, values[name], scoped)
	}
	return out
}

// RunFieldAndDependents composes "validate the named field" with "re-validate
// everything depending on it" into one result map. The same empty-string
// convention as RunDependents applies.
func RunFieldAndDependents(name string, order []string, values map[string]any, validators map[string][]Validator, ctx Context) map[string]string {
	out := RunDependents(name, order, values, validators, ctx)
	if list, ok := validators[name]; ok && len(list) > 0 {
		out[name] = RunList(list, values[name], ctx.WithValues(values))
	}
	return out
}

// MergeResults folds re-validation results into an existing error map,
// returning a fresh map. Non-empty results overwrite, empty results clear.
// Entries for fields outside the result set carry over untouched.
func MergeResults(errs map[string]string, results map[string]string) map[string]string {
	out := make(map[string]string, len(errs)+len(results))
	for name, msg := range errs {
		out[name] = msg
	}
	for name, msg := range results {
		if msg == "" {
			delete(out, name)
			continue
		}
		out[name] = msg
	}
	return out
}

func dependsOnAny(list []Validator, name string) bool {
	for _, v := range list {
		if DependsOn(v, name) {
			return true
		}
	}
	return false
}
