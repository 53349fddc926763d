package state

import (
	"github.com/goliatone/go-formstate/pkg/strategy"
	"github.com/goliatone/go-formstate/pkg/validation"
)

// Env bundles the read-only inputs every transition function needs: the
// catalogue's registration order and validator mapping, the current touch
// state, and the ambient validation context.
type Env struct {
	Order      []string
	Validators map[string][]validation.Validator
	Touched    map[string]bool
	Ctx        validation.Context
}

// ComputeFieldUpdate writes one value and validates per the active strategy:
// errors untouched for submit-driven strategies, cleared when disabled, the
// edited field plus its dependents for realTimeOnly, the whole form for
// allFieldsRealTime. Validity is recomputed either way.
func ComputeFieldUpdate(snap Snapshot, env Env, name string, value any) Snapshot {
	values := cloneValues(snap.values)
	values[name] = value
	errs := revalidateAfterEdit(snap, env, values, []string{name})
	return snap.replace(values, errs, env)
}

// ComputeFieldsUpdate is the batched form: all values are written first, then
// exactly one validation pass runs, never one pass per field.
func ComputeFieldsUpdate(snap Snapshot, env Env, updates map[string]any) Snapshot {
	values := cloneValues(snap.values)
	edited := make([]string, 0, len(updates))
	for _, name := range env.Order {
		if value, ok := updates[name]; ok {
			values[name] = value
			edited = append(edited, name)
		}
	}
	errs := revalidateAfterEdit(snap, env, values, edited)
	return snap.replace(values, errs, env)
}

// ComputeValueWrite stores a value without running validators. It backs the
// debounced update path, where the write is synchronous and only the
// validation is delayed.
func ComputeValueWrite(snap Snapshot, env Env, name string, value any) Snapshot {
	values := cloneValues(snap.values)
	values[name] = value
	return snap.replace(values, cloneErrors(snap.errors), env)
}

// ApplyValidationResults folds a finished validation run (debounced or
// immediate) into the snapshot. Result entries follow the empty-string-means-
// clear convention of validation.RunFieldAndDependents.
func ApplyValidationResults(snap Snapshot, env Env, results map[string]string) Snapshot {
	errs := validation.MergeResults(snap.errors, results)
	// Drop results for fields that were removed while validation was pending.
	for name := range errs {
		if _, ok := snap.values[name]; !ok {
			delete(errs, name)
		}
	}
	return snap.replace(cloneValues(snap.values), errs, env)
}

// ComputeErrorUpdate replaces the error map wholesale, the path used for
// externally injected (e.g. server-side) errors. The disabled strategy drops
// injections: its error map stays empty so "valid implies no errors" holds.
func ComputeErrorUpdate(snap Snapshot, env Env, errs map[string]string) Snapshot {
	if snap.strategy == strategy.Disabled {
		return snap.replace(cloneValues(snap.values), make(map[string]string), env)
	}
	next := make(map[string]string, len(errs))
	for name, msg := range errs {
		if msg == "" {
			continue
		}
		next[name] = msg
	}
	return snap.replace(cloneValues(snap.values), next, env)
}

// ComputeErrorPatch sets or clears a single field's error. An empty message
// clears. Injections under the disabled strategy are dropped, clears still
// apply.
func ComputeErrorPatch(snap Snapshot, env Env, name, msg string) Snapshot {
	errs := cloneErrors(snap.errors)
	if msg == "" || snap.strategy == strategy.Disabled {
		delete(errs, name)
	} else {
		errs[name] = msg
	}
	return snap.replace(cloneValues(snap.values), errs, env)
}

// ComputeStrategyChange swaps the strategy without touching values or
// errors. Validity is recomputed under the new strategy's semantics so the
// snapshot invariant holds; whether to also force a revalidation pass is the
// caller's call.
func ComputeStrategyChange(snap Snapshot, env Env, next strategy.Strategy) Snapshot {
	values := cloneValues(snap.values)
	errs := cloneErrors(snap.errors)
	if next == strategy.Disabled {
		// disabled reports isValid=true unconditionally; stale errors would
		// break the "valid implies no errors" invariant.
		errs = make(map[string]string)
	}
	return Snapshot{
		values:   values,
		errors:   errs,
		valid:    next.Validity(values, errs, env.Touched, env.Validators, env.Ctx),
		strategy: next,
		types:    snap.types,
	}
}

// ComputeFullValidation runs every validator and replaces the covered
// entries of the error map with the outcome. This is the submit-time pass
// and the forced pass after a validator hot-swap. Injected errors on
// validator-less fields survive: the pass never evaluated them, so they stay
// authoritative until cleared or overwritten explicitly.
func ComputeFullValidation(snap Snapshot, env Env) Snapshot {
	values := cloneValues(snap.values)
	errs := validation.RunAll(values, env.Validators, env.Ctx)
	for name, msg := range snap.errors {
		if len(env.Validators[name]) == 0 {
			errs[name] = msg
		}
	}
	return snap.replace(values, errs, env)
}

// Recompute re-derives validity for the current values, errors, and touch
// state, leaving both maps as they are. Touch changes route through here,
// since touch state gates validity but lives outside the snapshot.
func Recompute(snap Snapshot, env Env) Snapshot {
	return snap.replace(cloneValues(snap.values), cloneErrors(snap.errors), env)
}

func revalidateAfterEdit(snap Snapshot, env Env, values map[string]any, edited []string) map[string]string {
	strat := snap.strategy
	switch {
	case strat.ValidatesAllOnEdit():
		return validation.RunAll(values, env.Validators, env.Ctx)
	case strat.ValidatesOnEdit():
		errs := cloneErrors(snap.errors)
		for _, name := range edited {
			results := validation.RunFieldAndDependents(name, env.Order, values, env.Validators, env.Ctx)
			errs = validation.MergeResults(errs, results)
		}
		return errs
	case !strat.ValidatesOnSubmit():
		// disabled: stored values never produce errors
		return make(map[string]string)
	default:
		return cloneErrors(snap.errors)
	}
}

// replace builds the successor snapshot, recomputing validity under the
// current strategy.
func (s Snapshot) replace(values map[string]any, errs map[string]string, env Env) Snapshot {
	return Snapshot{
		values:   values,
		errors:   errs,
		valid:    s.strategy.Validity(values, errs, env.Touched, env.Validators, env.Ctx),
		strategy: s.strategy,
		types:    s.types,
	}
}
