package state

import (
	"github.com/goliatone/go-formstate/pkg/field"
	"github.com/goliatone/go-formstate/pkg/validation"
)

// ComputeFieldsAdded extends the snapshot with freshly registered fields and
// runs the strategy's validation pass over the grown form: the whole form
// for allFieldsRealTime, the new fields plus their dependents for
// realTimeOnly, nothing for submit-driven strategies, and a cleared error
// map when disabled. The env must already reflect the post-add catalogue and
// touch state.
func ComputeFieldsAdded(snap Snapshot, env Env, defs []field.Definition) Snapshot {
	values := cloneValues(snap.values)
	types := snap.Types()
	for _, def := range defs {
		values[def.Name] = def.Initial
		types[def.Name] = def.Type
	}

	errs := cloneErrors(snap.errors)
	switch {
	case snap.strategy.ValidatesAllOnEdit():
		errs = validation.RunAll(values, env.Validators, env.Ctx)
	case snap.strategy.ValidatesOnEdit():
		for _, def := range defs {
			results := validation.RunFieldAndDependents(def.Name, env.Order, values, env.Validators, env.Ctx)
			errs = validation.MergeResults(errs, results)
		}
	case !snap.strategy.ValidatesOnSubmit():
		errs = make(map[string]string)
	}

	return Snapshot{
		values:   values,
		errors:   errs,
		valid:    snap.strategy.Validity(values, errs, env.Touched, env.Validators, env.Ctx),
		strategy: snap.strategy,
		types:    types,
	}
}

// ComputeFieldsRemoved purges the named fields from every map and
// revalidates the remaining ones that declared a dependency on a removed
// field, since their cross-field validators now see a different value map.
// Submit-driven strategies only refresh fields already carrying an error, so
// removal never surfaces brand-new errors before a submit. The env must
// already reflect the post-remove catalogue and touch state.
func ComputeFieldsRemoved(snap Snapshot, env Env, names []string) Snapshot {
	values := cloneValues(snap.values)
	types := snap.Types()
	errs := cloneErrors(snap.errors)
	for _, name := range names {
		delete(values, name)
		delete(types, name)
		delete(errs, name)
	}

	switch {
	case snap.strategy.ValidatesAllOnEdit():
		errs = validation.RunAll(values, env.Validators, env.Ctx)
	case !snap.strategy.ValidatesOnSubmit():
		errs = make(map[string]string)
	default:
		refreshExisting := !snap.strategy.ValidatesOnEdit()
		for _, name := range names {
			results := validation.RunDependents(name, env.Order, values, env.Validators, env.Ctx)
			if refreshExisting {
				for dep := range results {
					if _, had := errs[dep]; !had {
						delete(results, dep)
					}
				}
			}
			errs = validation.MergeResults(errs, results)
		}
	}

	return Snapshot{
		values:   values,
		errors:   errs,
		valid:    snap.strategy.Validity(values, errs, env.Touched, env.Validators, env.Ctx),
		strategy: snap.strategy,
		types:    types,
	}
}
