// Package formstate is a typed, reactive form-state and validation engine.
// A Form holds a catalogue of named, typed fields with attached validators
// and maintains an immutable snapshot of values, errors, and overall
// validity, recomputing it as fields are edited, submitted, or reconfigured
// at runtime. Rendering layers talk only to the Form and observe the
// snapshot stream; a new snapshot is emitted only when it differs from the
// previous one.
package formstate

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/goliatone/go-formstate/pkg/debounce"
	"github.com/goliatone/go-formstate/pkg/field"
	"github.com/goliatone/go-formstate/pkg/state"
	"github.com/goliatone/go-formstate/pkg/strategy"
	"github.com/goliatone/go-formstate/pkg/submission"
	"github.com/goliatone/go-formstate/pkg/touch"
	"github.com/goliatone/go-formstate/pkg/validation"
)

// Subscriber receives every emitted snapshot.
type Subscriber func(state.Snapshot)

type subscriberEntry struct {
	id int
	fn Subscriber
}

// Form is the controller: it owns the current snapshot, applies events by
// delegating to the catalogue, coordinator, state calculation, and debounce
// engine, and emits new snapshots to subscribers. Events are serialized; a
// single logical thread of control is the expected caller.
type Form struct {
	mu          sync.Mutex
	cat         *field.Catalogue
	touched     *touch.Tracker
	coord       *strategy.Coordinator
	sub         *submission.Coordinator
	eng         *debounce.Engine
	snap        state.Snapshot
	subscribers []subscriberEntry
	nextSubID   int
	closed      bool

	locale          string
	translator      validation.Translator
	log             *zap.Logger
	initialStrategy strategy.Strategy
	debounceDelay   time.Duration
}

// New builds a Form from the supplied field definitions. Duplicate names
// fail construction.
func New(defs []field.Definition, opts ...Option) (*Form, error) {
	f := &Form{
		initialStrategy: strategy.OnSubmitOnly,
		debounceDelay:   debounce.DefaultDelay,
		log:             zap.NewNop(),
	}
	for _, opt := range opts {
		opt(f)
	}

	cat, err := field.NewCatalogue(defs...)
	if err != nil {
		return nil, err
	}

	f.cat = cat
	f.touched = touch.NewTracker(cat.Names()...)
	f.coord = strategy.NewCoordinator(f.initialStrategy)
	f.sub = submission.NewCoordinator()
	f.eng = debounce.NewEngine(debounce.WithDelay(f.debounceDelay))
	f.snap = state.Initial(cat, f.coord.Current())
	return f, nil
}

// Snapshot returns the current form snapshot.
func (f *Form) Snapshot() state.Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.snap
}

// Subscribe registers a snapshot observer and returns its unsubscribe
// function. The observer is not called with the current snapshot, only with
// subsequent changes.
func (f *Form) Subscribe(fn Subscriber) func() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextSubID++
	id := f.nextSubID
	f.subscribers = append(f.subscribers, subscriberEntry{id: id, fn: fn})
	return func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		for i, entry := range f.subscribers {
			if entry.id == id {
				f.subscribers = append(f.subscribers[:i], f.subscribers[i+1:]...)
				return
			}
		}
	}
}

// GetValue returns a field's current value, failing with field.ErrUnknown
// for unregistered names. The typed accessor Value adds a compile-time
// checked variant.
func (f *Form) GetValue(name string) (any, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	value, ok := f.snap.Value(name)
	if !ok {
		return nil, field.Unknown(name)
	}
	return value, nil
}

// UpdateField writes a value and validates per the active strategy. It fails
// fast, before any mutation, when the field is unknown or the value's
// runtime type mismatches the declared tag. The edit marks the field
// touched.
func (f *Form) UpdateField(name string, value any) error {
	f.mu.Lock()
	if _, err := f.coord.CoordinateFieldUpdate(f.cat, name, value); err != nil {
		f.mu.Unlock()
		return err
	}

	// A synchronous edit supersedes any still-pending debounced run.
	f.eng.Cancel(name)
	f.touched.Touch(name)

	env := f.envLocked()
	next := state.ComputeFieldUpdate(f.snap, env, name, value)
	emit, snap := f.stageLocked(next)
	f.mu.Unlock()

	notify(emit, snap)
	return nil
}

// UpdateFieldWithDebounce writes the value synchronously but hands the
// validation portion to the debounce engine: rapid successive edits coalesce
// into one validation run using the latest value. Strategies that do not
// validate on edit store the value and schedule nothing.
func (f *Form) UpdateFieldWithDebounce(name string, value any) error {
	f.mu.Lock()
	decision, err := f.coord.CoordinateFieldUpdate(f.cat, name, value)
	if err != nil {
		f.mu.Unlock()
		return err
	}

	f.touched.Touch(name)
	env := f.envLocked()
	next := state.ComputeValueWrite(f.snap, env, name, value)
	emit, snap := f.stageLocked(next)

	if decision.Validate {
		req := debounce.Request{
			Name:       name,
			Order:      env.Order,
			Values:     next.Values(),
			Validators: env.Validators,
			Ctx:        env.Ctx,
		}
		f.log.Debug("scheduling debounced validation", zap.String("field", name))
		if decision.ValidateAll {
			f.eng.ScheduleAll(req, f.applyValidationResults)
		} else {
			f.eng.Schedule(req, f.applyValidationResults)
		}
	}
	f.mu.Unlock()

	notify(emit, snap)
	return nil
}

// UpdateFields applies a batch of value changes: every pair is checked
// before any mutation, all values are written, then exactly one validation
// pass runs.
func (f *Form) UpdateFields(values map[string]any) error {
	f.mu.Lock()
	if _, err := f.coord.CoordinateFieldsUpdate(f.cat, values); err != nil {
		f.mu.Unlock()
		return err
	}

	for name := range values {
		f.eng.Cancel(name)
		f.touched.Touch(name)
	}

	env := f.envLocked()
	next := state.ComputeFieldsUpdate(f.snap, env, values)
	emit, snap := f.stageLocked(next)
	f.mu.Unlock()

	notify(emit, snap)
	return nil
}

// UpdateFieldValidators hot-swaps a field's validator list and forces a full
// revalidation pass (unless the strategy is disabled, where errors stay
// empty).
func (f *Form) UpdateFieldValidators(name string, validators []validation.Validator) error {
	f.mu.Lock()
	if err := f.coord.CoordinateValidatorUpdate(f.cat, name); err != nil {
		f.mu.Unlock()
		return err
	}
	if err := f.cat.ReplaceValidators(name, validators); err != nil {
		f.mu.Unlock()
		return err
	}

	env := f.envLocked()
	var next state.Snapshot
	if f.coord.Current() == strategy.Disabled {
		next = state.Recompute(f.snap, env)
	} else {
		next = state.ComputeFullValidation(f.snap, env)
	}
	emit, snap := f.stageLocked(next)
	f.mu.Unlock()

	notify(emit, snap)
	return nil
}

// SetValidationStrategy switches the active strategy. Values and errors are
// untouched except when switching to disabled, which clears errors to keep
// the validity invariant. No revalidation pass is forced; callers wanting
// one follow up with ValidateFieldImmediately or ValidateForm.
func (f *Form) SetValidationStrategy(s strategy.Strategy) error {
	if !s.Valid() {
		_, err := strategy.Parse(string(s))
		return err
	}

	f.mu.Lock()
	previous := f.coord.Current()
	f.coord.Set(s)
	env := f.envLocked()
	next := state.ComputeStrategyChange(f.snap, env, s)
	emit, snap := f.stageLocked(next)
	f.mu.Unlock()

	if previous != s {
		f.log.Debug("strategy changed",
			zap.String("from", string(previous)),
			zap.String("to", string(s)))
	}
	notify(emit, snap)
	return nil
}

// ValidateForm runs the submit pass: every validator executes, the
// submission coordinator records the attempt, exactly one of onPass/onFail
// fires, and onSubmitThenRealTime demotes itself to realTimeOnly when errors
// remain. The disabled strategy bypasses validation and always passes.
func (f *Form) ValidateForm(onPass func(), onFail func(errors map[string]string)) submission.Outcome {
	f.mu.Lock()
	if f.coord.Current() == strategy.Disabled {
		f.mu.Unlock()
		return f.sub.SubmitBypassingValidation(onPass)
	}

	env := f.envLocked()
	next := state.ComputeFullValidation(f.snap, env)
	errs := next.Errors()

	decision := f.coord.CoordinateSubmit(len(errs) > 0)
	if decision.Switched {
		f.log.Debug("strategy auto-switched after failed submit",
			zap.String("to", string(decision.Strategy)))
		next = state.ComputeStrategyChange(next, env, decision.Strategy)
	}
	emit, snap := f.stageLocked(next)
	f.mu.Unlock()

	notify(emit, snap)
	return f.sub.Submit(errs, onPass, onFail)
}

// ValidateFieldImmediately cancels any pending debounced run for the field
// and validates it (plus its dependents) synchronously. Under the disabled
// strategy only the cancellation happens.
func (f *Form) ValidateFieldImmediately(name string) error {
	f.mu.Lock()
	if !f.cat.Exists(name) {
		f.mu.Unlock()
		return field.Unknown(name)
	}
	if f.coord.Current() == strategy.Disabled {
		f.eng.Cancel(name)
		f.mu.Unlock()
		return nil
	}

	env := f.envLocked()
	req := debounce.Request{
		Name:       name,
		Order:      env.Order,
		Values:     f.snap.Values(),
		Validators: env.Validators,
		Ctx:        env.Ctx,
	}
	results := f.eng.ValidateNow(req)
	next := state.ApplyValidationResults(f.snap, env, results)
	emit, snap := f.stageLocked(next)
	f.mu.Unlock()

	notify(emit, snap)
	return nil
}

// TouchField marks a field as interacted with and re-derives validity.
// Unknown names are a silent no-op, matching the touch tracker contract.
func (f *Form) TouchField(name string) {
	f.mu.Lock()
	f.touched.Touch(name)
	next := state.Recompute(f.snap, f.envLocked())
	emit, snap := f.stageLocked(next)
	f.mu.Unlock()

	notify(emit, snap)
}

// TouchAllFields marks every field as interacted with and re-derives
// validity.
func (f *Form) TouchAllFields() {
	f.mu.Lock()
	f.touched.TouchAll()
	next := state.Recompute(f.snap, f.envLocked())
	emit, snap := f.stageLocked(next)
	f.mu.Unlock()

	notify(emit, snap)
}

// IsTouched reports whether a field has been interacted with.
func (f *Form) IsTouched(name string) bool {
	return f.touched.IsTouched(name)
}

// ResetForm cancels pending debounce work and restores the initial state:
// catalogue initial values, no errors, everything untouched, submission
// bookkeeping zeroed. The active strategy is retained.
func (f *Form) ResetForm() {
	f.mu.Lock()
	f.eng.CancelAll()
	f.touched.ResetAll()
	f.sub.Reset()
	next := state.Initial(f.cat, f.coord.Current())
	emit, snap := f.stageLocked(next)
	f.mu.Unlock()

	notify(emit, snap)
}

// UpdateError injects or clears a single field's error manually (e.g. a
// server-side validation result). An empty message clears. A later
// validation pass covering the field overwrites the injected message; the
// disabled strategy drops injections so the form stays error-free.
func (f *Form) UpdateError(name, message string) error {
	f.mu.Lock()
	if err := f.coord.CoordinateErrorUpdate(f.cat, name); err != nil {
		f.mu.Unlock()
		return err
	}
	env := f.envLocked()
	next := state.ComputeErrorPatch(f.snap, env, name, message)
	emit, snap := f.stageLocked(next)
	f.mu.Unlock()

	notify(emit, snap)
	return nil
}

// UpdateErrors replaces the error map wholesale. Every referenced field must
// exist; empty messages are dropped.
func (f *Form) UpdateErrors(errs map[string]string) error {
	f.mu.Lock()
	names := make([]string, 0, len(errs))
	for name := range errs {
		names = append(names, name)
	}
	if err := f.coord.CoordinateErrorUpdates(f.cat, names); err != nil {
		f.mu.Unlock()
		return err
	}
	env := f.envLocked()
	next := state.ComputeErrorUpdate(f.snap, env, errs)
	emit, snap := f.stageLocked(next)
	f.mu.Unlock()

	notify(emit, snap)
	return nil
}

// AddField registers one field at runtime.
func (f *Form) AddField(def field.Definition) error {
	return f.AddFields([]field.Definition{def})
}

// AddFields registers a batch of fields at runtime: the whole batch is
// rejected when any name already exists, otherwise catalogue, values, types,
// and touch state are extended atomically with the snapshot update.
func (f *Form) AddFields(defs []field.Definition) error {
	f.mu.Lock()
	if err := f.cat.Register(defs); err != nil {
		f.mu.Unlock()
		return err
	}
	for _, def := range defs {
		f.touched.Register(def.Name)
	}

	env := f.envLocked()
	next := state.ComputeFieldsAdded(f.snap, env, defs)
	emit, snap := f.stageLocked(next)
	f.mu.Unlock()

	notify(emit, snap)
	return nil
}

// RemoveField unregisters one field at runtime.
func (f *Form) RemoveField(name string) error {
	return f.RemoveFields([]string{name})
}

// RemoveFields unregisters a batch of fields: the whole batch is rejected
// when any name is absent or repeated, otherwise the fields are purged from
// every map and remaining dependents are revalidated.
func (f *Form) RemoveFields(names []string) error {
	f.mu.Lock()
	seen := make(map[string]struct{}, len(names))
	for _, name := range names {
		if !f.cat.Exists(name) {
			f.mu.Unlock()
			return field.Unknown(name)
		}
		if _, ok := seen[name]; ok {
			f.mu.Unlock()
			return field.Duplicate(name)
		}
		seen[name] = struct{}{}
	}
	for _, name := range names {
		if err := f.cat.Remove(name); err != nil {
			f.mu.Unlock()
			return err
		}
		f.eng.Cancel(name)
		f.touched.Unregister(name)
	}

	env := f.envLocked()
	next := state.ComputeFieldsRemoved(f.snap, env, names)
	emit, snap := f.stageLocked(next)
	f.mu.Unlock()

	notify(emit, snap)
	return nil
}

// SubmissionAttempts returns how many submissions have been attempted.
func (f *Form) SubmissionAttempts() int {
	return f.sub.Attempts()
}

// LastSubmission returns the most recent submission result.
func (f *Form) LastSubmission() submission.Result {
	return f.sub.Last()
}

// Close cancels every pending debounced validation and detaches subscribers.
// A closed form rejects nothing else explicitly, but no timer can outlive
// it.
func (f *Form) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return nil
	}
	f.closed = true
	f.eng.Dispose()
	f.subscribers = nil
	return nil
}

// applyValidationResults is the debounce completion path: it folds finished
// validation results into the current snapshot unless the form closed while
// the timer was pending.
func (f *Form) applyValidationResults(results map[string]string) {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return
	}
	env := f.envLocked()
	next := state.ApplyValidationResults(f.snap, env, results)
	emit, snap := f.stageLocked(next)
	f.mu.Unlock()

	notify(emit, snap)
}

// envLocked snapshots the mutable collaborators into the read-only inputs
// the pure transition functions need. Callers must hold f.mu.
func (f *Form) envLocked() state.Env {
	return state.Env{
		Order:      f.cat.Names(),
		Validators: f.cat.Validators(),
		Touched:    f.touched.Snapshot(),
		Ctx: validation.Context{
			Locale:     f.locale,
			Translator: f.translator,
		},
	}
}

// stageLocked installs the successor snapshot when it differs from the
// current one and collects the subscribers to notify. Callers must hold
// f.mu and invoke notify after releasing it.
func (f *Form) stageLocked(next state.Snapshot) ([]Subscriber, state.Snapshot) {
	if next.Equal(f.snap) {
		return nil, next
	}
	f.snap = next
	emit := make([]Subscriber, 0, len(f.subscribers))
	for _, entry := range f.subscribers {
		emit = append(emit, entry.fn)
	}
	return emit, next
}

func notify(subs []Subscriber, snap state.Snapshot) {
	for _, fn := range subs {
		fn(snap)
	}
}
