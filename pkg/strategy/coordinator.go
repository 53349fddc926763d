package strategy

import (
	"context"

	"github.com/looplab/fsm"

	"github.com/goliatone/go-formstate/pkg/field"
)

// EventSubmitFailed is the machine event fired when a submit-time validation
// pass leaves errors behind.
const EventSubmitFailed = "submit_failed"

// CatalogueView is the slice of the field catalogue the coordinator needs to
// guard per-call-site operations.
type CatalogueView interface {
	Exists(name string) bool
	CheckValue(name string, value any) error
}

// EditDecision answers whether a field edit should trigger validation and at
// what scope.
type EditDecision struct {
	Validate    bool
	ValidateAll bool
	ClearErrors bool
}

// SubmitDecision answers whether submit validates and whether the strategy
// changed as a consequence of the outcome.
type SubmitDecision struct {
	Validate bool
	Switched bool
	Strategy Strategy
}

// Coordinator interprets the active strategy for every event source. The
// auto-switch lives in a looplab/fsm machine whose only transition is
// onSubmitThenRealTime -> realTimeOnly on a failed submit; every other
// strategy is a terminal state for that event.
type Coordinator struct {
	machine *fsm.FSM
}

// NewCoordinator builds a coordinator starting at the supplied strategy.
func NewCoordinator(initial Strategy) *Coordinator {
	if !initial.Valid() {
		initial = OnSubmitOnly
	}
	return &Coordinator{
		machine: fsm.NewFSM(
			string(initial),
			fsm.Events{
				{
					Name: EventSubmitFailed,
					Src:  []string{string(OnSubmitThenRealTime)},
					Dst:  string(RealTimeOnly),
				},
			},
			fsm.Callbacks{},
		),
	}
}

// Current returns the active strategy.
func (c *Coordinator) Current() Strategy {
	return Strategy(c.machine.Current())
}

// Set overrides the active strategy. Unknown strategies are ignored.
func (c *Coordinator) Set(s Strategy) {
	if s.Valid() {
		c.machine.SetState(string(s))
	}
}

// CoordinateEdit decides how a field edit is validated under the active
// strategy.
func (c *Coordinator) CoordinateEdit() EditDecision {
	current := c.Current()
	return EditDecision{
		Validate:    current.ValidatesOnEdit(),
		ValidateAll: current.ValidatesAllOnEdit(),
		ClearErrors: current == Disabled,
	}
}

// CoordinateSubmit decides submit-time behaviour and applies the post-fail
// auto-switch when the submit left errors behind.
func (c *Coordinator) CoordinateSubmit(failed bool) SubmitDecision {
	current := c.Current()
	decision := SubmitDecision{
		Validate: current.ValidatesOnSubmit(),
		Strategy: current,
	}
	if !failed {
		return decision
	}
	if err := c.machine.Event(context.Background(), EventSubmitFailed); err == nil {
		decision.Switched = true
		decision.Strategy = c.Current()
	}
	return decision
}

// CoordinateFieldUpdate guards a single-field value write: the field must
// exist and the value must match its declared tag. On success it returns the
// edit decision for the active strategy.
func (c *Coordinator) CoordinateFieldUpdate(cat CatalogueView, name string, value any) (EditDecision, error) {
	if err := cat.CheckValue(name, value); err != nil {
		return EditDecision{}, err
	}
	return c.CoordinateEdit(), nil
}

// CoordinateFieldsUpdate guards a batched write, checking every pair before
// any mutation happens.
func (c *Coordinator) CoordinateFieldsUpdate(cat CatalogueView, values map[string]any) (EditDecision, error) {
	for name, value := range values {
		if err := cat.CheckValue(name, value); err != nil {
			return EditDecision{}, err
		}
	}
	return c.CoordinateEdit(), nil
}

// CoordinateErrorUpdate guards a manual error injection for one field.
func (c *Coordinator) CoordinateErrorUpdate(cat CatalogueView, name string) error {
	if !cat.Exists(name) {
		return field.Unknown(name)
	}
	return nil
}

// CoordinateErrorUpdates guards a batched manual error injection.
func (c *Coordinator) CoordinateErrorUpdates(cat CatalogueView, names []string) error {
	for _, name := range names {
		if !cat.Exists(name) {
			return field.Unknown(name)
		}
	}
	return nil
}

// CoordinateValidatorUpdate guards a validator hot-swap.
func (c *Coordinator) CoordinateValidatorUpdate(cat CatalogueView, name string) error {
	if !cat.Exists(name) {
		return field.Unknown(name)
	}
	return nil
}
