// Package debounce schedules delayed validation work and cancels superseded
// runs. Per field name the engine keeps at most one pending timer; a
// dedicated slot covers form-wide runs. A cancelled timer never invokes its
// completion callback.
package debounce

import (
	"sync"
	"time"

	"github.com/goliatone/go-formstate/pkg/validation"
)

// DefaultDelay is how long edits coalesce before validation fires.
const DefaultDelay = 300 * time.Millisecond

// Request carries the inputs of one scheduled validation run. For per-field
// runs Name selects the edited field; form-wide runs ignore it.
type Request struct {
	Name       string
	Order      []string
	Values     map[string]any
	Validators map[string][]validation.Validator
	Ctx        validation.Context
}

// Option customises the engine.
type Option func(*Engine)

// WithDelay overrides the default debounce delay.
func WithDelay(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.delay = d
		}
	}
}

type slot struct {
	timer *time.Timer
	gen   uint64
}

// Engine owns the pending timers. All methods are safe for concurrent use;
// completion callbacks run on the timer goroutine.
type Engine struct {
	mu       sync.Mutex
	delay    time.Duration
	pending  map[string]*slot
	all      *slot
	gen      uint64
	disposed bool
}

// NewEngine builds an engine with the default delay unless overridden.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		delay:   DefaultDelay,
		pending: make(map[string]*slot),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Delay returns the configured debounce delay.
func (e *Engine) Delay() time.Duration {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.delay
}

// Schedule cancels any pending run for the request's field and starts a new
// timer. When it fires, the field and its dependents are validated and
// onComplete receives the results (empty-string entries mean "now clear").
// Only the most recently scheduled run for a given name can ever complete.
func (e *Engine) Schedule(req Request, onComplete func(results map[string]string)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.disposed {
		return
	}

	if prev, ok := e.pending[req.Name]; ok {
		prev.timer.Stop()
	}

	e.gen++
	s := &slot{gen: e.gen}
	generation := e.gen
	s.timer = time.AfterFunc(e.delay, func() {
		if !e.claim(req.Name, generation) {
			return
		}
		results := runField(req)
		if onComplete != nil {
			onComplete(results)
		}
	})
	e.pending[req.Name] = s
}

// ValidateNow cancels any pending run for the field and validates
// synchronously, returning the results directly.
func (e *Engine) ValidateNow(req Request) map[string]string {
	e.Cancel(req.Name)
	return runField(req)
}

// ScheduleAll is the form-wide analogue of Schedule with its own single
// pending slot, independent of the per-field timers.
func (e *Engine) ScheduleAll(req Request, onComplete func(results map[string]string)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.disposed {
		return
	}

	if e.all != nil {
		e.all.timer.Stop()
	}

	e.gen++
	s := &slot{gen: e.gen}
	generation := e.gen
	s.timer = time.AfterFunc(e.delay, func() {
		if !e.claimAll(generation) {
			return
		}
		results := runAll(req)
		if onComplete != nil {
			onComplete(results)
		}
	})
	e.all = s
}

// ValidateAllNow cancels the pending form-wide run and validates every field
// synchronously.
func (e *Engine) ValidateAllNow(req Request) map[string]string {
	e.mu.Lock()
	if e.all != nil {
		e.all.timer.Stop()
		e.all = nil
	}
	e.mu.Unlock()
	return runAll(req)
}

// Cancel drops any pending run for a field without executing it.
func (e *Engine) Cancel(name string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if s, ok := e.pending[name]; ok {
		s.timer.Stop()
		delete(e.pending, name)
	}
}

// CancelAll drops every pending run, per-field and form-wide.
func (e *Engine) CancelAll() {
	e.mu.Lock()
	defer e.mu.Unlock()
	for name, s := range e.pending {
		s.timer.Stop()
		delete(e.pending, name)
	}
	if e.all != nil {
		e.all.timer.Stop()
		e.all = nil
	}
}

// Dispose cancels everything and rejects future scheduling. Mandatory on
// controller teardown so no timer outlives its form.
func (e *Engine) Dispose() {
	e.mu.Lock()
	defer e.mu.Unlock()
	for name, s := range e.pending {
		s.timer.Stop()
		delete(e.pending, name)
	}
	if e.all != nil {
		e.all.timer.Stop()
		e.all = nil
	}
	e.disposed = true
}

// Pending reports whether a run is still scheduled for the field.
func (e *Engine) Pending(name string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	_, ok := e.pending[name]
	return ok
}

// PendingCount returns the number of scheduled per-field runs.
func (e *Engine) PendingCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.pending)
}

// claim hands the fired timer exclusive right to complete. A timer whose
// slot was superseded, cancelled, or disposed loses the claim and must not
// run its callback; Stop racing an already-fired timer is resolved here.
func (e *Engine) claim(name string, generation uint64) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.disposed {
		return false
	}
	s, ok := e.pending[name]
	if !ok || s.gen != generation {
		return false
	}
	delete(e.pending, name)
	return true
}

func (e *Engine) claimAll(generation uint64) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.disposed {
		return false
	}
	if e.all == nil || e.all.gen != generation {
		return false
	}
	e.all = nil
	return true
}

func runField(req Request) map[string]string {
	return validation.RunFieldAndDependents(req.Name, req.Order, req.Values, req.Validators, req.Ctx)
}

func runAll(req Request) map[string]string {
	results := make(map[string]string, len(req.Validators))
	scoped := req.Ctx.WithValues(req.Values)
	for name, list := range req.Validators {
		if len(list) == 0 {
			continue
		}
		results[name] = validation.RunList(list, req.Values[name], scoped)
	}
	return results
}
