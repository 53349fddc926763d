// Package touch tracks per-field "has the user interacted with this field"
// state. Touch operations on unknown names are silent no-ops: touch events
// can race with field removal and are best-effort bookkeeping, not
// state-defining mutations.
package touch

import "sync"

// Tracker holds one boolean per registered field, defaulting to untouched.
type Tracker struct {
	mu      sync.RWMutex
	touched map[string]bool
}

// NewTracker registers the supplied names, all untouched.
func NewTracker(names ...string) *Tracker {
	t := &Tracker{touched: make(map[string]bool, len(names))}
	for _, name := range names {
		t.touched[name] = false
	}
	return t
}

// Register adds a name in the untouched state. Re-registering an existing
// name preserves its current flag.
func (t *Tracker) Register(names ...string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, name := range names {
		if _, ok := t.touched[name]; !ok {
			t.touched[name] = false
		}
	}
}

// Unregister drops names from the tracker. Unknown names are ignored.
func (t *Tracker) Unregister(names ...string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, name := range names {
		delete(t.touched, name)
	}
}

// Touch marks a field as interacted with. Unknown names are ignored.
func (t *Tracker) Touch(name string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.touched[name]; ok {
		t.touched[name] = true
	}
}

// TouchMany marks several fields at once.
func (t *Tracker) TouchMany(names ...string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, name := range names {
		if _, ok := t.touched[name]; ok {
			t.touched[name] = true
		}
	}
}

// TouchAll marks every registered field.
func (t *Tracker) TouchAll() {
	t.mu.Lock()
	defer t.mu.Unlock()
	for name := range t.touched {
		t.touched[name] = true
	}
}

// Reset returns a field to the untouched state. Unknown names are ignored.
func (t *Tracker) Reset(name string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.touched[name]; ok {
		t.touched[name] = false
	}
}

// ResetAll returns every field to the untouched state.
func (t *Tracker) ResetAll() {
	t.mu.Lock()
	defer t.mu.Unlock()
	for name := range t.touched {
		t.touched[name] = false
	}
}

// IsTouched reports whether a field has been interacted with. Unknown names
// report false.
func (t *Tracker) IsTouched(name string) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.touched[name]
}

// Count returns the number of registered fields.
func (t *Tracker) Count() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.touched)
}

// TouchedCount returns how many fields are currently touched.
func (t *Tracker) TouchedCount() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	n := 0
	for _, touched := range t.touched {
		if touched {
			n++
		}
	}
	return n
}

// TouchedNames returns the names currently marked touched. Order is
// unspecified.
func (t *Tracker) TouchedNames() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]string, 0, len(t.touched))
	for name, touched := range t.touched {
		if touched {
			out = append(out, name)
		}
	}
	return out
}

// Snapshot copies the current name -> touched mapping.
func (t *Tracker) Snapshot() map[string]bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make(map[string]bool, len(t.touched))
	for name, touched := range t.touched {
		out[name] = touched
	}
	return out
}
