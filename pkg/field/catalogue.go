package field

import (
	"fmt"
	"strings"
	"sync"

	"github.com/goliatone/go-formstate/pkg/validation"
)

// Catalogue is the single source of truth for which fields exist. It is
// intentionally mutable (validator hot-swap and runtime add/remove need
// in-place identity) while snapshots built from it are immutable. One
// catalogue instance is shared by a Form for its whole lifetime.
type Catalogue struct {
	mu     sync.RWMutex
	fields map[string]Definition
	order  []string
}

// NewCatalogue builds a catalogue from the supplied definitions, preserving
// their order. Empty names and duplicates are rejected.
func NewCatalogue(defs ...Definition) (*Catalogue, error) {
	c := &Catalogue{fields: make(map[string]Definition, len(defs))}
	if err := c.Register(defs); err != nil {
		return nil, err
	}
	return c, nil
}

// Register appends a batch of definitions. The batch is checked before any
// mutation so a failed call leaves the catalogue untouched.
func (c *Catalogue) Register(defs []Definition) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	seen := make(map[string]struct{}, len(defs))
	for _, def := range defs {
		name := strings.TrimSpace(def.Name)
		if name == "" {
			return fmt.Errorf("field: definition with empty name")
		}
		if _, ok := c.fields[name]; ok {
			return Duplicate(name)
		}
		if _, ok := seen[name]; ok {
			return Duplicate(name)
		}
		seen[name] = struct{}{}
	}

	for _, def := range defs {
		def.Name = strings.TrimSpace(def.Name)
		if def.Type == "" {
			def.Type = TypeAny
		}
		c.fields[def.Name] = def
		c.order = append(c.order, def.Name)
	}
	return nil
}

// Add registers a single definition, failing with ErrDuplicate when the name
// already exists.
func (c *Catalogue) Add(def Definition) error {
	return c.Register([]Definition{def})
}

// Remove deletes a definition, failing with ErrUnknown when absent.
func (c *Catalogue) Remove(name string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.fields[name]; !ok {
		return Unknown(name)
	}
	delete(c.fields, name)
	for i, n := range c.order {
		if n == name {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	return nil
}

// Exists reports whether a field is registered.
func (c *Catalogue) Exists(name string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.fields[name]
	return ok
}

// TypeOf returns a field's declared tag.
func (c *Catalogue) TypeOf(name string) (TypeTag, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	def, ok := c.fields[name]
	if !ok {
		return "", Unknown(name)
	}
	return def.Type, nil
}

// Definition returns a field's registered definition.
func (c *Catalogue) Definition(name string) (Definition, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	def, ok := c.fields[name]
	if !ok {
		return Definition{}, Unknown(name)
	}
	return def, nil
}

// ValidatorsOf returns a field's ordered validator list.
func (c *Catalogue) ValidatorsOf(name string) ([]validation.Validator, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	def, ok := c.fields[name]
	if !ok {
		return nil, Unknown(name)
	}
	return append([]validation.Validator(nil), def.Validators...), nil
}

// ReplaceValidators installs a new validator list for a field. The definition
// entry is replaced wholesale; name, type and initial value carry over.
func (c *Catalogue) ReplaceValidators(name string, validators []validation.Validator) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	def, ok := c.fields[name]
	if !ok {
		return Unknown(name)
	}
	def.Validators = append([]validation.Validator(nil), validators...)
	c.fields[name] = def
	return nil
}

// Names returns the registered field names in registration order.
func (c *Catalogue) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]string(nil), c.order...)
}

// Len returns the number of registered fields.
func (c *Catalogue) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.fields)
}

// Validators snapshots the name -> validator-list mapping for the execution
// layer. The returned map is a copy; validator slices are shared but treated
// as read-only by convention.
func (c *Catalogue) Validators() map[string][]validation.Validator {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make(map[string][]validation.Validator, len(c.fields))
	for name, def := range c.fields {
		if len(def.Validators) == 0 {
			continue
		}
		out[name] = def.Validators
	}
	return out
}

// InitialValues snapshots the name -> initial-value mapping.
func (c *Catalogue) InitialValues() map[string]any {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make(map[string]any, len(c.fields))
	for name, def := range c.fields {
		out[name] = def.Initial
	}
	return out
}

// Types snapshots the name -> declared-tag mapping.
func (c *Catalogue) Types() map[string]TypeTag {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make(map[string]TypeTag, len(c.fields))
	for name, def := range c.fields {
		out[name] = def.Type
	}
	return out
}

// CheckValue verifies that a field exists and that the supplied value matches
// its declared tag. It is the shared guard used before any state-defining
// mutation.
func (c *Catalogue) CheckValue(name string, value any) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	def, ok := c.fields[name]
	if !ok {
		return Unknown(name)
	}
	if !Matches(def.Type, value) {
		return TypeMismatch(name, def.Type, value)
	}
	return nil
}
