package container

import (
	"fmt"
	"sort"
)

// Factory builds the instance for a key. It may resolve other keys from c.
type Factory func(c *Container) (any, error)

// Extender receives the instance built so far for a key and returns the
// instance that replaces it.
type Extender func(instance any, c *Container) (any, error)

// Definition describes how a key resolves: either a static value or a
// factory together with the keys it requires.
type Definition struct {
	value    any
	factory  Factory
	requires []string
}

// Value returns a definition that always resolves to v.
func Value(v any) Definition {
	return Definition{value: v}
}

// Constructor returns a definition built by f. The keys in requires are
// resolved, in order, before f runs.
func Constructor(f Factory, requires ...string) Definition {
	reqs := make([]string, len(requires))
	copy(reqs, requires)
	return Definition{factory: f, requires: reqs}
}

// IsValue reports whether the definition holds a static value.
func (d Definition) IsValue() bool { return d.factory == nil }

// Requires returns a copy of the declared requirement keys.
func (d Definition) Requires() []string {
	out := make([]string, len(d.requires))
	copy(out, d.requires)
	return out
}

// Container holds definitions and the singletons built from them.
//
// Every key resolves at most once; the instance is cached for the
// lifetime of the container. Extenders registered for a key are applied
// exactly once, at its first resolution.
//
// A Container is not safe for concurrent use. Bootstrap is expected to
// resolve everything a command needs before the command fans out.
type Container struct {
	definitions map[string]Definition
	instances   map[string]any
	extenders   map[string][]Extender

	// keys currently being resolved, outermost first
	resolving []string
}

// New creates an empty container.
func New() *Container {
	return &Container{
		definitions: make(map[string]Definition),
		instances:   make(map[string]any),
		extenders:   make(map[string][]Extender),
	}
}

// Define registers def under key, replacing any earlier definition.
// Redefining a key that has already been resolved is rejected.
func (c *Container) Define(key string, def Definition) error {
	if _, ok := c.instances[key]; ok {
		return &AlreadyResolvedError{Key: key}
	}
	c.definitions[key] = def
	return nil
}

// Set is shorthand for Define(key, Value(value)).
func (c *Container) Set(key string, value any) error {
	return c.Define(key, Value(value))
}

// Singleton is shorthand for Define(key, Constructor(f, requires...)).
func (c *Container) Singleton(key string, f Factory, requires ...string) error {
	return c.Define(key, Constructor(f, requires...))
}

// Get resolves key, building it on first access.
func (c *Container) Get(key string) (any, error) {
	return c.resolve(key, "")
}

func (c *Container) resolve(key, requiredBy string) (any, error) {
	if inst, ok := c.instances[key]; ok {
		return inst, nil
	}

	for i, k := range c.resolving {
		if k == key {
			cycle := append(append([]string{}, c.resolving[i:]...), key)
			return nil, &CircularDependencyError{Cycle: cycle}
		}
	}

	def, ok := c.definitions[key]
	if !ok {
		return nil, &MissingDefinitionError{Key: key, RequiredBy: requiredBy}
	}

	c.resolving = append(c.resolving, key)
	defer func() { c.resolving = c.resolving[:len(c.resolving)-1] }()

	// Every requirement must at least be defined before anything is built.
	for _, req := range def.requires {
		if _, defined := c.definitions[req]; !defined {
			if _, built := c.instances[req]; !built {
				return nil, &MissingDefinitionError{Key: req, RequiredBy: key}
			}
		}
	}
	for _, req := range def.requires {
		if _, err := c.resolve(req, key); err != nil {
			return nil, err
		}
	}

	instance := def.value
	if def.factory != nil {
		built, err := def.factory(c)
		if err != nil {
			return nil, wrapResolution(key, err)
		}
		instance = built
	}

	for _, ext := range c.extenders[key] {
		extended, err := ext(instance, c)
		if err != nil {
			return nil, wrapResolution(key, err)
		}
		instance = extended
	}

	c.instances[key] = instance
	return instance, nil
}

// Has reports whether key has a definition.
func (c *Container) Has(key string) bool {
	_, ok := c.definitions[key]
	return ok
}

// Resolved reports whether key has been resolved and cached.
func (c *Container) Resolved(key string) bool {
	_, ok := c.instances[key]
	return ok
}

// Keys returns all defined keys, sorted.
func (c *Container) Keys() []string {
	keys := make([]string, 0, len(c.definitions))
	for k := range c.definitions {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Resolve resolves key and asserts the instance to T.
//
//	analyzer, err := container.Resolve[*descriptor.Analyzer](c, "descriptor.analyzer")
func Resolve[T any](c *Container, key string) (T, error) {
	var zero T
	instance, err := c.Get(key)
	if err != nil {
		return zero, err
	}
	typed, ok := instance.(T)
	if !ok {
		return zero, &TypeMismatchError{Key: key, Want: fmt.Sprintf("%T", &zero)[1:], Got: fmt.Sprintf("%T", instance)}
	}
	return typed, nil
}
