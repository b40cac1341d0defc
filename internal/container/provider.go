package container

import (
	"errors"
	"fmt"
	"reflect"
)

// ServiceProvider contributes definitions to a container.
//
// Register must only define keys. Reading an already built instance is
// possible but discouraged: providers run in a fixed order and nothing
// registered later is visible yet.
//
//	type TranslatorProvider struct{}
//
//	func (TranslatorProvider) Name() string { return "translator" }
//
//	func (TranslatorProvider) Register(c *container.Container) error {
//	    return c.Singleton("translator", func(c *container.Container) (any, error) {
//	        return translator.New("en"), nil
//	    })
//	}
type ServiceProvider interface {
	Name() string
	Register(c *Container) error
}

// ProviderFunc adapts a named function to ServiceProvider.
type ProviderFunc struct {
	ProviderName string
	Fn           func(c *Container) error
}

func (p ProviderFunc) Name() string                { return p.ProviderName }
func (p ProviderFunc) Register(c *Container) error { return p.Fn(c) }

// ProviderRegistry registers providers against a container in order.
type ProviderRegistry struct {
	container  *Container
	providers  []ServiceProvider
	registered map[ServiceProvider]bool
}

// NewProviderRegistry creates a registry bound to c.
func NewProviderRegistry(c *Container) *ProviderRegistry {
	return &ProviderRegistry{
		container:  c,
		registered: make(map[ServiceProvider]bool),
	}
}

// Register appends p and immediately lets it contribute its definitions.
// A provider that fails, or panics, aborts with a ProviderContributionError.
// Registering the same provider twice is a no-op.
func (r *ProviderRegistry) Register(p ServiceProvider) (err error) {
	if p == nil {
		return &ProviderContributionError{Provider: "<nil>", Err: errors.New("nil provider")}
	}

	defer func() {
		if rec := recover(); rec != nil {
			err = &ProviderContributionError{Provider: p.Name(), Err: fmt.Errorf("panic: %v", rec)}
		}
	}()

	if r.isRegistered(p) {
		return nil
	}

	if regErr := p.Register(r.container); regErr != nil {
		return &ProviderContributionError{Provider: p.Name(), Err: regErr}
	}

	r.providers = append(r.providers, p)
	r.markRegistered(p)
	return nil
}

// Providers returns the registered providers in registration order.
func (r *ProviderRegistry) Providers() []ServiceProvider {
	out := make([]ServiceProvider, len(r.providers))
	copy(out, r.providers)
	return out
}

// isRegistered only tracks providers whose value can be hashed; others (a
// ProviderFunc, which holds a func, or a struct with an interface field
// holding a slice) are always treated as new.
func (r *ProviderRegistry) isRegistered(p ServiceProvider) bool {
	if !reflect.ValueOf(p).Comparable() {
		return false
	}
	return r.registered[p]
}

func (r *ProviderRegistry) markRegistered(p ServiceProvider) {
	if reflect.ValueOf(p).Comparable() {
		r.registered[p] = true
	}
}
