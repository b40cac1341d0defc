package validator

import (
	"docweaver/internal/container"
)

// Provider contributes the shared rule engine. Rules are added later by the
// descriptor initializers and by plugins.
type Provider struct{}

func (Provider) Name() string { return "validator" }

func (Provider) Register(c *container.Container) error {
	return c.Singleton(ServiceKey, func(*container.Container) (any, error) {
		return NewEngine(), nil
	})
}
