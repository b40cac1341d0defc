package transformer

import (
	"docweaver/internal/config"
	"docweaver/internal/container"
	"docweaver/internal/partials"
	"docweaver/internal/translator"
	"docweaver/internal/version"
)

// Provider contributes the transformer. Plugins extend it with writers.
type Provider struct{}

func (Provider) Name() string { return "transformer" }

func (Provider) Register(c *container.Container) error {
	return c.Singleton(ServiceKey, func(c *container.Container) (any, error) {
		p, err := container.Resolve[*partials.Collection](c, partials.ServiceKey)
		if err != nil {
			return nil, err
		}
		t, err := container.Resolve[*translator.Translator](c, translator.ServiceKey)
		if err != nil {
			return nil, err
		}
		v, err := container.Resolve[string](c, version.ServiceKey)
		if err != nil {
			return nil, err
		}
		store, err := container.Resolve[*config.Store](c, config.ServiceKey)
		if err != nil {
			return nil, err
		}
		cfg, err := store.Config()
		if err != nil {
			return nil, err
		}
		return New(p, t, v, cfg.Dir), nil
	}, partials.ServiceKey, translator.ServiceKey, version.ServiceKey, config.ServiceKey)
}
