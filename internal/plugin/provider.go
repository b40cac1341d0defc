package plugin

import (
	"docweaver/internal/config"
	"docweaver/internal/container"
	"docweaver/internal/transformer"
	"docweaver/internal/validator"
)

// Provider contributes the plugin manager and attaches plugin writers to
// the transformer.
type Provider struct{}

func (Provider) Name() string { return "plugin" }

func (Provider) Register(c *container.Container) error {
	if err := c.Singleton(ServiceKey, func(c *container.Container) (any, error) {
		store, err := container.Resolve[*config.Store](c, config.ServiceKey)
		if err != nil {
			return nil, err
		}
		cfg, err := store.Config()
		if err != nil {
			return nil, err
		}
		m, err := Load(cfg.Plugins)
		if err != nil {
			return nil, err
		}
		engine, err := container.Resolve[*validator.Engine](c, validator.ServiceKey)
		if err != nil {
			return nil, err
		}
		if err := m.ApplyRules(engine); err != nil {
			return nil, err
		}
		return m, nil
	}, config.ServiceKey, validator.ServiceKey); err != nil {
		return err
	}

	return container.ExtendAs(c, transformer.ServiceKey, func(t *transformer.Transformer, c *container.Container) (*transformer.Transformer, error) {
		m, err := container.Resolve[*Manager](c, ServiceKey)
		if err != nil {
			return nil, err
		}
		writers, err := m.Writers()
		if err != nil {
			return nil, err
		}
		for _, w := range writers {
			t.AddWriter(w)
		}
		return t, nil
	})
}
