package translator

import (
	"docweaver/internal/config"
	"docweaver/internal/container"
)

// Provider contributes the translator for the configured locale.
type Provider struct{}

func (Provider) Name() string { return "translator" }

func (Provider) Register(c *container.Container) error {
	return c.Singleton(ServiceKey, func(c *container.Container) (any, error) {
		store, err := container.Resolve[*config.Store](c, config.ServiceKey)
		if err != nil {
			return nil, err
		}
		cfg, err := store.Config()
		if err != nil {
			return nil, err
		}

		t, err := New(cfg.Translator.Locale)
		if err != nil {
			return nil, err
		}
		if cfg.Translator.Catalogs != "" {
			if err := t.LoadDir(cfg.Path(cfg.Translator.Catalogs)); err != nil {
				return nil, err
			}
		}
		return t, nil
	}, config.ServiceKey)
}
