package parser

import (
	"docweaver/internal/cache"
	"docweaver/internal/config"
	"docweaver/internal/container"
	"docweaver/internal/environment"
)

// Container keys contributed by Provider.
const (
	ServiceKey = "parser"
	CacheKey   = "parser.cache"
)

// Provider contributes the parse cache and the parser.
type Provider struct{}

func (Provider) Name() string { return "parser" }

func (Provider) Register(c *container.Container) error {
	if err := c.Singleton(CacheKey, func(c *container.Container) (any, error) {
		store, err := container.Resolve[*config.Store](c, config.ServiceKey)
		if err != nil {
			return nil, err
		}
		cfg, err := store.Config()
		if err != nil {
			return nil, err
		}
		return cache.NewStorage(cfg.Path(cfg.Parser.CacheDir)), nil
	}, config.ServiceKey); err != nil {
		return err
	}

	return c.Singleton(ServiceKey, func(c *container.Container) (any, error) {
		storage, err := container.Resolve[*cache.Storage](c, CacheKey)
		if err != nil {
			return nil, err
		}
		settings, err := container.Resolve[environment.Settings](c, environment.SettingsKey)
		if err != nil {
			return nil, err
		}
		return New(storage, settings), nil
	}, CacheKey, environment.SettingsKey)
}
