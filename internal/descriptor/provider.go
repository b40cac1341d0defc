package descriptor

import (
	"docweaver/internal/container"
	"docweaver/internal/validator"
)

// Container keys contributed by Provider.
const (
	AnalyzerKey     = "descriptor.analyzer"
	InitializersKey = "descriptor.initializers"
	BuilderKey      = "descriptor.builder"
)

// Provider contributes the analyzer, the initializer chain and the project
// builder. The analyzer needs the validator engine.
type Provider struct{}

func (Provider) Name() string { return "descriptor" }

func (Provider) Register(c *container.Container) error {
	if err := c.Singleton(AnalyzerKey, func(c *container.Container) (any, error) {
		engine, err := container.Resolve[*validator.Engine](c, validator.ServiceKey)
		if err != nil {
			return nil, err
		}
		return NewAnalyzer(engine), nil
	}, validator.ServiceKey); err != nil {
		return err
	}

	if err := c.Singleton(InitializersKey, func(*container.Container) (any, error) {
		return NewInitializerChain(), nil
	}); err != nil {
		return err
	}

	return c.Singleton(BuilderKey, func(c *container.Container) (any, error) {
		analyzer, err := container.Resolve[*Analyzer](c, AnalyzerKey)
		if err != nil {
			return nil, err
		}
		chain, err := container.Resolve[*InitializerChain](c, InitializersKey)
		if err != nil {
			return nil, err
		}
		return NewBuilder(analyzer, chain), nil
	}, AnalyzerKey, InitializersKey)
}
