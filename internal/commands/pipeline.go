package commands

import (
	"context"
	"errors"

	"docweaver/internal/config"
	"docweaver/internal/container"
	"docweaver/internal/descriptor"
	"docweaver/internal/parser"
	"docweaver/internal/plugin"
	"docweaver/internal/transformer"
	"docweaver/internal/translator"
)

// pipeline bundles the services of the project commands.
type pipeline struct {
	c          *container.Container
	cfg        config.Config
	parser     *parser.Parser
	builder    *descriptor.Builder
	translator *translator.Translator
}

// parseOutcome is what a parse run produced.
type parseOutcome struct {
	project   *descriptor.Project
	fromCache int
}

func newPipeline(c *container.Container) (*pipeline, error) {
	store, err := container.Resolve[*config.Store](c, config.ServiceKey)
	if err != nil {
		return nil, err
	}
	cfg, err := store.Config()
	if err != nil {
		return nil, err
	}

	// Plugin rules must be in the validator before anything is analyzed.
	if _, err := container.Resolve[*plugin.Manager](c, plugin.ServiceKey); err != nil {
		return nil, err
	}

	p, err := container.Resolve[*parser.Parser](c, parser.ServiceKey)
	if err != nil {
		return nil, err
	}
	b, err := container.Resolve[*descriptor.Builder](c, descriptor.BuilderKey)
	if err != nil {
		return nil, err
	}
	t, err := container.Resolve[*translator.Translator](c, translator.ServiceKey)
	if err != nil {
		return nil, err
	}

	return &pipeline{c: c, cfg: cfg, parser: p, builder: b, translator: t}, nil
}

func (p *pipeline) options() parser.Options {
	return parser.OptionsFromConfig(p.cfg)
}

// parse discovers and parses the sources, builds the project and stores it
// for a later transform.
func (p *pipeline) parse(ctx context.Context) (parseOutcome, error) {
	opts := p.options()
	files, err := parser.Discover(opts)
	if err != nil {
		return parseOutcome{}, err
	}
	if len(files) == 0 {
		return parseOutcome{}, errors.New(p.translator.Translate("project.no_files"))
	}

	res, err := p.parser.Parse(ctx, opts, files)
	if err != nil {
		return parseOutcome{}, err
	}

	project, err := p.builder.Build(p.cfg.Title, res.Files)
	if err != nil {
		return parseOutcome{}, err
	}
	if err := descriptor.SaveProject(p.parser.Cache(), project); err != nil {
		return parseOutcome{}, err
	}
	return parseOutcome{project: project, fromCache: res.FromCache}, nil
}

// load returns the project stored by the last parse.
func (p *pipeline) load() (*descriptor.Project, error) {
	project, err := descriptor.LoadProject(p.parser.Cache())
	if errors.Is(err, descriptor.ErrNoProject) {
		return nil, errors.New(p.translator.Translate("project.not_parsed", p.parser.Cache().Dir()))
	}
	return project, err
}

// transform renders project into the configured target.
func (p *pipeline) transform(ctx context.Context, project *descriptor.Project) (transformer.Result, error) {
	t, err := container.Resolve[*transformer.Transformer](p.c, transformer.ServiceKey)
	if err != nil {
		return transformer.Result{}, err
	}
	return t.Transform(ctx, project, p.cfg.Path(p.cfg.Transformer.Target), p.cfg.Transformer.Templates)
}
