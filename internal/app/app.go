package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"

	"docweaver/internal/commands"
	"docweaver/internal/config"
	"docweaver/internal/console"
	"docweaver/internal/container"
	"docweaver/internal/descriptor"
	"docweaver/internal/environment"
	"docweaver/internal/packaging"
	"docweaver/internal/parser"
	"docweaver/internal/partials"
	"docweaver/internal/plugin"
	"docweaver/internal/transformer"
	"docweaver/internal/translator"
	"docweaver/internal/validator"
	"docweaver/internal/version"
	"docweaver/pkg/logging"

	"github.com/spf13/cobra"
)

// Container keys defined by the application itself.
const (
	NameKey      = "app.name"
	PackagingKey = "packaging.mode"
)

// DefaultCommand runs when no command is given, global options included.
const DefaultCommand = "project:run"

// Options configures an Application.
type Options struct {
	// Name of the executable, "docweaver" when empty.
	Name    string
	Version string

	// Values are defined in the container before anything else, so the
	// application's own definitions override them.
	Values map[string]any

	// Packaging is the packaging mode detected at process start.
	Packaging packaging.Mode

	// Normalizer runs before the container is built. Defaults to the
	// process-wide environment.Normalize.
	Normalizer func() (environment.Result, error)

	// Settings are the normalized environment settings. Defaults to the
	// DOCWEAVER_* process environment.
	Settings environment.Settings

	Stdout io.Writer
	Stderr io.Writer
}

// Application is the bootstrapped docweaver process.
type Application struct {
	opts      Options
	container *container.Container
	registry  *container.ProviderRegistry
}

// Providers returns the service providers in registration order. A provider
// may rely on the definitions of every provider before it.
func Providers() []container.ServiceProvider {
	return []container.ServiceProvider{
		validator.Provider{},
		translator.Provider{},
		descriptor.Provider{},
		parser.Provider{},
		partials.Provider{},
		transformer.Provider{},
		plugin.Provider{},
	}
}

// New bootstraps the application. Every step runs in a fixed order and the
// first failure aborts; a partially wired application is never returned.
// Failures are returned, not logged: the caller reports them once.
//
//  1. The environment is normalized.
//  2. Static definitions: the option values, name, version, packaging mode,
//     environment settings, configuration store and console.
//  3. Console extensions: --config, logging and configuration helpers and
//     the default command.
//  4. Service providers, in the order of Providers.
//  5. The descriptor initializer chain runs against the analyzer.
//  6. Commands for the packaging mode are attached to the console.
func New(opts Options) (*Application, error) {
	opts = withDefaults(opts)
	logging.InitForCLI(logging.LevelInfo, opts.Stderr)

	res, err := opts.Normalizer()
	if err != nil {
		logging.Debug("Bootstrap", "Environment check failed: %v", err)
		return nil, err
	}
	logging.Debug("Bootstrap", "Environment: timezone defaulted=%t, memory limit removed=%t, cache=%s",
		res.TimezoneDefaulted, res.MemoryLimitRemoved, res.CacheAction)

	a := &Application{opts: opts, container: container.New()}
	a.registry = container.NewProviderRegistry(a.container)

	steps := []struct {
		name string
		fn   func() error
	}{
		{"definitions", a.defineStatic},
		{"console extensions", a.extendConsole},
		{"providers", a.registerProviders},
		{"initializers", a.initialize},
		{"commands", a.attachCommands},
	}
	for _, step := range steps {
		if err := step.fn(); err != nil {
			logging.Debug("Bootstrap", "Bootstrap failed at %s: %v", step.name, err)
			return nil, err
		}
	}

	logging.Debug("Bootstrap", "%s %s ready (%s mode, %d definitions)",
		opts.Name, opts.Version, opts.Packaging, len(a.container.Keys()))
	return a, nil
}

func withDefaults(opts Options) Options {
	if opts.Name == "" {
		opts.Name = "docweaver"
	}
	if opts.Version == "" {
		opts.Version = version.Development
	}
	if opts.Normalizer == nil {
		opts.Normalizer = environment.Normalize
	}
	if opts.Settings == nil {
		opts.Settings = environment.NewEnvSettings()
	}
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}
	return opts
}

func (a *Application) defineStatic() error {
	c := a.container

	keys := make([]string, 0, len(a.opts.Values))
	for k := range a.opts.Values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := c.Set(k, a.opts.Values[k]); err != nil {
			return err
		}
	}

	static := map[string]any{
		NameKey:                 a.opts.Name,
		version.ServiceKey:      a.opts.Version,
		PackagingKey:            a.opts.Packaging,
		environment.SettingsKey: a.opts.Settings,
		config.ServiceKey:       config.NewStore(),
	}
	for _, k := range []string{NameKey, version.ServiceKey, PackagingKey, environment.SettingsKey, config.ServiceKey} {
		if err := c.Set(k, static[k]); err != nil {
			return err
		}
	}

	return c.Singleton(console.ServiceKey, func(c *container.Container) (any, error) {
		name, err := container.Resolve[string](c, NameKey)
		if err != nil {
			return nil, err
		}
		ver, err := container.Resolve[string](c, version.ServiceKey)
		if err != nil {
			return nil, err
		}
		root := console.New(name, ver)
		root.SetOut(a.opts.Stdout)
		root.SetErr(a.opts.Stderr)
		return root, nil
	}, NameKey, version.ServiceKey)
}

func (a *Application) extendConsole() error {
	for _, ext := range []console.Extension{
		console.ConfigOption,
		console.LoggingHelper(a.opts.Stderr),
		console.ConfigurationHelper(a.opts.Stderr),
		console.DefaultCommand(DefaultCommand),
	} {
		if err := console.Extend(a.container, ext); err != nil {
			return err
		}
	}
	return nil
}

func (a *Application) registerProviders() error {
	for _, p := range Providers() {
		if err := a.registry.Register(p); err != nil {
			return err
		}
		logging.Debug("Bootstrap", "Registered provider %s", p.Name())
	}
	return nil
}

// initialize runs the descriptor initializers so the analyzer carries its
// rules before any command runs.
func (a *Application) initialize() error {
	analyzer, err := container.Resolve[*descriptor.Analyzer](a.container, descriptor.AnalyzerKey)
	if err != nil {
		return err
	}
	chain, err := container.Resolve[*descriptor.InitializerChain](a.container, descriptor.InitializersKey)
	if err != nil {
		return err
	}

	if err := chain.AddInitializer(descriptor.DefaultValidators{Engine: analyzer.Validator()}); err != nil {
		return err
	}
	return chain.Initialize(analyzer)
}

func (a *Application) attachCommands() error {
	factories := commands.Assemble(a.opts.Packaging)
	logging.Debug("Bootstrap", "Attaching %d commands", len(factories))
	return commands.Attach(a.container, factories)
}

// Container returns the service container.
func (a *Application) Container() *container.Container {
	return a.container
}

// Providers returns the names of the registered providers, in order.
func (a *Application) Providers() []string {
	providers := a.registry.Providers()
	names := make([]string, len(providers))
	for i, p := range providers {
		names[i] = p.Name()
	}
	return names
}

// Console resolves the console. The first call applies every pending
// console extension.
func (a *Application) Console() (*cobra.Command, error) {
	return container.Resolve[*cobra.Command](a.container, console.ServiceKey)
}

// Run dispatches args to the console and returns the exit status instead of
// exiting. Without a command DefaultCommand runs. With interactive, a shell
// is started and args are prepended to every line read.
func (a *Application) Run(ctx context.Context, args []string, interactive bool) (int, error) {
	root, err := a.Console()
	if err != nil {
		return ExitCode(err), err
	}

	if interactive {
		shell := console.NewShell(root)
		shell.Prefix = args
		shell.Stdout = a.opts.Stdout
		shell.Stderr = a.opts.Stderr
		if err := shell.Run(ctx); err != nil {
			return ExitCode(err), fmt.Errorf("shell: %w", err)
		}
		return ExitSuccess, nil
	}

	if args == nil {
		// cobra falls back to os.Args for a nil slice.
		args = []string{}
	}
	root.SetArgs(args)
	if err := root.ExecuteContext(ctx); err != nil {
		return ExitCode(err), err
	}
	return ExitSuccess, nil
}
