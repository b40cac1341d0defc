package commands

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

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

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestContainer wires the services the commands use, the way the
// application does.
func newTestContainer(t *testing.T, ver string, mode packaging.Mode) *container.Container {
	t.Helper()

	c := container.New()
	require.NoError(t, c.Set(version.ServiceKey, ver))
	require.NoError(t, c.Set(environment.SettingsKey, environment.Settings(environment.MapSettings{})))
	require.NoError(t, c.Set(config.ServiceKey, config.NewStore()))
	require.NoError(t, c.Set(console.ServiceKey, console.New("docweaver", ver)))
	require.NoError(t, console.Extend(c, console.ConfigOption))
	require.NoError(t, console.Extend(c, console.ConfigurationHelper(&bytes.Buffer{})))

	registry := container.NewProviderRegistry(c)
	for _, p := range []container.ServiceProvider{
		validator.Provider{},
		translator.Provider{},
		descriptor.Provider{},
		parser.Provider{},
		partials.Provider{},
		transformer.Provider{},
		plugin.Provider{},
	} {
		require.NoError(t, registry.Register(p))
	}

	analyzer, err := container.Resolve[*descriptor.Analyzer](c, descriptor.AnalyzerKey)
	require.NoError(t, err)
	chain, err := container.Resolve[*descriptor.InitializerChain](c, descriptor.InitializersKey)
	require.NoError(t, err)
	require.NoError(t, chain.AddInitializer(descriptor.DefaultValidators{Engine: analyzer.Validator()}))

	require.NoError(t, Attach(c, Assemble(mode)))
	return c
}

func execute(t *testing.T, c *container.Container, args ...string) (string, error) {
	t.Helper()

	root, err := container.Resolve[*cobra.Command](c, console.ServiceKey)
	require.NoError(t, err)

	out := &bytes.Buffer{}
	root.SetOut(out)
	root.SetErr(out)
	root.SetArgs(args)
	err = root.Execute()
	return out.String(), err
}

func writeProject(t *testing.T, configYAML string, sources map[string]string) string {
	t.Helper()

	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, config.FileName), []byte(configYAML), 0o644))
	for name, src := range sources {
		p := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(src), 0o644))
	}
	return dir
}

const basicConfig = `title: Sample
files:
  directories: [src]
`

var basicSources = map[string]string{
	"src/shapes/shapes.go": `// Package shapes computes areas.
package shapes

// Area returns the area of a w by h rectangle.
func Area(w, h float64) float64 { return w * h }

func Perimeter(w, h float64) float64 { return 2 * (w + h) }
`,
}

func commandNames(factories []Factory) []string {
	c := container.New()
	names := make([]string, len(factories))
	for i, f := range factories {
		names[i] = f(c).Name()
	}
	return names
}

func TestAssemble(t *testing.T) {
	loose := commandNames(Assemble(packaging.ModeLoose))
	assert.Equal(t, []string{"project:run", "project:parse", "project:transform"}, loose)
	assert.Equal(t, loose, commandNames(Assemble(packaging.ModeLoose)), "deterministic")

	archive := commandNames(Assemble(packaging.ModeArchive))
	assert.Equal(t, []string{"project:run", "project:parse", "project:transform", "phar:update"}, archive)
}

func TestAttach_AddsCommandsAndGroups(t *testing.T) {
	c := newTestContainer(t, "dev", packaging.ModeArchive)

	root, err := container.Resolve[*cobra.Command](c, console.ServiceKey)
	require.NoError(t, err)

	for _, name := range []string{"project:run", "run", "project:parse", "project:transform", "phar:update", "self-update"} {
		cmd, _, err := root.Find([]string{name})
		require.NoError(t, err, name)
		assert.NotSame(t, root, cmd, name)
	}
	assert.True(t, root.ContainsGroup(GroupProject))
	assert.True(t, root.ContainsGroup(GroupPhar))
}

func TestAttach_AfterResolutionFails(t *testing.T) {
	c := newTestContainer(t, "dev", packaging.ModeLoose)
	_, err := container.Resolve[*cobra.Command](c, console.ServiceKey)
	require.NoError(t, err)

	err = Attach(c, Assemble(packaging.ModeLoose))

	var already *container.AlreadyResolvedExtensionError
	assert.ErrorAs(t, err, &already)
}

func TestLooseModeHasNoPharCommands(t *testing.T) {
	c := newTestContainer(t, "dev", packaging.ModeLoose)
	root, err := container.Resolve[*cobra.Command](c, console.ServiceKey)
	require.NoError(t, err)

	for _, cmd := range root.Commands() {
		assert.NotEqual(t, GroupPhar, cmd.GroupID, cmd.Name())
	}
	assert.False(t, root.ContainsGroup(GroupPhar))
}

func TestProjectRun(t *testing.T) {
	dir := writeProject(t, basicConfig, basicSources)
	c := newTestContainer(t, "dev", packaging.ModeLoose)

	out, err := execute(t, c, "project:run")
	require.NoError(t, err)

	index, err := os.ReadFile(filepath.Join(dir, "build", "api", "index.md"))
	require.NoError(t, err)
	assert.Contains(t, string(index), "Sample")
	assert.FileExists(t, filepath.Join(dir, "build", "api", "shapes.md"))

	assert.Contains(t, out, "Parsed 1 files (0 from cache)")
	assert.Contains(t, out, descriptor.RuleMissingDoc)
	assert.Contains(t, out, "Perimeter")
}

func TestProjectRun_Alias(t *testing.T) {
	dir := writeProject(t, basicConfig, basicSources)
	c := newTestContainer(t, "dev", packaging.ModeLoose)

	_, err := execute(t, c, "run")
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dir, "build", "api", "index.md"))
}

func TestProjectRun_NoSources(t *testing.T) {
	writeProject(t, basicConfig, map[string]string{"src/README.txt": "nothing"})
	c := newTestContainer(t, "dev", packaging.ModeLoose)

	_, err := execute(t, c, "project:run")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "No source files found")
}

func TestProjectParseThenTransform(t *testing.T) {
	dir := writeProject(t, basicConfig, basicSources)

	out, err := execute(t, newTestContainer(t, "dev", packaging.ModeLoose), "project:parse")
	require.NoError(t, err)
	assert.Contains(t, out, "Parsed 1 files")
	assert.NoFileExists(t, filepath.Join(dir, "build", "api", "index.md"))

	// A new container stands in for a second process.
	out, err = execute(t, newTestContainer(t, "dev", packaging.ModeLoose), "project:transform")
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote")
	assert.FileExists(t, filepath.Join(dir, "build", "api", "index.md"))
}

func TestProjectParse_UsesCacheOnSecondRun(t *testing.T) {
	writeProject(t, basicConfig, basicSources)

	_, err := execute(t, newTestContainer(t, "dev", packaging.ModeLoose), "project:parse")
	require.NoError(t, err)

	out, err := execute(t, newTestContainer(t, "dev", packaging.ModeLoose), "project:parse")
	require.NoError(t, err)
	assert.Contains(t, out, "Parsed 1 files (1 from cache)")
}

func TestProjectTransform_WithoutParse(t *testing.T) {
	writeProject(t, basicConfig, basicSources)
	c := newTestContainer(t, "dev", packaging.ModeLoose)

	_, err := execute(t, c, "project:transform")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "run project:parse first")
}

func TestProjectRun_Plugins(t *testing.T) {
	cfg := basicConfig + `plugins:
  - name: todo
  - name: report
    options:
      file: meta/report.yaml
`
	sources := map[string]string{
		"src/jobs/jobs.go": `// Package jobs runs jobs.
package jobs

// Run runs the job. TODO: retries.
func Run() {}
`,
	}
	dir := writeProject(t, cfg, sources)
	c := newTestContainer(t, "dev", packaging.ModeLoose)

	out, err := execute(t, c, "project:run")
	require.NoError(t, err)
	assert.Contains(t, out, plugin.RuleTodo)
	assert.FileExists(t, filepath.Join(dir, "build", "api", "meta", "report.yaml"))
}

func TestProjectRun_ConfigFlag(t *testing.T) {
	dir := writeProject(t, basicConfig, basicSources)
	alt := "title: Alternate\nfiles:\n  directories: [src]\ntransformer:\n  target: out\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "alt.yaml"), []byte(alt), 0o644))
	c := newTestContainer(t, "dev", packaging.ModeLoose)

	_, err := execute(t, c, "project:run", "--config", "alt.yaml")
	require.NoError(t, err)

	index, err := os.ReadFile(filepath.Join(dir, "out", "index.md"))
	require.NoError(t, err)
	assert.Contains(t, string(index), "Alternate")
}

func TestProjectRun_InvalidConfig(t *testing.T) {
	writeProject(t, "parser:\n  workers: -1\n", nil)
	c := newTestContainer(t, "dev", packaging.ModeLoose)

	_, err := execute(t, c, "project:run")

	var cfgErr *config.ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "validation", cfgErr.ErrorType)
}

func TestUpdate_RefusesDevelopmentBuilds(t *testing.T) {
	t.Chdir(t.TempDir())

	for _, ver := range []string{"dev", "3.5.0-dev", "not-a-version"} {
		t.Run(ver, func(t *testing.T) {
			c := newTestContainer(t, ver, packaging.ModeArchive)

			_, err := execute(t, c, "phar:update")
			require.Error(t, err)
			assert.Contains(t, err.Error(), "development version")
		})
	}
}

func TestUpdate_SkipsConfiguration(t *testing.T) {
	writeProject(t, "files: [broken\n", nil)
	c := newTestContainer(t, "dev", packaging.ModeArchive)

	_, err := execute(t, c, "self-update")

	var cfgErr *config.ConfigurationError
	assert.False(t, errors.As(err, &cfgErr), "configuration is not loaded for updates")
}

func TestUpdateTranslator_FallsBackWithoutConfig(t *testing.T) {
	writeProject(t, "files: [broken\n", nil)
	c := newTestContainer(t, "dev", packaging.ModeArchive)

	tr := updateTranslator(c)
	require.NotNil(t, tr)
	assert.Equal(t, translator.FallbackLocale, tr.Locale())
}
