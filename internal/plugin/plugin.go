// Package plugin enables optional features declared in the configuration.
//
// A plugin contributes validator rules, transformer writers, or both:
//
//	plugins:
//	  - name: todo
//	    options:
//	      markers: "TODO,FIXME"
//	  - name: report
//	    options:
//	      file: "report.yaml"
//
// Rules are registered when the plugin manager is resolved; writers are
// attached to the transformer through a container extension.
package plugin

import (
	"fmt"
	"sort"

	"docweaver/internal/config"
	"docweaver/internal/transformer"
	"docweaver/internal/validator"
	"docweaver/pkg/logging"
)

// ServiceKey is the container key of the *Manager.
const ServiceKey = "plugins"

// Plugin is an optional feature.
type Plugin interface {
	Name() string
	Rules(opts map[string]string) (map[string]validator.Rule, error)
	Writers(opts map[string]string) ([]transformer.Writer, error)
}

var builtins = map[string]Plugin{
	"todo":   todoPlugin{},
	"report": reportPlugin{},
}

// Available returns the names of the known plugins, sorted.
func Available() []string {
	names := make([]string, 0, len(builtins))
	for n := range builtins {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

type enabled struct {
	plugin  Plugin
	options map[string]string
}

// Manager holds the enabled plugins in configuration order.
type Manager struct {
	plugins []enabled
}

// Load enables the configured plugins. Unknown names are an error.
func Load(cfgs []config.PluginConfig) (*Manager, error) {
	m := &Manager{}
	for _, c := range cfgs {
		p, ok := builtins[c.Name]
		if !ok {
			return nil, fmt.Errorf("unknown plugin %q (available: %v)", c.Name, Available())
		}
		m.plugins = append(m.plugins, enabled{plugin: p, options: c.Options})
		logging.Debug("Plugin", "Enabled plugin %s", c.Name)
	}
	return m, nil
}

// Names returns the enabled plugin names in configuration order.
func (m *Manager) Names() []string {
	names := make([]string, len(m.plugins))
	for i, e := range m.plugins {
		names[i] = e.plugin.Name()
	}
	return names
}

// ApplyRules registers every plugin rule into engine, overriding rules of the
// same name.
func (m *Manager) ApplyRules(engine *validator.Engine) error {
	for _, e := range m.plugins {
		rules, err := e.plugin.Rules(e.options)
		if err != nil {
			return fmt.Errorf("plugin %s: %w", e.plugin.Name(), err)
		}
		names := make([]string, 0, len(rules))
		for name := range rules {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			engine.Register(name, rules[name])
		}
	}
	return nil
}

// Writers returns the writers of every plugin.
func (m *Manager) Writers() ([]transformer.Writer, error) {
	var out []transformer.Writer
	for _, e := range m.plugins {
		ws, err := e.plugin.Writers(e.options)
		if err != nil {
			return nil, fmt.Errorf("plugin %s: %w", e.plugin.Name(), err)
		}
		out = append(out, ws...)
	}
	return out, nil
}
