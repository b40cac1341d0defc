// Package partials holds named Markdown snippets made available to
// templates through the "partial" function.
package partials

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"docweaver/internal/config"
	"docweaver/internal/container"
)

// ServiceKey is the container key of the shared *Collection.
const ServiceKey = "partials"

// Collection maps partial names to their content.
type Collection struct {
	items map[string]string
}

// NewCollection returns an empty collection.
func NewCollection() *Collection {
	return &Collection{items: make(map[string]string)}
}

// Load builds a collection from configuration. File partials are read
// relative to cfg.Dir.
func Load(cfg config.Config) (*Collection, error) {
	c := NewCollection()
	for _, p := range cfg.Partials {
		content := p.Content
		if p.File != "" {
			data, err := os.ReadFile(cfg.Path(p.File))
			if err != nil {
				return nil, fmt.Errorf("partial %q: %w", p.Name, err)
			}
			content = string(data)
		}
		c.Set(p.Name, content)
	}
	return c, nil
}

// Set adds or replaces a partial.
func (c *Collection) Set(name, content string) {
	c.items[name] = strings.TrimRight(content, "\n")
}

// Get returns the partial called name.
func (c *Collection) Get(name string) (string, bool) {
	v, ok := c.items[name]
	return v, ok
}

// Names returns the partial names, sorted.
func (c *Collection) Names() []string {
	names := make([]string, 0, len(c.items))
	for n := range c.items {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Render is the template function behind {{ partial "name" }}. Unknown
// names render as an empty string so optional partials can be referenced
// unconditionally.
func (c *Collection) Render(name string) string {
	v, _ := c.Get(name)
	return v
}

// Provider contributes the partials declared in the configuration.
type Provider struct{}

func (Provider) Name() string { return "partials" }

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
		return Load(cfg)
	}, config.ServiceKey)
}
