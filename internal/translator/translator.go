// Package translator looks up user-facing messages in YAML catalogs.
//
// Catalogs are nested YAML maps flattened into dotted keys, so
//
//	project:
//	  parsed: "Parsed %d files"
//
// defines "project.parsed". Lookups fall back from the configured locale to
// its language ("nl_BE" to "nl"), then to English, then to the key itself.
package translator

import (
	"embed"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"docweaver/pkg/logging"

	"sigs.k8s.io/yaml"
)

// ServiceKey is the container key of the shared *Translator.
const ServiceKey = "translator"

// FallbackLocale is consulted when the configured locale lacks a message.
const FallbackLocale = "en"

//go:embed messages/*.yaml
var builtin embed.FS

// Translator resolves message keys for one locale.
type Translator struct {
	locale   string
	catalogs map[string]map[string]string
}

// New returns a translator for locale with the built-in catalogs loaded.
func New(locale string) (*Translator, error) {
	t := &Translator{
		locale:   normalizeLocale(locale),
		catalogs: make(map[string]map[string]string),
	}

	entries, err := builtin.ReadDir("messages")
	if err != nil {
		return nil, fmt.Errorf("failed to read built-in catalogs: %w", err)
	}
	for _, entry := range entries {
		data, err := builtin.ReadFile(path.Join("messages", entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("failed to read catalog %s: %w", entry.Name(), err)
		}
		if err := t.merge(localeOf(entry.Name()), data); err != nil {
			return nil, fmt.Errorf("catalog %s: %w", entry.Name(), err)
		}
	}

	if _, ok := t.catalogs[t.locale]; !ok {
		if _, ok := t.catalogs[language(t.locale)]; !ok {
			logging.Warn("Translator", "No catalog for locale %q, falling back to %s", t.locale, FallbackLocale)
		}
	}
	return t, nil
}

// LoadDir merges every <locale>.yaml in dir over the loaded catalogs.
func (t *Translator) LoadDir(dir string) error {
	files, err := filepath.Glob(filepath.Join(dir, "*.yaml"))
	if err != nil {
		return err
	}
	for _, f := range files {
		data, err := os.ReadFile(f)
		if err != nil {
			return fmt.Errorf("failed to read catalog %s: %w", f, err)
		}
		if err := t.merge(localeOf(f), data); err != nil {
			return fmt.Errorf("catalog %s: %w", f, err)
		}
		logging.Debug("Translator", "Loaded catalog %s", f)
	}
	return nil
}

// Locale returns the normalized locale.
func (t *Translator) Locale() string {
	return t.locale
}

// Locales returns the locales with a catalog, sorted.
func (t *Translator) Locales() []string {
	out := make([]string, 0, len(t.catalogs))
	for l := range t.catalogs {
		out = append(out, l)
	}
	sort.Strings(out)
	return out
}

// Translate returns the message for key formatted with args. An unknown key
// is returned as is.
func (t *Translator) Translate(key string, args ...any) string {
	msg, ok := t.lookup(key)
	if !ok {
		msg = key
	}
	if len(args) == 0 {
		return msg
	}
	return fmt.Sprintf(msg, args...)
}

// Has reports whether any catalog in the fallback chain defines key.
func (t *Translator) Has(key string) bool {
	_, ok := t.lookup(key)
	return ok
}

func (t *Translator) lookup(key string) (string, bool) {
	for _, l := range []string{t.locale, language(t.locale), FallbackLocale} {
		if msg, ok := t.catalogs[l][key]; ok {
			return msg, true
		}
	}
	return "", false
}

func (t *Translator) merge(locale string, data []byte) error {
	var tree map[string]interface{}
	if err := yaml.Unmarshal(data, &tree); err != nil {
		return err
	}
	catalog := t.catalogs[locale]
	if catalog == nil {
		catalog = make(map[string]string)
		t.catalogs[locale] = catalog
	}
	flatten("", tree, catalog)
	return nil
}

func flatten(prefix string, tree map[string]interface{}, out map[string]string) {
	for k, v := range tree {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		switch val := v.(type) {
		case map[string]interface{}:
			flatten(key, val, out)
		case string:
			out[key] = val
		default:
			out[key] = fmt.Sprint(val)
		}
	}
}

func localeOf(file string) string {
	base := filepath.Base(file)
	return normalizeLocale(strings.TrimSuffix(base, filepath.Ext(base)))
}

func normalizeLocale(l string) string {
	l = strings.ReplaceAll(strings.TrimSpace(l), "-", "_")
	if l == "" {
		return FallbackLocale
	}
	if i := strings.Index(l, "_"); i > 0 {
		return strings.ToLower(l[:i]) + "_" + strings.ToUpper(l[i+1:])
	}
	return strings.ToLower(l)
}

func language(l string) string {
	if i := strings.Index(l, "_"); i > 0 {
		return l[:i]
	}
	return l
}
