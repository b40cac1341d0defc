package config

import "path/filepath"

// Config is the top-level docweaver project configuration.
type Config struct {
	Title       string            `yaml:"title"`
	Files       FilesConfig       `yaml:"files"`
	Parser      ParserConfig      `yaml:"parser"`
	Transformer TransformerConfig `yaml:"transformer"`
	Translator  TranslatorConfig  `yaml:"translator"`
	Plugins     []PluginConfig    `yaml:"plugins,omitempty"`
	Partials    []PartialConfig   `yaml:"partials,omitempty"`
	Logging     LoggingConfig     `yaml:"logging"`

	// Dir is the directory relative paths are resolved against: the
	// directory of the loaded file, or the working directory.
	Dir string `yaml:"-"`
}

// Path resolves p against the configuration directory.
func (c Config) Path(p string) string {
	if p == "" || filepath.IsAbs(p) || c.Dir == "" {
		return p
	}
	return filepath.Join(c.Dir, p)
}

// FilesConfig selects the sources to document.
type FilesConfig struct {
	Directories []string `yaml:"directories"`       // Source roots, relative to the config file
	Ignore      []string `yaml:"ignore,omitempty"`  // Glob patterns matched against slash-separated relative paths
	Hidden      bool     `yaml:"hidden,omitempty"` // Descend into dot-directories
}

// ParserConfig controls how sources are read.
type ParserConfig struct {
	Extensions     []string `yaml:"extensions"`
	CacheDir       string   `yaml:"cache_dir"`
	DefaultPackage string   `yaml:"default_package"`
	Workers        int      `yaml:"workers,omitempty"` // 0 means one per CPU
}

// TransformerConfig controls output generation.
type TransformerConfig struct {
	Target    string   `yaml:"target"`
	Templates []string `yaml:"templates"`
}

// TranslatorConfig selects the message catalog.
type TranslatorConfig struct {
	Locale   string `yaml:"locale"`
	Catalogs string `yaml:"catalogs,omitempty"` // Directory of <locale>.yaml overrides
}

// PluginConfig enables a plugin by name.
type PluginConfig struct {
	Name    string            `yaml:"name"`
	Options map[string]string `yaml:"options,omitempty"`
}

// PartialConfig is a named snippet made available to templates. Exactly one
// of Content and File is set.
type PartialConfig struct {
	Name    string `yaml:"name"`
	Content string `yaml:"content,omitempty"`
	File    string `yaml:"file,omitempty"`
}

// LoggingConfig is the default logging setup; command line flags win.
type LoggingConfig struct {
	Level string `yaml:"level,omitempty"`
	File  string `yaml:"file,omitempty"`
}
