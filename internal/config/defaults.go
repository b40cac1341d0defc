package config

const (
	// FileName is the project configuration file looked up in the working directory.
	FileName = "docweaver.yaml"
	// DistFileName is the committed fallback used when FileName is absent.
	DistFileName = "docweaver.dist.yaml"

	DefaultTarget   = "build/api"
	DefaultCacheDir = "build/cache"
	DefaultTemplate = "default"
	DefaultLocale   = "en"
)

// GetDefaultConfig returns the configuration used when no file is found.
func GetDefaultConfig() Config {
	return Config{
		Title: "API Documentation",
		Files: FilesConfig{
			Directories: []string{"."},
			Ignore:      []string{"vendor/**", "**/testdata/**"},
		},
		Parser: ParserConfig{
			Extensions:     []string{".go"},
			CacheDir:       DefaultCacheDir,
			DefaultPackage: "main",
		},
		Transformer: TransformerConfig{
			Target:    DefaultTarget,
			Templates: []string{DefaultTemplate},
		},
		Translator: TranslatorConfig{
			Locale: DefaultLocale,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}
