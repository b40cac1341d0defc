package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"docweaver/pkg/logging"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "DOCWEAVER_"

// Environment overrides, applied after the file.
var envOverrides = map[string]func(c *Config, v string) error{
	"TITLE":       func(c *Config, v string) error { c.Title = v; return nil },
	"TARGET":      func(c *Config, v string) error { c.Transformer.Target = v; return nil },
	"TEMPLATES":   func(c *Config, v string) error { c.Transformer.Templates = splitList(v); return nil },
	"DIRECTORIES": func(c *Config, v string) error { c.Files.Directories = splitList(v); return nil },
	"PARSER_CACHE_DIR": func(c *Config, v string) error {
		c.Parser.CacheDir = v
		return nil
	},
	"PARSER_WORKERS": func(c *Config, v string) error {
		n, err := strconv.Atoi(v)
		if err != nil {
			return err
		}
		c.Parser.Workers = n
		return nil
	},
	"LOCALE":    func(c *Config, v string) error { c.Translator.Locale = v; return nil },
	"LOG_LEVEL": func(c *Config, v string) error { c.Logging.Level = v; return nil },
}

// LoadConfig loads the project configuration.
//
// With an empty path, docweaver.yaml and then docweaver.dist.yaml are looked
// up in the working directory; when neither exists the defaults are used. An
// explicit path must exist. A .env file next to the configuration is loaded
// into the process environment (existing variables win) before DOCWEAVER_*
// overrides are applied. The result is validated.
//
// The second return value is the file the configuration was read from, empty
// when only defaults were used.
func LoadConfig(path string) (Config, string, error) {
	config := GetDefaultConfig()

	wd, err := os.Getwd()
	if err != nil {
		return Config{}, "", fmt.Errorf("could not determine working directory: %w", err)
	}
	config.Dir = wd

	source, err := locate(wd, path)
	if err != nil {
		return Config{}, "", err
	}

	if source != "" {
		config.Dir = filepath.Dir(source)
	}
	loadDotEnv(config.Dir)

	if source != "" {
		data, err := os.ReadFile(source)
		if err != nil {
			return Config{}, "", newConfigurationError(source, "io", "could not read configuration", err)
		}
		if err := yaml.Unmarshal(data, &config); err != nil {
			return Config{}, "", newConfigurationError(source, "parse", "malformed YAML", err,
				"check indentation and that lists use '- ' items")
		}
		logging.Info("Config", "Loaded configuration from %s", source)
	} else {
		logging.Debug("Config", "No %s or %s found in %s, using defaults", FileName, DistFileName, wd)
	}

	if err := applyEnv(&config); err != nil {
		return Config{}, "", err
	}

	if err := config.Validate(); err != nil {
		return Config{}, "", &ConfigurationError{
			FilePath:  source,
			ErrorType: "validation",
			Message:   "invalid configuration",
			Details:   err.Error(),
			Err:       err,
		}
	}

	return config, source, nil
}

func locate(wd, path string) (string, error) {
	if path != "" {
		if !filepath.IsAbs(path) {
			path = filepath.Join(wd, path)
		}
		if _, err := os.Stat(path); err != nil {
			return "", newConfigurationError(path, "io", "configuration file not found", err,
				"check the --config path", "omit --config to use "+FileName+" from the working directory")
		}
		return path, nil
	}

	for _, name := range []string{FileName, DistFileName} {
		candidate := filepath.Join(wd, name)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", newConfigurationError(candidate, "io", "could not stat configuration", err)
		}
	}
	return "", nil
}

func loadDotEnv(dir string) {
	envFile := filepath.Join(dir, ".env")
	if _, err := os.Stat(envFile); err != nil {
		return
	}
	if err := godotenv.Load(envFile); err != nil {
		logging.Warn("Config", "Ignoring unreadable %s: %v", envFile, err)
		return
	}
	logging.Debug("Config", "Loaded environment from %s", envFile)
}

func applyEnv(c *Config) error {
	for suffix, apply := range envOverrides {
		name := EnvPrefix + suffix
		v, ok := os.LookupEnv(name)
		if !ok || v == "" {
			continue
		}
		if err := apply(c, v); err != nil {
			return newConfigurationError(name, "parse", fmt.Sprintf("invalid value %q", v), err)
		}
		logging.Debug("Config", "Applied %s override", name)
	}
	return nil
}

func splitList(v string) []string {
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
