package environment

import (
	"os"
	"strings"
)

// SettingsKey is the container key of the process Settings.
const SettingsKey = "environment.settings"

// Setting keys inspected by the parse-cache check.
const (
	CacheEnable       = "cache.enable"
	CacheEnableCLI    = "cache.enable_cli"
	CacheSaveComments = "cache.save_comments"
	CacheLoadComments = "cache.load_comments"

	LegacyCache             = "cache.legacy"
	LegacyCacheSaveComments = "cache.legacy.save_comments"
)

// Settings is the process-wide key/value store the normalizer reads and
// adjusts.
type Settings interface {
	Lookup(key string) (string, bool)
	Set(key, value string) error
}

// EnvSettings stores settings in the process environment. A key such as
// "cache.save_comments" maps to DOCWEAVER_CACHE_SAVE_COMMENTS.
type EnvSettings struct {
	Prefix string
}

// NewEnvSettings returns settings backed by DOCWEAVER_* variables.
func NewEnvSettings() *EnvSettings {
	return &EnvSettings{Prefix: "DOCWEAVER_"}
}

// VarName returns the environment variable name for key.
func (s *EnvSettings) VarName(key string) string {
	r := strings.NewReplacer(".", "_", "-", "_")
	return s.Prefix + strings.ToUpper(r.Replace(key))
}

func (s *EnvSettings) Lookup(key string) (string, bool) {
	return os.LookupEnv(s.VarName(key))
}

func (s *EnvSettings) Set(key, value string) error {
	return os.Setenv(s.VarName(key), value)
}

// DisplayName returns the name an operator sets key by: the environment
// variable for EnvSettings, the key itself otherwise.
func DisplayName(s Settings, key string) string {
	if named, ok := s.(interface{ VarName(string) string }); ok {
		return named.VarName(key)
	}
	return key
}

// MapSettings is an in-memory Settings implementation.
type MapSettings map[string]string

func (m MapSettings) Lookup(key string) (string, bool) {
	v, ok := m[key]
	return v, ok
}

func (m MapSettings) Set(key, value string) error {
	m[key] = value
	return nil
}

// Enabled reports whether key holds a truthy value ("1", "on", "true", "yes").
func Enabled(s Settings, key string) bool {
	v, ok := s.Lookup(key)
	if !ok {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "on", "true", "yes":
		return true
	default:
		return false
	}
}

// Disabled reports whether key is explicitly set to a falsy value. An unset
// key is not disabled.
func Disabled(s Settings, key string) bool {
	v, ok := s.Lookup(key)
	if !ok {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "", "0", "off", "false", "no":
		return true
	default:
		return false
	}
}
