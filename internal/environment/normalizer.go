package environment

import (
	"fmt"
	"math"
	"os"
	"runtime/debug"
	"sync"
	"time"

	"docweaver/pkg/logging"
)

// CacheAction records what the parse-cache check changed.
type CacheAction int

const (
	CacheUntouched CacheAction = iota
	// CacheCommentsReloaded means load_comments was switched on.
	CacheCommentsReloaded
	// CacheDisabled means the cache was switched off because it drops comments.
	CacheDisabled
)

func (a CacheAction) String() string {
	switch a {
	case CacheCommentsReloaded:
		return "comments-reloaded"
	case CacheDisabled:
		return "disabled"
	default:
		return "untouched"
	}
}

// Result describes the adjustments a normalization made.
type Result struct {
	TimezoneDefaulted  bool
	MemoryLimitRemoved bool
	CacheAction        CacheAction
}

// UnsupportedEnvironmentError is returned when the environment is in a
// state the normalizer cannot fix. The operator has to change Setting.
type UnsupportedEnvironmentError struct {
	Setting string
	Hint    string
}

func (e *UnsupportedEnvironmentError) Error() string {
	return fmt.Sprintf("unsupported environment: %s (set %s)", e.Hint, e.Setting)
}

// System is the slice of the process environment the normalizer touches.
type System interface {
	LookupEnv(key string) (string, bool)
	Setenv(key, value string) error
	HasZoneInfo() bool
	SetLocalZone(loc *time.Location)
	SetMemoryLimit(limit int64) int64
}

// Normalizer adjusts process-wide state before anything else runs.
type Normalizer struct {
	System   System
	Settings Settings
}

// New returns a normalizer over the real process and DOCWEAVER_* settings.
func New() *Normalizer {
	return &Normalizer{System: osSystem{}, Settings: NewEnvSettings()}
}

// Normalize applies every adjustment. It is idempotent: a second call
// leaves the same final state and reports no further changes.
func (n *Normalizer) Normalize() (Result, error) {
	var res Result

	res.TimezoneDefaulted = n.defaultTimezone()
	res.MemoryLimitRemoved = n.removeMemoryLimit()

	action, err := n.checkCache()
	if err != nil {
		return res, err
	}
	res.CacheAction = action

	return res, nil
}

// defaultTimezone falls back to UTC when no zone is configured anywhere.
func (n *Normalizer) defaultTimezone() bool {
	if tz, ok := n.System.LookupEnv("TZ"); ok && tz != "" {
		return false
	}
	if n.System.HasZoneInfo() {
		return false
	}
	n.System.SetLocalZone(time.UTC)
	if err := n.System.Setenv("TZ", "UTC"); err != nil {
		logging.Warn("Bootstrap", "Could not export TZ=UTC: %v", err)
	}
	return true
}

func (n *Normalizer) removeMemoryLimit() bool {
	previous := n.System.SetMemoryLimit(math.MaxInt64)
	return previous != math.MaxInt64
}

// checkCache makes sure doc comments survive the parse cache. A cache that
// strips them produces silently empty documentation.
func (n *Normalizer) checkCache() (CacheAction, error) {
	action := CacheUntouched

	if Enabled(n.Settings, CacheEnable) && Enabled(n.Settings, CacheEnableCLI) {
		if Enabled(n.Settings, CacheSaveComments) {
			if !Enabled(n.Settings, CacheLoadComments) {
				if err := n.Settings.Set(CacheLoadComments, "1"); err != nil {
					return action, fmt.Errorf("failed to enable %s: %w", CacheLoadComments, err)
				}
				action = CacheCommentsReloaded
			}
		} else {
			if err := n.Settings.Set(CacheEnable, "0"); err != nil {
				return action, fmt.Errorf("failed to disable %s: %w", CacheEnable, err)
			}
			action = CacheDisabled
		}
	}

	if Enabled(n.Settings, LegacyCache) && Disabled(n.Settings, LegacyCacheSaveComments) {
		return action, &UnsupportedEnvironmentError{
			Setting: DisplayName(n.Settings, LegacyCacheSaveComments),
			Hint:    "the legacy parse cache discards doc comments and cannot be reconfigured",
		}
	}

	return action, nil
}

var (
	once       sync.Once
	onceResult Result
	onceErr    error
)

// Normalize runs the default normalizer once per process and returns the
// memoized outcome on every later call.
func Normalize() (Result, error) {
	once.Do(func() {
		onceResult, onceErr = New().Normalize()
		if onceErr == nil {
			logging.Debug("Bootstrap", "Environment normalized: timezone defaulted=%t, memory limit removed=%t, cache=%s",
				onceResult.TimezoneDefaulted, onceResult.MemoryLimitRemoved, onceResult.CacheAction)
		}
	})
	return onceResult, onceErr
}

type osSystem struct{}

func (osSystem) LookupEnv(key string) (string, bool) { return os.LookupEnv(key) }
func (osSystem) Setenv(key, value string) error      { return os.Setenv(key, value) }
func (osSystem) SetLocalZone(loc *time.Location)     { time.Local = loc }
func (osSystem) SetMemoryLimit(limit int64) int64    { return debug.SetMemoryLimit(limit) }

func (osSystem) HasZoneInfo() bool {
	_, err := os.Stat("/etc/localtime")
	return err == nil
}
