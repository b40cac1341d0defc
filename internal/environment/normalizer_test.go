package environment

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSystem struct {
	env         map[string]string
	zoneInfo    bool
	local       *time.Location
	memoryLimit int64
}

func newFakeSystem() *fakeSystem {
	return &fakeSystem{env: map[string]string{}, memoryLimit: 512 << 20}
}

func (f *fakeSystem) LookupEnv(key string) (string, bool) {
	v, ok := f.env[key]
	return v, ok
}

func (f *fakeSystem) Setenv(key, value string) error {
	f.env[key] = value
	return nil
}

func (f *fakeSystem) HasZoneInfo() bool               { return f.zoneInfo }
func (f *fakeSystem) SetLocalZone(loc *time.Location) { f.local = loc }

func (f *fakeSystem) SetMemoryLimit(limit int64) int64 {
	prev := f.memoryLimit
	f.memoryLimit = limit
	return prev
}

func TestNormalize_TimezoneDefaultsToUTC(t *testing.T) {
	sys := newFakeSystem()
	n := &Normalizer{System: sys, Settings: MapSettings{}}

	res, err := n.Normalize()
	require.NoError(t, err)

	assert.True(t, res.TimezoneDefaulted)
	assert.Equal(t, time.UTC, sys.local)
	assert.Equal(t, "UTC", sys.env["TZ"])
}

func TestNormalize_TimezoneKeptWhenConfigured(t *testing.T) {
	tests := []struct {
		name     string
		tz       string
		zoneInfo bool
	}{
		{name: "TZ variable", tz: "Europe/Berlin"},
		{name: "system zone info", zoneInfo: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sys := newFakeSystem()
			sys.zoneInfo = tt.zoneInfo
			if tt.tz != "" {
				sys.env["TZ"] = tt.tz
			}
			n := &Normalizer{System: sys, Settings: MapSettings{}}

			res, err := n.Normalize()
			require.NoError(t, err)

			assert.False(t, res.TimezoneDefaulted)
			assert.Nil(t, sys.local)
		})
	}
}

func TestNormalize_RemovesMemoryLimit(t *testing.T) {
	sys := newFakeSystem()
	n := &Normalizer{System: sys, Settings: MapSettings{}}

	res, err := n.Normalize()
	require.NoError(t, err)

	assert.True(t, res.MemoryLimitRemoved)
	assert.Equal(t, int64(math.MaxInt64), sys.memoryLimit)
}

func TestNormalize_CacheCheck(t *testing.T) {
	tests := []struct {
		name       string
		settings   MapSettings
		wantAction CacheAction
		wantAfter  map[string]string
	}{
		{
			name:       "cache off",
			settings:   MapSettings{CacheEnable: "0"},
			wantAction: CacheUntouched,
			wantAfter:  map[string]string{CacheEnable: "0"},
		},
		{
			name:       "cache on but not for the CLI",
			settings:   MapSettings{CacheEnable: "1", CacheSaveComments: "0"},
			wantAction: CacheUntouched,
			wantAfter:  map[string]string{CacheEnable: "1"},
		},
		{
			name:       "comments saved, loading switched on",
			settings:   MapSettings{CacheEnable: "1", CacheEnableCLI: "1", CacheSaveComments: "1"},
			wantAction: CacheCommentsReloaded,
			wantAfter:  map[string]string{CacheEnable: "1", CacheLoadComments: "1"},
		},
		{
			name:       "comments discarded, cache disabled",
			settings:   MapSettings{CacheEnable: "1", CacheEnableCLI: "1", CacheSaveComments: "0"},
			wantAction: CacheDisabled,
			wantAfter:  map[string]string{CacheEnable: "0"},
		},
		{
			name:       "legacy cache keeping comments",
			settings:   MapSettings{LegacyCache: "1", LegacyCacheSaveComments: "1"},
			wantAction: CacheUntouched,
			wantAfter:  map[string]string{LegacyCache: "1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := &Normalizer{System: newFakeSystem(), Settings: tt.settings}

			res, err := n.Normalize()
			require.NoError(t, err)

			assert.Equal(t, tt.wantAction, res.CacheAction)
			for k, v := range tt.wantAfter {
				assert.Equal(t, v, tt.settings[k], k)
			}
		})
	}
}

func TestNormalize_LegacyCacheDroppingCommentsIsFatal(t *testing.T) {
	n := &Normalizer{
		System:   newFakeSystem(),
		Settings: MapSettings{LegacyCache: "1", LegacyCacheSaveComments: "0"},
	}

	_, err := n.Normalize()

	var unsupported *UnsupportedEnvironmentError
	require.ErrorAs(t, err, &unsupported)
	assert.Equal(t, LegacyCacheSaveComments, unsupported.Setting)
	assert.Contains(t, err.Error(), LegacyCacheSaveComments)
}

func TestNormalize_LegacyCacheNamesEnvironmentVariable(t *testing.T) {
	t.Setenv("DOCWEAVER_CACHE_LEGACY", "1")
	t.Setenv("DOCWEAVER_CACHE_LEGACY_SAVE_COMMENTS", "0")
	n := &Normalizer{System: newFakeSystem(), Settings: NewEnvSettings()}

	_, err := n.Normalize()

	var unsupported *UnsupportedEnvironmentError
	require.ErrorAs(t, err, &unsupported)
	assert.Equal(t, "DOCWEAVER_CACHE_LEGACY_SAVE_COMMENTS", unsupported.Setting)
	assert.Contains(t, err.Error(), "set DOCWEAVER_CACHE_LEGACY_SAVE_COMMENTS")
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "DOCWEAVER_CACHE_ENABLE", DisplayName(NewEnvSettings(), CacheEnable))
	assert.Equal(t, CacheEnable, DisplayName(MapSettings{}, CacheEnable))
}

func TestNormalize_Idempotent(t *testing.T) {
	sys := newFakeSystem()
	settings := MapSettings{CacheEnable: "1", CacheEnableCLI: "1", CacheSaveComments: "0"}
	n := &Normalizer{System: sys, Settings: settings}

	_, err := n.Normalize()
	require.NoError(t, err)
	firstEnv := map[string]string{}
	for k, v := range sys.env {
		firstEnv[k] = v
	}
	firstSettings := MapSettings{}
	for k, v := range settings {
		firstSettings[k] = v
	}

	second, err := n.Normalize()
	require.NoError(t, err)

	assert.Equal(t, firstEnv, sys.env)
	assert.Equal(t, firstSettings, settings)
	assert.Equal(t, time.UTC, sys.local)
	assert.Equal(t, int64(math.MaxInt64), sys.memoryLimit)
	assert.Equal(t, Result{}, second, "second run has nothing left to change")
}

func TestEnvSettings(t *testing.T) {
	s := NewEnvSettings()
	assert.Equal(t, "DOCWEAVER_CACHE_LEGACY_SAVE_COMMENTS", s.VarName(LegacyCacheSaveComments))

	t.Setenv("DOCWEAVER_CACHE_ENABLE", "on")
	assert.True(t, Enabled(s, CacheEnable))

	require.NoError(t, s.Set(CacheEnable, "0"))
	assert.False(t, Enabled(s, CacheEnable))
}

func TestPackageNormalize_RunsOnce(t *testing.T) {
	first, firstErr := Normalize()
	second, secondErr := Normalize()

	assert.Equal(t, first, second)
	assert.Equal(t, firstErr, secondErr)
}
