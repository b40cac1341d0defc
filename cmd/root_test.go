package cmd

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"docweaver/internal/app"
	"docweaver/internal/config"
	"docweaver/internal/environment"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	color.NoColor = true
	os.Exit(m.Run())
}

func TestSplitShellFlag(t *testing.T) {
	tests := []struct {
		name            string
		args            []string
		wantInteractive bool
		wantArgs        []string
	}{
		{name: "empty", args: nil, wantArgs: []string{}},
		{name: "plain", args: []string{"project:run"}, wantArgs: []string{"project:run"}},
		{name: "shell", args: []string{"--shell"}, wantInteractive: true, wantArgs: []string{}},
		{
			name:            "shell with global options",
			args:            []string{"-c", "custom.yaml", "--shell"},
			wantInteractive: true,
			wantArgs:        []string{"-c", "custom.yaml"},
		},
		{
			name:     "after terminator",
			args:     []string{"project:run", "--", "--shell"},
			wantArgs: []string{"project:run", "--", "--shell"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			interactive, args := splitShellFlag(tt.args)
			assert.Equal(t, tt.wantInteractive, interactive)
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}

func TestRun_Version(t *testing.T) {
	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}

	status := run(context.Background(), "3.5.0", []string{"--version"}, stdout, stderr)

	assert.Equal(t, app.ExitSuccess, status)
	assert.Equal(t, "docweaver version 3.5.0\n", stdout.String())
}

func TestRun_UnknownCommand(t *testing.T) {
	t.Chdir(t.TempDir())
	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}

	status := run(context.Background(), "dev", []string{"project:unknown"}, stdout, stderr)

	assert.Equal(t, app.ExitFailure, status)
	assert.Contains(t, stderr.String(), "Error: unknown command")
}

func TestRun_InvalidConfiguration(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, config.FileName), []byte("parser:\n  workers: -3\n"), 0o644))
	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}

	status := run(context.Background(), "dev", []string{"project:parse"}, stdout, stderr)

	assert.Equal(t, app.ExitFailure, status)
	assert.Contains(t, stderr.String(), "Configuration Error: invalid configuration")
}

func TestRun_UnsupportedEnvironmentReportedOnce(t *testing.T) {
	previous := normalize
	t.Cleanup(func() { normalize = previous })
	normalize = func() (environment.Result, error) {
		return environment.Result{}, &environment.UnsupportedEnvironmentError{
			Setting: "DOCWEAVER_CACHE_LEGACY_SAVE_COMMENTS",
			Hint:    "the legacy parse cache discards doc comments",
		}
	}
	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}

	status := run(context.Background(), "dev", nil, stdout, stderr)

	assert.Equal(t, app.ExitEnvironment, status)
	assert.Equal(t, 1, strings.Count(stderr.String(), "legacy parse cache"), stderr.String())
	assert.Contains(t, stderr.String(), "set DOCWEAVER_CACHE_LEGACY_SAVE_COMMENTS")
	assert.Empty(t, stdout.String())
}

func TestRun_NormalizerRunsBeforeBootstrap(t *testing.T) {
	previous := normalize
	t.Cleanup(func() { normalize = previous })
	calls := 0
	normalize = func() (environment.Result, error) {
		calls++
		return environment.Result{}, nil
	}
	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}

	status := run(context.Background(), "3.5.0", []string{"--version"}, stdout, stderr)

	assert.Equal(t, app.ExitSuccess, status)
	assert.Equal(t, 1, calls)
}

func TestPrintError(t *testing.T) {
	var buf bytes.Buffer
	printError(&buf, errors.New("boom"))
	assert.Equal(t, "Error: boom\n", buf.String())
}
