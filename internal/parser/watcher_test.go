package parser

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcher_ReportsSourceChanges(t *testing.T) {
	root := writeTree(t, map[string]string{
		"a.go":        "package a\n",
		"sub/b.go":    "package b\n",
		"vendor/v.go": "package v\n",
	})
	opts := Options{Root: root, Directories: []string{"."}, Ignore: []string{"vendor/**"}, Extensions: []string{".go"}}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	changes := make(chan []string, 4)
	done := make(chan error, 1)
	go func() {
		done <- NewWatcher(opts, 50*time.Millisecond).Watch(ctx, func(changed []string) {
			changes <- changed
		})
	}()

	// Give the watcher time to register its directories.
	time.Sleep(200 * time.Millisecond)

	require.NoError(t, os.WriteFile(filepath.Join(root, "a.go"), []byte("package a\n\nvar X = 1\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "sub", "b.go"), []byte("package b\n\nvar Y = 1\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "vendor", "v.go"), []byte("package v\n\nvar Z = 1\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "notes.txt"), []byte("x"), 0644))

	select {
	case changed := <-changes:
		assert.Equal(t, []string{"a.go", "sub/b.go"}, changed)
	case <-ctx.Done():
		t.Fatal("no change reported")
	}

	cancel()
	assert.NoError(t, <-done)
}
