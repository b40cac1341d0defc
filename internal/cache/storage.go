// Package cache persists parser output between docweaver runs.
//
// Entries are YAML documents grouped by kind, one directory per kind:
//
//	<dir>/files/<content-hash>.yaml
//	<dir>/project/current.yaml
package cache

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"docweaver/pkg/logging"

	"gopkg.in/yaml.v3"
)

// ErrNotFound is returned by Load when no entry exists.
var ErrNotFound = errors.New("cache entry not found")

// Storage provides YAML persistence in a single cache directory.
type Storage struct {
	mu  sync.RWMutex
	dir string
}

// NewStorage creates a Storage rooted at dir. The directory is created on
// first Save.
func NewStorage(dir string) *Storage {
	return &Storage{dir: dir}
}

// Dir returns the cache directory.
func (s *Storage) Dir() string {
	return s.dir
}

// Save stores v as YAML for the given kind and name.
func (s *Storage) Save(kind, name string, v any) error {
	if kind == "" {
		return fmt.Errorf("kind cannot be empty")
	}
	if name == "" {
		return fmt.Errorf("name cannot be empty")
	}

	data, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s/%s: %w", kind, name, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	targetDir := filepath.Join(s.dir, kind)
	if err := os.MkdirAll(targetDir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", targetDir, err)
	}

	filePath := filepath.Join(targetDir, sanitizeFilename(name)+".yaml")
	tmp := filePath + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write file %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, filePath); err != nil {
		return fmt.Errorf("failed to move %s into place: %w", filePath, err)
	}

	logging.Debug("Cache", "Saved %s/%s to %s", kind, name, filePath)
	return nil
}

// Load decodes the entry for kind and name into v. A missing entry yields
// ErrNotFound.
func (s *Storage) Load(kind, name string, v any) error {
	if kind == "" {
		return fmt.Errorf("kind cannot be empty")
	}
	if name == "" {
		return fmt.Errorf("name cannot be empty")
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	filePath := filepath.Join(s.dir, kind, sanitizeFilename(name)+".yaml")
	data, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%s/%s: %w", kind, name, ErrNotFound)
		}
		return fmt.Errorf("failed to read file %s: %w", filePath, err)
	}
	if err := yaml.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to decode %s: %w", filePath, err)
	}
	return nil
}

// Delete removes the entry for kind and name.
func (s *Storage) Delete(kind, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	filePath := filepath.Join(s.dir, kind, sanitizeFilename(name)+".yaml")
	if err := os.Remove(filePath); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%s/%s: %w", kind, name, ErrNotFound)
		}
		return fmt.Errorf("failed to delete file %s: %w", filePath, err)
	}

	logging.Debug("Cache", "Deleted %s/%s", kind, name)
	return nil
}

// List returns the sorted entry names stored for kind.
func (s *Storage) List(kind string) ([]string, error) {
	if kind == "" {
		return nil, fmt.Errorf("kind cannot be empty")
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	files, err := filepath.Glob(filepath.Join(s.dir, kind, "*.yaml"))
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", kind, err)
	}

	names := make([]string, 0, len(files))
	for _, f := range files {
		base := filepath.Base(f)
		names = append(names, strings.TrimSuffix(base, filepath.Ext(base)))
	}
	sort.Strings(names)
	return names, nil
}

// Purge removes every entry of kind whose name is not in keep. It returns the
// number of removed entries.
func (s *Storage) Purge(kind string, keep map[string]bool) (int, error) {
	names, err := s.List(kind)
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, name := range names {
		if keep[name] {
			continue
		}
		if err := s.Delete(kind, name); err != nil && !errors.Is(err, ErrNotFound) {
			return removed, err
		}
		removed++
	}
	return removed, nil
}

// sanitizeFilename ensures the filename is safe for filesystem operations
func sanitizeFilename(name string) string {
	r := strings.NewReplacer(
		"/", "_", "\\", "_", ":", "_", "*", "_", "?", "_",
		"\"", "_", "<", "_", ">", "_", "|", "_", ".", "_", " ", "_",
	)
	sanitized := r.Replace(name)

	for strings.Contains(sanitized, "__") {
		sanitized = strings.ReplaceAll(sanitized, "__", "_")
	}
	sanitized = strings.Trim(sanitized, "_")

	if sanitized == "" {
		sanitized = "unnamed"
	}
	return sanitized
}
