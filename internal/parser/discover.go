package parser

import (
	"fmt"
	"io/fs"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"docweaver/internal/config"
)

// Options selects and shapes the parsed sources.
type Options struct {
	Root           string   // Directories and results are relative to Root
	Directories    []string
	Ignore         []string // Globs over slash-separated paths; ** spans directories
	Hidden         bool
	Extensions     []string
	DefaultPackage string
	Workers        int
}

// OptionsFromConfig derives parser options from the project configuration.
func OptionsFromConfig(cfg config.Config) Options {
	return Options{
		Root:           cfg.Dir,
		Directories:    cfg.Files.Directories,
		Ignore:         cfg.Files.Ignore,
		Hidden:         cfg.Files.Hidden,
		Extensions:     cfg.Parser.Extensions,
		DefaultPackage: cfg.Parser.DefaultPackage,
		Workers:        cfg.Parser.Workers,
	}
}

// Discover lists the source files selected by opts as sorted,
// slash-separated paths relative to opts.Root.
func Discover(opts Options) ([]string, error) {
	seen := map[string]bool{}
	var files []string

	for _, dir := range opts.Directories {
		base := dir
		if !filepath.IsAbs(base) {
			base = filepath.Join(opts.Root, dir)
		}

		err := filepath.WalkDir(base, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			rel, err := filepath.Rel(opts.Root, p)
			if err != nil {
				return err
			}
			rel = filepath.ToSlash(rel)

			if d.IsDir() {
				if p != base && !opts.Hidden && strings.HasPrefix(d.Name(), ".") {
					return filepath.SkipDir
				}
				if p != base && ignoredDir(opts.Ignore, rel) {
					return filepath.SkipDir
				}
				return nil
			}

			if !hasExtension(opts.Extensions, p) || ignored(opts.Ignore, rel) {
				return nil
			}
			if !opts.Hidden && strings.HasPrefix(d.Name(), ".") {
				return nil
			}
			if !seen[rel] {
				seen[rel] = true
				files = append(files, rel)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to scan %s: %w", base, err)
		}
	}

	sort.Strings(files)
	return files, nil
}

func hasExtension(exts []string, p string) bool {
	ext := filepath.Ext(p)
	for _, e := range exts {
		if strings.EqualFold(e, ext) {
			return true
		}
	}
	return false
}

func ignored(patterns []string, rel string) bool {
	for _, pattern := range patterns {
		if matchGlob(pattern, rel) {
			return true
		}
	}
	return false
}

// ignoredDir reports whether every file below rel is ignored by a pattern
// ending in /**.
func ignoredDir(patterns []string, rel string) bool {
	for _, pattern := range patterns {
		if prefix, ok := strings.CutSuffix(pattern, "/**"); ok && matchGlob(prefix, rel) {
			return true
		}
	}
	return false
}

// matchGlob matches a slash-separated path against pattern. Segments use
// path.Match syntax; a "**" segment matches any number of segments.
func matchGlob(pattern, name string) bool {
	return matchSegments(strings.Split(pattern, "/"), strings.Split(name, "/"))
}

func matchSegments(pattern, name []string) bool {
	for len(pattern) > 0 {
		if pattern[0] == "**" {
			rest := pattern[1:]
			for i := 0; i <= len(name); i++ {
				if matchSegments(rest, name[i:]) {
					return true
				}
			}
			return false
		}
		if len(name) == 0 {
			return false
		}
		ok, err := path.Match(pattern[0], name[0])
		if err != nil || !ok {
			return false
		}
		pattern, name = pattern[1:], name[1:]
	}
	return len(name) == 0
}
