// Package transformer renders a parsed project into documentation files.
//
// Output is produced by Writers. Every configured template becomes a
// template writer; plugins contribute further writers. A template is either
// a built-in set (such as "default") or a directory of *.tmpl files. Files
// named package.*.tmpl are rendered once per package to <package>.*, every
// other file once for the project.
//
// Templates use text/template with the sprig function library plus:
//
//	t "key" args...       translated message
//	message issue         translated validator issue
//	partial "name"        configured partial
package transformer

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"docweaver/internal/descriptor"
	"docweaver/internal/partials"
	"docweaver/internal/translator"
	"docweaver/internal/validator"
	"docweaver/pkg/logging"
)

// ServiceKey is the container key of the shared *Transformer.
const ServiceKey = "transformer"

//go:embed templates
var builtin embed.FS

// Writer produces output files for a project below target. It returns the
// written paths relative to target.
type Writer interface {
	Name() string
	Write(ctx context.Context, p *descriptor.Project, target string) ([]string, error)
}

// Result lists what a transformation wrote.
type Result struct {
	Target string
	Files  []string
}

// Transformer renders projects through its writers.
type Transformer struct {
	partials   *partials.Collection
	translator *translator.Translator
	version    string
	baseDir    string
	writers    []Writer
}

// New returns a transformer. Template directories are resolved against
// baseDir.
func New(p *partials.Collection, t *translator.Translator, version, baseDir string) *Transformer {
	if p == nil {
		p = partials.NewCollection()
	}
	return &Transformer{partials: p, translator: t, version: version, baseDir: baseDir}
}

// AddWriter registers an additional writer run on every transformation.
func (t *Transformer) AddWriter(w Writer) {
	t.writers = append(t.writers, w)
}

// Writers returns the names of the additional writers.
func (t *Transformer) Writers() []string {
	names := make([]string, len(t.writers))
	for i, w := range t.writers {
		names[i] = w.Name()
	}
	return names
}

// BuiltinTemplates returns the names of the embedded template sets.
func BuiltinTemplates() []string {
	entries, _ := fs.ReadDir(builtin, "templates")
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names
}

// Transform renders p into target with the named templates followed by the
// additional writers.
func (t *Transformer) Transform(ctx context.Context, p *descriptor.Project, target string, templates []string) (Result, error) {
	if err := os.MkdirAll(target, 0755); err != nil {
		return Result{}, fmt.Errorf("failed to create target %s: %w", target, err)
	}

	writers := make([]Writer, 0, len(templates)+len(t.writers))
	for _, name := range templates {
		w, err := t.templateWriter(name)
		if err != nil {
			return Result{}, err
		}
		writers = append(writers, w)
	}
	writers = append(writers, t.writers...)

	seen := map[string]bool{}
	res := Result{Target: target}
	for _, w := range writers {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}
		files, err := w.Write(ctx, p, target)
		if err != nil {
			return Result{}, fmt.Errorf("writer %s: %w", w.Name(), err)
		}
		logging.Debug("Transformer", "Writer %s produced %d files", w.Name(), len(files))
		for _, f := range files {
			if !seen[f] {
				seen[f] = true
				res.Files = append(res.Files, f)
			}
		}
	}

	sort.Strings(res.Files)
	logging.Info("Transformer", "Wrote %d files to %s", len(res.Files), target)
	return res, nil
}

func (t *Transformer) templateWriter(name string) (Writer, error) {
	if sub, err := fs.Sub(builtin, "templates/"+name); err == nil {
		if _, err := fs.Stat(builtin, "templates/"+name); err == nil {
			return &templateWriter{name: name, fsys: sub, funcs: t.funcs(), version: t.version}, nil
		}
	}

	dir := name
	if !filepath.IsAbs(dir) && t.baseDir != "" {
		dir = filepath.Join(t.baseDir, dir)
	}
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("unknown template %q (built-in: %v)", name, BuiltinTemplates())
	}
	return &templateWriter{name: name, fsys: os.DirFS(dir), funcs: t.funcs(), version: t.version}, nil
}

func (t *Transformer) translate(key string, args ...any) string {
	if t.translator == nil {
		if len(args) == 0 {
			return key
		}
		return fmt.Sprintf(key, args...)
	}
	return t.translator.Translate(key, args...)
}

func (t *Transformer) message(issue validator.Issue) string {
	args := make([]any, len(issue.Args))
	for i, a := range issue.Args {
		args[i] = a
	}
	return t.translate(issue.Message, args...)
}
