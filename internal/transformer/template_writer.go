package transformer

import (
	"bytes"
	"context"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"text/template"

	"docweaver/internal/descriptor"
	strs "docweaver/pkg/strings"

	"github.com/Masterminds/sprig/v3"
)

const packagePrefix = "package."

// Data is the value templates are executed with.
type Data struct {
	Project  *descriptor.Project
	Packages []descriptor.Package
	Package  *descriptor.Package
	Version  string
}

type templateWriter struct {
	name    string
	fsys    fs.FS
	funcs   template.FuncMap
	version string
}

func (w *templateWriter) Name() string { return "template:" + w.name }

func (w *templateWriter) Write(ctx context.Context, p *descriptor.Project, target string) ([]string, error) {
	names, err := fs.Glob(w.fsys, "*.tmpl")
	if err != nil {
		return nil, err
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("template %s has no *.tmpl files", w.name)
	}
	sort.Strings(names)

	packages := p.Packages()
	var written []string

	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		src, err := fs.ReadFile(w.fsys, name)
		if err != nil {
			return nil, err
		}
		tmpl, err := template.New(name).Funcs(w.funcs).Parse(string(src))
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", name, err)
		}

		out := strings.TrimSuffix(name, ".tmpl")
		data := Data{Project: p, Packages: packages, Version: w.version}

		if !strings.HasPrefix(out, packagePrefix) {
			if err := render(tmpl, data, filepath.Join(target, out)); err != nil {
				return nil, err
			}
			written = append(written, out)
			continue
		}

		suffix := strings.TrimPrefix(out, packagePrefix)
		for i := range packages {
			data.Package = &packages[i]
			file := path.Join(packages[i].Name + "." + suffix)
			if err := render(tmpl, data, filepath.Join(target, file)); err != nil {
				return nil, err
			}
			written = append(written, file)
		}
	}
	return written, nil
}

func render(tmpl *template.Template, data Data, dest string) error {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return fmt.Errorf("failed to render %s: %w", filepath.Base(dest), err)
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return err
	}
	return os.WriteFile(dest, buf.Bytes(), 0644)
}

func (t *Transformer) funcs() template.FuncMap {
	funcs := sprig.TxtFuncMap()
	funcs["t"] = t.translate
	funcs["message"] = t.message
	funcs["partial"] = t.partials.Render
	funcs["synopsis"] = strs.Synopsis
	return funcs
}
