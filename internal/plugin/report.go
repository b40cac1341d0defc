package plugin

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"docweaver/internal/descriptor"
	"docweaver/internal/transformer"
	"docweaver/internal/validator"

	"gopkg.in/yaml.v3"
)

// Report is the document written by the report plugin.
type Report struct {
	Title    string            `yaml:"title"`
	RunID    string            `yaml:"run_id"`
	Files    int               `yaml:"files"`
	Packages int               `yaml:"packages"`
	Counts   map[string]int    `yaml:"counts"`
	Issues   []validator.Issue `yaml:"issues"`
}

type reportPlugin struct{}

func (reportPlugin) Name() string { return "report" }

func (reportPlugin) Rules(map[string]string) (map[string]validator.Rule, error) {
	return nil, nil
}

func (reportPlugin) Writers(opts map[string]string) ([]transformer.Writer, error) {
	file := opts["file"]
	if file == "" {
		file = "report.yaml"
	}
	if filepath.IsAbs(file) || !filepath.IsLocal(file) {
		return nil, fmt.Errorf("report file %q must be a path inside the target", file)
	}
	return []transformer.Writer{&reportWriter{file: filepath.ToSlash(file)}}, nil
}

type reportWriter struct {
	file string
}

func (w *reportWriter) Name() string { return "report" }

func (w *reportWriter) Write(_ context.Context, p *descriptor.Project, target string) ([]string, error) {
	r := Report{
		Title:    p.Title,
		RunID:    p.RunID,
		Files:    len(p.Files),
		Packages: len(p.Packages()),
		Counts:   map[string]int{},
		Issues:   p.Issues,
	}
	for _, s := range []validator.Severity{validator.SeverityError, validator.SeverityWarning, validator.SeverityNotice} {
		r.Counts[s.String()] = 0
	}
	for _, i := range p.Issues {
		r.Counts[i.Severity.String()]++
	}

	data, err := yaml.Marshal(r)
	if err != nil {
		return nil, err
	}
	dest := filepath.Join(target, filepath.FromSlash(w.file))
	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return nil, err
	}
	if err := os.WriteFile(dest, data, 0644); err != nil {
		return nil, err
	}
	return []string{w.file}, nil
}
