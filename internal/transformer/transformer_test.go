package transformer

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"docweaver/internal/descriptor"
	"docweaver/internal/partials"
	"docweaver/internal/translator"
	"docweaver/internal/validator"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleProject() *descriptor.Project {
	return &descriptor.Project{
		Title: "Demo",
		RunID: "run-1",
		Files: []descriptor.File{
			{
				Path:       "server/server.go",
				Package:    "server",
				PackageDoc: "Package server runs things.\nMore detail.",
				Elements: []descriptor.Element{
					{Kind: descriptor.KindType, Name: "Server", Signature: "type Server struct", Doc: "Server serves.", Exported: true},
					{Kind: descriptor.KindMethod, Receiver: "Server", Name: "Start", Signature: "func (s *Server) Start() error", Exported: true},
					{Kind: descriptor.KindConst, Name: "Max", Doc: "upper bound", Exported: true},
				},
			},
			{Path: "main.go", Package: "main"},
		},
		Issues: []validator.Issue{
			{Rule: "missing-doc", Severity: validator.SeverityWarning, Message: "validator.missing_doc", Args: []string{"method", "Server.Start"}, File: "server/server.go", Line: 8},
		},
	}
}

func newTransformer(t *testing.T) *Transformer {
	t.Helper()
	tr, err := translator.New("en")
	require.NoError(t, err)
	p := partials.NewCollection()
	p.Set("footer", "Custom footer")
	return New(p, tr, "3.5.0", t.TempDir())
}

func read(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestTransform_DefaultTemplate(t *testing.T) {
	target := filepath.Join(t.TempDir(), "out")

	res, err := newTransformer(t).Transform(context.Background(), sampleProject(), target, []string{"default"})
	require.NoError(t, err)

	assert.Equal(t, []string{"index.md", "issues.md", "main.md", "server.md"}, res.Files)

	index := read(t, filepath.Join(target, "index.md"))
	assert.Contains(t, index, "# Demo")
	assert.Contains(t, index, "- [server](server.md): Package server runs things.")
	assert.Contains(t, index, "Generated by docweaver 3.5.0")
	assert.Contains(t, index, "Custom footer")
	assert.Contains(t, index, "(issues.md)")

	server := read(t, filepath.Join(target, "server.md"))
	assert.Contains(t, server, "### Server")
	assert.Contains(t, server, "type Server struct")
	assert.Contains(t, server, "### Server.Start")
	assert.Contains(t, server, "- `Max`: upper bound")

	issues := read(t, filepath.Join(target, "issues.md"))
	assert.Contains(t, issues, "method Server.Start is exported but undocumented")
}

func TestTransform_CustomTemplateDirectory(t *testing.T) {
	tr := newTransformer(t)
	dir := filepath.Join(tr.baseDir, "mytheme")
	require.NoError(t, os.MkdirAll(dir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "summary.txt.tmpl"),
		[]byte(`{{ .Project.Title | upper }} {{ len .Packages }}`), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "package.txt.tmpl"),
		[]byte(`{{ .Package.Name }}`), 0644))
	target := t.TempDir()

	res, err := tr.Transform(context.Background(), sampleProject(), target, []string{"mytheme"})
	require.NoError(t, err)

	assert.Equal(t, []string{"main.txt", "server.txt", "summary.txt"}, res.Files)
	assert.Equal(t, "DEMO 2", read(t, filepath.Join(target, "summary.txt")))
	assert.Equal(t, "server", read(t, filepath.Join(target, "server.txt")))
}

func TestTransform_UnknownTemplate(t *testing.T) {
	_, err := newTransformer(t).Transform(context.Background(), sampleProject(), t.TempDir(), []string{"nope"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown template "nope"`)
}

func TestTransform_TemplateError(t *testing.T) {
	tr := newTransformer(t)
	dir := filepath.Join(tr.baseDir, "broken")
	require.NoError(t, os.MkdirAll(dir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "x.tmpl"), []byte(`{{ .Nope }}`), 0644))

	_, err := tr.Transform(context.Background(), sampleProject(), t.TempDir(), []string{"broken"})
	assert.Error(t, err)
}

type fakeWriter struct {
	files []string
	err   error
}

func (w *fakeWriter) Name() string { return "fake" }

func (w *fakeWriter) Write(_ context.Context, _ *descriptor.Project, target string) ([]string, error) {
	for _, f := range w.files {
		if err := os.WriteFile(filepath.Join(target, f), nil, 0644); err != nil {
			return nil, err
		}
	}
	return w.files, w.err
}

func TestTransform_AdditionalWriters(t *testing.T) {
	tr := newTransformer(t)
	tr.AddWriter(&fakeWriter{files: []string{"extra.json", "index.md"}})

	res, err := tr.Transform(context.Background(), sampleProject(), t.TempDir(), []string{"default"})
	require.NoError(t, err)

	assert.Equal(t, []string{"fake"}, tr.Writers())
	assert.Equal(t, []string{"extra.json", "index.md", "issues.md", "main.md", "server.md"}, res.Files)
}

func TestTransform_WriterError(t *testing.T) {
	tr := newTransformer(t)
	tr.AddWriter(&fakeWriter{err: errors.New("disk full")})

	_, err := tr.Transform(context.Background(), sampleProject(), t.TempDir(), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "writer fake: disk full")
}

func TestTransform_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTransformer(t).Transform(ctx, sampleProject(), t.TempDir(), []string{"default"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestBuiltinTemplates(t *testing.T) {
	assert.Equal(t, []string{"default"}, BuiltinTemplates())
}
