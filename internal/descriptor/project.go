package descriptor

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"docweaver/internal/cache"
	"docweaver/internal/validator"
)

// Element kinds.
const (
	KindPackage = "package"
	KindFunc    = "func"
	KindMethod  = "method"
	KindType    = "type"
	KindConst   = "const"
	KindVar     = "var"
)

// Element is a documented declaration.
type Element struct {
	Kind      string `yaml:"kind"`
	Name      string `yaml:"name"`
	Receiver  string `yaml:"receiver,omitempty"`
	Signature string `yaml:"signature,omitempty"`
	Doc       string `yaml:"doc,omitempty"`
	Exported  bool   `yaml:"exported"`
	Line      int    `yaml:"line"`
}

// File is the parsed form of one source file.
type File struct {
	Path       string    `yaml:"path"`
	Hash       string    `yaml:"hash"`
	Package    string    `yaml:"package"`
	PackageDoc string    `yaml:"package_doc,omitempty"`
	Imports    []string  `yaml:"imports,omitempty"`
	Elements   []Element `yaml:"elements,omitempty"`
}

// Package groups the files declaring the same package.
type Package struct {
	Name     string
	Doc      string
	Files    []string
	Elements []Element
}

// Project is the descriptor handed from the parser to the transformer.
type Project struct {
	Title     string            `yaml:"title"`
	RunID     string            `yaml:"run_id"`
	CreatedAt time.Time         `yaml:"created_at"`
	Files     []File            `yaml:"files"`
	Issues    []validator.Issue `yaml:"issues,omitempty"`
}

// Packages returns the project's packages sorted by name. Elements keep file
// order.
func (p *Project) Packages() []Package {
	byName := map[string]*Package{}
	var names []string

	for _, f := range p.Files {
		pkg, ok := byName[f.Package]
		if !ok {
			pkg = &Package{Name: f.Package}
			byName[f.Package] = pkg
			names = append(names, f.Package)
		}
		if pkg.Doc == "" {
			pkg.Doc = f.PackageDoc
		}
		pkg.Files = append(pkg.Files, f.Path)
		pkg.Elements = append(pkg.Elements, f.Elements...)
	}

	sort.Strings(names)
	out := make([]Package, 0, len(names))
	for _, n := range names {
		out = append(out, *byName[n])
	}
	return out
}

// ElementsOf filters elements by kind.
func (pkg Package) ElementsOf(kind string) []Element {
	var out []Element
	for _, e := range pkg.Elements {
		if e.Kind == kind {
			out = append(out, e)
		}
	}
	return out
}

// IssueCount returns the number of issues at or above severity.
func (p *Project) IssueCount(min validator.Severity) int {
	n := 0
	for _, i := range p.Issues {
		if i.Severity >= min {
			n++
		}
	}
	return n
}

const (
	projectKind = "project"
	projectName = "current"
)

// ErrNoProject is returned by LoadProject when nothing was parsed yet.
var ErrNoProject = errors.New("no parsed project")

// SaveProject stores p as the current project in s.
func SaveProject(s *cache.Storage, p *Project) error {
	return s.Save(projectKind, projectName, p)
}

// LoadProject reads the current project from s.
func LoadProject(s *cache.Storage) (*Project, error) {
	var p Project
	if err := s.Load(projectKind, projectName, &p); err != nil {
		if errors.Is(err, cache.ErrNotFound) {
			return nil, fmt.Errorf("%w in %s", ErrNoProject, s.Dir())
		}
		return nil, err
	}
	return &p, nil
}
