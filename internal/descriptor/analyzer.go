package descriptor

import (
	"docweaver/internal/validator"
)

// Analyzer validates a project with the shared rule engine.
type Analyzer struct {
	validator *validator.Engine
}

// NewAnalyzer returns an analyzer over engine.
func NewAnalyzer(engine *validator.Engine) *Analyzer {
	return &Analyzer{validator: engine}
}

// Validator returns the engine initializers register rules into.
func (a *Analyzer) Validator() *validator.Engine {
	return a.validator
}

// Analyze validates every package and element of p and stores the sorted
// issues on it.
func (a *Analyzer) Analyze(p *Project) []validator.Issue {
	var issues []validator.Issue

	for _, pkg := range p.Packages() {
		file := ""
		if len(pkg.Files) > 0 {
			file = pkg.Files[0]
		}
		issues = append(issues, a.validator.Validate(validator.Target{
			Kind:     KindPackage,
			Name:     pkg.Name,
			Doc:      pkg.Doc,
			Exported: true,
			File:     file,
			Line:     1,
		})...)
	}

	for _, f := range p.Files {
		for _, e := range f.Elements {
			issues = append(issues, a.validator.Validate(validator.Target{
				Kind:     e.Kind,
				Name:     qualifiedName(e),
				Doc:      e.Doc,
				Exported: e.Exported,
				File:     f.Path,
				Line:     e.Line,
			})...)
		}
	}

	validator.SortIssues(issues)
	p.Issues = issues
	return issues
}

func qualifiedName(e Element) string {
	if e.Receiver != "" {
		return e.Receiver + "." + e.Name
	}
	return e.Name
}
