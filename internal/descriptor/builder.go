package descriptor

import (
	"sort"
	"time"

	"docweaver/pkg/logging"

	"github.com/google/uuid"
)

// Builder turns parsed files into an analyzed Project.
type Builder struct {
	analyzer     *Analyzer
	initializers *InitializerChain
	now          func() time.Time
}

// NewBuilder returns a builder validating with analyzer after running
// chain.
func NewBuilder(analyzer *Analyzer, chain *InitializerChain) *Builder {
	return &Builder{analyzer: analyzer, initializers: chain, now: time.Now}
}

// Initializers is the registration point for analyzer initializers.
func (b *Builder) Initializers() *InitializerChain {
	return b.initializers
}

// Analyzer returns the analyzer projects are validated with.
func (b *Builder) Analyzer() *Analyzer {
	return b.analyzer
}

// Build assembles and analyzes a project. Pending initializers run first.
func (b *Builder) Build(title string, files []File) (*Project, error) {
	if err := b.initializers.Initialize(b.analyzer); err != nil {
		return nil, err
	}

	sorted := make([]File, len(files))
	copy(sorted, files)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Path < sorted[j].Path })

	p := &Project{
		Title:     title,
		RunID:     uuid.NewString(),
		CreatedAt: b.now().UTC(),
		Files:     sorted,
	}
	issues := b.analyzer.Analyze(p)

	logging.Info("Descriptor", "Built project %q (run %s): %d files, %d issues", title, p.RunID, len(sorted), len(issues))
	return p, nil
}
