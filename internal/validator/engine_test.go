package validator

import (
	"testing"

	"docweaver/internal/container"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func always(msg string) Rule {
	return RuleFunc(func(Target) []Issue {
		return []Issue{{Severity: SeverityWarning, Message: msg}}
	})
}

func TestEngine_ValidateRunsRulesInOrder(t *testing.T) {
	e := NewEngine()
	e.Register("first", always("one"))
	e.Register("second", always("two"))

	issues := e.Validate(Target{Name: "Foo", File: "foo.go", Line: 4})

	require.Len(t, issues, 2)
	assert.Equal(t, "first", issues[0].Rule)
	assert.Equal(t, "one", issues[0].Message)
	assert.Equal(t, "foo.go", issues[0].File)
	assert.Equal(t, 4, issues[0].Line)
	assert.Equal(t, "second", issues[1].Rule)
}

func TestEngine_RegisterOverridesInPlace(t *testing.T) {
	e := NewEngine()
	e.Register("a", always("old"))
	e.Register("b", always("b"))
	e.Register("a", always("new"))

	assert.Equal(t, []string{"a", "b"}, e.Rules())
	issues := e.Validate(Target{})
	require.Len(t, issues, 2)
	assert.Equal(t, "new", issues[0].Message)
}

func TestEngine_Remove(t *testing.T) {
	e := NewEngine()
	e.Register("a", always("a"))
	e.Register("b", always("b"))

	e.Remove("a")
	e.Remove("missing")

	assert.Equal(t, []string{"b"}, e.Rules())
	assert.False(t, e.Has("a"))
	assert.True(t, e.Has("b"))
}

func TestSortIssues(t *testing.T) {
	issues := []Issue{
		{Rule: "b", File: "b.go", Line: 1},
		{Rule: "z", File: "a.go", Line: 9},
		{Rule: "a", File: "a.go", Line: 9},
		{Rule: "a", File: "a.go", Line: 2},
	}

	SortIssues(issues)

	assert.Equal(t, []Issue{
		{Rule: "a", File: "a.go", Line: 2},
		{Rule: "a", File: "a.go", Line: 9},
		{Rule: "z", File: "a.go", Line: 9},
		{Rule: "b", File: "b.go", Line: 1},
	}, issues)
}

func TestSeverityYAML(t *testing.T) {
	out, err := yaml.Marshal(Issue{Rule: "r", Severity: SeverityError})
	require.NoError(t, err)
	assert.Contains(t, string(out), "severity: error")

	var back Issue
	require.NoError(t, yaml.Unmarshal(out, &back))
	assert.Equal(t, SeverityError, back.Severity)

	assert.Error(t, yaml.Unmarshal([]byte("severity: loud"), &back))
}

func TestProvider(t *testing.T) {
	c := container.New()
	require.NoError(t, container.NewProviderRegistry(c).Register(Provider{}))

	e1, err := container.Resolve[*Engine](c, ServiceKey)
	require.NoError(t, err)
	e2, err := container.Resolve[*Engine](c, ServiceKey)
	require.NoError(t, err)
	assert.Same(t, e1, e2)
}
