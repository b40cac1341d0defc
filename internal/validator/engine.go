// Package validator holds the rule engine run over parsed documentation.
package validator

import (
	"fmt"
	"sort"
	"sync"
)

// ServiceKey is the container key of the shared *Engine.
const ServiceKey = "validator"

// Severity ranks an Issue.
type Severity int

const (
	SeverityNotice Severity = iota
	SeverityWarning
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return "notice"
	}
}

// MarshalYAML renders the severity by name.
func (s Severity) MarshalYAML() (interface{}, error) {
	return s.String(), nil
}

// UnmarshalYAML accepts the names produced by MarshalYAML.
func (s *Severity) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var name string
	if err := unmarshal(&name); err != nil {
		return err
	}
	switch name {
	case "error":
		*s = SeverityError
	case "warning":
		*s = SeverityWarning
	case "notice":
		*s = SeverityNotice
	default:
		return fmt.Errorf("unknown severity %q", name)
	}
	return nil
}

// Target is one documented element handed to the rules.
type Target struct {
	Kind     string // package, func, method, type, const or var
	Name     string
	Doc      string
	Exported bool
	File     string
	Line     int
}

// Issue is a rule violation. Message is a translation key; Args fill its
// placeholders.
type Issue struct {
	Rule     string   `yaml:"rule"`
	Severity Severity `yaml:"severity"`
	Message  string   `yaml:"message"`
	Args     []string `yaml:"args,omitempty"`
	File     string   `yaml:"file"`
	Line     int      `yaml:"line"`
}

// Rule inspects a target and reports violations.
type Rule interface {
	Check(t Target) []Issue
}

// RuleFunc adapts a function to Rule.
type RuleFunc func(t Target) []Issue

func (f RuleFunc) Check(t Target) []Issue { return f(t) }

// Engine is a named rule set. Registering a name twice replaces the earlier
// rule but keeps its position.
type Engine struct {
	mu    sync.RWMutex
	rules map[string]Rule
	order []string
}

// NewEngine returns an engine without rules.
func NewEngine() *Engine {
	return &Engine{rules: make(map[string]Rule)}
}

// Register adds or replaces the rule called name.
func (e *Engine) Register(name string, rule Rule) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, exists := e.rules[name]; !exists {
		e.order = append(e.order, name)
	}
	e.rules[name] = rule
}

// Remove drops the rule called name, if present.
func (e *Engine) Remove(name string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, exists := e.rules[name]; !exists {
		return
	}
	delete(e.rules, name)
	for i, n := range e.order {
		if n == name {
			e.order = append(e.order[:i], e.order[i+1:]...)
			break
		}
	}
}

// Rules returns the registered rule names in registration order.
func (e *Engine) Rules() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()

	out := make([]string, len(e.order))
	copy(out, e.order)
	return out
}

// Has reports whether a rule called name is registered.
func (e *Engine) Has(name string) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	_, ok := e.rules[name]
	return ok
}

// Validate runs every rule against t. Issues come back in rule order with
// the rule name filled in.
func (e *Engine) Validate(t Target) []Issue {
	e.mu.RLock()
	defer e.mu.RUnlock()

	var issues []Issue
	for _, name := range e.order {
		for _, issue := range e.rules[name].Check(t) {
			issue.Rule = name
			if issue.File == "" {
				issue.File = t.File
				issue.Line = t.Line
			}
			issues = append(issues, issue)
		}
	}
	return issues
}

// SortIssues orders issues by file, line and rule.
func SortIssues(issues []Issue) {
	sort.SliceStable(issues, func(i, j int) bool {
		a, b := issues[i], issues[j]
		if a.File != b.File {
			return a.File < b.File
		}
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		return a.Rule < b.Rule
	})
}
