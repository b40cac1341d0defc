package descriptor

import (
	"errors"
	"fmt"
	"strings"

	"docweaver/internal/validator"
)

// ErrChainInitialized is returned when an initializer is added after the
// chain ran.
var ErrChainInitialized = errors.New("initializer chain already ran")

// Initializer configures the analyzer before first use.
type Initializer interface {
	Initialize(a *Analyzer) error
}

// InitializerFunc adapts a function to Initializer.
type InitializerFunc func(a *Analyzer) error

func (f InitializerFunc) Initialize(a *Analyzer) error { return f(a) }

// InitializerChain runs its initializers once, in registration order.
type InitializerChain struct {
	initializers []Initializer
	ran          int
	done         bool
}

// NewInitializerChain returns an empty chain.
func NewInitializerChain() *InitializerChain {
	return &InitializerChain{}
}

// AddInitializer appends i. It fails with ErrChainInitialized once the
// chain ran.
func (c *InitializerChain) AddInitializer(i Initializer) error {
	if c.done {
		return ErrChainInitialized
	}
	c.initializers = append(c.initializers, i)
	return nil
}

// Initialize runs every pending initializer against a. Later calls are
// no-ops. When an initializer fails, the ones before it are not run again
// on retry.
func (c *InitializerChain) Initialize(a *Analyzer) error {
	if c.done {
		return nil
	}
	for c.ran < len(c.initializers) {
		i := c.initializers[c.ran]
		if err := i.Initialize(a); err != nil {
			return fmt.Errorf("initializer %d (%T) failed: %w", c.ran, i, err)
		}
		c.ran++
	}
	c.done = true
	return nil
}

// Initialized reports whether the chain ran to completion.
func (c *InitializerChain) Initialized() bool {
	return c.done
}

// Len returns the number of registered initializers.
func (c *InitializerChain) Len() int {
	return len(c.initializers)
}

// Default rule names.
const (
	RuleMissingDoc = "missing-doc"
	RuleDocPrefix  = "doc-prefix"
	RulePackageDoc = "package-doc"
)

// DefaultValidators registers the default rule set into Engine, or into the
// analyzer's engine when Engine is nil.
type DefaultValidators struct {
	Engine *validator.Engine
}

func (d DefaultValidators) Initialize(a *Analyzer) error {
	engine := d.Engine
	if engine == nil {
		engine = a.Validator()
	}
	if engine == nil {
		return errors.New("no validator engine")
	}

	engine.Register(RuleMissingDoc, validator.RuleFunc(missingDoc))
	engine.Register(RuleDocPrefix, validator.RuleFunc(docPrefix))
	engine.Register(RulePackageDoc, validator.RuleFunc(packageDoc))
	return nil
}

func missingDoc(t validator.Target) []validator.Issue {
	if t.Kind == KindPackage || !t.Exported || strings.TrimSpace(t.Doc) != "" {
		return nil
	}
	return []validator.Issue{{
		Severity: validator.SeverityWarning,
		Message:  "validator.missing_doc",
		Args:     []string{t.Kind, t.Name},
	}}
}

func docPrefix(t validator.Target) []validator.Issue {
	if !t.Exported || strings.TrimSpace(t.Doc) == "" {
		return nil
	}
	if t.Kind != KindFunc && t.Kind != KindMethod && t.Kind != KindType {
		return nil
	}

	name := t.Name
	if i := strings.LastIndex(name, "."); i >= 0 {
		name = name[i+1:]
	}
	words := strings.Fields(t.Doc)
	if words[0] == "A" || words[0] == "An" || words[0] == "The" {
		words = words[1:]
	}
	if len(words) > 0 && strings.TrimRight(words[0], ".,:") == name {
		return nil
	}
	return []validator.Issue{{
		Severity: validator.SeverityNotice,
		Message:  "validator.doc_prefix",
		Args:     []string{t.Name},
	}}
}

func packageDoc(t validator.Target) []validator.Issue {
	if t.Kind != KindPackage || strings.TrimSpace(t.Doc) != "" {
		return nil
	}
	return []validator.Issue{{
		Severity: validator.SeverityNotice,
		Message:  "validator.package_doc",
		Args:     []string{t.Name},
	}}
}
