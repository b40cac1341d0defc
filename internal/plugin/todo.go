package plugin

import (
	"strings"

	"docweaver/internal/transformer"
	"docweaver/internal/validator"
)

// RuleTodo flags doc comments carrying work markers.
const RuleTodo = "todo-marker"

var defaultMarkers = []string{"TODO", "FIXME", "XXX"}

type todoPlugin struct{}

func (todoPlugin) Name() string { return "todo" }

func (todoPlugin) Rules(opts map[string]string) (map[string]validator.Rule, error) {
	markers := defaultMarkers
	if v := opts["markers"]; v != "" {
		markers = nil
		for _, m := range strings.Split(v, ",") {
			if m = strings.TrimSpace(m); m != "" {
				markers = append(markers, m)
			}
		}
	}

	rule := validator.RuleFunc(func(t validator.Target) []validator.Issue {
		for _, m := range markers {
			if strings.Contains(t.Doc, m) {
				return []validator.Issue{{
					Severity: validator.SeverityNotice,
					Message:  "validator.todo",
					Args:     []string{t.Kind, t.Name, m},
				}}
			}
		}
		return nil
	})
	return map[string]validator.Rule{RuleTodo: rule}, nil
}

func (todoPlugin) Writers(map[string]string) ([]transformer.Writer, error) {
	return nil, nil
}
