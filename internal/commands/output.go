package commands

import (
	"fmt"
	"io"
	"os"
	"time"

	"docweaver/internal/console"
	"docweaver/internal/descriptor"
	"docweaver/internal/transformer"
	"docweaver/internal/translator"
	"docweaver/internal/validator"
	strs "docweaver/pkg/strings"

	"github.com/briandowns/spinner"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// startProgress shows a spinner with msg while a step runs. It is a no-op
// unless the command writes to a terminal and --quiet is off.
func startProgress(cmd *cobra.Command, msg string) func() {
	f, ok := cmd.OutOrStdout().(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) || quiet(cmd) {
		return func() {}
	}

	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(f))
	s.Suffix = " " + msg
	s.Start()
	return s.Stop
}

func quiet(cmd *cobra.Command) bool {
	f := cmd.Flag(console.FlagQuiet)
	return f != nil && f.Value.String() == "true"
}

// summary collects what a project command did.
type summary struct {
	project   *descriptor.Project
	fromCache int
	parsed    bool
	output    *transformer.Result
}

// renderSummary prints the run summary table followed by the issues found.
func renderSummary(w io.Writer, tr *translator.Translator, s summary) {
	p := s.project

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{
		text.FgHiCyan.Sprint("KEY"),
		text.FgHiCyan.Sprint("VALUE"),
	})

	t.AppendRow(table.Row{text.FgHiCyan.Sprint("Title"), p.Title})
	t.AppendRow(table.Row{text.FgHiCyan.Sprint("Run"), p.RunID})
	t.AppendRow(table.Row{text.FgHiCyan.Sprint(tr.Translate("transformer.packages")), len(p.Packages())})
	if s.parsed {
		t.AppendRow(table.Row{text.FgHiCyan.Sprint(tr.Translate("transformer.files")),
			tr.Translate("project.parsed", len(p.Files), s.fromCache)})
	} else {
		t.AppendRow(table.Row{text.FgHiCyan.Sprint(tr.Translate("transformer.files")), len(p.Files)})
	}
	t.AppendRow(table.Row{text.FgHiCyan.Sprint(tr.Translate("transformer.issues")), formatIssueCounts(p)})
	if s.output != nil {
		t.AppendRow(table.Row{text.FgHiCyan.Sprint("Output"),
			tr.Translate("project.transformed", len(s.output.Files), s.output.Target)})
	}
	t.Render()

	if len(p.Issues) > 0 {
		renderIssues(w, tr, p.Issues)
	}
}

func formatIssueCounts(p *descriptor.Project) string {
	errs := p.IssueCount(validator.SeverityError)
	warnings := p.IssueCount(validator.SeverityWarning) - errs
	notices := len(p.Issues) - errs - warnings

	out := fmt.Sprintf("%d", len(p.Issues))
	if len(p.Issues) == 0 {
		return text.FgGreen.Sprint(out)
	}
	return fmt.Sprintf("%s (%s, %s, %s)", out,
		text.FgRed.Sprintf("%d errors", errs),
		text.FgYellow.Sprintf("%d warnings", warnings),
		fmt.Sprintf("%d notices", notices))
}

func renderIssues(w io.Writer, tr *translator.Translator, issues []validator.Issue) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{
		text.FgHiCyan.Sprint("LOCATION"),
		text.FgHiCyan.Sprint("SEVERITY"),
		text.FgHiCyan.Sprint("RULE"),
		text.FgHiCyan.Sprint("MESSAGE"),
	})
	for _, i := range issues {
		t.AppendRow(table.Row{
			fmt.Sprintf("%s:%d", i.File, i.Line),
			severityColor(i.Severity).Sprint(i.Severity),
			i.Rule,
			strs.Truncate(issueMessage(tr, i), strs.MessageMaxLen),
		})
	}
	t.Render()
}

func severityColor(s validator.Severity) text.Colors {
	switch s {
	case validator.SeverityError:
		return text.Colors{text.FgRed}
	case validator.SeverityWarning:
		return text.Colors{text.FgYellow}
	default:
		return text.Colors{text.FgHiBlack}
	}
}

func issueMessage(tr *translator.Translator, i validator.Issue) string {
	args := make([]any, len(i.Args))
	for n, a := range i.Args {
		args[n] = a
	}
	return tr.Translate(i.Message, args...)
}
