package console

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"docweaver/pkg/logging"

	"github.com/chzyer/readline"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// errExit ends the shell loop.
var errExit = errors.New("exit")

// Shell is an interactive read-eval-print loop over the console. Every line
// is split into arguments and dispatched like a command line.
type Shell struct {
	root *cobra.Command

	// Prefix is prepended to the arguments of every line, typically the
	// global options the shell was started with.
	Prefix []string

	Stdout io.Writer
	Stderr io.Writer

	// HistoryFile defaults to a file in the temp directory.
	HistoryFile string
}

// NewShell wraps root in a shell.
func NewShell(root *cobra.Command) *Shell {
	return &Shell{
		root:        root,
		Stdout:      os.Stdout,
		Stderr:      os.Stderr,
		HistoryFile: filepath.Join(os.TempDir(), "."+root.Name()+"_history"),
	}
}

// Run reads lines until exit, quit, Ctrl+D or ctx is done. Command errors are
// printed and do not end the loop.
func (s *Shell) Run(ctx context.Context) error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:            s.prompt(),
		HistoryFile:       s.HistoryFile,
		AutoComplete:      s.completer(),
		InterruptPrompt:   "^C",
		EOFPrompt:         "exit",
		HistorySearchFold: true,
		Stdout:            s.Stdout,
		Stderr:            s.Stderr,
		FuncFilterInputRune: func(r rune) (rune, bool) {
			if r == readline.CharCtrlZ {
				return r, false
			}
			return r, true
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create readline instance: %w", err)
	}
	defer rl.Close()

	fmt.Fprintf(s.Stdout, "%s %s shell. Type 'help' for commands, 'exit' to leave.\n\n", s.root.Name(), s.root.Version)

	for {
		if ctx.Err() != nil {
			return nil
		}

		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			continue
		} else if errors.Is(err, io.EOF) {
			return nil
		} else if err != nil {
			return fmt.Errorf("readline error: %w", err)
		}

		if err := s.Execute(ctx, line); err != nil {
			if errors.Is(err, errExit) {
				return nil
			}
			fmt.Fprintln(s.Stderr, color.RedString("Error: %v", err))
		}
	}
}

// Execute dispatches a single line. It returns errExit for exit and quit.
func (s *Shell) Execute(ctx context.Context, line string) error {
	args := strings.Fields(line)
	if len(args) == 0 {
		return nil
	}
	switch args[0] {
	case "exit", "quit":
		return errExit
	}

	defer resetFlags(s.root)

	full := make([]string, 0, len(s.Prefix)+len(args))
	full = append(full, s.Prefix...)
	full = append(full, args...)

	logging.Debug("Console", "Shell dispatch: %s", strings.Join(full, " "))
	s.root.SetArgs(full)
	return s.root.ExecuteContext(ctx)
}

func (s *Shell) prompt() string {
	return color.New(color.FgCyan, color.Bold).Sprint(s.root.Name()) + " > "
}

// completer offers the command names and their flags.
func (s *Shell) completer() *readline.PrefixCompleter {
	var items []readline.PrefixCompleterInterface
	for _, name := range commandNames(s.root) {
		cmd, _, err := s.root.Find([]string{name})
		if err != nil {
			continue
		}
		var flags []readline.PrefixCompleterInterface
		cmd.Flags().VisitAll(func(f *pflag.Flag) {
			flags = append(flags, readline.PcItem("--"+f.Name))
		})
		items = append(items, readline.PcItem(name, flags...))
	}
	items = append(items,
		readline.PcItem("help", pcItems(commandNames(s.root))...),
		readline.PcItem("exit"),
		readline.PcItem("quit"),
	)
	return readline.NewPrefixCompleter(items...)
}

func commandNames(root *cobra.Command) []string {
	var names []string
	for _, cmd := range root.Commands() {
		if cmd.Hidden || !cmd.IsAvailableCommand() {
			continue
		}
		names = append(names, cmd.Name())
		names = append(names, cmd.Aliases...)
	}
	sort.Strings(names)
	return names
}

func pcItems(names []string) []readline.PrefixCompleterInterface {
	out := make([]readline.PrefixCompleterInterface, len(names))
	for i, n := range names {
		out[i] = readline.PcItem(n)
	}
	return out
}

// resetFlags restores every changed flag below cmd to its default. Cobra
// keeps flag values between executions of the same command tree.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if !f.Changed {
			return
		}
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	cmd.PersistentFlags().VisitAll(reset)
	cmd.Flags().VisitAll(reset)
	for _, sub := range cmd.Commands() {
		resetFlags(sub)
	}
}
