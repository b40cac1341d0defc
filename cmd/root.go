package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"docweaver/internal/app"
	"docweaver/internal/config"
	"docweaver/internal/environment"
	"docweaver/internal/packaging"

	"github.com/fatih/color"
)

// ShellFlag starts the interactive shell instead of running a single command.
const ShellFlag = "--shell"

// Execute is the main entry point for the CLI application. It bootstraps the
// application with the resolved version, runs the process arguments and
// exits with the resulting status.
func Execute(version string) {
	os.Exit(run(context.Background(), version, os.Args[1:], os.Stdout, os.Stderr))
}

// normalize prepares the process environment. It runs before anything else
// in run.
var normalize = environment.Normalize

func run(ctx context.Context, version string, args []string, stdout, stderr io.Writer) int {
	res, err := normalize()
	if err != nil {
		printError(stderr, err)
		return app.ExitCode(err)
	}

	interactive, args := splitShellFlag(args)

	a, err := app.New(app.Options{
		Version:    version,
		Packaging:  packaging.Detect(version),
		Normalizer: func() (environment.Result, error) { return res, nil },
		Stdout:     stdout,
		Stderr:     stderr,
	})
	if err != nil {
		printError(stderr, err)
		return app.ExitCode(err)
	}

	status, err := a.Run(ctx, args, interactive)
	if err != nil {
		printError(stderr, err)
	}
	return status
}

// splitShellFlag removes ShellFlag from args. Arguments after "--" are left
// alone.
func splitShellFlag(args []string) (bool, []string) {
	interactive := false
	out := make([]string, 0, len(args))
	for i, arg := range args {
		if arg == "--" {
			out = append(out, args[i:]...)
			break
		}
		if arg == ShellFlag {
			interactive = true
			continue
		}
		out = append(out, arg)
	}
	return interactive, out
}

func printError(w io.Writer, err error) {
	var cfgErr *config.ConfigurationError
	if errors.As(err, &cfgErr) {
		fmt.Fprintln(w, color.RedString(cfgErr.DetailedError()))
		return
	}
	fmt.Fprintln(w, color.RedString("Error: %v", err))
}
