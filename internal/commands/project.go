package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"docweaver/internal/container"
	"docweaver/internal/parser"
	"docweaver/pkg/logging"

	"github.com/spf13/cobra"
)

func newRunCmd(c *container.Container) *cobra.Command {
	var watch bool

	cmd := &cobra.Command{
		Use:     "project:run",
		Aliases: []string{"run"},
		GroupID: GroupProject,
		Short:   "Parse the project and render its documentation",
		Long: `Parses the configured source directories, checks the documentation
against the validator rules and renders the result with the configured
templates into the target directory.

With --watch the command stays running and rebuilds whenever a source
file changes.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			pl, err := newPipeline(c)
			if err != nil {
				return err
			}

			if err := runProject(cmd.Context(), cmd, pl); err != nil {
				return err
			}
			if !watch {
				return nil
			}
			return watchProject(cmd, pl)
		},
	}

	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "rebuild whenever a source file changes")
	return cmd
}

func newParseCmd(c *container.Container) *cobra.Command {
	return &cobra.Command{
		Use:     "project:parse",
		GroupID: GroupProject,
		Short:   "Parse the project into the cache",
		Long: `Parses the configured source directories and stores the analyzed
project in the parser cache directory. Use project:transform to render it.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			pl, err := newPipeline(c)
			if err != nil {
				return err
			}

			stop := startProgress(cmd, "Parsing sources...")
			out, err := pl.parse(cmd.Context())
			stop()
			if err != nil {
				return err
			}

			renderSummary(cmd.OutOrStdout(), pl.translator, summary{
				project:   out.project,
				fromCache: out.fromCache,
				parsed:    true,
			})
			return nil
		},
	}
}

func newTransformCmd(c *container.Container) *cobra.Command {
	return &cobra.Command{
		Use:     "project:transform",
		GroupID: GroupProject,
		Short:   "Render the last parsed project",
		Long: `Renders the project stored by the last project:parse with the
configured templates and plugin writers into the target directory.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			pl, err := newPipeline(c)
			if err != nil {
				return err
			}

			project, err := pl.load()
			if err != nil {
				return err
			}

			stop := startProgress(cmd, "Rendering documentation...")
			res, err := pl.transform(cmd.Context(), project)
			stop()
			if err != nil {
				return err
			}

			renderSummary(cmd.OutOrStdout(), pl.translator, summary{project: project, output: &res})
			return nil
		},
	}
}

// runProject parses and transforms once.
func runProject(ctx context.Context, cmd *cobra.Command, pl *pipeline) error {
	stop := startProgress(cmd, "Parsing sources...")
	out, err := pl.parse(ctx)
	stop()
	if err != nil {
		return err
	}

	stop = startProgress(cmd, "Rendering documentation...")
	res, err := pl.transform(ctx, out.project)
	stop()
	if err != nil {
		return err
	}

	renderSummary(cmd.OutOrStdout(), pl.translator, summary{
		project:   out.project,
		fromCache: out.fromCache,
		parsed:    true,
		output:    &res,
	})
	return nil
}

// watchProject reruns the project on source changes until interrupted.
// Failed rebuilds are logged and the watch continues.
func watchProject(cmd *cobra.Command, pl *pipeline) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := pl.options()
	fmt.Fprintln(cmd.OutOrStdout(), pl.translator.Translate("project.watching", len(opts.Directories)))

	w := parser.NewWatcher(opts, parser.DefaultDebounce)
	return w.Watch(ctx, func(changed []string) {
		logging.Debug("Console", "Changed: %v", changed)
		fmt.Fprintln(cmd.OutOrStdout(), pl.translator.Translate("project.rebuilding"))
		if err := runProject(ctx, cmd, pl); err != nil {
			logging.Error("Console", err, "Rebuild failed")
		}
	})
}
