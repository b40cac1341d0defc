package commands

import (
	"fmt"

	"docweaver/internal/console"
	"docweaver/internal/container"
	"docweaver/internal/translator"
	"docweaver/internal/version"
	"docweaver/pkg/logging"

	"github.com/creativeprojects/go-selfupdate"
	"github.com/spf13/cobra"
)

// githubRepoSlug is the repository releases are downloaded from.
const githubRepoSlug = "docweaver/docweaver"

func newUpdateCmd(c *container.Container) *cobra.Command {
	var checkOnly bool

	cmd := &cobra.Command{
		Use:     "phar:update",
		Aliases: []string{"self-update", "selfupdate"},
		GroupID: GroupPhar,
		Short:   "Update docweaver to the latest release",
		Long: `Checks for the latest release on GitHub and replaces the running
binary if a newer version is found. Development builds cannot be updated.`,
		Args: cobra.NoArgs,
		// Updating must keep working when the project configuration is broken.
		Annotations: map[string]string{console.AnnotationSkipConfig: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			current, err := container.Resolve[string](c, version.ServiceKey)
			if err != nil {
				return err
			}
			if !version.IsRelease(current) {
				return fmt.Errorf("cannot self-update development version %q", current)
			}
			return selfUpdate(cmd, updateTranslator(c), current, checkOnly)
		},
	}

	cmd.Flags().BoolVar(&checkOnly, "check", false, "only report whether a newer version exists")
	return cmd
}

// updateTranslator returns the configured translator, or the fallback
// catalog when the configuration cannot be loaded.
func updateTranslator(c *container.Container) *translator.Translator {
	t, err := container.Resolve[*translator.Translator](c, translator.ServiceKey)
	if err == nil {
		return t
	}
	logging.Debug("Console", "Using fallback messages: %v", err)

	t, err = translator.New(translator.FallbackLocale)
	if err != nil {
		return nil
	}
	return t
}

func selfUpdate(cmd *cobra.Command, tr *translator.Translator, current string, checkOnly bool) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()
	say := func(key string, args ...any) {
		if tr == nil {
			return
		}
		fmt.Fprintln(out, tr.Translate(key, args...))
	}

	say("phar.current", current)
	say("phar.checking")

	updater, err := selfupdate.NewUpdater(selfupdate.Config{})
	if err != nil {
		return fmt.Errorf("failed to create updater: %w", err)
	}

	latest, found, err := updater.DetectLatest(ctx, selfupdate.ParseSlug(githubRepoSlug))
	if err != nil {
		return fmt.Errorf("error detecting latest version: %w", err)
	}
	if !found {
		return fmt.Errorf("latest release for %s could not be found", githubRepoSlug)
	}

	if !latest.GreaterThan(current) {
		say("phar.latest")
		return nil
	}

	say("phar.found", latest.Version())
	if checkOnly {
		return nil
	}

	exe, err := selfupdate.ExecutablePath()
	if err != nil {
		return fmt.Errorf("could not locate executable path: %w", err)
	}
	logging.Info("Console", "Updating %s to version %s", exe, latest.Version())

	if err := updater.UpdateTo(ctx, latest, exe); err != nil {
		return fmt.Errorf("update failed: %w", err)
	}

	say("phar.updated", latest.Version())
	return nil
}
