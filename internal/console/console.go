package console

import (
	"fmt"

	"github.com/spf13/cobra"
)

// ServiceKey is the container key of the root *cobra.Command.
const ServiceKey = "console"

// AnnotationSkipConfig marks commands that run without loading the
// configuration file.
const AnnotationSkipConfig = "docweaver/skip-config"

// New returns the console frontend: a root command without behavior of its
// own. Commands and global options are added by extensions before the
// console is first resolved.
//
// Errors are returned to the caller instead of printed so the application
// can map them to an exit status.
func New(name, version string) *cobra.Command {
	root := &cobra.Command{
		Use:   name,
		Short: "Generate API documentation from Go sources",
		Long: fmt.Sprintf(`%s parses the Go packages of a project, checks their documentation
and renders it through templates into a target directory.

Run "%s project:run" in a directory with a docweaver.yaml to get started.`, name, name),
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			HiddenDefaultCmd: true,
		},
	}
	root.SetVersionTemplate(fmt.Sprintf("{{printf \"%s version %%s\\n\" .Version}}", name))
	return root
}

// SkipsConfig reports whether cmd or one of its parents is annotated with
// AnnotationSkipConfig.
func SkipsConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if _, ok := c.Annotations[AnnotationSkipConfig]; ok {
			return true
		}
	}
	return false
}

// chainPreRun runs fn after whatever PersistentPreRunE root already had.
// Cobra only calls the nearest persistent hook, so helpers compose here.
func chainPreRun(root *cobra.Command, fn func(cmd *cobra.Command, args []string) error) {
	previous := root.PersistentPreRunE
	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if previous != nil {
			if err := previous(cmd, args); err != nil {
				return err
			}
		}
		return fn(cmd, args)
	}
}
