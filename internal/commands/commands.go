package commands

import (
	"docweaver/internal/console"
	"docweaver/internal/container"
	"docweaver/internal/packaging"

	"github.com/spf13/cobra"
)

// Command groups, shown as sections of the help output.
const (
	GroupProject = "project"
	GroupPhar    = "phar"
)

var groups = map[string]*cobra.Group{
	GroupProject: {ID: GroupProject, Title: "Project commands:"},
	GroupPhar:    {ID: GroupPhar, Title: "Distribution commands:"},
}

// Factory builds one command. The services a command needs are resolved from
// the container when it runs, never when it is built.
type Factory func(c *container.Container) *cobra.Command

// Assemble returns the command factories for mode. The project group is
// always present; the phar group only when running from a released archive.
func Assemble(mode packaging.Mode) []Factory {
	factories := []Factory{
		newRunCmd,
		newParseCmd,
		newTransformCmd,
	}
	if mode == packaging.ModeArchive {
		factories = append(factories, newUpdateCmd)
	}
	return factories
}

// Attach registers a console extension adding the commands built by
// factories, in order.
func Attach(c *container.Container, factories []Factory) error {
	return console.Extend(c, func(root *cobra.Command, c *container.Container) (*cobra.Command, error) {
		for _, f := range factories {
			cmd := f(c)
			if g, ok := groups[cmd.GroupID]; ok && !root.ContainsGroup(g.ID) {
				root.AddGroup(g)
			}
			root.AddCommand(cmd)
		}
		return root, nil
	})
}
