// Package cli wires the filefinder commands: the HTTP bridge server and a
// terminal front end to the same search core.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version is injected at build time via -ldflags
var Version = "dev"

// NewRootCommand creates the root cobra command for filefinder.
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "filefinder",
		Short: "Native backend for the filefinder desktop shell",
		Long: `filefinder is the native side of a desktop file search shell.

It walks a directory tree (following symlinks), canonicalizes every entry,
and returns the paths that contain a query substring. The "serve" command
exposes this to the UI over a local HTTP command bridge; the "search"
command runs it directly from a terminal.`,
		Version:      Version,
		SilenceUsage: true,
	}

	cmd.AddCommand(NewServeCommand())
	cmd.AddCommand(NewSearchCommand())
	cmd.AddCommand(NewHashSecretCommand())
	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), Version)
		},
	})

	return cmd
}
