package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(newInstallCmd())
}

func newInstallCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "install <source-dir>",
		Short: "Install a plugin from a source directory into the data root",
		Long: `Validate the plugin manifest in source-dir, then copy its contents into
the per-application data root under the manifest's declared name.`,
		Example: `  bud install ./plugins/my-check`,
		Args:    cobra.ExactArgs(1),
		RunE: withHandle(func(ctx *CommandContext, cmd *cobra.Command, args []string) error {
			sourceDir := args[0]
			if err := ctx.Handle.Manager.Install(ctx.Context, sourceDir); err != nil {
				return fmt.Errorf("failed to install plugin: %w", err)
			}
			fmt.Printf("installed plugin from %s\n", sourceDir)
			return nil
		}),
	}
	return cmd
}
