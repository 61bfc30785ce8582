package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(newLoadCmd())
}

func newLoadCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "load <plugin-name>",
		Short:   "Compile and instantiate an installed plugin",
		Example: `  bud load my-check`,
		Args:    cobra.ExactArgs(1),
		RunE: withHandle(func(ctx *CommandContext, cmd *cobra.Command, args []string) error {
			name := args[0]
			if err := ctx.Handle.Manager.Load(ctx.Context, name); err != nil {
				return fmt.Errorf("failed to load plugin %q: %w", name, err)
			}
			fmt.Printf("loaded plugin %q\n", name)
			return nil
		}),
	}
	return cmd
}
