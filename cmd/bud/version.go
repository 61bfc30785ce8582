package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/seho-dev/bud/internal/version"
)

func init() {
	rootCmd.AddCommand(newVersionCmd())
}

func newVersionCmd() *cobra.Command {
	var full bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print bud's version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			info := version.Get()
			if full {
				fmt.Println(info.Full())
			} else {
				fmt.Println(info.String())
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&full, "full", false, "print commit, build date, Go version, and platform")
	return cmd
}
