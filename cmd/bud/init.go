package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/seho-dev/bud/internal/manifest"
	"github.com/seho-dev/bud/internal/rootconfig"
)

func init() {
	rootCmd.AddCommand(newInitCmd())
}

func newInitCmd() *cobra.Command {
	var name, description string

	cmd := &cobra.Command{
		Use:     "init",
		Short:   "Scaffold a bud.json root config in the current directory",
		Example: "  bud init --name my-app --description \"My application\"",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cwd, err := os.Getwd()
			if err != nil {
				return fmt.Errorf("failed to determine working directory: %w", err)
			}

			path := filepath.Join(cwd, rootconfig.FileName)
			if _, err := os.Stat(path); err == nil {
				return fmt.Errorf("%s already exists in %s", rootconfig.FileName, cwd)
			}

			if name == "" {
				name = filepath.Base(cwd)
			}
			if description == "" {
				description = fmt.Sprintf("%s plugin host", name)
			}

			cfg := manifest.RootConfig{Name: name, Version: "0.1.0", Description: description}
			raw, err := json.MarshalIndent(cfg, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to render root config: %w", err)
			}

			if err := os.WriteFile(path, raw, 0o644); err != nil {
				return fmt.Errorf("failed to write %s: %w", rootconfig.FileName, err)
			}

			fmt.Printf("wrote %s\n", path)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "application name (defaults to the current directory name)")
	cmd.Flags().StringVar(&description, "description", "", "application description")
	return cmd
}
