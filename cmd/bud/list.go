package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/seho-dev/bud/internal/pluginmanager"
)

// pluginSummary is the list command's rendered view of a pluginmanager.PluginInfo,
// chosen so the JSON shape doesn't couple callers to manifest.Manifest's field set.
type pluginSummary struct {
	Name    string `json:"name"`
	Version string `json:"version"`
	Author  string `json:"author"`
	Path    string `json:"path"`
}

func summarize(infos []pluginmanager.PluginInfo) []pluginSummary {
	out := make([]pluginSummary, 0, len(infos))
	for _, info := range infos {
		out = append(out, pluginSummary{
			Name:    info.Manifest.Name,
			Version: info.Manifest.Version,
			Author:  info.Manifest.Author,
			Path:    info.Path,
		})
	}
	return out
}

func init() {
	rootCmd.AddCommand(newListCmd())
}

func newListCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:     "list",
		Short:   "List installed plugins",
		Long:    `Scan the data root and list every plugin whose manifest validates.`,
		Example: "  bud list\n  bud list --format json",
		Args:    cobra.NoArgs,
		RunE: withHandle(func(ctx *CommandContext, cmd *cobra.Command, args []string) error {
			infos, err := ctx.Handle.Manager.GetAll(ctx.Context)
			if err != nil {
				return fmt.Errorf("failed to list plugins: %w", err)
			}
			plugins := summarize(infos)

			switch format {
			case "json":
				return printPluginsJSON(plugins)
			case "text", "":
				return printPluginsText(plugins)
			default:
				return fmt.Errorf("unsupported format %q: use json or text", format)
			}
		}),
	}

	cmd.Flags().StringVar(&format, "format", "text", "output format: text or json")
	return cmd
}

func printPluginsText(plugins []pluginSummary) error {
	if len(plugins) == 0 {
		fmt.Println("No plugins found in the data root.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
	if _, err := fmt.Fprintln(w, "NAME\tVERSION\tAUTHOR\tPATH"); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, p := range plugins {
		if _, err := fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", p.Name, p.Version, p.Author, p.Path); err != nil {
			return fmt.Errorf("failed to write plugin row: %w", err)
		}
	}
	return w.Flush()
}

func printPluginsJSON(plugins []pluginSummary) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(plugins)
}
