package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/seho-dev/bud/internal/value"
)

func init() {
	rootCmd.AddCommand(newInvokeCmd())
}

func newInvokeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "invoke <plugin-name> <function> [args...]",
		Short: "Invoke an exported function on a loaded plugin",
		Long: `Invoke calls an exported function by name, passing the given numeric
arguments. Each argument is given as <type>:<value>, where type is one of
i32, i64, f32, f64 (e.g. "i32:2" or "f64:3.14").`,
		Example: `  bud invoke my-check Sum i32:1 i32:2`,
		Args:    cobra.MinimumNArgs(2),
		RunE: withHandle(func(ctx *CommandContext, cmd *cobra.Command, args []string) error {
			pluginName := args[0]
			function := args[1]

			values, err := parseValueArgs(args[2:])
			if err != nil {
				return fmt.Errorf("failed to parse arguments: %w", err)
			}

			log := invocationLogger(ctx.Logger, pluginName, function)
			log.Info("invoking plugin function")

			result, err := ctx.Handle.Manager.Invoke(ctx.Context, pluginName, function, values)
			if err != nil {
				log.Error("invocation failed", "error", err)
				return fmt.Errorf("failed to invoke %q on plugin %q: %w", function, pluginName, err)
			}

			fmt.Println(result.String())
			return nil
		}),
	}
	return cmd
}

func parseValueArgs(raw []string) ([]value.Value, error) {
	values := make([]value.Value, 0, len(raw))
	for _, arg := range raw {
		v, err := parseValueArg(arg)
		if err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	return values, nil
}

func parseValueArg(arg string) (value.Value, error) {
	parts := strings.SplitN(arg, ":", 2)
	if len(parts) != 2 {
		return value.Null, fmt.Errorf("argument %q must be of the form <type>:<value>", arg)
	}
	kind, raw := parts[0], parts[1]

	switch kind {
	case "i32":
		n, err := strconv.ParseInt(raw, 10, 32)
		if err != nil {
			return value.Null, fmt.Errorf("invalid i32 value %q: %w", raw, err)
		}
		return value.I32(int32(n)), nil
	case "i64":
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return value.Null, fmt.Errorf("invalid i64 value %q: %w", raw, err)
		}
		return value.I64(n), nil
	case "f32":
		f, err := strconv.ParseFloat(raw, 32)
		if err != nil {
			return value.Null, fmt.Errorf("invalid f32 value %q: %w", raw, err)
		}
		return value.F32(float32(f)), nil
	case "f64":
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return value.Null, fmt.Errorf("invalid f64 value %q: %w", raw, err)
		}
		return value.F64(f), nil
	default:
		return value.Null, fmt.Errorf("unsupported argument type %q: only i32/i64/f32/f64 may cross the guest boundary", kind)
	}
}
