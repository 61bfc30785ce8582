package main

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/seho-dev/bud/internal/sysconfig"
)

var (
	cfgFile  string
	logLevel string
	quiet    bool

	// settings is the optional system configuration (internal/sysconfig),
	// resolved once by initConfig and consulted by withHandle for the WASM
	// memory limit and data root override.
	settings sysconfig.Settings
)

// rootCmd is the application entry point.
var rootCmd = &cobra.Command{
	Use:   "bud",
	Short: "Host harness for sandboxed WebAssembly plugins",
	Long: `bud discovers, installs, and executes sandboxed WebAssembly plugins on
behalf of a parent application. It presents a uniform provider interface
over a WebAssembly engine, isolates every plugin inside its own memory
store, and mediates every call between host and guest through a small
typed value ADT.`,
	PersistentPreRun: func(cmd *cobra.Command, _ []string) {
		setupLogging(cmd)
	},
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "system config file (default is $HOME/.config/bud/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress all log output, errors included")
}

// initConfig loads the optional system config file (internal/sysconfig)
// into the package-level settings var. A missing file is not an error:
// settings falls back to its defaults, matching sysconfig.Load's contract.
func initConfig() {
	v := viper.GetViper()

	configDir := defaultConfigDir()
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		configDir = filepath.Dir(cfgFile)
	}

	loaded, err := sysconfig.Load(v, configDir)
	if err != nil {
		slog.Error("failed to read system config", "error", err)
		os.Exit(1)
	}
	settings = loaded

	if used := v.ConfigFileUsed(); used != "" {
		slog.Debug("using config file", "file", used)
	}
}

func defaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "bud")
}

// setupLogging installs the default slog handler. --log-level/--quiet take
// precedence when passed explicitly; otherwise the system config's
// log_level (sysconfig.Settings) applies.
func setupLogging(cmd *cobra.Command) {
	effective := logLevel
	if !cmd.Flags().Changed("log-level") && settings.LogLevel != "" {
		effective = settings.LogLevel
	}

	level := parseLogLevel(effective)
	if quiet {
		level = slog.LevelError + 1
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
