// Package sysconfig loads bud's optional system settings file, the
// ambient counterpart to the per-project bud.json (SPEC_FULL.md
// Supplemented Features). Grounded directly in the teacher's
// cmd/reglet/root.go initConfig: viper resolves ~/.config/bud/config.yaml
// if present and is silent when it is absent, since these settings are
// never required for a harness build to proceed.
package sysconfig

import (
	"fmt"

	"github.com/spf13/viper"
)

// Settings is the optional system configuration, read once at CLI
// start-up and threaded through to the components it affects.
type Settings struct {
	// LogLevel overrides the default log level when --log-level isn't
	// passed explicitly on the command line.
	LogLevel string `mapstructure:"log_level"`

	// WasmMemoryLimitMB is forwarded to wasmengine.NewWasmProviderWithMemoryLimit
	// (0 = default, -1 = unlimited).
	WasmMemoryLimitMB int `mapstructure:"wasm_memory_limit_mb"`

	// DataRootOverride, if set, replaces the OS-resolved data root
	// datadir.Resolve would otherwise compute.
	DataRootOverride string `mapstructure:"data_root_override"`
}

func defaults() Settings {
	return Settings{
		LogLevel:          "info",
		WasmMemoryLimitMB: 0,
	}
}

// Load reads ~/.config/bud/config.yaml via v, returning defaults
// unmodified when the file doesn't exist. configDir is the directory
// the config file lives under (normally datadir's config-root
// counterpart); callers pass it explicitly so this package never
// resolves paths itself.
func Load(v *viper.Viper, configDir string) (Settings, error) {
	settings := defaults()

	v.AddConfigPath(configDir)
	v.SetConfigType("yaml")
	v.SetConfigName("config")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return settings, nil
		}
		return settings, fmt.Errorf("failed to read system config: %w", err)
	}

	if err := v.Unmarshal(&settings); err != nil {
		return settings, fmt.Errorf("failed to decode system config: %w", err)
	}
	return settings, nil
}
