package manifest

import (
	"encoding/json"
	"errors"
	"fmt"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

// RootConfig is the parsed, validated bud.json (§3 Root Config).
// Immutable after load; shared by reference across all components.
type RootConfig struct {
	Name        string `json:"name"`
	Version     string `json:"version"`
	Description string `json:"description"`
}

// ValidateRootConfig parses and validates raw JSON against the root config
// schema (three required string fields).
func ValidateRootConfig(raw []byte) (*RootConfig, error) {
	schema, err := getRootConfigSchema()
	if err != nil {
		return nil, fmt.Errorf("failed to compile root config schema: %w", err)
	}

	var instance any
	if err := json.Unmarshal(raw, &instance); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}

	if err := schema.Validate(instance); err != nil {
		var ve *jsonschema.ValidationError
		if errors.As(err, &ve) {
			return nil, formatValidationError(ve)
		}
		return nil, fmt.Errorf("root config validation failed: %w", err)
	}

	var cfg RootConfig
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("failed to decode root config: %w", err)
	}
	return &cfg, nil
}
