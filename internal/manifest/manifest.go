package manifest

import (
	"encoding/json"
	"errors"
	"fmt"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

// Manifest is the parsed, validated plugin.json (§3 Plugin Manifest).
type Manifest struct {
	Name        string   `json:"name"`
	Version     string   `json:"version"`
	Description string   `json:"description"`
	Author      string   `json:"author"`
	Permissions []string `json:"permissions,omitempty"`
}

// Validate parses and validates raw JSON against the plugin manifest
// schema, returning a Manifest on success. All schema violations are
// collected into a single newline-joined ValidationError.
func Validate(raw []byte) (*Manifest, error) {
	schema, err := getPluginManifestSchema()
	if err != nil {
		return nil, fmt.Errorf("failed to compile plugin manifest schema: %w", err)
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
		return nil, fmt.Errorf("manifest validation failed: %w", err)
	}

	if err := dedupePermissions(instance); err != nil {
		return nil, err
	}

	var m Manifest
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("failed to decode manifest: %w", err)
	}

	if err := validateSemver(m.Version); err != nil {
		return nil, &ValidationError{Message: fmt.Sprintf("/version: %s", err)}
	}

	return &m, nil
}

// ValidateWithExpectedName performs the same validation as Validate and
// additionally asserts manifest.Name == expected, failing otherwise. This
// enforces the invariant that a plugin's manifest name equals its
// containing directory name (§3, §4.5).
func ValidateWithExpectedName(raw []byte, expected string) (*Manifest, error) {
	m, err := Validate(raw)
	if err != nil {
		return nil, err
	}
	if m.Name != expected {
		return nil, &ValidationError{
			Message: fmt.Sprintf("/name: manifest name %q does not match directory name %q", m.Name, expected),
		}
	}
	return m, nil
}

// dedupePermissions is a defensive re-check: the schema enforces
// uniqueItems, but a caller may hand validated JSON through a path that
// skipped schema validation (e.g. tests constructing instances directly),
// so enforce the permission-set invariant once more at the decode layer.
func dedupePermissions(instance any) error {
	obj, ok := instance.(map[string]any)
	if !ok {
		return nil
	}
	rawPerms, ok := obj["permissions"]
	if !ok {
		return nil
	}
	items, ok := rawPerms.([]any)
	if !ok {
		return nil
	}
	seen := make(map[string]bool, len(items))
	for _, it := range items {
		s, ok := it.(string)
		if !ok {
			continue
		}
		if seen[s] {
			return &ValidationError{Message: fmt.Sprintf("/permissions: duplicate permission %q", s)}
		}
		seen[s] = true
	}
	return nil
}
