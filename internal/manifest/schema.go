// Package manifest implements the Manifest Validator (C4): pure JSON-schema
// validation of plugin manifests and the root config, grounded in the
// teacher's internal/config/validation.go use of santhosh-tekuri/jsonschema.
package manifest

import (
	"bytes"
	"fmt"
	"strings"
	"sync"

	"github.com/Masterminds/semver/v3"
	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

// pluginManifestSchemaJSON is the JSON Schema for plugin.json, matching §3:
// name, version, description, author, permissions[].
const pluginManifestSchemaJSON = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["name", "version", "description", "author"],
  "properties": {
    "name": {
      "type": "string",
      "pattern": "^[A-Za-z0-9_-]+$"
    },
    "version": {
      "type": "string",
      "pattern": "^\\d+\\.\\d+\\.\\d+(-[A-Za-z0-9.-]+)?(\\+[A-Za-z0-9.-]+)?$"
    },
    "description": {
      "type": "string",
      "minLength": 1
    },
    "author": {
      "type": "string",
      "minLength": 1
    },
    "permissions": {
      "type": "array",
      "items": {"type": "string"},
      "uniqueItems": true
    }
  }
}`

// rootConfigSchemaJSON is the JSON Schema for bud.json: three required
// string fields, per §6.
const rootConfigSchemaJSON = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["name", "version", "description"],
  "properties": {
    "name": {"type": "string", "minLength": 1},
    "version": {"type": "string", "minLength": 1},
    "description": {"type": "string", "minLength": 1}
  }
}`

var (
	pluginSchemaOnce sync.Once
	pluginSchema     *jsonschema.Schema
	pluginSchemaErr  error

	rootSchemaOnce sync.Once
	rootSchema     *jsonschema.Schema
	rootSchemaErr  error
)

func compileSchema(resourceName, raw string) (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	if err := compiler.AddResource(resourceName, bytes.NewReader([]byte(raw))); err != nil {
		return nil, fmt.Errorf("failed to add schema resource %s: %w", resourceName, err)
	}
	return compiler.Compile(resourceName)
}

func getPluginManifestSchema() (*jsonschema.Schema, error) {
	pluginSchemaOnce.Do(func() {
		pluginSchema, pluginSchemaErr = compileSchema("plugin.schema.json", pluginManifestSchemaJSON)
	})
	return pluginSchema, pluginSchemaErr
}

func getRootConfigSchema() (*jsonschema.Schema, error) {
	rootSchemaOnce.Do(func() {
		rootSchema, rootSchemaErr = compileSchema("root-config.schema.json", rootConfigSchemaJSON)
	})
	return rootSchema, rootSchemaErr
}

// ValidationError is returned by Validate/ValidateWithExpectedName when a
// document fails schema validation. Message is a newline-joined list of
// "<json pointer>: <detail>" lines, one per offending pointer (§7).
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func formatValidationError(err *jsonschema.ValidationError) *ValidationError {
	var lines []string
	var walk func(*jsonschema.ValidationError)
	walk = func(e *jsonschema.ValidationError) {
		if e.Message != "" {
			loc := e.InstanceLocation
			if loc == "" {
				loc = "(root)"
			}
			lines = append(lines, fmt.Sprintf("%s: %s", loc, e.Message))
		}
		for _, cause := range e.Causes {
			walk(cause)
		}
	}
	walk(err)
	if len(lines) == 0 {
		lines = []string{"(root): validation failed"}
	}
	return &ValidationError{Message: strings.Join(lines, "\n")}
}

// validateSemver additionally checks that version parses as a real semver
// value (Masterminds/semver), catching values the regex alone would miss
// (e.g. leading zeros semver disallows in some build metadata combos) and
// giving callers a parsed version for comparison/ordering if ever needed.
func validateSemver(version string) error {
	if _, err := semver.NewVersion(version); err != nil {
		return fmt.Errorf("version %q is not valid semver: %w", version, err)
	}
	return nil
}
