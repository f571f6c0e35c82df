// Package validation checks data against the embedded JSON schemas used by
// the persistence layer and the scan config loader.
package validation

import (
	"embed"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

//go:embed *.json
var schemaFS embed.FS

// ScanRecordSchema is the schema persisted snapshots are checked against
// before every write.
const ScanRecordSchema = "repository-scan.json"

// ScanConfigSchema is the schema .repo-scanner.yml files are checked against.
const ScanConfigSchema = "scan-config.json"

// ValidationError represents a schema validation failure.
type ValidationError struct {
	Errors []string
}

func (e ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "validation failed"
	}
	return fmt.Sprintf("validation failed: %s", strings.Join(e.Errors, "; "))
}

// ValidateJSON validates a parsed data structure against an embedded
// JSON schema identified by filename.
func ValidateJSON(schemaName string, data interface{}) error {
	schemaData, err := schemaFS.ReadFile(schemaName)
	if err != nil {
		return fmt.Errorf("failed to load schema %s: %w", schemaName, err)
	}

	schema, err := jsonschema.CompileString(schemaName, string(schemaData))
	if err != nil {
		return fmt.Errorf("failed to compile schema %s: %w", schemaName, err)
	}

	if err := schema.Validate(data); err != nil {
		var messages []string
		if validationErr, ok := err.(*jsonschema.ValidationError); ok {
			for _, cause := range validationErr.Causes {
				messages = append(messages, cause.Message)
			}
			if len(messages) == 0 {
				messages = append(messages, validationErr.Message)
			}
		} else {
			messages = append(messages, err.Error())
		}
		return ValidationError{Errors: messages}
	}

	return nil
}

// ValidateValue validates any Go value by round-tripping it through JSON
// first, so struct tags drive the property names the schema sees.
func ValidateValue(schemaName string, v interface{}) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal value for validation: %w", err)
	}
	var data interface{}
	if err := json.Unmarshal(raw, &data); err != nil {
		return fmt.Errorf("failed to decode value for validation: %w", err)
	}
	return ValidateJSON(schemaName, data)
}

// ValidateYAML validates raw YAML content against an embedded JSON schema.
func ValidateYAML(schemaName string, yamlContent []byte) error {
	var data interface{}
	if err := yaml.Unmarshal(yamlContent, &data); err != nil {
		return fmt.Errorf("failed to parse YAML: %w", err)
	}
	return ValidateJSON(schemaName, data)
}
