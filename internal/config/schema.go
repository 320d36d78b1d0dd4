package config

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/goccy/go-yaml"
	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schema.json
var descriptionSchema string

var compiledSchema = mustCompileSchema()

func mustCompileSchema() *jsonschema.Schema {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020

	if err := compiler.AddResource("description.json", strings.NewReader(descriptionSchema)); err != nil {
		panic(fmt.Sprintf("failed to add description schema: %v", err))
	}

	schema, err := compiler.Compile("description.json")
	if err != nil {
		panic(fmt.Sprintf("failed to compile description schema: %v", err))
	}
	return schema
}

// ValidateSchema validates raw description YAML against the embedded
// document grammar (JSON Schema, Draft 2020).
func ValidateSchema(data []byte) error {
	var tree interface{}
	if err := yaml.Unmarshal(data, &tree); err != nil {
		return fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := compiledSchema.Validate(tree); err != nil {
		if validationErr, ok := err.(*jsonschema.ValidationError); ok {
			return formatSchemaValidationError(validationErr)
		}
		return fmt.Errorf("description validation failed: %w", err)
	}

	return nil
}

// formatSchemaValidationError formats a JSON Schema validation error into a readable message.
func formatSchemaValidationError(err *jsonschema.ValidationError) error {
	var messages []string

	// Collect all validation errors
	var collectErrors func(*jsonschema.ValidationError)
	collectErrors = func(e *jsonschema.ValidationError) {
		if e.Message != "" {
			location := e.InstanceLocation
			if location == "" {
				location = "(root)"
			}
			messages = append(messages, fmt.Sprintf("%s: %s", location, e.Message))
		}

		for _, cause := range e.Causes {
			collectErrors(cause)
		}
	}

	collectErrors(err)

	if len(messages) == 0 {
		return fmt.Errorf("description validation failed")
	}

	return fmt.Errorf("description validation failed:\n    - %s", strings.Join(messages, "\n    - "))
}
