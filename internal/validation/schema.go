// Package validation checks generated test suites and project configuration
// against the embedded JSON schemas.
package validation

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/claudekit/skillbench/schemas"
	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gopkg.in/yaml.v3"
)

// defaultPrinter is used to format schema validation error messages.
var defaultPrinter = message.NewPrinter(language.English)

// testsSchema is the compiled schema for the test suite an LLM returns.
var testsSchema *jsonschema.Schema

// configSchema is the compiled schema for .skillbench.yaml.
var configSchema *jsonschema.Schema

func init() {
	testsSchema = mustCompileSchema(schemas.TestsSchemaJSON, "tests.schema.json")
	configSchema = mustCompileSchema(schemas.ConfigSchemaJSON, "config.schema.json")
}

func mustCompileSchema(raw string, name string) *jsonschema.Schema {
	var schemaDoc any
	if err := json.Unmarshal([]byte(raw), &schemaDoc); err != nil {
		panic(fmt.Sprintf("failed to parse embedded %s: %v", name, err))
	}

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(name, schemaDoc); err != nil {
		panic(fmt.Sprintf("failed to add %s resource: %v", name, err))
	}

	sch, err := compiler.Compile(name)
	if err != nil {
		panic(fmt.Sprintf("failed to compile %s: %v", name, err))
	}
	return sch
}

// ValidateTests validates an already decoded JSON document against the
// tests schema.
func ValidateTests(doc any) []string {
	return validateAgainstSchema(testsSchema, doc)
}

// ValidateTestsBytes validates raw JSON bytes against the tests schema.
func ValidateTestsBytes(data []byte) []string {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return []string{fmt.Sprintf("JSON parse error: %v", err)}
	}
	return validateAgainstSchema(testsSchema, doc)
}

// ValidateConfigFile validates the .skillbench.yaml at path.
func ValidateConfigFile(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	return ValidateConfigBytes(data), nil
}

// ValidateConfigBytes validates raw YAML bytes against the config schema.
// An empty document is valid.
func ValidateConfigBytes(data []byte) []string {
	return validateYAMLBytes(configSchema, data)
}

func validateYAMLBytes(schema *jsonschema.Schema, data []byte) []string {
	var yamlDoc any
	if err := yaml.Unmarshal(data, &yamlDoc); err != nil {
		return []string{fmt.Sprintf("YAML parse error: %v", err)}
	}
	if yamlDoc == nil {
		return nil
	}

	return validateAgainstSchema(schema, convertToJSONCompatible(yamlDoc))
}

func validateAgainstSchema(schema *jsonschema.Schema, instance any) []string {
	err := schema.Validate(instance)
	if err == nil {
		return nil
	}
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return []string{fmt.Sprintf("schema: %v", err)}
	}
	var errs []string
	collectSchemaErrors(ve, &errs)
	return errs
}

func collectSchemaErrors(ve *jsonschema.ValidationError, errs *[]string) {
	if len(ve.Causes) == 0 {
		loc := "/"
		if len(ve.InstanceLocation) > 0 {
			loc = "/" + strings.Join(ve.InstanceLocation, "/")
		}
		*errs = append(*errs, fmt.Sprintf("%s: %s", loc, ve.ErrorKind.LocalizedString(defaultPrinter)))
		return
	}
	for _, c := range ve.Causes {
		collectSchemaErrors(c, errs)
	}
}

// convertToJSONCompatible turns YAML-decoded values into the types the
// validator accepts. Non-string keys are stringified.
func convertToJSONCompatible(v any) any {
	switch val := v.(type) {
	case map[string]any:
		result := make(map[string]any, len(val))
		for k, v2 := range val {
			result[k] = convertToJSONCompatible(v2)
		}
		return result
	case map[any]any:
		result := make(map[string]any, len(val))
		for k, v2 := range val {
			result[fmt.Sprint(k)] = convertToJSONCompatible(v2)
		}
		return result
	case []any:
		result := make([]any, len(val))
		for i, v2 := range val {
			result[i] = convertToJSONCompatible(v2)
		}
		return result
	default:
		return val
	}
}
