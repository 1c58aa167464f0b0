// Package validation checks bench spec and test case YAML files against
// their embedded JSON Schemas before a run starts, and exported run
// reports when they are loaded back.
package validation

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gopkg.in/yaml.v3"

	"github.com/kqlbench/kqlbench/schemas"
)

// defaultPrinter is used to format schema validation error messages.
var defaultPrinter = message.NewPrinter(language.English)

// benchSchema is the compiled JSON Schema for bench spec files.
var benchSchema *jsonschema.Schema

// caseSchema is the compiled JSON Schema for test case files.
var caseSchema *jsonschema.Schema

// runSchema is the compiled JSON Schema for exported run reports.
var runSchema *jsonschema.Schema

func init() {
	benchSchema = mustCompileSchema(schemas.BenchSchemaJSON, "bench.schema.json")
	caseSchema = mustCompileSchema(schemas.CaseSchemaJSON, "case.schema.json")
	runSchema = mustCompileSchema(schemas.RunSchemaJSON, "run.schema.json")
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

// ValidateBenchFile validates a bench spec file at the given path against
// the JSON schema. Returns errors for the spec itself AND all referenced
// test case files.
func ValidateBenchFile(benchPath string) (specErrs []string, caseErrs map[string][]string, err error) {
	data, err := os.ReadFile(benchPath)
	if err != nil {
		return nil, nil, fmt.Errorf("reading bench file: %w", err)
	}

	specErrs = ValidateBenchBytes(data)

	// Parse into a minimal struct to resolve case globs
	var spec struct {
		Tasks []string `yaml:"tasks"`
	}
	if yamlErr := yaml.Unmarshal(data, &spec); yamlErr != nil {
		return specErrs, nil, nil // can't resolve cases, but spec errors are still useful
	}

	baseDir := filepath.Dir(benchPath)
	caseErrs = make(map[string][]string)

	for _, pattern := range spec.Tasks {
		fullPattern := filepath.Join(baseDir, pattern)
		matches, globErr := filepath.Glob(fullPattern)
		if globErr != nil {
			continue
		}
		for _, caseFile := range matches {
			caseData, readErr := os.ReadFile(caseFile)
			if readErr != nil {
				continue
			}
			errs := ValidateCaseBytes(caseData)
			if len(errs) > 0 {
				relPath, relErr := filepath.Rel(baseDir, caseFile)
				if relErr != nil {
					relPath = caseFile
				}
				caseErrs[relPath] = errs
			}
		}
	}

	return specErrs, caseErrs, nil
}

// ValidateBenchBytes validates raw YAML bytes against the bench schema.
func ValidateBenchBytes(data []byte) []string {
	return validateYAMLBytes(benchSchema, data)
}

// ValidateCaseBytes validates raw YAML bytes against the test case schema.
func ValidateCaseBytes(data []byte) []string {
	return validateYAMLBytes(caseSchema, data)
}

// ValidateRunBytes validates raw JSON bytes against the run report schema.
// Used when a previously exported report is loaded back.
func ValidateRunBytes(data []byte) []string {
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return []string{fmt.Sprintf("JSON parse error: %v", err)}
	}
	return validateAgainstSchema(runSchema, doc)
}

func validateYAMLBytes(schema *jsonschema.Schema, data []byte) []string {
	var yamlDoc any
	if err := yaml.Unmarshal(data, &yamlDoc); err != nil {
		return []string{fmt.Sprintf("YAML parse error: %v", err)}
	}

	jsonCompatible := convertToJSONCompatible(yamlDoc)

	return validateAgainstSchema(schema, jsonCompatible)
}

func validateAgainstSchema(schema *jsonschema.Schema, instance any) []string {
	err := schema.Validate(instance)
	if err == nil {
		return nil
	}
	ve, ok := err.(*jsonschema.ValidationError)
	if !ok {
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

// convertToJSONCompatible converts YAML-decoded values to JSON-compatible
// types. yaml.v3 decodes mappings to map[string]any already; this walks
// nested slices and maps so the schema library sees plain values.
func convertToJSONCompatible(v any) any {
	switch val := v.(type) {
	case map[string]any:
		result := make(map[string]any, len(val))
		for k, v2 := range val {
			result[k] = convertToJSONCompatible(v2)
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
