package scenario

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/invopop/jsonschema"
	sjsonschema "github.com/santhosh-tekuri/jsonschema/v6"
)

// SchemaID is the canonical identifier of the scenario document schema.
const SchemaID = "https://simcat.dev/schemas/scenario-v1.json"

// GenerateJSONSchema produces a JSON Schema Draft 2020-12 document from
// the Go Config struct using invopop/jsonschema. The committed copy under
// schemas/ is regenerated by scripts/gen-schema.go.
func GenerateJSONSchema() ([]byte, error) {
	r := new(jsonschema.Reflector)
	r.DoNotReference = false

	s := r.Reflect(&Config{})
	s.ID = SchemaID
	s.Title = "simcat scenario v1"
	s.Description = "Schema for simcat scenario YAML documents (Draft 2020-12)"

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}
	return data, nil
}

var (
	schemaOnce    sync.Once
	schemaCached  *sjsonschema.Schema
	schemaCompile error
)

// compiledSchema compiles the generated schema exactly once per process.
func compiledSchema() (*sjsonschema.Schema, error) {
	schemaOnce.Do(func() {
		data, err := GenerateJSONSchema()
		if err != nil {
			schemaCompile = err
			return
		}
		var doc any
		if err := json.Unmarshal(data, &doc); err != nil {
			schemaCompile = fmt.Errorf("parse generated schema: %w", err)
			return
		}
		c := sjsonschema.NewCompiler()
		if err := c.AddResource("scenario-v1.json", doc); err != nil {
			schemaCompile = fmt.Errorf("add schema resource: %w", err)
			return
		}
		schemaCached, schemaCompile = c.Compile("scenario-v1.json")
	})
	return schemaCached, schemaCompile
}

// validateAgainstSchema checks a JSON-encoded scenario document against the
// generated schema before strict decoding, so structural mistakes are
// reported with an instance path instead of a decoder type error. Empty
// documents (JSON null) are accepted; the decoder turns them into an empty
// Config.
func validateAgainstSchema(jsonBytes []byte) error {
	if isJSONNull(jsonBytes) {
		return nil
	}

	sch, err := compiledSchema()
	if err != nil {
		return fmt.Errorf("compile scenario schema: %w", err)
	}

	var doc any
	if err := json.Unmarshal(jsonBytes, &doc); err != nil {
		return validationErrorf("Scenario document is not valid JSON: %v", err)
	}

	if err := sch.Validate(doc); err != nil {
		var ve *sjsonschema.ValidationError
		if errors.As(err, &ve) {
			return validationErrorf("Scenario document does not match schema: %s", formatSchemaError(ve))
		}
		return validationErrorf("Scenario document does not match schema: %v", err)
	}
	return nil
}

// formatSchemaError renders the leaf causes of a schema validation error as
// "path: problem" pairs.
func formatSchemaError(ve *sjsonschema.ValidationError) string {
	leaves := flattenSchemaErrors(ve)
	parts := make([]string, 0, len(leaves))
	for _, leaf := range leaves {
		path := strings.Join(leaf.InstanceLocation, "/")
		if path == "" {
			path = "(document)"
		}
		parts = append(parts, fmt.Sprintf("%s: %v", path, leaf.ErrorKind))
	}
	return strings.Join(parts, "; ")
}

// flattenSchemaErrors recursively collects all leaf validation errors.
func flattenSchemaErrors(ve *sjsonschema.ValidationError) []*sjsonschema.ValidationError {
	if len(ve.Causes) == 0 {
		return []*sjsonschema.ValidationError{ve}
	}
	var flat []*sjsonschema.ValidationError
	for _, cause := range ve.Causes {
		flat = append(flat, flattenSchemaErrors(cause)...)
	}
	return flat
}
