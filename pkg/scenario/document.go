package scenario

import (
	"encoding/json"
	"maps"
	"reflect"
)

// Document is the plain nested mapping the simulator consumes as its
// initial state. Raw documents exist for callers that need pass-through
// control of the wire shape; most code should build a Config instead.
type Document map[string]any

// requiredDocumentKeys are the top-level arrays the simulator expects.
// Missing keys are treated as empty by the consumer, not rejected.
var requiredDocumentKeys = []string{"users", "organizations", "repositories", "branches", "blobs"}

var optionalDocumentKeys = []string{"issues", "pull_requests"}

// EmptyDocument returns the minimal valid simulator state.
func EmptyDocument() Document {
	return Document{
		"users":         []any{},
		"organizations": []any{},
		"repositories":  []any{},
		"branches":      []any{},
		"blobs":         []any{},
	}
}

// CoerceDocument normalizes the accepted configuration inputs into a
// simulator document: nil becomes the minimal valid shape, a Config is
// validated and serialized, and a raw mapping is checked structurally.
// Anything else is rejected.
func CoerceDocument(input any) (Document, error) {
	switch value := input.(type) {
	case nil:
		return EmptyDocument(), nil
	case *Config:
		if value == nil {
			return EmptyDocument(), nil
		}
		return value.ToSimulatorConfig(false)
	case Config:
		return value.ToSimulatorConfig(false)
	case Document:
		return validateRawDocument(value)
	case map[string]any:
		return validateRawDocument(Document(value))
	default:
		return nil, validationErrorf("github_sim_config must be a Config or a mapping (got %T)", input)
	}
}

// validateRawDocument checks a raw mapping: non-empty documents get missing
// required keys filled with empty arrays, every present top-level
// collection key must hold a list, and the whole document must be
// JSON-serializable. The input is not modified.
func validateRawDocument(doc Document) (Document, error) {
	materialized := make(Document, len(doc)+len(requiredDocumentKeys))
	maps.Copy(materialized, doc)

	if len(materialized) > 0 {
		for _, key := range requiredDocumentKeys {
			value, ok := materialized[key]
			if !ok {
				materialized[key] = []any{}
				continue
			}
			if !isList(value) {
				return nil, validationErrorf("github_sim_config[%q] must be a list", key)
			}
		}
		for _, key := range optionalDocumentKeys {
			if value, ok := materialized[key]; ok && !isList(value) {
				return nil, validationErrorf("github_sim_config[%q] must be a list", key)
			}
		}
	}

	if _, err := json.Marshal(materialized); err != nil {
		return nil, validationErrorf("github_sim_config must be JSON serializable: %v", err)
	}
	return materialized, nil
}

// MergeDocuments merges raw documents by top-level key, later documents
// overriding earlier ones. The merge is shallow: nested values are replaced
// entirely, never combined. Use Merge for conflict-aware scenario merging.
func MergeDocuments(docs ...Document) Document {
	merged := Document{}
	for _, doc := range docs {
		maps.Copy(merged, doc)
	}
	return merged
}

func isList(value any) bool {
	if value == nil {
		return false
	}
	kind := reflect.TypeOf(value).Kind()
	return kind == reflect.Slice || kind == reflect.Array
}
