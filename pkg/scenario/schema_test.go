package scenario

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateJSONSchema(t *testing.T) {
	data, err := GenerateJSONSchema()
	require.NoError(t, err)

	var schema map[string]any
	require.NoError(t, json.Unmarshal(data, &schema))

	assert.Equal(t, SchemaID, schema["$id"])
	assert.Equal(t, "simcat scenario v1", schema["title"])
	assert.Contains(t, schema["$schema"], "2020-12")

	defs, ok := schema["$defs"].(map[string]any)
	require.True(t, ok)
	for _, name := range []string{"Config", "User", "Organization", "Repository", "Branch", "AccessToken", "GitHubApp", "AppInstallation"} {
		assert.Contains(t, defs, name)
	}
}

func TestValidateAgainstSchema_AcceptsValidDocuments(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{name: "null document", doc: "null"},
		{name: "empty object", doc: "{}"},
		{name: "users only", doc: `{"users":[{"login":"octocat"}]}`},
		{name: "nested default branch", doc: `{"users":[{"login":"octocat"}],"repositories":[{"owner":"octocat","name":"tools","default_branch":{"name":"main"}}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NoError(t, validateAgainstSchema([]byte(tt.doc)))
		})
	}
}

func TestValidateAgainstSchema_RejectsStructuralMistakes(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{name: "scalar for sequence", doc: `{"users":"octocat"}`},
		{name: "unknown top-level key", doc: `{"bogus":[]}`},
		{name: "empty login", doc: `{"organizations":[{"login":""}]}`},
		{name: "wrong element type", doc: `{"users":[42]}`},
		{name: "invalid state enum", doc: `{"issues":[{"owner":"o","repository":"r","number":1,"title":"t","state":"merged"}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateAgainstSchema([]byte(tt.doc))
			require.Error(t, err)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Contains(t, verr.Message, "does not match schema")
		})
	}
}

func TestValidateAgainstSchema_RoundTripsTypedConfig(t *testing.T) {
	// The schema is generated from the same structs the decoder fills, so
	// any config the model can express must pass it.
	cfg := completeConfig()
	data, err := json.Marshal(cfg)
	require.NoError(t, err)
	assert.NoError(t, validateAgainstSchema(data))
}
