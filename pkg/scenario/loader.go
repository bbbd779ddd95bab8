package scenario

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"
	"gopkg.in/yaml.v3"
	sigsyaml "sigs.k8s.io/yaml"
)

// LoadFile reads a scenario file and decodes it into a Config. Files whose
// name ends in .tmpl are rendered as text templates first (see
// LoadFileValues for the template contract).
func LoadFile(path string) (*Config, error) {
	return LoadFileValues(path, nil)
}

// LoadFileValues reads a scenario file, rendering it as a text/template
// with the sprig function map when the name ends in .tmpl or when values
// are supplied. Values are exposed to the template as .Values and missing
// keys fail the render. The result is schema-checked and then strictly
// decoded, so unknown fields are rejected.
func LoadFileValues(path string, values map[string]string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	if strings.HasSuffix(path, ".tmpl") || len(values) > 0 {
		data, err = renderScenarioTemplate(path, data, values)
		if err != nil {
			return nil, err
		}
	}

	cfg, err := decodeConfig(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes in-memory scenario YAML into a Config, applying the
// same schema check and strict decode as LoadFile.
func Parse(data []byte) (*Config, error) {
	return decodeConfig(data)
}

// LoadDocumentFile reads a raw simulator document from a YAML or JSON file
// and validates its shape. An empty file yields an empty document.
func LoadDocumentFile(path string) (Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read document file: %w", err)
	}

	jsonBytes, err := sigsyaml.YAMLToJSON(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, validationErrorf("Document is not valid YAML: %v", err))
	}
	if isJSONNull(jsonBytes) {
		return Document{}, nil
	}

	var raw map[string]any
	if err := json.Unmarshal(jsonBytes, &raw); err != nil {
		return nil, fmt.Errorf("%s: %w", path, validationErrorf("Document must be a mapping: %v", err))
	}

	doc, err := validateRawDocument(Document(raw))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// decodeConfig schema-checks and strictly decodes scenario YAML.
func decodeConfig(data []byte) (*Config, error) {
	jsonBytes, err := sigsyaml.YAMLToJSON(data)
	if err != nil {
		return nil, validationErrorf("Scenario file is not valid YAML: %v", err)
	}
	if err := validateAgainstSchema(jsonBytes); err != nil {
		return nil, err
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var cfg Config
	if err := dec.Decode(&cfg); err != nil {
		if errors.Is(err, io.EOF) {
			return &Config{}, nil
		}
		return nil, validationErrorf("Scenario file failed to decode: %v", err)
	}
	return &cfg, nil
}

// renderScenarioTemplate renders scenario template files. The sprig
// function map is available and values appear under .Values.
func renderScenarioTemplate(path string, data []byte, values map[string]string) ([]byte, error) {
	tmpl, err := template.New(filepath.Base(path)).
		Funcs(sprig.TxtFuncMap()).
		Option("missingkey=error").
		Parse(string(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse scenario template %s: %w", path, err)
	}

	if values == nil {
		values = map[string]string{}
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, map[string]any{"Values": values}); err != nil {
		return nil, fmt.Errorf("failed to render scenario template %s: %w", path, err)
	}
	return buf.Bytes(), nil
}

func isJSONNull(jsonBytes []byte) bool {
	trimmed := bytes.TrimSpace(jsonBytes)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}
