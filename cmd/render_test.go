package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func resetRenderFlags(t *testing.T) {
	t.Helper()
	origOutput, origUnsupported, origValues := renderOutput, renderIncludeUnsupported, renderValues
	t.Cleanup(func() {
		renderOutput, renderIncludeUnsupported, renderValues = origOutput, origUnsupported, origValues
	})
}

func TestRunRenderToStdout(t *testing.T) {
	resetRenderFlags(t)
	renderOutput = ""
	renderIncludeUnsupported = false
	renderValues = nil

	dir := t.TempDir()
	path := filepath.Join(dir, "scenario.yaml")
	writeTestFile(t, path, `
users:
  - login: octocat
repositories:
  - owner: octocat
    name: widgets
    default_branch:
      name: main
`)

	var buf bytes.Buffer
	if err := runRender(newCaptureCommand(&buf), []string{path}); err != nil {
		t.Fatalf("runRender() unexpected error: %v", err)
	}

	var doc map[string]any
	if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("render output is not JSON: %v\n%s", err, buf.String())
	}

	for _, key := range []string{"users", "organizations", "repositories", "branches", "blobs"} {
		if _, ok := doc[key]; !ok {
			t.Errorf("render output missing required key %q", key)
		}
	}
	if _, ok := doc["issues"]; ok {
		t.Error("render output should not contain issues without --include-unsupported")
	}

	// The default branch is projected into the branch list.
	branches, ok := doc["branches"].([]any)
	if !ok || len(branches) != 1 {
		t.Fatalf("Expected one synthesized branch, got %v", doc["branches"])
	}
}

func TestRunRenderIncludeUnsupported(t *testing.T) {
	resetRenderFlags(t)
	renderOutput = ""
	renderIncludeUnsupported = true
	renderValues = nil

	dir := t.TempDir()
	path := filepath.Join(dir, "scenario.yaml")
	writeTestFile(t, path, `
users:
  - login: octocat
repositories:
  - owner: octocat
    name: widgets
issues:
  - owner: octocat
    repository: widgets
    number: 1
    title: First issue
`)

	var buf bytes.Buffer
	if err := runRender(newCaptureCommand(&buf), []string{path}); err != nil {
		t.Fatalf("runRender() unexpected error: %v", err)
	}

	var doc map[string]any
	if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("render output is not JSON: %v", err)
	}
	issues, ok := doc["issues"].([]any)
	if !ok || len(issues) != 1 {
		t.Fatalf("Expected one issue in output, got %v", doc["issues"])
	}
}

func TestRunRenderToFile(t *testing.T) {
	resetRenderFlags(t)
	renderIncludeUnsupported = false
	renderValues = nil

	dir := t.TempDir()
	path := filepath.Join(dir, "scenario.yaml")
	writeTestFile(t, path, `
users:
  - login: octocat
`)
	renderOutput = filepath.Join(dir, "out.json")

	var buf bytes.Buffer
	if err := runRender(newCaptureCommand(&buf), []string{path}); err != nil {
		t.Fatalf("runRender() unexpected error: %v", err)
	}
	if buf.Len() != 0 {
		t.Errorf("Expected no stdout output with -o, got %q", buf.String())
	}

	data, err := os.ReadFile(renderOutput)
	if err != nil {
		t.Fatalf("Expected output file: %v", err)
	}
	if !strings.Contains(string(data), `"octocat"`) {
		t.Errorf("Output file missing rendered user:\n%s", data)
	}
}

func TestRunRenderInvalidScenario(t *testing.T) {
	resetRenderFlags(t)
	renderOutput = ""
	renderIncludeUnsupported = false
	renderValues = nil

	dir := t.TempDir()
	path := filepath.Join(dir, "scenario.yaml")
	writeTestFile(t, path, `
branches:
  - owner: octocat
    repository: missing
    name: main
`)

	var buf bytes.Buffer
	err := runRender(newCaptureCommand(&buf), []string{path})
	if err == nil {
		t.Fatal("Expected validation error for dangling branch")
	}
	if !strings.Contains(err.Error(), "unknown repository") {
		t.Errorf("Expected dangling-repository message, got: %v", err)
	}
}
