package main

import (
	"os"
	"testing"

	"simcat/cmd"
)

func TestMain(m *testing.M) {
	// Run tests
	code := m.Run()
	os.Exit(code)
}

func TestVersion(t *testing.T) {
	// Test default version
	if version != "dev" {
		t.Errorf("Expected default version to be 'dev', got %s", version)
	}

	// Test setting version
	testVersion := "1.2.3"
	version = testVersion
	if version != testVersion {
		t.Errorf("Expected version to be %s, got %s", testVersion, version)
	}

	// Reset version
	version = "dev"
}

func TestSetVersionIntegration(t *testing.T) {
	// Save original version
	originalVersion := version
	defer func() {
		version = originalVersion
		cmd.SetVersion(originalVersion)
	}()

	// Test that SetVersion accepts the version formats a build can inject
	versions := []string{"dev", "1.0.0", "v2.0.0-rc1"}

	for _, v := range versions {
		version = v
		cmd.SetVersion(version)
		if got := cmd.GetVersion(); got != v {
			t.Errorf("Expected cmd version %s, got %s", v, got)
		}
	}
}
