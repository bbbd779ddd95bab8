package cmd

import (
	"fmt"
	"strings"

	"simcat/pkg/scenario"
)

// parseValues turns repeated --values key=value flags into the template
// binding map handed to the scenario loader.
func parseValues(entries []string) (map[string]string, error) {
	if len(entries) == 0 {
		return nil, nil
	}
	values := make(map[string]string, len(entries))
	for _, entry := range entries {
		key, value, ok := strings.Cut(entry, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid --values entry %q (expected key=value)", entry)
		}
		values[key] = value
	}
	return values, nil
}

// loadScenario loads a scenario file and runs the full consistency
// checks on it. Template files are rendered with the given values.
func loadScenario(path string, values map[string]string) (*scenario.Config, error) {
	cfg, err := scenario.LoadFileValues(path, values)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
