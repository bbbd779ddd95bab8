package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	renderOutput             string
	renderIncludeUnsupported bool
	renderValues             []string
)

// renderCmd prints the configuration document a scenario produces,
// exactly as a simulator started from it would receive it.
var renderCmd = &cobra.Command{
	Use:   "render <scenario>",
	Short: "Render the simulator configuration for a scenario",
	Long: `Render the configuration document a scenario produces, as indented
JSON. The output matches what a simulator started from the scenario is
handed, including the empty entity lists the simulator requires.

Examples:
  simcat render scenario.yaml
  simcat render scenario.yaml -o github-sim-config.json
  simcat render issues.yaml --include-unsupported`,
	Args: cobra.ExactArgs(1),
	RunE: runRender,
}

func init() {
	rootCmd.AddCommand(renderCmd)
	renderCmd.Flags().StringVarP(&renderOutput, "output", "o", "", "Write the document to a file instead of stdout")
	renderCmd.Flags().BoolVar(&renderIncludeUnsupported, "include-unsupported", false, "Emit issues and pull requests even though the simulator does not serve them yet")
	renderCmd.Flags().StringArrayVar(&renderValues, "values", nil, "Template values as key=value (repeatable)")
}

func runRender(cmd *cobra.Command, args []string) error {
	values, err := parseValues(renderValues)
	if err != nil {
		return err
	}

	cfg, err := loadScenario(args[0], values)
	if err != nil {
		return err
	}

	doc, err := cfg.ToSimulatorConfig(renderIncludeUnsupported)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode configuration document: %w", err)
	}
	data = append(data, '\n')

	if renderOutput == "" || renderOutput == "-" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	if err := os.WriteFile(renderOutput, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", renderOutput, err)
	}
	return nil
}
