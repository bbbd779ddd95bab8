package cmd

import (
	"simcat/pkg/scenario"

	"github.com/spf13/cobra"
)

// schemaCmd prints the JSON Schema scenario files are checked against.
var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the scenario file JSON Schema",
	Long: `Print the JSON Schema scenario files are validated against. The
schema is generated from the scenario types, so it always matches the
running binary.

Examples:
  simcat schema > scenario-v1.json`,
	Args: cobra.NoArgs,
	RunE: runSchema,
}

func init() {
	rootCmd.AddCommand(schemaCmd)
}

func runSchema(cmd *cobra.Command, args []string) error {
	data, err := scenario.GenerateJSONSchema()
	if err != nil {
		return err
	}
	_, err = cmd.OutOrStdout().Write(append(data, '\n'))
	return err
}
