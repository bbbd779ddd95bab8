package cmd

import (
	"simcat/internal/mcpserver"

	"github.com/spf13/cobra"
)

// mcpCmd serves the scenario engine over the Model Context Protocol.
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve scenario tools over MCP on stdio",
	Long: `Serve the scenario engine over the Model Context Protocol on
stdin/stdout, for use as an MCP server in editors and agents. Logs go
to stderr so the protocol stream stays clean.

The server exposes tools to validate scenarios, render simulator
configuration, resolve auth tokens and build scenarios from the
built-in factories.

Examples:
  simcat mcp`,
	Args: cobra.NoArgs,
	RunE: runMCP,
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

func runMCP(cmd *cobra.Command, args []string) error {
	return mcpserver.New(GetVersion()).Start(cmd.Context())
}
