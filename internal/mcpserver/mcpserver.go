// Package mcpserver exposes the scenario engine over the Model Context
// Protocol so AI assistants can validate, render, and generate
// scenarios without shelling out to the CLI. The server speaks MCP over
// stdio and is started by the `simcat mcp` command.
package mcpserver

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// MCPServer bridges the scenario engine to MCP clients.
type MCPServer struct {
	mcpServer *server.MCPServer
}

// New creates an MCP server exposing the scenario tools. version is the
// simcat build version reported during the MCP handshake.
func New(version string) *MCPServer {
	mcpServer := server.NewMCPServer(
		"simcat",
		version,
		server.WithToolCapabilities(false),
	)

	ms := &MCPServer{mcpServer: mcpServer}
	ms.registerTools()

	return ms
}

// Start serves MCP over stdio and blocks until the client closes the
// connection.
func (m *MCPServer) Start(ctx context.Context) error {
	return server.ServeStdio(m.mcpServer)
}

// registerTools registers all MCP tools.
func (m *MCPServer) registerTools() {
	validateScenarioTool := mcp.NewTool("validate_scenario",
		mcp.WithDescription("Validate a scenario document and report the first violated rule"),
		mcp.WithString("scenario",
			mcp.Required(),
			mcp.Description("Scenario document as YAML"),
		),
	)
	m.mcpServer.AddTool(validateScenarioTool, m.handleValidateScenario)

	renderConfigTool := mcp.NewTool("render_config",
		mcp.WithDescription("Render a scenario document to the simulator configuration JSON"),
		mcp.WithString("scenario",
			mcp.Required(),
			mcp.Description("Scenario document as YAML"),
		),
		mcp.WithBoolean("include_unsupported",
			mcp.Description("Also serialize issues and pull requests (the simulator ignores them)"),
		),
	)
	m.mcpServer.AddTool(renderConfigTool, m.handleRenderConfig)

	resolveTokenTool := mcp.NewTool("resolve_token",
		mcp.WithDescription("Resolve the auth token a test client should send for a scenario"),
		mcp.WithString("scenario",
			mcp.Required(),
			mcp.Description("Scenario document as YAML"),
		),
	)
	m.mcpServer.AddTool(resolveTokenTool, m.handleResolveToken)

	listFactoriesTool := mcp.NewTool("list_factories",
		mcp.WithDescription("List the built-in scenario factories and their arguments"),
	)
	m.mcpServer.AddTool(listFactoriesTool, m.handleListFactories)

	buildFactoryTool := mcp.NewTool("build_factory",
		mcp.WithDescription("Build a scenario from a named factory and return it as YAML"),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("Factory name (see list_factories)"),
		),
		mcp.WithObject("args",
			mcp.Description("Factory arguments as a JSON object"),
		),
	)
	m.mcpServer.AddTool(buildFactoryTool, m.handleBuildFactory)
}
