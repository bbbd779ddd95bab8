package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"gopkg.in/yaml.v3"

	"simcat/pkg/scenario"
)

// handleValidateScenario handles the validate_scenario MCP tool. It
// parses the supplied YAML and runs full scenario validation, returning
// an entity count on success or the violated rule as the error text.
func (m *MCPServer) handleValidateScenario(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, result := m.parseScenarioArg(request)
	if result != nil {
		return result, nil
	}

	if err := cfg.Validate(); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	summary := map[string]any{
		"valid":    true,
		"entities": cfg.EntityCount(),
	}
	jsonData, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to format result: %v", err)), nil
	}

	return mcp.NewToolResultText(string(jsonData)), nil
}

// handleRenderConfig handles the render_config MCP tool. It validates
// the scenario and returns the simulator configuration document as
// indented JSON.
func (m *MCPServer) handleRenderConfig(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, result := m.parseScenarioArg(request)
	if result != nil {
		return result, nil
	}

	includeUnsupported := false
	if v, ok := request.GetArguments()["include_unsupported"]; ok {
		if b, ok := v.(bool); ok {
			includeUnsupported = b
		}
	}

	doc, err := cfg.ToSimulatorConfig(includeUnsupported)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	jsonData, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to format configuration: %v", err)), nil
	}

	return mcp.NewToolResultText(string(jsonData)), nil
}

// handleResolveToken handles the resolve_token MCP tool. It reports the
// token a client should authenticate with, or that the scenario has
// none.
func (m *MCPServer) handleResolveToken(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, result := m.parseScenarioArg(request)
	if result != nil {
		return result, nil
	}

	token, present, err := cfg.ResolveAuthToken()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	resolution := map[string]any{"present": present}
	if present {
		resolution["token"] = token
	}
	jsonData, err := json.MarshalIndent(resolution, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to format result: %v", err)), nil
	}

	return mcp.NewToolResultText(string(jsonData)), nil
}

// handleListFactories handles the list_factories MCP tool.
func (m *MCPServer) handleListFactories(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	jsonData, err := json.MarshalIndent(factoryCatalog(), "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to format factories: %v", err)), nil
	}

	return mcp.NewToolResultText(string(jsonData)), nil
}

// handleBuildFactory handles the build_factory MCP tool. It dispatches
// to the named factory and returns the resulting scenario as YAML.
func (m *MCPServer) handleBuildFactory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := request.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError("name argument is required"), nil
	}

	var args map[string]any
	if raw := request.GetArguments()["args"]; raw != nil {
		m, ok := raw.(map[string]any)
		if !ok {
			return mcp.NewToolResultError("args must be a JSON object"), nil
		}
		args = m
	}

	cfg, err := buildFactory(name, args)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	yamlData, err := yaml.Marshal(cfg)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to format scenario: %v", err)), nil
	}

	return mcp.NewToolResultText(string(yamlData)), nil
}

// parseScenarioArg extracts and parses the scenario argument shared by
// the validation tools. The second return value is non-nil when the
// request already failed.
func (m *MCPServer) parseScenarioArg(request mcp.CallToolRequest) (*scenario.Config, *mcp.CallToolResult) {
	text, err := request.RequireString("scenario")
	if err != nil {
		return nil, mcp.NewToolResultError("scenario argument is required")
	}

	cfg, err := scenario.Parse([]byte(text))
	if err != nil {
		return nil, mcp.NewToolResultError(err.Error())
	}

	return cfg, nil
}
