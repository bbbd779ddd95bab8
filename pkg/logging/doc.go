// Package logging provides a structured logging system for simcat with
// subsystem tagging and level filtering.
//
// The package is a thin layer over Go's standard slog package. Every entry
// carries a level, a subsystem identifier and an optional error, so output
// from the scenario loader, the simulator orchestrator and the CLI can be
// told apart in a single stream.
//
// # Usage
//
//	import "simcat/pkg/logging"
//
//	logging.InitForCLI(logging.LevelInfo, os.Stderr)
//
//	logging.Info("simulator", "Starting %s", exe)
//	logging.Debug("scenario", "Loaded scenario from %s", path)
//	logging.Error("simulator", err, "Process exited early")
//
// # Subsystem Organization
//
// Logs are organized by subsystem to enable filtering and categorization:
//
//   - **scenario**: Scenario loading, validation and serialization
//   - **simulator**: Simulator process lifecycle
//   - **cli**: Command execution and flag handling
//   - **watch**: Scenario file watching
//   - **console**: Interactive console
//   - **mcp**: MCP bridge server
//   - **client**: GitHub API client construction
package logging
