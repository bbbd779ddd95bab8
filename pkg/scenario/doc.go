// Package scenario provides the data model for GitHub simulator scenarios
// with validation, merging, serialization, and file loading.
//
// This package is the heart of simcat: it defines declarative entities
// (organizations, users, repositories, branches, tokens, GitHub Apps,
// installations, issues, pull requests), validates their cross-references,
// and turns them into the JSON document a simulator process consumes.
//
// # Scenario Definition Structure
//
// Scenarios are defined in YAML format with the following structure:
//
//	organizations:
//	  - login: acme
//	users:
//	  - login: octocat
//	    organizations: [acme]
//	repositories:
//	  - owner: acme
//	    name: widgets
//	    default_branch:
//	      name: main
//	      sha: "1111111111111111111111111111111111111111"
//	tokens:
//	  - value: token-octocat
//	    owner: octocat
//	default_token: token-octocat
//
// # Validation
//
// Config.Validate checks every entity for required fields and verifies the
// referential rules: users may only reference defined organizations,
// repositories must be owned by a defined user or organization, tokens and
// installations may only reference configured repositories, and issue or
// pull request numbers must be unique per repository. Validation failures
// are reported as *ValidationError with stable, user-facing messages.
//
// # Merging
//
// Merge combines scenario fragments into one Config. Identical duplicate
// entities (after normalization) collapse; conflicting duplicates fail with
// *MergeConflictError naming the entity kind and key. Factories produce
// small fragments designed to compose through Merge.
//
// # Serialization
//
// Config.ToSimulatorConfig produces the simulator wire document: a JSON
// object with users, organizations, repositories, branches, and blobs
// lists. Issues and pull requests are included only on request because not
// every simulator build understands them. Tokens, apps, and installations
// never appear on the wire; they only drive validation and token
// resolution.
//
// # Loading
//
// LoadFile and LoadFileValues read scenario YAML from disk, optionally
// rendering it as a text/template with the sprig function map, check it
// against the generated JSON schema, and strictly decode it so unknown
// fields are rejected. LoadDocumentFile reads a raw simulator document
// instead, for callers that bypass the typed model.
//
// # Usage Example
//
//	cfg, err := scenario.LoadFile("scenario.yaml")
//	if err != nil {
//	    return err
//	}
//	doc, err := cfg.ToSimulatorConfig(false)
//	if err != nil {
//	    return err
//	}
//	token, ok, err := cfg.ResolveAuthToken()
package scenario
