package scenario

// Config is the aggregate root for a scenario: the complete declarative
// description of simulated GitHub state. Configs are treated as immutable
// once constructed; Validate, ToSimulatorConfig, and ResolveAuthToken never
// modify the receiver, and "updates" are expressed by building a new Config
// (usually via Merge).
type Config struct {
	Users            []User            `yaml:"users,omitempty" json:"users,omitempty"`
	Organizations    []Organization    `yaml:"organizations,omitempty" json:"organizations,omitempty"`
	Repositories     []Repository      `yaml:"repositories,omitempty" json:"repositories,omitempty"`
	Branches         []Branch          `yaml:"branches,omitempty" json:"branches,omitempty"`
	Issues           []Issue           `yaml:"issues,omitempty" json:"issues,omitempty"`
	PullRequests     []PullRequest     `yaml:"pull_requests,omitempty" json:"pull_requests,omitempty"`
	Tokens           []AccessToken     `yaml:"tokens,omitempty" json:"tokens,omitempty"`
	Apps             []GitHubApp       `yaml:"apps,omitempty" json:"apps,omitempty"`
	AppInstallations []AppInstallation `yaml:"app_installations,omitempty" json:"app_installations,omitempty"`
	// DefaultToken names the token value the client should use when the
	// token pool holds more than one distinct value.
	DefaultToken string `yaml:"default_token,omitempty" json:"default_token,omitempty"`
}

// Validate checks the configuration for consistency: non-empty identity
// fields, unique identity keys, and resolvable cross-entity references.
// It is side-effect-free and fails fast with a *ValidationError naming the
// offending field and value.
func (c *Config) Validate() error {
	return c.validate(true)
}

func (c *Config) validate(includeUnsupported bool) error {
	ix, err := c.buildIndexes()
	if err != nil {
		return err
	}
	if includeUnsupported {
		if err := c.validateIssues(ix.repos); err != nil {
			return err
		}
		if err := c.validatePullRequests(ix.repos, ix.branches); err != nil {
			return err
		}
	}
	return nil
}

// EntityCount returns the total number of entities across all collections.
// DefaultToken is a selector, not an entity, and is not counted.
func (c *Config) EntityCount() int {
	return len(c.Users) + len(c.Organizations) + len(c.Repositories) +
		len(c.Branches) + len(c.Issues) + len(c.PullRequests) +
		len(c.Tokens) + len(c.Apps) + len(c.AppInstallations)
}
