package scenario

import "strings"

// factoryOptions collects the knobs shared across the scenario factories.
// Each factory applies its own defaults and reads only the fields it
// documents.
type factoryOptions struct {
	repoName       string
	ownerIsOrg     bool
	defaultBranch  string
	apps           []string
	repositories   []string
	permissions    []string
	accessToken    string
	appID          int64
	installationID int64
}

// FactoryOption customizes a scenario factory.
type FactoryOption func(*factoryOptions)

// WithRepoName overrides the factory's default repository name.
func WithRepoName(name string) FactoryOption {
	return func(o *factoryOptions) { o.repoName = name }
}

// WithOrgOwner makes the factory treat the owning account as an
// organization instead of a user.
func WithOrgOwner() FactoryOption {
	return func(o *factoryOptions) { o.ownerIsOrg = true }
}

// WithDefaultBranch overrides the default branch name used by SingleRepo.
func WithDefaultBranch(name string) FactoryOption {
	return func(o *factoryOptions) { o.defaultBranch = name }
}

// WithApps sets the app names MonorepoWithApps maps to apps/<name> branches.
func WithApps(names ...string) FactoryOption {
	return func(o *factoryOptions) { o.apps = names }
}

// WithInstallationRepositories scopes a GitHubAppScenario installation to
// repository references in "owner/name" form.
func WithInstallationRepositories(refs ...string) FactoryOption {
	return func(o *factoryOptions) { o.repositories = refs }
}

// WithInstallationPermissions grants permission labels to a
// GitHubAppScenario installation.
func WithInstallationPermissions(permissions ...string) FactoryOption {
	return func(o *factoryOptions) { o.permissions = permissions }
}

// WithInstallationToken embeds an access token value in a
// GitHubAppScenario installation.
func WithInstallationToken(value string) FactoryOption {
	return func(o *factoryOptions) { o.accessToken = value }
}

// WithAppID sets the numeric app ID for GitHubAppScenario.
func WithAppID(id int64) FactoryOption {
	return func(o *factoryOptions) { o.appID = id }
}

// WithInstallationID overrides the installation ID used by
// GitHubAppScenario.
func WithInstallationID(id int64) FactoryOption {
	return func(o *factoryOptions) { o.installationID = id }
}

// SingleRepo returns a scenario with one repository owned by a user (or an
// organization with WithOrgOwner). The repository name defaults to "repo"
// and the default branch to "main".
func SingleRepo(owner string, opts ...FactoryOption) (*Config, error) {
	options := factoryOptions{repoName: "repo", defaultBranch: "main"}
	for _, opt := range opts {
		opt(&options)
	}
	if err := requireText(owner, "Owner"); err != nil {
		return nil, err
	}
	if err := requireText(options.repoName, "Repository name"); err != nil {
		return nil, err
	}
	if err := requireText(options.defaultBranch, "Default branch"); err != nil {
		return nil, err
	}

	config := ownerFragment(owner, options.ownerIsOrg)
	config.Repositories = []Repository{{
		Owner:         owner,
		Name:          options.repoName,
		DefaultBranch: &DefaultBranch{Name: options.defaultBranch},
	}}
	return config, nil
}

// EmptyOrg returns a scenario with a single organization and nothing else.
func EmptyOrg(login string) (*Config, error) {
	if err := requireText(login, "Organization login"); err != nil {
		return nil, err
	}
	return &Config{Organizations: []Organization{{Login: login}}}, nil
}

// MonorepoWithApps returns a monorepo scenario with one branch per app
// under apps/<name>. The repository name defaults to "monorepo" and the
// app list to a single "app".
func MonorepoWithApps(owner string, opts ...FactoryOption) (*Config, error) {
	options := factoryOptions{repoName: "monorepo", apps: []string{"app"}}
	for _, opt := range opts {
		opt(&options)
	}
	if err := requireText(owner, "Owner"); err != nil {
		return nil, err
	}
	if err := requireText(options.repoName, "Repository name"); err != nil {
		return nil, err
	}
	if len(options.apps) == 0 {
		return nil, validationErrorf("Apps must include at least one entry")
	}
	for _, app := range options.apps {
		if err := requireText(app, "App name"); err != nil {
			return nil, err
		}
	}
	if _, err := ensureUnique(options.apps, "app name"); err != nil {
		return nil, err
	}

	config := ownerFragment(owner, options.ownerIsOrg)
	config.Repositories = []Repository{{
		Owner:         owner,
		Name:          options.repoName,
		DefaultBranch: &DefaultBranch{Name: "main"},
	}}
	branches := make([]Branch, 0, len(options.apps))
	for _, app := range options.apps {
		branches = append(branches, Branch{
			Owner:      owner,
			Repository: options.repoName,
			Name:       "apps/" + app,
		})
	}
	config.Branches = branches
	return config, nil
}

// GitHubAppScenario returns a scenario with a GitHub App and a single
// installation on the given account. The installation ID defaults to 1.
// Repository references passed with WithInstallationRepositories are also
// materialized as Repository entries.
func GitHubAppScenario(slug, name, account string, opts ...FactoryOption) (*Config, error) {
	options := factoryOptions{installationID: 1}
	for _, opt := range opts {
		opt(&options)
	}
	if err := requireText(slug, "App slug"); err != nil {
		return nil, err
	}
	if err := requireText(name, "App name"); err != nil {
		return nil, err
	}
	if err := requireText(account, "Account"); err != nil {
		return nil, err
	}

	repositories := make([]Repository, 0, len(options.repositories))
	for _, ref := range options.repositories {
		owner, repoName, ok := strings.Cut(ref, "/")
		if !ok {
			return nil, validationErrorf("Repository reference must be in 'owner/repo' form (got %q)", ref)
		}
		repositories = append(repositories, Repository{Owner: owner, Name: repoName})
	}

	config := ownerFragment(account, options.ownerIsOrg)
	config.Repositories = repositories
	config.Apps = []GitHubApp{{Slug: slug, Name: name, AppID: options.appID}}
	config.AppInstallations = []AppInstallation{{
		InstallationID: options.installationID,
		AppSlug:        slug,
		Account:        account,
		Repositories:   options.repositories,
		Permissions:    options.permissions,
		AccessToken:    options.accessToken,
	}}
	return config, nil
}

func ownerFragment(login string, isOrg bool) *Config {
	if isOrg {
		return &Config{Organizations: []Organization{{Login: login}}}
	}
	return &Config{Users: []User{{Login: login}}}
}
