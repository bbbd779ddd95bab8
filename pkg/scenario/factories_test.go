package scenario

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSingleRepo_Defaults(t *testing.T) {
	cfg, err := SingleRepo("octocat")
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	require.Len(t, cfg.Users, 1)
	assert.Equal(t, "octocat", cfg.Users[0].Login)
	assert.Empty(t, cfg.Organizations)

	require.Len(t, cfg.Repositories, 1)
	repo := cfg.Repositories[0]
	assert.Equal(t, "octocat", repo.Owner)
	assert.Equal(t, "repo", repo.Name)
	require.NotNil(t, repo.DefaultBranch)
	assert.Equal(t, "main", repo.DefaultBranch.Name)
}

func TestSingleRepo_Options(t *testing.T) {
	cfg, err := SingleRepo("acme", WithOrgOwner(), WithRepoName("widgets"), WithDefaultBranch("trunk"))
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Empty(t, cfg.Users)
	require.Len(t, cfg.Organizations, 1)
	assert.Equal(t, "acme", cfg.Organizations[0].Login)

	repo := cfg.Repositories[0]
	assert.Equal(t, "widgets", repo.Name)
	assert.Equal(t, "trunk", repo.DefaultBranch.Name)
}

func TestSingleRepo_Rejections(t *testing.T) {
	tests := []struct {
		name    string
		owner   string
		opts    []FactoryOption
		wantErr string
	}{
		{
			name:    "empty owner",
			owner:   "",
			wantErr: "Owner must be a non-empty string",
		},
		{
			name:    "empty repository name",
			owner:   "octocat",
			opts:    []FactoryOption{WithRepoName("")},
			wantErr: "Repository name must be a non-empty string",
		},
		{
			name:    "empty default branch",
			owner:   "octocat",
			opts:    []FactoryOption{WithDefaultBranch(" ")},
			wantErr: "Default branch must be a non-empty string",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := SingleRepo(tt.owner, tt.opts...)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.wantErr, verr.Message)
		})
	}
}

func TestEmptyOrg(t *testing.T) {
	cfg, err := EmptyOrg("acme")
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 1, cfg.EntityCount())
	assert.Equal(t, "acme", cfg.Organizations[0].Login)

	_, err = EmptyOrg("")
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "Organization login must be a non-empty string", verr.Message)
}

func TestMonorepoWithApps_Defaults(t *testing.T) {
	cfg, err := MonorepoWithApps("octocat")
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	repo := cfg.Repositories[0]
	assert.Equal(t, "monorepo", repo.Name)
	require.NotNil(t, repo.DefaultBranch)
	assert.Equal(t, "main", repo.DefaultBranch.Name)

	require.Len(t, cfg.Branches, 1)
	assert.Equal(t, "apps/app", cfg.Branches[0].Name)
}

func TestMonorepoWithApps_AppBranches(t *testing.T) {
	cfg, err := MonorepoWithApps("acme", WithOrgOwner(), WithApps("api", "web", "worker"))
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	var names []string
	for _, branch := range cfg.Branches {
		assert.Equal(t, "acme", branch.Owner)
		assert.Equal(t, "monorepo", branch.Repository)
		names = append(names, branch.Name)
	}
	assert.Equal(t, []string{"apps/api", "apps/web", "apps/worker"}, names)
}

func TestMonorepoWithApps_Rejections(t *testing.T) {
	tests := []struct {
		name    string
		owner   string
		opts    []FactoryOption
		wantErr string
	}{
		{
			name:    "no apps",
			owner:   "octocat",
			opts:    []FactoryOption{WithApps()},
			wantErr: "Apps must include at least one entry",
		},
		{
			name:    "blank app name",
			owner:   "octocat",
			opts:    []FactoryOption{WithApps("api", "")},
			wantErr: "App name must be a non-empty string",
		},
		{
			name:    "duplicate app name",
			owner:   "octocat",
			opts:    []FactoryOption{WithApps("api", "api")},
			wantErr: `Duplicate app name: "api"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := MonorepoWithApps(tt.owner, tt.opts...)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.wantErr, verr.Message)
		})
	}
}

func TestGitHubAppScenario_Defaults(t *testing.T) {
	cfg, err := GitHubAppScenario("ci-app", "CI App", "octocat")
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	require.Len(t, cfg.Apps, 1)
	assert.Equal(t, "ci-app", cfg.Apps[0].Slug)
	assert.Equal(t, "CI App", cfg.Apps[0].Name)

	require.Len(t, cfg.AppInstallations, 1)
	inst := cfg.AppInstallations[0]
	assert.Equal(t, int64(1), inst.InstallationID)
	assert.Equal(t, "ci-app", inst.AppSlug)
	assert.Equal(t, "octocat", inst.Account)
}

func TestGitHubAppScenario_Options(t *testing.T) {
	cfg, err := GitHubAppScenario("ci-app", "CI App", "acme",
		WithOrgOwner(),
		WithAppID(42),
		WithInstallationID(9),
		WithInstallationRepositories("acme/widgets"),
		WithInstallationPermissions("contents", "pull_requests"),
		WithInstallationToken("ghs_install"),
	)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, int64(42), cfg.Apps[0].AppID)

	inst := cfg.AppInstallations[0]
	assert.Equal(t, int64(9), inst.InstallationID)
	assert.Equal(t, []string{"acme/widgets"}, inst.Repositories)
	assert.Equal(t, []string{"contents", "pull_requests"}, inst.Permissions)
	assert.Equal(t, "ghs_install", inst.AccessToken)

	// Repository references materialize as entries owned by the account.
	require.Len(t, cfg.Repositories, 1)
	assert.Equal(t, "acme", cfg.Repositories[0].Owner)
	assert.Equal(t, "widgets", cfg.Repositories[0].Name)

	token, ok, err := cfg.ResolveAuthToken()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "ghs_install", token)
}

func TestGitHubAppScenario_ForeignRepositoryNeedsOwnerFragment(t *testing.T) {
	// A reference owned by a different account leaves a dangling owner; the
	// fragment only validates once merged with a fragment defining it.
	cfg, err := GitHubAppScenario("ci-app", "CI App", "octocat",
		WithInstallationRepositories("hubot/tools"))
	require.NoError(t, err)
	require.Error(t, cfg.Validate())

	merged, err := Merge(cfg, &Config{Users: []User{{Login: "hubot"}}})
	require.NoError(t, err)
	assert.NoError(t, merged.Validate())
}

func TestGitHubAppScenario_Rejections(t *testing.T) {
	tests := []struct {
		name    string
		slug    string
		appName string
		account string
		opts    []FactoryOption
		wantErr string
	}{
		{
			name:    "empty slug",
			appName: "CI App",
			account: "octocat",
			wantErr: "App slug must be a non-empty string",
		},
		{
			name:    "empty app name",
			slug:    "ci-app",
			account: "octocat",
			wantErr: "App name must be a non-empty string",
		},
		{
			name:    "empty account",
			slug:    "ci-app",
			appName: "CI App",
			wantErr: "Account must be a non-empty string",
		},
		{
			name:    "malformed repository reference",
			slug:    "ci-app",
			appName: "CI App",
			account: "octocat",
			opts:    []FactoryOption{WithInstallationRepositories("tools")},
			wantErr: `Repository reference must be in 'owner/repo' form (got "tools")`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := GitHubAppScenario(tt.slug, tt.appName, tt.account, tt.opts...)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.wantErr, verr.Message)
		})
	}
}
