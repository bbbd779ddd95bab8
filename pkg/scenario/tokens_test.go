package scenario

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveAuthToken_NoTokens(t *testing.T) {
	cfg := Config{}
	token, ok, err := cfg.ResolveAuthToken()
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, token)
}

func TestResolveAuthToken_SingleToken(t *testing.T) {
	cfg := Config{
		Users:  []User{{Login: "octocat"}},
		Tokens: []AccessToken{{Value: "t1", Owner: "octocat"}},
	}
	token, ok, err := cfg.ResolveAuthToken()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "t1", token)
}

func TestResolveAuthToken_SingleDistinctValueIgnoresDefault(t *testing.T) {
	// One distinct value auto-selects even when default_token is unset or
	// points elsewhere; there is nothing to disambiguate.
	cfg := Config{
		Users:        []User{{Login: "octocat"}},
		Tokens:       []AccessToken{{Value: "t1", Owner: "octocat"}},
		DefaultToken: "other",
	}
	token, ok, err := cfg.ResolveAuthToken()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "t1", token)
}

func TestResolveAuthToken_InstallationTokenOnly(t *testing.T) {
	cfg := Config{
		Users: []User{{Login: "octocat"}},
		Apps:  []GitHubApp{{Slug: "ci-app", Name: "CI App"}},
		AppInstallations: []AppInstallation{
			{InstallationID: 1, AppSlug: "ci-app", Account: "octocat", AccessToken: "ghs_install"},
		},
	}
	token, ok, err := cfg.ResolveAuthToken()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "ghs_install", token)
}

func TestResolveAuthToken_MultipleTokensUseDefault(t *testing.T) {
	cfg := Config{
		Users: []User{{Login: "octocat"}},
		Tokens: []AccessToken{
			{Value: "t1", Owner: "octocat"},
			{Value: "t2", Owner: "octocat"},
		},
		DefaultToken: "t2",
	}
	token, ok, err := cfg.ResolveAuthToken()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "t2", token)
}

func TestResolveAuthToken_MultipleTokensWithoutDefault(t *testing.T) {
	cfg := Config{
		Users: []User{{Login: "octocat"}},
		Tokens: []AccessToken{
			{Value: "t1", Owner: "octocat"},
			{Value: "t2", Owner: "octocat"},
		},
	}
	_, _, err := cfg.ResolveAuthToken()
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "Multiple tokens configured but no default_token set", verr.Message)
}

func TestResolveAuthToken_DefaultOutsidePool(t *testing.T) {
	cfg := Config{
		Users: []User{{Login: "octocat"}},
		Tokens: []AccessToken{
			{Value: "t1", Owner: "octocat"},
			{Value: "t2", Owner: "octocat"},
		},
		DefaultToken: "t3",
	}
	_, _, err := cfg.ResolveAuthToken()
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "Default token must match one of the configured tokens", verr.Message)
}

func TestResolveAuthToken_PoolSpansTokensAndInstallations(t *testing.T) {
	cfg := Config{
		Users:  []User{{Login: "octocat"}},
		Tokens: []AccessToken{{Value: "t1", Owner: "octocat"}},
		Apps:   []GitHubApp{{Slug: "ci-app", Name: "CI App"}},
		AppInstallations: []AppInstallation{
			{InstallationID: 1, AppSlug: "ci-app", Account: "octocat", AccessToken: "ghs_install"},
		},
		DefaultToken: "ghs_install",
	}
	require.NoError(t, cfg.Validate())

	token, ok, err := cfg.ResolveAuthToken()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "ghs_install", token)
}
