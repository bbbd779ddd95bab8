package ghclient

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_SendsTokenHeader(t *testing.T) {
	var authHeader, path string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader = r.Header.Get("Authorization")
		path = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"login":"octocat","id":1}`)
	}))
	defer srv.Close()

	client, err := New(context.Background(), srv.URL, "token-octocat")
	require.NoError(t, err)

	user, _, err := client.Users.Get(context.Background(), "octocat")
	require.NoError(t, err)
	assert.Equal(t, "octocat", user.GetLogin())
	assert.Equal(t, "/users/octocat", path)
	assert.Equal(t, "token token-octocat", authHeader)
}

func TestNew_NoTokenMeansNoAuthorizationHeader(t *testing.T) {
	var hasAuth bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, hasAuth = r.Header["Authorization"]
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"login":"octocat"}`)
	}))
	defer srv.Close()

	client, err := New(context.Background(), srv.URL, "")
	require.NoError(t, err)

	_, _, err = client.Users.Get(context.Background(), "octocat")
	require.NoError(t, err)
	assert.False(t, hasAuth)
}

func TestNew_EnforcesTrailingSlash(t *testing.T) {
	client, err := New(context.Background(), "http://127.0.0.1:8080", "")
	require.NoError(t, err)
	assert.Equal(t, "http://127.0.0.1:8080/", client.BaseURL.String())

	client, err = New(context.Background(), "http://127.0.0.1:8080/", "")
	require.NoError(t, err)
	assert.Equal(t, "http://127.0.0.1:8080/", client.BaseURL.String())
}

func TestNew_InvalidBaseURL(t *testing.T) {
	_, err := New(context.Background(), "http://[::1", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid simulator base URL")
}
