// Package ghclient builds go-github clients bound to a running
// simulator instance.
package ghclient

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/go-github/v74/github"
	"golang.org/x/oauth2"
)

// New returns a go-github client targeting baseURL. A non-empty token is
// attached to every request as "Authorization: token <value>", the scheme
// the simulator expects for personal access and installation tokens.
// Construction only configures endpoint and transport; request behavior
// stays go-github's.
func New(ctx context.Context, baseURL, token string) (*github.Client, error) {
	var httpClient *http.Client
	if token != "" {
		src := oauth2.StaticTokenSource(&oauth2.Token{
			AccessToken: token,
			TokenType:   "token",
		})
		httpClient = oauth2.NewClient(ctx, src)
	}

	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid simulator base URL %q: %w", baseURL, err)
	}

	client := github.NewClient(httpClient)
	client.BaseURL = parsed
	client.UploadURL = parsed
	return client, nil
}
