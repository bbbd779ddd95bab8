package scenario

import (
	"fmt"
	"reflect"
	"strconv"
)

// normalizable lets the merge engine compare entities after canonicalizing
// representation-only differences (nil vs empty collections, defaulted
// fields).
type normalizable[T any] interface {
	normalized() T
}

// mergeSpec describes how one entity collection merges: its kind label for
// conflict messages, the identity key, how to format that key, and how to
// read the collection off a Config.
type mergeSpec[T normalizable[T], K comparable] struct {
	kind      string
	key       func(T) K
	formatKey func(K) string
	get       func(*Config) []T
}

// mergeEntities groups entities by identity key across all fragments in
// first-occurrence order. Field-for-field identical definitions deduplicate
// to the first one; any difference is a *MergeConflictError.
func mergeEntities[T normalizable[T], K comparable](configs []*Config, spec mergeSpec[T, K]) ([]T, error) {
	var order []K
	byKey := make(map[K]T)
	for _, config := range configs {
		for _, item := range spec.get(config) {
			k := spec.key(item)
			existing, ok := byKey[k]
			if !ok {
				byKey[k] = item
				order = append(order, k)
				continue
			}
			if !reflect.DeepEqual(existing.normalized(), item.normalized()) {
				return nil, &MergeConflictError{Kind: spec.kind, Key: spec.formatKey(k)}
			}
		}
	}
	if len(order) == 0 {
		return nil, nil
	}
	merged := make([]T, 0, len(order))
	for _, k := range order {
		merged = append(merged, byKey[k])
	}
	return merged, nil
}

type branchKey struct {
	Owner      string
	Repository string
	Name       string
}

func (k branchKey) String() string {
	return fmt.Sprintf("%s/%s:%s", k.Owner, k.Repository, k.Name)
}

type threadKey struct {
	Owner      string
	Repository string
	Number     int
}

func (k threadKey) String() string {
	return fmt.Sprintf("%s/%s#%d", k.Owner, k.Repository, k.Number)
}

func identity(key string) string {
	return key
}

// Merge combines scenario fragments left to right into a single Config.
// Entities sharing an identity key deduplicate when identical and conflict
// otherwise; DefaultToken follows the same policy (first non-empty wins,
// differing non-empty values conflict). The merged aggregate is then
// validated as a whole, so cross-fragment references are checked only
// after merging and independently authored fragments can rely on each
// other's entities. Nil fragments are ignored.
func Merge(configs ...*Config) (*Config, error) {
	fragments := make([]*Config, 0, len(configs))
	for _, config := range configs {
		if config != nil {
			fragments = append(fragments, config)
		}
	}

	merged := &Config{}
	var err error

	if merged.Users, err = mergeEntities(fragments, mergeSpec[User, string]{
		kind:      "user",
		key:       func(u User) string { return u.Login },
		formatKey: identity,
		get:       func(c *Config) []User { return c.Users },
	}); err != nil {
		return nil, err
	}
	if merged.Organizations, err = mergeEntities(fragments, mergeSpec[Organization, string]{
		kind:      "organization",
		key:       func(o Organization) string { return o.Login },
		formatKey: identity,
		get:       func(c *Config) []Organization { return c.Organizations },
	}); err != nil {
		return nil, err
	}
	if merged.Repositories, err = mergeEntities(fragments, mergeSpec[Repository, repoKey]{
		kind:      "repository",
		key:       func(r Repository) repoKey { return repoKey{Owner: r.Owner, Name: r.Name} },
		formatKey: repoKey.String,
		get:       func(c *Config) []Repository { return c.Repositories },
	}); err != nil {
		return nil, err
	}
	if merged.Branches, err = mergeEntities(fragments, mergeSpec[Branch, branchKey]{
		kind: "branch",
		key: func(b Branch) branchKey {
			return branchKey{Owner: b.Owner, Repository: b.Repository, Name: b.Name}
		},
		formatKey: branchKey.String,
		get:       func(c *Config) []Branch { return c.Branches },
	}); err != nil {
		return nil, err
	}
	if merged.Issues, err = mergeEntities(fragments, mergeSpec[Issue, threadKey]{
		kind: "issue",
		key: func(i Issue) threadKey {
			return threadKey{Owner: i.Owner, Repository: i.Repository, Number: i.Number}
		},
		formatKey: threadKey.String,
		get:       func(c *Config) []Issue { return c.Issues },
	}); err != nil {
		return nil, err
	}
	if merged.PullRequests, err = mergeEntities(fragments, mergeSpec[PullRequest, threadKey]{
		kind: "pull request",
		key: func(p PullRequest) threadKey {
			return threadKey{Owner: p.Owner, Repository: p.Repository, Number: p.Number}
		},
		formatKey: threadKey.String,
		get:       func(c *Config) []PullRequest { return c.PullRequests },
	}); err != nil {
		return nil, err
	}
	if merged.Tokens, err = mergeEntities(fragments, mergeSpec[AccessToken, string]{
		kind:      "token",
		key:       func(t AccessToken) string { return t.Value },
		formatKey: strconv.Quote,
		get:       func(c *Config) []AccessToken { return c.Tokens },
	}); err != nil {
		return nil, err
	}
	if merged.Apps, err = mergeEntities(fragments, mergeSpec[GitHubApp, string]{
		kind:      "app",
		key:       func(a GitHubApp) string { return a.Slug },
		formatKey: identity,
		get:       func(c *Config) []GitHubApp { return c.Apps },
	}); err != nil {
		return nil, err
	}
	if merged.AppInstallations, err = mergeEntities(fragments, mergeSpec[AppInstallation, int64]{
		kind:      "app installation",
		key:       func(i AppInstallation) int64 { return i.InstallationID },
		formatKey: func(id int64) string { return strconv.FormatInt(id, 10) },
		get:       func(c *Config) []AppInstallation { return c.AppInstallations },
	}); err != nil {
		return nil, err
	}

	if merged.DefaultToken, err = mergeDefaultTokens(fragments); err != nil {
		return nil, err
	}

	if err := merged.Validate(); err != nil {
		return nil, err
	}
	return merged, nil
}

func mergeDefaultTokens(configs []*Config) (string, error) {
	selected := ""
	for _, config := range configs {
		switch {
		case config.DefaultToken == "":
		case selected == "":
			selected = config.DefaultToken
		case selected != config.DefaultToken:
			return "", &MergeConflictError{
				Kind: "default_token",
				Key:  fmt.Sprintf("%q and %q", selected, config.DefaultToken),
			}
		}
	}
	return selected, nil
}
