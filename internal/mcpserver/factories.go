package mcpserver

import (
	"fmt"
	"sort"

	"simcat/pkg/scenario"
)

// factoryArg describes one argument a factory accepts.
type factoryArg struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Required    bool   `json:"required,omitempty"`
	Description string `json:"description"`
}

// factorySpec describes a factory for list_factories and dispatches
// build_factory calls.
type factorySpec struct {
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Args        []factoryArg `json:"args"`

	build func(args *argReader) (*scenario.Config, error)
}

var factories = map[string]factorySpec{
	"single_repo": {
		Name:        "single_repo",
		Description: "One repository owned by a user or organization",
		Args: []factoryArg{
			{Name: "owner", Type: "string", Required: true, Description: "Owning account login"},
			{Name: "repo_name", Type: "string", Description: "Repository name (default: repo)"},
			{Name: "org_owner", Type: "boolean", Description: "Treat the owner as an organization"},
			{Name: "default_branch", Type: "string", Description: "Default branch name (default: main)"},
		},
		build: func(args *argReader) (*scenario.Config, error) {
			owner := args.requiredString("owner")
			var opts []scenario.FactoryOption
			if v, ok := args.string("repo_name"); ok {
				opts = append(opts, scenario.WithRepoName(v))
			}
			if args.boolTrue("org_owner") {
				opts = append(opts, scenario.WithOrgOwner())
			}
			if v, ok := args.string("default_branch"); ok {
				opts = append(opts, scenario.WithDefaultBranch(v))
			}
			if err := args.finish(); err != nil {
				return nil, err
			}
			return scenario.SingleRepo(owner, opts...)
		},
	},
	"empty_org": {
		Name:        "empty_org",
		Description: "A single organization with no other entities",
		Args: []factoryArg{
			{Name: "login", Type: "string", Required: true, Description: "Organization login"},
		},
		build: func(args *argReader) (*scenario.Config, error) {
			login := args.requiredString("login")
			if err := args.finish(); err != nil {
				return nil, err
			}
			return scenario.EmptyOrg(login)
		},
	},
	"monorepo_with_apps": {
		Name:        "monorepo_with_apps",
		Description: "A monorepo with one apps/<name> branch per app",
		Args: []factoryArg{
			{Name: "owner", Type: "string", Required: true, Description: "Owning account login"},
			{Name: "repo_name", Type: "string", Description: "Repository name (default: monorepo)"},
			{Name: "org_owner", Type: "boolean", Description: "Treat the owner as an organization"},
			{Name: "apps", Type: "array of strings", Description: "App names (default: [app])"},
		},
		build: func(args *argReader) (*scenario.Config, error) {
			owner := args.requiredString("owner")
			var opts []scenario.FactoryOption
			if v, ok := args.string("repo_name"); ok {
				opts = append(opts, scenario.WithRepoName(v))
			}
			if args.boolTrue("org_owner") {
				opts = append(opts, scenario.WithOrgOwner())
			}
			if v, ok := args.stringList("apps"); ok {
				opts = append(opts, scenario.WithApps(v...))
			}
			if err := args.finish(); err != nil {
				return nil, err
			}
			return scenario.MonorepoWithApps(owner, opts...)
		},
	},
	"github_app": {
		Name:        "github_app",
		Description: "A GitHub App with one installation on an account",
		Args: []factoryArg{
			{Name: "slug", Type: "string", Required: true, Description: "App slug"},
			{Name: "name", Type: "string", Required: true, Description: "App display name"},
			{Name: "account", Type: "string", Required: true, Description: "Account the app is installed on"},
			{Name: "org_owner", Type: "boolean", Description: "Treat the account as an organization"},
			{Name: "repositories", Type: "array of strings", Description: "Installation repositories in owner/repo form"},
			{Name: "permissions", Type: "array of strings", Description: "Installation permission labels"},
			{Name: "access_token", Type: "string", Description: "Token value embedded in the installation"},
			{Name: "app_id", Type: "integer", Description: "Numeric app ID"},
			{Name: "installation_id", Type: "integer", Description: "Installation ID (default: 1)"},
		},
		build: func(args *argReader) (*scenario.Config, error) {
			slug := args.requiredString("slug")
			name := args.requiredString("name")
			account := args.requiredString("account")
			var opts []scenario.FactoryOption
			if args.boolTrue("org_owner") {
				opts = append(opts, scenario.WithOrgOwner())
			}
			if v, ok := args.stringList("repositories"); ok {
				opts = append(opts, scenario.WithInstallationRepositories(v...))
			}
			if v, ok := args.stringList("permissions"); ok {
				opts = append(opts, scenario.WithInstallationPermissions(v...))
			}
			if v, ok := args.string("access_token"); ok {
				opts = append(opts, scenario.WithInstallationToken(v))
			}
			if v, ok := args.integer("app_id"); ok {
				opts = append(opts, scenario.WithAppID(v))
			}
			if v, ok := args.integer("installation_id"); ok {
				opts = append(opts, scenario.WithInstallationID(v))
			}
			if err := args.finish(); err != nil {
				return nil, err
			}
			return scenario.GitHubAppScenario(slug, name, account, opts...)
		},
	},
}

// factoryCatalog returns the factory specs sorted by name.
func factoryCatalog() []factorySpec {
	catalog := make([]factorySpec, 0, len(factories))
	for _, spec := range factories {
		catalog = append(catalog, spec)
	}
	sort.Slice(catalog, func(i, j int) bool { return catalog[i].Name < catalog[j].Name })
	return catalog
}

// buildFactory dispatches to the named factory with type-checked args.
func buildFactory(name string, args map[string]any) (*scenario.Config, error) {
	spec, ok := factories[name]
	if !ok {
		return nil, fmt.Errorf("unknown factory: %s (see list_factories)", name)
	}

	reader := newArgReader(spec.Name, args)
	cfg, err := spec.build(reader)
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// argReader extracts typed values from a factory argument map and
// collects type or leftover-key errors so the factory body stays flat.
type argReader struct {
	factory string
	args    map[string]any
	seen    map[string]struct{}
	errs    []error
}

func newArgReader(factory string, args map[string]any) *argReader {
	return &argReader{
		factory: factory,
		args:    args,
		seen:    make(map[string]struct{}, len(args)),
	}
}

func (r *argReader) lookup(key string) (any, bool) {
	r.seen[key] = struct{}{}
	v, ok := r.args[key]
	return v, ok
}

func (r *argReader) requiredString(key string) string {
	v, ok := r.string(key)
	if !ok {
		r.errs = append(r.errs, fmt.Errorf("%s: %s argument is required", r.factory, key))
	}
	return v
}

func (r *argReader) string(key string) (string, bool) {
	v, ok := r.lookup(key)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	if !ok {
		r.errs = append(r.errs, fmt.Errorf("%s: %s must be a string", r.factory, key))
		return "", false
	}
	return s, true
}

func (r *argReader) boolTrue(key string) bool {
	v, ok := r.lookup(key)
	if !ok {
		return false
	}
	b, ok := v.(bool)
	if !ok {
		r.errs = append(r.errs, fmt.Errorf("%s: %s must be a boolean", r.factory, key))
		return false
	}
	return b
}

func (r *argReader) integer(key string) (int64, bool) {
	v, ok := r.lookup(key)
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case float64:
		if n != float64(int64(n)) {
			r.errs = append(r.errs, fmt.Errorf("%s: %s must be an integer", r.factory, key))
			return 0, false
		}
		return int64(n), true
	case int:
		return int64(n), true
	case int64:
		return n, true
	default:
		r.errs = append(r.errs, fmt.Errorf("%s: %s must be an integer", r.factory, key))
		return 0, false
	}
}

func (r *argReader) stringList(key string) ([]string, bool) {
	v, ok := r.lookup(key)
	if !ok {
		return nil, false
	}

	switch list := v.(type) {
	case []string:
		return list, true
	case []any:
		values := make([]string, 0, len(list))
		for _, item := range list {
			s, ok := item.(string)
			if !ok {
				r.errs = append(r.errs, fmt.Errorf("%s: %s must be a list of strings", r.factory, key))
				return nil, false
			}
			values = append(values, s)
		}
		return values, true
	default:
		r.errs = append(r.errs, fmt.Errorf("%s: %s must be a list of strings", r.factory, key))
		return nil, false
	}
}

// finish reports the first collected error and rejects arguments no
// factory knob consumed.
func (r *argReader) finish() error {
	if len(r.errs) > 0 {
		return r.errs[0]
	}
	for key := range r.args {
		if _, ok := r.seen[key]; !ok {
			return fmt.Errorf("%s: unknown argument %q (see list_factories)", r.factory, key)
		}
	}
	return nil
}
