package scenario

// User represents a GitHub user known to the simulator.
type User struct {
	// Login uniquely identifies the user across the combined user and
	// organization namespace.
	Login string `yaml:"login" json:"login" jsonschema:"minLength=1"`
	// Organizations lists organization logins the user belongs to. Each
	// entry must name a defined organization.
	Organizations []string `yaml:"organizations,omitempty" json:"organizations,omitempty"`
	Name          string   `yaml:"name,omitempty" json:"name,omitempty"`
	Bio           string   `yaml:"bio,omitempty" json:"bio,omitempty"`
	Email         string   `yaml:"email,omitempty" json:"email,omitempty"`
	ID            int64    `yaml:"id,omitempty" json:"id,omitempty" jsonschema:"minimum=1"`
}

func (u User) normalized() User {
	u.Organizations = normalizeList(u.Organizations)
	return u
}

// Organization represents a GitHub organization known to the simulator.
type Organization struct {
	Login       string `yaml:"login" json:"login" jsonschema:"minLength=1"`
	Name        string `yaml:"name,omitempty" json:"name,omitempty"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
	Email       string `yaml:"email,omitempty" json:"email,omitempty"`
	ID          int64  `yaml:"id,omitempty" json:"id,omitempty" jsonschema:"minimum=1"`
}

func (o Organization) normalized() Organization {
	return o
}

// DefaultBranch describes default branch metadata attached to a repository.
// It is projected into the branch list during serialization.
type DefaultBranch struct {
	Name string `yaml:"name" json:"name" jsonschema:"minLength=1"`
	SHA  string `yaml:"sha,omitempty" json:"sha,omitempty"`
	// Protected is tri-state: nil leaves the branch protection unspecified.
	Protected *bool `yaml:"protected,omitempty" json:"protected,omitempty"`
}

// branch returns the Branch entry this descriptor stands for.
func (d DefaultBranch) branch(owner, repository string) Branch {
	return Branch{
		Owner:      owner,
		Repository: repository,
		Name:       d.Name,
		SHA:        d.SHA,
		Protected:  d.Protected,
	}
}

// Repository represents a GitHub repository. The (Owner, Name) pair is the
// identity key; Owner must resolve to a defined user or organization.
type Repository struct {
	Owner         string         `yaml:"owner" json:"owner" jsonschema:"minLength=1"`
	Name          string         `yaml:"name" json:"name" jsonschema:"minLength=1"`
	Description   string         `yaml:"description,omitempty" json:"description,omitempty"`
	Private       bool           `yaml:"private,omitempty" json:"private,omitempty"`
	DefaultBranch *DefaultBranch `yaml:"default_branch,omitempty" json:"default_branch,omitempty"`
	ID            int64          `yaml:"id,omitempty" json:"id,omitempty" jsonschema:"minimum=1"`
}

func (r Repository) normalized() Repository {
	return r
}

// Branch represents a Git branch. The (Owner, Repository, Name) triple is
// the identity key; the repository must be defined.
type Branch struct {
	Owner      string `yaml:"owner" json:"owner" jsonschema:"minLength=1"`
	Repository string `yaml:"repository" json:"repository" jsonschema:"minLength=1"`
	Name       string `yaml:"name" json:"name" jsonschema:"minLength=1"`
	SHA        string `yaml:"sha,omitempty" json:"sha,omitempty"`
	Protected  *bool  `yaml:"protected,omitempty" json:"protected,omitempty"`
}

func (b Branch) normalized() Branch {
	return b
}

// Issue represents a GitHub issue. The (Owner, Repository, Number) triple
// is the identity key; the repository must be defined.
type Issue struct {
	Owner      string `yaml:"owner" json:"owner" jsonschema:"minLength=1"`
	Repository string `yaml:"repository" json:"repository" jsonschema:"minLength=1"`
	Number     int    `yaml:"number" json:"number" jsonschema:"minimum=1"`
	Title      string `yaml:"title" json:"title" jsonschema:"minLength=1"`
	Body       string `yaml:"body,omitempty" json:"body,omitempty"`
	// State is "open" or "closed"; empty means "open".
	State  string `yaml:"state,omitempty" json:"state,omitempty" jsonschema:"enum=open,enum=closed"`
	Author string `yaml:"author,omitempty" json:"author,omitempty"`
}

func (i Issue) normalized() Issue {
	i.State = stateOrDefault(i.State)
	return i
}

// PullRequest represents a GitHub pull request. The (Owner, Repository,
// Number) triple is the identity key, counted separately from issues.
type PullRequest struct {
	Owner      string `yaml:"owner" json:"owner" jsonschema:"minLength=1"`
	Repository string `yaml:"repository" json:"repository" jsonschema:"minLength=1"`
	Number     int    `yaml:"number" json:"number" jsonschema:"minimum=1"`
	Title      string `yaml:"title" json:"title" jsonschema:"minLength=1"`
	Body       string `yaml:"body,omitempty" json:"body,omitempty"`
	State      string `yaml:"state,omitempty" json:"state,omitempty" jsonschema:"enum=open,enum=closed"`
	Author     string `yaml:"author,omitempty" json:"author,omitempty"`
	// BaseBranch and HeadBranch must name configured branches of the same
	// repository when set.
	BaseBranch string `yaml:"base_branch,omitempty" json:"base_branch,omitempty"`
	HeadBranch string `yaml:"head_branch,omitempty" json:"head_branch,omitempty"`
	Draft      bool   `yaml:"draft,omitempty" json:"draft,omitempty"`
}

func (p PullRequest) normalized() PullRequest {
	p.State = stateOrDefault(p.State)
	return p
}

// AccessToken represents an access token used for Authorization headers.
// Tokens are client-side metadata and are never serialized into the
// simulator document.
type AccessToken struct {
	// Value is the token string; it must be unique across the combined
	// pool of standalone and installation-embedded tokens.
	Value string `yaml:"value" json:"value" jsonschema:"minLength=1"`
	// Owner is the user or organization login that owns the token.
	Owner       string   `yaml:"owner" json:"owner" jsonschema:"minLength=1"`
	Permissions []string `yaml:"permissions,omitempty" json:"permissions,omitempty"`
	// Repositories scopes the token to repository references in
	// "owner/name" form.
	Repositories []string `yaml:"repositories,omitempty" json:"repositories,omitempty"`
	// RepositoryVisibility is "all", "private", or "public" when set.
	RepositoryVisibility string `yaml:"repository_visibility,omitempty" json:"repository_visibility,omitempty" jsonschema:"enum=all,enum=private,enum=public"`
}

func (t AccessToken) normalized() AccessToken {
	t.Permissions = normalizeList(t.Permissions)
	t.Repositories = normalizeList(t.Repositories)
	return t
}

// GitHubApp represents a GitHub App definition. Apps are client-side
// metadata and are never serialized into the simulator document.
type GitHubApp struct {
	// Slug is the URL-friendly identifier and the identity key.
	Slug  string `yaml:"slug" json:"slug" jsonschema:"minLength=1"`
	Name  string `yaml:"name" json:"name" jsonschema:"minLength=1"`
	AppID int64  `yaml:"app_id,omitempty" json:"app_id,omitempty" jsonschema:"minimum=1"`
	// Owner must resolve to a defined user or organization when set.
	Owner string `yaml:"owner,omitempty" json:"owner,omitempty"`
}

func (a GitHubApp) normalized() GitHubApp {
	return a
}

// AppInstallation represents an installation of a GitHub App on an
// account. Installations are client-side metadata and are never serialized
// into the simulator document; an embedded AccessToken value joins the
// token pool used for Authorization resolution.
type AppInstallation struct {
	InstallationID int64 `yaml:"installation_id" json:"installation_id" jsonschema:"minimum=1"`
	// AppSlug must reference a defined GitHubApp.
	AppSlug string `yaml:"app_slug" json:"app_slug" jsonschema:"minLength=1"`
	// Account is the user or organization login the app is installed on.
	Account string `yaml:"account" json:"account" jsonschema:"minLength=1"`
	// Repositories lists "owner/name" references accessible to the
	// installation.
	Repositories []string `yaml:"repositories,omitempty" json:"repositories,omitempty"`
	Permissions  []string `yaml:"permissions,omitempty" json:"permissions,omitempty"`
	AccessToken  string   `yaml:"access_token,omitempty" json:"access_token,omitempty"`
}

func (i AppInstallation) normalized() AppInstallation {
	i.Repositories = normalizeList(i.Repositories)
	i.Permissions = normalizeList(i.Permissions)
	return i
}

// normalizeList canonicalizes empty and nil slices to nil so field-for-field
// equality is well defined across authoring styles.
func normalizeList(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	return values
}

func stateOrDefault(state string) string {
	if state == "" {
		return "open"
	}
	return state
}
