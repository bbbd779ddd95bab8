package scenario

import (
	"slices"
	"strconv"
	"strings"
)

// repoKey is the (owner, name) identity of a repository.
type repoKey struct {
	Owner string
	Name  string
}

func (k repoKey) String() string {
	return k.Owner + "/" + k.Name
}

// indexes holds the validated lookup structures shared between validation
// and serialization.
type indexes struct {
	orgLogins  map[string]struct{}
	userLogins map[string]struct{}
	repos      map[repoKey]Repository
	branches   *branchIndex
	appSlugs   map[string]struct{}
}

// buildIndexes validates the configuration in dependency order so error
// messages are locally accurate, and returns the resulting indexes.
// Issues and pull requests are validated separately; see validate.
func (c *Config) buildIndexes() (*indexes, error) {
	orgLogins, err := c.validateOrganizations()
	if err != nil {
		return nil, err
	}
	userLogins, err := c.validateUsers(orgLogins)
	if err != nil {
		return nil, err
	}
	repos, err := c.validateRepositories(userLogins, orgLogins)
	if err != nil {
		return nil, err
	}
	if err := c.validateTokens(userLogins, orgLogins, repos); err != nil {
		return nil, err
	}
	appSlugs, err := c.validateApps(userLogins, orgLogins)
	if err != nil {
		return nil, err
	}
	if err := c.validateAppInstallations(appSlugs, userLogins, orgLogins, repos); err != nil {
		return nil, err
	}
	if err := c.validateDefaultToken(); err != nil {
		return nil, err
	}
	branches, err := c.validateBranches(repos)
	if err != nil {
		return nil, err
	}
	return &indexes{
		orgLogins:  orgLogins,
		userLogins: userLogins,
		repos:      repos,
		branches:   branches,
		appSlugs:   appSlugs,
	}, nil
}

func requireText(value, label string) error {
	if strings.TrimSpace(value) == "" {
		return validationErrorf("%s must be a non-empty string", label)
	}
	return nil
}

func requirePositive[T int | int64](value T, label string) error {
	if value <= 0 {
		return validationErrorf("%s must be a positive integer", label)
	}
	return nil
}

func ensureUnique(values []string, label string) (map[string]struct{}, error) {
	seen := make(map[string]struct{}, len(values))
	for _, value := range values {
		if _, dup := seen[value]; dup {
			return nil, validationErrorf("Duplicate %s: %q", label, value)
		}
		seen[value] = struct{}{}
	}
	return seen, nil
}

// parseRepoReference splits an "owner/name" reference, validating both
// parts. The label prefixes error messages, e.g. "Token repository".
func parseRepoReference(value, label string) (repoKey, error) {
	owner, name, ok := strings.Cut(value, "/")
	if !ok {
		return repoKey{}, validationErrorf("%s must be in the form 'owner/repo'", label)
	}
	if err := requireText(owner, label+" owner"); err != nil {
		return repoKey{}, err
	}
	if err := requireText(name, label+" name"); err != nil {
		return repoKey{}, err
	}
	return repoKey{Owner: owner, Name: name}, nil
}

func resolves(login string, userLogins, orgLogins map[string]struct{}) bool {
	if _, ok := userLogins[login]; ok {
		return true
	}
	_, ok := orgLogins[login]
	return ok
}

func (c *Config) validateOrganizations() (map[string]struct{}, error) {
	logins := make([]string, 0, len(c.Organizations))
	for _, org := range c.Organizations {
		if err := requireText(org.Login, "Organization login"); err != nil {
			return nil, err
		}
		if org.ID != 0 {
			if err := requirePositive(org.ID, "Organization ID"); err != nil {
				return nil, err
			}
		}
		logins = append(logins, org.Login)
	}
	return ensureUnique(logins, "organization login")
}

func (c *Config) validateUsers(orgLogins map[string]struct{}) (map[string]struct{}, error) {
	logins := make([]string, 0, len(c.Users))
	for _, user := range c.Users {
		if err := requireText(user.Login, "User login"); err != nil {
			return nil, err
		}
		if user.ID != 0 {
			if err := requirePositive(user.ID, "User ID"); err != nil {
				return nil, err
			}
		}
		if _, ok := orgLogins[user.Login]; ok {
			return nil, validationErrorf("Duplicate login: %q", user.Login)
		}
		for _, org := range user.Organizations {
			if err := requireText(org, "User organization"); err != nil {
				return nil, err
			}
			if _, ok := orgLogins[org]; !ok {
				return nil, validationErrorf(
					"User organization must refer to a defined organization (missing %q for user %q)",
					org, user.Login)
			}
		}
		logins = append(logins, user.Login)
	}
	return ensureUnique(logins, "user login")
}

func (c *Config) validateRepositories(userLogins, orgLogins map[string]struct{}) (map[repoKey]Repository, error) {
	repos := make(map[repoKey]Repository, len(c.Repositories))
	for _, repo := range c.Repositories {
		if err := requireText(repo.Owner, "Repository owner"); err != nil {
			return nil, err
		}
		if err := requireText(repo.Name, "Repository name"); err != nil {
			return nil, err
		}
		if !resolves(repo.Owner, userLogins, orgLogins) {
			return nil, validationErrorf(
				"Repository owner must be a defined user or organization (got %q for %s/%s)",
				repo.Owner, repo.Owner, repo.Name)
		}
		key := repoKey{Owner: repo.Owner, Name: repo.Name}
		if _, dup := repos[key]; dup {
			return nil, validationErrorf("Duplicate repository definition: %s", key)
		}
		if repo.ID != 0 {
			if err := requirePositive(repo.ID, "Repository ID"); err != nil {
				return nil, err
			}
		}
		if repo.DefaultBranch != nil {
			if err := requireText(repo.DefaultBranch.Name, "Default branch name"); err != nil {
				return nil, err
			}
			if repo.DefaultBranch.SHA != "" {
				if err := requireText(repo.DefaultBranch.SHA, "Default branch sha"); err != nil {
					return nil, err
				}
			}
		}
		repos[key] = repo
	}
	return repos, nil
}

func (c *Config) validateTokens(userLogins, orgLogins map[string]struct{}, repos map[repoKey]Repository) error {
	values := make([]string, 0, len(c.Tokens))
	for _, token := range c.Tokens {
		if err := requireText(token.Value, "Token value"); err != nil {
			return err
		}
		if err := requireText(token.Owner, "Token owner"); err != nil {
			return err
		}
		if !resolves(token.Owner, userLogins, orgLogins) {
			return validationErrorf(
				"Token owner must be a defined user or organization (got %q for token %q)",
				token.Owner, token.Value)
		}
		values = append(values, token.Value)

		for _, permission := range token.Permissions {
			if err := requireText(permission, "Token permission"); err != nil {
				return err
			}
		}
		if _, err := ensureUnique(token.Permissions, "token permission for "+strconv.Quote(token.Value)); err != nil {
			return err
		}

		for _, ref := range token.Repositories {
			if err := requireText(ref, "Token repository"); err != nil {
				return err
			}
		}
		if _, err := ensureUnique(token.Repositories, "token repository reference for "+strconv.Quote(token.Value)); err != nil {
			return err
		}
		for _, ref := range token.Repositories {
			key, err := parseRepoReference(ref, "Token repository")
			if err != nil {
				return err
			}
			if _, ok := repos[key]; !ok {
				return validationErrorf(
					"Token repository must reference a configured repository (missing %q for token %q)",
					ref, token.Value)
			}
		}

		switch token.RepositoryVisibility {
		case "", "all", "private", "public":
		default:
			return validationErrorf(`Token repository visibility must be one of "all", "private", "public"`)
		}
	}
	_, err := ensureUnique(values, "token value")
	return err
}

func (c *Config) validateApps(userLogins, orgLogins map[string]struct{}) (map[string]struct{}, error) {
	slugs := make([]string, 0, len(c.Apps))
	for _, app := range c.Apps {
		if err := requireText(app.Slug, "App slug"); err != nil {
			return nil, err
		}
		if err := requireText(app.Name, "App name"); err != nil {
			return nil, err
		}
		if app.AppID != 0 {
			if err := requirePositive(app.AppID, "App ID"); err != nil {
				return nil, err
			}
		}
		if app.Owner != "" {
			if err := requireText(app.Owner, "App owner"); err != nil {
				return nil, err
			}
			if !resolves(app.Owner, userLogins, orgLogins) {
				return nil, validationErrorf(
					"App owner must be a defined user or organization (got %q for app %q)",
					app.Owner, app.Slug)
			}
		}
		slugs = append(slugs, app.Slug)
	}
	return ensureUnique(slugs, "app slug")
}

func (c *Config) validateAppInstallations(appSlugs, userLogins, orgLogins map[string]struct{}, repos map[repoKey]Repository) error {
	seenIDs := make(map[int64]struct{}, len(c.AppInstallations))
	poolValues := make(map[string]struct{}, len(c.Tokens))
	for _, token := range c.Tokens {
		poolValues[token.Value] = struct{}{}
	}
	for _, inst := range c.AppInstallations {
		if err := requirePositive(inst.InstallationID, "Installation ID"); err != nil {
			return err
		}
		if _, dup := seenIDs[inst.InstallationID]; dup {
			return validationErrorf("Duplicate installation ID: %d", inst.InstallationID)
		}
		seenIDs[inst.InstallationID] = struct{}{}

		if err := requireText(inst.AppSlug, "Installation app slug"); err != nil {
			return err
		}
		if _, ok := appSlugs[inst.AppSlug]; !ok {
			return validationErrorf(
				"Installation app must reference a defined GitHub App (got %q for installation %d)",
				inst.AppSlug, inst.InstallationID)
		}

		if err := requireText(inst.Account, "Installation account"); err != nil {
			return err
		}
		if !resolves(inst.Account, userLogins, orgLogins) {
			return validationErrorf(
				"Installation account must be a defined user or organization (got %q for installation %d)",
				inst.Account, inst.InstallationID)
		}

		for _, ref := range inst.Repositories {
			if err := requireText(ref, "Installation repository"); err != nil {
				return err
			}
			key, err := parseRepoReference(ref, "Installation repository")
			if err != nil {
				return err
			}
			if _, ok := repos[key]; !ok {
				return validationErrorf(
					"Installation repository must reference a configured repository (missing %q for installation %d)",
					ref, inst.InstallationID)
			}
		}

		for _, permission := range inst.Permissions {
			if err := requireText(permission, "Installation permission"); err != nil {
				return err
			}
		}
		label := "installation permission for installation " + strconv.FormatInt(inst.InstallationID, 10)
		if _, err := ensureUnique(inst.Permissions, label); err != nil {
			return err
		}

		if inst.AccessToken != "" {
			if err := requireText(inst.AccessToken, "Installation access token"); err != nil {
				return err
			}
			if _, dup := poolValues[inst.AccessToken]; dup {
				return validationErrorf(
					"Duplicate token value: installation %d access_token duplicates a configured token",
					inst.InstallationID)
			}
			poolValues[inst.AccessToken] = struct{}{}
		}
	}
	return nil
}

// validateDefaultToken runs after both validateTokens and
// validateAppInstallations so the full token pool is available.
func (c *Config) validateDefaultToken() error {
	pool := c.tokenPool()
	if c.DefaultToken != "" {
		if err := requireText(c.DefaultToken, "Default token"); err != nil {
			return err
		}
		if !slices.Contains(pool, c.DefaultToken) {
			return validationErrorf("Default token must match one of the configured tokens")
		}
		return nil
	}
	if len(distinctStrings(pool)) > 1 {
		return validationErrorf("Multiple tokens configured but no default_token set")
	}
	return nil
}

func (c *Config) validateBranches(repos map[repoKey]Repository) (*branchIndex, error) {
	ix := newBranchIndex()
	for _, branch := range c.Branches {
		key, err := validateBranchCore(branch, repos)
		if err != nil {
			return nil, err
		}
		group := ix.group(key)
		if existing, ok := group.get(branch.Name); ok {
			if err := checkBranchOverlap(existing, branch, key, false); err != nil {
				return nil, err
			}
			branch = mergeBranchMetadata(existing, branch)
		}
		group.put(branch)
	}
	for _, repo := range c.Repositories {
		if repo.DefaultBranch == nil {
			continue
		}
		key := repoKey{Owner: repo.Owner, Name: repo.Name}
		if err := attachDefaultBranch(ix, key, *repo.DefaultBranch); err != nil {
			return nil, err
		}
	}
	return ix, nil
}

func validateBranchCore(branch Branch, repos map[repoKey]Repository) (repoKey, error) {
	if err := requireText(branch.Owner, "Branch owner"); err != nil {
		return repoKey{}, err
	}
	if err := requireText(branch.Repository, "Branch repository"); err != nil {
		return repoKey{}, err
	}
	if err := requireText(branch.Name, "Branch name"); err != nil {
		return repoKey{}, err
	}
	if branch.SHA != "" {
		if err := requireText(branch.SHA, "Branch sha"); err != nil {
			return repoKey{}, err
		}
	}
	key := repoKey{Owner: branch.Owner, Name: branch.Repository}
	if _, ok := repos[key]; !ok {
		return repoKey{}, validationErrorf("Branch refers to unknown repository %s", key)
	}
	return key, nil
}

// attachDefaultBranch projects a repository's default branch descriptor
// into the branch index: synthesized when absent, merged with the explicit
// entry when present. Explicit fields win; disagreement on both-set fields
// is an error.
func attachDefaultBranch(ix *branchIndex, key repoKey, defaultBranch DefaultBranch) error {
	group := ix.group(key)
	synthesized := defaultBranch.branch(key.Owner, key.Name)
	existing, ok := group.get(synthesized.Name)
	if !ok {
		group.put(synthesized)
		return nil
	}
	if err := checkBranchOverlap(existing, synthesized, key, true); err != nil {
		return err
	}
	group.put(mergeBranchMetadata(existing, synthesized))
	return nil
}

// checkBranchOverlap rejects two definitions of the same branch whose
// metadata disagrees. A field conflicts only when set on both sides with
// differing values; set-vs-unset is compatible.
func checkBranchOverlap(existing, incoming Branch, key repoKey, isDefault bool) error {
	var mismatch []string
	if existing.SHA != "" && incoming.SHA != "" && existing.SHA != incoming.SHA {
		mismatch = append(mismatch, "sha")
	}
	if existing.Protected != nil && incoming.Protected != nil && *existing.Protected != *incoming.Protected {
		mismatch = append(mismatch, "protected")
	}
	if len(mismatch) == 0 {
		return nil
	}
	kind := "branch"
	if isDefault {
		kind = "default branch"
	}
	return validationErrorf("Conflicting %s metadata for %s:%s (%s differs)",
		kind, key, existing.Name, strings.Join(mismatch, ", "))
}

// mergeBranchMetadata combines compatible duplicate definitions: fields set
// on the existing entry win, unset fields fill in from the incoming one.
func mergeBranchMetadata(existing, incoming Branch) Branch {
	merged := existing
	if merged.SHA == "" {
		merged.SHA = incoming.SHA
	}
	if merged.Protected == nil {
		merged.Protected = incoming.Protected
	}
	return merged
}

func (c *Config) validateIssues(repos map[repoKey]Repository) error {
	numbers := make(map[repoKey]map[int]struct{})
	for _, issue := range c.Issues {
		if err := requireText(issue.Owner, "Issue owner"); err != nil {
			return err
		}
		if err := requireText(issue.Repository, "Issue repository"); err != nil {
			return err
		}
		if err := requirePositive(issue.Number, "Issue number"); err != nil {
			return err
		}
		if err := requireText(issue.Title, "Issue title"); err != nil {
			return err
		}
		if err := requireState(issue.State, "Issue state"); err != nil {
			return err
		}
		if issue.Author != "" {
			if err := requireText(issue.Author, "Issue author"); err != nil {
				return err
			}
		}
		key := repoKey{Owner: issue.Owner, Name: issue.Repository}
		if _, ok := repos[key]; !ok {
			return validationErrorf("Issue refers to unknown repository %s", key)
		}
		seen := numbers[key]
		if seen == nil {
			seen = make(map[int]struct{})
			numbers[key] = seen
		}
		if _, dup := seen[issue.Number]; dup {
			return validationErrorf("Duplicate issue number %d for %s", issue.Number, key)
		}
		seen[issue.Number] = struct{}{}
	}
	return nil
}

func (c *Config) validatePullRequests(repos map[repoKey]Repository, branches *branchIndex) error {
	numbers := make(map[repoKey]map[int]struct{})
	for _, pr := range c.PullRequests {
		if err := requireText(pr.Owner, "Pull request owner"); err != nil {
			return err
		}
		if err := requireText(pr.Repository, "Pull request repository"); err != nil {
			return err
		}
		if err := requirePositive(pr.Number, "Pull request number"); err != nil {
			return err
		}
		if err := requireText(pr.Title, "Pull request title"); err != nil {
			return err
		}
		if err := requireState(pr.State, "Pull request state"); err != nil {
			return err
		}
		if pr.Author != "" {
			if err := requireText(pr.Author, "Pull request author"); err != nil {
				return err
			}
		}
		key := repoKey{Owner: pr.Owner, Name: pr.Repository}
		if _, ok := repos[key]; !ok {
			return validationErrorf("Pull request refers to unknown repository %s", key)
		}
		seen := numbers[key]
		if seen == nil {
			seen = make(map[int]struct{})
			numbers[key] = seen
		}
		if _, dup := seen[pr.Number]; dup {
			return validationErrorf("Duplicate pull request number %d for %s", pr.Number, key)
		}
		seen[pr.Number] = struct{}{}

		if err := validatePullRequestBranches(pr, key, branches); err != nil {
			return err
		}
	}
	return nil
}

func validatePullRequestBranches(pr PullRequest, key repoKey, branches *branchIndex) error {
	refs := []struct {
		label string
		name  string
	}{
		{"Pull request base branch", pr.BaseBranch},
		{"Pull request head branch", pr.HeadBranch},
	}
	group := branches.lookup(key)
	for _, ref := range refs {
		if ref.name == "" {
			continue
		}
		if err := requireText(ref.name, ref.label); err != nil {
			return err
		}
		if group == nil {
			return validationErrorf(
				"Pull request branch must reference a configured branch (missing %q for %s)",
				ref.name, key)
		}
		if _, ok := group.get(ref.name); !ok {
			return validationErrorf(
				"Pull request branch must reference a configured branch (missing %q for %s)",
				ref.name, key)
		}
	}
	return nil
}

func requireState(state, label string) error {
	switch state {
	case "", "open", "closed":
		return nil
	default:
		return validationErrorf(`%s must be "open" or "closed"`, label)
	}
}
