package scenario

// ToSimulatorConfig validates the configuration and serializes it into the
// document shape the simulator consumes. The five required top-level arrays
// (users, organizations, repositories, branches, blobs) are always present;
// issues and pull_requests are emitted, and validated, only when
// includeUnsupported is true, because simulator support for them varies.
//
// Tokens, apps, and app installations are never emitted: the simulator does
// not enforce authentication, so they stay client-side metadata.
// Serialization is pure and deterministic and performs no I/O.
func (c *Config) ToSimulatorConfig(includeUnsupported bool) (Document, error) {
	ix, err := c.buildIndexes()
	if err != nil {
		return nil, err
	}
	if includeUnsupported {
		if err := c.validateIssues(ix.repos); err != nil {
			return nil, err
		}
		if err := c.validatePullRequests(ix.repos, ix.branches); err != nil {
			return nil, err
		}
	}

	users := make([]any, 0, len(c.Users))
	for _, user := range c.Users {
		users = append(users, user.wire())
	}
	organizations := make([]any, 0, len(c.Organizations))
	for _, org := range c.Organizations {
		organizations = append(organizations, org.wire())
	}
	repositories := make([]any, 0, len(c.Repositories))
	for _, repo := range c.Repositories {
		repositories = append(repositories, repo.wire())
	}
	merged := ix.branches.all()
	branches := make([]any, 0, len(merged))
	for _, branch := range merged {
		branches = append(branches, branch.wire())
	}

	doc := Document{
		"users":         users,
		"organizations": organizations,
		"repositories":  repositories,
		"branches":      branches,
		"blobs":         []any{},
	}

	if includeUnsupported {
		issues := make([]any, 0, len(c.Issues))
		for _, issue := range c.Issues {
			issues = append(issues, issue.wire())
		}
		pullRequests := make([]any, 0, len(c.PullRequests))
		for _, pr := range c.PullRequests {
			pullRequests = append(pullRequests, pr.wire())
		}
		doc["issues"] = issues
		doc["pull_requests"] = pullRequests
	}

	return doc, nil
}

func (u User) wire() map[string]any {
	record := map[string]any{
		"login":         u.Login,
		"organizations": wireStringList(u.Organizations),
	}
	if u.Name != "" {
		record["name"] = u.Name
	}
	if u.Bio != "" {
		record["bio"] = u.Bio
	}
	if u.Email != "" {
		record["email"] = u.Email
	}
	if u.ID != 0 {
		record["id"] = u.ID
	}
	return record
}

func (o Organization) wire() map[string]any {
	record := map[string]any{
		"login": o.Login,
	}
	if o.Name != "" {
		record["name"] = o.Name
	}
	if o.Description != "" {
		record["description"] = o.Description
	}
	if o.Email != "" {
		record["email"] = o.Email
	}
	if o.ID != 0 {
		record["id"] = o.ID
	}
	return record
}

func (r Repository) wire() map[string]any {
	record := map[string]any{
		"owner":   r.Owner,
		"name":    r.Name,
		"private": r.Private,
	}
	if r.Description != "" {
		record["description"] = r.Description
	}
	if r.ID != 0 {
		record["id"] = r.ID
	}
	if r.DefaultBranch != nil {
		record["default_branch"] = r.DefaultBranch.Name
	}
	return record
}

func (b Branch) wire() map[string]any {
	record := map[string]any{
		"owner":      b.Owner,
		"repository": b.Repository,
		"name":       b.Name,
	}
	if b.Protected != nil {
		record["protected"] = *b.Protected
	}
	if b.SHA != "" {
		record["sha"] = b.SHA
	}
	return record
}

func (i Issue) wire() map[string]any {
	record := map[string]any{
		"owner":      i.Owner,
		"repository": i.Repository,
		"number":     i.Number,
		"title":      i.Title,
		"state":      stateOrDefault(i.State),
	}
	if i.Body != "" {
		record["body"] = i.Body
	}
	if i.Author != "" {
		record["user"] = map[string]any{"login": i.Author}
	}
	return record
}

func (p PullRequest) wire() map[string]any {
	record := map[string]any{
		"owner":      p.Owner,
		"repository": p.Repository,
		"number":     p.Number,
		"title":      p.Title,
		"state":      stateOrDefault(p.State),
	}
	if p.Body != "" {
		record["body"] = p.Body
	}
	if p.Author != "" {
		record["user"] = map[string]any{"login": p.Author}
	}
	if p.BaseBranch != "" {
		record["base"] = map[string]any{"ref": p.BaseBranch}
	}
	if p.HeadBranch != "" {
		record["head"] = map[string]any{"ref": p.HeadBranch}
	}
	if p.Draft {
		record["draft"] = true
	}
	return record
}

// wireStringList keeps declared collections as JSON arrays even when empty.
func wireStringList(values []string) []string {
	out := make([]string, len(values))
	copy(out, values)
	return out
}
