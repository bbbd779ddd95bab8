package scenario

import "slices"

// ResolveAuthToken returns the token value the client should use for
// Authorization headers. The candidate pool is built in declaration order:
// standalone token values first, then installation-embedded values. The
// returned bool reports whether a token is configured at all.
//
// An empty pool resolves to no token. A pool with exactly one distinct
// value auto-selects it regardless of DefaultToken. A larger pool requires
// DefaultToken to match one of the pool values; otherwise resolution fails
// with a *ValidationError, because silently picking one would produce
// confusing test failures against a backend that never checks tokens.
func (c *Config) ResolveAuthToken() (string, bool, error) {
	pool := c.tokenPool()
	if len(pool) == 0 {
		return "", false, nil
	}
	distinct := distinctStrings(pool)
	if len(distinct) == 1 {
		return distinct[0], true, nil
	}
	if c.DefaultToken == "" {
		return "", false, validationErrorf("Multiple tokens configured but no default_token set")
	}
	if !slices.Contains(distinct, c.DefaultToken) {
		return "", false, validationErrorf("Default token must match one of the configured tokens")
	}
	return c.DefaultToken, true, nil
}

func (c *Config) tokenPool() []string {
	pool := make([]string, 0, len(c.Tokens)+len(c.AppInstallations))
	for _, token := range c.Tokens {
		pool = append(pool, token.Value)
	}
	for _, inst := range c.AppInstallations {
		if inst.AccessToken != "" {
			pool = append(pool, inst.AccessToken)
		}
	}
	return pool
}

func distinctStrings(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	var distinct []string
	for _, value := range values {
		if _, dup := seen[value]; dup {
			continue
		}
		seen[value] = struct{}{}
		distinct = append(distinct, value)
	}
	return distinct
}
