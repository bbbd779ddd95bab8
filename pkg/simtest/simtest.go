// Package simtest runs scenarios against a live simulator inside Go
// tests.
//
// Start brings up one simulator per call, bound to the test's lifetime:
//
//	func TestRepositoryLookup(t *testing.T) {
//		sim := simtest.Start(t, scenario.SingleRepo("octocat"))
//
//		repo, _, err := sim.Client.Repositories.Get(ctx, "octocat", "repo")
//		...
//	}
//
// The instance is stopped through t.Cleanup; when the test fails, the
// captured simulator output is attached to the test log.
package simtest

import (
	"context"
	"testing"
	"time"

	"github.com/google/go-github/v74/github"

	"simcat/pkg/ghclient"
	"simcat/pkg/scenario"
	"simcat/pkg/simulator"
)

// Sim bundles a running simulator instance with a client bound to it.
type Sim struct {
	Instance *simulator.Instance
	Client   *github.Client
	BaseURL  string
	Token    string
}

type options struct {
	doc                scenario.Document
	executable         string
	startTimeout       time.Duration
	stopTimeout        time.Duration
	includeUnsupported bool
}

// Option adjusts how Start brings up the simulator.
type Option func(*options)

// WithDocument starts from a raw simulator document instead of a typed
// scenario config. No token is resolved for raw documents.
func WithDocument(doc scenario.Document) Option {
	return func(o *options) { o.doc = doc }
}

// WithExecutable overrides simulator executable resolution.
func WithExecutable(path string) Option {
	return func(o *options) { o.executable = path }
}

// WithStartTimeout bounds the wait for the simulator's listening event.
func WithStartTimeout(d time.Duration) Option {
	return func(o *options) { o.startTimeout = d }
}

// WithStopTimeout bounds graceful shutdown during test cleanup.
func WithStopTimeout(d time.Duration) Option {
	return func(o *options) { o.stopTimeout = d }
}

// WithIncludeUnsupported serializes issues and pull requests into the
// simulator document.
func WithIncludeUnsupported() Option {
	return func(o *options) { o.includeUnsupported = true }
}

// Start brings up a simulator for cfg and registers its teardown with
// t.Cleanup. A nil cfg starts an empty scenario. Startup failures fail
// the test with the captured simulator output.
func Start(t *testing.T, cfg *scenario.Config, opts ...Option) *Sim {
	t.Helper()

	var o options
	for _, opt := range opts {
		opt(&o)
	}

	doc, token := buildDocument(t, cfg, o)

	inst, err := simulator.Start(context.Background(), doc, simulator.Options{
		Executable:   o.executable,
		Workdir:      t.TempDir(),
		StartTimeout: o.startTimeout,
		StopTimeout:  o.stopTimeout,
	})
	if err != nil {
		t.Fatalf("failed to start simulator: %v", err)
	}

	t.Cleanup(func() {
		if t.Failed() {
			if logs := inst.Logs(); logs.Combined != "" {
				t.Logf("simulator output for %s:\n%s", inst.ID, logs.Combined)
			}
		}
		if err := inst.Stop(); err != nil {
			t.Errorf("failed to stop simulator: %v", err)
		}
	})

	client, err := ghclient.New(context.Background(), inst.BaseURL, token)
	if err != nil {
		t.Fatalf("failed to build simulator client: %v", err)
	}

	return &Sim{
		Instance: inst,
		Client:   client,
		BaseURL:  inst.BaseURL,
		Token:    token,
	}
}

// buildDocument renders the simulator document and resolves the fixture's
// auth token.
func buildDocument(t *testing.T, cfg *scenario.Config, o options) (scenario.Document, string) {
	t.Helper()

	if o.doc != nil {
		doc, err := scenario.CoerceDocument(o.doc)
		if err != nil {
			t.Fatalf("invalid simulator document: %v", err)
		}
		return doc, ""
	}

	if cfg == nil {
		return scenario.EmptyDocument(), ""
	}

	doc, err := cfg.ToSimulatorConfig(o.includeUnsupported)
	if err != nil {
		t.Fatalf("invalid scenario: %v", err)
	}
	token, _, err := cfg.ResolveAuthToken()
	if err != nil {
		t.Fatalf("failed to resolve scenario token: %v", err)
	}
	return doc, token
}
