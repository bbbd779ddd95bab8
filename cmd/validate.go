package cmd

import (
	"fmt"

	"simcat/internal/formatting"
	"simcat/pkg/scenario"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// validateConcurrency bounds how many scenario files are checked in parallel.
const validateConcurrency = 4

// maxDetailWidth bounds the DETAIL column so one broken file cannot
// flood the report.
const maxDetailWidth = 120

var (
	validateValues  []string
	validateSummary bool
)

// validateCmd checks scenario files against the schema and the
// consistency rules without starting a simulator.
var validateCmd = &cobra.Command{
	Use:   "validate <scenario>...",
	Short: "Validate scenario files",
	Long: `Validate one or more scenario files.

Each file is schema-checked, strictly decoded and run through the full
consistency rules (owner references, branch targets, token pools). The
command reports every file and fails if any of them is invalid.

Examples:
  simcat validate scenario.yaml
  simcat validate scenarios/*.yaml --summary
  simcat validate ci.yaml.tmpl --values owner=octocat --values repo=widgets`,
	Args: cobra.MinimumNArgs(1),
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
	validateCmd.Flags().StringArrayVar(&validateValues, "values", nil, "Template values as key=value (repeatable)")
	validateCmd.Flags().BoolVar(&validateSummary, "summary", false, "Print a per-file entity count table")
}

type validateResult struct {
	path string
	cfg  *scenario.Config
	err  error
}

func runValidate(cmd *cobra.Command, args []string) error {
	values, err := parseValues(validateValues)
	if err != nil {
		return err
	}

	results := make([]validateResult, len(args))
	g := new(errgroup.Group)
	g.SetLimit(validateConcurrency)
	for i, path := range args {
		g.Go(func() error {
			cfg, err := loadScenario(path, values)
			results[i] = validateResult{path: path, cfg: cfg, err: err}
			return nil
		})
	}
	// Workers only record results, they never return errors themselves.
	_ = g.Wait()

	out := cmd.OutOrStdout()
	report := formatting.NewTable(out, "FILE", "STATUS", "DETAIL")
	failed := 0
	var firstErr error
	for _, res := range results {
		if res.err != nil {
			failed++
			if firstErr == nil {
				firstErr = res.err
			}
			report.AddRow(res.path, formatting.StatusFailed("FAILED"), formatting.Truncate(res.err.Error(), maxDetailWidth))
			continue
		}
		report.AddRow(res.path, formatting.StatusOK("OK"), fmt.Sprintf("%d entities", res.cfg.EntityCount()))
	}
	report.Render()

	if validateSummary {
		fmt.Fprintln(out)
		summary := formatting.NewTable(out, "FILE", "USERS", "ORGS", "REPOS", "BRANCHES", "ISSUES", "PRS", "TOKENS", "APPS", "INSTALLATIONS", "TOTAL")
		for _, res := range results {
			if res.err != nil {
				continue
			}
			cfg := res.cfg
			summary.AddRow(res.path,
				len(cfg.Users), len(cfg.Organizations), len(cfg.Repositories),
				len(cfg.Branches), len(cfg.Issues), len(cfg.PullRequests),
				len(cfg.Tokens), len(cfg.Apps), len(cfg.AppInstallations),
				cfg.EntityCount())
		}
		summary.Render()
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d scenario files failed validation: %w", failed, len(args), firstErr)
	}
	return nil
}
