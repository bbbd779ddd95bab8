package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"simcat/internal/formatting"
	"simcat/pkg/scenario"
	"simcat/pkg/simulator"

	"github.com/spf13/cobra"
)

var (
	doctorSimulator string
	doctorProbe     bool
)

// doctorCmd reports whether this machine can run simulators.
var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check the local simulator setup",
	Long: `Check whether this machine can run simulators: report how the
simulator executable resolves, verify a work directory can be created,
and optionally start and stop an empty simulator end to end.

Examples:
  simcat doctor
  simcat doctor --probe
  simcat doctor --simulator ./bin/github-sim --probe`,
	Args: cobra.NoArgs,
	RunE: runDoctor,
}

func init() {
	rootCmd.AddCommand(doctorCmd)
	doctorCmd.Flags().StringVar(&doctorSimulator, "simulator", "", "Simulator executable (overrides $"+simulator.EnvExecutable+" and the PATH lookup)")
	doctorCmd.Flags().BoolVar(&doctorProbe, "probe", false, "Start and stop an empty simulator end to end")
}

func runDoctor(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	report := formatting.NewTable(out, "CHECK", "STATUS", "DETAIL")
	failures := 0

	// Resolution order: --simulator, $SIMCAT_SIMULATOR, then PATH.
	if doctorSimulator != "" {
		report.AddRow("--simulator", formatting.StatusOK("set"), doctorSimulator)
	} else {
		report.AddRow("--simulator", formatting.StatusMuted("not set"), "")
	}
	if env := os.Getenv(simulator.EnvExecutable); env != "" {
		report.AddRow("$"+simulator.EnvExecutable, formatting.StatusOK("set"), env)
	} else {
		report.AddRow("$"+simulator.EnvExecutable, formatting.StatusMuted("not set"), "")
	}

	execPath, err := simulator.ResolveExecutable(doctorSimulator)
	if err != nil {
		failures++
		report.AddRow("executable", formatting.StatusFailed("FAILED"), formatting.Truncate(err.Error(), maxDetailWidth))
	} else {
		report.AddRow("executable", formatting.StatusOK("OK"), execPath)
	}

	if dir, err := probeWorkdir(); err != nil {
		failures++
		report.AddRow("work directory", formatting.StatusFailed("FAILED"), formatting.Truncate(err.Error(), maxDetailWidth))
	} else {
		report.AddRow("work directory", formatting.StatusOK("OK"), dir)
	}

	if doctorProbe {
		if detail, err := probeSimulator(cmd.Context()); err != nil {
			failures++
			report.AddRow("probe", formatting.StatusFailed("FAILED"), formatting.Truncate(err.Error(), maxDetailWidth))
		} else {
			report.AddRow("probe", formatting.StatusOK("OK"), detail)
		}
	}

	report.Render()

	if failures > 0 {
		return fmt.Errorf("doctor found %d problem(s)", failures)
	}
	fmt.Fprintln(out, "No problems found.")
	return nil
}

// probeWorkdir verifies a work directory can be created and written to.
func probeWorkdir() (string, error) {
	dir, err := os.MkdirTemp("", "simcat-doctor-*")
	if err != nil {
		return "", err
	}
	defer os.RemoveAll(dir)
	if err := os.WriteFile(filepath.Join(dir, simulator.ConfigFileName), []byte("{}"), 0o644); err != nil {
		return "", err
	}
	return os.TempDir(), nil
}

// probeSimulator starts a simulator with an empty dataset and stops it
// again, proving the executable works end to end.
func probeSimulator(ctx context.Context) (string, error) {
	inst, err := simulator.Start(ctx, scenario.EmptyDocument(), simulator.Options{
		Executable: doctorSimulator,
	})
	if err != nil {
		return "", err
	}
	port := inst.Port
	if err := inst.Stop(); err != nil {
		return "", err
	}
	return fmt.Sprintf("listened on port %d", port), nil
}
