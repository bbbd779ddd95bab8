package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"simcat/internal/console"
	"simcat/internal/watch"
	"simcat/pkg/logging"
	"simcat/pkg/scenario"
	"simcat/pkg/simulator"

	"github.com/briandowns/spinner"
	"github.com/spf13/cobra"
)

var (
	runSimulator          string
	runStartTimeout       time.Duration
	runStopTimeout        time.Duration
	runWorkdir            string
	runKeepWorkdir        bool
	runRaw                bool
	runIncludeUnsupported bool
	runValues             []string
	runWatch              bool
	runInteractive        bool
)

// runCmd starts a simulator for a scenario and keeps it running until
// the user interrupts it.
var runCmd = &cobra.Command{
	Use:   "run [scenario]",
	Short: "Start a simulator for a scenario and keep it running",
	Long: `Start a GitHub API simulator for a scenario file and block until
interrupted. Without a scenario argument the simulator starts with an
empty dataset.

Once the simulator is listening the endpoint and the resolved auth
token are printed. With --watch the scenario is re-applied whenever the
file changes; with --interactive an inspection console is attached
instead of plain blocking.

Examples:
  simcat run
  simcat run scenario.yaml
  simcat run scenario.yaml --watch
  simcat run scenario.yaml --interactive
  simcat run github-sim-config.yaml --raw`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().StringVar(&runSimulator, "simulator", "", "Simulator executable (overrides $"+simulator.EnvExecutable+" and the PATH lookup)")
	runCmd.Flags().DurationVar(&runStartTimeout, "start-timeout", simulator.DefaultStartTimeout, "How long to wait for the simulator to announce its port")
	runCmd.Flags().DurationVar(&runStopTimeout, "stop-timeout", simulator.DefaultStopTimeout, "How long to wait for graceful shutdown before killing")
	runCmd.Flags().StringVar(&runWorkdir, "workdir", "", "Directory for the configuration file (implies keeping it after exit)")
	runCmd.Flags().BoolVar(&runKeepWorkdir, "keep-workdir", false, "Keep the generated work directory after the simulator stops")
	runCmd.Flags().BoolVar(&runRaw, "raw", false, "Treat the scenario file as a raw configuration document")
	runCmd.Flags().BoolVar(&runIncludeUnsupported, "include-unsupported", false, "Hand issues and pull requests to the simulator even though it does not serve them yet")
	runCmd.Flags().StringArrayVar(&runValues, "values", nil, "Template values as key=value (repeatable)")
	runCmd.Flags().BoolVar(&runWatch, "watch", false, "Restart the simulator when the scenario file changes")
	runCmd.Flags().BoolVar(&runInteractive, "interactive", false, "Attach an inspection console to the running simulator")
}

func runRun(cmd *cobra.Command, args []string) error {
	path := ""
	if len(args) == 1 {
		path = args[0]
	}

	if runRaw && path == "" {
		return fmt.Errorf("--raw requires a scenario file argument")
	}
	if runWatch && path == "" {
		return fmt.Errorf("--watch requires a scenario file argument")
	}
	if runWatch && runInteractive {
		return fmt.Errorf("--watch and --interactive cannot be combined")
	}

	values, err := parseValues(runValues)
	if err != nil {
		return err
	}
	if runRaw && len(values) > 0 {
		return fmt.Errorf("--values cannot be used with --raw")
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	// Stop the simulator on Ctrl+C or SIGTERM.
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)
	go func() {
		<-sigChan
		logging.Info("cli", "Received shutdown signal")
		cancel()
	}()

	// An explicit --workdir is the user's directory and is never removed.
	// With --keep-workdir the directory is created here instead of by the
	// instance, so teardown leaves it behind.
	workdir := runWorkdir
	if workdir == "" && runKeepWorkdir {
		dir, err := os.MkdirTemp("", "simcat-*")
		if err != nil {
			return fmt.Errorf("failed to create work directory: %w", err)
		}
		workdir = dir
	}

	doc, token, err := buildRunDocument(path, values)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	inst, err := startWithSpinner(ctx, doc, workdir)
	if err != nil {
		return err
	}
	printEndpoint(out, inst, token)

	if runWatch {
		err = superviseWatch(ctx, out, inst, path, values, workdir)
	} else {
		if runInteractive {
			err = console.New(inst, token).Run(ctx)
		} else {
			err = awaitShutdown(ctx, inst)
		}
		if stopErr := inst.Stop(); stopErr != nil && err == nil {
			err = stopErr
		}
	}

	if err != nil {
		return err
	}
	if workdir != "" {
		fmt.Fprintf(out, "Work directory kept at %s\n", workdir)
	}
	fmt.Fprintln(out, "Simulator stopped.")
	return nil
}

// buildRunDocument resolves the scenario into the document handed to the
// simulator plus the auth token clients should present.
func buildRunDocument(path string, values map[string]string) (scenario.Document, string, error) {
	if path == "" {
		return scenario.EmptyDocument(), "", nil
	}
	if runRaw {
		doc, err := scenario.LoadDocumentFile(path)
		return doc, "", err
	}

	cfg, err := loadScenario(path, values)
	if err != nil {
		return nil, "", err
	}
	doc, err := cfg.ToSimulatorConfig(runIncludeUnsupported)
	if err != nil {
		return nil, "", err
	}
	token, _, err := cfg.ResolveAuthToken()
	if err != nil {
		return nil, "", err
	}
	return doc, token, nil
}

// startWithSpinner launches the simulator while showing startup progress.
func startWithSpinner(ctx context.Context, doc scenario.Document, workdir string) (*simulator.Instance, error) {
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	s.Suffix = " Starting simulator..."
	s.Start()
	inst, err := simulator.Start(ctx, doc, simulator.Options{
		Executable:   runSimulator,
		Workdir:      workdir,
		StartTimeout: runStartTimeout,
		StopTimeout:  runStopTimeout,
	})
	s.Stop()
	return inst, err
}

func printEndpoint(out io.Writer, inst *simulator.Instance, token string) {
	fmt.Fprintf(out, "Simulator %s ready.\n", inst.ID)
	fmt.Fprintf(out, "  Endpoint: %s\n", inst.BaseURL)
	if token != "" {
		fmt.Fprintf(out, "  Token:    %s\n", token)
	} else {
		fmt.Fprintf(out, "  Token:    none (scenario defines no tokens)\n")
	}
	fmt.Fprintf(out, "  Config:   %s\n", inst.ConfigPath)
	fmt.Fprintln(out, "Press Ctrl+C to stop.")
}

// awaitShutdown blocks until the context is canceled or the simulator
// exits on its own, which is reported as an error.
func awaitShutdown(ctx context.Context, inst *simulator.Instance) error {
	waitCh := watchInstance(inst)
	select {
	case <-ctx.Done():
		return nil
	case exitErr := <-waitCh:
		msg := "simulator exited unexpectedly"
		if exitErr != nil {
			msg = fmt.Sprintf("simulator exited unexpectedly: %v", exitErr)
		}
		if stderr := inst.Logs().Stderr; stderr != "" {
			msg += "\nOutput:\n" + stderr
		}
		return errors.New(msg)
	}
}

// watchInstance reports the process exit on a channel so it can be
// raced against other events in a select.
func watchInstance(inst *simulator.Instance) <-chan error {
	ch := make(chan error, 1)
	go func() { ch <- inst.Wait() }()
	return ch
}

// superviseWatch re-applies the scenario whenever the file changes:
// stop the current simulator, revalidate the file, start a fresh one.
// When the changed file is invalid or the restart fails, the error is
// reported and the watcher waits for the next change. The instance
// live at return time is stopped before returning.
func superviseWatch(ctx context.Context, out io.Writer, inst *simulator.Instance, path string, values map[string]string, workdir string) error {
	reloadCh := make(chan struct{}, 1)
	watcher, err := watch.NewWatcher(watch.Config{
		Paths: []string{path},
		OnChange: func() {
			select {
			case reloadCh <- struct{}{}:
			default:
			}
		},
	})
	if err != nil {
		_ = inst.Stop()
		return err
	}
	if err := watcher.Start(); err != nil {
		_ = inst.Stop()
		return err
	}
	defer watcher.Stop()

	fmt.Fprintf(out, "Watching %s for changes.\n", path)

	waitCh := watchInstance(inst)
	reloads := 0

	for {
		select {
		case <-ctx.Done():
			return inst.Stop()

		case exitErr := <-waitCh:
			// The simulator died without a file change. Keep watching so
			// the next edit brings it back.
			logging.Error("watch", exitErr, "Simulator exited unexpectedly, waiting for the next change")
			fmt.Fprintln(out, "Simulator exited unexpectedly. Waiting for the next change...")
			_ = inst.Stop()
			inst = nil
			waitCh = nil

		case <-reloadCh:
			reloads++
			logging.Info("watch", "Change detected in %s (reload %d)", path, reloads)
			fmt.Fprintf(out, "Change detected in %s, restarting...\n", path)

			if err := inst.Stop(); err != nil {
				logging.Warn("watch", "Failed to stop simulator cleanly: %v", err)
			}
			inst = nil
			waitCh = nil

			doc, token, err := buildRunDocument(path, values)
			if err != nil {
				logging.Error("watch", err, "Scenario is invalid after change")
				fmt.Fprintf(out, "Scenario is invalid: %v\nWaiting for the next change...\n", err)
				continue
			}

			next, err := startWithSpinner(ctx, doc, workdir)
			if err != nil {
				logging.Error("watch", err, "Failed to restart simulator")
				fmt.Fprintf(out, "Restart failed: %v\nWaiting for the next change...\n", err)
				continue
			}
			inst = next
			waitCh = watchInstance(inst)
			printEndpoint(out, inst, token)
		}
	}
}
