package cmd

import (
	"errors"
	"os"

	"simcat/pkg/logging"
	"simcat/pkg/scenario"
	"simcat/pkg/simulator"

	"github.com/spf13/cobra"
)

// Exit codes for CLI commands.
// These follow common conventions so scripts can distinguish failure modes.
const (
	// ExitCodeSuccess indicates successful execution.
	ExitCodeSuccess = 0
	// ExitCodeError indicates a general error (command failed, invalid arguments).
	ExitCodeError = 1
	// ExitCodeValidation indicates a scenario file failed schema or consistency checks.
	ExitCodeValidation = 2
	// ExitCodeStartup indicates the simulator process could not be started.
	ExitCodeStartup = 3
)

var rootLogLevel string

// rootCmd represents the base command for the simcat application.
// It is the entry point when the application is called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "simcat",
	Short: "Build GitHub scenarios and drive the API simulator",
	Long: `simcat turns declarative scenario files into GitHub API simulator
configuration and manages simulator processes: validate scenarios,
render the configuration they produce, or run a simulator against them
for integration tests and local exploration.`,
	// SilenceUsage prevents Cobra from printing the usage message on errors
	// that are handled by the application.
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level, err := logging.ParseLevel(rootLogLevel)
		if err != nil {
			return err
		}
		// Logs go to stderr. Commands like render, schema and mcp emit
		// machine-readable output on stdout.
		logging.InitForCLI(level, cmd.ErrOrStderr())
		return nil
	},
}

// SetVersion sets the version for the root command.
// This function is typically called from the main package to inject the application version at build time.
func SetVersion(v string) {
	rootCmd.Version = v
}

// GetVersion returns the current version of the application.
// This can be used by other commands to access the build version.
func GetVersion() string {
	return rootCmd.Version
}

// Execute is the main entry point for the CLI application.
// It initializes and executes the root command, which in turn handles subcommands and flags.
// This function is called by main.main().
func Execute() {
	// SetVersionTemplate defines a custom template for displaying the version.
	// This is used when the --version flag is invoked.
	rootCmd.SetVersionTemplate(`{{printf "simcat version %s\n" .Version}}`)

	err := rootCmd.Execute()
	if err != nil {
		exitCode := getExitCode(err)
		os.Exit(exitCode)
	}
}

// getExitCode determines the appropriate exit code based on the error type.
// This provides semantic exit codes for scripting and automation.
func getExitCode(err error) int {
	var validationErr *scenario.ValidationError
	if errors.As(err, &validationErr) {
		return ExitCodeValidation
	}

	var mergeErr *scenario.MergeConflictError
	if errors.As(err, &mergeErr) {
		return ExitCodeValidation
	}

	var startErr *simulator.StartError
	if errors.As(err, &startErr) {
		return ExitCodeStartup
	}
	if errors.Is(err, simulator.ErrExecutableNotFound) {
		return ExitCodeStartup
	}

	// Default to general error
	return ExitCodeError
}

// init is a special Go function that is executed when the package is initialized.
// It is used here to add subcommands to the root command.
func init() {
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newSelfUpdateCmd())

	rootCmd.PersistentFlags().StringVar(&rootLogLevel, "log-level", "info", "Log level (debug, info, warn, error)")
}
