package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/RevCBH/osrmctl/internal/config"
	"github.com/RevCBH/osrmctl/internal/container"
	"github.com/RevCBH/osrmctl/internal/pipeline"
	"github.com/spf13/cobra"
)

// annotationSkipConfig marks commands that run without OSRM_HOME.
const annotationSkipConfig = "osrmctl/skip-config"

// App represents the CLI application with all wired dependencies
type App struct {
	// Root command
	rootCmd *cobra.Command

	// Runtime state
	verbose bool
	env     *Env
	signals *SignalHandler

	// Version information
	versionInfo VersionInfo

	// Overridable for tests
	loadConfig func() (*config.Config, error)
	newRuntime func(cfg *config.Config) (container.Manager, error)
}

// VersionInfo is set at build time via ldflags.
type VersionInfo struct {
	Version string
	Commit  string
	Date    string
}

// New creates a new CLI application
func New() *App {
	app := &App{
		loadConfig: config.Load,
		newRuntime: defaultRuntime,
	}
	app.setupRootCmd()
	return app
}

// Execute runs the CLI application. SIGINT and SIGTERM cancel the running
// runtime call.
func (a *App) Execute() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a.signals = NewSignalHandler(cancel)
	a.signals.Start()
	defer a.signals.Stop()

	return a.ExecuteContext(ctx)
}

// ExecuteContext runs the CLI with ctx. Argument errors print the usage of
// the command that rejected them.
func (a *App) ExecuteContext(ctx context.Context) error {
	cmd, err := a.rootCmd.ExecuteContextC(ctx)
	if err != nil && isUsageError(err) {
		fmt.Fprint(cmd.ErrOrStderr(), cmd.UsageString())
	}
	if a.env != nil {
		_ = a.env.Logger.Sync()
	}
	return err
}

// SetArgs overrides os.Args[1:]. Intended for tests.
func (a *App) SetArgs(args []string) {
	a.rootCmd.SetArgs(args)
}

// SetOutput redirects command output. Intended for tests.
func (a *App) SetOutput(stdout, stderr io.Writer) {
	a.rootCmd.SetOut(stdout)
	a.rootCmd.SetErr(stderr)
}

// SetVersion sets the version string for the version command
func (a *App) SetVersion(version, commit, date string) {
	a.versionInfo = VersionInfo{Version: version, Commit: commit, Date: date}
}

func isUsageError(err error) bool {
	return errors.Is(err, pipeline.ErrInvalidArgument) || errors.Is(err, pipeline.ErrInvalidFileExtension)
}

// setupRootCmd configures the root Cobra command
func (a *App) setupRootCmd() {
	a.rootCmd = &cobra.Command{
		Use:   "osrmctl",
		Short: "Manage a containerized OSRM routing engine",
		Long: `osrmctl manages a single long-lived OSRM backend container and runs
osrm-extract, osrm-partition, osrm-customize and osrm-routed inside it.

Set OSRM_HOME to the directory that holds the data/ directory and the
container state file. Run "osrmctl start" once before any other stage.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if skipsConfig(cmd) {
				return nil
			}
			return a.setupEnv()
		},
	}

	// Add persistent flags
	a.rootCmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false,
		"Verbose output")

	a.rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return fmt.Errorf("%w: %w", pipeline.ErrInvalidArgument, err)
	})

	a.rootCmd.AddCommand(
		NewStartCmd(a),
		NewStopCmd(a),
		NewStatusCmd(a),
		NewCleanDataCmd(a),
		NewExtractCmd(a),
		NewPartitionCmd(a),
		NewCustomizeCmd(a),
		NewPreprocessCmd(a),
		NewRoutedCmd(a),
		NewInspectCmd(a),
		NewConfigCmd(a),
		NewVersionCmd(a),
	)
}

// skipsConfig reports whether cmd runs without loading configuration. Help
// and shell completion never need OSRM_HOME.
func skipsConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations[annotationSkipConfig] == "true" {
			return true
		}
		switch c.Name() {
		case "help", "completion", cobra.ShellCompRequestCmd, cobra.ShellCompNoDescRequestCmd:
			return true
		}
	}
	return false
}

// fileArg accepts exactly one positional FILE argument.
func fileArg(cmd *cobra.Command, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: %s expects exactly one FILE argument, got %d",
			pipeline.ErrInvalidArgument, cmd.Name(), len(args))
	}
	return nil
}

// noArgs rejects positional arguments.
func noArgs(cmd *cobra.Command, args []string) error {
	if len(args) != 0 {
		return fmt.Errorf("%w: %s takes no arguments, got %q",
			pipeline.ErrInvalidArgument, cmd.Name(), args)
	}
	return nil
}
