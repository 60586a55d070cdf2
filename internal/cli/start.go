package cli

import (
	"fmt"

	"github.com/RevCBH/osrmctl/internal/lifecycle"
	"github.com/RevCBH/osrmctl/internal/pipeline"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// StartOptions holds flags for the start command
type StartOptions struct {
	Port int // Host port override, 0 keeps the configured port
}

// NewStartCmd creates the start command
func NewStartCmd(app *App) *cobra.Command {
	opts := StartOptions{}

	cmd := &cobra.Command{
		Use:   "start",
		Short: "Create or start the managed OSRM container",
		Long: `Start makes sure the managed OSRM container is running.

If no container is recorded yet, one is created from the configured image
with the data directory mounted and the routing port published, and its id
is saved in the state file. A stopped container is started again. A running
container is left alone.

Examples:
  osrmctl start
  osrmctl start --port 5001`,
		Args: noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.Start(cmd, opts)
		},
	}

	cmd.Flags().IntVar(&opts.Port, "port", 0, "Host port to publish (only used when creating)")

	return cmd
}

// Start brings the managed container to the running state
func (a *App) Start(cmd *cobra.Command, opts StartOptions) error {
	if cmd.Flags().Changed("port") {
		if opts.Port < 1 || opts.Port > 65535 {
			return fmt.Errorf("%w: --port must be between 1 and 65535 (got %d)",
				pipeline.ErrInvalidArgument, opts.Port)
		}
		a.env.Config.Container.Port = opts.Port
	}

	lm, err := a.lifecycle()
	if err != nil {
		return err
	}

	result, err := lm.EnsureStarted(cmd.Context())
	if err != nil {
		return err
	}

	a.env.Logger.Debug("start finished",
		zap.String("container", string(result.ID)),
		zap.String("action", string(result.Action)))

	out := cmd.OutOrStdout()
	switch result.Action {
	case lifecycle.ActionCreated:
		fmt.Fprintf(out, "Created and started container %s\n", result.ID)
	case lifecycle.ActionStarted:
		fmt.Fprintf(out, "Started container %s\n", result.ID)
	default:
		fmt.Fprintf(out, "Container %s is already running\n", result.ID)
	}
	return nil
}
