package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewStopCmd creates the stop command
func NewStopCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stop",
		Short: "Stop the managed OSRM container",
		Long: `Stop stops the managed container. The container and its id are kept so
"osrmctl start" can resume it.`,
		Args: noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.Stop(cmd)
		},
	}

	return cmd
}

// Stop stops the managed container
func (a *App) Stop(cmd *cobra.Command) error {
	lm, err := a.lifecycle()
	if err != nil {
		return err
	}

	id, err := lm.Stop(cmd.Context())
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Stopped container %s\n", id)
	return nil
}
