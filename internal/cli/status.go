package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewStatusCmd creates the status command
func NewStatusCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the managed container and its state",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.Status(cmd)
		},
	}

	return cmd
}

// Status prints the home and data directories, the recorded container id
// and whether it is running
func (a *App) Status(cmd *cobra.Command) error {
	lm, err := a.lifecycle()
	if err != nil {
		return err
	}

	status, err := lm.Status(cmd.Context())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	display := displayConfigFor(out)
	fmt.Fprint(out, FormatField("home", a.env.Config.Home, display))
	fmt.Fprint(out, FormatField("data", a.env.Config.DataDir, display))
	fmt.Fprint(out, FormatStatus(status, a.env.Store.Path(), display))
	return nil
}
