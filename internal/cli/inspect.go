package cli

import (
	"fmt"

	"github.com/RevCBH/osrmctl/internal/pipeline"
	"github.com/spf13/cobra"
)

// NewInspectCmd creates the inspect command
func NewInspectCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect FILE.osm.pbf",
		Short: "Show the header of an OpenStreetMap PBF file",
		Long: `Inspect reads the header block of FILE.osm.pbf and prints its bounding box,
writing program and replication timestamp. No container is needed.`,
		Args: fileArg,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.Inspect(cmd, args[0])
		},
	}

	return cmd
}

// Inspect prints the PBF header of file
func (a *App) Inspect(cmd *cobra.Command, file string) error {
	info, err := pipeline.InspectPBF(cmd.Context(), file)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprint(out, FormatPBFInfo(info, displayConfigFor(out)))
	return nil
}
