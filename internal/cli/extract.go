package cli

import (
	"fmt"

	"github.com/RevCBH/osrmctl/internal/pipeline"
	"github.com/spf13/cobra"
)

// NewExtractCmd creates the extract command
func NewExtractCmd(app *App) *cobra.Command {
	opts := pipeline.ExtractOptions{Vehicle: pipeline.DefaultVehicle}

	cmd := &cobra.Command{
		Use:   "extract [--vehicle car|foot|bicycle] FILE.osm.pbf",
		Short: "Run osrm-extract on an OpenStreetMap extract",
		Long: `Extract copies FILE.osm.pbf into the data directory when the local copy is
newer, then runs osrm-extract inside the managed container with the chosen
vehicle profile. The result is FILE.osrm in the data directory.

Examples:
  osrmctl extract monaco-latest.osm.pbf
  osrmctl extract --vehicle bicycle ~/Downloads/berlin.osm.pbf`,
		Args: fileArg,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.File = args[0]
			return app.Extract(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Vehicle, "vehicle", pipeline.DefaultVehicle, "Routing profile: car, foot or bicycle")

	return cmd
}

// Extract validates the options and runs the extraction stage
func (a *App) Extract(cmd *cobra.Command, opts pipeline.ExtractOptions) error {
	if err := opts.Validate(); err != nil {
		return err
	}

	p, err := a.pipeline()
	if err != nil {
		return err
	}
	if err := p.Extract(cmd.Context(), opts); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Extracted %s\n", pipeline.DatasetName(opts.File))
	return nil
}
