package cli

import (
	"fmt"

	"github.com/RevCBH/osrmctl/internal/pipeline"
	"github.com/spf13/cobra"
)

// NewPreprocessCmd creates the preprocess command
func NewPreprocessCmd(app *App) *cobra.Command {
	opts := pipeline.ExtractOptions{Vehicle: pipeline.DefaultVehicle}

	cmd := &cobra.Command{
		Use:   "preprocess [--vehicle car|foot|bicycle] FILE.osm.pbf",
		Short: "Run extract, partition and customize in one go",
		Long: `Preprocess runs extract on FILE.osm.pbf, then partition and customize on
the resulting FILE.osrm. It stops at the first step that fails.

Examples:
  osrmctl preprocess monaco-latest.osm.pbf
  osrmctl preprocess --vehicle foot monaco-latest.osm.pbf`,
		Args: fileArg,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.File = args[0]
			return app.Preprocess(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Vehicle, "vehicle", pipeline.DefaultVehicle, "Routing profile: car, foot or bicycle")

	return cmd
}

// Preprocess validates the options and runs the three preparation stages
func (a *App) Preprocess(cmd *cobra.Command, opts pipeline.ExtractOptions) error {
	if err := opts.Validate(); err != nil {
		return err
	}

	p, err := a.pipeline()
	if err != nil {
		return err
	}
	if err := p.Preprocess(cmd.Context(), opts); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Prepared %s\n", pipeline.DatasetName(opts.File))
	return nil
}
