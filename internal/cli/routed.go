package cli

import (
	"fmt"

	"github.com/RevCBH/osrmctl/internal/pipeline"
	"github.com/spf13/cobra"
)

// NewRoutedCmd creates the routed command
func NewRoutedCmd(app *App) *cobra.Command {
	opts := pipeline.RoutedOptions{Algorithm: pipeline.AlgorithmMLD}

	cmd := &cobra.Command{
		Use:   "routed [--algorithm ch|mld] [--max-* N]... FILE.osrm",
		Short: "Serve a prepared dataset with osrm-routed",
		Long: `Routed starts osrm-routed inside the managed container on FILE.osrm. The
server runs detached unless --foreground is given. Limits left at 0 are not
passed and osrm-routed uses its own defaults.

Examples:
  osrmctl routed monaco-latest.osrm
  osrmctl routed --algorithm ch --max-table-size 1000 monaco-latest.osrm`,
		Args: fileArg,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.File = args[0]
			return app.Routed(cmd, opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.Algorithm, "algorithm", pipeline.AlgorithmMLD, "Routing algorithm: ch or mld")
	flags.IntVar(&opts.MaxViarouteSize, "max-viaroute-size", 0, "Max locations supported in viaroute query")
	flags.IntVar(&opts.MaxTripSize, "max-trip-size", 0, "Max locations supported in trip query")
	flags.IntVar(&opts.MaxTableSize, "max-table-size", 0, "Max locations supported in distance table query")
	flags.IntVar(&opts.MaxMatchingSize, "max-matching-size", 0, "Max locations supported in map matching query")
	flags.IntVar(&opts.MaxNearestSize, "max-nearest-size", 0, "Max results supported in nearest query")
	flags.IntVar(&opts.MaxAlternatives, "max-alternatives", 0, "Max number of alternatives supported in the MLD route query")
	flags.IntVar(&opts.MaxMatchingRadius, "max-matching-radius", 0, "Max radius size supported in map matching query")
	flags.BoolVar(&opts.Foreground, "foreground", false, "Attach to osrm-routed instead of running it detached")

	return cmd
}

// Routed validates the options and starts the routing server
func (a *App) Routed(cmd *cobra.Command, opts pipeline.RoutedOptions) error {
	if err := opts.Validate(); err != nil {
		return err
	}

	p, err := a.pipeline()
	if err != nil {
		return err
	}
	if err := p.Routed(cmd.Context(), opts); err != nil {
		return err
	}

	if !opts.Foreground {
		fmt.Fprintf(cmd.OutOrStdout(), "Started osrm-routed on %s (container port %d)\n",
			opts.File, a.env.Config.Container.ContainerPort)
	}
	return nil
}
