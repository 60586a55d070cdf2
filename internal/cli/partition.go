package cli

import (
	"context"
	"fmt"

	"github.com/RevCBH/osrmctl/internal/pipeline"
	"github.com/spf13/cobra"
)

// NewPartitionCmd creates the partition command
func NewPartitionCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "partition FILE.osrm",
		Short: "Run osrm-partition on an extracted dataset",
		Args:  fileArg,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.Partition(cmd, args[0])
		},
	}

	return cmd
}

// NewCustomizeCmd creates the customize command
func NewCustomizeCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "customize FILE.osrm",
		Short: "Run osrm-customize on a partitioned dataset",
		Args:  fileArg,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.Customize(cmd, args[0])
		},
	}

	return cmd
}

// Partition runs the partition stage on file
func (a *App) Partition(cmd *cobra.Command, file string) error {
	return a.runDatasetStage(cmd, file, "Partitioned", (*pipeline.Pipeline).Partition)
}

// Customize runs the customize stage on file
func (a *App) Customize(cmd *cobra.Command, file string) error {
	return a.runDatasetStage(cmd, file, "Customized", (*pipeline.Pipeline).Customize)
}

func (a *App) runDatasetStage(cmd *cobra.Command, file, verb string,
	stage func(*pipeline.Pipeline, context.Context, string) error) error {
	if err := pipeline.ValidateExtension(file, pipeline.ExtOSRM); err != nil {
		return err
	}

	p, err := a.pipeline()
	if err != nil {
		return err
	}
	if err := stage(p, cmd.Context(), file); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", verb, file)
	return nil
}
