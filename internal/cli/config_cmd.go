package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// NewConfigCmd creates the config command
func NewConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration as YAML",
		Long: `Config prints the configuration after defaults, osrmctl.yaml, .env and
OSRM_* environment overrides are applied. The output is valid osrmctl.yaml.`,
		Args: noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.ShowConfig(cmd)
		},
	}

	return cmd
}

// ShowConfig writes the effective configuration to stdout
func (a *App) ShowConfig(cmd *cobra.Command) error {
	enc := yaml.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent(2)
	if err := enc.Encode(a.env.Config); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return enc.Close()
}
