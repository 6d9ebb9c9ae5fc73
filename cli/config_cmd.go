package cli

import (
	"github.com/spf13/cobra"

	"github.com/maastricht-university/gprf/config"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Settings helpers",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Print a starter settings.yaml",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return config.WriteTemplate(cmd.OutOrStdout())
		},
	})
	return cmd
}
