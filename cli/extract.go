package cli

import (
	"github.com/spf13/cobra"

	"github.com/maastricht-university/gprf/affect"
	"github.com/maastricht-university/gprf/orchestrator"
)

func newExtractCmd(opts *options) *cobra.Command {
	var (
		in      orchestrator.Input
		format  string
		profile string
	)
	cmd := &cobra.Command{
		Use:   "extract",
		Short: "Build one EToken from --text and/or --audio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := setup(cmd, opts)
			if err != nil {
				return err
			}
			p, err := affect.ProfileByName(profile, e.cfg.Thresholds)
			if err != nil {
				return err
			}
			b := orchestrator.NewBuilder(e.cfg, affect.NewMapper(p), e.text, e.audio, e.log)
			tok, err := b.Extract(cmd.Context(), in)
			if err != nil {
				return err
			}
			return writeOutput(cmd.OutOrStdout(), format, tok)
		},
	}
	cmd.Flags().StringVar(&in.Text, "text", "", "input text")
	cmd.Flags().StringVar(&in.AudioPath, "audio", "", "path to audio file")
	cmd.Flags().StringVarP(&format, "format", "f", "json", "output format: json or yaml")
	cmd.Flags().StringVar(&profile, "profile", "core", "affect profile: core or service")
	return cmd
}
