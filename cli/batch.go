package cli

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/maastricht-university/gprf/affect"
	"github.com/maastricht-university/gprf/orchestrator"
)

func newBatchCmd(opts *options) *cobra.Command {
	var (
		input   string
		workers int
	)
	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Build one EToken per JSON line of {\"text\", \"audio_path\"}",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := setup(cmd, opts)
			if err != nil {
				return err
			}
			r := cmd.InOrStdin()
			if input != "-" {
				f, err := os.Open(input)
				if err != nil {
					return err
				}
				defer f.Close()
				r = f
			}
			inputs, err := readInputs(r)
			if err != nil {
				return err
			}

			b := orchestrator.NewBuilder(e.cfg, affect.NewMapper(affect.CoreProfile(e.cfg.Thresholds)), e.text, e.audio, e.log)
			toks, err := orchestrator.Batch(cmd.Context(), b, inputs, workers)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			for _, tok := range toks {
				if err := enc.Encode(tok); err != nil {
					return err
				}
			}
			e.log.WithField("count", len(toks)).Info("batch done")
			return nil
		},
	}
	cmd.Flags().StringVarP(&input, "input", "i", "-", "JSONL file, - for stdin")
	cmd.Flags().IntVarP(&workers, "workers", "w", 4, "concurrent extractions")
	return cmd
}

func readInputs(r io.Reader) ([]orchestrator.Input, error) {
	var out []orchestrator.Input
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	line := 0
	for sc.Scan() {
		line++
		s := strings.TrimSpace(sc.Text())
		if s == "" {
			continue
		}
		var in orchestrator.Input
		if err := json.Unmarshal([]byte(s), &in); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		out = append(out, in)
	}
	return out, sc.Err()
}
