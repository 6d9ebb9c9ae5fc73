package cli

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/maastricht-university/gprf/clients"
	"github.com/maastricht-university/gprf/config"
	"github.com/maastricht-university/gprf/lexical"
	"github.com/maastricht-university/gprf/logging"
	"github.com/maastricht-university/gprf/orchestrator"
)

// version is set at build time via -ldflags.
var version = "dev"

type options struct {
	configPath string
	logLevel   string
}

func NewRootCmd() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:           "gprf",
		Short:         "Map text and audio diagnostics to JAST-V affect tokens",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			HiddenDefaultCmd: true,
		},
	}
	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "settings file (json or yaml)")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "override log.level")

	root.AddCommand(newExtractCmd(opts))
	root.AddCommand(newBatchCmd(opts))
	root.AddCommand(newServeCmd(opts))
	root.AddCommand(newConfigCmd())
	return root
}

func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// env is everything a command needs after configuration has loaded.
type env struct {
	cfg   *config.Root
	log   *logrus.Logger
	text  orchestrator.TextProvider
	audio orchestrator.AudioProvider
}

func setup(cmd *cobra.Command, opts *options) (*env, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, err
	}
	level := cfg.Log.Level
	if opts.logLevel != "" {
		level = opts.logLevel
	}
	log, err := logging.New(level, cfg.Log.Format, cmd.ErrOrStderr())
	if err != nil {
		return nil, err
	}
	if cfg.MisorderedLabels() {
		log.WithField("dimensions", cfg.Dimensions).
			Warn("dimension labels are not in joy/anger/surprise/trust order; scores are labelled positionally")
	}

	e := &env{cfg: cfg, log: log}
	h := clients.NewHTTP(cfg.Timeout())
	if u := cfg.Services.Text.URL; u != "" {
		e.text = h.TextService(u)
	} else {
		log.Debug("no text analyser configured, using built-in lexical diagnostics")
		e.text = lexical.New()
	}
	if u := cfg.Services.Audio.URL; u != "" {
		e.audio = h.AudioService(u)
	}
	return e, nil
}
