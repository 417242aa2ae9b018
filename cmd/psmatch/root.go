package main

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/hupe1980/psmatch"
	"github.com/spf13/cobra"
)

type globalFlags struct {
	configPath string
	logLevel   string
	logFormat  string
}

func newRootCmd() *cobra.Command {
	g := &globalFlags{}

	root := &cobra.Command{
		Use:   "psmatch",
		Short: "Propensity score matching on synthetic confounded data",
		Long: `psmatch generates a synthetic population with a known treatment effect,
fits a propensity model, matches treated and control units greedily within a
caliper on the raw and logit propensity, and tests the matched differences.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVarP(&g.configPath, "config", "c", "", "YAML study configuration (defaults to the reference scenario)")
	root.PersistentFlags().StringVar(&g.logLevel, "log-level", "warn", "log level: debug, info, warn, error")
	root.PersistentFlags().StringVar(&g.logFormat, "log-format", "text", "log format: text or json")

	root.AddCommand(newRunCmd(g), newReplicateCmd(g))
	return root
}

func (g *globalFlags) loadConfig() (psmatch.Config, error) {
	if g.configPath == "" {
		return psmatch.DefaultConfig(), nil
	}
	return psmatch.LoadConfig(g.configPath)
}

func (g *globalFlags) logger() (*psmatch.Logger, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(g.logLevel)); err != nil {
		return nil, fmt.Errorf("invalid --log-level %q", g.logLevel)
	}
	switch strings.ToLower(g.logFormat) {
	case "text":
		return psmatch.NewTextLogger(level), nil
	case "json":
		return psmatch.NewJSONLogger(level), nil
	default:
		return nil, fmt.Errorf("invalid --log-format %q", g.logFormat)
	}
}

// studyFlags are the configuration overrides shared by run and replicate.
type studyFlags struct {
	n           int
	caliper     float64
	index       string
	clip        float64
	export      string
	compression string
	codec       string
	ioLimit     int64
}

func (f *studyFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVarP(&f.n, "samples", "n", 0, "number of samples")
	cmd.Flags().Float64Var(&f.caliper, "caliper", 0, "largest accepted score distance")
	cmd.Flags().StringVar(&f.index, "index", "", "nearest-neighbour index: sorted or flat")
	cmd.Flags().Float64Var(&f.clip, "clip-epsilon", 0, "clip propensities into [eps, 1-eps] before the logit")
	cmd.Flags().StringVar(&f.export, "export", "", "export destination: file://dir, s3://bucket/prefix or minio://host/bucket/prefix")
	cmd.Flags().StringVar(&f.compression, "compression", "none", "export compression: none, lz4 or zstd")
	cmd.Flags().StringVar(&f.codec, "codec", "go-json", "export codec: json or go-json")
	cmd.Flags().Int64Var(&f.ioLimit, "io-limit", 0, "export bandwidth limit in bytes per second (0 = unlimited)")
}

func (f *studyFlags) apply(cmd *cobra.Command, cfg *psmatch.Config) {
	if cmd.Flags().Changed("samples") {
		cfg.N = f.n
	}
	if cmd.Flags().Changed("caliper") {
		cfg.Caliper = f.caliper
	}
	if cmd.Flags().Changed("index") {
		cfg.Index = f.index
	}
	if cmd.Flags().Changed("clip-epsilon") {
		cfg.ClipEpsilon = f.clip
	}
}
