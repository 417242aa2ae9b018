package main

import (
	"fmt"

	"github.com/hupe1980/psmatch"
	"github.com/spf13/cobra"
)

func newRunCmd(g *globalFlags) *cobra.Command {
	f := &studyFlags{}
	var seed int64

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run one study and print the report",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			cfg, err := g.loadConfig()
			if err != nil {
				return err
			}
			f.apply(cmd, &cfg)
			if cmd.Flags().Changed("seed") {
				cfg.Seed = seed
			}

			logger, err := g.logger()
			if err != nil {
				return err
			}

			report, err := psmatch.Run(ctx, cfg, psmatch.WithLogger(logger))
			if err != nil {
				return err
			}
			if err := report.WriteText(cmd.OutOrStdout()); err != nil {
				return err
			}

			exp, err := f.newExporter(ctx, psmatch.WithLogger(logger))
			if err != nil || exp == nil {
				return err
			}
			name, err := exp.Export(ctx, report)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "\nExported: %s\n", name)
			return nil
		},
	}

	f.register(cmd)
	cmd.Flags().Int64Var(&seed, "seed", 0, "random seed")
	return cmd
}
