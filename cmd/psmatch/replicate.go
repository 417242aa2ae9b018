package main

import (
	"fmt"

	"github.com/hupe1980/psmatch"
	"github.com/spf13/cobra"
)

func newReplicateCmd(g *globalFlags) *cobra.Command {
	f := &studyFlags{}
	var (
		seeds   []int64
		workers int
	)

	cmd := &cobra.Command{
		Use:   "replicate",
		Short: "Run the study once per seed and summarise the estimates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			cfg, err := g.loadConfig()
			if err != nil {
				return err
			}
			f.apply(cmd, &cfg)

			logger, err := g.logger()
			if err != nil {
				return err
			}

			rep, err := psmatch.Replicate(ctx, cfg, seeds, workers, psmatch.WithLogger(logger))
			if err != nil {
				return err
			}
			if err := rep.WriteText(cmd.OutOrStdout()); err != nil {
				return err
			}

			exp, err := f.newExporter(ctx, psmatch.WithLogger(logger))
			if err != nil || exp == nil {
				return err
			}
			for _, r := range rep.Reports {
				name, err := exp.Export(ctx, r)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Exported: %s\n", name)
			}
			return nil
		},
	}

	f.register(cmd)
	cmd.Flags().Int64SliceVar(&seeds, "seeds", []int64{460, 461, 462, 463, 464}, "seeds to run")
	cmd.Flags().IntVarP(&workers, "workers", "w", 2, "studies to run concurrently")
	return cmd
}
