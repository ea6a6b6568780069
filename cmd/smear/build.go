// 18 Oct 2026

package main

import (
	"github.com/spf13/cobra"

	"github.com/andrew-torda/smear/pkg/track"
)

// newBuildCmd writes the runs of every smear and maybe a picture.
func newBuildCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build [flags] input",
		Short: "Build smears and write their runs as csv",
		Long: `
Read the alignments in input and build one smear, or a plus and a minus
smear if the source name matches --separate-strands. Write the runs of the
coverage and gap maps as csv, and with --png draw them.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.config(args)
			if err != nil {
				return err
			}
			ctx, stop := a.context(cmd)
			defer stop()
			return track.Mymain(ctx, cfg)
		},
		SuggestionsMinimumDistance: 2,
	}
	f := cmd.Flags()
	f.StringP("out", "o", "-", "csv output file, - for stdout")
	f.String("png", "", "write a picture to this file")
	f.Int("strip-height", 12, "pixels for each strip of the picture")
	for _, key := range []string{"out", "png", "strip-height"} {
		a.v.BindPFlag(key, f.Lookup(key))
	}
	return cmd
}

// newRunsCmd writes the runs of one map.
func newRunsCmd(a *app) *cobra.Command {
	var which string
	cmd := &cobra.Command{
		Use:   "runs [flags] input",
		Short: "Write the runs of the seg or gap map",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := track.ParseWhich(which)
			if err != nil {
				return err
			}
			cfg, err := a.config(args)
			if err != nil {
				return err
			}
			ctx, stop := a.context(cmd)
			defer stop()
			return track.Runs(ctx, cfg, w, cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVar(&which, "map", "seg", "seg for coverage or gap")
	return cmd
}

// newStatsCmd prints a summary table.
func newStatsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "stats [flags] input",
		Short: "Print coverage statistics for each smear",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.config(args)
			if err != nil {
				return err
			}
			ctx, stop := a.context(cmd)
			defer stop()
			return track.Stats(ctx, cfg, cmd.OutOrStdout())
		},
	}
}
