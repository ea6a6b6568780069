// 18 Oct 2026

package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/pkg/profile"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/andrew-torda/smear/pkg/config"
)

// app holds what the subcommands share.
type app struct {
	v       *viper.Viper
	cfgFile string
	prof    interface{ Stop() }
}

// setLogging sets the level from verbosity, 0 warn, 1 info, 2 or more debug.
func setLogging(verbosity int) {
	log.SetOutput(os.Stderr)
	log.SetFormatter(&log.TextFormatter{DisableTimestamp: true})
	switch {
	case verbosity <= 0:
		log.SetLevel(log.WarnLevel)
	case verbosity == 1:
		log.SetLevel(log.InfoLevel)
	default:
		log.SetLevel(log.DebugLevel)
	}
}

// config reads the settings, taking the input from the first argument.
func (a *app) config(args []string) (*config.Config, error) {
	if len(args) > 0 {
		a.v.Set("input", args[0])
	}
	return config.New(a.v)
}

// context is canceled by an interrupt.
func (a *app) context(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(cmd.Context(), os.Interrupt)
}

func newRootCmd() *cobra.Command {
	a := &app{v: viper.New()}
	config.SetDefaults(a.v)

	root := &cobra.Command{
		Use:           "smear",
		Short:         "Summarise alignments against an anchor sequence as coverage and gap counts",
		Version:       "0.1.0",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := config.ReadFile(a.v, a.cfgFile); err != nil {
				return err
			}
			setLogging(a.v.GetInt("verbosity"))
			switch a.v.GetString("profile") {
			case "cpu":
				a.prof = profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.Quiet)
			case "mem":
				a.prof = profile.Start(profile.MemProfile, profile.ProfilePath("."), profile.Quiet)
			}
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.prof != nil {
				a.prof.Stop()
			}
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.cfgFile, "config", "", "config file, yaml, toml or json")
	pf.String("format", "", "input format, sam, gff or fasta. Guessed from the extension if not given")
	pf.StringP("anchor", "a", "", "anchor: SAM reference, GFF sequence id or part of a fasta comment")
	pf.Int("start", 0, "first anchor coordinate, counting from 0")
	pf.Int("stop", 0, "one past the last anchor coordinate, 0 for the whole anchor")
	pf.Float64P("window", "w", 1, "anchor coordinates per cell, at least 1, may be fractional")
	pf.StringP("strand", "s", "both", "strand to keep, both, plus or minus")
	pf.StringSlice("separate-strands", nil, "glob patterns on source names that get a smear per strand")
	pf.Bool("mask-gaps", true, "clear gap counts where there is coverage")
	pf.String("label", "", "label for the smear, default the source name")
	pf.IntP("offset", "f", 0, "added to coordinates on output, 1 for 1-based")
	pf.Int("min-mapq", 0, "SAM: drop records with a lower mapping quality")
	pf.Bool("secondary", false, "SAM: keep secondary and supplementary alignments")
	pf.String("feature", "match", "GFF: feature type to use, empty for all")
	pf.String("source", "", "GFF: only this source column")
	pf.CountP("verbose", "v", "more logging, repeat for debug")
	pf.Bool("progress", false, "draw a progress bar on stderr")
	pf.String("profile", "", "write a cpu or mem profile to the current directory")
	for _, key := range []string{"format", "anchor", "start", "stop", "window", "strand",
		"separate-strands", "mask-gaps", "label", "offset", "min-mapq", "secondary", "feature",
		"source", "progress", "profile"} {
		a.v.BindPFlag(key, pf.Lookup(key))
	}
	a.v.BindPFlag("verbosity", pf.Lookup("verbose"))

	root.AddCommand(newBuildCmd(a), newRunsCmd(a), newStatsCmd(a), newSimulateCmd())
	return root
}
