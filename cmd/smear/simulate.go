// 18 Oct 2026

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/andrew-torda/smear/pkg/alnio"
	"github.com/andrew-torda/smear/pkg/numrec"
	"github.com/andrew-torda/smear/pkg/randaln"
	"github.com/andrew-torda/smear/pkg/seq/common"
)

// newSimulateCmd writes random alignments. The format comes from the
// output file name.
func newSimulateCmd() *cobra.Command {
	const iseed int64 = 1637
	var args randaln.RandAlnArgs
	cmd := &cobra.Command{
		Use:   "simulate [flags] output.{fasta,sam}",
		Short: "Write a random alignment for testing",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, pos []string) error {
			fname := pos[0]
			if args.Format = alnio.Detect(fname); args.Format != numrec.FASTA && args.Format != numrec.SAM {
				return fmt.Errorf("%s: can only simulate fasta or sam", fname)
			}
			common.WarnExists(fname)
			fp, err := os.Create(fname)
			if err != nil {
				return err
			}
			args.Wrtr = fp
			if err := randaln.RandAlnMain(&args); err != nil {
				fp.Close()
				return err
			}
			return fp.Close()
		},
	}
	f := cmd.Flags()
	f.StringVar(&args.Cmmt, "name", "anchor", "name of the anchor")
	f.IntVarP(&args.Nseq, "nseq", "n", 1000, "number of aligned sequences")
	f.IntVarP(&args.Len, "length", "l", 5000, "length of the anchor")
	f.Float64Var(&args.GapFrac, "gaps", 0.05, "chance of a gap inside an alignment")
	f.BoolVarP(&args.MkErr, "err", "e", false, "provoke errors, one row will be too short")
	f.Int64VarP(&args.Iseed, "seed", "r", iseed, "random number seed")
	return cmd
}
