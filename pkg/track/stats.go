// 18 Oct 2026

package track

import (
	"context"
	"fmt"
	"io"
	"sort"
	"text/tabwriter"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/andrew-torda/smear/pkg/config"
	"github.com/andrew-torda/smear/pkg/smear"
)

// Summary describes the coverage of one smear, over cells.
type Summary struct {
	Label      string
	Cells      int
	Alignments int
	Skipped    int
	Mean       float64
	StdDev     float64
	Median     float64
	Max        float64
	Covered    float64 // fraction of cells with any coverage
	GapMean    float64
}

func toFloats(v []int32) []float64 {
	f := make([]float64, len(v))
	for i, x := range v {
		f[i] = float64(x)
	}
	return f
}

// Summarize reads s, which finalizes it.
func Summarize(s *smear.Smear) Summary {
	seg := toFloats(s.SegValues())
	gap := toFloats(s.GapValues())
	sum := Summary{
		Label:      s.Label(),
		Cells:      len(seg),
		Alignments: s.AlignmentCount(),
		Skipped:    s.Skipped(),
		Max:        floats.Max(seg),
		GapMean:    stat.Mean(gap, nil),
	}
	sum.Mean, sum.StdDev = stat.MeanStdDev(seg, nil)
	if len(seg) == 1 {
		sum.StdDev = 0
	}
	n := 0
	for _, v := range seg {
		if v > 0 {
			n++
		}
	}
	sum.Covered = float64(n) / float64(len(seg))
	sort.Float64s(seg)
	sum.Median = stat.Quantile(0.5, stat.Empirical, seg, nil)
	return sum
}

// WriteSummaries writes a table, one line per smear.
func WriteSummaries(w io.Writer, ss []Summary) error {
	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
	fmt.Fprintln(tw, "track\tcells\talignments\tskipped\tmean\tsd\tmedian\tmax\tcovered\tgap mean")
	for _, s := range ss {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%.2f\t%.2f\t%.1f\t%.0f\t%.3f\t%.2f\n", s.Label, s.Cells,
			s.Alignments, s.Skipped, s.Mean, s.StdDev, s.Median, s.Max, s.Covered, s.GapMean)
	}
	return tw.Flush()
}

// Stats builds the smears and writes their summaries.
func Stats(ctx context.Context, cfg *config.Config, w io.Writer) error {
	smears, err := Build(ctx, cfg)
	if err != nil {
		return err
	}
	ss := make([]Summary, len(smears))
	for i, s := range smears {
		ss[i] = Summarize(s)
	}
	return WriteSummaries(w, ss)
}
