// 18 Oct 2026

package track

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/andrew-torda/smear/pkg/config"
	"github.com/andrew-torda/smear/pkg/density"
	"github.com/andrew-torda/smear/pkg/smear"
)

// Which map of a smear.
type Which string

const (
	Seg Which = "seg"
	Gap Which = "gap"
)

// ParseWhich reads "seg" or "gap".
func ParseWhich(s string) (Which, error) {
	switch w := Which(s); w {
	case Seg, Gap:
		return w, nil
	}
	return "", fmt.Errorf("unknown map %q, want seg or gap", s)
}

func runIter(s *smear.Smear, w Which) *density.RunIter[int32] {
	if w == Gap {
		return s.SmearGapBegin()
	}
	return s.SmearSegBegin()
}

// writeRuns writes the runs of one map as csv records.
func writeRuns(cw *csv.Writer, name string, it *density.RunIter[int32], offset int) error {
	for r, ok := it.Next(); ok; r, ok = it.Next() {
		rec := []string{name, strconv.Itoa(r.From + offset), strconv.Itoa(r.To + offset),
			strconv.FormatInt(int64(r.Value), 10)}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	return nil
}

// WriteRuns writes "track","from","to","value" lines for the coverage
// and gap maps of every smear. A track is named by the smear's label and
// the map. offset is added to coordinates, so 1 gives 1-based output.
func WriteRuns(w io.Writer, smears []*smear.Smear, offset int) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"track", "from", "to", "value"}); err != nil {
		return err
	}
	for _, s := range smears {
		for _, which := range []Which{Seg, Gap} {
			if err := writeRuns(cw, s.Label()+":"+string(which), runIter(s, which), offset); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

// Runs builds the smears and writes the runs of one map only.
func Runs(ctx context.Context, cfg *config.Config, which Which, w io.Writer) error {
	smears, err := Build(ctx, cfg)
	if err != nil {
		return err
	}
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"track", "from", "to", "value"}); err != nil {
		return err
	}
	for _, s := range smears {
		if err := writeRuns(cw, s.Label(), runIter(s, which), cfg.Offset); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
