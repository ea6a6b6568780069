// 15 Oct 2026

// Package smear summarises many alignments against one anchor sequence as
// two density maps: how many alignments cover each stretch of the anchor,
// and how many have a gap there. A smear is built by one goroutine, then
// finalized and handed to readers such as a renderer.
//
// The life of a Smear is Empty, then Accumulating after the first
// alignment is added, then Finalized. MaskGaps finalizes and removes gap
// counts wherever there is coverage. Any read finalizes without masking.
// Nothing can be added to a finalized smear.
package smear

import (
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/andrew-torda/smear/pkg/density"
)

// State of a Smear.
type State uint8

const (
	Empty State = iota
	Accumulating
	Finalized
)

func (s State) String() string {
	switch s {
	case Empty:
		return "empty"
	case Accumulating:
		return "accumulating"
	case Finalized:
		return "finalized"
	}
	return fmt.Sprintf("State(%d)", uint8(s))
}

// ErrFinalized is returned when alignments are added to a finalized smear.
var ErrFinalized = errors.New("smear is finalized")

// progressEvery is how often, in alignments, progress is reported when a
// source cannot say how long it is.
const progressEvery = 1024

// Smear is the aggregator. The zero value is not usable; call New.
type Smear struct {
	anchor SequenceHandle
	strand Strand
	seg    *density.Map[int32]
	gap    *density.Map[int32]
	label  string
	nAln   int
	nMix   int
	nSkip  int
	state  State
	masked bool
}

// New makes a smear over [start, stop) of the anchor, window coordinates
// per cell, keeping only alignments on the given strand (or all, for Both).
func New(anchor SequenceHandle, start, stop int, window float64, strand Strand) (*Smear, error) {
	seg, err := density.New(start, stop, window, int32(0))
	if err != nil {
		return nil, err
	}
	gap, _ := density.New(start, stop, window, int32(0))
	s := &Smear{anchor: anchor, strand: strand, seg: seg, gap: gap}
	if anchor != nil {
		s.label = anchor.Name()
	}
	return s, nil
}

// NewFull covers the whole anchor, [0, anchor.Len()).
func NewFull(anchor SequenceHandle, window float64, strand Strand) (*Smear, error) {
	if anchor == nil {
		return nil, errors.New("full-length smear needs an anchor sequence")
	}
	return New(anchor, 0, anchor.Len(), window, strand)
}

func (s *Smear) Anchor() SequenceHandle   { return s.anchor }
func (s *Smear) Strand() Strand           { return s.strand }
func (s *Smear) Range() (start, stop int) { return s.seg.Range() }
func (s *Smear) Window() float64          { return s.seg.Window() }
func (s *Smear) Len() int                 { return s.seg.Len() }
func (s *Smear) State() State             { return s.state }
func (s *Smear) AlignmentCount() int      { return s.nAln }
func (s *Smear) MixCount() int            { return s.nMix }
func (s *Smear) Label() string            { return s.label }
func (s *Smear) SetLabel(label string)    { s.label = label }
func (s *Smear) Masked() bool             { return s.masked }

// Skipped is the number of alignments that could not be decomposed.
func (s *Smear) Skipped() int { return s.nSkip }

// addBlocks is the inner loop. It works only on plain ranges.
func (s *Smear) addBlocks(b Blocks) bool {
	if s.strand != Both && b.Strand != s.strand {
		return false
	}
	s.seg.AddRangesOnce(b.Segs, 1, density.Sum)
	s.gap.AddRangesOnce(b.Gaps, 1, density.Sum)
	s.nAln++
	s.state = Accumulating
	return true
}

// add decomposes one alignment and accumulates it.
func (s *Smear) add(a Alignment) bool {
	b, err := a.Decompose()
	if err != nil {
		s.nSkip++
		log.WithError(err).Debug("skipping alignment")
		return false
	}
	return s.addBlocks(b)
}

func (s *Smear) refuse() bool {
	if s.state == Finalized {
		log.WithField("label", s.label).Warn("alignment offered to finalized smear")
		return true
	}
	return false
}

// AddAlignment adds one alignment of either shape. It returns whether the
// alignment passed the strand filter and was accumulated.
func (s *Smear) AddAlignment(a Alignment) bool {
	if s.refuse() {
		return false
	}
	return s.add(a)
}

// AddSparse adds one alignment in the indexed shape.
func (s *Smear) AddSparse(a *SparseAlignment) bool { return s.AddAlignment(a) }

// AddDense adds one alignment given as two gapped rows.
func (s *Smear) AddDense(a *DenseAlignment) bool { return s.AddAlignment(a) }

// AddSource adds every alignment from src in the order they come. It stops
// early, without error, if p reports cancellation; what was added so far
// stays. A read error from the source stops ingestion and is returned,
// again keeping what was added. p may be nil.
func (s *Smear) AddSource(src Source, p Progress) (bool, error) {
	if s.refuse() {
		return false, ErrFinalized
	}
	n := src.Len()
	it := src.Iter()
	added := false
	i := 0
	for {
		if p != nil && p.IsCanceled() {
			log.WithFields(log.Fields{"label": s.label, "done": i}).Debug("smear canceled")
			return added, nil
		}
		if !it.Next() {
			break
		}
		if s.add(it.Alignment()) {
			added = true
		}
		i++
		if p != nil && n > 0 {
			p.ReportProgress(float64(i) / float64(n))
		} else if p != nil && i%progressEvery == 0 {
			log.WithField("done", i).Debug("smear progress")
		}
	}
	if err := it.Err(); err != nil {
		return added, fmt.Errorf("after %d alignments: %w", i, err)
	}
	if p != nil {
		p.ReportProgress(1)
	}
	return added, nil
}

// AddAnnotation is AddSource for a named annotation. The smear takes the
// annotation's name as its label if it has none. The strand filter is
// applied per alignment whether or not the annotation was classed as
// having separable strands.
func (s *Smear) AddAnnotation(a Annotation, p Progress) (bool, error) {
	if s.label == "" || (s.anchor != nil && s.label == s.anchor.Name()) {
		s.label = a.Name()
	}
	return s.AddSource(a, p)
}

// AddMix adds every row of m and counts m once if any row was kept.
func (s *Smear) AddMix(m *Mix, p Progress) (bool, error) {
	added, err := s.AddSource(m, p)
	if added {
		s.nMix++
	}
	return added, err
}

// Finalize stops accumulation without masking. It is harmless to call it
// more than once.
func (s *Smear) Finalize() { s.state = Finalized }

// MaskGaps clears the gap count of every cell that has coverage, then
// finalizes. It does nothing, and returns false, if the smear was already
// finalized.
func (s *Smear) MaskGaps() bool {
	if s.state == Finalized {
		return false
	}
	dflt := s.gap.Default()
	for i := 0; i < s.seg.Len(); i++ {
		if s.seg.GetCell(i) > 0 {
			s.gap.SetCell(i, dflt)
		}
	}
	s.masked = true
	s.state = Finalized
	return true
}

// SmearSegBegin returns the runs of the coverage map.
func (s *Smear) SmearSegBegin() *density.RunIter[int32] {
	s.Finalize()
	return s.seg.RunLengthBegin()
}

// SmearGapBegin returns the runs of the gap map.
func (s *Smear) SmearGapBegin() *density.RunIter[int32] {
	s.Finalize()
	return s.gap.RunLengthBegin()
}

// GetMaxValue is the highest coverage, for scaling colours.
func (s *Smear) GetMaxValue() int32 {
	s.Finalize()
	return s.seg.GetMax()
}

// SegValues is a copy of the coverage cells.
func (s *Smear) SegValues() []int32 {
	s.Finalize()
	return s.seg.Values()
}

// GapValues is a copy of the gap cells.
func (s *Smear) GapValues() []int32 {
	s.Finalize()
	return s.gap.Values()
}
