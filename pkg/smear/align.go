// 15 Oct 2026
// Alignment shapes. Whatever the shape, an alignment is turned once into
// plain anchor ranges (Blocks) and the smear only ever sees those.

package smear

import (
	"errors"
	"fmt"
	"strings"

	"github.com/andrew-torda/smear/pkg/density"
	"github.com/andrew-torda/smear/pkg/seq/common"
)

// Strand of the anchor row. Both is only meaningful as a filter.
type Strand int8

const (
	Both Strand = iota
	Plus
	Minus
)

func (s Strand) String() string {
	switch s {
	case Both:
		return "both"
	case Plus:
		return "plus"
	case Minus:
		return "minus"
	}
	return fmt.Sprintf("Strand(%d)", int8(s))
}

// ParseStrand reads "both", "plus" or "minus". "+" and "-" are accepted.
func ParseStrand(s string) (Strand, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "both", "all", ".":
		return Both, nil
	case "plus", "+", "forward":
		return Plus, nil
	case "minus", "-", "reverse":
		return Minus, nil
	}
	return Both, fmt.Errorf("unknown strand %q, want both, plus or minus", s)
}

// ErrAdapt marks an alignment that could not be turned into Blocks. Such
// alignments are skipped.
var ErrAdapt = errors.New("cannot decompose alignment")

// Blocks is an alignment reduced to what a smear needs. Segs are the
// aligned stretches and Gaps the stretches of anchor between them, both
// in anchor coordinates, sorted and not overlapping.
type Blocks struct {
	Strand Strand
	Segs   []density.Range
	Gaps   []density.Range
}

// Alignment is anything that can be reduced to Blocks.
type Alignment interface {
	Decompose() (Blocks, error)
}

// Block is one ungapped piece of a sparse alignment: Len columns starting
// at Anchor on the anchor and Other on the aligned sequence.
type Block struct {
	Anchor, Other, Len int
}

// SparseAlignment is the indexed shape, a list of ungapped blocks sorted
// along the anchor.
type SparseAlignment struct {
	Strand Strand
	Blocks []Block
}

// Decompose joins touching blocks into one segment and reports the anchor
// between separated blocks as a gap. Unsorted, overlapping or empty blocks
// are an error.
func (a *SparseAlignment) Decompose() (Blocks, error) {
	if len(a.Blocks) == 0 {
		return Blocks{}, fmt.Errorf("%w: no blocks", ErrAdapt)
	}
	b := Blocks{Strand: a.Strand}
	for i, blk := range a.Blocks {
		if blk.Len <= 0 {
			return Blocks{}, fmt.Errorf("%w: block %d has length %d", ErrAdapt, i, blk.Len)
		}
		r := density.Range{From: blk.Anchor, To: blk.Anchor + blk.Len - 1}
		if n := len(b.Segs); n > 0 {
			last := &b.Segs[n-1]
			switch {
			case r.From <= last.To:
				return Blocks{}, fmt.Errorf("%w: block %d at %d overlaps previous block ending %d",
					ErrAdapt, i, r.From, last.To)
			case r.From == last.To+1:
				last.To = r.To
				continue
			}
			b.Gaps = append(b.Gaps, density.Range{From: last.To + 1, To: r.From - 1})
		}
		b.Segs = append(b.Segs, r)
	}
	return b, nil
}

// DenseAlignment is the raw shape, two gapped rows of the same length.
// AnchorStart is the anchor coordinate of the first residue in the Anchor
// row.
type DenseAlignment struct {
	Strand      Strand
	AnchorStart int
	Anchor      []byte
	Other       []byte
}

func isGap(c byte) bool { return c == common.GapChar || c == '.' }

// Decompose walks the columns. Columns where the anchor has a gap take up
// no anchor coordinates. Gaps in the other row before its first residue or
// after its last are overhang and are not reported.
func (a *DenseAlignment) Decompose() (Blocks, error) {
	if len(a.Anchor) != len(a.Other) {
		return Blocks{}, fmt.Errorf("%w: row lengths %d and %d differ", ErrAdapt, len(a.Anchor), len(a.Other))
	}
	b := Blocks{Strand: a.Strand}
	var pending []density.Range // gaps not yet known to be inside the alignment
	pos := a.AnchorStart
	extend := func(rr []density.Range) []density.Range {
		if n := len(rr); n > 0 && rr[n-1].To == pos-1 {
			rr[n-1].To = pos
			return rr
		}
		return append(rr, density.Range{From: pos, To: pos})
	}
	for i, c := range a.Anchor {
		if isGap(c) {
			continue
		}
		if isGap(a.Other[i]) {
			if len(b.Segs) > 0 {
				pending = extend(pending)
			}
		} else {
			b.Gaps = append(b.Gaps, pending...)
			pending = pending[:0]
			b.Segs = extend(b.Segs)
		}
		pos++
	}
	if len(b.Segs) == 0 {
		return Blocks{}, fmt.Errorf("%w: no aligned columns", ErrAdapt)
	}
	return b, nil
}

// Mix is a group of alignments against the same anchor, such as the rows
// of a multiple sequence alignment. It is ingested as one unit.
type Mix struct {
	Name string
	Rows []Alignment
}

// Iter and Len make a Mix a Source of its rows.
func (m *Mix) Iter() Iterator { return &sliceIter{rows: m.Rows, i: -1} }
func (m *Mix) Len() int       { return len(m.Rows) }

// SliceSource is a named Source over a fixed list of alignments.
type SliceSource struct {
	Label string
	Rows  []Alignment
}

func (s *SliceSource) Iter() Iterator { return &sliceIter{rows: s.Rows, i: -1} }
func (s *SliceSource) Len() int       { return len(s.Rows) }
func (s *SliceSource) Name() string   { return s.Label }

type sliceIter struct {
	rows []Alignment
	i    int
}

func (it *sliceIter) Next() bool {
	if it.i+1 >= len(it.rows) {
		it.i = len(it.rows)
		return false
	}
	it.i++
	return true
}

func (it *sliceIter) Alignment() Alignment { return it.rows[it.i] }
func (it *sliceIter) Err() error           { return nil }
