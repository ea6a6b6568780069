// 17 Oct 2026

package alnio

import (
	"fmt"
	"io"

	"github.com/andrew-torda/smear/pkg/seq"
	"github.com/andrew-torda/smear/pkg/smear"
)

// MSA is an aligned fasta file. One row is the anchor, every other row is
// aligned to it.
type MSA struct {
	Mix    *smear.Mix
	Anchor seq.Handle
}

// ReadMSA reads an alignment from fname. anchor picks the anchor row by
// part of its comment. If empty, the first row is the anchor.
func ReadMSA(fname, anchor string) (*MSA, error) {
	seqgrp, err := seq.Readfile(fname, &seq.Options{})
	if err != nil {
		return nil, err
	}
	return fromSeqGrp(seqgrp, baseName(fname), anchor)
}

// ReadMSAFrom is ReadMSA for a reader.
func ReadMSAFrom(r io.Reader, name, anchor string) (*MSA, error) {
	var seqgrp seq.SeqGrp
	if err := seq.ReadFasta(r, &seqgrp, &seq.Options{}); err != nil {
		return nil, err
	}
	return fromSeqGrp(&seqgrp, name, anchor)
}

func fromSeqGrp(seqgrp *seq.SeqGrp, name, anchor string) (*MSA, error) {
	ndx := 0
	if anchor != "" {
		if ndx = seqgrp.FindNdx(anchor); ndx == -1 {
			return nil, fmt.Errorf("%w: no row matching %q in %s", ErrNoAnchor, anchor, name)
		}
	}
	if seqgrp.NSeq() < 2 {
		return nil, fmt.Errorf("%s has only %d sequence, nothing is aligned to it", name, seqgrp.NSeq())
	}
	slc := seqgrp.SeqSlc()
	a := slc[ndx]
	m := &smear.Mix{Name: name}
	for i, s := range slc {
		if i == ndx {
			continue
		}
		m.Rows = append(m.Rows, &smear.DenseAlignment{
			Strand: smear.Plus,
			Anchor: a.GetSeq(),
			Other:  s.GetSeq(),
		})
	}
	return &MSA{Mix: m, Anchor: a.Handle()}, nil
}
