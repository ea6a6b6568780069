// 17 Oct 2026

package alnio

import (
	"bytes"
	"fmt"
	"io"

	"github.com/biogo/hts/sam"
	log "github.com/sirupsen/logrus"

	"github.com/andrew-torda/smear/pkg/numrec"
	"github.com/andrew-torda/smear/pkg/smear"
)

// SAMOptions filter the records of a SAM file.
type SAMOptions struct {
	MinMapQ   byte // records with a lower mapping quality are dropped
	Secondary bool // keep secondary and supplementary alignments
}

// SAMSource is the records of a SAM file aligned to one reference.
type SAMSource struct {
	content
	name   string
	anchor *sam.Reference
	opts   SAMOptions
	n      int
}

// OpenSAM maps fname. anchor names the reference to keep. If it is
// empty, the first reference in the header is used.
func OpenSAM(fname, anchor string, opts SAMOptions) (*SAMSource, error) {
	c, err := mapFile(fname)
	if err != nil {
		return nil, err
	}
	s, err := newSAM(c, baseName(fname), anchor, opts)
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("%s: %w", fname, err)
	}
	return s, nil
}

// ReadSAM is OpenSAM for a reader, which is read to the end.
func ReadSAM(r io.Reader, name, anchor string, opts SAMOptions) (*SAMSource, error) {
	c, err := readAll(r)
	if err != nil {
		return nil, err
	}
	return newSAM(c, name, anchor, opts)
}

func newSAM(c content, name, anchor string, opts SAMOptions) (*SAMSource, error) {
	rdr, err := sam.NewReader(bytes.NewReader(c.data))
	if err != nil {
		return nil, fmt.Errorf("reading sam header: %w", err)
	}
	refs := rdr.Header().Refs()
	s := &SAMSource{content: c, name: name, opts: opts, n: numrec.CountBytes(c.data, numrec.SAM)}
	for _, r := range refs {
		if anchor == "" || r.Name() == anchor {
			s.anchor = r
			break
		}
	}
	if s.anchor == nil {
		return nil, fmt.Errorf("%w: %q among %d references", ErrNoAnchor, anchor, len(refs))
	}
	log.WithFields(log.Fields{"name": name, "anchor": s.anchor.Name(), "records": s.n}).Debug("sam source")
	return s, nil
}

// Name is the file name without its extension, unless it was given.
func (s *SAMSource) Name() string { return s.name }

// Anchor is the header line of the reference being kept.
func (s *SAMSource) Anchor() smear.SequenceHandle { return s.anchor }

// Len is the number of records in the file, including those that
// will be filtered out.
func (s *SAMSource) Len() int { return s.n }

func (s *SAMSource) Iter() smear.Iterator {
	rdr, err := sam.NewReader(bytes.NewReader(s.data))
	return &samIter{src: s, rdr: rdr, err: err}
}

type samIter struct {
	src *SAMSource
	rdr *sam.Reader
	aln smear.Alignment
	err error
}

// keep applies the filters.
func (it *samIter) keep(r *sam.Record) bool {
	o := it.src.opts
	switch {
	case r.Flags&sam.Unmapped != 0, r.Ref == nil:
		return false
	case r.Ref.Name() != it.src.anchor.Name():
		return false
	case !o.Secondary && r.Flags&(sam.Secondary|sam.Supplementary) != 0:
		return false
	case r.MapQ != 255 && r.MapQ < o.MinMapQ:
		return false
	}
	return true
}

func (it *samIter) Next() bool {
	if it.err != nil {
		return false
	}
	for {
		r, err := it.rdr.Read()
		if err == io.EOF {
			return false
		}
		if err != nil {
			it.err = err
			return false
		}
		if it.keep(r) {
			it.aln = fromRecord(r)
			return true
		}
	}
}

func (it *samIter) Alignment() smear.Alignment { return it.aln }
func (it *samIter) Err() error                 { return it.err }

// fromRecord turns the CIGAR into blocks. Matches make blocks, deletions
// and skipped regions move along the reference and end up as gaps.
func fromRecord(r *sam.Record) smear.Alignment {
	a := &smear.SparseAlignment{Strand: smear.Plus}
	if r.Flags&sam.Reverse != 0 {
		a.Strand = smear.Minus
	}
	ref, qry := r.Pos, 0
	for _, co := range r.Cigar {
		n := co.Len()
		switch co.Type() {
		case sam.CigarMatch, sam.CigarEqual, sam.CigarMismatch:
			a.Blocks = append(a.Blocks, smear.Block{Anchor: ref, Other: qry, Len: n})
			ref += n
			qry += n
		case sam.CigarDeletion, sam.CigarSkipped:
			ref += n
		case sam.CigarInsertion, sam.CigarSoftClipped:
			qry += n
		}
	}
	if len(a.Blocks) == 0 {
		return badAlignment{fmt.Errorf("%w: record %s has no aligned bases", smear.ErrAdapt, r.Name)}
	}
	return a
}
