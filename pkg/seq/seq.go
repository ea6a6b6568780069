// 20 Dec 2017

// Package seq reads sequences in fasta format. For smears it reads
// multiple sequence alignments, so gaps are kept unless asked otherwise
// and every row must be the same length.
package seq

import (
	"fmt"
	"io"
	"os"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/andrew-torda/smear/pkg/seq/common"
)

// Seq is one sequence and its comment, without the leading ">".
type Seq struct {
	cmmt string
	seq  []byte
}

// We only read ascii characters, so anything bigger than this is not
// valid.
const MaxSym uint8 = 127

// Options contains all the choices passed in from the caller.
type Options struct {
	DiffLenSeq bool // false, unless we expect sequences to be different lengths
	RmvGapsRd  bool // Remove gaps upon reading
	ZeroLenOK  bool // Sequences of length zero are not an error
}

const cmmtChar byte = '>' // and this introduces comments in fasta format

// SeqGrp is a group of sequences, usually the rows of an alignment.
type SeqGrp struct {
	seqs []Seq
}

// GetSeq returns the sequence as the original byte slice
func (s Seq) GetSeq() []byte { return s.seq }

// Cmmt returns the comment, without the leading ">"
func (s Seq) Cmmt() string { return s.cmmt }

// Len is the length including any gaps.
func (s Seq) Len() int { return len(s.seq) }

// SetSeq will replace whatever was the sequence with a new one
func (s *Seq) SetSeq(t []byte) { s.seq = t }

// Empty returns true if a sequence has been cleared.
func (s Seq) Empty() bool { return len(s.seq) == 0 }

// GeneID returns the first word in the comment which is likely to be the
// gene identifier. With no comment, it is "".
func (s Seq) GeneID() string {
	if f := strings.Fields(s.cmmt); len(f) > 0 {
		return f[0]
	}
	return ""
}

// Ungapped is the number of residues, not counting gaps.
func (s Seq) Ungapped() int {
	n := 0
	for _, c := range s.seq {
		if c != common.GapChar && c != '.' {
			n++
		}
	}
	return n
}

// Lower will change a sequence to lower case, in place.
func (s *Seq) Lower() {
	const diff = 'a' - 'A'
	for i, c := range s.seq {
		if 'A' <= c && c <= 'Z' {
			s.seq[i] += diff
		}
	}
}

// trimStr trims a string to n bytes if it is longer
func trimStr(s string, n int) string {
	if len(s) > n {
		return s[:n]
	}
	return s
}

// Upper changes a sequence to upper case, in place. It returns an error
// if it meets a symbol above the ascii range.
func (s *Seq) Upper() error {
	const diff = 'a' - 'A'
	const symerr = "bad sym \"%c\" at position %d starting \"%s\""
	for i, c := range s.seq {
		if c >= MaxSym {
			return fmt.Errorf(symerr, c, i, trimStr(s.cmmt, 40))
		}
		if 'a' <= c && c <= 'z' {
			s.seq[i] -= diff
		}
	}
	return nil
}

// String returns a sequence, with its comment at the start as
// a single string
func (s Seq) String() string {
	return fmt.Sprintf("%c%s\n%s", cmmtChar, s.cmmt, s.seq)
}

// Handle names a sequence and gives its ungapped length. This is what an
// alignment anchor needs.
type Handle struct {
	name string
	n    int
}

func (h Handle) Name() string { return h.name }
func (h Handle) Len() int     { return h.n }

// Handle returns the Handle for s.
func (s Seq) Handle() Handle { return Handle{name: s.GeneID(), n: s.Ungapped()} }

// GetLen returns the length of the first sequence. In an alignment, this
// is the length of all of them.
func (seqgrp *SeqGrp) GetLen() int {
	if len(seqgrp.seqs) == 0 {
		return 0
	}
	return len(seqgrp.seqs[0].seq)
}

// NSeq returns the number of sequences
func (seqgrp *SeqGrp) NSeq() int { return len(seqgrp.seqs) }

// SeqSlc returns the slice of sequences
func (seqgrp *SeqGrp) SeqSlc() []Seq { return seqgrp.seqs }

// Upper uppercases all the members of a group of sequences.
func (seqgrp *SeqGrp) Upper() error {
	for i := range seqgrp.seqs {
		if err := seqgrp.seqs[i].Upper(); err != nil {
			return err
		}
	}
	return nil
}

// checkLengths is called when we expect an alignment, so every sequence
// must be the same length.
func (seqgrp *SeqGrp) checkLengths() error {
	const msg = "sequence lengths differ. First sequence length %d, but sequence %d length %d. Sequence starts %q"
	want := seqgrp.GetLen()
	for i, s := range seqgrp.seqs[1:] {
		if s.Len() != want {
			return fmt.Errorf(msg, want, i+2, s.Len(), trimStr(s.cmmt, 40))
		}
	}
	return nil
}

// Readfile takes a filename and reads sequences from it. An empty name
// means stdin.
func Readfile(fname string, s_opts *Options) (*SeqGrp, error) {
	var seqgrp = new(SeqGrp)
	var fp io.ReadCloser = os.Stdin
	if fname != "" {
		var err error
		if fp, err = os.Open(fname); err != nil {
			return nil, err
		}
	}
	defer fp.Close()

	if err := ReadFasta(fp, seqgrp, s_opts); err != nil {
		return seqgrp, fmt.Errorf("%s: %w", fname, err)
	}
	log.WithFields(log.Fields{"file": fname, "nseq": seqgrp.NSeq()}).Debug("read sequences")
	return seqgrp, nil
}

// FindNdx Returns the index of the sequence containing a string.
// Numbering starts from zero. We remove any ">", space or tab at the start.
func (seqgrp *SeqGrp) FindNdx(s string) int {
	s = strings.TrimLeft(s, " >\t")
	for i, seq := range seqgrp.seqs {
		if strings.Contains(seq.cmmt, s) {
			return i
		}
	}
	return -1
}

// Str2SeqGrp takes some strings and returns them as a seqgrp.
// prefix is optional. Without it, sequences are called "s0", "s1", ...
func Str2SeqGrp(sIn []string, prefix ...string) *SeqGrp {
	base := "s"
	if prefix != nil {
		base = prefix[0]
	}
	seqgrp := new(SeqGrp)
	for i, s := range sIn {
		f := Seq{cmmt: fmt.Sprint(base, i), seq: []byte(s)}
		seqgrp.seqs = append(seqgrp.seqs, f)
	}
	return seqgrp
}
