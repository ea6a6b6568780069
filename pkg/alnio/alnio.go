// 17 Oct 2026

// Package alnio reads alignments against an anchor sequence from files
// and hands them to a smear. SAM files and GFF match features are
// Annotations. An aligned fasta file is a Mix, one row per alignment.
//
// Files are memory mapped and parsed again on every call to Iter, so two
// smears can walk the same source at the same time.
package alnio

import (
	"errors"
	"io"
	"path/filepath"
	"strings"

	"github.com/andrew-torda/smear/pkg/numrec"
	"github.com/andrew-torda/smear/pkg/smear"
)

// ErrNoAnchor is returned when the anchor asked for is not in the file.
var ErrNoAnchor = errors.New("anchor sequence not found")

// Detect guesses the format from the file name.
func Detect(fname string) numrec.Format {
	switch strings.ToLower(filepath.Ext(fname)) {
	case ".fa", ".fasta", ".afa", ".mfa", ".fas":
		return numrec.FASTA
	case ".sam":
		return numrec.SAM
	case ".gff", ".gff2", ".gff3", ".gtf":
		return numrec.GFF
	}
	return numrec.Unknown
}

// baseName is a file name without directory or extension, used when a
// source has no better name.
func baseName(fname string) string {
	b := filepath.Base(fname)
	return strings.TrimSuffix(b, filepath.Ext(b))
}

// content is the bytes of a source, either mapped or read in full.
type content struct {
	data   []byte
	closer io.Closer
}

func mapFile(fname string) (content, error) {
	m, err := numrec.Open(fname)
	if err != nil {
		return content{}, err
	}
	return content{data: m.Bytes(), closer: m}, nil
}

func readAll(r io.Reader) (content, error) {
	b, err := io.ReadAll(r)
	return content{data: b}, err
}

// Close releases a mapped file. Iterators must not be used afterwards.
func (c *content) Close() error {
	if c.closer == nil {
		return nil
	}
	err := c.closer.Close()
	c.closer, c.data = nil, nil
	return err
}

// badAlignment carries an error found while reading, so the smear counts
// the alignment as skipped.
type badAlignment struct{ err error }

func (b badAlignment) Decompose() (smear.Blocks, error) {
	return smear.Blocks{}, b.err
}

// handle is an anchor known only by name and length.
type handle struct {
	name string
	n    int
}

func (h handle) Name() string { return h.name }
func (h handle) Len() int     { return h.n }
