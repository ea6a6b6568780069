// 3 Aug 2020

// Package numrec counts the records in an alignment file without parsing
// it, so a reader can say how far through it is. Files are memory mapped.
package numrec

import (
	"bytes"
	"fmt"
	"os"

	"github.com/edsrzf/mmap-go"
)

// Format is the kind of file. It decides what counts as a record.
type Format uint8

const (
	Unknown Format = iota
	FASTA          // a line starting with ">"
	SAM            // a line not starting with "@"
	GFF            // a line not starting with "#"
)

func (f Format) String() string {
	switch f {
	case FASTA:
		return "fasta"
	case SAM:
		return "sam"
	case GFF:
		return "gff"
	}
	return "unknown"
}

// Mapped is a read-only memory mapped file.
type Mapped struct {
	fp *os.File
	mm mmap.MMap
}

// Open maps fname. An empty file is allowed and gives no bytes.
func Open(fname string) (*Mapped, error) {
	fp, err := os.Open(fname)
	if err != nil {
		return nil, err
	}
	fi, err := fp.Stat()
	if err != nil {
		fp.Close()
		return nil, err
	}
	m := &Mapped{fp: fp}
	if fi.Size() == 0 {
		return m, nil
	}
	if m.mm, err = mmap.Map(fp, mmap.RDONLY, 0); err != nil {
		fp.Close()
		return nil, fmt.Errorf("mapping %s: %w", fname, err)
	}
	return m, nil
}

// Bytes is the whole file. It is only valid until Close.
func (m *Mapped) Bytes() []byte { return m.mm }

// Close unmaps and closes the file.
func (m *Mapped) Close() error {
	var err error
	if m.mm != nil {
		err = m.mm.Unmap()
		m.mm = nil
	}
	if cerr := m.fp.Close(); err == nil {
		err = cerr
	}
	return err
}

// keep says whether a line, without its newline, starts a record.
func keep(f Format, line []byte) bool {
	if len(bytes.TrimSpace(line)) == 0 {
		return false
	}
	switch f {
	case FASTA:
		return line[0] == '>'
	case SAM:
		return line[0] != '@'
	case GFF:
		return line[0] != '#'
	}
	return false
}

// CountBytes counts the records of format f in b.
func CountBytes(b []byte, f Format) int {
	n := 0
	for len(b) > 0 {
		var line []byte
		if i := bytes.IndexByte(b, '\n'); i == -1 {
			line, b = b, nil
		} else {
			line, b = b[:i], b[i+1:]
		}
		if keep(f, line) {
			n++
		}
	}
	return n
}

// Count maps fname and counts its records.
func Count(fname string, f Format) (int, error) {
	if f == Unknown {
		return 0, fmt.Errorf("cannot count records in %s of unknown format", fname)
	}
	m, err := Open(fname)
	if err != nil {
		return 0, err
	}
	defer m.Close()
	return CountBytes(m.Bytes(), f), nil
}
