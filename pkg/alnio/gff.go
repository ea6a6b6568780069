// 17 Oct 2026

package alnio

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"net/url"
	"strconv"
	"strings"

	"github.com/biogo/biogo/io/featio"
	"github.com/biogo/biogo/io/featio/gff"
	bseq "github.com/biogo/biogo/seq"
	log "github.com/sirupsen/logrus"

	"github.com/andrew-torda/smear/pkg/smear"
)

// GFFOptions pick the features of a GFF file.
type GFFOptions struct {
	Feature string // feature type, such as "match". Empty means all.
	Source  string // source column. Empty means all.
}

// GFFSource is the features of a GFF file on one sequence. Each feature is
// an alignment. A Gap attribute, as in "M8 D3 M6 I1", says where its gaps
// are. Without one, the feature is aligned end to end.
type GFFSource struct {
	content
	name   string
	anchor handle
	opts   GFFOptions
	n      int
}

// OpenGFF maps fname. anchor is the sequence name; if empty the first one
// seen is used.
func OpenGFF(fname, anchor string, opts GFFOptions) (*GFFSource, error) {
	c, err := mapFile(fname)
	if err != nil {
		return nil, err
	}
	g, err := newGFF(c, anchor, opts)
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("%s: %w", fname, err)
	}
	if g.name == "" {
		g.name = baseName(fname)
	}
	return g, nil
}

// ReadGFF is OpenGFF for a reader, which is read to the end.
func ReadGFF(r io.Reader, anchor string, opts GFFOptions) (*GFFSource, error) {
	c, err := readAll(r)
	if err != nil {
		return nil, err
	}
	return newGFF(c, anchor, opts)
}

// maxGFFLine bounds one line of a GFF file.
const maxGFFLine = 1 << 20

// v2Reader hands GFF3 to the GFF2 parser. Directive lines, starting "##",
// are dropped, since the parser refuses a version 3 header. In the
// attribute column "Tag=value" becomes "Tag value" with %XX escapes
// undone. A "##FASTA" line ends the features. GFF2 lines pass unchanged.
type v2Reader struct {
	sc   *bufio.Scanner
	line []byte
	buf  []byte // what is left of line to hand out
	done bool
}

func newV2Reader(data []byte) *v2Reader {
	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 0, 64*1024), maxGFFLine)
	return &v2Reader{sc: sc}
}

func (r *v2Reader) Read(p []byte) (int, error) {
	for len(r.buf) == 0 {
		if r.done || !r.sc.Scan() {
			if err := r.sc.Err(); err != nil {
				return 0, err
			}
			return 0, io.EOF
		}
		text := r.sc.Bytes()
		if bytes.HasPrefix(text, []byte("##")) {
			r.done = bytes.HasPrefix(text, []byte("##FASTA"))
			continue
		}
		r.line = append(v2Line(r.line[:0], text), '\n')
		r.buf = r.line
	}
	n := copy(p, r.buf)
	r.buf = r.buf[n:]
	return n, nil
}

// attrColumn is the ninth, zero based.
const attrColumn = 8

// v2Line appends line to dst with its GFF3 attributes in GFF2 spelling.
func v2Line(dst, line []byte) []byte {
	cols := bytes.SplitN(line, []byte{'\t'}, attrColumn+2)
	if len(cols) <= attrColumn {
		return append(dst, line...)
	}
	for i, col := range cols {
		if i > 0 {
			dst = append(dst, '\t')
		}
		if i != attrColumn {
			dst = append(dst, col...)
			continue
		}
		if bytes.Equal(bytes.TrimSpace(col), []byte(".")) {
			continue
		}
		for j, a := range bytes.Split(col, []byte{';'}) {
			if j > 0 {
				dst = append(dst, ';')
			}
			a = bytes.TrimSpace(a)
			tag, val, ok := bytes.Cut(a, []byte{'='})
			if !ok || bytes.ContainsAny(tag, " \t") {
				dst = append(dst, a...)
				continue
			}
			for _, c := range tag {
				if !isTagByte(c) {
					c = '_'
				}
				dst = append(dst, c)
			}
			dst = append(dst, ' ')
			if v, err := url.PathUnescape(string(val)); err == nil && !strings.ContainsAny(v, ";\t\n") {
				dst = append(dst, v...)
			} else {
				dst = append(dst, val...)
			}
		}
	}
	return dst
}

// isTagByte is what the GFF2 parser accepts in a tag.
func isTagByte(c byte) bool {
	return c == '_' || '0' <= c && c <= '9' || 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z'
}

// newGFF reads the file once to find the anchor, count the features and
// take a name from the source column.
func newGFF(c content, anchor string, opts GFFOptions) (*GFFSource, error) {
	g := &GFFSource{content: c, opts: opts}
	g.anchor.name = anchor
	sc := featio.NewScanner(gff.NewReader(newV2Reader(c.data)))
	for sc.Next() {
		f, ok := sc.Feat().(*gff.Feature)
		if !ok || !g.wanted(f) {
			continue
		}
		if g.anchor.name == "" {
			g.anchor.name = f.SeqName
		}
		if f.SeqName != g.anchor.name {
			continue
		}
		g.n++
		if g.name == "" {
			g.name = f.Source
		}
		if f.FeatEnd > g.anchor.n {
			g.anchor.n = f.FeatEnd
		}
	}
	if err := sc.Error(); err != nil {
		return nil, fmt.Errorf("reading gff: %w", err)
	}
	if g.n == 0 {
		return nil, fmt.Errorf("%w: no features on %q", ErrNoAnchor, g.anchor.name)
	}
	if n, ok := seqRegion(c.data, g.anchor.name); ok {
		g.anchor.n = n
	}
	log.WithFields(log.Fields{"name": g.name, "anchor": g.anchor.name, "features": g.n}).Debug("gff source")
	return g, nil
}

// seqRegion looks for a "##sequence-region name start end" line and
// returns end.
func seqRegion(data []byte, name string) (int, bool) {
	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 0, 64*1024), maxGFFLine)
	for sc.Scan() {
		f := strings.Fields(sc.Text())
		if len(f) == 4 && f[0] == "##sequence-region" && f[1] == name {
			if n, err := strconv.Atoi(f[3]); err == nil {
				return n, true
			}
		}
	}
	return 0, false
}

// wanted checks the feature type and source, but not the sequence.
func (g *GFFSource) wanted(f *gff.Feature) bool {
	return (g.opts.Feature == "" || f.Feature == g.opts.Feature) &&
		(g.opts.Source == "" || f.Source == g.opts.Source)
}

func (g *GFFSource) keep(f *gff.Feature) bool { return f.SeqName == g.anchor.name && g.wanted(f) }

// Name is the source column of the first feature kept.
func (g *GFFSource) Name() string { return g.name }

// Anchor has the length given by a sequence-region line or, failing that,
// the end of the last feature.
func (g *GFFSource) Anchor() smear.SequenceHandle { return g.anchor }

func (g *GFFSource) Len() int { return g.n }

func (g *GFFSource) Iter() smear.Iterator {
	return &gffIter{src: g, sc: featio.NewScanner(gff.NewReader(newV2Reader(g.data)))}
}

type gffIter struct {
	src *GFFSource
	sc  *featio.Scanner
	aln smear.Alignment
}

func (it *gffIter) Next() bool {
	for it.sc.Next() {
		f, ok := it.sc.Feat().(*gff.Feature)
		if ok && it.src.keep(f) {
			it.aln = fromFeature(f)
			return true
		}
	}
	return false
}

func (it *gffIter) Alignment() smear.Alignment { return it.aln }
func (it *gffIter) Err() error                 { return it.sc.Error() }

// attr finds a tag. GFF3 "Tag=value" pairs were rewritten as "Tag value"
// on the way in.
func attr(f *gff.Feature, tag string) (string, bool) {
	for _, a := range f.FeatAttributes {
		if a.Tag == tag {
			return a.Value, true
		}
	}
	return "", false
}

// fromFeature makes a feature into an alignment.
func fromFeature(f *gff.Feature) smear.Alignment {
	strand := smear.Plus
	if f.FeatStrand == bseq.Minus {
		strand = smear.Minus
	}
	gap, ok := attr(f, "Gap")
	if !ok {
		return &smear.SparseAlignment{
			Strand: strand,
			Blocks: []smear.Block{{Anchor: f.FeatStart, Len: f.FeatEnd - f.FeatStart}},
		}
	}
	a, end, err := ParseGap(gap, f.FeatStart)
	if err != nil {
		return badAlignment{err}
	}
	if end != f.FeatEnd {
		return badAlignment{fmt.Errorf("%w: Gap %q ends at %d, feature at %d", smear.ErrAdapt, gap, end, f.FeatEnd)}
	}
	a.Strand = strand
	return a
}

// ParseGap reads a Gap attribute, a list of operations each a letter
// and a count. M is aligned, D moves along the anchor only and I moves
// along the other sequence only. Frameshifts, F and R, are refused.
// Coordinates on the anchor start at from. end is one past the last
// anchor coordinate used.
func ParseGap(s string, from int) (a *smear.SparseAlignment, end int, err error) {
	a = &smear.SparseAlignment{}
	ref, qry := from, 0
	for _, op := range strings.Fields(s) {
		n, err := strconv.Atoi(op[1:])
		if err != nil || n <= 0 {
			return nil, 0, fmt.Errorf("%w: bad Gap operation %q", smear.ErrAdapt, op)
		}
		switch op[0] {
		case 'M':
			a.Blocks = append(a.Blocks, smear.Block{Anchor: ref, Other: qry, Len: n})
			ref += n
			qry += n
		case 'D':
			ref += n
		case 'I':
			qry += n
		default:
			return nil, 0, fmt.Errorf("%w: Gap operation %q not handled", smear.ErrAdapt, op)
		}
	}
	if len(a.Blocks) == 0 {
		return nil, 0, fmt.Errorf("%w: Gap %q has no matches", smear.ErrAdapt, s)
	}
	return a, ref, nil
}
