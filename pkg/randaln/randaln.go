// 31 July 2020

// Package randaln makes random alignments against a random anchor, for
// testing and benchmarking. Output is an aligned fasta file, anchor
// first, or a SAM file with one record per alignment.
package randaln

import (
	"errors"
	"fmt"
	"io"
	"math/rand"
	"strings"
	"sync"

	"github.com/andrew-torda/smear/pkg/numrec"
	"github.com/andrew-torda/smear/pkg/seq/common"
)

const (
	nPadWhite = 9 // For padding for adding whitespace to sequences
)

var letters = []byte{'a', 'c', 'd', 'e', 'f', 'g',
	'h', 'i', 'k', 'l', 'm', 'n', 'p', 'q', 'r', 's', 't', 'v', 'w', 'y'}

// RandAlnArgs is the set of arguments passed to the main function
type RandAlnArgs struct {
	Iseed   int64         // random number seed
	Wrtr    io.Writer     // where we write to
	Cmmt    string        // Name of the anchor, prefix for the others
	Nseq    int           // number of aligned sequences, not counting the anchor
	Len     int           // Length of the anchor
	GapFrac float64       // chance that a column inside an alignment is a gap
	Format  numrec.Format // FASTA or SAM
	MkErr   bool          // Add an error, by changing a length
}

// getseq returns a byte slice with a random sequence in it, with spare
// capacity for white space.
func getseq(seqlen int, rnd *rand.Rand) []byte {
	space := seqlen + (seqlen / nPadWhite) // about 10% rubbish white space
	ret := make([]byte, seqlen, space)
	for i := range ret {
		ret[i] = letters[rnd.Intn(len(letters))]
	}
	return ret
}

// span picks where an alignment starts and stops on the anchor.
func span(n int, rnd *rand.Rand) (from, to int) {
	from = rnd.Intn(n)
	to = from + rnd.Intn(n-from)
	return
}

// getrow returns a row aligned to an ungapped anchor of length n. Outside
// the span is overhang.
func getrow(n int, gapFrac float64, rnd *rand.Rand) []byte {
	row := getseq(n, rnd)
	from, to := span(n, rnd)
	for i := range row {
		if i < from || i > to || (i != from && rnd.Float64() < gapFrac) {
			row[i] = common.GapChar
		}
	}
	return row
}

// addInner is used by addspace to add a space or newline
func addInner(s []byte, n int, c byte, rnd *rand.Rand) []byte {
	for i := 0; i < n; i++ {
		s = append(s, 0)
		pos := rnd.Intn(len(s))
		copy(s[pos+1:], s[pos:])
		s[pos] = c
	}
	return s
}

// addspace fills the spare capacity of s with white space at random
// positions. Heads we don't add a newline. Tails about 1/9 of the spaces
// are newlines.
func addspace(s []byte, rnd *rand.Rand) []byte {
	toAdd := cap(s) - len(s)
	nNL := 0
	if rnd.Intn(2) == 0 {
		nNL = toAdd / 9
	}
	s = addInner(s, toAdd-nNL, ' ', rnd)
	return addInner(s, nNL, '\n', rnd)
}

// writeseq adds a comment to each sequence and writes it. The first is the
// anchor.
func writeseq(sChan <-chan []byte, args *RandAlnArgs, wg *sync.WaitGroup, errp *error) {
	defer wg.Done()
	width := len(fmt.Sprintf("%d", args.Nseq))
	spacernd := rand.New(rand.NewSource(args.Iseed + 1))
	i := -1
	for s := range sChan {
		i++
		if *errp != nil {
			continue
		}
		var cmmt string
		if i == 0 {
			cmmt = fmt.Sprintf("> %s\n", args.Cmmt)
		} else {
			s = addspace(s, spacernd)
			cmmt = fmt.Sprintf("> %s_%0[2]*d\n", args.Cmmt, width, i)
		}
		if _, err := fmt.Fprintf(args.Wrtr, "%s%s\n", cmmt, s); err != nil {
			*errp = err
		}
	}
}

// cigar turns a row into SAM fields. Gaps in the row become deletions.
func cigar(row []byte) (pos int, cig string) {
	from := strings.IndexFunc(string(row), func(r rune) bool { return r != rune(common.GapChar) })
	to := strings.LastIndexFunc(string(row), func(r rune) bool { return r != rune(common.GapChar) })
	var sb strings.Builder
	op, n := byte(0), 0
	for _, c := range row[from : to+1] {
		o := byte('M')
		if c == common.GapChar {
			o = 'D'
		}
		if o != op && n > 0 {
			fmt.Fprintf(&sb, "%d%c", n, op)
			n = 0
		}
		op = o
		n++
	}
	fmt.Fprintf(&sb, "%d%c", n, op)
	return from, sb.String()
}

// writeSAM writes the header then one record per row.
func writeSAM(sChan <-chan []byte, args *RandAlnArgs, wg *sync.WaitGroup, errp *error) {
	defer wg.Done()
	flagrnd := rand.New(rand.NewSource(args.Iseed + 1))
	i := -1
	for s := range sChan {
		i++
		if *errp != nil {
			continue
		}
		var err error
		if i == 0 {
			_, err = fmt.Fprintf(args.Wrtr, "@HD\tVN:1.6\tSO:unsorted\n@SQ\tSN:%s\tLN:%d\n", args.Cmmt, len(s))
		} else {
			flag := 0
			if flagrnd.Intn(2) == 1 {
				flag = 16
			}
			pos, cig := cigar(s)
			_, err = fmt.Fprintf(args.Wrtr, "r%d\t%d\t%s\t%d\t60\t%s\t*\t0\t0\t*\t*\n",
				i, flag, args.Cmmt, pos+1, cig)
		}
		if err != nil {
			*errp = err
		}
	}
}

// RandAlnMain writes a random alignment to args.Wrtr.
func RandAlnMain(args *RandAlnArgs) error {
	if args.Len < 1 || args.Nseq < 0 {
		return fmt.Errorf("need a positive length, got %d and %d sequences", args.Len, args.Nseq)
	}
	if args.Cmmt == "" {
		args.Cmmt = "anchor"
	}
	var wrt func(<-chan []byte, *RandAlnArgs, *sync.WaitGroup, *error)
	switch args.Format {
	case numrec.FASTA:
		wrt = writeseq
	case numrec.SAM:
		wrt = writeSAM
	default:
		return errors.New("random alignments can only be written as fasta or sam")
	}
	var wg sync.WaitGroup
	var err error
	rnd := rand.New(rand.NewSource(args.Iseed))
	sChan := make(chan []byte)
	wg.Add(1)
	go wrt(sChan, args, &wg, &err)
	sChan <- getseq(args.Len, rnd)[:args.Len:args.Len]
	for i := 0; i < args.Nseq; i++ {
		row := getrow(args.Len, args.GapFrac, rnd)
		if args.MkErr && i == args.Nseq/2 {
			row = row[:len(row)-1]
		}
		sChan <- row
	}
	close(sChan)
	wg.Wait()
	return err
}
