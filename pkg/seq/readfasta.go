// Reader for fasta format files.

package seq

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/andrew-torda/smear/pkg/seq/common"
	"github.com/andrew-torda/smear/pkg/white"
)

// An item is terminated by a newline if we are in a comment or a comment
// character ">" if we are in a sequence.
const NL = '\n'

type item struct {
	data     []byte
	complete bool
}

// lexer has two halves. next runs in its own goroutine, reads and
// chops the input. The state functions run in the caller's goroutine.
// rdErr belongs to next until ichan is closed.
type lexer struct {
	input    []byte
	ichan    chan *item
	seqgrp   *SeqGrp
	opts     *Options
	rdr      io.Reader
	itempool sync.Pool
	cmmt     string // partial comment
	seq      []byte // partial sequence
	term     byte
	rdErr    error
	err      error
}

const defaultReadSize = 64 * 1024

var rdsize int = defaultReadSize

// setFastaRdSize is only used during testing and benchmarking
func setFastaRdSize(i int) {
	if i <= 2 {
		panic("setFastaRdSize given buffer length of 2 or less")
	}
	rdsize = i
}

func newItem() interface{} { return new(item) }

// next reads from the input and sends an item to channel, ichan.
// An item is terminated by l.term, or the end of the buffer or
// end of input. At the end, a last, empty, complete item flushes
// whatever the reader was holding.
func (l *lexer) next() {
	defer close(l.ichan)
	for {
		if len(l.input) == 0 {
			buf := make([]byte, rdsize)
			n, err := l.rdr.Read(buf)
			if n == 0 {
				if err == nil {
					continue
				}
				if err != io.EOF {
					l.rdErr = err
				}
				l.ichan <- &item{complete: true}
				return
			}
			l.input = buf[:n]
		}
		item := l.itempool.Get().(*item)
		if ndx := bytes.IndexByte(l.input, l.term); ndx == -1 {
			item.data = l.input // no terminator found, so just send
			l.input = nil       // back whatever we have in the buffer.
			item.complete = false
		} else {
			item.data = l.input[:ndx]
			item.complete = true
			l.input = l.input[ndx+1:]
			if l.term == NL {
				l.term = cmmtChar
			} else {
				l.term = NL
			}
		}
		l.ichan <- item
	}
}

func (l *lexer) put(it *item) {
	it.data = nil
	l.itempool.Put(it)
}

type stateFn func(*lexer) stateFn

// gstart skips white space before the first comment.
func gstart(l *lexer) stateFn {
	item := <-l.ichan
	if item == nil {
		return nil
	}
	defer l.put(item)
	if len(bytes.TrimSpace(item.data)) != 0 {
		l.err = fmt.Errorf("fasta input does not start with %q, found %q",
			cmmtChar, trimStr(string(item.data), 20))
		return nil
	}
	if item.complete {
		return gcmmt
	}
	return gstart
}

// gseq reads a sequence
func gseq(l *lexer) stateFn {
	item := <-l.ichan
	if item == nil {
		l.err = fmt.Errorf("no sequence after comment %q", trimStr(l.cmmt, 40))
		return nil
	}
	defer l.put(item)

	white.Remove(&item.data)
	if l.opts.RmvGapsRd {
		gapRemove(&item.data)
	}
	l.seq = append(l.seq, item.data...)
	if !item.complete {
		return gseq
	}
	if len(l.seq) == 0 && !l.opts.ZeroLenOK {
		l.err = fmt.Errorf("zero length sequence after %q", trimStr(l.cmmt, 40))
		return nil
	}
	l.seqgrp.seqs = append(l.seqgrp.seqs, Seq{cmmt: l.cmmt, seq: l.seq})
	l.cmmt = ""
	l.seq = nil
	return gcmmt
}

// gcmmt reads a comment
func gcmmt(l *lexer) stateFn {
	item := <-l.ichan
	if item == nil {
		return nil
	}
	defer l.put(item)

	l.cmmt = l.cmmt + string(item.data)
	if item.complete {
		l.cmmt = strings.TrimRight(l.cmmt, "\r")
		return gseq
	}
	return gcmmt
}

// gapRemove squeezes gap characters out of *b in place.
func gapRemove(b *[]byte) {
	s := *b
	n := 0
	for _, c := range s {
		if c != common.GapChar {
			s[n] = c
			n++
		}
	}
	*b = s[:n]
}

// ReadFasta reads fasta formatted sequences into seqgrp, replacing
// whatever was there. s_opts may be nil.
func ReadFasta(rdr io.Reader, seqgrp *SeqGrp, s_opts *Options) error {
	if s_opts == nil {
		s_opts = &Options{}
	}
	seqgrp.seqs = nil
	l := lexer{rdr: rdr, ichan: make(chan *item, 2), seqgrp: seqgrp, opts: s_opts, term: cmmtChar}
	l.itempool.New = newItem

	go l.next()
	for state := gstart; state != nil; {
		state = state(&l)
	}
	for range l.ichan { // let next finish
	}
	switch {
	case l.rdErr != nil:
		return l.rdErr
	case l.err != nil:
		return l.err
	case seqgrp.NSeq() == 0:
		return errors.New("no sequences found")
	case !s_opts.DiffLenSeq:
		return seqgrp.checkLengths()
	}
	return nil
}
