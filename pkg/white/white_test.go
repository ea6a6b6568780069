// 16 Oct 2026
package white_test

import (
	"testing"

	. "github.com/andrew-torda/smear/pkg/white"
)

var tricky = []string{
	"abcdefghijk",
	" a b c d e f g h i j k",
	"a b c de fgh ijk",
	"   abcdefghijk    ",
	"a   b      cdefghijk\n ",
	"a  b  c  d   e    f     ghijk",
	"a bcdefghij   k",
	"abcdefghij\nk",
	"a\tb\r\nc\vdefghijk\f",
}

func TestRemove(t *testing.T) {
	for _, f := range []func(*[]byte){Remove, RemoveByFields} {
		for _, s := range tricky {
			b := []byte(s)
			f(&b)
			if string(b) != "abcdefghijk" {
				t.Fatalf("white remove broke on \"%s\" got \"%s\"", s, b)
			}
		}
	}
}

func TestRemoveAllWhite(t *testing.T) {
	b := []byte(" \n\t ")
	c := cap(b)
	Remove(&b)
	if len(b) != 0 || cap(b) != c {
		t.Fatalf("got len %d cap %d wanted 0 %d", len(b), cap(b), c)
	}
	if !IsWhite('\n') || IsWhite('-') {
		t.Fatal("IsWhite")
	}
}
