package numrec_test

import (
	"os"
	"testing"

	"github.com/andrew-torda/smear/pkg/numrec"
	"github.com/andrew-torda/smear/pkg/randaln"
	"github.com/andrew-torda/smear/pkg/seq/common"
)

var smalltestArg = randaln.RandAlnArgs{
	Cmmt:   "test seq",
	Nseq:   2000,
	Len:    500,
	Format: numrec.FASTA,
}

func makeTestData(args randaln.RandAlnArgs) (string, error) {
	f_tmp, err := os.CreateTemp("", "_del_me_testing")
	if err != nil {
		return "", err
	}
	defer f_tmp.Close()
	args.Wrtr = f_tmp
	if err := randaln.RandAlnMain(&args); err != nil {
		return "", err
	}
	return f_tmp.Name(), nil
}

func TestCountFasta(t *testing.T) {
	fname, err := makeTestData(smalltestArg)
	if err != nil {
		t.Fatal(err)
	}
	defer os.Remove(fname)
	if i, err := numrec.Count(fname, numrec.FASTA); err != nil {
		t.Fatal(err)
	} else if i != smalltestArg.Nseq+1 {
		t.Fatal("Expected", smalltestArg.Nseq+1, "got", i)
	}
}

func TestCountBytes(t *testing.T) {
	tests := []struct {
		s    string
		f    numrec.Format
		want int
	}{
		{"> a\nAC>GT\n>b\nAC\n", numrec.FASTA, 2},
		{"@HD\tVN:1.6\n@SQ\tSN:c\tLN:9\nr1\t0\tc\nr2\t0\tc", numrec.SAM, 2},
		{"##gff-version 3\n\nc\tsrc\tmatch\t1\t9\t.\t+\t.\t.\n#\n", numrec.GFF, 1},
		{"", numrec.SAM, 0},
		{"r1\n", numrec.Unknown, 0},
	}
	for _, tt := range tests {
		if got := numrec.CountBytes([]byte(tt.s), tt.f); got != tt.want {
			t.Errorf("%s %q got %d wanted %d", tt.f, tt.s, got, tt.want)
		}
	}
}

func TestMapped(t *testing.T) {
	const s = "> x\nACGT\n"
	fname, err := common.WrtTemp(s)
	if err != nil {
		t.Fatal(err)
	}
	defer os.Remove(fname)
	m, err := numrec.Open(fname)
	if err != nil {
		t.Fatal(err)
	}
	if got := string(m.Bytes()); got != s {
		t.Fatalf("got %q wanted %q", got, s)
	}
	if err := m.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestEmptyAndMissing(t *testing.T) {
	fname, err := common.WrtTemp("")
	if err != nil {
		t.Fatal(err)
	}
	defer os.Remove(fname)
	if n, err := numrec.Count(fname, numrec.SAM); err != nil || n != 0 {
		t.Fatal("empty file got", n, err)
	}
	if _, err := numrec.Count(fname, numrec.Unknown); err == nil {
		t.Fatal("unknown format should fail")
	}
	if _, err := numrec.Count("/no/such/file", numrec.FASTA); err == nil {
		t.Fatal("missing file should fail")
	}
}

func BenchmarkCount(b *testing.B) {
	b.StopTimer()
	fname, err := makeTestData(smalltestArg)
	if err != nil {
		b.Fatal(err)
	}
	b.Cleanup(func() { os.Remove(fname) })
	b.StartTimer()
	for i := 0; i < b.N; i++ {
		if _, err := numrec.Count(fname, numrec.FASTA); err != nil {
			b.Fatal(err)
		}
	}
}
