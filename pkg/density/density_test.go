// 14 Oct 2026

package density_test

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"

	. "github.com/andrew-torda/smear/pkg/density"
)

// runs drains an iterator.
func runs[T Number](m *Map[T]) []Run[T] {
	var rr []Run[T]
	for it := m.RunLengthBegin(); ; {
		r, ok := it.Next()
		if !ok {
			return rr
		}
		rr = append(rr, r)
	}
}

func TestNewBad(t *testing.T) {
	bad := []struct {
		start, stop int
		window      float64
	}{
		{5, 5, 1}, {5, 4, 1}, {0, 10, 0.5}, {0, 10, 0}, {0, 10, math.NaN()}, {0, 10, math.Inf(1)},
	}
	for _, b := range bad {
		m, err := New(b.start, b.stop, b.window, int32(0))
		if err == nil || m != nil {
			t.Fatalf("[%d, %d) w %g should fail", b.start, b.stop, b.window)
		}
		if !errors.Is(err, ErrInvalidRange) {
			t.Fatalf("got %v, want ErrInvalidRange", err)
		}
		var rerr *RangeError
		if !errors.As(err, &rerr) || rerr.Start != b.start || rerr.Stop != b.stop {
			t.Fatalf("RangeError not carried, got %#v", err)
		}
	}
}

func TestCellCount(t *testing.T) {
	tests := []struct {
		start, stop int
		window      float64
		want        int
	}{
		{0, 10, 1, 10}, {0, 10, 5, 2}, {0, 10, 3, 4}, {100, 101, 7, 1}, {-10, 10, 2.5, 8},
	}
	for _, tt := range tests {
		m, err := New(tt.start, tt.stop, tt.window, 0)
		if err != nil {
			t.Fatal(err)
		}
		if m.Len() != tt.want {
			t.Errorf("[%d, %d) w %g got %d cells want %d", tt.start, tt.stop, tt.window, m.Len(), tt.want)
		}
	}
}

func TestIndex(t *testing.T) {
	for _, w := range []float64{1, 2, 3, 7, 1.5, 2.25} {
		m, err := New(17, 120, w, int32(0))
		if err != nil {
			t.Fatal(err)
		}
		for c := 17; c < 120; c++ {
			i, ok := m.Index(c)
			want := int(math.Floor(float64(c-17) / w))
			if !ok || i != want {
				t.Fatalf("w %g coord %d got %d %v want %d", w, c, i, ok, want)
			}
			if j, _ := m.Index(c); j != i {
				t.Fatalf("index not stable for %d", c)
			}
		}
		for _, c := range []int{16, 120, -1000, 1000} {
			if _, ok := m.Index(c); ok {
				t.Fatalf("coord %d should be outside", c)
			}
		}
	}
}

func TestUniform(t *testing.T) {
	m, _ := New(0, 10, 1, 0)
	for i := 0; i < 3; i++ {
		m.AddRange(Range{2, 6}, 1, Sum)
	}
	want := []Run[int]{{0, 1, 0}, {2, 6, 3}, {7, 9, 0}}
	if diff := cmp.Diff(want, runs(m)); diff != "" {
		t.Fatalf("runs (-want +got):\n%s", diff)
	}
	if m.GetMax() != 3 {
		t.Fatalf("max got %d want 3", m.GetMax())
	}
}

func TestWindowed(t *testing.T) {
	m, _ := New(0, 10, 5, int32(0))
	if m.Len() != 2 {
		t.Fatalf("got %d cells", m.Len())
	}
	m.AddValue(3, 1, Sum)
	m.AddValue(7, 1, Sum)
	if m.GetCell(0) != 1 || m.GetCell(1) != 1 {
		t.Fatalf("cells %v", m.Values())
	}
	if m.GetMax() != 1 {
		t.Fatalf("max %d", m.GetMax())
	}
	want := []Run[int32]{{0, 9, 1}}
	if diff := cmp.Diff(want, runs(m)); diff != "" {
		t.Fatalf("runs (-want +got):\n%s", diff)
	}
}

func TestAddRangeWindowed(t *testing.T) {
	m, _ := New(0, 100, 10, 0)
	m.AddRange(Range{5, 34}, 1, Sum)
	want := []int{5, 10, 10, 5, 0, 0, 0, 0, 0, 0}
	if diff := cmp.Diff(want, m.Values()); diff != "" {
		t.Fatalf("cells (-want +got):\n%s", diff)
	}
	m.AddRange(Range{0, 99}, 7, Max)
	m.AddRange(Range{95, 99}, 2, Overwrite)
	want = []int{7, 10, 10, 7, 7, 7, 7, 7, 7, 2}
	if diff := cmp.Diff(want, m.Values()); diff != "" {
		t.Fatalf("max and overwrite (-want +got):\n%s", diff)
	}
}

// AddRange gives what AddValue on each coordinate gives.
func TestAddRangeMatchesAddValue(t *testing.T) {
	rnd := rand.New(rand.NewSource(3))
	for _, w := range []float64{1, 5, 3, 1.5, 3.9, 12.25} {
		byRange, _ := New(3, 90, w, int32(0))
		byValue, _ := New(3, 90, w, int32(0))
		for i := 0; i < 30; i++ {
			from := rnd.Intn(100) - 5
			r := Range{from, from + rnd.Intn(25)}
			delta := int32(rnd.Intn(5) - 1)
			byRange.AddRange(r, delta, Sum)
			for c := r.From; c <= r.To; c++ {
				byValue.AddValue(c, delta, Sum)
			}
		}
		if diff := cmp.Diff(byValue.Values(), byRange.Values()); diff != "" {
			t.Fatalf("w %g (-AddValue +AddRange):\n%s", w, diff)
		}
	}
	m, _ := New(0, 10, 5, int32(0))
	m.AddRange(Range{0, 9}, 1, Sum)
	if m.GetCell(0) != 5 || m.GetCell(1) != 5 {
		t.Fatalf("got %v wanted [5 5]", m.Values())
	}
}

func TestAddRangesOnce(t *testing.T) {
	m, _ := New(0, 40, 10, 0)
	rr := []Range{{-5, 2}, {4, 6}, {8, 12}, {25, 26}, {28, 29}}
	m.AddRangesOnce(rr, 1, Sum)
	if diff := cmp.Diff([]int{1, 1, 1, 0}, m.Values()); diff != "" {
		t.Fatalf("once (-want +got):\n%s", diff)
	}
	m.Clear()
	m.AddRanges(rr, 1, Sum)
	if diff := cmp.Diff([]int{8, 3, 4, 0}, m.Values()); diff != "" {
		t.Fatalf("plain (-want +got):\n%s", diff)
	}
	m.Clear()
	m.AddRangesOnce([]Range{{5, 34}}, 1, Sum)
	if diff := cmp.Diff([]int{1, 1, 1, 1}, m.Values()); diff != "" {
		t.Fatalf("one range (-want +got):\n%s", diff)
	}
}

func TestOutside(t *testing.T) {
	m, _ := New(100, 200, 3, 0)
	m.AddRange(Range{0, 99}, 5, Sum)
	m.AddRange(Range{200, 400}, 5, Max)
	m.AddRange(Range{150, 140}, 5, Overwrite)
	m.AddValue(99, 5, Sum)
	m.AddValue(200, 5, Sum)
	for i, v := range m.Values() {
		if v != 0 {
			t.Fatalf("cell %d changed to %d", i, v)
		}
	}
	m.AddRange(Range{50, 101}, 1, Sum) // overhang is clipped
	if m.GetCell(0) != 2 || m.GetCell(1) != 0 {
		t.Fatalf("overhang: %v", m.Values()[:3])
	}
}

func TestCombine(t *testing.T) {
	m, _ := New(0, 4, 1, 2.0)
	m.AddValue(0, 1.5, Sum)
	m.AddValue(1, 1.5, Max)
	m.AddValue(2, 5, Max)
	m.AddValue(3, -1, Overwrite)
	want := []float64{3.5, 2, 5, -1}
	if diff := cmp.Diff(want, m.Values()); diff != "" {
		t.Fatalf("cells (-want +got):\n%s", diff)
	}
	if Sum.String() != "sum" || Combine(9).String() != "Combine(9)" {
		t.Fatal("Combine names")
	}
}

func TestSaturate(t *testing.T) {
	m, _ := New(0, 2, 1, int8(0))
	for i := 0; i < 300; i++ {
		m.AddValue(0, 1, Sum)
		m.AddValue(1, -1, Sum)
	}
	if m.GetCell(0) != math.MaxInt8 || m.GetCell(1) != math.MinInt8 {
		t.Fatalf("got %v", m.Values())
	}
	w, _ := New(0, 300, 300, int8(0))
	w.AddRange(Range{0, 299}, 1, Sum)
	if w.GetCell(0) != math.MaxInt8 {
		t.Fatalf("range got %d", w.GetCell(0))
	}
	w.SetCell(0, -100)
	w.AddRange(Range{0, 199}, 1, Sum)
	if w.GetCell(0) != 100 {
		t.Fatalf("from -100 got %d wanted 100", w.GetCell(0))
	}
	w.AddRange(Range{0, 299}, -3, Sum)
	if w.GetCell(0) != math.MinInt8 {
		t.Fatalf("down got %d", w.GetCell(0))
	}
	u, _ := New(0, 1, 1, uint16(math.MaxUint16-1))
	u.AddValue(0, 5, Sum)
	if u.GetCell(0) != math.MaxUint16 {
		t.Fatalf("unsigned got %d", u.GetCell(0))
	}
}

func TestClear(t *testing.T) {
	m, _ := New(0, 10, 2, -1)
	m.AddRange(Range{0, 9}, 4, Overwrite)
	m.Clear()
	if m.GetMax() != -1 || m.Default() != -1 {
		t.Fatalf("after clear max %d", m.GetMax())
	}
	m.SetCell(2, 7)
	if m.GetCell(2) != 7 {
		t.Fatal("SetCell")
	}
}

// The order of Sum calls does not matter.
func TestSumOrder(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))
	var rr []Range
	for i := 0; i < 200; i++ {
		a := rnd.Intn(120) - 10
		rr = append(rr, Range{a, a + rnd.Intn(30)})
	}
	a, _ := New(0, 100, 3, 0)
	b, _ := New(0, 100, 3, 0)
	a.AddRanges(rr, 1, Sum)
	for _, i := range rnd.Perm(len(rr)) {
		b.AddRange(rr[i], 1, Sum)
	}
	if diff := cmp.Diff(a.Values(), b.Values()); diff != "" {
		t.Fatalf("order changed result:\n%s", diff)
	}
}

// Runs cover [start, stop) exactly, and each run's value is that of every
// cell under it.
func TestRunCoverage(t *testing.T) {
	rnd := rand.New(rand.NewSource(2))
	for _, w := range []float64{1, 2, 3, 10, 1.5, 3.9, 7.25} {
		m, err := New(-13, 101, w, 0)
		if err != nil {
			t.Fatal(err)
		}
		for i := 0; i < 20; i++ {
			a := rnd.Intn(130) - 20
			m.AddRange(Range{a, a + rnd.Intn(40)}, 1, Sum)
		}
		next := -13
		for _, r := range runs(m) {
			if r.From != next || r.To < r.From {
				t.Fatalf("w %g run %+v, expected it to start at %d", w, r, next)
			}
			for c := r.From; c <= r.To; c++ {
				i, _ := m.Index(c)
				if m.GetCell(i) != r.Value {
					t.Fatalf("w %g coord %d cell %d != run value %d", w, c, m.GetCell(i), r.Value)
				}
			}
			next = r.To + 1
		}
		if next != 101 {
			t.Fatalf("w %g runs stopped at %d", w, next)
		}
	}
}

// A window of 3.9 over 4 bases leaves the second cell with no bases.
func TestEmptyLastCell(t *testing.T) {
	m, _ := New(0, 4, 3.9, 0)
	m.SetCell(1, 9)
	want := []Run[int]{{0, 3, 0}}
	if diff := cmp.Diff(want, runs(m)); diff != "" {
		t.Fatalf("runs (-want +got):\n%s", diff)
	}
}

// The iterator is single pass.
func TestRunIterExhausted(t *testing.T) {
	m, _ := New(0, 3, 1, 0)
	it := m.RunLengthBegin()
	if _, ok := it.Next(); !ok {
		t.Fatal("no first run")
	}
	for i := 0; i < 3; i++ {
		if _, ok := it.Next(); ok {
			t.Fatal("iterator should stay exhausted")
		}
	}
	if len(runs(m)) != 1 {
		t.Fatal("fresh iterator should restart")
	}
}

func BenchmarkAddRange(b *testing.B) {
	m, _ := New(0, 10_000_000, 1000, int32(0))
	r := Range{1000, 9_000_000}
	for i := 0; i < b.N; i++ {
		m.AddRange(r, 1, Sum)
	}
}
