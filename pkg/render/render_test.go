// 17 Oct 2026

package render_test

import (
	"bytes"
	"image/color"
	"image/png"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/andrew-torda/smear/pkg/density"
	"github.com/andrew-torda/smear/pkg/render"
	"github.com/andrew-torda/smear/pkg/smear"
)

// fixed is a track made straight from two maps.
type fixed struct {
	label    string
	seg, gap *density.Map[int32]
}

func (f fixed) Label() string                          { return f.label }
func (f fixed) Range() (int, int)                      { return f.seg.Range() }
func (f fixed) Window() float64                        { return f.seg.Window() }
func (f fixed) SmearSegBegin() *density.RunIter[int32] { return f.seg.RunLengthBegin() }
func (f fixed) SmearGapBegin() *density.RunIter[int32] { return f.gap.RunLengthBegin() }
func (f fixed) GetMaxValue() int32                     { return f.seg.GetMax() }

func newFixed(t *testing.T, label string, seg, gap []int32) fixed {
	t.Helper()
	f := fixed{label: label}
	var err error
	if f.seg, err = density.New(0, len(seg), 1, int32(0)); err != nil {
		t.Fatal(err)
	}
	if f.gap, err = density.New(0, len(gap), 1, int32(0)); err != nil {
		t.Fatal(err)
	}
	for i := range seg {
		f.seg.SetCell(i, seg[i])
		f.gap.SetCell(i, gap[i])
	}
	return f
}

func TestDraw(t *testing.T) {
	long := newFixed(t, "one", []int32{0, 1, 2, 2}, []int32{4, 0, 0, 0})
	short := newFixed(t, "two", []int32{0, 0}, []int32{0, 0})
	opt := render.Options{StripHeight: 5, LabelWidth: 30}
	img, err := render.Draw([]render.Track{long, short}, opt)
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != 34 || b.Dy() != 24 {
		t.Fatalf("got %v", b)
	}
	opt.Defaults()
	white := opt.Background
	tests := []struct {
		x, y int
		want color.RGBA
	}{
		{30, 0, white},
		{32, 1, opt.Seg},
		{33, 4, opt.Seg},
		{30, 5, opt.Gap}, // clamped
		{31, 9, white},
		{33, 12, white}, // past the end of the short track
	}
	for _, tt := range tests {
		if got := img.RGBAAt(tt.x, tt.y); got != tt.want {
			t.Errorf("(%d, %d) got %v wanted %v", tt.x, tt.y, got, tt.want)
		}
	}
	half := img.RGBAAt(31, 0)
	if half == white || half == opt.Seg {
		t.Fatalf("half intensity got %v", half)
	}
	labelInk := false
	for x := 0; x < 28 && !labelInk; x++ {
		for y := 0; y < 12; y++ {
			if img.RGBAAt(x, y) != white {
				labelInk = true
				break
			}
		}
	}
	if !labelInk {
		t.Fatal("label was not drawn")
	}
}

func TestIntensity(t *testing.T) {
	s, err := smear.New(nil, 0, 4, 1, smear.Both)
	if err != nil {
		t.Fatal(err)
	}
	if m := render.Intensity(s); m.Mat[0][0] != 0 {
		t.Fatal("empty smear should be zero")
	}
	s2, _ := smear.New(nil, 0, 4, 1, smear.Both)
	s2.AddSparse(&smear.SparseAlignment{Strand: smear.Plus, Blocks: []smear.Block{{Anchor: 0, Other: 0, Len: 1}, {Anchor: 3, Other: 1, Len: 1}}})
	s2.AddSparse(&smear.SparseAlignment{Strand: smear.Plus, Blocks: []smear.Block{{Anchor: 0, Other: 0, Len: 1}}})
	m := render.Intensity(s2)
	if nr, nc := m.Size(); nr != 2 || nc != 4 {
		t.Fatalf("size %d x %d", nr, nc)
	}
	want := [][]float32{{1, 0, 0, 0.5}, {0, 0.5, 0.5, 0}}
	if diff := cmp.Diff(want, m.Mat); diff != "" {
		t.Fatalf("intensity (-want +got):\n%s", diff)
	}
}

// Cells of a wide window are painted from runs given in coordinates.
func TestIntensityWindowed(t *testing.T) {
	s, _ := smear.New(nil, 100, 130, 7.5, smear.Both)
	s.AddSparse(&smear.SparseAlignment{Blocks: []smear.Block{{Anchor: 108, Len: 5}}})
	s.AddSparse(&smear.SparseAlignment{Blocks: []smear.Block{{Anchor: 100, Len: 30}}})
	m := render.Intensity(s)
	if diff := cmp.Diff([]float32{0.5, 1, 0.5, 0.5}, m.Mat[0]); diff != "" {
		t.Fatalf("seg (-want +got):\n%s", diff)
	}
}

func TestWritePNG(t *testing.T) {
	s, err := smear.New(nil, 0, 20, 2, smear.Both)
	if err != nil {
		t.Fatal(err)
	}
	s.SetLabel("smear")
	s.AddSparse(&smear.SparseAlignment{Blocks: []smear.Block{{Anchor: 2, Len: 6}, {Anchor: 12, Len: 4}}})
	var buf bytes.Buffer
	if err := render.WritePNG(&buf, []render.Track{s}, render.Options{}); err != nil {
		t.Fatal(err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if img.Bounds().Dx() != 120+10 {
		t.Fatalf("width %d", img.Bounds().Dx())
	}
	if err := render.WritePNG(&buf, nil, render.Options{}); err == nil {
		t.Fatal("no tracks should fail")
	}
}
