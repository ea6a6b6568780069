// 17 Oct 2026

// Package render draws smears as heat strips, one row per smear. Each
// row has its label on the left, a coverage strip and under it a gap
// strip. A cell is one pixel wide, so the window of a smear sets the
// width of the picture.
package render

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"math"
	"sync"

	"github.com/andrew-torda/matrix"
	"github.com/golang/freetype"
	"github.com/golang/freetype/truetype"
	log "github.com/sirupsen/logrus"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/andrew-torda/smear/pkg/density"
)

// Track is what gets drawn. *smear.Smear satisfies it. Only the runs and
// the highest coverage are read.
type Track interface {
	Label() string
	Range() (start, stop int)
	Window() float64
	SmearSegBegin() *density.RunIter[int32]
	SmearGapBegin() *density.RunIter[int32]
	GetMaxValue() int32
}

// Intensity paints the runs of t into a matrix, row 0 for coverage and
// row 1 for gaps, one column per cell, scaled by the highest coverage.
// Gap values can exceed 1 when there are more gaps than coverage
// anywhere. With no coverage, everything is 0.
func Intensity(t Track) *matrix.FMatrix2d {
	start, stop := t.Range()
	w := t.Window()
	n := int(math.Ceil(float64(stop-start) / w))
	mat := matrix.NewFMatrix2d(2, n)
	max := t.GetMaxValue()
	if max <= 0 {
		return mat
	}
	scale := 1 / float32(max)
	cell := func(c int) int { return min(int(math.Floor(float64(c-start)/w)), n-1) }
	for row, it := range []*density.RunIter[int32]{t.SmearSegBegin(), t.SmearGapBegin()} {
		for r, ok := it.Next(); ok; r, ok = it.Next() {
			v := float32(r.Value) * scale
			for i := cell(r.From); i <= cell(r.To); i++ {
				mat.Mat[row][i] = v
			}
		}
	}
	return mat
}

// Options for drawing. The zero value is filled in by Defaults.
type Options struct {
	StripHeight int     // pixels for each of the coverage and gap strips
	LabelWidth  int     // pixels kept for the label
	FontSize    float64 // points at 72 dpi
	Seg, Gap    color.RGBA
	Background  color.RGBA
}

// Defaults fills in anything left zero.
func (o *Options) Defaults() {
	if o.StripHeight <= 0 {
		o.StripHeight = 12
	}
	if o.LabelWidth <= 0 {
		o.LabelWidth = 120
	}
	if o.FontSize <= 0 {
		o.FontSize = 11
	}
	if o.Seg == (color.RGBA{}) {
		o.Seg = color.RGBA{R: 0x1f, G: 0x4e, B: 0xa8, A: 0xff}
	}
	if o.Gap == (color.RGBA{}) {
		o.Gap = color.RGBA{R: 0xd6, G: 0x27, B: 0x28, A: 0xff}
	}
	if o.Background == (color.RGBA{}) {
		o.Background = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	}
}

// shade mixes c into bg. f is clamped to [0, 1].
func shade(bg, c color.RGBA, f float32) color.RGBA {
	switch {
	case f < 0:
		f = 0
	case f > 1:
		f = 1
	}
	mix := func(a, b uint8) uint8 { return uint8(float32(a) + f*(float32(b)-float32(a)) + 0.5) }
	return color.RGBA{R: mix(bg.R, c.R), G: mix(bg.G, c.G), B: mix(bg.B, c.B), A: 0xff}
}

var loadFont = sync.OnceValues(func() (*truetype.Font, error) {
	f, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("parsing built in font: %w", err)
	}
	return f, nil
})

// Draw makes the picture.
func Draw(tracks []Track, opt Options) (*image.RGBA, error) {
	if len(tracks) == 0 {
		return nil, errors.New("nothing to draw")
	}
	opt.Defaults()
	mats := make([]*matrix.FMatrix2d, len(tracks))
	ncol := 0
	for i, t := range tracks {
		mats[i] = Intensity(t)
		if n := len(mats[i].Mat[0]); n > ncol {
			ncol = n
		}
	}
	rowHeight := 2*opt.StripHeight + 2
	img := image.NewRGBA(image.Rect(0, 0, opt.LabelWidth+ncol, rowHeight*len(tracks)))
	draw.Draw(img, img.Bounds(), &image.Uniform{opt.Background}, image.Point{}, draw.Src)

	fnt, err := loadFont()
	if err != nil {
		return nil, err
	}
	ctx := freetype.NewContext()
	ctx.SetDPI(72)
	ctx.SetFont(fnt)
	ctx.SetFontSize(opt.FontSize)
	ctx.SetDst(img)
	ctx.SetSrc(image.Black)

	for i, mat := range mats {
		y0 := i * rowHeight
		for j, v := range mat.Mat[0] {
			x := opt.LabelWidth + j
			cs, cg := shade(opt.Background, opt.Seg, v), shade(opt.Background, opt.Gap, mat.Mat[1][j])
			for y := 0; y < opt.StripHeight; y++ {
				img.SetRGBA(x, y0+y, cs)
				img.SetRGBA(x, y0+opt.StripHeight+y, cg)
			}
		}
		ctx.SetClip(image.Rect(0, y0, opt.LabelWidth-2, y0+rowHeight))
		baseline := y0 + opt.StripHeight + int(ctx.PointToFixed(opt.FontSize/2)>>6)
		if _, err := ctx.DrawString(tracks[i].Label(), freetype.Pt(2, baseline)); err != nil {
			return nil, fmt.Errorf("drawing label %q: %w", tracks[i].Label(), err)
		}
	}
	log.WithFields(log.Fields{"tracks": len(tracks), "width": img.Bounds().Dx()}).Debug("drew smears")
	return img, nil
}

// WritePNG draws the tracks and encodes them to w.
func WritePNG(w io.Writer, tracks []Track, opt Options) error {
	img, err := Draw(tracks, opt)
	if err != nil {
		return err
	}
	return png.Encode(w, img)
}
