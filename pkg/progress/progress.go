// 17 Oct 2026

// Package progress lets a long smear build be watched and stopped. A
// Context is canceled through its context.Context. A Bar draws a line of
// text as the work proceeds.
package progress

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
)

// Context satisfies smear.Progress. It is safe to share between
// goroutines if report is.
type Context struct {
	ctx    context.Context
	report func(float64)
}

// New polls ctx for cancellation and passes fractions on to report,
// which may be nil.
func New(ctx context.Context, report func(float64)) *Context {
	return &Context{ctx: ctx, report: report}
}

func (c *Context) ReportProgress(frac float64) {
	if c.report != nil {
		c.report(frac)
	}
}

func (c *Context) IsCanceled() bool { return c.ctx.Err() != nil }

const barWidth = 50

// drawMu keeps bars sharing a terminal from interleaving.
var drawMu sync.Mutex

// Bar is a text progress bar. Total is the number of steps in a full bar.
type Bar struct {
	Label   string
	Total   uint64
	Current uint64
	W       io.Writer
	ticks   int
	drawn   bool
}

// NewBar makes a bar of a thousand steps.
func NewBar(w io.Writer, label string) *Bar {
	return &Bar{Label: label, Total: 1000, W: w, ticks: -1}
}

// Set moves the bar to frac of the way and redraws it if a tick changed.
func (bar *Bar) Set(frac float64) {
	switch {
	case frac < 0:
		frac = 0
	case frac > 1:
		frac = 1
	}
	drawMu.Lock()
	defer drawMu.Unlock()
	bar.Current = uint64(frac * float64(bar.Total))
	if t := bar.tickCount(); t != bar.ticks {
		bar.ticks = t
		bar.clearAndDisplay()
	}
}

func (bar *Bar) tickCount() int {
	if bar.Total == 0 {
		return barWidth
	}
	return int(barWidth * bar.Current / bar.Total)
}

func (bar *Bar) clearAndDisplay() {
	t := bar.tickCount()
	fmt.Fprintf(bar.W, "\r%s [%s%s] %3d%%", bar.Label,
		strings.Repeat("=", t), strings.Repeat(" ", barWidth-t), 2*t)
	bar.drawn = true
}

// Done ends the line, if anything was drawn.
func (bar *Bar) Done() {
	drawMu.Lock()
	defer drawMu.Unlock()
	if bar.drawn {
		fmt.Fprintln(bar.W)
		bar.drawn = false
	}
}
