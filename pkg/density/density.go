// 14 Oct 2026

// Package density keeps a numeric accumulator over a half-open range of
// sequence coordinates, [start, stop). Each cell stands for window
// consecutive coordinates, so a long sequence can be summarised in as many
// cells as there are pixels to draw.
//
// A Map is not safe for concurrent writers. Build it in one goroutine,
// then hand it to readers.
package density

import (
	"errors"
	"fmt"
	"math"
	"reflect"
)

// Number is what a cell may hold.
type Number interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64
}

// Combine says how a new value is merged into a cell.
type Combine uint8

const (
	Sum       Combine = iota // add, saturating at the limits of integer types
	Max                      // keep the larger
	Overwrite                // replace
)

func (c Combine) String() string {
	switch c {
	case Sum:
		return "sum"
	case Max:
		return "max"
	case Overwrite:
		return "overwrite"
	}
	return fmt.Sprintf("Combine(%d)", uint8(c))
}

// Range is a closed interval of coordinates, From and To both included.
// A Range with To < From is empty.
type Range struct {
	From, To int
}

// Empty is true if there are no coordinates in r.
func (r Range) Empty() bool { return r.To < r.From }

// Len is the number of coordinates in r.
func (r Range) Len() int {
	if r.Empty() {
		return 0
	}
	return r.To - r.From + 1
}

// Intersect returns the coordinates in both r and o. It may be empty.
func (r Range) Intersect(o Range) Range {
	if o.From > r.From {
		r.From = o.From
	}
	if o.To < r.To {
		r.To = o.To
	}
	return r
}

// ErrInvalidRange is returned (wrapped in a RangeError) when a map cannot
// be built because stop <= start or the window is less than one.
var ErrInvalidRange = errors.New("invalid density map range")

// RangeError gives the arguments that were refused.
type RangeError struct {
	Start, Stop int
	Window      float64
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("density map [%d, %d) window %g: %v", e.Start, e.Stop, e.Window, ErrInvalidRange)
}

func (e *RangeError) Unwrap() error { return ErrInvalidRange }

// Map is the accumulator. cells[i] holds every coordinate c with
// floor((c-start)/window) == i.
type Map[T Number] struct {
	start, stop int
	window      float64
	cells       []T
	dflt        T
	lo, hi      T // saturation limits for Sum
}

// New makes a map covering [start, stop) with ceil((stop-start)/window)
// cells, all set to dflt.
func New[T Number](start, stop int, window float64, dflt T) (*Map[T], error) {
	if stop <= start || !(window >= 1) || math.IsInf(window, 1) {
		return nil, &RangeError{Start: start, Stop: stop, Window: window}
	}
	n := int(math.Ceil(float64(stop-start) / window))
	m := &Map[T]{
		start:  start,
		stop:   stop,
		window: window,
		cells:  make([]T, n),
		dflt:   dflt,
	}
	m.lo, m.hi = limits[T]()
	m.Clear()
	return m, nil
}

// limits returns the smallest and largest values of T. For floats they are
// the infinities, so Sum never clamps.
func limits[T Number]() (lo, hi T) {
	var z T
	t := reflect.TypeOf(z)
	bits := uint(t.Bits())
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		h := int64(1)<<(bits-1) - 1
		return T(-h - 1), T(h)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		h := ^uint64(0) >> (64 - bits)
		return 0, T(h)
	}
	inf := math.Inf(1)
	return T(-inf), T(inf)
}

// Range returns the half-open interval the map covers.
func (m *Map[T]) Range() (start, stop int) { return m.start, m.stop }

// Window is the number of coordinates per cell.
func (m *Map[T]) Window() float64 { return m.window }

// Len is the number of cells.
func (m *Map[T]) Len() int { return len(m.cells) }

// Default is the value cells start with.
func (m *Map[T]) Default() T { return m.dflt }

// Clear sets every cell back to the default.
func (m *Map[T]) Clear() {
	for i := range m.cells {
		m.cells[i] = m.dflt
	}
}

// cell is the unclamped cell of an offset from start.
func (m *Map[T]) cell(off int) int { return int(math.Floor(float64(off) / m.window)) }

// Index maps a coordinate to its cell. ok is false if coord is outside
// [start, stop).
func (m *Map[T]) Index(coord int) (i int, ok bool) {
	if coord < m.start || coord >= m.stop {
		return 0, false
	}
	if i = m.cell(coord - m.start); i >= len(m.cells) {
		i = len(m.cells) - 1
	}
	return i, true
}

// first is the smallest offset from start that lands in cell i or later.
// The estimate from the window is nudged so rounding cannot disagree with
// Index.
func (m *Map[T]) first(i int) int {
	f := int(math.Ceil(float64(i) * m.window))
	for f > 0 && m.cell(f-1) >= i {
		f--
	}
	for m.cell(f) < i {
		f++
	}
	return f
}

// CoordRange is the inverse of Index. It gives the coordinates held by
// cell i, clipped to the map. Only the last cell of a map with a
// fractional window can come back empty.
func (m *Map[T]) CoordRange(i int) Range {
	to := m.start + m.first(i+1) - 1
	if i == len(m.cells)-1 || to >= m.stop {
		to = m.stop - 1
	}
	return Range{From: m.start + m.first(i), To: to}
}

// merge folds delta into cur.
func (m *Map[T]) merge(c Combine, cur, delta T) T {
	switch c {
	case Max:
		if delta > cur {
			return delta
		}
		return cur
	case Overwrite:
		return delta
	}
	s := cur + delta
	switch {
	case delta > 0 && s < cur:
		return m.hi
	case delta < 0 && s > cur:
		return m.lo
	}
	return s
}

// AddValue merges delta into the cell holding coord. Coordinates outside
// the map are ignored.
func (m *Map[T]) AddValue(coord int, delta T, c Combine) {
	if i, ok := m.Index(coord); ok {
		m.cells[i] = m.merge(c, m.cells[i], delta)
	}
}

// sumN adds delta to cur n times, saturating just as n calls of merge
// would. Doubling keeps the number of steps near log n.
func (m *Map[T]) sumN(cur, delta T, n int) T {
	for n > 0 && delta != 0 {
		k, step := 1, delta
		for 2*k <= n {
			d := m.merge(Sum, step, step)
			if d == m.hi || d == m.lo {
				break
			}
			k, step = 2*k, d
		}
		if cur = m.merge(Sum, cur, step); cur == m.hi || cur == m.lo {
			return cur
		}
		n -= k
	}
	return cur
}

// AddRange is AddValue for every coordinate of r inside the map. With Sum
// a cell gets delta once for each of its coordinates that r covers. Max
// and Overwrite give the same answer however often they are applied. The
// loop runs over cells, not coordinates.
func (m *Map[T]) AddRange(r Range, delta T, c Combine) {
	r = r.Intersect(Range{From: m.start, To: m.stop - 1})
	if r.Empty() {
		return
	}
	lo, _ := m.Index(r.From)
	hi, _ := m.Index(r.To)
	for i := lo; i <= hi; i++ {
		if c != Sum {
			m.cells[i] = m.merge(c, m.cells[i], delta)
			continue
		}
		m.cells[i] = m.sumN(m.cells[i], delta, m.CoordRange(i).Intersect(r).Len())
	}
}

// AddRanges calls AddRange for each of rr.
func (m *Map[T]) AddRanges(rr []Range, delta T, c Combine) {
	for _, r := range rr {
		m.AddRange(r, delta, c)
	}
}

// AddRangesOnce merges delta once into each cell that any of rr touches,
// however many coordinates of the cell are covered. This counts coverage:
// how many alignments reach a cell. rr must be sorted by From and must not
// overlap. It is for adding the pieces of one alignment, where two short
// segments may land in the same cell.
func (m *Map[T]) AddRangesOnce(rr []Range, delta T, c Combine) {
	done := -1 // highest cell already changed
	for _, r := range rr {
		r = r.Intersect(Range{From: m.start, To: m.stop - 1})
		if r.Empty() {
			continue
		}
		lo, _ := m.Index(r.From)
		hi, _ := m.Index(r.To)
		if lo <= done {
			lo = done + 1
		}
		for i := lo; i <= hi; i++ {
			m.cells[i] = m.merge(c, m.cells[i], delta)
		}
		if hi > done {
			done = hi
		}
	}
}

// GetMax returns the largest value in the map. If nothing was added, this
// is the default.
func (m *Map[T]) GetMax() T {
	max := m.cells[0]
	for _, v := range m.cells[1:] {
		if v > max {
			max = v
		}
	}
	return max
}

// GetCell returns cell i. It panics if i is out of range, like a slice.
func (m *Map[T]) GetCell(i int) T { return m.cells[i] }

// SetCell sets cell i.
func (m *Map[T]) SetCell(i int, v T) { m.cells[i] = v }

// Values returns a copy of the cells.
func (m *Map[T]) Values() []T {
	v := make([]T, len(m.cells))
	copy(v, m.cells)
	return v
}
