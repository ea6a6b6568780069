// 14 Oct 2026

package density

// Run is a maximal stretch of cells holding the same value, given in map
// coordinates. From and To are both included.
type Run[T Number] struct {
	From, To int
	Value    T
}

// RunIter walks a Map one run at a time without building a slice of runs.
// It is single-pass: once Next has returned false, call RunLengthBegin
// again for a fresh walk. It reads the map's cells directly, so the map
// must not be changed while an iterator is in use.
type RunIter[T Number] struct {
	m *Map[T]
	i int // next cell to look at
}

// RunLengthBegin returns an iterator positioned before the first run.
func (m *Map[T]) RunLengthBegin() *RunIter[T] { return &RunIter[T]{m: m} }

// Next returns the next run. ok is false once the map is exhausted.
func (it *RunIter[T]) Next() (r Run[T], ok bool) {
	cells := it.m.cells
	if it.i >= len(cells) {
		return r, false
	}
	from := it.m.CoordRange(it.i).From
	if from >= it.m.stop { // empty trailing cell
		it.i = len(cells)
		return r, false
	}
	j := it.i
	v := cells[j]
	for j+1 < len(cells) && cells[j+1] == v {
		j++
	}
	it.i = j + 1
	return Run[T]{From: from, To: it.m.CoordRange(j).To, Value: v}, true
}
