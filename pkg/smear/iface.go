// 15 Oct 2026

package smear

// SequenceHandle is the anchor sequence. Len is the full length, used when
// a smear should cover the whole sequence. A *sam.Reference satisfies it.
type SequenceHandle interface {
	Name() string
	Len() int
}

// Iterator walks the alignments of a source, in the style of
// bufio.Scanner. After Next returns false, Err says whether the walk
// stopped early.
type Iterator interface {
	Next() bool
	Alignment() Alignment
	Err() error
}

// Source gives a fresh Iterator on every call to Iter. Len is the number
// of alignments, or -1 if that is not known in advance.
type Source interface {
	Iter() Iterator
	Len() int
}

// Annotation is a named source, such as the features of one GFF source
// column or the reads of one SAM file.
type Annotation interface {
	Source
	Name() string
}

// Progress is polled during ingestion. ReportProgress gets the fraction
// done, between 0 and 1. IsCanceled is checked before every alignment.
type Progress interface {
	ReportProgress(frac float64)
	IsCanceled() bool
}

// Grouper decides whether the alignments of an annotation should be shown
// as separate plus and minus strand smears. It is asked once per
// annotation, before any alignment is read.
type Grouper interface {
	SeparateStrands(a Annotation) bool
}
