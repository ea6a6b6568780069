// 15 Oct 2026

package smear

import "path"

// GlobGrouper separates the strands of annotations whose name matches any
// of its shell patterns, as in path.Match. A bad pattern matches nothing.
type GlobGrouper []string

func (g GlobGrouper) SeparateStrands(a Annotation) bool {
	name := a.Name()
	for _, pat := range g {
		if ok, err := path.Match(pat, name); err == nil && ok {
			return true
		}
	}
	return false
}

// SeparateStrands asks g about a. A nil Grouper never separates.
func SeparateStrands(g Grouper, a Annotation) bool {
	if g == nil {
		return false
	}
	return g.SeparateStrands(a)
}
