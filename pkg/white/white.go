// 16 Oct 2026
// Package white squeezes white space out of byte slices, in place.

package white

import "bytes"

var asciiSpace = [256]bool{
	'\t': true, '\n': true, '\v': true, '\f': true, '\r': true, ' ': true,
}

// IsWhite is true for ascii white space.
func IsWhite(c byte) bool { return asciiSpace[c] }

// Remove acts on a byte slice in place and removes all the white space.
// The slice comes back with its length adjusted, but the capacity
// unchanged.
func Remove(b *[]byte) {
	s := *b
	n := 0
	for _, c := range s {
		if !asciiSpace[c] {
			s[n] = c
			n++
		}
	}
	*b = s[:n]
}

// RemoveByFields does the same as Remove, but allocates. It is here
// for benchmarking.
func RemoveByFields(b *[]byte) {
	*b = bytes.Join(bytes.Fields(*b), nil)
}
