// Package letters provides fixed-width letter-count vectors over 'a'..'z'.
// All combinatorial math in the solver runs on these vectors; strings are
// parsed once on entry and reconstructed once on output.
package letters

import "strings"

// Counts is a 26-element non-negative count vector indexed by letter.
type Counts [26]int

// Count builds a vector from an already-normalized (lowercase a-z) string.
// Out-of-range bytes are ignored.
func Count(word string) Counts {
	var c Counts
	for i := 0; i < len(word); i++ {
		b := word[i]
		if b >= 'a' && b <= 'z' {
			c[b-'a']++
		}
	}
	return c
}

// Add returns c + o elementwise.
func (c Counts) Add(o Counts) Counts {
	for i := range c {
		c[i] += o[i]
	}
	return c
}

// Sub returns c - o elementwise. Caller must ensure c.Contains(o).
func (c Counts) Sub(o Counts) Counts {
	for i := range c {
		c[i] -= o[i]
	}
	return c
}

// Contains reports whether c >= o elementwise.
func (c Counts) Contains(o Counts) bool {
	for i := range c {
		if c[i] < o[i] {
			return false
		}
	}
	return true
}

// Total is the sum of all counts.
func (c Counts) Total() int {
	n := 0
	for i := range c {
		n += c[i]
	}
	return n
}

// IsZero reports whether every count is zero.
func (c Counts) IsZero() bool {
	for i := range c {
		if c[i] != 0 {
			return false
		}
	}
	return true
}

// String expands the vector to its sorted multiset string, e.g. "aacrt".
func (c Counts) String() string {
	var sb strings.Builder
	sb.Grow(c.Total())
	for i := range c {
		for n := 0; n < c[i]; n++ {
			sb.WriteByte(byte('a' + i))
		}
	}
	return sb.String()
}

// Letters expands the vector to its sorted multiset as single-letter strings.
func (c Counts) Letters() []string {
	out := make([]string, 0, c.Total())
	for i := range c {
		for n := 0; n < c[i]; n++ {
			out = append(out, string(rune('a'+i)))
		}
	}
	return out
}

// Normalize lowercases s and strips everything outside a-z.
func Normalize(s string) string {
	var sb strings.Builder
	sb.Grow(len(s))
	for i := 0; i < len(s); i++ {
		b := s[i]
		switch {
		case b >= 'a' && b <= 'z':
			sb.WriteByte(b)
		case b >= 'A' && b <= 'Z':
			sb.WriteByte(b + ('a' - 'A'))
		}
	}
	return sb.String()
}
