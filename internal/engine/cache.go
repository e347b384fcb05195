package engine

import (
	"math/bits"
	"sort"
	"strings"

	"github.com/boardlens/boardlens/internal/letters"
)

// maskEntry is the precomputed letter-count vector and word list for one
// subset of the unique player words.
type maskEntry struct {
	counts letters.Counts
	words  []string
}

// subsetCache precomputes every subset of the unique player words so the
// construction search costs O(26) per mask. It is keyed by the sorted word
// signature; when one snapshot differs from the last by a single added word
// the cache extends in place instead of rebuilding: the low half of the mask
// space is reused untouched and the high half is old entry + new word.
type subsetCache struct {
	sig     string
	words   []string // cache order; extensions append
	entries []*maskEntry
}

func signature(words []string) string {
	sorted := append([]string(nil), words...)
	sort.Strings(sorted)
	return strings.Join(sorted, "\x00")
}

// buildCache computes all 2^n subset entries in Gray-code order, so each step
// adds or subtracts exactly one word's count vector.
func buildCache(words []string) *subsetCache {
	n := len(words)
	counts := make([]letters.Counts, n)
	for i, w := range words {
		counts[i] = letters.Count(w)
	}

	entries := make([]*maskEntry, 1<<n)
	entries[0] = &maskEntry{}

	var running letters.Counts
	prev := 0
	for i := 1; i < 1<<n; i++ {
		gray := i ^ (i >> 1)
		bit := gray ^ prev
		j := bits.TrailingZeros(uint(bit))
		if gray&bit != 0 {
			running = running.Add(counts[j])
		} else {
			running = running.Sub(counts[j])
		}
		entries[gray] = &maskEntry{counts: running, words: subsetWords(words, gray)}
		prev = gray
	}

	return &subsetCache{sig: signature(words), words: append([]string(nil), words...), entries: entries}
}

// extend grows the cache by one appended word. Masks below 2^n keep their
// existing entries; masks at and above 2^n are the matching low entry plus
// the new word.
func (c *subsetCache) extend(word string) {
	oldN := len(c.words)
	wc := letters.Count(word)

	grown := make([]*maskEntry, 1<<(oldN+1))
	copy(grown, c.entries)
	for m, e := range c.entries {
		sub := append(append(make([]string, 0, len(e.words)+1), e.words...), word)
		grown[(1<<oldN)|m] = &maskEntry{counts: e.counts.Add(wc), words: sub}
	}

	c.words = append(c.words, word)
	c.entries = grown
	c.sig = signature(c.words)
}

func subsetWords(words []string, mask int) []string {
	var out []string
	for mask != 0 {
		j := bits.TrailingZeros(uint(mask))
		out = append(out, words[j])
		mask &^= 1 << j
	}
	return out
}

// extendsBy reports whether next's signature equals c's plus exactly one new
// word, returning that word.
func (c *subsetCache) extendsBy(next []string) (string, bool) {
	if len(next) != len(c.words)+1 {
		return "", false
	}
	have := make(map[string]int, len(c.words))
	for _, w := range c.words {
		have[w]++
	}
	added := ""
	for _, w := range next {
		if have[w] > 0 {
			have[w]--
			continue
		}
		if added != "" {
			return "", false
		}
		added = w
	}
	return added, added != ""
}
