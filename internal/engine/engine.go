// Package engine enumerates, for one fused snapshot, every dictionary word a
// player could build additively from whole player words plus loose letters.
// Constructions must use at least two building blocks, consume used player
// words in full, draw single letters only from the loose pool, and never
// merely rearrange one existing word.
package engine

import (
	"github.com/boardlens/boardlens/internal/dict"
	"github.com/boardlens/boardlens/internal/letters"
)

const (
	minTargetLen = 3
	// maxUniqueWords bounds the 2^n mask scan; beyond it the longest words
	// are kept and the rest ignored, trading completeness for bounded work.
	maxUniqueWords = 16
)

// Block is one building block of a construction: either a whole player word
// or a single loose letter. A one-character player word block is still a word
// block, not a letter block.
type Block struct {
	Text   string
	Letter bool
}

// Recommendation is one buildable target word with its chosen construction.
type Recommendation struct {
	Word           string
	Blocks         []Block
	LettersToSteal int
	Score          float64
}

// Engine owns the subset cache. It is used by the single solver worker and is
// not safe for concurrent use.
type Engine struct {
	dict  *dict.Dictionary
	cache *subsetCache
}

func New(d *dict.Dictionary) *Engine {
	return &Engine{dict: d}
}

// Solve enumerates every buildable target for the given player words and
// loose letters, scored and ordered per opts. Player words are deduplicated;
// an empty result is a valid outcome.
func (e *Engine) Solve(playerWords []string, loose letters.Counts, opts Options) []Recommendation {
	unique := uniqueWords(playerWords)
	cache := e.cacheFor(unique)

	pool := loose
	wordCounts := make([]letters.Counts, len(cache.words))
	for i, w := range cache.words {
		wordCounts[i] = letters.Count(w)
		pool = pool.Add(wordCounts[i])
	}
	totalPool := pool.Total()
	if totalPool < minTargetLen {
		return nil
	}

	maxLen := e.dict.MaxLen()
	if totalPool < maxLen {
		maxLen = totalPool
	}

	var recs []Recommendation
	for c := byte('a'); c <= 'z'; c++ {
		if pool[c-'a'] == 0 {
			continue
		}
		for length := minTargetLen; length <= maxLen; length++ {
			for _, idx := range e.dict.Candidates(c, length) {
				tc := e.dict.CountsAt(idx)
				if !pool.Contains(tc) {
					continue
				}
				if rec, ok := e.construct(e.dict.Word(idx), tc, cache, wordCounts, loose); ok {
					recs = append(recs, rec)
				}
			}
		}
	}

	return rank(recs, e.dict, opts)
}

// construct finds the single chosen construction for target word t.
func (e *Engine) construct(t string, tc letters.Counts, cache *subsetCache, wordCounts []letters.Counts, loose letters.Counts) (Recommendation, bool) {
	// Letters-only fast path.
	if loose.Contains(tc) && tc.Total() >= 2 && !equalsAnyWord(tc, wordCounts) {
		return Recommendation{
			Word:           t,
			Blocks:         letterBlocks(nil, tc),
			LettersToSteal: tc.Total(),
		}, true
	}

	// Mask scan, high to low: constructions using more player words are more
	// informative to the student, so prefer them.
	for m := len(cache.entries) - 1; m >= 0; m-- {
		entry := cache.entries[m]
		if !tc.Contains(entry.counts) {
			continue
		}
		remainder := tc.Sub(entry.counts)
		if !loose.Contains(remainder) {
			continue
		}
		nBlocks := len(entry.words) + remainder.Total()
		if nBlocks < 2 {
			continue
		}
		if len(entry.words) == 0 && equalsAnyWord(remainder, wordCounts) {
			// Pure anagram of a single player word.
			continue
		}
		blocks := make([]Block, 0, nBlocks)
		for _, w := range entry.words {
			blocks = append(blocks, Block{Text: w})
		}
		return Recommendation{
			Word:           t,
			Blocks:         letterBlocks(blocks, remainder),
			LettersToSteal: remainder.Total(),
		}, true
	}
	return Recommendation{}, false
}

// cacheFor reuses, extends, or rebuilds the subset cache for this snapshot's
// unique word set.
func (e *Engine) cacheFor(unique []string) *subsetCache {
	sig := signature(unique)
	if e.cache != nil {
		if e.cache.sig == sig {
			return e.cache
		}
		if added, ok := e.cache.extendsBy(unique); ok && len(unique) <= maxUniqueWords {
			e.cache.extend(added)
			return e.cache
		}
	}
	e.cache = buildCache(unique)
	return e.cache
}

func uniqueWords(playerWords []string) []string {
	seen := make(map[string]bool, len(playerWords))
	var unique []string
	for _, w := range playerWords {
		if w == "" || seen[w] {
			continue
		}
		seen[w] = true
		unique = append(unique, w)
	}
	if len(unique) <= maxUniqueWords {
		return unique
	}

	// Over the mask cap: keep the longest words, preserving input order.
	byLen := append([]string(nil), unique...)
	for i := 1; i < len(byLen); i++ {
		for j := i; j > 0 && len(byLen[j]) > len(byLen[j-1]); j-- {
			byLen[j], byLen[j-1] = byLen[j-1], byLen[j]
		}
	}
	keep := make(map[string]bool, maxUniqueWords)
	for _, w := range byLen[:maxUniqueWords] {
		keep[w] = true
	}
	out := unique[:0]
	for _, w := range unique {
		if keep[w] {
			out = append(out, w)
		}
	}
	return out
}

func equalsAnyWord(c letters.Counts, wordCounts []letters.Counts) bool {
	for _, wc := range wordCounts {
		if c == wc {
			return true
		}
	}
	return false
}

func letterBlocks(blocks []Block, remainder letters.Counts) []Block {
	for i := range remainder {
		for n := 0; n < remainder[i]; n++ {
			blocks = append(blocks, Block{Text: string(rune('a' + i)), Letter: true})
		}
	}
	return blocks
}
