// Package fusion smooths the noisy vision snapshot stream into a believable
// board state. It corrects the usual OCR failure modes (single-letter edits
// within a known word, two adjacent words read as one, and transient
// disappearance of a still-present word) using dictionary membership, edit
// distance to the prior fused state, and a two-snapshot visibility window.
package fusion

import (
	"sort"
	"strings"

	"github.com/boardlens/boardlens/internal/dict"
)

const minWordLen = 3

// commonLetters is the fallback insertion pool for rule 6, ordered by English
// letter frequency.
const commonLetters = "etaoinshrdlcumwfgypbvkjxqz"

// Word is one fused board word with its owning player and whether this step's
// correction pipeline rewrote it.
type Word struct {
	Text     string
	Player   int
	Modified bool
}

// Filter holds the mutable fusion state. It is owned by the solver worker and
// must not be shared across goroutines.
type Filter struct {
	dict *dict.Dictionary
	prev []Word
	ring ring
	conf *tracker
}

func New(d *dict.Dictionary) *Filter {
	return &Filter{dict: d, conf: newTracker()}
}

// Fuse corrects one raw snapshot against the prior fused state. Input words
// and letters must already be normalized (lowercase a-z). The fused loose
// letters are memoryless: always the current raw value.
//
// Fusion never fails; a word no rule can explain passes through unchanged.
func (f *Filter) Fuse(rawPlayers [][]string, rawLetters string) ([]Word, string) {
	var rawFlat []string
	for _, words := range rawPlayers {
		rawFlat = append(rawFlat, words...)
	}
	f.ring.push(rawFlat, rawLetters)

	rawSet := make(map[string]bool, len(rawFlat))
	for _, w := range rawFlat {
		rawSet[w] = true
	}

	// Disappeared words: previous fused state minus current raw input, in
	// previous-state order for determinism.
	disappeared := make(map[string]bool)
	var dOrder []string
	for _, p := range f.prev {
		if !rawSet[p.Text] && !disappeared[p.Text] {
			disappeared[p.Text] = true
			dOrder = append(dOrder, p.Text)
		}
	}

	var corrected []Word
	for player, words := range rawPlayers {
		for _, w := range words {
			for _, part := range f.correct(w, disappeared, dOrder) {
				corrected = append(corrected, Word{Text: part.text, Player: player, Modified: part.modified})
			}
		}
	}

	corrected = f.vetoCorrections(corrected, rawFlat)
	corrected = f.restoreDisappeared(corrected, rawFlat)

	f.conf.update(corrected)
	f.prev = corrected
	return corrected, rawLetters
}

// Confidence exposes the tracked confidence entry for a word.
func (f *Filter) Confidence(word string) (Confidence, bool) {
	return f.conf.get(word)
}

type part struct {
	text     string
	modified bool
}

// correct runs the per-word pipeline. Rules apply in order; the first that
// fires wins.
func (f *Filter) correct(w string, disappeared map[string]bool, dOrder []string) []part {
	if len(w) < minWordLen {
		// Short words are never kept as-is: rescue by insertion or drop.
		if fixed, ok := f.insertOneLetter(w); ok {
			return []part{{text: fixed, modified: true}}
		}
		return nil
	}

	// Rule 1: direct dictionary hit.
	if f.dict.Has(w) {
		return []part{{text: w}}
	}

	// Rule 2: re-split against a disappeared word.
	if parts := f.resplitAgainst(w, disappeared, dOrder); parts != nil {
		return parts
	}

	// Rule 3: split into two dictionary words.
	if parts := f.splitInTwo(w, disappeared); parts != nil {
		return parts
	}

	// Rule 4: recursive split for long concatenations.
	if len(w) >= 2*minWordLen {
		if parts := f.splitRecursive(w, 3); parts != nil {
			out := make([]part, len(parts))
			for i, p := range parts {
				out[i] = part{text: p, modified: true}
			}
			return out
		}
	}

	// Rule 5: single deletion away from a previous fused word.
	for _, p := range f.prev {
		d := len(w) - len(p.Text)
		if d != 1 && d != -1 {
			continue
		}
		longer, shorter := w, p.Text
		if d == -1 {
			longer, shorter = p.Text, w
		}
		// The vision most likely dropped a letter: prefer the prior word
		// when it is dictionary-valid.
		if oneDeletionApart(longer, shorter) && f.dict.Has(p.Text) {
			return []part{{text: p.Text, modified: true}}
		}
	}

	// Rule 6: one inserted letter reaches a dictionary word.
	if fixed, ok := f.insertOneLetter(w); ok {
		return []part{{text: fixed, modified: true}}
	}

	// Nothing fired: pass the word through.
	return []part{{text: w}}
}

// resplitAgainst implements rule 2: if w embeds a word that just disappeared
// from the board, the vision likely merged two adjacent words.
func (f *Filter) resplitAgainst(w string, disappeared map[string]bool, dOrder []string) []part {
	validOrGone := func(s string) bool {
		return f.dict.Has(s) || disappeared[s]
	}
	for _, d := range dOrder {
		if len(d) < minWordLen {
			continue
		}
		if strings.HasPrefix(w, d) {
			rest := w[len(d):]
			if len(rest) >= minWordLen && validOrGone(rest) {
				return []part{{text: d, modified: true}, {text: rest, modified: true}}
			}
		}
		if strings.HasSuffix(w, d) {
			rest := w[:len(w)-len(d)]
			if len(rest) >= minWordLen && validOrGone(rest) {
				return []part{{text: rest, modified: true}, {text: d, modified: true}}
			}
		}
		if i := strings.Index(w, d); i >= minWordLen && len(w)-i-len(d) >= minWordLen {
			left, right := w[:i], w[i+len(d):]
			if validOrGone(left) && validOrGone(right) {
				return []part{
					{text: left, modified: true},
					{text: d, modified: true},
					{text: right, modified: true},
				}
			}
		}
	}
	return nil
}

// splitInTwo implements rule 3: a cut producing two dictionary words, with
// cuts matching a disappeared word preferred over the first valid cut.
func (f *Filter) splitInTwo(w string, disappeared map[string]bool) []part {
	var first []part
	for i := minWordLen; i <= len(w)-minWordLen; i++ {
		a, b := w[:i], w[i:]
		if !f.dict.Has(a) || !f.dict.Has(b) {
			continue
		}
		if disappeared[a] || disappeared[b] {
			return []part{{text: a, modified: true}, {text: b, modified: true}}
		}
		if first == nil {
			first = []part{{text: a, modified: true}, {text: b, modified: true}}
		}
	}
	return first
}

// splitRecursive implements rule 4: a cut where one side is a dictionary word
// and the other side itself splits into dictionary words, up to the given
// depth.
func (f *Filter) splitRecursive(w string, depth int) []string {
	if depth == 0 || len(w) < 2*minWordLen {
		return nil
	}
	for i := minWordLen; i <= len(w)-minWordLen; i++ {
		a, b := w[:i], w[i:]
		aOK, bOK := f.dict.Has(a), f.dict.Has(b)
		if aOK && bOK {
			return []string{a, b}
		}
		if aOK {
			if rest := f.splitRecursive(b, depth-1); rest != nil {
				return append([]string{a}, rest...)
			}
		}
		if bOK {
			if rest := f.splitRecursive(a, depth-1); rest != nil {
				return append(rest, b)
			}
		}
	}
	return nil
}

// insertOneLetter implements rule 6: try the previous snapshot's loose
// letters at each position, middle positions first, then fall back to
// frequency-ordered common letters.
func (f *Filter) insertOneLetter(w string) (string, bool) {
	if len(w)+1 < minWordLen {
		return "", false
	}
	positions := insertionOrder(len(w))

	loose := f.ring.previousLetters()
	for _, pos := range positions {
		for i := 0; i < len(loose); i++ {
			cand := w[:pos] + string(loose[i]) + w[pos:]
			if f.dict.Has(cand) {
				return cand, true
			}
		}
	}
	for _, pos := range positions {
		for i := 0; i < len(commonLetters); i++ {
			cand := w[:pos] + string(commonLetters[i]) + w[pos:]
			if f.dict.Has(cand) {
				return cand, true
			}
		}
	}
	return "", false
}

// insertionOrder returns insertion positions 0..n sorted by distance from the
// center, center first.
func insertionOrder(n int) []int {
	pos := make([]int, n+1)
	for i := range pos {
		pos[i] = i
	}
	center := float64(n) / 2
	sort.SliceStable(pos, func(a, b int) bool {
		da := center - float64(pos[a])
		if da < 0 {
			da = -da
		}
		db := center - float64(pos[b])
		if db < 0 {
			db = -db
		}
		return da < db
	})
	return pos
}

// vetoCorrections drops a modified word when the current raw input contains a
// dictionary-valid word one edit away from it: the fresh direct observation
// outranks last step's guess.
func (f *Filter) vetoCorrections(corrected []Word, rawFlat []string) []Word {
	out := corrected[:0]
	for _, c := range corrected {
		if c.Modified && f.hasCloseRawNeighbor(c.Text, rawFlat) {
			continue
		}
		out = append(out, c)
	}
	return out
}

// restoreDisappeared carries forward previous fused words missing from the
// corrected set, while they are still visible in the two-snapshot window and
// no close neighbour in the raw input explains their absence.
func (f *Filter) restoreDisappeared(corrected []Word, rawFlat []string) []Word {
	present := make(map[string]bool, len(corrected))
	for _, c := range corrected {
		present[c.Text] = true
	}

	for _, p := range f.prev {
		if present[p.Text] {
			continue
		}
		if subsumed(p.Text, corrected) {
			continue
		}
		if !f.ring.sawWord(p.Text) {
			continue
		}
		if f.hasCloseRawNeighbor(p.Text, rawFlat) {
			// The neighbour is the likely correction; let the word go.
			continue
		}
		corrected = append(corrected, Word{Text: p.Text, Player: p.Player})
		present[p.Text] = true
	}
	return corrected
}

func (f *Filter) hasCloseRawNeighbor(word string, rawFlat []string) bool {
	for _, r := range rawFlat {
		if r != word && f.dict.Has(r) && oneEditApart(word, r) {
			return true
		}
	}
	return false
}

func subsumed(word string, set []Word) bool {
	for _, c := range set {
		if strings.Contains(c.Text, word) || strings.Contains(word, c.Text) {
			return true
		}
	}
	return false
}

// oneEditApart reports whether a and b differ by exactly one substitution,
// insertion, or deletion.
func oneEditApart(a, b string) bool {
	switch len(a) - len(b) {
	case 0:
		diff := 0
		for i := 0; i < len(a); i++ {
			if a[i] != b[i] {
				diff++
				if diff > 1 {
					return false
				}
			}
		}
		return diff == 1
	case 1:
		return oneDeletionApart(a, b)
	case -1:
		return oneDeletionApart(b, a)
	}
	return false
}

// oneDeletionApart reports whether deleting one letter from longer yields
// shorter. len(longer) must be len(shorter)+1.
func oneDeletionApart(longer, shorter string) bool {
	i, j, skipped := 0, 0, false
	for i < len(longer) && j < len(shorter) {
		if longer[i] == shorter[j] {
			i++
			j++
			continue
		}
		if skipped {
			return false
		}
		skipped = true
		i++
	}
	return true
}
