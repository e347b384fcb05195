package fusion

// Confidence tracks the filter's belief in one word. Directly observed words
// sit at 1.0; a correction that rewrites a word resets its entry to 0.5 and
// marks it modified; re-observation climbs back in 0.25 steps; non-observation
// decays by 0.1 until the entry is dropped at zero.
type Confidence struct {
	Score    float64
	Modified bool
}

const (
	confObserved  = 1.0
	confCorrected = 0.5
	confRaise     = 0.25
	confDecay     = 0.1
)

type tracker struct {
	entries map[string]Confidence
}

func newTracker() *tracker {
	return &tracker{entries: make(map[string]Confidence)}
}

// update applies one fusion step: every word in final is either reset to the
// corrected baseline or raised toward 1.0, and every tracked word absent from
// final decays.
func (t *tracker) update(final []Word) {
	seen := make(map[string]bool, len(final))
	for _, w := range final {
		seen[w.Text] = true
		if w.Modified {
			t.entries[w.Text] = Confidence{Score: confCorrected, Modified: true}
			continue
		}
		e, ok := t.entries[w.Text]
		if !ok {
			t.entries[w.Text] = Confidence{Score: confObserved}
			continue
		}
		e.Score += confRaise
		if e.Score >= confObserved {
			e.Score = confObserved
			e.Modified = false
		}
		t.entries[w.Text] = e
	}

	for word, e := range t.entries {
		if seen[word] {
			continue
		}
		e.Score -= confDecay
		if e.Score <= 0 {
			delete(t.entries, word)
			continue
		}
		t.entries[word] = e
	}
}

func (t *tracker) get(word string) (Confidence, bool) {
	e, ok := t.entries[word]
	return e, ok
}

// ring is the visibility window: the two most recent raw snapshots, including
// the one currently being fused. A word disappearing from the raw input is
// restored only while it is still visible in this window.
type ring struct {
	frames [2]frame
	n      int
}

type frame struct {
	words   map[string]bool
	letters string
}

func (r *ring) push(words []string, looseLetters string) {
	set := make(map[string]bool, len(words))
	for _, w := range words {
		set[w] = true
	}
	r.frames[0] = r.frames[1]
	r.frames[1] = frame{words: set, letters: looseLetters}
	if r.n < 2 {
		r.n++
	}
}

// sawWord reports whether word appeared in either of the last two raw
// snapshots.
func (r *ring) sawWord(word string) bool {
	for i := 2 - r.n; i < 2; i++ {
		if r.frames[i].words[word] {
			return true
		}
	}
	return false
}

// previousLetters returns the loose letters of the snapshot before the
// current one, the pool that single-letter insertions draw from.
func (r *ring) previousLetters() string {
	if r.n < 2 {
		return ""
	}
	return r.frames[0].letters
}
