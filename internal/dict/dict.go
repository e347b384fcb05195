// Package dict loads the game dictionary: the word list, per-word letter-count
// vectors, a (first letter, length) candidate index, and the Zipf frequency
// table. The dictionary is loaded once at startup and is immutable afterwards.
package dict

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/boardlens/boardlens/internal/letters"
	"github.com/boardlens/boardlens/internal/logger"
)

type indexKey struct {
	first  byte
	length int
}

// Dictionary is the immutable word index shared by fusion and the solver.
type Dictionary struct {
	words   []string
	counts  []letters.Counts
	byWord  map[string]int
	index   map[indexKey][]int
	zipf    map[string]float64
	hasZipf bool
	maxLen  int
}

// Load reads data/words.txt and data/word_frequencies.json from dataDir.
// A missing word list falls back to the embedded list; a missing frequency
// table degrades scoring to no-sort, no-filter. Both are logged once.
func Load(dataDir string) (*Dictionary, error) {
	words, err := readWordList(filepath.Join(dataDir, "words.txt"))
	if err != nil {
		logger.Warn("dictionary file missing, using embedded fallback", "path", filepath.Join(dataDir, "words.txt"), "err", err)
		words = fallbackWords()
	}

	d := New(words)

	zipfPath := filepath.Join(dataDir, "word_frequencies.json")
	data, err := os.ReadFile(zipfPath)
	if err != nil {
		logger.Warn("frequency table missing, scoring disabled", "path", zipfPath, "err", err)
		return d, nil
	}
	var zipf map[string]float64
	if err := json.Unmarshal(data, &zipf); err != nil {
		logger.Warn("frequency table malformed, scoring disabled", "path", zipfPath, "err", err)
		return d, nil
	}
	d.zipf = zipf
	d.hasZipf = true
	logger.Info("dictionary loaded", "words", len(d.words), "frequencies", len(zipf))
	return d, nil
}

// New builds a dictionary from an in-memory word list. Words shorter than two
// letters or containing anything outside a-z are dropped.
func New(raw []string) *Dictionary {
	d := &Dictionary{
		byWord: make(map[string]int),
		index:  make(map[indexKey][]int),
		zipf:   map[string]float64{},
	}
	for _, w := range raw {
		w = strings.ToLower(strings.TrimSpace(w))
		if len(w) < 2 || !allLower(w) {
			continue
		}
		if _, dup := d.byWord[w]; dup {
			continue
		}
		i := len(d.words)
		d.words = append(d.words, w)
		d.counts = append(d.counts, letters.Count(w))
		d.byWord[w] = i
		k := indexKey{first: w[0], length: len(w)}
		d.index[k] = append(d.index[k], i)
		if len(w) > d.maxLen {
			d.maxLen = len(w)
		}
	}
	return d
}

func readWordList(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var words []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		words = append(words, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("scan word list: %w", err)
	}
	if len(words) == 0 {
		return nil, fmt.Errorf("empty word list")
	}
	return words, nil
}

func allLower(w string) bool {
	for i := 0; i < len(w); i++ {
		if w[i] < 'a' || w[i] > 'z' {
			return false
		}
	}
	return true
}

// Has reports dictionary membership.
func (d *Dictionary) Has(w string) bool {
	_, ok := d.byWord[w]
	return ok
}

// Len is the number of indexed words.
func (d *Dictionary) Len() int { return len(d.words) }

// MaxLen is the length of the longest indexed word.
func (d *Dictionary) MaxLen() int { return d.maxLen }

// Word returns the word at index i.
func (d *Dictionary) Word(i int) string { return d.words[i] }

// CountsAt returns the precomputed letter-count vector for word i.
func (d *Dictionary) CountsAt(i int) letters.Counts { return d.counts[i] }

// Candidates returns the indices of words starting with first and of the
// given length. The returned slice is shared; callers must not mutate it.
func (d *Dictionary) Candidates(first byte, length int) []int {
	return d.index[indexKey{first: first, length: length}]
}

// Zipf returns the 0-8 frequency score for w, or 0 when unknown.
func (d *Dictionary) Zipf(w string) float64 { return d.zipf[w] }

// HasZipf reports whether the frequency table was loaded. Without it the
// solver skips scoring and filtering.
func (d *Dictionary) HasZipf() bool { return d.hasZipf }

// SetZipf installs an in-memory frequency table. Used by tests.
func (d *Dictionary) SetZipf(zipf map[string]float64) {
	d.zipf = zipf
	d.hasZipf = zipf != nil
}
