// Package analytics maintains rolling per-player vocabulary statistics from
// journal events and serves derived snapshots to the HTTP layer.
package analytics

import (
	"sort"
	"sync"

	"github.com/boardlens/boardlens/internal/journal"
)

// FreqBins counts words by frequency band. Zipf above 5 is common, 3 to 5
// inclusive is medium, below 3 is rare.
type FreqBins struct {
	Common int `json:"common"`
	Medium int `json:"medium"`
	Rare   int `json:"rare"`
}

func (b *FreqBins) add(zipf float64) {
	switch {
	case zipf > 5:
		b.Common++
	case zipf >= 3:
		b.Medium++
	default:
		b.Rare++
	}
}

func (b FreqBins) total() int { return b.Common + b.Medium + b.Rare }

type playerStats struct {
	playerID    string
	totalWords  int
	uniqueWords map[string]struct{}
	byLength    map[int]int
	byFrequency FreqBins
	freqSum     float64
	firstSeenAt int64
	lastSeenAt  int64
	sessions    map[string]struct{}
}

func newPlayerStats(id string) *playerStats {
	return &playerStats{
		playerID:    id,
		uniqueWords: make(map[string]struct{}),
		byLength:    make(map[int]int),
		sessions:    make(map[string]struct{}),
	}
}

// PlayerSnapshot is one player's aggregate with derived fields computed at
// read time.
type PlayerSnapshot struct {
	PlayerID             string      `json:"playerId"`
	TotalWords           int         `json:"totalWords"`
	UniqueWords          []string    `json:"uniqueWords"`
	UniqueCount          int         `json:"uniqueCount"`
	WordsByLength        map[int]int `json:"wordsByLength"`
	WordsByFrequency     FreqBins    `json:"wordsByFrequency"`
	Diversity            float64     `json:"diversity"`
	AvgWordLength        float64     `json:"avgWordLength"`
	AvgWordFrequency     float64     `json:"avgWordFrequency"`
	FirstSeenAt          int64       `json:"firstSeenAt"`
	LastSeenAt           int64       `json:"lastSeenAt"`
	SessionDuration      int64       `json:"sessionDuration"`
	SessionsParticipated []string    `json:"sessionsParticipated"`
}

// Snapshot is the full aggregate view served by /analytics.
type Snapshot struct {
	Players       []PlayerSnapshot `json:"players"`
	WordFrequency map[string]int   `json:"wordFrequency"`
}

// Aggregator accumulates vocabulary statistics across the process lifetime.
// The solver worker writes, HTTP handlers read.
type Aggregator struct {
	mu       sync.RWMutex
	players  map[string]*playerStats
	wordFreq map[string]int
}

func New() *Aggregator {
	return &Aggregator{
		players:  make(map[string]*playerStats),
		wordFreq: make(map[string]int),
	}
}

// Record applies a batch of journal events. Only word_added events feed the
// aggregate; a removed word was still played.
func (a *Aggregator) Record(events []journal.Event) {
	a.mu.Lock()
	defer a.mu.Unlock()
	for _, ev := range events {
		if ev.EventType != journal.EventWordAdded {
			continue
		}
		p := a.players[ev.PlayerID]
		if p == nil {
			p = newPlayerStats(ev.PlayerID)
			a.players[ev.PlayerID] = p
		}
		p.totalWords++
		p.uniqueWords[ev.Word] = struct{}{}
		p.byLength[ev.WordLength]++
		p.byFrequency.add(ev.FrequencyScore)
		p.freqSum += ev.FrequencyScore
		if p.firstSeenAt == 0 || ev.Timestamp < p.firstSeenAt {
			p.firstSeenAt = ev.Timestamp
		}
		if ev.Timestamp > p.lastSeenAt {
			p.lastSeenAt = ev.Timestamp
		}
		if ev.SessionID != "" {
			p.sessions[ev.SessionID] = struct{}{}
		}
		a.wordFreq[ev.Word]++
	}
}

// Snapshot returns the full aggregate, players ordered by id.
func (a *Aggregator) Snapshot() Snapshot {
	a.mu.RLock()
	defer a.mu.RUnlock()

	snap := Snapshot{
		Players:       make([]PlayerSnapshot, 0, len(a.players)),
		WordFrequency: make(map[string]int, len(a.wordFreq)),
	}
	for w, n := range a.wordFreq {
		snap.WordFrequency[w] = n
	}
	for _, p := range a.players {
		snap.Players = append(snap.Players, p.snapshot())
	}
	sort.Slice(snap.Players, func(i, j int) bool {
		return snap.Players[i].PlayerID < snap.Players[j].PlayerID
	})
	return snap
}

// Player returns one player's snapshot.
func (a *Aggregator) Player(id string) (PlayerSnapshot, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	p, ok := a.players[id]
	if !ok {
		return PlayerSnapshot{}, false
	}
	return p.snapshot(), true
}

func (p *playerStats) snapshot() PlayerSnapshot {
	s := PlayerSnapshot{
		PlayerID:             p.playerID,
		TotalWords:           p.totalWords,
		UniqueWords:          sortedKeys(p.uniqueWords),
		UniqueCount:          len(p.uniqueWords),
		WordsByLength:        make(map[int]int, len(p.byLength)),
		WordsByFrequency:     p.byFrequency,
		FirstSeenAt:          p.firstSeenAt,
		LastSeenAt:           p.lastSeenAt,
		SessionsParticipated: sortedKeys(p.sessions),
	}
	for l, n := range p.byLength {
		s.WordsByLength[l] = n
	}
	total := p.totalWords
	if total > 0 {
		s.Diversity = float64(len(p.uniqueWords)) / float64(total)
		var lenSum int
		for l, n := range p.byLength {
			lenSum += l * n
		}
		s.AvgWordLength = float64(lenSum) / float64(total)
		s.AvgWordFrequency = p.freqSum / float64(total)
	}
	if p.lastSeenAt > p.firstSeenAt {
		s.SessionDuration = p.lastSeenAt - p.firstSeenAt
	}
	return s
}

func sortedKeys(m map[string]struct{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
