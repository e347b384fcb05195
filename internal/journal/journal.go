// Package journal detects per-player move events between consecutive fused
// states and persists them to an append-only log.
package journal

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/boardlens/boardlens/internal/letters"
)

// Event types.
const (
	EventWordAdded   = "word_added"
	EventWordRemoved = "word_removed"
)

// Event is one word appearing or disappearing from one player's set between
// consecutive fused states.
type Event struct {
	ID             string   `json:"id"`
	SessionID      string   `json:"sessionId"`
	Timestamp      int64    `json:"timestamp"`
	EventType      string   `json:"eventType"`
	PlayerID       string   `json:"playerId"`
	PlayerIndex    int      `json:"playerIndex"`
	Word           string   `json:"word"`
	WordLength     int      `json:"wordLength"`
	FrequencyScore float64  `json:"frequencyScore"`
	LettersUsed    []string `json:"lettersUsed"`
}

// ZipfFunc resolves a word's frequency score for event enrichment.
type ZipfFunc func(word string) float64

// Journal diffs consecutive per-player word multisets. Owned by the solver
// worker; not safe for concurrent use.
type Journal struct {
	sessionID string
	zipf      ZipfFunc
	prev      map[int]map[string]int
	lastTS    int64
	now       func() time.Time
}

func New(sessionID string, zipf ZipfFunc) *Journal {
	return &Journal{
		sessionID: sessionID,
		zipf:      zipf,
		prev:      make(map[int]map[string]int),
		now:       time.Now,
	}
}

// SessionID returns the journal's session identifier.
func (j *Journal) SessionID() string { return j.sessionID }

type change struct {
	eventType string
	player    int
	word      string
}

// Diff compares the fused per-player word multisets against the previous
// snapshot and returns the move events, totally ordered by player index with
// additions before removals. The new state becomes the next baseline.
func (j *Journal) Diff(players [][]string) []Event {
	nPlayers := len(players)
	for idx := range j.prev {
		if idx >= nPlayers {
			nPlayers = idx + 1
		}
	}

	var changes []change
	next := make(map[int]map[string]int, nPlayers)
	for i := 0; i < nPlayers; i++ {
		var curr []string
		if i < len(players) {
			curr = players[i]
		}
		currSet := multiset(curr)
		prevSet := j.prev[i]

		for word, n := range currSet {
			for k := prevSet[word]; k < n; k++ {
				changes = append(changes, change{EventWordAdded, i, word})
			}
		}
		for word, n := range prevSet {
			for k := currSet[word]; k < n; k++ {
				changes = append(changes, change{EventWordRemoved, i, word})
			}
		}
		if len(currSet) > 0 {
			next[i] = currSet
		}
	}
	j.prev = next

	// Map iteration is unordered; fix the total order before events get
	// identities and timestamps.
	sort.SliceStable(changes, func(a, b int) bool {
		if changes[a].player != changes[b].player {
			return changes[a].player < changes[b].player
		}
		if changes[a].eventType != changes[b].eventType {
			return changes[a].eventType == EventWordAdded
		}
		return changes[a].word < changes[b].word
	})

	events := make([]Event, 0, len(changes))
	for _, c := range changes {
		events = append(events, j.event(c))
	}
	return events
}

func (j *Journal) event(c change) Event {
	ts := j.now().UnixMilli()
	if ts <= j.lastTS {
		ts = j.lastTS + 1
	}
	j.lastTS = ts

	var freq float64
	if j.zipf != nil {
		freq = j.zipf(c.word)
	}
	return Event{
		ID:             uuid.New().String(),
		SessionID:      j.sessionID,
		Timestamp:      ts,
		EventType:      c.eventType,
		PlayerID:       fmt.Sprintf("player_%d", c.player),
		PlayerIndex:    c.player,
		Word:           c.word,
		WordLength:     len(c.word),
		FrequencyScore: freq,
		LettersUsed:    letters.Count(c.word).Letters(),
	}
}

func multiset(words []string) map[string]int {
	if len(words) == 0 {
		return nil
	}
	m := make(map[string]int, len(words))
	for _, w := range words {
		m[w]++
	}
	return m
}
