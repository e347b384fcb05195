// Package game normalizes incoming board snapshots and runs them through the
// fusion, journal, and construction stages.
package game

import (
	"encoding/json"

	"github.com/boardlens/boardlens/internal/letters"
)

// Snapshot is a normalized board observation. For a delta payload Players is
// nil and the Added/Removed lists carry the change.
type Snapshot struct {
	Players [][]string
	Letters string

	Delta   bool
	Added   []string
	Removed []string
}

// rawSnapshot accepts every payload shape the vision clients send. Unknown or
// missing fields coerce to empty rather than erroring.
type rawSnapshot struct {
	Players []struct {
		Words []string `json:"words"`
	} `json:"players"`
	WordsPerPlayer   [][]string      `json:"wordsPerPlayer"`
	Available        json.RawMessage `json:"available"`
	AvailableLetters json.RawMessage `json:"availableLetters"`
	AddedWords       []string        `json:"addedWords"`
	RemovedWords     []string        `json:"removedWords"`
}

// ParseSnapshot decodes and normalizes a snapshot payload. Malformed bodies
// yield an empty snapshot; the vision pipeline sends partial payloads often
// and rejecting them would just drop frames.
func ParseSnapshot(body []byte) Snapshot {
	var raw rawSnapshot
	if err := json.Unmarshal(body, &raw); err != nil {
		return Snapshot{}
	}

	snap := Snapshot{
		Letters: lettersField(raw.AvailableLetters, raw.Available),
	}
	switch {
	case raw.Players != nil:
		snap.Players = make([][]string, len(raw.Players))
		for i, p := range raw.Players {
			snap.Players[i] = normalizeWords(p.Words)
		}
	case raw.WordsPerPlayer != nil:
		snap.Players = make([][]string, len(raw.WordsPerPlayer))
		for i, ws := range raw.WordsPerPlayer {
			snap.Players[i] = normalizeWords(ws)
		}
	case raw.AddedWords != nil || raw.RemovedWords != nil:
		snap.Delta = true
		snap.Added = normalizeWords(raw.AddedWords)
		snap.Removed = normalizeWords(raw.RemovedWords)
	}
	return snap
}

// lettersField coerces availableLetters (preferred) or available, either a
// string or an array of characters.
func lettersField(fields ...json.RawMessage) string {
	for _, f := range fields {
		if len(f) == 0 {
			continue
		}
		var s string
		if err := json.Unmarshal(f, &s); err == nil {
			return letters.Normalize(s)
		}
		var arr []string
		if err := json.Unmarshal(f, &arr); err == nil {
			joined := ""
			for _, c := range arr {
				joined += c
			}
			return letters.Normalize(joined)
		}
	}
	return ""
}

func normalizeWords(words []string) []string {
	out := make([]string, 0, len(words))
	for _, w := range words {
		if n := letters.Normalize(w); n != "" {
			out = append(out, n)
		}
	}
	return out
}
