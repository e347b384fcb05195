package analytics

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/boardlens/boardlens/internal/logger"
)

// persistedPlayer is the on-disk form of one player's stats, sets flattened
// to sorted arrays.
type persistedPlayer struct {
	PlayerID             string      `json:"playerId"`
	TotalWords           int         `json:"totalWords"`
	UniqueWords          []string    `json:"uniqueWords"`
	WordsByLength        map[int]int `json:"wordsByLength"`
	WordsByFrequency     FreqBins    `json:"wordsByFrequency"`
	FrequencySum         float64     `json:"frequencySum"`
	FirstSeenAt          int64       `json:"firstSeenAt"`
	LastSeenAt           int64       `json:"lastSeenAt"`
	SessionsParticipated []string    `json:"sessionsParticipated"`
}

type persistedAggregate struct {
	Players       map[string]persistedPlayer `json:"players"`
	WordFrequency map[string]int             `json:"wordFrequency"`
}

// Save writes the aggregate to path atomically: marshal to a temp file in the
// same directory, then rename over the target.
func (a *Aggregator) Save(path string) error {
	a.mu.RLock()
	out := persistedAggregate{
		Players:       make(map[string]persistedPlayer, len(a.players)),
		WordFrequency: make(map[string]int, len(a.wordFreq)),
	}
	for id, p := range a.players {
		out.Players[id] = persistedPlayer{
			PlayerID:             p.playerID,
			TotalWords:           p.totalWords,
			UniqueWords:          sortedKeys(p.uniqueWords),
			WordsByLength:        p.byLength,
			WordsByFrequency:     p.byFrequency,
			FrequencySum:         p.freqSum,
			FirstSeenAt:          p.firstSeenAt,
			LastSeenAt:           p.lastSeenAt,
			SessionsParticipated: sortedKeys(p.sessions),
		}
	}
	for w, n := range a.wordFreq {
		out.WordFrequency[w] = n
	}
	a.mu.RUnlock()

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal aggregate: %w", err)
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("aggregate dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".aggregate-*.json")
	if err != nil {
		return fmt.Errorf("aggregate temp: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("aggregate write: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("aggregate close: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("aggregate rename: %w", err)
	}
	return nil
}

// Load restores a previously saved aggregate. A missing file is a fresh
// start; malformed content is logged and ignored.
func (a *Aggregator) Load(path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Warn("aggregate read", "path", path, "err", err)
		}
		return
	}
	var in persistedAggregate
	if err := json.Unmarshal(data, &in); err != nil {
		logger.Warn("aggregate malformed, starting fresh", "path", path, "err", err)
		return
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	for id, pp := range in.Players {
		p := newPlayerStats(id)
		if pp.PlayerID != "" {
			p.playerID = pp.PlayerID
		}
		p.totalWords = pp.TotalWords
		for _, w := range pp.UniqueWords {
			p.uniqueWords[w] = struct{}{}
		}
		if pp.WordsByLength != nil {
			p.byLength = pp.WordsByLength
		}
		p.byFrequency = pp.WordsByFrequency
		p.freqSum = pp.FrequencySum
		p.firstSeenAt = pp.FirstSeenAt
		p.lastSeenAt = pp.LastSeenAt
		for _, s := range pp.SessionsParticipated {
			p.sessions[s] = struct{}{}
		}
		a.players[id] = p
	}
	for w, n := range in.WordFrequency {
		a.wordFreq[w] = n
	}
}
