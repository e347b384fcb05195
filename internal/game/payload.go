package game

import (
	"bytes"
	"encoding/json"

	"github.com/boardlens/boardlens/internal/engine"
)

// PlayerWords is the wire form of one player's fused word list.
type PlayerWords struct {
	Words []string `json:"words"`
}

// RecommendedWords marshals as an object whose keys appear in score order.
// Consumers rely on insertion order, so the stock map type will not do.
type RecommendedWords []engine.Recommendation

func (r RecommendedWords) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, rec := range r {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(rec.Word)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		blocks := make([]string, len(rec.Blocks))
		for j, b := range rec.Blocks {
			blocks[j] = b.Text
		}
		val, err := json.Marshal(blocks)
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// AnalyticsNote rides along on the data broadcast for the teacher view.
type AnalyticsNote struct {
	Changes         int `json:"changes"`
	VocabularyStats any `json:"vocabularyStats,omitempty"`
}

// Payload is the data-topic broadcast body for one snapshot.
type Payload struct {
	Players          []PlayerWords    `json:"players"`
	AvailableLetters string           `json:"availableLetters"`
	RecommendedWords RecommendedWords `json:"recommended_words"`
	LettersToSteal   map[string]int   `json:"lettersToSteal"`
	Analytics        *AnalyticsNote   `json:"_analytics,omitempty"`
}

// BuildPayload shapes a pipeline result for broadcast.
func BuildPayload(res *Result, stats any) Payload {
	players := make([]PlayerWords, len(res.Players))
	for i, ws := range res.Players {
		if ws == nil {
			ws = []string{}
		}
		players[i] = PlayerWords{Words: ws}
	}
	steal := make(map[string]int, len(res.Recommendations))
	for _, rec := range res.Recommendations {
		steal[rec.Word] = rec.LettersToSteal
	}
	p := Payload{
		Players:          players,
		AvailableLetters: res.AvailableLetters,
		RecommendedWords: RecommendedWords(res.Recommendations),
		LettersToSteal:   steal,
	}
	if len(res.Events) > 0 || stats != nil {
		p.Analytics = &AnalyticsNote{Changes: len(res.Events), VocabularyStats: stats}
	}
	return p
}
