package engine

import (
	"sort"

	"github.com/boardlens/boardlens/internal/dict"
)

// Strategy selects the output ordering.
type Strategy string

const (
	// StrategyBalanced ranks by the weighted frequency + length score.
	StrategyBalanced Strategy = "balanced"
	// StrategyLongestFirst ranks by target length, score breaking ties.
	StrategyLongestFirst Strategy = "longestFirst"
)

// Options configure scoring and filtering of solver output.
type Options struct {
	// FreqFloor drops targets whose Zipf frequency is below it.
	FreqFloor float64
	// WeightFreq and WeightLen weight the normalized Zipf and length factors.
	WeightFreq float64
	WeightLen  float64
	Strategy   Strategy
}

// DefaultOptions match the classroom tuning: common words first, with a mild
// preference for longer targets, and obscure dictionary entries filtered out.
func DefaultOptions() Options {
	return Options{
		FreqFloor:  1.0,
		WeightFreq: 1.5,
		WeightLen:  1.0,
		Strategy:   StrategyBalanced,
	}
}

const zipfScale = 8.0 // Zipf frequencies live on a 0-8 scale

// rank scores, filters, and orders the recommendations. Without a frequency
// table scoring degrades gracefully: no filtering, enumeration order kept.
func rank(recs []Recommendation, d *dict.Dictionary, opts Options) []Recommendation {
	if len(recs) == 0 || !d.HasZipf() {
		return recs
	}

	kept := recs[:0]
	maxLen := 0
	for _, r := range recs {
		if d.Zipf(r.Word) < opts.FreqFloor {
			continue
		}
		kept = append(kept, r)
		if len(r.Word) > maxLen {
			maxLen = len(r.Word)
		}
	}
	if maxLen == 0 {
		return nil
	}

	for i := range kept {
		normFreq := d.Zipf(kept[i].Word) / zipfScale
		normLen := float64(len(kept[i].Word)) / float64(maxLen)
		kept[i].Score = opts.WeightFreq*normFreq + opts.WeightLen*normLen
	}

	switch opts.Strategy {
	case StrategyLongestFirst:
		sort.SliceStable(kept, func(a, b int) bool {
			if len(kept[a].Word) != len(kept[b].Word) {
				return len(kept[a].Word) > len(kept[b].Word)
			}
			if kept[a].Score != kept[b].Score {
				return kept[a].Score > kept[b].Score
			}
			return kept[a].Word < kept[b].Word
		})
	default:
		sort.SliceStable(kept, func(a, b int) bool {
			if kept[a].Score != kept[b].Score {
				return kept[a].Score > kept[b].Score
			}
			return kept[a].Word < kept[b].Word
		})
	}
	return kept
}
