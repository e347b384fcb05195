package game

import (
	"github.com/boardlens/boardlens/internal/analytics"
	"github.com/boardlens/boardlens/internal/dict"
	"github.com/boardlens/boardlens/internal/engine"
	"github.com/boardlens/boardlens/internal/fusion"
	"github.com/boardlens/boardlens/internal/journal"
	"github.com/boardlens/boardlens/internal/letters"
	"github.com/boardlens/boardlens/internal/logger"
)

// Result is one processed snapshot: the fused board, the move events it
// produced, and the recommendations for it.
type Result struct {
	Players          [][]string
	AvailableLetters string
	Recommendations  []engine.Recommendation
	Events           []journal.Event
}

// Pipeline owns every stateful stage of snapshot processing. It is driven by
// the single solver worker and is not safe for concurrent use.
type Pipeline struct {
	filter  *fusion.Filter
	eng     *engine.Engine
	journal *journal.Journal
	log     *journal.Log
	archive *journal.Archive
	agg     *analytics.Aggregator
	opts    engine.Options

	lastRaw [][]string // last normalized input, baseline for delta payloads
}

func NewPipeline(d *dict.Dictionary, j *journal.Journal, log *journal.Log, agg *analytics.Aggregator, opts engine.Options) *Pipeline {
	return &Pipeline{
		filter:  fusion.New(d),
		eng:     engine.New(d),
		journal: j,
		log:     log,
		agg:     agg,
		opts:    opts,
	}
}

// SetArchive attaches the optional SQLite mirror of the event log.
func (p *Pipeline) SetArchive(a *journal.Archive) { p.archive = a }

// Process runs one snapshot through fusion, journaling, aggregation, and
// construction. All tracker updates happen here, after the previous snapshot
// fully settled; callers discard the Result on timeout but state has still
// advanced consistently.
func (p *Pipeline) Process(snap Snapshot) *Result {
	players := snap.Players
	if snap.Delta {
		players = p.applyDelta(snap)
	}
	p.lastRaw = players

	fused, loose := p.filter.Fuse(players, snap.Letters)
	perPlayer := groupByPlayer(fused, len(players))

	events := p.journal.Diff(perPlayer)
	if len(events) > 0 {
		p.log.Append(events)
		if p.archive != nil {
			if err := p.archive.InsertBatch(events); err != nil {
				logger.Error("move archive insert", "err", err)
			}
		}
		p.agg.Record(events)
	}

	recs := p.eng.Solve(flatten(perPlayer), letters.Count(loose), p.opts)

	return &Result{
		Players:          perPlayer,
		AvailableLetters: loose,
		Recommendations:  recs,
		Events:           events,
	}
}

// Flush drains the event-log buffer. Called on the periodic save tick and at
// shutdown.
func (p *Pipeline) Flush() { p.log.Flush() }

// applyDelta edits the previous snapshot in place of a full payload. Removals
// take the first matching word from any player; additions land on player 0,
// the only attribution a playerless delta supports.
func (p *Pipeline) applyDelta(snap Snapshot) [][]string {
	players := make([][]string, len(p.lastRaw))
	for i, ws := range p.lastRaw {
		players[i] = append([]string(nil), ws...)
	}
	for _, w := range snap.Removed {
		for i, ws := range players {
			if idx := indexOf(ws, w); idx >= 0 {
				players[i] = append(ws[:idx:idx], ws[idx+1:]...)
				break
			}
		}
	}
	if len(snap.Added) > 0 {
		if len(players) == 0 {
			players = append(players, nil)
		}
		players[0] = append(players[0], snap.Added...)
	}
	return players
}

// groupByPlayer splits the fused word list back into per-player lists,
// preserving fusion order within each player.
func groupByPlayer(fused []fusion.Word, minPlayers int) [][]string {
	n := minPlayers
	for _, w := range fused {
		if w.Player+1 > n {
			n = w.Player + 1
		}
	}
	out := make([][]string, n)
	for _, w := range fused {
		out[w.Player] = append(out[w.Player], w.Text)
	}
	return out
}

func flatten(players [][]string) []string {
	var out []string
	for _, ws := range players {
		out = append(out, ws...)
	}
	return out
}

func indexOf(ws []string, w string) int {
	for i, s := range ws {
		if s == w {
			return i
		}
	}
	return -1
}
