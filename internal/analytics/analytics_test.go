package analytics

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/boardlens/boardlens/internal/journal"
)

func added(player, word string, idx int, ts int64, zipf float64) journal.Event {
	return journal.Event{
		ID:             word + "-" + player,
		SessionID:      "s1",
		Timestamp:      ts,
		EventType:      journal.EventWordAdded,
		PlayerID:       player,
		PlayerIndex:    idx,
		Word:           word,
		WordLength:     len(word),
		FrequencyScore: zipf,
	}
}

func TestRecordAndSnapshot(t *testing.T) {
	a := New()
	a.Record([]journal.Event{
		added("player_0", "cat", 0, 1000, 5.6),
		added("player_0", "heart", 0, 2000, 4.1),
		added("player_0", "cat", 0, 3000, 5.6),
		added("player_1", "qoph", 1, 1500, 1.2),
	})

	snap := a.Snapshot()
	if len(snap.Players) != 2 {
		t.Fatalf("got %d players, want 2", len(snap.Players))
	}
	p0 := snap.Players[0]
	if p0.PlayerID != "player_0" {
		t.Fatalf("players not ordered by id: %q first", p0.PlayerID)
	}
	if p0.TotalWords != 3 || p0.UniqueCount != 2 {
		t.Errorf("totals = %d/%d, want 3/2", p0.TotalWords, p0.UniqueCount)
	}
	if p0.WordsByLength[3] != 2 || p0.WordsByLength[5] != 1 {
		t.Errorf("wordsByLength = %v", p0.WordsByLength)
	}
	if p0.WordsByFrequency.Common != 2 || p0.WordsByFrequency.Medium != 1 {
		t.Errorf("wordsByFrequency = %+v", p0.WordsByFrequency)
	}
	if p0.FirstSeenAt != 1000 || p0.LastSeenAt != 3000 || p0.SessionDuration != 2000 {
		t.Errorf("time fields = %d %d %d", p0.FirstSeenAt, p0.LastSeenAt, p0.SessionDuration)
	}
	if snap.WordFrequency["cat"] != 2 {
		t.Errorf("wordFrequency[cat] = %d, want 2", snap.WordFrequency["cat"])
	}

	p1 := snap.Players[1]
	if p1.WordsByFrequency.Rare != 1 {
		t.Errorf("rare bin = %d, want 1", p1.WordsByFrequency.Rare)
	}
}

func TestRemovalsIgnored(t *testing.T) {
	a := New()
	ev := added("player_0", "cat", 0, 1000, 5.6)
	a.Record([]journal.Event{ev})
	ev.EventType = journal.EventWordRemoved
	a.Record([]journal.Event{ev})

	p, ok := a.Player("player_0")
	if !ok || p.TotalWords != 1 {
		t.Errorf("player = %+v, want totalWords 1", p)
	}
}

func TestInvariants(t *testing.T) {
	a := New()
	words := []string{"cat", "cat", "dog", "heart", "elephant", "dog"}
	zipfs := []float64{5.6, 5.6, 5.3, 4.1, 2.9, 5.3}
	for i, w := range words {
		a.Record([]journal.Event{added("player_0", w, 0, int64(1000+i), zipfs[i])})
	}

	p, _ := a.Player("player_0")
	if p.UniqueCount > p.TotalWords {
		t.Errorf("uniqueCount %d > totalWords %d", p.UniqueCount, p.TotalWords)
	}
	var byLen int
	for _, n := range p.WordsByLength {
		byLen += n
	}
	if byLen != p.TotalWords {
		t.Errorf("sum wordsByLength = %d, want %d", byLen, p.TotalWords)
	}
	byFreq := p.WordsByFrequency.Common + p.WordsByFrequency.Medium + p.WordsByFrequency.Rare
	if byFreq != p.TotalWords {
		t.Errorf("sum wordsByFrequency = %d, want %d", byFreq, p.TotalWords)
	}
	if p.Diversity <= 0 || p.Diversity > 1 {
		t.Errorf("diversity = %v", p.Diversity)
	}
}

func TestAverages(t *testing.T) {
	a := New()
	a.Record([]journal.Event{
		added("player_0", "cat", 0, 1000, 6.0),
		added("player_0", "heart", 0, 2000, 4.0),
	})
	p, _ := a.Player("player_0")
	if p.AvgWordLength != 4.0 {
		t.Errorf("avgWordLength = %v, want 4.0", p.AvgWordLength)
	}
	if p.AvgWordFrequency != 5.0 {
		t.Errorf("avgWordFrequency = %v, want 5.0", p.AvgWordFrequency)
	}
}

func TestUnknownPlayer(t *testing.T) {
	a := New()
	if _, ok := a.Player("player_9"); ok {
		t.Error("unknown player reported present")
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "aggregate.json")

	a := New()
	a.Record([]journal.Event{
		added("player_0", "cat", 0, 1000, 5.6),
		added("player_0", "heart", 0, 2000, 4.1),
	})
	if err := a.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	b := New()
	b.Load(path)
	got, ok := b.Player("player_0")
	want, _ := a.Player("player_0")
	if !ok {
		t.Fatal("player_0 missing after reload")
	}
	if got.TotalWords != want.TotalWords || got.UniqueCount != want.UniqueCount {
		t.Errorf("reload mismatch: %+v vs %+v", got, want)
	}
	if got.AvgWordFrequency != want.AvgWordFrequency {
		t.Errorf("avgWordFrequency = %v, want %v", got.AvgWordFrequency, want.AvgWordFrequency)
	}
	if len(got.SessionsParticipated) != 1 || got.SessionsParticipated[0] != "s1" {
		t.Errorf("sessions = %v", got.SessionsParticipated)
	}
}

func TestLoadMalformedIgnored(t *testing.T) {
	path := filepath.Join(t.TempDir(), "aggregate.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}

	a := New()
	a.Load(path)
	if snap := a.Snapshot(); len(snap.Players) != 0 {
		t.Errorf("malformed file populated %d players", len(snap.Players))
	}
}

func TestLoadMissingFile(t *testing.T) {
	a := New()
	a.Load(filepath.Join(t.TempDir(), "absent.json"))
	if snap := a.Snapshot(); len(snap.Players) != 0 {
		t.Errorf("missing file populated %d players", len(snap.Players))
	}
}
