package journal

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func zipfFixture(word string) float64 {
	return map[string]float64{"elephant": 4.5, "cat": 5.6, "car": 5.5}[word]
}

func TestDiffAddAndRemove(t *testing.T) {
	j := New("s1", zipfFixture)

	events := j.Diff([][]string{{"cat"}})
	if len(events) != 1 || events[0].EventType != EventWordAdded || events[0].Word != "cat" {
		t.Fatalf("events = %+v, want one word_added cat", events)
	}

	events = j.Diff([][]string{{"car"}})
	if len(events) != 2 {
		t.Fatalf("got %d events, want 2", len(events))
	}
	if events[0].EventType != EventWordAdded || events[0].Word != "car" {
		t.Errorf("events[0] = %+v, want word_added car", events[0])
	}
	if events[1].EventType != EventWordRemoved || events[1].Word != "cat" {
		t.Errorf("events[1] = %+v, want word_removed cat", events[1])
	}
}

func TestDiffNoChangesNoEvents(t *testing.T) {
	j := New("s1", nil)
	j.Diff([][]string{{"cat", "dog"}, {"hen"}})
	if events := j.Diff([][]string{{"cat", "dog"}, {"hen"}}); len(events) != 0 {
		t.Errorf("stable board produced %+v", events)
	}
}

func TestDiffMultisetSemantics(t *testing.T) {
	j := New("s1", nil)
	j.Diff([][]string{{"cat", "cat"}})

	events := j.Diff([][]string{{"cat"}})
	if len(events) != 1 || events[0].EventType != EventWordRemoved {
		t.Errorf("events = %+v, want one word_removed for the duplicate", events)
	}
}

func TestDiffPlayerVanishes(t *testing.T) {
	j := New("s1", nil)
	j.Diff([][]string{{"cat"}, {"dog"}})

	events := j.Diff([][]string{{"cat"}})
	if len(events) != 1 || events[0].PlayerIndex != 1 || events[0].EventType != EventWordRemoved {
		t.Errorf("events = %+v, want dog removed from player 1", events)
	}
}

func TestEventShape(t *testing.T) {
	j := New("session-x", zipfFixture)

	events := j.Diff([][]string{{"elephant"}})
	if len(events) != 1 {
		t.Fatalf("got %d events, want 1", len(events))
	}
	ev := events[0]
	if ev.ID == "" || ev.SessionID != "session-x" {
		t.Errorf("identity fields = %q %q", ev.ID, ev.SessionID)
	}
	if ev.PlayerID != "player_0" || ev.PlayerIndex != 0 {
		t.Errorf("player fields = %q %d", ev.PlayerID, ev.PlayerIndex)
	}
	if ev.WordLength != 8 || ev.FrequencyScore != 4.5 {
		t.Errorf("word fields = %d %v", ev.WordLength, ev.FrequencyScore)
	}
	want := []string{"a", "e", "e", "h", "l", "n", "p", "t"}
	if len(ev.LettersUsed) != len(want) {
		t.Fatalf("LettersUsed = %v, want %v", ev.LettersUsed, want)
	}
	for i := range want {
		if ev.LettersUsed[i] != want[i] {
			t.Errorf("LettersUsed[%d] = %q, want %q", i, ev.LettersUsed[i], want[i])
		}
	}
}

func TestEventOrderingAndMonotonicTimestamps(t *testing.T) {
	j := New("s1", nil)
	j.now = func() time.Time { return time.UnixMilli(1000) }
	j.Diff([][]string{{"old"}, {"keep"}})

	events := j.Diff([][]string{{"aaa", "bbb"}, {"keep", "ccc"}})
	// Player 0 additions, player 0 removal, then player 1 addition.
	wantWords := []string{"aaa", "bbb", "old", "ccc"}
	wantTypes := []string{EventWordAdded, EventWordAdded, EventWordRemoved, EventWordAdded}
	if len(events) != len(wantWords) {
		t.Fatalf("got %d events, want %d: %+v", len(events), len(wantWords), events)
	}
	for i := range events {
		if events[i].Word != wantWords[i] || events[i].EventType != wantTypes[i] {
			t.Errorf("events[%d] = %s %s, want %s %s",
				i, events[i].EventType, events[i].Word, wantTypes[i], wantWords[i])
		}
		if i > 0 && events[i].Timestamp <= events[i-1].Timestamp {
			t.Errorf("timestamps not strictly increasing at %d", i)
		}
	}
}

func TestLogFlushAndRead(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.jsonl")
	l := NewLog(path)

	j := New("s1", nil)
	events := j.Diff([][]string{{"cat", "dog"}})
	l.Append(events)
	l.Flush()

	read, err := ReadLog(path)
	if err != nil {
		t.Fatalf("ReadLog: %v", err)
	}
	if len(read) != 2 {
		t.Fatalf("read %d events, want 2", len(read))
	}
	if read[0].Word != events[0].Word || read[0].ID != events[0].ID {
		t.Errorf("round trip mismatch: %+v vs %+v", read[0], events[0])
	}
}

func TestLogAutoFlushAtBatchSize(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.jsonl")
	l := NewLog(path)

	j := New("s1", nil)
	words := make([]string, flushBatchSize)
	for i := range words {
		words[i] = string(rune('a'+i)) + "word"
	}
	l.Append(j.Diff([][]string{words}))

	read, err := ReadLog(path)
	if err != nil {
		t.Fatalf("ReadLog: %v", err)
	}
	if len(read) != flushBatchSize {
		t.Errorf("read %d events, want %d flushed automatically", len(read), flushBatchSize)
	}
}

func TestReadLogDiscardsPartialLastLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.jsonl")
	content := `{"id":"1","sessionId":"s","timestamp":1,"eventType":"word_added","playerId":"player_0","playerIndex":0,"word":"cat","wordLength":3,"frequencyScore":0,"lettersUsed":["a","c","t"]}
{"id":"2","sessionId":"s","timestamp":2,"eventType":"word_add`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	events, err := ReadLog(path)
	if err != nil {
		t.Fatalf("ReadLog: %v", err)
	}
	if len(events) != 1 || events[0].Word != "cat" {
		t.Errorf("events = %+v, want the one complete line", events)
	}
}

func TestArchiveRoundTrip(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "moves.db")
	a, err := OpenArchive(dsn)
	if err != nil {
		t.Fatalf("OpenArchive: %v", err)
	}
	defer a.Close()

	j := New("s1", zipfFixture)
	events := j.Diff([][]string{{"cat"}, {"elephant"}})
	if err := a.InsertBatch(events); err != nil {
		t.Fatalf("InsertBatch: %v", err)
	}

	got, err := a.Recent(10)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d events, want 2", len(got))
	}
	if got[0].Timestamp > got[1].Timestamp {
		t.Errorf("Recent not oldest-first")
	}
	for _, ev := range got {
		if ev.Word == "elephant" {
			if ev.FrequencyScore != 4.5 || len(ev.LettersUsed) != 8 {
				t.Errorf("archive lost fields: %+v", ev)
			}
		}
	}

	// Re-inserting the same batch is a no-op.
	if err := a.InsertBatch(events); err != nil {
		t.Fatalf("re-insert: %v", err)
	}
	got, _ = a.Recent(10)
	if len(got) != 2 {
		t.Errorf("duplicate insert grew archive to %d", len(got))
	}
}
