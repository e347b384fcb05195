package dict

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNewFiltersBadWords(t *testing.T) {
	d := New([]string{"cat", "Cat", "a", "don't", "  dog  ", "boat", ""})
	if d.Len() != 3 {
		t.Fatalf("Len = %d, want 3", d.Len())
	}
	for _, w := range []string{"cat", "dog", "boat"} {
		if !d.Has(w) {
			t.Errorf("Has(%q) = false, want true", w)
		}
	}
	if d.Has("dont") {
		t.Errorf("Has(%q) = true, want false", "dont")
	}
}

func TestCandidateIndex(t *testing.T) {
	d := New([]string{"cat", "car", "cart", "act", "actor"})
	idx := d.Candidates('c', 3)
	if len(idx) != 2 {
		t.Fatalf("Candidates('c', 3) = %d entries, want 2", len(idx))
	}
	seen := map[string]bool{}
	for _, i := range idx {
		seen[d.Word(i)] = true
	}
	if !seen["cat"] || !seen["car"] {
		t.Errorf("Candidates('c', 3) = %v, want cat and car", seen)
	}
	if got := d.Candidates('x', 4); got != nil {
		t.Errorf("Candidates('x', 4) = %v, want nil", got)
	}
	if d.MaxLen() != 5 {
		t.Errorf("MaxLen = %d, want 5", d.MaxLen())
	}
}

func TestLoadFallsBack(t *testing.T) {
	d, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !d.Has("cat") || !d.Has("actor") {
		t.Errorf("fallback dictionary missing expected words")
	}
	if d.HasZipf() {
		t.Errorf("HasZipf = true without frequency table")
	}
}

func TestLoadFromFiles(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "words.txt"), []byte("cat\nactor\nhello\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "word_frequencies.json"), []byte(`{"cat":5.6,"hello":6.0}`), 0644); err != nil {
		t.Fatal(err)
	}

	d, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if d.Len() != 3 {
		t.Errorf("Len = %d, want 3", d.Len())
	}
	if !d.HasZipf() {
		t.Fatalf("HasZipf = false, want true")
	}
	if got := d.Zipf("hello"); got != 6.0 {
		t.Errorf("Zipf(hello) = %v, want 6.0", got)
	}
	if got := d.Zipf("actor"); got != 0 {
		t.Errorf("Zipf(actor) = %v, want 0 for unlisted word", got)
	}
}

func TestDefinitionsLookup(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "definitions.json")
	if err := os.WriteFile(path, []byte(`{"cat":"a small domesticated feline"}`), 0644); err != nil {
		t.Fatal(err)
	}

	defs := NewDefinitions(path)
	if def, ok := defs.Lookup("cat"); !ok || def == "" {
		t.Errorf("Lookup(cat) = %q, %v; want definition", def, ok)
	}
	if _, ok := defs.Lookup("zzz"); ok {
		t.Errorf("Lookup(zzz) found, want miss")
	}
}

func TestDefinitionsMissingFile(t *testing.T) {
	defs := NewDefinitions(filepath.Join(t.TempDir(), "definitions.json"))
	if _, ok := defs.Lookup("cat"); ok {
		t.Errorf("Lookup on missing file should miss")
	}
}

func TestDefinitionsInvalidate(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "definitions.json")
	if err := os.WriteFile(path, []byte(`{"cat":"old"}`), 0644); err != nil {
		t.Fatal(err)
	}
	defs := NewDefinitions(path)
	if def, _ := defs.Lookup("cat"); def != "old" {
		t.Fatalf("Lookup = %q, want old", def)
	}

	if err := os.WriteFile(path, []byte(`{"cat":"new"}`), 0644); err != nil {
		t.Fatal(err)
	}
	defs.invalidate()
	if def, _ := defs.Lookup("cat"); def != "new" {
		t.Errorf("Lookup after invalidate = %q, want new", def)
	}
}
