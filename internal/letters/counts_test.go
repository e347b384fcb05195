package letters

import "testing"

func TestCountAndString(t *testing.T) {
	c := Count("actor")
	if c.Total() != 5 {
		t.Errorf("Total = %d, want 5", c.Total())
	}
	if got := c.String(); got != "acort" {
		t.Errorf("String = %q, want %q", got, "acort")
	}
}

func TestAddSub(t *testing.T) {
	cat := Count("cat")
	or := Count("or")
	pool := cat.Add(or)
	if got := pool.String(); got != "acort" {
		t.Errorf("Add = %q, want %q", got, "acort")
	}
	back := pool.Sub(or)
	if back != cat {
		t.Errorf("Sub = %q, want %q", back.String(), cat.String())
	}
}

func TestContains(t *testing.T) {
	tests := []struct {
		pool, word string
		want       bool
	}{
		{"actor", "cat", true},
		{"actor", "actor", true},
		{"actor", "attar", false},
		{"cat", "actor", false},
		{"", "", true},
		{"zzz", "zz", true},
	}
	for _, tt := range tests {
		if got := Count(tt.pool).Contains(Count(tt.word)); got != tt.want {
			t.Errorf("Count(%q).Contains(Count(%q)) = %v, want %v", tt.pool, tt.word, got, tt.want)
		}
	}
}

func TestLetters(t *testing.T) {
	got := Count("elephant").Letters()
	want := []string{"a", "e", "e", "h", "l", "n", "p", "t"}
	if len(got) != len(want) {
		t.Fatalf("Letters = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Letters[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct{ in, want string }{
		{"Cat!", "cat"},
		{"HELLO world", "helloworld"},
		{"a1b2c3", "abc"},
		{"", ""},
		{"éclair", "clair"},
	}
	for _, tt := range tests {
		if got := Normalize(tt.in); got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
