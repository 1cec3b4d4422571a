package render

import (
	"strings"
	"testing"
)

func TestWrapText(t *testing.T) {
	got := WrapText("the quick brown fox jumps over the lazy dog", 15)
	for _, line := range strings.Split(got, "\n") {
		if len(line) > 15 {
			t.Errorf("line exceeds limit: %q (%d chars)", line, len(line))
		}
	}
	if strings.Join(strings.Fields(got), " ") != "the quick brown fox jumps over the lazy dog" {
		t.Errorf("wrapping lost or reordered words: %q", got)
	}
}

func TestWrapTextSingleLongWord(t *testing.T) {
	// A word longer than the limit stays on its own line, never split.
	got := WrapText("supercalifragilistic is long", 10)
	lines := strings.Split(got, "\n")
	if lines[0] != "supercalifragilistic" {
		t.Errorf("first line = %q", lines[0])
	}
}

func TestWrapTextEmpty(t *testing.T) {
	if got := WrapText("", 24); got != "" {
		t.Errorf("expected empty string, got %q", got)
	}
}

func TestEscapeDrawText(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"it's 100% true", `it\'s 100\% true`},
		{"ratio 16:9", `ratio 16\:9`},
		{`back\slash`, `back\\slash`},
		{"plain text", "plain text"},
	}
	for _, c := range cases {
		if got := EscapeDrawText(c.in); got != c.want {
			t.Errorf("EscapeDrawText(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}
