package processing

import (
	"math"
	"strings"
	"testing"
)

func TestSplitPhrasesBasic(t *testing.T) {
	content := "The ocean hides ninety five percent of itself. Scientists have mapped more of Mars! What else is down there?"
	phrases := SplitPhrases(content, 4)

	if len(phrases) != 3 {
		t.Fatalf("expected 3 phrases, got %d: %v", len(phrases), phrases)
	}
	if phrases[0] != "The ocean hides ninety five percent of itself" {
		t.Errorf("unexpected first phrase: %q", phrases[0])
	}
}

func TestSplitPhrasesLongSentenceSplitsOnCommas(t *testing.T) {
	content := "In the deepest trenches of the Pacific Ocean, creatures survive crushing pressure, total darkness, and near freezing temperatures every single day."
	phrases := SplitPhrases(content, 4)

	if len(phrases) < 2 {
		t.Fatalf("expected long sentence split on commas, got %v", phrases)
	}
	for _, p := range phrases {
		if strings.HasPrefix(p, " ") || strings.HasSuffix(p, " ") {
			t.Errorf("phrase not trimmed: %q", p)
		}
	}
}

func TestSplitPhrasesMergesShortFragments(t *testing.T) {
	content := "Wait. Look closer. This changes everything you thought you knew about sleep."
	phrases := SplitPhrases(content, 4)

	for _, p := range phrases[:len(phrases)-1] {
		if len(p) < 10 {
			t.Errorf("tiny fragment %q survived the merge pass", p)
		}
	}
	// "Wait" and "Look closer" should have been merged together.
	if !strings.Contains(phrases[0], "Wait") || !strings.Contains(phrases[0], "Look closer") {
		t.Errorf("expected short fragments merged into first phrase, got %q", phrases[0])
	}
}

func TestSplitPhrasesCapsAtTarget(t *testing.T) {
	content := strings.Repeat("This sentence is long enough to stand completely alone here. ", 10)
	phrases := SplitPhrases(content, 4)

	if len(phrases) != 4 {
		t.Errorf("expected cap at 4 phrases, got %d", len(phrases))
	}
}

func TestSplitPhrasesEmptyAndZeroTarget(t *testing.T) {
	if got := SplitPhrases("", 4); len(got) != 0 {
		t.Errorf("expected no phrases for empty content, got %v", got)
	}
	if got := SplitPhrases("Hello there.", 0); got != nil {
		t.Errorf("expected nil for zero target, got %v", got)
	}
}

func TestPhraseDurationsProportional(t *testing.T) {
	phrases := []string{
		strings.Repeat("a", 30),
		strings.Repeat("b", 60),
		strings.Repeat("c", 90),
	}
	durations := PhraseDurations(phrases, 18.0)

	if len(durations) != 3 {
		t.Fatalf("expected 3 durations, got %d", len(durations))
	}
	if math.Abs(durations[0]-3.0) > 0.01 {
		t.Errorf("expected 3.0s for shortest phrase, got %f", durations[0])
	}
	if math.Abs(durations[2]-9.0) > 0.01 {
		t.Errorf("expected 9.0s for longest phrase, got %f", durations[2])
	}
}

func TestPhraseDurationsFloor(t *testing.T) {
	phrases := []string{"Hi", strings.Repeat("x", 200)}
	durations := PhraseDurations(phrases, 10.0)

	if durations[0] < MinPhraseSeconds {
		t.Errorf("expected floor of %f seconds, got %f", MinPhraseSeconds, durations[0])
	}
}

func TestPhraseDurationsEmpty(t *testing.T) {
	if got := PhraseDurations(nil, 10.0); got != nil {
		t.Errorf("expected nil for no phrases, got %v", got)
	}
}

func TestStripEmojis(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Mind blown 🤯", "Mind blown"},
		{"🔥 This is wild 🔥", "This is wild"},
		{"No emojis here", "No emojis here"},
		{"Stars ⭐ and arrows ➡ gone", "Stars  and arrows  gone"},
	}
	for _, c := range cases {
		if got := StripEmojis(c.in); got != c.want {
			t.Errorf("StripEmojis(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}
