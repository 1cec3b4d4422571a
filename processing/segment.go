package processing

import (
	"strings"
)

const (
	// Sentences longer than this get split further on commas.
	longSentenceChars = 60

	// Fragments shorter than this get merged with their neighbor.
	shortPhraseChars = 40

	// MinPhraseSeconds is the floor for a single segment's screen time.
	MinPhraseSeconds = 2.0
)

// SplitPhrases splits narration into natural phrases, one B-roll segment
// each. Sentences are cut on terminal punctuation, long sentences are cut
// again on commas, and tiny fragments are merged so no segment flashes by.
// At most targetPhrases phrases are returned.
func SplitPhrases(content string, targetPhrases int) []string {
	if targetPhrases <= 0 {
		return nil
	}

	sentences := splitAny(content, ".!?")

	var phrases []string
	for _, sentence := range sentences {
		if len(sentence) > longSentenceChars {
			for _, part := range strings.Split(sentence, ",") {
				if p := strings.TrimSpace(part); p != "" {
					phrases = append(phrases, p)
				}
			}
		} else {
			phrases = append(phrases, sentence)
		}
	}

	// Merge very short phrases into a buffer until it reaches a readable length.
	var merged []string
	buffer := ""
	for _, phrase := range phrases {
		if len(buffer)+len(phrase) < shortPhraseChars {
			if buffer != "" {
				buffer += " " + phrase
			} else {
				buffer = phrase
			}
		} else {
			if buffer != "" {
				merged = append(merged, buffer)
			}
			buffer = phrase
		}
	}
	if buffer != "" {
		merged = append(merged, buffer)
	}

	if len(merged) > targetPhrases {
		merged = merged[:targetPhrases]
	}
	return merged
}

// splitAny splits s on any of the runes in cutset, trimming whitespace
// and dropping empty pieces.
func splitAny(s, cutset string) []string {
	parts := strings.FieldsFunc(s, func(r rune) bool {
		return strings.ContainsRune(cutset, r)
	})
	var out []string
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// PhraseDurations distributes the voiceover duration across phrases
// proportionally to their character count. Every phrase gets at least
// MinPhraseSeconds of screen time.
func PhraseDurations(phrases []string, totalSeconds float64) []float64 {
	if len(phrases) == 0 {
		return nil
	}

	totalChars := 0
	for _, p := range phrases {
		totalChars += len(p)
	}

	durations := make([]float64, len(phrases))
	for i, p := range phrases {
		d := 0.0
		if totalChars > 0 {
			d = float64(len(p)) / float64(totalChars) * totalSeconds
		}
		if d < MinPhraseSeconds {
			d = MinPhraseSeconds
		}
		durations[i] = d
	}
	return durations
}
