package processing

import (
	"context"
	"fmt"
	"strings"
)

// --- Voiceover Script Structs and Logic ---

// VoiceoverScript is the structured output of the narration rewrite
type VoiceoverScript struct {
	Script       string  `json:"script" jsonschema_description:"The complete voiceover script with pauses written as ..."`
	WordCount    int     `json:"word_count"`
	EstimatedSec float64 `json:"estimated_duration_seconds"`
	HookLine     string  `json:"hook_line" jsonschema_description:"First line only"`
	ClosingLine  string  `json:"closing_line" jsonschema_description:"Last line only"`
}

var voiceoverScriptSchema = GenerateSchema[VoiceoverScript]()

// GenerateVoiceoverScript rewrites raw content into a paced narration
// script suitable for TTS: short punchy sentences, strategic pauses,
// no filler words.
func GenerateVoiceoverScript(ctx context.Context, content string) (*VoiceoverScript, error) {
	client, err := newClient()
	if err != nil {
		return nil, err
	}

	prompt := fmt.Sprintf(`You are a narration coach for short vertical videos with expert pacing instincts.

Write a voiceover script that:
1. HOOKS in the first second with a pattern interrupt
2. BUILDS tension and curiosity through the middle
3. DELIVERS a satisfying payoff
4. ENDS with an engagement driver

CONTENT TO ADAPT: "%s"
TARGET DURATION: 15-30 seconds (about 50-80 words)

PACING RULES:
- Short, punchy sentences (5-10 words max)
- Strategic pauses indicated by "..."
- No filler words ("um", "like", "basically")
- Conversational but authoritative

BAD: "Did you know that the average person walks past 36 murderers in their lifetime?"
GOOD: "You've walked past... 36 murderers... in YOUR lifetime. Scientists confirmed it."`, content)

	script, err := getStructuredResponse[VoiceoverScript](ctx, client, prompt, voiceoverScriptSchema)
	if err != nil {
		return nil, fmt.Errorf("failed to generate voiceover script: %w", err)
	}

	script.Script = StripEmojis(script.Script)
	if strings.TrimSpace(script.Script) == "" {
		return nil, fmt.Errorf("LLM returned empty voiceover script")
	}
	return script, nil
}
