package processing

import (
	"context"
	"fmt"
)

// --- Content Evaluation Structs and Logic ---

// Evaluation is the structured output of the quality gate. Videos with a
// SKIP verdict are never rendered.
type Evaluation struct {
	ScrollStop   int      `json:"scroll_stop" jsonschema_description:"Does the hook stop the scroll? 1-10"`
	InfoValue    int      `json:"info_value" jsonschema_description:"Does the viewer learn something useful or surprising? 1-10"`
	Emotion      int      `json:"emotion" jsonschema_description:"Does it trigger a strong emotion? 1-10"`
	Shareability int      `json:"shareability" jsonschema_description:"Would someone send this to a friend? 1-10"`
	CommentBait  int      `json:"comment_bait" jsonschema_description:"Does it provoke discussion? 1-10"`
	Overall      int      `json:"overall" jsonschema_description:"Overall viral potential, 1-10"`
	Verdict      string   `json:"verdict" jsonschema:"enum=VIRAL,enum=GOOD,enum=WEAK,enum=SKIP"`
	Improvements []string `json:"improvements" jsonschema_description:"Up to two specific improvements"`
}

var evaluationSchema = GenerateSchema[Evaluation]()

// ShouldGenerate reports whether the evaluated content is worth rendering.
func (e *Evaluation) ShouldGenerate() bool {
	return e.Verdict != "SKIP"
}

// EvaluateContent scores hook and content for viral potential before any
// expensive asset fetching or rendering happens.
func EvaluateContent(ctx context.Context, hook, content, videoType string) (*Evaluation, error) {
	client, err := newClient()
	if err != nil {
		return nil, err
	}

	prompt := fmt.Sprintf(`You are a shorts-algorithm expert who has analyzed millions of viral videos. Be harsh - only truly engaging content gets high scores.

Evaluate this video content for viral potential:

HOOK: "%s"
CONTENT: "%s"
TYPE: %s

Score each dimension 1-10:

1. SCROLL-STOPPING POWER - the first half second must be unmissable; a pattern interrupt or curiosity gap is required.
2. INFORMATION VALUE - not just "interesting" but USEFUL or SURPRISING; must feel like insider knowledge.
3. EMOTIONAL INTENSITY - fear, anger, joy, surprise, or awe; weak emotions mean no shares.
4. SHAREABILITY - "you HAVE to see this"; must create social currency.
5. COMMENT BAIT - controversial without being offensive; easy to have an opinion.

Then give an overall score, a verdict (VIRAL, GOOD, WEAK or SKIP), and up to two concrete improvements.`,
		hook, content, videoType)

	eval, err := getStructuredResponse[Evaluation](ctx, client, prompt, evaluationSchema)
	if err != nil {
		return nil, fmt.Errorf("failed to evaluate content: %w", err)
	}
	return eval, nil
}
