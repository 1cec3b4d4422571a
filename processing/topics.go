package processing

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/asaadbalum2/QuizBot-Shorts/models"
)

// --- Topic Generation Structs and Logic ---

// TopicBatch is the structured output for topic generation
type TopicBatch struct {
	Topics []Topic `json:"topics" jsonschema_description:"A list of viral short-form video ideas."`
}

// Topic is one generated video idea
type Topic struct {
	Topic         string   `json:"topic" jsonschema_description:"2-4 word topic name"`
	VideoType     string   `json:"video_type" jsonschema:"enum=scary_fact,enum=money_fact,enum=psychology_fact,enum=life_hack,enum=mind_blow"`
	Hook          string   `json:"hook" jsonschema_description:"7-10 word attention grabber, no emojis, pure text only"`
	Content       string   `json:"content" jsonschema_description:"The actual content: a shocking claim, the evidence, and the implication for the viewer. 60-100 words."`
	CallToAction  string   `json:"call_to_action" jsonschema_description:"Comment prompt that drives engagement"`
	BrollKeywords []string `json:"broll_keywords" jsonschema_description:"Four specific, searchable stock-footage keywords"`
	MusicMood     string   `json:"music_mood" jsonschema:"enum=fun,enum=dramatic,enum=mysterious,enum=energetic,enum=chill"`
	ViralityScore int      `json:"virality_score" jsonschema_description:"Self-assessed viral potential from 1 to 10"`
	WhyViral      string   `json:"why_viral" jsonschema_description:"One sentence on the psychology of why this will spread"`
}

var topicBatchSchema = GenerateSchema[TopicBatch]()

// GenerateTopics asks the LLM for viral video ideas for a channel,
// avoiding topics the channel has already covered. All text fields are
// stripped of emojis before being returned.
// The boost argument carries learned title/hook patterns from the
// insights analyzer; pass "" when none are available.
func GenerateTopics(ctx context.Context, channel models.Channel, count int, existingTopics []string, boost string) ([]Topic, error) {
	client, err := newClient()
	if err != nil {
		return nil, err
	}

	now := time.Now()
	prompt := fmt.Sprintf(`You are a short-form content strategist with a deep understanding of viewer psychology. Your videos have generated billions of views.

Your task: generate %d video ideas that WILL go viral as vertical shorts.

CHANNEL:
- Title: %s
- Description: %s
- Niche: %s

CURRENT CONTEXT:
- Date: %s
- Day: %s
- Season: %s

PSYCHOLOGICAL TRIGGERS TO USE (pick 2-3 per video):
1. CURIOSITY GAP - Create an information gap that MUST be closed
2. CONTROVERSY - Divisive topics that demand engagement
3. FEAR/THREAT - Survival instinct activation
4. SOCIAL PROOF - "Everyone is talking about..."
5. SCARCITY - "Only 1%% know this..."
6. IDENTITY - "Are you a X or Y person?"
7. EMOTIONAL RESONANCE - Touch deep feelings
8. PATTERN INTERRUPT - Unexpected twists

B-ROLL KEYWORDS MUST BE:
- Highly specific (not "abstract" but "neon city lights at night")
- Visually dynamic (movement, contrast, color)
- Available on stock video sites

CRITICAL RULES:
1. NO EMOJIS in any field (they don't render properly)
2. Hooks must create INSTANT curiosity in under 2 seconds
3. Content must be SURPRISING - not just "did you know" facts
4. Include an actionable insight or revelation

These topics have already been used on this channel:
%s
%s`,
		count,
		channel.Title, channel.Description, channel.Niche,
		now.Format("2006-01-02"), now.Weekday(), seasonContext(now),
		formatExistingTopics(existingTopics),
		boost,
	)

	batch, err := getStructuredResponse[TopicBatch](ctx, client, prompt, topicBatchSchema)
	if err != nil {
		return nil, fmt.Errorf("failed to generate topics: %w", err)
	}

	if len(batch.Topics) == 0 {
		return nil, fmt.Errorf("LLM returned no topics")
	}

	for i := range batch.Topics {
		t := &batch.Topics[i]
		t.Topic = StripEmojis(t.Topic)
		t.Hook = StripEmojis(t.Hook)
		t.Content = StripEmojis(t.Content)
		t.CallToAction = StripEmojis(t.CallToAction)
	}

	log.Printf("Generated %d topic ideas for channel %d", len(batch.Topics), channel.ID)
	return batch.Topics, nil
}

// seasonContext maps the month to a themed hint for the prompt.
func seasonContext(now time.Time) string {
	switch now.Month() {
	case time.December, time.January, time.February:
		return "winter - holiday themes, new year goals, cozy content"
	case time.March, time.April, time.May:
		return "spring - fresh starts, outdoor activities"
	case time.June, time.July, time.August:
		return "summer - travel, freedom, adventure"
	default:
		return "fall - back to routine, self-improvement, spooky themes"
	}
}

// formatExistingTopics formats the used-topic list for the prompt
func formatExistingTopics(topics []string) string {
	if len(topics) == 0 {
		return "- None (this is the first video)"
	}
	var formatted []string
	for _, topic := range topics {
		if topic != "" {
			formatted = append(formatted, fmt.Sprintf("- %s", topic))
		}
	}
	if len(formatted) == 0 {
		return "- None (this is the first video)"
	}
	return strings.Join(formatted, "\n")
}
