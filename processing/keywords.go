package processing

import (
	"context"
	"fmt"
	"log"
	"strings"
)

// --- Per-Phrase B-roll Keyword Logic ---

// KeywordList is the structured output for keyword generation
type KeywordList struct {
	Keywords []string `json:"keywords" jsonschema_description:"One specific, searchable stock-footage keyword per phrase, in order."`
}

var keywordListSchema = GenerateSchema[KeywordList]()

// fallbackKeywords cover a generation failure: generic but searchable.
var fallbackKeywords = []string{
	"dark cityscape",
	"thinking person",
	"abstract motion",
	"success celebration",
}

// KeywordsForPhrases asks the LLM for one B-roll search keyword per
// phrase. On any failure it falls back to generic keywords so the
// pipeline never stalls on keyword generation.
func KeywordsForPhrases(ctx context.Context, phrases []string) []string {
	keywords, err := generateKeywords(ctx, phrases)
	if err != nil {
		log.Printf("Keyword generation failed, using fallbacks: %v", err)
		return defaultKeywords(len(phrases))
	}
	if len(keywords) < len(phrases) {
		log.Printf("LLM returned %d keywords for %d phrases, padding with fallbacks", len(keywords), len(phrases))
		keywords = append(keywords, defaultKeywords(len(phrases)-len(keywords))...)
	}
	return keywords[:len(phrases)]
}

func generateKeywords(ctx context.Context, phrases []string) ([]string, error) {
	client, err := newClient()
	if err != nil {
		return nil, err
	}

	var numbered []string
	for i, p := range phrases {
		numbered = append(numbered, fmt.Sprintf("%d. %s", i+1, p))
	}

	prompt := fmt.Sprintf(`You are a video editor. For each phrase, suggest ONE specific B-roll video keyword.

Phrases:
%s

Rules:
- Keywords must be SPECIFIC and searchable (e.g., "person looking at phone" not "technology")
- Match the EMOTIONAL content of each phrase
- Think about what visual would ENHANCE understanding

Return one keyword per phrase, in order.`, strings.Join(numbered, "\n"))

	list, err := getStructuredResponse[KeywordList](ctx, client, prompt, keywordListSchema)
	if err != nil {
		return nil, err
	}
	if len(list.Keywords) == 0 {
		return nil, fmt.Errorf("LLM returned no keywords")
	}

	var cleaned []string
	for _, k := range list.Keywords {
		if k = strings.TrimSpace(StripEmojis(k)); k != "" {
			cleaned = append(cleaned, k)
		}
	}
	if len(cleaned) == 0 {
		return nil, fmt.Errorf("LLM returned only blank keywords")
	}
	return cleaned, nil
}

// defaultKeywords returns n generic fallback keywords, cycling the list
// if n exceeds it.
func defaultKeywords(n int) []string {
	out := make([]string, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, fallbackKeywords[i%len(fallbackKeywords)])
	}
	return out
}
