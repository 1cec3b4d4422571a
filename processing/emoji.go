package processing

import (
	"strings"
	"unicode"
)

// StripEmojis removes emojis and pictographic symbols from text. They
// don't render in the drawtext overlay, so every LLM-produced field is
// cleaned before it reaches the pipeline.
func StripEmojis(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if isEmojiRune(r) {
			continue
		}
		b.WriteRune(r)
	}
	return strings.TrimSpace(b.String())
}

func isEmojiRune(r rune) bool {
	switch {
	case r >= 0x1F300 && r <= 0x1FAFF: // pictographs, emoticons, transport, supplemental
		return true
	case r >= 0x1F1E0 && r <= 0x1F1FF: // regional indicators (flags)
		return true
	case r >= 0x2600 && r <= 0x27BF: // misc symbols and dingbats
		return true
	case r >= 0x2B00 && r <= 0x2BFF: // arrows and stars
		return true
	case r == 0x200D || r == 0xFE0F || r == 0x20E3: // joiners and variation selectors
		return true
	case r >= 0x2190 && r <= 0x21FF: // arrows
		return true
	case unicode.Is(unicode.Variation_Selector, r):
		return true
	}
	return false
}
