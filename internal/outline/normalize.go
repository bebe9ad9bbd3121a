package outline

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// arabicDiacritics matches the non-spacing marks of the Arabic block that are
// removed from right-to-left text before matching.
var arabicDiacritics = runes.Predicate(func(r rune) bool {
	if !unicode.Is(unicode.Mn, r) {
		return false
	}
	return (r >= 0x064B && r <= 0x065F) || r == 0x0670 || (r >= 0x06D6 && r <= 0x06ED)
})

// Normalize annotates every span with NFC-normalized text, its script and a
// language guess. It never fails; an empty span yields an empty normalized
// text with ScriptUnknown.
func Normalize(spans []TextSpan) []NormalizedSpan {
	out := make([]NormalizedSpan, 0, len(spans))
	for _, s := range spans {
		out = append(out, NormalizeSpan(s))
	}
	return out
}

// NormalizeSpan normalizes a single span.
func NormalizeSpan(s TextSpan) NormalizedSpan {
	text := NormalizeText(s.Text)
	script := DetectScript(text)
	if script.RTL() {
		text = stripDiacritics(text)
	}
	return NormalizedSpan{
		TextSpan:   s,
		Normalized: text,
		Script:     script,
		Language:   DetectLanguage(text, script),
	}
}

// NormalizeText composes text to NFC and collapses whitespace runs to a single
// space, trimming both ends.
func NormalizeText(text string) string {
	if text == "" {
		return ""
	}
	return strings.Join(strings.Fields(norm.NFC.String(text)), " ")
}

func stripDiacritics(text string) string {
	out, _, err := transform.String(runes.Remove(arabicDiacritics), text)
	if err != nil {
		return text
	}
	return out
}

func wordCount(s string) int {
	return len(strings.Fields(s))
}
