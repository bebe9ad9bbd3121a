package outline

import (
	"regexp"

	"golang.org/x/text/language"
)

// Script is the writing system detected for a piece of text.
type Script int

const (
	ScriptUnknown Script = iota
	ScriptLatin
	ScriptCyrillic
	ScriptArabic
	ScriptHebrew
	ScriptChinese
	ScriptJapanese
	ScriptKorean
	ScriptDevanagari
	ScriptThai
)

func (s Script) String() string {
	switch s {
	case ScriptLatin:
		return "latin"
	case ScriptCyrillic:
		return "cyrillic"
	case ScriptArabic:
		return "arabic"
	case ScriptHebrew:
		return "hebrew"
	case ScriptChinese:
		return "chinese"
	case ScriptJapanese:
		return "japanese"
	case ScriptKorean:
		return "korean"
	case ScriptDevanagari:
		return "devanagari"
	case ScriptThai:
		return "thai"
	default:
		return "unknown"
	}
}

// RTL reports whether the script is written right to left.
func (s Script) RTL() bool {
	return s == ScriptArabic || s == ScriptHebrew
}

type scriptTest struct {
	script Script
	match  func(r rune) bool
}

// scriptTests is ordered; earlier entries win ties.
var scriptTests = []scriptTest{
	{ScriptLatin, isLatinLetter},
	{ScriptCyrillic, func(r rune) bool { return r >= 0x0400 && r <= 0x04FF }},
	{ScriptArabic, func(r rune) bool { return r >= 0x0600 && r <= 0x06FF }},
	{ScriptHebrew, func(r rune) bool { return r >= 0x0590 && r <= 0x05FF }},
	{ScriptChinese, func(r rune) bool { return r >= 0x4E00 && r <= 0x9FFF }},
	{ScriptJapanese, func(r rune) bool { return r >= 0x3040 && r <= 0x30FF }},
	{ScriptKorean, func(r rune) bool { return r >= 0xAC00 && r <= 0xD7AF }},
	{ScriptDevanagari, func(r rune) bool { return r >= 0x0900 && r <= 0x097F }},
	{ScriptThai, func(r rune) bool { return r >= 0x0E00 && r <= 0x0E7F }},
}

// isLatinLetter covers ASCII letters plus the Latin-1 and Extended-A/B letter
// ranges, skipping the multiplication and division signs.
func isLatinLetter(r rune) bool {
	switch {
	case r >= 'A' && r <= 'Z', r >= 'a' && r <= 'z':
		return true
	case r == 0x00D7 || r == 0x00F7:
		return false
	case r >= 0x00C0 && r <= 0x024F:
		return true
	}
	return false
}

// DetectScript returns the script with the most matching runes in text.
func DetectScript(text string) Script {
	if text == "" {
		return ScriptUnknown
	}
	counts := make([]int, len(scriptTests))
	for _, r := range text {
		for i, t := range scriptTests {
			if t.match(r) {
				counts[i]++
				break
			}
		}
	}
	best, bestCount := ScriptUnknown, 0
	for i, c := range counts {
		if c > bestCount {
			best, bestCount = scriptTests[i].script, c
		}
	}
	return best
}

var scriptLanguages = map[Script]language.Tag{
	ScriptLatin:      language.English,
	ScriptCyrillic:   language.Russian,
	ScriptArabic:     language.Arabic,
	ScriptHebrew:     language.Hebrew,
	ScriptChinese:    language.Chinese,
	ScriptJapanese:   language.Japanese,
	ScriptKorean:     language.Korean,
	ScriptDevanagari: language.Hindi,
	ScriptThai:       language.Thai,
}

// latinLanguageHints distinguish Latin-script languages by their section
// vocabulary. Checked in order; English is the default.
var latinLanguageHints = []struct {
	tag     language.Tag
	pattern *regexp.Regexp
}{
	{language.Spanish, wordPattern(`capítulo|sección|introducción|conclusión|resumen|índice|contenido|referencias|bibliografía|apéndice`)},
	{language.French, wordPattern(`chapitre|partie|résumé|contenu|références|bibliographie|annexe`)},
	{language.German, wordPattern(`kapitel|abschnitt|teil|einführung|fazit|zusammenfassung|inhalt|verzeichnis|literatur|anhang`)},
}

// wordPattern matches any of the |-separated words delimited by non-letters.
// regexp's \b is ASCII-only, which breaks on accented words.
func wordPattern(words string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)(?:^|\P{L})(?:` + words + `)(?:\P{L}|$)`)
}

// DetectLanguage gives a best-effort language tag for text written in script.
func DetectLanguage(text string, script Script) language.Tag {
	tag, ok := scriptLanguages[script]
	if !ok {
		return language.Und
	}
	if script == ScriptLatin {
		for _, h := range latinLanguageHints {
			if h.pattern.MatchString(text) {
				return h.tag
			}
		}
	}
	return tag
}
