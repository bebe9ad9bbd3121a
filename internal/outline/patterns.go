package outline

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/language"
)

// Pattern tables are built once at package init and never modified.

// noiseMarkers exclude a span from both heading and title selection.
var noiseMarkers = []string{
	"figure", "table", "page", "www.", "http", "@",
	"copyright", "©", "et al.", "ibid",
}

// h1Terms name major document sections.
var h1Terms = []string{
	"abstract", "introduction", "conclusion", "summary", "overview",
	"background", "methodology", "results", "discussion", "references",
	"about", "experience", "education", "skills", "projects", "contact",
	"objective", "profile", "qualifications", "achievements", "awards",
}

// h2Terms name subsections and categories.
var h2Terms = []string{
	"work experience", "employment history", "professional experience",
	"technical skills", "core competencies", "key skills", "expertise",
	"certifications", "publications", "research", "languages",
	"extracurricular", "activities", "volunteering", "interests",
	"tools", "technologies", "software", "platforms",
}

// h3Terms name leaf-level technical topics.
var h3Terms = []string{
	"programming languages", "frameworks", "databases", "operating systems",
	"web technologies", "mobile development", "cloud platforms",
	"project management", "soft skills", "leadership", "communication",
}

// localizedH1Terms extend h1Terms for text detected in another language.
var localizedH1Terms = map[language.Tag][]string{
	language.Spanish:  {"capítulo", "sección", "parte", "introducción", "conclusión", "resumen", "índice", "contenido", "referencias", "bibliografía", "apéndice"},
	language.French:   {"chapitre", "section", "partie", "introduction", "conclusion", "résumé", "index", "contenu", "références", "bibliographie", "annexe"},
	language.German:   {"kapitel", "abschnitt", "teil", "einführung", "fazit", "zusammenfassung", "index", "inhalt", "verzeichnis", "literatur", "anhang"},
	// Kanji-only Japanese headings are detected as Chinese, so their terms
	// are listed here as well.
	language.Chinese:  {"目录", "索引", "摘要", "总结", "结论", "附录", "目次", "要約", "結論", "付録"},
	language.Japanese: {"目次", "索引", "要約", "結論", "付録"},
	language.Arabic:   {"الفصل", "المحتويات", "الفهرس", "الملخص", "الخاتمة", "المراجع"},
	language.Hindi:    {"अध्याय", "सूची", "सारांश", "निष्कर्ष", "संदर्भ"},
}

// chapterMarker matches CJK chapter numbering such as 第三章 or 第2章.
var chapterMarker = regexp.MustCompile(`第[一二三四五六七八九十百\d]+章`)

// institutionTerms hint at organisation names in resumes and reports.
var institutionTerms = []string{
	"university", "college", "institute", "company", "corporation",
	"ltd", "inc", "llc", "technologies", "systems", "solutions",
}

var (
	numberedPrefix    = regexp.MustCompile(`^[0-9]+\.?\s+`)
	subnumberedPrefix = regexp.MustCompile(`^[0-9]+\.[0-9]+\.?\s+`)
	letteredPrefix    = regexp.MustCompile(`^[a-zA-Z][).]\s+`)
	romanPrefix       = regexp.MustCompile(`(?i)^[ivxlc]+\.?\s+`)
)

// h1TermsByLanguage merges h1Terms with each localized list, without duplicates.
var h1TermsByLanguage = func() map[language.Tag][]string {
	out := make(map[language.Tag][]string, len(localizedH1Terms))
	for tag, extra := range localizedH1Terms {
		seen := make(map[string]bool, len(h1Terms)+len(extra))
		merged := make([]string, 0, len(h1Terms)+len(extra))
		for _, t := range append(append([]string{}, h1Terms...), extra...) {
			if !seen[t] {
				seen[t] = true
				merged = append(merged, t)
			}
		}
		out[tag] = merged
	}
	return out
}()

func h1TermsFor(tag language.Tag) []string {
	if terms, ok := h1TermsByLanguage[tag]; ok {
		return terms
	}
	return h1Terms
}

// containsNoise reports whether text contains any noise marker, ignoring case.
func containsNoise(text string) bool {
	lower := strings.ToLower(text)
	for _, m := range noiseMarkers {
		if strings.Contains(lower, m) {
			return true
		}
	}
	return false
}

// countTerms returns how many terms occur in lower.
func countTerms(lower string, terms []string) int {
	n := 0
	for _, t := range terms {
		if strings.Contains(lower, t) {
			n++
		}
	}
	return n
}

// isAllCaps reports whether text has at least one cased letter and no
// lowercase ones.
func isAllCaps(text string) bool {
	upper := false
	for _, r := range text {
		if unicode.IsLower(r) {
			return false
		}
		if unicode.IsUpper(r) || unicode.IsTitle(r) {
			upper = true
		}
	}
	return upper
}

// hasNumericLead reports whether the text before the first '.' is made of
// digits only, ignoring spaces ("1. Introduction", "12").
func hasNumericLead(text string) bool {
	seg, _, _ := strings.Cut(text, ".")
	seg = strings.ReplaceAll(seg, " ", "")
	if seg == "" {
		return false
	}
	for _, r := range seg {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

func endsWithSentencePunct(text string) bool {
	return strings.HasSuffix(text, ".") || strings.HasSuffix(text, "!") || strings.HasSuffix(text, "?")
}
