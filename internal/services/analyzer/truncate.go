package analyzer

import (
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"
)

// earningsKeywords flag paragraphs that carry earnings substance. Long SEC
// documents bury the press release between boilerplate sections; keyword
// density finds it.
var earningsKeywords = []*regexp.Regexp{
	regexp.MustCompile(`(?i)earnings?\s+release`),
	regexp.MustCompile(`(?i)financial\s+results?`),
	regexp.MustCompile(`(?i)q[1-4]\s+\d{4}\s+results?`),
	regexp.MustCompile(`(?i)quarterly\s+results?`),
	regexp.MustCompile(`(?i)revenue`),
	regexp.MustCompile(`(?i)net\s+income`),
}

const topParagraphs = 20

// TruncateReport bounds report text to maxChars. Oversized documents are
// reduced to their most earnings-dense paragraphs first; a plain head
// truncation is the fallback when no paragraph scores.
func TruncateReport(text string, maxChars int) string {
	if maxChars <= 0 || len(text) <= maxChars {
		return text
	}

	if section := extractEarningsSection(text); section != "" {
		if len(section) > maxChars {
			section = headTruncate(section, maxChars)
		}
		return section
	}
	return headTruncate(text, maxChars)
}

// headTruncate cuts text at maxChars bytes, backing off to the nearest rune
// boundary so a multi-byte character is never split.
func headTruncate(text string, maxChars int) string {
	cut := maxChars
	for cut > 0 && !utf8.RuneStart(text[cut]) {
		cut--
	}
	return text[:cut]
}

// extractEarningsSection scores paragraphs by keyword hits and joins the
// top scorers in document order of rank. Returns "" when nothing scores.
func extractEarningsSection(text string) string {
	paragraphs := strings.Split(text, "\n\n")

	type scored struct {
		score int
		index int
		text  string
	}
	var hits []scored
	for i, para := range paragraphs {
		score := 0
		for _, keyword := range earningsKeywords {
			if keyword.MatchString(para) {
				score++
			}
		}
		if score > 0 {
			hits = append(hits, scored{score: score, index: i, text: para})
		}
	}
	if len(hits) == 0 {
		return ""
	}

	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].score != hits[j].score {
			return hits[i].score > hits[j].score
		}
		return hits[i].index < hits[j].index
	})
	if len(hits) > topParagraphs {
		hits = hits[:topParagraphs]
	}

	parts := make([]string, len(hits))
	for i, h := range hits {
		parts[i] = h.text
	}
	return strings.Join(parts, "\n\n")
}
