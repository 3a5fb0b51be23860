package search

import (
	"strings"
	"unicode"
)

const (
	snippetContext = 50
	snippetMaxLen  = 200
)

// Snippet builds a short excerpt of text around the first query term that
// appears in it. The match is case-insensitive; positions are counted in
// runes so multi-byte text excerpts cleanly. When no term matches, the
// excerpt is simply the head of the text.
func Snippet(text, query string) string {
	runes := []rune(text)

	for _, term := range strings.Fields(query) {
		termRunes := []rune(term)
		runeIdx := indexFold(runes, termRunes)
		if runeIdx < 0 {
			continue
		}

		start := runeIdx - snippetContext
		if start < 0 {
			start = 0
		}
		end := runeIdx + len(termRunes) + snippetContext
		if end > len(runes) {
			end = len(runes)
		}

		return clip(string(runes[start:end]))
	}

	return clip(text)
}

// indexFold reports the rune index of the first case-insensitive occurrence
// of term in runes, or -1. Comparing rune by rune keeps indices aligned with
// the original text even where strings.ToLower would change the rune count,
// as with U+0130.
func indexFold(runes, term []rune) int {
	if len(term) == 0 || len(term) > len(runes) {
		return -1
	}
	for i := 0; i+len(term) <= len(runes); i++ {
		match := true
		for j, t := range term {
			if unicode.ToLower(runes[i+j]) != unicode.ToLower(t) {
				match = false
				break
			}
		}
		if match {
			return i
		}
	}
	return -1
}

// clip bounds a snippet to snippetMaxLen runes, marking the cut with "...".
func clip(s string) string {
	runes := []rune(s)
	if len(runes) <= snippetMaxLen {
		return s
	}
	return string(runes[:snippetMaxLen]) + "..."
}
