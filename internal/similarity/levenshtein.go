// Package similarity implements the lexical and semantic similarity measures
// used for fuzzy keyword matching and résumé/posting comparison.
package similarity

import (
	"strings"
	"unicode/utf8"
)

// Levenshtein returns the edit distance between a and b, counted in runes.
func Levenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(rb)]
}

// LevenshteinSimilarity normalizes the edit distance into [0,1].
// Two empty strings are identical.
func LevenshteinSimilarity(a, b string) float64 {
	maxLen := max(utf8.RuneCountInString(a), utf8.RuneCountInString(b))
	if maxLen == 0 {
		return 1
	}
	return 1 - float64(Levenshtein(a, b))/float64(maxLen)
}

const (
	// FuzzyThreshold is the minimum similarity for a word to count as a match.
	FuzzyThreshold = 0.88
	// ShortFuzzyThreshold applies to keywords shorter than five characters.
	ShortFuzzyThreshold = 0.92
	// JaroWinklerThreshold accepts transposed or dropped letters in words of
	// five or more characters whose lengths differ by at most one.
	JaroWinklerThreshold = 0.92

	minJaroWinklerLength = 5
)

// FuzzyContains reports whether text contains keyword, either as a
// case-insensitive substring or as a word of three or more characters within
// the fuzzy threshold. Longer words also match on Jaro-Winkler similarity.
func FuzzyContains(text, keyword string) bool {
	kw := strings.ToLower(keyword)
	lower := strings.ToLower(text)
	if kw == "" {
		return false
	}
	if strings.Contains(lower, kw) {
		return true
	}

	kwLen := utf8.RuneCountInString(kw)
	threshold := FuzzyThreshold
	if kwLen < 5 {
		threshold = ShortFuzzyThreshold
	}
	for _, word := range strings.Fields(lower) {
		word = strings.Trim(word, ".,;:!?()[]\"'")
		wordLen := utf8.RuneCountInString(word)
		if wordLen < 3 {
			continue
		}
		if LevenshteinSimilarity(kw, word) >= threshold {
			return true
		}
		if nearMiss(kw, word, kwLen, wordLen) {
			return true
		}
	}
	return false
}

func nearMiss(kw, word string, kwLen, wordLen int) bool {
	if kwLen < minJaroWinklerLength || wordLen < minJaroWinklerLength {
		return false
	}
	if kwLen-wordLen > 1 || wordLen-kwLen > 1 {
		return false
	}
	return JaroWinkler(kw, word) >= JaroWinklerThreshold
}
