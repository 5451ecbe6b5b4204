package similarity

import "strings"

// SynonymScore is the similarity of two words in the same synonym group.
const SynonymScore = 0.9

const (
	cooccurrenceSpan  = 5
	maxCooccurrence   = 0.5
	cooccurrenceScale = 10
)

// SynonymGroups reports whether two words belong to the same synonym group.
type SynonymGroups interface {
	ShareSynonymGroup(a, b string) bool
}

// Lexicon scores word-to-word similarity.
type Lexicon struct {
	groups SynonymGroups
}

// NewLexicon creates a lexicon over the given synonym groups.
func NewLexicon(groups SynonymGroups) *Lexicon {
	return &Lexicon{groups: groups}
}

// SynonymSimilarity is 0.9 for words sharing a synonym group and 0 otherwise.
func (l *Lexicon) SynonymSimilarity(a, b string) float64 {
	if l.groups.ShareSynonymGroup(strings.ToLower(a), strings.ToLower(b)) {
		return SynonymScore
	}
	return 0
}

// WordSimilarity returns 1 for equal words, the synonym score for grouped
// words, and otherwise their co-occurrence score within context.
func (l *Lexicon) WordSimilarity(a, b, context string) float64 {
	a, b = strings.ToLower(a), strings.ToLower(b)
	if a == b {
		return 1
	}
	if s := l.SynonymSimilarity(a, b); s > 0 {
		return s
	}
	return Cooccurrence(a, b, context)
}

// Cooccurrence counts how often b appears within five words before or four
// words after an occurrence of a, scaled to at most 0.5.
func Cooccurrence(a, b, context string) float64 {
	a, b = strings.ToLower(a), strings.ToLower(b)
	words := strings.Fields(strings.ToLower(context))

	count := 0
	for i, w := range words {
		if w != a {
			continue
		}
		for j := max(0, i-cooccurrenceSpan); j < min(len(words), i+cooccurrenceSpan); j++ {
			if words[j] == b {
				count++
			}
		}
	}
	return min(float64(count)/cooccurrenceScale, maxCooccurrence)
}
