package textproc

import (
	"regexp"
	"sync"
	"unicode"
	"unicode/utf8"
)

// StopwordSet reports whether a lower-case word carries no meaning on its own.
type StopwordSet interface {
	IsStopword(word string) bool
}

// Tokenizer produces unigram, bigram and trigram terms.
type Tokenizer struct {
	stopwords StopwordSet
}

// NewTokenizer creates a tokenizer that filters with the given stopwords.
func NewTokenizer(stopwords StopwordSet) *Tokenizer {
	return &Tokenizer{stopwords: stopwords}
}

// Tokenize returns the terms of text in document order: every unigram longer
// than two characters that is not a stopword, then bigrams whose words are
// both non-stopwords, then trigrams whose endpoints are non-stopwords.
// Terms are not deduplicated.
func (t *Tokenizer) Tokenize(text string) []string {
	words := Words(text)
	if len(words) == 0 {
		return []string{}
	}

	stop := make([]bool, len(words))
	for i, w := range words {
		stop[i] = t.stopwords.IsStopword(w)
	}

	tokens := make([]string, 0, len(words)*3)
	for i, w := range words {
		if utf8.RuneCountInString(w) > 2 && !stop[i] {
			tokens = append(tokens, w)
		}
	}
	for i := 0; i+1 < len(words); i++ {
		if !stop[i] && !stop[i+1] {
			tokens = append(tokens, words[i]+" "+words[i+1])
		}
	}
	for i := 0; i+2 < len(words); i++ {
		if !stop[i] && !stop[i+2] {
			tokens = append(tokens, words[i]+" "+words[i+1]+" "+words[i+2])
		}
	}
	return tokens
}

// IsStopword exposes the tokenizer's stopword filter.
func (t *Tokenizer) IsStopword(word string) bool {
	return t.stopwords.IsStopword(word)
}

var patternCache sync.Map // term -> *regexp.Regexp

// WholeWordPattern returns a case-insensitive expression matching term as a
// whole word. Terms that start or end with a non-word character (C++, C#,
// .NET) are bounded by a non-word character or the text edge instead of \b.
func WholeWordPattern(term string) *regexp.Regexp {
	if re, ok := patternCache.Load(term); ok {
		return re.(*regexp.Regexp)
	}

	prefix, suffix := `\b`, `\b`
	if first, _ := utf8.DecodeRuneInString(term); !isWordRune(first) {
		prefix = `(?:^|[^\w])`
	}
	if last, _ := utf8.DecodeLastRuneInString(term); !isWordRune(last) {
		suffix = `(?:[^\w]|$)`
	}
	re := regexp.MustCompile(`(?i)` + prefix + regexp.QuoteMeta(term) + suffix)

	actual, _ := patternCache.LoadOrStore(term, re)
	return actual.(*regexp.Regexp)
}

// CountWholeWord counts non-overlapping whole-word occurrences of term.
func CountWholeWord(text, term string) int {
	if term == "" {
		return 0
	}
	return len(WholeWordPattern(term).FindAllStringIndex(text, -1))
}

// ContainsWholeWord reports whether term occurs in text as a whole word.
func ContainsWholeWord(text, term string) bool {
	if term == "" {
		return false
	}
	return WholeWordPattern(term).MatchString(text)
}

func isWordRune(r rune) bool {
	return r == '_' || r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r))
}
