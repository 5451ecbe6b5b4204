package scoring

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/ats-engine/internal/types"
)

var gradeBands = []struct {
	min   int
	grade string
}{
	{95, "A+"},
	{90, "A"},
	{85, "B+"},
	{80, "B"},
	{75, "C+"},
	{70, "C"},
	{60, "D"},
}

// Grade maps a final score to a letter grade.
func Grade(score int) string {
	for _, b := range gradeBands {
		if score >= b.min {
			return b.grade
		}
	}
	return "F"
}

const titleScanLines = 5

var leadingDigitRe = regexp.MustCompile(`^\d`)

// ExtractTitle returns the first of the opening five non-empty lines that
// reads like a job title, falling back to "<Category> Resume".
func (s *Scorer) ExtractTitle(text string, category types.RoleCategory) string {
	scanned := 0
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if scanned == titleScanLines {
			break
		}
		scanned++

		n := utf8.RuneCountInString(line)
		if n <= 5 || n >= 50 || leadingDigitRe.MatchString(line) {
			continue
		}
		if s.titleWords != nil && s.titleWords.MatchString(line) {
			return line
		}
	}
	return string(category) + " Resume"
}
