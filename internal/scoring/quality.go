package scoring

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/ats-engine/internal/dictionary"
	"github.com/jonathan/ats-engine/internal/textproc"
)

const (
	maxCapitalizationIssues = 5
	repetitionThreshold     = 4
	substantialLineLength   = 20
)

var bulletMarkerRe = regexp.MustCompile(`^[-•*]\s*`)

// CheckCapitalization lists technical terms written in a wrong case as
// "found → Correct". The correct form and its all-caps variant are accepted.
func CheckCapitalization(text string, rules []dictionary.CapitalizationRule) []string {
	issues := []string{}
	seen := make(map[string]struct{})
	for _, rule := range rules {
		for _, match := range textproc.WholeWordPattern(rule.Term).FindAllString(text, -1) {
			match = strings.Trim(match, " \t\n\r.,;:()[]")
			if match == rule.Correct || match == strings.ToUpper(rule.Correct) {
				continue
			}
			issue := fmt.Sprintf("%s → %s", match, rule.Correct)
			if _, dup := seen[issue]; dup {
				continue
			}
			seen[issue] = struct{}{}
			issues = append(issues, issue)
		}
	}
	if len(issues) > maxCapitalizationIssues {
		issues = issues[:maxCapitalizationIssues]
	}
	return issues
}

// CheckRepetitiveStarts reports first words longer than three characters
// that open four or more substantial lines.
func CheckRepetitiveStarts(text string) []string {
	counts := make(map[string]int)
	var order []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if utf8.RuneCountInString(line) <= substantialLineLength {
			continue
		}
		line = bulletMarkerRe.ReplaceAllString(line, "")
		first := strings.ToLower(strings.SplitN(line, " ", 2)[0])
		if utf8.RuneCountInString(first) <= 3 {
			continue
		}
		if counts[first] == 0 {
			order = append(order, first)
		}
		counts[first]++
	}

	out := []string{}
	for _, w := range order {
		if counts[w] >= repetitionThreshold {
			out = append(out, fmt.Sprintf("%q starts %d lines", w, counts[w]))
		}
	}
	return out
}

// CheckBuzzwords returns the buzzwords present in text, in table order.
func CheckBuzzwords(text string, buzzwords []string) []string {
	found := []string{}
	seen := make(map[string]struct{})
	for _, w := range buzzwords {
		if _, dup := seen[w]; dup {
			continue
		}
		if textproc.ContainsWholeWord(text, w) {
			seen[w] = struct{}{}
			found = append(found, w)
		}
	}
	return found
}
