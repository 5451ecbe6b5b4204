package scoring

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/jonathan/ats-engine/internal/types"
)

const (
	metricWindow         = 200
	maxMetricSuggestions = 5
)

var quantifiedRe = regexp.MustCompile(`(?i)\d+%|\$\d+|\d+x|\d+\s*(million|billion|thousand|users|customers)`)

// SuggestMetrics proposes quantified rewrites for found keywords that appear
// without a number in the 200 characters after their first mention and that
// match one of the category's metric templates.
func (s *Scorer) SuggestMetrics(text string, category types.RoleCategory, found []types.FoundKeyword) []types.MetricSuggestion {
	templates := s.dict.TemplatesFor(category)
	lower := strings.ToLower(text)
	out := []types.MetricSuggestion{}

	for _, kw := range found {
		if len(out) == maxMetricSuggestions {
			break
		}
		keyword := strings.ToLower(kw.Keyword)
		start := max(0, strings.Index(lower, keyword))
		end := min(len(lower), start+metricWindow)
		if quantifiedRe.MatchString(lower[start:end]) {
			continue
		}
		for _, t := range templates {
			tech := strings.ToLower(t.Tech)
			if !strings.Contains(tech, keyword) && !strings.Contains(keyword, tech) {
				continue
			}
			out = append(out, types.MetricSuggestion{
				Tech:            kw.Keyword,
				CurrentUsage:    fmt.Sprintf("Mentioned %d time(s) without quantifiable metrics", kw.Frequency),
				SuggestedMetric: first(t.Metrics),
				Example:         first(t.Examples),
				Impact:          t.Impact,
			})
			break
		}
	}
	return out
}

func first(s []string) string {
	if len(s) == 0 {
		return ""
	}
	return s[0]
}
