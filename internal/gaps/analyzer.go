// Package gaps diffs job-description entities against résumé text.
package gaps

import (
	"fmt"
	"math"
	"strings"

	"github.com/jonathan/ats-engine/internal/similarity"
	"github.com/jonathan/ats-engine/internal/textproc"
	"github.com/jonathan/ats-engine/internal/types"
)

const (
	criticalWeight   = 70.0
	otherWeight      = 30.0
	maxSuggestions   = 3
	suggestionCtxLen = 80
)

// Analyzer computes gap analyses. It is safe for concurrent use.
type Analyzer struct {
	tok similarity.Tokenizer
}

// NewAnalyzer creates an analyzer. The tokenizer is used to rank résumé
// sections when suggesting insertion points.
func NewAnalyzer(tok similarity.Tokenizer) *Analyzer {
	return &Analyzer{tok: tok}
}

// AnalyzeGaps partitions the posting's entities into matched, missing
// critical and missing important, and scores the résumé 0-100 with critical
// entities weighing 70% and the rest 30%.
func (a *Analyzer) AnalyzeGaps(resumeText string, job types.JobDescriptionEntities) types.GapAnalysis {
	resumeLower := strings.ToLower(resumeText)
	entities := job.Matchable()

	out := types.GapAnalysis{
		MissingCritical:  []types.ExtractedEntity{},
		MissingImportant: []types.ExtractedEntity{},
		Matched:          []types.ExtractedEntity{},
	}

	criticalCount, criticalMatched := 0, 0
	for _, e := range entities {
		critical := e.Importance == types.ImportanceCritical
		if critical {
			criticalCount++
		}
		if found(resumeLower, e) {
			out.Matched = append(out.Matched, e)
			if critical {
				criticalMatched++
			}
			continue
		}
		switch e.Importance {
		case types.ImportanceCritical:
			out.MissingCritical = append(out.MissingCritical, e)
		case types.ImportanceImportant:
			out.MissingImportant = append(out.MissingImportant, e)
		}
	}

	criticalScore := criticalWeight
	if criticalCount > 0 {
		criticalScore = float64(criticalMatched) / float64(criticalCount) * criticalWeight
	}
	otherCount := len(entities) - criticalCount
	otherScore := otherWeight
	if otherCount > 0 {
		otherScore = float64(len(out.Matched)-criticalMatched) / float64(otherCount) * otherWeight
	}
	out.Score = min(100, max(0, int(math.Round(criticalScore+otherScore))))

	out.Suggestions = suggestions(out.MissingCritical, out.MissingImportant, out.Matched)

	for _, e := range out.MissingCritical {
		out.InsertionPoints = append(out.InsertionPoints, a.BestInsertionPoint(resumeText, e))
	}

	return out
}

// found reports whether the résumé mentions the entity or one of its synonyms.
func found(resumeLower string, e types.ExtractedEntity) bool {
	if strings.Contains(resumeLower, strings.ToLower(e.Text)) {
		return true
	}
	for _, syn := range e.Synonyms {
		if strings.Contains(resumeLower, strings.ToLower(syn)) {
			return true
		}
	}
	return false
}

func suggestions(missingCritical, missingImportant, matched []types.ExtractedEntity) []string {
	out := []string{}
	for i, e := range missingCritical {
		if i == maxSuggestions {
			break
		}
		out = append(out, fmt.Sprintf(
			"The job posting requires '%s' (CRITICAL). This is a blocker - without it, the ATS filters you out. Add this skill immediately.",
			e.Text))
	}
	for i, e := range missingImportant {
		if i == maxSuggestions {
			break
		}
		s := fmt.Sprintf("You're missing '%s'. It isn't critical, but it will significantly improve your match score.", e.Text)
		if e.Context != "" {
			s += fmt.Sprintf(" Context: \"%s...\"", textproc.Truncate(e.Context, suggestionCtxLen))
		}
		out = append(out, s)
	}
	if len(matched) > 0 && len(missingCritical) == 0 {
		out = append(out, "✅ Excellent - you have every critical skill. Now optimize by adding the important skills to stand out.")
	}
	return out
}
