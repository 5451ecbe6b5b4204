package scoring

import "github.com/jonathan/ats-engine/internal/types"

// DegenerateScore is the fixed score given to unreadable input.
const DegenerateScore = 18

const degenerateAnalysis = "⚠️ **Critical Issues Detected**\n\n" +
	"Your resume has severe problems:\n" +
	"• Less than 50 characters detected\n" +
	"• Format is incompatible with ATS\n" +
	"• Will be automatically rejected\n\n" +
	"**Fix:** Export as PDF from Word/Google Docs"

// degenerateResult is returned when the trimmed text is too short to score.
func degenerateResult() types.ScoreResult {
	return types.ScoreResult{
		Title:    "Resume",
		Category: types.RoleGeneral,
		Score:    DegenerateScore,
		Grade:    Grade(DegenerateScore),
		ScoreBreakdown: types.ScoreBreakdown{
			Keywords:     5,
			Format:       6,
			Completeness: 7,
		},
		MatchedKeywords: []string{},
		MissingKeywords: []types.MissingKeyword{{
			Keyword:   "Readable content",
			Priority:  types.PriorityCritical,
			Frequency: 1,
			Impact:    25,
			Section:   "Overall",
			Context:   "Your resume appears to be a scanned image or has very limited text",
			Synonyms:  []string{},
		}},
		FormatIssues: []types.FormatIssue{{
			Issue:     "Severe parsing issues detected",
			Severity:  types.SeverityCritical,
			Fix:       "Convert to text-based PDF",
			Location:  "Overall",
			ATSImpact: "95%+ rejection rate",
		}},
		MetricSuggestions: []types.MetricSuggestion{},
		Analysis:          degenerateAnalysis,
	}
}
