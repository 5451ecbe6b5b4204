package scoring

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/ats-engine/internal/textproc"
	"github.com/jonathan/ats-engine/internal/types"
)

// MaxCompletenessScore caps the completeness subscore.
const MaxCompletenessScore = 30

const (
	maxSentiment       = 15
	powerPhraseBonus   = 1.5
	weakPhrasePenalty  = 0.5
	growthWordBonus    = 0.5
	buzzwordPenalty    = 0.5
	bulletContribution = 6
	softContribution   = 3
	maxListedBuzzwords = 3
)

var (
	metricPatterns = []*regexp.Regexp{
		regexp.MustCompile(`\d+%`),
		regexp.MustCompile(`\$[\d,]+`),
		regexp.MustCompile(`(?i)\d+\+?\s*(users|customers|clients)`),
		regexp.MustCompile(`(?i)increased|improved|reduced|optimized`),
		regexp.MustCompile(`\d+x\s`),
		regexp.MustCompile(`(?i)\d+\s*(million|billion|thousand)`),
	}
	summaryRe = regexp.MustCompile(`(?i)summary|objective|profile`)
)

// CompletenessResult is the completeness subscore with its evidence.
type CompletenessResult struct {
	Score            float64                  `json:"score"`
	MetricCount      int                      `json:"metricCount"`
	StrongVerbCount  int                      `json:"strongVerbCount"`
	PowerPhraseCount int                      `json:"powerPhraseCount"`
	WeakPhraseCount  int                      `json:"weakPhraseCount"`
	GrowthWordCount  int                      `json:"growthWordCount"`
	Buzzwords        []string                 `json:"buzzwords"`
	HasSummary       bool                     `json:"hasSummary"`
	Bullets          types.BulletAnalysis     `json:"bullets"`
	SoftSkills       types.SoftSkillsAnalysis `json:"softSkills"`
	Issues           []types.FormatIssue      `json:"issues"`
}

// ScoreCompleteness measures quantified impact, writing strength and length.
func (s *Scorer) ScoreCompleteness(text string, w *MLWeights) CompletenessResult {
	r := CompletenessResult{Issues: []types.FormatIssue{}}
	q := s.dict.Quality
	var score float64

	for _, re := range metricPatterns {
		r.MetricCount += len(re.FindAllStringIndex(text, -1))
	}
	score += metricBand(r.MetricCount)

	r.Bullets = AnalyzeBulletPoints(text, s.bulletRules)
	r.SoftSkills = AnalyzeSoftSkills(text, q.SoftSkillTerms)
	score += r.Bullets.Score / 100 * bulletContribution
	score += r.SoftSkills.Score / 100 * softContribution

	if s.strongVerbs != nil {
		r.StrongVerbCount = len(s.strongVerbs.FindAllStringIndex(text, -1))
	}
	for _, re := range s.dict.PowerPhrases() {
		r.PowerPhraseCount += len(re.FindAllStringIndex(text, -1))
	}
	for _, phrase := range q.WeakPhrases {
		r.WeakPhraseCount += textproc.CountWholeWord(text, phrase)
	}
	lower := strings.ToLower(text)
	for _, word := range q.GrowthWords {
		if strings.Contains(lower, word) {
			r.GrowthWordCount++
		}
	}
	r.Buzzwords = CheckBuzzwords(text, q.Buzzwords)

	sentiment := verbBand(r.StrongVerbCount)
	sentiment += float64(r.PowerPhraseCount) * powerPhraseBonus
	sentiment -= float64(r.WeakPhraseCount) * weakPhrasePenalty
	sentiment += float64(r.GrowthWordCount) * growthWordBonus
	if len(r.Buzzwords) > 0 {
		sentiment -= float64(len(r.Buzzwords)) * buzzwordPenalty
		r.Issues = append(r.Issues, types.FormatIssue{
			Issue:     "Overused Buzzwords Detected",
			Severity:  types.SeverityLow,
			Fix:       "Replace clichés with specific examples: " + strings.Join(head(r.Buzzwords, maxListedBuzzwords), ", "),
			Location:  "Summary/Experience",
			ATSImpact: "Generic terms fail to differentiate you from other candidates",
		})
	}
	score += max(0, min(maxSentiment, sentiment))

	switch n := utf8.RuneCountInString(text); {
	case n > 1500:
		score += 5
	case n > 800:
		score += 3
	}

	if r.HasSummary = summaryRe.MatchString(text); r.HasSummary {
		score += 2
	}

	r.Score = max(0, min(MaxCompletenessScore, score*(1+w.adjustments().Completeness)))
	return r
}

func metricBand(n int) float64 {
	switch {
	case n >= 8:
		return 15
	case n >= 5:
		return 11
	case n >= 3:
		return 7
	case n >= 1:
		return 3
	}
	return 0
}

func verbBand(n int) float64 {
	switch {
	case n >= 8:
		return 8
	case n >= 5:
		return 5
	case n >= 2:
		return 2
	}
	return 0
}
