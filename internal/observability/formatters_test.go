package observability

import (
	"bytes"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/ats-engine/internal/abtest"
	"github.com/jonathan/ats-engine/internal/similarity"
	"github.com/jonathan/ats-engine/internal/types"
)

func TestPrintScore(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintScore(&types.ScoreResult{
		Category:        types.RoleCategory("Software Engineering"),
		RoleConfidence:  0.8,
		Score:           78,
		Grade:           "C+",
		ScoreBreakdown:  types.ScoreBreakdown{Keywords: 70, Format: 90, Completeness: 80},
		MatchedKeywords: []string{"go", "kubernetes", "postgresql", "docker", "aws", "terraform"},
		MissingKeywords: []types.MissingKeyword{{Keyword: "grpc", Priority: types.PriorityCritical, Impact: 8}},
		FormatIssues:    []types.FormatIssue{{Issue: "No quantified achievements", Severity: types.SeverityHigh}},
	})
	output := buf.String()

	assert.Contains(t, output, "ATS SCORE")
	assert.Contains(t, output, "78 (C+)")
	assert.Contains(t, output, "Software Engineering (80%)")
	assert.Contains(t, output, "kubernetes")
	assert.Contains(t, output, "... and 1 more")
	assert.Contains(t, output, "grpc [critical, +8]")
	assert.Contains(t, output, "No quantified achievements (high)")
}

func TestPrint_NilIsSilent(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintScore(nil)
	p.PrintGapAnalysis(nil)
	p.PrintEntities(nil)
	p.PrintRelevance(nil)
	p.PrintABTestResults(nil)
	p.PrintComparison(nil)
	p.PrintMultivariate(nil)
	p.PrintOutcome(nil)

	assert.Empty(t, buf.String())
}

func TestPrintGapAnalysis(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintGapAnalysis(&types.GapAnalysis{
		Score:           55,
		MissingCritical: []types.ExtractedEntity{{Text: "Kubernetes"}},
		Matched:         []types.ExtractedEntity{{Text: "Go"}},
		Suggestions:     []string{"Add Kubernetes to your skills"},
	})
	output := buf.String()

	assert.Contains(t, output, "GAP ANALYSIS")
	assert.Contains(t, output, "Gap score: 55")
	assert.Contains(t, output, "Missing critical:")
	assert.NotContains(t, output, "Missing important:")
	assert.Contains(t, output, "Add Kubernetes to your skills")
}

func TestPrintEntities(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintEntities(&types.JobDescriptionEntities{
		HardSkills: []types.ExtractedEntity{{Text: "Go"}, {Text: "SQL"}},
		Tools:      []types.ExtractedEntity{{Text: "Docker"}},
	})
	output := buf.String()

	assert.Contains(t, output, "Entities: 3")
	assert.Contains(t, output, "Docker")
}

func TestPrintRelevance(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintRelevance(&similarity.Relevance{
		Score:     72,
		Semantic:  types.SemanticMatch{Similarity: 0.41},
		Overlap:   similarity.SkillOverlap{OverlapPercentage: 60, TotalJDSkills: 5},
		Strengths: []string{"Strong skill overlap"},
	})
	output := buf.String()

	assert.Contains(t, output, "Relevance:  72")
	assert.Contains(t, output, "0.41")
	assert.Contains(t, output, "60% of 5")
}

func TestPrintABTestResults(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintABTestResults(&types.ABTestResults{
		Status: types.StatusWinnerFound,
		Versions: []types.VersionPerformance{
			{Name: "Metrics", Stats: types.VersionStats{Applications: 20, Interviews: 8, ConversionRate: 40}},
			{Name: "Original", Stats: types.VersionStats{Applications: 20, Interviews: 2, ConversionRate: 10}},
		},
		Winner:                  &types.Winner{VersionName: "Metrics", ImprovementOverBaseline: 300, Confidence: 97},
		StatisticalSignificance: types.StatisticalSignificance{SampleSize: 40, RecommendedSampleSize: 392},
	})
	output := buf.String()

	assert.Contains(t, output, "winner_found")
	assert.Contains(t, output, "40 of 392")
	assert.Contains(t, output, "8/20 interviews (40.0%)")
	assert.Contains(t, output, "Winner: Metrics (+300.0%, 97% confidence)")
}

func TestPrintComparison(t *testing.T) {
	var buf bytes.Buffer
	winner := "A"
	NewPrinter(&buf).PrintComparison(&abtest.Comparison{
		VersionA:       abtest.VersionSummary{Name: "A", ConversionRate: 40, Applications: 20},
		VersionB:       abtest.VersionSummary{Name: "B", ConversionRate: 10, Applications: 20},
		WinnerName:     &winner,
		Improvement:    300,
		Confidence:     97,
		PValue:         0.0285,
		Recommendation: "Clear winner: A with 97% confidence.",
	})
	output := buf.String()

	assert.Contains(t, output, "A: 40.0% of 20")
	assert.Contains(t, output, "Winner:     A (+300.0%)")
	assert.Contains(t, output, "p=0.0285")
}

func TestPrintMultivariate(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintMultivariate(&abtest.MultivariateResults{
		BestCombination: &abtest.BestCombination{
			Combination:    abtest.Combination{ID: "combination_2"},
			ConversionRate: 60,
		},
		FactorImpact: []abtest.FactorImpact{{
			Factor: "summary",
			Variations: []abtest.VariationImpact{
				{Value: "short", AvgConversionRate: 45, Impact: abtest.ImpactPositive},
			},
		}},
	})
	output := buf.String()

	assert.Contains(t, output, "Best: combination_2 (60.0%)")
	assert.Contains(t, output, "positive")
}

func TestPrintVersions(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintVersions(nil)
	assert.Contains(t, buf.String(), "No versions stored")

	buf.Reset()
	p.PrintVersions([]types.ResumeVersion{
		{ID: "v1", Name: "Original", ATSScore: 71, CreatedAt: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)},
	})
	assert.Contains(t, buf.String(), "ATS 71, 2026-03-01")
}

func TestPrintOutcome(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintOutcome(&types.ApplicationOutcome{
		ResumeVersionID: "v1",
		Outcome:         types.OutcomeInterview,
		Company:         "Acme",
		AppliedAt:       time.Date(2026, 4, 2, 15, 0, 0, 0, time.UTC),
	})
	assert.Equal(t, "Recorded interview for version v1 at Acme (applied 2026-04-02)\n", buf.String())
}

func TestPrintPosting(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintPosting("https://boards.greenhouse.io/acme/jobs/1", "greenhouse",
		"Senior Go Engineer\nAcme\nRemote\nAbout\nWe build\nRequirements\nGo")
	output := buf.String()

	assert.Contains(t, output, "Platform:   greenhouse")
	assert.Contains(t, output, "Senior Go Engineer")
	assert.Contains(t, output, "... and 2 more lines")
	assert.NotContains(t, output, "Requirements")
}

func TestPrintBox_ClipsLongLines(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)
	p.printBox("TITLE", strings.Repeat("é", 200))

	for _, line := range strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n") {
		assert.Equal(t, boxWidth, utf8.RuneCountInString(line), line)
	}
	assert.Contains(t, buf.String(), "...")
}
