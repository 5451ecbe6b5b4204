// Package observability renders engine results as boxed text for the CLI.
package observability

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/ats-engine/internal/abtest"
	"github.com/jonathan/ats-engine/internal/similarity"
	"github.com/jonathan/ats-engine/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for human-readable mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// clip shortens s to at most n runes, marking the cut with "...".
func clip(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n-3]) + "..."
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, clip(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

func writeList(sb *strings.Builder, heading string, items []string, limit int) {
	if len(items) == 0 {
		return
	}
	sb.WriteString(heading + ":\n")
	for _, item := range items[:min(len(items), limit)] {
		fmt.Fprintf(sb, "  • %s\n", item)
	}
	if len(items) > limit {
		fmt.Fprintf(sb, "  ... and %d more\n", len(items)-limit)
	}
	sb.WriteString("\n")
}

// PrintScore outputs the composite score, its breakdown and the top fixes.
func (p *Printer) PrintScore(res *types.ScoreResult) {
	if res == nil {
		return
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Score:    %d (%s)\n", res.Score, res.Grade)
	fmt.Fprintf(&sb, "Role:     %s (%.0f%%)\n", res.Category, res.RoleConfidence*100)
	fmt.Fprintf(&sb, "Keywords: %d  Format: %d  Completeness: %d\n\n",
		res.ScoreBreakdown.Keywords, res.ScoreBreakdown.Format, res.ScoreBreakdown.Completeness)

	writeList(&sb, "Matched", res.MatchedKeywords, maxItemsToShow)

	missing := make([]string, 0, len(res.MissingKeywords))
	for _, m := range res.MissingKeywords {
		missing = append(missing, fmt.Sprintf("%s [%s, +%d]", m.Keyword, m.Priority, m.Impact))
	}
	writeList(&sb, "Missing", missing, maxItemsToShow)

	issues := make([]string, 0, len(res.FormatIssues))
	for _, f := range res.FormatIssues {
		issues = append(issues, fmt.Sprintf("%s (%s)", f.Issue, f.Severity))
	}
	writeList(&sb, "Format issues", issues, 3)

	if res.Analysis != "" {
		sb.WriteString(res.Analysis)
	}

	p.printBox("ATS SCORE", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintGapAnalysis outputs matched and missing entities with suggestions.
func (p *Printer) PrintGapAnalysis(gap *types.GapAnalysis) {
	if gap == nil {
		return
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Gap score: %d\n\n", gap.Score)
	writeList(&sb, "Missing critical", entityTexts(gap.MissingCritical), maxItemsToShow)
	writeList(&sb, "Missing important", entityTexts(gap.MissingImportant), maxItemsToShow)
	writeList(&sb, "Matched", entityTexts(gap.Matched), maxItemsToShow)
	writeList(&sb, "Suggestions", gap.Suggestions, 3)

	p.printBox("GAP ANALYSIS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintEntities outputs the entities extracted from a job description.
func (p *Printer) PrintEntities(e *types.JobDescriptionEntities) {
	if e == nil {
		return
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Entities: %d\n\n", e.Count())
	writeList(&sb, "Hard skills", entityTexts(e.HardSkills), maxItemsToShow)
	writeList(&sb, "Frameworks", entityTexts(e.Frameworks), maxItemsToShow)
	writeList(&sb, "Tools", entityTexts(e.Tools), maxItemsToShow)
	writeList(&sb, "Soft skills", entityTexts(e.SoftSkills), 3)
	writeList(&sb, "Certifications", entityTexts(e.Certifications), 3)
	writeList(&sb, "Must haves", entityTexts(e.MustHaves), maxItemsToShow)

	p.printBox("JOB DESCRIPTION ENTITIES", strings.TrimSuffix(sb.String(), "\n"))
}

func entityTexts(entities []types.ExtractedEntity) []string {
	out := make([]string, len(entities))
	for i, e := range entities {
		out[i] = e.Text
	}
	return out
}

// PrintRelevance outputs the contextual relevance summary.
func (p *Printer) PrintRelevance(rel *similarity.Relevance) {
	if rel == nil {
		return
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Relevance:  %d\n", rel.Score)
	fmt.Fprintf(&sb, "Similarity: %.2f\n", rel.Semantic.Similarity)
	fmt.Fprintf(&sb, "Skills:     %d%% of %d\n\n", rel.Overlap.OverlapPercentage, rel.Overlap.TotalJDSkills)
	writeList(&sb, "Strengths", rel.Strengths, 3)
	writeList(&sb, "Weaknesses", rel.Weaknesses, 3)
	writeList(&sb, "Recommendations", rel.Recommendations, 3)

	p.printBox("SEMANTIC RELEVANCE", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintABTestResults outputs per-version performance and the verdict.
func (p *Printer) PrintABTestResults(res *types.ABTestResults) {
	if res == nil {
		return
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Status:   %s\n", res.Status)
	fmt.Fprintf(&sb, "Samples:  %d of %d recommended\n",
		res.StatisticalSignificance.SampleSize, res.StatisticalSignificance.RecommendedSampleSize)
	fmt.Fprintf(&sb, "Duration: %d days\n\n", res.TestDuration)

	for _, v := range res.Versions {
		fmt.Fprintf(&sb, "%s\n", v.Name)
		fmt.Fprintf(&sb, "    %d/%d interviews (%.1f%%)\n", v.Stats.Interviews, v.Stats.Applications, v.Stats.ConversionRate)
	}
	sb.WriteString("\n")

	if res.Winner != nil {
		fmt.Fprintf(&sb, "Winner: %s (+%.1f%%, %d%% confidence)\n\n",
			res.Winner.VersionName, res.Winner.ImprovementOverBaseline, res.Winner.Confidence)
	}
	writeList(&sb, "Recommendations", res.Recommendations, 3)

	p.printBox("A/B TEST RESULTS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintComparison outputs a two-version comparison.
func (p *Printer) PrintComparison(c *abtest.Comparison) {
	if c == nil {
		return
	}

	var sb strings.Builder
	for _, v := range []abtest.VersionSummary{c.VersionA, c.VersionB} {
		fmt.Fprintf(&sb, "%s: %.1f%% of %d\n", v.Name, v.ConversionRate, v.Applications)
	}
	sb.WriteString("\n")
	if c.WinnerName != nil {
		fmt.Fprintf(&sb, "Winner:     %s (+%.1f%%)\n", *c.WinnerName, c.Improvement)
	}
	fmt.Fprintf(&sb, "Confidence: %d%%  p=%.4f\n\n", c.Confidence, c.PValue)
	sb.WriteString(c.Recommendation)

	p.printBox("VERSION COMPARISON", sb.String())
}

// PrintMultivariate outputs factor impacts and the best combination.
func (p *Printer) PrintMultivariate(res *abtest.MultivariateResults) {
	if res == nil {
		return
	}

	var sb strings.Builder
	if res.BestCombination != nil {
		fmt.Fprintf(&sb, "Best: %s (%.1f%%)\n\n", res.BestCombination.ID, res.BestCombination.ConversionRate)
	}
	for _, f := range res.FactorImpact {
		fmt.Fprintf(&sb, "%s\n", f.Factor)
		for _, v := range f.Variations {
			fmt.Fprintf(&sb, "    %-12s %5.1f%%  %s\n", v.Value, v.AvgConversionRate, v.Impact)
		}
	}
	sb.WriteString("\n")
	writeList(&sb, "Recommendations", res.Recommendations, 3)

	p.printBox("MULTIVARIATE TEST", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintVersions outputs stored résumé versions.
func (p *Printer) PrintVersions(versions []types.ResumeVersion) {
	var sb strings.Builder
	if len(versions) == 0 {
		sb.WriteString("No versions stored")
	}
	for i, v := range versions {
		fmt.Fprintf(&sb, "%s  %s\n", v.ID, v.Name)
		fmt.Fprintf(&sb, "    ATS %d, %s", v.ATSScore, v.CreatedAt.Format("2006-01-02"))
		if i < len(versions)-1 {
			sb.WriteString("\n")
		}
	}
	p.printBox("RESUME VERSIONS", sb.String())
}

// PrintOutcome outputs a recorded application outcome.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintOutcome(o *types.ApplicationOutcome) {
	if o == nil {
		return
	}
	fmt.Fprintf(p.out, "Recorded %s for version %s", o.Outcome, o.ResumeVersionID)
	if o.Company != "" {
		fmt.Fprintf(p.out, " at %s", o.Company)
	}
	fmt.Fprintf(p.out, " (applied %s)\n", o.AppliedAt.Format("2006-01-02"))
}

// PrintPosting outputs the head of a fetched job posting.
func (p *Printer) PrintPosting(url, platform, text string) {
	if platform == "" {
		platform = "generic"
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "Platform:   %s\n", platform)
	fmt.Fprintf(&sb, "Characters: %d\n", utf8.RuneCountInString(text))
	lines := strings.Split(strings.TrimSpace(text), "\n")
	shown := min(len(lines), maxItemsToShow)
	sb.WriteString("\n")
	sb.WriteString(strings.Join(lines[:shown], "\n"))
	if len(lines) > shown {
		fmt.Fprintf(&sb, "\n... and %d more lines", len(lines)-shown)
	}
	p.printBox(clip(url, boxWidth-4), sb.String())
}
