package scoring

import (
	"bytes"
	"embed"
	"fmt"
	"math"
	"strings"
	"text/template"
	"unicode/utf8"

	"github.com/jonathan/ats-engine/internal/types"
)

//go:embed templates/report.tmpl
var templateFS embed.FS

var reportTemplate = template.Must(template.New("report.tmpl").Funcs(template.FuncMap{
	"add":   func(a, b int) int { return a + b },
	"upper": strings.ToUpper,
	"join":  strings.Join,
	"check": func(ok bool) string {
		if ok {
			return "✅"
		}
		return "❌"
	},
	"num": func(f float64) string {
		return strings.TrimSuffix(fmt.Sprintf("%.1f", f), ".0")
	},
	"prefix": func(s string, n int) string {
		r := []rune(s)
		if len(r) > n {
			return string(r[:n])
		}
		return s
	},
	"head3":        func(s []string) []string { return head(s, 3) },
	"head5found":   func(s []types.FoundKeyword) []types.FoundKeyword { return s[:min(len(s), 5)] },
	"head5missing": func(s []types.MissingKeyword) []types.MissingKeyword { return s[:min(len(s), 5)] },
}).ParseFS(templateFS, "templates/report.tmpl"))

// Tips is the role-specific best-practice list shown in the report.
type Tips struct {
	Heading string
	Items   []string
}

var roleTips = map[types.RoleCategory]Tips{
	types.RoleEngineering: {"Engineering Resume Best Practices", []string{
		`Lead with project scale and impact (e.g., "Designed 6-story, 5,000 m² structure")`,
		"Include specific codes/standards (IBC, ASCE 7, Eurocode)",
		"Quantify results (cost savings, efficiency gains, load capacity)",
		"List technical tools (AutoCAD, Revit, ETABS, SAP2000)",
		"Show PE/FE certifications prominently",
	}},
	types.RoleSoftwareEngineering: {"Software Engineering Resume Best Practices", []string{
		"Emphasize scale (users, requests/sec, data volume)",
		"Include tech stack in every bullet",
		"Show performance improvements (latency, throughput)",
		"Highlight system design and architecture decisions",
		"Mention CI/CD, testing, and deployment practices",
	}},
	types.RoleMarketing: {"Marketing Resume Best Practices", []string{
		"Emphasize ROI and conversion metrics",
		"Include campaign results (CTR, CPC, conversion rates)",
		"Highlight tools (Google Analytics, HubSpot, Salesforce)",
		"Show audience growth and engagement metrics",
		"Demonstrate A/B testing and data-driven decisions",
	}},
}

var generalTips = Tips{"General Best Practices", []string{
	"Use strong action verbs (Led, Architected, Optimized)",
	"Quantify every achievement with numbers",
	"Tailor keywords to each job description",
	"Keep formatting simple and ATS-friendly",
	"Show progression and growth in your career",
}}

func tipsFor(cat types.RoleCategory) Tips {
	if t, ok := roleTips[cat]; ok {
		return t
	}
	return generalTips
}

// reportData feeds report.tmpl.
type reportData struct {
	Category      types.RoleCategory
	ConfidencePct int
	Score         int
	HasJD         bool
	Breakdown     types.ScoreBreakdown

	Keywords     KeywordResult
	Format       FormatResult
	Completeness CompletenessResult
	Issues       []types.FormatIssue
	Metrics      []types.MetricSuggestion

	ParsingQuality  string
	BulletQuality   string
	LongEnough      bool
	TopMissing      []string
	Potential       types.ScoreBreakdown
	Tips            Tips
	Benchmark       struct{ Badge, Message string }
	Alignment       int
	CriticalMissing int
	NextSteps       []string
	TimeToTarget    string
}

// reportInput gathers everything the report describes.
type reportInput struct {
	text         string
	category     types.RoleCategory
	confidence   float64
	score        int
	hasJD        bool
	breakdown    types.ScoreBreakdown
	keywords     KeywordResult
	format       FormatResult
	completeness CompletenessResult
	issues       []types.FormatIssue
	metrics      []types.MetricSuggestion
}

// renderReport renders the markdown analysis.
func renderReport(in reportInput) (string, error) {
	d := reportData{
		Category:      in.category,
		ConfidencePct: int(math.Round(in.confidence * 100)),
		Score:         in.score,
		HasJD:         in.hasJD,
		Breakdown:     in.breakdown,
		Keywords:      in.keywords,
		Format:        in.format,
		Completeness:  in.completeness,
		Issues:        in.issues,
		Metrics:       in.metrics,
		LongEnough:    utf8.RuneCountInString(in.text) > 1500,
		Tips:          tipsFor(in.category),
	}

	switch f := in.format.Score; {
	case f > 20:
		d.ParsingQuality = "Excellent ✅"
	case f > 10:
		d.ParsingQuality = "Good ⚠️"
	default:
		d.ParsingQuality = "Needs Improvement 🚨"
	}
	switch b := in.completeness.Bullets.Score; {
	case b > 70:
		d.BulletQuality = "Strong ✅"
	case b > 50:
		d.BulletQuality = "Good ⚠️"
	default:
		d.BulletQuality = "Needs Improvement 🚨"
	}

	missing := in.keywords.Missing
	for _, m := range missing[:min(len(missing), 3)] {
		d.TopMissing = append(d.TopMissing, m.Keyword)
	}
	for _, m := range missing {
		if m.Priority == types.PriorityCritical {
			d.CriticalMissing++
		}
	}
	if total := len(in.keywords.Found) + len(missing); total > 0 {
		d.Alignment = int(math.Round(float64(len(in.keywords.Found)) / float64(total) * 100))
	}

	formatPts := in.breakdown.Format
	complPts := in.breakdown.Completeness
	if in.score < 50 {
		d.Potential = types.ScoreBreakdown{
			Format:       MaxFormatScore - formatPts,
			Keywords:     min(15, len(missing)*3),
			Completeness: 15 - min(15, complPts),
		}
	} else {
		d.Potential = types.ScoreBreakdown{
			Format:       min(5, MaxFormatScore-formatPts),
			Keywords:     min(10, len(missing)*2),
			Completeness: min(8, MaxCompletenessScore-complPts),
		}
	}

	switch s := in.score; {
	case s >= 85:
		d.Benchmark.Badge, d.Benchmark.Message = "🏆", "🎉 **Outstanding!** You're in the top 10%!"
	case s >= 75:
		d.Benchmark.Badge, d.Benchmark.Message = "🎯", "🎯 **Great job!** You're in the top 25%!"
	case s >= 62:
		d.Benchmark.Badge, d.Benchmark.Message = "📊", "📊 You're above average - keep improving!"
	default:
		d.Benchmark.Badge, d.Benchmark.Message = "⚠️", "⚠️ Below average - focus on the priority actions above"
	}

	switch s := in.score; {
	case s < 50:
		d.NextSteps = []string{"Fix critical parsing issues (30 min)", "Add missing keywords (1 hour)", "Quantify all bullets (2 hours)"}
		d.TimeToTarget = "3-4 hours"
	case s < 75:
		d.NextSteps = []string{"Add missing keywords (45 min)", "Quantify achievements (1 hour)", "Polish formatting (30 min)"}
		d.TimeToTarget = "2-3 hours"
	default:
		d.NextSteps = []string{"Polish and refine (20 min)", "Update with latest projects (30 min)", "Tailor for specific roles (15 min each)"}
		d.TimeToTarget = "1 hour"
	}

	var buf bytes.Buffer
	if err := reportTemplate.Execute(&buf, d); err != nil {
		return "", fmt.Errorf("failed to render analysis report: %w", err)
	}
	return buf.String(), nil
}
