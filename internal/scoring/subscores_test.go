package scoring

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/ats-engine/internal/dictionary"
	"github.com/jonathan/ats-engine/internal/types"
)

func TestCurve_Apply(t *testing.T) {
	c := DefaultCurve()

	tests := []struct {
		name   string
		raw    float64
		length int
		want   int
	}{
		{name: "below threshold", raw: 40, length: 500, want: 40},
		{name: "first compression", raw: 85, length: 500, want: 64},
		{name: "maximum raw", raw: 100, length: 500, want: 70},
		{name: "second compression", raw: 120, length: 500, want: 72},
		{name: "floor for real text", raw: 3, length: 500, want: 20},
		{name: "no floor for short text", raw: 3, length: 10, want: 3},
		{name: "negative raw clamps", raw: -5, length: 5, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.Apply(tt.raw, tt.length))
		})
	}
}

func TestCurve_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Curve)
		field  string
	}{
		{name: "default is valid", mutate: func(*Curve) {}},
		{name: "zero factor", mutate: func(c *Curve) { c.Factor = 0 }, field: "curve.factor"},
		{name: "second factor above one", mutate: func(c *Curve) { c.SecondFactor = 1.5 }, field: "curve.second-factor"},
		{name: "threshold above 100", mutate: func(c *Curve) { c.Threshold = 120 }, field: "curve.threshold"},
		{name: "thresholds not ascending", mutate: func(c *Curve) { c.SecondThreshold = 40 }, field: "curve.second-threshold"},
		{name: "floor above threshold", mutate: func(c *Curve) { c.Floor = 60 }, field: "curve.floor"},
		{name: "negative min length", mutate: func(c *Curve) { c.MinTextLength = -1 }, field: "curve.min-text-length"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := DefaultCurve()
			tt.mutate(&c)
			err := c.Validate()
			if tt.field == "" {
				require.NoError(t, err)
				return
			}
			var cfgErr *ConfigurationError
			require.True(t, errors.As(err, &cfgErr))
			assert.Equal(t, tt.field, cfgErr.Field)
			assert.Contains(t, err.Error(), "invalid scoring configuration")
		})
	}
}

func TestMLWeights_Validate(t *testing.T) {
	tests := []struct {
		name    string
		w       *MLWeights
		wantErr bool
	}{
		{name: "nil", w: nil},
		{name: "empty", w: &MLWeights{}},
		{
			name: "valid",
			w: &MLWeights{
				KeywordWeights:     map[string]float64{"python": 1.5},
				CategoryWeights:    map[types.RoleCategory]float64{types.RoleDataScience: 0.9},
				ScoringAdjustments: Adjustments{Keywords: 0.1, Format: -0.2},
				DiscoveredKeywords: []string{"dbt"},
			},
		},
		{name: "adjustment out of range", w: &MLWeights{ScoringAdjustments: Adjustments{Completeness: -2}}, wantErr: true},
		{name: "negative keyword weight", w: &MLWeights{KeywordWeights: map[string]float64{"go": -1}}, wantErr: true},
		{name: "infinite keyword weight", w: &MLWeights{KeywordWeights: map[string]float64{"go": math.Inf(1)}}, wantErr: true},
		{name: "category weight above one", w: &MLWeights{CategoryWeights: map[types.RoleCategory]float64{types.RoleMarketing: 2}}, wantErr: true},
		{name: "unknown category", w: &MLWeights{CategoryWeights: map[types.RoleCategory]float64{"Astronaut": 0.5}}, wantErr: true},
		{name: "blank discovered keyword", w: &MLWeights{DiscoveredKeywords: []string{""}}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.w.Validate()
			if !tt.wantErr {
				require.NoError(t, err)
				return
			}
			var cfgErr *ConfigurationError
			require.True(t, errors.As(err, &cfgErr), "got %v", err)
		})
	}
}

func TestRelevantKeywords(t *testing.T) {
	w := &MLWeights{DiscoveredKeywords: []string{" dbt ", "python", "airflow", "dbt"}}
	got := relevantKeywords([]string{"python", "sql"}, w)
	assert.Equal(t, []string{"python", "sql", "dbt", "airflow"}, got)
	assert.Equal(t, []string{"python"}, relevantKeywords([]string{"python"}, nil))
}

func TestFindKeyword_Weights(t *testing.T) {
	s := newTestScorer(t)
	text := "Python services and more Python tooling"

	assert.Equal(t, 2, s.findKeyword("python", text, nil).matches)
	assert.Equal(t, 3, s.findKeyword("python", text, &MLWeights{KeywordWeights: map[string]float64{"python": 1.5}}).matches)
	assert.Equal(t, 2, s.findKeyword("python", text, &MLWeights{KeywordWeights: map[string]float64{"python": 0}}).matches)
	assert.False(t, s.findKeyword("python", text, &MLWeights{KeywordWeights: map[string]float64{"python": 0.2}}).found)
}

func TestFindKeyword_NearMatches(t *testing.T) {
	s := newTestScorer(t)

	tests := []struct {
		name    string
		keyword string
		text    string
		term    string
	}{
		{name: "dropped letter", keyword: "kubernetes", text: "Ran Kubernets clusters for 40 services", term: "kubernetes"},
		{name: "transposed letters", keyword: "postgresql", text: "Tuned Postgersql indexes", term: "postgresql"},
		{name: "synonym group", keyword: "lead", text: "Supervise a team of five engineers", term: "supervise"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := s.findKeyword(tt.keyword, tt.text, nil)
			assert.True(t, got.found)
			assert.Equal(t, 1, got.matches)
			assert.Equal(t, tt.term, got.term)
		})
	}

	assert.False(t, s.findKeyword("graphql", "Built REST APIs in Go", nil).found)
}

func TestScoreFormat(t *testing.T) {
	s := newTestScorer(t)

	t.Run("complete resume", func(t *testing.T) {
		got := s.ScoreFormat(sampleResume, nil)
		assert.Equal(t, float64(MaxFormatScore), got.Score)
		assert.Empty(t, got.Issues)
		assert.True(t, got.HasEmail)
		assert.True(t, got.HasPhone)
		assert.True(t, got.HasLinkedIn)
		assert.True(t, got.ConsistentDates)
	})

	t.Run("bare text", func(t *testing.T) {
		got := s.ScoreFormat("just some words here without anything", nil)
		assert.Equal(t, 7.0, got.Score)
		require.Len(t, got.Issues, 3)
		assert.Equal(t, "Missing email address", got.Issues[0].Issue)
		assert.Equal(t, types.SeverityHigh, got.Issues[0].Severity)
		assert.Equal(t, "Missing phone number", got.Issues[1].Issue)
		assert.Equal(t, "Missing 'Experience' section header", got.Issues[2].Issue)
	})

	t.Run("blank lines are not a phone", func(t *testing.T) {
		got := s.ScoreFormat("Summary\n\n\n\n\n\n\n\n\n\n\n\nmore text", nil)
		assert.False(t, got.HasPhone)
	})

	t.Run("mixed date styles", func(t *testing.T) {
		got := s.ScoreFormat("Experience\n01/2020 to 2021-05\nMarch 2022", nil)
		assert.False(t, got.ConsistentDates)
	})
}

func TestCheckCapitalization(t *testing.T) {
	rules := []dictionary.CapitalizationRule{
		{Term: "javascript", Correct: "JavaScript"},
		{Term: "aws", Correct: "AWS"},
		{Term: "github", Correct: "GitHub"},
	}

	got := CheckCapitalization("Wrote javascript on Aws, pushed to github and GitHub. Also AWS and JAVASCRIPT.", rules)
	assert.Equal(t, []string{"javascript → JavaScript", "Aws → AWS", "github → GitHub"}, got)
	assert.Empty(t, CheckCapitalization("JavaScript on AWS", rules))
}

func TestCheckRepetitiveStarts(t *testing.T) {
	text := `- Managed the deployment of the payments platform
- Managed a team of four engineers across two sites
- Managed vendor relationships for cloud tooling
- Managed the quarterly planning for the platform group
- Led the migration to a new observability stack
short line`

	assert.Equal(t, []string{`"managed" starts 4 lines`}, CheckRepetitiveStarts(text))
	assert.Empty(t, CheckRepetitiveStarts("Led one thing\nLed two things"))
}

func TestCheckBuzzwords(t *testing.T) {
	got := CheckBuzzwords("A synergy-driven ninja and team player. Synergy again.", []string{"synergy", "ninja", "guru", "team player"})
	assert.Equal(t, []string{"synergy", "ninja", "team player"}, got)
}

func TestAnalyzeBulletPoints(t *testing.T) {
	rules := NewBulletRules([]string{"led", "built"}, []string{"responsible", "helped"})

	text := `- Led a platform rewrite that cut p99 latency by 45% for 3M daily users of checkout
- Responsible for various tasks around the office and team
- Ledger reconciliation for the finance department monthly
short`

	got := AnalyzeBulletPoints(text, rules)
	require.Len(t, got.StrongBullets, 1)
	assert.Contains(t, got.StrongBullets[0], "Led a platform rewrite")
	require.Len(t, got.WeakBullets, 2)
	assert.Equal(t, 1, got.SweetSpotBullets)
	assert.InDelta(t, (10.0+2+2)/30*100, got.Score, 1e-9)
	assert.Contains(t, got.Issues, "Found 2 weak bullet points lacking metrics or strong action verbs.")
}

func TestAnalyzeBulletPoints_NoBullets(t *testing.T) {
	got := AnalyzeBulletPoints("nothing long enough", NewBulletRules(nil, nil))
	assert.Zero(t, got.Score)
	assert.Empty(t, got.StrongBullets)
	assert.Empty(t, got.WeakBullets)
}

func TestAnalyzeSoftSkills(t *testing.T) {
	terms := []string{"communication", "leadership", "teamwork", "collaboration", "mentoring", "negotiation"}

	tests := []struct {
		name      string
		text      string
		score     float64
		found     int
		missingAt int
	}{
		{name: "none", text: "wrote code", score: 0, found: 0, missingAt: 5},
		{name: "one", text: "Strong communication", score: 40, found: 1, missingAt: 5},
		{name: "three", text: "communication, leadership and teamwork", score: 75, found: 3, missingAt: 3},
		{name: "five", text: "communication leadership teamwork collaboration mentoring", score: 100, found: 5, missingAt: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AnalyzeSoftSkills(tt.text, terms)
			assert.Equal(t, tt.score, got.Score)
			assert.Len(t, got.Found, tt.found)
			assert.Len(t, got.Missing, tt.missingAt)
		})
	}
}

func TestScoreCompleteness_Bounds(t *testing.T) {
	s := newTestScorer(t)

	rich := s.ScoreCompleteness(sampleResume, nil)
	assert.GreaterOrEqual(t, rich.Score, 0.0)
	assert.LessOrEqual(t, rich.Score, float64(MaxCompletenessScore))
	assert.True(t, rich.HasSummary)
	assert.Positive(t, rich.MetricCount)

	empty := s.ScoreCompleteness("plain words only", nil)
	assert.Zero(t, empty.MetricCount)
	assert.Less(t, empty.Score, rich.Score)
}

func TestScoreCompleteness_Buzzwords(t *testing.T) {
	s := newTestScorer(t)

	got := s.ScoreCompleteness("A synergy focused ninja and rockstar guru who thinks out of the box.", nil)
	require.NotEmpty(t, got.Issues)
	assert.Equal(t, "Overused Buzzwords Detected", got.Issues[0].Issue)
	assert.Equal(t, types.SeverityLow, got.Issues[0].Severity)
	assert.Contains(t, got.Issues[0].Fix, "Replace clichés with specific examples: ")
}

func TestScoreKeywords_NoJobDescription(t *testing.T) {
	s := newTestScorer(t)

	got := s.ScoreKeywords(sampleResume, types.RoleSoftwareEngineering, "", nil)
	assert.Zero(t, got.JDTerms)
	assert.LessOrEqual(t, got.Score, float64(MaxKeywordScore))
	assert.Len(t, got.Matched, len(got.Found))
	for i := 1; i < len(got.Missing); i++ {
		assert.GreaterOrEqual(t, got.Missing[i-1].Impact, got.Missing[i].Impact)
	}
}

func TestScoreKeywords_JobDescription(t *testing.T) {
	s := newTestScorer(t)

	got := s.ScoreKeywords(sampleResume, types.RoleSoftwareEngineering, sampleJD, nil)
	assert.Positive(t, got.JDTerms)
	assert.LessOrEqual(t, got.JDTerms, maxJDTerms)
	assert.Contains(t, got.Matched, "kubernetes")
	for i := 1; i < len(got.Missing); i++ {
		assert.GreaterOrEqual(t, missingValue(got.Missing[i-1]), missingValue(got.Missing[i]))
	}
}

func TestTier(t *testing.T) {
	tests := []struct {
		term     jdTerm
		weight   float64
		priority string
	}{
		{jdTerm{tfidf: 0.09, freq: 1}, 6, types.PriorityCritical},
		{jdTerm{tfidf: 0.001, freq: 5}, 6, types.PriorityCritical},
		{jdTerm{tfidf: 0.06, freq: 1}, 5, types.PriorityCritical},
		{jdTerm{tfidf: 0.03, freq: 1}, 3, types.PriorityImportant},
		{jdTerm{tfidf: 0.001, freq: 2}, 3, types.PriorityImportant},
		{jdTerm{tfidf: 0.001, freq: 1}, 1, types.PriorityNiceToHave},
	}

	for _, tt := range tests {
		weight, priority, _ := tier(tt.term)
		assert.Equal(t, tt.weight, weight)
		assert.Equal(t, tt.priority, priority)
	}
}

func TestSuggestMetrics(t *testing.T) {
	s := newTestScorer(t)

	found := []types.FoundKeyword{{Keyword: "react", Frequency: 1}, {Keyword: "kubernetes", Frequency: 2}}
	text := "Built the React storefront.\n" + "Ran Kubernetes clusters, cutting cost by 30%."

	got := s.SuggestMetrics(text, types.RoleSoftwareEngineering, found)
	assert.LessOrEqual(t, len(got), 5)
	for _, m := range got {
		assert.NotEmpty(t, m.SuggestedMetric)
		assert.Contains(t, m.CurrentUsage, "without quantifiable metrics")
	}
}
