package types

// Priority values used for missing keywords.
const (
	PriorityCritical   = "critical"
	PriorityImportant  = "important"
	PriorityNiceToHave = "nice-to-have"
)

// Severity values used for format issues.
const (
	SeverityCritical = "critical"
	SeverityHigh     = "high"
	SeverityMedium   = "medium"
	SeverityLow      = "low"
)

// ScoreBreakdown holds the three rounded subscores.
type ScoreBreakdown struct {
	Keywords     int `json:"keywords"`
	Format       int `json:"format"`
	Completeness int `json:"completeness"`
}

// FoundKeyword is a keyword located in the resume with its weighted contribution.
type FoundKeyword struct {
	Keyword   string  `json:"keyword"`
	Frequency int     `json:"frequency"`
	Weight    float64 `json:"weight"`
}

// MissingKeyword is a keyword the resume should add.
type MissingKeyword struct {
	Keyword   string   `json:"keyword"`
	Priority  string   `json:"priority"`
	Frequency float64  `json:"frequency"`
	Impact    int      `json:"impact"`
	Section   string   `json:"section"`
	Context   string   `json:"context"`
	Synonyms  []string `json:"synonyms"`
}

// FormatIssue is a detected formatting or content problem.
type FormatIssue struct {
	Issue     string `json:"issue"`
	Severity  string `json:"severity"`
	Fix       string `json:"fix"`
	Location  string `json:"location"`
	ATSImpact string `json:"atsImpact"`
}

// MetricSuggestion proposes a quantified rewrite for a keyword mentioned without numbers.
type MetricSuggestion struct {
	Tech            string `json:"tech"`
	CurrentUsage    string `json:"currentUsage"`
	SuggestedMetric string `json:"suggestedMetric"`
	Example         string `json:"example"`
	Impact          string `json:"impact"`
}

// BulletAnalysis summarizes bullet-point quality.
type BulletAnalysis struct {
	Score            float64  `json:"score"`
	StrongBullets    []string `json:"strongBullets"`
	WeakBullets      []string `json:"weakBullets"`
	SweetSpotBullets int      `json:"sweetSpotBullets"`
	Issues           []string `json:"issues"`
}

// SoftSkillsAnalysis summarizes soft-skill coverage.
type SoftSkillsAnalysis struct {
	Score   float64  `json:"score"`
	Found   []string `json:"found"`
	Missing []string `json:"missing"`
}

// SemanticMatch is the TF-IDF similarity summary between resume and job description.
type SemanticMatch struct {
	Similarity          float64  `json:"similarity"`
	MatchedConcepts     []string `json:"matchedConcepts"`
	SemanticGaps        []string `json:"semanticGaps"`
	ContextualRelevance int      `json:"contextualRelevance"`
	Explanation         string   `json:"explanation"`
}

// ScoreResult is the complete scoring response.
type ScoreResult struct {
	Title             string              `json:"title"`
	Category          RoleCategory        `json:"category"`
	RoleConfidence    float64             `json:"roleConfidence"`
	Score             int                 `json:"score"`
	Grade             string              `json:"grade"`
	RawScore          float64             `json:"rawScore"`
	ScoreBreakdown    ScoreBreakdown      `json:"scoreBreakdown"`
	MatchedKeywords   []string            `json:"matchedKeywords"`
	FoundKeywords     []FoundKeyword      `json:"foundKeywords,omitempty"`
	MissingKeywords   []MissingKeyword    `json:"missingKeywords"`
	FormatIssues      []FormatIssue       `json:"formatIssues"`
	MetricSuggestions []MetricSuggestion  `json:"metricSuggestions"`
	BulletAnalysis    *BulletAnalysis     `json:"bulletAnalysis,omitempty"`
	SoftSkills        *SoftSkillsAnalysis `json:"softSkills,omitempty"`
	Semantic          *SemanticMatch      `json:"semantic,omitempty"`
	Analysis          string              `json:"analysis"`
}
