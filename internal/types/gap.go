package types

// GapAnalysis is the diff of job-description entities against a resume.
type GapAnalysis struct {
	Score            int               `json:"score"`
	MissingCritical  []ExtractedEntity `json:"missingCritical"`
	MissingImportant []ExtractedEntity `json:"missingImportant"`
	Matched          []ExtractedEntity `json:"matched"`
	Suggestions      []string          `json:"suggestions"`
	InsertionPoints  []InsertionPoint  `json:"insertionPoints,omitempty"`
}

// InsertionPoint suggests where in the resume a missing entity belongs.
type InsertionPoint struct {
	Entity      string `json:"entity"`
	Section     string `json:"section"`
	Reason      string `json:"reason"`
	ExampleText string `json:"exampleText,omitempty"`
}
