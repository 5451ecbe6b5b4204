package types

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Outcome is the result of one job application.
type Outcome string

const (
	OutcomeInterview  Outcome = "interview"
	OutcomeRejected   Outcome = "rejected"
	OutcomeNoResponse Outcome = "no_response"
	OutcomeOffer      Outcome = "offer"
)

// ParseOutcome converts a string into an Outcome.
func ParseOutcome(s string) (Outcome, error) {
	switch Outcome(s) {
	case OutcomeInterview, OutcomeRejected, OutcomeNoResponse, OutcomeOffer:
		return Outcome(s), nil
	}
	return "", fmt.Errorf("invalid outcome %q", s)
}

// IsInterview reports whether the outcome counts toward the interview rate.
// Offers imply an interview.
func (o Outcome) IsInterview() bool {
	return o == OutcomeInterview || o == OutcomeOffer
}

// ResumeVersion is an immutable named snapshot of a resume under test.
type ResumeVersion struct {
	ID          string    `json:"id"`
	OwnerID     uuid.UUID `json:"ownerId,omitempty"`
	Name        string    `json:"name"`
	Text        string    `json:"text,omitempty"`
	Fingerprint string    `json:"fingerprint,omitempty"`
	Changes     []string  `json:"changes"`
	ATSScore    int       `json:"atsScore"`
	CreatedAt   time.Time `json:"createdAt"`
}

// ApplicationOutcome is an append-only event tied to one ResumeVersion.
type ApplicationOutcome struct {
	ResumeVersionID string    `json:"resumeVersionId"`
	CombinationID   string    `json:"combinationId,omitempty"`
	Outcome         Outcome   `json:"outcome"`
	DaysToResponse  float64   `json:"daysToResponse"`
	JobTitle        string    `json:"jobTitle,omitempty"`
	Company         string    `json:"company,omitempty"`
	AppliedAt       time.Time `json:"appliedAt"`
}

// VersionStats aggregates outcomes for one version.
type VersionStats struct {
	Applications      int     `json:"applications"`
	Interviews        int     `json:"interviews"`
	Offers            int     `json:"offers"`
	Rejections        int     `json:"rejections"`
	NoResponses       int     `json:"noResponses"`
	ConversionRate    float64 `json:"conversionRate"`
	OfferRate         float64 `json:"offerRate"`
	AvgDaysToResponse float64 `json:"avgDaysToResponse"`
}

// VersionPerformance pairs a version with its aggregated stats.
type VersionPerformance struct {
	ID       string       `json:"id"`
	Name     string       `json:"name"`
	ATSScore int          `json:"atsScore"`
	Stats    VersionStats `json:"stats"`
}

// Winner describes the version declared best by the A/B analysis.
type Winner struct {
	VersionID               string  `json:"versionId"`
	VersionName             string  `json:"versionName"`
	Confidence              int     `json:"confidence"`
	ImprovementOverBaseline float64 `json:"improvementOverBaseline"`
	Reasoning               string  `json:"reasoning"`
}

// StatisticalSignificance summarizes the inferential state of a test.
type StatisticalSignificance struct {
	Achieved bool `json:"achieved"`
	// PValue is 1 - confidence/100 of the winner, or 1 without one. It is
	// derived from the sample-adjusted confidence, not taken from the z-test,
	// so it can exceed the test's p-value.
	PValue                float64 `json:"pValue"`
	SampleSize            int     `json:"sampleSize"`
	RecommendedSampleSize int     `json:"recommendedSampleSize"`
}

// TestStatus is the lifecycle state of an A/B test.
type TestStatus string

const (
	StatusInsufficientData TestStatus = "insufficient_data"
	StatusInProgress       TestStatus = "in_progress"
	StatusCompleted        TestStatus = "completed"
	StatusWinnerFound      TestStatus = "winner_found"
)

// ABTestResults is the derived report over versions and outcomes.
type ABTestResults struct {
	Versions                []VersionPerformance    `json:"versions"`
	Winner                  *Winner                 `json:"winner"`
	Recommendations         []string                `json:"recommendations"`
	StatisticalSignificance StatisticalSignificance `json:"statisticalSignificance"`
	TestDuration            int                     `json:"testDuration"`
	Status                  TestStatus              `json:"status"`
}
