package abtest

import (
	"fmt"

	"github.com/jonathan/ats-engine/internal/types"
)

// VersionSummary is one side of a two-version comparison.
type VersionSummary struct {
	Name           string  `json:"name"`
	ConversionRate float64 `json:"conversionRate"`
	Applications   int     `json:"applications"`
}

// Comparison is the head-to-head result of two versions.
type Comparison struct {
	VersionA       VersionSummary `json:"versionA"`
	VersionB       VersionSummary `json:"versionB"`
	WinnerName     *string        `json:"winnerName"`
	Confidence     int            `json:"confidence"`
	Improvement    float64        `json:"improvement"`
	PValue         float64        `json:"pValue"`
	Recommendation string         `json:"recommendation"`
}

// CompareTwoVersions tests version a against version b. Each needs at least
// five applications before a winner can be named.
func (an *Analyzer) CompareTwoVersions(a types.ResumeVersion, outcomesA []types.ApplicationOutcome, b types.ResumeVersion, outcomesB []types.ApplicationOutcome) (Comparison, error) {
	if err := validateOutcomes(outcomesA); err != nil {
		return Comparison{}, err
	}
	if err := validateOutcomes(outcomesB); err != nil {
		return Comparison{}, err
	}
	sa, sb := Stats(outcomesA), Stats(outcomesB)
	rateA := ConversionRate(sa.Interviews, sa.Applications)
	rateB := ConversionRate(sb.Interviews, sb.Applications)

	c := Comparison{
		VersionA: VersionSummary{Name: a.Name, ConversionRate: round(rateA, 1), Applications: sa.Applications},
		VersionB: VersionSummary{Name: b.Name, ConversionRate: round(rateB, 1), Applications: sb.Applications},
		PValue:   1,
	}
	if sa.Applications < MinVersionApplications || sb.Applications < MinVersionApplications {
		c.Recommendation = fmt.Sprintf("Need at least %d applications per version to determine winner", MinVersionApplications)
		return c, nil
	}

	sig := CalculateSignificance(rateA, sa.Applications, rateB, sb.Applications)
	recommended := RequiredSampleSize(max(rateA, rateB), an.mde)
	c.PValue = sig.PValue
	c.Confidence = Confidence(sig.PValue, min(sa.Applications, sb.Applications), recommended)

	var winner string
	var improvement float64
	switch {
	case rateA > rateB:
		winner = a.Name
		improvement = lift(rateA, rateB)
	case rateB > rateA:
		winner = b.Name
		improvement = lift(rateB, rateA)
	}
	c.Improvement = round(improvement, 1)

	switch {
	case rateA == rateB:
		c.Recommendation = "Both versions perform equally. Continue testing or try a new variation."
		return c, nil
	case c.Confidence >= StrongConfidence:
		c.Recommendation = fmt.Sprintf("Clear winner: %s with %d%% confidence. Use this version exclusively.", winner, c.Confidence)
	case c.Confidence >= LikelyConfidence:
		c.Recommendation = fmt.Sprintf("Likely winner: %s with %d%% confidence. Continue testing to confirm.", winner, c.Confidence)
	default:
		c.Recommendation = fmt.Sprintf("Early indication favors %s, but need more data for confidence.", winner)
	}
	c.WinnerName = &winner
	return c, nil
}

// lift is the relative improvement of hi over lo in percent. A zero lo has
// no defined lift and reports 0.
func lift(hi, lo float64) float64 {
	if lo == 0 {
		return 0
	}
	return (hi - lo) / lo * 100
}
