package abtest

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/jonathan/ats-engine/internal/types"
)

// Decision thresholds.
const (
	MinTotalApplications   = 10
	MinVersionApplications = 5
	WinnerConfidence       = 80
	StrongConfidence       = 90
	LikelyConfidence       = 70
	lowInterviewRate       = 15
	maxListedChanges       = 3
)

// Analyzer derives A/B test reports. It holds no state between calls.
type Analyzer struct {
	now    func() time.Time
	mde    float64
	logger *zap.Logger
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithClock sets the clock used for the test duration.
func WithClock(now func() time.Time) Option {
	return func(a *Analyzer) { a.now = now }
}

// WithMinimumDetectableEffect sets the relative lift tests are sized for.
func WithMinimumDetectableEffect(mde float64) Option {
	return func(a *Analyzer) { a.mde = mde }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(a *Analyzer) { a.logger = l }
}

// NewAnalyzer creates an Analyzer using the wall clock and a 20% effect.
func NewAnalyzer(opts ...Option) *Analyzer {
	a := &Analyzer{now: time.Now, mde: DefaultMinimumDetectableEffect}
	for _, opt := range opts {
		opt(a)
	}
	if a.logger == nil {
		a.logger = zap.NewNop()
	}
	return a
}

// Stats aggregates the outcomes of one version.
func Stats(outcomes []types.ApplicationOutcome) types.VersionStats {
	var s types.VersionStats
	var days float64
	responded := 0
	for _, o := range outcomes {
		s.Applications++
		if o.Outcome.IsInterview() {
			s.Interviews++
		}
		switch o.Outcome {
		case types.OutcomeOffer:
			s.Offers++
		case types.OutcomeRejected:
			s.Rejections++
		case types.OutcomeNoResponse:
			s.NoResponses++
		}
		if o.DaysToResponse > 0 {
			days += o.DaysToResponse
			responded++
		}
	}
	s.ConversionRate = round(ConversionRate(s.Interviews, s.Applications), 1)
	if s.Applications > 0 {
		s.OfferRate = round(float64(s.Offers)/float64(s.Applications)*100, 1)
	}
	if responded > 0 {
		s.AvgDaysToResponse = round(days/float64(responded), 1)
	}
	return s
}

func validateOutcomes(outcomes []types.ApplicationOutcome) error {
	for i, o := range outcomes {
		if _, err := types.ParseOutcome(string(o.Outcome)); err != nil {
			return &ValidationError{Field: fmt.Sprintf("outcomes[%d].outcome", i), Message: err.Error()}
		}
	}
	return nil
}

// Analyze compares every version against the baseline, the version with
// the most applications, and declares a winner when the best performer is
// significantly or confidently better.
func (a *Analyzer) Analyze(versions []types.ResumeVersion, outcomes []types.ApplicationOutcome) (types.ABTestResults, error) {
	if len(versions) == 0 {
		return types.ABTestResults{}, &ValidationError{Field: "versions", Message: "at least one version is required"}
	}
	if err := validateOutcomes(outcomes); err != nil {
		return types.ABTestResults{}, err
	}

	byVersion := make(map[string][]types.ApplicationOutcome, len(versions))
	for _, o := range outcomes {
		byVersion[o.ResumeVersionID] = append(byVersion[o.ResumeVersionID], o)
	}
	perf := make([]types.VersionPerformance, len(versions))
	total := 0
	for i, v := range versions {
		perf[i] = types.VersionPerformance{ID: v.ID, Name: v.Name, ATSScore: v.ATSScore, Stats: Stats(byVersion[v.ID])}
		total += perf[i].Stats.Applications
	}

	baseline := baselineIndex(perf)
	order := rankByConversion(perf)
	best := order[0]
	recommended := RequiredSampleSize(perf[baseline].Stats.ConversionRate, a.mde)

	res := types.ABTestResults{
		Versions:        perf,
		Recommendations: []string{},
		Status:          types.StatusInsufficientData,
	}

	if total >= MinTotalApplications {
		res.Status = types.StatusInProgress
		b, base := perf[best], perf[baseline]
		if best != baseline && b.Stats.Applications >= MinVersionApplications && base.Stats.Applications >= MinVersionApplications {
			sig := CalculateSignificance(b.Stats.ConversionRate, b.Stats.Applications, base.Stats.ConversionRate, base.Stats.Applications)
			conf := Confidence(sig.PValue, min(b.Stats.Applications, base.Stats.Applications), recommended)
			a.logger.Debug("compared best version with baseline",
				zap.String("best", b.ID),
				zap.String("baseline", base.ID),
				zap.Float64("p_value", sig.PValue),
				zap.Float64("z_score", sig.ZScore),
				zap.Int("confidence", conf))

			if sig.Significant || conf >= WinnerConfidence {
				res.Status = types.StatusWinnerFound
				res.Winner = newWinner(b, base, sig, conf, recommended)
			}
		}
		if res.Winner == nil && total >= recommended {
			res.Status = types.StatusCompleted
		}
	}

	res.Recommendations = recommendations(res, versions, perf, order, total, recommended)
	res.StatisticalSignificance = types.StatisticalSignificance{
		PValue:                1,
		SampleSize:            total,
		RecommendedSampleSize: recommended,
	}
	if res.Winner != nil {
		res.StatisticalSignificance.Achieved = res.Winner.Confidence >= WinnerConfidence
		// Reported from confidence; the z-test p-value is in the winner's reasoning.
		res.StatisticalSignificance.PValue = round(1-float64(res.Winner.Confidence)/100, 2)
	}
	res.TestDuration = testDuration(outcomes, a.now())
	return res, nil
}

// baselineIndex picks the version with the most applications. Ties go to
// the lower conversion rate, then to input order.
func baselineIndex(perf []types.VersionPerformance) int {
	idx := 0
	for i := 1; i < len(perf); i++ {
		cur, top := perf[i].Stats, perf[idx].Stats
		if cur.Applications > top.Applications ||
			(cur.Applications == top.Applications && cur.ConversionRate < top.ConversionRate) {
			idx = i
		}
	}
	return idx
}

// rankByConversion returns version indexes by descending conversion rate,
// keeping input order among equals.
func rankByConversion(perf []types.VersionPerformance) []int {
	order := make([]int, len(perf))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		return perf[order[i]].Stats.ConversionRate > perf[order[j]].Stats.ConversionRate
	})
	return order
}

func newWinner(best, base types.VersionPerformance, sig Significance, conf, recommended int) *types.Winner {
	var improvement float64
	if base.Stats.ConversionRate > 0 {
		improvement = (best.Stats.ConversionRate - base.Stats.ConversionRate) / base.Stats.ConversionRate * 100
	}

	var b strings.Builder
	if sig.Significant {
		fmt.Fprintf(&b, "%s achieves %s%% interview rate vs %s%% baseline (p=%s). ",
			best.Name, num(best.Stats.ConversionRate), num(base.Stats.ConversionRate), num(sig.PValue))
	} else {
		fmt.Fprintf(&b, "%s shows %s%% interview rate vs %s%% baseline. ",
			best.Name, num(best.Stats.ConversionRate), num(base.Stats.ConversionRate))
	}
	sign := ""
	if improvement >= 0 {
		sign = "+"
	}
	fmt.Fprintf(&b, "%s%.1f%% relative improvement. ", sign, improvement)
	if best.Stats.Applications < recommended {
		b.WriteString("Consider testing with more applications for stronger confidence.")
	}

	return &types.Winner{
		VersionID:               best.ID,
		VersionName:             best.Name,
		Confidence:              conf,
		ImprovementOverBaseline: round(improvement, 1),
		Reasoning:               b.String(),
	}
}

func recommendations(res types.ABTestResults, versions []types.ResumeVersion, perf []types.VersionPerformance, order []int, total, recommended int) []string {
	recs := []string{}
	if res.Status == types.StatusInsufficientData {
		remaining := max(recommended, MinTotalApplications) - total
		recs = append(recs, fmt.Sprintf("Apply to %d more jobs to reach statistical significance", remaining))
	}
	if perf[order[0]].Stats.ConversionRate < lowInterviewRate {
		recs = append(recs, "Overall interview rate is low - consider further optimizing resume content and keywords")
	}

	if w := res.Winner; w != nil {
		switch {
		case w.Confidence >= StrongConfidence:
			recs = append(recs, fmt.Sprintf("Strong winner identified! Use %s for future applications", w.VersionName))
		case w.Confidence >= LikelyConfidence:
			recs = append(recs, "Likely winner found, but continue testing to confirm results")
		}
		for _, v := range versions {
			if v.ID == w.VersionID {
				if len(v.Changes) > 0 {
					recs = append(recs, "Key changes that worked: "+strings.Join(v.Changes[:min(len(v.Changes), maxListedChanges)], ", "))
				}
				break
			}
		}
	}

	if len(order) >= 2 {
		for i := 1; i < len(order); i++ {
			if perf[order[i]].ATSScore > perf[order[i-1]].ATSScore {
				recs = append(recs, "Note: Higher ATS score doesn't always mean better interview rate. Real-world testing is crucial!")
				break
			}
		}
	}
	return recs
}

// testDuration is the number of started days since the earliest application.
func testDuration(outcomes []types.ApplicationOutcome, now time.Time) int {
	first := now
	for _, o := range outcomes {
		if o.AppliedAt.Before(first) {
			first = o.AppliedAt
		}
	}
	return int(math.Ceil(now.Sub(first).Hours() / 24))
}
