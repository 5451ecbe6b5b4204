package abtest

import (
	"fmt"
	"sort"
	"strings"

	"github.com/jonathan/ats-engine/internal/types"
)

// Impact classifies a factor level against the mean combination rate.
type Impact string

const (
	ImpactPositive Impact = "positive"
	ImpactNegative Impact = "negative"
	ImpactNeutral  Impact = "neutral"
)

const (
	positiveImpactRatio  = 1.1
	negativeImpactRatio  = 0.9
	reliableApplications = 10
)

// Factor is one dimension of a multivariate test and its levels.
type Factor struct {
	Name       string   `json:"name" validate:"required"`
	Variations []string `json:"variations" validate:"required,min=1,dive,required"`
}

// FactorLevel is the level chosen for one factor.
type FactorLevel struct {
	Factor string `json:"factor"`
	Value  string `json:"value"`
}

// Combination is one cell of a multivariate test. Levels follow factor order.
type Combination struct {
	ID     string        `json:"combinationId"`
	Levels []FactorLevel `json:"factors"`
}

// Level returns the value of factor in c.
func (c Combination) Level(factor string) (string, bool) {
	for _, l := range c.Levels {
		if l.Factor == factor {
			return l.Value, true
		}
	}
	return "", false
}

func (c Combination) describe() string {
	parts := make([]string, len(c.Levels))
	for i, l := range c.Levels {
		parts[i] = l.Factor + "=" + l.Value
	}
	return strings.Join(parts, ", ")
}

// BestCombination is the best performing cell with enough data.
type BestCombination struct {
	Combination
	ConversionRate float64 `json:"conversionRate"`
	Confidence     int     `json:"confidence"`
}

// VariationImpact is the pooled conversion of one factor level.
type VariationImpact struct {
	Value             string  `json:"value"`
	AvgConversionRate float64 `json:"avgConversionRate"`
	Impact            Impact  `json:"impact"`
}

// FactorImpact lists a factor's levels by descending conversion.
type FactorImpact struct {
	Factor     string            `json:"factor"`
	Variations []VariationImpact `json:"variations"`
}

// MultivariateResults is the report of a multivariate test.
type MultivariateResults struct {
	BestCombination *BestCombination `json:"bestCombination"`
	FactorImpact    []FactorImpact   `json:"factorImpact"`
	Recommendations []string         `json:"recommendations"`
}

// SetupMultivariateTest builds the cartesian product of factor levels. The
// first factor varies slowest and ids are combination_1, combination_2, ...
func SetupMultivariateTest(factors []Factor) ([]Combination, error) {
	if len(factors) == 0 {
		return nil, &ValidationError{Field: "factors", Message: "at least one factor is required"}
	}
	seen := make(map[string]struct{}, len(factors))
	for i, f := range factors {
		if f.Name == "" {
			return nil, &ValidationError{Field: fmt.Sprintf("factors[%d].name", i), Message: "must not be empty"}
		}
		if _, dup := seen[f.Name]; dup {
			return nil, &ValidationError{Field: fmt.Sprintf("factors[%d].name", i), Message: fmt.Sprintf("duplicate factor %q", f.Name)}
		}
		seen[f.Name] = struct{}{}
		if len(f.Variations) == 0 {
			return nil, &ValidationError{Field: fmt.Sprintf("factors[%d].variations", i), Message: "at least one variation is required"}
		}
	}

	cells := [][]FactorLevel{{}}
	for _, f := range factors {
		next := make([][]FactorLevel, 0, len(cells)*len(f.Variations))
		for _, cell := range cells {
			for _, v := range f.Variations {
				levels := append(append([]FactorLevel{}, cell...), FactorLevel{Factor: f.Name, Value: v})
				next = append(next, levels)
			}
		}
		cells = next
	}
	out := make([]Combination, len(cells))
	for i, cell := range cells {
		out[i] = Combination{ID: fmt.Sprintf("combination_%d", i+1), Levels: cell}
	}
	return out, nil
}

type comboStats struct {
	Combination
	applications int
	rate         float64
}

// AnalyzeMultivariateTest aggregates outcomes by combination id and rates
// every factor level against the mean combination conversion.
func (a *Analyzer) AnalyzeMultivariateTest(combos []Combination, outcomes []types.ApplicationOutcome) (MultivariateResults, error) {
	if len(combos) == 0 {
		return MultivariateResults{}, &ValidationError{Field: "combinations", Message: "at least one combination is required"}
	}
	if err := validateOutcomes(outcomes); err != nil {
		return MultivariateResults{}, err
	}

	byCombo := make(map[string][]types.ApplicationOutcome, len(combos))
	for _, o := range outcomes {
		byCombo[o.CombinationID] = append(byCombo[o.CombinationID], o)
	}
	stats := make([]comboStats, len(combos))
	var rateSum float64
	for i, c := range combos {
		s := Stats(byCombo[c.ID])
		stats[i] = comboStats{
			Combination:  c,
			applications: s.Applications,
			rate:         ConversionRate(s.Interviews, s.Applications),
		}
		rateSum += stats[i].rate
	}
	mean := rateSum / float64(len(stats))

	res := MultivariateResults{FactorImpact: []FactorImpact{}, Recommendations: []string{}}

	best := stats[0]
	for _, s := range stats[1:] {
		if s.rate > best.rate {
			best = s
		}
	}
	if best.applications >= MinVersionApplications {
		res.BestCombination = &BestCombination{
			Combination:    best.Combination,
			ConversionRate: round(best.rate, 1),
			Confidence:     min(100, best.applications*10),
		}
		res.Recommendations = append(res.Recommendations, fmt.Sprintf("Best combination: %s with %s%% interview rate",
			best.describe(), num(res.BestCombination.ConversionRate)))
	}

	for _, lvl := range combos[0].Levels {
		fi := FactorImpact{Factor: lvl.Factor, Variations: []VariationImpact{}}
		for _, value := range levelValues(combos, lvl.Factor) {
			apps := 0
			var weighted float64
			for _, s := range stats {
				if v, ok := s.Level(lvl.Factor); ok && v == value {
					apps += s.applications
					weighted += s.rate * float64(s.applications)
				}
			}
			var avg float64
			if apps > 0 {
				avg = weighted / float64(apps)
			}
			impact := ImpactNeutral
			switch {
			case avg > mean*positiveImpactRatio:
				impact = ImpactPositive
			case avg < mean*negativeImpactRatio:
				impact = ImpactNegative
			}
			fi.Variations = append(fi.Variations, VariationImpact{Value: value, AvgConversionRate: round(avg, 1), Impact: impact})
		}
		sort.SliceStable(fi.Variations, func(i, j int) bool {
			return fi.Variations[i].AvgConversionRate > fi.Variations[j].AvgConversionRate
		})
		res.FactorImpact = append(res.FactorImpact, fi)
	}

	for _, fi := range res.FactorImpact {
		if len(fi.Variations) == 0 {
			continue
		}
		if top := fi.Variations[0]; top.Impact == ImpactPositive {
			res.Recommendations = append(res.Recommendations, fmt.Sprintf("Use %q for %s (%s%% conversion)",
				top.Value, fi.Factor, num(top.AvgConversionRate)))
		}
	}

	reliable := false
	for _, s := range stats {
		if s.applications >= reliableApplications {
			reliable = true
			break
		}
	}
	if !reliable {
		res.Recommendations = append(res.Recommendations, "Need more applications per combination for reliable results")
	}
	return res, nil
}

// levelValues lists the distinct values of factor in combination order.
func levelValues(combos []Combination, factor string) []string {
	var out []string
	seen := make(map[string]struct{})
	for _, c := range combos {
		v, ok := c.Level(factor)
		if !ok {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
