// Package abtest compares résumé versions by their measured interview rates:
// a two-proportion z-test, the sample size needed for adequate power and a
// confidence-weighted winner.
package abtest

import (
	"math"
	"strconv"
)

// Statistical constants.
const (
	zAlpha = 1.96 // 95% confidence, two-tailed
	zBeta  = 0.84 // 80% power

	// DefaultMinimumDetectableEffect is the relative lift a test is sized for.
	DefaultMinimumDetectableEffect = 0.2
	// MaxSampleSize replaces sample sizes that cannot be computed.
	MaxSampleSize = 10000

	significanceLevel = 0.05
	minBaseline       = 0.005
	maxVariant        = 0.999
)

// ConversionRate is interviews per application as a percentage.
func ConversionRate(interviews, applications int) float64 {
	if applications == 0 {
		return 0
	}
	return float64(interviews) / float64(applications) * 100
}

// Significance is the outcome of a two-proportion z-test.
type Significance struct {
	PValue      float64 `json:"pValue"`
	Significant bool    `json:"significant"`
	ZScore      float64 `json:"zScore"`
}

// CalculateSignificance runs a two-tailed z-test on two conversion rates
// given in percent. Degenerate inputs give z=0 and p=1.
func CalculateSignificance(conversionA float64, samplesA int, conversionB float64, samplesB int) Significance {
	if samplesA <= 0 || samplesB <= 0 {
		return Significance{PValue: 1}
	}
	p1, p2 := conversionA/100, conversionB/100
	n1, n2 := float64(samplesA), float64(samplesB)

	pooled := (p1*n1 + p2*n2) / (n1 + n2)
	se := math.Sqrt(pooled * (1 - pooled) * (1/n1 + 1/n2))
	if se == 0 || math.IsNaN(se) {
		return Significance{PValue: 1}
	}

	z := (p1 - p2) / se
	p := 2 * (1 - normalCDF(math.Abs(z)))
	return Significance{
		PValue:      round(p, 4),
		Significant: p < significanceLevel,
		ZScore:      round(z, 2),
	}
}

// normalCDF is the Abramowitz-Stegun polynomial approximation of the
// standard normal distribution function.
func normalCDF(x float64) float64 {
	t := 1 / (1 + 0.2316419*math.Abs(x))
	d := 0.3989423 * math.Exp(-x*x/2)
	prob := d * t * (0.3193815 + t*(-0.3565638+t*(1.781478+t*(-1.821256+t*1.330274))))
	if x > 0 {
		return 1 - prob
	}
	return prob
}

// RequiredSampleSize estimates the applications per version needed to detect
// a relative lift of mde over a baseline conversion given in percent.
func RequiredSampleSize(baselineConversion, mde float64) int {
	if mde <= 0 {
		mde = DefaultMinimumDetectableEffect
	}
	p1 := baselineConversion / 100
	if p1 <= 0 {
		p1 = minBaseline
	}
	p1 = math.Min(p1, maxVariant)
	p2 := math.Min(p1*(1+mde), maxVariant)

	pooled := (p1 + p2) / 2
	num := zAlpha*math.Sqrt(2*pooled*(1-pooled)) + zBeta*math.Sqrt(p1*(1-p1)+p2*(1-p2))
	n := num * num / ((p1 - p2) * (p1 - p2))
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return MaxSampleSize
	}
	return max(1, int(math.Ceil(n)))
}

// Confidence converts a p-value into a 0-100 confidence, scaled down when the
// smaller sample has not reached the recommended size.
func Confidence(pValue float64, sampleSize, recommended int) int {
	c := (1 - pValue) * 100
	if recommended > 0 {
		if ratio := float64(sampleSize) / float64(recommended); ratio < 1 {
			c *= ratio
		}
	}
	return int(math.Max(0, math.Min(100, math.Round(c))))
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

// num formats a rate the way it reads in prose: no trailing zeros.
func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
