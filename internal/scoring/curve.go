package scoring

import "math"

// Curve compresses the raw subscore sum so that only exceptional résumés
// approach 100. Scores above Threshold grow at Factor, and the compressed
// value above SecondThreshold grows at SecondFactor. Texts longer than
// MinTextLength never score below Floor.
type Curve struct {
	Threshold       float64 `mapstructure:"threshold" json:"threshold"`
	Factor          float64 `mapstructure:"factor" json:"factor"`
	SecondThreshold float64 `mapstructure:"second-threshold" json:"secondThreshold"`
	SecondFactor    float64 `mapstructure:"second-factor" json:"secondFactor"`
	Floor           float64 `mapstructure:"floor" json:"floor"`
	MinTextLength   int     `mapstructure:"min-text-length" json:"minTextLength"`
}

// DefaultCurve returns the standard curve constants.
func DefaultCurve() Curve {
	return Curve{
		Threshold:       50,
		Factor:          0.4,
		SecondThreshold: 70,
		SecondFactor:    0.3,
		Floor:           20,
		MinTextLength:   10,
	}
}

// Validate checks that factors are in (0,1] and thresholds ascend.
func (c Curve) Validate() error {
	if c.Factor <= 0 || c.Factor > 1 {
		return &ConfigurationError{Field: "curve.factor", Message: "must be in (0,1]"}
	}
	if c.SecondFactor <= 0 || c.SecondFactor > 1 {
		return &ConfigurationError{Field: "curve.second-factor", Message: "must be in (0,1]"}
	}
	if c.Threshold < 0 || c.Threshold > 100 {
		return &ConfigurationError{Field: "curve.threshold", Message: "must be in [0,100]"}
	}
	if c.SecondThreshold <= c.Threshold || c.SecondThreshold > 100 {
		return &ConfigurationError{Field: "curve.second-threshold", Message: "must be above threshold and at most 100"}
	}
	if c.Floor < 0 || c.Floor >= c.Threshold {
		return &ConfigurationError{Field: "curve.floor", Message: "must be in [0,threshold)"}
	}
	if c.MinTextLength < 0 {
		return &ConfigurationError{Field: "curve.min-text-length", Message: "must not be negative"}
	}
	return nil
}

// Apply maps a raw score onto the final 0-100 scale.
func (c Curve) Apply(raw float64, textLength int) int {
	s := raw
	if s > c.Threshold {
		s = c.Threshold + (s-c.Threshold)*c.Factor
	}
	if s > c.SecondThreshold {
		s = c.SecondThreshold + (s-c.SecondThreshold)*c.SecondFactor
	}
	if textLength > c.MinTextLength {
		s = math.Max(s, c.Floor)
	}
	return int(math.Max(0, math.Min(100, math.Round(s))))
}
