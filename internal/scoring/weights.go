package scoring

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/ats-engine/internal/types"
)

// Adjustments scale each subscore by (1 + value).
type Adjustments struct {
	Keywords     float64 `mapstructure:"keywords" json:"keywords" validate:"gte=-1,lte=1"`
	Format       float64 `mapstructure:"format" json:"format" validate:"gte=-1,lte=1"`
	Completeness float64 `mapstructure:"completeness" json:"completeness" validate:"gte=-1,lte=1"`
}

// MLWeights are learned overrides applied on top of the dictionary.
type MLWeights struct {
	// KeywordWeights multiplies the match count of a keyword.
	KeywordWeights map[string]float64 `mapstructure:"keywordWeights" json:"keywordWeights,omitempty" validate:"omitempty,dive,gte=0"`
	// CategoryWeights replaces the classified role when a weight beats the
	// classifier's confidence.
	CategoryWeights    map[types.RoleCategory]float64 `mapstructure:"categoryWeights" json:"categoryWeights,omitempty" validate:"omitempty,dive,gte=0,lte=1"`
	ScoringAdjustments Adjustments                    `mapstructure:"scoringAdjustments" json:"scoringAdjustments"`
	DiscoveredKeywords []string                       `mapstructure:"discoveredKeywords" json:"discoveredKeywords,omitempty" validate:"omitempty,dive,required"`
}

var validate = validator.New()

// Validate checks ranges and category names.
func (w *MLWeights) Validate() error {
	if w == nil {
		return nil
	}
	if err := validate.Struct(w); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return &ConfigurationError{
				Field:   fe.Namespace(),
				Message: fmt.Sprintf("failed %q constraint", fe.Tag()),
				Cause:   err,
			}
		}
		return &ConfigurationError{Message: "failed to validate weights", Cause: err}
	}
	for cat := range w.CategoryWeights {
		if !cat.Valid() {
			return &ConfigurationError{Field: "categoryWeights", Message: fmt.Sprintf("unknown role category %q", cat)}
		}
	}
	for kw, v := range w.KeywordWeights {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return &ConfigurationError{Field: "keywordWeights." + kw, Message: "must be finite"}
		}
	}
	return nil
}

func (w *MLWeights) adjustments() Adjustments {
	if w == nil {
		return Adjustments{}
	}
	return w.ScoringAdjustments
}

// keywordWeight returns the multiplier for kw and whether one is set. Zero
// weights count as unset.
func (w *MLWeights) keywordWeight(kw string) (float64, bool) {
	if w == nil {
		return 0, false
	}
	v, ok := w.KeywordWeights[kw]
	if !ok || v == 0 {
		return 0, false
	}
	return v, true
}

func (w *MLWeights) discovered() []string {
	if w == nil {
		return nil
	}
	return w.DiscoveredKeywords
}

// topCategory returns the highest weighted category. Ties resolve in
// classification order.
func (w *MLWeights) topCategory() (types.RoleCategory, float64, bool) {
	if w == nil || len(w.CategoryWeights) == 0 {
		return "", 0, false
	}
	cats := make([]types.RoleCategory, 0, len(w.CategoryWeights))
	for cat := range w.CategoryWeights {
		cats = append(cats, cat)
	}
	order := make(map[types.RoleCategory]int, len(types.RoleCategories))
	for i, c := range types.RoleCategories {
		order[c] = i
	}
	sort.SliceStable(cats, func(i, j int) bool {
		wi, wj := w.CategoryWeights[cats[i]], w.CategoryWeights[cats[j]]
		if wi != wj {
			return wi > wj
		}
		return order[cats[i]] < order[cats[j]]
	})
	return cats[0], w.CategoryWeights[cats[0]], true
}

// relevantKeywords is the category keyword list plus discovered keywords,
// without duplicates.
func relevantKeywords(base []string, w *MLWeights) []string {
	out := make([]string, 0, len(base)+len(w.discovered()))
	seen := make(map[string]struct{}, len(base))
	for _, kw := range base {
		seen[kw] = struct{}{}
		out = append(out, kw)
	}
	for _, kw := range w.discovered() {
		kw = strings.TrimSpace(kw)
		if kw == "" {
			continue
		}
		if _, dup := seen[kw]; dup {
			continue
		}
		seen[kw] = struct{}{}
		out = append(out, kw)
	}
	return out
}
