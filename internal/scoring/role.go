package scoring

import (
	"github.com/jonathan/ats-engine/internal/textproc"
	"github.com/jonathan/ats-engine/internal/types"
)

// RoleMatch is the classified job family of a résumé.
type RoleMatch struct {
	Category   types.RoleCategory         `json:"category"`
	Confidence float64                    `json:"confidence"`
	Hits       map[types.RoleCategory]int `json:"hits,omitempty"`
}

// ClassifyRole counts, per category, how many of its classifier keywords
// occur in text as whole words. The category with most hits wins and
// confidence is its share of all hits. Without hits the role is General.
func (s *Scorer) ClassifyRole(text string) RoleMatch {
	hits := make(map[types.RoleCategory]int)
	total := 0
	best := types.RoleGeneral
	bestHits := 0

	for _, cat := range types.RoleCategories {
		kws := s.dict.ClassifierKeywords(cat)
		if len(kws) == 0 {
			continue
		}
		n := 0
		for _, kw := range kws {
			if textproc.ContainsWholeWord(text, kw) {
				n++
			}
		}
		hits[cat] = n
		total += n
		if n > bestHits {
			best, bestHits = cat, n
		}
	}

	if total == 0 {
		return RoleMatch{Category: types.RoleGeneral, Hits: hits}
	}
	return RoleMatch{
		Category:   best,
		Confidence: float64(bestHits) / float64(total),
		Hits:       hits,
	}
}

// adjustRole applies the categoryWeights override.
func adjustRole(m RoleMatch, w *MLWeights) types.RoleCategory {
	cat, weight, ok := w.topCategory()
	if ok && weight > m.Confidence {
		return cat
	}
	return m.Category
}
