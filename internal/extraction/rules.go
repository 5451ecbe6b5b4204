package extraction

import (
	"regexp"

	"github.com/jonathan/ats-engine/internal/dictionary"
	"github.com/jonathan/ats-engine/internal/textproc"
	"github.com/jonathan/ats-engine/internal/types"
)

// Rule is one row of the extraction table.
type Rule struct {
	Category types.EntityCategory
	// Name is the canonical entity text. Empty means the matched text is used.
	Name     string
	Pattern  *regexp.Regexp
	Synonyms []string
	// EveryMatch emits one entity per match instead of one per rule.
	EveryMatch bool
	// Classify derives importance from cue words; otherwise it is important.
	Classify bool
	// SkipCaptured drops the entity when a skill with the same text exists.
	SkipCaptured bool
}

// BuildRules flattens the dictionary tables into the ordered rule list:
// skill families, soft skills, metrics, certifications, then industry terms.
func BuildRules(dict *dictionary.Dictionary) []Rule {
	var rules []Rule

	for _, family := range dict.Entities.SkillFamilies {
		for _, skill := range family.Skills {
			rules = append(rules, Rule{
				Category: family.Category,
				Name:     skill,
				Pattern:  textproc.WholeWordPattern(skill),
				Synonyms: dict.Entities.SkillSynonyms[skill],
				Classify: true,
			})
		}
	}

	for _, r := range dict.SoftSkillRules() {
		rules = append(rules, Rule{
			Category: types.CategorySoftSkill,
			Name:     r.Name,
			Pattern:  r.Regexp,
			Synonyms: r.Synonyms,
			Classify: true,
		})
	}

	for _, r := range dict.MetricRules() {
		rules = append(rules, Rule{
			Category:   types.CategoryMetric,
			Pattern:    r.Regexp,
			EveryMatch: true,
		})
	}

	for _, cert := range dict.Entities.Certifications {
		rules = append(rules, Rule{
			Category: types.CategoryCertification,
			Name:     cert,
			Pattern:  textproc.WholeWordPattern(cert),
		})
	}

	for _, set := range dict.Entities.IndustryTermSets {
		for _, term := range dict.KeywordSet(set) {
			rules = append(rules, Rule{
				Category:     types.CategoryIndustryTerm,
				Name:         term,
				Pattern:      textproc.WholeWordPattern(term),
				Synonyms:     dict.SynonymsFor(term),
				Classify:     true,
				SkipCaptured: true,
			})
		}
	}

	return rules
}
