// Package dictionary holds the declarative rule tables used by the matching
// and scoring engine. The tables ship as embedded YAML and can be overridden
// from a directory at runtime.
package dictionary

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/jonathan/ats-engine/internal/types"
)

// SkillFamily is an ordered group of skills extracted under one category.
type SkillFamily struct {
	Name     string               `yaml:"name"`
	Category types.EntityCategory `yaml:"category"`
	Skills   []string             `yaml:"skills"`
}

// PatternRule maps a regular expression to a canonical entity name.
type PatternRule struct {
	Pattern  string   `yaml:"pattern"`
	Name     string   `yaml:"name"`
	Synonyms []string `yaml:"synonyms,omitempty"`
}

// EntityRules are the job-description extraction tables.
type EntityRules struct {
	Stopwords        []string            `yaml:"stopwords"`
	SkillFamilies    []SkillFamily       `yaml:"skill_families"`
	SkillSynonyms    map[string][]string `yaml:"skill_synonyms"`
	SoftSkills       []PatternRule       `yaml:"soft_skills"`
	MetricPatterns   []PatternRule       `yaml:"metric_patterns"`
	Certifications   []string            `yaml:"certifications"`
	CriticalCues     []string            `yaml:"critical_cues"`
	NiceToHaveCues   []string            `yaml:"nice_to_have_cues"`
	IndustryTermSets []string            `yaml:"industry_term_sets"`
}

// Synonym lists the alternates accepted for a keyword.
type Synonym struct {
	Term       string   `yaml:"term"`
	Alternates []string `yaml:"alternates"`
}

// AdvancedKeyword is suggested once a résumé covers most category keywords.
type AdvancedKeyword struct {
	Keyword string `yaml:"keyword"`
	Impact  int    `yaml:"impact"`
	Context string `yaml:"context"`
}

// KeywordRules are the role keyword tables.
type KeywordRules struct {
	KeywordSets      map[string][]string             `yaml:"keyword_sets"`
	Categories       map[types.RoleCategory][]string `yaml:"categories"`
	Classifiers      map[types.RoleCategory]string   `yaml:"classifiers"`
	Synonyms         []Synonym                       `yaml:"synonyms"`
	SynonymGroups    [][]string                      `yaml:"synonym_groups"`
	AdvancedKeywords []AdvancedKeyword               `yaml:"advanced_keywords"`
	JDStopwords      []string                        `yaml:"jd_stopwords"`
}

// CapitalizationRule pairs a lower-case technical term with its correct form.
type CapitalizationRule struct {
	Term    string `yaml:"term"`
	Correct string `yaml:"correct"`
}

// QualityRules are the content-quality tables.
type QualityRules struct {
	Capitalization   []CapitalizationRule `yaml:"capitalization"`
	Buzzwords        []string             `yaml:"buzzwords"`
	WeakPhrases      []string             `yaml:"weak_phrases"`
	GrowthWords      []string             `yaml:"growth_words"`
	StrongVerbs      []string             `yaml:"strong_verbs"`
	BulletVerbs      []string             `yaml:"bullet_verbs"`
	WeakStarts       []string             `yaml:"weak_starts"`
	SoftSkillTerms   []string             `yaml:"soft_skill_terms"`
	PowerPhrases     []string             `yaml:"power_phrases"`
	ContextVerbs     []string             `yaml:"context_verbs"`
	ProficiencyWords []string             `yaml:"proficiency_words"`
	TitleWords       []string             `yaml:"title_words"`
}

// MetricTemplate suggests how to quantify achievements for a technology area.
type MetricTemplate struct {
	Tech     string   `yaml:"tech" json:"tech"`
	Metrics  []string `yaml:"metrics" json:"metrics"`
	Examples []string `yaml:"examples" json:"examples"`
	Impact   string   `yaml:"impact" json:"impact"`
}

// CompiledRule is a PatternRule with its compiled expression.
type CompiledRule struct {
	PatternRule
	Regexp *regexp.Regexp
}

// Dictionary is the full, validated rule set. It is immutable after Build and
// safe for concurrent use.
type Dictionary struct {
	Entities        EntityRules
	Keywords        KeywordRules
	Quality         QualityRules
	MetricTemplates map[types.RoleCategory][]MetricTemplate

	stopwords    map[string]struct{}
	jdStopwords  map[string]struct{}
	synonyms     map[string][]string
	synonymTerms map[string]struct{}
	categorySets map[types.RoleCategory][]string
	categoryKws  map[types.RoleCategory]map[string]struct{}
	groups       map[string][]int
	softSkills   []CompiledRule
	metricRules  []CompiledRule
	powerPhrases []*regexp.Regexp
}

// Build validates the raw tables and prepares the lookup indexes.
func Build(entities EntityRules, keywords KeywordRules, quality QualityRules, templates map[types.RoleCategory][]MetricTemplate) (*Dictionary, error) {
	d := &Dictionary{
		Entities:        entities,
		Keywords:        keywords,
		Quality:         quality,
		MetricTemplates: templates,
		stopwords:       toSet(entities.Stopwords),
		jdStopwords:     toSet(keywords.JDStopwords),
		synonyms:        make(map[string][]string),
		synonymTerms:    make(map[string]struct{}),
		categorySets:    make(map[types.RoleCategory][]string),
		categoryKws:     make(map[types.RoleCategory]map[string]struct{}),
		groups:          make(map[string][]int),
	}

	for _, family := range entities.SkillFamilies {
		if !family.Category.Valid() {
			return nil, &Error{Table: "skill_families", Message: fmt.Sprintf("family %q has invalid category %q", family.Name, family.Category)}
		}
	}

	for _, s := range keywords.Synonyms {
		term := strings.ToLower(s.Term)
		d.synonyms[term] = s.Alternates
		d.synonymTerms[term] = struct{}{}
		for _, alt := range s.Alternates {
			d.synonymTerms[strings.ToLower(alt)] = struct{}{}
		}
	}

	for i, group := range keywords.SynonymGroups {
		for _, w := range group {
			w = strings.ToLower(w)
			d.groups[w] = append(d.groups[w], i)
		}
	}

	for _, cat := range types.RoleCategories {
		setNames, ok := keywords.Categories[cat]
		if !ok {
			return nil, &Error{Table: "categories", Message: fmt.Sprintf("missing keyword sets for %q", cat)}
		}
		seen := make(map[string]struct{})
		var kws []string
		for _, name := range setNames {
			set, ok := keywords.KeywordSets[name]
			if !ok {
				return nil, &Error{Table: "categories", Message: fmt.Sprintf("unknown keyword set %q for %q", name, cat)}
			}
			for _, kw := range set {
				if _, dup := seen[kw]; dup {
					continue
				}
				seen[kw] = struct{}{}
				kws = append(kws, kw)
			}
		}
		d.categorySets[cat] = kws
		d.categoryKws[cat] = seen
	}
	for cat, name := range keywords.Classifiers {
		if !cat.Valid() {
			return nil, &Error{Table: "classifiers", Message: fmt.Sprintf("invalid role category %q", cat)}
		}
		if _, ok := keywords.KeywordSets[name]; !ok {
			return nil, &Error{Table: "classifiers", Message: fmt.Sprintf("unknown keyword set %q for %q", name, cat)}
		}
	}
	for _, name := range entities.IndustryTermSets {
		if _, ok := keywords.KeywordSets[name]; !ok {
			return nil, &Error{Table: "industry_term_sets", Message: fmt.Sprintf("unknown keyword set %q", name)}
		}
	}

	var err error
	if d.softSkills, err = compileRules("soft_skills", entities.SoftSkills); err != nil {
		return nil, err
	}
	if d.metricRules, err = compileRules("metric_patterns", entities.MetricPatterns); err != nil {
		return nil, err
	}
	for _, p := range quality.PowerPhrases {
		re, err := regexp.Compile("(?i)" + p)
		if err != nil {
			return nil, &Error{Table: "power_phrases", Message: fmt.Sprintf("invalid pattern %q", p), Err: err}
		}
		d.powerPhrases = append(d.powerPhrases, re)
	}

	if _, ok := templates[types.RoleGeneral]; !ok {
		return nil, &Error{Table: "metrics", Message: "missing General templates"}
	}

	return d, nil
}

func compileRules(table string, rules []PatternRule) ([]CompiledRule, error) {
	out := make([]CompiledRule, 0, len(rules))
	for _, r := range rules {
		re, err := regexp.Compile("(?i)" + r.Pattern)
		if err != nil {
			return nil, &Error{Table: table, Message: fmt.Sprintf("invalid pattern for %q", r.Name), Err: err}
		}
		out = append(out, CompiledRule{PatternRule: r, Regexp: re})
	}
	return out, nil
}

func toSet(words []string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[strings.ToLower(w)] = struct{}{}
	}
	return set
}

// IsStopword reports whether w is in the tokenizer stopword list.
func (d *Dictionary) IsStopword(w string) bool {
	_, ok := d.stopwords[w]
	return ok
}

// IsJDStopword reports whether w is in the job-description mining stopword list.
func (d *Dictionary) IsJDStopword(w string) bool {
	_, ok := d.jdStopwords[w]
	return ok
}

// CategoryKeywords returns the deduplicated keyword list scored for a category.
func (d *Dictionary) CategoryKeywords(cat types.RoleCategory) []string {
	if kws, ok := d.categorySets[cat]; ok {
		return kws
	}
	return d.categorySets[types.RoleGeneral]
}

// IsCategoryKeyword reports whether kw belongs to the category's keyword list.
func (d *Dictionary) IsCategoryKeyword(cat types.RoleCategory, kw string) bool {
	set, ok := d.categoryKws[cat]
	if !ok {
		set = d.categoryKws[types.RoleGeneral]
	}
	_, found := set[kw]
	return found
}

// ClassifierKeywords returns the keyword set that identifies cat, or nil for
// categories without one.
func (d *Dictionary) ClassifierKeywords(cat types.RoleCategory) []string {
	name, ok := d.Keywords.Classifiers[cat]
	if !ok {
		return nil
	}
	return d.Keywords.KeywordSets[name]
}

// KeywordSet returns a named keyword set.
func (d *Dictionary) KeywordSet(name string) []string {
	return d.Keywords.KeywordSets[name]
}

// SynonymsFor returns the alternates for a keyword. Lookup is case-insensitive.
func (d *Dictionary) SynonymsFor(term string) []string {
	return d.synonyms[strings.ToLower(term)]
}

// IsSynonymTerm reports whether term is a synonym key or one of its alternates.
func (d *Dictionary) IsSynonymTerm(term string) bool {
	_, ok := d.synonymTerms[strings.ToLower(term)]
	return ok
}

// ShareSynonymGroup reports whether two words appear in the same synonym group.
func (d *Dictionary) ShareSynonymGroup(a, b string) bool {
	ga := d.groups[strings.ToLower(a)]
	gb := d.groups[strings.ToLower(b)]
	for _, i := range ga {
		for _, j := range gb {
			if i == j {
				return true
			}
		}
	}
	return false
}

// SoftSkillRules returns the compiled soft-skill patterns in table order.
func (d *Dictionary) SoftSkillRules() []CompiledRule {
	return d.softSkills
}

// MetricRules returns the compiled metric patterns in table order.
func (d *Dictionary) MetricRules() []CompiledRule {
	return d.metricRules
}

// PowerPhrases returns the compiled power-phrase patterns.
func (d *Dictionary) PowerPhrases() []*regexp.Regexp {
	return d.powerPhrases
}

// TemplatesFor returns the metric templates for a category, falling back to
// the General set.
func (d *Dictionary) TemplatesFor(cat types.RoleCategory) []MetricTemplate {
	if t, ok := d.MetricTemplates[cat]; ok {
		return t
	}
	return d.MetricTemplates[types.RoleGeneral]
}
