// Package extraction pulls skills, tools, metrics and certifications out of
// job descriptions using the dictionary rule table.
package extraction

import (
	"regexp"
	"strings"

	"github.com/jonathan/ats-engine/internal/dictionary"
	"github.com/jonathan/ats-engine/internal/textproc"
	"github.com/jonathan/ats-engine/internal/types"
)

// contextRadius is the number of characters kept on each side of a match.
const contextRadius = 50

// Extractor extracts job-description entities. It is safe for concurrent use.
type Extractor struct {
	rules          []Rule
	criticalCues   []*regexp.Regexp
	niceToHaveCues []*regexp.Regexp
}

// NewExtractor creates an extractor over the dictionary's rule tables.
func NewExtractor(dict *dictionary.Dictionary) *Extractor {
	return &Extractor{
		rules:          BuildRules(dict),
		criticalCues:   cuePatterns(dict.Entities.CriticalCues),
		niceToHaveCues: cuePatterns(dict.Entities.NiceToHaveCues),
	}
}

func cuePatterns(cues []string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, 0, len(cues))
	for _, c := range cues {
		out = append(out, textproc.WholeWordPattern(c))
	}
	return out
}

// ExtractJobEntities runs every rule over jobText and groups the hits.
func (e *Extractor) ExtractJobEntities(jobText string) types.JobDescriptionEntities {
	out := types.JobDescriptionEntities{
		HardSkills:     []types.ExtractedEntity{},
		SoftSkills:     []types.ExtractedEntity{},
		Metrics:        []types.ExtractedEntity{},
		Tools:          []types.ExtractedEntity{},
		Frameworks:     []types.ExtractedEntity{},
		Certifications: []types.ExtractedEntity{},
		IndustryTerms:  []types.ExtractedEntity{},
		MustHaves:      []types.ExtractedEntity{},
		NiceToHaves:    []types.ExtractedEntity{},
	}
	if strings.TrimSpace(jobText) == "" {
		return out
	}

	fullCritical := e.anyCue(e.criticalCues, jobText)
	captured := make(map[string]struct{})

	for _, rule := range e.rules {
		if rule.EveryMatch {
			for _, loc := range rule.Pattern.FindAllStringIndex(jobText, -1) {
				out.Metrics = append(out.Metrics, types.ExtractedEntity{
					Text:       jobText[loc[0]:loc[1]],
					Category:   rule.Category,
					Importance: types.ImportanceImportant,
					Context:    textproc.Window(jobText, loc[0], loc[1], contextRadius),
				})
			}
			continue
		}

		loc := rule.Pattern.FindStringIndex(jobText)
		if loc == nil {
			continue
		}
		key := strings.ToLower(rule.Name)
		if rule.SkipCaptured {
			if _, ok := captured[key]; ok {
				continue
			}
		}

		context := textproc.Window(jobText, loc[0], loc[1], contextRadius)
		entity := types.ExtractedEntity{
			Text:       rule.Name,
			Category:   rule.Category,
			Importance: types.ImportanceImportant,
			Context:    context,
			Synonyms:   rule.Synonyms,
		}
		if rule.Classify {
			entity.Importance = e.classify(context, fullCritical)
		}

		switch rule.Category {
		case types.CategoryFramework:
			out.Frameworks = append(out.Frameworks, entity)
		case types.CategoryTool:
			out.Tools = append(out.Tools, entity)
		case types.CategorySoftSkill:
			out.SoftSkills = append(out.SoftSkills, entity)
		case types.CategoryCertification:
			out.Certifications = append(out.Certifications, entity)
		case types.CategoryIndustryTerm:
			out.IndustryTerms = append(out.IndustryTerms, entity)
		default:
			out.HardSkills = append(out.HardSkills, entity)
		}
		if rule.Category != types.CategorySoftSkill {
			captured[key] = struct{}{}
		}

		switch entity.Importance {
		case types.ImportanceCritical:
			out.MustHaves = append(out.MustHaves, entity)
		case types.ImportanceNiceToHave:
			out.NiceToHaves = append(out.NiceToHaves, entity)
		}
	}

	out.HardSkills = Deduplicate(out.HardSkills)
	out.SoftSkills = Deduplicate(out.SoftSkills)
	out.Metrics = Deduplicate(out.Metrics)
	out.Tools = Deduplicate(out.Tools)
	out.Frameworks = Deduplicate(out.Frameworks)
	out.Certifications = Deduplicate(out.Certifications)
	out.IndustryTerms = Deduplicate(out.IndustryTerms)
	out.MustHaves = Deduplicate(out.MustHaves)
	out.NiceToHaves = Deduplicate(out.NiceToHaves)

	return out
}

// classify applies the cue rules: a critical cue anywhere in the posting or
// its context window wins, then a nice-to-have cue in the context window.
func (e *Extractor) classify(context string, fullCritical bool) types.Importance {
	if fullCritical || e.anyCue(e.criticalCues, context) {
		return types.ImportanceCritical
	}
	if e.anyCue(e.niceToHaveCues, context) {
		return types.ImportanceNiceToHave
	}
	return types.ImportanceImportant
}

func (e *Extractor) anyCue(cues []*regexp.Regexp, text string) bool {
	for _, re := range cues {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}

// Deduplicate keeps the first entity for each case-insensitive text.
func Deduplicate(entities []types.ExtractedEntity) []types.ExtractedEntity {
	seen := make(map[string]struct{}, len(entities))
	out := make([]types.ExtractedEntity, 0, len(entities))
	for _, e := range entities {
		key := strings.ToLower(e.Text)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, e)
	}
	return out
}

// SkillNames returns the skill texts found in text. It is used to compare a
// résumé's skills against a posting's.
func (e *Extractor) SkillNames(text string) []string {
	entities := e.ExtractJobEntities(text)
	return entities.SkillNames()
}
