// Package types provides type definitions for structured data used throughout the ats-engine system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import "fmt"

// EntityCategory classifies an extracted job-description entity.
type EntityCategory string

const (
	CategoryHardSkill     EntityCategory = "hard_skill"
	CategorySoftSkill     EntityCategory = "soft_skill"
	CategoryMetric        EntityCategory = "metric"
	CategoryTool          EntityCategory = "tool"
	CategoryFramework     EntityCategory = "framework"
	CategoryCertification EntityCategory = "certification"
	CategoryIndustryTerm  EntityCategory = "industry_term"
)

// Valid reports whether c is a known category.
func (c EntityCategory) Valid() bool {
	switch c {
	case CategoryHardSkill, CategorySoftSkill, CategoryMetric, CategoryTool,
		CategoryFramework, CategoryCertification, CategoryIndustryTerm:
		return true
	}
	return false
}

// Importance is the three-tier requirement weight of an entity.
type Importance string

const (
	ImportanceCritical   Importance = "critical"
	ImportanceImportant  Importance = "important"
	ImportanceNiceToHave Importance = "nice_to_have"
)

// ExtractedEntity is a skill, tool, metric or certification found in a job description.
type ExtractedEntity struct {
	Text       string         `json:"text"`
	Category   EntityCategory `json:"category"`
	Importance Importance     `json:"importance"`
	Context    string         `json:"context,omitempty"`
	Synonyms   []string       `json:"synonyms,omitempty"`
}

// JobDescriptionEntities groups extracted entities by category.
type JobDescriptionEntities struct {
	HardSkills     []ExtractedEntity `json:"hardSkills"`
	SoftSkills     []ExtractedEntity `json:"softSkills"`
	Metrics        []ExtractedEntity `json:"metrics"`
	Tools          []ExtractedEntity `json:"tools"`
	Frameworks     []ExtractedEntity `json:"frameworks"`
	Certifications []ExtractedEntity `json:"certifications"`
	IndustryTerms  []ExtractedEntity `json:"industryTerms"`
	MustHaves      []ExtractedEntity `json:"mustHaves"`
	NiceToHaves    []ExtractedEntity `json:"niceToHaves"`
}

// Matchable returns the entities the gap analyzer tests against a resume,
// in a fixed order: hard skills, soft skills, frameworks, tools, certifications.
func (e *JobDescriptionEntities) Matchable() []ExtractedEntity {
	out := make([]ExtractedEntity, 0,
		len(e.HardSkills)+len(e.SoftSkills)+len(e.Frameworks)+len(e.Tools)+len(e.Certifications))
	out = append(out, e.HardSkills...)
	out = append(out, e.SoftSkills...)
	out = append(out, e.Frameworks...)
	out = append(out, e.Tools...)
	out = append(out, e.Certifications...)
	return out
}

// Count returns the total number of categorized entities.
func (e *JobDescriptionEntities) Count() int {
	return len(e.HardSkills) + len(e.SoftSkills) + len(e.Metrics) + len(e.Tools) +
		len(e.Frameworks) + len(e.Certifications) + len(e.IndustryTerms)
}

// SkillNames returns the texts of all matchable entities plus industry terms.
func (e *JobDescriptionEntities) SkillNames() []string {
	var names []string
	for _, ent := range e.Matchable() {
		names = append(names, ent.Text)
	}
	for _, ent := range e.IndustryTerms {
		names = append(names, ent.Text)
	}
	return names
}

// ParseImportance converts a string into an Importance.
func ParseImportance(s string) (Importance, error) {
	switch Importance(s) {
	case ImportanceCritical, ImportanceImportant, ImportanceNiceToHave:
		return Importance(s), nil
	}
	return "", fmt.Errorf("invalid importance %q", s)
}
