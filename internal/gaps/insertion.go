package gaps

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/jonathan/ats-engine/internal/similarity"
	"github.com/jonathan/ats-engine/internal/types"
)

var (
	sectionHeaderRe = regexp.MustCompile(`(?i)^(experience|education|skills?|projects?|certifications?|summary|about|work history|employment|technical skills?|achievements?|awards?)$`)
	sentenceSplitRe = regexp.MustCompile(`[.!?]+`)
)

const defaultSection = "Experience"

// Section is a titled block of résumé text.
type Section struct {
	Title   string
	Content string
}

// SplitSections splits a résumé on recognized header lines. Text before the
// first header belongs to "Other". Sections without content are dropped.
func SplitSections(text string) []Section {
	var sections []Section
	current := Section{Title: "Other"}

	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if sectionHeaderRe.MatchString(trimmed) {
			if current.Content != "" {
				sections = append(sections, current)
			}
			current = Section{Title: trimmed}
			continue
		}
		current.Content += line + "\n"
	}
	if current.Content != "" {
		sections = append(sections, current)
	}
	return sections
}

// BestInsertionPoint picks the résumé section where a missing entity should
// be added. Experience and work sections are preferred, skill sections are
// preferred for tools, and content similarity to the entity breaks the rest.
func (a *Analyzer) BestInsertionPoint(resumeText string, entity types.ExtractedEntity) types.InsertionPoint {
	best := defaultSection
	bestScore := 0.0
	example := ""

	skillVec := similarity.CountVector(a.tok, entity.Text)
	for _, sec := range SplitSections(resumeText) {
		title := strings.ToLower(sec.Title)
		score := 0.0
		if strings.Contains(title, "experience") || strings.Contains(title, "work") {
			score += 0.5
		}
		if entity.Category == types.CategoryTool && (strings.Contains(title, "skill") || strings.Contains(title, "technical")) {
			score += 0.6
		}
		score += similarity.Cosine(similarity.CountVector(a.tok, sec.Content), skillVec) * 0.4

		if score > bestScore {
			bestScore = score
			best = sec.Title
			example = strings.TrimSpace(sentenceSplitRe.Split(sec.Content, 2)[0])
		}
	}

	return types.InsertionPoint{
		Entity:      entity.Text,
		Section:     best,
		Reason:      insertionReason(best, entity.Text),
		ExampleText: example,
	}
}

func insertionReason(section, skill string) string {
	lower := strings.ToLower(section)
	switch {
	case strings.Contains(lower, "experience"):
		return fmt.Sprintf("Add %q to your Experience section inside a relevant project. Describe HOW you used it, not just that you used it.", skill)
	case strings.Contains(lower, "skill"):
		return fmt.Sprintf("Add %q to your Skills section, and also reference it in a specific project to give it context.", skill)
	case strings.Contains(lower, "project"):
		return fmt.Sprintf("Create a project that demonstrates your use of %q. Recruiters look for concrete examples, not lists.", skill)
	}
	return fmt.Sprintf("Add %q to your %s with a quantifiable example (e.g., \"Implemented %s to reduce latency by 40%%\").", skill, section, skill)
}
