package similarity

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/jonathan/ats-engine/internal/dictionary"
	"github.com/jonathan/ats-engine/internal/textproc"
	"github.com/jonathan/ats-engine/internal/types"
)

// SemanticTopN is the vector size used for résumé/posting comparison.
const SemanticTopN = 150

const (
	conceptWeight      = 0.01
	resumeConceptFloor = 0.005
	maxMatchedConcepts = 15
	maxSemanticGaps    = 10
)

// Semantic compares whole documents with synonym-expanded TF-IDF vectors.
type Semantic struct {
	dict       *dictionary.Dictionary
	vectorizer *Vectorizer
}

// NewSemantic creates a semantic comparator keeping SemanticTopN terms per
// vector. The two-document corpus gives every shared term an idf of zero, so
// comparison uses smoothed idf.
func NewSemantic(dict *dictionary.Dictionary, tok Tokenizer) *Semantic {
	return NewSemanticTopN(dict, tok, SemanticTopN)
}

// NewSemanticTopN is NewSemantic with a custom vector size.
func NewSemanticTopN(dict *dictionary.Dictionary, tok Tokenizer, topN int) *Semantic {
	return &Semantic{
		dict:       dict,
		vectorizer: NewVectorizer(tok, topN).Smoothed(),
	}
}

// Expand appends the synonyms of every dictionary keyword found in text.
func (s *Semantic) Expand(text string) string {
	var b strings.Builder
	b.WriteString(text)
	for _, syn := range s.dict.Keywords.Synonyms {
		if textproc.ContainsWholeWord(text, syn.Term) {
			b.WriteString(" ")
			b.WriteString(strings.Join(syn.Alternates, " "))
		}
	}
	return b.String()
}

// CalculateSemanticSimilarity compares a résumé to a job description.
func (s *Semantic) CalculateSemanticSimilarity(resume, jobDescription string) types.SemanticMatch {
	expandedResume := s.Expand(resume)
	expandedJD := s.Expand(jobDescription)
	corpus := []string{expandedResume, expandedJD}

	idf := s.vectorizer.IDF(corpus)
	resumeVec := s.vectorizer.vector(expandedResume, idf)
	jdVec := s.vectorizer.vector(expandedJD, idf)

	sim := Cosine(resumeVec, jdVec)

	var matched, gaps []string
	for _, term := range jdVec.Terms() {
		if jdVec[term] <= conceptWeight {
			continue
		}
		if resumeVec[term] > resumeConceptFloor {
			matched = append(matched, term)
		} else {
			gaps = append(gaps, term)
		}
	}
	byWeight := func(terms []string) {
		sort.SliceStable(terms, func(i, j int) bool {
			return jdVec[terms[i]] > jdVec[terms[j]]
		})
	}
	byWeight(matched)
	byWeight(gaps)

	return types.SemanticMatch{
		Similarity:          math.Round(sim*1000) / 1000,
		MatchedConcepts:     head(matched, maxMatchedConcepts),
		SemanticGaps:        head(gaps, maxSemanticGaps),
		ContextualRelevance: int(math.Round(sim * 100)),
		Explanation:         explain(sim),
	}
}

func explain(sim float64) string {
	switch {
	case sim >= 0.75:
		return "Excellent semantic match - Your experience aligns strongly with the role requirements"
	case sim >= 0.6:
		return "Good semantic match - Your background is relevant with some gaps to address"
	case sim >= 0.45:
		return "Moderate semantic match - Consider emphasizing transferable skills"
	default:
		return "Low semantic match - Significant skill gaps detected, focus on relevant experience"
	}
}

// SkillOverlap summarizes how many posting skills a résumé covers.
type SkillOverlap struct {
	Jaccard           float64  `json:"jaccard"`
	OverlapPercentage int      `json:"overlapPercentage"`
	MatchedSkills     []string `json:"matchedSkills"`
	MissingSkills     []string `json:"missingSkills"`
	TotalJDSkills     int      `json:"totalJdSkills"`
}

// CalculateSkillOverlap compares skill sets case-insensitively. Matched and
// missing skills keep the posting's order and spelling.
func CalculateSkillOverlap(resumeSkills, jdSkills []string) SkillOverlap {
	resumeSet := make(map[string]struct{}, len(resumeSkills))
	lowerResume := make([]string, 0, len(resumeSkills))
	for _, s := range resumeSkills {
		k := strings.ToLower(s)
		resumeSet[k] = struct{}{}
		lowerResume = append(lowerResume, k)
	}

	out := SkillOverlap{MatchedSkills: []string{}, MissingSkills: []string{}}
	seen := make(map[string]struct{}, len(jdSkills))
	lowerJD := make([]string, 0, len(jdSkills))
	for _, s := range jdSkills {
		k := strings.ToLower(s)
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		lowerJD = append(lowerJD, k)
		if _, ok := resumeSet[k]; ok {
			out.MatchedSkills = append(out.MatchedSkills, s)
		} else {
			out.MissingSkills = append(out.MissingSkills, s)
		}
	}

	out.TotalJDSkills = len(lowerJD)
	out.Jaccard = Jaccard(lowerResume, lowerJD)
	if out.TotalJDSkills > 0 {
		out.OverlapPercentage = int(math.Round(float64(len(out.MatchedSkills)) / float64(out.TotalJDSkills) * 100))
	}
	return out
}

// Relevance blends semantic similarity with skill overlap.
type Relevance struct {
	Score           int                 `json:"score"`
	Semantic        types.SemanticMatch `json:"semantic"`
	Overlap         SkillOverlap        `json:"overlap"`
	Strengths       []string            `json:"strengths"`
	Weaknesses      []string            `json:"weaknesses"`
	Recommendations []string            `json:"recommendations"`
}

// CalculateContextualRelevance weighs semantic relevance at 60% and skill
// overlap at 40%.
func (s *Semantic) CalculateContextualRelevance(resume, jobDescription string, resumeSkills, jdSkills []string) Relevance {
	sem := s.CalculateSemanticSimilarity(resume, jobDescription)
	overlap := CalculateSkillOverlap(resumeSkills, jdSkills)

	score := int(math.Round(float64(sem.ContextualRelevance)*0.6 + float64(overlap.OverlapPercentage)*0.4))

	strengths := []string{}
	if sem.ContextualRelevance >= 75 {
		strengths = append(strengths, "Strong semantic alignment with role requirements")
	}
	if overlap.OverlapPercentage >= 70 {
		strengths = append(strengths, fmt.Sprintf("Excellent skill match (%d%% overlap)", overlap.OverlapPercentage))
	}
	if len(sem.MatchedConcepts) >= 10 {
		strengths = append(strengths, fmt.Sprintf("%d key concepts matched", len(sem.MatchedConcepts)))
	}

	weaknesses := []string{}
	if sem.ContextualRelevance < 60 {
		weaknesses = append(weaknesses, "Semantic alignment could be stronger - focus on role-specific terminology")
	}
	if overlap.OverlapPercentage < 50 {
		weaknesses = append(weaknesses, fmt.Sprintf("Only %d%% skill overlap - add missing skills", overlap.OverlapPercentage))
	}
	if len(sem.SemanticGaps) > 5 {
		weaknesses = append(weaknesses, fmt.Sprintf("%d important concepts missing from resume", len(sem.SemanticGaps)))
	}

	recs := []string{}
	if len(overlap.MissingSkills) > 0 {
		recs = append(recs, "Add these critical skills: "+strings.Join(head(overlap.MissingSkills, 5), ", "))
	}
	if len(sem.SemanticGaps) > 0 {
		recs = append(recs, "Incorporate terminology around: "+strings.Join(head(sem.SemanticGaps, 3), ", "))
	}
	if score < 70 {
		recs = append(recs, "Tailor your resume more specifically to this role's requirements")
	}

	return Relevance{
		Score:           score,
		Semantic:        sem,
		Overlap:         overlap,
		Strengths:       strengths,
		Weaknesses:      weaknesses,
		Recommendations: recs,
	}
}

func head(s []string, n int) []string {
	if s == nil {
		return []string{}
	}
	if len(s) > n {
		return s[:n]
	}
	return s
}
