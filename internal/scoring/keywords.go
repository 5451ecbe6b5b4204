package scoring

import (
	"fmt"
	"math"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/jonathan/ats-engine/internal/similarity"
	"github.com/jonathan/ats-engine/internal/textproc"
	"github.com/jonathan/ats-engine/internal/types"
)

// MaxKeywordScore caps the keyword subscore.
const MaxKeywordScore = 40

const (
	maxJDTerms        = 50
	minTermLength     = 3
	recencyFraction   = 0.3
	contextMultiplier = 1.6
	recencyMultiplier = 1.3
	maxFreqMultiplier = 1.5

	minMissingKeywords    = 3
	maxFilledKeywords     = 8
	fillCandidateKeywords = 15
	highCoveragePercent   = 80
	advancedMissingLimit  = 5
)

var (
	jdWordRe      = regexp.MustCompile(`\b[a-z0-9]+\b`)
	upperRe       = regexp.MustCompile(`[A-Z]`)
	methodologyRe = regexp.MustCompile(`(?i)agile|scrum|kanban|waterfall|devops|lean`)
	skillVerbRe   = regexp.MustCompile(`(?i)design|develop|manage|lead|analyz|optimi|implement|architect|deploy`)
	// Skill stems recognised when scoring without a job description.
	categorySkillVerbRe = regexp.MustCompile(`(?i)design|develop|manage|lead|analyz|optimi|implement`)
)

// KeywordResult is the keyword subscore with found and missing keywords.
type KeywordResult struct {
	Score   float64                `json:"score"`
	Found   []types.FoundKeyword   `json:"found"`
	Matched []string               `json:"matched"`
	Missing []types.MissingKeyword `json:"missing"`
	// JDTerms is the number of mined job-description terms, zero without one.
	JDTerms int `json:"jdTerms"`
}

type keywordMatch struct {
	found   bool
	matches int
	term    string
}

// jdTerm is a mined job-description term.
type jdTerm struct {
	term  string
	freq  float64
	tfidf float64
}

// ScoreKeywords scores keyword coverage against the job description when one
// is given, and against the role category's keyword list otherwise.
func (s *Scorer) ScoreKeywords(text string, category types.RoleCategory, jobDescription string, w *MLWeights) KeywordResult {
	relevant := relevantKeywords(s.dict.CategoryKeywords(category), w)

	var r KeywordResult
	if strings.TrimSpace(jobDescription) != "" {
		r = s.scoreAgainstJD(text, jobDescription, relevant, w)
	} else {
		r = s.scoreAgainstCategory(text, relevant, w)
	}

	r.Matched = make([]string, 0, len(r.Found))
	for _, f := range r.Found {
		r.Matched = append(r.Matched, f.Keyword)
	}
	r.Score = min(MaxKeywordScore, r.Score*(1+w.adjustments().Keywords))
	return r
}

// findKeyword counts whole-word occurrences of keyword and its synonyms. A
// term with no exact hit so far may still count once through fuzzy matching,
// and a single-word keyword once through a word of its synonym group.
// A keyword weight scales the final count.
func (s *Scorer) findKeyword(keyword, text string, w *MLWeights) keywordMatch {
	terms := append([]string{keyword}, s.dict.SynonymsFor(keyword)...)
	total := 0
	matched := keyword
	for _, term := range terms {
		if n := textproc.CountWholeWord(text, term); n > 0 {
			total += n
			matched = term
		}
		if total == 0 && similarity.FuzzyContains(text, term) {
			total++
			matched = term
		}
	}
	if total == 0 {
		if word, ok := s.groupMatch(keyword, text); ok {
			total = 1
			matched = word
		}
	}
	if weight, ok := w.keywordWeight(keyword); ok {
		total = int(math.Round(float64(total) * weight))
	}
	return keywordMatch{found: total > 0, matches: total, term: matched}
}

// groupMatch returns the first word of text the lexicon rates as a synonym of
// keyword. Co-occurrence alone stays below the synonym score, so no context
// is passed.
func (s *Scorer) groupMatch(keyword, text string) (string, bool) {
	if strings.ContainsRune(strings.TrimSpace(keyword), ' ') {
		return "", false
	}
	seen := make(map[string]struct{})
	for _, word := range textproc.Words(text) {
		if _, ok := seen[word]; ok {
			continue
		}
		seen[word] = struct{}{}
		if s.lexicon.WordSimilarity(keyword, word, "") >= similarity.SynonymScore {
			return word, true
		}
	}
	return "", false
}

// leadingPart returns the first 30% of text by runes.
func leadingPart(text string) string {
	n := int(float64(utf8.RuneCountInString(text)) * recencyFraction)
	i := 0
	for pos := range text {
		if i == n {
			return text[:pos]
		}
		i++
	}
	return text
}

// mineJDTerms weighs unigrams, bigrams and trigrams of the job description
// by frequency times a domain idf and keeps the top 50.
func (s *Scorer) mineJDTerms(jobDescription string, relevant map[string]struct{}) []jdTerm {
	words := jdWordRe.FindAllString(strings.ToLower(jobDescription), -1)
	if len(words) == 0 {
		return nil
	}
	stop := s.dict.IsJDStopword
	long := func(w string) bool { return len(w) >= minTermLength }

	freq := make(map[string]float64)
	for _, w := range words {
		if long(w) && !stop(w) {
			freq[w]++
		}
	}
	for i := 0; i+1 < len(words); i++ {
		a, b := words[i], words[i+1]
		if long(a) && long(b) && (!stop(a) || !stop(b)) {
			if bigram := a + " " + b; len(bigram) >= 6 {
				freq[bigram] += 1.8
			}
		}
	}
	for i := 0; i+2 < len(words); i++ {
		a, c := words[i], words[i+2]
		if long(a) && long(c) && !stop(a) && !stop(c) {
			if trigram := a + " " + words[i+1] + " " + c; len(trigram) >= 10 {
				freq[trigram] += 2.5
			}
		}
	}

	terms := make([]jdTerm, 0, len(freq))
	for term, f := range freq {
		tf := f / float64(len(words))
		terms = append(terms, jdTerm{term: term, freq: f, tfidf: tf * s.termIDF(term, relevant)})
	}
	sort.Slice(terms, func(i, j int) bool {
		if terms[i].tfidf != terms[j].tfidf {
			return terms[i].tfidf > terms[j].tfidf
		}
		return terms[i].term < terms[j].term
	})
	if len(terms) > maxJDTerms {
		terms = terms[:maxJDTerms]
	}
	return terms
}

// termIDF is a heuristic inverse document frequency favouring role keywords,
// known synonyms, phrases and long words.
func (s *Scorer) termIDF(term string, relevant map[string]struct{}) float64 {
	if s.dict.IsJDStopword(term) {
		return 0.05
	}
	if _, ok := relevant[term]; ok {
		return 3.5
	}
	if s.dict.IsSynonymTerm(term) {
		return 3.2
	}
	switch strings.Count(term, " ") + 1 {
	case 3:
		return 3.0
	case 2:
		return 2.5
	}
	switch n := len(term); {
	case n >= 12:
		return 2.3
	case n >= 10:
		return 2.0
	case n >= 7:
		return 1.5
	case n >= 5:
		return 1.0
	}
	return 0.5
}

func tier(t jdTerm) (weight float64, priority string, impact int) {
	switch {
	case t.tfidf > 0.08 || t.freq >= 5:
		return 6, types.PriorityCritical, 10
	case t.tfidf > 0.05 || t.freq >= 3:
		return 5, types.PriorityCritical, 10
	case t.tfidf > 0.02 || t.freq == 2:
		return 3, types.PriorityImportant, 7
	}
	return 1, types.PriorityNiceToHave, 3
}

func (s *Scorer) scoreAgainstJD(text, jobDescription string, relevant []string, w *MLWeights) KeywordResult {
	r := KeywordResult{Found: []types.FoundKeyword{}, Missing: []types.MissingKeyword{}}
	relevantSet := make(map[string]struct{}, len(relevant))
	for _, kw := range relevant {
		relevantSet[kw] = struct{}{}
	}

	terms := s.mineJDTerms(jobDescription, relevantSet)
	r.JDTerms = len(terms)
	lower := strings.ToLower(text)
	leading := leadingPart(text)

	for _, t := range terms {
		if len(t.term) < minTermLength {
			continue
		}
		weight, priority, impact := tier(t)

		m := s.findKeyword(t.term, text, w)
		if !m.found {
			section, context := jdMissingContext(t.term)
			r.Missing = append(r.Missing, types.MissingKeyword{
				Keyword:   t.term,
				Priority:  priority,
				Frequency: t.freq,
				Impact:    impact,
				Section:   section,
				Context:   context,
				Synonyms:  s.synonyms(t.term),
			})
			continue
		}

		final := weight
		if s.contextPattern(m.term).MatchString(lower) {
			final *= contextMultiplier
		}
		if s.findKeyword(t.term, leading, w).found {
			final *= recencyMultiplier
		}
		final *= math.Min(maxFreqMultiplier, 1+0.1*float64(m.matches))

		r.Found = append(r.Found, types.FoundKeyword{Keyword: t.term, Frequency: m.matches, Weight: final})
		r.Score += final
	}

	if len(r.Missing) < minMissingKeywords && len(terms) > 0 {
		for _, kw := range head(relevant, fillCandidateKeywords) {
			if len(r.Missing) >= maxFilledKeywords {
				break
			}
			if s.findKeyword(kw, text, w).found {
				continue
			}
			r.Missing = append(r.Missing, types.MissingKeyword{
				Keyword:   kw,
				Priority:  types.PriorityImportant,
				Frequency: 1,
				Impact:    8,
				Section:   "Core Skills",
				Context: fmt.Sprintf(`While not explicitly in the job description, "%s" is a valuable skill for this role. Example: "Applied %s to enhance [system/process] improving [key metric] by X%%"`,
					kw, kw),
				Synonyms: s.synonyms(kw),
			})
		}
	}

	sort.SliceStable(r.Missing, func(i, j int) bool {
		return missingValue(r.Missing[i]) > missingValue(r.Missing[j])
	})

	s.logger.Debug("scored keywords against job description",
		zap.Int("terms", len(terms)),
		zap.Int("found", len(r.Found)),
		zap.Int("missing", len(r.Missing)))
	return r
}

func missingValue(m types.MissingKeyword) float64 {
	return float64(m.Impact) * m.Frequency / 10
}

func jdMissingContext(term string) (section, context string) {
	multiword := strings.Contains(term, " ")
	switch {
	case upperRe.MatchString(term) || strings.ContainsAny(term, "./-"):
		verb := "build"
		if multiword {
			verb = "streamline"
		}
		return "Technical Skills", fmt.Sprintf(`Add "%s" to your resume with measurable impact. Example: "Utilized %s to %s [specific system/feature] reducing [problem] by X%% or saving $Y"`,
			term, term, verb)
	case methodologyRe.MatchString(term):
		outcome := "improve delivery"
		if multiword {
			outcome = "transform team workflow"
		}
		return "Experience & Methodologies", fmt.Sprintf(`Demonstrate "%s" experience with concrete outcomes. Example: "Applied %s practices to %s achieving X%% faster releases and Y%% fewer defects"`,
			term, term, outcome)
	case skillVerbRe.MatchString(term):
		return "Core Competencies", fmt.Sprintf(`Highlight your "%s" capabilities with quantifiable achievements. Example: "Successfully %sed [project name] for [company/team] resulting in [specific metric: 40%% efficiency gain, $100K revenue increase, etc.]"`,
			term, strings.ToLower(term))
	}
	return "Experience", fmt.Sprintf(`Incorporate "%s" naturally with business impact. Example: "Leveraged %s expertise to [solve specific challenge] delivering [measurable result like 25%% cost reduction or 50%% time savings]"`,
		term, term)
}

// contextPattern matches a context verb or proficiency word on the same line
// as term, on either side.
func (s *Scorer) contextPattern(term string) *regexp.Regexp {
	t := regexp.QuoteMeta(strings.ToLower(term))
	verbs := s.contextVerbs
	prof := s.proficiency
	return regexp.MustCompile(`(?:` + verbs + `).*` + t + `|` + t + `.*(?:` + verbs + `)|(?:` + prof + `).*` + t + `|` + t + `.*(?:` + prof + `)`)
}

func (s *Scorer) scoreAgainstCategory(text string, relevant []string, w *MLWeights) KeywordResult {
	r := KeywordResult{Found: []types.FoundKeyword{}, Missing: []types.MissingKeyword{}}
	total := len(relevant)
	tier1 := int(math.Ceil(float64(total) * 0.25))
	tier2 := int(math.Ceil(float64(total) * 0.35))

	hasContext := s.contextAnywhere.MatchString(text)
	leading := leadingPart(text)

	for i, kw := range relevant {
		tier := 3
		switch {
		case i < tier1:
			tier = 1
		case i < tier1+tier2:
			tier = 2
		}

		if m := s.findKeyword(kw, text, w); m.found {
			weight := [...]float64{2.0, 1.5, 1.0}[tier-1]
			if hasContext {
				weight += 0.3
			}
			if s.findKeyword(kw, leading, w).found {
				weight += 0.2
			}
			r.Found = append(r.Found, types.FoundKeyword{Keyword: kw, Frequency: m.matches, Weight: weight})
			r.Score += weight
			continue
		}

		mk := types.MissingKeyword{Keyword: kw, Context: categoryMissingContext(kw), Synonyms: s.synonyms(kw)}
		switch tier {
		case 1:
			mk.Priority, mk.Impact, mk.Section, mk.Frequency = types.PriorityCritical, 10, "Skills & Experience", 3
		case 2:
			mk.Priority, mk.Impact, mk.Section, mk.Frequency = types.PriorityImportant, 7, "Experience", 2
		default:
			mk.Priority, mk.Impact, mk.Section, mk.Frequency = types.PriorityNiceToHave, 5, "Skills", 1
		}
		r.Missing = append(r.Missing, mk)
	}

	if total > 0 {
		coverage := float64(len(r.Found)) / float64(total) * 100
		if coverage > highCoveragePercent && len(r.Missing) < advancedMissingLimit {
			for _, adv := range s.dict.Keywords.AdvancedKeywords {
				if s.findKeyword(adv.Keyword, text, w).found {
					continue
				}
				r.Missing = append(r.Missing, types.MissingKeyword{
					Keyword:   adv.Keyword,
					Priority:  types.PriorityImportant,
					Frequency: 2,
					Impact:    adv.Impact,
					Section:   "Advanced Skills",
					Context:   adv.Context,
					Synonyms:  []string{},
				})
			}
		}
	}

	sort.SliceStable(r.Missing, func(i, j int) bool {
		return r.Missing[i].Impact > r.Missing[j].Impact
	})
	return r
}

func categoryMissingContext(kw string) string {
	switch {
	case upperRe.MatchString(kw) || strings.ContainsAny(kw, ".-"):
		return fmt.Sprintf(`Add "%s" to your technical skills and experience sections. Example: "Leveraged %s to build/optimize [specific feature/system] achieving [quantifiable result like 30%% faster performance]"`,
			kw, kw)
	case categorySkillVerbRe.MatchString(kw):
		return fmt.Sprintf(`Demonstrate "%s" with concrete examples. Example: "Successfully %sed [specific project] resulting in [measurable outcome such as $50K cost savings or 40%% efficiency gain]"`,
			kw, strings.ToLower(kw))
	}
	return fmt.Sprintf(`Incorporate "%s" naturally in your experience bullets. Example: "Applied %s expertise to [solve specific problem] delivering [tangible impact with metrics]"`,
		kw, kw)
}

func (s *Scorer) synonyms(term string) []string {
	return append([]string{}, s.dict.SynonymsFor(term)...)
}
