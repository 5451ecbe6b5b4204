package scoring

import (
	"regexp"
	"strings"

	"github.com/jonathan/ats-engine/internal/types"
)

// Format subscore points and cap.
const (
	MaxFormatScore = 30

	emailPoints          = 5
	phonePoints          = 5
	linkedInPoints       = 3
	experiencePoints     = 6
	educationPoints      = 4
	skillsPoints         = 4
	datePoints           = 3
	capitalizationPoints = 2
	repetitionPoints     = 2

	minPhoneDigits = 7
)

var (
	emailRe      = regexp.MustCompile(`[\w.-]+@[\w.-]+\.\w+`)
	phoneRe      = regexp.MustCompile(`\+?[\d\s()-]{10,}`)
	experienceRe = regexp.MustCompile(`(?i)experience|work history|employment`)
	educationRe  = regexp.MustCompile(`(?i)education|academic|degree`)
	skillsRe     = regexp.MustCompile(`(?i)skills|technical skills|competencies`)

	dateStyles = []*regexp.Regexp{
		regexp.MustCompile(`\d{1,2}/\d{4}`),
		regexp.MustCompile(`\d{4}-\d{2}`),
		regexp.MustCompile(`[A-Z][a-z]+ \d{4}`),
	}
)

// FormatResult is the format subscore with the checks behind it.
type FormatResult struct {
	Score           float64             `json:"score"`
	Issues          []types.FormatIssue `json:"issues"`
	HasEmail        bool                `json:"hasEmail"`
	HasPhone        bool                `json:"hasPhone"`
	HasLinkedIn     bool                `json:"hasLinkedIn"`
	HasExperience   bool                `json:"hasExperience"`
	HasEducation    bool                `json:"hasEducation"`
	HasSkills       bool                `json:"hasSkills"`
	ConsistentDates bool                `json:"consistentDates"`
}

// ScoreFormat checks contact details, section headers, date styles and
// technical writing, capped at 30 after the format adjustment.
func (s *Scorer) ScoreFormat(text string, w *MLWeights) FormatResult {
	r := FormatResult{Issues: []types.FormatIssue{}}
	lower := strings.ToLower(text)
	var score float64

	if r.HasEmail = emailRe.MatchString(text); r.HasEmail {
		score += emailPoints
	} else {
		r.Issues = append(r.Issues, types.FormatIssue{
			Issue:     "Missing email address",
			Severity:  types.SeverityHigh,
			Fix:       "Add a professional email address at the top of your resume (e.g., firstname.lastname@email.com)",
			Location:  "Header",
			ATSImpact: "ATS cannot contact you without email - automatic rejection",
		})
	}

	if r.HasPhone = hasPhone(text); r.HasPhone {
		score += phonePoints
	} else {
		r.Issues = append(r.Issues, types.FormatIssue{
			Issue:     "Missing phone number",
			Severity:  types.SeverityMedium,
			Fix:       "Add your phone number in the header with proper formatting (e.g., +1-555-123-4567)",
			Location:  "Header",
			ATSImpact: "Reduces contact options for recruiters",
		})
	}

	if r.HasLinkedIn = strings.Contains(lower, "linkedin") || strings.Contains(lower, "linked.in"); r.HasLinkedIn {
		score += linkedInPoints
	}

	r.HasExperience = experienceRe.MatchString(text)
	r.HasEducation = educationRe.MatchString(text)
	r.HasSkills = skillsRe.MatchString(text)
	if r.HasExperience {
		score += experiencePoints
	} else {
		r.Issues = append(r.Issues, types.FormatIssue{
			Issue:     "Missing 'Experience' section header",
			Severity:  types.SeverityHigh,
			Fix:       "Add a clear 'Experience' or 'Work History' section header",
			Location:  "Body",
			ATSImpact: "ATS cannot identify your work experience - major parsing failure",
		})
	}
	if r.HasEducation {
		score += educationPoints
	}
	if r.HasSkills {
		score += skillsPoints
	}

	if r.ConsistentDates = consistentDates(text); r.ConsistentDates {
		score += datePoints
	} else {
		r.Issues = append(r.Issues, types.FormatIssue{
			Issue:     "Inconsistent date formats",
			Severity:  types.SeverityMedium,
			Fix:       "Use a single date format throughout (recommended: 'Month YYYY' e.g., 'January 2020')",
			Location:  "Experience section",
			ATSImpact: "Confuses ATS timeline parsing, may misorder your experience",
		})
	}

	if caps := CheckCapitalization(text, s.dict.Quality.Capitalization); len(caps) > 0 {
		r.Issues = append(r.Issues, types.FormatIssue{
			Issue:     "Incorrect Technical Capitalization",
			Severity:  types.SeverityLow,
			Fix:       "Correct the capitalization of technical terms: " + strings.Join(caps, ", "),
			Location:  "Skills/Experience",
			ATSImpact: "Indicates lack of attention to detail to human recruiters",
		})
	} else {
		score += capitalizationPoints
	}

	if reps := CheckRepetitiveStarts(text); len(reps) > 0 {
		r.Issues = append(r.Issues, types.FormatIssue{
			Issue:     "Repetitive Sentence Starters",
			Severity:  types.SeverityMedium,
			Fix:       "Vary your action verbs. Found repetition: " + strings.Join(reps, ", "),
			Location:  "Experience Bullets",
			ATSImpact: "Reduces readability and engagement",
		})
	} else {
		score += repetitionPoints
	}

	r.Score = min(MaxFormatScore, score*(1+w.adjustments().Format))
	return r
}

// hasPhone looks for a run of digits, spaces, dashes and parentheses that
// carries at least seven digits, so blank-line runs are not mistaken for one.
func hasPhone(text string) bool {
	for _, m := range phoneRe.FindAllString(text, -1) {
		digits := 0
		for _, r := range m {
			if r >= '0' && r <= '9' {
				digits++
			}
		}
		if digits >= minPhoneDigits {
			return true
		}
	}
	return false
}

// consistentDates reports whether at most one date style appears.
func consistentDates(text string) bool {
	styles := 0
	for _, re := range dateStyles {
		if re.MatchString(text) {
			styles++
		}
	}
	return styles <= 1
}
