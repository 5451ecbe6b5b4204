package scoring

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/ats-engine/internal/types"
)

// Bullet scoring constants.
const (
	minBulletLength      = 40
	detailedBulletLength = 80
	shortBulletLength    = 50
	sweetSpotMin         = 80
	sweetSpotMax         = 140
	maxListedBullets     = 3
	softSkillTermCount   = 15
	maxMissingSoftSkills = 5
)

var (
	bulletStartRe  = regexp.MustCompile(`^([•\-*]|[A-Z])`)
	bulletMetricRe = regexp.MustCompile(`(\d+%|\$\d+|\d+x|\d+\+)`)
)

// BulletRules holds the compiled verb lists used to judge bullet openings.
type BulletRules struct {
	strong *regexp.Regexp
	weak   *regexp.Regexp
}

// NewBulletRules compiles the strong and weak opening verb lists.
func NewBulletRules(strongVerbs, weakStarts []string) BulletRules {
	return BulletRules{
		strong: startPattern(strongVerbs),
		weak:   startPattern(weakStarts),
	}
}

func startPattern(words []string) *regexp.Regexp {
	if len(words) == 0 {
		return nil
	}
	quoted := make([]string, len(words))
	for i, w := range words {
		quoted[i] = regexp.QuoteMeta(w)
	}
	return regexp.MustCompile(`(?i)^(?:` + strings.Join(quoted, "|") + `)\b`)
}

func matches(re *regexp.Regexp, s string) bool {
	return re != nil && re.MatchString(s)
}

// AnalyzeBulletPoints grades each substantial line as an achievement bullet.
// A bullet earns 3 for a strong opening verb, loses 1 for a weak one, earns 4
// for a metric, 2 for detail over 80 characters, and loses 1 under 50.
func AnalyzeBulletPoints(text string, rules BulletRules) types.BulletAnalysis {
	out := types.BulletAnalysis{
		StrongBullets: []string{},
		WeakBullets:   []string{},
		Issues:        []string{},
	}

	total, count := 0, 0
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		n := utf8.RuneCountInString(line)
		if n < minBulletLength || !bulletStartRe.MatchString(line) {
			continue
		}
		count++
		clean := bulletMarkerRe.ReplaceAllString(line, "")
		length := utf8.RuneCountInString(clean)

		score := 0
		if matches(rules.strong, clean) {
			score += 3
		} else if matches(rules.weak, clean) {
			score--
		}
		if bulletMetricRe.MatchString(clean) {
			score += 4
		}
		if length > detailedBulletLength {
			score += 2
		} else if length < shortBulletLength {
			score--
		}
		if length >= sweetSpotMin && length <= sweetSpotMax {
			out.SweetSpotBullets++
		}

		switch {
		case score >= 5:
			out.StrongBullets = append(out.StrongBullets, clean)
			total += 10
		case score <= 1:
			out.WeakBullets = append(out.WeakBullets, clean)
			total += 2
		default:
			total += 5
		}
	}

	if count > 0 {
		out.Score = min(100, float64(total)/float64(count*10)*100)
	}
	if len(out.WeakBullets) > 0 {
		out.Issues = append(out.Issues, fmt.Sprintf("Found %d weak bullet points lacking metrics or strong action verbs.", len(out.WeakBullets)))
	}
	if count > 0 && len(out.StrongBullets) == 0 {
		out.Issues = append(out.Issues, "No high-impact bullet points found. Try adding metrics and strong verbs.")
	}
	out.StrongBullets = head(out.StrongBullets, maxListedBullets)
	out.WeakBullets = head(out.WeakBullets, maxListedBullets)
	return out
}

// AnalyzeSoftSkills checks the first fifteen soft-skill terms as substrings.
func AnalyzeSoftSkills(text string, terms []string) types.SoftSkillsAnalysis {
	lower := strings.ToLower(text)
	found := []string{}
	missing := []string{}
	for _, term := range head(terms, softSkillTermCount) {
		if strings.Contains(lower, strings.ToLower(term)) {
			found = append(found, term)
		} else {
			missing = append(missing, term)
		}
	}

	var score float64
	switch {
	case len(found) >= 5:
		score = 100
	case len(found) >= 3:
		score = 75
	case len(found) >= 1:
		score = 40
	}
	return types.SoftSkillsAnalysis{
		Score:   score,
		Found:   found,
		Missing: head(missing, maxMissingSoftSkills),
	}
}

func head(s []string, n int) []string {
	if len(s) > n {
		return s[:n]
	}
	return s
}
