// Package scoring computes the composite ATS score of a résumé: keyword,
// format and completeness subscores combined through a realism curve, with a
// markdown report explaining the result.
package scoring

import (
	"context"
	"fmt"
	"math"
	"regexp"
	"runtime"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/ats-engine/internal/dictionary"
	"github.com/jonathan/ats-engine/internal/logger"
	"github.com/jonathan/ats-engine/internal/similarity"
	"github.com/jonathan/ats-engine/internal/textproc"
	"github.com/jonathan/ats-engine/internal/types"
)

// MaxMissingKeywords is the number of missing keywords returned in a result.
const MaxMissingKeywords = 10

// Scorer scores résumés. It is immutable after construction and safe for
// concurrent use.
type Scorer struct {
	dict     *dictionary.Dictionary
	semantic *similarity.Semantic
	lexicon  *similarity.Lexicon
	curve    Curve
	topN     int
	workers  int
	logger   *zap.Logger

	bulletRules     BulletRules
	strongVerbs     *regexp.Regexp
	contextVerbs    string
	proficiency     string
	contextAnywhere *regexp.Regexp
	titleWords      *regexp.Regexp
}

// Option configures a Scorer.
type Option func(*Scorer)

// WithCurve replaces the default realism curve.
func WithCurve(c Curve) Option {
	return func(s *Scorer) { s.curve = c }
}

// WithSemanticTopN sets the TF-IDF vector size of the semantic comparison.
func WithSemanticTopN(n int) Option {
	return func(s *Scorer) { s.topN = n }
}

// WithWorkers bounds the concurrency of ScoreBatch.
func WithWorkers(n int) Option {
	return func(s *Scorer) { s.workers = n }
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(s *Scorer) { s.logger = l }
}

// NewScorer creates a scorer over dict.
func NewScorer(dict *dictionary.Dictionary, opts ...Option) (*Scorer, error) {
	if dict == nil {
		return nil, &ConfigurationError{Field: "dictionary", Message: "must not be nil"}
	}
	s := &Scorer{
		dict:    dict,
		curve:   DefaultCurve(),
		topN:    similarity.SemanticTopN,
		workers: runtime.GOMAXPROCS(0),
	}
	for _, opt := range opts {
		opt(s)
	}
	if err := s.curve.Validate(); err != nil {
		return nil, err
	}
	if s.topN < 1 {
		return nil, &ConfigurationError{Field: "topN", Message: "must be at least 1"}
	}
	if s.workers < 1 {
		return nil, &ConfigurationError{Field: "workers", Message: "must be at least 1"}
	}
	s.logger = logger.Named(s.logger, "scoring")

	q := dict.Quality
	s.semantic = similarity.NewSemanticTopN(dict, textproc.NewTokenizer(dict), s.topN)
	s.lexicon = similarity.NewLexicon(dict)
	s.bulletRules = NewBulletRules(q.BulletVerbs, q.WeakStarts)
	s.contextVerbs = alternation(q.ContextVerbs)
	s.proficiency = alternation(q.ProficiencyWords)
	if len(q.StrongVerbs) > 0 {
		s.strongVerbs = regexp.MustCompile(`(?i)\b(?:` + alternation(q.StrongVerbs) + `)\b`)
	}
	s.contextAnywhere = regexp.MustCompile(`(?i)` + s.contextVerbs)
	if len(q.TitleWords) > 0 {
		s.titleWords = regexp.MustCompile(`(?i)` + alternation(q.TitleWords))
	}
	return s, nil
}

func alternation(words []string) string {
	quoted := make([]string, len(words))
	for i, w := range words {
		quoted[i] = regexp.QuoteMeta(strings.ToLower(w))
	}
	return strings.Join(quoted, "|")
}

// Dictionary returns the rule tables the scorer was built with.
func (s *Scorer) Dictionary() *dictionary.Dictionary {
	return s.dict
}

// Score scores one résumé. jobDescription may be empty, in which case the
// role category's keyword list stands in for it. w may be nil.
func (s *Scorer) Score(text, jobDescription string, w *MLWeights) (types.ScoreResult, error) {
	if err := w.Validate(); err != nil {
		return types.ScoreResult{}, err
	}
	if utf8.RuneCountInString(strings.TrimSpace(text)) <= s.curve.MinTextLength {
		s.logger.Debug("text too short to score, returning degenerate result")
		return degenerateResult(), nil
	}

	role := s.ClassifyRole(text)
	category := adjustRole(role, w)
	if category != role.Category {
		s.logger.Debug("category adjusted by learned weights",
			zap.String("from", string(role.Category)),
			zap.String("to", string(category)))
	}
	hasJD := strings.TrimSpace(jobDescription) != ""

	kw := s.ScoreKeywords(text, category, jobDescription, w)
	format := s.ScoreFormat(text, w)
	completeness := s.ScoreCompleteness(text, w)

	issues := make([]types.FormatIssue, 0, len(format.Issues)+len(completeness.Issues))
	issues = append(issues, format.Issues...)
	issues = append(issues, completeness.Issues...)

	raw := kw.Score + format.Score + completeness.Score
	score := s.curve.Apply(raw, utf8.RuneCountInString(text))
	breakdown := types.ScoreBreakdown{
		Keywords:     int(math.Round(kw.Score)),
		Format:       int(math.Round(format.Score)),
		Completeness: int(math.Round(completeness.Score)),
	}
	metrics := s.SuggestMetrics(text, category, kw.Found)

	analysis, err := renderReport(reportInput{
		text:         text,
		category:     category,
		confidence:   role.Confidence,
		score:        score,
		hasJD:        hasJD,
		breakdown:    breakdown,
		keywords:     kw,
		format:       format,
		completeness: completeness,
		issues:       issues,
		metrics:      metrics,
	})
	if err != nil {
		return types.ScoreResult{}, err
	}

	missing := kw.Missing
	if len(missing) > MaxMissingKeywords {
		missing = missing[:MaxMissingKeywords]
	}
	bullets := completeness.Bullets
	soft := completeness.SoftSkills
	result := types.ScoreResult{
		Title:             s.ExtractTitle(text, category),
		Category:          category,
		RoleConfidence:    math.Round(role.Confidence*1000) / 1000,
		Score:             score,
		Grade:             Grade(score),
		RawScore:          math.Round(raw*100) / 100,
		ScoreBreakdown:    breakdown,
		MatchedKeywords:   kw.Matched,
		FoundKeywords:     kw.Found,
		MissingKeywords:   missing,
		FormatIssues:      issues,
		MetricSuggestions: metrics,
		BulletAnalysis:    &bullets,
		SoftSkills:        &soft,
		Analysis:          analysis,
	}
	if hasJD {
		sem := s.semantic.CalculateSemanticSimilarity(text, jobDescription)
		result.Semantic = &sem
	}

	s.logger.Debug("scored resume",
		zap.String(logger.FieldCategory, string(category)),
		zap.Float64("raw", raw),
		zap.Int("score", score),
		zap.Bool("job_description", hasJD))
	return result, nil
}

// ScoreBatch scores many résumés against one job description on a bounded
// number of goroutines. Results keep the input order. The first error or a
// cancelled ctx stops the batch.
func (s *Scorer) ScoreBatch(ctx context.Context, resumes []string, jobDescription string, w *MLWeights) ([]types.ScoreResult, error) {
	if err := w.Validate(); err != nil {
		return nil, err
	}
	results := make([]types.ScoreResult, len(resumes))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for i, text := range resumes {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			r, err := s.Score(text, jobDescription, w)
			if err != nil {
				return fmt.Errorf("failed to score resume %d: %w", i, err)
			}
			results[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	s.logger.Info("scored batch", zap.Int("resumes", len(resumes)), zap.Int("workers", s.workers))
	return results, nil
}
