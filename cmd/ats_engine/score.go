package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/ats-engine/internal/config"
	"github.com/jonathan/ats-engine/internal/observability"
	"github.com/jonathan/ats-engine/internal/schemas"
)

func newScoreCmd(a *app) *cobra.Command {
	var (
		resumes     []string
		jobPath     string
		weightsPath string
	)
	cmd := &cobra.Command{
		Use:   "score",
		Short: "Score one or more résumés against a job description",
		Long: `Compute the composite ATS score (keywords 40%, format 30%, completeness 30%)
of each résumé. Without --job the résumé is scored against its role category
alone. Repeating --resume scores a batch concurrently, keeping input order.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := a.engine()
			if err != nil {
				return err
			}
			weights := e.weights
			if weightsPath != "" {
				if weights, err = config.LoadMLWeightsFile(weightsPath); err != nil {
					return err
				}
			}
			jd, err := a.optionalText(jobPath)
			if err != nil {
				return err
			}

			texts := make([]string, len(resumes))
			for i, p := range resumes {
				if texts[i], err = a.readText(p); err != nil {
					return err
				}
			}

			if len(texts) == 1 {
				res, err := e.scorer.Score(texts[0], jd, weights)
				if err != nil {
					return err
				}
				return a.emit(res, schemas.Score, func(p *observability.Printer) { p.PrintScore(&res) })
			}

			results, err := e.scorer.ScoreBatch(cmd.Context(), texts, jd, weights)
			if err != nil {
				return err
			}
			for i, res := range results {
				if err := schemas.ValidateDocument(schemas.Score, res); err != nil {
					a.log.Warn("output does not match schema", zap.Int("index", i), zap.Error(err))
				}
			}
			return a.emit(results, "", func(p *observability.Printer) {
				for i := range results {
					p.PrintScore(&results[i])
				}
			})
		},
	}
	cmd.Flags().StringSliceVarP(&resumes, "resume", "r", nil, "résumé file (repeatable; - for stdin)")
	cmd.Flags().StringVar(&jobPath, "job", "", "job description file")
	cmd.Flags().StringVar(&weightsPath, "weights", "", "ML weights file overriding scoring.weights-file")
	_ = cmd.MarkFlagRequired("resume")
	return cmd
}

func (a *app) optionalText(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	return a.readText(path)
}

type pairFlags struct {
	resume string
	job    string
}

func (f *pairFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.resume, "resume", "r", "", "résumé file (- for stdin)")
	cmd.Flags().StringVar(&f.job, "job", "", "job description file")
	_ = cmd.MarkFlagRequired("resume")
	_ = cmd.MarkFlagRequired("job")
}

func (f *pairFlags) read(a *app) (resume, job string, err error) {
	if f.resume == "-" && f.job == "-" {
		return "", "", errors.New("only one of --resume and --job can read stdin")
	}
	if resume, err = a.readText(f.resume); err != nil {
		return "", "", err
	}
	if job, err = a.readText(f.job); err != nil {
		return "", "", err
	}
	return resume, job, nil
}

func newGapsCmd(a *app) *cobra.Command {
	var f pairFlags
	cmd := &cobra.Command{
		Use:   "gaps",
		Short: "Find job-description entities missing from a résumé",
		RunE: func(_ *cobra.Command, _ []string) error {
			e, err := a.engine()
			if err != nil {
				return err
			}
			resume, job, err := f.read(a)
			if err != nil {
				return err
			}
			gap := e.gaps.AnalyzeGaps(resume, e.extractor.ExtractJobEntities(job))
			return a.emit(gap, schemas.GapAnalysis, func(p *observability.Printer) { p.PrintGapAnalysis(&gap) })
		},
	}
	f.register(cmd)
	return cmd
}

func newExtractCmd(a *app) *cobra.Command {
	var jobPath string
	cmd := &cobra.Command{
		Use:   "extract",
		Short: "Extract skills, tools and requirements from a job description",
		RunE: func(_ *cobra.Command, _ []string) error {
			e, err := a.engine()
			if err != nil {
				return err
			}
			job, err := a.readText(jobPath)
			if err != nil {
				return err
			}
			entities := e.extractor.ExtractJobEntities(job)
			return a.emit(entities, "", func(p *observability.Printer) { p.PrintEntities(&entities) })
		},
	}
	cmd.Flags().StringVar(&jobPath, "job", "", "job description file (- for stdin)")
	_ = cmd.MarkFlagRequired("job")
	return cmd
}

func newSimilarityCmd(a *app) *cobra.Command {
	var f pairFlags
	cmd := &cobra.Command{
		Use:   "similarity",
		Short: "Measure TF-IDF and skill-overlap relevance of a résumé",
		RunE: func(_ *cobra.Command, _ []string) error {
			e, err := a.engine()
			if err != nil {
				return err
			}
			resume, job, err := f.read(a)
			if err != nil {
				return err
			}
			rel := e.semantic.CalculateContextualRelevance(resume, job,
				e.extractor.SkillNames(resume), e.extractor.SkillNames(job))
			return a.emit(rel, "", func(p *observability.Printer) { p.PrintRelevance(&rel) })
		},
	}
	f.register(cmd)
	return cmd
}

// scoreText scores text for version tracking. Empty text scores 0.
func scoreText(e *engine, text, job string) (int, error) {
	res, err := e.scorer.Score(text, job, e.weights)
	if err != nil {
		return 0, fmt.Errorf("failed to score version: %w", err)
	}
	return res.Score, nil
}
