package main

import (
	"context"
	"fmt"

	"github.com/jonathan/ats-engine/internal/abtest"
	"github.com/jonathan/ats-engine/internal/config"
	"github.com/jonathan/ats-engine/internal/db"
	"github.com/jonathan/ats-engine/internal/dictionary"
	"github.com/jonathan/ats-engine/internal/extraction"
	"github.com/jonathan/ats-engine/internal/gaps"
	"github.com/jonathan/ats-engine/internal/scoring"
	"github.com/jonathan/ats-engine/internal/server"
	"github.com/jonathan/ats-engine/internal/similarity"
	"github.com/jonathan/ats-engine/internal/textproc"
)

// engine bundles the analyzers built from the loaded configuration.
type engine struct {
	dict      *dictionary.Dictionary
	scorer    *scoring.Scorer
	extractor *extraction.Extractor
	gaps      *gaps.Analyzer
	semantic  *similarity.Semantic
	analyzer  *abtest.Analyzer
	weights   *scoring.MLWeights
}

func (a *app) engine() (*engine, error) {
	dict, err := dictionary.Load(a.cfg.Scoring.Dictionary)
	if err != nil {
		return nil, fmt.Errorf("failed to load dictionary: %w", err)
	}
	weights, err := config.LoadMLWeightsFile(a.cfg.Scoring.WeightsFile)
	if err != nil {
		return nil, err
	}
	scorer, err := scoring.NewScorer(dict,
		scoring.WithCurve(a.cfg.Scoring.Curve),
		scoring.WithSemanticTopN(a.cfg.Scoring.TopN),
		scoring.WithWorkers(a.cfg.Scoring.Workers),
		scoring.WithLogger(a.log),
	)
	if err != nil {
		return nil, err
	}
	tok := textproc.NewTokenizer(dict)

	return &engine{
		dict:      dict,
		scorer:    scorer,
		extractor: extraction.NewExtractor(dict),
		gaps:      gaps.NewAnalyzer(tok),
		semantic:  similarity.NewSemanticTopN(dict, tok, a.cfg.Scoring.TopN),
		analyzer: abtest.NewAnalyzer(
			abtest.WithMinimumDetectableEffect(a.cfg.ABTest.MinimumDetectableEffect),
			abtest.WithLogger(a.log),
		),
		weights: weights,
	}, nil
}

func (a *app) openStore(ctx context.Context) (db.Store, error) {
	return db.Open(ctx, a.cfg.Database.Driver, a.cfg.Database.DSN, db.WithLogger(a.log))
}

func (e *engine) serverDeps(store db.Store, a *app) server.Deps {
	return server.Deps{
		Scorer:    e.scorer,
		Extractor: e.extractor,
		Gaps:      e.gaps,
		Semantic:  e.semantic,
		Analyzer:  e.analyzer,
		Store:     store,
		Weights:   e.weights,
		Logger:    a.log,
	}
}
