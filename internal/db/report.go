package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jonathan/ats-engine/internal/abtest"
	"github.com/jonathan/ats-engine/internal/types"
)

// Report runs the A/B analysis over the owner's stored versions. When ids is
// non-empty only those versions take part, in the given order.
func Report(ctx context.Context, s Store, analyzer *abtest.Analyzer, owner uuid.UUID, ids ...string) (types.ABTestResults, error) {
	versions, err := s.ListVersions(ctx, owner)
	if err != nil {
		return types.ABTestResults{}, err
	}
	if len(ids) > 0 {
		byID := make(map[string]types.ResumeVersion, len(versions))
		for _, v := range versions {
			byID[v.ID] = v
		}
		selected := make([]types.ResumeVersion, 0, len(ids))
		for _, id := range ids {
			v, ok := byID[id]
			if !ok {
				return types.ABTestResults{}, &NotFoundError{Resource: "resume version", ID: id}
			}
			selected = append(selected, v)
		}
		versions = selected
	}

	outcomes, err := s.ListOutcomes(ctx, owner)
	if err != nil {
		return types.ABTestResults{}, err
	}

	if len(ids) > 0 {
		keep := make(map[string]struct{}, len(versions))
		for _, v := range versions {
			keep[v.ID] = struct{}{}
		}
		filtered := outcomes[:0]
		for _, o := range outcomes {
			if _, ok := keep[o.ResumeVersionID]; ok {
				filtered = append(filtered, o)
			}
		}
		outcomes = filtered
	}

	res, err := analyzer.Analyze(versions, outcomes)
	if err != nil {
		return types.ABTestResults{}, fmt.Errorf("failed to analyze stored versions: %w", err)
	}
	return res, nil
}
