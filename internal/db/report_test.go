package db

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/ats-engine/internal/abtest"
	"github.com/jonathan/ats-engine/internal/types"
)

func seedOutcomes(t *testing.T, s Store, owner uuid.UUID, versionID string, n, interviews int) {
	t.Helper()
	for i := range n {
		outcome := types.OutcomeRejected
		if i < interviews {
			outcome = types.OutcomeInterview
		}
		_, err := s.RecordOutcome(context.Background(), owner, versionID, OutcomeInput{
			Outcome:   outcome,
			AppliedAt: suiteNow.Add(-time.Duration(i+1) * time.Hour),
		})
		require.NoError(t, err)
	}
}

func TestReport(t *testing.T) {
	ctx := context.Background()
	s := openTestSQLite(t)
	owner := uuid.New()

	a, err := s.CreateVersion(ctx, owner, VersionInput{Name: "Metrics", Text: metricsText, Changes: []string{"Added metrics"}})
	require.NoError(t, err)
	b, err := s.CreateVersion(ctx, owner, VersionInput{Name: "Baseline", Text: baselineText})
	require.NoError(t, err)
	seedOutcomes(t, s, owner, a.ID, 20, 8)
	seedOutcomes(t, s, owner, b.ID, 20, 2)

	analyzer := abtest.NewAnalyzer(abtest.WithClock(fixedClock))
	res, err := Report(ctx, s, analyzer, owner)
	require.NoError(t, err)

	assert.Equal(t, types.StatusWinnerFound, res.Status)
	require.NotNil(t, res.Winner)
	assert.Equal(t, a.ID, res.Winner.VersionID)
	assert.InDelta(t, 300, res.Winner.ImprovementOverBaseline, 1e-9)
	assert.Equal(t, 40, res.StatisticalSignificance.SampleSize)
	assert.Equal(t, 1, res.TestDuration)
	assert.Contains(t, res.Recommendations, "Key changes that worked: Added metrics")
}

func TestReport_SelectedVersions(t *testing.T) {
	ctx := context.Background()
	s := openTestSQLite(t)
	owner := uuid.New()

	a, err := s.CreateVersion(ctx, owner, VersionInput{Name: "A", Text: metricsText})
	require.NoError(t, err)
	b, err := s.CreateVersion(ctx, owner, VersionInput{Name: "B", Text: baselineText})
	require.NoError(t, err)
	seedOutcomes(t, s, owner, a.ID, 3, 1)
	seedOutcomes(t, s, owner, b.ID, 4, 0)

	res, err := Report(ctx, s, abtest.NewAnalyzer(abtest.WithClock(fixedClock)), owner, b.ID)
	require.NoError(t, err)
	require.Len(t, res.Versions, 1)
	assert.Equal(t, "B", res.Versions[0].Name)
	assert.Equal(t, 4, res.StatisticalSignificance.SampleSize)
	assert.Equal(t, types.StatusInsufficientData, res.Status)

	_, err = Report(ctx, s, abtest.NewAnalyzer(), owner, uuid.NewString())
	var nf *NotFoundError
	assert.True(t, errors.As(err, &nf))
}

func TestReport_NoVersions(t *testing.T) {
	_, err := Report(context.Background(), openTestSQLite(t), abtest.NewAnalyzer(), uuid.New())
	var verr *abtest.ValidationError
	assert.True(t, errors.As(err, &verr))
}
