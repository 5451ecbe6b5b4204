package db

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/ats-engine/internal/types"
)

var suiteNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return suiteNow }

const (
	baselineText = "Senior Software Engineer\nBuilt Go services on Kubernetes."
	metricsText  = "Senior Software Engineer\nCut p99 latency 40% across 12 Go services on Kubernetes."
)

// runStoreSuite exercises the Store contract against any implementation.
// Stores must be built with WithClock(fixedClock).
func runStoreSuite(t *testing.T, s Store) {
	ctx := context.Background()
	owner, other := uuid.New(), uuid.New()

	a, err := s.CreateVersion(ctx, owner, VersionInput{Name: " Baseline ", Text: baselineText, ATSScore: 72})
	require.NoError(t, err)
	assert.Equal(t, "Baseline", a.Name)
	assert.Equal(t, Fingerprint(baselineText), a.Fingerprint)
	assert.Equal(t, []string{}, a.Changes)
	assert.True(t, a.CreatedAt.Equal(suiteNow))

	b, err := s.CreateVersion(ctx, owner, VersionInput{
		Name:     "Metrics",
		Text:     metricsText,
		Changes:  []string{"Added metrics", "Reordered skills"},
		ATSScore: 81,
	})
	require.NoError(t, err)

	t.Run("duplicate text conflicts", func(t *testing.T) {
		_, err := s.CreateVersion(ctx, owner, VersionInput{Name: "Copy", Text: "SENIOR software engineer!\nbuilt go services on kubernetes"})
		var cerr *ConflictError
		require.True(t, errors.As(err, &cerr))
		assert.Equal(t, a.ID, cerr.ExistingID)

		_, err = s.CreateVersion(ctx, other, VersionInput{Name: "Theirs", Text: baselineText})
		assert.NoError(t, err, "fingerprints are unique per owner")
	})

	t.Run("invalid version input", func(t *testing.T) {
		_, err := s.CreateVersion(ctx, owner, VersionInput{Name: "  ", Text: "x"})
		var verr *ValidationError
		require.True(t, errors.As(err, &verr))
		assert.Equal(t, "Name", verr.Field)

		_, err = s.CreateVersion(ctx, owner, VersionInput{Name: "Over", Text: "y", ATSScore: 101})
		require.True(t, errors.As(err, &verr))
	})

	t.Run("get and list", func(t *testing.T) {
		got, err := s.GetVersion(ctx, owner, b.ID)
		require.NoError(t, err)
		assert.Equal(t, "Metrics", got.Name)
		assert.Equal(t, metricsText, got.Text)
		assert.Equal(t, []string{"Added metrics", "Reordered skills"}, got.Changes)
		assert.Equal(t, 81, got.ATSScore)
		assert.Equal(t, owner, got.OwnerID)

		var nf *NotFoundError
		_, err = s.GetVersion(ctx, other, b.ID)
		assert.True(t, errors.As(err, &nf), "other owners cannot read the version")
		_, err = s.GetVersion(ctx, owner, uuid.NewString())
		assert.True(t, errors.As(err, &nf))

		list, err := s.ListVersions(ctx, owner)
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, a.ID, list[0].ID)
		assert.Equal(t, b.ID, list[1].ID)

		empty, err := s.ListVersions(ctx, uuid.New())
		require.NoError(t, err)
		assert.Empty(t, empty)
	})

	t.Run("outcomes", func(t *testing.T) {
		day := 24 * time.Hour
		_, err := s.RecordOutcome(ctx, owner, b.ID, OutcomeInput{Outcome: types.OutcomeOffer, DaysToResponse: 4, Company: "Acme", AppliedAt: suiteNow.Add(-day)})
		require.NoError(t, err)
		_, err = s.RecordOutcome(ctx, owner, a.ID, OutcomeInput{Outcome: types.OutcomeRejected, AppliedAt: suiteNow.Add(-3 * day)})
		require.NoError(t, err)
		rec, err := s.RecordOutcome(ctx, owner, a.ID, OutcomeInput{Outcome: types.OutcomeNoResponse})
		require.NoError(t, err)
		assert.True(t, rec.AppliedAt.Equal(suiteNow), "zero appliedAt uses the store clock")

		var verr *ValidationError
		_, err = s.RecordOutcome(ctx, owner, a.ID, OutcomeInput{Outcome: "ghosted"})
		assert.True(t, errors.As(err, &verr))
		_, err = s.RecordOutcome(ctx, owner, a.ID, OutcomeInput{Outcome: types.OutcomeInterview, DaysToResponse: -1})
		assert.True(t, errors.As(err, &verr))

		var nf *NotFoundError
		_, err = s.RecordOutcome(ctx, other, a.ID, OutcomeInput{Outcome: types.OutcomeInterview})
		assert.True(t, errors.As(err, &nf))

		outcomes, err := s.ListOutcomes(ctx, owner)
		require.NoError(t, err)
		require.Len(t, outcomes, 3)
		assert.Equal(t, types.OutcomeRejected, outcomes[0].Outcome)
		assert.Equal(t, types.OutcomeOffer, outcomes[1].Outcome)
		assert.Equal(t, b.ID, outcomes[1].ResumeVersionID)
		assert.Equal(t, "Acme", outcomes[1].Company)
		assert.InDelta(t, 4, outcomes[1].DaysToResponse, 1e-9)
		assert.Equal(t, types.OutcomeNoResponse, outcomes[2].Outcome)

		none, err := s.ListOutcomes(ctx, other)
		require.NoError(t, err)
		assert.Empty(t, none)
	})
}
