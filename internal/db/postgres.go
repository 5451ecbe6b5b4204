package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/jonathan/ats-engine/internal/logger"
	"github.com/jonathan/ats-engine/internal/types"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS resume_versions (
	id          UUID PRIMARY KEY,
	seq         BIGSERIAL,
	owner_id    UUID NOT NULL,
	name        TEXT NOT NULL,
	text        TEXT NOT NULL DEFAULT '',
	fingerprint TEXT NOT NULL,
	changes     TEXT[] NOT NULL DEFAULT '{}',
	ats_score   INTEGER NOT NULL DEFAULT 0,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	UNIQUE (owner_id, fingerprint)
);
CREATE TABLE IF NOT EXISTS application_outcomes (
	id                BIGSERIAL PRIMARY KEY,
	resume_version_id UUID NOT NULL REFERENCES resume_versions(id) ON DELETE CASCADE,
	combination_id    TEXT NOT NULL DEFAULT '',
	outcome           TEXT NOT NULL CHECK (outcome IN ('interview', 'rejected', 'no_response', 'offer')),
	days_to_response  DOUBLE PRECISION NOT NULL DEFAULT 0,
	job_title         TEXT NOT NULL DEFAULT '',
	company           TEXT NOT NULL DEFAULT '',
	applied_at        TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_outcomes_version ON application_outcomes(resume_version_id);
`

const uniqueViolation = "23505"

// PostgresStore is the Store backed by a PostgreSQL connection pool.
type PostgresStore struct {
	pool *pgxpool.Pool
	options
}

// OpenPostgres establishes a connection pool and creates missing tables.
func OpenPostgres(ctx context.Context, databaseURL string, opts ...Option) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	if _, err := pool.Exec(ctx, postgresSchema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to init postgres schema: %w", err)
	}

	return &PostgresStore{pool: pool, options: newOptions(opts)}, nil
}

// Close closes the connection pool
func (s *PostgresStore) Close() error {
	if s.pool != nil {
		s.pool.Close()
	}
	return nil
}

// CreateVersion stores a new version. Identical text for the same owner is a
// ConflictError.
func (s *PostgresStore) CreateVersion(ctx context.Context, owner uuid.UUID, input VersionInput) (*types.ResumeVersion, error) {
	v, err := s.newVersion(owner, input)
	if err != nil {
		return nil, err
	}

	var existing uuid.UUID
	err = s.pool.QueryRow(ctx,
		`SELECT id FROM resume_versions WHERE owner_id = $1 AND fingerprint = $2`,
		owner, v.Fingerprint,
	).Scan(&existing)
	switch {
	case err == nil:
		return nil, &ConflictError{Fingerprint: v.Fingerprint, ExistingID: existing.String()}
	case !errors.Is(err, pgx.ErrNoRows):
		return nil, fmt.Errorf("failed to check fingerprint: %w", err)
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO resume_versions (id, owner_id, name, text, fingerprint, changes, ats_score, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		uuid.MustParse(v.ID), owner, v.Name, v.Text, v.Fingerprint, v.Changes, v.ATSScore, v.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, &ConflictError{Fingerprint: v.Fingerprint}
		}
		return nil, fmt.Errorf("failed to create resume version: %w", err)
	}

	s.logger.Info("created resume version",
		zap.String(logger.FieldVersionID, v.ID),
		zap.String("name", v.Name))
	return &v, nil
}

const postgresVersionColumns = `id, owner_id, name, text, fingerprint, changes, ats_score, created_at`

func scanPostgresVersion(row pgx.Row) (types.ResumeVersion, error) {
	var v types.ResumeVersion
	var id uuid.UUID
	err := row.Scan(&id, &v.OwnerID, &v.Name, &v.Text, &v.Fingerprint, &v.Changes, &v.ATSScore, &v.CreatedAt)
	v.ID = id.String()
	v.CreatedAt = v.CreatedAt.UTC()
	if v.Changes == nil {
		v.Changes = []string{}
	}
	return v, err
}

// GetVersion returns the owner's version with id.
func (s *PostgresStore) GetVersion(ctx context.Context, owner uuid.UUID, id string) (*types.ResumeVersion, error) {
	vid, err := uuid.Parse(id)
	if err != nil {
		return nil, &NotFoundError{Resource: "resume version", ID: id}
	}
	v, err := scanPostgresVersion(s.pool.QueryRow(ctx,
		`SELECT `+postgresVersionColumns+` FROM resume_versions WHERE id = $1 AND owner_id = $2`,
		vid, owner,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &NotFoundError{Resource: "resume version", ID: id}
		}
		return nil, fmt.Errorf("failed to get resume version: %w", err)
	}
	return &v, nil
}

// ListVersions returns the owner's versions in creation order.
func (s *PostgresStore) ListVersions(ctx context.Context, owner uuid.UUID) ([]types.ResumeVersion, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+postgresVersionColumns+` FROM resume_versions WHERE owner_id = $1 ORDER BY seq`,
		owner,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list resume versions: %w", err)
	}
	defer rows.Close()

	versions := []types.ResumeVersion{}
	for rows.Next() {
		v, err := scanPostgresVersion(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan resume version: %w", err)
		}
		versions = append(versions, v)
	}
	return versions, rows.Err()
}

// RecordOutcome appends an outcome to one of the owner's versions.
func (s *PostgresStore) RecordOutcome(ctx context.Context, owner uuid.UUID, versionID string, input OutcomeInput) (*types.ApplicationOutcome, error) {
	o, err := s.newOutcome(versionID, input)
	if err != nil {
		return nil, err
	}
	v, err := s.GetVersion(ctx, owner, versionID)
	if err != nil {
		return nil, err
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO application_outcomes
		   (resume_version_id, combination_id, outcome, days_to_response, job_title, company, applied_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		uuid.MustParse(v.ID), o.CombinationID, string(o.Outcome), o.DaysToResponse, o.JobTitle, o.Company, o.AppliedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to record outcome: %w", err)
	}

	s.logger.Debug("recorded outcome",
		zap.String(logger.FieldVersionID, versionID),
		zap.String("outcome", string(o.Outcome)))
	return &o, nil
}

// ListOutcomes returns every outcome of the owner's versions ordered by
// application time.
func (s *PostgresStore) ListOutcomes(ctx context.Context, owner uuid.UUID) ([]types.ApplicationOutcome, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT o.resume_version_id, o.combination_id, o.outcome, o.days_to_response, o.job_title, o.company, o.applied_at
		 FROM application_outcomes o
		 JOIN resume_versions v ON v.id = o.resume_version_id
		 WHERE v.owner_id = $1
		 ORDER BY o.applied_at, o.id`,
		owner,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list outcomes: %w", err)
	}
	defer rows.Close()

	outcomes := []types.ApplicationOutcome{}
	for rows.Next() {
		var o types.ApplicationOutcome
		var vid uuid.UUID
		var outcome string
		if err := rows.Scan(&vid, &o.CombinationID, &outcome, &o.DaysToResponse, &o.JobTitle, &o.Company, &o.AppliedAt); err != nil {
			return nil, fmt.Errorf("failed to scan outcome: %w", err)
		}
		o.ResumeVersionID = vid.String()
		o.Outcome = types.Outcome(outcome)
		o.AppliedAt = o.AppliedAt.UTC()
		outcomes = append(outcomes, o)
	}
	return outcomes, rows.Err()
}
