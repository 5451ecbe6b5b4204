package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/jonathan/ats-engine/internal/logger"
	"github.com/jonathan/ats-engine/internal/types"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS resume_versions (
	id          TEXT PRIMARY KEY,
	owner_id    TEXT NOT NULL,
	name        TEXT NOT NULL,
	text        TEXT NOT NULL DEFAULT '',
	fingerprint TEXT NOT NULL,
	changes     TEXT NOT NULL DEFAULT '[]',
	ats_score   INTEGER NOT NULL DEFAULT 0,
	created_at  TEXT NOT NULL,
	UNIQUE (owner_id, fingerprint)
);
CREATE TABLE IF NOT EXISTS application_outcomes (
	id                INTEGER PRIMARY KEY AUTOINCREMENT,
	resume_version_id TEXT NOT NULL REFERENCES resume_versions(id) ON DELETE CASCADE,
	combination_id    TEXT NOT NULL DEFAULT '',
	outcome           TEXT NOT NULL,
	days_to_response  REAL NOT NULL DEFAULT 0,
	job_title         TEXT NOT NULL DEFAULT '',
	company           TEXT NOT NULL DEFAULT '',
	applied_at        TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_outcomes_version ON application_outcomes(resume_version_id);
`

// SQLiteStore is the local file-backed Store.
type SQLiteStore struct {
	db *sql.DB
	options
}

// OpenSQLite opens (or creates) the database file at path.
func OpenSQLite(ctx context.Context, path string, opts ...Option) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	db.SetMaxOpenConns(1) // single writer

	if _, err := db.ExecContext(ctx, `PRAGMA foreign_keys = ON`); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}
	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to init sqlite schema: %w", err)
	}

	s := &SQLiteStore{db: db, options: newOptions(opts)}
	s.logger.Debug("opened sqlite store", zap.String("path", path))
	return s, nil
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// timeLayout is fixed width so that stored timestamps sort chronologically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse timestamp %q: %w", s, err)
	}
	return t, nil
}

// CreateVersion stores a new version. Identical text for the same owner is a
// ConflictError.
func (s *SQLiteStore) CreateVersion(ctx context.Context, owner uuid.UUID, input VersionInput) (*types.ResumeVersion, error) {
	v, err := s.newVersion(owner, input)
	if err != nil {
		return nil, err
	}

	var existing string
	err = s.db.QueryRowContext(ctx,
		`SELECT id FROM resume_versions WHERE owner_id = ? AND fingerprint = ?`,
		owner.String(), v.Fingerprint,
	).Scan(&existing)
	switch {
	case err == nil:
		return nil, &ConflictError{Fingerprint: v.Fingerprint, ExistingID: existing}
	case !errors.Is(err, sql.ErrNoRows):
		return nil, fmt.Errorf("failed to check fingerprint: %w", err)
	}

	changes, err := json.Marshal(v.Changes)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal changes: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO resume_versions (id, owner_id, name, text, fingerprint, changes, ats_score, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		v.ID, owner.String(), v.Name, v.Text, v.Fingerprint, string(changes), v.ATSScore, formatTime(v.CreatedAt),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resume version: %w", err)
	}

	s.logger.Info("created resume version",
		zap.String(logger.FieldVersionID, v.ID),
		zap.String("name", v.Name))
	return &v, nil
}

const sqliteVersionColumns = `id, owner_id, name, text, fingerprint, changes, ats_score, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSQLiteVersion(row rowScanner) (types.ResumeVersion, error) {
	var v types.ResumeVersion
	var owner, changes, created string
	if err := row.Scan(&v.ID, &owner, &v.Name, &v.Text, &v.Fingerprint, &changes, &v.ATSScore, &created); err != nil {
		return v, err
	}
	var err error
	if v.OwnerID, err = uuid.Parse(owner); err != nil {
		return v, fmt.Errorf("failed to parse owner id: %w", err)
	}
	if err := json.Unmarshal([]byte(changes), &v.Changes); err != nil {
		return v, fmt.Errorf("failed to unmarshal changes: %w", err)
	}
	if v.CreatedAt, err = parseTime(created); err != nil {
		return v, err
	}
	return v, nil
}

// GetVersion returns the owner's version with id.
func (s *SQLiteStore) GetVersion(ctx context.Context, owner uuid.UUID, id string) (*types.ResumeVersion, error) {
	v, err := scanSQLiteVersion(s.db.QueryRowContext(ctx,
		`SELECT `+sqliteVersionColumns+` FROM resume_versions WHERE id = ? AND owner_id = ?`,
		id, owner.String(),
	))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &NotFoundError{Resource: "resume version", ID: id}
		}
		return nil, fmt.Errorf("failed to get resume version: %w", err)
	}
	return &v, nil
}

// ListVersions returns the owner's versions in creation order.
func (s *SQLiteStore) ListVersions(ctx context.Context, owner uuid.UUID) ([]types.ResumeVersion, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+sqliteVersionColumns+` FROM resume_versions WHERE owner_id = ? ORDER BY rowid`,
		owner.String(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list resume versions: %w", err)
	}
	defer rows.Close()

	versions := []types.ResumeVersion{}
	for rows.Next() {
		v, err := scanSQLiteVersion(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan resume version: %w", err)
		}
		versions = append(versions, v)
	}
	return versions, rows.Err()
}

// RecordOutcome appends an outcome to one of the owner's versions.
func (s *SQLiteStore) RecordOutcome(ctx context.Context, owner uuid.UUID, versionID string, input OutcomeInput) (*types.ApplicationOutcome, error) {
	o, err := s.newOutcome(versionID, input)
	if err != nil {
		return nil, err
	}
	if _, err := s.GetVersion(ctx, owner, versionID); err != nil {
		return nil, err
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO application_outcomes
		   (resume_version_id, combination_id, outcome, days_to_response, job_title, company, applied_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		o.ResumeVersionID, o.CombinationID, string(o.Outcome), o.DaysToResponse, o.JobTitle, o.Company, formatTime(o.AppliedAt),
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
func (s *SQLiteStore) ListOutcomes(ctx context.Context, owner uuid.UUID) ([]types.ApplicationOutcome, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT o.resume_version_id, o.combination_id, o.outcome, o.days_to_response, o.job_title, o.company, o.applied_at
		 FROM application_outcomes o
		 JOIN resume_versions v ON v.id = o.resume_version_id
		 WHERE v.owner_id = ?
		 ORDER BY o.applied_at, o.id`,
		owner.String(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list outcomes: %w", err)
	}
	defer rows.Close()

	outcomes := []types.ApplicationOutcome{}
	for rows.Next() {
		var o types.ApplicationOutcome
		var outcome, applied string
		if err := rows.Scan(&o.ResumeVersionID, &o.CombinationID, &outcome, &o.DaysToResponse, &o.JobTitle, &o.Company, &applied); err != nil {
			return nil, fmt.Errorf("failed to scan outcome: %w", err)
		}
		o.Outcome = types.Outcome(outcome)
		if o.AppliedAt, err = parseTime(applied); err != nil {
			return nil, err
		}
		outcomes = append(outcomes, o)
	}
	return outcomes, rows.Err()
}
