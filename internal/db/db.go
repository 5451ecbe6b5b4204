// Package db persists résumé versions and their application outcomes in
// PostgreSQL or SQLite.
package db

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/blake2b"

	"github.com/jonathan/ats-engine/internal/logger"
	"github.com/jonathan/ats-engine/internal/textproc"
	"github.com/jonathan/ats-engine/internal/types"
)

// Drivers accepted by Open.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Store is the version and outcome repository. Every call is scoped to an
// owner; uuid.Nil is the local single-user owner.
type Store interface {
	CreateVersion(ctx context.Context, owner uuid.UUID, input VersionInput) (*types.ResumeVersion, error)
	GetVersion(ctx context.Context, owner uuid.UUID, id string) (*types.ResumeVersion, error)
	ListVersions(ctx context.Context, owner uuid.UUID) ([]types.ResumeVersion, error)
	RecordOutcome(ctx context.Context, owner uuid.UUID, versionID string, input OutcomeInput) (*types.ApplicationOutcome, error)
	ListOutcomes(ctx context.Context, owner uuid.UUID) ([]types.ApplicationOutcome, error)
	Close() error
}

type options struct {
	logger *zap.Logger
	now    func() time.Time
}

// Option configures a store.
type Option func(*options)

// WithLogger sets the store logger.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithClock sets the clock used for created and applied timestamps.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

func newOptions(opts []Option) options {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	o.logger = logger.Named(o.logger, "db")
	return o
}

// Open connects to the store selected by driver.
func Open(ctx context.Context, driver, dsn string, opts ...Option) (Store, error) {
	switch driver {
	case DriverSQLite:
		return OpenSQLite(ctx, dsn, opts...)
	case DriverPostgres:
		return OpenPostgres(ctx, dsn, opts...)
	}
	return nil, fmt.Errorf("unsupported database driver %q", driver)
}

// Fingerprint is the hex BLAKE2b-256 of the normalized text, so versions that
// differ only in case, punctuation or spacing share a fingerprint.
func Fingerprint(text string) string {
	sum := blake2b.Sum256([]byte(textproc.Normalize(text)))
	return hex.EncodeToString(sum[:])
}

var validate = validator.New()

func validationError(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return &ValidationError{Field: fe.Field(), Message: fmt.Sprintf("failed %q constraint", fe.Tag())}
	}
	return &ValidationError{Field: "input", Message: err.Error()}
}

// newVersion validates input and builds the record to insert.
func (o options) newVersion(owner uuid.UUID, input VersionInput) (types.ResumeVersion, error) {
	input.Name = strings.TrimSpace(input.Name)
	if err := validate.Struct(input); err != nil {
		return types.ResumeVersion{}, validationError(err)
	}
	changes := input.Changes
	if changes == nil {
		changes = []string{}
	}
	return types.ResumeVersion{
		ID:          uuid.NewString(),
		OwnerID:     owner,
		Name:        input.Name,
		Text:        input.Text,
		Fingerprint: Fingerprint(input.Text),
		Changes:     changes,
		ATSScore:    input.ATSScore,
		CreatedAt:   o.now().UTC(),
	}, nil
}

// newOutcome validates input and builds the record to insert.
func (o options) newOutcome(versionID string, input OutcomeInput) (types.ApplicationOutcome, error) {
	if err := validate.Struct(input); err != nil {
		return types.ApplicationOutcome{}, validationError(err)
	}
	outcome, err := types.ParseOutcome(string(input.Outcome))
	if err != nil {
		return types.ApplicationOutcome{}, &ValidationError{Field: "outcome", Message: err.Error()}
	}
	applied := input.AppliedAt
	if applied.IsZero() {
		applied = o.now()
	}
	return types.ApplicationOutcome{
		ResumeVersionID: versionID,
		CombinationID:   input.CombinationID,
		Outcome:         outcome,
		DaysToResponse:  input.DaysToResponse,
		JobTitle:        input.JobTitle,
		Company:         input.Company,
		AppliedAt:       applied.UTC(),
	}, nil
}
