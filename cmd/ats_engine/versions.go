package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/ats-engine/internal/db"
	"github.com/jonathan/ats-engine/internal/observability"
	"github.com/jonathan/ats-engine/internal/schemas"
	"github.com/jonathan/ats-engine/internal/types"
)

type versionsFlags struct {
	owner string
}

func (f *versionsFlags) ownerID() (uuid.UUID, error) {
	if f.owner == "" {
		return uuid.Nil, nil
	}
	id, err := uuid.Parse(f.owner)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid --owner: %w", err)
	}
	return id, nil
}

func newVersionsCmd(a *app) *cobra.Command {
	f := &versionsFlags{}
	cmd := &cobra.Command{
		Use:   "versions",
		Short: "Track résumé versions and their application outcomes",
		Long: `Versions are kept in the configured database (database.driver and
database.dsn). Without --owner the local single-user owner is used.`,
	}
	cmd.PersistentFlags().StringVar(&f.owner, "owner", "", "owner UUID")
	cmd.AddCommand(
		newVersionsAddCmd(a, f),
		newVersionsOutcomeCmd(a, f),
		newVersionsListCmd(a, f),
		newVersionsReportCmd(a, f),
	)
	return cmd
}

// withStore opens the store for one command and closes it afterwards.
func (a *app) withStore(ctx context.Context, fn func(db.Store) error) error {
	store, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := store.Close(); cerr != nil {
			a.log.Warn("failed to close store", zap.Error(cerr))
		}
	}()
	return fn(store)
}

func newVersionsAddCmd(a *app, f *versionsFlags) *cobra.Command {
	var (
		input      db.VersionInput
		resumePath string
		jobPath    string
	)
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Store a résumé version",
		Long: `Store a résumé version. When --score is not given and the résumé has text,
the version is scored against --job (or its role category alone).`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			owner, err := f.ownerID()
			if err != nil {
				return err
			}
			if input.Text, err = a.optionalText(resumePath); err != nil {
				return err
			}
			if input.ATSScore == 0 && strings.TrimSpace(input.Text) != "" {
				job, err := a.optionalText(jobPath)
				if err != nil {
					return err
				}
				e, err := a.engine()
				if err != nil {
					return err
				}
				if input.ATSScore, err = scoreText(e, input.Text, job); err != nil {
					return err
				}
			}

			return a.withStore(cmd.Context(), func(s db.Store) error {
				v, err := s.CreateVersion(cmd.Context(), owner, input)
				if err != nil {
					return err
				}
				return a.emit(v, "", func(p *observability.Printer) {
					p.PrintVersions([]types.ResumeVersion{*v})
				})
			})
		},
	}
	cmd.Flags().StringVar(&input.Name, "name", "", "version name")
	cmd.Flags().StringVarP(&resumePath, "resume", "r", "", "résumé file (- for stdin)")
	cmd.Flags().StringArrayVar(&input.Changes, "change", nil, "change made in this version (repeatable)")
	cmd.Flags().IntVar(&input.ATSScore, "score", 0, "ATS score to record instead of computing one")
	cmd.Flags().StringVar(&jobPath, "job", "", "job description used for automatic scoring")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newVersionsOutcomeCmd(a *app, f *versionsFlags) *cobra.Command {
	var (
		outcome   string
		appliedAt string
		input     db.OutcomeInput
	)
	cmd := &cobra.Command{
		Use:   "outcome VERSION_ID",
		Short: "Record the result of an application sent with a version",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			owner, err := f.ownerID()
			if err != nil {
				return err
			}
			input.Outcome = types.Outcome(outcome)
			if appliedAt != "" {
				if input.AppliedAt, err = time.Parse(time.DateOnly, appliedAt); err != nil {
					if input.AppliedAt, err = time.Parse(time.RFC3339, appliedAt); err != nil {
						return fmt.Errorf("invalid --applied-at %q: want YYYY-MM-DD or RFC 3339", appliedAt)
					}
				}
			}

			return a.withStore(cmd.Context(), func(s db.Store) error {
				o, err := s.RecordOutcome(cmd.Context(), owner, args[0], input)
				if err != nil {
					return err
				}
				return a.emit(o, "", func(p *observability.Printer) { p.PrintOutcome(o) })
			})
		},
	}
	cmd.Flags().StringVar(&outcome, "outcome", "", "interview, rejected, no_response or offer")
	cmd.Flags().StringVar(&input.Company, "company", "", "company applied to")
	cmd.Flags().StringVar(&input.JobTitle, "title", "", "job title applied for")
	cmd.Flags().Float64Var(&input.DaysToResponse, "days", 0, "days until the response")
	cmd.Flags().StringVar(&input.CombinationID, "combination", "", "multivariate combination id")
	cmd.Flags().StringVar(&appliedAt, "applied-at", "", "application date (YYYY-MM-DD or RFC 3339)")
	_ = cmd.MarkFlagRequired("outcome")
	return cmd
}

func newVersionsListCmd(a *app, f *versionsFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored versions, oldest first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			owner, err := f.ownerID()
			if err != nil {
				return err
			}
			return a.withStore(cmd.Context(), func(s db.Store) error {
				versions, err := s.ListVersions(cmd.Context(), owner)
				if err != nil {
					return err
				}
				if versions == nil {
					versions = []types.ResumeVersion{}
				}
				return a.emit(versions, "", func(p *observability.Printer) { p.PrintVersions(versions) })
			})
		},
	}
}

func newVersionsReportCmd(a *app, f *versionsFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "report [VERSION_ID...]",
		Short: "Run the A/B analysis over stored versions and outcomes",
		RunE: func(cmd *cobra.Command, args []string) error {
			owner, err := f.ownerID()
			if err != nil {
				return err
			}
			e, err := a.engine()
			if err != nil {
				return err
			}
			return a.withStore(cmd.Context(), func(s db.Store) error {
				res, err := db.Report(cmd.Context(), s, e.analyzer, owner, args...)
				if err != nil {
					return err
				}
				return a.emit(res, schemas.ABTestResults, func(p *observability.Printer) { p.PrintABTestResults(&res) })
			})
		},
	}
}
