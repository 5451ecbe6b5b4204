package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jonathan/ats-engine/internal/db"
	"github.com/jonathan/ats-engine/internal/server"
)

func newServeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		Long: `Serve the scoring, gap analysis, A/B testing and version endpoints.
Version endpoints require a bearer token when server.jwt-secret is set.
The server stops gracefully on SIGINT or SIGTERM.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			e, err := a.engine()
			if err != nil {
				return err
			}
			return a.withStore(ctx, func(store db.Store) error {
				srv, err := server.New(a.cfg, e.serverDeps(store, a))
				if err != nil {
					return err
				}
				return srv.Start(ctx)
			})
		},
	}
	cmd.Flags().Int("port", 0, "listen port (overrides server.port)")
	_ = a.v.BindPFlag("server.port", cmd.Flags().Lookup("port"))
	return cmd
}

func newTokenCmd(a *app) *cobra.Command {
	var owner string
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a bearer token for the version endpoints",
		Long: `Sign a JWT for the given owner with server.jwt-secret. A new random owner
is generated when --owner is not given.`,
		RunE: func(_ *cobra.Command, _ []string) error {
			jc, err := a.cfg.JWT()
			if err != nil {
				return err
			}
			if jc == nil {
				return errors.New("authentication is disabled: set server.jwt-secret (ATS_SERVER_JWT_SECRET)")
			}
			id := uuid.New()
			if owner != "" {
				if id, err = uuid.Parse(owner); err != nil {
					return fmt.Errorf("invalid --owner: %w", err)
				}
			}
			token, err := server.NewJWTService(jc).GenerateToken(id)
			if err != nil {
				return err
			}
			if a.output == outputJSON {
				return a.emit(map[string]string{"ownerId": id.String(), "token": token}, "", nil)
			}
			_, err = fmt.Fprintln(a.out, token)
			return err
		},
	}
	cmd.Flags().StringVar(&owner, "owner", "", "owner UUID (random when empty)")
	return cmd
}
