package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/nikbrunner/nt/internal/notesrv"
)

func newServeCmd(e *env) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the development notes API",
		Long: `Serve the notes HTTP API on a local SQLite database so the dashboard
works without the hosted service. Point server_url at the listen address.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if addr == "" {
				addr = e.cfg.Notes.ServeAddr
			}

			repo, err := notesrv.OpenRepository(e.cfg.NotesDBPath())
			if err != nil {
				return fmt.Errorf("open notes database: %w", err)
			}
			defer repo.Close()

			srv := &http.Server{
				Addr:              addr,
				Handler:           notesrv.New(repo, e.log, notesrv.WithQuota(e.cfg.Notes.DailyQuota)).Handler(),
				ReadHeaderTimeout: 10 * time.Second,
			}

			errc := make(chan error, 1)
			go func() {
				errc <- srv.ListenAndServe()
			}()
			cmd.Printf("Notes API listening on http://%s (database %s)\n", addr, e.cfg.NotesDBPath())

			select {
			case err := <-errc:
				if !errors.Is(err, http.ErrServerClosed) {
					return err
				}
				return nil
			case <-cmd.Context().Done():
			}

			e.log.Info("shutting down notes API")
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return srv.Shutdown(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")
	return cmd
}
