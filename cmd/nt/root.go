package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/nikbrunner/nt/internal/storage"
	"github.com/nikbrunner/nt/internal/tui"
	"github.com/nikbrunner/nt/internal/webapps"
)

func newRootCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "nt [query]",
		Short: "Terminal new-tab dashboard",
		Long: `nt is a new-tab page for the terminal: browse bookmarks, keep notes,
watch hackathons, contests and developer news, and jump to web apps.

Examples:
  nt                  # open the dashboard
  nt golang docs      # fuzzy search bookmarks, pick one and open it
  nt add https://go.dev "Go"
  nt notes list`,
		Args:              cobra.ArbitraryArgs,
		SilenceUsage:      true,
		PersistentPreRunE: func(*cobra.Command, []string) error { return e.setup() },
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				return runQuickSearch(cmd, e, strings.Join(args, " "))
			}
			return runDashboard(cmd, e)
		},
	}

	cmd.PersistentFlags().StringVar(&e.configPath, "config", "", "config file (default ~/.config/nt/config.toml)")
	cmd.PersistentFlags().BoolVarP(&e.verbose, "verbose", "v", false, "log to stderr")
	cmd.PersistentFlags().StringVar(&e.logFile, "log-file", "", "append logs to this file")

	cmd.AddCommand(
		newAddCmd(e),
		newImportCmd(e),
		newExportCmd(e),
		newCullCmd(e),
		newNotesCmd(e),
		newFeedsCmd(e),
		newAppsCmd(e),
		newServeCmd(e),
		newVersionCmd(),
	)
	return cmd
}

// runDashboard runs the full-screen dashboard until the user quits.
func runDashboard(cmd *cobra.Command, e *env) error {
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	s, err := e.openBookmarks(ctx)
	if err != nil {
		return err
	}
	defer s.Close()

	var changes chan struct{}
	if e.cfg.Bookmarks.Watch && storage.Persistent(e.cfg.Bookmarks.Backend) {
		changes = make(chan struct{}, 1)
		go func() {
			err := storage.Watch(ctx, e.cfg.BookmarkPath(), storage.DefaultDebounce, e.log, func() {
				select {
				case changes <- struct{}{}:
				default:
				}
			})
			if err != nil && !errors.Is(err, context.Canceled) {
				e.log.Warn("bookmark watch stopped", "error", err)
			}
		}()
	}

	board := e.notesBoard()
	svc := e.feedsService()
	if svc != nil {
		go svc.RunContests(ctx)
	}

	app := tui.NewApp(tui.AppParams{
		Context:       ctx,
		Bookmarks:     s.coord,
		Notes:         board,
		Feeds:         svc,
		Apps:          webapps.New(e.cfg.WebApps),
		Changes:       changes,
		ContestsEvery: e.cfg.Cache.ContestsTTL(),
		Log:           e.log,
	})
	if _, err := tea.NewProgram(app, tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("run dashboard: %w", err)
	}

	cancel()
	if board != nil {
		board.Wait()
	}
	if svc != nil {
		svc.Wait()
	}
	return nil
}
