package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/nikbrunner/nt/internal/bookmarks"
	"github.com/nikbrunner/nt/internal/cache"
	"github.com/nikbrunner/nt/internal/config"
	"github.com/nikbrunner/nt/internal/feeds"
	"github.com/nikbrunner/nt/internal/identity"
	"github.com/nikbrunner/nt/internal/logger"
	"github.com/nikbrunner/nt/internal/notes"
	"github.com/nikbrunner/nt/internal/storage"
)

var errNotesNotConfigured = errors.New("notes service not configured: set server_url or NT_SERVER_URL")

// env is the state shared by every command. The root command's
// PersistentPreRunE fills it from flags, .env files and the config file.
type env struct {
	configPath string
	verbose    bool
	logFile    string

	cfg     *config.Config
	log     *slog.Logger
	logSink io.Closer
}

func (e *env) setup() error {
	if err := config.LoadEnv(); err != nil {
		return err
	}

	if e.logFile != "" {
		f, err := os.OpenFile(e.logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		logger.SetOutput(f)
		e.logSink = f
	}
	logger.SetVerbose(e.verbose || e.logFile != "")
	e.log = logger.L()

	path := e.configPath
	if path == "" {
		var err error
		path, err = config.DefaultFilePath()
		if err != nil {
			return fmt.Errorf("get config path: %w", err)
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return fmt.Errorf("load config %s: %w", path, err)
	}
	e.cfg = cfg
	e.log.Debug("config loaded", "path", path, "backend", cfg.Bookmarks.Backend, "server", cfg.ServerURL)
	return nil
}

func (e *env) close() {
	if e.logSink != nil {
		_ = e.logSink.Close()
	}
}

// session is an opened bookmark store with its loaded tree.
type session struct {
	store bookmarks.Store
	coord *bookmarks.Coordinator
	log   *slog.Logger
}

// openBookmarks opens the configured store and loads the tree.
func (e *env) openBookmarks(ctx context.Context) (*session, error) {
	store, err := storage.Open(e.cfg.Bookmarks.Backend, e.cfg.BookmarkPath())
	if err != nil {
		return nil, fmt.Errorf("open bookmarks: %w", err)
	}
	s := &session{store: store, coord: bookmarks.NewCoordinator(store, e.log), log: e.log}
	if err := s.coord.Load(ctx); err != nil {
		s.Close()
		return nil, fmt.Errorf("load bookmarks: %w", err)
	}
	return s, nil
}

func (s *session) Close() {
	c, ok := s.store.(io.Closer)
	if !ok {
		return
	}
	if err := c.Close(); err != nil {
		s.log.Warn("close bookmark store", "error", err)
	}
}

// notesBoard returns nil when no server is configured.
func (e *env) notesBoard() *notes.Board {
	if e.cfg.ServerURL == "" {
		return nil
	}
	id := identity.FromConfig(e.cfg.Identity.Email, e.cfg.Identity.ID)
	return notes.NewBoard(notes.NewClient(e.cfg.ServerURL, id), e.cfg.Notes.PageSize)
}

func (e *env) requireBoard() (*notes.Board, error) {
	board := e.notesBoard()
	if board == nil {
		return nil, errNotesNotConfigured
	}
	return board, nil
}

// feedsService returns nil when neither feed URL is configured.
func (e *env) feedsService() *feeds.Service {
	if e.cfg.ServerURL == "" && e.cfg.NewsURL == "" {
		return nil
	}
	ttls := feeds.TTLs{
		Hackathons: e.cfg.Cache.HackathonsTTL(),
		Contests:   e.cfg.Cache.ContestsTTL(),
		News:       e.cfg.Cache.NewsTTL(),
	}
	return feeds.NewService(
		feeds.NewClient(e.cfg.ServerURL, e.cfg.NewsURL),
		cache.NewFileBackend(e.cfg.CacheDir()),
		ttls,
		cache.WithLogger(e.log),
	)
}
