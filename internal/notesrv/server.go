// Package notesrv is a development implementation of the notes HTTP API
// backed by SQLite. The dashboard's notes client talks to it in tests and
// with `nt serve`.
package notesrv

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/nikbrunner/nt/internal/logger"
)

const (
	// DailyQuota is the number of notes an owner may create per day.
	DailyQuota = 100

	identityHeader = "X-User-Email"
	maxPageSize    = 100
)

// Server serves the notes API.
type Server struct {
	repo  *Repository
	log   *slog.Logger
	quota int
	now   func() time.Time
}

// Option configures a Server.
type Option func(*Server)

// WithQuota overrides DailyQuota. A quota < 1 disables the limit.
func WithQuota(n int) Option {
	return func(s *Server) { s.quota = n }
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Server) { s.now = now }
}

// New creates a Server over repo.
func New(repo *Repository, log *slog.Logger, opts ...Option) *Server {
	if log == nil {
		log = logger.L()
	}
	s := &Server{
		repo:  repo,
		log:   log,
		quota: DailyQuota,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Route("/notes", func(r chi.Router) {
		r.Use(requireOwner)
		r.Get("/", s.handleList)
		r.Post("/", s.handleCreate)
		r.Put("/reorder", s.handleReorder)
		r.Put("/{id}", s.handleUpdate)
		r.Delete("/{id}", s.handleDelete)
	})

	return r
}

type ownerKey struct{}

func withOwner(ctx context.Context, owner string) context.Context {
	return context.WithValue(ctx, ownerKey{}, owner)
}

func owner(r *http.Request) string {
	v, _ := r.Context().Value(ownerKey{}).(string)
	return v
}

// requireOwner rejects requests without an identity header.
func requireOwner(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		owner := strings.TrimSpace(r.Header.Get(identityHeader))
		if owner == "" {
			writeError(w, http.StatusUnauthorized, "Missing "+identityHeader+" header")
			return
		}
		next.ServeHTTP(w, r.WithContext(withOwner(r.Context(), owner)))
	})
}

type listResponse struct {
	Notes    any  `json:"notes"`
	HasMore  bool `json:"hasMore"`
	NextPage *int `json:"nextPage"`
	Total    int  `json:"total"`
}

// handleList returns one page of notes.
// GET /notes?page=1&limit=10
func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	page := queryInt(r, "page", 1)
	limit := queryInt(r, "limit", 10)
	if limit > maxPageSize {
		limit = maxPageSize
	}

	list, total, err := s.repo.List(r.Context(), owner(r), page, limit)
	if err != nil {
		s.internal(w, "list notes", err)
		return
	}

	resp := listResponse{Notes: list, Total: total}
	if page*limit < total {
		next := page + 1
		resp.HasMore = true
		resp.NextPage = &next
	}
	writeJSON(w, http.StatusOK, resp)
}

type noteBody struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

func decodeNoteBody(w http.ResponseWriter, r *http.Request) (noteBody, bool) {
	var body noteBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return noteBody{}, false
	}
	body.Title = strings.TrimSpace(body.Title)
	if body.Title == "" {
		writeError(w, http.StatusBadRequest, "Title is required")
		return noteBody{}, false
	}
	return body, true
}

// handleCreate adds a note above the others.
// POST /notes
func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	body, ok := decodeNoteBody(w, r)
	if !ok {
		return
	}

	n, err := s.repo.Create(r.Context(), owner(r), body.Title, body.Content, s.quota, s.now())
	if errors.Is(err, ErrQuotaExceeded) {
		s.log.Info("note quota exceeded", "owner", owner(r))
		writeError(w, http.StatusTooManyRequests, "Rate limit: max "+strconv.Itoa(s.quota)+" notes per day.")
		return
	}
	if err != nil {
		s.internal(w, "create note", err)
		return
	}

	s.log.Info("note created", "id", n.ID, "request_id", middleware.GetReqID(r.Context()))
	writeJSON(w, http.StatusCreated, n)
}

// handleUpdate edits title and content.
// PUT /notes/{id}
func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	body, ok := decodeNoteBody(w, r)
	if !ok {
		return
	}

	n, err := s.repo.Update(r.Context(), owner(r), chi.URLParam(r, "id"), body.Title, body.Content, s.now())
	if s.notFound(w, err) {
		return
	}
	if err != nil {
		s.internal(w, "update note", err)
		return
	}
	writeJSON(w, http.StatusOK, n)
}

type reorderBody struct {
	NoteID   string   `json:"noteId"`
	NewOrder *float64 `json:"newOrder"`
}

// handleReorder sets a note's order value.
// PUT /notes/reorder
func (s *Server) handleReorder(w http.ResponseWriter, r *http.Request) {
	var body reorderBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.NoteID == "" || body.NewOrder == nil {
		writeError(w, http.StatusBadRequest, "noteId and newOrder required")
		return
	}

	n, err := s.repo.Reorder(r.Context(), owner(r), body.NoteID, *body.NewOrder, s.now())
	if s.notFound(w, err) {
		return
	}
	if err != nil {
		s.internal(w, "reorder note", err)
		return
	}
	writeJSON(w, http.StatusOK, n)
}

// handleDelete removes a note.
// DELETE /notes/{id}
func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	err := s.repo.Delete(r.Context(), owner(r), chi.URLParam(r, "id"))
	if s.notFound(w, err) {
		return
	}
	if err != nil {
		s.internal(w, "delete note", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Note deleted"})
}

func (s *Server) notFound(w http.ResponseWriter, err error) bool {
	if errors.Is(err, ErrNotFound) {
		writeError(w, http.StatusNotFound, "Note not found")
		return true
	}
	return false
}

func (s *Server) internal(w http.ResponseWriter, op string, err error) {
	s.log.Error("notes request failed", "op", op, "error", err)
	writeError(w, http.StatusInternalServerError, "Internal error")
}

func queryInt(r *http.Request, key string, def int) int {
	v, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil || v < 1 {
		return def
	}
	return v
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
