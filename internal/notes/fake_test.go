package notes_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/nikbrunner/nt/internal/identity"
	"github.com/nikbrunner/nt/internal/model"
	"github.com/nikbrunner/nt/internal/notes"
)

// fakeService is an in-memory notes API.
type fakeService struct {
	mu         sync.Mutex
	notes      map[string]model.Note
	seq        int
	identities []string
	reorders   []reorderCall
	failWith   int // status returned by every request when non-zero
	failBody   string
}

type reorderCall struct {
	NoteID   string  `json:"noteId"`
	NewOrder float64 `json:"newOrder"`
}

func newFakeService(t *testing.T, seed ...model.Note) (*fakeService, *httptest.Server) {
	t.Helper()
	fs := &fakeService{notes: make(map[string]model.Note)}
	for _, n := range seed {
		fs.notes[n.ID] = n
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /notes", fs.list)
	mux.HandleFunc("POST /notes", fs.create)
	mux.HandleFunc("PUT /notes/reorder", fs.reorder)
	mux.HandleFunc("PUT /notes/{id}", fs.update)
	mux.HandleFunc("DELETE /notes/{id}", fs.delete)

	srv := httptest.NewServer(fs.guard(mux))
	t.Cleanup(srv.Close)
	return fs, srv
}

func (fs *fakeService) guard(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fs.mu.Lock()
		fs.identities = append(fs.identities, r.Header.Get(notes.IdentityHeader))
		status, body := fs.failWith, fs.failBody
		fs.mu.Unlock()

		if status != 0 {
			w.WriteHeader(status)
			fmt.Fprint(w, body)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (fs *fakeService) sorted() []model.Note {
	var list []model.Note
	for _, n := range fs.notes {
		list = append(list, n)
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].Order != list[j].Order {
			return list[i].Order < list[j].Order
		}
		return list[i].ID < list[j].ID
	})
	return list
}

func (fs *fakeService) list(w http.ResponseWriter, r *http.Request) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	all := fs.sorted()

	start := (page - 1) * limit
	end := start + limit
	if start > len(all) {
		start = len(all)
	}
	if end > len(all) {
		end = len(all)
	}

	// nextPage deliberately omitted so the client derives it
	_ = json.NewEncoder(w).Encode(map[string]any{
		"notes":   all[start:end],
		"hasMore": end < len(all),
	})
}

func (fs *fakeService) create(w http.ResponseWriter, r *http.Request) {
	var req struct{ Title, Content string }
	_ = json.NewDecoder(r.Body).Decode(&req)

	fs.mu.Lock()
	defer fs.mu.Unlock()

	lowest := 0.0
	for _, n := range fs.notes {
		if n.Order < lowest {
			lowest = n.Order
		}
	}
	fs.seq++
	n := model.Note{
		ID:        fmt.Sprintf("new%d", fs.seq),
		Title:     req.Title,
		Content:   req.Content,
		Order:     lowest - 1,
		CreatedAt: time.Now().UTC(),
	}
	fs.notes[n.ID] = n
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(n)
}

func (fs *fakeService) update(w http.ResponseWriter, r *http.Request) {
	var req struct{ Title, Content string }
	_ = json.NewDecoder(r.Body).Decode(&req)

	fs.mu.Lock()
	defer fs.mu.Unlock()

	n, ok := fs.notes[r.PathValue("id")]
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"error":"Note not found"}`)
		return
	}
	n.Title, n.Content = req.Title, req.Content
	fs.notes[n.ID] = n
	_ = json.NewEncoder(w).Encode(n)
}

func (fs *fakeService) delete(w http.ResponseWriter, r *http.Request) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	delete(fs.notes, r.PathValue("id"))
	fmt.Fprint(w, `{"message":"deleted"}`)
}

func (fs *fakeService) reorder(w http.ResponseWriter, r *http.Request) {
	var req reorderCall
	_ = json.NewDecoder(r.Body).Decode(&req)

	fs.mu.Lock()
	defer fs.mu.Unlock()

	fs.reorders = append(fs.reorders, req)
	n := fs.notes[req.NoteID]
	n.Order = req.NewOrder
	fs.notes[req.NoteID] = n
	_ = json.NewEncoder(w).Encode(n)
}

func (fs *fakeService) fail(status int, body string) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.failWith, fs.failBody = status, body
}

func (fs *fakeService) order(id string) float64 {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	return fs.notes[id].Order
}

// serverOrder returns the ids in the order the service lists them.
func (fs *fakeService) serverOrder() []string {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	var out []string
	for _, n := range fs.sorted() {
		out = append(out, n.ID)
	}
	return out
}

func (fs *fakeService) seenIdentities() []string {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	return append([]string(nil), fs.identities...)
}

func (fs *fakeService) reorderCalls() []reorderCall {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	return append([]reorderCall(nil), fs.reorders...)
}

func signedIn(url string) *notes.Client {
	return notes.NewClient(url, identity.Profile{Email: "me@example.com"})
}

func seedNotes(orders ...float64) []model.Note {
	var out []model.Note
	for i, o := range orders {
		out = append(out, model.Note{
			ID:    fmt.Sprintf("n%d", i+1),
			Title: fmt.Sprintf("Note %d", i+1),
			Order: o,
		})
	}
	return out
}
