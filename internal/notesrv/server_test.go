package notesrv_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nikbrunner/nt/internal/identity"
	"github.com/nikbrunner/nt/internal/notes"
	"github.com/nikbrunner/nt/internal/notesrv"
)

func newServer(t *testing.T, opts ...notesrv.Option) *httptest.Server {
	t.Helper()
	repo, err := notesrv.OpenRepository(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })

	srv := httptest.NewServer(notesrv.New(repo, nil, opts...).Handler())
	t.Cleanup(srv.Close)
	return srv
}

func request(t *testing.T, method, url, owner, body string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	require.NoError(t, err)
	if owner != "" {
		req.Header.Set("X-User-Email", owner)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func errorBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	var body struct {
		Error string `json:"error"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body.Error
}

func TestServer_RequiresIdentity(t *testing.T) {
	srv := newServer(t)

	resp := request(t, http.MethodGet, srv.URL+"/notes", "", "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Contains(t, errorBody(t, resp), "X-User-Email")
}

func TestServer_ClientRoundTrip(t *testing.T) {
	srv := newServer(t)
	c := notes.NewClient(srv.URL, identity.Profile{Email: "me@example.com"})
	ctx := context.Background()

	first, err := c.Create(ctx, "First", "a")
	require.NoError(t, err)
	second, err := c.Create(ctx, "Second", "b")
	require.NoError(t, err)
	assert.Equal(t, 0.0, first.Order, "first note starts at zero")
	assert.Equal(t, -1.0, second.Order, "new notes go above the rest")

	page, err := c.List(ctx, 1, 10)
	require.NoError(t, err)
	require.Len(t, page.Notes, 2)
	assert.Equal(t, second.ID, page.Notes[0].ID)
	assert.False(t, page.HasMore)

	updated, err := c.Update(ctx, first.ID, "First!", "changed")
	require.NoError(t, err)
	assert.Equal(t, "First!", updated.Title)

	require.NoError(t, c.Reorder(ctx, first.ID, -5))
	page, err = c.List(ctx, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, first.ID, page.Notes[0].ID)

	require.NoError(t, c.Delete(ctx, second.ID))
	page, err = c.List(ctx, 1, 10)
	require.NoError(t, err)
	assert.Len(t, page.Notes, 1)
}

func TestServer_Pagination(t *testing.T) {
	srv := newServer(t)
	c := notes.NewClient(srv.URL, identity.Profile{Email: "me@example.com"})
	ctx := context.Background()

	for _, title := range []string{"a", "b", "c"} {
		_, err := c.Create(ctx, title, "")
		require.NoError(t, err)
	}

	page, err := c.List(ctx, 1, 2)
	require.NoError(t, err)
	assert.Len(t, page.Notes, 2)
	assert.True(t, page.HasMore)
	require.NotNil(t, page.NextPage)
	assert.Equal(t, 2, *page.NextPage)

	page, err = c.List(ctx, 2, 2)
	require.NoError(t, err)
	assert.Len(t, page.Notes, 1)
	assert.False(t, page.HasMore)
}

func TestServer_OwnersAreIsolated(t *testing.T) {
	srv := newServer(t)
	ctx := context.Background()
	alice := notes.NewClient(srv.URL, identity.Profile{Email: "alice@example.com"})
	bob := notes.NewClient(srv.URL, identity.Profile{Email: "bob@example.com"})

	n, err := alice.Create(ctx, "secret", "")
	require.NoError(t, err)

	page, err := bob.List(ctx, 1, 10)
	require.NoError(t, err)
	assert.Empty(t, page.Notes)

	assert.ErrorIs(t, bob.Delete(ctx, n.ID), notes.ErrNetwork)
	_, err = bob.Update(ctx, n.ID, "mine", "")
	assert.ErrorIs(t, err, notes.ErrNetwork)
}

func TestServer_DailyQuota(t *testing.T) {
	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	var days atomic.Int64
	clock := func() time.Time { return start.AddDate(0, 0, int(days.Load())) }
	srv := newServer(t, notesrv.WithQuota(2), notesrv.WithClock(clock))
	c := notes.NewClient(srv.URL, identity.Profile{Email: "me@example.com"})
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, err := c.Create(ctx, "n", "")
		require.NoError(t, err)
	}

	_, err := c.Create(ctx, "one too many", "")
	assert.ErrorIs(t, err, notes.ErrRateLimited)
	assert.Contains(t, err.Error(), "max 2 notes per day")

	// Quota resets on the next UTC day
	days.Add(1)
	_, err = c.Create(ctx, "tomorrow", "")
	assert.NoError(t, err)
}

func TestServer_DeletesDoNotFreeQuota(t *testing.T) {
	srv := newServer(t, notesrv.WithQuota(2))
	c := notes.NewClient(srv.URL, identity.Profile{Email: "me@example.com"})
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		n, err := c.Create(ctx, "short-lived", "")
		require.NoError(t, err)
		require.NoError(t, c.Delete(ctx, n.ID))
	}

	_, err := c.Create(ctx, "third", "")
	assert.ErrorIs(t, err, notes.ErrRateLimited)

	page, err := c.List(ctx, 1, 10)
	require.NoError(t, err)
	assert.Empty(t, page.Notes)
}

func TestServer_DefaultQuotaMessage(t *testing.T) {
	srv := newServer(t, notesrv.WithQuota(1))
	owner := "me@example.com"

	resp := request(t, http.MethodPost, srv.URL+"/notes", owner, `{"title":"x"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = request(t, http.MethodPost, srv.URL+"/notes", owner, `{"title":"y"}`)
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	assert.Equal(t, "Rate limit: max 1 notes per day.", errorBody(t, resp))
}

func TestServer_BadRequests(t *testing.T) {
	srv := newServer(t)
	owner := "me@example.com"

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		want   int
	}{
		{"blank title", http.MethodPost, "/notes", `{"title":"  "}`, http.StatusBadRequest},
		{"invalid json", http.MethodPost, "/notes", `{`, http.StatusBadRequest},
		{"reorder without order", http.MethodPut, "/notes/reorder", `{"noteId":"x"}`, http.StatusBadRequest},
		{"reorder unknown", http.MethodPut, "/notes/reorder", `{"noteId":"x","newOrder":1}`, http.StatusNotFound},
		{"update unknown", http.MethodPut, "/notes/missing", `{"title":"t"}`, http.StatusNotFound},
		{"delete unknown", http.MethodDelete, "/notes/missing", ``, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := request(t, tt.method, srv.URL+tt.path, owner, tt.body)
			assert.Equal(t, tt.want, resp.StatusCode)
			assert.NotEmpty(t, errorBody(t, resp))
		})
	}
}

func TestServer_ListOrdersTiesNewestFirst(t *testing.T) {
	repo, err := notesrv.OpenRepository(":memory:")
	require.NoError(t, err)
	defer repo.Close()
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	older, err := repo.Create(ctx, "me", "older", "", 0, base)
	require.NoError(t, err)
	newer, err := repo.Create(ctx, "me", "newer", "", 0, base.Add(time.Minute))
	require.NoError(t, err)

	// Same order value for both
	_, err = repo.Reorder(ctx, "me", older.ID, 3, base)
	require.NoError(t, err)
	_, err = repo.Reorder(ctx, "me", newer.ID, 3, base)
	require.NoError(t, err)

	list, total, err := repo.List(ctx, "me", 1, 10)
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Equal(t, []string{newer.ID, older.ID}, []string{list[0].ID, list[1].ID})
}

func TestServer_BoardRenormalizeAgainstServer(t *testing.T) {
	srv := newServer(t)
	c := notes.NewClient(srv.URL, identity.Profile{Email: "me@example.com"})
	ctx := context.Background()

	for _, title := range []string{"c", "b", "a"} {
		_, err := c.Create(ctx, title, "")
		require.NoError(t, err)
	}

	b := notes.NewBoard(c, 10)
	require.NoError(t, b.Load(ctx))
	require.NoError(t, b.Renormalize(ctx))

	page, err := c.List(ctx, 1, 10)
	require.NoError(t, err)
	var titles []string
	for i, n := range page.Notes {
		titles = append(titles, n.Title)
		assert.Equal(t, float64(i+1), n.Order)
	}
	assert.Equal(t, []string{"a", "b", "c"}, titles)
}
