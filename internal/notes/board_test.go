package notes_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nikbrunner/nt/internal/identity"
	"github.com/nikbrunner/nt/internal/model"
	"github.com/nikbrunner/nt/internal/notes"
)

func ids(list []model.Note) []string {
	var out []string
	for _, n := range list {
		out = append(out, n.ID)
	}
	return out
}

func loadedBoard(t *testing.T, pageSize int, seed ...model.Note) (*notes.Board, *fakeService) {
	t.Helper()
	fs, srv := newFakeService(t, seed...)
	b := notes.NewBoard(signedIn(srv.URL), pageSize)
	require.NoError(t, b.Load(context.Background()))
	return b, fs
}

func TestBoard_LoadAndLoadMore(t *testing.T) {
	b, _ := loadedBoard(t, 2, seedNotes(1, 2, 3)...)
	ctx := context.Background()

	assert.Equal(t, []string{"n1", "n2"}, ids(b.Notes()))
	assert.True(t, b.HasMore())

	require.NoError(t, b.LoadMore(ctx))
	assert.Equal(t, []string{"n1", "n2", "n3"}, ids(b.Notes()))
	assert.False(t, b.HasMore())

	// No further page
	require.NoError(t, b.LoadMore(ctx))
	assert.Len(t, b.Notes(), 3)
}

func TestBoard_LoadFailureClearsList(t *testing.T) {
	b, fs := loadedBoard(t, 10, seedNotes(1)...)
	fs.fail(http.StatusBadGateway, "")

	err := b.Load(context.Background())
	assert.ErrorIs(t, err, notes.ErrNetwork)
	assert.Empty(t, b.Notes())
	assert.ErrorIs(t, b.Err(), notes.ErrNetwork)

	b.ClearErr()
	assert.NoError(t, b.Err())
}

func TestBoard_SignedOutLoadsEmpty(t *testing.T) {
	_, srv := newFakeService(t, seedNotes(1)...)
	b := notes.NewBoard(notes.NewClient(srv.URL, identity.None{}), 0)

	require.NoError(t, b.Load(context.Background()))
	assert.Empty(t, b.Notes())
	assert.False(t, b.HasMore())
}

func TestBoard_CreatePrepends(t *testing.T) {
	b, _ := loadedBoard(t, 10, seedNotes(1, 2)...)

	created, err := b.Create(context.Background(), "Fresh", "")
	require.NoError(t, err)

	assert.Equal(t, []string{created.ID, "n1", "n2"}, ids(b.Notes()))
}

func TestBoard_CreateRateLimited(t *testing.T) {
	b, fs := loadedBoard(t, 10, seedNotes(1)...)
	fs.fail(http.StatusTooManyRequests, "")

	_, err := b.Create(context.Background(), "x", "")
	assert.ErrorIs(t, err, notes.ErrRateLimited)
	assert.ErrorIs(t, b.Err(), notes.ErrRateLimited)
	assert.Len(t, b.Notes(), 1, "list unchanged on failure")
}

func TestBoard_UpdateAndDelete(t *testing.T) {
	b, _ := loadedBoard(t, 10, seedNotes(1, 2)...)
	ctx := context.Background()

	_, err := b.Update(ctx, "n2", "Changed", "body")
	require.NoError(t, err)
	assert.Equal(t, "Changed", b.Notes()[1].Title)

	require.NoError(t, b.Delete(ctx, "n1"))
	assert.Equal(t, []string{"n2"}, ids(b.Notes()))
}

func TestBoard_DropMidpoint(t *testing.T) {
	b, fs := loadedBoard(t, 10, seedNotes(1, 2, 3)...)

	// Drop n3 onto n2: n1, n3, n2
	order, done := b.Drop(context.Background(), "n3", "n2")
	assert.Equal(t, []string{"n1", "n3", "n2"}, ids(b.Notes()), "reorder is applied before the server confirms")
	assert.Equal(t, 1.5, order)

	require.NoError(t, <-done)
	assert.Equal(t, 1.5, fs.order("n3"))
	assert.Len(t, fs.reorderCalls(), 1)
}

func TestBoard_DropAtEnds(t *testing.T) {
	b, _ := loadedBoard(t, 10, seedNotes(1, 2, 3)...)
	ctx := context.Background()

	order, done := b.Drop(ctx, "n3", "n1")
	require.NoError(t, <-done)
	assert.Equal(t, 0.0, order, "top drop is next-1")

	order, done = b.Drop(ctx, "n3", "n2")
	require.NoError(t, <-done)
	assert.Equal(t, []string{"n1", "n2", "n3"}, ids(b.Notes()))
	assert.Equal(t, 3.0, order, "bottom drop is prev+1")
}

func TestBoard_DropNoop(t *testing.T) {
	b, fs := loadedBoard(t, 10, seedNotes(1, 2)...)

	for _, pair := range [][2]string{{"n1", "n1"}, {"n1", "missing"}, {"missing", "n2"}} {
		_, done := b.Drop(context.Background(), pair[0], pair[1])
		assert.NoError(t, <-done)
	}

	assert.Equal(t, []string{"n1", "n2"}, ids(b.Notes()))
	assert.Empty(t, fs.reorderCalls())
}

func TestBoard_DropRenormalizesOnCollapsedOrder(t *testing.T) {
	// Equal neighbours leave no room between them
	b, fs := loadedBoard(t, 10, seedNotes(1, 2, 2)...)

	order, done := b.Drop(context.Background(), "n1", "n2")
	require.NoError(t, <-done)

	assert.Equal(t, []string{"n2", "n1", "n3"}, ids(b.Notes()))
	assert.Equal(t, 2.0, order)
	for i, n := range b.Notes() {
		assert.Equal(t, float64(i+1), n.Order)
		assert.Equal(t, float64(i+1), fs.order(n.ID))
	}
	assert.Len(t, fs.reorderCalls(), 3)
}

func TestBoard_DropRenumbersBelowUnloadedPages(t *testing.T) {
	b, fs := loadedBoard(t, 3, seedNotes(-10, -10, -10, -5)...)
	require.True(t, b.HasMore())

	_, done := b.Drop(context.Background(), "n1", "n2")
	require.NoError(t, <-done)

	assert.Equal(t, []string{"n2", "n1", "n3"}, ids(b.Notes()))
	assert.Equal(t, []string{"n2", "n1", "n3", "n4"}, fs.serverOrder())
	for _, n := range b.Notes() {
		assert.Less(t, n.Order, -10.0)
	}
	assert.Len(t, fs.reorderCalls(), 3)
}

func TestBoard_DropAtEndOfPartialPage(t *testing.T) {
	b, fs := loadedBoard(t, 3, seedNotes(1, 2, 3, 3.5)...)

	_, done := b.Drop(context.Background(), "n1", "n3")
	require.NoError(t, <-done)

	assert.Equal(t, []string{"n2", "n3", "n1"}, ids(b.Notes()))
	assert.Equal(t, []string{"n2", "n3", "n1", "n4"}, fs.serverOrder())

	require.NoError(t, b.LoadMore(context.Background()))
	assert.Equal(t, []string{"n2", "n3", "n1", "n4"}, ids(b.Notes()))
}

func TestBoard_RenormalizePartialBoard(t *testing.T) {
	b, fs := loadedBoard(t, 2, seedNotes(5, 6, 7, 8)...)

	require.NoError(t, b.Renormalize(context.Background()))

	assert.Equal(t, []string{"n1", "n2", "n3", "n4"}, fs.serverOrder())
	assert.Equal(t, 4.0, fs.order("n1"))
	assert.Equal(t, 5.0, fs.order("n2"))
	assert.Equal(t, 7.0, fs.order("n3"), "unloaded notes are untouched")
}

func TestBoard_DropFailureRecorded(t *testing.T) {
	b, fs := loadedBoard(t, 10, seedNotes(1, 2, 3)...)
	fs.fail(http.StatusInternalServerError, "")

	_, done := b.Drop(context.Background(), "n3", "n2")
	err := <-done

	assert.ErrorIs(t, err, notes.ErrNetwork)
	assert.ErrorIs(t, b.Err(), notes.ErrNetwork)
	assert.Equal(t, []string{"n1", "n3", "n2"}, ids(b.Notes()), "optimistic order is kept")
}

func TestBoard_ReorderIdempotent(t *testing.T) {
	seed := seedNotes(1, 2, 3, 4)
	first, fs1 := loadedBoard(t, 10, seed...)
	second, fs2 := loadedBoard(t, 10, seed...)
	ctx := context.Background()

	o1, done := first.Drop(ctx, "n4", "n2")
	require.NoError(t, <-done)
	o2, done := second.Drop(ctx, "n4", "n2")
	require.NoError(t, <-done)
	assert.Equal(t, o1, o2, "same drop computes the same order")

	// Persisting the same orders again changes nothing
	require.NoError(t, first.Renormalize(ctx))
	require.NoError(t, first.Renormalize(ctx))
	assert.Equal(t, ids(first.Notes()), ids(second.Notes()))
	for i, n := range first.Notes() {
		assert.Equal(t, float64(i+1), fs1.order(n.ID))
	}
	assert.Equal(t, o2, fs2.order("n4"))
}

func TestBoard_Filter(t *testing.T) {
	seed := []model.Note{
		{ID: "a", Title: "Groceries", Content: "milk, eggs", Order: 1},
		{ID: "b", Title: "Work", Content: "Ship the MILK feature", Order: 2},
		{ID: "c", Title: "Ideas", Content: "", Order: 3},
	}
	b, _ := loadedBoard(t, 10, seed...)

	tests := []struct {
		query string
		want  []string
	}{
		{"", []string{"a", "b", "c"}},
		{"  ", []string{"a", "b", "c"}},
		{"milk", []string{"a", "b"}},
		{"IDEA", []string{"c"}},
		{"nothing", nil},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(b.Filter(tt.query)))
		})
	}
}

func TestBoard_WaitJoinsPersistence(t *testing.T) {
	b, fs := loadedBoard(t, 10, seedNotes(1, 2, 3)...)

	b.Drop(context.Background(), "n1", "n3")
	b.Wait()

	assert.Len(t, fs.reorderCalls(), 1)
}
