package notes

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/nikbrunner/nt/internal/logger"
	"github.com/nikbrunner/nt/internal/model"
)

// Board is the local, ordered note list backed by a Client.
// It is safe for concurrent use.
type Board struct {
	client   *Client
	pageSize int
	log      *slog.Logger

	mu       sync.Mutex
	notes    []model.Note
	hasMore  bool
	nextPage *int
	err      error

	// ceiling is the order of the last note fetched. Notes on pages not
	// loaded yet sort at or after it.
	ceiling float64

	wg sync.WaitGroup
}

// NewBoard creates an empty board. pageSize < 1 uses DefaultPageSize.
func NewBoard(client *Client, pageSize int) *Board {
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	return &Board{
		client:   client,
		pageSize: pageSize,
		log:      logger.L(),
	}
}

// Notes returns a copy of the list in display order.
func (b *Board) Notes() []model.Note {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]model.Note, len(b.notes))
	copy(out, b.notes)
	return out
}

// HasMore reports whether LoadMore can fetch another page.
func (b *Board) HasMore() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.moreLocked()
}

// Err returns the last error for display, or nil.
func (b *Board) Err() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.err
}

// ClearErr dismisses the current error.
func (b *Board) ClearErr() {
	b.setErr(nil)
}

func (b *Board) setErr(err error) {
	b.mu.Lock()
	b.err = err
	b.mu.Unlock()
}

// Load replaces the list with the first page. On failure the list is
// emptied and the error recorded.
func (b *Board) Load(ctx context.Context) error {
	page, err := b.client.List(ctx, 1, b.pageSize)

	b.mu.Lock()
	defer b.mu.Unlock()

	if err != nil {
		b.notes = nil
		b.hasMore = false
		b.nextPage = nil
		b.err = err
		return err
	}
	b.notes = page.Notes
	b.hasMore = page.HasMore
	b.nextPage = page.NextPage
	b.err = nil
	b.raiseCeiling(page.Notes)
	return nil
}

// LoadMore appends the next page. No-op when there is none.
func (b *Board) LoadMore(ctx context.Context) error {
	b.mu.Lock()
	next := b.nextPage
	b.mu.Unlock()
	if next == nil {
		return nil
	}

	page, err := b.client.List(ctx, *next, b.pageSize)

	b.mu.Lock()
	defer b.mu.Unlock()

	if err != nil {
		b.err = err
		return err
	}
	b.notes = append(b.notes, page.Notes...)
	b.hasMore = page.HasMore
	b.nextPage = page.NextPage
	b.err = nil
	b.raiseCeiling(page.Notes)
	return nil
}

func (b *Board) raiseCeiling(page []model.Note) {
	if len(page) > 0 {
		b.ceiling = page[len(page)-1].Order
	}
}

func (b *Board) moreLocked() bool {
	return b.hasMore && b.nextPage != nil
}

// Create adds a note and prepends it once the service confirms.
func (b *Board) Create(ctx context.Context, title, content string) (model.Note, error) {
	note, err := b.client.Create(ctx, title, content)
	if err != nil {
		b.setErr(err)
		return model.Note{}, err
	}

	b.mu.Lock()
	b.notes = append([]model.Note{note}, b.notes...)
	b.err = nil
	b.mu.Unlock()
	return note, nil
}

// Update edits a note and replaces it in place once the service confirms.
func (b *Board) Update(ctx context.Context, id, title, content string) (model.Note, error) {
	note, err := b.client.Update(ctx, id, title, content)
	if err != nil {
		b.setErr(err)
		return model.Note{}, err
	}

	b.mu.Lock()
	for i := range b.notes {
		if b.notes[i].ID == note.ID {
			b.notes[i] = note
		}
	}
	b.err = nil
	b.mu.Unlock()
	return note, nil
}

// Delete removes a note once the service confirms.
func (b *Board) Delete(ctx context.Context, id string) error {
	if err := b.client.Delete(ctx, id); err != nil {
		b.setErr(err)
		return err
	}

	b.mu.Lock()
	b.notes = removeNote(b.notes, id)
	b.err = nil
	b.mu.Unlock()
	return nil
}

// Drop moves sourceID to the position of targetID and returns its new
// order. The local list changes immediately; the order is persisted in the
// background and the result is delivered on the returned channel. When the
// new order does not fall strictly between its neighbours the loaded list
// is renumbered first. While pages remain unloaded the last loaded note's
// order bounds a drop at the end of the list. Dropping a note on itself or
// an unknown id is a no-op.
func (b *Board) Drop(ctx context.Context, sourceID, targetID string) (float64, <-chan error) {
	done := make(chan error, 1)

	b.mu.Lock()
	src, dst := indexOf(b.notes, sourceID), indexOf(b.notes, targetID)
	if sourceID == targetID || src < 0 || dst < 0 {
		b.mu.Unlock()
		done <- nil
		close(done)
		return 0, done
	}

	moved := b.notes[src]
	next := removeNote(b.notes, sourceID)
	next = append(next[:dst], append([]model.Note{moved}, next[dst:]...)...)

	var prev, after *float64
	if dst > 0 {
		prev = &next[dst-1].Order
	}
	if dst < len(next)-1 {
		after = &next[dst+1].Order
	} else if b.moreLocked() {
		ceiling := b.ceiling
		after = &ceiling
	}
	order := OrderBetween(prev, after)
	next[dst].Order = order
	b.notes = next

	var updates []model.Note
	if strictlyBetween(prev, order, after) {
		updates = []model.Note{next[dst]}
	} else {
		b.log.Debug("order collapsed, renumbering", "note", sourceID, "order", order)
		updates = b.renumberLocked()
		order = b.notes[dst].Order
	}
	b.mu.Unlock()

	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		defer close(done)
		done <- b.persist(ctx, updates)
	}()

	return order, done
}

// Renormalize renumbers the loaded notes in display order and persists
// every order. See renumberLocked for the values used.
func (b *Board) Renormalize(ctx context.Context) error {
	b.mu.Lock()
	updates := b.renumberLocked()
	b.mu.Unlock()

	return b.persist(ctx, updates)
}

// renumberLocked assigns integer-spaced orders and returns a snapshot of
// the list. With every page loaded the orders are 1..N; otherwise they end
// just below the ceiling so unloaded notes keep sorting after them.
func (b *Board) renumberLocked() []model.Note {
	base := 0.0
	if b.moreLocked() {
		base = b.ceiling - float64(len(b.notes)) - 1
	}
	for i := range b.notes {
		b.notes[i].Order = base + float64(i+1)
	}
	out := make([]model.Note, len(b.notes))
	copy(out, b.notes)
	return out
}

// persist writes each note's order, stopping at the first failure.
func (b *Board) persist(ctx context.Context, updates []model.Note) error {
	for _, n := range updates {
		if err := b.client.Reorder(ctx, n.ID, n.Order); err != nil {
			err = fmt.Errorf("save order of %s: %w", n.ID, err)
			b.log.Warn("reorder failed", "note", n.ID, "error", err)
			b.setErr(err)
			return err
		}
	}
	return nil
}

// Wait blocks until background persistence has finished.
func (b *Board) Wait() {
	b.wg.Wait()
}

// Filter returns the notes whose title or content contains query,
// ignoring case. A blank query returns every note.
func (b *Board) Filter(query string) []model.Note {
	all := b.Notes()
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return all
	}

	var out []model.Note
	for _, n := range all {
		if strings.Contains(strings.ToLower(n.Title), q) || strings.Contains(strings.ToLower(n.Content), q) {
			out = append(out, n)
		}
	}
	return out
}

func indexOf(notes []model.Note, id string) int {
	for i, n := range notes {
		if n.ID == id {
			return i
		}
	}
	return -1
}

// removeNote returns a new slice without id.
func removeNote(notes []model.Note, id string) []model.Note {
	out := make([]model.Note, 0, len(notes))
	for _, n := range notes {
		if n.ID != id {
			out = append(out, n)
		}
	}
	return out
}
