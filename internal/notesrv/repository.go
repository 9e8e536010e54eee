package notesrv

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/nikbrunner/nt/internal/model"
)

var (
	// ErrNotFound indicates an unknown note or one owned by someone else.
	ErrNotFound = errors.New("note not found")

	// ErrQuotaExceeded indicates the owner's daily create quota is used up.
	ErrQuotaExceeded = errors.New("daily note quota exceeded")
)

// Repository stores notes in SQLite, scoped by owner key.
type Repository struct {
	db *sql.DB
}

// OpenRepository opens or creates the database at path.
// ":memory:" opens a private in-memory database.
func OpenRepository(path string) (*Repository, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, err
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// One connection keeps ":memory:" a single database
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, err
	}

	r := &Repository{db: db}
	if err := r.initSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return r, nil
}

// Close closes the database connection.
func (r *Repository) Close() error {
	return r.db.Close()
}

func (r *Repository) initSchema() error {
	schema := `
		CREATE TABLE IF NOT EXISTS notes (
			id TEXT PRIMARY KEY NOT NULL,
			owner TEXT NOT NULL,
			title TEXT NOT NULL,
			content TEXT NOT NULL DEFAULT '',
			ord REAL NOT NULL DEFAULT 0,
			created_at INTEGER NOT NULL,
			updated_at INTEGER NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_notes_owner_ord ON notes(owner, ord);
		CREATE INDEX IF NOT EXISTS idx_notes_owner_created ON notes(owner, created_at);

		CREATE TABLE IF NOT EXISTS daily_creates (
			owner TEXT NOT NULL,
			day INTEGER NOT NULL,
			count INTEGER NOT NULL DEFAULT 0,
			PRIMARY KEY (owner, day)
		);
	`
	_, err := r.db.Exec(schema)
	return err
}

// List returns one page of the owner's notes ordered by order ascending,
// then newest first, and the owner's total count.
func (r *Repository) List(ctx context.Context, owner string, page, limit int) ([]model.Note, int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM notes WHERE owner = ?", owner).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, owner, title, content, ord, created_at, updated_at
		FROM notes
		WHERE owner = ?
		ORDER BY ord ASC, created_at DESC
		LIMIT ? OFFSET ?
	`, owner, limit, (page-1)*limit)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	list := []model.Note{}
	for rows.Next() {
		n, err := scanNote(rows)
		if err != nil {
			return nil, 0, err
		}
		list = append(list, n)
	}
	return list, total, rows.Err()
}

// Create inserts a note above all of the owner's notes. At most quota
// notes may be created per owner per UTC day; quota < 1 disables the check.
// Creates are counted in daily_creates, so deleting a note frees nothing.
func (r *Repository) Create(ctx context.Context, owner, title, content string, quota int, now time.Time) (model.Note, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return model.Note{}, err
	}
	defer tx.Rollback()

	day := now.UTC().Truncate(24 * time.Hour).UnixMilli()
	if quota > 0 {
		var today int
		err := tx.QueryRowContext(ctx,
			"SELECT count FROM daily_creates WHERE owner = ? AND day = ?",
			owner, day).Scan(&today)
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return model.Note{}, err
		}
		if today >= quota {
			return model.Note{}, fmt.Errorf("%w: %d notes today", ErrQuotaExceeded, today)
		}
	}

	var lowest sql.NullFloat64
	if err := tx.QueryRowContext(ctx, "SELECT MIN(ord) FROM notes WHERE owner = ?", owner).Scan(&lowest); err != nil {
		return model.Note{}, err
	}
	order := 0.0
	if lowest.Valid {
		order = lowest.Float64 - 1
	}

	n := model.Note{
		ID:        model.GenerateUUID(),
		Title:     title,
		Content:   content,
		Order:     order,
		CreatedAt: now.UTC().Truncate(time.Millisecond),
		UpdatedAt: now.UTC().Truncate(time.Millisecond),
		OwnerKey:  owner,
	}
	_, err = tx.ExecContext(ctx, `
		INSERT INTO notes (id, owner, title, content, ord, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, n.ID, owner, n.Title, n.Content, n.Order, n.CreatedAt.UnixMilli(), n.UpdatedAt.UnixMilli())
	if err != nil {
		return model.Note{}, err
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO daily_creates (owner, day, count) VALUES (?, ?, 1)
		ON CONFLICT (owner, day) DO UPDATE SET count = count + 1
	`, owner, day)
	if err != nil {
		return model.Note{}, err
	}

	return n, tx.Commit()
}

// Update replaces title and content.
func (r *Repository) Update(ctx context.Context, owner, id, title, content string, now time.Time) (model.Note, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE notes SET title = ?, content = ?, updated_at = ?
		WHERE id = ? AND owner = ?
	`, title, content, now.UnixMilli(), id, owner)
	if err := affected(res, err, id); err != nil {
		return model.Note{}, err
	}
	return r.get(ctx, owner, id)
}

// Reorder sets the order value of a note.
func (r *Repository) Reorder(ctx context.Context, owner, id string, order float64, now time.Time) (model.Note, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE notes SET ord = ?, updated_at = ?
		WHERE id = ? AND owner = ?
	`, order, now.UnixMilli(), id, owner)
	if err := affected(res, err, id); err != nil {
		return model.Note{}, err
	}
	return r.get(ctx, owner, id)
}

// Delete removes a note.
func (r *Repository) Delete(ctx context.Context, owner, id string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM notes WHERE id = ? AND owner = ?", id, owner)
	return affected(res, err, id)
}

func (r *Repository) get(ctx context.Context, owner, id string) (model.Note, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, owner, title, content, ord, created_at, updated_at
		FROM notes
		WHERE id = ? AND owner = ?
	`, id, owner)
	n, err := scanNote(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Note{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return n, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanNote(s scanner) (model.Note, error) {
	var n model.Note
	var created, updated int64
	if err := s.Scan(&n.ID, &n.OwnerKey, &n.Title, &n.Content, &n.Order, &created, &updated); err != nil {
		return model.Note{}, err
	}
	n.CreatedAt = time.UnixMilli(created).UTC()
	n.UpdatedAt = time.UnixMilli(updated).UTC()
	return n, nil
}

func affected(res sql.Result, err error, id string) error {
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}
