package storage

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

const currentSchemaVersion = 2

// SQLiteStore persists the bookmark tree in a SQLite database.
type SQLiteStore struct {
	*forestStore
	db   *sql.DB
	path string
}

// NewSQLiteStore opens or creates the database at path.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, err
		}
	}

	s := &SQLiteStore{db: db, path: path}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	s.forestStore = newForestStore(s.load, s.save)

	return s, nil
}

// Path returns the database file path.
func (s *SQLiteStore) Path() string {
	return s.path
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// SchemaVersion returns the applied schema version.
func (s *SQLiteStore) SchemaVersion() (int, error) {
	var version int
	err := s.db.QueryRow("SELECT version FROM schema_version LIMIT 1").Scan(&version)
	return version, err
}

// migrate runs database migrations.
func (s *SQLiteStore) migrate() error {
	version, err := s.SchemaVersion()
	if err != nil {
		// Table doesn't exist or is empty, start fresh
		version = 0
	}
	if version >= currentSchemaVersion {
		return nil
	}

	if version < 1 {
		if err := s.migrateV1(); err != nil {
			return err
		}
	}

	if version < 2 {
		if err := s.migrateV2(); err != nil {
			return err
		}
	}

	return nil
}

// migrateV1 creates the initial schema.
func (s *SQLiteStore) migrateV1() error {
	schema := `
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER PRIMARY KEY
		);

		CREATE TABLE IF NOT EXISTS nodes (
			id TEXT PRIMARY KEY NOT NULL,
			parent_id TEXT,
			position INTEGER NOT NULL DEFAULT 0,
			title TEXT NOT NULL DEFAULT '',
			url TEXT NOT NULL DEFAULT ''
		);

		CREATE INDEX IF NOT EXISTS idx_nodes_parent_id ON nodes(parent_id, position);

		INSERT OR REPLACE INTO schema_version (version) VALUES (1);
	`
	_, err := s.db.Exec(schema)
	return err
}

// migrateV2 adds the creation timestamp and a url index for the culler.
func (s *SQLiteStore) migrateV2() error {
	migration := `
		ALTER TABLE nodes ADD COLUMN date_added INTEGER NOT NULL DEFAULT 0;
		CREATE INDEX IF NOT EXISTS idx_nodes_url ON nodes(url) WHERE url <> '';
		UPDATE schema_version SET version = 2;
	`
	_, err := s.db.Exec(migration)
	return err
}

// load reads all nodes. An empty table reads as the default tree.
func (s *SQLiteStore) load(ctx context.Context) (*forest, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, parent_id, title, url, date_added
		FROM nodes
		ORDER BY parent_id, position
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	f := &forest{nodes: make(map[string]*entry)}
	var order []*entry

	for rows.Next() {
		var e entry
		var parentID sql.NullString

		if err := rows.Scan(&e.id, &parentID, &e.title, &e.url, &e.dateAdded); err != nil {
			return nil, err
		}
		if parentID.Valid {
			e.parentID = parentID.String
		} else {
			f.root = e.id
		}

		f.nodes[e.id] = &e
		order = append(order, &e)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	if f.root == "" {
		return newForest(), nil
	}

	// Rows arrive sorted by position within each parent
	for _, e := range order {
		if parent, ok := f.nodes[e.parentID]; ok {
			parent.children = append(parent.children, e.id)
		}
	}

	return f, nil
}

// save replaces all rows in one transaction.
func (s *SQLiteStore) save(ctx context.Context, f *forest) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM nodes"); err != nil {
		return err
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO nodes (id, parent_id, position, title, url, date_added)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	var insert func(id string, position int) error
	insert = func(id string, position int) error {
		e := f.nodes[id]
		var parentID any
		if e.parentID != "" {
			parentID = e.parentID
		}
		if _, err := stmt.ExecContext(ctx, e.id, parentID, position, e.title, e.url, e.dateAdded); err != nil {
			return err
		}
		for i, c := range e.children {
			if err := insert(c, i); err != nil {
				return err
			}
		}
		return nil
	}

	if err := insert(f.root, 0); err != nil {
		return err
	}

	return tx.Commit()
}
