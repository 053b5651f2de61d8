package cache

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/xeenaps/shelf/internal/library"
)

// DB wraps the ephemeral SQLite search index.
type DB struct {
	db *sql.DB
}

// OpenDB opens or creates the search index at path. Use ":memory:" for a
// throwaway index.
func OpenDB(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening index: %w", err)
	}

	// SQLite does not support concurrent writers.
	db.SetMaxOpenConns(1)

	if err := createSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return &DB{db: db}, nil
}

// Close closes the index.
func (d *DB) Close() error {
	return d.db.Close()
}

func createSchema(db *sql.DB) error {
	schema := `
		CREATE TABLE IF NOT EXISTS items (
			id TEXT PRIMARY KEY,
			type TEXT NOT NULL,
			category TEXT,
			topic TEXT,
			source TEXT,
			year TEXT,
			is_favorite INTEGER NOT NULL DEFAULT 0,
			is_bookmarked INTEGER NOT NULL DEFAULT 0,
			created_at TEXT,
			record_json TEXT NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_items_type ON items(type);

		CREATE VIRTUAL TABLE IF NOT EXISTS items_fts USING fts5(
			id,
			title,
			authors_text,
			publisher,
			tags_text,
			abstract,
			body
		);
	`
	_, err := db.Exec(schema)
	return err
}

// Rebuild clears the index and reloads it from the given items.
func (d *DB) Rebuild(items []library.Item) (int, error) {
	if _, err := d.db.Exec("DELETE FROM items"); err != nil {
		return 0, fmt.Errorf("clearing items: %w", err)
	}
	if _, err := d.db.Exec("DELETE FROM items_fts"); err != nil {
		return 0, fmt.Errorf("clearing index: %w", err)
	}

	itemStmt, err := d.db.Prepare(`
		INSERT INTO items (id, type, category, topic, source, year,
			is_favorite, is_bookmarked, created_at, record_json)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("preparing item insert: %w", err)
	}
	defer itemStmt.Close()

	ftsStmt, err := d.db.Prepare(`
		INSERT INTO items_fts (id, title, authors_text, publisher, tags_text, abstract, body)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("preparing fts insert: %w", err)
	}
	defer ftsStmt.Close()

	for _, it := range items {
		record, err := json.Marshal(it)
		if err != nil {
			return 0, fmt.Errorf("encoding item %s: %w", it.ID, err)
		}
		_, err = itemStmt.Exec(
			it.ID, string(it.Type), it.Category, it.Topic, string(it.Source), it.Year,
			boolInt(it.IsFavorite), boolInt(it.IsBookmarked), it.CreatedAt, string(record),
		)
		if err != nil {
			return 0, fmt.Errorf("inserting item %s: %w", it.ID, err)
		}

		_, err = ftsStmt.Exec(
			it.ID, it.Title, it.Authors, it.Publisher,
			strings.Join(it.Tags, ", "), it.Abstract,
			library.JoinChunks(it.Chunks),
		)
		if err != nil {
			return 0, fmt.Errorf("indexing item %s: %w", it.ID, err)
		}
	}
	return len(items), nil
}

// RebuildFromJSONL reloads the index from a snapshot file.
func (d *DB) RebuildFromJSONL(path string) (int, error) {
	items, err := ReadAll(path)
	if err != nil {
		return 0, fmt.Errorf("reading snapshot: %w", err)
	}
	return d.Rebuild(items)
}

// Search runs a full-text query over titles, authors, tags, abstracts, and
// extracted text.
func (d *DB) Search(query string, limit int) ([]library.Item, error) {
	rows, err := d.db.Query(`
		SELECT record_json
		FROM items
		WHERE id IN (SELECT id FROM items_fts WHERE items_fts MATCH ?)
		LIMIT ?`, prepareFTSQuery(query), limit)
	if err != nil {
		return nil, fmt.Errorf("searching: %w", err)
	}
	defer rows.Close()
	return scanItems(rows)
}

// Filters narrows a search. Zero values mean "no constraint".
type Filters struct {
	Keyword    string
	Title      string
	Author     string
	Type       string
	Category   string
	Topic      string
	Year       string
	Favorite   bool
	Bookmarked bool
}

// SearchWithFilters returns items matching every given constraint. Text
// constraints go through FTS5; exact fields filter in SQL.
func (d *DB) SearchWithFilters(f Filters, limit int) ([]library.Item, error) {
	var ftsTerms []string
	var args []interface{}

	if f.Keyword != "" {
		ftsTerms = append(ftsTerms, prepareFTSQuery(f.Keyword))
	}
	if f.Title != "" {
		ftsTerms = append(ftsTerms, "title:"+prepareFTSQuery(f.Title))
	}
	if f.Author != "" {
		ftsTerms = append(ftsTerms, "authors_text:"+preparePrefixQuery(f.Author))
	}

	var query string
	if len(ftsTerms) > 0 {
		query = `SELECT record_json FROM items
			WHERE id IN (SELECT id FROM items_fts WHERE items_fts MATCH ?)`
		args = append(args, strings.Join(ftsTerms, " AND "))
	} else {
		query = `SELECT record_json FROM items WHERE 1=1`
	}

	if f.Type != "" {
		query += " AND type = ?"
		args = append(args, f.Type)
	}
	if f.Category != "" {
		query += " AND category LIKE ?"
		args = append(args, "%"+f.Category+"%")
	}
	if f.Topic != "" {
		query += " AND topic LIKE ?"
		args = append(args, "%"+f.Topic+"%")
	}
	if f.Year != "" {
		query += " AND year = ?"
		args = append(args, f.Year)
	}
	if f.Favorite {
		query += " AND is_favorite = 1"
	}
	if f.Bookmarked {
		query += " AND is_bookmarked = 1"
	}

	query += " ORDER BY created_at DESC LIMIT ?"
	args = append(args, limit)

	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("searching with filters: %w", err)
	}
	defer rows.Close()
	return scanItems(rows)
}

// Count returns the number of indexed items.
func (d *DB) Count() (int, error) {
	var count int
	err := d.db.QueryRow("SELECT COUNT(*) FROM items").Scan(&count)
	return count, err
}

func scanItems(rows *sql.Rows) ([]library.Item, error) {
	var items []library.Item
	for rows.Next() {
		var record string
		if err := rows.Scan(&record); err != nil {
			return nil, err
		}
		var it library.Item
		if err := json.Unmarshal([]byte(record), &it); err != nil {
			return nil, fmt.Errorf("decoding item record: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// prepareFTSQuery escapes special characters for FTS5 queries.
func prepareFTSQuery(query string) string {
	query = strings.TrimSpace(query)
	if query == "" {
		return query
	}
	if strings.ContainsAny(query, "\"*+-:(){}[]^~") {
		query = strings.ReplaceAll(query, "\"", "\"\"")
		return "\"" + query + "\""
	}
	return query
}

// preparePrefixQuery quotes each word of a name with a prefix wildcard, so
// "Tim" matches "Timothy" and multi-word names match on any part.
func preparePrefixQuery(name string) string {
	var terms []string
	for _, part := range strings.Fields(strings.TrimSpace(name)) {
		escaped := strings.ReplaceAll(part, "\"", "\"\"")
		terms = append(terms, "\""+escaped+"\"*")
	}
	if len(terms) == 0 {
		return ""
	}
	return "(" + strings.Join(terms, " OR ") + ")"
}
