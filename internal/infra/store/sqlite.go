package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/osa030/readaloud/internal/domain/article"
	"github.com/osa030/readaloud/internal/domain/history"
)

// SQLiteStore wraps the SQLite connection.
type SQLiteStore struct {
	conn *sql.DB
}

// Ensure SQLiteStore implements Store interface.
var _ Store = (*SQLiteStore)(nil)

// NewSQLite opens or creates an SQLite database at the given path.
// ":memory:" opens a private in-memory database.
func NewSQLite(path string) (*SQLiteStore, error) {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.Wrap(err, "open sqlite")
	}
	if path == ":memory:" {
		// Every connection would otherwise get its own empty database
		conn.SetMaxOpenConns(1)
	} else if _, err := conn.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		conn.Close()
		return nil, errors.Wrap(err, "set wal mode")
	}

	db := &SQLiteStore{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, errors.Wrap(err, "migrate")
	}
	return db, nil
}

// Close closes the database connection.
func (db *SQLiteStore) Close() error {
	return db.conn.Close()
}

// DatabaseType returns the database backend name.
func (db *SQLiteStore) DatabaseType() string {
	return "SQLite"
}

func (db *SQLiteStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS articles (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		summary TEXT NOT NULL DEFAULT '',
		content TEXT NOT NULL DEFAULT '',
		category TEXT NOT NULL,
		image_url TEXT NOT NULL DEFAULT '',
		difficulty TEXT NOT NULL,
		duration_minutes INTEGER NOT NULL DEFAULT 0,
		created_at INTEGER NOT NULL
	);
	CREATE TABLE IF NOT EXISTS listening_records (
		id TEXT PRIMARY KEY,
		article_id TEXT NOT NULL,
		article_title TEXT NOT NULL DEFAULT '',
		listened_seconds INTEGER NOT NULL DEFAULT 0,
		completed INTEGER NOT NULL DEFAULT 0,
		created_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_listening_records_created_at ON listening_records(created_at);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// --- Article Methods ---

// SaveArticles inserts articles whose ID is not stored yet and returns how many were added.
func (db *SQLiteStore) SaveArticles(ctx context.Context, articles []article.Article) (int, error) {
	if err := validateArticles(articles); err != nil {
		return 0, err
	}

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return 0, errors.Wrap(err, "begin")
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO articles (id, title, summary, content, category, image_url, difficulty, duration_minutes, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING`)
	if err != nil {
		return 0, errors.Wrap(err, "prepare insert")
	}
	defer stmt.Close()

	added := 0
	now := time.Now()
	for _, a := range articles {
		r := newArticleRow(a, now)
		res, err := stmt.ExecContext(ctx, r.ID, r.Title, r.Summary, r.Content, r.Category, r.ImageURL, r.Difficulty, r.DurationMinutes, r.CreatedAt.UnixMilli())
		if err != nil {
			return 0, errors.Wrapf(err, "insert article %s", a.ID)
		}
		n, _ := res.RowsAffected()
		added += int(n)
	}

	if err := tx.Commit(); err != nil {
		return 0, errors.Wrap(err, "commit")
	}
	return added, nil
}

// ListArticles returns all stored articles, newest first.
func (db *SQLiteStore) ListArticles(ctx context.Context) ([]article.Article, error) {
	rows, err := db.conn.QueryContext(ctx, `
		SELECT id, title, summary, content, category, image_url, difficulty, duration_minutes, created_at
		FROM articles ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var articles []article.Article
	for rows.Next() {
		r, err := scanArticle(rows)
		if err != nil {
			return nil, err
		}
		a, err := r.toArticle()
		if err != nil {
			return nil, err
		}
		articles = append(articles, a)
	}
	return articles, rows.Err()
}

// GetArticle returns one stored article.
func (db *SQLiteStore) GetArticle(ctx context.Context, id string) (*article.Article, error) {
	row := db.conn.QueryRowContext(ctx, `
		SELECT id, title, summary, content, category, image_url, difficulty, duration_minutes, created_at
		FROM articles WHERE id = ?`, id)
	r, err := scanArticle(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	a, err := r.toArticle()
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// DeleteArticle removes a stored article.
func (db *SQLiteStore) DeleteArticle(ctx context.Context, id string) error {
	res, err := db.conn.ExecContext(ctx, "DELETE FROM articles WHERE id = ?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanArticle(s scanner) (articleRow, error) {
	var r articleRow
	var createdAt int64
	if err := s.Scan(&r.ID, &r.Title, &r.Summary, &r.Content, &r.Category, &r.ImageURL, &r.Difficulty, &r.DurationMinutes, &createdAt); err != nil {
		return r, err
	}
	r.CreatedAt = time.UnixMilli(createdAt)
	return r, nil
}

// --- Listening Record Methods ---

// AddRecord stores a listening record. Empty ID and CreatedAt are generated.
func (db *SQLiteStore) AddRecord(ctx context.Context, rec history.Record) error {
	rec, err := prepareRecord(rec, uuid.NewString)
	if err != nil {
		return err
	}
	r := newRecordRow(rec)
	_, err = db.conn.ExecContext(ctx, `
		INSERT INTO listening_records (id, article_id, article_title, listened_seconds, completed, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		r.ID, r.ArticleID, r.ArticleTitle, r.ListenedSeconds, r.Completed, r.CreatedAt.UnixMilli())
	return errors.Wrap(err, "insert record")
}

// ListRecords returns records newest first. A limit <= 0 returns all records.
func (db *SQLiteStore) ListRecords(ctx context.Context, limit int) ([]history.Record, error) {
	query := `
		SELECT id, article_id, article_title, listened_seconds, completed, created_at
		FROM listening_records ORDER BY created_at DESC, id`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []history.Record
	for rows.Next() {
		var r recordRow
		var createdAt int64
		if err := rows.Scan(&r.ID, &r.ArticleID, &r.ArticleTitle, &r.ListenedSeconds, &r.Completed, &createdAt); err != nil {
			return nil, err
		}
		r.CreatedAt = time.UnixMilli(createdAt)
		records = append(records, r.toRecord())
	}
	return records, rows.Err()
}
