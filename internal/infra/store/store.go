// Package store persists imported articles and listening records.
package store

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/osa030/readaloud/internal/domain/article"
	"github.com/osa030/readaloud/internal/domain/history"
	"github.com/osa030/readaloud/internal/infra/config"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

// Store defines the persistence operations.
// Both SQLite and PostgreSQL implementations satisfy this interface.
type Store interface {
	Close() error

	// DatabaseType returns the name of the database backend ("SQLite" or "PostgreSQL").
	DatabaseType() string

	// Article operations
	SaveArticles(ctx context.Context, articles []article.Article) (int, error)
	ListArticles(ctx context.Context) ([]article.Article, error)
	GetArticle(ctx context.Context, id string) (*article.Article, error)
	DeleteArticle(ctx context.Context, id string) error

	// Listening record operations
	AddRecord(ctx context.Context, r history.Record) error
	ListRecords(ctx context.Context, limit int) ([]history.Record, error)
}

// Open opens the store selected by cfg.Driver.
func Open(cfg config.DatabaseConfig) (Store, error) {
	switch cfg.Driver {
	case "sqlite", "":
		return NewSQLite(cfg.DSN)
	case "postgres":
		return NewPostgres(cfg.DSN)
	default:
		return nil, errors.Newf("unsupported database driver: %s", cfg.Driver)
	}
}

// articleRow is the persisted form of an article.
type articleRow struct {
	ID              string    `gorm:"primaryKey;type:text"`
	Title           string    `gorm:"not null;type:text"`
	Summary         string    `gorm:"type:text"`
	Content         string    `gorm:"type:text"`
	Category        string    `gorm:"not null;type:text"`
	ImageURL        string    `gorm:"column:image_url;type:text"`
	Difficulty      string    `gorm:"not null;type:text"`
	DurationMinutes int       `gorm:"column:duration_minutes"`
	CreatedAt       time.Time `gorm:"column:created_at;index"`
}

func (articleRow) TableName() string {
	return "articles"
}

func newArticleRow(a article.Article, now time.Time) articleRow {
	return articleRow{
		ID:              a.ID,
		Title:           a.Title,
		Summary:         a.Summary,
		Content:         a.Content,
		Category:        string(a.Category),
		ImageURL:        a.ImageURL,
		Difficulty:      string(a.Difficulty),
		DurationMinutes: a.DurationMinutes,
		CreatedAt:       now,
	}
}

// toArticle converts a row back, rejecting values outside the closed enumerations.
func (r articleRow) toArticle() (article.Article, error) {
	a := article.Article{
		ID:              r.ID,
		Title:           r.Title,
		Summary:         r.Summary,
		Content:         r.Content,
		Category:        article.Category(r.Category),
		ImageURL:        r.ImageURL,
		Difficulty:      article.Difficulty(r.Difficulty),
		DurationMinutes: r.DurationMinutes,
	}
	if err := a.Validate(); err != nil {
		return article.Article{}, errors.Wrapf(err, "stored article %s", r.ID)
	}
	return a, nil
}

// recordRow is the persisted form of a listening record.
type recordRow struct {
	ID              string    `gorm:"primaryKey;type:text"`
	ArticleID       string    `gorm:"column:article_id;not null;index"`
	ArticleTitle    string    `gorm:"column:article_title;type:text"`
	ListenedSeconds int       `gorm:"column:listened_seconds"`
	Completed       bool      `gorm:"column:completed"`
	CreatedAt       time.Time `gorm:"column:created_at;index"`
}

func (recordRow) TableName() string {
	return "listening_records"
}

func newRecordRow(r history.Record) recordRow {
	return recordRow{
		ID:              r.ID,
		ArticleID:       r.ArticleID,
		ArticleTitle:    r.ArticleTitle,
		ListenedSeconds: r.ListenedSeconds,
		Completed:       r.Completed,
		CreatedAt:       r.CreatedAt,
	}
}

func (r recordRow) toRecord() history.Record {
	return history.Record{
		ID:              r.ID,
		ArticleID:       r.ArticleID,
		ArticleTitle:    r.ArticleTitle,
		ListenedSeconds: r.ListenedSeconds,
		Completed:       r.Completed,
		CreatedAt:       r.CreatedAt,
	}
}

// validateArticles checks every article before anything is written.
func validateArticles(articles []article.Article) error {
	for i, a := range articles {
		if err := a.Validate(); err != nil {
			return errors.Wrapf(err, "article %d", i)
		}
	}
	return nil
}

// prepareRecord fills the generated fields of a record.
func prepareRecord(r history.Record, newID func() string) (history.Record, error) {
	if r.ArticleID == "" {
		return r, errors.New("record has no article id")
	}
	if r.ID == "" {
		r.ID = newID()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now()
	}
	return r, nil
}
