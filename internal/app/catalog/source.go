// Package catalog provides the article library: sources, source chain,
// query paging and the feed importer.
package catalog

import (
	"context"

	"github.com/osa030/readaloud/internal/domain/article"
)

// Catalog lists the articles available for narration.
type Catalog interface {
	ListArticles(ctx context.Context) ([]article.Article, error)
}

// Source is the interface for article sources.
// Different implementations provide articles from various places
// (e.g., built-in samples, a generated library, the database).
type Source interface {
	Catalog

	// Name returns the source type (used in config).
	Name() string
}

// ArticleLister is the store capability used by the store source.
type ArticleLister interface {
	ListArticles(ctx context.Context) ([]article.Article, error)
}

// ArticleSaver is the store capability used by the feed importer.
type ArticleSaver interface {
	SaveArticles(ctx context.Context, articles []article.Article) (int, error)
}

// ArticleDeleter is the store capability used to remove imported articles.
type ArticleDeleter interface {
	DeleteArticle(ctx context.Context, id string) error
}

// StoreSource lists articles persisted by the feed importer.
type StoreSource struct {
	store ArticleLister
}

// NewStoreSource creates a new StoreSource.
func NewStoreSource(store ArticleLister) *StoreSource {
	return &StoreSource{store: store}
}

// ListArticles returns the stored articles.
func (s *StoreSource) ListArticles(ctx context.Context) ([]article.Article, error) {
	return s.store.ListArticles(ctx)
}

// Name returns the source name.
func (s *StoreSource) Name() string {
	return "store"
}
