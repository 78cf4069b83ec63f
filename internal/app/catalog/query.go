package catalog

import (
	"context"

	"github.com/cockroachdb/errors"

	"github.com/osa030/readaloud/internal/app/filter"
	"github.com/osa030/readaloud/internal/domain/article"
)

// Query selects a page of the catalog. Zero values mean "no restriction".
type Query struct {
	Category   article.Category
	Difficulty article.Difficulty
	Search     string
	Offset     int
	Limit      int // <= 0 returns every match
}

// Page is one page of query results.
type Page struct {
	Articles []article.Article
	Total    int // Matches before paging
	Offset   int
}

// Filters returns the per-query filters.
func (q Query) Filters() []filter.Filter {
	var filters []filter.Filter
	if q.Category != "" {
		filters = append(filters, filter.NewCategoryFilter(q.Category))
	}
	if q.Difficulty != "" {
		filters = append(filters, filter.NewDifficultyFilter(q.Difficulty))
	}
	if q.Search != "" {
		filters = append(filters, filter.NewSearchFilter(q.Search))
	}
	return filters
}

// Validate rejects values outside the closed enumerations and negative paging.
func (q Query) Validate() error {
	if q.Category != "" && !q.Category.Valid() {
		return errors.Wrapf(article.ErrInvalidCategory, "%q", q.Category)
	}
	if q.Difficulty != "" && !q.Difficulty.Valid() {
		return errors.Wrapf(article.ErrInvalidDifficulty, "%q", q.Difficulty)
	}
	if q.Offset < 0 {
		return errors.Newf("negative offset: %d", q.Offset)
	}
	return nil
}

// Service answers catalog queries through the configured filter chain.
type Service struct {
	catalog Catalog
	filters *filter.Chain
}

// NewService creates a new catalog service. A nil chain applies no filters.
func NewService(catalog Catalog, filters *filter.Chain) *Service {
	if filters == nil {
		filters = filter.NewChain()
	}
	return &Service{
		catalog: catalog,
		filters: filters,
	}
}

// Find returns the page of articles matching q.
func (s *Service) Find(ctx context.Context, q Query) (Page, error) {
	if err := q.Validate(); err != nil {
		return Page{}, err
	}
	articles, err := s.catalog.ListArticles(ctx)
	if err != nil {
		return Page{}, err
	}

	matched := s.filters.With(q.Filters()...).Apply(ctx, articles)
	page := Page{Total: len(matched), Offset: q.Offset}
	if q.Offset >= len(matched) {
		page.Articles = []article.Article{}
		return page, nil
	}
	end := len(matched)
	if q.Limit > 0 && q.Offset+q.Limit < end {
		end = q.Offset + q.Limit
	}
	page.Articles = matched[q.Offset:end]
	return page, nil
}

// Get returns one article by ID. Configured filters do not hide articles from Get.
func (s *Service) Get(ctx context.Context, id string) (article.Article, error) {
	articles, err := s.catalog.ListArticles(ctx)
	if err != nil {
		return article.Article{}, err
	}
	for _, a := range articles {
		if a.ID == id {
			return a, nil
		}
	}
	return article.Article{}, errors.Wrapf(ErrArticleNotFound, "id=%s", id)
}

// Resolve returns the articles with the given IDs in the given order.
// Unknown IDs fail with ErrArticleNotFound; repeated IDs are kept once.
func (s *Service) Resolve(ctx context.Context, ids []string) ([]article.Article, error) {
	articles, err := s.catalog.ListArticles(ctx)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]article.Article, len(articles))
	for _, a := range articles {
		byID[a.ID] = a
	}

	result := make([]article.Article, 0, len(ids))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		a, ok := byID[id]
		if !ok {
			return nil, errors.Wrapf(ErrArticleNotFound, "id=%s", id)
		}
		if seen[id] {
			continue
		}
		seen[id] = true
		result = append(result, a)
	}
	return result, nil
}
