package filter

import (
	"context"
	"strings"

	"github.com/osa030/readaloud/internal/domain/article"
)

// CategoryFilter keeps articles of one category. It is built per query, not from config.
type CategoryFilter struct {
	category article.Category
}

// NewCategoryFilter creates a category filter.
func NewCategoryFilter(c article.Category) *CategoryFilter {
	return &CategoryFilter{category: c}
}

func (f *CategoryFilter) Name() string                                 { return "category_filter" }
func (f *CategoryFilter) Description() string                          { return "Keeps articles of the requested category" }
func (f *CategoryFilter) ReturnCodes() []string                        { return []string{"category_mismatch"} }
func (f *CategoryFilter) ValidateConfig(settings map[string]any) error { return nil }

func (f *CategoryFilter) Check(ctx context.Context, a article.Article) Result {
	if a.Category != f.category {
		return Reject("category_mismatch")
	}
	return Accept()
}

// SearchFilter keeps articles whose title, summary or content contains a term, ignoring case.
type SearchFilter struct {
	term string
}

// NewSearchFilter creates a search filter.
func NewSearchFilter(term string) *SearchFilter {
	return &SearchFilter{term: strings.ToLower(strings.TrimSpace(term))}
}

func (f *SearchFilter) Name() string                                 { return "search_filter" }
func (f *SearchFilter) Description() string                          { return "Keeps articles matching a search term" }
func (f *SearchFilter) ReturnCodes() []string                        { return []string{"search_mismatch"} }
func (f *SearchFilter) ValidateConfig(settings map[string]any) error { return nil }

func (f *SearchFilter) Check(ctx context.Context, a article.Article) Result {
	if f.term == "" {
		return Accept()
	}
	for _, field := range []string{a.Title, a.Summary, a.Content} {
		if strings.Contains(strings.ToLower(field), f.term) {
			return Accept()
		}
	}
	return Reject("search_mismatch")
}

// EmptyContentFilter drops articles with nothing to narrate.
type EmptyContentFilter struct{}

func (f *EmptyContentFilter) Name() string                                 { return "empty_content_filter" }
func (f *EmptyContentFilter) Description() string                          { return "Drops articles without narration text" }
func (f *EmptyContentFilter) ReturnCodes() []string                        { return []string{"empty_content"} }
func (f *EmptyContentFilter) ValidateConfig(settings map[string]any) error { return nil }

func (f *EmptyContentFilter) Check(ctx context.Context, a article.Article) Result {
	if strings.TrimSpace(a.Content) == "" {
		return Reject("empty_content")
	}
	return Accept()
}

func init() {
	Register("empty_content_filter", func() Filter {
		return &EmptyContentFilter{}
	})
}
