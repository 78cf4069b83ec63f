package catalog

import (
	"context"

	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/readaloud/internal/domain/article"
)

// ErrArticleNotFound is returned when an article ID is not in the catalog.
var ErrArticleNotFound = errors.New("article not found")

// SourceWithMetadata wraps a source with its metadata.
type SourceWithMetadata struct {
	Source      Source
	DisplayName string
}

// Chain merges the articles of several sources in order.
type Chain struct {
	sources []SourceWithMetadata
}

// NewChain creates a new source chain.
func NewChain(sources []SourceWithMetadata) *Chain {
	return &Chain{
		sources: sources,
	}
}

// ListArticles collects articles from all sources.
// A failing source is skipped; the first article with a given ID wins.
// Articles that fail validation are dropped.
func (c *Chain) ListArticles(ctx context.Context) ([]article.Article, error) {
	var all []article.Article
	seen := make(map[string]bool)
	failed := 0

	for i, sm := range c.sources {
		zlog.Debug().Msgf("listing source: index=%d total=%d name=%s source_type=%s",
			i+1, len(c.sources), sm.DisplayName, sm.Source.Name())

		articles, err := sm.Source.ListArticles(ctx)
		if err != nil {
			failed++
			zlog.Warn().Msgf("source failed, trying next: source=%s error=%v", sm.DisplayName, err)
			continue
		}

		added := 0
		for _, a := range articles {
			if err := a.Validate(); err != nil {
				zlog.Warn().Msgf("dropping invalid article: source=%s error=%v", sm.DisplayName, err)
				continue
			}
			if seen[a.ID] {
				continue
			}
			seen[a.ID] = true
			all = append(all, a)
			added++
		}

		zlog.Debug().Msgf("source returned articles: source=%s count=%d added=%d total_so_far=%d",
			sm.DisplayName, len(articles), added, len(all))
	}

	if len(c.sources) > 0 && failed == len(c.sources) {
		return nil, errors.New("all catalog sources failed")
	}

	return all, nil
}

// Sources returns the configured sources.
func (c *Chain) Sources() []SourceWithMetadata {
	return c.sources
}
