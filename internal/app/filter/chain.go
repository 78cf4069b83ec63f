package filter

import (
	"context"
	"sort"

	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/readaloud/internal/domain/article"
	"github.com/osa030/readaloud/internal/infra/config"
)

// Chain executes filters in sequence.
type Chain struct {
	filters []Filter
}

// NewChain creates a new filter chain.
func NewChain(filters ...Filter) *Chain {
	c := &Chain{
		filters: make([]Filter, 0, len(filters)),
	}
	for _, f := range filters {
		c.Add(f)
	}
	return c
}

// NewChainFromConfig creates a chain of the enabled registered filters, in name order.
func NewChainFromConfig(filters map[string]config.FilterConfig) (*Chain, error) {
	names := make([]string, 0, len(filters))
	for name := range filters {
		names = append(names, name)
	}
	sort.Strings(names)

	chain := NewChain()
	for _, name := range names {
		cfg := filters[name]
		if !cfg.Enabled {
			continue
		}
		factory, ok := registry[name]
		if !ok {
			return nil, errors.Newf("unknown filter: %s", name)
		}
		f := factory()
		if err := f.ValidateConfig(cfg.Settings); err != nil {
			return nil, errors.Wrapf(err, "filter %s", name)
		}
		chain.Add(f)
		zlog.Info().Msgf("registered filter: name=%s", name)
	}
	return chain, nil
}

// Add adds a filter to the chain. Nil filters are ignored.
func (c *Chain) Add(f Filter) {
	if f == nil {
		return
	}
	c.filters = append(c.filters, f)
}

// Execute runs all filters in sequence.
// Returns immediately if any filter rejects the article.
func (c *Chain) Execute(ctx context.Context, a article.Article) Result {
	for _, f := range c.filters {
		result := f.Check(ctx, a)
		if !result.Accepted {
			return result
		}
	}
	return Accept()
}

// Apply returns the articles accepted by every filter, preserving order.
func (c *Chain) Apply(ctx context.Context, articles []article.Article) []article.Article {
	result := make([]article.Article, 0, len(articles))
	for _, a := range articles {
		if c.Execute(ctx, a).Accepted {
			result = append(result, a)
		}
	}
	return result
}

// With returns a new chain running c's filters followed by extra.
func (c *Chain) With(extra ...Filter) *Chain {
	combined := NewChain(c.filters...)
	for _, f := range extra {
		combined.Add(f)
	}
	return combined
}

// Filters returns all filters in the chain.
func (c *Chain) Filters() []Filter {
	return c.filters
}
