package filter

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osa030/readaloud/internal/domain/article"
	"github.com/osa030/readaloud/internal/infra/config"
)

func TestCategoryFilter_Check(t *testing.T) {
	f := NewCategoryFilter(article.CategoryScience)

	assert.True(t, f.Check(context.Background(), article.Article{Category: article.CategoryScience}).Accepted)

	result := f.Check(context.Background(), article.Article{Category: article.CategoryArt})
	assert.False(t, result.Accepted)
	assert.Equal(t, "category_mismatch", result.Code)
}

func TestDifficultyFilter_Check(t *testing.T) {
	tests := []struct {
		name         string
		allowed      []article.Difficulty
		difficulty   article.Difficulty
		wantAccepted bool
	}{
		{
			name:         "allowed level",
			allowed:      []article.Difficulty{article.DifficultyEasy, article.DifficultyMedium},
			difficulty:   article.DifficultyMedium,
			wantAccepted: true,
		},
		{
			name:         "level not allowed",
			allowed:      []article.Difficulty{article.DifficultyEasy},
			difficulty:   article.DifficultyHard,
			wantAccepted: false,
		},
		{
			name:         "no restriction",
			difficulty:   article.DifficultyHard,
			wantAccepted: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := NewDifficultyFilter(tt.allowed...)
			result := f.Check(context.Background(), article.Article{Difficulty: tt.difficulty})

			assert.Equal(t, tt.wantAccepted, result.Accepted)
			if !tt.wantAccepted {
				assert.Equal(t, "difficulty_not_allowed", result.Code)
			}
		})
	}
}

func TestDifficultyFilter_ValidateConfig(t *testing.T) {
	tests := []struct {
		name     string
		settings map[string]any
		wantErr  bool
	}{
		{
			name:     "valid levels",
			settings: map[string]any{"allowed": []any{"Easy", "medium"}},
		},
		{
			name:     "unknown level",
			settings: map[string]any{"allowed": []any{"Expert"}},
			wantErr:  true,
		},
		{
			name:     "missing allowed",
			settings: map[string]any{},
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := &DifficultyFilter{}
			err := f.ValidateConfig(tt.settings)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, f.Check(context.Background(), article.Article{Difficulty: article.DifficultyMedium}).Accepted)
			assert.False(t, f.Check(context.Background(), article.Article{Difficulty: article.DifficultyHard}).Accepted)
		})
	}
}

func TestSearchFilter_Check(t *testing.T) {
	a := article.Article{
		Title:   "The Future of Renewable Energy",
		Summary: "Solar and wind",
		Content: "Governments are investing in storage.",
	}

	tests := []struct {
		name         string
		term         string
		wantAccepted bool
	}{
		{name: "title match ignores case", term: "renewable", wantAccepted: true},
		{name: "summary match", term: "WIND", wantAccepted: true},
		{name: "content match", term: "storage", wantAccepted: true},
		{name: "empty term", term: "  ", wantAccepted: true},
		{name: "no match", term: "quantum", wantAccepted: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := NewSearchFilter(tt.term).Check(context.Background(), a)
			assert.Equal(t, tt.wantAccepted, result.Accepted)
			if !tt.wantAccepted {
				assert.Equal(t, "search_mismatch", result.Code)
			}
		})
	}
}

func TestEmptyContentFilter_Check(t *testing.T) {
	f := &EmptyContentFilter{}
	assert.True(t, f.Check(context.Background(), article.Article{Content: "text"}).Accepted)

	result := f.Check(context.Background(), article.Article{Content: " \n"})
	assert.False(t, result.Accepted)
	assert.Equal(t, "empty_content", result.Code)
}

func TestChain_ExecuteStopsAtFirstRejection(t *testing.T) {
	chain := NewChain(
		NewCategoryFilter(article.CategoryScience),
		NewDifficultyFilter(article.DifficultyEasy),
	)
	chain.Add(nil)
	assert.Len(t, chain.Filters(), 2)

	result := chain.Execute(context.Background(), article.Article{
		Category:   article.CategoryArt,
		Difficulty: article.DifficultyHard,
	})
	assert.False(t, result.Accepted)
	assert.Equal(t, "category_mismatch", result.Code)
}

func TestChain_ApplyPreservesOrder(t *testing.T) {
	articles := []article.Article{
		{ID: "1", Category: article.CategoryScience, Difficulty: article.DifficultyEasy},
		{ID: "2", Category: article.CategoryArt, Difficulty: article.DifficultyEasy},
		{ID: "3", Category: article.CategoryScience, Difficulty: article.DifficultyHard},
		{ID: "4", Category: article.CategoryScience, Difficulty: article.DifficultyEasy},
	}

	base := NewChain(NewCategoryFilter(article.CategoryScience))
	got := base.With(NewDifficultyFilter(article.DifficultyEasy)).Apply(context.Background(), articles)

	ids := make([]string, 0, len(got))
	for _, a := range got {
		ids = append(ids, a.ID)
	}
	assert.Equal(t, []string{"1", "4"}, ids)
	assert.Len(t, base.Filters(), 1, "With must not modify the base chain")
}

func TestNewChainFromConfig(t *testing.T) {
	chain, err := NewChainFromConfig(map[string]config.FilterConfig{
		"duration_limit_filter": {Enabled: true, Settings: map[string]any{"max_minutes": 5}},
		"empty_content_filter":  {Enabled: true},
		"difficulty_filter":     {Enabled: false},
	})
	require.NoError(t, err)
	require.Len(t, chain.Filters(), 2)
	assert.Equal(t, "duration_limit_filter", chain.Filters()[0].Name())
	assert.Equal(t, "empty_content_filter", chain.Filters()[1].Name())

	_, err = NewChainFromConfig(map[string]config.FilterConfig{
		"unknown_filter": {Enabled: true},
	})
	assert.Error(t, err)

	_, err = NewChainFromConfig(map[string]config.FilterConfig{
		"duration_limit_filter": {Enabled: true, Settings: map[string]any{"max_minutes": -3}},
	})
	assert.Error(t, err)
}

func TestRegistry(t *testing.T) {
	registered := GetRegistered()
	for _, name := range []string{"duration_limit_filter", "difficulty_filter", "empty_content_filter"} {
		factory, ok := registered[name]
		require.True(t, ok, name)
		assert.Equal(t, name, factory().Name())
	}
}
