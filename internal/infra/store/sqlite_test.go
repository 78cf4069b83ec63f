package store

import (
	"context"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osa030/readaloud/internal/domain/article"
	"github.com/osa030/readaloud/internal/domain/history"
	"github.com/osa030/readaloud/internal/infra/config"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLite(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleArticle(id string) article.Article {
	return article.Article{
		ID:              id,
		Title:           "Title " + id,
		Summary:         "Summary",
		Content:         "Content of " + id,
		Category:        article.CategoryTechnology,
		ImageURL:        "https://example.com/" + id + ".jpg",
		Difficulty:      article.DifficultyMedium,
		DurationMinutes: 4,
	}
}

func TestSQLiteStore_Articles(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	assert.Equal(t, "SQLite", s.DatabaseType())

	added, err := s.SaveArticles(ctx, []article.Article{sampleArticle("a"), sampleArticle("b")})
	require.NoError(t, err)
	assert.Equal(t, 2, added)

	// Re-saving keeps the first copy
	dup := sampleArticle("a")
	dup.Title = "changed"
	added, err = s.SaveArticles(ctx, []article.Article{dup, sampleArticle("c")})
	require.NoError(t, err)
	assert.Equal(t, 1, added)

	got, err := s.GetArticle(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, sampleArticle("a"), *got)

	all, err := s.ListArticles(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	require.NoError(t, s.DeleteArticle(ctx, "b"))
	_, err = s.GetArticle(ctx, "b")
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.True(t, errors.Is(s.DeleteArticle(ctx, "b"), ErrNotFound))
}

func TestSQLiteStore_SaveRejectsInvalid(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	bad := sampleArticle("bad")
	bad.Difficulty = "Expert"
	_, err := s.SaveArticles(ctx, []article.Article{sampleArticle("ok"), bad})
	assert.Error(t, err)

	all, err := s.ListArticles(ctx)
	require.NoError(t, err)
	assert.Empty(t, all, "nothing is written when any article is invalid")
}

func TestSQLiteStore_Records(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	base := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	for i, completed := range []bool{true, false, true} {
		require.NoError(t, s.AddRecord(ctx, history.Record{
			ArticleID:       "a",
			ArticleTitle:    "Title a",
			ListenedSeconds: 60 * (i + 1),
			Completed:       completed,
			CreatedAt:       base.Add(time.Duration(i) * time.Hour),
		}))
	}

	records, err := s.ListRecords(ctx, 0)
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, 180, records[0].ListenedSeconds, "newest first")
	assert.True(t, records[0].Completed)
	assert.False(t, records[1].Completed)
	assert.NotEmpty(t, records[0].ID)
	assert.True(t, records[2].CreatedAt.Equal(base))

	limited, err := s.ListRecords(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)

	assert.Error(t, s.AddRecord(ctx, history.Record{}), "article id is required")
}

func TestOpen(t *testing.T) {
	s, err := Open(config.DatabaseConfig{Driver: "sqlite", DSN: ":memory:"})
	require.NoError(t, err)
	defer s.Close()
	assert.Equal(t, "SQLite", s.DatabaseType())

	_, err = Open(config.DatabaseConfig{Driver: "mysql"})
	assert.Error(t, err)
}

func TestArticleRow_RejectsUnknownEnums(t *testing.T) {
	r := newArticleRow(sampleArticle("x"), time.Now())
	r.Category = "Sports"
	_, err := r.toArticle()
	assert.Error(t, err)
}
