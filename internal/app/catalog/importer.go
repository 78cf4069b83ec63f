package catalog

import (
	"context"
	"math"
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/mmcdole/gofeed"
	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/readaloud/internal/domain/article"
)

const (
	importWordsPerMinute = 150
	summaryLength        = 200
)

// ImportResult reports what a feed import did.
type ImportResult struct {
	FeedTitle string
	Fetched   int // Items in the feed
	Added     int // Articles newly stored
	Skipped   int // Items without a link or readable text
}

// FeedImporter turns RSS/Atom feed items into stored articles.
type FeedImporter struct {
	parser *gofeed.Parser
	store  ArticleSaver
}

// NewFeedImporter creates a new feed importer.
func NewFeedImporter(store ArticleSaver) *FeedImporter {
	return &FeedImporter{
		parser: gofeed.NewParser(),
		store:  store,
	}
}

// Import fetches feedURL and stores its items under the given category.
func (f *FeedImporter) Import(ctx context.Context, feedURL string, category article.Category) (*ImportResult, error) {
	if !category.Valid() {
		return nil, errors.Wrapf(article.ErrInvalidCategory, "%q", category)
	}

	parsed, err := f.parser.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		return nil, errors.Wrapf(err, "parse feed %s", feedURL)
	}

	result := &ImportResult{FeedTitle: parsed.Title, Fetched: len(parsed.Items)}
	articles := make([]article.Article, 0, len(parsed.Items))
	for _, item := range parsed.Items {
		a, ok := itemToArticle(item, category)
		if !ok {
			result.Skipped++
			continue
		}
		articles = append(articles, a)
	}

	added, err := f.store.SaveArticles(ctx, articles)
	if err != nil {
		return nil, errors.Wrap(err, "save imported articles")
	}
	result.Added = added

	zlog.Info().Msgf("catalog: imported feed: url=%s title=%q fetched=%d added=%d skipped=%d",
		feedURL, parsed.Title, result.Fetched, result.Added, result.Skipped)
	return result, nil
}

// itemToArticle converts a feed item. It reports false for items that cannot be narrated.
func itemToArticle(item *gofeed.Item, category article.Category) (article.Article, bool) {
	key := item.Link
	if key == "" {
		key = item.GUID
	}
	title := strings.TrimSpace(item.Title)
	if key == "" || title == "" {
		return article.Article{}, false
	}

	html := item.Content
	if html == "" {
		html = item.Description
	}
	content, image := htmlToText(html)
	if content == "" {
		return article.Article{}, false
	}

	summary, _ := htmlToText(item.Description)
	if summary == "" || summary == content {
		summary = content
	}
	if len([]rune(summary)) > summaryLength {
		summary = truncate(summary, summaryLength) + "..."
	}

	if item.Image != nil && item.Image.URL != "" {
		image = item.Image.URL
	}
	for _, enc := range item.Enclosures {
		if image == "" && strings.HasPrefix(enc.Type, "image/") {
			image = enc.URL
		}
	}

	return article.Article{
		ID:              uuid.NewSHA1(uuid.NameSpaceURL, []byte(key)).String(),
		Title:           title,
		Summary:         summary,
		Content:         content,
		Category:        category,
		ImageURL:        image,
		Difficulty:      EstimateDifficulty(content),
		DurationMinutes: EstimateMinutes(content),
	}, true
}

// htmlToText extracts readable paragraphs and the first image source from HTML.
func htmlToText(html string) (string, string) {
	if strings.TrimSpace(html) == "" {
		return "", ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", ""
	}
	doc.Find("script, style, noscript").Remove()

	image, _ := doc.Find("img").First().Attr("src")

	var paragraphs []string
	doc.Find("p, li, h1, h2, h3, blockquote").Each(func(_ int, s *goquery.Selection) {
		if s.Find("p").Length() > 0 {
			// Nested paragraphs are visited on their own
			return
		}
		if text := normalizeSpace(s.Text()); text != "" {
			paragraphs = append(paragraphs, text)
		}
	})
	if len(paragraphs) == 0 {
		if text := normalizeSpace(doc.Text()); text != "" {
			paragraphs = append(paragraphs, text)
		}
	}
	return strings.Join(paragraphs, "\n\n"), image
}

func normalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// EstimateDifficulty grades text by average sentence length and word length.
func EstimateDifficulty(text string) article.Difficulty {
	words := strings.Fields(text)
	if len(words) == 0 {
		return article.DifficultyEasy
	}

	sentences := strings.FieldsFunc(text, func(r rune) bool {
		return r == '.' || r == '!' || r == '?'
	})
	sentenceCount := 0
	for _, s := range sentences {
		if strings.TrimSpace(s) != "" {
			sentenceCount++
		}
	}
	if sentenceCount == 0 {
		sentenceCount = 1
	}

	letters := 0
	for _, w := range words {
		for _, r := range w {
			if unicode.IsLetter(r) {
				letters++
			}
		}
	}

	wordsPerSentence := float64(len(words)) / float64(sentenceCount)
	lettersPerWord := float64(letters) / float64(len(words))

	switch {
	case wordsPerSentence >= 24 || lettersPerWord >= 5.6:
		return article.DifficultyHard
	case wordsPerSentence >= 15 || lettersPerWord >= 4.8:
		return article.DifficultyMedium
	default:
		return article.DifficultyEasy
	}
}

// EstimateMinutes returns the reading time at 150 words per minute, at least one minute.
func EstimateMinutes(text string) int {
	words := len(strings.Fields(text))
	minutes := int(math.Ceil(float64(words) / importWordsPerMinute))
	if minutes < 1 {
		minutes = 1
	}
	return minutes
}
