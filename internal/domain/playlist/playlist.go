// Package playlist provides the ordered narration queue.
package playlist

import "github.com/osa030/readaloud/internal/domain/article"

// Playlist is an ordered sequence of articles; insertion order is playback order.
type Playlist struct {
	Articles []article.Article
}

// New creates a playlist holding a copy of the given articles.
func New(articles []article.Article) Playlist {
	items := make([]article.Article, len(articles))
	copy(items, articles)
	return Playlist{Articles: items}
}

// Len returns the number of articles.
func (p Playlist) Len() int {
	return len(p.Articles)
}

// IsEmpty reports whether the playlist has no articles.
func (p Playlist) IsEmpty() bool {
	return len(p.Articles) == 0
}

// IndexOf returns the position of the article with the given ID, or -1.
func (p Playlist) IndexOf(id string) int {
	for i, a := range p.Articles {
		if a.ID == id {
			return i
		}
	}
	return -1
}

// NextOf returns the article after the one with the given ID, wrapping around.
// An ID that is not in the playlist counts as index -1, so the first article is returned.
func (p Playlist) NextOf(id string) (article.Article, bool) {
	n := len(p.Articles)
	if n == 0 {
		return article.Article{}, false
	}
	return p.Articles[(p.IndexOf(id)+1)%n], true
}

// PrevOf returns the article before the one with the given ID, wrapping around.
// An ID that is not in the playlist returns the last article.
func (p Playlist) PrevOf(id string) (article.Article, bool) {
	n := len(p.Articles)
	if n == 0 {
		return article.Article{}, false
	}
	i := p.IndexOf(id)
	if i < 0 {
		return p.Articles[n-1], true
	}
	return p.Articles[(i-1+n)%n], true
}

// IDs returns all article IDs in order.
func (p Playlist) IDs() []string {
	ids := make([]string, len(p.Articles))
	for i, a := range p.Articles {
		ids[i] = a.ID
	}
	return ids
}

// TotalMinutes returns the estimated narration time of the whole playlist.
func (p Playlist) TotalMinutes() int {
	var total int
	for _, a := range p.Articles {
		total += a.DurationMinutes
	}
	return total
}
