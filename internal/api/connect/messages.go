package connect

import (
	"time"

	"github.com/osa030/readaloud/internal/app/catalog"
	"github.com/osa030/readaloud/internal/app/notification"
	"github.com/osa030/readaloud/internal/app/playback"
	"github.com/osa030/readaloud/internal/domain/article"
	"github.com/osa030/readaloud/internal/domain/history"
)

// EventTypeInitialState marks the first message of every event stream.
const EventTypeInitialState = "initial_state"

// Article is the wire form of an article.
type Article struct {
	ID              string `json:"id"`
	Title           string `json:"title"`
	Summary         string `json:"summary"`
	Content         string `json:"content,omitempty"`
	Category        string `json:"category"`
	ImageURL        string `json:"imageUrl,omitempty"`
	Difficulty      string `json:"difficulty"`
	DurationMinutes int    `json:"durationMinutes"`
}

// PlayerStatus is the wire form of the playback snapshot.
type PlayerStatus struct {
	CurrentArticle *Article `json:"currentArticle,omitempty"`
	IsPlaying      bool     `json:"isPlaying"`
	State          string   `json:"state"`
	QueueLength    int      `json:"queueLength"`
	Position       int      `json:"position"`
	MediaURL       string   `json:"mediaUrl,omitempty"`
}

// ListeningRecord is the wire form of a history record.
type ListeningRecord struct {
	ArticleID       string    `json:"articleId"`
	ArticleTitle    string    `json:"articleTitle"`
	ListenedSeconds int       `json:"listenedSeconds"`
	Completed       bool      `json:"completed"`
	CreatedAt       time.Time `json:"createdAt"`
}

type PlayArticleRequest struct {
	ArticleID  string   `json:"articleId"`
	QueueIDs   []string `json:"queueIds,omitempty"`
	Category   string   `json:"category,omitempty"`
	Difficulty string   `json:"difficulty,omitempty"`
	Search     string   `json:"search,omitempty"`
}

// StatusResponse is returned by every player control procedure.
type StatusResponse struct {
	Status *PlayerStatus `json:"status"`
}

type TogglePlayRequest struct{}

type PlayNextRequest struct{}

type PlayPrevRequest struct{}

type ClosePlayerRequest struct{}

type GetStatusRequest struct {
	IncludeQueue bool `json:"includeQueue,omitempty"`
}

type GetStatusResponse struct {
	Status       *PlayerStatus `json:"status"`
	Queue        []*Article    `json:"queue,omitempty"`
	QueueMinutes int           `json:"queueMinutes,omitempty"`
}

type GetStatsRequest struct {
	RecentLimit int `json:"recentLimit,omitempty"`
}

type GetStatsResponse struct {
	TotalRecords    int                `json:"totalRecords"`
	CompletedCount  int                `json:"completedCount"`
	ListenedSeconds int                `json:"listenedSeconds"`
	StreakDays      int                `json:"streakDays"`
	Recent          []*ListeningRecord `json:"recent,omitempty"`
}

type SubscribeEventsRequest struct{}

// PlayerEvent is one message of the event stream.
type PlayerEvent struct {
	SequenceNo uint64        `json:"sequenceNo"`
	Type       string        `json:"type"`
	Article    *Article      `json:"article,omitempty"`
	Status     *PlayerStatus `json:"status"`
	Time       time.Time     `json:"time"`
}

type ListArticlesRequest struct {
	Category       string `json:"category,omitempty"`
	Difficulty     string `json:"difficulty,omitempty"`
	Search         string `json:"search,omitempty"`
	Offset         int    `json:"offset,omitempty"`
	Limit          int    `json:"limit,omitempty"`
	IncludeContent bool   `json:"includeContent,omitempty"`
}

type ListArticlesResponse struct {
	Articles []*Article `json:"articles"`
	Total    int        `json:"total"`
	Offset   int        `json:"offset"`
}

type ImportFeedRequest struct {
	URL      string `json:"url"`
	Category string `json:"category"`
}

type ImportFeedResponse struct {
	FeedTitle string `json:"feedTitle"`
	Fetched   int    `json:"fetched"`
	Added     int    `json:"added"`
	Skipped   int    `json:"skipped"`
}

type DeleteArticleRequest struct {
	ArticleID string `json:"articleId"`
}

type DeleteArticleResponse struct{}

func toArticle(a *article.Article, withContent bool) *Article {
	if a == nil {
		return nil
	}
	msg := &Article{
		ID:              a.ID,
		Title:           a.Title,
		Summary:         a.Summary,
		Category:        string(a.Category),
		ImageURL:        a.ImageURL,
		Difficulty:      string(a.Difficulty),
		DurationMinutes: a.DurationMinutes,
	}
	if withContent {
		msg.Content = a.Content
	}
	return msg
}

func toArticles(articles []article.Article, withContent bool) []*Article {
	result := make([]*Article, 0, len(articles))
	for i := range articles {
		result = append(result, toArticle(&articles[i], withContent))
	}
	return result
}

// toPlayerStatus converts a snapshot. The media URL points at the audio of
// the active utterance.
func toPlayerStatus(s playback.Snapshot) *PlayerStatus {
	status := &PlayerStatus{
		CurrentArticle: toArticle(s.CurrentArticle, false),
		IsPlaying:      s.IsPlaying,
		State:          s.State.String(),
		QueueLength:    s.QueueLength,
		Position:       s.Position,
	}
	if s.Utterance != "" {
		status.MediaURL = MediaPath(s.Utterance)
	}
	return status
}

// MediaPath returns the HTTP path serving an utterance's audio.
func MediaPath(u playback.Utterance) string {
	return "/media/" + string(u)
}

func toPlayerEvent(n *notification.Notification) *PlayerEvent {
	msg := &PlayerEvent{
		SequenceNo: n.SequenceNo,
		Type:       EventTypeInitialState,
		Status:     toPlayerStatus(n.Status),
		Time:       n.Time,
	}
	if n.Event != nil {
		msg.Type = n.Event.Type.String()
		msg.Article = toArticle(n.Event.Article, false)
	}
	return msg
}

func toListeningRecords(records []history.Record) []*ListeningRecord {
	result := make([]*ListeningRecord, 0, len(records))
	for _, r := range records {
		result = append(result, &ListeningRecord{
			ArticleID:       r.ArticleID,
			ArticleTitle:    r.ArticleTitle,
			ListenedSeconds: r.ListenedSeconds,
			Completed:       r.Completed,
			CreatedAt:       r.CreatedAt,
		})
	}
	return result
}

func toImportFeedResponse(r *catalog.ImportResult) *ImportFeedResponse {
	return &ImportFeedResponse{
		FeedTitle: r.FeedTitle,
		Fetched:   r.Fetched,
		Added:     r.Added,
		Skipped:   r.Skipped,
	}
}
