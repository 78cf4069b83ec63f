package playback

import "github.com/osa030/readaloud/internal/domain/article"

// EventType represents a playback event type.
type EventType int

const (
	EventArticleStarted   EventType = iota // Narration of an article started
	EventArticleCompleted                  // Narration reached the end naturally
	EventArticleReplaced                   // Current article was interrupted by another one
	EventPaused                            // Narration suspended
	EventResumed                           // Narration resumed
	EventClosed                            // Player closed
	EventQueueEnded                        // Narration completed with nothing left to play
)

// String returns the string representation of the event type.
func (e EventType) String() string {
	switch e {
	case EventArticleStarted:
		return "article_started"
	case EventArticleCompleted:
		return "article_completed"
	case EventArticleReplaced:
		return "article_replaced"
	case EventPaused:
		return "paused"
	case EventResumed:
		return "resumed"
	case EventClosed:
		return "closed"
	case EventQueueEnded:
		return "queue_ended"
	default:
		return "unknown"
	}
}

// Event represents a playback event.
type Event struct {
	Type      EventType
	Article   *article.Article // Article the event refers to (nil for some events)
	State     State            // Playback state after the event
	Utterance Utterance        // Active utterance after the event
}
