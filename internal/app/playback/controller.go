package playback

import (
	"context"
	"sync"

	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/readaloud/internal/domain/article"
	"github.com/osa030/readaloud/internal/domain/playlist"
)

// DefaultSpeakOptions are used when the config leaves them empty.
var DefaultSpeakOptions = SpeakOptions{Lang: "en-US", Rate: 0.9}

// Config holds controller configuration.
type Config struct {
	Speak        SpeakOptions // Options passed to every Speak call
	EventBufSize int          // Event channel capacity
}

// Snapshot is the read-only projection of the playback session.
type Snapshot struct {
	CurrentArticle *article.Article
	IsPlaying      bool
	State          State
	QueueLength    int
	Position       int // Index of the current article in the queue, -1 if absent
	Utterance      Utterance
}

// Controller owns the playback session and is the sole user of the narration engine.
// At most one utterance is active; every operation that starts a narration
// cancels the active one first, inside the same critical section.
type Controller struct {
	mu sync.Mutex

	engine Engine
	config Config

	// Session state
	current   *article.Article
	queue     playlist.Playlist
	state     State
	utterance Utterance

	// Events
	eventCh chan Event
	closed  bool

	// Context
	ctx    context.Context
	cancel context.CancelFunc
}

// NewController creates a new playback controller.
// A nil or unavailable engine turns every operation into a no-op.
func NewController(engine Engine, config Config) *Controller {
	if config.Speak.Lang == "" {
		config.Speak.Lang = DefaultSpeakOptions.Lang
	}
	if config.Speak.Rate <= 0 {
		config.Speak.Rate = DefaultSpeakOptions.Rate
	}
	if config.EventBufSize <= 0 {
		config.EventBufSize = 32
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Controller{
		engine:  engine,
		config:  config,
		state:   StateIdle,
		eventCh: make(chan Event, config.EventBufSize),
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Events returns the event channel. It is closed by Close.
func (c *Controller) Events() <-chan Event {
	return c.eventCh
}

// Run consumes engine completions until ctx is done or the controller is closed.
func (c *Controller) Run(ctx context.Context) {
	if !c.available() {
		select {
		case <-ctx.Done():
		case <-c.ctx.Done():
		}
		return
	}

	completions := c.engine.Completions()
	for {
		select {
		case <-ctx.Done():
			return
		case <-c.ctx.Done():
			return
		case u, ok := <-completions:
			if !ok {
				return
			}
			c.handleCompletion(u)
		}
	}
}

// PlayArticle interrupts whatever is narrating and starts the given article
// with queue as the navigation order.
func (c *Controller) PlayArticle(a article.Article, queue []article.Article) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.available() {
		return
	}
	c.replaceLocked(a, playlist.New(queue))
}

// TogglePlay alternates between playing and paused.
func (c *Controller) TogglePlay() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.available() || c.current == nil {
		return
	}

	switch c.state {
	case StatePlaying:
		c.engine.Pause(c.utterance)
		c.state = StatePaused
		c.sendEventLocked(EventPaused, c.current)

	case StatePaused:
		if c.utterance != "" && c.engine.Paused() {
			c.engine.Resume(c.utterance)
		} else if !c.engine.Speaking() {
			// The engine dropped the suspended request; start over.
			zlog.Debug().Msgf("playback: nothing in flight, restarting article=%s", c.current.ID)
			c.startLocked(*c.current, c.queue)
			return
		}
		c.state = StatePlaying
		c.sendEventLocked(EventResumed, c.current)
	}
}

// PlayNext plays the article after the current one, wrapping at the end of the queue.
func (c *Controller) PlayNext() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.available() || c.current == nil {
		return
	}
	next, ok := c.queue.NextOf(c.current.ID)
	if !ok {
		return
	}
	c.replaceLocked(next, c.queue)
}

// PlayPrev plays the article before the current one, wrapping at the start of the queue.
func (c *Controller) PlayPrev() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.available() || c.current == nil {
		return
	}
	prev, ok := c.queue.PrevOf(c.current.ID)
	if !ok {
		return
	}
	c.replaceLocked(prev, c.queue)
}

// ClosePlayer cancels narration and resets the session.
func (c *Controller) ClosePlayer() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.cancelActiveLocked()

	closed := c.current
	c.current = nil
	c.queue = playlist.Playlist{}
	c.state = StateIdle

	if closed != nil {
		c.sendEventLocked(EventClosed, closed)
	}
}

// Snapshot returns the current session state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := Snapshot{
		CurrentArticle: copyArticle(c.current),
		IsPlaying:      c.state == StatePlaying,
		State:          c.state,
		QueueLength:    c.queue.Len(),
		Position:       -1,
		Utterance:      c.utterance,
	}
	if c.current != nil {
		s.Position = c.queue.IndexOf(c.current.ID)
	}
	return s
}

// Queue returns a copy of the current queue.
func (c *Controller) Queue() []article.Article {
	c.mu.Lock()
	defer c.mu.Unlock()

	result := make([]article.Article, c.queue.Len())
	copy(result, c.queue.Articles)
	return result
}

// Close stops narration and closes the event channel.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	c.cancel()
	c.cancelActiveLocked()
	c.current = nil
	c.state = StateIdle
	c.closed = true
	close(c.eventCh)
}

// handleCompletion auto-advances when the active utterance finishes.
// Completions of cancelled or superseded utterances are discarded.
func (c *Controller) handleCompletion(u Utterance) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if u == "" || u != c.utterance || c.current == nil {
		zlog.Debug().Msgf("playback: ignoring stale completion: utterance=%s active=%s", u, c.utterance)
		return
	}

	if c.state == StatePaused {
		// Paused after the engine finished; the next toggle restarts the article.
		zlog.Debug().Msgf("playback: completion while paused, holding article=%s", c.current.ID)
		c.utterance = ""
		return
	}

	finished := c.current
	c.utterance = ""
	c.sendEventLocked(EventArticleCompleted, finished)

	next, ok := c.queue.NextOf(finished.ID)
	if !ok {
		c.current = nil
		c.state = StateIdle
		c.sendEventLocked(EventQueueEnded, finished)
		return
	}
	c.startLocked(next, c.queue)
}

// replaceLocked reports the interrupted article, then starts a.
// Must be called with lock held.
func (c *Controller) replaceLocked(a article.Article, queue playlist.Playlist) {
	if c.current != nil {
		c.sendEventLocked(EventArticleReplaced, c.current)
	}
	c.startLocked(a, queue)
}

// startLocked cancels the active utterance and narrates a.
// Must be called with lock held.
func (c *Controller) startLocked(a article.Article, queue playlist.Playlist) {
	c.cancelActiveLocked()

	current := a
	c.current = &current
	c.queue = queue

	u, err := c.engine.Speak(a.Content, c.config.Speak)
	if err != nil {
		zlog.Warn().Msgf("playback: failed to start narration: article=%s error=%v", a.ID, err)
		c.state = StatePaused
		c.sendEventLocked(EventPaused, c.current)
		return
	}

	c.utterance = u
	c.state = StatePlaying
	zlog.Debug().Msgf("playback: narrating article=%s words=%d utterance=%s queue=%d", a.ID, current.WordCount(), u, queue.Len())
	c.sendEventLocked(EventArticleStarted, c.current)
}

// cancelActiveLocked cancels the in-flight utterance, if any.
// Must be called with lock held.
func (c *Controller) cancelActiveLocked() {
	if c.utterance != "" && c.available() {
		c.engine.Cancel(c.utterance)
	}
	c.utterance = ""
}

func (c *Controller) available() bool {
	return c.engine != nil && c.engine.Available()
}

// sendEventLocked sends an event without blocking.
// Must be called with lock held.
func (c *Controller) sendEventLocked(t EventType, a *article.Article) {
	if c.closed {
		return
	}
	e := Event{
		Type:      t,
		Article:   copyArticle(a),
		State:     c.state,
		Utterance: c.utterance,
	}
	select {
	case c.eventCh <- e:
	default:
		zlog.Warn().Msgf("playback: event channel full, dropping event=%s", t)
	}
}

func copyArticle(a *article.Article) *article.Article {
	if a == nil {
		return nil
	}
	cp := *a
	return &cp
}
