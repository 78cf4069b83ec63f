// Package player provides the player manager that owns the one playback controller.
package player

import (
	"context"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/readaloud/internal/app/catalog"
	"github.com/osa030/readaloud/internal/app/notification"
	"github.com/osa030/readaloud/internal/app/playback"
	"github.com/osa030/readaloud/internal/domain/article"
	"github.com/osa030/readaloud/internal/domain/history"
	"github.com/osa030/readaloud/internal/domain/playlist"
	"github.com/osa030/readaloud/internal/infra/config"
)

var (
	ErrArticleNotFound    = catalog.ErrArticleNotFound
	ErrHistoryUnavailable = errors.New("listening history is not available")
)

// recordTimeout bounds a single history write.
const recordTimeout = 5 * time.Second

// RecordStore persists listening records.
type RecordStore interface {
	AddRecord(ctx context.Context, r history.Record) error
	ListRecords(ctx context.Context, limit int) ([]history.Record, error)
}

// listening tracks the article that is currently current.
type listening struct {
	article article.Article
	since   time.Time
}

// Manager manages the narration player.
type Manager struct {
	// Components
	controller   *playback.Controller
	catalog      *catalog.Service
	notification *notification.Manager
	records      RecordStore // nil disables history

	location *time.Location
	now      func() time.Time

	// Owned by the event loop
	active *listening

	// Lifecycle
	startOnce sync.Once
	closeOnce sync.Once
	ctx       context.Context
	cancel    context.CancelFunc
	done      chan struct{}
}

// NewManager creates a new player manager.
// records may be nil, in which case no history is kept.
func NewManager(
	cfg *config.Config,
	engine playback.Engine,
	catalogSvc *catalog.Service,
	records RecordStore,
) (*Manager, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	m := &Manager{
		controller: playback.NewController(engine, playback.Config{
			Speak: playback.SpeakOptions{
				Lang: cfg.Speech.Lang,
				Rate: cfg.Speech.Rate,
			},
		}),
		catalog:      catalogSvc,
		notification: notification.NewManager(notification.DefaultSendTimeout),
		records:      records,
		location:     loc,
		now:          time.Now,
		ctx:          ctx,
		cancel:       cancel,
		done:         make(chan struct{}),
	}
	return m, nil
}

// Start runs the controller and the event loop in the background.
func (m *Manager) Start() {
	m.startOnce.Do(func() {
		go m.controller.Run(m.ctx)
		go m.eventLoop()
		zlog.Info().Msg("player started")
	})
}

// Done is closed when the event loop has stopped.
func (m *Manager) Done() <-chan struct{} {
	return m.done
}

// PlayArticle starts narrating articleID. The queue is queueIDs in the given
// order, or the articles matching query when queueIDs is empty.
func (m *Manager) PlayArticle(ctx context.Context, articleID string, queueIDs []string, query catalog.Query) error {
	a, err := m.catalog.Get(ctx, articleID)
	if err != nil {
		return err
	}

	var queue []article.Article
	if len(queueIDs) > 0 {
		queue, err = m.catalog.Resolve(ctx, queueIDs)
		if err != nil {
			return err
		}
	} else {
		page, err := m.catalog.Find(ctx, query)
		if err != nil {
			return err
		}
		queue = page.Articles
	}

	zlog.Info().Msgf("play article: id=%s queue=%d", a.ID, len(queue))
	zlog.Debug().Msgf("play article: queue ids=%v", playlist.New(queue).IDs())
	m.controller.PlayArticle(a, queue)
	return nil
}

// TogglePlay pauses or resumes narration.
func (m *Manager) TogglePlay() {
	m.controller.TogglePlay()
}

// PlayNext skips to the next article in the queue.
func (m *Manager) PlayNext() {
	m.controller.PlayNext()
}

// PlayPrev goes back to the previous article in the queue.
func (m *Manager) PlayPrev() {
	m.controller.PlayPrev()
}

// ClosePlayer stops narration and clears the session.
func (m *Manager) ClosePlayer() {
	m.controller.ClosePlayer()
}

// Status returns the current playback snapshot.
func (m *Manager) Status() playback.Snapshot {
	return m.controller.Snapshot()
}

// Queue returns the current queue.
func (m *Manager) Queue() []article.Article {
	return m.controller.Queue()
}

// Stats summarises the listening history.
func (m *Manager) Stats(ctx context.Context) (history.Stats, error) {
	if m.records == nil {
		return history.Stats{}, ErrHistoryUnavailable
	}
	records, err := m.records.ListRecords(ctx, 0)
	if err != nil {
		return history.Stats{}, errors.Wrap(err, "failed to list records")
	}
	return history.Summarize(records, m.now().In(m.location)), nil
}

// History returns the most recent listening records.
func (m *Manager) History(ctx context.Context, limit int) ([]history.Record, error) {
	if m.records == nil {
		return nil, ErrHistoryUnavailable
	}
	return m.records.ListRecords(ctx, limit)
}

// GetNotificationManager returns the notification manager.
func (m *Manager) GetNotificationManager() *notification.Manager {
	return m.notification
}

// Close stops the player and waits for the event loop when the player was started.
func (m *Manager) Close() {
	m.closeOnce.Do(func() {
		started := true
		m.startOnce.Do(func() { started = false })

		m.cancel()
		m.controller.Close()
		if started {
			<-m.done
		}
		m.notification.Close()
		zlog.Info().Msg("player closed")
	})
}

// eventLoop handles controller events until the event channel is closed.
func (m *Manager) eventLoop() {
	defer close(m.done)
	for event := range m.controller.Events() {
		m.handleEvent(event)
	}
}

// handleEvent records history and broadcasts the event.
func (m *Manager) handleEvent(event playback.Event) {
	defer func() {
		if r := recover(); r != nil {
			zlog.Error().Msgf("player event handler panicked: event=%s panic=%v", event.Type, r)
		}
	}()

	zlog.Debug().Msgf("playback event: type=%s state=%s", event.Type, event.State)

	switch event.Type {
	case playback.EventArticleStarted:
		m.beginListening(event.Article)

	case playback.EventArticleCompleted:
		m.endListening(event.Article, true)

	case playback.EventArticleReplaced, playback.EventClosed:
		m.endListening(event.Article, false)
	}

	ev := event
	m.notification.Broadcast(notification.Notification{
		Event:  &ev,
		Status: m.controller.Snapshot(),
	})
}

func (m *Manager) beginListening(a *article.Article) {
	if a == nil {
		return
	}
	m.active = &listening{article: *a, since: m.now()}
}

// endListening writes a record for the article that stopped being current.
func (m *Manager) endListening(a *article.Article, completed bool) {
	if a == nil || m.active == nil || m.active.article.ID != a.ID {
		return
	}
	active := m.active
	m.active = nil

	if m.records == nil {
		return
	}

	now := m.now()
	rec := history.Record{
		ArticleID:       active.article.ID,
		ArticleTitle:    active.article.Title,
		ListenedSeconds: int(now.Sub(active.since).Seconds()),
		Completed:       completed,
		CreatedAt:       now,
	}

	ctx, cancel := context.WithTimeout(context.Background(), recordTimeout)
	defer cancel()
	if err := m.records.AddRecord(ctx, rec); err != nil {
		zlog.Warn().Msgf("failed to record listening: article=%s error=%v", rec.ArticleID, err)
		return
	}
	zlog.Debug().Msgf("recorded listening: article=%s seconds=%d completed=%v", rec.ArticleID, rec.ListenedSeconds, rec.Completed)
}
