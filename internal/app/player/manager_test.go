package player

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osa030/readaloud/internal/app/catalog"
	"github.com/osa030/readaloud/internal/app/notification"
	"github.com/osa030/readaloud/internal/app/playback"
	"github.com/osa030/readaloud/internal/domain/article"
	"github.com/osa030/readaloud/internal/infra/config"
	"github.com/osa030/readaloud/internal/infra/store"
)

// manualEngine completes utterances only when the test says so.
type manualEngine struct {
	mu          sync.Mutex
	seq         int
	active      playback.Utterance
	paused      bool
	completions chan playback.Utterance
}

func newManualEngine() *manualEngine {
	return &manualEngine{completions: make(chan playback.Utterance, 8)}
}

func (e *manualEngine) Available() bool { return true }

func (e *manualEngine) Speak(text string, opts playback.SpeakOptions) (playback.Utterance, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.seq++
	e.active = playback.Utterance(fmt.Sprintf("u-%d", e.seq))
	e.paused = false
	return e.active, nil
}

func (e *manualEngine) Pause(u playback.Utterance) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if u == e.active {
		e.paused = true
	}
}

func (e *manualEngine) Resume(u playback.Utterance) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if u == e.active {
		e.paused = false
	}
}

func (e *manualEngine) Cancel(u playback.Utterance) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if u == e.active {
		e.active = ""
		e.paused = false
	}
}

func (e *manualEngine) Speaking() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.active != ""
}

func (e *manualEngine) Paused() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.paused
}

func (e *manualEngine) Completions() <-chan playback.Utterance {
	return e.completions
}

// finish completes the active utterance.
func (e *manualEngine) finish() {
	e.mu.Lock()
	u := e.active
	e.active = ""
	e.mu.Unlock()
	if u != "" {
		e.completions <- u
	}
}

// fakeClock is a settable clock shared with the event loop.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// channelStream forwards notifications to a channel.
type channelStream chan *notification.Notification

func (s channelStream) Send(n *notification.Notification) error {
	s <- n
	return nil
}

type fixture struct {
	manager *Manager
	engine  *manualEngine
	records *store.SQLiteStore
	clock   *fakeClock
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	records, err := store.NewSQLite(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { records.Close() })

	cfg := &config.Config{
		Speech:  config.SpeechConfig{Lang: "en-US", Rate: 0.9},
		History: config.HistoryConfig{Timezone: "UTC"},
	}
	engine := newManualEngine()
	m, err := NewManager(cfg, engine, catalog.NewService(catalog.NewSampleSource(), nil), records)
	require.NoError(t, err)

	clock := &fakeClock{now: time.Date(2026, 5, 4, 8, 0, 0, 0, time.UTC)}
	m.now = clock.Now

	m.Start()
	t.Cleanup(m.Close)

	return &fixture{manager: m, engine: engine, records: records, clock: clock}
}

func (f *fixture) waitRecords(t *testing.T, n int) {
	t.Helper()
	require.Eventually(t, func() bool {
		records, err := f.records.ListRecords(context.Background(), 0)
		return err == nil && len(records) == n
	}, time.Second, 5*time.Millisecond)
}

func TestManager_PlayArticleWithExplicitQueue(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	err := f.manager.PlayArticle(ctx, "cet6-003", []string{"cet6-001", "cet6-003", "cet6-005"}, catalog.Query{})
	require.NoError(t, err)

	status := f.manager.Status()
	require.NotNil(t, status.CurrentArticle)
	assert.Equal(t, "cet6-003", status.CurrentArticle.ID)
	assert.True(t, status.IsPlaying)
	assert.Equal(t, 3, status.QueueLength)
	assert.Equal(t, 1, status.Position)

	f.manager.PlayNext()
	assert.Equal(t, "cet6-005", f.manager.Status().CurrentArticle.ID)
	f.manager.PlayNext()
	assert.Equal(t, "cet6-001", f.manager.Status().CurrentArticle.ID, "next wraps to the start")
	f.manager.PlayPrev()
	assert.Equal(t, "cet6-005", f.manager.Status().CurrentArticle.ID, "prev wraps to the end")
}

func TestManager_PlayArticleWithQuery(t *testing.T) {
	f := newFixture(t)

	err := f.manager.PlayArticle(context.Background(), "cet6-003", nil, catalog.Query{Difficulty: article.DifficultyHard})
	require.NoError(t, err)

	queue := f.manager.Queue()
	require.Len(t, queue, 2)
	assert.Equal(t, "cet6-003", queue[0].ID)
	assert.Equal(t, "cet6-005", queue[1].ID)
}

func TestManager_PlayArticleErrors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	err := f.manager.PlayArticle(ctx, "missing", nil, catalog.Query{})
	assert.True(t, errors.Is(err, ErrArticleNotFound))

	err = f.manager.PlayArticle(ctx, "cet6-001", []string{"cet6-001", "missing"}, catalog.Query{})
	assert.True(t, errors.Is(err, ErrArticleNotFound))

	err = f.manager.PlayArticle(ctx, "cet6-001", nil, catalog.Query{Category: "Sports"})
	assert.True(t, errors.Is(err, article.ErrInvalidCategory))

	assert.Nil(t, f.manager.Status().CurrentArticle, "failed requests do not touch the player")
}

func waitEvent(t *testing.T, stream channelStream, want playback.EventType) {
	t.Helper()
	timeout := time.After(time.Second)
	for {
		select {
		case n := <-stream:
			if n.Event != nil && n.Event.Type == want {
				return
			}
		case <-timeout:
			t.Fatalf("timed out waiting for %s", want)
		}
	}
}

func TestManager_RecordsHistory(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	stream := make(channelStream, 32)
	f.manager.GetNotificationManager().Subscribe(stream)

	require.NoError(t, f.manager.PlayArticle(ctx, "cet6-001", []string{"cet6-001", "cet6-002"}, catalog.Query{}))
	waitEvent(t, stream, playback.EventArticleStarted)

	f.clock.Advance(90 * time.Second)
	f.engine.finish()
	waitEvent(t, stream, playback.EventArticleCompleted)
	waitEvent(t, stream, playback.EventArticleStarted)
	assert.Equal(t, "cet6-002", f.manager.Status().CurrentArticle.ID, "completion advances to the next article")
	f.waitRecords(t, 1)

	f.clock.Advance(10 * time.Second)
	f.manager.ClosePlayer()
	f.waitRecords(t, 2)

	records, err := f.records.ListRecords(ctx, 0)
	require.NoError(t, err)

	byArticle := map[string]int{}
	for i, r := range records {
		byArticle[r.ArticleID] = i
	}
	completed := records[byArticle["cet6-001"]]
	assert.True(t, completed.Completed)
	assert.Equal(t, 90, completed.ListenedSeconds)
	assert.Equal(t, "The Impact of Artificial Intelligence on Future Jobs", completed.ArticleTitle)

	closed := records[byArticle["cet6-002"]]
	assert.False(t, closed.Completed)
	assert.Equal(t, 10, closed.ListenedSeconds)

	stats, err := f.manager.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalRecords)
	assert.Equal(t, 1, stats.CompletedCount)
	assert.Equal(t, 100, stats.ListenedSeconds)
	assert.Equal(t, 1, stats.StreakDays)

	recent, err := f.manager.History(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, recent, 1)
}

func TestManager_BroadcastsEvents(t *testing.T) {
	f := newFixture(t)
	stream := make(channelStream, 16)
	f.manager.GetNotificationManager().Subscribe(stream)

	require.NoError(t, f.manager.PlayArticle(context.Background(), "cet6-004", []string{"cet6-004"}, catalog.Query{}))
	f.manager.TogglePlay()

	var types []playback.EventType
	timeout := time.After(time.Second)
	for len(types) < 2 {
		select {
		case n := <-stream:
			require.NotNil(t, n.Event)
			types = append(types, n.Event.Type)
		case <-timeout:
			t.Fatalf("expected two notifications, got %v", types)
		}
	}
	assert.Equal(t, []playback.EventType{playback.EventArticleStarted, playback.EventPaused}, types)
	assert.False(t, f.manager.Status().IsPlaying)
}

func TestManager_WithoutHistory(t *testing.T) {
	cfg := &config.Config{History: config.HistoryConfig{Timezone: "UTC"}}
	m, err := NewManager(cfg, newManualEngine(), catalog.NewService(catalog.NewSampleSource(), nil), nil)
	require.NoError(t, err)
	defer m.Close()

	_, err = m.Stats(context.Background())
	assert.True(t, errors.Is(err, ErrHistoryUnavailable))
	_, err = m.History(context.Background(), 5)
	assert.True(t, errors.Is(err, ErrHistoryUnavailable))
}

func TestNewManager_InvalidTimezone(t *testing.T) {
	cfg := &config.Config{History: config.HistoryConfig{Timezone: "Nowhere/Town"}}
	_, err := NewManager(cfg, newManualEngine(), catalog.NewService(catalog.NewSampleSource(), nil), nil)
	assert.Error(t, err)
}
