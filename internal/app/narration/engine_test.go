package narration

import (
	"context"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osa030/readaloud/internal/app/playback"
	"github.com/osa030/readaloud/internal/domain/article"
	"github.com/osa030/readaloud/internal/infra/tts"
)

// stubSynthesizer returns a fixed audio, optionally waiting for release first.
type stubSynthesizer struct {
	duration time.Duration
	data     []byte
	err      error
	release  chan struct{}
}

func (s *stubSynthesizer) Synthesize(ctx context.Context, text string, opts tts.Options) (*tts.Audio, error) {
	if s.release != nil {
		select {
		case <-s.release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if s.err != nil {
		return nil, s.err
	}
	return &tts.Audio{Data: s.data, Format: "mp3", Duration: s.duration}, nil
}

func (s *stubSynthesizer) Name() string {
	return "stub"
}

func waitCompletion(t *testing.T, e *Engine, timeout time.Duration) (playback.Utterance, bool) {
	t.Helper()
	select {
	case u := <-e.Completions():
		return u, true
	case <-time.After(timeout):
		return "", false
	}
}

func TestEngine_SpeakCompletes(t *testing.T) {
	e := New(&stubSynthesizer{duration: 20 * time.Millisecond, data: []byte("mp3")}, Config{})
	defer e.Close()

	u, err := e.Speak("hello", playback.SpeakOptions{Lang: "en-US", Rate: 1})
	require.NoError(t, err)
	assert.NotEmpty(t, u)
	assert.True(t, e.Speaking())

	got, ok := waitCompletion(t, e, time.Second)
	require.True(t, ok, "expected completion")
	assert.Equal(t, u, got)
	assert.False(t, e.Speaking())

	audio, ok := e.Audio(u)
	require.True(t, ok)
	assert.Equal(t, []byte("mp3"), audio.Data)
}

func TestEngine_CancelSuppressesCompletion(t *testing.T) {
	e := New(&stubSynthesizer{duration: 30 * time.Millisecond}, Config{})
	defer e.Close()

	u, err := e.Speak("hello", playback.SpeakOptions{Rate: 1})
	require.NoError(t, err)
	e.Cancel(u)

	assert.False(t, e.Speaking())
	_, ok := waitCompletion(t, e, 150*time.Millisecond)
	assert.False(t, ok, "cancelled utterance must not complete")
}

func TestEngine_SpeakReplacesPrevious(t *testing.T) {
	e := New(&stubSynthesizer{duration: 30 * time.Millisecond}, Config{})
	defer e.Close()

	first, err := e.Speak("first", playback.SpeakOptions{Rate: 1})
	require.NoError(t, err)
	second, err := e.Speak("second", playback.SpeakOptions{Rate: 1})
	require.NoError(t, err)
	assert.NotEqual(t, first, second)

	got, ok := waitCompletion(t, e, time.Second)
	require.True(t, ok)
	assert.Equal(t, second, got)

	_, ok = waitCompletion(t, e, 100*time.Millisecond)
	assert.False(t, ok, "only the latest utterance completes")
}

func TestEngine_PauseAndResume(t *testing.T) {
	e := New(&stubSynthesizer{duration: 100 * time.Millisecond}, Config{})
	defer e.Close()

	u, err := e.Speak("hello", playback.SpeakOptions{Rate: 1})
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		e.mu.Lock()
		defer e.mu.Unlock()
		return e.current != nil && e.current.ready
	}, time.Second, 5*time.Millisecond)

	e.Pause(u)
	assert.True(t, e.Paused())
	assert.True(t, e.Speaking(), "paused utterance is still in flight")

	_, ok := waitCompletion(t, e, 200*time.Millisecond)
	assert.False(t, ok, "paused utterance must not complete")

	e.Resume(u)
	assert.False(t, e.Paused())

	got, ok := waitCompletion(t, e, time.Second)
	require.True(t, ok)
	assert.Equal(t, u, got)
}

func TestEngine_PauseDuringSynthesis(t *testing.T) {
	synth := &stubSynthesizer{duration: 10 * time.Millisecond, release: make(chan struct{})}
	e := New(synth, Config{})
	defer e.Close()

	u, err := e.Speak("hello", playback.SpeakOptions{Rate: 1})
	require.NoError(t, err)
	e.Pause(u)
	close(synth.release)

	_, ok := waitCompletion(t, e, 100*time.Millisecond)
	assert.False(t, ok, "timer must not start while paused")

	e.Resume(u)
	got, ok := waitCompletion(t, e, time.Second)
	require.True(t, ok)
	assert.Equal(t, u, got)
}

func TestEngine_SynthesisFailureCompletesImmediately(t *testing.T) {
	e := New(&stubSynthesizer{err: errors.New("quota exceeded")}, Config{})
	defer e.Close()

	u, err := e.Speak("hello", playback.SpeakOptions{Rate: 1})
	require.NoError(t, err)

	got, ok := waitCompletion(t, e, time.Second)
	require.True(t, ok)
	assert.Equal(t, u, got)

	_, ok = e.Audio(u)
	assert.False(t, ok)
}

func TestEngine_IgnoresForeignTokens(t *testing.T) {
	e := New(&stubSynthesizer{duration: 50 * time.Millisecond}, Config{})
	defer e.Close()

	u, err := e.Speak("hello", playback.SpeakOptions{Rate: 1})
	require.NoError(t, err)

	e.Pause("other")
	e.Cancel("other")
	assert.False(t, e.Paused())
	assert.True(t, e.Speaking())

	got, ok := waitCompletion(t, e, time.Second)
	require.True(t, ok)
	assert.Equal(t, u, got)
}

func TestEngine_AudioRetention(t *testing.T) {
	e := New(&stubSynthesizer{duration: time.Millisecond, data: []byte("x")}, Config{AudioRetention: 2})
	defer e.Close()

	var ids []playback.Utterance
	for i := 0; i < 3; i++ {
		u, err := e.Speak("hello", playback.SpeakOptions{Rate: 1})
		require.NoError(t, err)
		_, ok := waitCompletion(t, e, time.Second)
		require.True(t, ok)
		ids = append(ids, u)
	}

	_, ok := e.Audio(ids[0])
	assert.False(t, ok, "oldest audio should be evicted")
	_, ok = e.Audio(ids[2])
	assert.True(t, ok)
}

func TestEngine_Unavailable(t *testing.T) {
	e := New(nil, Config{})
	assert.False(t, e.Available())

	_, err := e.Speak("hello", playback.SpeakOptions{})
	assert.Error(t, err)
}

func TestEngine_Closed(t *testing.T) {
	e := New(&stubSynthesizer{duration: time.Second}, Config{})
	_, err := e.Speak("hello", playback.SpeakOptions{Rate: 1})
	require.NoError(t, err)

	e.Close()
	assert.False(t, e.Speaking())

	_, err = e.Speak("again", playback.SpeakOptions{Rate: 1})
	assert.True(t, errors.Is(err, ErrClosed))
}

func TestEngine_DrivesController(t *testing.T) {
	e := New(&stubSynthesizer{duration: 10 * time.Millisecond}, Config{})
	defer e.Close()
	c := playback.NewController(e, playback.Config{})
	defer c.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go c.Run(ctx)

	c.PlayArticle(testArticle("a"), nil)

	require.Eventually(t, func() bool {
		return c.Snapshot().State == playback.StateIdle
	}, time.Second, 5*time.Millisecond, "empty queue completion should end in idle")
	assert.False(t, e.Speaking())
}

func testArticle(id string) article.Article {
	return article.Article{
		ID:         id,
		Title:      "Article " + id,
		Content:    "Some narration text",
		Category:   article.CategoryScience,
		Difficulty: article.DifficultyEasy,
	}
}
