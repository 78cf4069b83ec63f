// Package narration provides the server-side narration engine.
//
// The engine holds at most one utterance. Speech is synthesized in the
// background, then "spoken" for the audio's duration on a timer that can be
// paused and resumed. Clients fetch the synthesized audio by utterance token.
package narration

import (
	"context"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/readaloud/internal/app/playback"
	"github.com/osa030/readaloud/internal/infra/tts"
)

var ErrClosed = errors.New("narration engine is closed")

// Config holds engine configuration.
type Config struct {
	SynthesisTimeout time.Duration // Upper bound for one synthesis
	AudioRetention   int           // Number of recent utterances whose audio is kept
}

// utterance is the single in-flight narration.
type utterance struct {
	id        playback.Utterance
	cancel    context.CancelFunc
	ready     bool          // Synthesis finished
	paused    bool          // Suspended by Pause
	remaining time.Duration // Playback time left when the timer is not running
	startedAt time.Time     // When the running timer was started
	timer     *time.Timer
	gen       int // Incremented whenever the running timer is invalidated
}

// Engine implements playback.Engine on top of a tts.Synthesizer.
type Engine struct {
	mu sync.Mutex

	synth  tts.Synthesizer
	config Config

	current *utterance

	// Synthesized audio, bounded by AudioRetention
	audio      map[playback.Utterance]*tts.Audio
	audioOrder []playback.Utterance

	completions chan playback.Utterance
	closed      bool

	ctx    context.Context
	cancel context.CancelFunc
}

// Ensure Engine implements the playback port.
var _ playback.Engine = (*Engine)(nil)

// New creates a narration engine. A nil synthesizer makes the engine unavailable.
func New(synth tts.Synthesizer, config Config) *Engine {
	if config.SynthesisTimeout <= 0 {
		config.SynthesisTimeout = 2 * time.Minute
	}
	if config.AudioRetention <= 0 {
		config.AudioRetention = 8
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Engine{
		synth:       synth,
		config:      config,
		audio:       make(map[playback.Utterance]*tts.Audio),
		completions: make(chan playback.Utterance, 16),
		ctx:         ctx,
		cancel:      cancel,
	}
}

// Available reports whether a synthesizer is configured.
func (e *Engine) Available() bool {
	return e.synth != nil
}

// Speak cancels any in-flight utterance and starts a new one.
func (e *Engine) Speak(text string, opts playback.SpeakOptions) (playback.Utterance, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return "", ErrClosed
	}
	if e.synth == nil {
		return "", errors.New("no synthesizer configured")
	}

	e.cancelLocked()

	ctx, cancel := context.WithTimeout(e.ctx, e.config.SynthesisTimeout)
	u := &utterance{
		id:     playback.Utterance(uuid.New().String()),
		cancel: cancel,
	}
	e.current = u

	go e.synthesize(ctx, u, text, tts.Options{Lang: opts.Lang, Rate: opts.Rate})

	return u.id, nil
}

// Pause suspends the utterance and keeps its remaining time.
func (e *Engine) Pause(id playback.Utterance) {
	e.mu.Lock()
	defer e.mu.Unlock()

	u := e.current
	if u == nil || u.id != id || u.paused {
		return
	}
	u.paused = true
	if u.timer != nil {
		u.timer.Stop()
		u.timer = nil
		u.gen++
		u.remaining -= time.Since(u.startedAt)
		if u.remaining < 0 {
			u.remaining = 0
		}
	}
	zlog.Debug().Msgf("narration: paused utterance=%s remaining=%v", id, u.remaining)
}

// Resume continues a paused utterance.
func (e *Engine) Resume(id playback.Utterance) {
	e.mu.Lock()
	defer e.mu.Unlock()

	u := e.current
	if u == nil || u.id != id || !u.paused {
		return
	}
	u.paused = false
	if u.ready {
		e.startTimerLocked(u)
	}
	zlog.Debug().Msgf("narration: resumed utterance=%s remaining=%v", id, u.remaining)
}

// Cancel stops the utterance; its completion is never delivered.
func (e *Engine) Cancel(id playback.Utterance) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.current == nil || e.current.id != id {
		return
	}
	e.cancelLocked()
}

// Speaking reports whether an utterance is in flight.
func (e *Engine) Speaking() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.current != nil
}

// Paused reports whether the in-flight utterance is suspended.
func (e *Engine) Paused() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.current != nil && e.current.paused
}

// Completions delivers tokens of utterances that finished naturally.
func (e *Engine) Completions() <-chan playback.Utterance {
	return e.completions
}

// Audio returns the synthesized audio of a recent utterance.
// It reports false when the utterance is unknown or produced no audio.
func (e *Engine) Audio(id playback.Utterance) (*tts.Audio, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	a, ok := e.audio[id]
	if !ok || len(a.Data) == 0 {
		return nil, false
	}
	return a, true
}

// Close cancels the in-flight utterance and stops delivering completions.
func (e *Engine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return
	}
	e.closed = true
	e.cancelLocked()
	e.cancel()
}

// synthesize runs the synthesizer and starts the speaking timer.
func (e *Engine) synthesize(ctx context.Context, u *utterance, text string, opts tts.Options) {
	audio, err := e.synth.Synthesize(ctx, text, opts)
	u.cancel()

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.current != u {
		// Cancelled or superseded while synthesizing
		return
	}

	u.ready = true
	if err != nil {
		// Finish right away so the listener moves on
		zlog.Warn().Msgf("narration: synthesis failed: utterance=%s synthesizer=%s error=%v", u.id, e.synth.Name(), err)
		u.remaining = 0
	} else {
		u.remaining = audio.Duration
		e.storeAudioLocked(u.id, audio)
	}

	if !u.paused {
		e.startTimerLocked(u)
	}
}

// startTimerLocked starts the speaking timer for the remaining time.
// Must be called with lock held.
func (e *Engine) startTimerLocked(u *utterance) {
	u.gen++
	gen := u.gen
	u.startedAt = time.Now()
	u.timer = time.AfterFunc(u.remaining, func() {
		e.finish(u, gen)
	})
}

// finish delivers the completion if the timer generation is still current.
func (e *Engine) finish(u *utterance, gen int) {
	e.mu.Lock()
	if e.current != u || u.gen != gen || u.paused {
		e.mu.Unlock()
		return
	}
	e.current = nil
	u.timer = nil
	e.mu.Unlock()

	zlog.Debug().Msgf("narration: completed utterance=%s", u.id)
	select {
	case e.completions <- u.id:
	case <-e.ctx.Done():
	}
}

// cancelLocked drops the in-flight utterance.
// Must be called with lock held.
func (e *Engine) cancelLocked() {
	u := e.current
	if u == nil {
		return
	}
	u.gen++
	if u.timer != nil {
		u.timer.Stop()
		u.timer = nil
	}
	u.cancel()
	e.current = nil
	zlog.Debug().Msgf("narration: cancelled utterance=%s", u.id)
}

// storeAudioLocked keeps audio for the most recent utterances only.
// Must be called with lock held.
func (e *Engine) storeAudioLocked(id playback.Utterance, a *tts.Audio) {
	e.audio[id] = a
	e.audioOrder = append(e.audioOrder, id)
	for len(e.audioOrder) > e.config.AudioRetention {
		delete(e.audio, e.audioOrder[0])
		e.audioOrder = e.audioOrder[1:]
	}
}
