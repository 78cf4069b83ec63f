// Package tts provides speech synthesizers used by the narration engine.
package tts

import (
	"context"
	"math"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"
)

// DefaultWordsPerMinute is the narration pace at rate 1.0.
const DefaultWordsPerMinute = 150

// Audio is synthesized speech.
type Audio struct {
	Data     []byte        // Encoded audio, empty when the synthesizer produces none
	Format   string        // e.g. "mp3"
	Duration time.Duration // Playback length
}

// Options controls synthesis.
type Options struct {
	Lang string
	Rate float64
}

// Synthesizer converts text to speech.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string, opts Options) (*Audio, error)
	Name() string
}

// Config selects and configures a synthesizer.
type Config struct {
	Provider       string // "openai", "estimate" or "none"
	APIKey         string
	BaseURL        string
	Model          string
	Voice          string
	WordsPerMinute int
}

// New creates the synthesizer named by cfg.Provider.
// Provider "none" returns a nil synthesizer, which disables narration.
func New(cfg Config) (Synthesizer, error) {
	switch strings.ToLower(cfg.Provider) {
	case "openai":
		s, err := NewOpenAISynthesizer(cfg)
		if err != nil {
			return nil, err
		}
		return s, nil
	case "estimate", "":
		return NewEstimateSynthesizer(cfg.WordsPerMinute), nil
	case "none":
		return nil, nil
	default:
		return nil, errors.Newf("unsupported speech provider: %s", cfg.Provider)
	}
}

// EstimateDuration returns how long text takes to narrate at the given pace and rate.
func EstimateDuration(text string, wordsPerMinute int, rate float64) time.Duration {
	words := len(strings.Fields(text))
	if words == 0 {
		return 0
	}
	if wordsPerMinute <= 0 {
		wordsPerMinute = DefaultWordsPerMinute
	}
	if rate <= 0 {
		rate = 1
	}
	minutes := float64(words) / (float64(wordsPerMinute) * rate)
	return time.Duration(math.Round(minutes * float64(time.Minute)))
}

// EstimateSynthesizer produces no audio; it only reports the narration length.
// It lets the server run without a speech backend.
type EstimateSynthesizer struct {
	wordsPerMinute int
}

// NewEstimateSynthesizer creates an EstimateSynthesizer.
func NewEstimateSynthesizer(wordsPerMinute int) *EstimateSynthesizer {
	if wordsPerMinute <= 0 {
		wordsPerMinute = DefaultWordsPerMinute
	}
	return &EstimateSynthesizer{wordsPerMinute: wordsPerMinute}
}

// Synthesize returns an empty audio with an estimated duration.
func (s *EstimateSynthesizer) Synthesize(ctx context.Context, text string, opts Options) (*Audio, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	d := EstimateDuration(text, s.wordsPerMinute, opts.Rate)
	zlog.Debug().Msgf("tts: estimated narration: words=%d duration=%v", len(strings.Fields(text)), d)
	return &Audio{Duration: d}, nil
}

// Name returns the synthesizer name.
func (s *EstimateSynthesizer) Name() string {
	return "estimate"
}
