package tts

import (
	"bytes"
	"context"
	"io"
	"strings"

	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"
	"github.com/sashabaranov/go-openai"
)

// maxInputChars is the per-request input limit of the speech endpoint.
const maxInputChars = 4096

// OpenAISynthesizer synthesizes speech with the OpenAI audio API.
type OpenAISynthesizer struct {
	client         *openai.Client
	model          openai.SpeechModel
	voice          openai.SpeechVoice
	wordsPerMinute int
}

// NewOpenAISynthesizer creates an OpenAI-backed synthesizer.
func NewOpenAISynthesizer(cfg Config) (*OpenAISynthesizer, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("openai api key is required")
	}

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	model := openai.SpeechModel(cfg.Model)
	if model == "" {
		model = openai.TTSModel1
	}
	voice := openai.SpeechVoice(cfg.Voice)
	if voice == "" {
		voice = openai.VoiceAlloy
	}

	wpm := cfg.WordsPerMinute
	if wpm <= 0 {
		wpm = DefaultWordsPerMinute
	}

	return &OpenAISynthesizer{
		client:         openai.NewClientWithConfig(clientCfg),
		model:          model,
		voice:          voice,
		wordsPerMinute: wpm,
	}, nil
}

// Synthesize converts text to MP3, splitting long input into several requests.
func (s *OpenAISynthesizer) Synthesize(ctx context.Context, text string, opts Options) (*Audio, error) {
	audio := &Audio{
		Format:   string(openai.SpeechResponseFormatMp3),
		Duration: EstimateDuration(text, s.wordsPerMinute, opts.Rate),
	}
	if strings.TrimSpace(text) == "" {
		return audio, nil
	}

	var buf bytes.Buffer
	chunks := splitText(text, maxInputChars)
	for i, chunk := range chunks {
		resp, err := s.client.CreateSpeech(ctx, openai.CreateSpeechRequest{
			Model:          s.model,
			Input:          chunk,
			Voice:          s.voice,
			ResponseFormat: openai.SpeechResponseFormatMp3,
			Speed:          opts.Rate,
		})
		if err != nil {
			return nil, errors.Wrapf(err, "failed to synthesize chunk %d/%d", i+1, len(chunks))
		}
		_, err = io.Copy(&buf, resp)
		resp.Close()
		if err != nil {
			return nil, errors.Wrap(err, "failed to read speech response")
		}
	}

	zlog.Debug().Msgf("tts: openai synthesized: chunks=%d bytes=%d", len(chunks), buf.Len())
	audio.Data = buf.Bytes()
	return audio, nil
}

// Name returns the synthesizer name.
func (s *OpenAISynthesizer) Name() string {
	return "openai"
}

// splitText splits text into chunks of at most limit bytes,
// preferring paragraph, then sentence, then word boundaries.
func splitText(text string, limit int) []string {
	text = strings.TrimSpace(text)
	if len(text) <= limit {
		return []string{text}
	}

	var chunks []string
	for len(text) > limit {
		window := text[:limit]
		cut := strings.LastIndex(window, "\n\n")
		if cut <= 0 {
			cut = lastSentenceEnd(window)
		}
		if cut <= 0 {
			cut = strings.LastIndexAny(window, " \n\t")
		}
		if cut <= 0 {
			cut = limit
		}
		chunks = append(chunks, strings.TrimSpace(text[:cut]))
		text = strings.TrimSpace(text[cut:])
	}
	if text != "" {
		chunks = append(chunks, text)
	}
	return chunks
}

// lastSentenceEnd returns the index just after the last ". ", "! " or "? " in s.
func lastSentenceEnd(s string) int {
	best := -1
	for _, sep := range []string{". ", "! ", "? "} {
		if i := strings.LastIndex(s, sep); i > best {
			best = i
		}
	}
	if best < 0 {
		return -1
	}
	return best + 1
}
