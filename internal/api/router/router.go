// Package router assembles the HTTP routes served by the readaloud server.
package router

import (
	"bytes"
	"net/http"
	"strings"
	"time"

	"connectrpc.com/connect"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	zlog "github.com/rs/zerolog/log"

	apiconnect "github.com/osa030/readaloud/internal/api/connect"
	"github.com/osa030/readaloud/internal/app/catalog"
	"github.com/osa030/readaloud/internal/app/playback"
	"github.com/osa030/readaloud/internal/app/player"
	"github.com/osa030/readaloud/internal/infra/config"
	"github.com/osa030/readaloud/internal/infra/tts"
)

// AudioSource looks up synthesized audio by utterance.
type AudioSource interface {
	Audio(id playback.Utterance) (*tts.Audio, bool)
}

// Options holds the components the routes are served from.
type Options struct {
	Config   *config.Config
	Player   *player.Manager
	Catalog  *catalog.Service
	Importer *catalog.FeedImporter  // nil disables feed import
	Articles catalog.ArticleDeleter // nil disables article deletion
	Audio    AudioSource
}

// New returns the server's root handler.
func New(opts Options) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", handleHealth)
	r.Get("/media/{utterance}", mediaHandler(opts.Audio))

	playerPath, playerHandler := apiconnect.NewPlayerServiceHandler(
		apiconnect.NewPlayerService(opts.Player),
	)
	catalogPath, catalogHandler := apiconnect.NewCatalogServiceHandler(
		apiconnect.NewCatalogService(opts.Catalog, opts.Importer, opts.Articles, opts.Config),
		connect.WithInterceptors(apiconnect.NewAdminAuthInterceptor(opts.Config,
			apiconnect.CatalogServiceImportFeedProcedure,
			apiconnect.CatalogServiceDeleteArticleProcedure,
		)),
	)
	r.Mount(playerPath, playerHandler)
	r.Mount(catalogPath, catalogHandler)

	return r
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte("ok\n"))
}

// mediaHandler serves the audio of a recent utterance.
func mediaHandler(source AudioSource) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if source == nil {
			http.NotFound(w, r)
			return
		}
		id := playback.Utterance(chi.URLParam(r, "utterance"))
		audio, ok := source.Audio(id)
		if !ok {
			http.NotFound(w, r)
			return
		}

		w.Header().Set("Content-Type", contentType(audio.Format))
		w.Header().Set("Cache-Control", "private, max-age=3600")
		http.ServeContent(w, r, string(id)+"."+audio.Format, time.Time{}, bytes.NewReader(audio.Data))
	}
}

func contentType(format string) string {
	switch strings.ToLower(format) {
	case "mp3":
		return "audio/mpeg"
	case "wav":
		return "audio/wav"
	default:
		return "application/octet-stream"
	}
}

// requestLogger logs each request through zerolog.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		defer func() {
			zlog.Debug().Msgf("http: %s %s status=%d bytes=%d duration=%v request_id=%s",
				r.Method, r.URL.Path, ww.Status(), ww.BytesWritten(), time.Since(start), middleware.GetReqID(r.Context()))
		}()
		next.ServeHTTP(ww, r)
	})
}
