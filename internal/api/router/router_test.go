package router

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"connectrpc.com/connect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apiconnect "github.com/osa030/readaloud/internal/api/connect"
	"github.com/osa030/readaloud/internal/app/catalog"
	"github.com/osa030/readaloud/internal/app/playback"
	"github.com/osa030/readaloud/internal/app/player"
	"github.com/osa030/readaloud/internal/infra/config"
	"github.com/osa030/readaloud/internal/infra/tts"
)

type mapAudio map[playback.Utterance]*tts.Audio

func (m mapAudio) Audio(id playback.Utterance) (*tts.Audio, bool) {
	a, ok := m[id]
	return a, ok
}

func newTestRouter(t *testing.T) *httptest.Server {
	t.Helper()

	cfg := &config.Config{
		Admin:   config.AdminConfig{Token: "secret"},
		Catalog: config.CatalogConfig{PageSize: 3},
		History: config.HistoryConfig{Timezone: "UTC"},
	}
	catalogSvc := catalog.NewService(catalog.NewSampleSource(), nil)
	manager, err := player.NewManager(cfg, nil, catalogSvc, nil)
	require.NoError(t, err)
	manager.Start()
	t.Cleanup(manager.Close)

	server := httptest.NewServer(New(Options{
		Config:  cfg,
		Player:  manager,
		Catalog: catalogSvc,
		Audio: mapAudio{
			"u-1": {Data: []byte("ID3audio"), Format: "mp3"},
		},
	}))
	t.Cleanup(server.Close)
	return server
}

func TestRouter_Health(t *testing.T) {
	server := newTestRouter(t)

	resp, err := http.Get(server.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRouter_Media(t *testing.T) {
	server := newTestRouter(t)

	tests := []struct {
		name        string
		path        string
		status      int
		contentType string
		body        string
	}{
		{"known utterance", "/media/u-1", http.StatusOK, "audio/mpeg", "ID3audio"},
		{"unknown utterance", "/media/u-2", http.StatusNotFound, "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := http.Get(server.URL + tt.path)
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, tt.status, resp.StatusCode)
			if tt.status != http.StatusOK {
				return
			}
			assert.Equal(t, tt.contentType, resp.Header.Get("Content-Type"))
			body, err := io.ReadAll(resp.Body)
			require.NoError(t, err)
			assert.Equal(t, tt.body, string(body))
		})
	}
}

func TestRouter_MountsRPCServices(t *testing.T) {
	server := newTestRouter(t)
	ctx := t.Context()

	catalogClient := apiconnect.NewCatalogServiceClient(server.Client(), server.URL)
	list, err := catalogClient.ListArticles(ctx, connect.NewRequest(&apiconnect.ListArticlesRequest{}))
	require.NoError(t, err)
	assert.Len(t, list.Msg.Articles, 3)
	assert.Equal(t, 5, list.Msg.Total)

	_, err = catalogClient.ImportFeed(ctx, connect.NewRequest(&apiconnect.ImportFeedRequest{
		URL:      "https://example.com/feed.xml",
		Category: "Science",
	}))
	assert.Equal(t, connect.CodeUnauthenticated, connect.CodeOf(err))

	// Without a narration engine the player accepts commands and stays idle.
	playerClient := apiconnect.NewPlayerServiceClient(server.Client(), server.URL)
	resp, err := playerClient.PlayArticle(ctx, connect.NewRequest(&apiconnect.PlayArticleRequest{ArticleID: "cet6-001"}))
	require.NoError(t, err)
	assert.Equal(t, "idle", resp.Msg.Status.State)
	assert.Nil(t, resp.Msg.Status.CurrentArticle)
}
