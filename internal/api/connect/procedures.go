package connect

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"
)

const (
	PlayerServiceName  = "readaloud.v1.PlayerService"
	CatalogServiceName = "readaloud.v1.CatalogService"
)

const (
	PlayerServicePlayArticleProcedure     = "/readaloud.v1.PlayerService/PlayArticle"
	PlayerServiceTogglePlayProcedure      = "/readaloud.v1.PlayerService/TogglePlay"
	PlayerServicePlayNextProcedure        = "/readaloud.v1.PlayerService/PlayNext"
	PlayerServicePlayPrevProcedure        = "/readaloud.v1.PlayerService/PlayPrev"
	PlayerServiceClosePlayerProcedure     = "/readaloud.v1.PlayerService/ClosePlayer"
	PlayerServiceGetStatusProcedure       = "/readaloud.v1.PlayerService/GetStatus"
	PlayerServiceGetStatsProcedure        = "/readaloud.v1.PlayerService/GetStats"
	PlayerServiceSubscribeEventsProcedure = "/readaloud.v1.PlayerService/SubscribeEvents"

	CatalogServiceListArticlesProcedure  = "/readaloud.v1.CatalogService/ListArticles"
	CatalogServiceImportFeedProcedure    = "/readaloud.v1.CatalogService/ImportFeed"
	CatalogServiceDeleteArticleProcedure = "/readaloud.v1.CatalogService/DeleteArticle"
)

// PlayerServiceHandler is the server side of the PlayerService.
type PlayerServiceHandler interface {
	PlayArticle(context.Context, *connect.Request[PlayArticleRequest]) (*connect.Response[StatusResponse], error)
	TogglePlay(context.Context, *connect.Request[TogglePlayRequest]) (*connect.Response[StatusResponse], error)
	PlayNext(context.Context, *connect.Request[PlayNextRequest]) (*connect.Response[StatusResponse], error)
	PlayPrev(context.Context, *connect.Request[PlayPrevRequest]) (*connect.Response[StatusResponse], error)
	ClosePlayer(context.Context, *connect.Request[ClosePlayerRequest]) (*connect.Response[StatusResponse], error)
	GetStatus(context.Context, *connect.Request[GetStatusRequest]) (*connect.Response[GetStatusResponse], error)
	GetStats(context.Context, *connect.Request[GetStatsRequest]) (*connect.Response[GetStatsResponse], error)
	SubscribeEvents(context.Context, *connect.Request[SubscribeEventsRequest], *connect.ServerStream[PlayerEvent]) error
}

// CatalogServiceHandler is the server side of the CatalogService.
type CatalogServiceHandler interface {
	ListArticles(context.Context, *connect.Request[ListArticlesRequest]) (*connect.Response[ListArticlesResponse], error)
	ImportFeed(context.Context, *connect.Request[ImportFeedRequest]) (*connect.Response[ImportFeedResponse], error)
	DeleteArticle(context.Context, *connect.Request[DeleteArticleRequest]) (*connect.Response[DeleteArticleResponse], error)
}

// NewPlayerServiceHandler builds an HTTP handler for the PlayerService and
// returns the path to mount it on.
func NewPlayerServiceHandler(svc PlayerServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = withJSONCodec(opts)
	mux := http.NewServeMux()
	mux.Handle(PlayerServicePlayArticleProcedure, connect.NewUnaryHandler(PlayerServicePlayArticleProcedure, svc.PlayArticle, opts...))
	mux.Handle(PlayerServiceTogglePlayProcedure, connect.NewUnaryHandler(PlayerServiceTogglePlayProcedure, svc.TogglePlay, opts...))
	mux.Handle(PlayerServicePlayNextProcedure, connect.NewUnaryHandler(PlayerServicePlayNextProcedure, svc.PlayNext, opts...))
	mux.Handle(PlayerServicePlayPrevProcedure, connect.NewUnaryHandler(PlayerServicePlayPrevProcedure, svc.PlayPrev, opts...))
	mux.Handle(PlayerServiceClosePlayerProcedure, connect.NewUnaryHandler(PlayerServiceClosePlayerProcedure, svc.ClosePlayer, opts...))
	mux.Handle(PlayerServiceGetStatusProcedure, connect.NewUnaryHandler(PlayerServiceGetStatusProcedure, svc.GetStatus, opts...))
	mux.Handle(PlayerServiceGetStatsProcedure, connect.NewUnaryHandler(PlayerServiceGetStatsProcedure, svc.GetStats, opts...))
	mux.Handle(PlayerServiceSubscribeEventsProcedure, connect.NewServerStreamHandler(PlayerServiceSubscribeEventsProcedure, svc.SubscribeEvents, opts...))
	return "/" + PlayerServiceName + "/", mux
}

// NewCatalogServiceHandler builds an HTTP handler for the CatalogService and
// returns the path to mount it on.
func NewCatalogServiceHandler(svc CatalogServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = withJSONCodec(opts)
	mux := http.NewServeMux()
	mux.Handle(CatalogServiceListArticlesProcedure, connect.NewUnaryHandler(CatalogServiceListArticlesProcedure, svc.ListArticles, opts...))
	mux.Handle(CatalogServiceImportFeedProcedure, connect.NewUnaryHandler(CatalogServiceImportFeedProcedure, svc.ImportFeed, opts...))
	mux.Handle(CatalogServiceDeleteArticleProcedure, connect.NewUnaryHandler(CatalogServiceDeleteArticleProcedure, svc.DeleteArticle, opts...))
	return "/" + CatalogServiceName + "/", mux
}

func withJSONCodec(opts []connect.HandlerOption) []connect.HandlerOption {
	return append([]connect.HandlerOption{connect.WithCodec(jsonCodec{})}, opts...)
}

// PlayerServiceClient is a client for the PlayerService.
type PlayerServiceClient struct {
	playArticle     *connect.Client[PlayArticleRequest, StatusResponse]
	togglePlay      *connect.Client[TogglePlayRequest, StatusResponse]
	playNext        *connect.Client[PlayNextRequest, StatusResponse]
	playPrev        *connect.Client[PlayPrevRequest, StatusResponse]
	closePlayer     *connect.Client[ClosePlayerRequest, StatusResponse]
	getStatus       *connect.Client[GetStatusRequest, GetStatusResponse]
	getStats        *connect.Client[GetStatsRequest, GetStatsResponse]
	subscribeEvents *connect.Client[SubscribeEventsRequest, PlayerEvent]
}

// NewPlayerServiceClient creates a PlayerService client for the server at baseURL.
func NewPlayerServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *PlayerServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = append([]connect.ClientOption{connect.WithCodec(jsonCodec{})}, opts...)
	return &PlayerServiceClient{
		playArticle:     connect.NewClient[PlayArticleRequest, StatusResponse](httpClient, baseURL+PlayerServicePlayArticleProcedure, opts...),
		togglePlay:      connect.NewClient[TogglePlayRequest, StatusResponse](httpClient, baseURL+PlayerServiceTogglePlayProcedure, opts...),
		playNext:        connect.NewClient[PlayNextRequest, StatusResponse](httpClient, baseURL+PlayerServicePlayNextProcedure, opts...),
		playPrev:        connect.NewClient[PlayPrevRequest, StatusResponse](httpClient, baseURL+PlayerServicePlayPrevProcedure, opts...),
		closePlayer:     connect.NewClient[ClosePlayerRequest, StatusResponse](httpClient, baseURL+PlayerServiceClosePlayerProcedure, opts...),
		getStatus:       connect.NewClient[GetStatusRequest, GetStatusResponse](httpClient, baseURL+PlayerServiceGetStatusProcedure, opts...),
		getStats:        connect.NewClient[GetStatsRequest, GetStatsResponse](httpClient, baseURL+PlayerServiceGetStatsProcedure, opts...),
		subscribeEvents: connect.NewClient[SubscribeEventsRequest, PlayerEvent](httpClient, baseURL+PlayerServiceSubscribeEventsProcedure, opts...),
	}
}

func (c *PlayerServiceClient) PlayArticle(ctx context.Context, req *connect.Request[PlayArticleRequest]) (*connect.Response[StatusResponse], error) {
	return c.playArticle.CallUnary(ctx, req)
}

func (c *PlayerServiceClient) TogglePlay(ctx context.Context, req *connect.Request[TogglePlayRequest]) (*connect.Response[StatusResponse], error) {
	return c.togglePlay.CallUnary(ctx, req)
}

func (c *PlayerServiceClient) PlayNext(ctx context.Context, req *connect.Request[PlayNextRequest]) (*connect.Response[StatusResponse], error) {
	return c.playNext.CallUnary(ctx, req)
}

func (c *PlayerServiceClient) PlayPrev(ctx context.Context, req *connect.Request[PlayPrevRequest]) (*connect.Response[StatusResponse], error) {
	return c.playPrev.CallUnary(ctx, req)
}

func (c *PlayerServiceClient) ClosePlayer(ctx context.Context, req *connect.Request[ClosePlayerRequest]) (*connect.Response[StatusResponse], error) {
	return c.closePlayer.CallUnary(ctx, req)
}

func (c *PlayerServiceClient) GetStatus(ctx context.Context, req *connect.Request[GetStatusRequest]) (*connect.Response[GetStatusResponse], error) {
	return c.getStatus.CallUnary(ctx, req)
}

func (c *PlayerServiceClient) GetStats(ctx context.Context, req *connect.Request[GetStatsRequest]) (*connect.Response[GetStatsResponse], error) {
	return c.getStats.CallUnary(ctx, req)
}

func (c *PlayerServiceClient) SubscribeEvents(ctx context.Context, req *connect.Request[SubscribeEventsRequest]) (*connect.ServerStreamForClient[PlayerEvent], error) {
	return c.subscribeEvents.CallServerStream(ctx, req)
}

// CatalogServiceClient is a client for the CatalogService.
type CatalogServiceClient struct {
	listArticles  *connect.Client[ListArticlesRequest, ListArticlesResponse]
	importFeed    *connect.Client[ImportFeedRequest, ImportFeedResponse]
	deleteArticle *connect.Client[DeleteArticleRequest, DeleteArticleResponse]
}

// NewCatalogServiceClient creates a CatalogService client for the server at baseURL.
func NewCatalogServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *CatalogServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = append([]connect.ClientOption{connect.WithCodec(jsonCodec{})}, opts...)
	return &CatalogServiceClient{
		listArticles:  connect.NewClient[ListArticlesRequest, ListArticlesResponse](httpClient, baseURL+CatalogServiceListArticlesProcedure, opts...),
		importFeed:    connect.NewClient[ImportFeedRequest, ImportFeedResponse](httpClient, baseURL+CatalogServiceImportFeedProcedure, opts...),
		deleteArticle: connect.NewClient[DeleteArticleRequest, DeleteArticleResponse](httpClient, baseURL+CatalogServiceDeleteArticleProcedure, opts...),
	}
}

func (c *CatalogServiceClient) ListArticles(ctx context.Context, req *connect.Request[ListArticlesRequest]) (*connect.Response[ListArticlesResponse], error) {
	return c.listArticles.CallUnary(ctx, req)
}

func (c *CatalogServiceClient) ImportFeed(ctx context.Context, req *connect.Request[ImportFeedRequest]) (*connect.Response[ImportFeedResponse], error) {
	return c.importFeed.CallUnary(ctx, req)
}

func (c *CatalogServiceClient) DeleteArticle(ctx context.Context, req *connect.Request[DeleteArticleRequest]) (*connect.Response[DeleteArticleResponse], error) {
	return c.deleteArticle.CallUnary(ctx, req)
}
