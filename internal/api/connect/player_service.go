// Package connect provides Connect RPC service implementations.
package connect

import (
	"context"
	"sync"
	"time"

	"connectrpc.com/connect"
	"github.com/cockroachdb/errors"

	"github.com/osa030/readaloud/internal/app/catalog"
	"github.com/osa030/readaloud/internal/app/notification"
	"github.com/osa030/readaloud/internal/app/player"
	"github.com/osa030/readaloud/internal/domain/article"
	"github.com/osa030/readaloud/internal/domain/playlist"
)

// defaultRecentLimit is used by GetStats when the request leaves it unset.
const defaultRecentLimit = 10

// PlayerService implements the PlayerService RPC.
type PlayerService struct {
	player *player.Manager
}

// NewPlayerService creates a new PlayerService.
func NewPlayerService(player *player.Manager) *PlayerService {
	return &PlayerService{
		player: player,
	}
}

// Ensure PlayerService implements the interface.
var _ PlayerServiceHandler = (*PlayerService)(nil)

// PlayArticle starts narrating an article with a new queue.
func (s *PlayerService) PlayArticle(
	ctx context.Context,
	req *connect.Request[PlayArticleRequest],
) (*connect.Response[StatusResponse], error) {
	if req.Msg.ArticleID == "" {
		return nil, toConnectError(req.Spec().Procedure, errors.Wrap(errInvalidArgument, "article_id is required"))
	}

	query, err := parseQuery(req.Msg.Category, req.Msg.Difficulty, req.Msg.Search)
	if err != nil {
		return nil, toConnectError(req.Spec().Procedure, err)
	}

	if err := s.player.PlayArticle(ctx, req.Msg.ArticleID, req.Msg.QueueIDs, query); err != nil {
		return nil, toConnectError(req.Spec().Procedure, err)
	}
	return s.status(), nil
}

// TogglePlay pauses or resumes narration.
func (s *PlayerService) TogglePlay(
	ctx context.Context,
	req *connect.Request[TogglePlayRequest],
) (*connect.Response[StatusResponse], error) {
	s.player.TogglePlay()
	return s.status(), nil
}

// PlayNext skips to the next article in the queue.
func (s *PlayerService) PlayNext(
	ctx context.Context,
	req *connect.Request[PlayNextRequest],
) (*connect.Response[StatusResponse], error) {
	s.player.PlayNext()
	return s.status(), nil
}

// PlayPrev goes back to the previous article in the queue.
func (s *PlayerService) PlayPrev(
	ctx context.Context,
	req *connect.Request[PlayPrevRequest],
) (*connect.Response[StatusResponse], error) {
	s.player.PlayPrev()
	return s.status(), nil
}

// ClosePlayer stops narration and clears the session.
func (s *PlayerService) ClosePlayer(
	ctx context.Context,
	req *connect.Request[ClosePlayerRequest],
) (*connect.Response[StatusResponse], error) {
	s.player.ClosePlayer()
	return s.status(), nil
}

// GetStatus returns the current player status.
func (s *PlayerService) GetStatus(
	ctx context.Context,
	req *connect.Request[GetStatusRequest],
) (*connect.Response[GetStatusResponse], error) {
	resp := &GetStatusResponse{
		Status: toPlayerStatus(s.player.Status()),
	}
	if req.Msg.IncludeQueue {
		queue := s.player.Queue()
		resp.Queue = toArticles(queue, false)
		resp.QueueMinutes = playlist.New(queue).TotalMinutes()
	}
	return connect.NewResponse(resp), nil
}

// GetStats returns listening statistics and the most recent records.
func (s *PlayerService) GetStats(
	ctx context.Context,
	req *connect.Request[GetStatsRequest],
) (*connect.Response[GetStatsResponse], error) {
	stats, err := s.player.Stats(ctx)
	if err != nil {
		return nil, toConnectError(req.Spec().Procedure, err)
	}

	limit := req.Msg.RecentLimit
	if limit <= 0 {
		limit = defaultRecentLimit
	}
	recent, err := s.player.History(ctx, limit)
	if err != nil {
		return nil, toConnectError(req.Spec().Procedure, err)
	}

	return connect.NewResponse(&GetStatsResponse{
		TotalRecords:    stats.TotalRecords,
		CompletedCount:  stats.CompletedCount,
		ListenedSeconds: stats.ListenedSeconds,
		StreakDays:      stats.StreakDays,
		Recent:          toListeningRecords(recent),
	}), nil
}

// SubscribeEvents streams player events. The first message carries the
// current state.
func (s *PlayerService) SubscribeEvents(
	ctx context.Context,
	req *connect.Request[SubscribeEventsRequest],
	stream *connect.ServerStream[PlayerEvent],
) error {
	notifManager := s.player.GetNotificationManager()
	adapter := &eventStreamAdapter{stream: stream}

	// Hold the adapter until the initial state is out so that broadcasts
	// cannot overtake it.
	adapter.mu.Lock()
	subscriptionID := notifManager.Subscribe(adapter)
	initial := &notification.Notification{
		SequenceNo: notifManager.NextSequenceNo(),
		Status:     s.player.Status(),
		Time:       time.Now(),
	}
	err := stream.Send(toPlayerEvent(initial))
	adapter.mu.Unlock()

	defer notifManager.Unsubscribe(subscriptionID)
	if err != nil {
		return err
	}

	// Wait for context cancellation or player shutdown
	select {
	case <-ctx.Done():
	case <-s.player.Done():
	}
	return nil
}

func (s *PlayerService) status() *connect.Response[StatusResponse] {
	return connect.NewResponse(&StatusResponse{
		Status: toPlayerStatus(s.player.Status()),
	})
}

// eventStreamAdapter adapts connect.ServerStream to notification.Stream.
// ServerStream is not safe for concurrent sends.
type eventStreamAdapter struct {
	mu     sync.Mutex
	stream *connect.ServerStream[PlayerEvent]
}

func (a *eventStreamAdapter) Send(n *notification.Notification) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.stream.Send(toPlayerEvent(n))
}

// parseQuery converts wire query fields into a catalog query.
func parseQuery(category, difficulty, search string) (catalog.Query, error) {
	q := catalog.Query{Search: search}
	if category != "" {
		c, err := article.ParseCategory(category)
		if err != nil {
			return q, err
		}
		q.Category = c
	}
	if difficulty != "" {
		d, err := article.ParseDifficulty(difficulty)
		if err != nil {
			return q, err
		}
		q.Difficulty = d
	}
	return q, nil
}
