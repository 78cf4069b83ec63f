package connect

import (
	"connectrpc.com/connect"
	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/readaloud/internal/app/catalog"
	"github.com/osa030/readaloud/internal/app/player"
	"github.com/osa030/readaloud/internal/domain/article"
	"github.com/osa030/readaloud/internal/infra/store"
)

// errInvalidArgument marks request validation failures.
var errInvalidArgument = errors.New("invalid argument")

// toConnectError maps application errors to connect codes.
func toConnectError(procedure string, err error) error {
	switch {
	case errors.Is(err, catalog.ErrArticleNotFound), errors.Is(err, store.ErrNotFound):
		return connect.NewError(connect.CodeNotFound, err)
	case errors.Is(err, article.ErrInvalidCategory),
		errors.Is(err, article.ErrInvalidDifficulty),
		errors.Is(err, errInvalidArgument):
		return connect.NewError(connect.CodeInvalidArgument, err)
	case errors.Is(err, player.ErrHistoryUnavailable):
		return connect.NewError(connect.CodeUnavailable, err)
	default:
		zlog.Error().Msgf("rpc: %s failed: error=%v", procedure, err)
		return connect.NewError(connect.CodeInternal, errors.New("internal error"))
	}
}
