package connect

import (
	"context"
	"net/url"

	"connectrpc.com/connect"
	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/readaloud/internal/app/catalog"
	"github.com/osa030/readaloud/internal/domain/article"
	"github.com/osa030/readaloud/internal/infra/config"
)

// maxPageSize caps the page size a client may ask for.
const maxPageSize = 500

// CatalogService implements the CatalogService RPC.
type CatalogService struct {
	catalog  *catalog.Service
	importer *catalog.FeedImporter  // nil when articles cannot be stored
	articles catalog.ArticleDeleter // nil when articles cannot be stored
	config   *config.Config
}

// NewCatalogService creates a new CatalogService.
func NewCatalogService(
	catalogSvc *catalog.Service,
	importer *catalog.FeedImporter,
	articles catalog.ArticleDeleter,
	cfg *config.Config,
) *CatalogService {
	return &CatalogService{
		catalog:  catalogSvc,
		importer: importer,
		articles: articles,
		config:   cfg,
	}
}

// Ensure CatalogService implements the interface.
var _ CatalogServiceHandler = (*CatalogService)(nil)

// ListArticles returns one page of articles matching the query.
func (s *CatalogService) ListArticles(
	ctx context.Context,
	req *connect.Request[ListArticlesRequest],
) (*connect.Response[ListArticlesResponse], error) {
	query, err := parseQuery(req.Msg.Category, req.Msg.Difficulty, req.Msg.Search)
	if err != nil {
		return nil, toConnectError(req.Spec().Procedure, err)
	}
	if req.Msg.Offset < 0 || req.Msg.Limit < 0 {
		return nil, toConnectError(req.Spec().Procedure,
			errors.Wrapf(errInvalidArgument, "offset=%d limit=%d", req.Msg.Offset, req.Msg.Limit))
	}

	query.Offset = req.Msg.Offset
	query.Limit = req.Msg.Limit
	if query.Limit == 0 {
		query.Limit = s.config.Catalog.PageSize
	}
	if query.Limit > maxPageSize {
		query.Limit = maxPageSize
	}

	page, err := s.catalog.Find(ctx, query)
	if err != nil {
		return nil, toConnectError(req.Spec().Procedure, err)
	}

	return connect.NewResponse(&ListArticlesResponse{
		Articles: toArticles(page.Articles, req.Msg.IncludeContent),
		Total:    page.Total,
		Offset:   page.Offset,
	}), nil
}

// ImportFeed fetches an RSS/Atom feed and stores its items as articles.
func (s *CatalogService) ImportFeed(
	ctx context.Context,
	req *connect.Request[ImportFeedRequest],
) (*connect.Response[ImportFeedResponse], error) {
	if s.importer == nil {
		return nil, connect.NewError(connect.CodeUnimplemented, errors.New("feed import is not available"))
	}

	u, err := url.Parse(req.Msg.URL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, toConnectError(req.Spec().Procedure, errors.Wrapf(errInvalidArgument, "invalid feed url %q", req.Msg.URL))
	}
	category, err := article.ParseCategory(req.Msg.Category)
	if err != nil {
		return nil, toConnectError(req.Spec().Procedure, err)
	}

	result, err := s.importer.Import(ctx, req.Msg.URL, category)
	if err != nil {
		return nil, toConnectError(req.Spec().Procedure, err)
	}

	zlog.Info().Msgf("feed imported: url=%s title=%q fetched=%d added=%d skipped=%d",
		req.Msg.URL, result.FeedTitle, result.Fetched, result.Added, result.Skipped)
	return connect.NewResponse(toImportFeedResponse(result)), nil
}

// DeleteArticle removes an imported article. Built-in articles cannot be deleted.
func (s *CatalogService) DeleteArticle(
	ctx context.Context,
	req *connect.Request[DeleteArticleRequest],
) (*connect.Response[DeleteArticleResponse], error) {
	if s.articles == nil {
		return nil, connect.NewError(connect.CodeUnimplemented, errors.New("article store is not available"))
	}
	if req.Msg.ArticleID == "" {
		return nil, toConnectError(req.Spec().Procedure, errors.Wrap(errInvalidArgument, "article_id is required"))
	}

	if err := s.articles.DeleteArticle(ctx, req.Msg.ArticleID); err != nil {
		return nil, toConnectError(req.Spec().Procedure, err)
	}

	zlog.Info().Msgf("article deleted: id=%s", req.Msg.ArticleID)
	return connect.NewResponse(&DeleteArticleResponse{}), nil
}
