package service

import (
	"context"
	"log/slog"

	"github.com/mmcdole/reel/internal/domain"
)

// CatalogService serves list pages and movie details cache-first.
// It satisfies domain.CatalogRepository so it can stand in for the provider client.
type CatalogService struct {
	repo   domain.CatalogRepository
	store  domain.Store // nil disables caching
	logger *slog.Logger
}

var _ domain.CatalogRepository = (*CatalogService)(nil)

// NewCatalogService creates a new catalog service
func NewCatalogService(repo domain.CatalogRepository, store domain.Store, logger *slog.Logger) *CatalogService {
	if logger == nil {
		logger = slog.Default()
	}
	return &CatalogService{
		repo:   repo,
		store:  store,
		logger: logger,
	}
}

// ListMovies returns the page for the filter state, from cache when fresh
func (s *CatalogService) ListMovies(ctx context.Context, filter domain.FilterState) (domain.QueryResult, error) {
	key := PageKey(filter)

	// Check cache
	if s.store != nil {
		if cached, ok := s.store.GetPage(key); ok {
			s.logger.Debug("cache hit", "key", key)
			return cached, nil
		}
	}

	// Fetch from repository
	result, err := s.repo.ListMovies(ctx, filter)
	if err != nil {
		if !domain.IsCanceled(err) {
			s.logger.Error("failed to list movies", "query", key, "error", err)
		}
		return domain.QueryResult{}, err
	}

	// Store in cache
	if s.store != nil {
		if err := s.store.SavePage(key, result); err != nil {
			s.logger.Warn("failed to cache page", "key", key, "error", err)
		}
	}
	s.logger.Info("loaded movies", "query", key, "count", len(result.Items), "total", result.TotalCount)

	return result, nil
}

// MovieDetails returns the detail record for id, from cache when fresh
func (s *CatalogService) MovieDetails(ctx context.Context, id int) (*domain.MovieDetail, error) {
	if s.store != nil {
		if cached, ok := s.store.GetMovie(id); ok {
			s.logger.Debug("cache hit", "movie_id", id)
			return cached, nil
		}
	}

	detail, err := s.repo.MovieDetails(ctx, id)
	if err != nil {
		if !domain.IsCanceled(err) {
			s.logger.Warn("failed to load movie", "movie_id", id, "error", err)
		}
		return nil, err
	}

	if s.store != nil {
		if err := s.store.SaveMovie(detail); err != nil {
			s.logger.Warn("failed to cache movie", "movie_id", id, "error", err)
		}
	}
	return detail, nil
}

// Invalidate drops every cached page so the next list fetch goes to the provider.
// Pages share totals, so refreshing one page refreshes them all.
func (s *CatalogService) Invalidate(filter domain.FilterState) {
	if s.store == nil {
		return
	}
	s.logger.Debug("invalidating cached pages", "query", PageKey(filter))
	s.store.InvalidatePages()
}

// InvalidateMovie drops a cached detail record
func (s *CatalogService) InvalidateMovie(id int) {
	if s.store != nil {
		s.store.InvalidateMovie(id)
	}
}
