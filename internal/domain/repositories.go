package domain

import (
	"context"
)

// CatalogRepository provides access to the remote movie catalog
type CatalogRepository interface {
	// ListMovies returns one page of movies matching the filter state
	ListMovies(ctx context.Context, filter FilterState) (QueryResult, error)

	// MovieDetails returns the full record for a movie.
	// Returns an error matching ErrMovieNotFound when the provider has no such movie.
	MovieDetails(ctx context.Context, id int) (*MovieDetail, error)
}
