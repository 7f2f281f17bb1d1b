package location

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mmcdole/reel/internal/domain"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		kind    RouteKind
		movieID string
	}{
		{"empty", "", RouteListing, ""},
		{"root", "/", RouteListing, ""},
		{"listing", "/listing", RouteListing, ""},
		{"listing_trailing_slash", "/listing/", RouteListing, ""},
		{"listing_query", "/listing?genres=Action", RouteListing, ""},
		{"root_query", "/?page=2", RouteListing, ""},
		{"full_url", "http://localhost:8080/listing?sort=year", RouteListing, ""},
		{"movie", "/movie/10", RouteMovie, "10"},
		{"movie_non_numeric", "/movie/abc", RouteMovie, "abc"},
		{"movie_without_id", "/movie/", RouteNotFound, ""},
		{"movie_nested", "/movie/10/extra", RouteNotFound, ""},
		{"unknown", "/settings", RouteNotFound, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Parse(tt.raw)
			assert.Equal(t, tt.kind, r.Kind)
			assert.Equal(t, tt.movieID, r.MovieID)
		})
	}
}

func TestParse_ListingDecodesFilter(t *testing.T) {
	r := Parse("/listing?search=dune&page=2")

	assert.Equal(t, "dune", r.Filter.SearchTerm)
	assert.Equal(t, 2, r.Filter.Page)
}

func TestParse_RootIsListingAlias(t *testing.T) {
	assert.Equal(t, "/listing?page=3", Parse("/?page=3").String())
	assert.Equal(t, "/listing", Parse("/").String())
}

func TestRoute_ID(t *testing.T) {
	id, ok := Parse("/movie/42").ID()
	assert.True(t, ok)
	assert.Equal(t, 42, id)

	_, ok = Parse("/movie/abc").ID()
	assert.False(t, ok)

	_, ok = Parse("/movie/0").ID()
	assert.False(t, ok)

	_, ok = Parse("/listing").ID()
	assert.False(t, ok)
}

func TestListingPath(t *testing.T) {
	assert.Equal(t, "/listing", ListingPath(domain.DefaultFilterState()))
	assert.Equal(t, "/listing?sort=title", ListingPath(domain.DefaultFilterState().WithSortBy(domain.SortTitle)))
}

func TestMoviePath(t *testing.T) {
	assert.Equal(t, "/movie/15", MoviePath(15))
	assert.Equal(t, "/movie/15", Parse(MoviePath(15)).String())
}
