package location

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/mmcdole/reel/internal/domain"
)

// Route paths
const (
	RootPath    = "/"
	ListingRoot = "/listing"
	MovieRoot   = "/movie/"
)

// RouteKind identifies which view a location addresses
type RouteKind int

const (
	RouteNotFound RouteKind = iota
	RouteListing
	RouteMovie
)

func (k RouteKind) String() string {
	switch k {
	case RouteListing:
		return "listing"
	case RouteMovie:
		return "movie"
	default:
		return "not_found"
	}
}

// Route is a parsed location
type Route struct {
	Kind    RouteKind
	Filter  domain.FilterState // Listing routes only
	MovieID string             // Movie routes only, raw path segment
	Path    string             // Path as given, for not-found display
}

// ID returns the numeric movie id, or false if the segment is not a positive integer
func (r Route) ID() (int, bool) {
	if r.Kind != RouteMovie {
		return 0, false
	}
	id, err := strconv.Atoi(r.MovieID)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// String renders the canonical location for the route.
// Listing routes always render under /listing.
func (r Route) String() string {
	switch r.Kind {
	case RouteListing:
		return ListingPath(r.Filter)
	case RouteMovie:
		return MovieRoot + url.PathEscape(r.MovieID)
	default:
		return r.Path
	}
}

// Parse resolves a location such as "/listing?genres=Action" or "/movie/10".
// "/" is an alias of "/listing". Full URLs are accepted; only path and
// query are used.
func Parse(raw string) Route {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Route{Kind: RouteListing, Filter: domain.DefaultFilterState()}
	}

	u, err := url.Parse(raw)
	if err != nil {
		return Route{Kind: RouteNotFound, Path: raw}
	}
	return FromURL(u)
}

// FromURL resolves an already parsed URL
func FromURL(u *url.URL) Route {
	path := u.Path
	if path == "" {
		path = RootPath
	}
	if len(path) > 1 {
		path = strings.TrimSuffix(path, "/")
	}

	switch {
	case path == RootPath || path == ListingRoot:
		return Route{Kind: RouteListing, Filter: DecodeValues(u.Query()), Path: path}
	case strings.HasPrefix(path, MovieRoot):
		id := strings.TrimPrefix(path, MovieRoot)
		if id == "" || strings.Contains(id, "/") {
			return Route{Kind: RouteNotFound, Path: path}
		}
		return Route{Kind: RouteMovie, MovieID: id, Path: path}
	default:
		return Route{Kind: RouteNotFound, Path: path}
	}
}

// ListingPath returns "/listing" with the encoded filter appended when non-default
func ListingPath(f domain.FilterState) string {
	if q := Encode(f); q != "" {
		return ListingRoot + "?" + q
	}
	return ListingRoot
}

// MoviePath returns the detail location for a movie id
func MoviePath(id int) string {
	return MovieRoot + strconv.Itoa(id)
}
