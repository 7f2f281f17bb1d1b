package browse

import (
	"time"

	"github.com/mmcdole/reel/internal/domain"
	"github.com/mmcdole/reel/internal/location"
)

// ListStatus is the lifecycle of the list query
type ListStatus int

const (
	ListIdle ListStatus = iota
	ListLoading
	ListLoaded
	ListErrored
)

func (s ListStatus) String() string {
	switch s {
	case ListIdle:
		return "idle"
	case ListLoading:
		return "loading"
	case ListLoaded:
		return "loaded"
	case ListErrored:
		return "errored"
	default:
		return "unknown"
	}
}

// DetailStatus is the lifecycle of the detail query
type DetailStatus int

const (
	DetailIdle DetailStatus = iota
	DetailLoading
	DetailLoaded
	DetailNotFound
	DetailErrored
)

func (s DetailStatus) String() string {
	switch s {
	case DetailIdle:
		return "idle"
	case DetailLoading:
		return "loading"
	case DetailLoaded:
		return "loaded"
	case DetailNotFound:
		return "not_found"
	case DetailErrored:
		return "errored"
	default:
		return "unknown"
	}
}

// NotFoundMessage is shown when a movie id has no record
const NotFoundMessage = "Movie not found"

// ListState is the read projection of the list query
type ListState struct {
	Status     ListStatus
	Items      []domain.MovieSummary
	TotalCount int
	TotalPages int
	Page       int
	FetchedAt  time.Time // Zero until the first successful fetch
	Err        string    // Set only when Status is ListErrored
}

// DetailState is the read projection of the detail query.
// It is independent of the list error.
type DetailState struct {
	Status  DetailStatus
	MovieID string // Raw id from the route
	Movie   *domain.MovieDetail
	Err     string // Set for DetailNotFound and DetailErrored
}

// View is the screen a store is showing
type View int

const (
	ViewListing View = iota
	ViewMovie
	ViewNotFound
)

// Snapshot is an immutable view of the store. Versions increase
// monotonically; consumers should drop snapshots older than one already seen.
type Snapshot struct {
	Version uint64
	View    View

	Filter domain.FilterState
	List   ListState
	Detail DetailState

	// SearchInput is the search text as typed, which may be ahead of
	// Filter.SearchTerm while the debounce window is open.
	SearchInput   string
	SearchPending bool

	NotFoundPath string
}

// Location is the canonical URL of the current view
func (s Snapshot) Location() string {
	switch s.View {
	case ViewMovie:
		return location.Route{Kind: location.RouteMovie, MovieID: s.Detail.MovieID}.String()
	case ViewNotFound:
		return s.NotFoundPath
	default:
		return location.ListingPath(s.Filter)
	}
}

// Query is the canonical query string of the current filter
func (s Snapshot) Query() string {
	return location.Encode(s.Filter)
}

// IsLoading reports whether the current view is waiting on a fetch
func (s Snapshot) IsLoading() bool {
	if s.View == ViewMovie {
		return s.Detail.Status == DetailLoading
	}
	return s.List.Status == ListLoading
}

// IsEmptyResult reports whether the last list fetch succeeded with no movies.
// Views should offer ClearFilters in that state.
func (s Snapshot) IsEmptyResult() bool {
	return s.List.Status == ListLoaded && len(s.List.Items) == 0
}

// CanClearFilters reports whether ClearFilters would do something useful
func (s Snapshot) CanClearFilters() bool {
	return s.IsEmptyResult() || s.List.Status == ListErrored || !s.Filter.IsDefault()
}

// HasNextPage reports whether the page after the current one exists
func (s Snapshot) HasNextPage() bool {
	return s.Filter.Page < s.List.TotalPages
}

// HasPrevPage reports whether the page before the current one exists
func (s Snapshot) HasPrevPage() bool {
	return s.Filter.Page > 1
}
