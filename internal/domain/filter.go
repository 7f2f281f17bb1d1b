package domain

import (
	"math"
	"slices"
	"strings"
)

// SortKey is a provider sort field
type SortKey string

const (
	SortDateAdded     SortKey = "date_added"
	SortYear          SortKey = "year"
	SortRating        SortKey = "rating"
	SortTitle         SortKey = "title"
	SortDownloadCount SortKey = "download_count"
	SortLikeCount     SortKey = "like_count"
)

// DefaultSort is the sort applied when none is chosen
const DefaultSort = SortDateAdded

// SortKeys returns every sort key in display order
func SortKeys() []SortKey {
	return []SortKey{SortDateAdded, SortYear, SortRating, SortTitle, SortDownloadCount, SortLikeCount}
}

// ParseSortKey returns the sort key for s, or false if s is not one
func ParseSortKey(s string) (SortKey, bool) {
	for _, k := range SortKeys() {
		if string(k) == s {
			return k, true
		}
	}
	return "", false
}

// String returns the display name for the sort key
func (k SortKey) String() string {
	switch k {
	case SortDateAdded:
		return "Date Added"
	case SortYear:
		return "Year"
	case SortRating:
		return "Rating"
	case SortTitle:
		return "Title"
	case SortDownloadCount:
		return "Downloads"
	case SortLikeCount:
		return "Likes"
	default:
		return "Unknown"
	}
}

// Genres lists the genres offered for filtering
var Genres = []string{
	"Action",
	"Adventure",
	"Animation",
	"Comedy",
	"Crime",
	"Documentary",
	"Drama",
	"Family",
	"Fantasy",
	"History",
	"Horror",
	"Music",
	"Mystery",
	"Romance",
	"Science Fiction",
	"TV Movie",
	"Thriller",
	"War",
	"Western",
}

// RatingPresets are the minimum ratings offered in pickers (0 = any)
var RatingPresets = []float64{0, 7, 8, 9}

const (
	MinRating = 0
	MaxRating = 10
)

// FilterState is the canonical set of user-chosen list parameters.
// Values are immutable: every With* method returns a modified copy.
type FilterState struct {
	SearchTerm    string
	Genres        []string // Set semantics, kept normalized (sorted, unique)
	SortBy        SortKey
	MinimumRating float64 // 0-10
	Page          int     // >= 1
}

// DefaultFilterState returns the state with every field at its default
func DefaultFilterState() FilterState {
	return FilterState{
		SortBy: DefaultSort,
		Page:   1,
	}
}

// NormalizeGenres trims, splits on commas, drops empties and duplicates, and sorts
func NormalizeGenres(genres []string) []string {
	var out []string
	for _, g := range genres {
		for _, part := range strings.Split(g, ",") {
			part = strings.TrimSpace(part)
			if part != "" && !slices.Contains(out, part) {
				out = append(out, part)
			}
		}
	}
	slices.Sort(out)
	return out
}

// WithSearch sets the search term and resets the page
func (f FilterState) WithSearch(term string) FilterState {
	f.SearchTerm = term
	f.Page = 1
	return f
}

// WithGenres sets the genre set and resets the page
func (f FilterState) WithGenres(genres []string) FilterState {
	f.Genres = NormalizeGenres(genres)
	f.Page = 1
	return f
}

// WithSortBy sets the sort key and resets the page.
// Unknown keys fall back to the default sort.
func (f FilterState) WithSortBy(key SortKey) FilterState {
	if _, ok := ParseSortKey(string(key)); !ok {
		key = DefaultSort
	}
	f.SortBy = key
	f.Page = 1
	return f
}

// WithMinimumRating sets the minimum rating, clamped to [0,10], and resets the page.
// NaN counts as no minimum.
func (f FilterState) WithMinimumRating(rating float64) FilterState {
	if math.IsNaN(rating) {
		rating = MinRating
	}
	f.MinimumRating = min(max(rating, MinRating), MaxRating)
	f.Page = 1
	return f
}

// WithPage sets the page only. Pages below 1 become 1; there is no upper bound
// since the result range is only known after a fetch.
func (f FilterState) WithPage(page int) FilterState {
	f.Page = max(page, 1)
	return f
}

// Equal reports whether two states select the same results
func (f FilterState) Equal(o FilterState) bool {
	return f.SearchTerm == o.SearchTerm &&
		slices.Equal(NormalizeGenres(f.Genres), NormalizeGenres(o.Genres)) &&
		f.SortBy == o.SortBy &&
		f.MinimumRating == o.MinimumRating &&
		f.Page == o.Page
}

// IsDefault reports whether every field holds its default value
func (f FilterState) IsDefault() bool {
	return f.Equal(DefaultFilterState())
}

// HasFilters reports whether any result-narrowing field is set (page ignored)
func (f FilterState) HasFilters() bool {
	return f.SearchTerm != "" || len(f.Genres) > 0 || f.SortBy != DefaultSort || f.MinimumRating != 0
}

// Clone returns a copy that shares no slices with f
func (f FilterState) Clone() FilterState {
	f.Genres = slices.Clone(f.Genres)
	return f
}
