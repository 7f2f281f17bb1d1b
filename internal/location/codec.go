// Package location maps filter state and routes to and from URL form.
//
// The query string is the durable, shareable form of a listing: only
// non-default fields are written, always in the order search, genres,
// sort, rating, page.
package location

import (
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/mmcdole/reel/internal/domain"
)

// Query parameter names
const (
	ParamSearch = "search"
	ParamGenres = "genres"
	ParamSort   = "sort"
	ParamRating = "rating"
	ParamPage   = "page"
)

// Encode returns the canonical query string for f, without a leading "?".
// The default state encodes to "".
func Encode(f domain.FilterState) string {
	var parts []string

	if f.SearchTerm != "" {
		parts = append(parts, ParamSearch+"="+url.QueryEscape(f.SearchTerm))
	}

	if genres := domain.NormalizeGenres(f.Genres); len(genres) > 0 {
		escaped := make([]string, len(genres))
		for i, g := range genres {
			escaped[i] = url.QueryEscape(g)
		}
		parts = append(parts, ParamGenres+"="+strings.Join(escaped, ","))
	}

	if f.SortBy != "" && f.SortBy != domain.DefaultSort {
		parts = append(parts, ParamSort+"="+url.QueryEscape(string(f.SortBy)))
	}

	if f.MinimumRating != 0 {
		parts = append(parts, ParamRating+"="+FormatRating(f.MinimumRating))
	}

	if f.Page > 1 {
		parts = append(parts, ParamPage+"="+strconv.Itoa(f.Page))
	}

	return strings.Join(parts, "&")
}

// Decode parses a query string (with or without a leading "?") into a
// filter state. Missing or malformed fields take their default value and
// unknown parameters are ignored.
func Decode(query string) domain.FilterState {
	values, _ := url.ParseQuery(strings.TrimPrefix(query, "?"))
	return DecodeValues(values)
}

// DecodeValues is Decode for already parsed query values
func DecodeValues(values url.Values) domain.FilterState {
	f := domain.DefaultFilterState()

	f.SearchTerm = values.Get(ParamSearch)

	if raw := values.Get(ParamGenres); raw != "" {
		f.Genres = domain.NormalizeGenres(strings.Split(raw, ","))
	}

	if key, ok := domain.ParseSortKey(values.Get(ParamSort)); ok {
		f.SortBy = key
	}

	if rating, ok := parseRating(values.Get(ParamRating)); ok {
		f.MinimumRating = rating
	}

	if page, err := strconv.Atoi(values.Get(ParamPage)); err == nil && page >= 1 {
		f.Page = page
	}

	return f
}

// FormatRating renders a rating in its shortest exact decimal form ("7", "7.5")
func FormatRating(r float64) string {
	return strconv.FormatFloat(r, 'f', -1, 64)
}

func parseRating(s string) (float64, bool) {
	if s == "" {
		return 0, false
	}
	r, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(r) || r < domain.MinRating || r > domain.MaxRating {
		return 0, false
	}
	return r, true
}
