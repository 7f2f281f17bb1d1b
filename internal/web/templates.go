package web

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"
	"slices"
	"strings"

	"github.com/mmcdole/reel/internal/domain"
	"github.com/mmcdole/reel/internal/location"
)

//go:embed templates/*.html
var templateFS embed.FS

type listingPage struct {
	Filter   domain.FilterState
	Result   domain.QueryResult
	Err      string
	Location string
}

// HasPrev reports whether a previous page exists
func (p listingPage) HasPrev() bool { return p.Filter.Page > 1 }

// HasNext reports whether a next page exists
func (p listingPage) HasNext() bool { return p.Filter.Page < p.Result.TotalPages }

// PrevPath is the location of the previous page
func (p listingPage) PrevPath() string { return location.ListingPath(p.Filter.WithPage(p.Filter.Page - 1)) }

// NextPath is the location of the next page
func (p listingPage) NextPath() string { return location.ListingPath(p.Filter.WithPage(p.Filter.Page + 1)) }

// Empty reports whether a successful fetch returned no movies
func (p listingPage) Empty() bool { return p.Err == "" && p.Result.IsEmpty() }

type moviePage struct {
	Movie    *domain.MovieDetail
	Location string
	Back     string
}

type errorPage struct {
	Title   string
	Message string
	Path    string
}

type sortOption struct {
	Value    string
	Label    string
	Selected bool
}

type ratingOption struct {
	Value    string
	Label    string
	Selected bool
}

type genreOption struct {
	Name    string
	Checked bool
}

var templateFuncs = template.FuncMap{
	"rating":    location.FormatRating,
	"join":      strings.Join,
	"moviePath": location.MoviePath,
	"sortOptions": func(f domain.FilterState) []sortOption {
		var out []sortOption
		for _, k := range domain.SortKeys() {
			out = append(out, sortOption{Value: string(k), Label: k.String(), Selected: k == f.SortBy})
		}
		return out
	},
	"ratingOptions": func(f domain.FilterState) []ratingOption {
		var out []ratingOption
		for _, r := range domain.RatingPresets {
			label := "Any"
			if r > 0 {
				label = location.FormatRating(r) + "+"
			}
			out = append(out, ratingOption{Value: location.FormatRating(r), Label: label, Selected: r == f.MinimumRating})
		}
		return out
	},
	"genreOptions": func(f domain.FilterState) []genreOption {
		out := make([]genreOption, 0, len(domain.Genres))
		for _, g := range domain.Genres {
			out = append(out, genreOption{Name: g, Checked: slices.Contains(f.Genres, g)})
		}
		return out
	},
}

func parseTemplates() (*template.Template, error) {
	return template.New("").Funcs(templateFuncs).ParseFS(templateFS, "templates/*.html")
}

// render writes a page with status. Template failures answer 500 with no partial page.
func (s *Server) render(w http.ResponseWriter, status int, name string, data any) {
	var buf bytes.Buffer
	if err := s.pages.ExecuteTemplate(&buf, name, data); err != nil {
		s.logger.Error("failed to render page", "template", name, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}
