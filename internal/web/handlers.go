package web

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mmcdole/reel/internal/domain"
	"github.com/mmcdole/reel/internal/location"
)

// redirectRoot sends "/" to the listing, keeping the query
func (s *Server) redirectRoot(w http.ResponseWriter, r *http.Request) {
	target := location.ListingRoot
	if r.URL.RawQuery != "" {
		target += "?" + r.URL.RawQuery
	}
	http.Redirect(w, r, target, http.StatusFound)
}

// filterFromRequest decodes the filter. The filter form submits one
// "genres" value per checkbox; those are folded into the list form.
func filterFromRequest(r *http.Request) domain.FilterState {
	values := r.URL.Query()
	if genres := values[location.ParamGenres]; len(genres) > 1 {
		values.Set(location.ParamGenres, strings.Join(genres, ","))
	}
	return location.DecodeValues(values)
}

func (s *Server) getListing(w http.ResponseWriter, r *http.Request) error {
	filter := filterFromRequest(r)

	// Non-canonical queries (form submissions, reordered params) redirect
	// to the canonical location so every view has one URL.
	if canonical := location.Encode(filter); canonical != r.URL.RawQuery {
		http.Redirect(w, r, location.ListingPath(filter), http.StatusFound)
		return nil
	}

	data := listingPage{
		Filter:   filter,
		Location: location.ListingPath(filter),
	}

	result, err := s.catalog.ListMovies(r.Context(), filter)
	if err != nil {
		if domain.IsCanceled(err) {
			return nil
		}
		data.Err = domain.UserMessage(err)
	} else {
		data.Result = result
	}

	status := http.StatusOK
	if data.Err != "" {
		status = http.StatusBadGateway
	}
	s.render(w, status, "listing", data)
	return nil
}

func (s *Server) getMovie(w http.ResponseWriter, r *http.Request) error {
	id, err := movieIDParam(r)
	if err != nil {
		return err
	}

	movie, err := s.catalog.MovieDetails(r.Context(), id)
	if err != nil {
		return fetchError(err)
	}

	s.render(w, http.StatusOK, "movie", moviePage{
		Movie:    movie,
		Location: location.MoviePath(id),
		Back:     backLink(r),
	})
	return nil
}

func (s *Server) getNotFound(w http.ResponseWriter, r *http.Request) error {
	return notFound("Page not found")
}

// backLink returns the referring listing, or the default listing
func backLink(r *http.Request) string {
	if ref, err := url.Parse(r.Referer()); err == nil && ref.Path == location.ListingRoot {
		return location.ListingPath(location.DecodeValues(ref.Query()))
	}
	return location.ListingRoot
}

// API

type movieJSON struct {
	ID               int           `json:"id"`
	URL              string        `json:"url,omitempty"`
	IMDbCode         string        `json:"imdb_code,omitempty"`
	Title            string        `json:"title"`
	TitleLong        string        `json:"title_long,omitempty"`
	Slug             string        `json:"slug,omitempty"`
	Year             int           `json:"year"`
	Rating           float64       `json:"rating"`
	Runtime          int           `json:"runtime"`
	Genres           []string      `json:"genres"`
	Summary          string        `json:"summary,omitempty"`
	Language         string        `json:"language,omitempty"`
	MPARating        string        `json:"mpa_rating,omitempty"`
	MediumCoverImage string        `json:"medium_cover_image,omitempty"`
	LargeCoverImage  string        `json:"large_cover_image,omitempty"`
	Torrents         []torrentJSON `json:"torrents"`
	UploadedAt       *time.Time    `json:"uploaded_at,omitempty"`
}

type torrentJSON struct {
	URL        string `json:"url"`
	Hash       string `json:"hash"`
	Quality    string `json:"quality"`
	Type       string `json:"type,omitempty"`
	VideoCodec string `json:"video_codec,omitempty"`
	Seeds      int    `json:"seeds"`
	Peers      int    `json:"peers"`
	Size       string `json:"size,omitempty"`
	Magnet     string `json:"magnet,omitempty"`
}

type movieDetailJSON struct {
	movieJSON
	Description   string   `json:"description_full,omitempty"`
	TrailerURL    string   `json:"trailer_url,omitempty"`
	IMDbURL       string   `json:"imdb_url,omitempty"`
	LikeCount     int      `json:"like_count"`
	DownloadCount int      `json:"download_count"`
	Screenshots   []string `json:"screenshots,omitempty"`
}

type listJSON struct {
	Query      string      `json:"query"`
	Page       int         `json:"page"`
	TotalCount int         `json:"total_count"`
	TotalPages int         `json:"total_pages"`
	FetchedAt  time.Time   `json:"fetched_at"`
	Movies     []movieJSON `json:"movies"`
}

func toMovieJSON(m domain.MovieSummary) movieJSON {
	out := movieJSON{
		ID:               m.ID,
		URL:              m.URL,
		IMDbCode:         m.IMDbCode,
		Title:            m.Title,
		TitleLong:        m.TitleLong,
		Slug:             m.Slug,
		Year:             m.Year,
		Rating:           m.Rating,
		Runtime:          m.Runtime,
		Genres:           m.Genres,
		Summary:          m.Summary,
		Language:         m.Language,
		MPARating:        m.MPARating,
		MediumCoverImage: m.MediumCoverImage,
		LargeCoverImage:  m.LargeCoverImage,
		Torrents:         make([]torrentJSON, 0, len(m.Torrents)),
	}
	if out.Genres == nil {
		out.Genres = []string{}
	}
	if !m.UploadedAt.IsZero() {
		uploaded := m.UploadedAt
		out.UploadedAt = &uploaded
	}
	for _, t := range m.Torrents {
		out.Torrents = append(out.Torrents, torrentJSON{
			URL:        t.URL,
			Hash:       t.Hash,
			Quality:    t.Quality,
			Type:       t.Type,
			VideoCodec: t.VideoCodec,
			Seeds:      t.Seeds,
			Peers:      t.Peers,
			Size:       t.Size,
			Magnet:     t.MagnetURI(m.Title),
		})
	}
	return out
}

func (s *Server) getMovies(w http.ResponseWriter, r *http.Request) error {
	filter := filterFromRequest(r)

	result, err := s.catalog.ListMovies(r.Context(), filter)
	if err != nil {
		return fetchError(err)
	}

	resp := listJSON{
		Query:      location.Encode(filter),
		Page:       filter.Page,
		TotalCount: result.TotalCount,
		TotalPages: result.TotalPages,
		FetchedAt:  result.FetchedAt,
		Movies:     make([]movieJSON, 0, len(result.Items)),
	}
	for _, m := range result.Items {
		resp.Movies = append(resp.Movies, toMovieJSON(m))
	}

	writeJSON(w, http.StatusOK, resp)
	return nil
}

func (s *Server) getMovieJSON(w http.ResponseWriter, r *http.Request) error {
	id, err := movieIDParam(r)
	if err != nil {
		return err
	}

	movie, err := s.catalog.MovieDetails(r.Context(), id)
	if err != nil {
		return fetchError(err)
	}

	writeJSON(w, http.StatusOK, movieDetailJSON{
		movieJSON:     toMovieJSON(movie.MovieSummary),
		Description:   movie.Description(),
		TrailerURL:    movie.TrailerURL(),
		IMDbURL:       movie.IMDbURL(),
		LikeCount:     movie.LikeCount,
		DownloadCount: movie.DownloadCount,
		Screenshots:   movie.Screenshots,
	})
	return nil
}
