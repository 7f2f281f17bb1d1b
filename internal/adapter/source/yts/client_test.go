package yts

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmcdole/reel/internal/domain"
)

const listBody = `{
  "status": "ok",
  "status_message": "Query was successful",
  "data": {
    "movie_count": 45,
    "limit": 20,
    "page_number": 2,
    "movies": [
      {
        "id": 10,
        "imdb_code": "tt0133093",
        "title": "The Matrix",
        "title_long": "The Matrix (1999)",
        "year": 1999,
        "rating": 8.7,
        "runtime": 136,
        "genres": ["Action", "Sci-Fi"],
        "medium_cover_image": "https://img.example/matrix.jpg",
        "date_uploaded_unix": 1446333478,
        "torrents": [
          {"url": "https://t.example/1", "hash": "ABC", "quality": "1080p", "type": "bluray", "seeds": 100, "peers": 5, "size": "1.6 GB", "size_bytes": 1717986918}
        ]
      },
      {"id": 11, "title": "Alien", "year": 1979, "rating": 8.5}
    ]
  }
}`

const detailBody = `{
  "status": "ok",
  "status_message": "Query was successful",
  "data": {
    "movie": {
      "id": 10,
      "title": "The Matrix",
      "year": 1999,
      "description_full": "A hacker learns the truth.",
      "yt_trailer_code": "vKQi3bBA1y8",
      "like_count": 1200,
      "large_screenshot_image1": "https://img.example/s1.jpg",
      "large_screenshot_image2": "https://img.example/s2.jpg"
    }
  }
}`

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c := NewClient(Config{BaseURL: srv.URL, APIKey: "key-123", Host: "api.example"}, nil)
	c.now = func() time.Time { return time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC) }
	return c
}

func TestListParams(t *testing.T) {
	f := domain.DefaultFilterState().
		WithSearch("matrix").
		WithGenres([]string{"Drama", "Action"}).
		WithSortBy(domain.SortRating).
		WithMinimumRating(7.5).
		WithPage(3)

	q := ListParams(f)

	assert.Equal(t, "20", q.Get("limit"))
	assert.Equal(t, "3", q.Get("page"))
	assert.Equal(t, "all", q.Get("quality"))
	assert.Equal(t, "Action,Drama", q.Get("genre"))
	assert.Equal(t, "7.5", q.Get("minimum_rating"))
	assert.Equal(t, "matrix", q.Get("query_term"))
	assert.Equal(t, "rating", q.Get("sort_by"))
	assert.Equal(t, "desc", q.Get("order_by"))
	assert.Equal(t, "false", q.Get("with_rt_ratings"))
}

func TestListParams_Defaults(t *testing.T) {
	q := ListParams(domain.DefaultFilterState())

	assert.Equal(t, "all", q.Get("genre"))
	assert.Equal(t, "0", q.Get("minimum_rating"))
	assert.Equal(t, "", q.Get("query_term"))
	assert.Equal(t, "date_added", q.Get("sort_by"))
	assert.Equal(t, "1", q.Get("page"))
}

func TestClient_ListMovies(t *testing.T) {
	var gotKey, gotHost, gotRequestID string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, listPath, r.URL.Path)
		assert.Equal(t, "2", r.URL.Query().Get("page"))
		gotKey = r.Header.Get("X-RapidAPI-Key")
		gotHost = r.Header.Get("X-RapidAPI-Host")
		gotRequestID = r.Header.Get("X-Request-ID")
		w.Write([]byte(listBody))
	})

	result, err := c.ListMovies(context.Background(), domain.DefaultFilterState().WithPage(2))
	require.NoError(t, err)

	assert.Equal(t, "key-123", gotKey)
	assert.Equal(t, "api.example", gotHost)
	assert.NotEmpty(t, gotRequestID)

	assert.Equal(t, 45, result.TotalCount)
	assert.Equal(t, 3, result.TotalPages)
	assert.Equal(t, 2, result.Page)
	assert.Equal(t, time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC), result.FetchedAt)

	require.Len(t, result.Items, 2)
	assert.Equal(t, "The Matrix", result.Items[0].Title)
	assert.Equal(t, "Alien", result.Items[1].Title)
	require.Len(t, result.Items[0].Torrents, 1)
	assert.Equal(t, "1080p", result.Items[0].Torrents[0].Quality)
	assert.Equal(t, int64(1446333478), result.Items[0].UploadedAt.Unix())
}

func TestClient_ListMovies_EmptyPage(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"ok","status_message":"","data":{"movie_count":0,"limit":20,"page_number":1}}`))
	})

	result, err := c.ListMovies(context.Background(), domain.DefaultFilterState())
	require.NoError(t, err)
	assert.True(t, result.IsEmpty())
	assert.Equal(t, 0, result.TotalPages)
}

func TestClient_ListMovies_Failures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		kind    domain.FailureKind
		status  int
	}{
		{
			name: "http_error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			},
			kind:   domain.FailureHTTP,
			status: http.StatusInternalServerError,
		},
		{
			name: "malformed_body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"status": "ok", "data": [`))
			},
			kind: domain.FailureParse,
		},
		{
			name: "envelope_error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"status": "error", "status_message": "bad sort"}`))
			},
			kind: domain.FailureParse,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, tt.handler)

			_, err := c.ListMovies(context.Background(), domain.DefaultFilterState())
			require.Error(t, err)

			var fe *domain.FetchError
			require.True(t, errors.As(err, &fe))
			assert.Equal(t, tt.kind, fe.Kind)
			assert.Equal(t, tt.status, fe.Status)
			assert.NotEmpty(t, domain.UserMessage(err))
		})
	}
}

func TestClient_ListMovies_NetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	c := NewClient(Config{BaseURL: srv.URL}, nil)
	_, err := c.ListMovies(context.Background(), domain.DefaultFilterState())

	kind, ok := domain.KindOf(err)
	require.True(t, ok)
	assert.Equal(t, domain.FailureNetwork, kind)
	assert.ErrorIs(t, err, domain.ErrProviderOffline)
}

func TestClient_ListMovies_Cancelled(t *testing.T) {
	release := make(chan struct{})
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	})
	defer close(release)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	_, err := c.ListMovies(ctx, domain.DefaultFilterState())
	assert.True(t, domain.IsCanceled(err))
	_, isFetchErr := domain.KindOf(err)
	assert.False(t, isFetchErr)
}

func TestClient_MovieDetails(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, detailPath, r.URL.Path)
		assert.Equal(t, "10", r.URL.Query().Get("movie_id"))
		w.Write([]byte(detailBody))
	})

	detail, err := c.MovieDetails(context.Background(), 10)
	require.NoError(t, err)

	assert.Equal(t, 10, detail.ID)
	assert.Equal(t, "A hacker learns the truth.", detail.Description())
	assert.Equal(t, "https://www.youtube.com/watch?v=vKQi3bBA1y8", detail.TrailerURL())
	assert.Equal(t, 1200, detail.LikeCount)
	assert.Equal(t, []string{"https://img.example/s1.jpg", "https://img.example/s2.jpg"}, detail.Screenshots)
}

func TestClient_MovieDetails_NotFound(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"empty_movie", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"status":"ok","status_message":"","data":{"movie":{"id":0}}}`))
		}},
		{"error_status", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"status":"error","status_message":"Movie not found"}`))
		}},
		{"http_404", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, tt.handler)

			_, err := c.MovieDetails(context.Background(), 99999)
			assert.ErrorIs(t, err, domain.ErrMovieNotFound)
			assert.Equal(t, "Movie not found", domain.UserMessage(err))
		})
	}
}

func TestClient_MovieDetails_InvalidID(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected for an invalid id")
	})

	_, err := c.MovieDetails(context.Background(), 0)
	assert.ErrorIs(t, err, domain.ErrMovieNotFound)
}
