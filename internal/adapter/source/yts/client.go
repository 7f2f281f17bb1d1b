// Package yts implements the catalog repository over the YTS-style movie API.
package yts

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/mmcdole/reel/internal/domain"
)

const (
	defaultTimeout = 30 * time.Second
	userAgent      = "Reel/1.0"

	listPath   = "/list_movies.json"
	detailPath = "/movie_details.json"

	opList   = "list_movies"
	opDetail = "movie_details"

	statusOK = "ok"
)

// Config holds what the client needs to reach the provider
type Config struct {
	BaseURL           string
	APIKey            string
	Host              string
	Timeout           time.Duration
	RequestsPerSecond float64 // 0 disables limiting
	Burst             int
}

// Client implements domain.CatalogRepository for the provider API
type Client struct {
	baseURL    string
	apiKey     string
	host       string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *slog.Logger
	now        func() time.Time
}

var _ domain.CatalogRepository = (*Client)(nil)

// NewClient creates a new provider API client
func NewClient(cfg Config, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	limiter := rate.NewLimiter(rate.Inf, 0)
	if cfg.RequestsPerSecond > 0 {
		burst := max(cfg.Burst, 1)
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), burst)
	}

	return &Client{
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		host:    cfg.Host,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		limiter: limiter,
		logger:  logger,
		now:     time.Now,
	}
}

// ListParams translates a filter state into the provider's list parameters
func ListParams(f domain.FilterState) url.Values {
	genre := "all"
	if genres := domain.NormalizeGenres(f.Genres); len(genres) > 0 {
		genre = strings.Join(genres, ",")
	}
	sortBy := f.SortBy
	if sortBy == "" {
		sortBy = domain.DefaultSort
	}

	q := url.Values{}
	q.Set("limit", strconv.Itoa(domain.PageSize))
	q.Set("page", strconv.Itoa(max(f.Page, 1)))
	q.Set("quality", "all")
	q.Set("genre", genre)
	q.Set("minimum_rating", strconv.FormatFloat(f.MinimumRating, 'f', -1, 64))
	q.Set("query_term", f.SearchTerm)
	q.Set("sort_by", string(sortBy))
	q.Set("order_by", "desc")
	q.Set("with_rt_ratings", "false")
	return q
}

// doRequest performs an authenticated GET and returns the body of a 2xx response.
// A cancelled ctx is returned as-is so callers can tell it apart from failures.
func (c *Client) doRequest(ctx context.Context, op, path string, query url.Values) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, &domain.FetchError{Kind: domain.FailureNetwork, Op: op, Err: err}
	}

	reqURL := c.baseURL + path
	if query != nil {
		reqURL = fmt.Sprintf("%s?%s", reqURL, query.Encode())
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-RapidAPI-Key", c.apiKey)
	req.Header.Set("X-RapidAPI-Host", c.host)
	req.Header.Set("X-Request-ID", requestID)
	req.Header.Set("User-Agent", userAgent)

	c.logger.Debug("provider request", "op", op, "url", reqURL, "request_id", requestID)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(ctx.Err(), context.Canceled) {
			c.logger.Debug("provider request cancelled", "op", op, "request_id", requestID)
			return nil, ctx.Err()
		}
		c.logger.Error("provider request failed", "op", op, "request_id", requestID, "error", err)
		return nil, &domain.FetchError{Kind: domain.FailureNetwork, Op: op, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		if errors.Is(ctx.Err(), context.Canceled) {
			return nil, ctx.Err()
		}
		return nil, &domain.FetchError{Kind: domain.FailureNetwork, Op: op, Err: fmt.Errorf("failed to read response: %w", err)}
	}

	c.logger.Debug("provider response", "op", op, "status", resp.StatusCode,
		"request_id", requestID, "duration", time.Since(start), "bytes", len(body))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Error("provider request error", "op", op, "status", resp.StatusCode, "request_id", requestID)
		return nil, &domain.FetchError{Kind: domain.FailureHTTP, Status: resp.StatusCode, Op: op}
	}

	return body, nil
}

// ListMovies returns one page of movies for the filter state
func (c *Client) ListMovies(ctx context.Context, filter domain.FilterState) (domain.QueryResult, error) {
	body, err := c.doRequest(ctx, opList, listPath, ListParams(filter))
	if err != nil {
		return domain.QueryResult{}, err
	}

	var resp ListResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		c.logger.Error("JSON parse error", "op", opList, "error", err, "bodyLen", len(body))
		return domain.QueryResult{}, &domain.FetchError{Kind: domain.FailureParse, Op: opList, Err: err}
	}
	if resp.Status != statusOK {
		return domain.QueryResult{}, &domain.FetchError{
			Kind: domain.FailureParse,
			Op:   opList,
			Err:  fmt.Errorf("provider status %q: %s", resp.Status, resp.StatusMessage),
		}
	}

	limit := resp.Data.Limit
	if limit <= 0 {
		limit = domain.PageSize
	}
	page := resp.Data.PageNumber
	if page <= 0 {
		page = max(filter.Page, 1)
	}

	return domain.QueryResult{
		Items:      MapMovies(resp.Data.Movies),
		TotalCount: resp.Data.MovieCount,
		TotalPages: domain.TotalPages(resp.Data.MovieCount, limit),
		Page:       page,
		FetchedAt:  c.now(),
	}, nil
}

// MovieDetails returns the full record for a movie id
func (c *Client) MovieDetails(ctx context.Context, id int) (*domain.MovieDetail, error) {
	if id <= 0 {
		return nil, &domain.FetchError{Kind: domain.FailureNotFound, Op: opDetail}
	}

	query := url.Values{}
	query.Set("movie_id", strconv.Itoa(id))
	query.Set("with_images", "true")

	body, err := c.doRequest(ctx, opDetail, detailPath, query)
	if err != nil {
		var fe *domain.FetchError
		if errors.As(err, &fe) && fe.Kind == domain.FailureHTTP && fe.Status == http.StatusNotFound {
			return nil, &domain.FetchError{Kind: domain.FailureNotFound, Status: fe.Status, Op: opDetail}
		}
		return nil, err
	}

	var resp DetailResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		c.logger.Error("JSON parse error", "op", opDetail, "error", err, "bodyLen", len(body))
		return nil, &domain.FetchError{Kind: domain.FailureParse, Op: opDetail, Err: err}
	}

	// The provider answers unknown ids with a non-ok status or an empty movie
	if resp.Status != statusOK || resp.Data.Movie.ID == 0 {
		c.logger.Debug("movie not found", "id", id, "status", resp.Status, "message", resp.StatusMessage)
		return nil, &domain.FetchError{Kind: domain.FailureNotFound, Op: opDetail}
	}

	return MapMovieDetail(resp.Data.Movie), nil
}
