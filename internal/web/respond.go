package web

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/mmcdole/reel/internal/domain"
	"github.com/mmcdole/reel/internal/location"
)

// HandlerWithErr is an HTTP handler that reports failures by returning them
type HandlerWithErr func(w http.ResponseWriter, r *http.Request) error

// Error is a failure with the status code it should be answered with
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	return e.Message + " code=" + strconv.Itoa(e.Status)
}

type errorResponse struct {
	Error string `json:"error"`
}

func notFound(msg string) error   { return &Error{Status: http.StatusNotFound, Message: msg} }
func badGateway(msg string) error { return &Error{Status: http.StatusBadGateway, Message: msg} }

// fetchError maps a catalog failure onto a status and a user-facing message
func fetchError(err error) error {
	if kind, ok := domain.KindOf(err); ok && kind == domain.FailureNotFound {
		return notFound(domain.UserMessage(err))
	}
	if errors.Is(err, domain.ErrMovieNotFound) {
		return notFound(domain.UserMessage(err))
	}
	return badGateway(domain.UserMessage(err))
}

// statusOf splits an error returned by a handler into status and message
func statusOf(err error) (int, string) {
	var statusErr *Error
	if errors.As(err, &statusErr) {
		return statusErr.Status, statusErr.Message
	}
	return http.StatusInternalServerError, "internal error"
}

// Adapt turns a HandlerWithErr into an http.Handler answering errors as JSON
func Adapt(h HandlerWithErr) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := h(w, r); err != nil {
			status, msg := statusOf(err)
			if status >= http.StatusInternalServerError {
				slog.Warn("request failed", "path", r.URL.Path, "status", status, "error", err)
			}
			writeJSON(w, status, &errorResponse{Error: msg})
		}
	})
}

// page is Adapt for HTML routes: errors render the error page
func (s *Server) page(h HandlerWithErr) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := h(w, r); err != nil {
			status, msg := statusOf(err)
			if status >= http.StatusInternalServerError {
				s.logger.Warn("page failed", "path", r.URL.Path, "status", status, "error", err)
			}
			s.render(w, status, "error", errorPage{Title: http.StatusText(status), Message: msg, Path: r.URL.Path})
		}
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)

	if payload == nil {
		return
	}

	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Warn("write json failed", "error", err)
	}
}

// movieIDParam validates the {id} path segment the same way the store does
func movieIDParam(r *http.Request) (int, error) {
	raw := chi.URLParam(r, "id")
	id, ok := location.Route{Kind: location.RouteMovie, MovieID: raw}.ID()
	if !ok {
		return 0, notFound("Movie not found")
	}
	return id, nil
}
