package domain

import (
	"context"
	"errors"
	"fmt"
)

// Sentinel errors for domain operations
var (
	// ErrMovieNotFound indicates the provider has no movie for the requested id
	ErrMovieNotFound = errors.New("movie not found")

	// ErrStoreClosed indicates an operation on a closed browse store
	ErrStoreClosed = errors.New("store is closed")

	// ErrProviderOffline indicates the provider is unreachable
	ErrProviderOffline = errors.New("movie provider is unreachable")
)

// FailureKind classifies fetch failures
type FailureKind int

const (
	// FailureNetwork means no response was received
	FailureNetwork FailureKind = iota
	// FailureHTTP means the provider answered with a non-2xx status
	FailureHTTP
	// FailureParse means the response body could not be decoded
	FailureParse
	// FailureNotFound means the requested movie does not exist
	FailureNotFound
)

func (k FailureKind) String() string {
	switch k {
	case FailureNetwork:
		return "network"
	case FailureHTTP:
		return "http"
	case FailureParse:
		return "parse"
	case FailureNotFound:
		return "not_found"
	default:
		return "unknown"
	}
}

// FetchError is a typed provider failure
type FetchError struct {
	Kind   FailureKind
	Status int    // HTTP status, set for FailureHTTP
	Op     string // "list_movies", "movie_details"
	Err    error
}

func (e *FetchError) Error() string {
	switch e.Kind {
	case FailureHTTP:
		return fmt.Sprintf("%s: provider returned status %d", e.Op, e.Status)
	case FailureNotFound:
		return fmt.Sprintf("%s: %v", e.Op, ErrMovieNotFound)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s failure: %v", e.Op, e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: %s failure", e.Op, e.Kind)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Is lets errors.Is(err, ErrMovieNotFound) and errors.Is(err, ErrProviderOffline) match by kind
func (e *FetchError) Is(target error) bool {
	switch target {
	case ErrMovieNotFound:
		return e.Kind == FailureNotFound
	case ErrProviderOffline:
		return e.Kind == FailureNetwork
	}
	return false
}

// KindOf returns the failure kind of err and whether err carries one
func KindOf(err error) (FailureKind, bool) {
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe.Kind, true
	}
	if errors.Is(err, ErrMovieNotFound) {
		return FailureNotFound, true
	}
	return 0, false
}

// IsCanceled reports whether err stems from a cancelled or superseded request
func IsCanceled(err error) bool {
	return errors.Is(err, context.Canceled)
}

// UserMessage collapses any failure into one human-readable line
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var fe *FetchError
	if errors.As(err, &fe) {
		switch fe.Kind {
		case FailureNetwork:
			return "Could not reach the movie service. Check your connection and try again."
		case FailureHTTP:
			if fe.Status == 401 || fe.Status == 403 {
				return "The movie service rejected the API key."
			}
			if fe.Status == 429 {
				return "Too many requests. Wait a moment and try again."
			}
			return fmt.Sprintf("The movie service returned an error (HTTP %d).", fe.Status)
		case FailureParse:
			return "The movie service sent a response that could not be read."
		case FailureNotFound:
			return "Movie not found"
		}
	}
	if errors.Is(err, ErrMovieNotFound) {
		return "Movie not found"
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return "The movie service took too long to respond."
	}
	return "Something went wrong: " + err.Error()
}
