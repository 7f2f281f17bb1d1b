package browse

import (
	"context"
	"errors"

	"github.com/mmcdole/reel/internal/domain"
	"github.com/mmcdole/reel/internal/location"
)

// OpenMovie shows the detail view for a raw route id and fetches the record.
// Ids that are not positive integers resolve to NotFound without a fetch.
func (s *Store) OpenMovie(id string) {
	s.update(func() bool {
		s.openMovieLocked(id)
		return true
	})
}

// CloseMovie leaves the detail view and returns to the listing.
// The listing is fetched only if it has nothing to show.
func (s *Store) CloseMovie() {
	s.update(func() bool {
		s.showListingLocked()
		if s.list.Status == ListIdle || s.list.Status == ListErrored {
			s.startListFetchLocked()
		}
		return true
	})
}

func (s *Store) openMovieLocked(rawID string) {
	s.abandonDetailLocked()
	s.view = ViewMovie
	s.notFoundPath = ""

	// The previous record is cleared as soon as a new id starts loading
	s.detail = DetailState{Status: DetailLoading, MovieID: rawID}

	id, ok := location.Route{Kind: location.RouteMovie, MovieID: rawID}.ID()
	if !ok {
		s.detail.Status = DetailNotFound
		s.detail.Err = NotFoundMessage
		return
	}

	s.detailSeq++
	seq := s.detailSeq
	ctx, cancel := context.WithCancel(s.ctx)
	s.detailCancel = cancel

	s.logger.Debug("detail fetch started", "seq", seq, "movie_id", id)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer cancel()
		detail, err := s.repo.MovieDetails(ctx, id)
		s.finishDetail(seq, detail, err)
	}()
}

// abandonDetailLocked cancels the in-flight detail fetch, if any
func (s *Store) abandonDetailLocked() {
	if s.detailCancel != nil {
		s.detailCancel()
		s.detailCancel = nil
	}
	s.detailSeq++
}

func (s *Store) closeDetailLocked() {
	s.abandonDetailLocked()
	s.detail = DetailState{}
}

func (s *Store) finishDetail(seq uint64, detail *domain.MovieDetail, err error) {
	s.update(func() bool {
		if seq != s.detailSeq {
			s.logger.Debug("discarding stale detail response", "seq", seq, "latest", s.detailSeq)
			return false
		}
		s.detailCancel = nil

		switch {
		case err == nil && detail != nil:
			s.detail.Status = DetailLoaded
			s.detail.Movie = detail
			s.detail.Err = ""
		case err == nil, errors.Is(err, domain.ErrMovieNotFound):
			s.detail.Status = DetailNotFound
			s.detail.Err = NotFoundMessage
		case domain.IsCanceled(err):
			s.detail.Status = DetailIdle
		default:
			s.logger.Warn("detail fetch failed", "seq", seq, "movie_id", s.detail.MovieID, "error", err)
			s.detail.Status = DetailErrored
			s.detail.Err = domain.UserMessage(err)
		}
		return true
	})
}
