// Package browse holds the filter store: the single owner of filter state,
// list results and the selected movie, with debounced search and
// last-mutation-wins fetching.
package browse

import (
	"context"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/mmcdole/reel/internal/domain"
	"github.com/mmcdole/reel/internal/location"
)

// Observer receives a snapshot after every state change, in version order.
// OnSnapshot must not block. It may read the store with Snapshot but must
// not call store mutators synchronously.
type Observer interface {
	OnSnapshot(Snapshot)
}

// ObserverFunc adapts a function to Observer
type ObserverFunc func(Snapshot)

func (f ObserverFunc) OnSnapshot(s Snapshot) { f(s) }

// pageInvalidator is implemented by repositories that cache list pages
type pageInvalidator interface {
	Invalidate(filter domain.FilterState)
}

// movieInvalidator is implemented by repositories that cache detail records
type movieInvalidator interface {
	InvalidateMovie(id int)
}

// Mutation is one field change applied by Apply
type Mutation func(domain.FilterState) domain.FilterState

// Option configures a Store
type Option func(*Store)

// WithScheduler replaces the timer source used for search debouncing
func WithScheduler(s Scheduler) Option {
	return func(st *Store) { st.sched = s }
}

// WithSearchDebounce sets the search quiescence window
func WithSearchDebounce(d time.Duration) Option {
	return func(st *Store) {
		if d >= 0 {
			st.debounce = d
		}
	}
}

// Store owns filter state and query results
type Store struct {
	repo     domain.CatalogRepository
	sched    Scheduler
	debounce time.Duration
	logger   *slog.Logger

	mu       sync.Mutex
	notifyMu sync.Mutex // Serializes observer delivery in version order

	view         View
	notFoundPath string
	filter       domain.FilterState
	list         ListState
	detail       DetailState

	// Search debounce: one pending timer, guarded by a generation
	searchInput   string
	searchPending bool
	searchTimer   Timer
	searchGen     uint64

	// Fetch sequencing: only the latest issued fetch per query type applies
	listSeq      uint64
	listCancel   context.CancelFunc
	detailSeq    uint64
	detailCancel context.CancelFunc

	version   uint64
	observers map[int]Observer
	nextObsID int

	ctx    context.Context
	cancel context.CancelFunc
	closed bool
	wg     sync.WaitGroup
}

// NewStore creates a store in the Idle state with default filters.
// Nothing is fetched until Start or a mutation.
func NewStore(repo domain.CatalogRepository, logger *slog.Logger, opts ...Option) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	ctx, cancel := context.WithCancel(context.Background())
	s := &Store{
		repo:      repo,
		sched:     realScheduler{},
		debounce:  DefaultSearchDebounce,
		logger:    logger,
		filter:    domain.DefaultFilterState(),
		list:      ListState{Page: 1},
		observers: make(map[int]Observer),
		ctx:       ctx,
		cancel:    cancel,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Subscribe registers an observer and returns a function that removes it
func (s *Store) Subscribe(o Observer) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextObsID
	s.nextObsID++
	s.observers[id] = o
	return func() {
		s.mu.Lock()
		delete(s.observers, id)
		s.mu.Unlock()
	}
}

// Snapshot returns the current state
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Store) snapshotLocked() Snapshot {
	list := s.list
	list.Items = slices.Clone(s.list.Items)
	return Snapshot{
		Version:       s.version,
		View:          s.view,
		Filter:        s.filter.Clone(),
		List:          list,
		Detail:        s.detail,
		SearchInput:   s.searchInput,
		SearchPending: s.searchPending,
		NotFoundPath:  s.notFoundPath,
	}
}

// update runs fn under the lock and, if it reports a change, publishes a
// new snapshot to observers after the lock is released. The delivery lock
// is taken first so snapshots go out in version order while observers are
// still free to read the store.
func (s *Store) update(fn func() bool) {
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		s.logger.Debug("update dropped", "error", domain.ErrStoreClosed)
		return
	}
	if !fn() {
		s.mu.Unlock()
		return
	}
	s.version++
	snap := s.snapshotLocked()
	observers := make([]Observer, 0, len(s.observers))
	for _, o := range s.observers {
		observers = append(observers, o)
	}
	s.mu.Unlock()

	for _, o := range observers {
		o.OnSnapshot(snap)
	}
}

// Start resolves the initial location and issues its first fetch
func (s *Store) Start(loc string) {
	s.Navigate(loc)
}

// Navigate switches to the view addressed by loc ("/", "/listing?...", "/movie/:id")
func (s *Store) Navigate(loc string) {
	route := location.Parse(loc)
	s.update(func() bool {
		switch route.Kind {
		case location.RouteListing:
			s.showListingLocked()
			s.cancelSearchLocked()
			s.transitionLocked(route.Filter, false)
		case location.RouteMovie:
			s.openMovieLocked(route.MovieID)
		default:
			s.closeDetailLocked()
			s.view = ViewNotFound
			s.notFoundPath = route.Path
			s.logger.Debug("navigated to unknown location", "path", route.Path)
		}
		return true
	})
}

// SetSearch records typed search text. The filter changes, and one fetch is
// issued, only after no further SetSearch call arrives within the debounce window.
func (s *Store) SetSearch(text string) {
	s.update(func() bool {
		s.searchInput = text
		s.searchPending = true
		if s.searchTimer != nil {
			s.searchTimer.Stop()
		}
		s.searchGen++
		gen := s.searchGen
		s.searchTimer = s.sched.AfterFunc(s.debounce, func() { s.fireSearch(gen) })
		return true
	})
}

// FlushSearch applies pending search text immediately
func (s *Store) FlushSearch() {
	s.update(func() bool {
		if !s.searchPending {
			return false
		}
		return s.applySearchLocked()
	})
}

func (s *Store) fireSearch(gen uint64) {
	s.update(func() bool {
		if gen != s.searchGen || !s.searchPending {
			return false
		}
		return s.applySearchLocked()
	})
}

func (s *Store) applySearchLocked() bool {
	if s.searchTimer != nil {
		s.searchTimer.Stop()
		s.searchTimer = nil
	}
	s.searchGen++
	s.searchPending = false
	s.transitionLocked(s.filter.WithSearch(s.searchInput), false)
	return true
}

// cancelSearchLocked drops any pending search and resyncs the input with the filter
func (s *Store) cancelSearchLocked() {
	if s.searchTimer != nil {
		s.searchTimer.Stop()
		s.searchTimer = nil
	}
	s.searchGen++
	s.searchPending = false
	s.searchInput = s.filter.SearchTerm
}

// SetGenres replaces the genre set and resets the page
func (s *Store) SetGenres(genres []string) {
	s.Apply(func(f domain.FilterState) domain.FilterState { return f.WithGenres(genres) })
}

// ToggleGenre adds or removes one genre and resets the page
func (s *Store) ToggleGenre(genre string) {
	s.Apply(func(f domain.FilterState) domain.FilterState {
		genres := slices.Clone(f.Genres)
		if i := slices.Index(genres, genre); i >= 0 {
			genres = slices.Delete(genres, i, i+1)
		} else {
			genres = append(genres, genre)
		}
		return f.WithGenres(genres)
	})
}

// SetSortBy changes the sort key and resets the page
func (s *Store) SetSortBy(key domain.SortKey) {
	s.Apply(func(f domain.FilterState) domain.FilterState { return f.WithSortBy(key) })
}

// SetMinimumRating changes the minimum rating and resets the page
func (s *Store) SetMinimumRating(rating float64) {
	s.Apply(func(f domain.FilterState) domain.FilterState { return f.WithMinimumRating(rating) })
}

// SetPage changes only the page. Values above the last page are passed through.
func (s *Store) SetPage(page int) {
	s.Apply(func(f domain.FilterState) domain.FilterState { return f.WithPage(page) })
}

// NextPage moves forward one page when one exists
func (s *Store) NextPage() {
	s.update(func() bool {
		if s.filter.Page >= s.list.TotalPages {
			return false
		}
		return s.transitionLocked(s.filter.WithPage(s.filter.Page+1), false)
	})
}

// PrevPage moves back one page when one exists
func (s *Store) PrevPage() {
	s.update(func() bool {
		if s.filter.Page <= 1 {
			return false
		}
		return s.transitionLocked(s.filter.WithPage(s.filter.Page-1), false)
	})
}

// Apply runs the mutations in order as one transition producing at most one fetch
func (s *Store) Apply(mutations ...Mutation) {
	s.update(func() bool {
		next := s.filter
		for _, m := range mutations {
			next = m(next)
		}
		return s.transitionLocked(next, false)
	})
}

// ClearFilters resets every field to its default and always issues exactly one fetch
func (s *Store) ClearFilters() {
	s.update(func() bool {
		s.showListingLocked()
		s.cancelSearchLocked()
		s.transitionLocked(domain.DefaultFilterState(), true)
		return true
	})
}

// Refresh refetches the current view, bypassing any cache
func (s *Store) Refresh() {
	s.update(func() bool {
		if s.view == ViewMovie {
			if id, ok := (location.Route{Kind: location.RouteMovie, MovieID: s.detail.MovieID}).ID(); ok {
				if inv, ok := s.repo.(movieInvalidator); ok {
					inv.InvalidateMovie(id)
				}
			}
			s.openMovieLocked(s.detail.MovieID)
			return true
		}
		if inv, ok := s.repo.(pageInvalidator); ok {
			inv.Invalidate(s.filter)
		}
		return s.transitionLocked(s.filter, true)
	})
}

// Reset clears results, the selected movie and all flags without fetching.
// In-flight fetches are abandoned. Filters are kept.
func (s *Store) Reset() {
	s.update(func() bool {
		s.cancelSearchLocked()
		s.abandonListLocked()
		s.closeDetailLocked()
		s.list = ListState{Page: 1}
		return true
	})
}

// transitionLocked moves to next. Unchanged state does not fetch unless
// forced or the list has nothing to show (Idle/Errored).
func (s *Store) transitionLocked(next domain.FilterState, force bool) bool {
	unchanged := next.Equal(s.filter)
	if unchanged && !force && s.list.Status != ListIdle && s.list.Status != ListErrored {
		return false
	}
	s.filter = next.Clone()
	if !s.searchPending {
		s.searchInput = s.filter.SearchTerm
	}
	s.startListFetchLocked()
	return true
}

func (s *Store) startListFetchLocked() {
	s.abandonListLocked()

	s.listSeq++
	seq := s.listSeq
	ctx, cancel := context.WithCancel(s.ctx)
	s.listCancel = cancel

	// Optimistic clear: the error goes away as soon as loading starts
	s.list.Status = ListLoading
	s.list.Err = ""

	filter := s.filter.Clone()
	s.logger.Debug("list fetch started", "seq", seq, "query", location.Encode(filter))

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer cancel()
		result, err := s.repo.ListMovies(ctx, filter)
		s.finishList(seq, result, err)
	}()
}

// abandonListLocked cancels the in-flight list fetch, if any, so its result is discarded
func (s *Store) abandonListLocked() {
	if s.listCancel != nil {
		s.listCancel()
		s.listCancel = nil
	}
	s.listSeq++
}

func (s *Store) finishList(seq uint64, result domain.QueryResult, err error) {
	s.update(func() bool {
		if seq != s.listSeq {
			s.logger.Debug("discarding stale list response", "seq", seq, "latest", s.listSeq)
			return false
		}
		s.listCancel = nil

		if err != nil {
			if domain.IsCanceled(err) {
				s.list.Status = ListIdle
				return true
			}
			s.logger.Warn("list fetch failed", "seq", seq, "error", err)
			s.list = ListState{
				Status: ListErrored,
				Page:   s.filter.Page,
				Err:    domain.UserMessage(err),
			}
			return true
		}

		s.list = ListState{
			Status:     ListLoaded,
			Items:      result.Items,
			TotalCount: result.TotalCount,
			TotalPages: result.TotalPages,
			Page:       s.filter.Page,
			FetchedAt:  result.FetchedAt,
		}
		if s.list.FetchedAt.IsZero() {
			s.list.FetchedAt = time.Now()
		}
		return true
	})
}

func (s *Store) showListingLocked() {
	s.closeDetailLocked()
	s.view = ViewListing
	s.notFoundPath = ""
}

// Close abandons all fetches and timers. Late responses are ignored.
func (s *Store) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	if s.searchTimer != nil {
		s.searchTimer.Stop()
		s.searchTimer = nil
	}
	s.searchGen++
	s.listSeq++
	s.detailSeq++
	s.cancel()
	s.observers = make(map[int]Observer)
}

// Wait blocks until every fetch goroutine has returned
func (s *Store) Wait() {
	s.wg.Wait()
}
