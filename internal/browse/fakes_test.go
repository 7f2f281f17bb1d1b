package browse

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mmcdole/reel/internal/domain"
	"github.com/mmcdole/reel/internal/location"
)

var fixedTime = time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

// manualScheduler fires timers only when the test advances its clock
type manualScheduler struct {
	mu     sync.Mutex
	now    time.Duration
	timers []*manualTimer
}

type manualTimer struct {
	sched   *manualScheduler
	at      time.Duration
	f       func()
	stopped bool
	fired   bool
}

func (t *manualTimer) Stop() bool {
	t.sched.mu.Lock()
	defer t.sched.mu.Unlock()
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}

func (m *manualScheduler) AfterFunc(d time.Duration, f func()) Timer {
	m.mu.Lock()
	defer m.mu.Unlock()
	t := &manualTimer{sched: m, at: m.now + d, f: f}
	m.timers = append(m.timers, t)
	return t
}

// Advance moves the clock forward and runs every timer that came due
func (m *manualScheduler) Advance(d time.Duration) {
	m.mu.Lock()
	m.now += d
	var due []*manualTimer
	for _, t := range m.timers {
		if !t.stopped && !t.fired && t.at <= m.now {
			t.fired = true
			due = append(due, t)
		}
	}
	m.mu.Unlock()

	for _, t := range due {
		t.f()
	}
}

// pendingCall is a gated fetch waiting for the test to release it
type pendingCall struct {
	filter  domain.FilterState
	movieID int
	release chan struct{}
}

// fakeRepo records fetches. When gated, every fetch blocks until released
// and then returns its result regardless of cancellation, simulating a late response.
type fakeRepo struct {
	mu sync.Mutex

	gated   bool
	pending []*pendingCall

	listCalls   []domain.FilterState
	detailCalls []int
	invalidated int

	listErr error
	empty   map[string]bool // canonical queries that return no movies
	details map[int]*domain.MovieDetail
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		empty:   make(map[string]bool),
		details: make(map[int]*domain.MovieDetail),
	}
}

func resultFor(f domain.FilterState) domain.QueryResult {
	return domain.QueryResult{
		Items:      []domain.MovieSummary{{ID: f.Page, Title: "q:" + location.Encode(f)}},
		TotalCount: 45,
		TotalPages: 3,
		Page:       f.Page,
		FetchedAt:  fixedTime,
	}
}

func (r *fakeRepo) ListMovies(ctx context.Context, f domain.FilterState) (domain.QueryResult, error) {
	r.mu.Lock()
	r.listCalls = append(r.listCalls, f)
	if r.gated {
		pc := &pendingCall{filter: f, release: make(chan struct{})}
		r.pending = append(r.pending, pc)
		r.mu.Unlock()
		<-pc.release
		return resultFor(f), nil
	}
	err := r.listErr
	empty := r.empty[location.Encode(f)]
	r.mu.Unlock()

	if err != nil {
		return domain.QueryResult{}, err
	}
	if empty {
		return domain.QueryResult{FetchedAt: fixedTime, Page: f.Page}, nil
	}
	return resultFor(f), nil
}

func (r *fakeRepo) MovieDetails(ctx context.Context, id int) (*domain.MovieDetail, error) {
	r.mu.Lock()
	r.detailCalls = append(r.detailCalls, id)
	detail, ok := r.details[id]
	if r.gated {
		pc := &pendingCall{movieID: id, release: make(chan struct{})}
		r.pending = append(r.pending, pc)
		r.mu.Unlock()
		<-pc.release
	} else {
		r.mu.Unlock()
	}

	if !ok {
		return nil, &domain.FetchError{Kind: domain.FailureNotFound, Op: "movie_details"}
	}
	return detail, nil
}

func (r *fakeRepo) Invalidate(domain.FilterState) {
	r.mu.Lock()
	r.invalidated++
	r.mu.Unlock()
}

func (r *fakeRepo) setGated(g bool) {
	r.mu.Lock()
	r.gated = g
	r.mu.Unlock()
}

func (r *fakeRepo) calls() []domain.FilterState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.FilterState(nil), r.listCalls...)
}

func (r *fakeRepo) detailCallCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.detailCalls)
}

// waitPending blocks until n gated calls are outstanding and returns them
func (r *fakeRepo) waitPending(t *testing.T, n int) []*pendingCall {
	t.Helper()
	require.Eventually(t, func() bool {
		r.mu.Lock()
		defer r.mu.Unlock()
		return len(r.pending) >= n
	}, time.Second, time.Millisecond)

	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*pendingCall(nil), r.pending...)
}

// pendingFor finds the gated list call for a canonical query, or the detail call for a movie id
func pendingFor(t *testing.T, pending []*pendingCall, match func(*pendingCall) bool) *pendingCall {
	t.Helper()
	for _, pc := range pending {
		if match(pc) {
			return pc
		}
	}
	require.FailNow(t, "no matching pending call")
	return nil
}

func queryIs(q string) func(*pendingCall) bool {
	return func(pc *pendingCall) bool { return pc.movieID == 0 && location.Encode(pc.filter) == q }
}

func movieIs(id int) func(*pendingCall) bool {
	return func(pc *pendingCall) bool { return pc.movieID == id }
}

type testEnv struct {
	store *Store
	repo  *fakeRepo
	sched *manualScheduler
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	repo := newFakeRepo()
	sched := &manualScheduler{}
	s := NewStore(repo, nil, WithScheduler(sched))
	t.Cleanup(func() {
		s.Close()
		repo.mu.Lock()
		repo.gated = false
		for _, pc := range repo.pending {
			select {
			case <-pc.release:
			default:
				close(pc.release)
			}
		}
		repo.mu.Unlock()
		s.Wait()
	})
	return &testEnv{store: s, repo: repo, sched: sched}
}

// started returns an env whose store has loaded the given location
func startedEnv(t *testing.T, loc string) *testEnv {
	t.Helper()
	env := newTestEnv(t)
	env.store.Start(loc)
	env.store.Wait()
	return env
}
