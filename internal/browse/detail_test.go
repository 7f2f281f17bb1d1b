package browse

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmcdole/reel/internal/domain"
)

func movie(id int, title string) *domain.MovieDetail {
	return &domain.MovieDetail{MovieSummary: domain.MovieSummary{ID: id, Title: title}}
}

func TestStore_OpenMovieLoadsDetail(t *testing.T) {
	env := startedEnv(t, "/listing?genres=Drama")
	env.repo.details[10] = movie(10, "Heat")

	env.store.OpenMovie("10")
	env.store.Wait()

	snap := env.store.Snapshot()
	assert.Equal(t, ViewMovie, snap.View)
	assert.Equal(t, DetailLoaded, snap.Detail.Status)
	require.NotNil(t, snap.Detail.Movie)
	assert.Equal(t, "Heat", snap.Detail.Movie.Title)
	assert.Equal(t, "/movie/10", snap.Location())

	// Filters survive the detail view
	assert.Equal(t, []string{"Drama"}, snap.Filter.Genres)
}

func TestStore_OpenMovieNotFound(t *testing.T) {
	env := startedEnv(t, "/listing")
	listBefore := env.store.Snapshot().List

	env.store.OpenMovie("999")
	env.store.Wait()

	snap := env.store.Snapshot()
	assert.Equal(t, DetailNotFound, snap.Detail.Status)
	assert.Equal(t, "Movie not found", snap.Detail.Err)
	assert.Nil(t, snap.Detail.Movie)

	// The list is untouched by a detail failure
	assert.Equal(t, listBefore.Status, snap.List.Status)
	assert.Equal(t, listBefore.Items, snap.List.Items)
	assert.Empty(t, snap.List.Err)
	assert.Equal(t, 1, env.repo.detailCallCount())
}

func TestStore_OpenMovieInvalidIDSkipsFetch(t *testing.T) {
	tests := []struct {
		name string
		id   string
	}{
		{"non-numeric", "abc"},
		{"zero", "0"},
		{"negative", "-4"},
		{"empty", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := startedEnv(t, "/listing")

			env.store.OpenMovie(tt.id)
			env.store.Wait()

			snap := env.store.Snapshot()
			assert.Equal(t, DetailNotFound, snap.Detail.Status)
			assert.Equal(t, NotFoundMessage, snap.Detail.Err)
			assert.Zero(t, env.repo.detailCallCount())
		})
	}
}

func TestStore_DetailErrorIsSeparateFromList(t *testing.T) {
	failing := &failingDetailRepo{fakeRepo: newFakeRepo(), err: &domain.FetchError{Kind: domain.FailureHTTP, Status: 500}}
	s := NewStore(failing, nil, WithScheduler(&manualScheduler{}))
	t.Cleanup(func() {
		s.Close()
		s.Wait()
	})

	s.Start("/movie/5")
	s.Wait()

	snap := s.Snapshot()
	assert.Equal(t, DetailErrored, snap.Detail.Status)
	assert.Equal(t, "The movie service returned an error (HTTP 500).", snap.Detail.Err)
	assert.Empty(t, snap.List.Err)
	assert.Equal(t, ListIdle, snap.List.Status)
}

type failingDetailRepo struct {
	*fakeRepo
	err error
}

func (r *failingDetailRepo) MovieDetails(ctx context.Context, id int) (*domain.MovieDetail, error) {
	return nil, r.err
}

func TestStore_StaleDetailSuppressed(t *testing.T) {
	env := startedEnv(t, "/listing")
	env.repo.details[1] = movie(1, "First")
	env.repo.details[2] = movie(2, "Second")
	env.repo.setGated(true)

	env.store.OpenMovie("1")
	env.store.OpenMovie("2")
	pending := env.repo.waitPending(t, 2)

	snap := env.store.Snapshot()
	assert.Equal(t, DetailLoading, snap.Detail.Status)
	assert.Nil(t, snap.Detail.Movie, "previous record is cleared while loading")

	close(pendingFor(t, pending, movieIs(2)).release)
	require.Eventually(t, func() bool {
		return env.store.Snapshot().Detail.Status == DetailLoaded
	}, time.Second, time.Millisecond)

	close(pendingFor(t, pending, movieIs(1)).release)
	env.store.Wait()

	snap = env.store.Snapshot()
	require.NotNil(t, snap.Detail.Movie)
	assert.Equal(t, "Second", snap.Detail.Movie.Title)
	assert.Equal(t, "2", snap.Detail.MovieID)
}

func TestStore_CloseMovieKeepsLoadedList(t *testing.T) {
	env := startedEnv(t, "/listing?sort=year&page=2")
	env.repo.details[3] = movie(3, "Alien")

	env.store.OpenMovie("3")
	env.store.Wait()
	env.store.CloseMovie()
	env.store.Wait()

	snap := env.store.Snapshot()
	assert.Equal(t, ViewListing, snap.View)
	assert.Equal(t, DetailIdle, snap.Detail.Status)
	assert.Equal(t, "/listing?sort=year&page=2", snap.Location())
	assert.Len(t, env.repo.calls(), 1)
}

func TestStore_CloseMovieFetchesWhenListEmpty(t *testing.T) {
	env := newTestEnv(t)
	env.repo.details[3] = movie(3, "Alien")

	// Deep link straight to a movie: the list was never loaded
	env.store.Start("/movie/3")
	env.store.Wait()
	require.Empty(t, env.repo.calls())

	env.store.CloseMovie()
	env.store.Wait()

	assert.Len(t, env.repo.calls(), 1)
	assert.Equal(t, ListLoaded, env.store.Snapshot().List.Status)
}

func TestStore_NavigateBetweenViews(t *testing.T) {
	env := startedEnv(t, "/listing")
	env.repo.details[8] = movie(8, "Ran")

	env.store.Navigate("/movie/8")
	env.store.Wait()
	assert.Equal(t, ViewMovie, env.store.Snapshot().View)

	env.store.Navigate("/listing?rating=8")
	env.store.Wait()

	snap := env.store.Snapshot()
	assert.Equal(t, ViewListing, snap.View)
	assert.Equal(t, 8.0, snap.Filter.MinimumRating)
	assert.Equal(t, DetailIdle, snap.Detail.Status)
	assert.Len(t, env.repo.calls(), 2)
}

func TestStore_RefreshDetail(t *testing.T) {
	env := startedEnv(t, "/listing")
	env.repo.details[4] = movie(4, "Paprika")

	env.store.OpenMovie("4")
	env.store.Wait()
	env.store.Refresh()
	env.store.Wait()

	assert.Equal(t, 2, env.repo.detailCallCount())
	assert.Equal(t, DetailLoaded, env.store.Snapshot().Detail.Status)
	assert.Len(t, env.repo.calls(), 1, "refreshing a movie does not refetch the list")
}
