package tui

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmcdole/reel/internal/browse"
	"github.com/mmcdole/reel/internal/domain"
)

// catalogFake answers every list query with two movies and knows one detail record
type catalogFake struct {
	mu      sync.Mutex
	filters []domain.FilterState
}

func (c *catalogFake) ListMovies(ctx context.Context, f domain.FilterState) (domain.QueryResult, error) {
	c.mu.Lock()
	c.filters = append(c.filters, f)
	c.mu.Unlock()
	return domain.QueryResult{
		Items: []domain.MovieSummary{
			{ID: 10, Title: "The Matrix", Year: 1999, Rating: 8.7},
			{ID: 11, Title: "Alien", Year: 1979, Rating: 8.5},
		},
		TotalCount: 45,
		TotalPages: 3,
		Page:       f.Page,
		FetchedAt:  time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
	}, nil
}

func (c *catalogFake) MovieDetails(ctx context.Context, id int) (*domain.MovieDetail, error) {
	if id != 10 {
		return nil, &domain.FetchError{Kind: domain.FailureNotFound, Op: "movie_details"}
	}
	return &domain.MovieDetail{
		MovieSummary: domain.MovieSummary{
			ID:       10,
			Title:    "The Matrix",
			Year:     1999,
			IMDbCode: "tt0133093",
			Torrents: []domain.Torrent{{Quality: "1080p", URL: "https://example.test/t.torrent", Hash: "ABC"}},
		},
	}, nil
}

func (c *catalogFake) last() domain.FilterState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.filters[len(c.filters)-1]
}

type fakeSessions struct {
	saved []string
	err   error
}

func (f *fakeSessions) SaveLastLocation(loc string) error {
	f.saved = append(f.saved, loc)
	return f.err
}

type fakeOpener struct {
	opened []string
}

func (f *fakeOpener) Open(rawURL string) error {
	f.opened = append(f.opened, rawURL)
	return nil
}

type testModel struct {
	Model
	t     *testing.T
	repo  *catalogFake
	saves *fakeSessions
	links *fakeOpener
}

func newTestModel(t *testing.T, start string) *testModel {
	t.Helper()
	repo := &catalogFake{}
	store := browse.NewStore(repo, nil)
	t.Cleanup(func() {
		store.Close()
		store.Wait()
	})

	tm := &testModel{t: t, repo: repo, saves: &fakeSessions{}, links: &fakeOpener{}}
	tm.Model = NewModel(store, Options{StartLocation: start, Sessions: tm.saves, Opener: tm.links})
	tm.send(tea.WindowSizeMsg{Width: 100, Height: 30})

	store.Start(start)
	tm.settle()
	return tm
}

// send runs a message through Update and returns the command it produced
func (tm *testModel) send(msg tea.Msg) tea.Cmd {
	tm.t.Helper()
	next, cmd := tm.Model.Update(msg)
	m, ok := next.(Model)
	require.True(tm.t, ok)
	tm.Model = m
	return cmd
}

func (tm *testModel) press(keys ...string) {
	tm.t.Helper()
	for _, k := range keys {
		tm.send(keyMsg(k))
	}
}

// settle waits for fetches and applies the latest snapshot
func (tm *testModel) settle() tea.Cmd {
	tm.t.Helper()
	tm.store.Wait()
	return tm.applySnapshot(tm.store.Snapshot())
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

func TestModel_StartLoadsListing(t *testing.T) {
	tm := newTestModel(t, "/listing?genres=Drama")

	snap := tm.Snapshot()
	assert.Equal(t, browse.ViewListing, snap.View)
	assert.Equal(t, []string{"Drama"}, snap.Filter.Genres)

	movie, ok := tm.Grid.Selected()
	require.True(t, ok)
	assert.Equal(t, 10, movie.ID)
}

func TestModel_ApplySnapshotDropsOlderVersions(t *testing.T) {
	tm := newTestModel(t, "/")
	current := tm.Snapshot()

	older := current
	older.Version = current.Version - 1
	older.List.Items = nil
	tm.applySnapshot(older)

	assert.Equal(t, current.Version, tm.Snapshot().Version)
	assert.False(t, tm.Grid.IsEmpty())
}

func TestModel_SavesLocationWhenItChanges(t *testing.T) {
	repo := &catalogFake{}
	store := browse.NewStore(repo, nil)
	t.Cleanup(func() {
		store.Close()
		store.Wait()
	})
	sessions := &fakeSessions{}
	m := NewModel(store, Options{Sessions: sessions})

	store.Start("/listing?sort=rating")
	store.Wait()

	cmd := m.applySnapshot(store.Snapshot())
	require.NotNil(t, cmd)
	cmd()
	assert.Equal(t, []string{"/listing?sort=rating"}, sessions.saved)

	// Same location again is not saved twice
	snap := store.Snapshot()
	snap.Version++
	assert.Nil(t, m.applySnapshot(snap))

	// Unknown locations are never remembered
	store.Navigate("/nope")
	assert.Nil(t, m.applySnapshot(store.Snapshot()))
}

func TestModel_SaveLocationFailureIsNotFatal(t *testing.T) {
	sessions := &fakeSessions{err: errors.New("disk full")}
	cmd := SaveLocationCmd(sessions, "/listing", slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NotNil(t, cmd)
	assert.Nil(t, cmd())
	assert.Nil(t, SaveLocationCmd(nil, "/listing", slog.New(slog.NewTextHandler(io.Discard, nil))))
}

func TestModel_EnterOpensSelectedMovie(t *testing.T) {
	tm := newTestModel(t, "/")

	tm.press("enter")
	tm.settle()

	snap := tm.Snapshot()
	assert.Equal(t, browse.ViewMovie, snap.View)
	assert.Equal(t, browse.DetailLoaded, snap.Detail.Status)
	require.NotNil(t, tm.Inspector.Movie())
	assert.Equal(t, "The Matrix", tm.Inspector.Movie().Title)

	tm.press("esc")
	tm.settle()
	assert.Equal(t, browse.ViewListing, tm.Snapshot().View)
}

func TestModel_DetailActionsOpenLinks(t *testing.T) {
	tm := newTestModel(t, "/movie/10")
	require.Equal(t, browse.DetailLoaded, tm.Snapshot().Detail.Status)

	tests := []struct {
		key  string
		want string
	}{
		{"d", "https://example.test/t.torrent"},
		{"m", "magnet:?xt=urn:btih:ABC&dn=The+Matrix"},
		{"i", "https://www.imdb.com/title/tt0133093/"},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			cmd := tm.send(keyMsg(tt.key))
			require.NotNil(t, cmd)
			assert.IsType(t, OpenedMsg{}, cmd())
			assert.Equal(t, tt.want, tm.links.opened[len(tm.links.opened)-1])
		})
	}

	// No trailer code on this record
	cmd := tm.send(keyMsg("t"))
	require.NotNil(t, cmd)
	msg, ok := cmd().(StatusMsg)
	require.True(t, ok)
	assert.True(t, msg.IsError)
}

func TestModel_SortChoiceSetsSortKey(t *testing.T) {
	tm := newTestModel(t, "/")

	tm.press("s")
	require.True(t, tm.Choice.IsVisible())
	assert.Contains(t, tm.Choice.View(), "Sort by")

	// Cursor starts on the active key; move one down and apply
	keys := domain.SortKeys()
	active := 0
	for i, k := range keys {
		if k == domain.DefaultSort {
			active = i
		}
	}
	require.Less(t, active, len(keys)-1)

	tm.press("j", "enter")
	tm.settle()

	assert.False(t, tm.Choice.IsVisible())
	assert.Equal(t, keys[active+1], tm.Snapshot().Filter.SortBy)
	assert.Equal(t, keys[active+1], tm.repo.last().SortBy)
}

func TestModel_RatingChoiceSetsMinimumRating(t *testing.T) {
	tm := newTestModel(t, "/")

	tm.press("v", "j", "enter")
	tm.settle()

	assert.Equal(t, domain.RatingPresets[1], tm.Snapshot().Filter.MinimumRating)
}

func TestModel_GenrePickerAppliesSelection(t *testing.T) {
	tm := newTestModel(t, "/")

	tm.press("c")
	require.True(t, tm.GenreModal.IsVisible())

	// Filter to a single genre, toggle it, apply
	tm.press("h", "o", "r", "r", "o", "r", " ", "enter")
	tm.settle()

	assert.False(t, tm.GenreModal.IsVisible())
	assert.Equal(t, []string{"Horror"}, tm.Snapshot().Filter.Genres)
}

func TestModel_ClearFiltersKey(t *testing.T) {
	tm := newTestModel(t, "/listing?genres=Drama&rating=7&page=2")

	tm.press("x")
	tm.settle()

	snap := tm.Snapshot()
	assert.True(t, snap.Filter.IsDefault())
	assert.Equal(t, "/listing", snap.Location())
}

func TestModel_PagingKeys(t *testing.T) {
	tm := newTestModel(t, "/")

	// First page has no previous page
	cmd := tm.send(keyMsg("p"))
	require.NotNil(t, cmd)
	assert.IsType(t, StatusMsg{}, cmd())

	tm.press("n")
	tm.settle()
	assert.Equal(t, 2, tm.Snapshot().Filter.Page)

	tm.press("p")
	tm.settle()
	assert.Equal(t, 1, tm.Snapshot().Filter.Page)
}

func TestModel_SearchBarDrivesStoreSearch(t *testing.T) {
	tm := newTestModel(t, "/")

	tm.press("f")
	require.True(t, tm.Omnibar.Focused())

	tm.press("a", "l")
	snap := tm.store.Snapshot()
	assert.Equal(t, "al", snap.SearchInput)
	assert.True(t, snap.SearchPending)

	tm.press("enter")
	tm.settle()

	assert.False(t, tm.Omnibar.Focused())
	assert.Equal(t, "al", tm.Snapshot().Filter.SearchTerm)
	assert.False(t, tm.Snapshot().SearchPending)
}

func TestModel_GoToLocation(t *testing.T) {
	tm := newTestModel(t, "/")

	tm.press(":")
	require.True(t, tm.InputModal.IsVisible())
	assert.Equal(t, "/listing", tm.InputModal.Value())

	tm.press("?", "p", "a", "g", "e", "=", "3", "enter")
	tm.settle()

	assert.False(t, tm.InputModal.IsVisible())
	assert.Equal(t, 3, tm.Snapshot().Filter.Page)
}

func TestModel_NotFoundView(t *testing.T) {
	tm := newTestModel(t, "/somewhere")
	assert.Equal(t, browse.ViewNotFound, tm.Snapshot().View)
	assert.Contains(t, tm.View(), "/somewhere")

	tm.press("esc")
	tm.settle()
	assert.Equal(t, browse.ViewListing, tm.Snapshot().View)
}

func TestModel_HelpScreen(t *testing.T) {
	tm := newTestModel(t, "/")

	tm.press("?")
	assert.Equal(t, StateHelp, tm.State)
	assert.Contains(t, tm.View(), "NAVIGATION")

	tm.press("j")
	assert.Equal(t, StateBrowsing, tm.State)
}

func TestModel_QuitKeys(t *testing.T) {
	tm := newTestModel(t, "/")

	for _, k := range []string{"q", "ctrl+c"} {
		cmd := tm.send(keyMsg(k))
		require.NotNil(t, cmd, k)
		assert.IsType(t, tea.QuitMsg{}, cmd(), k)
	}
}

func TestEmptyMessage(t *testing.T) {
	tests := []struct {
		name string
		snap browse.Snapshot
		want string
	}{
		{
			name: "loading",
			snap: browse.Snapshot{List: browse.ListState{Status: browse.ListLoading}},
			want: "Loading movies...",
		},
		{
			name: "error offers clear",
			snap: browse.Snapshot{List: browse.ListState{Status: browse.ListErrored, Err: "Network error"}},
			want: "Network error\nPress r to retry or x to clear filters.",
		},
		{
			name: "no matches with filters",
			snap: browse.Snapshot{
				Filter: domain.DefaultFilterState().WithGenres([]string{"Drama"}),
				List:   browse.ListState{Status: browse.ListLoaded},
			},
			want: "No movies match these filters.\nPress x to clear filters.",
		},
		{
			name: "no matches without filters",
			snap: browse.Snapshot{Filter: domain.DefaultFilterState(), List: browse.ListState{Status: browse.ListLoaded}},
			want: "No movies found.",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, emptyMessage(tt.snap))
		})
	}
}

func TestListTitle(t *testing.T) {
	assert.Equal(t, "Movies", listTitle(browse.Snapshot{}))

	snap := browse.Snapshot{List: browse.ListState{
		TotalCount: 1,
		FetchedAt:  time.Date(2024, 3, 1, 9, 5, 0, 0, time.UTC),
	}}
	assert.Equal(t, "Movies · 1 result · updated 09:05", listTitle(snap))
}
