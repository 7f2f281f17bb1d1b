package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmcdole/reel/internal/domain"
)

func samplePage() domain.QueryResult {
	return domain.QueryResult{
		Items: []domain.MovieSummary{
			{ID: 10, Title: "The Matrix", Year: 1999, Genres: []string{"Action"}},
			{ID: 11, Title: "Alien", Year: 1979},
		},
		TotalCount: 45,
		TotalPages: 3,
		Page:       1,
		FetchedAt:  time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestCatalogStore_PagesPersistAcrossReopen(t *testing.T) {
	dir := t.TempDir()

	s, err := NewCatalogStore(dir, "https://api.example", 0)
	require.NoError(t, err)
	require.NoError(t, s.SavePage("genres=Action", samplePage()))
	require.NoError(t, s.Close())

	s, err = NewCatalogStore(dir, "https://api.example/", 0)
	require.NoError(t, err)
	defer s.Close()

	got, ok := s.GetPage("genres=Action")
	require.True(t, ok)
	assert.Equal(t, samplePage().Items, got.Items)
	assert.Equal(t, 3, got.TotalPages)
	assert.True(t, samplePage().FetchedAt.Equal(got.FetchedAt))

	_, ok = s.GetPage("genres=Drama")
	assert.False(t, ok)
}

func TestCatalogStore_MemoryOnly(t *testing.T) {
	s, err := NewCatalogStore("", "", 0)
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.SaveMovie(&domain.MovieDetail{MovieSummary: domain.MovieSummary{ID: 7, Title: "Heat"}, TrailerCode: "abc"}))

	got, ok := s.GetMovie(7)
	require.True(t, ok)
	assert.Equal(t, "Heat", got.Title)
	assert.Equal(t, "abc", got.TrailerCode)

	assert.NoError(t, s.SaveMovie(nil))
}

func TestCatalogStore_TTL(t *testing.T) {
	s, err := NewCatalogStore(t.TempDir(), "", time.Minute)
	require.NoError(t, err)
	defer s.Close()

	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	require.NoError(t, s.SavePage("", samplePage()))
	require.NoError(t, s.SaveLastLocation("/listing?page=2"))

	now = now.Add(30 * time.Second)
	_, ok := s.GetPage("")
	assert.True(t, ok)

	now = now.Add(time.Minute)
	_, ok = s.GetPage("")
	assert.False(t, ok, "page should expire")

	loc, ok := s.LastLocation()
	assert.True(t, ok, "session values never expire")
	assert.Equal(t, "/listing?page=2", loc)
}

func TestCatalogStore_Invalidation(t *testing.T) {
	s, err := NewCatalogStore(t.TempDir(), "", 0)
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.SavePage("a", samplePage()))
	require.NoError(t, s.SavePage("b", samplePage()))
	require.NoError(t, s.SaveMovie(&domain.MovieDetail{MovieSummary: domain.MovieSummary{ID: 1}}))
	require.NoError(t, s.SaveMovie(&domain.MovieDetail{MovieSummary: domain.MovieSummary{ID: 2}}))
	require.NoError(t, s.SaveLastLocation("/movie/1"))

	s.InvalidatePages()
	_, ok := s.GetPage("a")
	assert.False(t, ok)
	_, ok = s.GetPage("b")
	assert.False(t, ok)
	_, ok = s.GetMovie(1)
	assert.True(t, ok)

	s.InvalidateMovie(1)
	_, ok = s.GetMovie(1)
	assert.False(t, ok)
	_, ok = s.GetMovie(2)
	assert.True(t, ok)

	s.InvalidateAll()
	_, ok = s.GetMovie(2)
	assert.False(t, ok)
	_, ok = s.LastLocation()
	assert.False(t, ok)

	// Buckets remain usable after a full wipe
	require.NoError(t, s.SavePage("c", samplePage()))
	_, ok = s.GetPage("c")
	assert.True(t, ok)
}

func TestHashProviderURL(t *testing.T) {
	assert.Equal(t, hashProviderURL("https://API.example/"), hashProviderURL("https://api.example"))
	assert.Len(t, hashProviderURL("x"), 12)
}
