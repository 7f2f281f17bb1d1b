package tui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mmcdole/reel/internal/browse"
	"github.com/mmcdole/reel/internal/domain"
	"github.com/mmcdole/reel/internal/location"
	"github.com/mmcdole/reel/internal/tui/components"
)

// handleKeyMsg handles keyboard input
func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	// Any key leaves the help screen
	if m.State == StateHelp {
		m.State = StateBrowsing
		return m, nil
	}

	// Route to active modal or text input if any
	if handled, newModel, cmd := m.routeToModal(msg); handled {
		return newModel, cmd
	}

	// Global keys
	switch {
	case key.Matches(msg, Keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, Keys.Help):
		m.State = StateHelp
		return m, nil

	case key.Matches(msg, Keys.GoTo):
		return m, m.InputModal.Show("Go to location", m.snap.Location())

	case key.Matches(msg, Keys.Refresh):
		m.store.Refresh()
		return m, nil
	}

	switch m.snap.View {
	case browse.ViewMovie:
		return m.handleDetailKey(msg)
	case browse.ViewNotFound:
		if key.Matches(msg, Keys.Back, Keys.Enter) {
			m.store.CloseMovie()
		}
		return m, nil
	default:
		return m.handleListingKey(msg)
	}
}

func (m Model) handleListingKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, Keys.Escape) && m.Grid.IsFiltering():
		m.Grid.ClearFilter()
		return m, nil

	case key.Matches(msg, Keys.Filter):
		return m, m.Grid.ToggleFilter()

	case key.Matches(msg, Keys.Search):
		m.Grid.SetFocused(false)
		return m, m.Omnibar.Focus()

	case key.Matches(msg, Keys.Sort):
		m.Choice.Show(components.ChoiceSort, "Sort by", sortChoices(), string(m.snap.Filter.SortBy))
		return m, nil

	case key.Matches(msg, Keys.Rating):
		m.Choice.Show(components.ChoiceRating, "Minimum rating", ratingChoices(), location.FormatRating(m.snap.Filter.MinimumRating))
		return m, nil

	case key.Matches(msg, Keys.Genres):
		return m, m.GenreModal.Show(m.snap.Filter.Genres)

	case key.Matches(msg, Keys.ClearFilters):
		m.Grid.ClearFilter()
		m.store.ClearFilters()
		return m, nil

	case key.Matches(msg, Keys.NextPage):
		if !m.snap.HasNextPage() {
			return m, statusCmd("Already on the last page", false)
		}
		m.store.NextPage()
		return m, nil

	case key.Matches(msg, Keys.PrevPage):
		if !m.snap.HasPrevPage() {
			return m, statusCmd("Already on the first page", false)
		}
		m.store.PrevPage()
		return m, nil

	case key.Matches(msg, Keys.Enter):
		if movie, ok := m.Grid.Selected(); ok {
			m.store.OpenMovie(strconv.Itoa(movie.ID))
		}
		return m, nil
	}

	// Let the grid handle remaining keys (j/k/g/G navigation)
	var cmd tea.Cmd
	m.Grid, cmd = m.Grid.Update(msg)
	return m, cmd
}

func (m Model) handleDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	movie := m.Inspector.Movie()

	switch {
	case key.Matches(msg, Keys.Back):
		m.store.CloseMovie()
		return m, nil

	case key.Matches(msg, Keys.Trailer):
		if movie == nil || movie.TrailerURL() == "" {
			return m, statusCmd("No trailer for this movie", true)
		}
		return m, OpenURLCmd(m.opener, movie.TrailerURL(), "trailer")

	case key.Matches(msg, Keys.Torrent):
		t, ok := bestTorrent(movie)
		if !ok || t.URL == "" {
			return m, statusCmd("No torrent for this movie", true)
		}
		return m, OpenURLCmd(m.opener, t.URL, t.Quality+" torrent")

	case key.Matches(msg, Keys.Magnet):
		t, ok := bestTorrent(movie)
		if !ok || t.Hash == "" {
			return m, statusCmd("No magnet link for this movie", true)
		}
		return m, OpenURLCmd(m.opener, t.MagnetURI(movie.Title), t.Quality+" magnet link")

	case key.Matches(msg, Keys.IMDb):
		if movie == nil || movie.IMDbURL() == "" {
			return m, statusCmd("No IMDb page for this movie", true)
		}
		return m, OpenURLCmd(m.opener, movie.IMDbURL(), "IMDb page")
	}

	// Scrolling
	var cmd tea.Cmd
	m.Inspector, cmd = m.Inspector.Update(msg)
	return m, cmd
}

// routeToModal routes key input to active modals and the search bar.
// Returns (handled, model, cmd) where handled is true if input was consumed.
func (m Model) routeToModal(msg tea.KeyMsg) (bool, Model, tea.Cmd) {
	if m.InputModal.IsVisible() {
		var cmd tea.Cmd
		var submitted bool
		m.InputModal, cmd, submitted = m.InputModal.Update(msg)
		if submitted {
			loc := strings.TrimSpace(m.InputModal.Value())
			if loc != "" {
				m.Grid.ClearFilter()
				m.store.Navigate(loc)
			}
		}
		return true, m, cmd
	}

	if m.GenreModal.IsVisible() {
		var cmd tea.Cmd
		var done, apply bool
		m.GenreModal, cmd, done, apply = m.GenreModal.Update(msg)
		if done && apply {
			m.store.SetGenres(m.GenreModal.Selected())
		}
		return true, m, cmd
	}

	if m.Choice.IsVisible() {
		_, sel := m.Choice.HandleKey(msg.String())
		if sel != nil {
			switch m.Choice.Kind() {
			case components.ChoiceSort:
				m.store.SetSortBy(domain.SortKey(sel.Value))
			case components.ChoiceRating:
				if r, err := strconv.ParseFloat(sel.Value, 64); err == nil {
					m.store.SetMinimumRating(r)
				}
			}
		}
		return true, m, nil
	}

	if m.Omnibar.Focused() {
		var cmd tea.Cmd
		var ev components.OmnibarEvent
		m.Omnibar, cmd, ev = m.Omnibar.Update(msg)
		switch ev {
		case components.OmnibarChanged:
			m.store.SetSearch(m.Omnibar.Value())
		case components.OmnibarSubmitted:
			m.store.FlushSearch()
			m.Grid.SetFocused(true)
		case components.OmnibarClosed:
			m.Grid.SetFocused(true)
		}
		return true, m, cmd
	}

	if m.Grid.IsFilterTyping() {
		var cmd tea.Cmd
		m.Grid, cmd = m.Grid.Update(msg)
		return true, m, cmd
	}

	return false, m, nil
}

func bestTorrent(movie *domain.MovieDetail) (domain.Torrent, bool) {
	if movie == nil {
		return domain.Torrent{}, false
	}
	return movie.BestTorrent()
}

func sortChoices() []components.Choice {
	var out []components.Choice
	for _, k := range domain.SortKeys() {
		out = append(out, components.Choice{Label: k.String(), Value: string(k)})
	}
	return out
}

func ratingChoices() []components.Choice {
	var out []components.Choice
	for _, r := range domain.RatingPresets {
		label := "Any"
		if r > 0 {
			label = location.FormatRating(r) + "+"
		}
		out = append(out, components.Choice{Label: label, Value: location.FormatRating(r)})
	}
	return out
}

func statusCmd(msg string, isErr bool) tea.Cmd {
	return func() tea.Msg {
		return StatusMsg{Message: msg, IsError: isErr}
	}
}
