package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/mmcdole/reel/internal/browse"
	"github.com/mmcdole/reel/internal/location"
	"github.com/mmcdole/reel/internal/tui/styles"
)

// View renders the application
func (m Model) View() string {
	if !m.Ready {
		return "Loading..."
	}

	if m.State == StateHelp {
		return m.renderHelp()
	}

	width, height := m.contentSize()

	var content string
	switch m.snap.View {
	case browse.ViewMovie:
		content = m.Inspector.View()
	case browse.ViewNotFound:
		content = m.renderNotFound(width, height)
	default:
		content = m.Grid.View()
	}

	view := lipgloss.JoinVertical(
		lipgloss.Left,
		m.Omnibar.View(),
		m.renderFilterSummary(),
		content,
		m.renderFooter(),
	)

	// Overlay whichever modal is open
	var modal string
	switch {
	case m.Choice.IsVisible():
		modal = m.Choice.View()
	case m.GenreModal.IsVisible():
		modal = m.GenreModal.View()
	case m.InputModal.IsVisible():
		modal = m.InputModal.View()
	}
	if modal != "" {
		view = lipgloss.Place(m.Width, m.Height,
			lipgloss.Center, lipgloss.Center,
			modal)
	}

	return view
}

// listTitle summarizes the result set for the grid border
func listTitle(snap browse.Snapshot) string {
	if snap.List.FetchedAt.IsZero() {
		return "Movies"
	}
	title := fmt.Sprintf("Movies · %d results", snap.List.TotalCount)
	if snap.List.TotalCount == 1 {
		title = "Movies · 1 result"
	}
	return title + " · updated " + snap.List.FetchedAt.Format("15:04")
}

// emptyMessage is what the grid shows when it has no rows
func emptyMessage(snap browse.Snapshot) string {
	switch snap.List.Status {
	case browse.ListLoading, browse.ListIdle:
		return "Loading movies..."
	case browse.ListErrored:
		return snap.List.Err + "\nPress r to retry or x to clear filters."
	}
	if snap.Filter.HasFilters() {
		return "No movies match these filters.\nPress x to clear filters."
	}
	return "No movies found."
}

// renderFilterSummary shows the active filter as a single line
func (m Model) renderFilterSummary() string {
	f := m.snap.Filter

	var parts []string
	if f.SearchTerm != "" {
		parts = append(parts, styles.DimStyle.Render("search ")+styles.AccentStyle.Render(f.SearchTerm))
	}
	if len(f.Genres) > 0 {
		parts = append(parts, styles.DimStyle.Render("genres ")+styles.AccentStyle.Render(strings.Join(f.Genres, ", ")))
	}
	if f.MinimumRating > 0 {
		parts = append(parts, styles.DimStyle.Render("rating ")+styles.AccentStyle.Render(location.FormatRating(f.MinimumRating)+"+"))
	}
	parts = append(parts, styles.DimStyle.Render("sort ")+styles.AccentStyle.Render(f.SortBy.String()))
	parts = append(parts, styles.DimStyle.Render(pageLabel(f.Page, m.snap.List.TotalPages)))

	line := " " + strings.Join(parts, styles.DimStyle.Render("  ·  "))
	return lipgloss.NewStyle().MaxWidth(m.Width).Render(line)
}

func pageLabel(page, totalPages int) string {
	if totalPages <= 0 {
		return fmt.Sprintf("page %d", page)
	}
	return fmt.Sprintf("page %d of %d", page, totalPages)
}

// renderNotFound renders the fallback view for unknown locations
func (m Model) renderNotFound(width, height int) string {
	body := lipgloss.JoinVertical(lipgloss.Center,
		styles.ErrorStyle.Render("Page not found"),
		"",
		styles.DimStyle.Render(m.snap.NotFoundPath),
		"",
		styles.HelpKeyStyle.Render("esc")+styles.HelpDescStyle.Render(" back to movies"),
	)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, body)
}

// renderFooter renders a single-line minimal footer
func (m Model) renderFooter() string {
	// Left side: spinner when loading, otherwise the status message
	var left string
	switch {
	case m.snap.IsLoading():
		what := "Loading movies..."
		if m.snap.View == browse.ViewMovie {
			what = "Loading movie..."
		}
		left = m.Spinner.View() + " " + styles.DimStyle.Render(what)
	case m.StatusMsg != "":
		if m.StatusIsErr {
			left = styles.ErrorStyle.Render(m.StatusMsg)
		} else {
			left = styles.DimStyle.Render(m.StatusMsg)
		}
	case m.snap.View == browse.ViewListing && m.snap.CanClearFilters() && m.snap.Filter.HasFilters():
		left = styles.AccentStyle.Render("x") + styles.DimStyle.Render(" clear filters")
	}

	// Center: where we are
	center := styles.DimStyle.Render(m.snap.Location())

	// Right side: "? help" hint
	right := styles.AccentStyle.Render("?") + styles.DimStyle.Render(" help")

	leftWidth := lipgloss.Width(left)
	centerWidth := lipgloss.Width(center)
	rightWidth := lipgloss.Width(right)

	if leftWidth+centerWidth+rightWidth >= m.Width {
		gap := max(m.Width-leftWidth-rightWidth, 0)
		return left + strings.Repeat(" ", gap) + right
	}

	available := m.Width - leftWidth - rightWidth
	leftPad := (available - centerWidth) / 2
	rightPad := available - centerWidth - leftPad

	return left + strings.Repeat(" ", leftPad) + center + strings.Repeat(" ", rightPad) + right
}

// renderHelp renders the help screen
func (m Model) renderHelp() string {
	help := `
NAVIGATION                      FILTERS
  j/k        Up/down               f      Search titles
  g/G        First/last            c      Genres
  Ctrl+u/d   Half page             s      Sort
  Enter      Open movie            v      Minimum rating
  Esc/h      Back                  x      Clear filters
  n/p        Next/previous page    /      Filter this page
  :          Go to location

MOVIE                           OTHER
  t          Open trailer          r      Refresh
  d          Open torrent          q      Quit
  m          Open magnet link      ?      This help
  i          Open IMDb page

Press any key to return...
`

	return lipgloss.Place(m.Width, m.Height,
		lipgloss.Center, lipgloss.Center,
		styles.ModalStyle.Render(help))
}
