package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/paginator"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mmcdole/reel/internal/domain"
	"github.com/mmcdole/reel/internal/search"
	"github.com/mmcdole/reel/internal/tui/styles"
)

// Layout constants for grid
const (
	// Border adds 1 char on each side (left+right for width, top+bottom for height)
	BorderWidth  = 2
	BorderHeight = 2

	// Padding inside the border (Padding(0,1) = 1 left + 1 right)
	HorizontalPadding = 2

	// Scroll indicators ("↑ more" and "↓ more") each take 1 line
	ScrollIndicatorLines = 2

	// Title line at top and page indicator at bottom
	TitleLines     = 1
	PaginatorLines = 1

	// Extra safety margin for item width calculations
	ItemWidthMargin = 2
)

// Grid shows one page of movie results and supports a local quick filter
type Grid struct {
	movies []domain.MovieSummary

	// Selection
	cursor     int
	offset     int
	maxVisible int

	// Dimensions
	width   int
	height  int
	focused bool

	title    string
	emptyMsg string

	pages paginator.Model

	// Quick filter state
	filterActive bool
	filterInput  textinput.Model
	filterQuery  string
	matches      []search.Match // nil when no query
}

// NewGrid creates a new grid component
func NewGrid() Grid {
	ti := textinput.New()
	ti.Placeholder = "filter this page..."
	ti.Prompt = "/ "
	ti.PromptStyle = styles.FilterPromptStyle
	ti.TextStyle = styles.FilterStyle

	p := paginator.New()
	p.Type = paginator.Arabic
	p.ArabicFormat = "page %d of %d"
	p.PerPage = domain.PageSize

	return Grid{
		filterInput: ti,
		pages:       p,
		emptyMsg:    "No movies",
	}
}

// SetMovies replaces the page of movies. The cursor is kept when the
// same page is re-delivered, otherwise it returns to the top.
func (g *Grid) SetMovies(movies []domain.MovieSummary) {
	same := len(movies) == len(g.movies)
	for i := 0; same && i < len(movies); i++ {
		same = movies[i].ID == g.movies[i].ID
	}
	g.movies = movies
	if !same {
		g.cursor = 0
		g.offset = 0
		g.clearFilter()
		return
	}
	g.applyFilter()
}

// SetPage updates the page indicator
func (g *Grid) SetPage(page, totalPages int) {
	g.pages.TotalPages = totalPages
	g.pages.Page = max(page-1, 0)
}

// SetSize updates the component dimensions
func (g *Grid) SetSize(width, height int) {
	g.width = width
	g.height = height
	g.recalcMaxVisible()
}

// SetTitle sets the text shown on the first line
func (g *Grid) SetTitle(title string) {
	g.title = title
}

// SetEmptyMessage sets the text shown when there is nothing to list
func (g *Grid) SetEmptyMessage(msg string) {
	g.emptyMsg = msg
}

func (g *Grid) recalcMaxVisible() {
	interiorHeight := g.height - BorderHeight
	g.maxVisible = interiorHeight - ScrollIndicatorLines - TitleLines - PaginatorLines
	if g.filterActive {
		g.maxVisible--
	}
	if g.maxVisible < 1 {
		g.maxVisible = 1
	}
}

// SetFocused sets the focus state
func (g *Grid) SetFocused(focused bool) {
	g.focused = focused
}

// Cursor returns the current cursor position
func (g Grid) Cursor() int {
	return g.cursor
}

// SetCursor moves the cursor, clamped to the visible items
func (g *Grid) SetCursor(pos int) {
	last := g.itemCount() - 1
	if last < 0 {
		g.cursor = 0
		return
	}
	g.cursor = min(max(pos, 0), last)
	g.ensureVisible()
}

// Selected returns the movie under the cursor
func (g Grid) Selected() (domain.MovieSummary, bool) {
	count := g.itemCount()
	if count == 0 || g.cursor >= count {
		return domain.MovieSummary{}, false
	}
	return g.movies[g.mapIndex(g.cursor)], true
}

// IsEmpty returns true if there are no items to show
func (g Grid) IsEmpty() bool {
	return g.itemCount() == 0
}

func (g *Grid) ensureVisible() {
	if g.cursor < g.offset {
		g.offset = g.cursor
	}
	if g.cursor >= g.offset+g.maxVisible {
		g.offset = g.cursor - g.maxVisible + 1
	}
}

// ToggleFilter activates the quick filter input
func (g *Grid) ToggleFilter() tea.Cmd {
	g.filterActive = true
	g.recalcMaxVisible()
	return g.filterInput.Focus()
}

// IsFiltering returns true if the quick filter is showing narrowed results
func (g Grid) IsFiltering() bool {
	return g.filterActive
}

// IsFilterTyping returns true if the filter input has focus
func (g Grid) IsFilterTyping() bool {
	return g.filterActive && g.filterInput.Focused()
}

// ClearFilter deactivates the quick filter and shows the whole page
func (g *Grid) ClearFilter() {
	g.clearFilter()
}

func (g *Grid) clearFilter() {
	g.filterActive = false
	g.filterQuery = ""
	g.matches = nil
	g.filterInput.SetValue("")
	g.filterInput.Blur()
	g.recalcMaxVisible()
}

func (g *Grid) applyFilter() {
	query := strings.TrimSpace(g.filterInput.Value())
	changed := query != g.filterQuery
	g.filterQuery = query

	if query == "" {
		g.matches = nil
	} else {
		g.matches = search.FilterMovies(query, g.movies)
		if g.matches == nil {
			g.matches = []search.Match{}
		}
	}

	if changed {
		g.cursor = 0
		g.offset = 0
	} else {
		g.SetCursor(g.cursor)
	}
}

func (g Grid) itemCount() int {
	if g.matches != nil {
		return len(g.matches)
	}
	return len(g.movies)
}

// mapIndex maps a cursor position to the index in movies
func (g Grid) mapIndex(i int) int {
	if g.matches != nil && i < len(g.matches) {
		return g.matches[i].Index
	}
	return i
}

func (g Grid) matchedIndexes(i int) []int {
	if g.matches != nil && i < len(g.matches) {
		return g.matches[i].MatchedIndexes
	}
	return nil
}

// Update handles key messages for navigation and the quick filter
func (g Grid) Update(msg tea.Msg) (Grid, tea.Cmd) {
	if !g.focused {
		return g, nil
	}

	if g.IsFilterTyping() {
		if msg, ok := msg.(tea.KeyMsg); ok {
			switch msg.String() {
			case "esc":
				g.clearFilter()
				return g, nil
			case "enter":
				// Keep the results, hand keys back to navigation
				g.filterInput.Blur()
				return g, nil
			case "backspace":
				if g.filterInput.Value() == "" {
					g.clearFilter()
					return g, nil
				}
			}
		}

		var cmd tea.Cmd
		g.filterInput, cmd = g.filterInput.Update(msg)
		g.applyFilter()
		return g, cmd
	}

	if g.filterActive {
		if msg, ok := msg.(tea.KeyMsg); ok {
			switch msg.String() {
			case "esc":
				g.clearFilter()
				return g, nil
			case "/":
				return g, g.filterInput.Focus()
			}
		}
	}

	count := g.itemCount()
	if count == 0 {
		return g, nil
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "j", "down":
			if g.cursor < count-1 {
				g.cursor++
				g.ensureVisible()
			}
		case "k", "up":
			if g.cursor > 0 {
				g.cursor--
				g.ensureVisible()
			}
		case "g", "home":
			g.cursor = 0
			g.offset = 0
		case "G", "end":
			g.cursor = count - 1
			g.ensureVisible()
		case "ctrl+d":
			g.cursor = min(g.cursor+g.maxVisible/2, count-1)
			g.ensureVisible()
		case "ctrl+u":
			g.cursor = max(g.cursor-g.maxVisible/2, 0)
			g.ensureVisible()
		}
	}

	return g, nil
}

// View renders the component
func (g Grid) View() string {
	style := styles.InactiveBorder
	if g.focused {
		style = styles.ActiveBorder
	}

	frameW, frameH := style.GetFrameSize()
	return style.
		Width(max(g.width-frameW, 0)).
		Height(max(g.height-frameH, 0)).
		Render(g.renderList())
}

func (g Grid) renderList() string {
	itemWidth := g.width - BorderWidth - HorizontalPadding - ItemWidthMargin

	titleLine := " "
	if g.title != "" {
		titleLine = styles.AccentStyle.Render(styles.Truncate(g.title, itemWidth))
	}

	pageLine := " "
	if g.pages.TotalPages > 0 {
		pageLine = styles.DimStyle.Render(g.pages.View())
	}

	count := g.itemCount()
	if count == 0 {
		msg := g.emptyMsg
		if g.filterActive && g.filterQuery != "" {
			msg = "No matches on this page"
		}
		content := titleLine + "\n \n" + styles.DimStyle.Render(msg) + "\n \n" + pageLine
		if g.filterActive {
			content += "\n" + g.renderFilterBar()
		}
		return content
	}

	end := min(g.offset+g.maxVisible, count)

	var lines []string
	for i := g.offset; i < end; i++ {
		lines = append(lines, g.renderMovieItem(g.movies[g.mapIndex(i)], g.matchedIndexes(i), i == g.cursor, itemWidth))
	}

	// Always reserve the indicator lines to prevent layout shifts
	header := " "
	if g.offset > 0 {
		header = styles.DimStyle.Render("↑ more")
	}
	footer := " "
	if end < count {
		footer = styles.DimStyle.Render("↓ more")
	}

	content := titleLine + "\n" + header + "\n" + strings.Join(lines, "\n") + "\n" + footer + "\n" + pageLine
	if g.filterActive {
		content += "\n" + g.renderFilterBar()
	}
	return content
}

func (g Grid) renderMovieItem(m domain.MovieSummary, matched []int, selected bool, width int) string {
	year := ""
	if m.Year > 0 {
		year = fmt.Sprintf(" (%d)", m.Year)
	}
	rating := fmt.Sprintf("★ %.1f", m.Rating)
	genres := strings.Join(m.Genres, ", ")

	titleWidth := max(width-lipgloss.Width(year)-lipgloss.Width(rating)-6, 8)
	title := styles.Truncate(m.Title, titleWidth)

	marquee := styles.Marquee
	dimGray := styles.DimGray

	parts := []styles.RowPart{{Text: rating, Foreground: &marquee}, {Text: "  "}}
	parts = append(parts, highlightParts(title, matched)...)
	parts = append(parts, styles.RowPart{Text: year, Foreground: &dimGray})

	remaining := width - 2 - lipgloss.Width(rating) - 2 - lipgloss.Width(title) - lipgloss.Width(year) - 2
	if genres != "" && remaining > 6 {
		parts = append(parts, styles.RowPart{Text: "  " + styles.Truncate(genres, remaining), Foreground: &dimGray})
	}

	return styles.RenderListRow(parts, selected, width)
}

// highlightParts splits title into runs so matched runes render in the accent color
func highlightParts(title string, matched []int) []styles.RowPart {
	if len(matched) == 0 {
		return []styles.RowPart{{Text: title}}
	}
	set := make(map[int]bool, len(matched))
	for _, i := range matched {
		set[i] = true
	}

	marquee := styles.Marquee
	var parts []styles.RowPart
	var run []rune
	runMatched := false
	flush := func() {
		if len(run) == 0 {
			return
		}
		p := styles.RowPart{Text: string(run)}
		if runMatched {
			p.Foreground = &marquee
			p.Bold = true
		}
		parts = append(parts, p)
		run = nil
	}
	for i, r := range []rune(title) {
		if set[i] != runMatched {
			flush()
			runMatched = set[i]
		}
		run = append(run, r)
	}
	flush()
	return parts
}

func (g Grid) renderFilterBar() string {
	countStr := ""
	if g.filterQuery != "" {
		countStr = styles.DimStyle.Render(fmt.Sprintf(" [%d/%d]", g.itemCount(), len(g.movies)))
	}
	return g.filterInput.View() + countStr
}
