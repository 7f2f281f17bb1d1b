package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mmcdole/reel/internal/domain"
	"github.com/mmcdole/reel/internal/tui/styles"
)

// Layout constants for inspector
const (
	InspectorBorderHeight = 2
	InspectorMaxBodyWidth = 80
)

// inspectorContent holds the three-zone layout content
type inspectorContent struct {
	header string // fixed top
	body   string // scrollable middle
	footer string // fixed bottom
}

// Inspector displays the full record of one movie
type Inspector struct {
	movie *domain.MovieDetail

	// message replaces the record while loading or after a failure
	message string
	isError bool

	body   viewport.Model
	width  int
	height int
}

// NewInspector creates a new inspector component
func NewInspector() Inspector {
	return Inspector{body: viewport.New(0, 0)}
}

// SetMovie sets the movie to display and resets scrolling
func (i *Inspector) SetMovie(movie *domain.MovieDetail) {
	if movie != i.movie {
		i.body.GotoTop()
	}
	i.movie = movie
	i.message = ""
	i.isError = false
	i.refresh()
}

// SetMessage shows a status line instead of a movie
func (i *Inspector) SetMessage(msg string, isError bool) {
	i.movie = nil
	i.message = msg
	i.isError = isError
	i.refresh()
}

// Movie returns the movie being shown, if any
func (i Inspector) Movie() *domain.MovieDetail {
	return i.movie
}

// SetSize updates the component dimensions
func (i *Inspector) SetSize(width, height int) {
	i.width = width
	i.height = height
	i.refresh()
}

func (i Inspector) contentWidth() int {
	// Border takes 2 chars, padding 2, and 1 char safety margin
	return max(i.width-5, 10)
}

// refresh lays out the zones and sizes the scrollable body to what is left
func (i *Inspector) refresh() {
	c := i.render(i.contentWidth())
	used := lipgloss.Height(c.header) + 1
	if c.footer != "" {
		used += lipgloss.Height(c.footer) + 1
	}
	i.body.Width = i.contentWidth()
	i.body.Height = max(i.height-InspectorBorderHeight-used, 1)
	i.body.SetContent(c.body)
}

// Update scrolls the body
func (i Inspector) Update(msg tea.Msg) (Inspector, tea.Cmd) {
	var cmd tea.Cmd
	i.body, cmd = i.body.Update(msg)
	return i, cmd
}

// View renders the component
func (i Inspector) View() string {
	style := styles.InactiveBorder.Padding(0, 1)
	c := i.render(i.contentWidth())

	parts := []string{c.header, ""}
	parts = append(parts, i.body.View())
	if c.footer != "" {
		parts = append(parts, "", c.footer)
	}

	frameW, frameH := style.GetFrameSize()
	return style.
		Width(max(i.width-frameW, 0)).
		Height(max(i.height-frameH, 0)).
		Render(strings.Join(parts, "\n"))
}

func (i Inspector) render(width int) inspectorContent {
	if i.movie == nil {
		msg := i.message
		if msg == "" {
			msg = "No movie selected"
		}
		style := styles.DimStyle
		if i.isError {
			style = styles.ErrorStyle
		}
		return inspectorContent{
			header: style.Render(wordWrap(msg, width)),
			footer: renderHints(false),
		}
	}
	return inspectorContent{
		header: renderMovieHeader(*i.movie, width),
		body:   renderMovieBody(*i.movie, width),
		footer: renderHints(true),
	}
}

func renderMovieHeader(m domain.MovieDetail, width int) string {
	var b strings.Builder

	b.WriteString(styles.TitleStyle.Render(styles.Truncate(m.DisplayTitle(), width)))
	b.WriteString("\n")

	// Meta line: Year · Runtime · MPA rating · Language
	var meta []string
	if m.Year > 0 {
		meta = append(meta, fmt.Sprintf("%d", m.Year))
	}
	if rt := m.FormattedRuntime(); rt != "" {
		meta = append(meta, rt)
	}
	if m.MPARating != "" {
		meta = append(meta, m.MPARating)
	}
	if m.Language != "" {
		meta = append(meta, strings.ToUpper(m.Language))
	}
	b.WriteString(styles.DimStyle.Render(strings.Join(meta, " · ")))
	b.WriteString("\n")

	status := []string{styles.RenderRating(m.Rating)}
	if m.LikeCount > 0 {
		status = append(status, styles.DimStyle.Render(fmt.Sprintf("♥ %d", m.LikeCount)))
	}
	if m.DownloadCount > 0 {
		status = append(status, styles.DimStyle.Render(fmt.Sprintf("↓ %d", m.DownloadCount)))
	}
	b.WriteString(strings.Join(status, "   "))

	if len(m.Genres) > 0 {
		b.WriteString("\n")
		for _, g := range m.Genres {
			b.WriteString(styles.DimBadgeStyle.Render(g))
			b.WriteString(" ")
		}
	}

	return strings.TrimRight(b.String(), "\n ")
}

func renderMovieBody(m domain.MovieDetail, width int) string {
	bodyWidth := min(width-2, InspectorMaxBodyWidth)

	var b strings.Builder
	b.WriteString(styles.SubtitleStyle.Render(wordWrap(m.Description(), bodyWidth)))
	b.WriteString("\n")

	if len(m.Torrents) > 0 {
		b.WriteString("\n")
		b.WriteString(styles.AccentStyle.Render("Downloads"))
		b.WriteString("\n")
		best, _ := m.BestTorrent()
		for _, t := range m.Torrents {
			marker := "  "
			if t.Hash == best.Hash && t.URL == best.URL {
				marker = styles.AccentStyle.Render("▸ ")
			}
			line := fmt.Sprintf("%-28s %s", styles.Truncate(t.Label(), 28), styles.DimStyle.Render(fmt.Sprintf("S:%d P:%d", t.Seeds, t.Peers)))
			b.WriteString(marker + line + "\n")
		}
	}

	var links []string
	if u := m.TrailerURL(); u != "" {
		links = append(links, "Trailer  "+styles.LinkStyle.Render(u))
	}
	if u := m.IMDbURL(); u != "" {
		links = append(links, "IMDb     "+styles.LinkStyle.Render(u))
	}
	if m.URL != "" {
		links = append(links, "Page     "+styles.LinkStyle.Render(m.URL))
	}
	if len(links) > 0 {
		b.WriteString("\n")
		b.WriteString(strings.Join(links, "\n"))
		b.WriteString("\n")
	}

	if len(m.Screenshots) > 0 {
		b.WriteString("\n")
		b.WriteString(styles.AccentStyle.Render("Screenshots"))
		b.WriteString("\n")
		for _, s := range m.Screenshots {
			b.WriteString(styles.DimStyle.Render(styles.Truncate(s, bodyWidth)))
			b.WriteString("\n")
		}
	}

	return strings.TrimRight(b.String(), "\n")
}

func renderHints(hasMovie bool) string {
	hint := func(k, desc string) string {
		return styles.HelpKeyStyle.Render(k) + styles.HelpDescStyle.Render(" "+desc)
	}
	parts := []string{hint("esc", "back")}
	if hasMovie {
		parts = append(parts, hint("t", "trailer"), hint("d", "torrent"), hint("m", "magnet"), hint("i", "imdb"))
	}
	parts = append(parts, hint("r", "reload"))
	return strings.Join(parts, "  ")
}

// wordWrap wraps text to the specified width
func wordWrap(text string, width int) string {
	if width <= 0 {
		return text
	}

	var result strings.Builder
	lineLen := 0

	for i, word := range strings.Fields(text) {
		wordLen := lipgloss.Width(word)

		if lineLen+wordLen+1 > width && lineLen > 0 {
			result.WriteString("\n")
			lineLen = 0
		}

		if i > 0 && lineLen > 0 {
			result.WriteString(" ")
			lineLen++
		}

		result.WriteString(word)
		lineLen += wordLen
	}

	return result.String()
}
