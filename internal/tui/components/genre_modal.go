package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	"github.com/mmcdole/reel/internal/tui/styles"
)

// GenreModal is a multi-select genre picker with type-to-filter
type GenreModal struct {
	visible bool
	genres  []string
	checked map[string]bool

	input  textinput.Model
	shown  []int // indices into genres after filtering
	cursor int
}

// NewGenreModal creates a genre picker over the given genres
func NewGenreModal(genres []string) GenreModal {
	ti := textinput.New()
	ti.Placeholder = "type to filter..."
	ti.Prompt = "> "
	ti.PromptStyle = styles.FilterPromptStyle
	ti.CharLimit = 30
	ti.Width = 24

	m := GenreModal{
		genres:  genres,
		checked: make(map[string]bool),
		input:   ti,
	}
	m.applyFilter()
	return m
}

// Show displays the modal with the current selection checked
func (m *GenreModal) Show(selected []string) tea.Cmd {
	m.visible = true
	m.checked = make(map[string]bool, len(selected))
	for _, g := range selected {
		m.checked[g] = true
	}
	m.input.SetValue("")
	m.applyFilter()
	m.cursor = 0
	return m.input.Focus()
}

// Hide dismisses the modal
func (m *GenreModal) Hide() {
	m.visible = false
	m.input.Blur()
}

// IsVisible returns whether the modal is shown
func (m GenreModal) IsVisible() bool {
	return m.visible
}

// Selected returns the checked genres in catalogue order
func (m GenreModal) Selected() []string {
	var out []string
	for _, g := range m.genres {
		if m.checked[g] {
			out = append(out, g)
		}
	}
	return out
}

func (m *GenreModal) applyFilter() {
	query := strings.TrimSpace(m.input.Value())
	m.shown = make([]int, 0, len(m.genres))
	if query == "" {
		for i := range m.genres {
			m.shown = append(m.shown, i)
		}
	} else {
		for _, match := range fuzzy.Find(query, m.genres) {
			m.shown = append(m.shown, match.Index)
		}
	}
	if m.cursor >= len(m.shown) {
		m.cursor = max(len(m.shown)-1, 0)
	}
}

// Update handles input, returns (modal, cmd, done, apply).
// done is true when the modal closed; apply is true if the selection should be used.
func (m GenreModal) Update(msg tea.Msg) (GenreModal, tea.Cmd, bool, bool) {
	if !m.visible {
		return m, nil, false, false
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			m.Hide()
			return m, nil, true, false
		case "enter":
			m.Hide()
			return m, nil, true, true
		case "down", "ctrl+n", "ctrl+j":
			if m.cursor < len(m.shown)-1 {
				m.cursor++
			}
			return m, nil, false, false
		case "up", "ctrl+p", "ctrl+k":
			if m.cursor > 0 {
				m.cursor--
			}
			return m, nil, false, false
		case " ", "tab":
			if m.cursor < len(m.shown) {
				g := m.genres[m.shown[m.cursor]]
				m.checked[g] = !m.checked[g]
			}
			return m, nil, false, false
		case "ctrl+x":
			m.checked = make(map[string]bool)
			return m, nil, false, false
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.applyFilter()
	return m, cmd, false, false
}

// View renders the genre picker
func (m GenreModal) View() string {
	if !m.visible {
		return ""
	}

	const rowWidth = 24

	var lines []string
	for i, idx := range m.shown {
		g := m.genres[idx]
		box := "[ ] "
		if m.checked[g] {
			box = "[x] "
		}
		text := styles.Pad(box+g, rowWidth)

		style := lipgloss.NewStyle().Foreground(styles.LightGray)
		switch {
		case i == m.cursor:
			style = lipgloss.NewStyle().Foreground(styles.White).Background(styles.SlateLight)
		case m.checked[g]:
			style = lipgloss.NewStyle().Foreground(styles.Marquee)
		}
		lines = append(lines, style.Render(text))
	}
	if len(lines) == 0 {
		lines = append(lines, styles.DimStyle.Render("No matching genres"))
	}

	count := len(m.Selected())
	title := "Genres"
	if count > 0 {
		title = fmt.Sprintf("Genres (%d selected)", count)
	}
	hint := styles.DimStyle.Render("space toggle · enter apply · C-x none")

	content := lipgloss.JoinVertical(lipgloss.Left,
		styles.ModalTitleStyle.Render(title),
		m.input.View(),
		"",
		strings.Join(lines, "\n"),
		"",
		hint,
	)

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(styles.Marquee).
		Background(styles.SlateDark).
		Padding(0, 1).
		Render(content)
}
