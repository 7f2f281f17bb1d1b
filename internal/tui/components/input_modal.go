package components

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mmcdole/reel/internal/tui/styles"
)

// InputModal is a single-line text prompt, used for go-to-location
type InputModal struct {
	visible bool
	title   string
	hint    string
	input   textinput.Model
}

// NewInputModal creates a new input modal
func NewInputModal(placeholder string) InputModal {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = 200
	ti.Width = 40
	ti.Prompt = ""
	ti.TextStyle = lipgloss.NewStyle().Foreground(styles.White)
	ti.PlaceholderStyle = styles.DimStyle

	return InputModal{
		input: ti,
	}
}

// Show displays the modal with a title and initial text
func (m *InputModal) Show(title, value string) tea.Cmd {
	m.visible = true
	m.title = title
	m.input.SetValue(value)
	m.input.CursorEnd()
	return m.input.Focus()
}

// Hide dismisses the modal
func (m *InputModal) Hide() {
	m.visible = false
	m.input.Blur()
}

// IsVisible returns whether the modal is shown
func (m InputModal) IsVisible() bool {
	return m.visible
}

// Value returns the current input value
func (m InputModal) Value() string {
	return m.input.Value()
}

// Update handles input events, returns (modal, cmd, submitted)
func (m InputModal) Update(msg tea.Msg) (InputModal, tea.Cmd, bool) {
	if !m.visible {
		return m, nil, false
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "enter":
			m.Hide()
			return m, nil, true
		case "esc":
			m.Hide()
			return m, nil, false
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd, false
}

// SetHint sets the dim line shown under the input
func (m *InputModal) SetHint(hint string) {
	m.hint = hint
}

// View renders the input modal
func (m InputModal) View() string {
	if !m.visible {
		return ""
	}

	const width = 46
	row := lipgloss.NewStyle().Width(width).Background(styles.SlateDark)

	lines := []string{
		styles.ModalTitleStyle.Background(styles.SlateDark).Width(width).Render(m.title),
		row.Render(m.input.View()),
	}
	if m.hint != "" {
		lines = append(lines, row.Render(""), row.Foreground(styles.DimGray).Render(styles.Truncate(m.hint, width)))
	}

	return styles.ModalStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}
