package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/mmcdole/reel/internal/tui/styles"
)

// ChoiceKind identifies which setting a ChoiceModal is editing
type ChoiceKind int

const (
	ChoiceSort ChoiceKind = iota
	ChoiceRating
)

// Choice is one selectable row
type Choice struct {
	Label string
	Value string
}

// ChoiceModal is a small popup for picking one value from a short list
type ChoiceModal struct {
	visible bool
	kind    ChoiceKind
	title   string
	choices []Choice
	cursor  int
	active  string
}

// NewChoiceModal creates a new choice modal
func NewChoiceModal() ChoiceModal {
	return ChoiceModal{}
}

// Show displays the modal with the cursor on the active value
func (m *ChoiceModal) Show(kind ChoiceKind, title string, choices []Choice, active string) {
	m.visible = true
	m.kind = kind
	m.title = title
	m.choices = choices
	m.active = active
	m.cursor = 0
	for i, c := range choices {
		if c.Value == active {
			m.cursor = i
			break
		}
	}
}

// Hide dismisses the modal
func (m *ChoiceModal) Hide() {
	m.visible = false
}

// IsVisible returns whether the modal is shown
func (m ChoiceModal) IsVisible() bool {
	return m.visible
}

// Kind returns the setting being edited
func (m ChoiceModal) Kind() ChoiceKind {
	return m.kind
}

// HandleKey processes a key press, returns (handled, selection).
// If selection is non-nil, the user confirmed a choice.
func (m *ChoiceModal) HandleKey(key string) (handled bool, selection *Choice) {
	if !m.visible {
		return false, nil
	}

	switch key {
	case "j", "down":
		if m.cursor < len(m.choices)-1 {
			m.cursor++
		}
	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}
	case "enter":
		if len(m.choices) == 0 {
			m.visible = false
			return true, nil
		}
		chosen := m.choices[m.cursor]
		m.visible = false
		return true, &chosen
	case "esc", "q":
		m.visible = false
	}

	return true, nil // consume all keys when visible
}

// View renders the modal
func (m ChoiceModal) View() string {
	if !m.visible || len(m.choices) == 0 {
		return ""
	}

	const rowWidth = 22

	var lines []string
	for i, c := range m.choices {
		prefix := "  "
		if c.Value == m.active {
			prefix = "✓ "
		}
		text := styles.Pad(prefix+c.Label, rowWidth)

		style := lipgloss.NewStyle().Foreground(styles.LightGray)
		switch {
		case i == m.cursor:
			style = lipgloss.NewStyle().Foreground(styles.White).Background(styles.SlateLight)
		case c.Value == m.active:
			style = lipgloss.NewStyle().Foreground(styles.Marquee)
		}
		lines = append(lines, style.Render(text))
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(styles.Marquee).
		Background(styles.SlateDark).
		Padding(0, 1).
		Render(styles.ModalTitleStyle.Render(m.title) + "\n" + strings.Join(lines, "\n"))
}
