package components

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mmcdole/reel/internal/tui/styles"
)

// OmnibarEvent reports what a key press did to the omnibar
type OmnibarEvent int

const (
	OmnibarNone      OmnibarEvent = iota
	OmnibarChanged                // Text changed; the caller should forward it as a search
	OmnibarSubmitted              // Enter; the caller should apply the search now
	OmnibarClosed                 // Esc; focus returns to the grid
)

// Omnibar is the search bar above the results. Typing in it drives the
// provider search; it is not a local filter.
type Omnibar struct {
	input   textinput.Model
	width   int
	pending bool
}

// NewOmnibar creates a new omnibar component
func NewOmnibar() Omnibar {
	ti := textinput.New()
	ti.Placeholder = "Search movies..."
	ti.CharLimit = 100
	ti.Prompt = "Search: "
	ti.PromptStyle = styles.AccentStyle
	ti.TextStyle = lipgloss.NewStyle().Foreground(styles.White)
	ti.PlaceholderStyle = styles.DimStyle

	return Omnibar{input: ti}
}

// Focus gives the omnibar keyboard focus
func (o *Omnibar) Focus() tea.Cmd {
	o.input.CursorEnd()
	return o.input.Focus()
}

// Blur removes keyboard focus
func (o *Omnibar) Blur() {
	o.input.Blur()
}

// Focused reports whether the omnibar has keyboard focus
func (o Omnibar) Focused() bool {
	return o.input.Focused()
}

// Sync shows the store's search text. While focused the user's typing wins.
func (o *Omnibar) Sync(text string, pending bool) {
	o.pending = pending
	if !o.input.Focused() && o.input.Value() != text {
		o.input.SetValue(text)
	}
}

// Value returns the current text
func (o Omnibar) Value() string {
	return o.input.Value()
}

// SetWidth sets the rendered width
func (o *Omnibar) SetWidth(width int) {
	o.width = width
	o.input.Width = max(width-lipgloss.Width(o.input.Prompt)-4, 10)
}

// Update handles input while focused
func (o Omnibar) Update(msg tea.Msg) (Omnibar, tea.Cmd, OmnibarEvent) {
	if !o.input.Focused() {
		return o, nil, OmnibarNone
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "enter":
			o.input.Blur()
			return o, nil, OmnibarSubmitted
		case "esc":
			o.input.Blur()
			return o, nil, OmnibarClosed
		}
	}

	before := o.input.Value()
	var cmd tea.Cmd
	o.input, cmd = o.input.Update(msg)
	if o.input.Value() != before {
		return o, cmd, OmnibarChanged
	}
	return o, cmd, OmnibarNone
}

// View renders the search bar
func (o Omnibar) View() string {
	line := o.input.View()
	if o.pending {
		line += styles.DimStyle.Render("  …")
	}
	style := lipgloss.NewStyle().Padding(0, 1)
	if o.width > 0 {
		style = style.Width(o.width)
	}
	return style.Render(line)
}
