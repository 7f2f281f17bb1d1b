package tui

// Layout constants
const (
	// ChromeHeight is the search bar, the filter summary and the footer
	ChromeHeight = 3

	MinContentHeight = 5
	MinContentWidth  = 30
)

// contentSize returns the space left for the grid or inspector
func (m Model) contentSize() (int, int) {
	return max(m.Width, MinContentWidth), max(m.Height-ChromeHeight, MinContentHeight)
}

// updateLayout updates component sizes based on window size
func (m *Model) updateLayout() {
	if m.Width == 0 || m.Height == 0 {
		return
	}

	width, height := m.contentSize()
	m.Omnibar.SetWidth(m.Width)
	m.Grid.SetSize(width, height)
	m.Inspector.SetSize(width, height)
}
