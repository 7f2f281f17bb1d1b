package tui

import (
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mmcdole/reel/internal/browse"
	"github.com/mmcdole/reel/internal/domain"
	"github.com/mmcdole/reel/internal/tui/components"
	"github.com/mmcdole/reel/internal/tui/styles"
)

// ApplicationState represents the current state of the application
type ApplicationState int

const (
	StateBrowsing ApplicationState = iota
	StateHelp
)

// Status lines clear themselves after these delays
const (
	clearStatusAfter = 3 * time.Second
	clearErrorAfter  = 5 * time.Second
)

// LocationStore remembers the last visited location between runs
type LocationStore interface {
	SaveLastLocation(location string) error
}

// URLOpener opens a link with the system handler
type URLOpener interface {
	Open(rawURL string) error
}

// Options configures the model's collaborators
type Options struct {
	StartLocation string
	Sessions      LocationStore
	Opener        URLOpener
	Logger        *slog.Logger
}

// Model is the main Bubble Tea model for the application
type Model struct {
	// Application state
	State ApplicationState
	Ready bool

	// Filter store and its snapshot feed
	store     *browse.Store
	snapshots <-chan browse.Snapshot
	snap      browse.Snapshot

	startLocation string
	savedLocation string
	sessions      LocationStore
	opener        URLOpener
	logger        *slog.Logger

	// UI Components
	Omnibar    components.Omnibar
	Grid       components.Grid
	Inspector  components.Inspector
	Choice     components.ChoiceModal
	GenreModal components.GenreModal
	InputModal components.InputModal
	Spinner    spinner.Model

	// Dimensions
	Width  int
	Height int

	// UI state
	StatusMsg   string
	StatusIsErr bool
}

// NewModel creates a new application model subscribed to store
func NewModel(store *browse.Store, opts Options) Model {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	observer := NewChannelObserver()
	store.Subscribe(observer)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.SpinnerStyle

	grid := components.NewGrid()
	grid.SetFocused(true)

	goTo := components.NewInputModal("/listing?genres=Action or /movie/10")
	goTo.SetHint("enter to go · esc to cancel")

	return Model{
		State:         StateBrowsing,
		store:         store,
		snapshots:     observer.Snapshots(),
		snap:          store.Snapshot(),
		startLocation: opts.StartLocation,
		sessions:      opts.Sessions,
		opener:        opts.Opener,
		logger:        logger,
		Omnibar:       components.NewOmnibar(),
		Grid:          grid,
		Inspector:     components.NewInspector(),
		Choice:        components.NewChoiceModal(),
		GenreModal:    components.NewGenreModal(domain.Genres),
		InputModal:    goTo,
		Spinner:       sp,
	}
}

// Init starts the store and listens for its snapshots
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		StartCmd(m.store, m.startLocation),
		WaitForSnapshotCmd(m.snapshots),
		m.Spinner.Tick,
	)
}

// Update handles all messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.Ready = true
		m.updateLayout()
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case SnapshotMsg:
		cmd := m.applySnapshot(msg.Snapshot)
		return m, tea.Batch(cmd, WaitForSnapshotCmd(m.snapshots))

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.Spinner, cmd = m.Spinner.Update(msg)
		return m, cmd

	case OpenedMsg:
		m.StatusMsg = "Opened " + msg.What
		m.StatusIsErr = false
		return m, ClearStatusCmd(clearStatusAfter)

	case ErrMsg:
		m.logger.Error("tui command failed", "context", msg.Context, "error", msg.Err)
		m.StatusMsg = msg.Error()
		m.StatusIsErr = true
		return m, ClearStatusCmd(clearErrorAfter)

	case StatusMsg:
		m.StatusMsg = msg.Message
		m.StatusIsErr = msg.IsError
		return m, ClearStatusCmd(clearStatusAfter)

	case ClearStatusMsg:
		m.StatusMsg = ""
		m.StatusIsErr = false
		return m, nil
	}

	return m, nil
}

// applySnapshot projects a store snapshot onto the components.
// Snapshots older than the one already shown are dropped.
func (m *Model) applySnapshot(snap browse.Snapshot) tea.Cmd {
	if snap.Version < m.snap.Version {
		return nil
	}
	m.snap = snap

	m.Omnibar.Sync(snap.SearchInput, snap.SearchPending)

	m.Grid.SetMovies(snap.List.Items)
	m.Grid.SetPage(snap.Filter.Page, snap.List.TotalPages)
	m.Grid.SetTitle(listTitle(snap))
	m.Grid.SetEmptyMessage(emptyMessage(snap))

	switch snap.Detail.Status {
	case browse.DetailLoaded:
		m.Inspector.SetMovie(snap.Detail.Movie)
	case browse.DetailLoading:
		m.Inspector.SetMessage("Loading movie...", false)
	case browse.DetailNotFound, browse.DetailErrored:
		m.Inspector.SetMessage(snap.Detail.Err, true)
	default:
		m.Inspector.SetMessage("", false)
	}

	loc := snap.Location()
	if snap.View == browse.ViewNotFound || loc == m.savedLocation {
		return nil
	}
	m.savedLocation = loc
	return SaveLocationCmd(m.sessions, loc, m.logger)
}

// Snapshot returns the last snapshot applied to the view
func (m Model) Snapshot() browse.Snapshot {
	return m.snap
}
