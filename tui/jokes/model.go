package jokes

import (
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/CrestNiraj12/jokefeed/app"
	"github.com/CrestNiraj12/jokefeed/tui/common"
)

// Source is the observable joke state the view renders.
type Source interface {
	State() app.ViewState
	Trigger(amount int)
	Subscribe() (<-chan app.ViewState, func())
}

// --- Messages ---

// StateMsg carries a snapshot published by the source.
type StateMsg struct {
	State app.ViewState
}

// subscriptionClosedMsg is sent once the source stops delivering snapshots.
type subscriptionClosedMsg struct{}

// --- Model ---

// Model holds the state for the joke list view.
type Model struct {
	source      Source
	updates     <-chan app.ViewState
	unsubscribe func()
	amount      int
	category    string

	state      app.ViewState
	cursor     int
	startIndex int
	revealed   map[int]bool // row index -> showing delivery

	keys    common.KeyMap
	spinner spinner.Model
	width   int
	height  int
}

// New creates a joke list bound to source. Refresh requests amount jokes.
func New(source Source, amount int, category string) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = common.SpinnerStyle

	// Subscribe before reading the snapshot so nothing published in between is lost.
	updates, unsubscribe := source.Subscribe()

	return Model{
		source:      source,
		updates:     updates,
		unsubscribe: unsubscribe,
		amount:      amount,
		category:    category,
		state:       source.State(),
		revealed:    make(map[int]bool),
		keys:        common.DefaultKeyMap(),
		spinner:     s,
	}
}

// Init starts listening for snapshots and ticking the spinner.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.waitForState(),
		m.spinner.Tick,
	)
}

// Close stops the subscription.
func (m Model) Close() {
	if m.unsubscribe != nil {
		m.unsubscribe()
	}
}

// State returns the snapshot currently rendered.
func (m Model) State() app.ViewState {
	return m.state
}

// Loading reports whether a download is in flight.
func (m Model) Loading() bool {
	return m.state.Phase == app.PhaseLoading
}

func (m Model) waitForState() tea.Cmd {
	updates := m.updates
	if updates == nil {
		return nil
	}
	return func() tea.Msg {
		vs, ok := <-updates
		if !ok {
			return subscriptionClosedMsg{}
		}
		return StateMsg{State: vs}
	}
}
