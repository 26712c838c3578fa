package jokes

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/CrestNiraj12/jokefeed/app"
)

// Update handles messages for the joke list.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case spinner.TickMsg:
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ensureCursorVisible()
		return m, nil

	case StateMsg:
		m.applyState(msg.State)
		return m, m.waitForState()

	case subscriptionClosedMsg:
		m.updates = nil
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m *Model) applyState(vs app.ViewState) {
	prev := m.state
	m.state = vs
	if vs.Phase == app.PhaseLoading {
		// The previous jokes stay on screen untouched while loading.
		return
	}
	if vs.Phase == app.PhaseSuccess && prev.Phase == app.PhaseLoading && sameJokes(prev, vs) {
		return
	}
	m.cursor = 0
	m.startIndex = 0
	m.revealed = make(map[int]bool)
}

func sameJokes(a, b app.ViewState) bool {
	if len(a.Jokes) != len(b.Jokes) {
		return false
	}
	for i := range a.Jokes {
		if a.Jokes[i] != b.Jokes[i] {
			return false
		}
	}
	return true
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Refresh):
		if m.Loading() {
			break
		}
		m.source.Trigger(m.amount)
		m.state = m.source.State()
		return m, m.spinner.Tick

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.state.Jokes)-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.Top):
		m.cursor = 0
	case key.Matches(msg, m.keys.Bottom):
		if n := len(m.state.Jokes); n > 0 {
			m.cursor = n - 1
		}

	case key.Matches(msg, m.keys.Reveal):
		if len(m.state.Jokes) == 0 {
			break
		}
		m.revealed[m.cursor] = !m.revealed[m.cursor]
	}

	m.ensureCursorVisible()
	return m, nil
}

func (m *Model) ensureCursorVisible() {
	visible := m.visibleCount()
	if m.cursor < m.startIndex {
		m.startIndex = m.cursor
	}
	if m.cursor >= m.startIndex+visible {
		m.startIndex = m.cursor - visible + 1
	}
	if m.startIndex < 0 {
		m.startIndex = 0
	}
}
