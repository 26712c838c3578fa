package jokes

import (
	"fmt"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/CrestNiraj12/jokefeed/app"
	"github.com/CrestNiraj12/jokefeed/domain"
)

type stubSource struct {
	mu       sync.Mutex
	state    app.ViewState
	ch       chan app.ViewState
	triggers []int
	canceled bool
}

func newStubSource(initial app.ViewState) *stubSource {
	return &stubSource{state: initial, ch: make(chan app.ViewState, 8)}
}

func (s *stubSource) State() app.ViewState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *stubSource) Trigger(amount int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.triggers = append(s.triggers, amount)
	s.state = app.ViewState{Phase: app.PhaseLoading, Jokes: s.state.Jokes, ErrorState: s.state.ErrorState}
}

func (s *stubSource) Subscribe() (<-chan app.ViewState, func()) {
	return s.ch, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if !s.canceled {
			s.canceled = true
			close(s.ch)
		}
	}
}

func (s *stubSource) triggerCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.triggers)
}

func makeJokes(n int) []domain.Joke {
	out := make([]domain.Joke, n)
	for i := range out {
		out[i] = domain.Joke{
			ID:       i + 1,
			Setup:    fmt.Sprintf("setup %d", i+1),
			Delivery: fmt.Sprintf("delivery %d", i+1),
		}
	}
	return out
}

func success(jokes []domain.Joke) app.ViewState {
	return app.ViewState{Phase: app.PhaseSuccess, Jokes: jokes}
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func loadedModel(n int) (Model, *stubSource) {
	src := newStubSource(success(makeJokes(n)))
	m := New(src, 20, "Any")
	return m, src
}
