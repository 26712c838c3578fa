package tui

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/CrestNiraj12/jokefeed/tui/common"
	"github.com/CrestNiraj12/jokefeed/tui/jokes"
)

// Deps holds all dependencies the TUI needs. Plain struct, not a DI container.
type Deps struct {
	Jokes    jokes.Source
	Amount   int
	Category string
}

// App is the root Bubble Tea model. It owns global keys and the help bar
// and delegates everything else to the joke list.
type App struct {
	jokes jokes.Model
	keys  common.KeyMap
	help  help.Model
}

// NewApp creates the root model with all dependencies wired.
func NewApp(deps Deps) App {
	return App{
		jokes: jokes.New(deps.Jokes, deps.Amount, deps.Category),
		keys:  common.DefaultKeyMap(),
		help:  help.New(),
	}
}

// Init delegates to the joke list.
func (a App) Init() tea.Cmd {
	return a.jokes.Init()
}

// Update handles global keys and routes the rest to the joke list.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, a.keys.Quit):
			a.jokes.Close()
			return a, tea.Quit
		case key.Matches(msg, a.keys.Help):
			a.help.ShowAll = !a.help.ShowAll
			return a, nil
		}

	case tea.WindowSizeMsg:
		a.help.Width = msg.Width
	}

	var cmd tea.Cmd
	a.jokes, cmd = a.jokes.Update(msg)
	return a, cmd
}

// View renders the joke list and the help bar.
func (a App) View() string {
	return a.jokes.View() + "\n" + common.StatusBarStyle.Render(a.help.View(a.keys))
}
