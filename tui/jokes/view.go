package jokes

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/x/ansi"

	"github.com/CrestNiraj12/jokefeed/app"
	"github.com/CrestNiraj12/jokefeed/domain"
	"github.com/CrestNiraj12/jokefeed/tui/common"
)

const (
	defaultWidth = 80
	// Header (~4) and status bar (~2) plus the root help line (~2).
	reservedLines = 8
	// Each row is one content line inside a rounded border.
	rowLines = 3
	// Border and padding on both sides of a row.
	rowChrome = 4
)

// View renders the joke list as a string.
func (m Model) View() string {
	var b strings.Builder

	title := common.AppTitleStyle.Render("😂 JokeFeed")
	tagline := common.TaglineStyle.Render("<Two-part jokes, one key away>")
	b.WriteString(title + tagline + "\n")
	b.WriteString("  " + common.CategoryStyle.Render(m.category) + "\n\n")

	switch m.state.Phase {
	case app.PhaseLoading:
		if len(m.state.Jokes) == 0 {
			b.WriteString(fmt.Sprintf("  %s Loading jokes...\n", m.spinner.View()))
			return b.String()
		}
		b.WriteString(m.renderList())
		b.WriteString(common.StatusBarStyle.Render(fmt.Sprintf("  %s Refreshing...", m.spinner.View())))

	case app.PhaseError:
		b.WriteString(common.ErrorStyle.Render("  " + m.state.ErrorState.Description()))
		b.WriteString("\n\n  Press r to retry.\n")

	default:
		if len(m.state.Jokes) == 0 {
			b.WriteString("  No jokes this time. Press r for more.\n")
			return b.String()
		}
		b.WriteString(m.renderList())
		b.WriteString(common.StatusBarStyle.Render(
			fmt.Sprintf("  joke %d of %d", m.cursor+1, len(m.state.Jokes))))
	}

	return b.String()
}

func (m Model) renderList() string {
	jokes := m.state.Jokes
	start := m.startIndex
	if start >= len(jokes) {
		start = len(jokes) - 1
	}
	if start < 0 {
		start = 0
	}
	end := start + m.visibleCount()
	if end > len(jokes) {
		end = len(jokes)
	}

	var b strings.Builder
	for i := start; i < end; i++ {
		b.WriteString(m.renderRow(i, jokes[i]))
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) renderRow(i int, j domain.Joke) string {
	id := fmt.Sprintf("#%-5d ", j.ID)
	textWidth := m.contentWidth() - ansi.StringWidth(id)
	if textWidth < 1 {
		textWidth = 1
	}

	var text string
	if m.revealed[i] {
		text = common.DeliveryStyle.Render(truncate(j.Delivery, textWidth))
	} else {
		text = common.SetupStyle.Render(truncate(j.Setup, textWidth))
	}

	row := common.IDStyle.Render(id) + text
	if i == m.cursor {
		return common.SelectedStyle.Render(row)
	}
	return common.UnselectedStyle.Render(row)
}

// truncate cleans server text and flattens it to a single line no wider
// than width cells.
func truncate(text string, width int) string {
	line := strings.Join(strings.Fields(sanitizeForTerminal(text)), " ")
	return ansi.Truncate(line, width, "…")
}

func (m Model) contentWidth() int {
	w := m.width
	if w <= 0 {
		w = defaultWidth
	}
	if w-rowChrome < 1 {
		return 1
	}
	return w - rowChrome
}

func (m Model) visibleCount() int {
	if m.height <= 0 {
		return max(len(m.state.Jokes), 1)
	}
	n := (m.height - reservedLines) / rowLines
	if n < 1 {
		n = 1
	}
	return n
}
