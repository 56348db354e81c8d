package tui

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/lifeweeks/lifeweeks/internal/assistant"
	"github.com/lifeweeks/lifeweeks/internal/community"
	"github.com/lifeweeks/lifeweeks/internal/domain"
	"github.com/lifeweeks/lifeweeks/internal/logging"
)

type view int

const (
	viewGrid view = iota
	viewJournal
	viewCommunity
)

var viewNames = []string{"Grid", "Journal", "Community"}

const statRefreshInterval = time.Minute

type tickMsg time.Time

func tickCmd() tea.Cmd {
	return tea.Tick(statRefreshInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Model is the root bubbletea model. It owns the three views and
// routes key and window events to whichever one is active.
type Model struct {
	active view

	grid      gridView
	journal   journalView
	community communityView

	width  int
	height int
	ready  bool
}

func New(dom *domain.Store, pipe *assistant.Pipeline, feed community.Feed, log *logging.Logger) Model {
	return Model{
		grid:      newGridView(dom, log),
		journal:   newJournalView(dom, pipe, log),
		community: newCommunityView(feed),
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, tickCmd())
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.layout()
		return m, nil
	case tickMsg:
		m.grid.syncGrid()
		return m, tickCmd()
	case questionsMsg:
		m.journal.handleQuestions(msg)
		m.layout()
		return m, nil
	case synthesisMsg:
		m.journal.handleSynthesis(msg)
		m.layout()
		return m, nil
	case tea.KeyMsg:
		return m.updateKey(msg)
	}
	return m, nil
}

func (m Model) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}
	cmd, handled := m.routeKey(msg)
	if handled {
		m.layout()
		return m, cmd
	}
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "tab":
		m.active = (m.active + 1) % view(len(viewNames))
		m.layout()
	case "shift+tab":
		m.active = (m.active + view(len(viewNames)) - 1) % view(len(viewNames))
		m.layout()
	case "1":
		m.active = viewGrid
		m.layout()
	case "2":
		m.active = viewJournal
		m.layout()
	case "3":
		m.active = viewCommunity
		m.layout()
	}
	return m, nil
}

// routeKey delivers the key to the active view. A view that is in an
// edit form consumes every key so tab and q keep working as input.
func (m *Model) routeKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	switch m.active {
	case viewGrid:
		cmd, handled := m.grid.update(msg)
		return cmd, handled || m.grid.editing()
	case viewJournal:
		cmd, handled := m.journal.update(msg)
		return cmd, handled || m.journal.editing()
	case viewCommunity:
		return m.community.update(msg)
	}
	return nil, false
}

func (m *Model) layout() {
	if !m.ready {
		return
	}
	bodyHeight := m.height - lipgloss.Height(m.renderNav()) - 1
	if bodyHeight < 5 {
		bodyHeight = 5
	}
	m.grid.setSize(m.width, bodyHeight)
	m.journal.setSize(m.width, bodyHeight)
	m.community.setSize(m.width, bodyHeight)
}

func (m Model) View() string {
	if !m.ready {
		return "loading..."
	}
	var body string
	switch m.active {
	case viewGrid:
		body = m.grid.view()
	case viewJournal:
		body = m.journal.view()
	case viewCommunity:
		body = m.community.view()
	}
	return m.renderNav() + "\n\n" + body
}

func (m Model) renderNav() string {
	tabs := make([]string, len(viewNames))
	for i, name := range viewNames {
		if view(i) == m.active {
			tabs[i] = activeNavStyle.Render(name)
		} else {
			tabs[i] = inactiveNavStyle.Render(name)
		}
	}
	return strings.Join(tabs, " ")
}
