package tui

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/lifeweeks/lifeweeks/internal/community"
)

// communityView lists shared grids from the local feed file.
type communityView struct {
	feed  community.Feed
	table table.Model
	width int
}

func newCommunityView(feed community.Feed) communityView {
	columns := []table.Column{
		{Title: "Name", Width: 20},
		{Title: "Progress", Width: 10},
		{Title: "Weeks", Width: 12},
		{Title: "Likes", Width: 7},
		{Title: "Comments", Width: 9},
	}
	rows := make([]table.Row, 0, len(feed.Grids))
	for _, g := range feed.Grids {
		rows = append(rows, table.Row{
			g.Name,
			fmt.Sprintf("%.1f%%", community.PercentComplete(g)),
			fmt.Sprintf("%d/%d", g.WeeksLived, g.TotalWeeks),
			strconv.Itoa(g.Likes),
			strconv.Itoa(g.Comments),
		})
	}
	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(10),
	)
	styles := table.DefaultStyles()
	styles.Header = styles.Header.Foreground(lipgloss.Color(colorCyan)).Bold(true)
	styles.Selected = styles.Selected.Foreground(lipgloss.Color(colorPink)).Bold(true)
	t.SetStyles(styles)
	return communityView{feed: feed, table: t}
}

func (c *communityView) editing() bool { return false }

func (c *communityView) setSize(width, height int) {
	c.width = width
	tableHeight := height - 3
	if tableHeight < 3 {
		tableHeight = 3
	}
	c.table.SetHeight(tableHeight)
}

func (c *communityView) update(msg tea.KeyMsg) (tea.Cmd, bool) {
	switch msg.String() {
	case "up", "k", "down", "j", "pgup", "pgdown", "g", "G", "home", "end":
		var cmd tea.Cmd
		c.table, cmd = c.table.Update(msg)
		return cmd, true
	}
	return nil, false
}

func (c *communityView) view() string {
	if len(c.feed.Grids) == 0 {
		return subtitleStyle.Render("No shared grids yet.") + "\n" +
			helpStyle.Render("tab switch view  q quit")
	}
	return c.table.View() + "\n" + helpStyle.Render("tab switch view  q quit")
}
