package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/lifeweeks/lifeweeks/internal/domain"
	"github.com/lifeweeks/lifeweeks/internal/logging"
	"github.com/lifeweeks/lifeweeks/internal/model"
	"github.com/lifeweeks/lifeweeks/internal/summary"
)

const (
	weeksPerRow    = 52
	savedFlashTime = 2 * time.Second
	defaultColor   = "#F472B6"

	// expectancyStep is one year of weeks per left/right press.
	expectancyStep = 52
)

type gridMode int

const (
	gridBrowsing gridMode = iota
	gridSettings
	gridMilestone
)

const (
	settingsFieldDOB = iota
	settingsFieldExpectancy
)

const (
	milestoneFieldWeek = iota
	milestoneFieldLabel
	milestoneFieldColor
)

// gridView renders the week grid, the stat cards, the achievements
// panel, and the settings/milestone forms.
type gridView struct {
	domain *domain.Store
	log    *logging.Logger

	mode gridMode

	settingsInputs []textinput.Model
	settingsIndex  int
	settingsError  string
	savedAt        time.Time

	milestoneInputs []textinput.Model
	milestoneIndex  int
	milestoneError  string

	achievementsOpen bool

	vp     viewport.Model
	width  int
	height int
}

func newGridView(dom *domain.Store, log *logging.Logger) gridView {
	g := gridView{
		domain: dom,
		log:    log,
		vp:     viewport.New(0, 0),
	}
	g.settingsInputs = []textinput.Model{
		newFormInput("Date of birth (YYYY-MM-DD): "),
		newFormInput("Life expectancy (weeks): "),
	}
	g.milestoneInputs = []textinput.Model{
		newFormInput("Week: "),
		newFormInput("Label: "),
		newFormInput("Color (hex): "),
	}
	g.milestoneInputs[milestoneFieldColor].Placeholder = defaultColor
	return g
}

func newFormInput(prompt string) textinput.Model {
	input := textinput.New()
	input.Prompt = prompt
	input.CharLimit = 0
	input.Cursor.SetMode(cursor.CursorBlink)
	return input
}

func (g *gridView) editing() bool {
	return g.mode != gridBrowsing
}

func (g *gridView) setSize(width, height int) {
	g.width = width
	g.height = height
	g.vp.Width = width
	gridHeight := height - lipgloss.Height(g.renderTop())
	if gridHeight < 3 {
		gridHeight = 3
	}
	g.vp.Height = gridHeight
	g.syncGrid()
}

func (g *gridView) update(msg tea.KeyMsg) (tea.Cmd, bool) {
	switch g.mode {
	case gridSettings:
		return g.updateSettings(msg), true
	case gridMilestone:
		return g.updateMilestone(msg), true
	}
	switch msg.String() {
	case "s":
		g.openSettings()
		return nil, true
	case "m":
		g.openMilestone()
		return nil, true
	case "a":
		g.achievementsOpen = !g.achievementsOpen
		g.setSize(g.width, g.height)
		return nil, true
	case "r":
		if err := g.domain.ResetUserData(context.Background()); err != nil {
			g.log.Printf("reset user data: %v", err)
			g.settingsError = err.Error()
		} else {
			g.settingsError = ""
		}
		g.syncGrid()
		return nil, true
	case "up", "k", "down", "j", "pgup", "pgdown", "g", "G", "home", "end":
		var cmd tea.Cmd
		g.vp, cmd = g.vp.Update(msg)
		return cmd, true
	}
	return nil, false
}

func (g *gridView) openSettings() {
	g.mode = gridSettings
	g.settingsIndex = settingsFieldDOB
	g.settingsError = ""
	user := g.domain.UserData()
	if user.HasDateOfBirth() {
		g.settingsInputs[settingsFieldDOB].SetValue(user.DateOfBirth.Format("2006-01-02"))
	} else {
		g.settingsInputs[settingsFieldDOB].SetValue("")
	}
	g.settingsInputs[settingsFieldExpectancy].SetValue(strconv.Itoa(user.LifeExpectancyWeeks))
	g.focusSettings()
}

func (g *gridView) focusSettings() {
	for i := range g.settingsInputs {
		if i == g.settingsIndex {
			g.settingsInputs[i].Focus()
		} else {
			g.settingsInputs[i].Blur()
		}
	}
}

func (g *gridView) updateSettings(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		g.mode = gridBrowsing
		g.settingsError = ""
		return nil
	case "tab", "down":
		g.settingsIndex = (g.settingsIndex + 1) % len(g.settingsInputs)
		g.focusSettings()
		return nil
	case "shift+tab", "up":
		g.settingsIndex = (g.settingsIndex + len(g.settingsInputs) - 1) % len(g.settingsInputs)
		g.focusSettings()
		return nil
	case "left", "right":
		if g.settingsIndex == settingsFieldExpectancy {
			delta := expectancyStep
			if msg.String() == "left" {
				delta = -expectancyStep
			}
			input := &g.settingsInputs[settingsFieldExpectancy]
			input.SetValue(stepExpectancy(input.Value(), delta))
			input.CursorEnd()
			return nil
		}
	case "enter":
		g.applySettings()
		return nil
	}
	var cmd tea.Cmd
	g.settingsInputs[g.settingsIndex], cmd = g.settingsInputs[g.settingsIndex].Update(msg)
	return cmd
}

// stepExpectancy moves a week count by delta, clamped to the allowed
// range. Unparseable input restarts from the default.
func stepExpectancy(current string, delta int) string {
	value, err := strconv.Atoi(strings.TrimSpace(current))
	if err != nil {
		value = model.DefaultLifeExpectancyWeeks
	}
	value += delta
	if value < model.MinLifeExpectancyWeeks {
		value = model.MinLifeExpectancyWeeks
	}
	if value > model.MaxLifeExpectancyWeeks {
		value = model.MaxLifeExpectancyWeeks
	}
	return strconv.Itoa(value)
}

func (g *gridView) applySettings() {
	dobText := strings.TrimSpace(g.settingsInputs[settingsFieldDOB].Value())
	var dob time.Time
	if dobText != "" {
		parsed, err := time.ParseInLocation("2006-01-02", dobText, time.Local)
		if err != nil {
			g.settingsError = "date of birth must be YYYY-MM-DD"
			return
		}
		dob = parsed
	}
	expectancyText := strings.TrimSpace(g.settingsInputs[settingsFieldExpectancy].Value())
	expectancy, err := strconv.Atoi(expectancyText)
	if err != nil {
		g.settingsError = "life expectancy must be a number of weeks"
		return
	}
	data := model.UserData{DateOfBirth: dob, LifeExpectancyWeeks: expectancy}
	if err := g.domain.SetUserData(context.Background(), data); err != nil {
		g.settingsError = err.Error()
		return
	}
	g.settingsError = ""
	g.savedAt = time.Now()
	g.mode = gridBrowsing
	g.syncGrid()
}

func (g *gridView) openMilestone() {
	g.mode = gridMilestone
	g.milestoneIndex = milestoneFieldWeek
	g.milestoneError = ""
	for i := range g.milestoneInputs {
		g.milestoneInputs[i].SetValue("")
	}
	g.focusMilestone()
}

func (g *gridView) focusMilestone() {
	for i := range g.milestoneInputs {
		if i == g.milestoneIndex {
			g.milestoneInputs[i].Focus()
		} else {
			g.milestoneInputs[i].Blur()
		}
	}
}

func (g *gridView) updateMilestone(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		g.mode = gridBrowsing
		g.milestoneError = ""
		return nil
	case "tab", "down":
		g.milestoneIndex = (g.milestoneIndex + 1) % len(g.milestoneInputs)
		g.focusMilestone()
		return nil
	case "shift+tab", "up":
		g.milestoneIndex = (g.milestoneIndex + len(g.milestoneInputs) - 1) % len(g.milestoneInputs)
		g.focusMilestone()
		return nil
	case "enter":
		g.applyMilestone()
		return nil
	}
	var cmd tea.Cmd
	g.milestoneInputs[g.milestoneIndex], cmd = g.milestoneInputs[g.milestoneIndex].Update(msg)
	return cmd
}

func (g *gridView) applyMilestone() {
	week, err := strconv.Atoi(strings.TrimSpace(g.milestoneInputs[milestoneFieldWeek].Value()))
	if err != nil || week <= 0 {
		g.milestoneError = "week must be a positive number"
		return
	}
	label := strings.TrimSpace(g.milestoneInputs[milestoneFieldLabel].Value())
	if label == "" {
		g.milestoneError = "label must not be empty"
		return
	}
	color := strings.TrimSpace(g.milestoneInputs[milestoneFieldColor].Value())
	if color == "" {
		color = defaultColor
	}
	m := model.Milestone{Week: week, Label: label, Color: color}
	if _, err := g.domain.AddMilestone(context.Background(), m); err != nil {
		g.milestoneError = err.Error()
		return
	}
	g.milestoneError = ""
	g.mode = gridBrowsing
	g.syncGrid()
}

func (g *gridView) syncGrid() {
	user := g.domain.UserData()
	totalWeeks := 0
	if user.HasDateOfBirth() {
		totalWeeks = user.LifeExpectancyWeeks
	}
	rows := renderGridRows(totalWeeks, g.domain.WeeksLived(), milestonesByWeek(g.domain.Milestones()), weeksPerRow)
	if len(rows) == 0 {
		g.vp.SetContent(subtitleStyle.Render("Set your date of birth to reveal the grid."))
		return
	}
	g.vp.SetContent(strings.Join(rows, "\n"))
}

func (g *gridView) view() string {
	return g.renderTop() + "\n" + g.vp.View()
}

func (g *gridView) renderTop() string {
	var sections []string
	sections = append(sections, g.renderStats())
	if g.achievementsOpen {
		sections = append(sections, g.renderAchievements())
	} else {
		unlocked := 0
		for _, a := range g.domain.Achievements() {
			if a.Unlocked {
				unlocked++
			}
		}
		sections = append(sections, subtitleStyle.Render(fmt.Sprintf("Achievements: %d/%d unlocked · %d points (a to expand)",
			unlocked, len(g.domain.Achievements()), g.domain.Points())))
	}
	switch g.mode {
	case gridSettings:
		sections = append(sections, g.renderSettingsForm())
	case gridMilestone:
		sections = append(sections, g.renderMilestoneForm())
	default:
		help := "s settings  m milestone  a achievements  r reset  tab switch view  q quit"
		if time.Since(g.savedAt) < savedFlashTime {
			sections = append(sections, savedStyle.Render("Saved")+"  "+helpStyle.Render(help))
		} else if g.settingsError != "" {
			sections = append(sections, errorStyle.Render(g.settingsError))
		} else {
			sections = append(sections, helpStyle.Render(help))
		}
	}
	return strings.Join(sections, "\n")
}

func (g *gridView) renderStats() string {
	stats := summary.Build(g.domain.UserData(), time.Now())
	lived, remaining, complete, birthday := "---", "---", "---", "---"
	if stats.Configured {
		lived = strconv.Itoa(stats.WeeksLived)
		remaining = strconv.Itoa(stats.WeeksRemaining)
		complete = fmt.Sprintf("%.1f%%", stats.PercentComplete)
		birthday = strconv.Itoa(stats.DaysToBirthday)
	}
	cards := []string{
		renderCard("LIVED", lived, "weeks behind"),
		renderCard("REMAINING", remaining, "weeks ahead"),
		renderCard("COMPLETE", complete, "of expected"),
		renderCard("BIRTHDAY", birthday, "days away"),
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cards...)
}

func renderCard(label, value, subtext string) string {
	body := cardTitleStyle.Render(label) + "\n" +
		cardValueStyle.Render(value) + "\n" +
		subtitleStyle.Render(subtext)
	return cardStyle.Render(body)
}

func (g *gridView) renderAchievements() string {
	lines := []string{titleStyle.Render(fmt.Sprintf("Level 1 (%d points)", g.domain.Points()))}
	for _, a := range g.domain.Achievements() {
		marker := "[ ]"
		style := subtitleStyle
		if a.Unlocked {
			marker = "[x]"
			style = moodStyle
		}
		lines = append(lines, style.Render(fmt.Sprintf("%s %s (%d pts): %s", marker, a.Name, a.Points, a.Description)))
	}
	return strings.Join(lines, "\n")
}

func (g *gridView) renderSettingsForm() string {
	lines := []string{"Settings (enter save, esc cancel, left/right step expectancy)"}
	for _, input := range g.settingsInputs {
		lines = append(lines, input.View())
	}
	expectancy, err := strconv.Atoi(strings.TrimSpace(g.settingsInputs[settingsFieldExpectancy].Value()))
	if err == nil {
		lines = append(lines, subtitleStyle.Render(fmt.Sprintf("≈ %.1f years", float64(expectancy)/model.WeeksInYear)))
	}
	if g.settingsError != "" {
		lines = append(lines, errorStyle.Render(g.settingsError))
	}
	return strings.Join(lines, "\n")
}

func (g *gridView) renderMilestoneForm() string {
	lines := []string{"New milestone (enter to add, esc to cancel)"}
	for _, input := range g.milestoneInputs {
		lines = append(lines, input.View())
	}
	if g.milestoneError != "" {
		lines = append(lines, errorStyle.Render(g.milestoneError))
	}
	return strings.Join(lines, "\n")
}

func milestonesByWeek(milestones []model.Milestone) map[int]model.Milestone {
	byWeek := make(map[int]model.Milestone, len(milestones))
	for _, m := range milestones {
		byWeek[m.Week] = m
	}
	return byWeek
}

// renderGridRows renders one cell per week, 52 to a row: past weeks
// filled, the current week highlighted, future weeks dim, and
// milestone weeks diamond-marked in their own color.
func renderGridRows(totalWeeks, weeksLived int, milestones map[int]model.Milestone, perRow int) []string {
	if totalWeeks <= 0 || perRow <= 0 {
		return nil
	}
	rows := make([]string, 0, (totalWeeks+perRow-1)/perRow)
	var b strings.Builder
	for week := 1; week <= totalWeeks; week++ {
		b.WriteString(renderWeekCell(week, weeksLived, milestones))
		if week%perRow == 0 || week == totalWeeks {
			rows = append(rows, b.String())
			b.Reset()
		}
	}
	return rows
}

func renderWeekCell(week, weeksLived int, milestones map[int]model.Milestone) string {
	if m, ok := milestones[week]; ok {
		return lipgloss.NewStyle().Foreground(lipgloss.Color(m.Color)).Render("◆")
	}
	switch {
	case week == weeksLived+1:
		return currentCellStyle.Render("■")
	case week <= weeksLived:
		return pastCellStyle.Render("■")
	default:
		return futureCellStyle.Render("·")
	}
}
