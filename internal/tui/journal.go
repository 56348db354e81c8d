package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/lifeweeks/lifeweeks/internal/assistant"
	"github.com/lifeweeks/lifeweeks/internal/domain"
	"github.com/lifeweeks/lifeweeks/internal/logging"
	"github.com/lifeweeks/lifeweeks/internal/model"
)

const entryPreviewLimit = 200

type questionsMsg struct {
	questions []string
	err       error
}

type synthesisMsg struct {
	entry model.GeneratedEntry
	err   error
}

func fetchQuestionsCmd(svc assistant.Service, topic string) tea.Cmd {
	return func() tea.Msg {
		questions, err := svc.TalkingPoints(context.Background(), topic)
		return questionsMsg{questions: questions, err: err}
	}
}

func synthesizeCmd(svc assistant.Service, topic string, answers []assistant.QA) tea.Cmd {
	return func() tea.Msg {
		entry, err := svc.Synthesize(context.Background(), topic, answers)
		return synthesisMsg{entry: entry, err: err}
	}
}

// journalView holds the guided entry composer and the saved entry list.
type journalView struct {
	domain   *domain.Store
	pipeline *assistant.Pipeline
	log      *logging.Logger

	composing    bool
	topicInput   textinput.Model
	answerInputs []textinput.Model
	answerIndex  int
	saveError    string

	vp     viewport.Model
	width  int
	height int
}

func newJournalView(dom *domain.Store, pipe *assistant.Pipeline, log *logging.Logger) journalView {
	j := journalView{
		domain:   dom,
		pipeline: pipe,
		log:      log,
		vp:       viewport.New(0, 0),
	}
	j.topicInput = newFormInput("Topic: ")
	return j
}

func (j *journalView) editing() bool {
	return j.composing
}

func (j *journalView) setSize(width, height int) {
	j.width = width
	j.height = height
	j.vp.Width = width
	listHeight := height - lipgloss.Height(j.renderTop())
	if listHeight < 3 {
		listHeight = 3
	}
	j.vp.Height = listHeight
	j.syncEntries()
}

func (j *journalView) update(msg tea.KeyMsg) (tea.Cmd, bool) {
	if !j.composing {
		switch msg.String() {
		case "n":
			j.startComposer()
			return nil, true
		case "up", "k", "down", "j", "pgup", "pgdown", "g", "G", "home", "end":
			var cmd tea.Cmd
			j.vp, cmd = j.vp.Update(msg)
			return cmd, true
		}
		return nil, false
	}
	switch j.pipeline.Step() {
	case assistant.StepComposing:
		return j.updateComposing(msg), true
	case assistant.StepInterviewing:
		return j.updateInterviewing(msg), true
	case assistant.StepReviewing:
		return j.updateReviewing(msg), true
	}
	return nil, true
}

func (j *journalView) startComposer() {
	j.composing = true
	j.saveError = ""
	j.topicInput.SetValue(j.pipeline.Topic())
	j.topicInput.Focus()
	j.topicInput.Cursor.SetMode(cursor.CursorBlink)
	// The pipeline survives the composer closing, so reopening
	// mid-interview must rebuild the answer inputs from it.
	if j.pipeline.Step() == assistant.StepInterviewing {
		j.buildAnswerInputs()
	}
}

func (j *journalView) closeComposer() {
	j.composing = false
	j.topicInput.Blur()
	j.answerInputs = nil
	j.setSize(j.width, j.height)
}

func (j *journalView) updateComposing(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		if j.pipeline.Loading() {
			return nil
		}
		j.pipeline.Cancel()
		j.closeComposer()
		return nil
	case "enter":
		j.pipeline.SetTopic(j.topicInput.Value())
		if !j.pipeline.BeginTalkingPoints() {
			return nil
		}
		return fetchQuestionsCmd(j.pipeline.Service(), j.pipeline.Topic())
	}
	if j.pipeline.Loading() {
		return nil
	}
	var cmd tea.Cmd
	j.topicInput, cmd = j.topicInput.Update(msg)
	j.pipeline.SetTopic(j.topicInput.Value())
	return cmd
}

func (j *journalView) handleQuestions(msg questionsMsg) {
	j.pipeline.FinishTalkingPoints(msg.questions, msg.err)
	if msg.err != nil {
		j.log.Printf("talking points: %v", msg.err)
		return
	}
	j.buildAnswerInputs()
}

func (j *journalView) buildAnswerInputs() {
	questions := j.pipeline.Questions()
	answers := j.pipeline.Answers()
	j.answerInputs = make([]textinput.Model, len(questions))
	for i := range questions {
		input := newFormInput("> ")
		input.SetValue(answers[i])
		j.answerInputs[i] = input
	}
	j.answerIndex = 0
	j.focusAnswer()
}

func (j *journalView) focusAnswer() {
	for i := range j.answerInputs {
		if i == j.answerIndex {
			j.answerInputs[i].Focus()
		} else {
			j.answerInputs[i].Blur()
		}
	}
}

func (j *journalView) updateInterviewing(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		if j.pipeline.Loading() {
			return nil
		}
		j.pipeline.Cancel()
		j.closeComposer()
		return nil
	case "tab", "down":
		j.answerIndex = (j.answerIndex + 1) % len(j.answerInputs)
		j.focusAnswer()
		return nil
	case "shift+tab", "up":
		j.answerIndex = (j.answerIndex + len(j.answerInputs) - 1) % len(j.answerInputs)
		j.focusAnswer()
		return nil
	case "enter":
		if j.answerIndex < len(j.answerInputs)-1 {
			j.answerIndex++
			j.focusAnswer()
			return nil
		}
		if !j.pipeline.BeginSynthesis() {
			return nil
		}
		return synthesizeCmd(j.pipeline.Service(), j.pipeline.Topic(), j.pipeline.QuestionAnswers())
	}
	if j.pipeline.Loading() {
		return nil
	}
	var cmd tea.Cmd
	j.answerInputs[j.answerIndex], cmd = j.answerInputs[j.answerIndex].Update(msg)
	j.pipeline.SetAnswer(j.answerIndex, j.answerInputs[j.answerIndex].Value())
	return cmd
}

func (j *journalView) handleSynthesis(msg synthesisMsg) {
	j.pipeline.FinishSynthesis(msg.entry, msg.err)
	if msg.err != nil {
		j.log.Printf("synthesize entry: %v", msg.err)
	}
}

func (j *journalView) updateReviewing(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		j.pipeline.Cancel()
		j.saveError = ""
		j.closeComposer()
		return nil
	case "e":
		j.pipeline.EditAnswers()
		j.saveError = ""
		j.buildAnswerInputs()
		return nil
	case "enter", "s":
		j.saveDraft()
		return nil
	}
	return nil
}

// saveDraft persists the reviewed draft. The pipeline resets only once
// the write succeeded; a storage failure keeps the Reviewing state so
// the draft stays recoverable.
func (j *journalView) saveDraft() {
	draft, ok := j.pipeline.Draft()
	if !ok {
		return
	}
	entry := model.JournalEntry{
		Title:   draft.Title,
		Content: draft.Content,
		Mood:    draft.Mood,
		Tags:    draft.Tags,
	}
	if _, err := j.domain.AddJournalEntry(context.Background(), entry); err != nil {
		j.log.Printf("save journal entry: %v", err)
		j.saveError = "Could not save the entry: " + err.Error()
		return
	}
	j.pipeline.CommitDraft()
	j.saveError = ""
	j.topicInput.SetValue("")
	j.closeComposer()
}

func (j *journalView) syncEntries() {
	entries := j.domain.JournalEntries()
	if len(entries) == 0 {
		j.vp.SetContent(subtitleStyle.Render("No entries yet. Press n to write one."))
		return
	}
	blocks := make([]string, 0, len(entries))
	for _, e := range entries {
		blocks = append(blocks, renderEntry(e, j.width))
	}
	j.vp.SetContent(strings.Join(blocks, "\n\n"))
}

func renderEntry(e model.JournalEntry, width int) string {
	header := titleStyle.Render(e.Title) + "  " +
		subtitleStyle.Render(fmt.Sprintf("week %d · %s", e.Week, e.Date.Format("Jan 2, 2006")))
	meta := moodStyle.Render(e.Mood)
	for _, tag := range e.Tags {
		meta += "  " + tagStyle.Render("#"+tag)
	}
	body := previewText(e.Content, entryPreviewLimit)
	if width > 4 {
		body = truncate(body, width-2)
	}
	return header + "\n" + meta + "\n" + body
}

func (j *journalView) view() string {
	return j.renderTop() + "\n" + j.vp.View()
}

func (j *journalView) renderTop() string {
	if !j.composing {
		return helpStyle.Render("n new entry  tab switch view  q quit")
	}
	switch j.pipeline.Step() {
	case assistant.StepComposing:
		return j.renderComposing()
	case assistant.StepInterviewing:
		return j.renderInterviewing()
	case assistant.StepReviewing:
		return j.renderReviewing()
	}
	return ""
}

func (j *journalView) renderComposing() string {
	lines := []string{
		titleStyle.Render("New entry"),
		subtitleStyle.Render("What is on your mind?"),
		j.topicInput.View(),
	}
	lines = append(lines, j.renderStatus("enter continue  esc cancel")...)
	return panelStyle.Render(strings.Join(lines, "\n"))
}

func (j *journalView) renderInterviewing() string {
	lines := []string{titleStyle.Render("A few questions")}
	questions := j.pipeline.Questions()
	for i, question := range questions {
		lines = append(lines, subtitleStyle.Render(question))
		if i < len(j.answerInputs) {
			lines = append(lines, j.answerInputs[i].View())
		}
	}
	lines = append(lines, j.renderStatus("enter next/create  tab cycle  esc cancel")...)
	return panelStyle.Render(strings.Join(lines, "\n"))
}

func (j *journalView) renderReviewing() string {
	lines := []string{titleStyle.Render("Review")}
	if draft, ok := j.pipeline.Draft(); ok {
		lines = append(lines, cardValueStyle.Render(draft.Title))
		meta := moodStyle.Render(draft.Mood)
		for _, tag := range draft.Tags {
			meta += "  " + tagStyle.Render("#"+tag)
		}
		lines = append(lines, meta, draft.Content)
	}
	if j.saveError != "" {
		lines = append(lines, errorStyle.Render(j.saveError))
	}
	lines = append(lines, j.renderStatus("enter save  e edit answers  esc discard")...)
	return panelStyle.Render(strings.Join(lines, "\n"))
}

func (j *journalView) renderStatus(help string) []string {
	var lines []string
	if j.pipeline.Loading() {
		lines = append(lines, loadingStyle.Render("Thinking..."))
	}
	if msg := j.pipeline.ErrorMessage(); msg != "" {
		lines = append(lines, errorStyle.Render(msg))
	}
	lines = append(lines, helpStyle.Render(help))
	return lines
}
