package tui

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/lifeweeks/lifeweeks/internal/assistant"
	"github.com/lifeweeks/lifeweeks/internal/domain"
	"github.com/lifeweeks/lifeweeks/internal/logging"
	"github.com/lifeweeks/lifeweeks/internal/model"
	"github.com/lifeweeks/lifeweeks/internal/store"
)

type stubService struct {
	questions []string
	entry     model.GeneratedEntry
}

func (s *stubService) TalkingPoints(_ context.Context, _ string) ([]string, error) {
	return s.questions, nil
}

func (s *stubService) Synthesize(_ context.Context, _ string, _ []assistant.QA) (model.GeneratedEntry, error) {
	return s.entry, nil
}

func newTestJournal(t *testing.T) (*journalView, *assistant.Pipeline, *store.Store) {
	t.Helper()
	dir := t.TempDir()
	persist, err := store.Open(filepath.Join(dir, "lifeweeks.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = persist.Close()
	})
	dom, err := domain.Open(context.Background(), persist)
	if err != nil {
		t.Fatalf("open domain store: %v", err)
	}
	log, err := logging.New(dir)
	if err != nil {
		t.Fatalf("open log: %v", err)
	}
	t.Cleanup(func() {
		_ = log.Close()
	})
	pipe := assistant.NewPipeline(&stubService{
		questions: []string{"q1", "q2", "q3"},
		entry:     model.GeneratedEntry{Title: "A walk", Content: "It was long.", Mood: "calm"},
	})
	j := newJournalView(dom, pipe, log)
	j.setSize(80, 24)
	return &j, pipe, persist
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

var (
	keyEnter = tea.KeyMsg{Type: tea.KeyEnter}
	keyEsc   = tea.KeyMsg{Type: tea.KeyEsc}
	keyTab   = tea.KeyMsg{Type: tea.KeyTab}
)

// driveToInterviewing walks the composer to the question step.
func driveToInterviewing(t *testing.T, j *journalView, pipe *assistant.Pipeline) {
	t.Helper()
	j.update(keyRunes("n"))
	j.update(keyRunes("walk"))
	j.update(keyEnter)
	if !pipe.Loading() {
		t.Fatalf("expected talking-points call in flight")
	}
	j.handleQuestions(questionsMsg{questions: []string{"q1", "q2", "q3"}})
	if pipe.Step() != assistant.StepInterviewing {
		t.Fatalf("expected interviewing step, got %v", pipe.Step())
	}
}

func answerAll(j *journalView) {
	for range j.answerInputs {
		j.update(keyRunes("yes"))
		j.update(keyEnter)
	}
}

func TestEscDuringSynthesisKeepsComposerOpen(t *testing.T) {
	j, pipe, _ := newTestJournal(t)
	driveToInterviewing(t, j, pipe)
	answerAll(j)
	if !pipe.Loading() {
		t.Fatalf("expected synthesis call in flight")
	}

	j.update(keyEsc)
	if !j.composing {
		t.Fatalf("composer must stay open while a call is in flight")
	}

	j.handleSynthesis(synthesisMsg{err: errors.New("boom")})
	if pipe.Step() != assistant.StepInterviewing {
		t.Fatalf("expected to stay interviewing after failure, got %v", pipe.Step())
	}
	// Typing and field cycling must still work against live inputs.
	j.update(keyRunes("x"))
	j.update(keyTab)
	if got := len(j.answerInputs); got != 3 {
		t.Fatalf("answer inputs lost, got %d", got)
	}
}

func TestReopenMidInterviewRebuildsAnswerInputs(t *testing.T) {
	j, pipe, _ := newTestJournal(t)
	driveToInterviewing(t, j, pipe)
	j.update(keyRunes("first answer"))

	// Simulate a stale view whose inputs are gone while the pipeline
	// still holds the interview.
	j.composing = false
	j.answerInputs = nil
	j.answerIndex = 2

	j.update(keyRunes("n"))
	if got := len(j.answerInputs); got != 3 {
		t.Fatalf("expected rebuilt answer inputs, got %d", got)
	}
	if j.answerInputs[0].Value() != "first answer" {
		t.Fatalf("answers not restored, got %q", j.answerInputs[0].Value())
	}
	j.update(keyRunes("x"))
	j.update(keyTab)
}

func TestSaveFailureKeepsDraft(t *testing.T) {
	j, pipe, persist := newTestJournal(t)
	driveToInterviewing(t, j, pipe)
	answerAll(j)
	j.handleSynthesis(synthesisMsg{entry: model.GeneratedEntry{Title: "A walk", Content: "It was long.", Mood: "calm"}})
	if pipe.Step() != assistant.StepReviewing {
		t.Fatalf("expected reviewing step, got %v", pipe.Step())
	}

	if err := persist.Close(); err != nil {
		t.Fatalf("close store: %v", err)
	}
	j.update(keyEnter)

	if pipe.Step() != assistant.StepReviewing {
		t.Fatalf("pipeline reset despite failed write, step %v", pipe.Step())
	}
	if _, ok := pipe.Draft(); !ok {
		t.Fatalf("draft discarded despite failed write")
	}
	if !j.composing {
		t.Fatalf("composer closed despite failed write")
	}
	if j.saveError == "" {
		t.Fatalf("expected a visible save error")
	}
	if got := len(j.domain.JournalEntries()); got != 0 {
		t.Fatalf("expected no entries after failed write, got %d", got)
	}
}

func TestSaveSuccessCommitsAndCloses(t *testing.T) {
	j, pipe, _ := newTestJournal(t)
	driveToInterviewing(t, j, pipe)
	answerAll(j)
	j.handleSynthesis(synthesisMsg{entry: model.GeneratedEntry{Title: "A walk", Content: "It was long.", Mood: "calm", Tags: []string{"outside"}}})

	j.update(keyEnter)

	if j.composing {
		t.Fatalf("composer should close after a saved entry")
	}
	if pipe.Step() != assistant.StepComposing {
		t.Fatalf("pipeline should reset after commit, got %v", pipe.Step())
	}
	if _, ok := pipe.Draft(); ok {
		t.Fatalf("draft should be cleared after commit")
	}
	entries := j.domain.JournalEntries()
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if entries[0].Title != "A walk" || entries[0].Mood != "calm" {
		t.Fatalf("unexpected entry: %+v", entries[0])
	}
}
