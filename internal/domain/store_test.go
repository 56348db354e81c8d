package domain

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/lifeweeks/lifeweeks/internal/model"
	"github.com/lifeweeks/lifeweeks/internal/store"
)

func openTestDomain(t *testing.T) *Store {
	t.Helper()
	dir := t.TempDir()
	persist, err := store.Open(filepath.Join(dir, "lifeweeks.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = persist.Close()
	})
	s, err := Open(context.Background(), persist)
	if err != nil {
		t.Fatalf("open domain store: %v", err)
	}
	return s
}

func achievementByID(t *testing.T, s *Store, id string) model.Achievement {
	t.Helper()
	for _, a := range s.Achievements() {
		if a.ID == id {
			return a
		}
	}
	t.Fatalf("achievement %q not found", id)
	return model.Achievement{}
}

func TestFirstRunSeedsDefaults(t *testing.T) {
	s := openTestDomain(t)
	if s.UserData().HasDateOfBirth() {
		t.Fatalf("expected no date of birth on first run")
	}
	if got := s.UserData().LifeExpectancyWeeks; got != model.DefaultLifeExpectancyWeeks {
		t.Fatalf("expected default expectancy, got %d", got)
	}
	if got := len(s.Achievements()); got != 3 {
		t.Fatalf("expected 3 achievements, got %d", got)
	}
	for _, a := range s.Achievements() {
		if a.Unlocked {
			t.Fatalf("achievement %s unlocked on first run", a.ID)
		}
	}
	if s.Points() != 0 {
		t.Fatalf("expected 0 points, got %d", s.Points())
	}
}

func TestSetUserDataUnlocksFirstSteps(t *testing.T) {
	s := openTestDomain(t)
	ctx := context.Background()
	dob := time.Date(1990, time.June, 15, 0, 0, 0, 0, time.UTC)

	if err := s.SetUserData(ctx, model.UserData{DateOfBirth: dob, LifeExpectancyWeeks: 4000}); err != nil {
		t.Fatalf("set user data: %v", err)
	}
	if !achievementByID(t, s, model.AchievementFirstSteps).Unlocked {
		t.Fatalf("first_steps should unlock when dob is set")
	}

	// Setting another concrete date leaves it unlocked.
	other := dob.AddDate(1, 0, 0)
	if err := s.SetUserData(ctx, model.UserData{DateOfBirth: other, LifeExpectancyWeeks: 4200}); err != nil {
		t.Fatalf("set user data again: %v", err)
	}
	if !achievementByID(t, s, model.AchievementFirstSteps).Unlocked {
		t.Fatalf("first_steps must not relock")
	}
}

func TestSetUserDataValidatesExpectancy(t *testing.T) {
	s := openTestDomain(t)
	ctx := context.Background()
	if err := s.SetUserData(ctx, model.UserData{LifeExpectancyWeeks: 100}); err == nil {
		t.Fatalf("expected error for out-of-range expectancy")
	}
	if err := s.SetUserData(ctx, model.UserData{LifeExpectancyWeeks: 9000}); err == nil {
		t.Fatalf("expected error for out-of-range expectancy")
	}
}

func TestAddMilestone(t *testing.T) {
	s := openTestDomain(t)
	ctx := context.Background()

	first, err := s.AddMilestone(ctx, model.Milestone{Week: 12, Label: "Graduated", Color: "#22d3ee"})
	if err != nil {
		t.Fatalf("add milestone: %v", err)
	}
	if first.ID == "" {
		t.Fatalf("milestone id not assigned")
	}
	if got := len(s.Milestones()); got != 1 {
		t.Fatalf("expected 1 milestone, got %d", got)
	}
	if !achievementByID(t, s, model.AchievementMilestoneMaker).Unlocked {
		t.Fatalf("milestone_maker should unlock")
	}

	second, err := s.AddMilestone(ctx, model.Milestone{Week: 40, Label: "Moved", Color: "#f472b6"})
	if err != nil {
		t.Fatalf("add second milestone: %v", err)
	}
	if second.ID == first.ID {
		t.Fatalf("milestone ids must be unique")
	}
	if got := len(s.Milestones()); got != 2 {
		t.Fatalf("expected 2 milestones, got %d", got)
	}
}

func TestAddMilestoneRejectsNonPositiveWeek(t *testing.T) {
	s := openTestDomain(t)
	if _, err := s.AddMilestone(context.Background(), model.Milestone{Week: 0, Label: "x"}); err == nil {
		t.Fatalf("expected error for week 0")
	}
}

func TestAddJournalEntryStampsWeek(t *testing.T) {
	s := openTestDomain(t)
	ctx := context.Background()
	dob := time.Date(1990, time.June, 15, 0, 0, 0, 0, time.UTC)
	now := dob.AddDate(0, 0, 70) // 10 weeks lived
	s.now = func() time.Time { return now }

	if err := s.SetUserData(ctx, model.UserData{DateOfBirth: dob, LifeExpectancyWeeks: 4000}); err != nil {
		t.Fatalf("set user data: %v", err)
	}
	entry, err := s.AddJournalEntry(ctx, model.JournalEntry{Title: "T", Content: "C", Mood: "Reflective", Tags: []string{"growth"}})
	if err != nil {
		t.Fatalf("add journal entry: %v", err)
	}
	if entry.Week != 11 {
		t.Fatalf("expected week 11 (weeks lived + 1), got %d", entry.Week)
	}
	if entry.ID == "" {
		t.Fatalf("entry id not assigned")
	}
	if !entry.Date.Equal(now) {
		t.Fatalf("entry date not stamped: %v", entry.Date)
	}
	if !achievementByID(t, s, model.AchievementStoryteller).Unlocked {
		t.Fatalf("storyteller should unlock")
	}
}

func TestJournalEntriesSortedNewestFirst(t *testing.T) {
	s := openTestDomain(t)
	ctx := context.Background()
	base := time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		stamp := base.AddDate(0, 0, i)
		s.now = func() time.Time { return stamp }
		if _, err := s.AddJournalEntry(ctx, model.JournalEntry{Title: stamp.Format("Jan 2")}); err != nil {
			t.Fatalf("add entry: %v", err)
		}
	}
	entries := s.JournalEntries()
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
	for i := 1; i < len(entries); i++ {
		if entries[i].Date.After(entries[i-1].Date) {
			t.Fatalf("entries not sorted newest-first: %v before %v", entries[i-1].Date, entries[i].Date)
		}
	}
}

func TestPointsTotal(t *testing.T) {
	s := openTestDomain(t)
	ctx := context.Background()
	dob := time.Date(1990, time.June, 15, 0, 0, 0, 0, time.UTC)

	// Unlock in an arbitrary order; total must match regardless.
	if _, err := s.AddJournalEntry(ctx, model.JournalEntry{Title: "first"}); err != nil {
		t.Fatalf("add entry: %v", err)
	}
	if err := s.SetUserData(ctx, model.UserData{DateOfBirth: dob, LifeExpectancyWeeks: 4000}); err != nil {
		t.Fatalf("set user data: %v", err)
	}
	if _, err := s.AddMilestone(ctx, model.Milestone{Week: 1, Label: "born", Color: "#fff"}); err != nil {
		t.Fatalf("add milestone: %v", err)
	}
	want := 0
	for _, a := range s.Achievements() {
		if a.Unlocked {
			want += a.Points
		}
	}
	if want != 55 {
		t.Fatalf("expected all three achievements unlocked (55 pts), got %d", want)
	}
	if s.Points() != want {
		t.Fatalf("Points() = %d, want %d", s.Points(), want)
	}
}

// Reset clears user settings only. Milestones, journal entries, and
// achievements survive a reset; this asymmetry is deliberate.
func TestResetClearsOnlyUserData(t *testing.T) {
	s := openTestDomain(t)
	ctx := context.Background()
	dob := time.Date(1990, time.June, 15, 0, 0, 0, 0, time.UTC)
	if err := s.SetUserData(ctx, model.UserData{DateOfBirth: dob, LifeExpectancyWeeks: 4000}); err != nil {
		t.Fatalf("set user data: %v", err)
	}
	if _, err := s.AddMilestone(ctx, model.Milestone{Week: 3, Label: "ms", Color: "#fff"}); err != nil {
		t.Fatalf("add milestone: %v", err)
	}
	if _, err := s.AddJournalEntry(ctx, model.JournalEntry{Title: "entry"}); err != nil {
		t.Fatalf("add entry: %v", err)
	}

	if err := s.ResetUserData(ctx); err != nil {
		t.Fatalf("reset: %v", err)
	}
	if s.UserData().HasDateOfBirth() {
		t.Fatalf("reset should clear date of birth")
	}
	if got := len(s.Milestones()); got != 1 {
		t.Fatalf("reset must not touch milestones, got %d", got)
	}
	if got := len(s.JournalEntries()); got != 1 {
		t.Fatalf("reset must not touch journal entries, got %d", got)
	}
	if !achievementByID(t, s, model.AchievementFirstSteps).Unlocked {
		t.Fatalf("achievements must not relock on reset")
	}
}

func TestReopenRestoresState(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "lifeweeks.db")
	ctx := context.Background()
	dob := time.Date(1990, time.June, 15, 0, 0, 0, 0, time.UTC)

	persist, err := store.Open(path)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	s, err := Open(ctx, persist)
	if err != nil {
		t.Fatalf("open domain: %v", err)
	}
	if err := s.SetUserData(ctx, model.UserData{DateOfBirth: dob, LifeExpectancyWeeks: 4100}); err != nil {
		t.Fatalf("set user data: %v", err)
	}
	if _, err := s.AddMilestone(ctx, model.Milestone{Week: 7, Label: "ms", Color: "#fff"}); err != nil {
		t.Fatalf("add milestone: %v", err)
	}
	if err := persist.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	persist, err = store.Open(path)
	if err != nil {
		t.Fatalf("reopen store: %v", err)
	}
	t.Cleanup(func() {
		_ = persist.Close()
	})
	s, err = Open(ctx, persist)
	if err != nil {
		t.Fatalf("reopen domain: %v", err)
	}
	if !s.UserData().DateOfBirth.Equal(dob) {
		t.Fatalf("date of birth not restored: %v", s.UserData().DateOfBirth)
	}
	if s.UserData().LifeExpectancyWeeks != 4100 {
		t.Fatalf("expectancy not restored: %d", s.UserData().LifeExpectancyWeeks)
	}
	if got := len(s.Milestones()); got != 1 {
		t.Fatalf("milestones not restored, got %d", got)
	}
	if !achievementByID(t, s, model.AchievementFirstSteps).Unlocked {
		t.Fatalf("achievement unlock not restored")
	}
}

// flakyPersister fails Put for one key so a mutation can succeed while
// the follow-up achievements write does not.
type flakyPersister struct {
	persister
	failKey string
}

func (p *flakyPersister) Put(ctx context.Context, key string, v any) error {
	if key == p.failKey {
		return errors.New("disk full")
	}
	return p.persister.Put(ctx, key, v)
}

func TestAddMilestoneReturnsEntityWhenAchievementWriteFails(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	persist, err := store.Open(filepath.Join(dir, "lifeweeks.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = persist.Close()
	})
	s, err := Open(ctx, &flakyPersister{persister: persist, failKey: keyAchievements})
	if err != nil {
		t.Fatalf("open domain store: %v", err)
	}

	m, err := s.AddMilestone(ctx, model.Milestone{Week: 5, Label: "moved", Color: "#C084FC"})
	if err == nil {
		t.Fatalf("expected achievements write failure")
	}
	if m.ID == "" {
		t.Fatalf("expected the durably added milestone back, got zero value")
	}
	if got := len(s.Milestones()); got != 1 {
		t.Fatalf("milestone dropped from memory, got %d", got)
	}
	if achievementByID(t, s, model.AchievementMilestoneMaker).Unlocked {
		t.Fatalf("achievement must not report unlocked when its write failed")
	}
}

func TestAddJournalEntryReturnsEntityWhenAchievementWriteFails(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	persist, err := store.Open(filepath.Join(dir, "lifeweeks.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = persist.Close()
	})
	s, err := Open(ctx, &flakyPersister{persister: persist, failKey: keyAchievements})
	if err != nil {
		t.Fatalf("open domain store: %v", err)
	}

	e, err := s.AddJournalEntry(ctx, model.JournalEntry{Title: "walk", Content: "long walk"})
	if err == nil {
		t.Fatalf("expected achievements write failure")
	}
	if e.ID == "" {
		t.Fatalf("expected the durably added entry back, got zero value")
	}
	if got := len(s.JournalEntries()); got != 1 {
		t.Fatalf("entry dropped from memory, got %d", got)
	}
}
