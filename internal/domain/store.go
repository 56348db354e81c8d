// Package domain owns the in-memory entity collections and their
// durable mirror.
package domain

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/lifeweeks/lifeweeks/internal/model"
	"github.com/lifeweeks/lifeweeks/internal/store"
	"github.com/lifeweeks/lifeweeks/internal/timemath"
)

// Collection keys in the durable store.
const (
	keyUserData     = "user_data"
	keyMilestones   = "milestones"
	keyJournal      = "journal_entries"
	keyAchievements = "achievements"
)

// state is the snapshot achievement predicates are evaluated against.
type state struct {
	user       model.UserData
	milestones []model.Milestone
	journal    []model.JournalEntry
}

// achievementRules maps each achievement id to its unlock predicate.
// Rules are evaluated centrally after every mutation; adding an
// achievement means adding a catalog entry and one row here.
var achievementRules = map[string]func(state) bool{
	model.AchievementFirstSteps:     func(s state) bool { return s.user.HasDateOfBirth() },
	model.AchievementMilestoneMaker: func(s state) bool { return len(s.milestones) > 0 },
	model.AchievementStoryteller:    func(s state) bool { return len(s.journal) > 0 },
}

func defaultAchievements() []model.Achievement {
	return []model.Achievement{
		{ID: model.AchievementFirstSteps, Name: "First Steps", Description: "Set your date of birth.", Points: 10},
		{ID: model.AchievementMilestoneMaker, Name: "Milestone Maker", Description: "Create your first milestone.", Points: 20},
		{ID: model.AchievementStoryteller, Name: "Storyteller", Description: "Write your first journal entry.", Points: 25},
	}
}

// persister is the durable key/value surface the collections mirror to.
type persister interface {
	Get(ctx context.Context, key string, out any) error
	Put(ctx context.Context, key string, v any) error
}

// Store owns all entity collections for the session. Mutations persist
// their collection before returning; on a write failure the in-memory
// state is rolled back and the error returned.
type Store struct {
	persist persister

	user         model.UserData
	milestones   []model.Milestone
	journal      []model.JournalEntry
	achievements []model.Achievement

	now func() time.Time
}

// Open loads all collections from the durable store, seeding defaults
// on first run.
func Open(ctx context.Context, persist persister) (*Store, error) {
	s := &Store{
		persist: persist,
		now:     time.Now,
	}
	if err := loadOrDefault(ctx, persist, keyUserData, &s.user, model.UserData{LifeExpectancyWeeks: model.DefaultLifeExpectancyWeeks}); err != nil {
		return nil, err
	}
	if err := loadOrDefault(ctx, persist, keyMilestones, &s.milestones, nil); err != nil {
		return nil, err
	}
	if err := loadOrDefault(ctx, persist, keyJournal, &s.journal, nil); err != nil {
		return nil, err
	}
	if err := loadOrDefault(ctx, persist, keyAchievements, &s.achievements, defaultAchievements()); err != nil {
		return nil, err
	}
	return s, nil
}

func loadOrDefault[T any](ctx context.Context, persist persister, key string, target *T, fallback T) error {
	err := persist.Get(ctx, key, target)
	if err == nil {
		return nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("failed to load %s: %w", key, err)
	}
	*target = fallback
	return nil
}

// UserData returns the current user settings.
func (s *Store) UserData() model.UserData {
	return s.user
}

// Milestones returns the milestone collection.
func (s *Store) Milestones() []model.Milestone {
	out := make([]model.Milestone, len(s.milestones))
	copy(out, s.milestones)
	return out
}

// JournalEntries returns journal entries sorted newest-first.
func (s *Store) JournalEntries() []model.JournalEntry {
	out := make([]model.JournalEntry, len(s.journal))
	copy(out, s.journal)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.After(out[j].Date)
	})
	return out
}

// Achievements returns the achievement catalog.
func (s *Store) Achievements() []model.Achievement {
	out := make([]model.Achievement, len(s.achievements))
	copy(out, s.achievements)
	return out
}

// Points sums the points of unlocked achievements.
func (s *Store) Points() int {
	total := 0
	for _, a := range s.achievements {
		if a.Unlocked {
			total += a.Points
		}
	}
	return total
}

// WeeksLived computes full weeks between the configured date of birth
// and now. Zero when no date of birth is set.
func (s *Store) WeeksLived() int {
	return timemath.WeeksLived(s.user.DateOfBirth, s.now())
}

// DaysUntilBirthday computes days until the next birthday.
func (s *Store) DaysUntilBirthday() int {
	return timemath.DaysUntilNextBirthday(s.user.DateOfBirth, s.now())
}

// SetUserData replaces the user settings wholesale.
func (s *Store) SetUserData(ctx context.Context, data model.UserData) error {
	if data.LifeExpectancyWeeks < model.MinLifeExpectancyWeeks || data.LifeExpectancyWeeks > model.MaxLifeExpectancyWeeks {
		return fmt.Errorf("life expectancy must be between %d and %d weeks", model.MinLifeExpectancyWeeks, model.MaxLifeExpectancyWeeks)
	}
	prev := s.user
	s.user = data
	if err := s.persist.Put(ctx, keyUserData, s.user); err != nil {
		s.user = prev
		return err
	}
	return s.applyAchievementRules(ctx)
}

// ResetUserData clears the user settings back to defaults. Milestones,
// journal entries, and achievements are intentionally left untouched.
func (s *Store) ResetUserData(ctx context.Context) error {
	return s.SetUserData(ctx, model.UserData{LifeExpectancyWeeks: model.DefaultLifeExpectancyWeeks})
}

// AddMilestone assigns a fresh id and appends the milestone.
func (s *Store) AddMilestone(ctx context.Context, m model.Milestone) (model.Milestone, error) {
	if m.Week <= 0 {
		return model.Milestone{}, fmt.Errorf("milestone week must be positive")
	}
	m.ID = uuid.NewString()
	s.milestones = append(s.milestones, m)
	if err := s.persist.Put(ctx, keyMilestones, s.milestones); err != nil {
		s.milestones = s.milestones[:len(s.milestones)-1]
		return model.Milestone{}, err
	}
	// The milestone is durable at this point; an achievements write
	// failure returns the created entity alongside the error.
	if err := s.applyAchievementRules(ctx); err != nil {
		return m, err
	}
	return m, nil
}

// AddJournalEntry assigns a fresh id, stamps the entry with the current
// time and week, and appends it.
func (s *Store) AddJournalEntry(ctx context.Context, e model.JournalEntry) (model.JournalEntry, error) {
	e.ID = uuid.NewString()
	e.Date = s.now()
	e.Week = timemath.WeeksLived(s.user.DateOfBirth, e.Date) + 1
	s.journal = append(s.journal, e)
	if err := s.persist.Put(ctx, keyJournal, s.journal); err != nil {
		s.journal = s.journal[:len(s.journal)-1]
		return model.JournalEntry{}, err
	}
	if err := s.applyAchievementRules(ctx); err != nil {
		return e, err
	}
	return e, nil
}

// applyAchievementRules evaluates the rule table against the current
// state and persists the catalog when any achievement newly unlocks.
// Unlocks are one-way: a predicate turning false later never relocks.
func (s *Store) applyAchievementRules(ctx context.Context) error {
	snap := state{user: s.user, milestones: s.milestones, journal: s.journal}
	var flipped []int
	for i, a := range s.achievements {
		if a.Unlocked {
			continue
		}
		rule, ok := achievementRules[a.ID]
		if !ok {
			continue
		}
		if rule(snap) {
			s.achievements[i].Unlocked = true
			flipped = append(flipped, i)
		}
	}
	if len(flipped) == 0 {
		return nil
	}
	if err := s.persist.Put(ctx, keyAchievements, s.achievements); err != nil {
		for _, i := range flipped {
			s.achievements[i].Unlocked = false
		}
		return fmt.Errorf("failed to persist achievements: %w", err)
	}
	return nil
}
