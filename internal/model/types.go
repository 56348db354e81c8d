// Package model defines shared data structures.
package model

import "time"

// Life-expectancy bounds in weeks, matching the settings slider.
const (
	MinLifeExpectancyWeeks     = 3000
	MaxLifeExpectancyWeeks     = 5200
	DefaultLifeExpectancyWeeks = 4000
)

// WeeksInYear converts between week counts and approximate years.
const WeeksInYear = 52.1775

// UserData holds the settings that drive the week grid.
// A zero DateOfBirth means "not yet configured": the grid and all
// derived stats render as inert placeholders.
type UserData struct {
	DateOfBirth         time.Time `json:"date_of_birth"`
	LifeExpectancyWeeks int       `json:"life_expectancy_weeks"`
}

// HasDateOfBirth reports whether a date of birth has been set.
func (u UserData) HasDateOfBirth() bool {
	return !u.DateOfBirth.IsZero()
}

// Milestone marks a single decorated cell in the week grid.
type Milestone struct {
	ID    string `json:"id"`
	Week  int    `json:"week"`
	Label string `json:"label"`
	Color string `json:"color"`
}

// JournalEntry is one finished journal entry. Entries are append-only
// and attributed to the week the user was living in when they saved.
type JournalEntry struct {
	ID      string    `json:"id"`
	Week    int       `json:"week"`
	Date    time.Time `json:"date"`
	Title   string    `json:"title"`
	Content string    `json:"content"`
	Mood    string    `json:"mood,omitempty"`
	Tags    []string  `json:"tags,omitempty"`
}

// GeneratedEntry is the structured synthesis returned by the assistant
// before the user commits it as a JournalEntry.
type GeneratedEntry struct {
	Title   string   `json:"title"`
	Content string   `json:"content"`
	Mood    string   `json:"mood"`
	Tags    []string `json:"tags"`
}

// Achievement ids form a fixed catalog seeded at first run.
const (
	AchievementFirstSteps     = "first_steps"
	AchievementMilestoneMaker = "milestone_maker"
	AchievementStoryteller    = "storyteller"
)

// Achievement is one entry of the static catalog. Unlocked flips
// one-way false to true and never reverts.
type Achievement struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Points      int    `json:"points"`
	Unlocked    bool   `json:"unlocked"`
}

// CommunityGrid is one shared grid in the static community feed.
type CommunityGrid struct {
	Name       string `yaml:"name"`
	WeeksLived int    `yaml:"weeks_lived"`
	TotalWeeks int    `yaml:"total_weeks"`
	Likes      int    `yaml:"likes"`
	Comments   int    `yaml:"comments"`
}
