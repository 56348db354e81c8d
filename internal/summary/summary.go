// Package summary renders a plain-text life summary for non-TUI use.
package summary

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"golang.org/x/term"

	"github.com/lifeweeks/lifeweeks/internal/model"
	"github.com/lifeweeks/lifeweeks/internal/timemath"
)

const (
	terminalWidthBackup = 80
	minBarWidth         = 10
	placeholder         = "---"
)

// Stats holds the derived numbers shown in the summary and on the grid
// view's stat cards.
type Stats struct {
	Configured      bool
	WeeksLived      int
	WeeksRemaining  int
	PercentComplete float64
	DaysToBirthday  int
}

// Build derives summary stats from the user settings. An unset date of
// birth yields an inert (unconfigured) summary.
func Build(user model.UserData, now time.Time) Stats {
	if !user.HasDateOfBirth() {
		return Stats{}
	}
	lived := timemath.WeeksLived(user.DateOfBirth, now)
	return Stats{
		Configured:      true,
		WeeksLived:      lived,
		WeeksRemaining:  user.LifeExpectancyWeeks - lived,
		PercentComplete: float64(lived) / float64(user.LifeExpectancyWeeks) * 100,
		DaysToBirthday:  timemath.DaysUntilNextBirthday(user.DateOfBirth, now),
	}
}

// ProgressBar renders lived/total as a fixed-width bar.
func ProgressBar(lived, total, width int) string {
	if width < minBarWidth {
		width = minBarWidth
	}
	if total <= 0 {
		return strings.Repeat("░", width)
	}
	filled := lived * width / total
	if filled < 0 {
		filled = 0
	}
	if filled > width {
		filled = width
	}
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

// Render writes the summary to w, sized to the terminal.
func Render(w io.Writer, user model.UserData, stats Stats, points, unlocked, total int) error {
	width := terminalWidth()
	lines := []string{"Your weeks"}
	if !stats.Configured {
		lines = append(lines,
			fmt.Sprintf("Lived: %s  Remaining: %s  Complete: %s  Birthday: %s", placeholder, placeholder, placeholder, placeholder),
			"Set your date of birth in the TUI to activate the grid.")
	} else {
		years := float64(user.LifeExpectancyWeeks) / model.WeeksInYear
		lines = append(lines,
			fmt.Sprintf("Lived: %d weeks  Remaining: %d weeks  Complete: %.1f%%  Birthday: %d days",
				stats.WeeksLived, stats.WeeksRemaining, stats.PercentComplete, stats.DaysToBirthday),
			fmt.Sprintf("Life expectancy: %d weeks (~%.1f years)", user.LifeExpectancyWeeks, years),
			ProgressBar(stats.WeeksLived, user.LifeExpectancyWeeks, width-2),
		)
	}
	lines = append(lines, fmt.Sprintf("Achievements: %d/%d unlocked (%d points)", unlocked, total, points))
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return fmt.Errorf("failed to write summary: %w", err)
		}
	}
	return nil
}

func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return terminalWidthBackup
	}
	return width
}
