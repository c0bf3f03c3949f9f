// Package stats derives display values from a habit's check-in history.
// Every function is a pure projection over (habit, now): histories are
// bounded by days since creation, so recomputing on each call is cheaper
// than keeping caches right.
package stats

import (
	"math"
	"sort"
	"time"

	"github.com/limbo/tickdone/pkg/dateutil"
	"github.com/limbo/tickdone/pkg/entity"
)

// Streak counts the unbroken run of consecutive calendar days with
// completed check-ins ending today or yesterday relative to now. A most
// recent completion older than yesterday means the streak is broken.
func Streak(habit *entity.Habit, now time.Time) int {
	completed := completedDays(habit)
	if len(completed) == 0 {
		return 0
	}
	// Most recent first.
	sort.Slice(completed, func(i, j int) bool {
		return completed[j].Before(completed[i])
	})
	if dateutil.DaysBetween(completed[0], now) > 1 {
		return 0
	}
	streak := 1
	for i := 0; i < len(completed)-1; i++ {
		if dateutil.DaysBetween(completed[i+1], completed[i]) == 1 {
			streak++
		} else {
			break
		}
	}
	return streak
}

// MonthlyRate is the percentage of days elapsed this month, up to and
// including now's day, that have a completed check-in. Result is rounded
// to an integer in [0, 100].
func MonthlyRate(habit *entity.Habit, now time.Time) int {
	daysPassed := now.Day()
	if daysPassed < 1 {
		return 0
	}
	start := dateutil.StartOfMonth(now)
	completed := 0
	for _, day := range completedDays(habit) {
		if !day.Before(start) && dateutil.DaysBetween(day, now) >= 0 {
			completed++
		}
	}
	return int(math.Round(float64(completed) / float64(daysPassed) * 100))
}

// MonthlyCheckIns counts completed check-ins inside now's month.
func MonthlyCheckIns(habit *entity.Habit, now time.Time) int {
	start := dateutil.StartOfMonth(now)
	end := dateutil.EndOfMonth(now)
	count := 0
	for _, day := range completedDays(habit) {
		if !day.Before(start) && !day.After(end) {
			count++
		}
	}
	return count
}

// TotalCheckIns counts completed check-ins over the habit's whole history.
func TotalCheckIns(habit *entity.Habit) int {
	total := 0
	for _, checkIn := range habit.CheckIns {
		if checkIn.Status == entity.StatusCompleted {
			total++
		}
	}
	return total
}

// Summarize bundles all projections into one stats record.
func Summarize(habit *entity.Habit, now time.Time) *entity.HabitStats {
	return &entity.HabitStats{
		HabitID:         habit.ID,
		Streak:          Streak(habit, now),
		MonthlyRate:     MonthlyRate(habit, now),
		MonthlyCheckIns: MonthlyCheckIns(habit, now),
		TotalCheckIns:   TotalCheckIns(habit),
	}
}

// completedDays returns the day-truncated dates of completed check-ins,
// deduplicated so stale same-day records never double count.
func completedDays(habit *entity.Habit) []time.Time {
	days := make([]time.Time, 0, len(habit.CheckIns))
	for _, checkIn := range habit.CheckIns {
		if checkIn.Status != entity.StatusCompleted {
			continue
		}
		day := dateutil.StartOfDay(checkIn.Date)
		duplicate := false
		for _, seen := range days {
			if seen.Equal(day) {
				duplicate = true
				break
			}
		}
		if !duplicate {
			days = append(days, day)
		}
	}
	return days
}
