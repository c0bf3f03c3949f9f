package stats_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/limbo/tickdone/internal/stats"
	"github.com/limbo/tickdone/pkg/entity"
)

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}

func habitWithCheckIns(checkIns ...entity.HabitCheckIn) *entity.Habit {
	return &entity.Habit{
		Name:      "test_habit",
		Frequency: entity.FrequencyDaily,
		Goal:      entity.GoalAchieveItAll,
		StartDate: day(2025, time.January, 1),
		CheckIns:  checkIns,
	}
}

func completedOn(d time.Time) entity.HabitCheckIn {
	return entity.HabitCheckIn{Date: d, Status: entity.StatusCompleted}
}

func TestStreak(t *testing.T) {
	t.Parallel()
	now := time.Date(2025, time.April, 15, 14, 30, 0, 0, time.UTC)
	testCases := []struct {
		Desc     string
		CheckIns []entity.HabitCheckIn
		Expected int
	}{
		{
			Desc:     "no check-ins",
			CheckIns: nil,
			Expected: 0,
		},
		{
			Desc: "three consecutive days ending today",
			CheckIns: []entity.HabitCheckIn{
				completedOn(day(2025, time.April, 13)),
				completedOn(day(2025, time.April, 14)),
				completedOn(day(2025, time.April, 15)),
			},
			Expected: 3,
		},
		{
			Desc: "gap breaks the run",
			CheckIns: []entity.HabitCheckIn{
				completedOn(day(2025, time.April, 13)),
				completedOn(day(2025, time.April, 15)),
			},
			Expected: 1,
		},
		{
			Desc: "most recent completion older than yesterday",
			CheckIns: []entity.HabitCheckIn{
				completedOn(day(2025, time.April, 12)),
				completedOn(day(2025, time.April, 13)),
			},
			Expected: 0,
		},
		{
			Desc: "run ending yesterday still counts",
			CheckIns: []entity.HabitCheckIn{
				completedOn(day(2025, time.April, 12)),
				completedOn(day(2025, time.April, 13)),
				completedOn(day(2025, time.April, 14)),
			},
			Expected: 3,
		},
		{
			Desc: "failed check-ins don't extend the run",
			CheckIns: []entity.HabitCheckIn{
				completedOn(day(2025, time.April, 13)),
				{Date: day(2025, time.April, 14), Status: entity.StatusFailed},
				completedOn(day(2025, time.April, 15)),
			},
			Expected: 1,
		},
		{
			Desc: "stale same-day duplicates counted once",
			CheckIns: []entity.HabitCheckIn{
				completedOn(day(2025, time.April, 14)),
				completedOn(time.Date(2025, time.April, 14, 22, 0, 0, 0, time.UTC)),
				completedOn(day(2025, time.April, 15)),
			},
			Expected: 2,
		},
		{
			Desc: "unsorted history is sorted before walking",
			CheckIns: []entity.HabitCheckIn{
				completedOn(day(2025, time.April, 15)),
				completedOn(day(2025, time.April, 13)),
				completedOn(day(2025, time.April, 14)),
			},
			Expected: 3,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.Desc, func(t *testing.T) {
			habit := habitWithCheckIns(tc.CheckIns...)
			assert.Equal(t, tc.Expected, stats.Streak(habit, now))
		})
	}
}

func TestMonthlyRate(t *testing.T) {
	t.Parallel()
	testCases := []struct {
		Desc     string
		Now      time.Time
		CheckIns []entity.HabitCheckIn
		Expected int
	}{
		{
			Desc:     "first of month with one completion is 100",
			Now:      time.Date(2025, time.May, 1, 9, 0, 0, 0, time.UTC),
			CheckIns: []entity.HabitCheckIn{completedOn(day(2025, time.May, 1))},
			Expected: 100,
		},
		{
			Desc:     "no check-ins is 0",
			Now:      time.Date(2025, time.May, 1, 9, 0, 0, 0, time.UTC),
			CheckIns: nil,
			Expected: 0,
		},
		{
			Desc: "half the elapsed days, rounded",
			Now:  time.Date(2025, time.May, 4, 9, 0, 0, 0, time.UTC),
			CheckIns: []entity.HabitCheckIn{
				completedOn(day(2025, time.May, 1)),
				completedOn(day(2025, time.May, 3)),
			},
			Expected: 50,
		},
		{
			Desc: "previous month's completions don't count",
			Now:  time.Date(2025, time.May, 2, 9, 0, 0, 0, time.UTC),
			CheckIns: []entity.HabitCheckIn{
				completedOn(day(2025, time.April, 30)),
				completedOn(day(2025, time.May, 1)),
			},
			Expected: 50,
		},
		{
			Desc: "failed check-ins don't count",
			Now:  time.Date(2025, time.May, 2, 9, 0, 0, 0, time.UTC),
			CheckIns: []entity.HabitCheckIn{
				{Date: day(2025, time.May, 1), Status: entity.StatusFailed},
				completedOn(day(2025, time.May, 2)),
			},
			Expected: 50,
		},
		{
			Desc: "one third rounds to 33",
			Now:  time.Date(2025, time.May, 3, 9, 0, 0, 0, time.UTC),
			CheckIns: []entity.HabitCheckIn{
				completedOn(day(2025, time.May, 1)),
			},
			Expected: 33,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.Desc, func(t *testing.T) {
			habit := habitWithCheckIns(tc.CheckIns...)
			assert.Equal(t, tc.Expected, stats.MonthlyRate(habit, tc.Now))
		})
	}
}

func TestMonthlyCheckIns(t *testing.T) {
	t.Parallel()
	now := time.Date(2025, time.May, 10, 12, 0, 0, 0, time.UTC)
	habit := habitWithCheckIns(
		completedOn(day(2025, time.April, 30)),
		completedOn(day(2025, time.May, 1)),
		completedOn(day(2025, time.May, 31)),
		entity.HabitCheckIn{Date: day(2025, time.May, 2), Status: entity.StatusFailed},
		completedOn(day(2025, time.June, 1)),
	)
	assert.Equal(t, 2, stats.MonthlyCheckIns(habit, now))
}

func TestTotalCheckIns(t *testing.T) {
	t.Parallel()
	habit := habitWithCheckIns(
		completedOn(day(2025, time.March, 1)),
		completedOn(day(2025, time.April, 20)),
		entity.HabitCheckIn{Date: day(2025, time.April, 21), Status: entity.StatusFailed},
	)
	assert.Equal(t, 2, stats.TotalCheckIns(habit))
	assert.Equal(t, 0, stats.TotalCheckIns(habitWithCheckIns()))
}

func TestSummarize(t *testing.T) {
	t.Parallel()
	now := time.Date(2025, time.May, 2, 8, 0, 0, 0, time.UTC)
	habit := habitWithCheckIns(
		completedOn(day(2025, time.May, 1)),
		completedOn(day(2025, time.May, 2)),
	)
	summary := stats.Summarize(habit, now)
	assert.Equal(t, 2, summary.Streak)
	assert.Equal(t, 100, summary.MonthlyRate)
	assert.Equal(t, 2, summary.MonthlyCheckIns)
	assert.Equal(t, 2, summary.TotalCheckIns)
}
