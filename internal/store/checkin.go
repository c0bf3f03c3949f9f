package store

import (
	"time"

	"github.com/limbo/tickdone/pkg/dateutil"
	"github.com/limbo/tickdone/pkg/entity"
)

// NextStatus advances the per-day check-in cycle:
// none -> completed -> failed -> none.
func NextStatus(current entity.CheckInStatus) entity.CheckInStatus {
	switch current {
	case entity.StatusNone:
		return entity.StatusCompleted
	case entity.StatusCompleted:
		return entity.StatusFailed
	default:
		return entity.StatusNone
	}
}

// lookupCheckIn finds the stored record for the given calendar day.
// Returns -1 and StatusNone when no record exists.
func lookupCheckIn(habit *entity.Habit, date time.Time) (int, entity.CheckInStatus) {
	for i, checkIn := range habit.CheckIns {
		if dateutil.SameDay(checkIn.Date, date) {
			return i, checkIn.Status
		}
	}
	return -1, entity.StatusNone
}

// applyCheckIn moves the (habit, day) pair into the target status.
// StatusNone removes any record for that day, a storable status either
// overwrites the existing record in place or appends a new one. Notes
// survive an overwrite unless the new application brings its own.
// Re-applying the same target status is a no-op, so the operation is
// idempotent.
func applyCheckIn(habit *entity.Habit, date time.Time, status entity.CheckInStatus, notes string) {
	idx, _ := lookupCheckIn(habit, date)
	switch {
	case status == entity.StatusNone:
		if idx >= 0 {
			habit.CheckIns = append(habit.CheckIns[:idx], habit.CheckIns[idx+1:]...)
		}
	case idx >= 0:
		habit.CheckIns[idx].Date = date
		habit.CheckIns[idx].Status = status
		if notes != "" {
			habit.CheckIns[idx].Notes = notes
		}
	default:
		habit.CheckIns = append(habit.CheckIns, entity.HabitCheckIn{
			Date:   date,
			Status: status,
			Notes:  notes,
		})
	}
}
