package errorvalues

import "errors"

var (
	ErrTaskNotFound    = errors.New("task doesn't exist")
	ErrListNotFound    = errors.New("task list doesn't exist")
	ErrHabitNotFound   = errors.New("habit doesn't exist")
	ErrSectionNotFound = errors.New("section doesn't exist")
	ErrSectionExists   = errors.New("section with such name already exists")

	ErrValidation         = errors.New("validation error")
	ErrInvalidStatus      = errors.New("check-in status is not allowed")
	ErrCustomDateRequired = errors.New("custom due date preset requires a date")
	ErrEndBeforeStart     = errors.New("habit end date is before its start date")
	ErrSnapshotCorrupted  = errors.New("persisted snapshot can't be decoded")
	ErrInvalidToken       = errors.New("invalid token")
)
