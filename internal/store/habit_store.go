package store

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	errorvalues "github.com/limbo/tickdone/internal/error_values"
	"github.com/limbo/tickdone/internal/gateway"
	"github.com/limbo/tickdone/internal/stats"
	"github.com/limbo/tickdone/pkg/entity"
)

type CreateHabitRequest struct {
	Name         string                `json:"name" validate:"required"`
	Section      uuid.UUID             `json:"section" validate:"required"`
	Frequency    entity.HabitFrequency `json:"frequency" validate:"required,oneof=daily weekly monthly custom"`
	SelectedDays []int                 `json:"selectedDays,omitempty" validate:"required_if=Frequency custom,dive,min=0,max=6"`
	Goal         entity.HabitGoal      `json:"goal" validate:"required,oneof=achieve-it-all achieve-some avoid-it-all"`
	StartDate    *time.Time            `json:"startDate,omitempty"`
	EndDate      *time.Time            `json:"endDate,omitempty"`
	ReminderTime string                `json:"reminderTime,omitempty" validate:"omitempty,clock_time"`
	AutoPopup    bool                  `json:"autoPopup"`
}

type HabitUpdate struct {
	Name         *string                `json:"name,omitempty"`
	Section      *uuid.UUID             `json:"section,omitempty"`
	Frequency    *entity.HabitFrequency `json:"frequency,omitempty"`
	SelectedDays *[]int                 `json:"selectedDays,omitempty"`
	Goal         *entity.HabitGoal      `json:"goal,omitempty"`
	StartDate    *time.Time             `json:"startDate,omitempty"`
	EndDate      *time.Time             `json:"endDate,omitempty"`
	ClearEndDate bool                   `json:"clearEndDate,omitempty"`
	ReminderTime *string                `json:"reminderTime,omitempty"`
	AutoPopup    *bool                  `json:"autoPopup,omitempty"`
	Archived     *bool                  `json:"archived,omitempty"`
}

type HabitFilter struct {
	Section  *uuid.UUID
	Archived bool
}

// HabitStore owns the in-memory habit and section collections. Same
// session model as TaskStore: synchronous mutation, best-effort mirror
// to the gateway after every change.
type HabitStore struct {
	mu          sync.Mutex
	gw          gateway.HabitGateway
	logger      *slog.Logger
	now         func() time.Time
	habits      []entity.Habit
	sections    []entity.Section
	selected    *entity.Habit
	lastSaveErr error
}

func NewHabitStore(gw gateway.HabitGateway, logger *slog.Logger) *HabitStore {
	if gw == nil {
		log.Fatal("on habit store provided nil gateway")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &HabitStore{
		gw:     gw,
		logger: logger,
		now:    time.Now,
	}
}

// Load rehydrates habits and sections, seeding the default sections when
// nothing has been persisted yet.
func (s *HabitStore) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap, err := s.gw.LoadHabits(ctx)
	if err != nil {
		s.sections = defaultSections()
		return errors.New("loading habit snapshot error: " + err.Error())
	}
	if snap == nil {
		s.sections = defaultSections()
		s.persistLocked(ctx)
		return nil
	}
	s.sections = snap.Sections
	s.habits = snap.Habits
	return nil
}

func (s *HabitStore) LastSaveErr() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSaveErr
}

func (s *HabitStore) AddHabit(ctx context.Context, req *CreateHabitRequest) (*entity.Habit, error) {
	if err := validateStruct(*req); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.findSectionLocked(req.Section) < 0 {
		return nil, errorvalues.ErrSectionNotFound
	}
	start := s.now()
	if req.StartDate != nil {
		start = *req.StartDate
	}
	if req.EndDate != nil && req.EndDate.Before(start) {
		return nil, errorvalues.ErrEndBeforeStart
	}
	habit := entity.Habit{
		ID:           uuid.New(),
		Name:         req.Name,
		Section:      req.Section,
		Frequency:    req.Frequency,
		SelectedDays: req.SelectedDays,
		Goal:         req.Goal,
		StartDate:    start,
		EndDate:      req.EndDate,
		CheckIns:     []entity.HabitCheckIn{},
		ReminderTime: req.ReminderTime,
		AutoPopup:    req.AutoPopup,
		CreatedAt:    s.now(),
	}
	s.habits = append(s.habits, habit)
	s.persistLocked(ctx)
	return &habit, nil
}

func (s *HabitStore) UpdateHabit(ctx context.Context, id uuid.UUID, upd *HabitUpdate) (*entity.Habit, error) {
	return s.mutateHabit(ctx, id, func(habit *entity.Habit) error {
		if upd.Section != nil {
			if s.findSectionLocked(*upd.Section) < 0 {
				return errorvalues.ErrSectionNotFound
			}
			habit.Section = *upd.Section
		}
		if upd.Name != nil {
			habit.Name = *upd.Name
		}
		if upd.Frequency != nil {
			if !upd.Frequency.Valid() {
				return errorvalues.ErrValidation
			}
			habit.Frequency = *upd.Frequency
		}
		if upd.SelectedDays != nil {
			for _, day := range *upd.SelectedDays {
				if day < 0 || day > 6 {
					return errorvalues.ErrValidation
				}
			}
			habit.SelectedDays = *upd.SelectedDays
		}
		if upd.Goal != nil {
			if !upd.Goal.Valid() {
				return errorvalues.ErrValidation
			}
			habit.Goal = *upd.Goal
		}
		if upd.StartDate != nil {
			habit.StartDate = *upd.StartDate
		}
		switch {
		case upd.ClearEndDate:
			habit.EndDate = nil
		case upd.EndDate != nil:
			habit.EndDate = upd.EndDate
		}
		if habit.EndDate != nil && habit.EndDate.Before(habit.StartDate) {
			return errorvalues.ErrEndBeforeStart
		}
		if upd.ReminderTime != nil {
			if *upd.ReminderTime != "" && !clockTimeRe.MatchString(*upd.ReminderTime) {
				return errorvalues.ErrValidation
			}
			habit.ReminderTime = *upd.ReminderTime
		}
		if upd.AutoPopup != nil {
			habit.AutoPopup = *upd.AutoPopup
		}
		if upd.Archived != nil {
			habit.Archived = *upd.Archived
		}
		return nil
	})
}

// DeleteHabit permanently removes the habit and its whole check-in
// history. Archiving is the reversible alternative.
func (s *HabitStore) DeleteHabit(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.habits {
		if s.habits[i].ID == id {
			s.habits = append(s.habits[:i], s.habits[i+1:]...)
			if s.selected != nil && s.selected.ID == id {
				s.selected = nil
			}
			s.persistLocked(ctx)
			return nil
		}
	}
	return errorvalues.ErrHabitNotFound
}

// ArchiveHabit hides the habit from active views but keeps its data and
// history. The selection is cleared like on delete.
func (s *HabitStore) ArchiveHabit(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.habits {
		if s.habits[i].ID == id {
			s.habits[i].Archived = true
			if s.selected != nil && s.selected.ID == id {
				s.selected = nil
			}
			s.persistLocked(ctx)
			return nil
		}
	}
	return errorvalues.ErrHabitNotFound
}

func (s *HabitStore) SelectHabit(id uuid.UUID) *entity.Habit {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.habits {
		if s.habits[i].ID == id {
			habit := copyHabit(&s.habits[i])
			s.selected = habit
			result := copyHabit(habit)
			return result
		}
	}
	s.selected = nil
	return nil
}

func (s *HabitStore) ClearHabitSelection() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = nil
}

func (s *HabitStore) SelectedHabit() *entity.Habit {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.selected == nil {
		return nil
	}
	return copyHabit(s.selected)
}

func (s *HabitStore) GetHabit(id uuid.UUID) (*entity.Habit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.habits {
		if s.habits[i].ID == id {
			return copyHabit(&s.habits[i]), nil
		}
	}
	return nil, errorvalues.ErrHabitNotFound
}

// Habits projects the collection by section and archived flag. Archived
// habits only show up when explicitly asked for.
func (s *HabitStore) Habits(filter HabitFilter) []entity.Habit {
	s.mu.Lock()
	defer s.mu.Unlock()
	result := make([]entity.Habit, 0, len(s.habits))
	for i := range s.habits {
		habit := &s.habits[i]
		if habit.Archived != filter.Archived {
			continue
		}
		if filter.Section != nil && habit.Section != *filter.Section {
			continue
		}
		result = append(result, *copyHabit(habit))
	}
	return result
}

// CheckInHabit drives the per-day state machine toward the target status.
// A duplicate record for the day can't arise: the existing one is either
// removed or overwritten, so the later write always wins.
func (s *HabitStore) CheckInHabit(ctx context.Context, id uuid.UUID, date time.Time, status entity.CheckInStatus, notes string) (*entity.Habit, error) {
	if !status.Valid() {
		return nil, errorvalues.ErrInvalidStatus
	}
	return s.mutateHabit(ctx, id, func(habit *entity.Habit) error {
		applyCheckIn(habit, date, status, notes)
		return nil
	})
}

// ToggleCheckIn advances the day through the none -> completed -> failed
// -> none cycle.
func (s *HabitStore) ToggleCheckIn(ctx context.Context, id uuid.UUID, date time.Time) (entity.CheckInStatus, error) {
	var next entity.CheckInStatus
	_, err := s.mutateHabit(ctx, id, func(habit *entity.Habit) error {
		_, current := lookupCheckIn(habit, date)
		next = NextStatus(current)
		applyCheckIn(habit, date, next, "")
		return nil
	})
	if err != nil {
		return entity.StatusNone, err
	}
	return next, nil
}

// LookupCheckIn reports the stored status for the calendar day,
// StatusNone when no record exists.
func (s *HabitStore) LookupCheckIn(id uuid.UUID, date time.Time) (entity.CheckInStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.habits {
		if s.habits[i].ID == id {
			_, status := lookupCheckIn(&s.habits[i], date)
			return status, nil
		}
	}
	return entity.StatusNone, errorvalues.ErrHabitNotFound
}

// Stats recomputes the derived display values from the habit's history.
func (s *HabitStore) Stats(id uuid.UUID) (*entity.HabitStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.habits {
		if s.habits[i].ID == id {
			return stats.Summarize(&s.habits[i], s.now()), nil
		}
	}
	return nil, errorvalues.ErrHabitNotFound
}

// AddSection creates a named habit group. Names are trimmed and unique
// case-insensitively.
func (s *HabitStore) AddSection(ctx context.Context, name string) (*entity.Section, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errorvalues.ErrValidation
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, section := range s.sections {
		if strings.EqualFold(section.Name, name) {
			return nil, errorvalues.ErrSectionExists
		}
	}
	section := entity.Section{ID: uuid.New(), Name: name}
	s.sections = append(s.sections, section)
	s.persistLocked(ctx)
	return &section, nil
}

func (s *HabitStore) Sections() []entity.Section {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]entity.Section(nil), s.sections...)
}

func (s *HabitStore) mutateHabit(ctx context.Context, id uuid.UUID, fn func(*entity.Habit) error) (*entity.Habit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.habits {
		if s.habits[i].ID != id {
			continue
		}
		if err := fn(&s.habits[i]); err != nil {
			return nil, err
		}
		if s.selected != nil && s.selected.ID == id {
			s.selected = copyHabit(&s.habits[i])
		}
		s.persistLocked(ctx)
		return copyHabit(&s.habits[i]), nil
	}
	return nil, errorvalues.ErrHabitNotFound
}

func (s *HabitStore) findSectionLocked(id uuid.UUID) int {
	for i := range s.sections {
		if s.sections[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *HabitStore) persistLocked(ctx context.Context) {
	snap := &gateway.HabitSnapshot{
		Sections: append([]entity.Section(nil), s.sections...),
		Habits:   make([]entity.Habit, 0, len(s.habits)),
	}
	for i := range s.habits {
		snap.Habits = append(snap.Habits, *copyHabit(&s.habits[i]))
	}
	if err := s.gw.SaveHabits(ctx, snap); err != nil {
		s.lastSaveErr = err
		s.logger.Error("habit snapshot save failed", slog.String("error", err.Error()))
		return
	}
	s.lastSaveErr = nil
}

// copyHabit deep-copies the check-in slice so callers can't mutate the
// store's records behind its back.
func copyHabit(habit *entity.Habit) *entity.Habit {
	result := *habit
	result.CheckIns = append([]entity.HabitCheckIn(nil), habit.CheckIns...)
	result.SelectedDays = append([]int(nil), habit.SelectedDays...)
	return &result
}
