// Package reminder fires habit reminders at their configured wall-clock
// time. It only nudges: a habit already checked in for the day, archived,
// or outside its start/end window is skipped.
package reminder

import (
	"context"
	"log"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/limbo/tickdone/internal/store"
	"github.com/limbo/tickdone/pkg/dateutil"
	"github.com/limbo/tickdone/pkg/entity"
)

type Notifier interface {
	Notify(habit *entity.Habit)
}

// LogNotifier reports reminders through the structured log. A UI client
// would watch these or replace the notifier entirely.
type LogNotifier struct {
	Logger *slog.Logger
}

func (n *LogNotifier) Notify(habit *entity.Habit) {
	logger := n.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("habit reminder",
		slog.String("habit_id", habit.ID.String()),
		slog.String("name", habit.Name),
		slog.Bool("auto_popup", habit.AutoPopup),
	)
}

type Scheduler struct {
	habits   *store.HabitStore
	notifier Notifier
	logger   *slog.Logger
	cron     *cron.Cron
}

func New(habits *store.HabitStore, notifier Notifier, logger *slog.Logger) *Scheduler {
	if habits == nil {
		log.Fatal("on reminder scheduler provided nil habit store")
	}
	if logger == nil {
		logger = slog.Default()
	}
	if notifier == nil {
		notifier = &LogNotifier{Logger: logger}
	}
	s := &Scheduler{
		habits:   habits,
		notifier: notifier,
		logger:   logger,
		cron:     cron.New(),
	}
	_, _ = s.cron.AddFunc("@every 1m", func() {
		s.Remind(time.Now())
	})
	return s
}

func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("reminder scheduler started")
}

func (s *Scheduler) Stop(ctx context.Context) {
	stopCtx := s.cron.Stop()
	select {
	case <-stopCtx.Done():
	case <-ctx.Done():
	}
	s.logger.Info("reminder scheduler stopped")
}

// Remind notifies every active habit whose reminder time matches now's
// HH:MM and which has no check-in record for today yet.
func (s *Scheduler) Remind(now time.Time) {
	clock := now.Format("15:04")
	for _, habit := range s.habits.Habits(store.HabitFilter{}) {
		if habit.ReminderTime != clock {
			continue
		}
		if dateutil.DaysBetween(habit.StartDate, now) < 0 {
			continue
		}
		if habit.EndDate != nil && dateutil.DaysBetween(now, *habit.EndDate) < 0 {
			continue
		}
		status, err := s.habits.LookupCheckIn(habit.ID, now)
		if err != nil {
			continue
		}
		if status != entity.StatusNone {
			continue
		}
		s.notifier.Notify(&habit)
	}
}
