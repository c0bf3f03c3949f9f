package entity

import (
	"time"

	"github.com/google/uuid"
)

type TaskPriority string

const (
	PriorityUrgentImportant      TaskPriority = "urgent-important"
	PriorityNotUrgentImportant   TaskPriority = "not-urgent-important"
	PriorityUrgentUnimportant    TaskPriority = "urgent-unimportant"
	PriorityNotUrgentUnimportant TaskPriority = "not-urgent-unimportant"
)

func (p TaskPriority) Valid() bool {
	switch p {
	case PriorityUrgentImportant, PriorityNotUrgentImportant,
		PriorityUrgentUnimportant, PriorityNotUrgentUnimportant:
		return true
	}
	return false
}

type TaskType string

const (
	TypeTask TaskType = "task"
	TypeNote TaskType = "note"
)

func (t TaskType) Valid() bool {
	return t == TypeTask || t == TypeNote
}

// TaskSection tags are the three fixed onboarding groups, not to be
// confused with habit sections.
type TaskSection string

const (
	SectionGettingStart   TaskSection = "getting-start"
	SectionFeatureModules TaskSection = "feature-modules"
	SectionExploreMore    TaskSection = "explore-more"
)

func (s TaskSection) Valid() bool {
	switch s {
	case SectionGettingStart, SectionFeatureModules, SectionExploreMore:
		return true
	}
	return false
}

type ListView string

const (
	ViewList     ListView = "list"
	ViewBoard    ListView = "board"
	ViewCalendar ListView = "calendar"
)

func (v ListView) Valid() bool {
	return v == ViewList || v == ViewBoard || v == ViewCalendar
}

type Task struct {
	ID          uuid.UUID    `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Completed   bool         `json:"completed"`
	ListID      uuid.UUID    `json:"listId"`
	CreatedAt   time.Time    `json:"createdAt"`
	DueDate     *time.Time   `json:"dueDate,omitempty"`
	Priority    TaskPriority `json:"priority"`
	Images      []string     `json:"images,omitempty"`
	Pinned      bool         `json:"pinned"`
	Type        TaskType     `json:"type"`
	Section     *TaskSection `json:"section,omitempty"`
}

// ListKind is the constant stored in TaskList.Type.
const ListKind = "Task List"

type TaskList struct {
	ID     uuid.UUID `json:"id"`
	Name   string    `json:"name"`
	Color  string    `json:"color"`
	View   ListView  `json:"view"`
	Folder string    `json:"folder,omitempty"`
	Type   string    `json:"type"`
}

type HabitFrequency string

const (
	FrequencyDaily   HabitFrequency = "daily"
	FrequencyWeekly  HabitFrequency = "weekly"
	FrequencyMonthly HabitFrequency = "monthly"
	FrequencyCustom  HabitFrequency = "custom"
)

func (f HabitFrequency) Valid() bool {
	switch f {
	case FrequencyDaily, FrequencyWeekly, FrequencyMonthly, FrequencyCustom:
		return true
	}
	return false
}

type HabitGoal string

const (
	GoalAchieveItAll HabitGoal = "achieve-it-all"
	GoalAchieveSome  HabitGoal = "achieve-some"
	GoalAvoidItAll   HabitGoal = "avoid-it-all"
)

func (g HabitGoal) Valid() bool {
	return g == GoalAchieveItAll || g == GoalAchieveSome || g == GoalAvoidItAll
}

// CheckInStatus is the tri-state outcome of a habit on a calendar day.
// StatusNone is never stored in a check-in record; it stands for the
// absence of one.
type CheckInStatus string

const (
	StatusCompleted CheckInStatus = "completed"
	StatusFailed    CheckInStatus = "failed"
	StatusNone      CheckInStatus = "none"
)

func (s CheckInStatus) Valid() bool {
	return s == StatusCompleted || s == StatusFailed || s == StatusNone
}

// Storable reports whether the status may appear in a stored check-in.
func (s CheckInStatus) Storable() bool {
	return s == StatusCompleted || s == StatusFailed
}

// HabitCheckIn records a habit outcome for one calendar day. Equality is
// on year/month/day only, time-of-day is ignored.
type HabitCheckIn struct {
	Date   time.Time     `json:"date"`
	Status CheckInStatus `json:"status"`
	Notes  string        `json:"notes,omitempty"`
}

type Habit struct {
	ID           uuid.UUID      `json:"id"`
	Name         string         `json:"name"`
	Section      uuid.UUID      `json:"section"`
	Frequency    HabitFrequency `json:"frequency"`
	SelectedDays []int          `json:"selectedDays,omitempty"` // 0 = Sunday
	Goal         HabitGoal      `json:"goal"`
	StartDate    time.Time      `json:"startDate"`
	EndDate      *time.Time     `json:"endDate,omitempty"`
	CheckIns     []HabitCheckIn `json:"checkIns"`
	ReminderTime string         `json:"reminderTime,omitempty"` // "HH:MM"
	AutoPopup    bool           `json:"autoPopup"`
	CreatedAt    time.Time      `json:"createdAt"`
	Archived     bool           `json:"archived"`
}

// Section groups habits. Names are unique case-insensitively.
type Section struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

type HabitStats struct {
	HabitID         uuid.UUID `json:"habit_id"`
	Streak          int       `json:"streak"`
	MonthlyRate     int       `json:"monthly_rate"`
	MonthlyCheckIns int       `json:"monthly_check_ins"`
	TotalCheckIns   int       `json:"total_check_ins"`
}
