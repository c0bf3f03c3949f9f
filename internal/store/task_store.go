package store

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	errorvalues "github.com/limbo/tickdone/internal/error_values"
	"github.com/limbo/tickdone/internal/gateway"
	"github.com/limbo/tickdone/pkg/dateutil"
	"github.com/limbo/tickdone/pkg/entity"
)

// Window selects the time slice of the task collection a query sees.
type Window string

const (
	WindowAll       Window = "all"
	WindowToday     Window = "today"
	WindowWeek      Window = "week" // next 7 days inclusive
	WindowCompleted Window = "completed"
)

type TaskFilter struct {
	Window  Window
	ListID  *uuid.UUID
	Section *entity.TaskSection
	Type    *entity.TaskType
}

type CreateTaskRequest struct {
	Title       string              `json:"title" validate:"required"`
	Description string              `json:"description"`
	ListID      uuid.UUID           `json:"listId" validate:"required"`
	Priority    entity.TaskPriority `json:"priority" validate:"required,oneof=urgent-important not-urgent-important urgent-unimportant not-urgent-unimportant"`
	Type        entity.TaskType     `json:"type" validate:"omitempty,oneof=task note"`
	Section     *entity.TaskSection `json:"section,omitempty" validate:"omitempty,oneof=getting-start feature-modules explore-more"`
	DueDate     *time.Time          `json:"dueDate,omitempty"`
	Images      []string            `json:"images,omitempty"`
	Pinned      bool                `json:"pinned"`
}

type CreateListRequest struct {
	Name   string          `json:"name" validate:"required"`
	Color  string          `json:"color" validate:"required,hexcolor"`
	View   entity.ListView `json:"view" validate:"omitempty,oneof=list board calendar"`
	Folder string          `json:"folder,omitempty"`
}

// TaskUpdate carries a partial update; nil fields stay untouched. Clear
// flags exist for the optional fields where "absent" is a meaningful
// target value.
type TaskUpdate struct {
	Title        *string              `json:"title,omitempty"`
	Description  *string              `json:"description,omitempty"`
	Completed    *bool                `json:"completed,omitempty"`
	ListID       *uuid.UUID           `json:"listId,omitempty"`
	DueDate      *time.Time           `json:"dueDate,omitempty"`
	ClearDueDate bool                 `json:"clearDueDate,omitempty"`
	Priority     *entity.TaskPriority `json:"priority,omitempty"`
	Images       *[]string            `json:"images,omitempty"`
	Pinned       *bool                `json:"pinned,omitempty"`
	Type         *entity.TaskType     `json:"type,omitempty"`
	Section      *entity.TaskSection  `json:"section,omitempty"`
	ClearSection bool                 `json:"clearSection,omitempty"`
}

type ListUpdate struct {
	Name   *string          `json:"name,omitempty"`
	Color  *string          `json:"color,omitempty"`
	View   *entity.ListView `json:"view,omitempty"`
	Folder *string          `json:"folder,omitempty"`
}

type DueDatePreset string

const (
	DueToday    DueDatePreset = "today"
	DueTomorrow DueDatePreset = "tomorrow"
	DueNextWeek DueDatePreset = "next-week"
	DueCustom   DueDatePreset = "custom"
)

// TaskStore owns the in-memory task and list collections for a session.
// Mutations happen here and nowhere else; every one triggers a
// best-effort gateway save that never rolls the memory state back.
type TaskStore struct {
	mu          sync.Mutex
	gw          gateway.TaskGateway
	logger      *slog.Logger
	now         func() time.Time
	tasks       []entity.Task
	lists       []entity.TaskList
	selected    *entity.Task
	selectedLst *uuid.UUID
	lastSaveErr error
}

func NewTaskStore(gw gateway.TaskGateway, logger *slog.Logger) *TaskStore {
	if gw == nil {
		log.Fatal("on task store provided nil gateway")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &TaskStore{
		gw:     gw,
		logger: logger,
		now:    time.Now,
	}
}

// Load rehydrates the collections from the gateway. An absent snapshot
// seeds the first-run content. On a load failure the store still becomes
// usable with the seed content, and the error is returned for reporting;
// the possibly recoverable durable copy is not overwritten until the
// next mutation.
func (s *TaskStore) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap, err := s.gw.LoadTasks(ctx)
	if err != nil {
		s.lists, s.tasks = defaultTaskData(s.now())
		return errors.New("loading task snapshot error: " + err.Error())
	}
	if snap == nil {
		s.lists, s.tasks = defaultTaskData(s.now())
		s.persistLocked(ctx)
		return nil
	}
	s.lists = snap.Lists
	s.tasks = snap.Tasks
	return nil
}

// LastSaveErr reports the outcome of the most recent gateway save.
func (s *TaskStore) LastSaveErr() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSaveErr
}

func (s *TaskStore) AddTask(ctx context.Context, req *CreateTaskRequest) (*entity.Task, error) {
	if err := validateStruct(*req); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.findListLocked(req.ListID) < 0 {
		return nil, errorvalues.ErrListNotFound
	}
	taskType := req.Type
	if taskType == "" {
		taskType = entity.TypeTask
	}
	task := entity.Task{
		ID:          uuid.New(),
		Title:       req.Title,
		Description: req.Description,
		ListID:      req.ListID,
		CreatedAt:   s.now(),
		DueDate:     req.DueDate,
		Priority:    req.Priority,
		Images:      req.Images,
		Pinned:      req.Pinned,
		Type:        taskType,
		Section:     req.Section,
	}
	s.tasks = append(s.tasks, task)
	s.persistLocked(ctx)
	return &task, nil
}

func (s *TaskStore) UpdateTask(ctx context.Context, id uuid.UUID, upd *TaskUpdate) (*entity.Task, error) {
	return s.mutateTask(ctx, id, func(task *entity.Task) error {
		if upd.ListID != nil {
			if s.findListLocked(*upd.ListID) < 0 {
				return errorvalues.ErrListNotFound
			}
			task.ListID = *upd.ListID
		}
		if upd.Title != nil {
			task.Title = *upd.Title
		}
		if upd.Description != nil {
			task.Description = *upd.Description
		}
		if upd.Completed != nil {
			task.Completed = *upd.Completed
		}
		switch {
		case upd.ClearDueDate:
			task.DueDate = nil
		case upd.DueDate != nil:
			task.DueDate = upd.DueDate
		}
		if upd.Priority != nil {
			if !upd.Priority.Valid() {
				return errorvalues.ErrValidation
			}
			task.Priority = *upd.Priority
		}
		if upd.Images != nil {
			task.Images = *upd.Images
		}
		if upd.Pinned != nil {
			task.Pinned = *upd.Pinned
		}
		if upd.Type != nil {
			if !upd.Type.Valid() {
				return errorvalues.ErrValidation
			}
			task.Type = *upd.Type
		}
		switch {
		case upd.ClearSection:
			task.Section = nil
		case upd.Section != nil:
			if !upd.Section.Valid() {
				return errorvalues.ErrValidation
			}
			task.Section = upd.Section
		}
		return nil
	})
}

func (s *TaskStore) DeleteTask(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
			if s.selected != nil && s.selected.ID == id {
				s.selected = nil
			}
			s.persistLocked(ctx)
			return nil
		}
	}
	return errorvalues.ErrTaskNotFound
}

// CompleteTask toggles the completed flag.
func (s *TaskStore) CompleteTask(ctx context.Context, id uuid.UUID) (*entity.Task, error) {
	return s.mutateTask(ctx, id, func(task *entity.Task) error {
		task.Completed = !task.Completed
		return nil
	})
}

func (s *TaskStore) UpdateTaskPriority(ctx context.Context, id uuid.UUID, priority entity.TaskPriority) (*entity.Task, error) {
	if !priority.Valid() {
		return nil, errorvalues.ErrValidation
	}
	return s.mutateTask(ctx, id, func(task *entity.Task) error {
		task.Priority = priority
		return nil
	})
}

func (s *TaskStore) PinTask(ctx context.Context, id uuid.UUID, pinned bool) (*entity.Task, error) {
	return s.mutateTask(ctx, id, func(task *entity.Task) error {
		task.Pinned = pinned
		return nil
	})
}

// SetTaskDueDate resolves the preset against the wall clock at call time.
func (s *TaskStore) SetTaskDueDate(ctx context.Context, id uuid.UUID, preset DueDatePreset, custom *time.Time) (*entity.Task, error) {
	var due time.Time
	switch preset {
	case DueToday:
		due = s.now()
	case DueTomorrow:
		due = s.now().AddDate(0, 0, 1)
	case DueNextWeek:
		due = s.now().AddDate(0, 0, 7)
	case DueCustom:
		if custom == nil {
			return nil, errorvalues.ErrCustomDateRequired
		}
		due = *custom
	default:
		return nil, errorvalues.ErrValidation
	}
	return s.mutateTask(ctx, id, func(task *entity.Task) error {
		task.DueDate = &due
		return nil
	})
}

// ConvertTaskType switches a record between task and note. These are the
// only two states and the conversion is always explicit.
func (s *TaskStore) ConvertTaskType(ctx context.Context, id uuid.UUID, taskType entity.TaskType) (*entity.Task, error) {
	if !taskType.Valid() {
		return nil, errorvalues.ErrValidation
	}
	return s.mutateTask(ctx, id, func(task *entity.Task) error {
		task.Type = taskType
		return nil
	})
}

// SetTaskSection tags the task with one of the fixed onboarding sections,
// or clears the tag when section is nil.
func (s *TaskStore) SetTaskSection(ctx context.Context, id uuid.UUID, section *entity.TaskSection) (*entity.Task, error) {
	if section != nil && !section.Valid() {
		return nil, errorvalues.ErrValidation
	}
	return s.mutateTask(ctx, id, func(task *entity.Task) error {
		task.Section = section
		return nil
	})
}

// SelectTask caches the matching task as the current selection. A missing
// id clears the selection instead of failing.
func (s *TaskStore) SelectTask(id uuid.UUID) *entity.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			task := s.tasks[i]
			s.selected = &task
			result := task
			return &result
		}
	}
	s.selected = nil
	return nil
}

func (s *TaskStore) ClearTaskSelection() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = nil
}

// SelectedTask returns a copy of the cached selection, nil when nothing
// is selected.
func (s *TaskStore) SelectedTask() *entity.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.selected == nil {
		return nil
	}
	task := *s.selected
	return &task
}

func (s *TaskStore) SelectList(id uuid.UUID) *entity.TaskList {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.findListLocked(id); i >= 0 {
		listID := s.lists[i].ID
		s.selectedLst = &listID
		list := s.lists[i]
		return &list
	}
	s.selectedLst = nil
	return nil
}

func (s *TaskStore) SelectedListID() *uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.selectedLst == nil {
		return nil
	}
	id := *s.selectedLst
	return &id
}

func (s *TaskStore) GetTask(id uuid.UUID) (*entity.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			task := s.tasks[i]
			return &task, nil
		}
	}
	return nil, errorvalues.ErrTaskNotFound
}

// Tasks is a pure read-time projection over the full collection. The
// window filters compare calendar days of dueDate against now.
func (s *TaskStore) Tasks(filter TaskFilter) []entity.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	result := make([]entity.Task, 0, len(s.tasks))
	for _, task := range s.tasks {
		if filter.ListID != nil && task.ListID != *filter.ListID {
			continue
		}
		if filter.Section != nil && (task.Section == nil || *task.Section != *filter.Section) {
			continue
		}
		if filter.Type != nil && task.Type != *filter.Type {
			continue
		}
		switch filter.Window {
		case WindowToday:
			if task.DueDate == nil || !dateutil.SameDay(*task.DueDate, now) {
				continue
			}
		case WindowWeek:
			if task.DueDate == nil || !dateutil.WithinDays(*task.DueDate, now, 7) {
				continue
			}
		case WindowCompleted:
			if !task.Completed {
				continue
			}
		}
		result = append(result, task)
	}
	return result
}

func (s *TaskStore) AddList(ctx context.Context, req *CreateListRequest) (*entity.TaskList, error) {
	if err := validateStruct(*req); err != nil {
		return nil, err
	}
	view := req.View
	if view == "" {
		view = entity.ViewList
	}
	list := entity.TaskList{
		ID:     uuid.New(),
		Name:   req.Name,
		Color:  req.Color,
		View:   view,
		Folder: req.Folder,
		Type:   entity.ListKind,
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lists = append(s.lists, list)
	s.persistLocked(ctx)
	return &list, nil
}

func (s *TaskStore) UpdateList(ctx context.Context, id uuid.UUID, upd *ListUpdate) (*entity.TaskList, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.findListLocked(id)
	if i < 0 {
		return nil, errorvalues.ErrListNotFound
	}
	list := &s.lists[i]
	if upd.Name != nil {
		list.Name = *upd.Name
	}
	if upd.Color != nil {
		list.Color = *upd.Color
	}
	if upd.View != nil {
		if !upd.View.Valid() {
			return nil, errorvalues.ErrValidation
		}
		list.View = *upd.View
	}
	if upd.Folder != nil {
		list.Folder = *upd.Folder
	}
	s.persistLocked(ctx)
	result := *list
	return &result, nil
}

// DeleteList removes the list and cascades to every task referencing it,
// keeping the list-reference invariant intact.
func (s *TaskStore) DeleteList(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.findListLocked(id)
	if i < 0 {
		return errorvalues.ErrListNotFound
	}
	s.lists = append(s.lists[:i], s.lists[i+1:]...)
	kept := s.tasks[:0]
	for _, task := range s.tasks {
		if task.ListID != id {
			kept = append(kept, task)
		}
	}
	s.tasks = kept
	if s.selectedLst != nil && *s.selectedLst == id {
		s.selectedLst = nil
	}
	if s.selected != nil && s.selected.ListID == id {
		s.selected = nil
	}
	s.persistLocked(ctx)
	return nil
}

func (s *TaskStore) GetList(id uuid.UUID) (*entity.TaskList, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.findListLocked(id); i >= 0 {
		list := s.lists[i]
		return &list, nil
	}
	return nil, errorvalues.ErrListNotFound
}

func (s *TaskStore) Lists() []entity.TaskList {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]entity.TaskList(nil), s.lists...)
}

// mutateTask runs fn against the stored record, refreshes the cached
// selection when it matches and persists. Missing ids surface as
// ErrTaskNotFound rather than a silent no-op.
func (s *TaskStore) mutateTask(ctx context.Context, id uuid.UUID, fn func(*entity.Task) error) (*entity.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.tasks {
		if s.tasks[i].ID != id {
			continue
		}
		if err := fn(&s.tasks[i]); err != nil {
			return nil, err
		}
		if s.selected != nil && s.selected.ID == id {
			task := s.tasks[i]
			s.selected = &task
		}
		s.persistLocked(ctx)
		result := s.tasks[i]
		return &result, nil
	}
	return nil, errorvalues.ErrTaskNotFound
}

func (s *TaskStore) findListLocked(id uuid.UUID) int {
	for i := range s.lists {
		if s.lists[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *TaskStore) persistLocked(ctx context.Context) {
	snap := &gateway.TaskSnapshot{
		Lists: append([]entity.TaskList(nil), s.lists...),
		Tasks: append([]entity.Task(nil), s.tasks...),
	}
	if err := s.gw.SaveTasks(ctx, snap); err != nil {
		s.lastSaveErr = err
		s.logger.Error("task snapshot save failed", slog.String("error", err.Error()))
		return
	}
	s.lastSaveErr = nil
}
