package gateway_test

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/limbo/tickdone/internal/gateway"
	"github.com/limbo/tickdone/pkg/entity"
)

var (
	selectListsQuery    = regexp.QuoteMeta(`SELECT id, name, color, view, folder, kind FROM task_lists;`)
	selectTasksQuery    = regexp.QuoteMeta(`SELECT id, title, description, completed, list_id, created_at,`)
	selectSectionsQuery = regexp.QuoteMeta(`SELECT id, name FROM habit_sections;`)
	selectHabitsQuery   = regexp.QuoteMeta(`SELECT id, name, section, frequency, goal, start_date, end_date,`)
	selectCheckInsQuery = regexp.QuoteMeta(`SELECT habit_id, check_date, status, notes FROM habit_check_ins ORDER BY habit_id;`)
)

func TestPostgresLoadTasks(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatal(err)
	}
	gw := gateway.NewPostgresWithConn(mock)
	ctx := context.Background()

	listID := uuid.New()
	taskID := uuid.New()
	createdAt := time.Date(2025, time.July, 10, 9, 0, 0, 0, time.UTC)
	due := createdAt.AddDate(0, 0, 2)
	section := "getting-start"

	t.Run("success", func(t *testing.T) {
		mock.ExpectQuery(selectListsQuery).
			WillReturnRows(pgxmock.NewRows([]string{"id", "name", "color", "view", "folder", "kind"}).
				AddRow(listID, "Work", "#F59E0B", entity.ViewList, "", entity.ListKind))
		mock.ExpectQuery(selectTasksQuery).
			WillReturnRows(pgxmock.NewRows([]string{"id", "title", "description", "completed", "list_id",
				"created_at", "due_date", "priority", "type", "section", "pinned", "images"}).
				AddRow(taskID, "ship release", "", false, listID, createdAt, &due,
					entity.PriorityUrgentImportant, entity.TypeTask, &section, true, []string{"mock.png"}))

		snap, err := gw.LoadTasks(ctx)
		require.NoError(t, err)
		require.Len(t, snap.Lists, 1)
		assert.Equal(t, entity.TaskList{
			ID: listID, Name: "Work", Color: "#F59E0B", View: entity.ViewList, Type: entity.ListKind,
		}, snap.Lists[0])
		require.Len(t, snap.Tasks, 1)
		tag := entity.SectionGettingStart
		assert.Equal(t, entity.Task{
			ID: taskID, Title: "ship release", ListID: listID, CreatedAt: createdAt, DueDate: &due,
			Priority: entity.PriorityUrgentImportant, Type: entity.TypeTask, Section: &tag,
			Pinned: true, Images: []string{"mock.png"},
		}, snap.Tasks[0])
	})
	t.Run("nullable columns", func(t *testing.T) {
		mock.ExpectQuery(selectListsQuery).
			WillReturnRows(pgxmock.NewRows([]string{"id", "name", "color", "view", "folder", "kind"}).
				AddRow(listID, "Work", "#F59E0B", entity.ViewList, "", entity.ListKind))
		mock.ExpectQuery(selectTasksQuery).
			WillReturnRows(pgxmock.NewRows([]string{"id", "title", "description", "completed", "list_id",
				"created_at", "due_date", "priority", "type", "section", "pinned", "images"}).
				AddRow(taskID, "ship release", "", false, listID, createdAt, (*time.Time)(nil),
					entity.PriorityUrgentImportant, entity.TypeTask, (*string)(nil), false, []string(nil)))

		snap, err := gw.LoadTasks(ctx)
		require.NoError(t, err)
		require.Len(t, snap.Tasks, 1)
		assert.Nil(t, snap.Tasks[0].DueDate)
		assert.Nil(t, snap.Tasks[0].Section)
	})
	t.Run("empty tables mean never persisted", func(t *testing.T) {
		mock.ExpectQuery(selectListsQuery).
			WillReturnRows(pgxmock.NewRows([]string{"id", "name", "color", "view", "folder", "kind"}))
		mock.ExpectQuery(selectTasksQuery).
			WillReturnRows(pgxmock.NewRows([]string{"id", "title", "description", "completed", "list_id",
				"created_at", "due_date", "priority", "type", "section", "pinned", "images"}))

		snap, err := gw.LoadTasks(ctx)
		assert.NoError(t, err)
		assert.Nil(t, snap)
	})
	t.Run("db error", func(t *testing.T) {
		mock.ExpectQuery(selectListsQuery).
			WillReturnError(errors.New("db error"))
		_, err := gw.LoadTasks(ctx)
		assert.Error(t, err)
	})
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresSaveTasks(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatal(err)
	}
	gw := gateway.NewPostgresWithConn(mock)
	ctx := context.Background()

	listID := uuid.New()
	createdAt := time.Date(2025, time.July, 10, 9, 0, 0, 0, time.UTC)
	snap := &gateway.TaskSnapshot{
		Lists: []entity.TaskList{
			{ID: listID, Name: "Work", Color: "#F59E0B", View: entity.ViewList, Type: entity.ListKind},
		},
		Tasks: []entity.Task{
			{
				ID: uuid.New(), Title: "ship release", Completed: true, ListID: listID,
				CreatedAt: createdAt, Priority: entity.PriorityUrgentImportant, Type: entity.TypeTask,
			},
		},
	}
	deleteTasks := regexp.QuoteMeta(`DELETE FROM tasks;`)
	deleteLists := regexp.QuoteMeta(`DELETE FROM task_lists;`)
	insertList := regexp.QuoteMeta(`INSERT INTO task_lists (id, name, color, view, folder, kind) VALUES ($1, $2, $3, $4, $5, $6);`)
	insertTask := regexp.QuoteMeta(`INSERT INTO tasks (id, title, description, completed, list_id, created_at, due_date,`)

	t.Run("success", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec(deleteTasks).WillReturnResult(pgxmock.NewResult("DELETE", 1))
		mock.ExpectExec(deleteLists).WillReturnResult(pgxmock.NewResult("DELETE", 1))
		mock.ExpectExec(insertList).
			WithArgs(listID, "Work", "#F59E0B", entity.ViewList, "", entity.ListKind).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))
		mock.ExpectExec(insertTask).
			WithArgs(snap.Tasks[0].ID, "ship release", "", true, listID, createdAt,
				(*time.Time)(nil), entity.PriorityUrgentImportant, entity.TypeTask,
				(*string)(nil), false, []string(nil)).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))
		mock.ExpectCommit()

		assert.NoError(t, gw.SaveTasks(ctx, snap))
	})
	t.Run("insert failure rolls back", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec(deleteTasks).WillReturnResult(pgxmock.NewResult("DELETE", 1))
		mock.ExpectExec(deleteLists).WillReturnResult(pgxmock.NewResult("DELETE", 1))
		mock.ExpectExec(insertList).
			WithArgs(listID, "Work", "#F59E0B", entity.ViewList, "", entity.ListKind).
			WillReturnError(errors.New("db error"))
		mock.ExpectRollback()

		assert.Error(t, gw.SaveTasks(ctx, snap))
	})
	t.Run("begin failure", func(t *testing.T) {
		mock.ExpectBegin().WillReturnError(errors.New("db error"))
		assert.Error(t, gw.SaveTasks(ctx, snap))
	})
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresLoadHabits(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatal(err)
	}
	gw := gateway.NewPostgresWithConn(mock)
	ctx := context.Background()

	sectionID := uuid.New()
	habitID := uuid.New()
	start := time.Date(2025, time.July, 1, 0, 0, 0, 0, time.UTC)
	checkDate := start.AddDate(0, 0, 1)
	reminder := "06:30"
	notes := "5km"

	habitColumns := []string{"id", "name", "section", "frequency", "goal", "start_date", "end_date",
		"selected_days", "reminder_time", "auto_popup", "created_at", "archived"}

	t.Run("success", func(t *testing.T) {
		mock.ExpectQuery(selectSectionsQuery).
			WillReturnRows(pgxmock.NewRows([]string{"id", "name"}).AddRow(sectionID, "Morning"))
		mock.ExpectQuery(selectHabitsQuery).
			WillReturnRows(pgxmock.NewRows(habitColumns).
				AddRow(habitID, "morning run", sectionID, entity.FrequencyCustom, entity.GoalAchieveItAll,
					start, (*time.Time)(nil), []int{1, 3, 5}, &reminder, true, start, false))
		mock.ExpectQuery(selectCheckInsQuery).
			WillReturnRows(pgxmock.NewRows([]string{"habit_id", "check_date", "status", "notes"}).
				AddRow(habitID, checkDate, entity.StatusCompleted, &notes))

		snap, err := gw.LoadHabits(ctx)
		require.NoError(t, err)
		require.Len(t, snap.Sections, 1)
		assert.Equal(t, entity.Section{ID: sectionID, Name: "Morning"}, snap.Sections[0])
		require.Len(t, snap.Habits, 1)
		habit := snap.Habits[0]
		assert.Equal(t, "morning run", habit.Name)
		assert.Equal(t, sectionID, habit.Section)
		assert.Equal(t, []int{1, 3, 5}, habit.SelectedDays)
		assert.Equal(t, "06:30", habit.ReminderTime)
		require.Len(t, habit.CheckIns, 1)
		assert.Equal(t, entity.HabitCheckIn{Date: checkDate, Status: entity.StatusCompleted, Notes: "5km"}, habit.CheckIns[0])
	})
	t.Run("check-in for unknown habit is skipped", func(t *testing.T) {
		mock.ExpectQuery(selectSectionsQuery).
			WillReturnRows(pgxmock.NewRows([]string{"id", "name"}).AddRow(sectionID, "Morning"))
		mock.ExpectQuery(selectHabitsQuery).
			WillReturnRows(pgxmock.NewRows(habitColumns).
				AddRow(habitID, "morning run", sectionID, entity.FrequencyDaily, entity.GoalAchieveItAll,
					start, (*time.Time)(nil), []int(nil), (*string)(nil), false, start, false))
		mock.ExpectQuery(selectCheckInsQuery).
			WillReturnRows(pgxmock.NewRows([]string{"habit_id", "check_date", "status", "notes"}).
				AddRow(uuid.New(), checkDate, entity.StatusCompleted, (*string)(nil)))

		snap, err := gw.LoadHabits(ctx)
		require.NoError(t, err)
		require.Len(t, snap.Habits, 1)
		assert.Empty(t, snap.Habits[0].CheckIns)
	})
	t.Run("empty tables mean never persisted", func(t *testing.T) {
		mock.ExpectQuery(selectSectionsQuery).
			WillReturnRows(pgxmock.NewRows([]string{"id", "name"}))
		mock.ExpectQuery(selectHabitsQuery).
			WillReturnRows(pgxmock.NewRows(habitColumns))
		mock.ExpectQuery(selectCheckInsQuery).
			WillReturnRows(pgxmock.NewRows([]string{"habit_id", "check_date", "status", "notes"}))

		snap, err := gw.LoadHabits(ctx)
		assert.NoError(t, err)
		assert.Nil(t, snap)
	})
	t.Run("db error", func(t *testing.T) {
		mock.ExpectQuery(selectSectionsQuery).
			WillReturnError(errors.New("db error"))
		_, err := gw.LoadHabits(ctx)
		assert.Error(t, err)
	})
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresSaveHabits(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatal(err)
	}
	gw := gateway.NewPostgresWithConn(mock)
	ctx := context.Background()

	sectionID := uuid.New()
	start := time.Date(2025, time.July, 1, 0, 0, 0, 0, time.UTC)
	habit := entity.Habit{
		ID:        uuid.New(),
		Name:      "morning run",
		Section:   sectionID,
		Frequency: entity.FrequencyDaily,
		Goal:      entity.GoalAchieveItAll,
		StartDate: start,
		CheckIns: []entity.HabitCheckIn{
			{Date: start.AddDate(0, 0, 1), Status: entity.StatusCompleted, Notes: "5km"},
		},
		CreatedAt: start,
	}
	snap := &gateway.HabitSnapshot{
		Sections: []entity.Section{{ID: sectionID, Name: "Morning"}},
		Habits:   []entity.Habit{habit},
	}
	deleteCheckIns := regexp.QuoteMeta(`DELETE FROM habit_check_ins;`)
	deleteHabits := regexp.QuoteMeta(`DELETE FROM habits;`)
	deleteSections := regexp.QuoteMeta(`DELETE FROM habit_sections;`)
	insertSection := regexp.QuoteMeta(`INSERT INTO habit_sections (id, name) VALUES ($1, $2);`)
	insertHabit := regexp.QuoteMeta(`INSERT INTO habits (id, name, section, frequency, goal, start_date, end_date,`)
	insertCheckIn := regexp.QuoteMeta(`INSERT INTO habit_check_ins (habit_id, check_date, status, notes) VALUES ($1, $2, $3, $4);`)

	t.Run("success", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec(deleteCheckIns).WillReturnResult(pgxmock.NewResult("DELETE", 1))
		mock.ExpectExec(deleteHabits).WillReturnResult(pgxmock.NewResult("DELETE", 1))
		mock.ExpectExec(deleteSections).WillReturnResult(pgxmock.NewResult("DELETE", 1))
		mock.ExpectExec(insertSection).
			WithArgs(sectionID, "Morning").
			WillReturnResult(pgxmock.NewResult("INSERT", 1))
		mock.ExpectExec(insertHabit).
			WithArgs(habit.ID, habit.Name, sectionID, habit.Frequency, habit.Goal, start,
				(*time.Time)(nil), []int(nil), "", false, start, false).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))
		mock.ExpectExec(insertCheckIn).
			WithArgs(habit.ID, habit.CheckIns[0].Date, entity.StatusCompleted, "5km").
			WillReturnResult(pgxmock.NewResult("INSERT", 1))
		mock.ExpectCommit()

		assert.NoError(t, gw.SaveHabits(ctx, snap))
	})
	t.Run("check-in insert failure rolls back", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec(deleteCheckIns).WillReturnResult(pgxmock.NewResult("DELETE", 1))
		mock.ExpectExec(deleteHabits).WillReturnResult(pgxmock.NewResult("DELETE", 1))
		mock.ExpectExec(deleteSections).WillReturnResult(pgxmock.NewResult("DELETE", 1))
		mock.ExpectExec(insertSection).
			WithArgs(sectionID, "Morning").
			WillReturnResult(pgxmock.NewResult("INSERT", 1))
		mock.ExpectExec(insertHabit).
			WithArgs(habit.ID, habit.Name, sectionID, habit.Frequency, habit.Goal, start,
				(*time.Time)(nil), []int(nil), "", false, start, false).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))
		mock.ExpectExec(insertCheckIn).
			WithArgs(habit.ID, habit.CheckIns[0].Date, entity.StatusCompleted, "5km").
			WillReturnError(errors.New("db error"))
		mock.ExpectRollback()

		assert.Error(t, gw.SaveHabits(ctx, snap))
	})
	assert.NoError(t, mock.ExpectationsWereMet())
}
