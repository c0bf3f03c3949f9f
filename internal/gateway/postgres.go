package gateway

import (
	"context"
	"errors"
	"log"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/limbo/tickdone/pkg/cleanup"
	"github.com/limbo/tickdone/pkg/entity"
)

// Postgres mirrors both collections onto relational tables. Save replaces
// the previous contents inside one transaction, so the durable copy always
// matches the last in-memory state that reached it (last writer wins).
type Postgres struct {
	conn PgConnection
}

func NewPostgres(cfg DBConfig) *Postgres {
	pool, err := pgxpool.New(context.Background(), cfg.ConnString())
	if err != nil {
		log.Fatal("creating connection for postgres gateway error: " + err.Error())
	}
	err = pool.Ping(context.Background())
	if err != nil {
		log.Fatal("error while pinging connection for postgres gateway: " + err.Error())
	}
	cleanup.Register(&cleanup.Job{
		Name: "closing pgxpool",
		F: func() error {
			pool.Close()
			return nil
		},
	})
	return &Postgres{conn: pool}
}

func NewPostgresWithConn(conn PgConnection) *Postgres {
	err := conn.Ping(context.Background())
	if err != nil {
		log.Fatal("error while pinging connection for postgres gateway: " + err.Error())
	}
	return &Postgres{conn: conn}
}

func (g *Postgres) LoadTasks(ctx context.Context) (*TaskSnapshot, error) {
	snap := &TaskSnapshot{}
	rows, err := g.conn.Query(ctx, `SELECT id, name, color, view, folder, kind FROM task_lists;`)
	if err != nil {
		return nil, errors.New("loading task lists error: " + err.Error())
	}
	for rows.Next() {
		list := entity.TaskList{}
		err = rows.Scan(&list.ID, &list.Name, &list.Color, &list.View, &list.Folder, &list.Type)
		if err != nil {
			rows.Close()
			return nil, errors.New("task list row parsing error: " + err.Error())
		}
		snap.Lists = append(snap.Lists, list)
	}
	rows.Close()
	if rows.Err() != nil {
		return nil, errors.New("unexpected task list rows error: " + rows.Err().Error())
	}

	rows, err = g.conn.Query(ctx, `SELECT id, title, description, completed, list_id, created_at,
		due_date, priority, type, section, pinned, images FROM tasks;`)
	if err != nil {
		return nil, errors.New("loading tasks error: " + err.Error())
	}
	for rows.Next() {
		task := entity.Task{}
		var section *string
		err = rows.Scan(&task.ID, &task.Title, &task.Description, &task.Completed, &task.ListID,
			&task.CreatedAt, &task.DueDate, &task.Priority, &task.Type, &section, &task.Pinned, &task.Images)
		if err != nil {
			rows.Close()
			return nil, errors.New("task row parsing error: " + err.Error())
		}
		if section != nil {
			tag := entity.TaskSection(*section)
			task.Section = &tag
		}
		snap.Tasks = append(snap.Tasks, task)
	}
	rows.Close()
	if rows.Err() != nil {
		return nil, errors.New("unexpected task rows error: " + rows.Err().Error())
	}

	// Empty tables mean the collection was never mirrored; the store
	// seeds its defaults in that case.
	if len(snap.Lists) == 0 && len(snap.Tasks) == 0 {
		return nil, nil
	}
	return snap, nil
}

func (g *Postgres) SaveTasks(ctx context.Context, snap *TaskSnapshot) error {
	tx, err := g.conn.Begin(ctx)
	if err != nil {
		return errors.New("opening tasks transaction error: " + err.Error())
	}
	defer tx.Rollback(ctx)

	if _, err = tx.Exec(ctx, `DELETE FROM tasks;`); err != nil {
		return errors.New("clearing tasks error: " + err.Error())
	}
	if _, err = tx.Exec(ctx, `DELETE FROM task_lists;`); err != nil {
		return errors.New("clearing task lists error: " + err.Error())
	}
	for _, list := range snap.Lists {
		_, err = tx.Exec(ctx,
			`INSERT INTO task_lists (id, name, color, view, folder, kind) VALUES ($1, $2, $3, $4, $5, $6);`,
			list.ID, list.Name, list.Color, list.View, list.Folder, list.Type,
		)
		if err != nil {
			return errors.New("inserting task list error: " + err.Error())
		}
	}
	for _, task := range snap.Tasks {
		var section *string
		if task.Section != nil {
			s := string(*task.Section)
			section = &s
		}
		_, err = tx.Exec(ctx,
			`INSERT INTO tasks (id, title, description, completed, list_id, created_at, due_date,
				priority, type, section, pinned, images)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);`,
			task.ID, task.Title, task.Description, task.Completed, task.ListID, task.CreatedAt,
			task.DueDate, task.Priority, task.Type, section, task.Pinned, task.Images,
		)
		if err != nil {
			return errors.New("inserting task error: " + err.Error())
		}
	}
	if err = tx.Commit(ctx); err != nil {
		return errors.New("committing tasks transaction error: " + err.Error())
	}
	return nil
}

func (g *Postgres) LoadHabits(ctx context.Context) (*HabitSnapshot, error) {
	snap := &HabitSnapshot{}
	rows, err := g.conn.Query(ctx, `SELECT id, name FROM habit_sections;`)
	if err != nil {
		return nil, errors.New("loading sections error: " + err.Error())
	}
	for rows.Next() {
		section := entity.Section{}
		if err = rows.Scan(&section.ID, &section.Name); err != nil {
			rows.Close()
			return nil, errors.New("section row parsing error: " + err.Error())
		}
		snap.Sections = append(snap.Sections, section)
	}
	rows.Close()
	if rows.Err() != nil {
		return nil, errors.New("unexpected section rows error: " + rows.Err().Error())
	}

	rows, err = g.conn.Query(ctx, `SELECT id, name, section, frequency, goal, start_date, end_date,
		selected_days, reminder_time, auto_popup, created_at, archived FROM habits;`)
	if err != nil {
		return nil, errors.New("loading habits error: " + err.Error())
	}
	index := make(map[uuid.UUID]int)
	for rows.Next() {
		habit := entity.Habit{}
		var reminder *string
		err = rows.Scan(&habit.ID, &habit.Name, &habit.Section, &habit.Frequency, &habit.Goal,
			&habit.StartDate, &habit.EndDate, &habit.SelectedDays, &reminder, &habit.AutoPopup,
			&habit.CreatedAt, &habit.Archived)
		if err != nil {
			rows.Close()
			return nil, errors.New("habit row parsing error: " + err.Error())
		}
		if reminder != nil {
			habit.ReminderTime = *reminder
		}
		habit.CheckIns = []entity.HabitCheckIn{}
		index[habit.ID] = len(snap.Habits)
		snap.Habits = append(snap.Habits, habit)
	}
	rows.Close()
	if rows.Err() != nil {
		return nil, errors.New("unexpected habit rows error: " + rows.Err().Error())
	}

	rows, err = g.conn.Query(ctx, `SELECT habit_id, check_date, status, notes FROM habit_check_ins ORDER BY habit_id;`)
	if err != nil {
		return nil, errors.New("loading check-ins error: " + err.Error())
	}
	for rows.Next() {
		var habitID uuid.UUID
		checkIn := entity.HabitCheckIn{}
		var notes *string
		if err = rows.Scan(&habitID, &checkIn.Date, &checkIn.Status, &notes); err != nil {
			rows.Close()
			return nil, errors.New("check-in row parsing error: " + err.Error())
		}
		if notes != nil {
			checkIn.Notes = *notes
		}
		if i, ok := index[habitID]; ok {
			snap.Habits[i].CheckIns = append(snap.Habits[i].CheckIns, checkIn)
		}
	}
	rows.Close()
	if rows.Err() != nil {
		return nil, errors.New("unexpected check-in rows error: " + rows.Err().Error())
	}

	if len(snap.Sections) == 0 && len(snap.Habits) == 0 {
		return nil, nil
	}
	return snap, nil
}

func (g *Postgres) SaveHabits(ctx context.Context, snap *HabitSnapshot) error {
	tx, err := g.conn.Begin(ctx)
	if err != nil {
		return errors.New("opening habits transaction error: " + err.Error())
	}
	defer tx.Rollback(ctx)

	if _, err = tx.Exec(ctx, `DELETE FROM habit_check_ins;`); err != nil {
		return errors.New("clearing check-ins error: " + err.Error())
	}
	if _, err = tx.Exec(ctx, `DELETE FROM habits;`); err != nil {
		return errors.New("clearing habits error: " + err.Error())
	}
	if _, err = tx.Exec(ctx, `DELETE FROM habit_sections;`); err != nil {
		return errors.New("clearing sections error: " + err.Error())
	}
	for _, section := range snap.Sections {
		_, err = tx.Exec(ctx, `INSERT INTO habit_sections (id, name) VALUES ($1, $2);`, section.ID, section.Name)
		if err != nil {
			return errors.New("inserting section error: " + err.Error())
		}
	}
	for _, habit := range snap.Habits {
		_, err = tx.Exec(ctx,
			`INSERT INTO habits (id, name, section, frequency, goal, start_date, end_date,
				selected_days, reminder_time, auto_popup, created_at, archived)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);`,
			habit.ID, habit.Name, habit.Section, habit.Frequency, habit.Goal, habit.StartDate,
			habit.EndDate, habit.SelectedDays, habit.ReminderTime, habit.AutoPopup,
			habit.CreatedAt, habit.Archived,
		)
		if err != nil {
			return errors.New("inserting habit error: " + err.Error())
		}
		for _, checkIn := range habit.CheckIns {
			_, err = tx.Exec(ctx,
				`INSERT INTO habit_check_ins (habit_id, check_date, status, notes) VALUES ($1, $2, $3, $4);`,
				habit.ID, checkIn.Date, checkIn.Status, checkIn.Notes,
			)
			if err != nil {
				return errors.New("inserting check-in error: " + err.Error())
			}
		}
	}
	if err = tx.Commit(ctx); err != nil {
		return errors.New("committing habits transaction error: " + err.Error())
	}
	return nil
}
