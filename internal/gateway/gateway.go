// Package gateway persists whole task and habit collections. Stores treat
// it as best-effort mirroring: Load rehydrates once at startup, Save
// replaces the durable copy after every mutation.
package gateway

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/limbo/tickdone/pkg/entity"
)

type TaskSnapshot struct {
	Lists []entity.TaskList `json:"lists"`
	Tasks []entity.Task     `json:"tasks"`
}

type HabitSnapshot struct {
	Sections []entity.Section `json:"sections"`
	Habits   []entity.Habit   `json:"habits"`
}

type TaskGateway interface {
	// Loads the persisted task collection. A nil snapshot with nil error
	// means nothing has been persisted yet.
	LoadTasks(ctx context.Context) (*TaskSnapshot, error)
	// Replaces the persisted task collection entirely.
	SaveTasks(ctx context.Context, snap *TaskSnapshot) error
}

type HabitGateway interface {
	// Loads the persisted habit collection. A nil snapshot with nil error
	// means nothing has been persisted yet.
	LoadHabits(ctx context.Context) (*HabitSnapshot, error)
	// Replaces the persisted habit collection entirely.
	SaveHabits(ctx context.Context, snap *HabitSnapshot) error
}

type DBConfig interface {
	ConnString() string
}

type PgConnection interface {
	Ping(ctx context.Context) error
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Begin(ctx context.Context) (pgx.Tx, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type PGCfg struct {
	Address  string
	Username string
	Password string
	DB       string
}

func (pgcfg *PGCfg) ConnString() string {
	return fmt.Sprintf("postgresql://%s:%s@%s/%s", pgcfg.Username, pgcfg.Password, pgcfg.Address, pgcfg.DB)
}
