package gateway

import "context"

// Memory holds snapshots in process memory. Used as a test fake and as
// the backend for ephemeral runs with no storage configured.
type Memory struct {
	tasks  *TaskSnapshot
	habits *HabitSnapshot

	// FailSaves makes every Save return this error, for exercising the
	// best-effort persistence contract.
	FailSaves error
}

func NewMemory() *Memory {
	return &Memory{}
}

func (g *Memory) LoadTasks(ctx context.Context) (*TaskSnapshot, error) {
	return g.tasks, nil
}

func (g *Memory) SaveTasks(ctx context.Context, snap *TaskSnapshot) error {
	if g.FailSaves != nil {
		return g.FailSaves
	}
	g.tasks = snap
	return nil
}

func (g *Memory) LoadHabits(ctx context.Context) (*HabitSnapshot, error) {
	return g.habits, nil
}

func (g *Memory) SaveHabits(ctx context.Context, snap *HabitSnapshot) error {
	if g.FailSaves != nil {
		return g.FailSaves
	}
	g.habits = snap
	return nil
}
