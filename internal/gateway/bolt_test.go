package gateway

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	bolt "go.etcd.io/bbolt"

	errorvalues "github.com/limbo/tickdone/internal/error_values"
	"github.com/limbo/tickdone/pkg/entity"
)

func openTestBolt(t *testing.T) *Bolt {
	t.Helper()
	gw, err := OpenBolt(filepath.Join(t.TempDir(), "data", "snapshots.db"))
	require.NoError(t, err)
	t.Cleanup(func() { gw.db.Close() })
	return gw
}

func TestBoltLoadBeforeFirstSave(t *testing.T) {
	gw := openTestBolt(t)
	ctx := context.Background()

	tasks, err := gw.LoadTasks(ctx)
	require.NoError(t, err)
	assert.Nil(t, tasks, "absent snapshot loads as nil")

	habits, err := gw.LoadHabits(ctx)
	require.NoError(t, err)
	assert.Nil(t, habits)
}

func TestBoltTaskRoundTrip(t *testing.T) {
	gw := openTestBolt(t)
	ctx := context.Background()

	listID := uuid.New()
	due := time.Date(2025, time.July, 20, 0, 0, 0, 0, time.UTC)
	section := entity.SectionGettingStart
	snap := &TaskSnapshot{
		Lists: []entity.TaskList{
			{ID: listID, Name: "Work", Color: "#F59E0B", View: entity.ViewBoard, Type: entity.ListKind},
		},
		Tasks: []entity.Task{
			{
				ID:        uuid.New(),
				Title:     "ship release",
				ListID:    listID,
				CreatedAt: time.Date(2025, time.July, 10, 9, 0, 0, 0, time.UTC),
				DueDate:   &due,
				Priority:  entity.PriorityUrgentImportant,
				Type:      entity.TypeTask,
				Section:   &section,
				Pinned:    true,
			},
		},
	}
	require.NoError(t, gw.SaveTasks(ctx, snap))

	loaded, err := gw.LoadTasks(ctx)
	require.NoError(t, err)
	assert.Equal(t, snap, loaded)

	// The last save wins.
	snap.Tasks[0].Completed = true
	require.NoError(t, gw.SaveTasks(ctx, snap))
	loaded, err = gw.LoadTasks(ctx)
	require.NoError(t, err)
	assert.True(t, loaded.Tasks[0].Completed)
}

func TestBoltHabitRoundTrip(t *testing.T) {
	gw := openTestBolt(t)
	ctx := context.Background()

	sectionID := uuid.New()
	snap := &HabitSnapshot{
		Sections: []entity.Section{{ID: sectionID, Name: "Morning"}},
		Habits: []entity.Habit{
			{
				ID:           uuid.New(),
				Name:         "morning run",
				Section:      sectionID,
				Frequency:    entity.FrequencyCustom,
				SelectedDays: []int{1, 3, 5},
				Goal:         entity.GoalAchieveItAll,
				StartDate:    time.Date(2025, time.July, 1, 0, 0, 0, 0, time.UTC),
				CheckIns: []entity.HabitCheckIn{
					{
						Date:   time.Date(2025, time.July, 2, 0, 0, 0, 0, time.UTC),
						Status: entity.StatusCompleted,
						Notes:  "5km",
					},
				},
				ReminderTime: "06:30",
				CreatedAt:    time.Date(2025, time.July, 1, 0, 0, 0, 0, time.UTC),
			},
		},
	}
	require.NoError(t, gw.SaveHabits(ctx, snap))

	loaded, err := gw.LoadHabits(ctx)
	require.NoError(t, err)
	assert.Equal(t, snap, loaded)
}

func TestBoltCollectionsAreIndependent(t *testing.T) {
	gw := openTestBolt(t)
	ctx := context.Background()

	require.NoError(t, gw.SaveTasks(ctx, &TaskSnapshot{
		Lists: []entity.TaskList{{ID: uuid.New(), Name: "Memo", Color: "#EC4899", View: entity.ViewList, Type: entity.ListKind}},
	}))

	habits, err := gw.LoadHabits(ctx)
	require.NoError(t, err)
	assert.Nil(t, habits, "task saves must not touch the habit snapshot")
}

func TestBoltCorruptedSnapshot(t *testing.T) {
	gw := openTestBolt(t)
	err := gw.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(snapshotBucket).Put(tasksKey, []byte("{not json"))
	})
	require.NoError(t, err)

	_, err = gw.LoadTasks(context.Background())
	assert.ErrorIs(t, err, errorvalues.ErrSnapshotCorrupted)
}

func TestBoltHonorsCanceledContext(t *testing.T) {
	gw := openTestBolt(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.Error(t, gw.SaveTasks(ctx, &TaskSnapshot{}))
	_, err := gw.LoadTasks(ctx)
	assert.Error(t, err)
}
