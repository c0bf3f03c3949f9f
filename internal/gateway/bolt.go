package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"

	errorvalues "github.com/limbo/tickdone/internal/error_values"
	"github.com/limbo/tickdone/pkg/cleanup"
)

var (
	snapshotBucket = []byte("snapshots")
	tasksKey       = []byte("tasks")
	habitsKey      = []byte("habits")
)

// Bolt keeps both collections as JSON values in a single local file,
// one key per collection. Dates round-trip as RFC 3339 through the
// standard JSON encoding of time.Time.
type Bolt struct {
	db *bolt.DB
}

// OpenBolt initializes the database file and ensures the snapshot bucket
// exists. Closing the file is registered as a cleanup job.
func OpenBolt(path string) (*Bolt, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, err
	}
	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(snapshotBucket)
		return err
	}); err != nil {
		db.Close()
		return nil, err
	}
	gw := &Bolt{db: db}
	cleanup.Register(&cleanup.Job{
		Name: "closing snapshot file",
		F:    db.Close,
	})
	return gw, nil
}

func (g *Bolt) LoadTasks(ctx context.Context) (*TaskSnapshot, error) {
	var snap *TaskSnapshot
	err := g.load(ctx, tasksKey, &snap)
	if err != nil {
		return nil, err
	}
	return snap, nil
}

func (g *Bolt) SaveTasks(ctx context.Context, snap *TaskSnapshot) error {
	return g.save(ctx, tasksKey, snap)
}

func (g *Bolt) LoadHabits(ctx context.Context) (*HabitSnapshot, error) {
	var snap *HabitSnapshot
	err := g.load(ctx, habitsKey, &snap)
	if err != nil {
		return nil, err
	}
	return snap, nil
}

func (g *Bolt) SaveHabits(ctx context.Context, snap *HabitSnapshot) error {
	return g.save(ctx, habitsKey, snap)
}

func (g *Bolt) load(ctx context.Context, key []byte, dst any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return g.db.View(func(tx *bolt.Tx) error {
		payload := tx.Bucket(snapshotBucket).Get(key)
		if payload == nil {
			return nil
		}
		if err := json.Unmarshal(payload, dst); err != nil {
			return errors.Join(errorvalues.ErrSnapshotCorrupted, err)
		}
		return nil
	})
}

func (g *Bolt) save(ctx context.Context, key []byte, snap any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	payload, err := json.Marshal(snap)
	if err != nil {
		return errors.New("encoding snapshot error: " + err.Error())
	}
	return g.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(snapshotBucket).Put(key, payload)
	})
}
