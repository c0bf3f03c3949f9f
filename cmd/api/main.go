// @title tickdone API
// @description API for the personal task & habit tracker "tickdone"
// @BasePath /api/v1
// @schemes http
package main

import (
	"context"
	"log"
	"log/slog"

	"github.com/limbo/tickdone/internal/api"
	"github.com/limbo/tickdone/internal/gateway"
	"github.com/limbo/tickdone/internal/reminder"
	"github.com/limbo/tickdone/internal/store"
	"github.com/limbo/tickdone/pkg/cleanup"
	"github.com/limbo/tickdone/pkg/config"
	jwtservice "github.com/limbo/tickdone/pkg/jwt_service"
)

func init() {
	store.InitValidator()
}

func main() {
	defer cleanup.CleanUp()
	cfg := config.New()

	var taskGW gateway.TaskGateway
	var habitGW gateway.HabitGateway
	switch cfg.GetStringOr("STORAGE_BACKEND", "bolt") {
	case "postgres":
		pg := gateway.NewPostgres(&gateway.PGCfg{
			Address:  cfg.GetString("POSTGRES_DB_ADDRESS"),
			Username: cfg.GetString("POSTGRES_USER"),
			Password: cfg.GetString("POSTGRES_PASSWORD"),
			DB:       cfg.GetString("POSTGRES_DB"),
		})
		taskGW, habitGW = pg, pg
	case "memory":
		mem := gateway.NewMemory()
		taskGW, habitGW = mem, mem
	default:
		bolt, err := gateway.OpenBolt(cfg.GetStringOr("SNAPSHOT_PATH", "./data/tickdone.db"))
		if err != nil {
			log.Fatal("opening snapshot file error: " + err.Error())
		}
		taskGW, habitGW = bolt, bolt
	}

	logger := slog.Default()
	tasks := store.NewTaskStore(taskGW, logger)
	habits := store.NewHabitStore(habitGW, logger)
	ctx := context.Background()
	if err := tasks.Load(ctx); err != nil {
		logger.Error("task store started from seed data", slog.String("error", err.Error()))
	}
	if err := habits.Load(ctx); err != nil {
		logger.Error("habit store started from seed data", slog.String("error", err.Error()))
	}

	reminders := reminder.New(habits, nil, logger)
	reminders.Start()
	defer reminders.Stop(ctx)

	serv := api.New(&api.Options{
		Tasks:      tasks,
		Habits:     habits,
		JwtService: jwtservice.New(cfg.GetString("JWT_SECRET")),
		AccessKey:  cfg.GetString("ACCESS_KEY"),
	})
	if err := serv.Run(cfg.GetStringOr("API_ADDRESS", ":8080")); err != nil {
		logger.Error("server error", slog.String("error", err.Error()))
	}
}
