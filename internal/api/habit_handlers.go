package api

import (
	"context"
	"net/http"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"

	"github.com/limbo/tickdone/internal/store"
	"github.com/limbo/tickdone/pkg/entity"
	"github.com/limbo/tickdone/pkg/httputil"
)

func (s *Server) GetHabits(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	filter := store.HabitFilter{}
	query := r.URL.Query()
	if raw := query.Get("section"); raw != "" {
		sectionID, err := uuid.Parse(raw)
		if err != nil {
			logger.Error("get habits error: invalid section id")
			httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid section id", nil)
			return
		}
		filter.Section = &sectionID
	}
	filter.Archived = query.Get("archived") == "true"
	httputil.WriteJSONResponse(w, http.StatusOK, s.habits.Habits(filter))
}

func (s *Server) CreateHabit(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	var req store.CreateHabitRequest
	defer r.Body.Close()
	if err := sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Error("create habit error: invalid request body")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), handlerTimeout)
	defer cancel()
	habit, err := s.habits.AddHabit(ctx, &req)
	if err != nil {
		writeStoreError(w, logger, "create habit", err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusCreated, habit)
	logger.Info("habit created")
}

func (s *Server) GetHabit(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	id, err := pathID(r)
	if err != nil {
		logger.Error("get habit error: invalid id in path value")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid habit id in path value", nil)
		return
	}
	habit, err := s.habits.GetHabit(id)
	if err != nil {
		writeStoreError(w, logger, "get habit", err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, habit)
}

func (s *Server) UpdateHabit(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	id, err := pathID(r)
	if err != nil {
		logger.Error("update habit error: invalid id in path value")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid habit id in path value", nil)
		return
	}
	var upd store.HabitUpdate
	defer r.Body.Close()
	if err = sonic.ConfigDefault.NewDecoder(r.Body).Decode(&upd); err != nil {
		logger.Error("update habit error: invalid request body")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), handlerTimeout)
	defer cancel()
	habit, err := s.habits.UpdateHabit(ctx, id, &upd)
	if err != nil {
		writeStoreError(w, logger, "update habit", err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, habit)
	logger.Info("habit updated")
}

func (s *Server) DeleteHabit(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	id, err := pathID(r)
	if err != nil {
		logger.Error("habit deletion error: invalid id in path value")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid habit id in path value", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), handlerTimeout)
	defer cancel()
	if err = s.habits.DeleteHabit(ctx, id); err != nil {
		writeStoreError(w, logger, "habit deletion", err)
		return
	}
	httputil.WriteNoContent(w)
	logger.Info("habit deleted")
}

func (s *Server) ArchiveHabit(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	id, err := pathID(r)
	if err != nil {
		logger.Error("archive habit error: invalid id in path value")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid habit id in path value", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), handlerTimeout)
	defer cancel()
	if err = s.habits.ArchiveHabit(ctx, id); err != nil {
		writeStoreError(w, logger, "archive habit", err)
		return
	}
	httputil.WriteNoContent(w)
	logger.Info("habit archived")
}

func (s *Server) CheckInHabit(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	id, err := pathID(r)
	if err != nil {
		logger.Error("check-in error: invalid id in path value")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid habit id in path value", nil)
		return
	}
	var req struct {
		Date   time.Time            `json:"date"`
		Status entity.CheckInStatus `json:"status"`
		Notes  string               `json:"notes,omitempty"`
	}
	defer r.Body.Close()
	if err = sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Error("check-in error: invalid request body")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	if req.Date.IsZero() {
		logger.Error("check-in error: missing date")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "date is required", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), handlerTimeout)
	defer cancel()
	habit, err := s.habits.CheckInHabit(ctx, id, req.Date, req.Status, req.Notes)
	if err != nil {
		writeStoreError(w, logger, "check-in", err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, habit)
	logger.Info("habit checked in")
}

func (s *Server) GetHabitStats(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	id, err := pathID(r)
	if err != nil {
		logger.Error("habit stats error: invalid id in path value")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid habit id in path value", nil)
		return
	}
	habitStats, err := s.habits.Stats(id)
	if err != nil {
		writeStoreError(w, logger, "habit stats", err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, habitStats)
}

func (s *Server) GetSections(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSONResponse(w, http.StatusOK, s.habits.Sections())
}

func (s *Server) CreateSection(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	var req struct {
		Name string `json:"name"`
	}
	defer r.Body.Close()
	if err := sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Error("create section error: invalid request body")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), handlerTimeout)
	defer cancel()
	section, err := s.habits.AddSection(ctx, req.Name)
	if err != nil {
		writeStoreError(w, logger, "create section", err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusCreated, section)
	logger.Info("section created")
}
