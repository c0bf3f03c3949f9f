package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"

	errorvalues "github.com/limbo/tickdone/internal/error_values"
	"github.com/limbo/tickdone/internal/store"
	"github.com/limbo/tickdone/pkg/entity"
	"github.com/limbo/tickdone/pkg/httputil"
)

const handlerTimeout = time.Second * 10

// writeStoreError maps the store's sentinel errors onto HTTP statuses:
// not-found conditions are 404, validation problems 400, duplicate
// sections 409, anything else 500.
func writeStoreError(w http.ResponseWriter, logger *slog.Logger, op string, err error) {
	switch {
	case errors.Is(err, errorvalues.ErrTaskNotFound),
		errors.Is(err, errorvalues.ErrListNotFound),
		errors.Is(err, errorvalues.ErrHabitNotFound),
		errors.Is(err, errorvalues.ErrSectionNotFound):
		logger.Error(op + " error: entity not found")
		httputil.WriteErrorResponse(w, http.StatusNotFound, err.Error(), nil)
	case errors.Is(err, errorvalues.ErrValidation),
		errors.Is(err, errorvalues.ErrInvalidStatus),
		errors.Is(err, errorvalues.ErrCustomDateRequired),
		errors.Is(err, errorvalues.ErrEndBeforeStart):
		logger.Error(op+" error: invalid request", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "missing or invalid fields", err)
	case errors.Is(err, errorvalues.ErrSectionExists):
		logger.Error(op + " error: duplicate section")
		httputil.WriteErrorResponse(w, http.StatusConflict, err.Error(), nil)
	default:
		logger.Error(op+" error: store error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error", nil)
	}
}

func pathID(r *http.Request) (uuid.UUID, error) {
	return uuid.Parse(r.PathValue("id"))
}

func (s *Server) GetTasks(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	filter := store.TaskFilter{Window: store.WindowAll}
	query := r.URL.Query()
	if window := query.Get("window"); window != "" {
		filter.Window = store.Window(window)
	}
	if raw := query.Get("listId"); raw != "" {
		listID, err := uuid.Parse(raw)
		if err != nil {
			logger.Error("get tasks error: invalid listId")
			httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid listId", nil)
			return
		}
		filter.ListID = &listID
	}
	if raw := query.Get("section"); raw != "" {
		section := entity.TaskSection(raw)
		filter.Section = &section
	}
	if raw := query.Get("type"); raw != "" {
		taskType := entity.TaskType(raw)
		filter.Type = &taskType
	}
	httputil.WriteJSONResponse(w, http.StatusOK, s.tasks.Tasks(filter))
}

func (s *Server) CreateTask(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	var req store.CreateTaskRequest
	defer r.Body.Close()
	if err := sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Error("create task error: invalid request body")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), handlerTimeout)
	defer cancel()
	task, err := s.tasks.AddTask(ctx, &req)
	if err != nil {
		writeStoreError(w, logger, "create task", err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusCreated, task)
	logger.Info("task created")
}

func (s *Server) GetTask(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	id, err := pathID(r)
	if err != nil {
		logger.Error("get task error: invalid id in path value")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid task id in path value", nil)
		return
	}
	task, err := s.tasks.GetTask(id)
	if err != nil {
		writeStoreError(w, logger, "get task", err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, task)
}

func (s *Server) UpdateTask(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	id, err := pathID(r)
	if err != nil {
		logger.Error("update task error: invalid id in path value")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid task id in path value", nil)
		return
	}
	var upd store.TaskUpdate
	defer r.Body.Close()
	if err = sonic.ConfigDefault.NewDecoder(r.Body).Decode(&upd); err != nil {
		logger.Error("update task error: invalid request body")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), handlerTimeout)
	defer cancel()
	task, err := s.tasks.UpdateTask(ctx, id, &upd)
	if err != nil {
		writeStoreError(w, logger, "update task", err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, task)
	logger.Info("task updated")
}

func (s *Server) DeleteTask(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	id, err := pathID(r)
	if err != nil {
		logger.Error("delete task error: invalid id in path value")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid task id in path value", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), handlerTimeout)
	defer cancel()
	if err = s.tasks.DeleteTask(ctx, id); err != nil {
		writeStoreError(w, logger, "delete task", err)
		return
	}
	httputil.WriteNoContent(w)
	logger.Info("task deleted")
}

func (s *Server) CompleteTask(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	id, err := pathID(r)
	if err != nil {
		logger.Error("complete task error: invalid id in path value")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid task id in path value", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), handlerTimeout)
	defer cancel()
	task, err := s.tasks.CompleteTask(ctx, id)
	if err != nil {
		writeStoreError(w, logger, "complete task", err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, task)
	logger.Info("task completion toggled")
}

func (s *Server) SetTaskDueDate(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	id, err := pathID(r)
	if err != nil {
		logger.Error("set due date error: invalid id in path value")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid task id in path value", nil)
		return
	}
	var req struct {
		Preset store.DueDatePreset `json:"preset"`
		Date   *time.Time          `json:"date,omitempty"`
	}
	defer r.Body.Close()
	if err = sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Error("set due date error: invalid request body")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), handlerTimeout)
	defer cancel()
	task, err := s.tasks.SetTaskDueDate(ctx, id, req.Preset, req.Date)
	if err != nil {
		writeStoreError(w, logger, "set due date", err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, task)
	logger.Info("task due date set")
}

func (s *Server) UpdateTaskPriority(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	id, err := pathID(r)
	if err != nil {
		logger.Error("update priority error: invalid id in path value")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid task id in path value", nil)
		return
	}
	var req struct {
		Priority entity.TaskPriority `json:"priority"`
	}
	defer r.Body.Close()
	if err = sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Error("update priority error: invalid request body")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), handlerTimeout)
	defer cancel()
	task, err := s.tasks.UpdateTaskPriority(ctx, id, req.Priority)
	if err != nil {
		writeStoreError(w, logger, "update priority", err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, task)
	logger.Info("task priority updated")
}

func (s *Server) PinTask(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	id, err := pathID(r)
	if err != nil {
		logger.Error("pin task error: invalid id in path value")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid task id in path value", nil)
		return
	}
	var req struct {
		Pinned bool `json:"pinned"`
	}
	defer r.Body.Close()
	if err = sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Error("pin task error: invalid request body")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), handlerTimeout)
	defer cancel()
	task, err := s.tasks.PinTask(ctx, id, req.Pinned)
	if err != nil {
		writeStoreError(w, logger, "pin task", err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, task)
}

func (s *Server) ConvertTaskType(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	id, err := pathID(r)
	if err != nil {
		logger.Error("convert task error: invalid id in path value")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid task id in path value", nil)
		return
	}
	var req struct {
		Type entity.TaskType `json:"type"`
	}
	defer r.Body.Close()
	if err = sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Error("convert task error: invalid request body")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), handlerTimeout)
	defer cancel()
	task, err := s.tasks.ConvertTaskType(ctx, id, req.Type)
	if err != nil {
		writeStoreError(w, logger, "convert task", err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, task)
	logger.Info("task type converted")
}

func (s *Server) SetTaskSection(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	id, err := pathID(r)
	if err != nil {
		logger.Error("set section error: invalid id in path value")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid task id in path value", nil)
		return
	}
	var req struct {
		Section *entity.TaskSection `json:"section"`
	}
	defer r.Body.Close()
	if err = sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Error("set section error: invalid request body")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), handlerTimeout)
	defer cancel()
	task, err := s.tasks.SetTaskSection(ctx, id, req.Section)
	if err != nil {
		writeStoreError(w, logger, "set section", err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, task)
}

func (s *Server) GetLists(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSONResponse(w, http.StatusOK, s.tasks.Lists())
}

func (s *Server) CreateList(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	var req store.CreateListRequest
	defer r.Body.Close()
	if err := sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Error("create list error: invalid request body")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), handlerTimeout)
	defer cancel()
	list, err := s.tasks.AddList(ctx, &req)
	if err != nil {
		writeStoreError(w, logger, "create list", err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusCreated, list)
	logger.Info("list created")
}

func (s *Server) UpdateList(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	id, err := pathID(r)
	if err != nil {
		logger.Error("update list error: invalid id in path value")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid list id in path value", nil)
		return
	}
	var upd store.ListUpdate
	defer r.Body.Close()
	if err = sonic.ConfigDefault.NewDecoder(r.Body).Decode(&upd); err != nil {
		logger.Error("update list error: invalid request body")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), handlerTimeout)
	defer cancel()
	list, err := s.tasks.UpdateList(ctx, id, &upd)
	if err != nil {
		writeStoreError(w, logger, "update list", err)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, list)
	logger.Info("list updated")
}

func (s *Server) DeleteList(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	id, err := pathID(r)
	if err != nil {
		logger.Error("delete list error: invalid id in path value")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid list id in path value", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), handlerTimeout)
	defer cancel()
	if err = s.tasks.DeleteList(ctx, id); err != nil {
		writeStoreError(w, logger, "delete list", err)
		return
	}
	httputil.WriteNoContent(w)
	logger.Info("list deleted with its tasks")
}
