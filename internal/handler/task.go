package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/BuzzLyutic/task-tracker-api/internal/model"
	"github.com/BuzzLyutic/task-tracker-api/internal/repo"
	"github.com/BuzzLyutic/task-tracker-api/internal/schema"
	"github.com/BuzzLyutic/task-tracker-api/internal/service"
	"github.com/BuzzLyutic/task-tracker-api/pkg/respond"
)

const TasksPath = "/api/v1/tasks"

type TaskHandler struct {
	service *service.TaskService
	logger  *zap.Logger
}

func NewTaskHandler(srv *service.TaskService, logger *zap.Logger) *TaskHandler {
	return &TaskHandler{
		service: srv,
		logger:  logger,
	}
}

func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	filter, problem := parseFilter(r)
	if problem != nil {
		respond.Problems(w, r, http.StatusUnprocessableEntity, []schema.FieldError{*problem})
		return
	}

	tasks, err := h.service.List(r.Context(), filter)
	if err != nil {
		h.handleErrors(w, r, err)
		return
	}
	respond.JSON(w, r, http.StatusOK, tasks)
}

func (h *TaskHandler) Get(w http.ResponseWriter, r *http.Request) {
	task, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.handleErrors(w, r, err)
		return
	}
	respond.JSON(w, r, http.StatusOK, task)
}

func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	in, err := schema.DecodeCreate(r.Body)
	if err != nil {
		h.logger.Debug("rejected task body", zap.Error(err))
		h.handleErrors(w, r, err)
		return
	}

	task, err := h.service.Create(r.Context(), in)
	if err != nil {
		h.handleErrors(w, r, err)
		return
	}

	w.Header().Set("Location", fmt.Sprintf("%s/%s", TasksPath, task.ID))
	respond.JSON(w, r, http.StatusCreated, task)
}

func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	in, err := schema.DecodeUpdate(r.Body)
	if err != nil {
		h.logger.Debug("rejected task body", zap.Error(err))
		h.handleErrors(w, r, err)
		return
	}

	task, err := h.service.Update(r.Context(), chi.URLParam(r, "id"), in)
	if errors.Is(err, repo.ErrorNotFound) {
		respond.Error(w, r, http.StatusNotFound, "Task not found or invalid id")
		return
	}
	if err != nil {
		h.handleErrors(w, r, err)
		return
	}
	respond.JSON(w, r, http.StatusOK, task)
}

func (h *TaskHandler) handleErrors(w http.ResponseWriter, r *http.Request, err error) {
	var ve *schema.ValidationError
	switch {
	case errors.Is(err, repo.ErrorNotFound):
		respond.Error(w, r, http.StatusNotFound, "Task not found")
	case errors.As(err, &ve):
		respond.Problems(w, r, http.StatusUnprocessableEntity, ve.Errors)
	case errors.Is(err, service.ErrValidation):
		respond.Problems(w, r, http.StatusUnprocessableEntity, []schema.FieldError{{Message: err.Error()}})
	default:
		h.logger.Error("internal error", zap.Error(err), zap.String("path", r.URL.Path))
		respond.Error(w, r, http.StatusInternalServerError, "internal error")
	}
}

func parseFilter(r *http.Request) (model.TaskFilter, *schema.FieldError) {
	var filter model.TaskFilter
	q := r.URL.Query()

	if v := q.Get("status"); v != "" {
		st, err := model.ParseStatus(v)
		if err != nil {
			return filter, &schema.FieldError{Field: "status", Message: err.Error()}
		}
		filter.Status = &st
	}

	for _, p := range []struct {
		name string
		dst  **time.Time
	}{
		{"from_due", &filter.FromDue},
		{"to_due", &filter.ToDue},
	} {
		v := q.Get(p.name)
		if v == "" {
			continue
		}
		ts, err := parseQueryTime(v)
		if err != nil {
			return filter, &schema.FieldError{Field: p.name, Message: err.Error()}
		}
		*p.dst = &ts
	}
	return filter, nil
}

func parseQueryTime(v string) (time.Time, error) {
	// незакодированный "+" в query превращается в пробел
	return model.ParseTimestamp(strings.ReplaceAll(v, " ", "+"))
}
