package http

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	accountdomain "github.com/pmorel/tasklane/internal/account/domain"
	"github.com/pmorel/tasklane/internal/common/config"
	commonhttp "github.com/pmorel/tasklane/internal/common/http"
	"github.com/pmorel/tasklane/internal/common/jwtverify"
	"github.com/pmorel/tasklane/internal/common/logger"
	"github.com/pmorel/tasklane/internal/task/domain"
	"github.com/pmorel/tasklane/internal/task/service"
)

type createTaskRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	DueDate     string `json:"dueDate"`
	Priority    string `json:"priority"`
}

type updateTaskRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Completed   *bool   `json:"completed"`
	DueDate     *string `json:"dueDate"`
	Priority    *string `json:"priority"`
}

type taskResponse struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Completed   bool       `json:"completed"`
	DueDate     *time.Time `json:"dueDate"`
	Priority    string     `json:"priority"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
	UserID      string     `json:"userId"`
}

type deleteResponse struct {
	Success bool `json:"success"`
}

type Handler struct {
	tasks   *service.TaskService
	errors  *commonhttp.ErrorHandler
	log     *logger.Logger
	timeout time.Duration
}

func NewHandler(tasks *service.TaskService, cfg config.Config, log *logger.Logger) http.Handler {
	h := &Handler{
		tasks:   tasks,
		errors:  commonhttp.NewErrorHandler(log),
		log:     log,
		timeout: cfg.RequestTimeout,
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/tasks", h.collection)
	mux.HandleFunc("/tasks/", h.item)
	return mux
}

func (h *Handler) collection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.list(w, r)
	case http.MethodPost:
		h.create(w, r)
	default:
		commonhttp.WriteErrorEnvelope(w, http.StatusMethodNotAllowed, commonhttp.CodeMethodNotAllowed, "method not allowed", nil, "")
	}
}

func (h *Handler) item(w http.ResponseWriter, r *http.Request) {
	taskID, ok := parseTaskID(r.URL.Path)
	if !ok {
		commonhttp.WriteErrorEnvelope(w, http.StatusBadRequest, commonhttp.CodeInvalidTaskID, "invalid task id", nil, "")
		return
	}

	switch r.Method {
	case http.MethodPatch:
		h.update(w, r, taskID)
	case http.MethodDelete:
		h.delete(w, r, taskID)
	default:
		commonhttp.WriteErrorEnvelope(w, http.StatusMethodNotAllowed, commonhttp.CodeMethodNotAllowed, "method not allowed", nil, "")
	}
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityFromRequest(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	tasks, err := h.tasks.List(ctx, identity)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	out := make([]taskResponse, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, toTaskResponse(t))
	}

	commonhttp.WriteJSON(w, http.StatusOK, out)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityFromRequest(w, r)
	if !ok {
		return
	}

	var req createTaskRequest
	if err := commonhttp.DecodeJSON(r, &req); err != nil {
		h.log.Warnf("task create failed: invalid json: %v", err)
		commonhttp.WriteErrorEnvelope(w, http.StatusBadRequest, commonhttp.CodeInvalidJSON, "invalid json", nil, "")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	task, err := h.tasks.Create(ctx, identity, service.CreateInput{
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
		Priority:    req.Priority,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	commonhttp.WriteJSON(w, http.StatusCreated, toTaskResponse(task))
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request, taskID int64) {
	identity, ok := identityFromRequest(w, r)
	if !ok {
		return
	}

	var req updateTaskRequest
	if err := commonhttp.DecodeJSON(r, &req); err != nil {
		h.log.Warnf("task update failed: invalid json: %v", err)
		commonhttp.WriteErrorEnvelope(w, http.StatusBadRequest, commonhttp.CodeInvalidJSON, "invalid json", nil, "")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	task, err := h.tasks.Update(ctx, identity, taskID, service.UpdateInput{
		Title:       req.Title,
		Description: req.Description,
		Completed:   req.Completed,
		DueDate:     req.DueDate,
		Priority:    req.Priority,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	commonhttp.WriteJSON(w, http.StatusOK, toTaskResponse(task))
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request, taskID int64) {
	identity, ok := identityFromRequest(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	if err := h.tasks.Delete(ctx, identity, taskID); err != nil {
		h.writeError(w, r, err)
		return
	}

	commonhttp.WriteJSON(w, http.StatusOK, deleteResponse{Success: true})
}

// writeError collapses the not-owner classification into the not-found
// response so existing ids owned by other accounts are not probeable.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, service.ErrTaskForbidden) {
		h.errors.HandleError(w, r, service.ErrTaskNotFound)
		return
	}
	h.errors.HandleError(w, r, err)
}

func identityFromRequest(w http.ResponseWriter, r *http.Request) (accountdomain.Identity, bool) {
	claims, ok := jwtverify.FromContext(r.Context())
	if !ok {
		// Only reachable if a route was wired without the resolver.
		commonhttp.WriteErrorEnvelope(w, http.StatusUnauthorized, commonhttp.CodeMissingAuth, "missing or invalid authorization", nil, "")
		return accountdomain.Identity{}, false
	}
	return accountdomain.Identity{
		AccountID: accountdomain.ID(claims.AccountID),
		Email:     claims.Email,
	}, true
}

func parseTaskID(path string) (int64, bool) {
	rest := strings.TrimPrefix(path, "/tasks/")
	if rest == "" || strings.Contains(rest, "/") {
		return 0, false
	}
	id, err := strconv.ParseInt(rest, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func toTaskResponse(t domain.Task) taskResponse {
	return taskResponse{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Completed:   t.Completed,
		DueDate:     t.DueDate,
		Priority:    string(t.Priority),
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
		UserID:      string(t.OwnerID),
	}
}
