package tasks

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/taskdeck/taskdeck/internal/platform/httpx"
	"github.com/taskdeck/taskdeck/internal/shared"
)

// Handler wires the ownership-scoped task CRUD endpoints. All routes assume
// the identity middleware already stored a principal in the context.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	validator *validator.Validate
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{
		logger:    logger,
		service:   service,
		validator: validator.New(),
	}
}

// MountRoutes registers task routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Get("/{id}", h.show)
	r.Patch("/{id}", h.update)
	r.Delete("/{id}", h.remove)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	principal, ok := shared.PrincipalFromContext(r.Context())
	if !ok {
		httpx.Unauthorized(w)
		return
	}

	var req CreateTaskRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "malformed JSON body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusUnprocessableEntity, "Validation Failed", err.Error())
		return
	}

	task, err := h.service.Create(r.Context(), principal.UserID, req)
	if err != nil {
		h.logger.Error("create task", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	httpx.JSON(w, http.StatusCreated, task)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	principal, ok := shared.PrincipalFromContext(r.Context())
	if !ok {
		httpx.Unauthorized(w)
		return
	}

	req, err := parseListRequest(r)
	if err != nil {
		httpx.Problem(w, http.StatusUnprocessableEntity, "Validation Failed", err.Error())
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusUnprocessableEntity, "Validation Failed", err.Error())
		return
	}

	items, total, err := h.service.List(r.Context(), principal.UserID, req)
	if err != nil {
		h.logger.Error("list tasks", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	if items == nil {
		items = []Task{}
	}
	httpx.JSON(w, http.StatusOK, ListTasksResponse{Items: items, Total: total})
}

func (h *Handler) show(w http.ResponseWriter, r *http.Request) {
	principal, ok := shared.PrincipalFromContext(r.Context())
	if !ok {
		httpx.Unauthorized(w)
		return
	}
	id, err := taskID(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid task id")
		return
	}

	task, err := h.service.Get(r.Context(), principal.UserID, id)
	if err != nil {
		h.respondServiceError(w, err, "get task")
		return
	}
	httpx.JSON(w, http.StatusOK, task)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	principal, ok := shared.PrincipalFromContext(r.Context())
	if !ok {
		httpx.Unauthorized(w)
		return
	}
	id, err := taskID(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid task id")
		return
	}

	var req UpdateTaskRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "malformed JSON body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusUnprocessableEntity, "Validation Failed", err.Error())
		return
	}

	task, err := h.service.Update(r.Context(), principal.UserID, id, req)
	if err != nil {
		h.respondServiceError(w, err, "update task")
		return
	}
	httpx.JSON(w, http.StatusOK, task)
}

func (h *Handler) remove(w http.ResponseWriter, r *http.Request) {
	principal, ok := shared.PrincipalFromContext(r.Context())
	if !ok {
		httpx.Unauthorized(w)
		return
	}
	id, err := taskID(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid task id")
		return
	}

	if err := h.service.Delete(r.Context(), principal.UserID, id); err != nil {
		h.respondServiceError(w, err, "delete task")
		return
	}
	httpx.NoContent(w)
}

func (h *Handler) respondServiceError(w http.ResponseWriter, err error, op string) {
	if errors.Is(err, shared.ErrNotFound) {
		httpx.Problem(w, http.StatusNotFound, "Not Found", "task not found")
		return
	}
	h.logger.Error(op, slog.Any("error", err))
	httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
}

func taskID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}

func parseListRequest(r *http.Request) (ListTasksRequest, error) {
	req := ListTasksRequest{MinPriority: 1, MaxPriority: 5, Limit: 50}
	q := r.URL.Query()

	if status := q.Get("status"); status != "" {
		req.Status = &status
	}
	if search := q.Get("q"); search != "" {
		req.Search = &search
	}

	for _, field := range []struct {
		name   string
		target *int
	}{
		{"min_priority", &req.MinPriority},
		{"max_priority", &req.MaxPriority},
		{"limit", &req.Limit},
		{"offset", &req.Offset},
	} {
		raw := q.Get(field.name)
		if raw == "" {
			continue
		}
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			return req, errors.New("invalid " + field.name)
		}
		*field.target = parsed
	}
	return req, nil
}
