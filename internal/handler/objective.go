package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/templui/goalnudge/internal/model"
	"github.com/templui/goalnudge/internal/repository"
	"github.com/templui/goalnudge/internal/service"
	"github.com/templui/goalnudge/internal/validation"
)

type ObjectiveHandler struct {
	objectiveService *service.ObjectiveService
	userService      *service.UserService
}

func NewObjectiveHandler(objectiveService *service.ObjectiveService, userService *service.UserService) *ObjectiveHandler {
	return &ObjectiveHandler{
		objectiveService: objectiveService,
		userService:      userService,
	}
}

type createUserRequest struct {
	Email     string `json:"email"`
	Name      string `json:"name"`
	UTCOffset *int   `json:"utc_offset_minutes"`
}

func (h *ObjectiveHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	err := decodeJSON(w, r, &req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	offset := h.userService.DefaultOffsetMinutes()
	if req.UTCOffset != nil {
		offset = *req.UTCOffset
	}

	user, err := h.userService.Create(r.Context(), req.Email, req.Name, offset)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			writeError(w, http.StatusConflict, err.Error())
			return
		}
		if errors.Is(err, validation.ErrInvalidInput) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		slog.Error("failed to create user", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create user")
		return
	}

	writeJSON(w, http.StatusCreated, user)
}

type createObjectiveRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Status      string `json:"status"`
}

func (h *ObjectiveHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("userID")

	var req createObjectiveRequest
	err := decodeJSON(w, r, &req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	objective, err := h.objectiveService.Create(r.Context(), userID, req.Title, req.Description, req.Status)
	if err != nil {
		h.writeServiceError(w, err, "failed to create objective", "user_id", userID)
		return
	}

	writeJSON(w, http.StatusCreated, objective)
}

func (h *ObjectiveHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("userID")

	objectives, err := h.objectiveService.Objectives(r.Context(), userID)
	if err != nil {
		h.writeServiceError(w, err, "failed to list objectives", "user_id", userID)
		return
	}
	if objectives == nil {
		objectives = []*model.Objective{}
	}

	writeJSON(w, http.StatusOK, objectives)
}

type createStepRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Effort      string `json:"effort_label"`
}

func (h *ObjectiveHandler) AddStep(w http.ResponseWriter, r *http.Request) {
	objectiveID := r.PathValue("objectiveID")

	var req createStepRequest
	err := decodeJSON(w, r, &req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	step, err := h.objectiveService.AddStep(r.Context(), objectiveID, req.Title, req.Description, req.Effort)
	if err != nil {
		h.writeServiceError(w, err, "failed to add step", "objective_id", objectiveID)
		return
	}

	writeJSON(w, http.StatusCreated, step)
}

func (h *ObjectiveHandler) writeServiceError(w http.ResponseWriter, err error, msg string, args ...any) {
	switch {
	case errors.Is(err, repository.ErrUserNotFound),
		errors.Is(err, repository.ErrObjectiveNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrInvalidObjectiveStatus),
		errors.Is(err, service.ErrInvalidEffort),
		errors.Is(err, validation.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		slog.Error(msg, append([]any{"error", err}, args...)...)
		writeError(w, http.StatusInternalServerError, msg)
	}
}
