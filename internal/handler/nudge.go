package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/templui/goalnudge/internal/ctxkeys"
	"github.com/templui/goalnudge/internal/model"
	"github.com/templui/goalnudge/internal/service"
)

type NudgeHandler struct {
	nudgeService *service.NudgeService
}

func NewNudgeHandler(nudgeService *service.NudgeService) *NudgeHandler {
	return &NudgeHandler{
		nudgeService: nudgeService,
	}
}

type triggerRequest struct {
	SlotIndex *int     `json:"slot_index"`
	UserIDs   []string `json:"user_ids"`
}

type triggerResponse struct {
	Slot    model.Slot          `json:"slot"`
	Results []model.BuildResult `json:"results"`
}

// TriggerSlot builds and delivers the nudge for one slot. Without a
// slot_index the slot's own position is used for rotation.
func (h *NudgeHandler) TriggerSlot(w http.ResponseWriter, r *http.Request) {
	slot, err := model.ParseSlot(r.PathValue("slot"))
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}

	var req triggerRequest
	err = decodeJSON(w, r, &req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	slotIndex := slot.Index()
	if req.SlotIndex != nil {
		slotIndex = *req.SlotIndex
	}

	results, err := h.nudgeService.Trigger(r.Context(), slot, slotIndex, req.UserIDs)
	if err != nil {
		slog.Error("failed to trigger slot", "error", err, "slot", slot, "scheduler", ctxkeys.Scheduler(r.Context()))
		writeError(w, http.StatusInternalServerError, "failed to trigger slot")
		return
	}

	writeJSON(w, http.StatusOK, triggerResponse{Slot: slot, Results: results})
}

func (h *NudgeHandler) History(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("userID")

	limit := 20
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 || n > 200 {
			writeError(w, http.StatusBadRequest, "limit must be between 1 and 200")
			return
		}
		limit = n
	}

	actions, err := h.nudgeService.History(r.Context(), userID, limit)
	if err != nil {
		slog.Error("failed to load history", "error", err, "user_id", userID)
		writeError(w, http.StatusInternalServerError, "failed to load history")
		return
	}
	if actions == nil {
		actions = []*model.PendingAction{}
	}

	writeJSON(w, http.StatusOK, actions)
}
