package handler

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/templui/goalnudge/internal/service"
)

type ReplyHandler struct {
	replyService *service.ReplyService
	verifier     *service.WebhookVerifier
	delivery     service.Deliverer
}

func NewReplyHandler(replyService *service.ReplyService, verifier *service.WebhookVerifier, delivery service.Deliverer) *ReplyHandler {
	return &ReplyHandler{
		replyService: replyService,
		verifier:     verifier,
		delivery:     delivery,
	}
}

type replyRequest struct {
	UserID string `json:"user_id"`
	Text   string `json:"text"`
}

// Webhook receives an inbound user reply. The raw body is verified before
// it is parsed.
func (h *ReplyHandler) Webhook(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		slog.Error("failed to read webhook payload", "error", err)
		writeError(w, http.StatusBadRequest, "failed to read payload")
		return
	}
	defer func() {
		closeErr := r.Body.Close()
		if closeErr != nil {
			slog.Error("failed to close request body", "error", closeErr)
		}
	}()

	err = h.verifier.Verify(payload, r.Header)
	if err != nil {
		slog.Warn("reply webhook rejected", "error", err)
		writeError(w, http.StatusUnauthorized, "invalid signature")
		return
	}

	var req replyRequest
	err = json.Unmarshal(payload, &req)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	req.UserID = strings.TrimSpace(req.UserID)
	if req.UserID == "" {
		writeError(w, http.StatusBadRequest, "user_id is required")
		return
	}

	result := h.replyService.HandleReply(r.Context(), req.UserID, req.Text)

	if h.delivery != nil {
		err = h.delivery.Deliver(r.Context(), req.UserID, result.ReplyMessage)
		if err != nil {
			slog.Error("failed to deliver reply", "error", err, "user_id", req.UserID)
		}
	}

	writeJSON(w, http.StatusOK, result)
}
