// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	writequeue "focusboard/internal/adapters/mq/queue"
	"focusboard/internal/domain/dedupe"
	"focusboard/internal/domain/model"
)

// SessionDependencies defines the interface for session write dependencies.
type SessionDependencies interface {
	dedupe.Deduper
	Enqueue(ctx context.Context, w writequeue.Write) bool
}

// SessionsHandler handles session submissions.
type SessionsHandler struct {
	deps SessionDependencies
}

// NewSessionsHandler creates a new sessions handler.
func NewSessionsHandler(deps SessionDependencies) *SessionsHandler {
	return &SessionsHandler{deps: deps}
}

// HandlePostSession handles POST /sessions requests.
func (h *SessionsHandler) HandlePostSession(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_session"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req sessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	// Idempotency only applies when the client supplies a request id.
	if req.RequestID != "" && h.deps.SeenAndRecord(r.Context(), req.RequestID) {
		writeJSON(w, http.StatusOK, ackResponse{Status: "duplicate", Duplicate: true})
		return
	}

	write := writequeue.Write{
		RequestID: req.RequestID,
		Session: model.FocusSession{
			UserID:         req.UserID,
			Username:       req.Username,
			FocusedSeconds: req.FocusedSeconds,
		},
	}
	if ok := h.deps.Enqueue(r.Context(), write); !ok {
		// Roll back the seen mark so the client may retry.
		if req.RequestID != "" {
			h.deps.Unrecord(r.Context(), req.RequestID)
		}
		writeError(w, http.StatusTooManyRequests, "backpressure", NewKind(op, ErrBackpressure))
		return
	}
	writeJSON(w, http.StatusAccepted, ackResponse{Status: "accepted", Duplicate: false})
}
