// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"
	"strings"

	"focusboard/internal/domain/types"
)

// Timer actions accepted under POST /timer/{action}.
const (
	actionStart = "start"
	actionPause = "pause"
	actionReset = "reset"
	actionSave  = "save"
)

// TimerDependencies defines the interface for countdown operations.
type TimerDependencies interface {
	TimerStatus(ctx context.Context) types.TimerStatus
	StartTimer(ctx context.Context)
	ResetTimer(ctx context.Context)
	SaveTimer(ctx context.Context) error
}

// TimerHandler handles countdown requests.
type TimerHandler struct {
	deps TimerDependencies
}

// NewTimerHandler creates a new timer handler.
func NewTimerHandler(deps TimerDependencies) *TimerHandler {
	return &TimerHandler{deps: deps}
}

// HandleGetTimer handles GET /timer requests.
func (h *TimerHandler) HandleGetTimer(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, h.deps.TimerStatus(r.Context()))
}

// HandleTimerAction handles POST /timer/{start|pause|reset|save} requests.
// Pause and save both flush the elapsed interval and reset; a flush failure
// surfaces as a store write error while the timer has already reset.
func (h *TimerHandler) HandleTimerAction(w http.ResponseWriter, r *http.Request) {
	const op = "api.timer_action"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}

	action := strings.TrimPrefix(r.URL.Path, "/timer/")
	switch action {
	case actionStart:
		h.deps.StartTimer(r.Context())
	case actionReset:
		h.deps.ResetTimer(r.Context())
	case actionPause, actionSave:
		if err := h.deps.SaveTimer(r.Context()); err != nil {
			writeError(w, http.StatusInternalServerError, "store_write", WrapKind(op, ErrStoreWrite, err))
			return
		}
	default:
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}

	writeJSON(w, http.StatusOK, h.deps.TimerStatus(r.Context()))
}
