// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	writequeue "focusboard/internal/adapters/mq/queue"
	"focusboard/internal/domain/dedupe"
	"focusboard/internal/domain/types"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	dedupe.Deduper

	// Enqueue pushes a session write for async persistence. Returns false
	// on backpressure.
	Enqueue(ctx context.Context, w writequeue.Write) bool

	// Read operations expose the derived leaderboard state.
	TodayLeaderboard(ctx context.Context, n int) ([]Entry, error)
	WeekLeaderboard(ctx context.Context, n int) ([]Entry, error)
	Summary(ctx context.Context) types.Summary

	// Timer operations drive the focus countdown.
	TimerStatus(ctx context.Context) types.TimerStatus
	StartTimer(ctx context.Context)
	ResetTimer(ctx context.Context)
	SaveTimer(ctx context.Context) error
}

// Entry mirrors the read shape returned by leaderboard queries.
type Entry = types.Entry

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler      *HealthHandler
	statsHandler       *StatsHandler
	sessionsHandler    *SessionsHandler
	leaderboardHandler *LeaderboardHandler
	timerHandler       *TimerHandler
	summaryHandler     *SummaryHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, maxLeaderboardLimit int) *Server {
	return &Server{
		healthHandler:      NewHealthHandler(),
		statsHandler:       NewStatsHandler(statsProvider),
		sessionsHandler:    NewSessionsHandler(deps),
		leaderboardHandler: NewLeaderboardHandler(deps, maxLeaderboardLimit),
		timerHandler:       NewTimerHandler(deps),
		summaryHandler:     NewSummaryHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/sessions", MetricsMiddleware(s.sessionsHandler.HandlePostSession, "sessions"))
	mux.HandleFunc("/leaderboard", MetricsMiddleware(s.leaderboardHandler.HandleGetLeaderboard, "leaderboard"))
	mux.HandleFunc("/summary", MetricsMiddleware(s.summaryHandler.HandleGetSummary, "summary"))
	mux.HandleFunc("/timer", MetricsMiddleware(s.timerHandler.HandleGetTimer, "timer"))
	mux.HandleFunc("/timer/", MetricsMiddleware(s.timerHandler.HandleTimerAction, "timer_action"))
}

// sessionRequest mirrors the wire schema for POST /sessions.
type sessionRequest struct {
	RequestID      string `json:"request_id"`
	UserID         string `json:"user_id"`
	Username       string `json:"username"`
	FocusedSeconds int64  `json:"focused_seconds"`
}

func (s sessionRequest) validate() error {
	switch {
	case strings.TrimSpace(s.UserID) == "":
		return errors.New("missing user_id")
	case s.FocusedSeconds < 0:
		return errors.New("focused_seconds must not be negative")
	}
	return nil
}

type ackResponse struct {
	Status    string `json:"status"`
	Duplicate bool   `json:"duplicate"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}
