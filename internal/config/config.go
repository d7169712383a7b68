// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New(...) initializer to build a Config with defaults.
// - All future functions must accept context.Context as the first parameter.
// - External errors must be wrapped via this package's error helpers.
package config

import (
	"context"
	"runtime"
)

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// Collection names the store collection session records live in.
	Collection string `koanf:"collection"`

	// SessionSeconds sets the focus interval length.
	SessionSeconds int `koanf:"session_seconds"`

	// TickIntervalMS sets how often the countdown advances, in milliseconds.
	TickIntervalMS int `koanf:"tick_interval_ms"`

	// QueueSize bounds the in-memory session write queue.
	QueueSize int `koanf:"queue_size"`

	// WorkerCount sets the number of store writer workers.
	WorkerCount int `koanf:"worker_count"`

	// DedupeSize sets the size of the request-ID cache.
	DedupeSize int `koanf:"dedupe_size"`

	// MaxLeaderboardLimit caps GET /leaderboard?limit.
	MaxLeaderboardLimit int `koanf:"max_leaderboard_limit"`

	// SnapshotBuffer sets the per-subscriber snapshot channel depth.
	SnapshotBuffer int `koanf:"snapshot_buffer"`

	// CurrentUserID, CurrentUserName and CurrentUserAvatar bind the
	// identity the process acts as. Empty ID runs anonymously.
	CurrentUserID     string `koanf:"current_user_id"`
	CurrentUserName   string `koanf:"current_user_name"`
	CurrentUserAvatar string `koanf:"current_user_avatar"`
}

// New creates a Config with defaults. Context is accepted first to satisfy
// the project-wide convention; it is reserved for future use and currently
// unused.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:            "info",
		Addr:                ":9080",
		Collection:          "focus_sessions",
		SessionSeconds:      1500,
		TickIntervalMS:      1000,
		QueueSize:           10_000,
		WorkerCount:         runtime.NumCPU() * 2,
		DedupeSize:          50_000,
		MaxLeaderboardLimit: 100,
		SnapshotBuffer:      1,
	}
}
