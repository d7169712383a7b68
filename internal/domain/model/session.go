// Package model contains domain models passed between layers.
package model

import "time"

// AnonymousUsername is used when a session arrives without a display name.
const AnonymousUsername = "Anonymous"

// FocusSession represents one completed or manually ended focus interval.
// Fields mirror the document schema under the focus_sessions collection.
// Records are immutable once written; CreatedAt is assigned by the store
// at append time, in milliseconds since epoch.
type FocusSession struct {
	UserID         string `json:"user_id"`
	Username       string `json:"username"`
	FocusedSeconds int64  `json:"focused_seconds"`
	CreatedAt      int64  `json:"created_at"`
}

// Normalized returns a copy with malformed fields degraded to safe defaults:
// a missing username becomes AnonymousUsername and negative focused seconds
// become 0. A zero CreatedAt is left as-is; window bucketing skips it.
func (s FocusSession) Normalized() FocusSession {
	if s.Username == "" {
		s.Username = AnonymousUsername
	}
	if s.FocusedSeconds < 0 {
		s.FocusedSeconds = 0
	}
	return s
}

// CreatedTime converts the store-assigned timestamp to time.Time.
func (s FocusSession) CreatedTime() time.Time {
	return time.UnixMilli(s.CreatedAt)
}

// HasTimestamp reports whether the record carries a usable CreatedAt.
func (s FocusSession) HasTimestamp() bool {
	return s.CreatedAt > 0
}

// SessionWrite is a pending session append flowing through the write queue.
// RequestID is the client-supplied idempotency key; empty for writes that
// originate inside the process (timer flushes bypass the queue entirely).
type SessionWrite struct {
	RequestID string
	Session   FocusSession
}
