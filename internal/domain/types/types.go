// Package types contains common types used across the application
package types

// Entry represents a leaderboard row for one user within a time window.
type Entry struct {
	Rank                int    `json:"rank"`
	UserID              string `json:"user_id"`
	Username            string `json:"username"`
	TotalFocusedSeconds int64  `json:"total_focused_seconds"`
	Pomodoros           int    `json:"pomodoros"`
}

// Summary carries the current user's derived state: streak, unlocked
// achievement thresholds (minutes) and per-day minute totals Monday..Sunday.
type Summary struct {
	SignedIn     bool     `json:"signed_in"`
	UserID       string   `json:"user_id,omitempty"`
	Username     string   `json:"username,omitempty"`
	AvatarURL    string   `json:"avatar_url,omitempty"`
	StreakDays   int      `json:"streak_days"`
	Achievements []int    `json:"achievements"`
	DailyMinutes [7]int64 `json:"daily_minutes"`
}

// TimerStatus mirrors the countdown controller state for the API.
type TimerStatus struct {
	RemainingSeconds int  `json:"remaining_seconds"`
	Running          bool `json:"running"`
}
