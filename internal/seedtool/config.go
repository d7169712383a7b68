package seedtool

import "time"

// Config holds configuration for the session seeding run
type Config struct {
	BaseURL     string        // Base URL of the service
	NumSessions int           // Number of sessions to generate
	NumUsers    int           // Size of the user pool sessions are spread over
	TopN        int           // Number of leaderboard entries to fetch
	Workers     int           // Number of concurrent workers
	Timeout     time.Duration // HTTP request timeout
	OutputFile  string        // Output file for sessions
	LogFile     string        // Log file for run output
	Verbose     bool          // Enable verbose logging
}

// Session represents a focus session to be submitted
type Session struct {
	RequestID      string `json:"request_id"`
	UserID         string `json:"user_id"`
	Username       string `json:"username"`
	FocusedSeconds int64  `json:"focused_seconds"`
}

// Entry represents a leaderboard entry
type Entry struct {
	Rank                int    `json:"rank"`
	UserID              string `json:"user_id"`
	Username            string `json:"username"`
	TotalFocusedSeconds int64  `json:"total_focused_seconds"`
	Pomodoros           int    `json:"pomodoros"`
}

// AckResponse represents the response from session submission
type AckResponse struct {
	Status    string `json:"status"`
	Duplicate bool   `json:"duplicate"`
}

// Stats holds run statistics
type Stats struct {
	SessionsGenerated  int
	SessionsSubmitted  int
	SessionsSuccessful int
	SessionsDuplicate  int
	SessionsFailed     int
	SecondsAccepted    int64
	LeaderboardEntries int
	StartTime          time.Time
	EndTime            time.Time
	Duration           time.Duration
}
