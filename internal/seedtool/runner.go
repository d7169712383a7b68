package seedtool

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"focusboard/pkg/logger"
)

// File permission constants.
const (
	directoryPermission = 0750
)

// Run executes the complete seeding run.
func Run(ctx context.Context, config *Config) error {
	stats := &Stats{
		StartTime: time.Now(),
	}

	logger.Get().Info(ctx, "starting focusboard session seeding",
		logger.String("baseURL", config.BaseURL),
		logger.Int("sessions", config.NumSessions),
		logger.Int("users", config.NumUsers),
		logger.Int("workers", config.Workers),
		logger.String("timeout", config.Timeout.String()),
		logger.Int("topN", config.TopN),
		logger.String("logFile", config.LogFile),
		logger.Any("verbose", config.Verbose))

	// Step 1: Check service health
	if err := checkServiceHealth(ctx, config); err != nil {
		return fmt.Errorf("service health check failed: %w", err)
	}

	// Step 2: Generate sessions
	sessions, err := generateSessions(ctx, config, stats)
	if err != nil {
		return fmt.Errorf("session generation failed: %w", err)
	}

	// Step 3: Submit sessions concurrently
	if err := submitSessions(ctx, config, sessions, stats); err != nil {
		return fmt.Errorf("session submission failed: %w", err)
	}

	// Step 4: Wait for the pipeline to drain
	logger.Get().Info(ctx, "waiting for sessions to be aggregated")
	time.Sleep(ProcessingDelay)

	// Step 5: Get the today leaderboard
	leaderboard, err := getLeaderboard(ctx, config, stats)
	if err != nil {
		return fmt.Errorf("leaderboard retrieval failed: %w", err)
	}

	// Step 6: Verify results
	if err := verifyResults(ctx, config, sessions, leaderboard, stats); err != nil {
		return fmt.Errorf("result verification failed: %w", err)
	}

	// Step 7: Save sessions to file
	if err := saveSessionsToFile(ctx, config, sessions); err != nil {
		logger.Get().Warn(ctx, "failed to save sessions to file", logger.Error(err))
	}

	// Final statistics
	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)

	displayFinalStats(stats)

	logger.Get().Info(ctx, "seeding completed successfully")
	return nil
}

// checkServiceHealth verifies the service is running.
func checkServiceHealth(ctx context.Context, config *Config) error {
	logger.Get().Info(ctx, "checking service health")

	client := newHTTPClient(config.Timeout)
	url := config.BaseURL + "/healthz"

	resp, err := client.Get(ctx, url)
	if err != nil {
		return fmt.Errorf("failed to connect to service: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logger.Get().Error(context.Background(), "failed to close response body", logger.Error(err))
		}
	}()

	// Accept any 200 response as healthy (the service returns Prometheus metrics)
	if resp.StatusCode != StatusOK {
		return fmt.Errorf("service health check failed with status: %d", resp.StatusCode)
	}

	logger.Get().Info(ctx, "service is healthy")
	return nil
}

// saveSessionsToFile saves the generated sessions to a JSON file.
func saveSessionsToFile(ctx context.Context, config *Config, sessions []Session) error {
	if len(sessions) == 0 {
		return fmt.Errorf("no sessions to save")
	}

	// Determine output filename
	filename := config.OutputFile
	if filename == "" {
		timestamp := time.Now().Format("20060102_150405")
		filename = "generated_sessions_" + timestamp + ".json"
	}

	// Ensure the directory exists
	dir := filepath.Dir(filename)
	if dir != "." {
		if err := os.MkdirAll(dir, directoryPermission); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	// Write sessions to file
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			logger.Get().Error(context.Background(), "failed to close file", logger.Error(err))
		}
	}()

	// Write JSON array
	if _, err := file.WriteString("[\n"); err != nil {
		return fmt.Errorf("failed to write opening bracket: %w", err)
	}

	for i, session := range sessions {
		jsonData, err := marshalJSON(session)
		if err != nil {
			return fmt.Errorf("failed to marshal session %d: %w", i, err)
		}

		if _, err := file.Write(jsonData); err != nil {
			return fmt.Errorf("failed to write session %d: %w", i, err)
		}

		// Add comma except for last session
		if i < len(sessions)-1 {
			if _, err := file.WriteString(","); err != nil {
				return fmt.Errorf("failed to write comma: %w", err)
			}
		}
		_, _ = file.WriteString("\n")
	}

	if _, err := file.WriteString("]\n"); err != nil {
		return fmt.Errorf("failed to write closing bracket: %w", err)
	}

	logger.Get().Info(ctx, "sessions saved to file", logger.String("filename", filename))
	return nil
}

// displayFinalStats prints the final run statistics.
func displayFinalStats(stats *Stats) {
	var successRate, sessionsPerSecond float64

	if stats.SessionsSubmitted > 0 {
		successRate = float64(stats.SessionsSuccessful) / float64(stats.SessionsSubmitted) * PercentageMultiplier
	}

	if stats.Duration > 0 {
		sessionsPerSecond = float64(stats.SessionsSubmitted) / stats.Duration.Seconds()
	}

	logger.Get().Info(context.Background(), "final statistics",
		logger.Int("sessionsGenerated", stats.SessionsGenerated),
		logger.Int("sessionsSubmitted", stats.SessionsSubmitted),
		logger.Int("sessionsSuccessful", stats.SessionsSuccessful),
		logger.Int("sessionsDuplicate", stats.SessionsDuplicate),
		logger.Int("sessionsFailed", stats.SessionsFailed),
		logger.Int64("secondsAccepted", stats.SecondsAccepted),
		logger.Int("leaderboardEntries", stats.LeaderboardEntries),
		logger.String("duration", stats.Duration.String()),
		logger.Float64("successRate", successRate),
		logger.Float64("sessionsPerSecond", sessionsPerSecond))
}
