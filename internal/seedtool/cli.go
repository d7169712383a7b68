package seedtool

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"focusboard/pkg/logger"
)

// File permission constants.
const (
	logFilePermission = 0600
)

// SetupLogging configures logging to both console and file.
// If logFile is empty, a timestamped filename is generated.
func SetupLogging(logFile string) error {
	if err := logger.Init(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	if logFile == "" {
		timestamp := time.Now().Format("20060102_150405")
		logFile = "seed_log_" + timestamp + ".log"
	}

	file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, logFilePermission)
	if err != nil {
		return fmt.Errorf("failed to create log file: %w", err)
	}

	multiWriter := io.MultiWriter(os.Stdout, file)
	log.SetOutput(multiWriter)
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	logger.Get().Info(context.Background(), "logging to file", logger.String("logFile", logFile))
	return nil
}

// ShowHelp prints usage information for the session seeding tool.
func ShowHelp() {
	os.Stdout.WriteString(`Focusboard Session Seeder
=========================

A concurrent tool for seeding and verifying the focusboard session pipeline.

Usage:
  go run cmd/seed-sessions/main.go [options]

Options:
  -url string
        Base URL of the service (default "http://localhost:9080")
  -sessions int
        Number of focus sessions to generate and submit (default 1000)
  -users int
        Size of the user pool the sessions are spread over (default 25)
  -top int
        Number of leaderboard entries to fetch (default 50)
  -workers int
        Number of concurrent workers (default CPU cores * 2)
  -timeout duration
        HTTP request timeout (default 30s)
  -output string
        Output file for generated sessions (default: generated_sessions_TIMESTAMP.json)
  -log string
        Log file for run output (default: seed_log_TIMESTAMP.log)
  -verbose
        Enable verbose logging
  -help
        Show this help message

Examples:
  # Seed with default settings
  go run cmd/seed-sessions/main.go

  # Seed a small busy board
  go run cmd/seed-sessions/main.go -sessions 5000 -users 10 -workers 16

  # Seed against a non-default port with verbose output
  go run cmd/seed-sessions/main.go -verbose -url http://localhost:8080
`)
}
