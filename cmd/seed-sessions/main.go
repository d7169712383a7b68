package main

import (
	"context"
	"flag"
	"os"
	"runtime"
	"time"

	"focusboard/internal/seedtool"
)

// Default configuration constants.
const (
	defaultNumSessions = 1000
	defaultNumUsers    = 25
	defaultTopN        = 50
	defaultWorkers     = 2 // multiplier for runtime.NumCPU()
	defaultTimeout     = 30 * time.Second
	defaultRunTimeout  = 10 * time.Minute
)

func main() {
	var (
		baseURL     = flag.String("url", "http://localhost:9080", "Base URL of the service")
		numSessions = flag.Int("sessions", defaultNumSessions, "Number of focus sessions to generate and submit")
		numUsers    = flag.Int("users", defaultNumUsers, "Size of the user pool the sessions are spread over")
		topN        = flag.Int("top", defaultTopN, "Number of top entries to fetch from leaderboard")
		workers     = flag.Int("workers", runtime.NumCPU()*defaultWorkers, "Number of concurrent workers")
		timeout     = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		outputFile  = flag.String("output", "", "Output file for generated sessions (default: generated_sessions_TIMESTAMP.json)")
		logFile     = flag.String("log", "", "Log file for run output (default: seed_log_TIMESTAMP.log)")
		verbose     = flag.Bool("verbose", false, "Enable verbose logging")
		help        = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		seedtool.ShowHelp()
		return
	}

	// Setup logging
	if err := seedtool.SetupLogging(*logFile); err != nil {
		os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		return
	}

	// Create context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), defaultRunTimeout)
	defer cancel()

	// Create run configuration
	config := &seedtool.Config{
		BaseURL:     *baseURL,
		NumSessions: *numSessions,
		NumUsers:    *numUsers,
		TopN:        *topN,
		Workers:     *workers,
		Timeout:     *timeout,
		OutputFile:  *outputFile,
		LogFile:     *logFile,
		Verbose:     *verbose,
	}

	// Run the seeding
	if err := seedtool.Run(ctx, config); err != nil {
		os.Stderr.WriteString("Seeding failed: " + err.Error() + "\n")
		return
	}
}
