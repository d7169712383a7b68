package seedtool

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"sync"
	"sync/atomic"
	"time"
)

// HTTPClient wraps http.Client with timeout
type HTTPClient struct {
	client  *http.Client
	timeout time.Duration
}

// newHTTPClient creates a new HTTP client with timeout
func newHTTPClient(timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		client: &http.Client{
			Timeout: timeout,
		},
		timeout: timeout,
	}
}

// Get performs a GET request
func (c *HTTPClient) Get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	return c.client.Do(req)
}

// Post performs a POST request with JSON body
func (c *HTTPClient) Post(ctx context.Context, url string, body interface{}) (*http.Response, error) {
	jsonData, err := marshalJSON(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	return c.client.Do(req)
}

// marshalJSON marshals a struct to JSON
func marshalJSON(v interface{}) ([]byte, error) {
	return json.Marshal(v)
}

// unmarshalJSON unmarshals JSON to a struct
func unmarshalJSON(data []byte, v interface{}) error {
	return json.Unmarshal(data, v)
}

// readResponseBody reads the response body
func readResponseBody(resp *http.Response) ([]byte, error) {
	return io.ReadAll(resp.Body)
}

// submitSessions submits sessions concurrently using a worker pool
func submitSessions(ctx context.Context, config *Config, sessions []Session, stats *Stats) error {
	log.Printf("📤 Submitting %d sessions with %d workers...", len(sessions), config.Workers)

	client := newHTTPClient(config.Timeout)
	url := config.BaseURL + "/sessions"

	var (
		successful      int64
		duplicate       int64
		failed          int64
		submitted       int64
		secondsAccepted int64
	)

	var lastReport time.Time
	reportInterval := 1 * time.Second

	sessionChan := make(chan Session, config.Workers*WorkerChannelMultiplier)
	var wg sync.WaitGroup

	for i := 0; i < config.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			for session := range sessionChan {
				select {
				case <-ctx.Done():
					return
				default:
					result := submitSingleSession(ctx, client, url, session)

					atomic.AddInt64(&submitted, 1)
					switch result {
					case "success":
						atomic.AddInt64(&successful, 1)
						atomic.AddInt64(&secondsAccepted, session.FocusedSeconds)
					case "duplicate":
						atomic.AddInt64(&duplicate, 1)
					case "failed":
						atomic.AddInt64(&failed, 1)
					}

					if time.Since(lastReport) >= reportInterval {
						lastReport = time.Now()
						total := atomic.LoadInt64(&submitted)
						succ := atomic.LoadInt64(&successful)
						dup := atomic.LoadInt64(&duplicate)
						fail := atomic.LoadInt64(&failed)

						if config.Verbose {
							log.Printf("📊 Progress: %d/%d submitted (success: %d, duplicate: %d, failed: %d)",
								total, len(sessions), succ, dup, fail)
						} else {
							fmt.Printf("\r📤 Submitted: %d/%d (success: %d, duplicate: %d, failed: %d)",
								total, len(sessions), succ, dup, fail)
						}
					}
				}
			}
		}()
	}

	go func() {
		defer close(sessionChan)
		for _, session := range sessions {
			select {
			case <-ctx.Done():
				return
			case sessionChan <- session:
			}
		}
	}()

	wg.Wait()

	if !config.Verbose {
		fmt.Println()
	}

	stats.SessionsSubmitted = int(atomic.LoadInt64(&submitted))
	stats.SessionsSuccessful = int(atomic.LoadInt64(&successful))
	stats.SessionsDuplicate = int(atomic.LoadInt64(&duplicate))
	stats.SessionsFailed = int(atomic.LoadInt64(&failed))
	stats.SecondsAccepted = atomic.LoadInt64(&secondsAccepted)

	log.Printf(`✅ Session submission completed:
   Successful: %d
   Duplicate: %d
   Failed: %d
   Seconds accepted: %d
`, stats.SessionsSuccessful, stats.SessionsDuplicate, stats.SessionsFailed, stats.SecondsAccepted)

	return nil
}

// submitSingleSession submits a single session and returns the result
func submitSingleSession(ctx context.Context, client *HTTPClient, url string, session Session) string {
	resp, err := client.Post(ctx, url, session)
	if err != nil {
		return "failed"
	}
	defer resp.Body.Close()

	body, err := readResponseBody(resp)
	if err != nil {
		return "failed"
	}

	switch resp.StatusCode {
	case StatusAccepted:
		var ack AckResponse
		if err := unmarshalJSON(body, &ack); err == nil && ack.Status == "accepted" {
			return "success"
		}
		return "success" // Assume success for 202 even if parsing fails
	case StatusOK:
		var ack AckResponse
		if err := unmarshalJSON(body, &ack); err == nil && ack.Duplicate {
			return "duplicate"
		}
		return "duplicate" // Assume duplicate for 200 even if parsing fails
	default:
		return "failed"
	}
}

// getLeaderboard fetches the today leaderboard.
func getLeaderboard(ctx context.Context, config *Config, stats *Stats) ([]Entry, error) {
	log.Printf("🏆 Fetching top %d leaderboard entries...", config.TopN)

	client := newHTTPClient(config.Timeout)
	url := fmt.Sprintf("%s/leaderboard?window=today&limit=%d", config.BaseURL, config.TopN)

	resp, err := client.Get(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch leaderboard: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != StatusOK {
		return nil, fmt.Errorf("leaderboard request failed with status: %d", resp.StatusCode)
	}

	body, err := readResponseBody(resp)
	if err != nil {
		return nil, fmt.Errorf("failed to read leaderboard response: %w", err)
	}

	var entries []Entry
	if err := unmarshalJSON(body, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse leaderboard response: %w", err)
	}

	stats.LeaderboardEntries = len(entries)
	log.Printf("✅ Retrieved %d leaderboard entries", len(entries))

	return entries, nil
}
