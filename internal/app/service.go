// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"runtime"
	"sync"
	"time"

	"focusboard/internal/adapters/identity"
	writequeue "focusboard/internal/adapters/mq/queue"
	workerpool "focusboard/internal/adapters/mq/worker"
	"focusboard/internal/adapters/store"
	"focusboard/internal/domain/dedupe"
	"focusboard/internal/domain/leaderboard"
	"focusboard/internal/domain/model"
	"focusboard/internal/domain/timer"
	"focusboard/internal/domain/types"
	"focusboard/pkg/logger"
	"focusboard/pkg/metrics"
)

// anonymousUserID is written when the timer flushes with no identity bound.
const anonymousUserID = "anonymous"

// Default service configuration constants.
const (
	defaultQueueSize    = 10000
	defaultDedupeSize   = 50000
	defaultTickInterval = time.Second
)

// Service wires the store, the write pipeline, the aggregator and the timer
// behind the methods the HTTP API consumes.
type Service struct {
	mu sync.RWMutex

	// Core components
	sessions store.Store
	deduper  dedupe.Deduper
	queue    writequeue.Queue
	pool     *workerpool.Pool
	timer    *timer.Timer
	identity identity.Provider

	// Configuration
	collection     string
	workerCount    int
	queueSize      int
	dedupeSize     int
	sessionSeconds int
	tickInterval   time.Duration
	now            func() time.Time

	// Latest aggregation, replaced wholesale on every store snapshot.
	resultMu sync.RWMutex
	result   leaderboard.Result

	// State
	started     bool
	stopCh      chan struct{}
	unsubscribe func()

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithCollection sets the store collection session records live in.
func WithCollection(name string) Option {
	return func(s *Service) {
		if name != "" {
			s.collection = name
		}
	}
}

// WithWorkerCount sets the number of store writer goroutines.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the maximum size of the write queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithDedupeSize sets the size of the request-ID cache.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.dedupeSize = size
		}
	}
}

// WithSessionSeconds sets the focus interval length.
func WithSessionSeconds(seconds int) Option {
	return func(s *Service) {
		if seconds > 0 {
			s.sessionSeconds = seconds
		}
	}
}

// WithTickInterval sets how often the countdown advances.
func WithTickInterval(interval time.Duration) Option {
	return func(s *Service) {
		if interval > 0 {
			s.tickInterval = interval
		}
	}
}

// WithIdentity sets the identity provider.
func WithIdentity(provider identity.Provider) Option {
	return func(s *Service) {
		if provider != nil {
			s.identity = provider
		}
	}
}

// WithStore injects a prebuilt session store. Tests use this to control the
// store clock.
func WithStore(st store.Store) Option {
	return func(s *Service) {
		if st != nil {
			s.sessions = st
		}
	}
}

// WithNowFunc sets the clock used for aggregation windows.
func WithNowFunc(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(logger logger.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		collection:     "focus_sessions",
		workerCount:    runtime.NumCPU() * 2,
		queueSize:      defaultQueueSize,
		dedupeSize:     defaultDedupeSize,
		sessionSeconds: timer.DefaultSessionSeconds,
		tickInterval:   defaultTickInterval,
		now:            time.Now,
		identity:       identity.NewAnonymousProvider(),
		stopCh:         make(chan struct{}),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start initializes and starts the service components.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting focusboard service...")

	if s.sessions == nil {
		s.sessions = store.NewMemoryStore()
	}
	s.deduper = dedupe.New(
		dedupe.WithMaxSize(s.dedupeSize),
	)
	s.queue = writequeue.NewInMemoryQueue(
		writequeue.WithCapacity(s.queueSize),
		writequeue.WithBufferSize(s.queueSize),
	)
	s.timer = timer.New(
		timer.WithSessionSeconds(s.sessionSeconds),
		timer.WithFlushFunc(s.flushFocusSession),
	)

	s.pool = workerpool.NewPool(s.workerCount, s.queue, s.sessions, s.collection)
	s.pool.Start(ctx)

	snapshots, unsubscribe, err := s.sessions.Subscribe(ctx, s.collection)
	if err != nil {
		return err
	}
	s.unsubscribe = unsubscribe

	go s.aggregationLoop(ctx, snapshots)
	go s.tickLoop(ctx)

	s.started = true
	s.logger.Info(ctx, "focusboard service started",
		logger.String("collection", s.collection),
		logger.Int("workers", s.workerCount),
		logger.Int("queueSize", s.queueSize),
		logger.Int("sessionSeconds", s.sessionSeconds),
	)

	return nil
}

// Stop gracefully shuts down the service.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	ctx := context.Background()
	s.logger.Info(ctx, "stopping focusboard service...")

	select {
	case <-s.stopCh:
	default:
		close(s.stopCh)
	}

	if s.unsubscribe != nil {
		s.unsubscribe()
	}

	// Closing the queue lets workers drain buffered writes before exiting.
	if s.pool != nil {
		_ = s.pool.Shutdown(ctx)
	}

	if s.sessions != nil {
		_ = s.sessions.Close(ctx)
	}

	s.started = false
	s.logger.Info(ctx, "focusboard service stopped")
}

// aggregationLoop recomputes the leaderboard state from every store
// snapshot. The whole result is replaced each time; nothing is merged.
func (s *Service) aggregationLoop(ctx context.Context, snapshots <-chan store.Snapshot) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-s.stopCh:
			return
		case snap, ok := <-snapshots:
			if !ok {
				return
			}
			s.aggregate(ctx, snap)
		}
	}
}

func (s *Service) aggregate(ctx context.Context, snap store.Snapshot) {
	start := time.Now()

	var currentUserID string
	if user, ok := s.identity.CurrentUser(ctx); ok {
		currentUserID = user.ID
	}

	res := leaderboard.Aggregate(snap.Sessions(), s.now(), currentUserID)

	s.resultMu.Lock()
	s.result = res
	s.resultMu.Unlock()

	metrics.RecordAggregation()
	metrics.RecordAggregationLatency(float64(time.Since(start).Nanoseconds()) / 1e6)
	metrics.UpdateLeaderboardSizes(len(res.Today), len(res.Week))
	metrics.UpdateSnapshotLastUnix(s.now().Unix())
}

// tickLoop drives the countdown at the configured cadence.
func (s *Service) tickLoop(ctx context.Context) {
	ticker := time.NewTicker(s.tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.stopCh:
			return
		case <-ticker.C:
			if err := s.timer.Tick(ctx); err != nil {
				s.logger.Error(ctx, "timer flush failed on tick", logger.Error(err))
			}
			metrics.RecordTimerTick()
			metrics.UpdateTimerRemainingSeconds(s.timer.Status().RemainingSeconds)
		}
	}
}

// flushFocusSession persists one finished interval straight to the store,
// bypassing the write queue so the caller sees the write error if any.
func (s *Service) flushFocusSession(ctx context.Context, elapsedSeconds int) error {
	session := model.FocusSession{FocusedSeconds: int64(elapsedSeconds)}

	if user, ok := s.identity.CurrentUser(ctx); ok {
		session.UserID = user.ID
		session.Username = user.DisplayName
	} else {
		session.UserID = anonymousUserID
	}

	if _, err := s.sessions.Append(ctx, s.collection, session); err != nil {
		metrics.RecordTimerFlushError()
		metrics.RecordErrorByComponent("timer", "store_write")
		return err
	}

	metrics.RecordTimerFlush()
	metrics.RecordSessionSaved(int64(elapsedSeconds))
	return nil
}

// SeenAndRecord atomically checks whether a request id was seen and records
// it if not. Returns true if the id was already seen.
func (s *Service) SeenAndRecord(ctx context.Context, id string) bool {
	seen := s.deduper.SeenAndRecord(ctx, id)
	if seen {
		metrics.RecordSessionDuplicate()
	}
	return seen
}

// Unrecord removes a request id from the seen list, allowing a retry.
func (s *Service) Unrecord(ctx context.Context, id string) {
	s.deduper.Unrecord(ctx, id)
}

// Size returns the current number of tracked request ids.
func (s *Service) Size() int64 {
	if s.deduper == nil {
		return 0
	}
	return s.deduper.Size()
}

// Enqueue submits a session write for asynchronous persistence. Returns
// false under backpressure.
func (s *Service) Enqueue(ctx context.Context, w writequeue.Write) bool {
	return s.queue.Enqueue(ctx, w)
}

// TodayLeaderboard returns up to n ranked entries for the current day.
func (s *Service) TodayLeaderboard(ctx context.Context, n int) ([]types.Entry, error) {
	s.resultMu.RLock()
	defer s.resultMu.RUnlock()
	return convertEntries(s.result.Today, n), nil
}

// WeekLeaderboard returns up to n ranked entries for the last seven days.
func (s *Service) WeekLeaderboard(ctx context.Context, n int) ([]types.Entry, error) {
	s.resultMu.RLock()
	defer s.resultMu.RUnlock()
	return convertEntries(s.result.Week, n), nil
}

// Summary returns the signed-in user's streak, achievements and the weekly
// focus distribution.
func (s *Service) Summary(ctx context.Context) types.Summary {
	user, signedIn := s.identity.CurrentUser(ctx)

	s.resultMu.RLock()
	res := s.result
	s.resultMu.RUnlock()

	summary := types.Summary{
		SignedIn:     signedIn,
		StreakDays:   res.StreakDays,
		Achievements: res.Achievements,
		DailyMinutes: res.DailyMinutes,
	}
	if summary.Achievements == nil {
		summary.Achievements = []int{}
	}
	if signedIn {
		summary.UserID = user.ID
		summary.Username = user.DisplayName
		summary.AvatarURL = user.AvatarURL
	}
	return summary
}

// TimerStatus returns the countdown state.
func (s *Service) TimerStatus(ctx context.Context) types.TimerStatus {
	st := s.timer.Status()
	return types.TimerStatus{
		RemainingSeconds: st.RemainingSeconds,
		Running:          st.Running,
	}
}

// StartTimer begins the countdown.
func (s *Service) StartTimer(ctx context.Context) {
	s.timer.Start()
}

// ResetTimer abandons the current interval without saving.
func (s *Service) ResetTimer(ctx context.Context) {
	s.timer.Reset()
}

// SaveTimer flushes the elapsed portion of the interval and resets. The
// flush error, if any, arrives after the timer has already reset.
func (s *Service) SaveTimer(ctx context.Context) error {
	return s.timer.Save(ctx)
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started":        s.started,
		"collection":     s.collection,
		"workerCount":    s.workerCount,
		"queueSize":      s.queueSize,
		"dedupeSize":     s.dedupeSize,
		"sessionSeconds": s.sessionSeconds,
	}

	if s.started {
		queueLen := s.queue.Len(ctx)
		totalSessions := s.sessions.Count(ctx, s.collection)
		timerStatus := s.timer.Status()

		stats["queueLength"] = queueLen
		stats["totalSessions"] = totalSessions
		stats["dedupeEntries"] = s.deduper.Size()
		stats["timerRunning"] = timerStatus.Running
		stats["timerRemainingSeconds"] = timerStatus.RemainingSeconds

		metrics.UpdateQueueSize(queueLen)
		metrics.UpdateStoreRecords(totalSessions)
		metrics.UpdateWorkerCount(s.workerCount)
	}

	return stats
}

// convertEntries maps domain rows to the API shape, truncating to n.
func convertEntries(entries []leaderboard.Entry, n int) []types.Entry {
	if n < 0 {
		n = 0
	}
	if n > len(entries) {
		n = len(entries)
	}
	out := make([]types.Entry, 0, n)
	for _, e := range entries[:n] {
		out = append(out, types.Entry{
			Rank:                e.Rank,
			UserID:              e.UserID,
			Username:            e.Username,
			TotalFocusedSeconds: e.TotalFocusedSeconds,
			Pomodoros:           e.Pomodoros,
		})
	}
	return out
}
