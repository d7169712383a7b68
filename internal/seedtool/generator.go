package seedtool

import (
	"context"
	"crypto/rand"
	"math/big"
	"strconv"
	"time"

	"focusboard/pkg/logger"

	"github.com/google/uuid"
)

// Constants for random number generation.
const (
	randomFloatDivisor  = 1000000
	durationTypeDivisor = 8
)

// Constants for focus duration generation, in seconds.
const (
	abandonedMin   = 10
	abandonedRange = 110
	shortMin       = 120
	shortRange     = 480
	partialMin     = 600
	partialRange   = 600
	nearFullMin    = 1200
	nearFullRange  = 299
	fullPomodoro   = 1500
	doubleMin      = 1500
	doubleRange    = 1500
	longMin        = 3000
	longRange      = 4200
	wideMin        = 10
	wideRange      = 7190
)

// Constants for duration type cases.
const (
	caseAbandoned    = 0
	caseShort        = 1
	casePartial      = 2
	caseNearFull     = 3
	caseFullPomodoro = 4
	caseDouble       = 5
	caseLongStretch  = 6
	caseWideRange    = 7
)

// user is one member of the seeded user pool.
type user struct {
	id   string
	name string
}

// getRandomFloat returns a random float64 between 0.0 and 1.0 using crypto/rand.
func getRandomFloat() float64 {
	n, _ := rand.Int(rand.Reader, big.NewInt(randomFloatDivisor))
	return float64(n.Int64()) / float64(randomFloatDivisor)
}

// generateSessions creates the configured number of sessions spread over a
// fixed user pool, so the leaderboard has meaningful per-user grouping.
func generateSessions(ctx context.Context, config *Config, stats *Stats) ([]Session, error) {
	logger.Get().Info(ctx, "generating sessions over a user pool",
		logger.Int("numSessions", config.NumSessions),
		logger.Int("numUsers", config.NumUsers))

	users := make([]user, config.NumUsers)
	for i := range users {
		users[i] = user{
			id:   uuid.New().String(),
			name: "seed-user-" + strconv.Itoa(i),
		}
	}

	sessions := make([]Session, config.NumSessions)
	for i := range sessions {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		sessions[i] = generateSingleSession(i, users)
	}

	stats.SessionsGenerated = len(sessions)
	logger.Get().Info(ctx, "generated sessions successfully", logger.Int("count", len(sessions)))

	return sessions, nil
}

// generateSingleSession creates a single session for a random pool user.
func generateSingleSession(index int, users []user) Session {
	pick, _ := rand.Int(rand.Reader, big.NewInt(int64(len(users))))
	u := users[pick.Int64()]

	requestID := "seed_" + strconv.Itoa(index) + "_" + strconv.FormatInt(time.Now().UnixNano(), 10)

	return Session{
		RequestID:      requestID,
		UserID:         u.id,
		Username:       u.name,
		FocusedSeconds: generateVariedDuration(),
	}
}

// generateVariedDuration creates a focus duration with a distribution that
// resembles real usage: mostly partial intervals, some exact pomodoros,
// occasional long stretches and abandoned shorts.
func generateVariedDuration() int64 {
	randNum, _ := rand.Int(rand.Reader, big.NewInt(durationTypeDivisor))
	switch randNum.Int64() {
	case caseAbandoned:
		// Abandoned almost immediately (10s - 2m)
		return int64(abandonedMin + getRandomFloat()*abandonedRange)
	case caseShort:
		// Short burst (2m - 10m)
		return int64(shortMin + getRandomFloat()*shortRange)
	case casePartial:
		// Partial interval (10m - 20m) - most common shape
		return int64(partialMin + getRandomFloat()*partialRange)
	case caseNearFull:
		// Just short of a pomodoro (20m - 24m59s)
		return int64(nearFullMin + getRandomFloat()*nearFullRange)
	case caseFullPomodoro:
		// Exactly one pomodoro
		return fullPomodoro
	case caseDouble:
		// One to two pomodoros (25m - 50m)
		return int64(doubleMin + getRandomFloat()*doubleRange)
	case caseLongStretch:
		// Long stretch (50m - 2h)
		return int64(longMin + getRandomFloat()*longRange)
	case caseWideRange:
		// Anything (10s - 2h)
		return int64(wideMin + getRandomFloat()*wideRange)
	default:
		return fullPomodoro
	}
}
