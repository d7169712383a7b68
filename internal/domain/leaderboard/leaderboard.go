// Package leaderboard computes ranked, time-windowed leaderboards and
// per-user streak/achievement state from raw focus-session records.
//
// Aggregate is a pure function: it never reads the wall clock, never
// errors, and recomputes everything from scratch on every call. Malformed
// records degrade to safe defaults instead of failing.
package leaderboard

import (
	"sort"
	"time"

	"focusboard/internal/domain/model"
)

// PomodoroSeconds is one complete 25-minute focus unit.
const PomodoroSeconds = 1500

// daysPerWeek is the size of the rolling last-7-days window, today included.
const daysPerWeek = 7

const secondsPerMinute = 60

// achievementThresholds are the minute marks whose badges unlock when
// today's total reaches them.
var achievementThresholds = [...]int{25, 50, 75, 100, 125}

// Entry is one user's row within a time window, ranked by total focused
// seconds. Pomodoros is floor-summed per session, never computed from the
// window total: two 1400s sessions yield 0 pomodoros, not 1.
type Entry struct {
	Rank                int
	UserID              string
	Username            string
	TotalFocusedSeconds int64
	Pomodoros           int
}

// Result is the full derived state for one snapshot of the session set.
// DailyMinutes is indexed Monday..Sunday and covers all users in the week
// window; StreakDays and Achievements cover the current user only and stay
// zero/empty when no user is signed in.
type Result struct {
	Today        []Entry
	Week         []Entry
	DailyMinutes [7]int64
	StreakDays   int
	Achievements []int
}

// group accumulates one user's totals in encounter order.
type group struct {
	userID   string
	username string
	seconds  int64
	pomos    int
}

// accumulator groups sessions by user while preserving first-encounter order.
type accumulator struct {
	order  []string
	byUser map[string]*group
}

func newAccumulator() *accumulator {
	return &accumulator{byUser: make(map[string]*group)}
}

func (a *accumulator) add(s model.FocusSession) {
	g, ok := a.byUser[s.UserID]
	if !ok {
		g = &group{userID: s.UserID, username: s.Username}
		a.byUser[s.UserID] = g
		a.order = append(a.order, s.UserID)
	}
	g.seconds += s.FocusedSeconds
	g.pomos += int(s.FocusedSeconds / PomodoroSeconds)
}

// entries returns the groups ranked descending by total seconds. The sort is
// stable, so users with equal totals keep their encounter order.
func (a *accumulator) entries() []Entry {
	out := make([]Entry, 0, len(a.order))
	for _, id := range a.order {
		g := a.byUser[id]
		out = append(out, Entry{
			UserID:              g.userID,
			Username:            g.username,
			TotalFocusedSeconds: g.seconds,
			Pomodoros:           g.pomos,
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].TotalFocusedSeconds > out[j].TotalFocusedSeconds
	})
	for i := range out {
		out[i].Rank = i + 1
	}
	return out
}

// Aggregate derives both leaderboards, the Monday..Sunday daily totals, and
// the current user's streak and achievements from an unordered session
// sequence. now supplies the reference instant and the calendar time zone;
// currentUserID may be empty, which skips streak and achievement computation.
//
// A session with no usable CreatedAt is excluded from every window. A session
// may land in both windows, since today is contained in the last 7 days.
func Aggregate(sessions []model.FocusSession, now time.Time, currentUserID string) Result {
	loc := now.Location()
	todayStart := startOfDay(now)
	weekStart := todayStart.AddDate(0, 0, -(daysPerWeek - 1))

	today := newAccumulator()
	week := newAccumulator()

	var dailySeconds [7]int64
	userDays := make(map[time.Time]struct{})

	for _, raw := range sessions {
		s := raw.Normalized()
		if !s.HasTimestamp() {
			continue
		}
		ts := s.CreatedTime().In(loc)

		if !ts.Before(todayStart) {
			today.add(s)
		}
		if !ts.Before(weekStart) {
			week.add(s)
			dailySeconds[mondayIndex(ts.Weekday())] += s.FocusedSeconds
			if currentUserID != "" && s.UserID == currentUserID {
				userDays[startOfDay(ts)] = struct{}{}
			}
		}
	}

	res := Result{
		Today:        today.entries(),
		Week:         week.entries(),
		StreakDays:   streakDays(userDays),
		Achievements: []int{},
	}
	for i, secs := range dailySeconds {
		res.DailyMinutes[i] = secs / secondsPerMinute
	}

	if currentUserID != "" {
		if g, ok := today.byUser[currentUserID]; ok {
			minutes := g.seconds / secondsPerMinute
			for _, threshold := range achievementThresholds {
				if minutes >= int64(threshold) {
					res.Achievements = append(res.Achievements, threshold)
				}
			}
		}
	}

	return res
}

// streakDays walks the user's session days in chronological order and counts
// the run of consecutive calendar days; a gap of more than one day resets the
// run to 1. No sessions means no streak.
func streakDays(days map[time.Time]struct{}) int {
	if len(days) == 0 {
		return 0
	}
	sorted := make([]time.Time, 0, len(days))
	for d := range days {
		sorted = append(sorted, d)
	}
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Before(sorted[j]) })

	streak := 1
	for i := 1; i < len(sorted); i++ {
		if sorted[i-1].AddDate(0, 0, 1).Equal(sorted[i]) {
			streak++
		} else {
			streak = 1
		}
	}
	return streak
}

// startOfDay truncates t to midnight in its own location.
func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// mondayIndex maps a weekday to the 0-based Monday..Sunday position.
func mondayIndex(d time.Weekday) int {
	return (int(d) + 6) % daysPerWeek
}
