package seedtool

import (
	"context"
	"fmt"
	"log"
)

// fullPomodoroSeconds mirrors the service's pomodoro unit.
const fullPomodoroSeconds = 1500

// verifyResults checks the leaderboard against what was actually accepted.
// Against a freshly started service the accounting must line up exactly;
// against a warm store the checks degrade to warnings.
func verifyResults(ctx context.Context, config *Config, sessions []Session, leaderboard []Entry, stats *Stats) error {
	log.Println("🔍 Verifying results...")

	if len(leaderboard) == 0 {
		return fmt.Errorf("no leaderboard entries to verify")
	}

	if err := verifyOrdering(leaderboard); err != nil {
		return err
	}
	log.Println("✅ Leaderboard ordering verified")

	expectedSeconds, expectedPomos := expectedTotals(sessions)

	if err := verifyConservation(leaderboard, stats, expectedSeconds); err != nil {
		log.Printf("⚠️  Conservation warning (expected on a warm store): %v", err)
	} else {
		log.Println("✅ Focused-seconds conservation verified")
	}

	if err := verifyPomodoroFloors(leaderboard, expectedPomos); err != nil {
		log.Printf("⚠️  Pomodoro accounting warning (expected on a warm store): %v", err)
	} else {
		log.Println("✅ Per-session pomodoro accounting verified")
	}

	displayTopEntries(leaderboard, config.Verbose)

	log.Println("✅ Result verification completed")
	return nil
}

// verifyOrdering checks the leaderboard is sorted descending with 1-based
// contiguous ranks.
func verifyOrdering(leaderboard []Entry) error {
	for i, entry := range leaderboard {
		if entry.Rank != i+1 {
			return fmt.Errorf("entry %d carries rank %d", i, entry.Rank)
		}
		if i > 0 && entry.TotalFocusedSeconds > leaderboard[i-1].TotalFocusedSeconds {
			return fmt.Errorf("leaderboard not sorted: entry %d outranks entry %d with a higher total", i, i-1)
		}
	}
	return nil
}

// expectedTotals derives what the leaderboard should report per user if
// every generated session was accepted into a fresh store.
func expectedTotals(sessions []Session) (map[string]int64, map[string]int) {
	seconds := make(map[string]int64)
	pomos := make(map[string]int)
	for _, s := range sessions {
		seconds[s.UserID] += s.FocusedSeconds
		// Pomodoros floor per session, never on the user total.
		pomos[s.UserID] += int(s.FocusedSeconds / fullPomodoroSeconds)
	}
	return seconds, pomos
}

// verifyConservation checks that no focused second was lost or invented.
func verifyConservation(leaderboard []Entry, stats *Stats, expected map[string]int64) error {
	var boardTotal int64
	for _, entry := range leaderboard {
		boardTotal += entry.TotalFocusedSeconds
		if want, ok := expected[entry.UserID]; ok && entry.TotalFocusedSeconds != want {
			return fmt.Errorf("user %s totals %d seconds, submitted %d", entry.UserID, entry.TotalFocusedSeconds, want)
		}
	}
	if boardTotal != stats.SecondsAccepted {
		return fmt.Errorf("leaderboard totals %d seconds, accepted %d", boardTotal, stats.SecondsAccepted)
	}
	return nil
}

// verifyPomodoroFloors checks per-session floor summing against the local
// expectation.
func verifyPomodoroFloors(leaderboard []Entry, expected map[string]int) error {
	for _, entry := range leaderboard {
		if want, ok := expected[entry.UserID]; ok && entry.Pomodoros != want {
			return fmt.Errorf("user %s shows %d pomodoros, expected %d", entry.UserID, entry.Pomodoros, want)
		}
	}
	return nil
}

// displayTopEntries shows the leading users on the board.
func displayTopEntries(leaderboard []Entry, verbose bool) {
	topN := 10
	if len(leaderboard) < topN {
		topN = len(leaderboard)
	}

	log.Printf("🥇 Top %d users on the board:", topN)
	for i := 0; i < topN; i++ {
		entry := leaderboard[i]
		log.Printf("   %d. %s - %ds focused, %d pomodoros", entry.Rank, entry.Username, entry.TotalFocusedSeconds, entry.Pomodoros)
	}

	if verbose && len(leaderboard) > 0 {
		var sum int64
		for _, entry := range leaderboard {
			sum += entry.TotalFocusedSeconds
		}
		log.Printf(`📊 Board statistics:
   Users: %d
   Total focused seconds: %d
   Average per user: %d
`, len(leaderboard), sum, sum/int64(len(leaderboard)))
	}
}
