// internal/daily/stats.go
//
// Lifetime play/win counters and streak continuity. Stats are mutated
// only on session termination, at most once per calendar day: a
// persisted "stats last updated" date guards duplicate invocation.

package daily

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/connorpodea/EQLE/internal/equation"
	"github.com/connorpodea/EQLE/internal/kv"
)

// Stats is the persisted lifetime record.
type Stats struct {
	TotalPlayed     int                      `json:"totalPlayed"`
	TotalWon        int                      `json:"totalWon"`
	WinDistribution [equation.MaxGuesses]int `json:"winDistribution"` // indexed by tries-to-win - 1
	CurrentStreak   int                      `json:"currentStreak"`
	BestStreak      int                      `json:"bestStreak"`
	FewestTries     int                      `json:"fewestTries"` // 6 means "no better record yet"
	LastWinDate     string                   `json:"lastWinDate"`
	LastUpdate      string                   `json:"lastUpdate"`
}

// DefaultStats returns the documented empty record.
func DefaultStats() Stats {
	return Stats{FewestTries: equation.MaxGuesses}
}

// RecordResult applies one terminal session outcome dated today.
// Returns false (and changes nothing) when stats were already updated
// for today.
//
// Streak continuity, with D = days from the last recorded win to today:
//   - no prior win: streak becomes 1 on a win, 0 on a loss
//   - D == 1: streak increments on a win, resets to 0 on a loss
//   - D != 1: streak resets to 1 on a win, 0 on a loss
//   - D == 0 cannot happen under the idempotence guard; the streak is
//     left untouched if it somehow does
func (s *Stats) RecordResult(won bool, tries int, today string) bool {
	if s.LastUpdate == today {
		return false
	}

	s.TotalPlayed++
	if won {
		s.TotalWon++
		if tries >= 1 && tries <= equation.MaxGuesses {
			s.WinDistribution[tries-1]++
		}
		if s.TotalWon == 1 || tries < s.FewestTries {
			s.FewestTries = tries
		}
	}

	switch {
	case s.LastWinDate == "":
		s.CurrentStreak = streakStart(won)
	case DaysBetween(s.LastWinDate, today) == 0:
		// no-op
	case DaysBetween(s.LastWinDate, today) == 1:
		if won {
			s.CurrentStreak++
		} else {
			s.CurrentStreak = 0
		}
	default:
		s.CurrentStreak = streakStart(won)
	}
	if s.CurrentStreak > s.BestStreak {
		s.BestStreak = s.CurrentStreak
	}

	if won {
		s.LastWinDate = today
	}
	s.LastUpdate = today
	return true
}

func streakStart(won bool) int {
	if won {
		return 1
	}
	return 0
}

// LoadStats reads the persisted record, degrading missing or corrupt
// fields to defaults so the engine always has a usable snapshot.
func LoadStats(ctx context.Context, store kv.Store) Stats {
	s := DefaultStats()
	s.TotalPlayed = loadInt(ctx, store, KeyTotalGamesPlayed, 0)
	s.TotalWon = loadInt(ctx, store, KeyTotalGamesWon, 0)
	s.CurrentStreak = loadInt(ctx, store, KeyCurrentStreak, 0)
	s.BestStreak = loadInt(ctx, store, KeyBestStreak, 0)
	s.FewestTries = loadInt(ctx, store, KeyFewestTries, equation.MaxGuesses)
	if v, err := store.Get(ctx, KeyLastWinDate); err == nil {
		s.LastWinDate = v
	}
	if v, err := store.Get(ctx, KeyLastStatsUpdate); err == nil {
		s.LastUpdate = v
	}
	if v, err := store.Get(ctx, KeyWinDistribution); err == nil {
		var dist [equation.MaxGuesses]int
		if json.Unmarshal([]byte(v), &dist) == nil {
			s.WinDistribution = dist
		}
	}
	return s
}

// Pairs renders the record as persistence key/value pairs, suitable for
// an atomic SetMany.
func (s Stats) Pairs() map[string]string {
	dist, _ := json.Marshal(s.WinDistribution)
	return map[string]string{
		KeyTotalGamesPlayed: strconv.Itoa(s.TotalPlayed),
		KeyTotalGamesWon:    strconv.Itoa(s.TotalWon),
		KeyCurrentStreak:    strconv.Itoa(s.CurrentStreak),
		KeyBestStreak:       strconv.Itoa(s.BestStreak),
		KeyFewestTries:      strconv.Itoa(s.FewestTries),
		KeyWinDistribution:  string(dist),
		KeyLastWinDate:      s.LastWinDate,
		KeyLastStatsUpdate:  s.LastUpdate,
	}
}

func loadInt(ctx context.Context, store kv.Store, key string, def int) int {
	v, err := store.Get(ctx, key)
	if err != nil {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}
