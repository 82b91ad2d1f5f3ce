// internal/daily/daily.go
//
// Calendar-day boundary logic. All "same day" decisions in the engine go
// through DateKey so the local-time-zone comparison lives in one place.

package daily

import "time"

// DateKey returns YYYY-MM-DD in the local time zone of t.
func DateKey(t time.Time) string {
	return t.Format("2006-01-02")
}

// DaysBetween returns the number of calendar days from date key a to
// date key b (positive when b is later). Unparseable keys count as zero.
func DaysBetween(a, b string) int {
	ta, err := time.Parse("2006-01-02", a)
	if err != nil {
		return 0
	}
	tb, err := time.Parse("2006-01-02", b)
	if err != nil {
		return 0
	}
	return int(tb.Sub(ta).Hours() / 24)
}

// Persistence keys. These are the engine's complete durable surface.
const (
	KeyDailyEquation         = "DailyEquation"
	KeyLastEquationDate      = "LastEquationDate"
	KeyLastGameCompletedDate = "LastGameCompletedDate"
	KeyLastStatsUpdate       = "LastStatsUpdate"
	KeyLastWinDate           = "LastWinDate"
	KeyCurrentStreak         = "CurrentStreak"
	KeyBestStreak            = "BestStreak"
	KeyTotalGamesPlayed      = "TotalGamesPlayed"
	KeyTotalGamesWon         = "TotalGamesWon"
	KeyWinDistribution       = "WinDistribution"
	KeyFewestTries           = "FewestTries"
	KeySavedGuesses          = "SavedGuesses"
	KeyCurrentGuessIndex     = "CurrentGuessIndex"
	KeyCurrentCharIndex      = "CurrentCharIndex"
	KeyKeyColors             = "KeyColors"
)
