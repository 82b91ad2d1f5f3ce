package engine

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/connorpodea/EQLE/internal/daily"
	"github.com/connorpodea/EQLE/internal/game"
	"github.com/connorpodea/EQLE/internal/kv"
)

func fixedNow(key string) func() time.Time {
	t, _ := time.Parse("2006-01-02", key)
	return func() time.Time { return t }
}

// newTestEngine pins the date and pre-seeds today's answer so scenarios
// are deterministic.
func newTestEngine(t *testing.T, store kv.Store, date, answer string) *Engine {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, store.SetMany(ctx, map[string]string{
		daily.KeyDailyEquation:    answer,
		daily.KeyLastEquationDate: date,
	}))
	eng, err := New(ctx, Options{Store: store, Now: fixedNow(date)})
	require.NoError(t, err)
	return eng
}

func typeRow(t *testing.T, eng *Engine, text string) {
	t.Helper()
	ctx := context.Background()
	for i := 0; i < len(text); i++ {
		require.NoError(t, eng.InsertCharacter(ctx, text[i]))
	}
}

func TestEngine_WinFirstTry(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemoryStore()
	eng := newTestEngine(t, store, "2024-03-07", "12+57=69")

	typeRow(t, eng, "12+57=69")
	out, err := eng.SubmitGuess(ctx)
	require.NoError(t, err)
	assert.True(t, out.Accepted)
	assert.True(t, game.AllCorrect(out.Tiles))
	assert.Equal(t, game.StateWon, out.State)

	st := eng.Stats()
	assert.Equal(t, 1, st.TotalPlayed)
	assert.Equal(t, 1, st.TotalWon)
	assert.Equal(t, [6]int{1, 0, 0, 0, 0, 0}, st.WinDistribution)
	assert.Equal(t, 1, st.FewestTries)

	assert.False(t, eng.CanPlayToday(ctx))

	done, err := store.Get(ctx, daily.KeyLastGameCompletedDate)
	require.NoError(t, err)
	assert.Equal(t, "2024-03-07", done)
}

func TestEngine_IncompleteInput(t *testing.T) {
	ctx := context.Background()
	eng := newTestEngine(t, kv.NewMemoryStore(), "2024-03-07", "12+57=69")

	typeRow(t, eng, "12+5")
	out, err := eng.SubmitGuess(ctx)
	require.NoError(t, err)
	assert.False(t, out.Accepted)
	assert.Equal(t, ReasonIncompleteInput, out.Reason)

	snap := eng.CurrentState(ctx)
	assert.Equal(t, 0, snap.Row, "guess not consumed")
	assert.Equal(t, 4, snap.Col, "cursor unchanged")
}

func TestEngine_ArithmeticMismatch(t *testing.T) {
	ctx := context.Background()
	eng := newTestEngine(t, kv.NewMemoryStore(), "2024-03-07", "10+10=20")

	typeRow(t, eng, "10+10=21")
	out, err := eng.SubmitGuess(ctx)
	require.NoError(t, err)
	assert.False(t, out.Accepted)
	assert.Equal(t, ReasonArithmeticMismatch, out.Reason)

	snap := eng.CurrentState(ctx)
	assert.Equal(t, 0, snap.Row)
	assert.Equal(t, game.TileUnset, snap.Guesses[0].Tiles[0], "no tiles colored")

	// A transposition of the answer's characters is still rejected when
	// the sides don't balance (1+1 is not 20); no feedback leaks.
	for i := 0; i < 8; i++ {
		require.NoError(t, eng.DeleteCharacter(ctx))
	}
	typeRow(t, eng, "01+01=20")
	out, err = eng.SubmitGuess(ctx)
	require.NoError(t, err)
	assert.False(t, out.Accepted)
	assert.Equal(t, ReasonArithmeticMismatch, out.Reason)
	assert.Empty(t, out.Tiles)
}

func TestEngine_DuplicateAwareFeedback(t *testing.T) {
	ctx := context.Background()
	eng := newTestEngine(t, kv.NewMemoryStore(), "2024-03-07", "10+10=20")

	// Valid guess (20+0=20) with more 0s than the answer holds: three
	// land exactly, the fourth must come back absent.
	typeRow(t, eng, "20+00=20")
	out, err := eng.SubmitGuess(ctx)
	require.NoError(t, err)
	require.True(t, out.Accepted)
	want := []game.Tile{
		game.TileAbsent, game.TileCorrect, game.TileCorrect, game.TileAbsent,
		game.TileCorrect, game.TileCorrect, game.TileCorrect, game.TileCorrect,
	}
	assert.Equal(t, want, out.Tiles)
}

func TestEngine_LostAfterSixGuesses(t *testing.T) {
	ctx := context.Background()
	eng := newTestEngine(t, kv.NewMemoryStore(), "2024-03-07", "12+57=69")

	wrong := []string{
		"10+10=20", "11+11=22", "20+20=40",
		"30+30=60", "40+40=80", "23+45=68",
	}
	for _, g := range wrong {
		typeRow(t, eng, g)
		out, err := eng.SubmitGuess(ctx)
		require.NoError(t, err)
		require.True(t, out.Accepted)
	}

	snap := eng.CurrentState(ctx)
	assert.Equal(t, game.StateLost, snap.State)
	assert.Equal(t, "12+57=69", snap.Answer, "answer revealed once terminal")

	st := eng.Stats()
	assert.Equal(t, 1, st.TotalPlayed)
	assert.Equal(t, 0, st.TotalWon)
	assert.Equal(t, [6]int{}, st.WinDistribution, "no win recorded")
	assert.Equal(t, 0, st.CurrentStreak)
}

func TestEngine_TerminalRejectsEverything(t *testing.T) {
	ctx := context.Background()
	eng := newTestEngine(t, kv.NewMemoryStore(), "2024-03-07", "12+57=69")

	typeRow(t, eng, "12+57=69")
	_, err := eng.SubmitGuess(ctx)
	require.NoError(t, err)

	assert.Error(t, eng.InsertCharacter(ctx, '1'))
	assert.Error(t, eng.DeleteCharacter(ctx))
	out, err := eng.SubmitGuess(ctx)
	require.NoError(t, err)
	assert.Equal(t, ReasonSessionTerminal, out.Reason)
	assert.ErrorIs(t, eng.Restart(ctx), daily.ErrAlreadyPlayed)

	// A restart on the same day cannot re-count stats.
	st := eng.Stats()
	assert.Equal(t, 1, st.TotalPlayed)
}

func TestEngine_StreakIncrementsAcrossDays(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemoryStore()

	// Yesterday's record: a 3-day streak, best 5.
	prior := daily.DefaultStats()
	prior.TotalPlayed = 10
	prior.TotalWon = 8
	prior.CurrentStreak = 3
	prior.BestStreak = 5
	prior.FewestTries = 2
	prior.LastWinDate = "2024-03-06"
	prior.LastUpdate = "2024-03-06"
	require.NoError(t, store.SetMany(ctx, prior.Pairs()))

	eng := newTestEngine(t, store, "2024-03-07", "12+57=69")
	typeRow(t, eng, "12+57=69")
	out, err := eng.SubmitGuess(ctx)
	require.NoError(t, err)
	require.True(t, out.Accepted)

	st := eng.Stats()
	assert.Equal(t, 4, st.CurrentStreak, "consecutive-day win increments")
	assert.Equal(t, 5, st.BestStreak)
	assert.Equal(t, 11, st.TotalPlayed)
	assert.Equal(t, 9, st.TotalWon)
}

func TestEngine_ResumesSameDaySession(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemoryStore()

	eng := newTestEngine(t, store, "2024-03-07", "12+57=69")
	typeRow(t, eng, "10+10=20")
	out, err := eng.SubmitGuess(ctx)
	require.NoError(t, err)
	require.True(t, out.Accepted)
	typeRow(t, eng, "12+")

	// Simulated restart: same store, same day.
	restarted, err := New(ctx, Options{Store: store, Now: fixedNow("2024-03-07")})
	require.NoError(t, err)

	snap := restarted.CurrentState(ctx)
	assert.Equal(t, 1, snap.Row)
	assert.Equal(t, 3, snap.Col)
	assert.Equal(t, "10+10=20", snap.Guesses[0].Chars)
	assert.Equal(t, "12+     ", snap.Guesses[1].Chars)
	assert.Equal(t, out.Tiles, snap.Guesses[0].Tiles, "finalized feedback survives")
	assert.Equal(t, game.StateInProgress, snap.State)
	assert.NotEmpty(t, snap.Keys, "keyboard feedback survives")
}

func TestEngine_FreshSessionNextDay(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemoryStore()

	day := "2024-03-07"
	now := func() time.Time {
		d, _ := time.Parse("2006-01-02", day)
		return d
	}
	require.NoError(t, store.SetMany(ctx, map[string]string{
		daily.KeyDailyEquation:    "12+57=69",
		daily.KeyLastEquationDate: day,
	}))
	eng, err := New(ctx, Options{Store: store, Now: now})
	require.NoError(t, err)

	typeRow(t, eng, "12+57=69")
	_, err = eng.SubmitGuess(ctx)
	require.NoError(t, err)
	assert.False(t, eng.CanPlayToday(ctx))

	// Midnight passes.
	day = "2024-03-08"
	assert.True(t, eng.CanPlayToday(ctx))

	snap := eng.CurrentState(ctx)
	assert.Equal(t, "2024-03-08", snap.Date)
	assert.Equal(t, game.StateInProgress, snap.State)
	assert.Equal(t, 0, snap.Row)
	assert.Empty(t, snap.Keys, "keyboard feedback reset")

	st := eng.Stats()
	assert.Equal(t, 1, st.TotalPlayed, "stats persist across the boundary")
}

func TestEngine_CorruptSavedDataDegradesToFresh(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemoryStore()
	require.NoError(t, store.SetMany(ctx, map[string]string{
		daily.KeyDailyEquation:     "12+57=69",
		daily.KeyLastEquationDate:  "2024-03-07",
		daily.KeySavedGuesses:      "{not json",
		daily.KeyCurrentGuessIndex: "3",
	}))

	eng, err := New(ctx, Options{Store: store, Now: fixedNow("2024-03-07")})
	require.NoError(t, err)

	snap := eng.CurrentState(ctx)
	assert.Equal(t, 0, snap.Row)
	assert.Equal(t, game.StateInProgress, snap.State)
}

func TestEngine_RestartClearsInProgressSession(t *testing.T) {
	ctx := context.Background()
	eng := newTestEngine(t, kv.NewMemoryStore(), "2024-03-07", "12+57=69")

	typeRow(t, eng, "10+10=20")
	_, err := eng.SubmitGuess(ctx)
	require.NoError(t, err)

	require.NoError(t, eng.Restart(ctx))
	snap := eng.CurrentState(ctx)
	assert.Equal(t, 0, snap.Row)
	assert.Equal(t, "        ", snap.Guesses[0].Chars)
}
