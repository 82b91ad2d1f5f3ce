// internal/engine/engine.go
//
// Engine orchestrates one player's daily puzzle:
//   - asks the DailyGate for today's answer (cached or freshly generated),
//   - owns the session state machine for the current calendar day,
//   - persists explicitly after every state-machine transition,
//   - updates streak/statistics exactly once when a session terminates,
//   - restores mid-session progress across restarts (same day only).
//
// All mutations are expected from one sequential stream of events; the
// engine itself does no locking. Callers that multiplex players hold a
// per-engine mutex (see httpserver).

package engine

import (
	"context"
	"encoding/json"
	"math/rand"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/connorpodea/EQLE/internal/daily"
	"github.com/connorpodea/EQLE/internal/equation"
	"github.com/connorpodea/EQLE/internal/game"
	"github.com/connorpodea/EQLE/internal/kv"
)

// Options configures a new Engine. Zero fields get production defaults.
type Options struct {
	Store  kv.Store         // required
	Rand   equation.Rand    // default: math/rand seeded from wall clock
	Now    func() time.Time // default: time.Now
	Logger zerolog.Logger
}

// Engine is the rules engine behind the public game operations.
type Engine struct {
	store kv.Store
	gate  *daily.Gate
	gen   *equation.Generator
	now   func() time.Time
	log   zerolog.Logger

	today string
	sess  *game.Session
	stats daily.Stats
}

// Outcome reports the result of a submit attempt. Rejections are
// recoverable: Accepted is false, Reason identifies the failure, and no
// state changed.
type Outcome struct {
	Accepted bool        `json:"accepted"`
	Reason   Reason      `json:"reason,omitempty"`
	Tiles    []game.Tile `json:"tiles,omitempty"`
	State    game.State  `json:"state"`
}

// Snapshot is the read-only view handed to the presentation layer.
type Snapshot struct {
	Date     string           `json:"date"`
	Guesses  []game.Guess     `json:"guesses"`
	Row      int              `json:"row"`
	Col      int              `json:"col"`
	State    game.State       `json:"state"`
	Terminal bool             `json:"terminal"`
	Keys     game.KeyFeedback `json:"keys"`
	Answer   string           `json:"answer,omitempty"` // revealed once terminal
}

// New constructs an Engine over opts.Store and brings today's session up:
// cached equation and saved progress when the stored dates match today,
// otherwise a freshly generated puzzle. Corrupt or missing persisted data
// degrades to a fresh session and empty stats; the engine always comes up
// playable.
func New(ctx context.Context, opts Options) (*Engine, error) {
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	e := &Engine{
		store: opts.Store,
		gate:  daily.NewGate(opts.Store, opts.Now),
		gen:   equation.NewGenerator(opts.Rand),
		now:   opts.Now,
		log:   opts.Logger,
	}
	e.stats = daily.LoadStats(ctx, e.store)
	if err := e.rollover(ctx); err != nil {
		return nil, err
	}
	return e, nil
}

// rollover makes the in-memory session match today's puzzle. On a fresh
// equation the session resets; otherwise saved progress is restored.
func (e *Engine) rollover(ctx context.Context) error {
	answer, fresh, err := e.gate.AnswerForToday(ctx, e.gen)
	if err != nil {
		return err
	}
	e.today = e.gate.Today()
	if !fresh {
		if sess := e.restore(ctx, answer); sess != nil {
			e.sess = sess
			return nil
		}
	}
	e.sess = game.NewSession(answer)
	return e.store.SetMany(ctx, e.sessionPairs())
}

// ensureToday re-checks the calendar boundary; called on every entry
// point rather than via a background timer.
func (e *Engine) ensureToday(ctx context.Context) error {
	if e.today == e.gate.Today() {
		return nil
	}
	e.log.Info().Str("date", e.gate.Today()).Msg("day rollover")
	return e.rollover(ctx)
}

// restore rebuilds a session from saved progress, or returns nil when
// the data is missing or unusable.
func (e *Engine) restore(ctx context.Context, answer string) *game.Session {
	raw, err := e.store.Get(ctx, daily.KeySavedGuesses)
	if err != nil {
		return nil
	}
	var guesses []game.Guess
	if json.Unmarshal([]byte(raw), &guesses) != nil || len(guesses) != equation.MaxGuesses {
		return nil
	}
	for _, g := range guesses {
		if len(g.Chars) != equation.Length || len(g.Tiles) != equation.Length {
			return nil
		}
	}

	sess := game.NewSession(answer)
	sess.Guesses = guesses
	sess.Row = clamp(e.loadInt(ctx, daily.KeyCurrentGuessIndex), 0, equation.MaxGuesses)
	sess.Col = clamp(e.loadInt(ctx, daily.KeyCurrentCharIndex), 0, equation.Length)
	if raw, err := e.store.Get(ctx, daily.KeyKeyColors); err == nil {
		keys := make(game.KeyFeedback)
		if json.Unmarshal([]byte(raw), &keys) == nil {
			sess.Keys = keys
		}
	}

	// Derive the state from the finalized rows.
	for i := 0; i < sess.Row; i++ {
		if game.AllCorrect(sess.Guesses[i].Tiles) {
			sess.State = game.StateWon
		}
	}
	if sess.State == game.StateInProgress && sess.Row >= equation.MaxGuesses {
		sess.State = game.StateLost
	}
	return sess
}

// CanPlayToday reports whether a new puzzle may still be played today.
func (e *Engine) CanPlayToday(ctx context.Context) bool {
	if err := e.ensureToday(ctx); err != nil {
		e.log.Error().Err(err).Msg("rollover failed")
	}
	return e.gate.CanPlayToday(ctx)
}

// InsertCharacter writes c at the cursor and persists the new progress.
func (e *Engine) InsertCharacter(ctx context.Context, c byte) error {
	if err := e.ensureToday(ctx); err != nil {
		return err
	}
	if err := e.sess.InsertCharacter(c); err != nil {
		return err
	}
	return e.store.SetMany(ctx, e.sessionPairs())
}

// DeleteCharacter retracts the cursor and persists the new progress.
func (e *Engine) DeleteCharacter(ctx context.Context) error {
	if err := e.ensureToday(ctx); err != nil {
		return err
	}
	if err := e.sess.DeleteCharacter(); err != nil {
		return err
	}
	return e.store.SetMany(ctx, e.sessionPairs())
}

// SubmitGuess finalizes the current row. Rejections come back in the
// Outcome with nothing persisted and no turn consumed; the returned error
// is reserved for storage failures. When the session terminates, stats
// and the completion date are persisted in the same atomic write as the
// session itself.
func (e *Engine) SubmitGuess(ctx context.Context) (Outcome, error) {
	if err := e.ensureToday(ctx); err != nil {
		return Outcome{}, err
	}

	tiles, err := e.sess.SubmitGuess()
	if err != nil {
		return Outcome{Accepted: false, Reason: ReasonFor(err), State: e.sess.State}, nil
	}

	pairs := e.sessionPairs()
	if e.sess.Terminal() {
		won := e.sess.State == game.StateWon
		tries := e.sess.TriesUsed()
		if e.stats.RecordResult(won, tries, e.today) {
			for k, v := range e.stats.Pairs() {
				pairs[k] = v
			}
		}
		pairs[daily.KeyLastGameCompletedDate] = e.today
		e.log.Info().
			Bool("won", won).
			Int("tries", tries).
			Str("date", e.today).
			Msg("session terminal")
	}
	if err := e.store.SetMany(ctx, pairs); err != nil {
		return Outcome{}, err
	}
	return Outcome{Accepted: true, Tiles: tiles, State: e.sess.State}, nil
}

// Restart discards today's in-progress session and starts over with the
// same equation. Forbidden once today's puzzle has been completed.
func (e *Engine) Restart(ctx context.Context) error {
	if err := e.ensureToday(ctx); err != nil {
		return err
	}
	if !e.gate.CanPlayToday(ctx) {
		return daily.ErrAlreadyPlayed
	}
	e.sess = game.NewSession(e.sess.Answer)
	return e.store.SetMany(ctx, e.sessionPairs())
}

// CurrentState returns a snapshot of the grid, cursor, keyboard feedback,
// and (once terminal) the answer.
func (e *Engine) CurrentState(ctx context.Context) Snapshot {
	if err := e.ensureToday(ctx); err != nil {
		e.log.Error().Err(err).Msg("rollover failed")
	}
	snap := Snapshot{
		Date:     e.today,
		Guesses:  e.sess.Guesses,
		Row:      e.sess.Row,
		Col:      e.sess.Col,
		State:    e.sess.State,
		Terminal: e.sess.Terminal(),
		Keys:     e.sess.Keys,
	}
	if snap.Terminal {
		snap.Answer = e.sess.Answer
	}
	return snap
}

// Stats returns a copy of the lifetime record.
func (e *Engine) Stats() daily.Stats { return e.stats }

// sessionPairs renders resumable session state as persistence pairs.
func (e *Engine) sessionPairs() map[string]string {
	guesses, _ := json.Marshal(e.sess.Guesses)
	keys, _ := json.Marshal(e.sess.Keys)
	return map[string]string{
		daily.KeySavedGuesses:      string(guesses),
		daily.KeyCurrentGuessIndex: strconv.Itoa(e.sess.Row),
		daily.KeyCurrentCharIndex:  strconv.Itoa(e.sess.Col),
		daily.KeyKeyColors:         string(keys),
	}
}

func (e *Engine) loadInt(ctx context.Context, key string) int {
	v, err := e.store.Get(ctx, key)
	if err != nil {
		return 0
	}
	n, _ := strconv.Atoi(v)
	return n
}

func clamp(n, lo, hi int) int {
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}
