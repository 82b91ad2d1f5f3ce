// internal/daily/gate.go
//
// DailyGate: decides whether a new puzzle may begin today and supplies
// today's answer, generating and caching a fresh one on day rollover.

package daily

import (
	"context"
	"errors"
	"time"

	"github.com/connorpodea/EQLE/internal/equation"
	"github.com/connorpodea/EQLE/internal/kv"
)

// ErrAlreadyPlayed is returned when a new session is requested on a day
// whose puzzle already reached a terminal state.
var ErrAlreadyPlayed = errors.New("today's puzzle is already played")

// Gate gates play to once per calendar day and owns the cached answer.
type Gate struct {
	store kv.Store
	now   func() time.Time
}

// NewGate constructs a Gate over store. now is injectable for
// day-boundary tests; pass time.Now in production.
func NewGate(store kv.Store, now func() time.Time) *Gate {
	return &Gate{store: store, now: now}
}

// Today returns the current date key.
func (g *Gate) Today() string { return DateKey(g.now()) }

// CanPlayToday reports false iff the persisted last-completed date equals
// today. Missing or unreadable state degrades to playable.
func (g *Gate) CanPlayToday(ctx context.Context) bool {
	done, err := g.store.Get(ctx, KeyLastGameCompletedDate)
	if err != nil {
		return true
	}
	return done != g.Today()
}

// AnswerForToday returns the cached answer when the cached date matches
// today; otherwise it generates a new equation and persists both the
// answer and its date atomically. fresh reports whether a new equation
// was generated (the caller must then reset session state).
func (g *Gate) AnswerForToday(ctx context.Context, gen *equation.Generator) (answer string, fresh bool, err error) {
	today := g.Today()
	date, dateErr := g.store.Get(ctx, KeyLastEquationDate)
	cached, eqErr := g.store.Get(ctx, KeyDailyEquation)
	if dateErr == nil && eqErr == nil && date == today && equation.Validate(cached) == nil {
		return cached, false, nil
	}

	answer = gen.Generate()
	err = g.store.SetMany(ctx, map[string]string{
		KeyDailyEquation:    answer,
		KeyLastEquationDate: today,
	})
	if err != nil {
		return "", false, err
	}
	return answer, true, nil
}
