// internal/engine/reasons.go
//
// Stable, user-displayable rejection reasons. The presentation layer
// keys messages off these rather than raw error strings.

package engine

import (
	"errors"

	"github.com/connorpodea/EQLE/internal/daily"
	"github.com/connorpodea/EQLE/internal/equation"
	"github.com/connorpodea/EQLE/internal/game"
)

// Reason classifies a rejected operation.
type Reason string

const (
	ReasonIncompleteInput    Reason = "incomplete_input"
	ReasonMalformedEquation  Reason = "malformed_equation"
	ReasonArithmeticMismatch Reason = "arithmetic_mismatch"
	ReasonSessionTerminal    Reason = "session_terminal"
	ReasonAlreadyPlayedToday Reason = "already_played_today"
	ReasonInvalidCharacter   Reason = "invalid_character"
	ReasonRowFull            Reason = "row_full"
	ReasonRowEmpty           Reason = "row_empty"
	ReasonUnknown            Reason = "unknown"
)

// ReasonFor maps a rejection error to its reason code.
func ReasonFor(err error) Reason {
	switch {
	case errors.Is(err, game.ErrIncompleteInput), errors.Is(err, equation.ErrIncomplete):
		return ReasonIncompleteInput
	case errors.Is(err, equation.ErrMalformed):
		return ReasonMalformedEquation
	case errors.Is(err, equation.ErrArithmetic):
		return ReasonArithmeticMismatch
	case errors.Is(err, game.ErrSessionTerminal):
		return ReasonSessionTerminal
	case errors.Is(err, daily.ErrAlreadyPlayed):
		return ReasonAlreadyPlayedToday
	case errors.Is(err, game.ErrInvalidCharacter):
		return ReasonInvalidCharacter
	case errors.Is(err, game.ErrRowFull):
		return ReasonRowFull
	case errors.Is(err, game.ErrRowEmpty):
		return ReasonRowEmpty
	}
	return ReasonUnknown
}

// Message returns the user-facing text for a reason.
func (r Reason) Message() string {
	switch r {
	case ReasonIncompleteInput:
		return "Type all 8 characters first"
	case ReasonMalformedEquation:
		return "That isn't a valid equation"
	case ReasonArithmeticMismatch:
		return "The two sides aren't equal"
	case ReasonSessionTerminal:
		return "Today's puzzle is finished"
	case ReasonAlreadyPlayedToday:
		return "Come back tomorrow for a new puzzle"
	case ReasonInvalidCharacter:
		return "Only digits, + - * / and = are allowed"
	case ReasonRowFull:
		return "The row is full"
	case ReasonRowEmpty:
		return "Nothing to delete"
	}
	return "Something went wrong"
}
