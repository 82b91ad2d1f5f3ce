// internal/game/session.go
//
// Guess-by-guess state machine for one calendar day's puzzle.
// Responsibilities:
//   - Track the 6x8 grid, cursor (row/column), and keyboard feedback.
//   - Validate and apply character insertion, deletion, and submission.
//   - Track state transitions: in_progress → won/lost.
//
// Rejected operations leave all state unchanged and return one of the
// exported sentinel errors so callers can surface a distinct reason.

package game

import (
	"errors"
	"fmt"
	"strings"

	"github.com/connorpodea/EQLE/internal/equation"
)

var (
	ErrIncompleteInput  = errors.New("equation is not fully typed")
	ErrSessionTerminal  = errors.New("session already finished")
	ErrInvalidCharacter = errors.New("character not allowed in an equation")
	ErrRowFull          = errors.New("row is already full")
	ErrRowEmpty         = errors.New("nothing to delete")
)

// State is the coarse session state.
type State string

const (
	StateInProgress State = "in_progress"
	StateWon        State = "won"
	StateLost       State = "lost"
)

// Session holds the state of one day's puzzle attempt.
type Session struct {
	Answer  string      `json:"answer"`
	Guesses []Guess     `json:"guesses"` // exactly equation.MaxGuesses rows
	Row     int         `json:"row"`     // current guess index, 0..5
	Col     int         `json:"col"`     // current character index, 0..8
	State   State       `json:"state"`
	Keys    KeyFeedback `json:"keys"`
}

// NewSession constructs a fresh session for answer: six empty rows
// (space-padded, all tiles unset), cursor at origin.
func NewSession(answer string) *Session {
	s := &Session{
		Answer:  answer,
		Guesses: make([]Guess, equation.MaxGuesses),
		State:   StateInProgress,
		Keys:    make(KeyFeedback),
	}
	for i := range s.Guesses {
		s.Guesses[i] = emptyGuess()
	}
	return s
}

func emptyGuess() Guess {
	tiles := make([]Tile, equation.Length)
	for i := range tiles {
		tiles[i] = TileUnset
	}
	return Guess{Chars: strings.Repeat(" ", equation.Length), Tiles: tiles}
}

// Terminal reports whether the session has ended (won or lost).
func (s *Session) Terminal() bool { return s.State != StateInProgress }

// InsertCharacter writes c at the cursor and advances the column.
// Allowed only while in progress, with room in the current row, and for
// characters of the equation alphabet.
func (s *Session) InsertCharacter(c byte) error {
	if s.Terminal() {
		return ErrSessionTerminal
	}
	if !equation.IsValidChar(c) {
		return fmt.Errorf("%w: %q", ErrInvalidCharacter, c)
	}
	if s.Col >= equation.Length {
		return ErrRowFull
	}
	row := []byte(s.Guesses[s.Row].Chars)
	row[s.Col] = c
	s.Guesses[s.Row].Chars = string(row)
	s.Col++
	return nil
}

// DeleteCharacter retracts the cursor by one column and clears that
// position. Allowed only while in progress with at least one character.
func (s *Session) DeleteCharacter() error {
	if s.Terminal() {
		return ErrSessionTerminal
	}
	if s.Col == 0 {
		return ErrRowEmpty
	}
	s.Col--
	row := []byte(s.Guesses[s.Row].Chars)
	row[s.Col] = ' '
	s.Guesses[s.Row].Chars = string(row)
	return nil
}

// SubmitGuess finalizes the current row.
//
// Rejections (row left in place, no turn consumed):
//   - ErrSessionTerminal if the session has ended.
//   - ErrIncompleteInput if fewer than 8 characters are typed.
//   - equation.ErrMalformed / equation.ErrArithmetic from validation.
//
// On acceptance the row's tiles are finalized, the keyboard map is
// upgraded, the cursor advances, and the terminal condition is
// re-evaluated. Returns the finalized tiles.
func (s *Session) SubmitGuess() ([]Tile, error) {
	if s.Terminal() {
		return nil, ErrSessionTerminal
	}
	if s.Col < equation.Length {
		return nil, ErrIncompleteInput
	}
	text := s.Guesses[s.Row].Chars
	if err := equation.Validate(text); err != nil {
		return nil, err
	}

	tiles := Score(s.Answer, text)
	s.Guesses[s.Row].Tiles = tiles
	MergeKeys(s.Keys, text, tiles)

	s.Row++
	s.Col = 0
	switch {
	case AllCorrect(tiles):
		s.State = StateWon
	case s.Row >= equation.MaxGuesses:
		s.State = StateLost
	}
	return tiles, nil
}

// TriesUsed returns the number of finalized guesses.
func (s *Session) TriesUsed() int { return s.Row }
