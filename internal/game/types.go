// internal/game/types.go
//
// Core type definitions for the EQLE game engine.
// Defines:
//   - Tile:  per-character result of a guess (correct/present/absent/unset).
//   - Guess: one equation row plus its index-aligned tile feedback.
//   - KeyFeedback: best tile seen per character across a session.

package game

// Tile represents the evaluation result for a single character position.
// Possible values:
//   - "correct": character is in the answer at this position.
//   - "present": character is in the answer at a different position.
//   - "absent":  character does not (further) occur in the answer.
//   - "unset":   not yet evaluated (pre-submission default).
type Tile string

const (
	TileCorrect Tile = "correct"
	TilePresent Tile = "present"
	TileAbsent  Tile = "absent"
	TileUnset   Tile = "unset"
)

// priority orders tiles for keyboard aggregation: correct > present > absent.
// Unset never reaches the keyboard map.
func (t Tile) priority() int {
	switch t {
	case TileCorrect:
		return 3
	case TilePresent:
		return 2
	case TileAbsent:
		return 1
	}
	return 0
}

// Guess is one row of the grid: the typed characters (space-padded until
// fully typed) and their feedback (all unset until finalized at submit).
type Guess struct {
	Chars string `json:"chars"`
	Tiles []Tile `json:"tiles"`
}

// KeyFeedback maps each typed character to the best tile seen for it this
// session. Entries only ever upgrade (see Merge).
type KeyFeedback map[string]Tile

// Merge upgrades the entry for character c to t if t has higher priority.
// An existing "correct" is never downgraded, nor "present" to "absent".
func (k KeyFeedback) Merge(c byte, t Tile) {
	key := string(c)
	if t.priority() > k[key].priority() {
		k[key] = t
	}
}
