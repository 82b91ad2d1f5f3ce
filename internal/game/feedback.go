// internal/game/feedback.go
//
// Guess scoring for the EQLE engine: the standard two-pass,
// duplicate-aware comparison, generalized from letters to the equation
// alphabet (digits, operators, '=').

package game

// Score compares guess against answer position by position.
//
// Pass 1:
//   - Mark exact matches as correct.
//   - Count remaining (non-correct) answer characters by character.
//
// Pass 2:
//   - For each non-correct guess character: if there is remaining count
//     for that character, mark present and decrement; otherwise absent.
//
// This guarantees that for any character c the number of correct+present
// marks never exceeds c's frequency in the answer.
func Score(answer, guess string) []Tile {
	n := len(guess)
	res := make([]Tile, n)

	// Frequency of answer characters not matched exactly.
	counts := make(map[byte]int, n)

	for i := 0; i < n; i++ {
		if guess[i] == answer[i] {
			res[i] = TileCorrect
		} else {
			counts[answer[i]]++
		}
	}

	for i := 0; i < n; i++ {
		if res[i] == TileCorrect {
			continue
		}
		if counts[guess[i]] > 0 {
			res[i] = TilePresent
			counts[guess[i]]--
		} else {
			res[i] = TileAbsent
		}
	}
	return res
}

// MergeKeys folds a finalized guess into the caller-owned keyboard map,
// upgrading each character's entry per tile priority.
func MergeKeys(keys KeyFeedback, guess string, tiles []Tile) {
	for i := 0; i < len(guess) && i < len(tiles); i++ {
		keys.Merge(guess[i], tiles[i])
	}
}

// AllCorrect reports whether every tile is correct.
func AllCorrect(tiles []Tile) bool {
	for _, t := range tiles {
		if t != TileCorrect {
			return false
		}
	}
	return true
}
