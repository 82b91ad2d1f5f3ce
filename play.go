// play.go
//
// Interactive terminal mode: play today's puzzle locally against the
// configured store, so quitting mid-game and coming back resumes, and
// streaks carry across days.

package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/connorpodea/EQLE/internal/engine"
	"github.com/connorpodea/EQLE/internal/game"
	"github.com/connorpodea/EQLE/internal/kv"
)

// ANSI backgrounds: black-on-green, black-on-yellow, black-on-red.
const (
	correctFormat = "\x1B[42m\x1B[30m%c\x1B[0m"
	presentFormat = "\x1B[43m\x1B[30m%c\x1B[0m"
	absentFormat  = "\x1B[41m\x1B[30m%c\x1B[0m"
)

func playCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "play",
		Short: "Play today's puzzle in the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, store, err := setup()
			if err != nil {
				return err
			}
			defer store.Close()
			return runPlay(cmd.Context(), store)
		},
	}
}

func runPlay(ctx context.Context, store kv.Store) error {
	eng, err := engine.New(ctx, engine.Options{
		Store: kv.Namespaced(store, "player/local"),
	})
	if err != nil {
		return err
	}

	snap := eng.CurrentState(ctx)
	fmt.Printf("EQLE %s — guess the 8-character equation in 6 tries\n\n", snap.Date)
	printGrid(snap)
	if snap.Terminal {
		printFinish(ctx, eng)
		return nil
	}

	sc := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !sc.Scan() {
			return sc.Err()
		}
		line := strings.TrimSpace(sc.Text())
		if line == "q" || line == "quit" {
			return nil
		}

		if err := typeRow(ctx, eng, line); err != nil {
			fmt.Println(engine.ReasonFor(err).Message())
			clearRow(ctx, eng)
			continue
		}
		out, err := eng.SubmitGuess(ctx)
		if err != nil {
			return err
		}
		if !out.Accepted {
			fmt.Println(out.Reason.Message())
			clearRow(ctx, eng)
			continue
		}

		printGrid(eng.CurrentState(ctx))
		if out.State != game.StateInProgress {
			printFinish(ctx, eng)
			return nil
		}
	}
}

// typeRow feeds line into the engine character by character.
func typeRow(ctx context.Context, eng *engine.Engine, line string) error {
	for i := 0; i < len(line); i++ {
		if err := eng.InsertCharacter(ctx, line[i]); err != nil {
			return err
		}
	}
	return nil
}

// clearRow deletes whatever was typed into the current row.
func clearRow(ctx context.Context, eng *engine.Engine) {
	for eng.CurrentState(ctx).Col > 0 {
		if eng.DeleteCharacter(ctx) != nil {
			return
		}
	}
}

func printGrid(snap engine.Snapshot) {
	for _, g := range snap.Guesses {
		if strings.TrimSpace(g.Chars) == "" {
			continue
		}
		for i := 0; i < len(g.Chars); i++ {
			switch g.Tiles[i] {
			case game.TileCorrect:
				fmt.Printf(correctFormat, g.Chars[i])
			case game.TilePresent:
				fmt.Printf(presentFormat, g.Chars[i])
			case game.TileAbsent:
				fmt.Printf(absentFormat, g.Chars[i])
			default:
				fmt.Printf("%c", g.Chars[i])
			}
		}
		fmt.Println()
	}
}

func printFinish(ctx context.Context, eng *engine.Engine) {
	snap := eng.CurrentState(ctx)
	if snap.State == game.StateWon {
		fmt.Printf("Solved in %d!\n", snap.Row)
	} else {
		fmt.Printf("Out of guesses — the answer was %s\n", snap.Answer)
	}
	st := eng.Stats()
	fmt.Printf("Played %d, won %d, streak %d (best %d), fewest tries %d\n",
		st.TotalPlayed, st.TotalWon, st.CurrentStreak, st.BestStreak, st.FewestTries)
}
