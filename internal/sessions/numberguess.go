package sessions

import (
	"errors"
	"fmt"
	"minigames/internal/games"
)

const (
	GuessMin = 1
	GuessMax = 100
)

var ErrOutOfRange = errors.New("guess out of range")

type Hint int

const (
	HintNone   Hint = iota
	HintHigher      // the secret is higher than the guess
	HintLower
	HintCorrect
)

func (h Hint) String() string {
	switch h {
	case HintHigher:
		return "higher"
	case HintLower:
		return "lower"
	case HintCorrect:
		return "correct"
	default:
		return ""
	}
}

type NumberGuess struct {
	lifecycle
	secret   int
	attempts int
}

func NewNumberGuess(opts Options) *NumberGuess {
	g := &NumberGuess{lifecycle: newLifecycle(games.NumberGuess, opts)}
	g.secret = g.opts.Rand.Intn(GuessMax-GuessMin+1) + GuessMin
	return g
}

func (g *NumberGuess) Attempts() int { return g.attempts }

// Guess starts the clock on the first call. Out-of-range guesses are not counted.
func (g *NumberGuess) Guess(n int) (Hint, error) {
	if g.finished() {
		return HintNone, ErrFinished
	}
	if n < GuessMin || n > GuessMax {
		return HintNone, fmt.Errorf("%w: %d not in [%d, %d]", ErrOutOfRange, n, GuessMin, GuessMax)
	}
	g.start()
	g.attempts++

	switch {
	case n < g.secret:
		g.emit("guess")
		return HintHigher, nil
	case n > g.secret:
		g.emit("guess")
		return HintLower, nil
	}
	g.complete(Result{
		Score:      float64(g.attempts),
		Time:       wholeSeconds(g.elapsed()),
		Difficulty: "normal",
	})
	return HintCorrect, nil
}
