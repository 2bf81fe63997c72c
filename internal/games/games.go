package games

import (
	"errors"
	"fmt"
)

var ErrUnknownGameType = errors.New("unknown game type")

type GameType string

const (
	NumberGuess GameType = "number-guess"
	MemoryCard  GameType = "memory-card"
	Puzzle      GameType = "puzzle"
	Typing      GameType = "typing"
	ColorMatch  GameType = "color-match"
	Reaction    GameType = "reaction"
	Tetris      GameType = "tetris"
)

var all = []GameType{NumberGuess, MemoryCard, Puzzle, Typing, ColorMatch, Reaction, Tetris}

// All returns every game type in display order.
func All() []GameType {
	out := make([]GameType, len(all))
	copy(out, all)
	return out
}

func Parse(s string) (GameType, error) {
	for _, gt := range all {
		if string(gt) == s {
			return gt, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownGameType, s)
}

func (g GameType) Valid() bool {
	_, err := Parse(string(g))
	return err == nil
}

func (g GameType) String() string {
	return string(g)
}
