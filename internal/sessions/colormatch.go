package sessions

import (
	"errors"
	"minigames/internal/games"
	"minigames/internal/scoring"
)

const (
	ColorMatchRounds  = 10
	colorMatchOptions = 3
)

var ErrInvalidChoice = errors.New("no such option")

type Color struct {
	Name string
	Hex  string
}

var Palette = []Color{
	{Name: "red", Hex: "#ff6b6b"},
	{Name: "teal", Hex: "#4ecdc4"},
	{Name: "blue", Hex: "#45b7d1"},
	{Name: "green", Hex: "#96ceb4"},
	{Name: "yellow", Hex: "#feca57"},
	{Name: "pink", Hex: "#ff9ff3"},
}

// ColorRound shows Word rendered in Ink. The right answer is Ink.
type ColorRound struct {
	Word    Color
	Ink     Color
	Options []Color
}

type ColorMatch struct {
	lifecycle
	round    ColorRound
	answered int
	correct  int
}

func NewColorMatch(opts Options) *ColorMatch {
	c := &ColorMatch{lifecycle: newLifecycle(games.ColorMatch, opts)}
	c.start()
	c.nextRound()
	return c
}

func (c *ColorMatch) nextRound() {
	r := c.opts.Rand
	ink := Palette[r.Intn(len(Palette))]
	word := Palette[r.Intn(len(Palette))]

	var others []Color
	for _, col := range Palette {
		if col != ink {
			others = append(others, col)
		}
	}
	r.Shuffle(len(others), func(i, j int) { others[i], others[j] = others[j], others[i] })

	options := append([]Color{ink}, others[:colorMatchOptions-1]...)
	r.Shuffle(len(options), func(i, j int) { options[i], options[j] = options[j], options[i] })

	c.round = ColorRound{Word: word, Ink: ink, Options: options}
}

func (c *ColorMatch) Round() ColorRound { return c.round }

// RoundNumber is 1-based.
func (c *ColorMatch) RoundNumber() int { return c.answered + 1 }

func (c *ColorMatch) Correct() int { return c.correct }

func (c *ColorMatch) Accuracy() float64 {
	return scoring.Accuracy(c.correct, c.answered)
}

// Choose answers the current round with the option at index.
func (c *ColorMatch) Choose(index int) (bool, error) {
	if c.finished() {
		return false, ErrFinished
	}
	if index < 0 || index >= len(c.round.Options) {
		return false, ErrInvalidChoice
	}
	right := c.round.Options[index] == c.round.Ink
	if right {
		c.correct++
	}
	c.answered++

	if c.answered < ColorMatchRounds {
		c.nextRound()
		c.emit("answer")
		return right, nil
	}
	elapsed := c.elapsed()
	c.complete(Result{
		Score:      scoring.ColorMatchScore(c.Accuracy(), elapsed.Milliseconds()),
		Time:       centiSeconds(elapsed),
		Difficulty: "normal",
	})
	return right, nil
}
