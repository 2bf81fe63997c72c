package sessions

import (
	"errors"
	"minigames/internal/games"
	"minigames/internal/scoring"
)

const MemoryPairs = 8

var (
	ErrInvalidFlip = errors.New("card cannot be flipped")
	ErrPendingPair = errors.New("resolve the open pair first")
)

var memorySymbols = [MemoryPairs]string{"🍕", "🍦", "🎨", "🎭", "🦄", "🌈", "🎮", "🎲"}

type Card struct {
	Symbol  string
	FaceUp  bool
	Matched bool
}

type FlipOutcome int

const (
	FlipFirst FlipOutcome = iota
	FlipMatch
	FlipMismatch
)

type MemoryCard struct {
	lifecycle
	cards   []Card
	open    []int
	moves   int
	matched int
}

func NewMemoryCard(opts Options) *MemoryCard {
	m := &MemoryCard{lifecycle: newLifecycle(games.MemoryCard, opts)}
	for _, s := range memorySymbols {
		m.cards = append(m.cards, Card{Symbol: s}, Card{Symbol: s})
	}
	m.opts.Rand.Shuffle(len(m.cards), func(i, j int) {
		m.cards[i], m.cards[j] = m.cards[j], m.cards[i]
	})
	m.start()
	return m
}

func (m *MemoryCard) Cards() []Card {
	out := make([]Card, len(m.cards))
	copy(out, m.cards)
	return out
}

func (m *MemoryCard) Moves() int { return m.moves }

func (m *MemoryCard) Matched() int { return m.matched }

// Flip turns a card face up. The second flip of a pair counts as one move;
// a mismatched pair stays open until Resolve.
func (m *MemoryCard) Flip(i int) (FlipOutcome, error) {
	if m.finished() {
		return 0, ErrFinished
	}
	if len(m.open) == 2 {
		return 0, ErrPendingPair
	}
	if i < 0 || i >= len(m.cards) || m.cards[i].FaceUp || m.cards[i].Matched {
		return 0, ErrInvalidFlip
	}

	m.cards[i].FaceUp = true
	m.open = append(m.open, i)
	if len(m.open) == 1 {
		m.emit("flip")
		return FlipFirst, nil
	}

	m.moves++
	a, b := m.open[0], m.open[1]
	if m.cards[a].Symbol != m.cards[b].Symbol {
		m.emit("mismatch")
		return FlipMismatch, nil
	}

	m.cards[a].Matched, m.cards[b].Matched = true, true
	m.open = m.open[:0]
	m.matched++
	if m.matched == MemoryPairs {
		secs := atLeastOneSecond(m.elapsed())
		m.complete(Result{
			Score:      scoring.MemoryCardScore(m.moves, secs),
			Time:       secs,
			Difficulty: "normal",
		})
		return FlipMatch, nil
	}
	m.emit("match")
	return FlipMatch, nil
}

// Resolve turns an open mismatched pair face down.
func (m *MemoryCard) Resolve() {
	if len(m.open) != 2 {
		return
	}
	for _, i := range m.open {
		m.cards[i].FaceUp = false
	}
	m.open = m.open[:0]
	m.emit("resolve")
}
