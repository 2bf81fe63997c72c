// Package scoring turns raw play metrics into the bounded scores that are
// persisted and ranked. Every function here is pure.
package scoring

import (
	"math"

	"github.com/shopspring/decimal"
)

type EfficiencyParams struct {
	OptimalMoves float64
	OptimalTime  float64
	MovesWeight  float64
	TimeWeight   float64
	BaseMax      float64
}

var (
	PuzzleParams = EfficiencyParams{
		OptimalMoves: 80,
		OptimalTime:  48,
		MovesWeight:  0.6,
		TimeWeight:   0.4,
		BaseMax:      80,
	}
	MemoryCardParams = EfficiencyParams{
		OptimalMoves: 16,
		OptimalTime:  30,
		MovesWeight:  0.7,
		TimeWeight:   0.3,
		BaseMax:      60,
	}
)

// ratio is min(1, optimal/actual).
func ratio(optimal, actual float64) float64 {
	if actual <= 0 {
		return 1
	}
	return math.Min(1, optimal/actual)
}

// harmonic is the weighted harmonic mean of two efficiencies. A zero
// efficiency collapses the mean to zero.
func harmonic(w1, e1, w2, e2 float64) float64 {
	if e1 <= 0 || e2 <= 0 {
		return 0
	}
	return (w1 + w2) / (w1/e1 + w2/e2)
}

// Efficiency requires moves >= 1 and seconds > 0.
func Efficiency(p EfficiencyParams, moves int, seconds float64) float64 {
	em := ratio(p.OptimalMoves, float64(moves))
	et := ratio(p.OptimalTime, seconds)
	return harmonic(p.MovesWeight, em, p.TimeWeight, et)
}

func PuzzleScore(moves int, seconds float64) float64 {
	p := PuzzleParams
	base := p.BaseMax * Efficiency(p, moves, seconds)

	movesMet := float64(moves) <= p.OptimalMoves
	timeMet := seconds <= p.OptimalTime
	bonus := 0.0
	if movesMet {
		bonus += 10
	}
	if timeMet {
		bonus += 5
	}
	if movesMet && timeMet {
		bonus += 5
	}
	return Round2(base + bonus)
}

func MemoryCardScore(moves int, seconds float64) float64 {
	p := MemoryCardParams
	base := math.Min(80, p.BaseMax*Efficiency(p, moves, seconds))

	m := float64(moves)
	bonus := 0.0
	for _, tier := range []struct{ factor, points float64 }{
		{1.1, 10}, {1.2, 7}, {1.3, 5}, {1.5, 3},
	} {
		if m <= p.OptimalMoves*tier.factor {
			bonus += tier.points
		}
	}
	for _, tier := range []struct{ factor, points float64 }{
		{1.0, 8}, {1.2, 5}, {1.5, 3},
	} {
		if seconds <= p.OptimalTime*tier.factor {
			bonus += tier.points
		}
	}
	return Clamp(Round2(base + bonus))
}

// Round2 rounds half away from zero to two decimal places.
func Round2(x float64) float64 {
	f, _ := decimal.NewFromFloat(x).Round(2).Float64()
	return f
}

// Clamp bounds a score to [0, 100].
func Clamp(x float64) float64 {
	return math.Max(0, math.Min(100, x))
}
