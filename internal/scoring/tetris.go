package scoring

import "time"

type Tier struct {
	Name         string
	MinScore     float64
	FallInterval time.Duration
	Multiplier   float64
}

// Tiers is ordered by ascending MinScore.
var Tiers = []Tier{
	{Name: "beginner", MinScore: 0, FallInterval: 1000 * time.Millisecond, Multiplier: 1.0},
	{Name: "intermediate", MinScore: 1000, FallInterval: 700 * time.Millisecond, Multiplier: 1.5},
	{Name: "advanced", MinScore: 3000, FallInterval: 400 * time.Millisecond, Multiplier: 2.0},
	{Name: "expert", MinScore: 6000, FallInterval: 200 * time.Millisecond, Multiplier: 3.0},
	{Name: "master", MinScore: 10000, FallInterval: 100 * time.Millisecond, Multiplier: 5.0},
}

var lineClearPoints = map[int]float64{1: 100, 2: 300, 3: 500, 4: 800}

// LineClearReward uses combo and level as they stood before this clear.
func LineClearReward(lines, combo, level int, tier Tier) float64 {
	if lines <= 0 {
		return 0
	}
	return (lineClearPoints[lines] + float64(combo)*50 + float64(level)*20) * tier.Multiplier
}

func Level(totalLines int) int {
	return totalLines/10 + 1
}

// CurrentDifficulty returns the highest tier whose threshold does not exceed score.
func CurrentDifficulty(score float64) Tier {
	cur := Tiers[0]
	for _, t := range Tiers {
		if score >= t.MinScore {
			cur = t
		}
	}
	return cur
}

// NextDifficulty returns the tier after the current one and the points still
// needed to reach it. ok is false at the top tier.
func NextDifficulty(score float64) (next Tier, remaining float64, ok bool) {
	for _, t := range Tiers {
		if t.MinScore > score {
			return t, t.MinScore - score, true
		}
	}
	return Tier{}, 0, false
}

func TierIndex(name string) int {
	for i, t := range Tiers {
		if t.Name == name {
			return i
		}
	}
	return -1
}
