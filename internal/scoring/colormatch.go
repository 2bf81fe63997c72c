package scoring

import "math"

const (
	colorMatchGraceSeconds = 10.0
	colorMatchMaxTimeScore = 90.0
)

func ColorMatchScore(accuracy float64, elapsedMs int64) float64 {
	accuracyScore := accuracy / 100 * 10

	seconds := float64(elapsedMs) / 1000
	timeScore := colorMatchMaxTimeScore
	if seconds > colorMatchGraceSeconds {
		timeScore = math.Max(0, colorMatchMaxTimeScore-(seconds-colorMatchGraceSeconds))
	}
	return Clamp(Round2(accuracyScore + timeScore))
}
