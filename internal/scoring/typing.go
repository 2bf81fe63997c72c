package scoring

const (
	TypingOptimalTime     = 20.0
	TypingOptimalAccuracy = 100.0
	typingTimeWeight      = 0.6
	typingAccuracyWeight  = 0.4
)

// TypingScore takes seconds > 0 and accuracy as a 0-100 percentage.
func TypingScore(seconds, accuracy float64) float64 {
	et := ratio(TypingOptimalTime, seconds)
	ea := accuracy / TypingOptimalAccuracy
	base := 80 * harmonic(typingTimeWeight, et, typingAccuracyWeight, ea)

	bonus := 0.0
	if seconds <= TypingOptimalTime {
		bonus += 10
	}
	if accuracy >= 95 {
		bonus += 8
	}
	if accuracy >= 90 {
		bonus += 5
	}
	if seconds <= TypingOptimalTime && accuracy >= 95 {
		bonus += 7
	}
	return Clamp(Round2(base + bonus))
}

// Accuracy returns correct/total as a whole percentage, 0 when nothing was typed.
func Accuracy(correct, total int) float64 {
	if total <= 0 {
		return 0
	}
	return float64(int(float64(correct)/float64(total)*100 + 0.5))
}
