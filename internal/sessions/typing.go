package sessions

import (
	"minigames/internal/games"
	"minigames/internal/scoring"
)

const TypingWordCount = 10

var typingWords = []string{
	"javascript", "html", "css", "react", "vue", "angular", "node", "python",
	"java", "csharp", "php", "ruby", "go", "rust", "swift", "kotlin",
}

// Typing advances one word per Submit (Enter). Each submitted word earns
// credit for every position that matches the target.
type Typing struct {
	lifecycle
	words   []string
	index   int
	input   string
	correct int
	total   int
}

func NewTyping(opts Options) *Typing {
	t := &Typing{lifecycle: newLifecycle(games.Typing, opts)}
	for i := 0; i < TypingWordCount; i++ {
		t.words = append(t.words, typingWords[t.opts.Rand.Intn(len(typingWords))])
	}
	return t
}

func (t *Typing) Words() []string {
	out := make([]string, len(t.words))
	copy(out, t.words)
	return out
}

// CurrentWord is empty once every word has been submitted.
func (t *Typing) CurrentWord() string {
	if t.index >= len(t.words) {
		return ""
	}
	return t.words[t.index]
}

func (t *Typing) WordIndex() int { return t.index }

// Type replaces the in-progress input. The first keystroke starts the clock.
func (t *Typing) Type(text string) error {
	if t.finished() {
		return ErrFinished
	}
	t.start()
	t.input = text
	t.emit("input")
	return nil
}

func (t *Typing) Submit() error {
	if t.finished() {
		return ErrFinished
	}
	t.start()
	c, n := compareWord(t.input, t.words[t.index])
	t.correct += c
	t.total += n
	t.input = ""
	t.index++

	if t.index < len(t.words) {
		t.emit("advance")
		return nil
	}
	secs := centiSeconds(t.elapsed())
	if secs <= 0 {
		secs = 0.01
	}
	acc := scoring.Accuracy(t.correct, t.total)
	t.complete(Result{
		Score:      scoring.TypingScore(secs, acc),
		Time:       secs,
		Difficulty: "normal",
	})
	return nil
}

// Accuracy covers every submitted word plus the word being typed.
func (t *Typing) Accuracy() float64 {
	correct, total := t.correct, t.total
	if t.input != "" && t.index < len(t.words) {
		c, n := compareWord(t.input, t.words[t.index])
		correct += c
		total += n
	}
	return scoring.Accuracy(correct, total)
}

// compareWord counts matching positions over the longer of the two words,
// so both missing and extra characters cost accuracy.
func compareWord(typed, target string) (correct, total int) {
	a, b := []rune(typed), []rune(target)
	total = max(len(a), len(b))
	for i := 0; i < min(len(a), len(b)); i++ {
		if a[i] == b[i] {
			correct++
		}
	}
	return correct, total
}
