package sessions

import (
	"errors"
	"math"
	"minigames/internal/games"
	"time"
)

const (
	ReactionRounds   = 5
	ReactionMinDelay = 1000 * time.Millisecond
	ReactionMaxDelay = 4000 * time.Millisecond
)

var (
	ErrEarlyClick  = errors.New("clicked before the target appeared")
	ErrRoundActive = errors.New("round already running")
	ErrNoRound     = errors.New("no round running")
)

type reactionPhase int

const (
	phaseIdle reactionPhase = iota
	phaseWaiting
	phaseShown
)

// Reaction is driven by the caller's timer: StartRound returns the delay,
// Show is called once it elapses, and Click measures from Show.
type Reaction struct {
	lifecycle
	phase   reactionPhase
	delay   time.Duration
	shownAt time.Time
	times   []time.Duration
}

func NewReaction(opts Options) *Reaction {
	r := &Reaction{lifecycle: newLifecycle(games.Reaction, opts)}
	r.start()
	return r
}

func (r *Reaction) StartRound() (time.Duration, error) {
	if r.finished() {
		return 0, ErrFinished
	}
	if r.phase != phaseIdle {
		return 0, ErrRoundActive
	}
	span := int64(ReactionMaxDelay-ReactionMinDelay) / int64(time.Millisecond)
	r.delay = ReactionMinDelay + time.Duration(r.opts.Rand.Int63n(span+1))*time.Millisecond
	r.phase = phaseWaiting
	r.emit("waiting")
	return r.delay, nil
}

func (r *Reaction) Delay() time.Duration { return r.delay }

func (r *Reaction) Show() error {
	if r.finished() {
		return ErrFinished
	}
	if r.phase != phaseWaiting {
		return ErrNoRound
	}
	r.phase = phaseShown
	r.shownAt = r.opts.Clock.Now()
	r.emit("shown")
	return nil
}

// Click before Show disqualifies the whole game; nothing is reported.
func (r *Reaction) Click() (time.Duration, error) {
	if r.finished() {
		return 0, ErrFinished
	}
	switch r.phase {
	case phaseIdle:
		return 0, ErrNoRound
	case phaseWaiting:
		r.phase = phaseIdle
		r.disqualify()
		return 0, ErrEarlyClick
	}

	rt := r.opts.Clock.Now().Sub(r.shownAt)
	r.times = append(r.times, rt)
	r.phase = phaseIdle

	if len(r.times) < ReactionRounds {
		r.emit("click")
		return rt, nil
	}
	r.complete(Result{
		Score:      math.Round(float64(r.Average().Microseconds()) / 1000),
		Time:       centiSeconds(r.elapsed()),
		Difficulty: "normal",
	})
	return rt, nil
}

func (r *Reaction) Rounds() int { return len(r.times) }

// Best is the fastest clicked round. ok is false until a round has been
// clicked, so a 0ms reaction is a real best.
func (r *Reaction) Best() (best time.Duration, ok bool) {
	for i, t := range r.times {
		if i == 0 || t < best {
			best = t
		}
	}
	return best, len(r.times) > 0
}

func (r *Reaction) Average() time.Duration {
	if len(r.times) == 0 {
		return 0
	}
	var sum time.Duration
	for _, t := range r.times {
		sum += t
	}
	return sum / time.Duration(len(r.times))
}
