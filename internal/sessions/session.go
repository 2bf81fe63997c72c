// Package sessions holds the per-game state machines. A session moves from
// NotStarted to InProgress to Completed and reports its result exactly once.
package sessions

import (
	"context"
	"errors"
	"log"
	"math/rand"
	"minigames/internal/games"
	"time"
)

var (
	ErrFinished = errors.New("session already finished")
	ErrPaused   = errors.New("session is paused")
)

type Status int

const (
	NotStarted Status = iota
	InProgress
	Completed
	Disqualified
)

func (s Status) String() string {
	switch s {
	case NotStarted:
		return "not-started"
	case InProgress:
		return "in-progress"
	case Completed:
		return "completed"
	case Disqualified:
		return "disqualified"
	default:
		return "unknown"
	}
}

// Result is what a completed session hands to its Reporter.
type Result struct {
	GameType   games.GameType
	Score      float64
	Time       float64 // seconds
	Difficulty string
}

type Reporter interface {
	Report(ctx context.Context, r Result) error
}

type ReporterFunc func(ctx context.Context, r Result) error

func (f ReporterFunc) Report(ctx context.Context, r Result) error { return f(ctx, r) }

type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

var SystemClock Clock = systemClock{}

type Event struct {
	GameType games.GameType
	Status   Status
	Kind     string
}

// Observer is notified after every state change, typically to re-render.
type Observer func(Event)

type Options struct {
	Clock    Clock
	Rand     *rand.Rand
	Reporter Reporter
	Observer Observer
}

func (o Options) withDefaults() Options {
	if o.Clock == nil {
		o.Clock = SystemClock
	}
	if o.Rand == nil {
		o.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return o
}

// lifecycle is the state shared by every game session.
type lifecycle struct {
	gameType  games.GameType
	opts      Options
	status    Status
	startedAt time.Time
	result    *Result
}

func newLifecycle(gt games.GameType, opts Options) lifecycle {
	return lifecycle{gameType: gt, opts: opts.withDefaults()}
}

func (l *lifecycle) GameType() games.GameType { return l.gameType }

func (l *lifecycle) Status() Status { return l.status }

// Result is only available once the session has completed.
func (l *lifecycle) Result() (Result, bool) {
	if l.result == nil {
		return Result{}, false
	}
	return *l.result, true
}

func (l *lifecycle) finished() bool {
	return l.status == Completed || l.status == Disqualified
}

func (l *lifecycle) start() {
	if l.status != NotStarted {
		return
	}
	l.status = InProgress
	l.startedAt = l.opts.Clock.Now()
	l.emit("started")
}

func (l *lifecycle) elapsed() time.Duration {
	if l.status == NotStarted {
		return 0
	}
	return l.opts.Clock.Now().Sub(l.startedAt)
}

func (l *lifecycle) emit(kind string) {
	if l.opts.Observer != nil {
		l.opts.Observer(Event{GameType: l.gameType, Status: l.status, Kind: kind})
	}
}

func (l *lifecycle) disqualify() {
	l.status = Disqualified
	l.emit("disqualified")
}

// complete records the result and reports it. A reporting failure is logged
// and does not change the outcome.
func (l *lifecycle) complete(r Result) {
	if l.finished() {
		return
	}
	r.GameType = l.gameType
	l.status = Completed
	l.result = &r
	l.emit("completed")

	if l.opts.Reporter == nil {
		return
	}
	if err := l.opts.Reporter.Report(context.Background(), r); err != nil {
		log.Printf("[Session] Reporting %s result failed: %v\n", l.gameType, err)
	}
}

func wholeSeconds(d time.Duration) float64 {
	return float64(int64(d / time.Second))
}

// atLeastOneSecond keeps efficiency formulas away from a zero time.
func atLeastOneSecond(d time.Duration) float64 {
	s := wholeSeconds(d)
	if s < 1 {
		return 1
	}
	return s
}

func centiSeconds(d time.Duration) float64 {
	return float64(d.Round(10*time.Millisecond).Milliseconds()) / 1000
}
