package sessions

import (
	"math"
	"minigames/internal/games"
	"minigames/internal/scoring"
	"time"
)

// Tetris runs until a new piece cannot spawn. Gravity is the caller's job:
// call Tick every FallInterval while not paused.
type Tetris struct {
	lifecycle
	grid    Grid
	current Piece
	next    PieceType

	score float64
	lines int
	combo int
	level int
	tier  scoring.Tier

	paused    bool
	playTime  time.Duration
	resumedAt time.Time
}

func NewTetris(opts Options) *Tetris {
	t := &Tetris{
		lifecycle: newLifecycle(games.Tetris, opts),
		level:     1,
		tier:      scoring.Tiers[0],
	}
	t.next = t.randomPiece()
	t.start()
	t.resumedAt = t.startedAt
	t.spawn()
	return t
}

func (t *Tetris) randomPiece() PieceType {
	return PieceType(t.opts.Rand.Intn(int(pieceCount)))
}

func (t *Tetris) spawn() {
	p := spawnPiece(t.next)
	t.next = t.randomPiece()
	if t.grid.collides(p, 0, 0) {
		t.gameOver()
		return
	}
	t.current = p
}

func (t *Tetris) Grid() Grid { return t.grid }

func (t *Tetris) Current() Piece { return t.current }

func (t *Tetris) Next() PieceType { return t.next }

func (t *Tetris) Score() float64 { return t.score }

func (t *Tetris) Lines() int { return t.lines }

func (t *Tetris) Combo() int { return t.combo }

func (t *Tetris) Level() int { return t.level }

func (t *Tetris) Tier() scoring.Tier { return t.tier }

func (t *Tetris) FallInterval() time.Duration { return t.tier.FallInterval }

func (t *Tetris) Paused() bool { return t.paused }

// PlayTime excludes paused intervals.
func (t *Tetris) PlayTime() time.Duration {
	if t.paused || t.finished() {
		return t.playTime
	}
	return t.playTime + t.opts.Clock.Now().Sub(t.resumedAt)
}

func (t *Tetris) Pause() {
	if t.paused || t.finished() {
		return
	}
	t.playTime += t.opts.Clock.Now().Sub(t.resumedAt)
	t.paused = true
	t.emit("paused")
}

func (t *Tetris) Resume() {
	if !t.paused || t.finished() {
		return
	}
	t.paused = false
	t.resumedAt = t.opts.Clock.Now()
	t.emit("resumed")
}

func (t *Tetris) ready() error {
	if t.finished() {
		return ErrFinished
	}
	if t.paused {
		return ErrPaused
	}
	return nil
}

func (t *Tetris) shift(dx int) (bool, error) {
	if err := t.ready(); err != nil {
		return false, err
	}
	if t.grid.collides(t.current, dx, 0) {
		return false, nil
	}
	t.current.X += dx
	t.emit("move")
	return true, nil
}

func (t *Tetris) MoveLeft() (bool, error) { return t.shift(-1) }

func (t *Tetris) MoveRight() (bool, error) { return t.shift(1) }

// Rotate turns the piece clockwise if the rotated shape fits in place.
func (t *Tetris) Rotate() (bool, error) {
	if err := t.ready(); err != nil {
		return false, err
	}
	r := t.current.rotated()
	if t.grid.collides(r, 0, 0) {
		return false, nil
	}
	t.current = r
	t.emit("rotate")
	return true, nil
}

// Tick moves the piece down one row, locking it when it cannot fall.
func (t *Tetris) Tick() error {
	if err := t.ready(); err != nil {
		return err
	}
	if !t.grid.collides(t.current, 0, 1) {
		t.current.Y++
		t.emit("fall")
		return nil
	}
	t.lock()
	return nil
}

func (t *Tetris) SoftDrop() error { return t.Tick() }

func (t *Tetris) HardDrop() error {
	if err := t.ready(); err != nil {
		return err
	}
	for !t.grid.collides(t.current, 0, 1) {
		t.current.Y++
	}
	t.lock()
	return nil
}

func (t *Tetris) lock() {
	t.grid.merge(t.current)
	n := t.grid.clearLines()
	if n > 0 {
		t.score += scoring.LineClearReward(n, t.combo, t.level, t.tier)
		t.lines += n
		t.combo++
		t.level = scoring.Level(t.lines)
		t.tier = scoring.CurrentDifficulty(t.score)
		t.emit("clear")
	} else {
		t.combo = 0
		t.emit("lock")
	}
	t.spawn()
}

func (t *Tetris) gameOver() {
	t.playTime = t.PlayTime()
	t.paused = false
	t.complete(Result{
		Score:      math.Floor(t.score),
		Time:       wholeSeconds(t.playTime),
		Difficulty: t.tier.Name,
	})
}
