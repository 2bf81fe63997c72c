package sessions

import (
	"errors"
	"minigames/internal/games"
	"minigames/internal/scoring"
)

const (
	PuzzleSize       = 3
	puzzleCells      = PuzzleSize * PuzzleSize
	puzzleScrambleBy = 100
)

var ErrInvalidMove = errors.New("tile is not next to the blank")

// PuzzleBoard holds tile numbers row by row; 0 is the blank.
type PuzzleBoard [puzzleCells]int

func solvedBoard() PuzzleBoard {
	var b PuzzleBoard
	for i := 0; i < puzzleCells-1; i++ {
		b[i] = i + 1
	}
	return b
}

func (b PuzzleBoard) Solved() bool {
	return b == solvedBoard()
}

func (b PuzzleBoard) blank() int {
	for i, v := range b {
		if v == 0 {
			return i
		}
	}
	return -1
}

func adjacent(a, b int) bool {
	ar, ac := a/PuzzleSize, a%PuzzleSize
	br, bc := b/PuzzleSize, b%PuzzleSize
	dr, dc := ar-br, ac-bc
	return (dr == 0 && (dc == 1 || dc == -1)) || (dc == 0 && (dr == 1 || dr == -1))
}

func (b PuzzleBoard) neighborsOfBlank() []int {
	blank := b.blank()
	var out []int
	for i := range b {
		if adjacent(i, blank) {
			out = append(out, i)
		}
	}
	return out
}

type Puzzle struct {
	lifecycle
	board PuzzleBoard
	moves int
}

// NewPuzzle scrambles with random legal slides from the solved board so
// every start is solvable.
func NewPuzzle(opts Options) *Puzzle {
	p := &Puzzle{lifecycle: newLifecycle(games.Puzzle, opts)}
	p.board = solvedBoard()
	for p.board.Solved() {
		for i := 0; i < puzzleScrambleBy; i++ {
			n := p.board.neighborsOfBlank()
			tile := n[p.opts.Rand.Intn(len(n))]
			blank := p.board.blank()
			p.board[blank], p.board[tile] = p.board[tile], 0
		}
	}
	p.start()
	return p
}

func (p *Puzzle) Board() PuzzleBoard { return p.board }

func (p *Puzzle) Moves() int { return p.moves }

// Slide moves the tile at index into the blank.
func (p *Puzzle) Slide(index int) error {
	if p.finished() {
		return ErrFinished
	}
	if index < 0 || index >= puzzleCells || p.board[index] == 0 {
		return ErrInvalidMove
	}
	blank := p.board.blank()
	if !adjacent(index, blank) {
		return ErrInvalidMove
	}
	p.board[blank], p.board[index] = p.board[index], 0
	p.moves++

	if !p.board.Solved() {
		p.emit("slide")
		return nil
	}
	secs := atLeastOneSecond(p.elapsed())
	p.complete(Result{
		Score:      scoring.PuzzleScore(p.moves, secs),
		Time:       secs,
		Difficulty: "normal",
	})
	return nil
}
