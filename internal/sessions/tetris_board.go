package sessions

const (
	BoardWidth  = 10
	BoardHeight = 18
)

type PieceType int

const (
	PieceI PieceType = iota
	PieceO
	PieceT
	PieceS
	PieceZ
	PieceJ
	PieceL
	pieceCount
)

func (t PieceType) String() string {
	return [...]string{"I", "O", "T", "S", "Z", "J", "L"}[t]
}

// pieceShapes lists block offsets for each rotation, clockwise.
var pieceShapes = [pieceCount][][4][2]int{
	PieceI: {
		{{0, 1}, {1, 1}, {2, 1}, {3, 1}},
		{{2, 0}, {2, 1}, {2, 2}, {2, 3}},
		{{0, 2}, {1, 2}, {2, 2}, {3, 2}},
		{{1, 0}, {1, 1}, {1, 2}, {1, 3}},
	},
	PieceO: {
		{{0, 0}, {1, 0}, {0, 1}, {1, 1}},
	},
	PieceT: {
		{{1, 0}, {0, 1}, {1, 1}, {2, 1}},
		{{1, 0}, {1, 1}, {2, 1}, {1, 2}},
		{{0, 1}, {1, 1}, {2, 1}, {1, 2}},
		{{1, 0}, {0, 1}, {1, 1}, {1, 2}},
	},
	PieceS: {
		{{1, 0}, {2, 0}, {0, 1}, {1, 1}},
		{{1, 0}, {1, 1}, {2, 1}, {2, 2}},
		{{1, 1}, {2, 1}, {0, 2}, {1, 2}},
		{{0, 0}, {0, 1}, {1, 1}, {1, 2}},
	},
	PieceZ: {
		{{0, 0}, {1, 0}, {1, 1}, {2, 1}},
		{{2, 0}, {1, 1}, {2, 1}, {1, 2}},
		{{0, 1}, {1, 1}, {1, 2}, {2, 2}},
		{{1, 0}, {0, 1}, {1, 1}, {0, 2}},
	},
	PieceJ: {
		{{0, 0}, {0, 1}, {1, 1}, {2, 1}},
		{{1, 0}, {2, 0}, {1, 1}, {1, 2}},
		{{0, 1}, {1, 1}, {2, 1}, {2, 2}},
		{{1, 0}, {1, 1}, {0, 2}, {1, 2}},
	},
	PieceL: {
		{{2, 0}, {0, 1}, {1, 1}, {2, 1}},
		{{1, 0}, {1, 1}, {1, 2}, {2, 2}},
		{{0, 1}, {1, 1}, {2, 1}, {0, 2}},
		{{0, 0}, {1, 0}, {1, 1}, {1, 2}},
	},
}

var pieceWidths = [pieceCount]int{PieceI: 4, PieceO: 2, PieceT: 3, PieceS: 3, PieceZ: 3, PieceJ: 3, PieceL: 3}

type Piece struct {
	Type     PieceType
	X, Y     int
	Rotation int // index into the rotation table
}

func (p Piece) Blocks() [4][2]int {
	shapes := pieceShapes[p.Type]
	return shapes[p.Rotation%len(shapes)]
}

func (p Piece) rotated() Piece {
	p.Rotation = (p.Rotation + 1) % len(pieceShapes[p.Type])
	return p
}

func spawnPiece(t PieceType) Piece {
	return Piece{Type: t, X: BoardWidth/2 - pieceWidths[t]/2}
}

// Cell is 0 when empty, otherwise the PieceType that filled it plus one.
type Cell int

// Grid is indexed [row][column] with row 0 at the top.
type Grid [BoardHeight][BoardWidth]Cell

func (g *Grid) collides(p Piece, dx, dy int) bool {
	for _, b := range p.Blocks() {
		x, y := p.X+b[0]+dx, p.Y+b[1]+dy
		if x < 0 || x >= BoardWidth || y >= BoardHeight {
			return true
		}
		if y >= 0 && g[y][x] != 0 {
			return true
		}
	}
	return false
}

func (g *Grid) merge(p Piece) {
	for _, b := range p.Blocks() {
		x, y := p.X+b[0], p.Y+b[1]
		if x >= 0 && x < BoardWidth && y >= 0 && y < BoardHeight {
			g[y][x] = Cell(p.Type + 1)
		}
	}
}

// clearLines drops full rows and returns how many were removed.
func (g *Grid) clearLines() int {
	var next Grid
	cleared := 0
	dest := BoardHeight - 1
	for y := BoardHeight - 1; y >= 0; y-- {
		full := true
		for x := 0; x < BoardWidth; x++ {
			if g[y][x] == 0 {
				full = false
				break
			}
		}
		if full {
			cleared++
			continue
		}
		next[dest] = g[y]
		dest--
	}
	*g = next
	return cleared
}
