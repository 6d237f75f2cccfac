package shogi

// offset is a displacement in the mover's frame: positive forward is toward
// the opponent. Every table is left/right symmetric, so columns never flip.
type offset struct {
	forward, side int
}

// movement describes a kind as single steps plus unlimited slides.
type movement struct {
	steps  []offset
	slides []offset
}

var (
	orthogonal = []offset{{1, 0}, {0, -1}, {0, 1}, {-1, 0}}
	diagonal   = []offset{{1, -1}, {1, 1}, {-1, -1}, {-1, 1}}
	allAround  = []offset{{1, -1}, {1, 0}, {1, 1}, {0, -1}, {0, 1}, {-1, -1}, {-1, 0}, {-1, 1}}
	goldSteps  = []offset{{1, -1}, {1, 0}, {1, 1}, {0, -1}, {0, 1}, {-1, 0}}
)

var movements = [...]movement{
	King:           {steps: allAround},
	Rook:           {slides: orthogonal},
	Bishop:         {slides: diagonal},
	Gold:           {steps: goldSteps},
	Silver:         {steps: []offset{{1, -1}, {1, 0}, {1, 1}, {-1, -1}, {-1, 1}}},
	Knight:         {steps: []offset{{2, -1}, {2, 1}}},
	Lance:          {slides: []offset{{1, 0}}},
	Pawn:           {steps: []offset{{1, 0}}},
	Dragon:         {slides: orthogonal, steps: diagonal},
	Horse:          {slides: diagonal, steps: orthogonal},
	PromotedSilver: {steps: goldSteps},
	PromotedKnight: {steps: goldSteps},
	PromotedLance:  {steps: goldSteps},
	Tokin:          {steps: goldSteps},
}

// project calls visit with every destination of a kind/owner piece standing
// on from. Destinations holding an own piece are skipped; an enemy piece ends
// a slide after being visited. A true result from visit stops the projection
// and is returned.
func (b Board) project(kind PieceKind, owner Player, from Position, visit func(Position) bool) bool {
	if !kind.Valid() {
		return false
	}
	rule := movements[kind]
	dir := owner.forward()
	for _, o := range rule.steps {
		row, column := from.Row()+o.forward*dir, from.Column()+o.side
		if !IsValidPosition(row, column) {
			continue
		}
		cell := b[row*Size+column]
		if cell != 0 && Player(cell&1) == owner {
			continue
		}
		if visit(Position{row: int8(row), column: int8(column)}) {
			return true
		}
	}
	for _, o := range rule.slides {
		row, column := from.Row(), from.Column()
		for {
			row, column = row+o.forward*dir, column+o.side
			if !IsValidPosition(row, column) {
				break
			}
			cell := b[row*Size+column]
			if cell != 0 && Player(cell&1) == owner {
				break
			}
			if visit(Position{row: int8(row), column: int8(column)}) {
				return true
			}
			if cell != 0 {
				break
			}
		}
	}
	return false
}
