package shogi

// GenerateLegalMoves returns every legal board move of player on b, in
// row-major order of the moving pieces. Drops are not included.
func GenerateLegalMoves(b Board, player Player) []Move {
	moves := make([]Move, 0, 64)
	for i, cell := range b {
		if cell == 0 || Player(cell&1) != player {
			continue
		}
		moves = b.appendPieceMoves(moves, positionAt(i))
	}
	return moves
}

// PieceLegalMoves returns the legal board moves of the piece on from.
func PieceLegalMoves(b Board, from Position) []Move {
	return b.appendPieceMoves(nil, from)
}

func (b Board) appendPieceMoves(moves []Move, from Position) []Move {
	piece, ok := b.GetPiece(from)
	if !ok {
		return moves
	}
	for _, to := range piece.ValidMoves(b) {
		for _, promote := range promotionOptions(piece, from, to) {
			m := NewMove(from, to, promote)
			next, err := b.ApplyMove(m)
			if err != nil || IsInCheck(next, piece.owner) {
				continue
			}
			moves = append(moves, m)
		}
	}
	return moves
}

var (
	promoteNever  = []bool{false}
	promoteAlways = []bool{true}
	promoteEither = []bool{true, false}
)

// promotionOptions returns the promote flags allowed for piece moving from
// from to to.
func promotionOptions(piece Piece, from, to Position) []bool {
	if !piece.kind.Promotable() {
		return promoteNever
	}
	owner := piece.owner
	if !owner.InPromotionZone(from.Row()) && !owner.InPromotionZone(to.Row()) {
		return promoteNever
	}
	if mustPromote(piece.kind, owner, to.Row()) {
		return promoteAlways
	}
	return promoteEither
}

// mustPromote reports whether a kind piece of owner would have no further
// move on row: pawns and lances on the last rank, knights on the last two.
func mustPromote(kind PieceKind, owner Player, row int) bool {
	switch kind {
	case Pawn, Lance:
		return owner.ranksToEnd(row) < 1
	case Knight:
		return owner.ranksToEnd(row) < 2
	}
	return false
}

// IsAttacked reports whether any piece of by reaches target.
func IsAttacked(b Board, target Position, by Player) bool {
	for i, cell := range b {
		if cell == 0 || Player(cell&1) != by {
			continue
		}
		hit := b.project(PieceKind(cell>>1), by, positionAt(i), func(to Position) bool {
			return to == target
		})
		if hit {
			return true
		}
	}
	return false
}

// IsInCheck reports whether player's king is attacked. A board without that
// king is never in check.
func IsInCheck(b Board, player Player) bool {
	king, ok := b.FindKing(player)
	if !ok {
		return false
	}
	return IsAttacked(b, king, player.Opponent())
}

// IsCheckmate reports whether player is in check with no legal board move.
func IsCheckmate(b Board, player Player) bool {
	return IsInCheck(b, player) && len(GenerateLegalMoves(b, player)) == 0
}

// IsNifu reports whether player has an unpromoted pawn in column.
func IsNifu(b Board, column int, player Player) bool {
	pawn := NewPiece(Pawn, player).cell()
	for row := 0; row < Size; row++ {
		if IsValidPosition(row, column) && b[row*Size+column] == pawn {
			return true
		}
	}
	return false
}
