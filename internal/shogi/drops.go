package shogi

// IsLegalDrop reports whether player may drop a kind piece on to, assuming
// it is held. The square must be empty and the piece must keep a move; a
// pawn must respect nifu and must not give mate. The dropper's king must not
// be left in check.
func IsLegalDrop(b Board, player Player, kind PieceKind, to Position) bool {
	if kind == King || kind.Promoted() || !kind.Valid() {
		return false
	}
	if _, occupied := b.GetPiece(to); occupied {
		return false
	}
	if mustPromote(kind, player, to.Row()) {
		return false
	}
	if kind == Pawn && IsNifu(b, to.Column(), player) {
		return false
	}
	next, err := b.ApplyDrop(kind, player, to)
	if err != nil || IsInCheck(next, player) {
		return false
	}
	if kind == Pawn && IsCheckmate(next, player.Opponent()) {
		return false
	}
	return true
}

// IsDropPawnMate reports whether dropping a pawn of player on to would
// checkmate the opponent.
func IsDropPawnMate(b Board, player Player, to Position) bool {
	next, err := b.ApplyDrop(Pawn, player, to)
	if err != nil {
		return false
	}
	return IsCheckmate(next, player.Opponent())
}

// GenerateDropMoves returns the legal drops of player holding hand, by kind
// (strongest first) then row-major square.
func GenerateDropMoves(b Board, player Player, hand Hand) []Move {
	var moves []Move
	for _, kind := range hand.Kinds() {
		for i, cell := range b {
			if cell != 0 {
				continue
			}
			to := positionAt(i)
			if IsLegalDrop(b, player, kind, to) {
				moves = append(moves, NewDrop(kind, to))
			}
		}
	}
	return moves
}

// HasLegalMove reports whether player has any board move or drop.
func HasLegalMove(b Board, player Player, hand Hand) bool {
	if len(GenerateLegalMoves(b, player)) > 0 {
		return true
	}
	for _, kind := range hand.Kinds() {
		for i, cell := range b {
			if cell == 0 && IsLegalDrop(b, player, kind, positionAt(i)) {
				return true
			}
		}
	}
	return false
}

// IsCheckmateWithHand is IsCheckmate with interposing drops taken into account.
func IsCheckmateWithHand(b Board, player Player, hand Hand) bool {
	return IsInCheck(b, player) && !HasLegalMove(b, player, hand)
}
