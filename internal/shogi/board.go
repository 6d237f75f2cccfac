package shogi

import "fmt"

// Board is the 9x9 grid in row-major order. Each cell is zero when empty,
// otherwise kind<<1 | owner. Boards are values: copying one clones it.
type Board [Size * Size]uint8

var backRank = [Size]PieceKind{Lance, Knight, Silver, Gold, King, Gold, Silver, Knight, Lance}

// InitialBoard returns the standard forty piece starting position.
func InitialBoard() Board {
	var b Board
	for column, kind := range backRank {
		b[column] = NewPiece(kind, Gote).cell()
		b[2*Size+column] = NewPiece(Pawn, Gote).cell()
		b[6*Size+column] = NewPiece(Pawn, Sente).cell()
		b[8*Size+column] = NewPiece(kind, Sente).cell()
	}
	b[1*Size+1] = NewPiece(Rook, Gote).cell()
	b[1*Size+7] = NewPiece(Bishop, Gote).cell()
	b[7*Size+1] = NewPiece(Bishop, Sente).cell()
	b[7*Size+7] = NewPiece(Rook, Sente).cell()
	return b
}

// GetPiece returns the piece on pos.
func (b Board) GetPiece(pos Position) (Piece, bool) {
	return pieceFromCell(b[pos.index()], pos)
}

// At returns the piece at raw coordinates; off-board coordinates hold no piece.
func (b Board) At(row, column int) (Piece, bool) {
	if !IsValidPosition(row, column) {
		return Piece{}, false
	}
	return b.GetPiece(Position{row: int8(row), column: int8(column)})
}

// SetPiece places piece on pos, or clears pos when piece is nil. The stored
// piece takes pos as its position.
func (b *Board) SetPiece(pos Position, piece *Piece) {
	if piece == nil || !piece.kind.Valid() {
		b[pos.index()] = 0
		return
	}
	b[pos.index()] = piece.cell()
}

// Set is SetPiece on raw coordinates. Out-of-range writes are ignored.
func (b *Board) Set(row, column int, piece *Piece) {
	if !IsValidPosition(row, column) {
		return
	}
	b.SetPiece(Position{row: int8(row), column: int8(column)}, piece)
}

// IsValidPosition reports whether row and column are on the board.
func (b Board) IsValidPosition(row, column int) bool {
	return IsValidPosition(row, column)
}

// Clone returns an independent copy of b.
func (b Board) Clone() Board {
	return b
}

// Pieces returns every piece player has on the board, in row-major order.
func (b Board) Pieces(player Player) []Piece {
	pieces := make([]Piece, 0, 20)
	for i, cell := range b {
		if cell == 0 || Player(cell&1) != player {
			continue
		}
		if piece, ok := pieceFromCell(cell, positionAt(i)); ok {
			pieces = append(pieces, piece)
		}
	}
	return pieces
}

// FindKing returns the square of player's king.
func (b Board) FindKing(player Player) (Position, bool) {
	king := NewPiece(King, player).cell()
	for i, cell := range b {
		if cell == king {
			return positionAt(i), true
		}
	}
	return Position{}, false
}

// ApplyMove returns a new board with the board move m executed. Legality is
// not checked: only the source square must hold a piece. A captured piece is
// simply overwritten; hands are the caller's concern.
func (b Board) ApplyMove(m Move) (Board, error) {
	if m.IsDrop() {
		return b, fmt.Errorf("%w: drop %s needs an owner", ErrInvalidMove, m)
	}
	piece, ok := b.GetPiece(m.From)
	if !ok {
		return b, fmt.Errorf("%w: no piece at %s", ErrInvalidMove, m.From)
	}
	if m.Promote {
		promoted, err := piece.Promote()
		if err != nil {
			return b, err
		}
		piece = promoted
	}
	next := b
	next[m.From.index()] = 0
	next[m.To.index()] = piece.cell()
	return next, nil
}

// ApplyDrop returns a new board with a piece of kind owned by owner dropped
// on to, which must be empty.
func (b Board) ApplyDrop(kind PieceKind, owner Player, to Position) (Board, error) {
	if b[to.index()] != 0 {
		return b, fmt.Errorf("%w: drop on occupied %s", ErrInvalidMove, to)
	}
	if !kind.Valid() || kind == King || kind.Promoted() {
		return b, fmt.Errorf("%w: cannot drop %s", ErrInvalidMove, kind)
	}
	next := b
	next[to.index()] = NewPiece(kind, owner).cell()
	return next, nil
}

// Apply executes a board move or a drop by player.
func (b Board) Apply(m Move, player Player) (Board, error) {
	if m.IsDrop() {
		return b.ApplyDrop(m.Drop, player, m.To)
	}
	return b.ApplyMove(m)
}
