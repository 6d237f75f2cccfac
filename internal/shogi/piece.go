package shogi

import (
	"encoding/json"
	"strings"
)

// Piece is an immutable piece value. A piece without a position is in hand.
type Piece struct {
	kind    PieceKind
	owner   Player
	pos     Position
	onBoard bool
}

// NewPiece returns a piece of kind owned by owner, held in hand.
func NewPiece(kind PieceKind, owner Player) Piece {
	return Piece{kind: kind, owner: owner}
}

// Kind returns the piece kind.
func (p Piece) Kind() PieceKind {
	return p.kind
}

// Owner returns the owning player.
func (p Piece) Owner() Player {
	return p.owner
}

// Position returns the square of the piece, false when it is in hand.
func (p Piece) Position() (Position, bool) {
	return p.pos, p.onBoard
}

// InHand reports whether the piece is off the board.
func (p Piece) InHand() bool {
	return !p.onBoard
}

// At returns a copy of p placed on pos.
func (p Piece) At(pos Position) Piece {
	p.pos = pos
	p.onBoard = true
	return p
}

// Clone returns a copy of p, relocated to pos when one is given.
func (p Piece) Clone(pos ...Position) Piece {
	if len(pos) > 0 {
		return p.At(pos[0])
	}
	return p
}

// Captured returns the piece as it enters the hand of by: demoted and off the board.
func (p Piece) Captured(by Player) Piece {
	return Piece{kind: p.kind.Demote(), owner: by}
}

// Promote returns p in its promoted form.
func (p Piece) Promote() (Piece, error) {
	kind, err := p.kind.Promote()
	if err != nil {
		return Piece{}, err
	}
	p.kind = kind
	return p, nil
}

// Equals compares kind, owner and position.
func (p Piece) Equals(other Piece) bool {
	return p == other
}

// ValidMoves returns the squares the piece reaches by its movement geometry
// on b, ignoring check. Own pieces block, enemy pieces are captured.
func (p Piece) ValidMoves(b Board) []Position {
	if !p.onBoard {
		return nil
	}
	moves := make([]Position, 0, 16)
	b.project(p.kind, p.owner, p.pos, func(to Position) bool {
		moves = append(moves, to)
		return false
	})
	return moves
}

func (p Piece) cell() uint8 {
	return uint8(p.kind)<<1 | uint8(p.owner)
}

func pieceFromCell(cell uint8, pos Position) (Piece, bool) {
	kind := PieceKind(cell >> 1)
	if !kind.Valid() {
		return Piece{}, false
	}
	return Piece{kind: kind, owner: Player(cell & 1), pos: pos, onBoard: true}, true
}

// String renders the SFEN letter, lower case for gote.
func (p Piece) String() string {
	s := p.kind.Letter()
	if p.owner == Gote {
		s = strings.ToLower(s)
	}
	return s
}

type pieceJSON struct {
	Kind     PieceKind `json:"kind"`
	Owner    Player    `json:"owner"`
	Position *Position `json:"position"`
}

// MarshalJSON renders kind, owner and position (null in hand).
func (p Piece) MarshalJSON() ([]byte, error) {
	raw := pieceJSON{Kind: p.kind, Owner: p.owner}
	if p.onBoard {
		pos := p.pos
		raw.Position = &pos
	}
	return json.Marshal(raw)
}

// UnmarshalJSON parses the MarshalJSON form.
func (p *Piece) UnmarshalJSON(data []byte) error {
	var raw pieceJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	piece := NewPiece(raw.Kind, raw.Owner)
	if raw.Position != nil {
		piece = piece.At(*raw.Position)
	}
	*p = piece
	return nil
}
