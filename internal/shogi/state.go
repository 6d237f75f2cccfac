package shogi

import "fmt"

// Status is the lifecycle stage of a game.
type Status string

const (
	Playing   Status = "playing"
	Check     Status = "check"
	Checkmate Status = "checkmate"
	Stalemate Status = "stalemate"
	Resigned  Status = "resigned"
)

// Record is one played move.
type Record struct {
	Ply      int       `json:"ply"`
	Player   Player    `json:"player"`
	Move     Move      `json:"move"`
	Piece    PieceKind `json:"piece"`
	Captured PieceKind `json:"captured,omitempty"`
}

// State is a game position with its history. States are values: Play and
// Resign return a new State and leave the receiver untouched.
type State struct {
	Board   Board    `json:"board"`
	Turn    Player   `json:"turn"`
	Hands   Hands    `json:"hands"`
	History []Record `json:"history"`
	Status  Status   `json:"status"`
	IsCheck bool     `json:"isCheck"`
	Winner  *Player  `json:"winner,omitempty"`
}

// NewState returns the initial position with sente to move.
func NewState() State {
	return State{Board: InitialBoard(), Turn: Sente, Status: Playing}
}

// Over reports whether the game has ended.
func (s State) Over() bool {
	switch s.Status {
	case Checkmate, Stalemate, Resigned:
		return true
	}
	return false
}

// LegalMoves returns the board moves then the drops of the side to move.
func (s State) LegalMoves() []Move {
	if s.Over() {
		return nil
	}
	moves := GenerateLegalMoves(s.Board, s.Turn)
	return append(moves, GenerateDropMoves(s.Board, s.Turn, s.Hands[s.Turn])...)
}

// IsLegal reports whether m may be played now.
func (s State) IsLegal(m Move) bool {
	if s.Over() {
		return false
	}
	if m.IsDrop() {
		return s.Hands[s.Turn].Count(m.Drop) > 0 && !m.Drop.Promoted() &&
			IsLegalDrop(s.Board, s.Turn, m.Drop, m.To)
	}
	piece, ok := s.Board.GetPiece(m.From)
	if !ok || piece.owner != s.Turn {
		return false
	}
	for _, legal := range PieceLegalMoves(s.Board, m.From) {
		if legal == m {
			return true
		}
	}
	return false
}

// Play validates and applies m for the side to move.
func (s State) Play(m Move) (State, error) {
	if s.Over() {
		return s, fmt.Errorf("%w: game is over", ErrInvalidMove)
	}
	if !s.IsLegal(m) {
		return s, fmt.Errorf("%w: %s", ErrInvalidMove, m)
	}
	record := Record{Ply: len(s.History) + 1, Player: s.Turn, Move: m}
	next := s
	if m.IsDrop() {
		record.Piece = m.Drop
		if err := next.Hands[s.Turn].Remove(m.Drop); err != nil {
			return s, err
		}
	} else {
		mover, _ := s.Board.GetPiece(m.From)
		record.Piece = mover.kind
		if captured, ok := s.Board.GetPiece(m.To); ok {
			record.Captured = captured.kind
			next.Hands[s.Turn].Add(captured.kind)
		}
	}
	board, err := s.Board.Apply(m, s.Turn)
	if err != nil {
		return s, err
	}
	next.Board = board
	next.History = append(append(make([]Record, 0, len(s.History)+1), s.History...), record)
	next.Turn = s.Turn.Opponent()
	next.updateStatus()
	return next, nil
}

// Resign ends the game with the side to move losing.
func (s State) Resign() State {
	if s.Over() {
		return s
	}
	winner := s.Turn.Opponent()
	s.Status = Resigned
	s.Winner = &winner
	return s
}

func (s *State) updateStatus() {
	s.IsCheck = IsInCheck(s.Board, s.Turn)
	s.Winner = nil
	s.Status = Playing
	if s.IsCheck {
		s.Status = Check
	}
	if HasLegalMove(s.Board, s.Turn, s.Hands[s.Turn]) {
		return
	}
	winner := s.Turn.Opponent()
	s.Winner = &winner
	if s.IsCheck {
		s.Status = Checkmate
	} else {
		s.Status = Stalemate
	}
}

// Replay plays moves from the initial position.
func Replay(moves []Move) (State, error) {
	state := NewState()
	for i, m := range moves {
		next, err := state.Play(m)
		if err != nil {
			return state, fmt.Errorf("ply %d: %w", i+1, err)
		}
		state = next
	}
	return state, nil
}
