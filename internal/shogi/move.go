package shogi

import (
	"encoding/json"
	"fmt"
)

// Move is either a board move (From, To, Promote) or a drop of a piece of
// kind Drop from hand onto To.
type Move struct {
	From    Position
	To      Position
	Promote bool
	Drop    PieceKind
}

// NewMove returns a board move.
func NewMove(from, to Position, promote bool) Move {
	return Move{From: from, To: to, Promote: promote}
}

// NewDrop returns a drop move.
func NewDrop(kind PieceKind, to Position) Move {
	return Move{Drop: kind, To: to}
}

// IsDrop reports whether m places a piece from hand.
func (m Move) IsDrop() bool {
	return m.Drop != noKind
}

// String renders USI notation: "7g7f", "8h2b+", "P*5e".
func (m Move) String() string {
	if m.IsDrop() {
		return fmt.Sprintf("%s*%s", m.Drop.Letter(), m.To)
	}
	promotion := ""
	if m.Promote {
		promotion = "+"
	}
	return fmt.Sprintf("%s%s%s", m.From, m.To, promotion)
}

// ParseMove parses USI notation.
func ParseMove(s string) (Move, error) {
	if len(s) == 4 && s[1] == '*' {
		kind, owner, ok := kindFromLetter(s[0], false)
		if !ok || owner != Sente || kind == King {
			return Move{}, fmt.Errorf("%w: invalid move format %s", ErrInvalidMove, s)
		}
		to, err := parseSquare(s[2:])
		if err != nil {
			return Move{}, fmt.Errorf("%w: %v", ErrInvalidMove, err)
		}
		return NewDrop(kind, to), nil
	}
	if len(s) != 4 && !(len(s) == 5 && s[4] == '+') {
		return Move{}, fmt.Errorf("%w: invalid move format %d %s", ErrInvalidMove, len(s), s)
	}
	from, err := parseSquare(s[0:2])
	if err != nil {
		return Move{}, fmt.Errorf("%w: %v", ErrInvalidMove, err)
	}
	to, err := parseSquare(s[2:4])
	if err != nil {
		return Move{}, fmt.Errorf("%w: %v", ErrInvalidMove, err)
	}
	return NewMove(from, to, len(s) == 5), nil
}

// Scan implements fmt.Scanner over USI notation.
func (m *Move) Scan(state fmt.ScanState, verb rune) error {
	token, err := state.Token(true, nil)
	if err != nil {
		return err
	}
	move, err := ParseMove(string(token))
	if err != nil {
		return err
	}
	*m = move
	return nil
}

// MarshalJSON renders the USI string.
func (m Move) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.String())
}

// UnmarshalJSON parses the USI string.
func (m *Move) UnmarshalJSON(bytes []byte) error {
	var text string
	if err := json.Unmarshal(bytes, &text); err != nil {
		return err
	}
	_, err := fmt.Sscan(text, m)
	return err
}
