package shogi

import (
	"encoding/json"
	"fmt"
)

// Size is the number of rows and columns of the board.
const Size = 9

// Position is a square on the board. Row 0 is the rank farthest from sente,
// column 0 is sente's leftmost file (file 9 in display coordinates).
type Position struct {
	row, column int8
}

// NewPosition returns the position at row and column, each in [0,8].
func NewPosition(row, column int) (Position, error) {
	if !IsValidPosition(row, column) {
		return Position{}, fmt.Errorf("%w: (%d,%d)", ErrInvalidPosition, row, column)
	}
	return Position{row: int8(row), column: int8(column)}, nil
}

// MustPosition is NewPosition for coordinates known to be in range.
func MustPosition(row, column int) Position {
	pos, err := NewPosition(row, column)
	if err != nil {
		panic(err)
	}
	return pos
}

// IsValidPosition reports whether row and column are on the board.
func IsValidPosition(row, column int) bool {
	return row >= 0 && row < Size && column >= 0 && column < Size
}

func positionAt(index int) Position {
	return Position{row: int8(index / Size), column: int8(index % Size)}
}

// Row returns the row, 0 through 8.
func (p Position) Row() int {
	return int(p.row)
}

// Column returns the column, 0 through 8.
func (p Position) Column() int {
	return int(p.column)
}

func (p Position) index() int {
	return int(p.row)*Size + int(p.column)
}

// String renders the USI square, e.g. "7g".
func (p Position) String() string {
	return fmt.Sprintf("%d%c", Size-int(p.column), 'a'+p.row)
}

func parseSquare(s string) (Position, error) {
	if len(s) != 2 || s[0] < '1' || s[0] > '9' || s[1] < 'a' || s[1] > 'i' {
		return Position{}, fmt.Errorf("%w: square %q", ErrInvalidPosition, s)
	}
	return NewPosition(int(s[1]-'a'), Size-int(s[0]-'0'))
}

type positionJSON struct {
	Row    int `json:"row"`
	Column int `json:"column"`
}

// MarshalJSON renders {"row":r,"column":c}.
func (p Position) MarshalJSON() ([]byte, error) {
	return json.Marshal(positionJSON{Row: p.Row(), Column: p.Column()})
}

// UnmarshalJSON parses {"row":r,"column":c}, rejecting out of range values.
func (p *Position) UnmarshalJSON(data []byte) error {
	var raw positionJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	pos, err := NewPosition(raw.Row, raw.Column)
	if err != nil {
		return err
	}
	*p = pos
	return nil
}
