package shogi

import (
	"database/sql/driver"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// SFEN renders the board field of an SFEN string, row 0 first.
func (b Board) SFEN() string {
	var sb strings.Builder
	for row := 0; row < Size; row++ {
		if row > 0 {
			sb.WriteByte('/')
		}
		empty := 0
		for column := 0; column < Size; column++ {
			piece, ok := b.At(row, column)
			if !ok {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteString(strconv.Itoa(empty))
				empty = 0
			}
			sb.WriteString(piece.String())
		}
		if empty > 0 {
			sb.WriteString(strconv.Itoa(empty))
		}
	}
	return sb.String()
}

func (b Board) String() string {
	return b.SFEN()
}

// ParseBoard parses the board field of an SFEN string.
func ParseBoard(sfen string) (Board, error) {
	var b Board
	rows := strings.Split(sfen, "/")
	if len(rows) != Size {
		return Board{}, fmt.Errorf("board is not %d rows: %d", Size, len(rows))
	}
	for row, text := range rows {
		column := 0
		promoted := false
		for i := 0; i < len(text); i++ {
			c := text[i]
			switch {
			case c == '+':
				promoted = true
				continue
			case c >= '1' && c <= '9':
				column += int(c - '0')
			default:
				kind, owner, ok := kindFromLetter(c, promoted)
				if !ok || column >= Size {
					return Board{}, fmt.Errorf("row %d: invalid piece %q", row, c)
				}
				piece := NewPiece(kind, owner)
				b.Set(row, column, &piece)
				column++
			}
			promoted = false
		}
		if column != Size {
			return Board{}, fmt.Errorf("row %d is not length %d: %d", row, Size, column)
		}
	}
	return b, nil
}

// Value stores the board as hex encoded cells.
func (b Board) Value() (driver.Value, error) {
	return hex.EncodeToString(b[:]), nil
}

// Scan reads the Value form.
func (b *Board) Scan(cell interface{}) error {
	var src []byte
	switch cell := cell.(type) {
	case string:
		src = []byte(cell)
	case []byte:
		src = cell
	default:
		return fmt.Errorf("invalid format scaning %#v", cell)
	}
	decoded := make([]byte, hex.DecodedLen(len(src)))
	if _, err := hex.Decode(decoded, src); err != nil {
		return err
	}
	if len(decoded) != len(b) {
		return fmt.Errorf("board is not length %d: %d", len(b), len(decoded))
	}
	copy(b[:], decoded)
	return nil
}

// MarshalJSON renders the SFEN board string.
func (b Board) MarshalJSON() ([]byte, error) {
	return json.Marshal(b.SFEN())
}

// UnmarshalJSON parses the SFEN board string.
func (b *Board) UnmarshalJSON(data []byte) error {
	var sfen string
	if err := json.Unmarshal(data, &sfen); err != nil {
		return err
	}
	board, err := ParseBoard(sfen)
	if err != nil {
		return err
	}
	*b = board
	return nil
}
