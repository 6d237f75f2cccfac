package shogi

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Hand counts the captured pieces one player holds, by base kind.
type Hand [Pawn + 1]uint8

// Count returns how many pieces of kind are held.
func (h Hand) Count(kind PieceKind) int {
	kind = kind.Demote()
	if kind == noKind || kind == King {
		return 0
	}
	return int(h[kind])
}

// Add puts a piece of kind into the hand, demoted to its base kind.
func (h *Hand) Add(kind PieceKind) {
	kind = kind.Demote()
	if kind == noKind || kind == King {
		return
	}
	h[kind]++
}

// Remove takes one piece of kind out of the hand.
func (h *Hand) Remove(kind PieceKind) error {
	if h.Count(kind) == 0 || kind.Promoted() {
		return fmt.Errorf("%w: no %s in hand", ErrInvalidMove, kind)
	}
	h[kind]--
	return nil
}

// Kinds returns the held kinds, strongest first.
func (h Hand) Kinds() []PieceKind {
	var kinds []PieceKind
	for _, kind := range HandKinds {
		if h[kind] > 0 {
			kinds = append(kinds, kind)
		}
	}
	return kinds
}

// Pieces returns the hand as in-hand pieces owned by owner.
func (h Hand) Pieces(owner Player) []Piece {
	var pieces []Piece
	for _, kind := range HandKinds {
		for i := 0; i < int(h[kind]); i++ {
			pieces = append(pieces, NewPiece(kind, owner))
		}
	}
	return pieces
}

// Empty reports whether nothing is held.
func (h Hand) Empty() bool {
	return h == Hand{}
}

// Hands holds the captured pieces of both players, indexed by Player.
type Hands [2]Hand

// SFEN renders the SFEN hand field, "-" when both hands are empty.
func (hs Hands) SFEN() string {
	var sb strings.Builder
	for _, player := range []Player{Sente, Gote} {
		for _, kind := range HandKinds {
			n := hs[player][kind]
			if n == 0 {
				continue
			}
			if n > 1 {
				sb.WriteString(strconv.Itoa(int(n)))
			}
			sb.WriteString(NewPiece(kind, player).String())
		}
	}
	if sb.Len() == 0 {
		return "-"
	}
	return sb.String()
}

func (hs Hands) String() string {
	return hs.SFEN()
}

// handLimits is the number of pieces of each kind in a full set.
var handLimits = [...]uint8{
	Rook:   2,
	Bishop: 2,
	Gold:   4,
	Silver: 4,
	Knight: 4,
	Lance:  4,
	Pawn:   18,
}

// ParseHands parses the SFEN hand field. A kind may not be held more often
// than it exists in a full set.
func ParseHands(sfen string) (Hands, error) {
	var hs Hands
	if sfen == "-" || sfen == "" {
		return hs, nil
	}
	count := 0
	for i := 0; i < len(sfen); i++ {
		c := sfen[i]
		if c >= '0' && c <= '9' {
			count = count*10 + int(c-'0')
			if count > int(handLimits[Pawn]) {
				return Hands{}, fmt.Errorf("hand count in %q exceeds %d", sfen, handLimits[Pawn])
			}
			continue
		}
		kind, owner, ok := kindFromLetter(c, false)
		if !ok || kind == King {
			return Hands{}, fmt.Errorf("invalid hand piece %q", c)
		}
		if count == 0 {
			count = 1
		}
		if int(hs[owner][kind])+count > int(handLimits[kind]) {
			return Hands{}, fmt.Errorf("hand holds more than %d %s", handLimits[kind], kind)
		}
		hs[owner][kind] += uint8(count)
		count = 0
	}
	if count != 0 {
		return Hands{}, fmt.Errorf("hand %q ends with a count", sfen)
	}
	return hs, nil
}

// Value stores the SFEN hand field.
func (hs Hands) Value() (driver.Value, error) {
	return hs.SFEN(), nil
}

// Scan reads the Value form.
func (hs *Hands) Scan(cell interface{}) error {
	var text string
	switch cell := cell.(type) {
	case string:
		text = cell
	case []byte:
		text = string(cell)
	default:
		return fmt.Errorf("invalid format scaning %#v", cell)
	}
	parsed, err := ParseHands(text)
	if err != nil {
		return err
	}
	*hs = parsed
	return nil
}

// MarshalJSON renders the SFEN hand field.
func (hs Hands) MarshalJSON() ([]byte, error) {
	return json.Marshal(hs.SFEN())
}

// UnmarshalJSON parses the SFEN hand field.
func (hs *Hands) UnmarshalJSON(data []byte) error {
	var text string
	if err := json.Unmarshal(data, &text); err != nil {
		return err
	}
	return hs.Scan(text)
}
