package shogi

import (
	"fmt"
	"strings"
)

// PieceKind is one of the fourteen shogi piece kinds.
type PieceKind uint8

const (
	noKind PieceKind = iota
	King
	Rook
	Bishop
	Gold
	Silver
	Knight
	Lance
	Pawn
	Dragon
	Horse
	PromotedSilver
	PromotedKnight
	PromotedLance
	Tokin
)

var promotions = [...]PieceKind{
	Rook:   Dragon,
	Bishop: Horse,
	Silver: PromotedSilver,
	Knight: PromotedKnight,
	Lance:  PromotedLance,
	Pawn:   Tokin,
	Tokin:  noKind,
}

var demotions = [...]PieceKind{
	King:           King,
	Rook:           Rook,
	Bishop:         Bishop,
	Gold:           Gold,
	Silver:         Silver,
	Knight:         Knight,
	Lance:          Lance,
	Pawn:           Pawn,
	Dragon:         Rook,
	Horse:          Bishop,
	PromotedSilver: Silver,
	PromotedKnight: Knight,
	PromotedLance:  Lance,
	Tokin:          Pawn,
}

var kindNames = [...]string{
	King:           "king",
	Rook:           "rook",
	Bishop:         "bishop",
	Gold:           "gold",
	Silver:         "silver",
	Knight:         "knight",
	Lance:          "lance",
	Pawn:           "pawn",
	Dragon:         "dragon",
	Horse:          "horse",
	PromotedSilver: "promoted_silver",
	PromotedKnight: "promoted_knight",
	PromotedLance:  "promoted_lance",
	Tokin:          "tokin",
}

// sfenLetters holds the upper case (sente) letter of each base kind.
var sfenLetters = [...]byte{
	King:   'K',
	Rook:   'R',
	Bishop: 'B',
	Gold:   'G',
	Silver: 'S',
	Knight: 'N',
	Lance:  'L',
	Pawn:   'P',
}

// Kinds lists every piece kind in declaration order.
var Kinds = []PieceKind{King, Rook, Bishop, Gold, Silver, Knight, Lance, Pawn,
	Dragon, Horse, PromotedSilver, PromotedKnight, PromotedLance, Tokin}

// HandKinds lists the kinds that can be held in hand, strongest first.
var HandKinds = []PieceKind{Rook, Bishop, Gold, Silver, Knight, Lance, Pawn}

// Valid reports whether k is one of the fourteen kinds.
func (k PieceKind) Valid() bool {
	return k >= King && k <= Tokin
}

// Promotable reports whether k has a promoted form.
func (k PieceKind) Promotable() bool {
	return int(k) < len(promotions) && promotions[k] != noKind
}

// Promoted reports whether k is a promoted form.
func (k PieceKind) Promoted() bool {
	return k >= Dragon && k <= Tokin
}

// Promote returns the promoted kind of k.
func (k PieceKind) Promote() (PieceKind, error) {
	if !k.Promotable() {
		return noKind, fmt.Errorf("%w: %s", ErrUnpromotablePiece, k)
	}
	return promotions[k], nil
}

// Demote returns the base kind of k; base kinds map to themselves.
func (k PieceKind) Demote() PieceKind {
	if !k.Valid() {
		return noKind
	}
	return demotions[k]
}

func (k PieceKind) String() string {
	if !k.Valid() {
		return fmt.Sprintf("PieceKind(%d)", uint8(k))
	}
	return kindNames[k]
}

// Letter returns the SFEN/USI letter of k, '+' prefixed when promoted.
func (k PieceKind) Letter() string {
	if !k.Valid() {
		return "?"
	}
	if k.Promoted() {
		return "+" + string(sfenLetters[k.Demote()])
	}
	return string(sfenLetters[k])
}

// MarshalText renders the kind name.
func (k PieceKind) MarshalText() ([]byte, error) {
	if !k.Valid() {
		return nil, fmt.Errorf("invalid piece kind %d", uint8(k))
	}
	return []byte(kindNames[k]), nil
}

// UnmarshalText parses a kind name.
func (k *PieceKind) UnmarshalText(text []byte) error {
	name := strings.ToLower(string(text))
	for _, kind := range Kinds {
		if kindNames[kind] == name {
			*k = kind
			return nil
		}
	}
	return fmt.Errorf("unknown piece kind %q", text)
}

func kindFromLetter(c byte, promoted bool) (PieceKind, Player, bool) {
	owner := Sente
	if c >= 'a' && c <= 'z' {
		owner = Gote
		c = c - 'a' + 'A'
	}
	for _, kind := range []PieceKind{King, Rook, Bishop, Gold, Silver, Knight, Lance, Pawn} {
		if sfenLetters[kind] != c {
			continue
		}
		if !promoted {
			return kind, owner, true
		}
		p, err := kind.Promote()
		if err != nil {
			return noKind, owner, false
		}
		return p, owner, true
	}
	return noKind, owner, false
}

// Player is the side owning a piece or having the move.
type Player uint8

const (
	// Sente moves first, toward row 0.
	Sente Player = iota
	// Gote moves second, toward row 8.
	Gote
)

// Opponent returns the other player.
func (p Player) Opponent() Player {
	return p ^ 1
}

// forward is the row delta of one step ahead.
func (p Player) forward() int {
	if p == Sente {
		return -1
	}
	return 1
}

// ranksToEnd counts the rows between row and the player's farthest rank.
func (p Player) ranksToEnd(row int) int {
	if p == Sente {
		return row
	}
	return Size - 1 - row
}

// InPromotionZone reports whether row lies in the three ranks nearest the opponent.
func (p Player) InPromotionZone(row int) bool {
	return p.ranksToEnd(row) < 3
}

func (p Player) String() string {
	if p == Sente {
		return "sente"
	}
	return "gote"
}

// MarshalText renders "sente" or "gote".
func (p Player) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText parses "sente" or "gote".
func (p *Player) UnmarshalText(text []byte) error {
	switch strings.ToLower(string(text)) {
	case "sente", "b", "black":
		*p = Sente
	case "gote", "w", "white":
		*p = Gote
	default:
		return fmt.Errorf("unknown player %q", text)
	}
	return nil
}
