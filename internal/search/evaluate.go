package search

import "github.com/tmhr1850/kifu-app2-sub000/internal/shogi"

const (
	// MateScore is the score of a move that checkmates the opponent.
	MateScore = 1000000
	// CheckBonus is added when the opponent is in check at a leaf.
	CheckBonus = 50
	// CheckPenalty is subtracted when the searching side is in check at a leaf.
	CheckPenalty = 50

	infinity = MateScore + 1
)

var pieceValues = [...]int{
	shogi.King:           100000,
	shogi.Rook:           1000,
	shogi.Bishop:         800,
	shogi.Gold:           600,
	shogi.Silver:         500,
	shogi.Knight:         400,
	shogi.Lance:          300,
	shogi.Pawn:           100,
	shogi.Dragon:         1500,
	shogi.Horse:          1200,
	shogi.PromotedSilver: 600,
	shogi.PromotedKnight: 600,
	shogi.PromotedLance:  600,
	shogi.Tokin:          700,
}

// PieceValue returns the material value of kind.
func PieceValue(kind shogi.PieceKind) int {
	if !kind.Valid() {
		return 0
	}
	return pieceValues[kind]
}

// Evaluate scores b from player's point of view: own material minus the
// opponent's, adjusted for check on either side.
func Evaluate(b shogi.Board, player shogi.Player) int {
	score := 0
	for _, piece := range b.Pieces(player) {
		score += PieceValue(piece.Kind())
	}
	for _, piece := range b.Pieces(player.Opponent()) {
		score -= PieceValue(piece.Kind())
	}
	if shogi.IsInCheck(b, player) {
		score -= CheckPenalty
	}
	if shogi.IsInCheck(b, player.Opponent()) {
		score += CheckBonus
	}
	return score
}

type evalKey struct {
	board  shogi.Board
	player shogi.Player
}

// evalCache memoizes Evaluate for one worker. It holds at most limit
// entries and is emptied when full.
type evalCache struct {
	limit   int
	entries map[evalKey]int
	hits    int
	misses  int
}

func newEvalCache(limit int) *evalCache {
	if limit < 1 {
		limit = 1
	}
	return &evalCache{limit: limit, entries: make(map[evalKey]int)}
}

func (c *evalCache) evaluate(b shogi.Board, player shogi.Player) int {
	key := evalKey{board: b, player: player}
	if score, ok := c.entries[key]; ok {
		c.hits++
		return score
	}
	c.misses++
	if len(c.entries) >= c.limit {
		c.clear()
	}
	score := Evaluate(b, player)
	c.entries[key] = score
	return score
}

func (c *evalCache) clear() {
	c.entries = make(map[evalKey]int, c.limit)
}

func (c *evalCache) len() int {
	return len(c.entries)
}
