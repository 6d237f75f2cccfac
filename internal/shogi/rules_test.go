package shogi

import (
	"math/rand"

	. "gopkg.in/check.v1"
)

type RulesSuite struct{}

var _ = Suite(&RulesSuite{})

func (s *RulesSuite) TestInitialMoveCount(c *C) {
	b := InitialBoard()
	c.Assert(GenerateLegalMoves(b, Sente), HasLen, 30)
	c.Assert(GenerateLegalMoves(b, Gote), HasLen, 30)
	c.Assert(IsInCheck(b, Sente), Equals, false)
	c.Assert(IsCheckmate(b, Gote), Equals, false)
}

func (s *RulesSuite) TestRookDestinations(c *C) {
	var b Board
	place(&b, 4, 4, Rook, Sente)
	moves := GenerateLegalMoves(b, Sente)
	c.Assert(destinations(moves), HasLen, 16)
	// three destinations in the promotion zone come in both variants
	c.Assert(moves, HasLen, 19)
}

func (s *RulesSuite) TestGoldAtHeadMate(c *C) {
	var b Board
	place(&b, 0, 0, King, Sente)
	place(&b, 1, 0, Gold, Gote)
	place(&b, 1, 1, Rook, Gote)
	c.Assert(IsInCheck(b, Sente), Equals, true)
	c.Assert(GenerateLegalMoves(b, Sente), HasLen, 0)
	c.Assert(IsCheckmate(b, Sente), Equals, true)
}

func (s *RulesSuite) TestCheckWithEscape(c *C) {
	var b Board
	place(&b, 0, 4, King, Gote)
	place(&b, 1, 4, Gold, Sente)
	c.Assert(IsInCheck(b, Gote), Equals, true)
	c.Assert(IsCheckmate(b, Gote), Equals, false)
	capture := NewMove(MustPosition(0, 4), MustPosition(1, 4), false)
	found := false
	for _, m := range GenerateLegalMoves(b, Gote) {
		if m == capture {
			found = true
		}
	}
	c.Assert(found, Equals, true)
}

func (s *RulesSuite) TestLoneGoldAgainstKing(c *C) {
	var b Board
	place(&b, 0, 4, King, Sente)
	place(&b, 1, 4, Gold, Gote)
	c.Assert(IsInCheck(b, Sente), Equals, true)
	c.Assert(IsCheckmate(b, Sente), Equals, false)
	c.Assert(destinations(GenerateLegalMoves(b, Sente))[MustPosition(1, 4)], Equals, true)
}

func (s *RulesSuite) TestNoKingNoCheck(c *C) {
	var b Board
	place(&b, 0, 4, Rook, Gote)
	c.Assert(IsInCheck(b, Sente), Equals, false)
	c.Assert(IsCheckmate(b, Sente), Equals, false)
}

func (s *RulesSuite) TestPinnedPiece(c *C) {
	var b Board
	place(&b, 8, 4, King, Sente)
	place(&b, 7, 4, Gold, Sente)
	place(&b, 0, 4, Rook, Gote)
	moves := PieceLegalMoves(b, MustPosition(7, 4))
	c.Assert(moves, DeepEquals, []Move{NewMove(MustPosition(7, 4), MustPosition(6, 4), false)})
}

func (s *RulesSuite) TestNifu(c *C) {
	var b Board
	place(&b, 6, 4, Pawn, Sente)
	place(&b, 2, 3, Tokin, Sente)
	place(&b, 2, 5, Pawn, Gote)
	c.Assert(IsNifu(b, 4, Sente), Equals, true)
	c.Assert(IsNifu(b, 4, Gote), Equals, false)
	c.Assert(IsNifu(b, 3, Sente), Equals, false)
	c.Assert(IsNifu(b, 5, Sente), Equals, false)
	c.Assert(IsNifu(b, 5, Gote), Equals, true)
	c.Assert(IsNifu(b, 9, Sente), Equals, false)
}

func (s *RulesSuite) TestForcedPromotion(c *C) {
	var b Board
	place(&b, 1, 4, Pawn, Sente)
	c.Assert(PieceLegalMoves(b, MustPosition(1, 4)), DeepEquals,
		[]Move{NewMove(MustPosition(1, 4), MustPosition(0, 4), true)})

	b = Board{}
	place(&b, 3, 4, Knight, Sente)
	for _, m := range PieceLegalMoves(b, MustPosition(3, 4)) {
		c.Check(m.Promote, Equals, true, Commentf("%s", m))
	}
	c.Assert(PieceLegalMoves(b, MustPosition(3, 4)), HasLen, 2)

	b = Board{}
	place(&b, 7, 4, Pawn, Gote)
	c.Assert(PieceLegalMoves(b, MustPosition(7, 4)), DeepEquals,
		[]Move{NewMove(MustPosition(7, 4), MustPosition(8, 4), true)})
}

func (s *RulesSuite) TestOptionalPromotion(c *C) {
	var b Board
	place(&b, 4, 4, Knight, Sente)
	c.Assert(PieceLegalMoves(b, MustPosition(4, 4)), HasLen, 4)

	b = Board{}
	place(&b, 3, 0, Lance, Sente)
	c.Assert(PieceLegalMoves(b, MustPosition(3, 0)), HasLen, 5)

	b = Board{}
	place(&b, 2, 4, Silver, Sente)
	leaving := 0
	for _, m := range PieceLegalMoves(b, MustPosition(2, 4)) {
		if m.To == MustPosition(3, 3) {
			leaving++
		}
	}
	c.Assert(leaving, Equals, 2)

	b = Board{}
	place(&b, 2, 4, Gold, Sente)
	c.Assert(PieceLegalMoves(b, MustPosition(2, 4)), HasLen, 6)
}

func (s *RulesSuite) TestPromotionNeedsZone(c *C) {
	var b Board
	place(&b, 5, 4, Silver, Sente)
	for _, m := range PieceLegalMoves(b, MustPosition(5, 4)) {
		c.Check(m.Promote, Equals, false, Commentf("%s", m))
	}
}

// Random playouts: no generated move leaves the mover in check, and
// checkmate matches check without moves.
func (s *RulesSuite) TestRandomPlayouts(c *C) {
	rng := rand.New(rand.NewSource(7))
	for game := 0; game < 4; game++ {
		state := NewState()
		for ply := 0; ply < 60 && !state.Over(); ply++ {
			moves := state.LegalMoves()
			c.Assert(moves, Not(HasLen), 0)
			for _, m := range moves {
				next, err := state.Board.Apply(m, state.Turn)
				c.Assert(err, IsNil)
				c.Assert(IsInCheck(next, state.Turn), Equals, false, Commentf("%s after %d plies", m, ply))
			}
			next, err := state.Play(moves[rng.Intn(len(moves))])
			c.Assert(err, IsNil)
			mate := IsCheckmateWithHand(next.Board, next.Turn, next.Hands[next.Turn])
			c.Assert(next.Status == Checkmate, Equals, mate)
			state = next
		}
	}
}
