package shogi

import (
	"encoding/json"

	. "gopkg.in/check.v1"
)

type PieceSuite struct {
	board Board
}

var _ = Suite(&PieceSuite{})

func (s *PieceSuite) SetUpTest(c *C) {
	s.board = Board{}
}

func (s *PieceSuite) moves(c *C, row, column int, kind PieceKind, owner Player) map[Position]bool {
	place(&s.board, row, column, kind, owner)
	piece, ok := s.board.GetPiece(MustPosition(row, column))
	c.Assert(ok, Equals, true)
	return positionSet(piece.ValidMoves(s.board))
}

func (s *PieceSuite) TestOpenBoardCounts(c *C) {
	counts := map[PieceKind]int{
		King:   8,
		Rook:   16,
		Bishop: 16,
		Gold:   6,
		Silver: 5,
		Knight: 2,
		Lance:  4,
		Pawn:   1,
		Dragon: 20,
		Horse:  20,
		Tokin:  6,
	}
	for kind, want := range counts {
		s.board = Board{}
		c.Check(s.moves(c, 4, 4, kind, Sente), HasLen, want, Commentf("%s", kind))
	}
}

func (s *PieceSuite) TestGoldGeometry(c *C) {
	sente := s.moves(c, 4, 4, Gold, Sente)
	for _, pos := range []Position{
		MustPosition(3, 3), MustPosition(3, 4), MustPosition(3, 5),
		MustPosition(4, 3), MustPosition(4, 5), MustPosition(5, 4),
	} {
		c.Check(sente[pos], Equals, true, Commentf("%s", pos))
	}
	s.board = Board{}
	gote := s.moves(c, 4, 4, Gold, Gote)
	for _, pos := range []Position{
		MustPosition(5, 3), MustPosition(5, 4), MustPosition(5, 5),
		MustPosition(4, 3), MustPosition(4, 5), MustPosition(3, 4),
	} {
		c.Check(gote[pos], Equals, true, Commentf("%s", pos))
	}
}

func (s *PieceSuite) TestSilverGeometry(c *C) {
	moves := s.moves(c, 4, 4, Silver, Sente)
	c.Assert(moves, HasLen, 5)
	c.Check(moves[MustPosition(5, 3)], Equals, true)
	c.Check(moves[MustPosition(5, 5)], Equals, true)
	c.Check(moves[MustPosition(5, 4)], Equals, false)
}

func (s *PieceSuite) TestPawnDirection(c *C) {
	c.Assert(s.moves(c, 4, 4, Pawn, Sente)[MustPosition(3, 4)], Equals, true)
	s.board = Board{}
	c.Assert(s.moves(c, 4, 4, Pawn, Gote)[MustPosition(5, 4)], Equals, true)
}

func (s *PieceSuite) TestKnightJumps(c *C) {
	place(&s.board, 3, 4, Pawn, Sente)
	place(&s.board, 3, 3, Pawn, Gote)
	moves := s.moves(c, 4, 4, Knight, Sente)
	c.Assert(moves, DeepEquals, map[Position]bool{MustPosition(2, 3): true, MustPosition(2, 5): true})

	s.board = Board{}
	c.Assert(s.moves(c, 1, 4, Knight, Sente), HasLen, 0)
}

func (s *PieceSuite) TestLanceObstruction(c *C) {
	place(&s.board, 1, 4, Pawn, Gote)
	moves := s.moves(c, 4, 4, Lance, Sente)
	c.Assert(moves, HasLen, 3)
	c.Assert(moves[MustPosition(1, 4)], Equals, true)
	c.Assert(moves[MustPosition(0, 4)], Equals, false)

	s.board = Board{}
	place(&s.board, 1, 4, Pawn, Sente)
	c.Assert(s.moves(c, 4, 4, Lance, Sente), HasLen, 2)
}

func (s *PieceSuite) TestRookStopsAtCapture(c *C) {
	place(&s.board, 4, 6, Silver, Gote)
	place(&s.board, 2, 4, Silver, Sente)
	moves := s.moves(c, 4, 4, Rook, Sente)
	c.Assert(moves[MustPosition(4, 6)], Equals, true)
	c.Assert(moves[MustPosition(4, 7)], Equals, false)
	c.Assert(moves[MustPosition(2, 4)], Equals, false)
	c.Assert(moves[MustPosition(3, 4)], Equals, true)
	c.Assert(moves, HasLen, 2+1+4+4)
}

func (s *PieceSuite) TestNeverOwnSquare(c *C) {
	b := InitialBoard()
	for _, player := range []Player{Sente, Gote} {
		for _, piece := range b.Pieces(player) {
			for _, to := range piece.ValidMoves(b) {
				target, ok := b.GetPiece(to)
				c.Check(ok && target.Owner() == player, Equals, false, Commentf("%s to %s", piece, to))
			}
		}
	}
}

func (s *PieceSuite) TestInHandHasNoMoves(c *C) {
	c.Assert(NewPiece(Rook, Sente).ValidMoves(InitialBoard()), HasLen, 0)
}

func (s *PieceSuite) TestPromote(c *C) {
	promoted, err := NewPiece(Pawn, Sente).At(MustPosition(3, 3)).Promote()
	c.Assert(err, IsNil)
	c.Assert(promoted.Kind(), Equals, Tokin)
	pos, ok := promoted.Position()
	c.Assert(ok, Equals, true)
	c.Assert(pos, Equals, MustPosition(3, 3))

	for _, kind := range []PieceKind{King, Gold, Tokin, Dragon, Horse} {
		_, err := NewPiece(kind, Sente).Promote()
		c.Check(err, errorIs, ErrUnpromotablePiece, Commentf("%s", kind))
	}
}

func (s *PieceSuite) TestCaptured(c *C) {
	dragon := NewPiece(Dragon, Gote).At(MustPosition(2, 2))
	held := dragon.Captured(Sente)
	c.Assert(held.Kind(), Equals, Rook)
	c.Assert(held.Owner(), Equals, Sente)
	c.Assert(held.InHand(), Equals, true)
}

func (s *PieceSuite) TestCloneAndEquals(c *C) {
	piece := NewPiece(Silver, Gote).At(MustPosition(0, 2))
	moved := piece.Clone(MustPosition(1, 2))
	c.Assert(piece.Equals(piece.Clone()), Equals, true)
	c.Assert(piece.Equals(moved), Equals, false)
	pos, _ := piece.Position()
	c.Assert(pos, Equals, MustPosition(0, 2))
}

func (s *PieceSuite) TestJSON(c *C) {
	data, err := json.Marshal(NewPiece(PromotedSilver, Gote).At(MustPosition(1, 2)))
	c.Assert(err, IsNil)
	c.Assert(string(data), Equals, `{"kind":"promoted_silver","owner":"gote","position":{"row":1,"column":2}}`)

	data, err = json.Marshal(NewPiece(Pawn, Sente))
	c.Assert(err, IsNil)
	c.Assert(string(data), Equals, `{"kind":"pawn","owner":"sente","position":null}`)

	var piece Piece
	c.Assert(json.Unmarshal([]byte(`{"kind":"horse","owner":"sente","position":{"row":4,"column":4}}`), &piece), IsNil)
	c.Assert(piece, Equals, NewPiece(Horse, Sente).At(MustPosition(4, 4)))
}

type KindSuite struct{}

var _ = Suite(&KindSuite{})

func (s *KindSuite) TestPromotionTable(c *C) {
	pairs := map[PieceKind]PieceKind{
		Rook:   Dragon,
		Bishop: Horse,
		Silver: PromotedSilver,
		Knight: PromotedKnight,
		Lance:  PromotedLance,
		Pawn:   Tokin,
	}
	for base, promoted := range pairs {
		got, err := base.Promote()
		c.Check(err, IsNil)
		c.Check(got, Equals, promoted)
		c.Check(promoted.Demote(), Equals, base)
		c.Check(promoted.Promoted(), Equals, true)
		c.Check(base.Promoted(), Equals, false)
	}
	c.Assert(Gold.Promotable(), Equals, false)
	c.Assert(King.Demote(), Equals, King)
}

func (s *KindSuite) TestLetters(c *C) {
	c.Assert(Pawn.Letter(), Equals, "P")
	c.Assert(Tokin.Letter(), Equals, "+P")
	c.Assert(NewPiece(Horse, Gote).String(), Equals, "+b")
	kind, owner, ok := kindFromLetter('n', true)
	c.Assert(ok, Equals, true)
	c.Assert(kind, Equals, PromotedKnight)
	c.Assert(owner, Equals, Gote)
	_, _, ok = kindFromLetter('G', true)
	c.Assert(ok, Equals, false)
}

func (s *KindSuite) TestPromotionZone(c *C) {
	c.Assert(Sente.InPromotionZone(2), Equals, true)
	c.Assert(Sente.InPromotionZone(3), Equals, false)
	c.Assert(Gote.InPromotionZone(6), Equals, true)
	c.Assert(Gote.InPromotionZone(5), Equals, false)
	c.Assert(Sente.Opponent(), Equals, Gote)
}
