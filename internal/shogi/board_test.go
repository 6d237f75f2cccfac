package shogi

import (
	"encoding/json"
	"strings"

	. "gopkg.in/check.v1"
)

const startSFEN = "lnsgkgsnl/1r5b1/ppppppppp/9/9/9/PPPPPPPPP/1B5R1/LNSGKGSNL"

type BoardSuite struct{}

var _ = Suite(&BoardSuite{})

func (s *BoardSuite) TestInitialBoard(c *C) {
	b := InitialBoard()
	c.Assert(b.Pieces(Sente), HasLen, 20)
	c.Assert(b.Pieces(Gote), HasLen, 20)
	c.Assert(b.SFEN(), Equals, startSFEN)

	king, ok := b.FindKing(Sente)
	c.Assert(ok, Equals, true)
	c.Assert(king, Equals, MustPosition(8, 4))
	king, ok = b.FindKing(Gote)
	c.Assert(ok, Equals, true)
	c.Assert(king, Equals, MustPosition(0, 4))

	rook, ok := b.GetPiece(MustPosition(7, 7))
	c.Assert(ok, Equals, true)
	c.Assert(rook.Kind(), Equals, Rook)
	c.Assert(rook.Owner(), Equals, Sente)
	bishop, _ := b.GetPiece(MustPosition(1, 7))
	c.Assert(bishop.Kind(), Equals, Bishop)
	c.Assert(bishop.Owner(), Equals, Gote)
}

func (s *BoardSuite) TestAtOffBoard(c *C) {
	b := InitialBoard()
	_, ok := b.At(-1, 0)
	c.Assert(ok, Equals, false)
	_, ok = b.At(0, 9)
	c.Assert(ok, Equals, false)
	_, ok = b.At(4, 4)
	c.Assert(ok, Equals, false)
	c.Assert(b.IsValidPosition(8, 8), Equals, true)
	c.Assert(b.IsValidPosition(9, 8), Equals, false)
}

func (s *BoardSuite) TestSetIgnoresOutOfRange(c *C) {
	b := InitialBoard()
	before := b
	gold := NewPiece(Gold, Sente)
	b.Set(9, 0, &gold)
	b.Set(0, -1, &gold)
	c.Assert(b, Equals, before)
	b.Set(4, 4, &gold)
	c.Assert(b == before, Equals, false)
	b.Set(4, 4, nil)
	c.Assert(b, Equals, before)
}

func (s *BoardSuite) TestCloneIsIndependent(c *C) {
	b := InitialBoard()
	clone := b.Clone()
	clone.SetPiece(MustPosition(8, 4), nil)
	_, ok := b.GetPiece(MustPosition(8, 4))
	c.Assert(ok, Equals, true)

	b.SetPiece(MustPosition(0, 0), nil)
	_, ok = clone.GetPiece(MustPosition(0, 0))
	c.Assert(ok, Equals, true)
}

func (s *BoardSuite) TestApplyMove(c *C) {
	b := InitialBoard()
	next, err := b.ApplyMove(NewMove(MustPosition(6, 2), MustPosition(5, 2), false))
	c.Assert(err, IsNil)
	_, ok := next.GetPiece(MustPosition(6, 2))
	c.Assert(ok, Equals, false)
	pawn, ok := next.GetPiece(MustPosition(5, 2))
	c.Assert(ok, Equals, true)
	c.Assert(pawn.Kind(), Equals, Pawn)
	c.Assert(b, Equals, InitialBoard())

	_, err = b.ApplyMove(NewMove(MustPosition(4, 4), MustPosition(3, 4), false))
	c.Assert(err, errorIs, ErrInvalidMove)

	_, err = b.ApplyMove(NewMove(MustPosition(8, 3), MustPosition(7, 3), true))
	c.Assert(err, errorIs, ErrUnpromotablePiece)
}

func (s *BoardSuite) TestApplyMovePromotes(c *C) {
	var b Board
	place(&b, 3, 4, Silver, Sente)
	next, err := b.ApplyMove(NewMove(MustPosition(3, 4), MustPosition(2, 4), true))
	c.Assert(err, IsNil)
	piece, _ := next.GetPiece(MustPosition(2, 4))
	c.Assert(piece.Kind(), Equals, PromotedSilver)
}

func (s *BoardSuite) TestApplyDrop(c *C) {
	b := InitialBoard()
	_, err := b.ApplyDrop(Gold, Sente, MustPosition(8, 4))
	c.Assert(err, errorIs, ErrInvalidMove)
	_, err = b.ApplyDrop(Tokin, Sente, MustPosition(4, 4))
	c.Assert(err, errorIs, ErrInvalidMove)
	next, err := b.ApplyDrop(Gold, Gote, MustPosition(4, 4))
	c.Assert(err, IsNil)
	piece, _ := next.GetPiece(MustPosition(4, 4))
	c.Assert(piece.Owner(), Equals, Gote)
	_, err = b.ApplyMove(NewDrop(Gold, MustPosition(4, 4)))
	c.Assert(err, errorIs, ErrInvalidMove)
}

func (s *BoardSuite) TestSFENRoundTrip(c *C) {
	b, err := ParseBoard(startSFEN)
	c.Assert(err, IsNil)
	c.Assert(b, Equals, InitialBoard())

	promoted := "8l/1+R5+b1/9/9/4k4/9/9/9/K8"
	b, err = ParseBoard(promoted)
	c.Assert(err, IsNil)
	dragon, _ := b.GetPiece(MustPosition(1, 1))
	c.Assert(dragon.Kind(), Equals, Dragon)
	c.Assert(b.SFEN(), Equals, promoted)

	for _, bad := range []string{"9/9", "10/9/9/9/9/9/9/9/9", "x8/9/9/9/9/9/9/9/9", "+G8/9/9/9/9/9/9/9/9"} {
		_, err := ParseBoard(bad)
		c.Check(err, NotNil, Commentf("%s", bad))
	}
}

func (s *BoardSuite) TestValueScan(c *C) {
	value, err := InitialBoard().Value()
	c.Assert(err, IsNil)
	c.Assert(value, HasLen, 2*Size*Size)

	var b Board
	c.Assert(b.Scan(value), IsNil)
	c.Assert(b, Equals, InitialBoard())
	c.Assert(b.Scan([]byte(value.(string))), IsNil)
	c.Assert(b.Scan("00ff"), ErrorMatches, "board is not length 81: 2")
	c.Assert(b.Scan(42), ErrorMatches, "invalid format.*")
}

func (s *BoardSuite) TestJSON(c *C) {
	data, err := json.Marshal(InitialBoard())
	c.Assert(err, IsNil)
	c.Assert(string(data), Equals, `"`+startSFEN+`"`)
	var b Board
	c.Assert(json.Unmarshal(data, &b), IsNil)
	c.Assert(b, Equals, InitialBoard())
}

type HandSuite struct{}

var _ = Suite(&HandSuite{})

func (s *HandSuite) TestAddDemotes(c *C) {
	var h Hand
	h.Add(Dragon)
	h.Add(Tokin)
	h.Add(Pawn)
	h.Add(King)
	c.Assert(h.Count(Rook), Equals, 1)
	c.Assert(h.Count(Pawn), Equals, 2)
	c.Assert(h.Count(King), Equals, 0)
	c.Assert(h.Kinds(), DeepEquals, []PieceKind{Rook, Pawn})
	c.Assert(h.Pieces(Gote), HasLen, 3)

	c.Assert(h.Remove(Pawn), IsNil)
	c.Assert(h.Remove(Gold), errorIs, ErrInvalidMove)
	c.Assert(h.Remove(Tokin), errorIs, ErrInvalidMove)
	c.Assert(h.Count(Pawn), Equals, 1)
}

func (s *HandSuite) TestSFEN(c *C) {
	var hs Hands
	c.Assert(hs.SFEN(), Equals, "-")
	hs[Sente].Add(Rook)
	hs[Sente].Add(Pawn)
	hs[Sente].Add(Pawn)
	hs[Gote].Add(Bishop)
	c.Assert(hs.SFEN(), Equals, "R2Pb")

	parsed, err := ParseHands("R2Pb")
	c.Assert(err, IsNil)
	c.Assert(parsed, Equals, hs)

	parsed, err = ParseHands("-")
	c.Assert(err, IsNil)
	c.Assert(parsed, Equals, Hands{})

	for _, bad := range []string{"K", "2", "x", "300P", "19P", "P18P", "3R", "5g", "99999999999999999999P"} {
		_, err := ParseHands(bad)
		c.Check(err, NotNil, Commentf("%s", bad))
	}

	parsed, err = ParseHands("2R2B4G4S4N4L18P")
	c.Assert(err, IsNil)
	c.Assert(parsed[Sente].Count(Pawn), Equals, 18)
	c.Assert(parsed[Sente].Count(Rook), Equals, 2)
	parsed, err = ParseHands("17Pp2p")
	c.Assert(err, IsNil)
	c.Assert(parsed[Gote].Count(Pawn), Equals, 3)

	data, err := json.Marshal(hs)
	c.Assert(err, IsNil)
	c.Assert(strings.Trim(string(data), `"`), Equals, "R2Pb")
}
