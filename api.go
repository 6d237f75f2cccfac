package main

import (
	"bytes"
	"errors"
	"net/http"
	"path"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	uuid "github.com/satori/go.uuid"
	"gorm.io/gorm"

	"github.com/tmhr1850/kifu-app2-sub000/internal/kif"
	"github.com/tmhr1850/kifu-app2-sub000/internal/search"
	"github.com/tmhr1850/kifu-app2-sub000/internal/shogi"
)

const maxLevel = 10

type gameRequest struct {
	Sente string
	Gote  string
	Level int
}

type playRequest struct {
	Move string
}

type gameResponse struct {
	Href string
	Game Game
}

type gamesResponse struct {
	Href  string
	Games []Game
}

type playsResponse struct {
	Href  string
	Moves []shogi.Move
}

func errToHTTP(err error) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound), errors.Is(err, errGameNotFound):
		return echo.ErrNotFound
	case errors.Is(err, search.ErrAlreadyCalculating):
		return echo.NewHTTPError(http.StatusNotAcceptable, err.Error())
	case errors.Is(err, shogi.ErrInvalidMove), errors.Is(err, shogi.ErrInvalidPosition):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return err
}

func requestID(c echo.Context) (uuid.UUID, error) {
	id, err := uuid.FromString(c.Param("id"))
	if err != nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return id, nil
}

func (srv *server) requestSession(c echo.Context) (*session, error) {
	id, err := requestID(c)
	if err != nil {
		return nil, err
	}
	return srv.getSession(id)
}

func responseGame(game Game) gameResponse {
	return gameResponse{Game: game, Href: path.Join("/games", game.GameID.String())}
}

func responseGames(games []Game) gamesResponse {
	return gamesResponse{Games: games, Href: "/games"}
}

func responsePlays(game Game, moves []shogi.Move) playsResponse {
	if moves == nil {
		moves = []shogi.Move{}
	}
	return playsResponse{Moves: moves, Href: path.Join("/games", game.GameID.String(), "plays")}
}

func validPlayerType(kind string) bool {
	return kind == userType || kind == agentType
}

// legalMoves lists the moves of the side to move, or of the piece on
// row/column when both are given.
func legalMoves(c echo.Context, state shogi.State) ([]shogi.Move, error) {
	row, column := c.QueryParam("row"), c.QueryParam("column")
	if row == "" && column == "" {
		return state.LegalMoves(), nil
	}
	r, err := strconv.Atoi(row)
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	col, err := strconv.Atoi(column)
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	from, err := shogi.NewPosition(r, col)
	if err != nil {
		return nil, err
	}
	piece, ok := state.Board.GetPiece(from)
	if state.Over() || !ok || piece.Owner() != state.Turn {
		return nil, nil
	}
	return shogi.PieceLegalMoves(state.Board, from), nil
}

func apiHandler(srv *server) *echo.Echo {
	e := echo.New()

	e.GET("/games", func(c echo.Context) error {
		games, err := srv.getGames()
		if err != nil {
			return errToHTTP(err)
		}
		return c.JSON(http.StatusOK, responseGames(games))
	})
	e.POST("/games", func(c echo.Context) error {
		request := gameRequest{Sente: userType, Gote: agentType, Level: 1}
		if err := c.Bind(&request); err != nil {
			return err
		}
		if !validPlayerType(request.Sente) || !validPlayerType(request.Gote) {
			return echo.NewHTTPError(http.StatusBadRequest, "unknown player type")
		}
		if request.Level < 1 || request.Level > maxLevel {
			return echo.NewHTTPError(http.StatusBadRequest, "level must be between 1 and 10")
		}
		sess, err := srv.makeGame(request.Sente, request.Gote, request.Level)
		if err != nil {
			return errToHTTP(err)
		}
		if err := srv.pokeAgent(sess); err != nil {
			return errToHTTP(err)
		}
		game, _ := sess.snapshot()
		return c.JSON(http.StatusCreated, responseGame(game))
	})
	e.GET("/games/:id", func(c echo.Context) error {
		sess, err := srv.requestSession(c)
		if err != nil {
			return errToHTTP(err)
		}
		game, _ := sess.snapshot()
		return c.JSON(http.StatusOK, responseGame(game))
	})
	e.PUT("/games/:id", func(c echo.Context) error {
		sess, err := srv.requestSession(c)
		if err != nil {
			return errToHTTP(err)
		}
		var request playRequest
		if err := c.Bind(&request); err != nil {
			return err
		}
		game, state := sess.snapshot()
		if state.Over() {
			return echo.NewHTTPError(http.StatusBadRequest, "game is over")
		}
		if game.playerType(state.Turn) != userType {
			return echo.NewHTTPError(http.StatusNotAcceptable, "not your turn")
		}
		if request.Move == "" {
			return echo.NewHTTPError(http.StatusNotAcceptable, "player must provide move")
		}
		m, err := shogi.ParseMove(request.Move)
		if err != nil {
			return errToHTTP(err)
		}
		if err := srv.play(sess, state.Turn, m); err != nil {
			return errToHTTP(err)
		}
		if err := srv.pokeAgent(sess); err != nil {
			return errToHTTP(err)
		}
		game, _ = sess.snapshot()
		return c.JSON(http.StatusOK, responseGame(game))
	})
	e.POST("/games/:id/resign", func(c echo.Context) error {
		sess, err := srv.requestSession(c)
		if err != nil {
			return errToHTTP(err)
		}
		if err := srv.resign(sess); err != nil {
			return errToHTTP(err)
		}
		game, _ := sess.snapshot()
		return c.JSON(http.StatusOK, responseGame(game))
	})
	e.GET("/games/:id/plays", func(c echo.Context) error {
		sess, err := srv.requestSession(c)
		if err != nil {
			return errToHTTP(err)
		}
		game, state := sess.snapshot()
		moves, err := legalMoves(c, state)
		if err != nil {
			return errToHTTP(err)
		}
		return c.JSON(http.StatusOK, responsePlays(game, moves))
	})
	e.GET("/games/:id/kif", func(c echo.Context) error {
		sess, err := srv.requestSession(c)
		if err != nil {
			return errToHTTP(err)
		}
		game, state := sess.snapshot()
		enc := kif.ParseEncoding(c.QueryParam("encoding"))
		var buf bytes.Buffer
		record := kif.FromState(state, game.SenteType, game.GoteType, game.CreatedAt)
		if err := kif.Write(&buf, record, enc); err != nil {
			return errToHTTP(err)
		}
		contentType := "text/plain; charset=Shift_JIS"
		if enc == kif.UTF8 {
			contentType = echo.MIMETextPlainCharsetUTF8
		}
		return c.Blob(http.StatusOK, contentType, buf.Bytes())
	})

	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Gzip())
	e.Use(middleware.RequestID())
	e.Use(middleware.Secure())

	return e
}
