package main

import (
	"errors"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	uuid "github.com/satori/go.uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tmhr1850/kifu-app2-sub000/internal/search"
	"github.com/tmhr1850/kifu-app2-sub000/internal/shogi"
)

const (
	userType  = "user"
	agentType = "agent"
)

var errGameNotFound = errors.New("game not found")

// Game game.
type Game struct {
	gorm.Model

	GameID    uuid.UUID     `gorm:"<-:create;type:varchar;size:36;uniqueIndex"`
	SenteType string        `gorm:"size:8"`
	GoteType  string        `gorm:"size:8"`
	Level     int           `gorm:"default:1"`
	Board     shogi.Board   `gorm:"type:varchar;size:162"`
	Hands     shogi.Hands   `gorm:"type:varchar"`
	Turn      shogi.Player  `gorm:"type:smallint"`
	Status    shogi.Status  `gorm:"size:16;index"`
	Winner    *shogi.Player `gorm:"type:smallint"`
	IsCheck   bool
	MoveCount int
	Plays     []Play `gorm:"foreignKey:GameID;references:GameID"`
}

// Play is one move of a game, stored as USI text.
type Play struct {
	gorm.Model

	GameID uuid.UUID `gorm:"type:varchar;size:36;index"`
	Ply    int
	Move   string `gorm:"size:8"`
}

func (game *Game) setState(state shogi.State) {
	game.Board = state.Board
	game.Hands = state.Hands
	game.Turn = state.Turn
	game.Status = state.Status
	game.Winner = state.Winner
	game.IsCheck = state.IsCheck
	game.MoveCount = len(state.History)
}

// playerType returns "user" or "agent" for player.
func (game Game) playerType(player shogi.Player) string {
	if player == shogi.Sente {
		return game.SenteType
	}
	return game.GoteType
}

// state rebuilds the session by replaying the stored plays.
func (game Game) state() (shogi.State, error) {
	plays := append([]Play{}, game.Plays...)
	sort.Slice(plays, func(i, j int) bool { return plays[i].Ply < plays[j].Ply })
	moves := make([]shogi.Move, 0, len(plays))
	for _, play := range plays {
		m, err := shogi.ParseMove(play.Move)
		if err != nil {
			return shogi.State{}, err
		}
		moves = append(moves, m)
	}
	state, err := shogi.Replay(moves)
	if err != nil {
		return state, err
	}
	if game.Status == shogi.Resigned {
		state = state.Resign()
	}
	return state, nil
}

// session is a game being served. mu guards every field below it.
type session struct {
	searcher *search.Searcher

	mu      sync.Mutex
	game    Game
	state   shogi.State
	updated time.Time
}

func (s *session) snapshot() (Game, shogi.State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.game, s.state
}

type server struct {
	db     *gorm.DB
	engine *search.Engine
	// step is the agent's thinking time per level.
	step time.Duration

	mu       sync.RWMutex
	sessions map[uuid.UUID]*session
}

func newServer(database *gorm.DB, engine *search.Engine, step time.Duration) *server {
	return &server{
		db:       database,
		engine:   engine,
		step:     step,
		sessions: make(map[uuid.UUID]*session),
	}
}

func (srv *server) addSession(game Game, state shogi.State) *session {
	sess := &session{
		searcher: search.NewSearcher(srv.engine),
		game:     game,
		state:    state,
		updated:  time.Now(),
	}
	srv.mu.Lock()
	defer srv.mu.Unlock()
	if existing, ok := srv.sessions[game.GameID]; ok {
		return existing
	}
	srv.sessions[game.GameID] = sess
	return sess
}

func (srv *server) makeGame(senteType, goteType string, level int) (*session, error) {
	state := shogi.NewState()
	game := Game{
		GameID:    uuid.NewV4(),
		SenteType: senteType,
		GoteType:  goteType,
		Level:     level,
	}
	game.setState(state)
	if srv.db != nil {
		if err := srv.db.Create(&game).Error; err != nil {
			return nil, err
		}
	} else {
		game.CreatedAt = time.Now()
		game.UpdatedAt = game.CreatedAt
	}
	return srv.addSession(game, state), nil
}

func (srv *server) getSession(id uuid.UUID) (*session, error) {
	srv.mu.RLock()
	sess, ok := srv.sessions[id]
	srv.mu.RUnlock()
	if ok {
		return sess, nil
	}
	if srv.db == nil {
		return nil, errGameNotFound
	}
	var game Game
	if err := srv.db.Preload(clause.Associations).First(&game, Game{GameID: id}).Error; err != nil {
		return nil, err
	}
	state, err := game.state()
	if err != nil {
		return nil, err
	}
	return srv.addSession(game, state), nil
}

func (srv *server) getGames() ([]Game, error) {
	var games []Game
	if srv.db != nil {
		if err := srv.db.Order("created_at desc").Limit(100).Find(&games).Error; err != nil {
			return nil, err
		}
		return games, nil
	}
	srv.mu.RLock()
	for _, sess := range srv.sessions {
		game, _ := sess.snapshot()
		game.Plays = nil
		games = append(games, game)
	}
	srv.mu.RUnlock()
	sort.Slice(games, func(i, j int) bool { return games[i].CreatedAt.After(games[j].CreatedAt) })
	return games, nil
}

// play applies m for player. The new state replaces the old one only after
// it is stored.
func (srv *server) play(sess *session, player shogi.Player, m shogi.Move) error {
	sess.mu.Lock()
	defer sess.mu.Unlock()
	if sess.state.Over() {
		return echo.NewHTTPError(http.StatusBadRequest, "game is over")
	}
	if sess.state.Turn != player {
		return echo.NewHTTPError(http.StatusNotAcceptable, "not your turn")
	}
	next, err := sess.state.Play(m)
	if err != nil {
		return err
	}
	game := sess.game
	game.setState(next)
	play := Play{GameID: game.GameID, Ply: len(next.History), Move: m.String()}
	if err := srv.save(&game, &play); err != nil {
		return err
	}
	game.Plays = append(append([]Play{}, sess.game.Plays...), play)
	sess.game = game
	sess.state = next
	sess.updated = time.Now()
	return nil
}

func (srv *server) resign(sess *session) error {
	sess.mu.Lock()
	defer sess.mu.Unlock()
	if sess.state.Over() {
		return echo.NewHTTPError(http.StatusBadRequest, "game is over")
	}
	if sess.game.playerType(sess.state.Turn) != userType {
		return echo.NewHTTPError(http.StatusNotAcceptable, "not your turn")
	}
	next := sess.state.Resign()
	game := sess.game
	game.setState(next)
	if err := srv.save(&game, nil); err != nil {
		return err
	}
	sess.game = game
	sess.state = next
	sess.updated = time.Now()
	sess.searcher.Cancel()
	return nil
}

func (srv *server) save(game *Game, play *Play) error {
	if srv.db == nil {
		game.UpdatedAt = time.Now()
		return nil
	}
	return srv.db.Transaction(func(tx *gorm.DB) error {
		if play != nil {
			if err := tx.Create(play).Error; err != nil {
				return err
			}
		}
		return tx.Omit(clause.Associations).Save(game).Error
	})
}

func (srv *server) evict(id uuid.UUID) {
	srv.mu.Lock()
	defer srv.mu.Unlock()
	delete(srv.sessions, id)
}
