package main

import (
	"context"
	"errors"
	"time"

	"github.com/apex/log"
	"github.com/labstack/echo/v4"
	uuid "github.com/satori/go.uuid"

	"github.com/tmhr1850/kifu-app2-sub000/internal/search"
	"github.com/tmhr1850/kifu-app2-sub000/internal/shogi"
)

const (
	stalledAfter = 30 * time.Second
	finishedTTL  = 10 * time.Minute
	idleTTL      = time.Hour
)

// budget maps a difficulty level to the agent's thinking time.
func (srv *server) budget(level int) time.Duration {
	if level < 1 {
		level = 1
	}
	return time.Duration(level) * srv.step
}

// pokeAgent starts a search when an agent has the move. The move is played
// when the search finishes.
func (srv *server) pokeAgent(sess *session) error {
	game, state := sess.snapshot()
	if state.Over() || game.playerType(state.Turn) != agentType {
		return nil
	}
	out, err := sess.searcher.Submit(context.Background(), state.Board, state.Turn, srv.budget(game.Level))
	if errors.Is(err, search.ErrAlreadyCalculating) {
		return nil
	}
	if err != nil {
		return err
	}
	go func() {
		outcome := <-out
		idleError("agent move:", srv.agentMove(sess, state, outcome))
	}()
	return nil
}

func (srv *server) agentMove(sess *session, state shogi.State, outcome search.Outcome) error {
	m := outcome.Report.Move
	if outcome.Err != nil {
		if !errors.Is(outcome.Err, search.ErrNoLegalMoves) {
			return outcome.Err
		}
		// the search only sees the board; a drop may still be available
		moves := state.LegalMoves()
		if len(moves) == 0 {
			return nil
		}
		m = moves[0]
	}

	game, current := sess.snapshot()
	if current.Over() || len(current.History) != len(state.History) {
		return nil
	}
	err := srv.play(sess, state.Turn, m)
	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) || errors.Is(err, shogi.ErrInvalidMove) {
		log.WithError(err).WithField("move", m).Warn("agent move dropped")
		return nil
	}
	if err != nil {
		return err
	}
	log.WithFields(log.Fields{
		"game":    game.GameID,
		"player":  state.Turn,
		"move":    m,
		"score":   outcome.Report.Score,
		"depth":   outcome.Report.Depth,
		"nodes":   outcome.Report.Nodes,
		"elapsed": outcome.Report.Elapsed,
	}).Info("agent moved")
	return srv.pokeAgent(sess)
}

func (srv *server) sessionList() map[uuid.UUID]*session {
	srv.mu.RLock()
	defer srv.mu.RUnlock()
	list := make(map[uuid.UUID]*session, len(srv.sessions))
	for id, sess := range srv.sessions {
		list[id] = sess
	}
	return list
}

// agentIdle restarts agents whose game has not moved for a while.
func (srv *server) agentIdle(now time.Time) error {
	for _, sess := range srv.sessionList() {
		sess.mu.Lock()
		stalled := now.Sub(sess.updated) > stalledAfter
		sess.mu.Unlock()
		if !stalled || sess.searcher.State() == search.Thinking {
			continue
		}
		if err := srv.pokeAgent(sess); err != nil {
			return err
		}
	}
	return nil
}

// gameIdle evicts finished games from memory. With a database behind the
// server, long untouched games are evicted too and reloaded on demand.
func (srv *server) gameIdle(now time.Time) error {
	for id, sess := range srv.sessionList() {
		sess.mu.Lock()
		age := now.Sub(sess.updated)
		over := sess.state.Over()
		sess.mu.Unlock()
		if sess.searcher.State() == search.Thinking {
			continue
		}
		if (over && age > finishedTTL) || (srv.db != nil && age > idleTTL) {
			srv.evict(id)
		}
	}
	return nil
}

func (srv *server) idle(now time.Time) {
	idleError("agent idle complete:", srv.agentIdle(now))
	idleError("game idle complete:", srv.gameIdle(now))
}
