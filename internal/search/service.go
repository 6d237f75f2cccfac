package search

import (
	"context"
	"sync"
	"time"

	"github.com/apex/log"

	"github.com/tmhr1850/kifu-app2-sub000/internal/shogi"
)

// State is the lifecycle stage of a Searcher.
type State int

const (
	Idle State = iota
	Thinking
	MoveSelected
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Thinking:
		return "thinking"
	case MoveSelected:
		return "move_selected"
	case Failed:
		return "failed"
	}
	return "unknown"
}

// Outcome is delivered once per submitted search.
type Outcome struct {
	Report Report
	Err    error
}

// Searcher runs at most one search at a time off the caller's goroutine.
type Searcher struct {
	engine *Engine

	mu     sync.Mutex
	state  State
	cancel context.CancelFunc
	last   Outcome
}

func NewSearcher(engine *Engine) *Searcher {
	return &Searcher{engine: engine}
}

// Submit starts a search and returns the channel its Outcome arrives on.
// It fails with ErrAlreadyCalculating while another search is in flight.
func (s *Searcher) Submit(ctx context.Context, b shogi.Board, player shogi.Player, budget time.Duration) (<-chan Outcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == Thinking {
		return nil, ErrAlreadyCalculating
	}
	ctx, cancel := context.WithCancel(ctx)
	s.state = Thinking
	s.cancel = cancel

	out := make(chan Outcome, 1)
	go func() {
		defer close(out)
		defer cancel()
		result, err := s.engine.Search(ctx, b, player, budget)
		outcome := Outcome{Report: result, Err: err}

		s.mu.Lock()
		s.last = outcome
		s.cancel = nil
		if err != nil {
			s.state = Failed
			log.WithError(err).WithField("player", player).Warn("search failed")
		} else {
			s.state = MoveSelected
		}
		s.mu.Unlock()
		out <- outcome
	}()
	return out, nil
}

// SelectMove submits a search and waits for its move.
func (s *Searcher) SelectMove(ctx context.Context, b shogi.Board, player shogi.Player, budget time.Duration) (shogi.Move, error) {
	out, err := s.Submit(ctx, b, player, budget)
	if err != nil {
		return shogi.Move{}, err
	}
	outcome := <-out
	return outcome.Report.Move, outcome.Err
}

// State returns the current lifecycle stage.
func (s *Searcher) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Last returns the outcome of the most recent finished search.
func (s *Searcher) Last() Outcome {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}

// Cancel stops the search in flight, which then reports its best move so far.
func (s *Searcher) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
	}
}
