package search

import (
	"context"
	"fmt"
	"time"

	"github.com/apex/log"
	"github.com/montanaflynn/stats"
	"golang.org/x/sync/errgroup"

	"github.com/tmhr1850/kifu-app2-sub000/internal/shogi"
)

// Options configures an Engine.
type Options struct {
	// Threads is the number of goroutines scoring root moves.
	Threads int
	// CacheSize bounds each worker's evaluation cache.
	CacheSize int
	// Depth overrides the budget based depth when positive.
	Depth int
}

func NewOptions() Options {
	return Options{
		Threads:   1,
		CacheSize: 1 << 16,
	}
}

// Engine picks moves by alpha-beta minimax over board moves. An Engine holds
// no search state and may serve several searches at once.
type Engine struct {
	Options
}

func NewEngine(options Options) *Engine {
	if options.Threads < 1 {
		options.Threads = 1
	}
	return &Engine{Options: options}
}

// Report describes a finished search.
type Report struct {
	Move    shogi.Move
	Score   int
	Depth   int
	Nodes   int64
	Elapsed time.Duration
	// Completed is false when the deadline cut the search short.
	Completed  bool
	Candidates int
	Scored     int
	// Median and StdDev summarize the scores of the scored root moves.
	Median float64
	StdDev float64
}

// DepthFor maps a time budget to a search depth.
func DepthFor(budget time.Duration) int {
	if budget >= 2*time.Second {
		return 2
	}
	return 1
}

type rootScore struct {
	score  int
	scored bool
}

// SelectMove returns the chosen move of Search.
func (e *Engine) SelectMove(ctx context.Context, b shogi.Board, player shogi.Player, budget time.Duration) (shogi.Move, error) {
	result, err := e.Search(ctx, b, player, budget)
	if err != nil {
		return shogi.Move{}, err
	}
	return result.Move, nil
}

// Search scores every legal board move of player and returns the best one.
// It stops at 90% of budget and then answers with the best move scored so
// far, or the first legal move when none was scored.
func (e *Engine) Search(ctx context.Context, b shogi.Board, player shogi.Player, budget time.Duration) (Report, error) {
	moves := shogi.GenerateLegalMoves(b, player)
	if len(moves) == 0 {
		return Report{}, ErrNoLegalMoves
	}
	depth := e.Depth
	if depth < 1 {
		depth = DepthFor(budget)
	}
	tm := newTimeManager(ctx, budget)
	defer tm.Close()

	scores := make([]rootScore, len(moves))
	var err error
	if e.Threads > 1 && len(moves) > 1 {
		err = e.searchParallel(tm, b, player, depth, moves, scores)
	} else {
		w := newWorker(tm, player, e.CacheSize)
		err = w.searchRange(b, depth, moves, scores, nil)
	}
	if err != nil {
		return Report{}, err
	}

	result := Report{
		Move:       moves[0],
		Score:      -infinity,
		Depth:      depth,
		Candidates: len(moves),
	}
	values := make(stats.Float64Data, 0, len(moves))
	for i, s := range scores {
		if !s.scored {
			continue
		}
		values = append(values, float64(s.score))
		if s.score > result.Score {
			result.Score = s.score
			result.Move = moves[i]
		}
	}
	result.Scored = len(values)
	result.Completed = result.Scored == len(moves)
	if result.Scored == 0 {
		result.Score = 0
	}
	result.Nodes = tm.Nodes()
	result.Elapsed = tm.Elapsed()
	if len(values) > 0 {
		result.Median, _ = stats.Median(values)
		result.StdDev, _ = stats.StandardDeviation(values)
	}

	log.WithFields(log.Fields{
		"player":    player,
		"move":      result.Move,
		"score":     result.Score,
		"depth":     depth,
		"nodes":     result.Nodes,
		"elapsed":   result.Elapsed,
		"scored":    fmt.Sprintf("%d/%d", result.Scored, result.Candidates),
		"median":    result.Median,
		"stddev":    result.StdDev,
		"completed": result.Completed,
	}).Debug("search finished")
	return result, nil
}

func (e *Engine) searchParallel(tm *timeManager, b shogi.Board, player shogi.Player, depth int, moves []shogi.Move, scores []rootScore) error {
	next := make(chan int)
	g, ctx := errgroup.WithContext(tm.ctx)
	g.Go(func() error {
		defer close(next)
		for i := range moves {
			select {
			case next <- i:
			case <-ctx.Done():
				return nil
			}
		}
		return nil
	})
	for t := 0; t < e.Threads; t++ {
		w := newWorker(tm, player, e.CacheSize)
		g.Go(func() error {
			return w.searchRange(b, depth, moves, scores, next)
		})
	}
	return g.Wait()
}

type worker struct {
	tm    *timeManager
	root  shogi.Player
	cache *evalCache
}

func newWorker(tm *timeManager, root shogi.Player, cacheSize int) *worker {
	return &worker{tm: tm, root: root, cache: newEvalCache(cacheSize)}
}

// searchRange scores the root moves whose indices arrive on next, or all of
// them in order when next is nil. Each index is written by one worker only.
func (w *worker) searchRange(b shogi.Board, depth int, moves []shogi.Move, scores []rootScore, next <-chan int) error {
	score := func(i int) (bool, error) {
		s, ok, err := w.scoreRoot(b, depth, moves[i])
		if err != nil || !ok {
			return false, err
		}
		scores[i] = rootScore{score: s, scored: true}
		return true, nil
	}
	if next == nil {
		for i := range moves {
			if ok, err := score(i); !ok {
				return err
			}
		}
		return nil
	}
	for i := range next {
		if ok, err := score(i); !ok {
			return err
		}
	}
	return nil
}

func (w *worker) scoreRoot(b shogi.Board, depth int, m shogi.Move) (score int, ok bool, err error) {
	if w.tm.done() {
		return 0, false, nil
	}
	child, err := b.ApplyMove(m)
	if err != nil {
		return 0, false, fmt.Errorf("root move %s: %w", m, err)
	}
	if shogi.IsCheckmate(child, w.root.Opponent()) {
		return MateScore, true, nil
	}
	ok = true
	defer recoverFromSearchTimeout(&ok)
	score = w.alphaBeta(child, w.root.Opponent(), depth-1, -infinity, infinity)
	return score, ok, nil
}

// alphaBeta returns the minimax value of b with turn to move, from the root
// player's point of view.
func (w *worker) alphaBeta(b shogi.Board, turn shogi.Player, depth, alpha, beta int) int {
	w.tm.visit()
	if depth <= 0 {
		return w.cache.evaluate(b, w.root)
	}
	moves := shogi.GenerateLegalMoves(b, turn)
	if len(moves) == 0 {
		if shogi.IsInCheck(b, turn) {
			if turn == w.root {
				return -MateScore
			}
			return MateScore
		}
		return w.cache.evaluate(b, w.root)
	}

	if turn == w.root {
		best := -infinity
		for _, m := range moves {
			child, err := b.ApplyMove(m)
			if err != nil {
				continue
			}
			score := w.alphaBeta(child, turn.Opponent(), depth-1, alpha, beta)
			if score > best {
				best = score
			}
			if best > alpha {
				alpha = best
			}
			if beta <= alpha {
				break
			}
		}
		return best
	}

	best := infinity
	for _, m := range moves {
		child, err := b.ApplyMove(m)
		if err != nil {
			continue
		}
		score := w.alphaBeta(child, turn.Opponent(), depth-1, alpha, beta)
		if score < best {
			best = score
		}
		if best < beta {
			beta = best
		}
		if beta <= alpha {
			break
		}
	}
	return best
}
