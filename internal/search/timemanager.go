package search

import (
	"context"
	"errors"
	"sync/atomic"
	"time"
)

// deadlineShare is the part of the budget a search may spend.
const deadlineShare = 0.9

var searchTimeout = errors.New("search timeout")

type timeManager struct {
	ctx    context.Context
	cancel context.CancelFunc
	start  time.Time
	nodes  int64
}

func newTimeManager(ctx context.Context, budget time.Duration) *timeManager {
	start := time.Now()
	limit := time.Duration(float64(budget) * deadlineShare)
	ctx, cancel := context.WithDeadline(ctx, start.Add(limit))
	return &timeManager{ctx: ctx, cancel: cancel, start: start}
}

// visit counts a node and unwinds the search once the deadline has passed
// or the caller cancelled.
func (tm *timeManager) visit() {
	atomic.AddInt64(&tm.nodes, 1)
	if tm.ctx.Err() != nil {
		panic(searchTimeout)
	}
}

func (tm *timeManager) done() bool {
	return tm.ctx.Err() != nil
}

func (tm *timeManager) Nodes() int64 {
	return atomic.LoadInt64(&tm.nodes)
}

func (tm *timeManager) Elapsed() time.Duration {
	return time.Since(tm.start)
}

func (tm *timeManager) Close() {
	tm.cancel()
}

func recoverFromSearchTimeout(ok *bool) {
	r := recover()
	if r == nil {
		return
	}
	if r != searchTimeout {
		panic(r)
	}
	*ok = false
}
