package search

import "errors"

var (
	// ErrNoLegalMoves is returned when the side to move has no board move.
	// The caller should treat it as that side being mated or stalemated.
	ErrNoLegalMoves = errors.New("no legal moves")
	// ErrAlreadyCalculating is returned when a Searcher is asked to start a
	// search while one is in flight.
	ErrAlreadyCalculating = errors.New("already calculating")
)
