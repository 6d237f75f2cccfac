package shogi

import "errors"

var (
	ErrInvalidPosition   = errors.New("invalid position")
	ErrInvalidMove       = errors.New("invalid move")
	ErrUnpromotablePiece = errors.New("unpromotable piece")
)
