// Package rules wraps the external chess rules library behind a small
// oracle interface: parse a position, enumerate legal moves, apply a
// move, query terminal state. The layers above never touch the library
// directly, so they can be exercised with a stub engine.
package rules

import "errors"

var (
	// ErrInvalidFEN reports a position string the engine cannot parse.
	ErrInvalidFEN = errors.New("invalid fen")
	// ErrIllegalMove reports a move that is unparseable or not legal
	// from the given position.
	ErrIllegalMove = errors.New("illegal move")
)

type Engine interface {
	// Parse validates and loads a FEN string. Errors wrap ErrInvalidFEN.
	Parse(fen string) (Position, error)
	// Starting returns the standard initial position.
	Starting() Position
}

// Position is an immutable board state. Apply returns a new Position
// and never mutates the receiver.
type Position interface {
	FEN() string
	SideToMove() string
	LegalMoves() []string
	Apply(moveUCI string) (Position, error)
	InCheck() bool
	Checkmate() bool
	Stalemate() bool
	GameOver() bool
}
