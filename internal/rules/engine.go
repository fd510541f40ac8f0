package rules

import (
	"fmt"
	"sort"
	"strings"

	nchess "github.com/corentings/chess/v2"
)

type libEngine struct{}

// New returns the Engine backed by the corentings/chess library.
func New() Engine { return libEngine{} }

func (libEngine) Parse(fen string) (Position, error) {
	opt, err := nchess.FEN(strings.TrimSpace(fen))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFEN, err)
	}
	return &libPosition{game: nchess.NewGame(opt)}, nil
}

func (libEngine) Starting() Position {
	return &libPosition{game: nchess.NewGame()}
}

type libPosition struct {
	game *nchess.Game
}

func (p *libPosition) FEN() string { return p.game.FEN() }

func (p *libPosition) SideToMove() string {
	if p.game.Position().Turn() == nchess.White {
		return "w"
	}
	return "b"
}

// LegalMoves returns the UCI encodings of all legal moves, sorted for a
// deterministic response order.
func (p *libPosition) LegalMoves() []string {
	moves := p.game.ValidMoves()
	out := make([]string, 0, len(moves))
	for i := range moves {
		out = append(out, moves[i].String())
	}
	sort.Strings(out)
	return out
}

func (p *libPosition) Apply(moveUCI string) (Position, error) {
	uci := strings.ToLower(strings.TrimSpace(moveUCI))
	if uci == "" {
		return nil, fmt.Errorf("%w: empty move", ErrIllegalMove)
	}
	mv, err := nchess.UCINotation{}.Decode(p.game.Position(), uci)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrIllegalMove, err)
	}
	next := p.game.Clone()
	if err := next.Move(mv, nil); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrIllegalMove, err)
	}
	return &libPosition{game: next}, nil
}

func (p *libPosition) InCheck() bool {
	return kingAttacked(p.game.Position())
}

func (p *libPosition) Checkmate() bool {
	return p.game.Position().Status() == nchess.Checkmate
}

func (p *libPosition) Stalemate() bool {
	return p.game.Position().Status() == nchess.Stalemate
}

func (p *libPosition) GameOver() bool {
	return p.game.Outcome() != nchess.NoOutcome
}
