// Package position implements the stateless mapping between request
// inputs and game-state snapshots. All chess semantics come from the
// injected rules engine; nothing is retained between calls.
package position

import (
	"context"
	"errors"

	"github.com/RubenGonV/chess-testing/internal/cache"
	"github.com/RubenGonV/chess-testing/internal/rules"
	"go.uber.org/zap"
)

// Snapshot describes one position: its encoding, the legal moves from
// it and the four state flags. Recomputed fresh on every call.
type Snapshot struct {
	FEN        string
	SideToMove string
	LegalMoves []string

	Check     bool
	Checkmate bool
	Stalemate bool
	GameOver  bool
}

// MoveResult is the outcome of ApplyMove. When Valid is false the
// snapshot describes the original, pre-move position and FEN carries
// the caller's input string unchanged.
type MoveResult struct {
	Snapshot
	Valid bool
}

type Service struct {
	engine rules.Engine
	snaps  *cache.SnapshotCache // optional
	logger *zap.Logger
}

func NewService(engine rules.Engine, snaps *cache.SnapshotCache, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{engine: engine, snaps: snaps, logger: logger}
}

// ApplyMove parses fen, then attempts the move against it. An illegal
// or unparseable move degrades to Valid=false with the pre-move state;
// an unparseable fen is an error for the caller to surface (the parse
// precedes the recovery boundary, matching the documented asymmetry
// with the inspect path).
func (s *Service) ApplyMove(ctx context.Context, fen, move string) (*MoveResult, error) {
	pos, err := s.engine.Parse(fen)
	if err != nil {
		return nil, err
	}

	next, err := pos.Apply(move)
	if err != nil {
		if !errors.Is(err, rules.ErrIllegalMove) {
			return nil, err
		}
		s.logger.Debug("move_rejected", zap.String("move", move), zap.Error(err))
		snap := snapshotOf(pos)
		snap.FEN = fen
		return &MoveResult{Snapshot: snap, Valid: false}, nil
	}

	s.logger.Debug("move_applied",
		zap.String("move", move),
		zap.String("fen", next.FEN()),
	)
	return &MoveResult{Snapshot: snapshotOf(next), Valid: true}, nil
}

// Inspect parses fen and reports its snapshot. Parse failures are
// returned as rules.ErrInvalidFEN for the caller to downgrade to a
// structured response.
func (s *Service) Inspect(ctx context.Context, fen string) (*Snapshot, error) {
	if s.snaps != nil {
		var snap Snapshot
		if err := s.snaps.Get(ctx, fen, &snap); err == nil {
			return &snap, nil
		} else if !errors.Is(err, cache.ErrMiss) {
			s.logger.Warn("snapshot_cache_get_failed", zap.Error(err))
		}
	}

	pos, err := s.engine.Parse(fen)
	if err != nil {
		return nil, err
	}
	snap := snapshotOf(pos)
	if s.snaps != nil {
		s.snaps.Set(ctx, fen, snap)
	}
	return &snap, nil
}

// Initial returns the standard starting position. Cannot fail.
func (s *Service) Initial(ctx context.Context) *Snapshot {
	snap := snapshotOf(s.engine.Starting())
	return &snap
}

func snapshotOf(pos rules.Position) Snapshot {
	return Snapshot{
		FEN:        pos.FEN(),
		SideToMove: pos.SideToMove(),
		LegalMoves: pos.LegalMoves(),
		Check:      pos.InCheck(),
		Checkmate:  pos.Checkmate(),
		Stalemate:  pos.Stalemate(),
		GameOver:   pos.GameOver(),
	}
}
