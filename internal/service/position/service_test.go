package position

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"go.uber.org/zap"

	"github.com/RubenGonV/chess-testing/internal/cache"
	"github.com/RubenGonV/chess-testing/internal/rules"
)

const startFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// countingEngine delegates to the real engine and counts Parse calls.
type countingEngine struct {
	inner  rules.Engine
	parses int
}

func (c *countingEngine) Parse(fen string) (rules.Position, error) {
	c.parses++
	return c.inner.Parse(fen)
}

func (c *countingEngine) Starting() rules.Position { return c.inner.Starting() }

func newService(t *testing.T) *Service {
	t.Helper()
	return NewService(rules.New(), nil, zap.NewNop())
}

func TestApplyMoveLegal(t *testing.T) {
	svc := newService(t)
	res, err := svc.ApplyMove(context.Background(), startFEN, "e2e4")
	if err != nil {
		t.Fatalf("ApplyMove: %v", err)
	}
	if !res.Valid {
		t.Fatalf("expected valid move")
	}
	if res.SideToMove != "b" {
		t.Fatalf("expected side to move flipped, got %q", res.SideToMove)
	}
	placement := strings.Fields(res.FEN)[0]
	if placement != "rnbqkbnr/pppppppp/8/8/4P3/8/PPPPPPPP/RNBQKBNR" {
		t.Fatalf("unexpected placement: %q", placement)
	}
	if res.Check || res.Checkmate || res.Stalemate || res.GameOver {
		t.Fatalf("unexpected state flags after e2e4: %+v", res.Snapshot)
	}
	if len(res.LegalMoves) == 0 {
		t.Fatalf("expected legal moves for black")
	}
}

func TestApplyMoveIllegalKeepsInputFEN(t *testing.T) {
	svc := newService(t)
	for _, mv := range []string{"e2e5", "garbage", ""} {
		res, err := svc.ApplyMove(context.Background(), startFEN, mv)
		if err != nil {
			t.Fatalf("move %q: %v", mv, err)
		}
		if res.Valid {
			t.Fatalf("move %q: expected invalid", mv)
		}
		if res.FEN != startFEN {
			t.Fatalf("move %q: input fen must be returned unchanged, got %q", mv, res.FEN)
		}
		if len(res.LegalMoves) != 20 {
			t.Fatalf("move %q: expected pre-move legal moves, got %d", mv, len(res.LegalMoves))
		}
	}
}

func TestApplyMoveUnparseablePositionFails(t *testing.T) {
	svc := newService(t)
	_, err := svc.ApplyMove(context.Background(), "not-a-position", "e2e4")
	if !errors.Is(err, rules.ErrInvalidFEN) {
		t.Fatalf("expected ErrInvalidFEN, got %v", err)
	}
}

func TestApplyMoveDeliversMate(t *testing.T) {
	svc := newService(t)
	pre := "rnbqkbnr/pppp1ppp/8/4p3/6P1/5P2/PPPPP2P/RNBQKBNR b KQkq - 0 2"
	res, err := svc.ApplyMove(context.Background(), pre, "d8h4")
	if err != nil {
		t.Fatalf("ApplyMove: %v", err)
	}
	if !res.Valid || !res.Checkmate || !res.GameOver {
		t.Fatalf("expected mate, got %+v", res)
	}
	if len(res.LegalMoves) != 0 {
		t.Fatalf("expected empty legal moves at mate")
	}
}

func TestInspectIdempotent(t *testing.T) {
	svc := newService(t)
	a, err := svc.Inspect(context.Background(), startFEN)
	if err != nil {
		t.Fatalf("Inspect: %v", err)
	}
	b, err := svc.Inspect(context.Background(), startFEN)
	if err != nil {
		t.Fatalf("Inspect: %v", err)
	}
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("inspect not idempotent:\n%+v\n%+v", a, b)
	}
}

func TestInspectInvalidFEN(t *testing.T) {
	svc := newService(t)
	_, err := svc.Inspect(context.Background(), "invalid-fen-string")
	if !errors.Is(err, rules.ErrInvalidFEN) {
		t.Fatalf("expected ErrInvalidFEN, got %v", err)
	}
}

func TestInitial(t *testing.T) {
	svc := newService(t)
	snap := svc.Initial(context.Background())
	if snap.FEN != startFEN {
		t.Fatalf("unexpected starting fen: %q", snap.FEN)
	}
	if len(snap.LegalMoves) != 20 {
		t.Fatalf("expected 20 opening moves, got %d", len(snap.LegalMoves))
	}
	if snap.Check || snap.Checkmate || snap.Stalemate || snap.GameOver {
		t.Fatalf("expected all flags false: %+v", snap)
	}
	if snap.LegalMoves[0] != "a2a3" {
		t.Fatalf("expected sorted moves, first %q", snap.LegalMoves[0])
	}
}

func TestInspectUsesSnapshotCache(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis: %v", err)
	}
	defer mr.Close()
	snaps, err := cache.New("redis://"+mr.Addr()+"/0", time.Minute, zap.NewNop())
	if err != nil {
		t.Fatalf("cache.New: %v", err)
	}
	defer snaps.Close()

	eng := &countingEngine{inner: rules.New()}
	svc := NewService(eng, snaps, zap.NewNop())
	ctx := context.Background()

	a, err := svc.Inspect(ctx, startFEN)
	if err != nil {
		t.Fatalf("Inspect: %v", err)
	}
	b, err := svc.Inspect(ctx, startFEN)
	if err != nil {
		t.Fatalf("Inspect: %v", err)
	}
	if eng.parses != 1 {
		t.Fatalf("expected second inspect to hit the cache, parses=%d", eng.parses)
	}
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("cached snapshot differs:\n%+v\n%+v", a, b)
	}
}
