package rules

import (
	"errors"
	"strings"
	"testing"
)

const (
	startFEN     = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"
	preMateFEN   = "rnbqkbnr/pppp1ppp/8/4p3/6P1/5P2/PPPPP2P/RNBQKBNR b KQkq - 0 2"
	foolsMateFEN = "rnb1kbnr/pppp1ppp/8/4p3/6Pq/5P2/PPPPP2P/RNBQKBNR w KQkq - 1 3"
	stalemateFEN = "7k/5Q2/6K1/8/8/8/8/8 b - - 0 1"
	bishopCheck  = "rnbqkbnr/ppp1pppp/8/1B1p4/4P3/8/PPPP1PPP/RNBQK1NR b KQkq - 1 2"
	pawnCheckFEN = "4k3/3P4/8/8/8/8/8/4K3 b - - 0 1"
	promotionFEN = "8/4P3/8/8/8/8/k6K/8 w - - 0 1"
)

func TestStartingPosition(t *testing.T) {
	pos := New().Starting()
	moves := pos.LegalMoves()
	if len(moves) != 20 {
		t.Fatalf("expected 20 opening moves, got %d: %v", len(moves), moves)
	}
	if pos.SideToMove() != "w" {
		t.Fatalf("expected white to move, got %q", pos.SideToMove())
	}
	if pos.InCheck() || pos.Checkmate() || pos.Stalemate() || pos.GameOver() {
		t.Fatalf("starting position must have all flags false")
	}
}

func TestParseInvalidFEN(t *testing.T) {
	if _, err := New().Parse("invalid-fen-string"); !errors.Is(err, ErrInvalidFEN) {
		t.Fatalf("expected ErrInvalidFEN, got %v", err)
	}
}

func TestApplyLegalMoveFlipsTurn(t *testing.T) {
	pos, err := New().Parse(startFEN)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	next, err := pos.Apply("e2e4")
	if err != nil {
		t.Fatalf("Apply e2e4: %v", err)
	}
	if next.SideToMove() != "b" {
		t.Fatalf("expected black to move after e2e4, got %q", next.SideToMove())
	}
	placement := strings.Fields(next.FEN())[0]
	if placement != "rnbqkbnr/pppppppp/8/8/4P3/8/PPPPPPPP/RNBQKBNR" {
		t.Fatalf("unexpected placement after e2e4: %q", placement)
	}
	if next.InCheck() || next.GameOver() {
		t.Fatalf("e2e4 must not end the game or give check")
	}
}

func TestApplyIllegalMove(t *testing.T) {
	pos, err := New().Parse(startFEN)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	for _, mv := range []string{"e2e5", "e7e5", "zz9", "", "e2"} {
		if _, err := pos.Apply(mv); !errors.Is(err, ErrIllegalMove) {
			t.Fatalf("move %q: expected ErrIllegalMove, got %v", mv, err)
		}
	}
	// receiver must stay usable after failed applies
	if len(pos.LegalMoves()) != 20 {
		t.Fatalf("position mutated by failed Apply")
	}
}

func TestFoolsMate(t *testing.T) {
	pos, err := New().Parse(preMateFEN)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	mated, err := pos.Apply("d8h4")
	if err != nil {
		t.Fatalf("Apply d8h4: %v", err)
	}
	if !mated.Checkmate() || !mated.GameOver() || !mated.InCheck() {
		t.Fatalf("expected checkmate flags, got check=%v mate=%v over=%v",
			mated.InCheck(), mated.Checkmate(), mated.GameOver())
	}
	if n := len(mated.LegalMoves()); n != 0 {
		t.Fatalf("expected no legal moves in mate, got %d", n)
	}
}

func TestParsedMatePosition(t *testing.T) {
	pos, err := New().Parse(foolsMateFEN)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if !pos.Checkmate() || !pos.GameOver() || pos.Stalemate() {
		t.Fatalf("expected checkmate on parsed mate FEN")
	}
}

func TestStalemate(t *testing.T) {
	pos, err := New().Parse(stalemateFEN)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if !pos.Stalemate() || !pos.GameOver() {
		t.Fatalf("expected stalemate, got stale=%v over=%v", pos.Stalemate(), pos.GameOver())
	}
	if pos.InCheck() || pos.Checkmate() {
		t.Fatalf("stalemate must not be check or mate")
	}
}

func TestCheckDetection(t *testing.T) {
	cases := []struct {
		name string
		fen  string
	}{
		{"bishop", bishopCheck},
		{"pawn", pawnCheckFEN},
	}
	for _, tc := range cases {
		pos, err := New().Parse(tc.fen)
		if err != nil {
			t.Fatalf("%s: Parse: %v", tc.name, err)
		}
		if !pos.InCheck() {
			t.Fatalf("%s: expected check", tc.name)
		}
		if pos.Checkmate() || pos.GameOver() {
			t.Fatalf("%s: check should not be terminal here", tc.name)
		}
	}
}

func TestPromotion(t *testing.T) {
	pos, err := New().Parse(promotionFEN)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	found := false
	for _, mv := range pos.LegalMoves() {
		if mv == "e7e8q" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected e7e8q among legal moves: %v", pos.LegalMoves())
	}
	next, err := pos.Apply("e7e8q")
	if err != nil {
		t.Fatalf("Apply e7e8q: %v", err)
	}
	placement := strings.Fields(next.FEN())[0]
	if !strings.Contains(placement, "Q") {
		t.Fatalf("expected promoted queen in placement %q", placement)
	}
}
