package httpapi

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/RubenGonV/chess-testing/internal/render"
	"github.com/RubenGonV/chess-testing/internal/rules"
	"github.com/RubenGonV/chess-testing/internal/service/position"
	"github.com/RubenGonV/chess-testing/pkg/apidto"
)

func (s *Server) handleMove(ctx *fasthttp.RequestCtx) {
	var req apidto.MoveRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		s.badRequest(ctx, "malformed json body")
		return
	}
	if strings.TrimSpace(req.FEN) == "" || strings.TrimSpace(req.Move) == "" {
		s.badRequest(ctx, "fen and move are required")
		return
	}

	res, err := s.svc.ApplyMove(ctx, req.FEN, req.Move)
	if err != nil {
		// An unparseable position on this path is the unhandled tier:
		// no board exists to report against, so it surfaces as a 500.
		s.logger.Error("apply_move_failed", zap.String("fen", req.FEN), zap.Error(err))
		s.internalError(ctx)
		return
	}

	writeJSON(ctx, fasthttp.StatusOK, apidto.MoveResponse{
		FEN:       res.FEN,
		Valid:     res.Valid,
		GameState: toGameState(res.Snapshot),
	})
}

func (s *Server) handleFEN(ctx *fasthttp.RequestCtx) {
	var req apidto.FENRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		s.badRequest(ctx, "malformed json body")
		return
	}
	if strings.TrimSpace(req.FEN) == "" {
		s.badRequest(ctx, "fen is required")
		return
	}

	snap, err := s.svc.Inspect(ctx, req.FEN)
	if err != nil {
		if errors.Is(err, rules.ErrInvalidFEN) {
			writeJSON(ctx, fasthttp.StatusOK, apidto.InvalidFENResponse{Valid: false, Error: "Invalid FEN"})
			return
		}
		s.logger.Error("inspect_failed", zap.Error(err))
		s.internalError(ctx)
		return
	}

	writeJSON(ctx, fasthttp.StatusOK, apidto.PositionResponse{
		Valid:     true,
		GameState: toGameState(*snap),
	})
}

func (s *Server) handleReset(ctx *fasthttp.RequestCtx) {
	snap := s.svc.Initial(ctx)
	writeJSON(ctx, fasthttp.StatusOK, apidto.ResetResponse{
		FEN:       snap.FEN,
		GameState: toGameState(*snap),
	})
}

func (s *Server) handleBoard(ctx *fasthttp.RequestCtx) {
	fen := string(ctx.QueryArgs().Peek("fen"))
	if strings.TrimSpace(fen) == "" {
		s.badRequest(ctx, "fen query parameter is required")
		return
	}
	board, err := render.FromFEN(fen)
	if err != nil {
		s.badRequest(ctx, "invalid fen")
		return
	}

	opts := render.Options{SquareSize: s.cfg.BoardSquareSize}
	if last := string(ctx.QueryArgs().Peek("last")); last != "" {
		if hl, ok := render.HighlightFromUCI(last); ok {
			opts.Highlight = hl
		}
	}

	png, err := render.RenderPNG(ctx, board, opts)
	if err != nil {
		s.logger.Error("render_failed", zap.Error(err))
		s.internalError(ctx)
		return
	}
	ctx.SetStatusCode(fasthttp.StatusOK)
	ctx.SetContentType("image/png")
	ctx.SetBody(png)
}

func toGameState(snap position.Snapshot) apidto.GameState {
	moves := snap.LegalMoves
	if moves == nil {
		moves = []string{}
	}
	return apidto.GameState{
		LegalMoves:  moves,
		IsCheck:     snap.Check,
		IsCheckmate: snap.Checkmate,
		IsStalemate: snap.Stalemate,
		IsGameOver:  snap.GameOver,
	}
}

func writeJSON(ctx *fasthttp.RequestCtx, status int, v any) {
	raw, err := json.Marshal(v)
	if err != nil {
		ctx.SetStatusCode(fasthttp.StatusInternalServerError)
		return
	}
	ctx.SetStatusCode(status)
	ctx.SetContentType("application/json; charset=utf-8")
	ctx.SetBody(raw)
}

func (s *Server) badRequest(ctx *fasthttp.RequestCtx, msg string) {
	writeJSON(ctx, fasthttp.StatusBadRequest, apidto.ErrorResponse{Error: msg})
}

func (s *Server) internalError(ctx *fasthttp.RequestCtx) {
	writeJSON(ctx, fasthttp.StatusInternalServerError, apidto.ErrorResponse{Error: "internal server error"})
}

func (s *Server) methodNotAllowed(ctx *fasthttp.RequestCtx) {
	writeJSON(ctx, fasthttp.StatusMethodNotAllowed, apidto.ErrorResponse{Error: "method not allowed"})
}
