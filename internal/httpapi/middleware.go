package httpapi

import (
	"time"

	"github.com/google/uuid"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
)

const requestIDHeader = "X-Request-ID"

func (s *Server) withAccessLog(next fasthttp.RequestHandler) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		start := time.Now()
		rid := string(ctx.Request.Header.Peek(requestIDHeader))
		if rid == "" {
			rid = uuid.NewString()
		}
		ctx.Response.Header.Set(requestIDHeader, rid)

		next(ctx)

		s.logger.Info("http_request",
			zap.String("rid", rid),
			zap.String("method", string(ctx.Method())),
			zap.String("path", string(ctx.Path())),
			zap.Int("status", ctx.Response.StatusCode()),
			zap.Duration("dur", time.Since(start)),
		)
	}
}

// withCORS answers every request with permissive cross-origin headers
// and short-circuits OPTIONS preflights.
func (s *Server) withCORS(next fasthttp.RequestHandler) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		h := &ctx.Response.Header
		h.Set("Access-Control-Allow-Origin", "*")
		h.Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		h.Set("Access-Control-Allow-Headers", "Content-Type, "+requestIDHeader)

		if string(ctx.Method()) == fasthttp.MethodOptions {
			ctx.SetStatusCode(fasthttp.StatusNoContent)
			return
		}
		next(ctx)
	}
}

func (s *Server) withRecover(next fasthttp.RequestHandler) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		defer func() {
			if r := recover(); r != nil {
				s.logger.Error("handler_panic",
					zap.Any("panic", r),
					zap.String("path", string(ctx.Path())),
					zap.Stack("stack"),
				)
				s.internalError(ctx)
			}
		}()
		next(ctx)
	}
}
