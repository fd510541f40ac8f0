// Package httpapi exposes the position service over fasthttp: the three
// JSON endpoints, the board rendering endpoint, a liveness probe, and
// the static browser client at the root path.
package httpapi

import (
	"context"
	"net"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/RubenGonV/chess-testing/internal/config"
	"github.com/RubenGonV/chess-testing/internal/service/position"
)

type Server struct {
	cfg    *config.AppConfig
	svc    *position.Service
	logger *zap.Logger
	static fasthttp.RequestHandler
	srv    *fasthttp.Server
}

func New(cfg *config.AppConfig, svc *position.Service, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	fs := &fasthttp.FS{
		Root:            cfg.StaticDir,
		IndexNames:      []string{"index.html"},
		AcceptByteRange: true,
	}
	s := &Server{
		cfg:    cfg,
		svc:    svc,
		logger: logger,
		static: fs.NewRequestHandler(),
	}
	s.srv = &fasthttp.Server{
		Name:               "chess-position-api",
		Handler:            s.withAccessLog(s.withCORS(s.withRecover(s.route))),
		ReadTimeout:        time.Duration(cfg.ReadTimeoutSec) * time.Second,
		WriteTimeout:       time.Duration(cfg.WriteTimeoutSec) * time.Second,
		MaxRequestBodySize: cfg.MaxRequestBodyBytes,
	}
	return s
}

func (s *Server) ListenAndServe() error {
	s.logger.Info("http_listen", zap.String("addr", s.cfg.ListenAddr))
	return s.srv.ListenAndServe(s.cfg.ListenAddr)
}

// Serve accepts connections from ln. Used by tests with an in-memory
// listener.
func (s *Server) Serve(ln net.Listener) error {
	return s.srv.Serve(ln)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.ShutdownWithContext(ctx)
}

func (s *Server) route(ctx *fasthttp.RequestCtx) {
	path := string(ctx.Path())
	method := string(ctx.Method())

	switch path {
	case "/move":
		if method != fasthttp.MethodPost {
			s.methodNotAllowed(ctx)
			return
		}
		s.handleMove(ctx)
	case "/fen":
		if method != fasthttp.MethodPost {
			s.methodNotAllowed(ctx)
			return
		}
		s.handleFEN(ctx)
	case "/reset":
		if method != fasthttp.MethodGet {
			s.methodNotAllowed(ctx)
			return
		}
		s.handleReset(ctx)
	case "/board":
		if method != fasthttp.MethodGet {
			s.methodNotAllowed(ctx)
			return
		}
		s.handleBoard(ctx)
	case "/healthz":
		ctx.SetStatusCode(fasthttp.StatusOK)
		ctx.SetBodyString("ok")
	default:
		if method == fasthttp.MethodGet || method == fasthttp.MethodHead {
			s.static(ctx)
			return
		}
		s.methodNotAllowed(ctx)
	}
}
