package http

import (
	"context"
	"errors"
	"net"
	stdhttp "net/http"
	"time"

	"tripstats/internal/platform/config"
	"tripstats/internal/platform/logger"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"
)

const shutdownGrace = 10 * time.Second

// Server serves the report API on API_PORT (default :4000)
type Server struct {
	mux *chi.Mux
	srv *stdhttp.Server
}

// NewServer builds an idle server, routes are mounted through Router
func NewServer(cfg config.Conf) *Server {
	mux := chi.NewRouter()
	return &Server{mux: mux, srv: &stdhttp.Server{
		Addr:              cfg.MayString("API_PORT", ":4000"),
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}}
}

// Router mounts routes on the server mux
func (s *Server) Router() Router { return AdaptChi(s.mux) }

// Addr is the listen address
func (s *Server) Addr() string { return s.srv.Addr }

// Handler is the root handler, tests drive it without a listener
func (s *Server) Handler() stdhttp.Handler { return s.mux }

// Run listens on Addr and serves until ctx ends
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.srv.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve answers on ln until ctx ends, then drains requests for up to shutdownGrace
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	log := logger.Named("http")
	log.Info().Str("addr", ln.Addr().String()).Msg("report api listening")

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := s.srv.Serve(ln); !errors.Is(err, stdhttp.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		sctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownGrace)
		defer cancel()
		log.Info().Msg("report api shutting down")
		return s.srv.Shutdown(sctx)
	})
	return g.Wait()
}
