// Package server serves the blogql GraphQL schema over HTTP.
//
// Routes:
//
//	POST /graphql  GraphQL endpoint (JSON request body)
//	GET  /         GraphiQL page pointed at /graphql
//	GET  /healthz  200 when the store answers a ping, 503 otherwise
//	GET  /metrics  Prometheus metrics, when enabled
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	graphql "github.com/graph-gophers/graphql-go"
	"github.com/graph-gophers/graphql-go/relay"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/roach88/blogql/internal/metrics"
)

const readHeaderTimeout = 10 * time.Second

// Config holds the HTTP settings.
type Config struct {
	Addr            string
	ShutdownTimeout time.Duration
	MetricsEnabled  bool
}

// Pinger reports whether the backing store is usable. *store.Store implements it.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Server is the blogql HTTP server.
type Server struct {
	cfg     Config
	logger  *zap.Logger
	handler http.Handler
}

// New wires the routes. gatherer may be nil when metrics are disabled.
func New(cfg Config, schema *graphql.Schema, st Pinger, logger *zap.Logger, gatherer prometheus.Gatherer) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}

	mux := http.NewServeMux()
	mux.Handle("POST /graphql", &relay.Handler{Schema: schema})
	mux.Handle("GET /{$}", playgroundHandler("/graphql"))
	mux.Handle("GET /healthz", healthHandler(st, logger))
	if cfg.MetricsEnabled && gatherer != nil {
		mux.Handle("GET /metrics", metrics.Handler(gatherer))
	}

	return &Server{
		cfg:     cfg,
		logger:  logger,
		handler: logRequests(logger, mux),
	}
}

// Handler returns the routed handler, including request logging.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Run listens on the configured address and serves until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.cfg.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is cancelled, then shuts down gracefully,
// waiting at most ShutdownTimeout for in-flight requests.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: readHeaderTimeout,
		ErrorLog:          zap.NewStdLog(s.logger.Named("http")),
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.logger.Info("the graphQL server is running!", zap.String("addr", ln.Addr().String()))
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		s.logger.Info("shutting down", zap.Duration("timeout", s.cfg.ShutdownTimeout))

		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}
	s.logger.Info("server stopped")
	return nil
}

func healthHandler(st Pinger, logger *zap.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		if err := st.Ping(r.Context()); err != nil {
			logger.Warn("health check failed", zap.Error(err))
			w.WriteHeader(http.StatusServiceUnavailable)
			fmt.Fprintln(w, "unavailable")
			return
		}
		fmt.Fprintln(w, "ok")
	})
}
