// Package server serves the crossover dashboard over HTTP.
package server

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rxtech-lab/argo-crossover/internal/logger"
	"github.com/rxtech-lab/argo-crossover/internal/render"
	"github.com/rxtech-lab/argo-crossover/internal/strategy"
	"go.uber.org/zap"
)

// StrategyRunner runs strategies for the handlers.
type StrategyRunner interface {
	Run(ctx context.Context, request strategy.Request) (*strategy.Result, error)
	Stocks() ([]string, error)
}

// Option configures a Server.
type Option func(*Server)

// WithClock replaces the clock used for default form dates.
func WithClock(now func() time.Time) Option {
	return func(s *Server) {
		s.now = now
	}
}

// WithSVGOptions sets the size of served charts.
func WithSVGOptions(options render.SVGOptions) Option {
	return func(s *Server) {
		s.svgOptions = options
	}
}

// Server is the HTTP dashboard.
type Server struct {
	runner     StrategyRunner
	logger     *logger.Logger
	metrics    *Metrics
	router     *mux.Router
	svgOptions render.SVGOptions
	now        func() time.Time

	httpServer *http.Server
	listener   net.Listener
}

// New creates a server and its routes.
func New(runner StrategyRunner, logger *logger.Logger, options ...Option) *Server {
	s := &Server{
		runner:     runner,
		logger:     logger,
		metrics:    NewMetrics(),
		svgOptions: render.DefaultSVGOptions,
		now:        time.Now,
	}

	for _, option := range options {
		option(s)
	}

	router := mux.NewRouter()
	router.Use(s.observe)

	router.HandleFunc("/", s.handleIndex).Methods(http.MethodGet)
	router.HandleFunc("/chart.svg", s.handleChart).Methods(http.MethodGet)
	router.HandleFunc("/api/stocks", s.handleStocks).Methods(http.MethodGet)
	router.HandleFunc("/api/strategy", s.handleStrategy).Methods(http.MethodGet)
	router.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	router.Handle("/metrics", s.metrics.Handler()).Methods(http.MethodGet)

	s.router = router

	return s
}

// Handler returns the routed handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Metrics returns the server's metrics.
func (s *Server) Metrics() *Metrics {
	return s.metrics
}

// Start listens on address and serves in the background. An empty address or ":0"
// picks a free port.
func (s *Server) Start(address string) error {
	if address == "" {
		address = ":0"
	}

	listener, err := net.Listen("tcp", address)
	if err != nil {
		return fmt.Errorf("failed to create listener: %w", err)
	}

	s.listener = listener
	s.httpServer = &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := s.httpServer.Serve(listener); err != nil && err != http.ErrServerClosed {
			s.logger.Error("HTTP server stopped", zap.Error(err))
		}
	}()

	s.logger.Info("Dashboard listening", zap.String("address", s.Address()))

	return nil
}

// Stop shuts the server down, waiting up to five seconds for open requests.
func (s *Server) Stop() error {
	if s.httpServer == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return s.httpServer.Shutdown(ctx)
}

// Address returns the address the server is listening on.
func (s *Server) Address() string {
	if s.listener == nil {
		return ""
	}

	return s.listener.Addr().String()
}

// BaseURL returns the base URL for the server.
func (s *Server) BaseURL() string {
	return "http://" + s.Address()
}

// statusRecorder remembers the status code written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		began := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(recorder, r)

		route := r.URL.Path
		if current := mux.CurrentRoute(r); current != nil {
			if template, err := current.GetPathTemplate(); err == nil {
				route = template
			}
		}

		elapsed := time.Since(began)
		s.metrics.ObserveRequest(route, recorder.status, elapsed)
		s.logger.Debug("HTTP request",
			zap.String("method", r.Method),
			zap.String("route", route),
			zap.Int("status", recorder.status),
			zap.Duration("duration", elapsed),
		)
	})
}
