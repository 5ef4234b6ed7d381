// Package server exposes the dashboard over HTTP. Handlers only forward
// commands to the controller goroutine and render its replies.
package server

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"tvcharts/internal/config"
	"tvcharts/internal/dashboard"
	"tvcharts/internal/logger"
	"tvcharts/internal/metrics"
	"tvcharts/internal/reports"
	"tvcharts/internal/storage"
)

// DefaultCommandTimeout bounds how long a handler waits for the controller
const DefaultCommandTimeout = 10 * time.Second

// Server represents the dashboard HTTP server
type Server struct {
	Config   *config.Config
	Requests chan<- dashboard.Request
	Pages    *reports.PageBuilder
	Storage  storage.StorageClient
	Metrics  *metrics.Metrics
	// LoadErr is set when the dataset failed to load; the server then only
	// serves the error page, health and metrics.
	LoadErr error

	CommandTimeout time.Duration

	log       *logger.Logger
	now       func() time.Time
	publishMu sync.Mutex
}

// NewServer creates a server forwarding commands to a running controller.
// store may be nil, in which case publishing is unavailable.
func NewServer(cfg *config.Config, requests chan<- dashboard.Request, pages *reports.PageBuilder, store storage.StorageClient, m *metrics.Metrics) *Server {
	return &Server{
		Config:         cfg,
		Requests:       requests,
		Pages:          pages,
		Storage:        store,
		Metrics:        m,
		CommandTimeout: DefaultCommandTimeout,
		log:            logger.WithComponent("server"),
		now:            time.Now,
	}
}

// NewFailedServer creates a server for a dataset that could not be loaded
func NewFailedServer(cfg *config.Config, loadErr error, pages *reports.PageBuilder, m *metrics.Metrics) *Server {
	s := NewServer(cfg, nil, pages, nil, m)
	s.LoadErr = loadErr
	return s
}

// SetupRoutes configures HTTP routes and middleware for the server
func (s *Server) SetupRoutes() http.Handler {
	r := mux.NewRouter()

	route := func(path, name string, h http.HandlerFunc, methods ...string) {
		r.Handle(path, s.Metrics.WrapHandler(name, h)).Methods(methods...)
	}

	route("/", "index", s.HandleIndex, http.MethodGet)
	route("/state", "state", s.HandleState, http.MethodGet)
	route("/filter/{id}", "filter", s.HandleFilter, http.MethodPost)
	route("/points/leave", "leave", s.HandleLeave, http.MethodPost)
	route("/points/{index:[0-9]+}/hover", "hover", s.HandleHover, http.MethodPost)
	route("/charts/{chart:[a-z]+}.{format:svg|png}", "chart", s.HandleChart, http.MethodGet)
	route("/publish", "publish", s.HandlePublish, http.MethodPost)
	route("/snapshots/latest", "latest_snapshot", s.HandleLatestSnapshot, http.MethodGet)
	route("/health", "health", s.HandleHealth, http.MethodGet)
	r.Handle("/metrics", s.Metrics.Handler()).Methods(http.MethodGet)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not found")
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	var h http.Handler = r
	h = s.requestLogging(h)
	h = handlers.CompressHandler(h)
	h = handlers.RecoveryHandler(
		handlers.RecoveryLogger(recoveryLogger{s.log}),
		handlers.PrintRecoveryStack(s.Config != nil && !s.Config.IsProduction()),
	)(h)
	return s.requestID(h)
}

// send forwards cmd to the controller, bounded by CommandTimeout
func (s *Server) send(ctx context.Context, cmd dashboard.Command) (dashboard.Result, error) {
	if s.Requests == nil {
		return dashboard.Result{}, dashboard.ErrUnavailable
	}
	timeout := s.CommandTimeout
	if timeout <= 0 {
		timeout = DefaultCommandTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return dashboard.Send(ctx, s.Requests, cmd)
}

// Close cleans up server resources
func (s *Server) Close() error {
	if s.Storage != nil {
		return s.Storage.Close()
	}
	return nil
}
