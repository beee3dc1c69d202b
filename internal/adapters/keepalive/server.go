package keepalive

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/abdallah-zarea/savior-bot/internal/application"
)

const (
	DefaultAddr     = ":10000"
	Banner          = "🚀 Savior bot is running"
	shutdownTimeout = 5 * time.Second
)

type StatsSource interface {
	Stats() application.Stats
}

// Server answers hosting platform liveness probes. "/" returns a plain
// banner and "/healthz" the router's live statistics.
type Server struct {
	addr   string
	stats  StatsSource
	logger *slog.Logger
}

func NewServer(addr string, stats StatsSource, logger *slog.Logger) *Server {
	if addr == "" {
		addr = DefaultAddr
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Server{addr: addr, stats: stats, logger: logger}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleBanner)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	return mux
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("listen keepalive: %w", err)
	}

	return s.Serve(ctx, listener)
}

func (s *Server) Serve(ctx context.Context, listener net.Listener) error {
	server := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- server.Serve(listener)
	}()
	s.logger.Info("keepalive listening", "addr", listener.Addr().String())

	select {
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve keepalive: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown keepalive: %w", err)
	}
	return nil
}

func (s *Server) handleBanner(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = fmt.Fprintln(w, Banner)
}

type health struct {
	Status string `json:"status"`
	application.Stats
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	body := health{Status: "ok"}
	if s.stats != nil {
		body.Stats = s.stats.Stats()
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.Warn("encode health response", "error", err)
	}
}
