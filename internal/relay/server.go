package relay

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/rosautodoc/rosautodoc/internal/xmlrpc"
)

// Server binds a Relay to an HTTP listen address. XML-RPC requests are
// accepted on every path (ROS clients POST to "/"); a Prometheus metrics
// endpoint is mounted on GET /metrics.
type Server struct {
	httpServer *http.Server
}

// NewServer wires the relay and optional metrics handler into an HTTP server
// listening on addr.
func NewServer(addr string, rl *Relay, metricsHandler http.Handler) *Server {
	mux := http.NewServeMux()
	rpc := xmlrpc.NewServerHandler(rl.Handle)

	if metricsHandler != nil {
		mux.Handle("GET /metrics", metricsHandler)
	}
	mux.Handle("/", rpc)

	return &Server{
		httpServer: &http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

// ListenAndServe serves until ctx is canceled, then shuts down gracefully.
// The listen error, if any, is returned after shutdown.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.httpServer.Addr, err)
	}

	slog.Info("Relay listening", "addr", s.httpServer.Addr)

	errCh := make(chan error, 1)
	go func() {
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Warn("Relay shutdown was not clean", "error", err)
	}
	return <-errCh
}
