// Package diag exposes a minimal, loopback-only diagnostics endpoint.
// Grounded on _examples/aluo96078-vkvm/internal/api/server.go's mux/
// middleware shape, scoped down from a remote-control API (switch/config/ws
// routes) to a read-only status surface, since spec.md's non-goals rule out
// this client accepting any remote-control surface of its own.
package diag

import (
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
)

// StatusProvider is implemented by internal/session.Session; kept as a
// narrow interface so this package doesn't depend on internal/session.
type StatusProvider interface {
	StateString() string
	Reconnects() int
}

// DeviceProvider reports how many keys/buttons are currently held, for
// spotting a stuck key from the status endpoint without attaching a
// debugger.
type DeviceProvider interface {
	HeldCount() int
}

// Server serves /healthz and /status on 127.0.0.1 only: this is an
// observability surface for the user running the client, not a
// remote-control API, so it never binds a non-loopback address.
type Server struct {
	status StatusProvider
	dev    DeviceProvider
}

// New builds a diagnostics server backed by the given session and device.
func New(status StatusProvider, dev DeviceProvider) *Server {
	return &Server{status: status, dev: dev}
}

// Start listens on 127.0.0.1:port and serves until the listener fails or
// the process exits; any error from Serve is returned as is.
func (s *Server) Start(port int) error {
	addr := fmt.Sprintf("127.0.0.1:%d", port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("diag: listen on %s: %w", addr, err)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.handleHealthz)
	mux.HandleFunc("/status", s.handleStatus)

	log.Printf("diag: serving on %s", addr)
	return http.Serve(ln, s.recover(mux))
}

func (s *Server) recover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				log.Printf("diag: panic recovered: %v", err)
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
		}()
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"session_state": s.status.StateString(),
		"reconnects":    s.status.Reconnects(),
		"held_keys":     s.dev.HeldCount(),
	})
}
