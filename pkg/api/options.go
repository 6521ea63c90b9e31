package api

import (
	"log/slog"

	"github.com/k8s-lovers-korea/test-go-app/internal/storage"
	"github.com/k8s-lovers-korea/test-go-app/pkg/api/backendclient"
	"github.com/k8s-lovers-korea/test-go-app/pkg/simulation"
)

// Option configures the Server.
type Option func(*Server)

// WithLogger sets the logger used by the server and its handlers.
func WithLogger(log *slog.Logger) Option {
	return func(s *Server) {
		if log != nil {
			s.log = log
		}
	}
}

// WithStore replaces the default in-memory item store.
func WithStore(store storage.ItemStore) Option {
	return func(s *Server) {
		if store != nil {
			s.store = store
		}
	}
}

// WithController replaces the default simulation controller.
func WithController(controller *simulation.Controller) Option {
	return func(s *Server) {
		if controller != nil {
			s.controller = controller
		}
	}
}

// WithBackendClient replaces the default backend client.
func WithBackendClient(client *backendclient.Client) Option {
	return func(s *Server) {
		if client != nil {
			s.backend = client
		}
	}
}

// WithRestartFunc replaces the process exit performed after the restart
// endpoint's grace period. Tests use it to observe the restart without
// killing the test process.
func WithRestartFunc(fn func()) Option {
	return func(s *Server) {
		if fn != nil {
			s.restartFn = fn
		}
	}
}
