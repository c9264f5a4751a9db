package components

import (
	"context"
	stderrors "errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/blockdude2/level-maker/src/internal/api"
	"github.com/blockdude2/level-maker/src/internal/config"
	"github.com/blockdude2/level-maker/src/internal/log"
)

const shutdownTimeout = 5 * time.Second

// APIServer manages the HTTP server of the level editor
type APIServer struct {
	cfg        *config.Config
	store      api.LevelStore
	httpServer *http.Server
	listener   net.Listener
	running    bool
	mu         sync.Mutex
	done       chan struct{}
}

// NewAPIServer creates a new API server component
func NewAPIServer(cfg *config.Config, store api.LevelStore) *APIServer {
	return &APIServer{
		cfg:   cfg,
		store: store,
	}
}

// Name returns the component name
func (a *APIServer) Name() string {
	return "API server"
}

// Start binds the listen address and serves requests in the background.
// A bind failure is returned to the caller.
func (a *APIServer) Start() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.running {
		return fmt.Errorf("API server is already running")
	}

	listener, err := net.Listen("tcp", a.cfg.Server.ListenAddr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", a.cfg.Server.ListenAddr, err)
	}

	a.listener = listener
	a.done = make(chan struct{})
	a.httpServer = &http.Server{
		Handler:      api.NewRouter(a.cfg, a.store),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	log.Debugf("API server listening on %s", listener.Addr())

	go func(srv *http.Server, done chan struct{}) {
		defer close(done)
		if err := srv.Serve(listener); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
			log.Errorf("API server error: %v", err)
		}
	}(a.httpServer, a.done)

	a.running = true
	return nil
}

// Stop gracefully shuts the server down, waiting for in-flight requests
func (a *APIServer) Stop() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.running {
		return fmt.Errorf("API server is not running")
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	err := a.httpServer.Shutdown(ctx)
	<-a.done
	a.running = false

	if err != nil {
		return fmt.Errorf("failed to shut down HTTP server: %w", err)
	}
	log.Debugf("API server stopped")
	return nil
}

// Addr returns the bound address, or nil when the server is not running.
func (a *APIServer) Addr() net.Addr {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.running {
		return nil
	}
	return a.listener.Addr()
}
