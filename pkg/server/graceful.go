package server

import (
	"context"
	"crypto/tls"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/dd0wney/cluso-sdn/pkg/config"
	"github.com/dd0wney/cluso-sdn/pkg/logging"
)

// ReloadFunc re-reads configuration on SIGHUP
type ReloadFunc func() error

// GracefulServer wraps an HTTP server with context-driven shutdown and
// SIGHUP reloads
type GracefulServer struct {
	server          *http.Server
	tlsConfig       *tls.Config
	logger          logging.Logger
	shutdownTimeout time.Duration

	ready        chan struct{}
	addr         net.Addr
	shutdownCh   chan struct{}
	shutdownOnce sync.Once

	reloadMu sync.RWMutex
	reloadFn ReloadFunc
}

// NewGracefulServer creates a server from the listener configuration
func NewGracefulServer(cfg config.ServerConfig, handler http.Handler, logger logging.Logger) *GracefulServer {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &GracefulServer{
		server: &http.Server{
			Addr:           cfg.ListenAddr,
			Handler:        handler,
			ReadTimeout:    cfg.ReadTimeout,
			WriteTimeout:   cfg.WriteTimeout,
			IdleTimeout:    120 * time.Second,
			MaxHeaderBytes: 1 << 20,
		},
		logger:          logger.With(logging.Component("server")),
		shutdownTimeout: cfg.ShutdownTimeout,
		ready:           make(chan struct{}),
		shutdownCh:      make(chan struct{}),
	}
}

// SetTLSConfig makes Run serve HTTPS. A nil config serves plain HTTP.
func (gs *GracefulServer) SetTLSConfig(cfg *tls.Config) {
	gs.tlsConfig = cfg
}

// Run listens and serves until ctx is cancelled, then drains connections
// for at most the configured shutdown timeout.
func (gs *GracefulServer) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", gs.server.Addr)
	if err != nil {
		return err
	}
	if gs.tlsConfig != nil {
		ln = tls.NewListener(ln, gs.tlsConfig)
	}
	gs.addr = ln.Addr()
	close(gs.ready)
	gs.logger.Info("HTTP server listening",
		logging.String("addr", gs.addr.String()),
		logging.Bool("tls", gs.tlsConfig != nil),
	)

	errCh := make(chan error, 1)
	go func() {
		errCh <- gs.server.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		return gs.Shutdown(gs.shutdownTimeout)
	}
}

// Addr blocks until the server is listening and returns its address
func (gs *GracefulServer) Addr() net.Addr {
	<-gs.ready
	return gs.addr
}

// Shutdown initiates a graceful shutdown. Later calls are no-ops.
func (gs *GracefulServer) Shutdown(timeout time.Duration) error {
	var err error
	gs.shutdownOnce.Do(func() {
		close(gs.shutdownCh)

		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		timer := logging.StartTimer(gs.logger, "graceful shutdown", logging.Duration("timeout", timeout))
		err = gs.server.Shutdown(ctx)
		if err != nil {
			timer.EndError(err)
			return
		}
		timer.End()
	})
	return err
}

// WatchReload calls the reload function on every SIGHUP until ctx ends
func (gs *GracefulServer) WatchReload(ctx context.Context) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGHUP)
	defer signal.Stop(sigCh)

	for {
		select {
		case <-ctx.Done():
			return
		case <-sigCh:
			gs.logger.Info("received SIGHUP, reloading configuration")
			if err := gs.ReloadConfig(); err != nil {
				gs.logger.Warn("configuration reload failed", logging.Error(err))
			}
		}
	}
}

// IsShuttingDown returns true if shutdown has been initiated
func (gs *GracefulServer) IsShuttingDown() bool {
	select {
	case <-gs.shutdownCh:
		return true
	default:
		return false
	}
}

// ShutdownChannel returns a channel that closes when shutdown is initiated
func (gs *GracefulServer) ShutdownChannel() <-chan struct{} {
	return gs.shutdownCh
}

// SetReloadFunc sets the function to call when a reload is triggered
func (gs *GracefulServer) SetReloadFunc(fn ReloadFunc) {
	gs.reloadMu.Lock()
	defer gs.reloadMu.Unlock()
	gs.reloadFn = fn
}

// ReloadConfig runs the reload function, if any
func (gs *GracefulServer) ReloadConfig() error {
	gs.reloadMu.RLock()
	reloadFn := gs.reloadFn
	gs.reloadMu.RUnlock()

	if reloadFn == nil {
		gs.logger.Debug("reload requested without a reload function")
		return nil
	}
	return reloadFn()
}
