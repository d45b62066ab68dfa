package app

import (
	"context"
	"net"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"bookingdesk/internal/config"
	"bookingdesk/internal/sse"
)

// Server runs the stub API: the realtime hub plus the HTTP router.
type Server struct {
	cfg    *config.Config
	hub    *sse.Hub
	server *http.Server
	logger *zap.Logger
	wg     sync.WaitGroup
}

func NewServer(cfg *config.Config, hub *sse.Hub, router *gin.Engine, logger *zap.Logger) *Server {
	// Request contexts derive from base so Shutdown can end open streams,
	// which never go idle on their own.
	base, cancel := context.WithCancel(context.Background())
	server := &http.Server{
		Addr:        cfg.StubHTTPAddr,
		Handler:     router,
		BaseContext: func(net.Listener) context.Context { return base },
	}
	server.RegisterOnShutdown(cancel)
	return &Server{
		cfg:    cfg,
		hub:    hub,
		server: server,
		logger: logger,
	}
}

func (a *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", a.server.Addr)
	if err != nil {
		return err
	}
	return a.Serve(ctx, ln)
}

// Serve runs the hub and serves HTTP on ln until Shutdown.
func (a *Server) Serve(ctx context.Context, ln net.Listener) error {
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		a.hub.Run(ctx)
	}()

	a.logger.Info("stub api listening", zap.String("addr", ln.Addr().String()))
	return a.server.Serve(ln)
}

func (a *Server) Shutdown(ctx context.Context) error {
	a.logger.Info("graceful shutdown started")
	shutdownErr := a.server.Shutdown(ctx)

	done := make(chan struct{})
	go func() {
		a.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		a.logger.Info("graceful shutdown completed")
		return shutdownErr
	case <-ctx.Done():
		if shutdownErr != nil {
			return shutdownErr
		}
		return ctx.Err()
	}
}

func (a *Server) Config() *config.Config {
	return a.cfg
}

func (a *Server) Logger() *zap.Logger {
	return a.logger
}
