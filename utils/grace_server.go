package utils

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
)

const (
	DefaultReadTimeout  = 60 * time.Second
	DefaultWriteTimeout = DefaultReadTimeout
	DefaultDrainTimeout = 30 * time.Second
)

// Server wraps http.Server and drains in-flight requests on SIGINT or SIGTERM.
type Server struct {
	*http.Server

	drainTimeout time.Duration
	signalChan   chan os.Signal
}

// NewServer creates a Server with timeouts and handler.
func NewServer(addr string, handler http.Handler, readTimeout, writeTimeout time.Duration) *Server {
	return &Server{
		Server: &http.Server{
			Addr:         addr,
			Handler:      handler,
			ReadTimeout:  readTimeout,
			WriteTimeout: writeTimeout,
		},
		drainTimeout: DefaultDrainTimeout,
		signalChan:   make(chan os.Signal, 1),
	}
}

// ListenAndServe listens on addr and blocks until the server has stopped.
// A signal triggered shutdown returns nil.
func (srv *Server) ListenAndServe() error {
	addr := srv.Addr
	if addr == "" {
		addr = ":http"
	}
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return srv.Serve(ln)
}

// Serve accepts connections on ln until a shutdown signal arrives.
func (srv *Server) Serve(ln net.Listener) error {
	signal.Notify(srv.signalChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(srv.signalChan)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Server.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case sig := <-srv.signalChan:
		Logger.Info("shutting down HTTP server", zap.String("signal", sig.String()))
		return srv.drain(errCh)
	}
}

func (srv *Server) drain(errCh <-chan error) error {
	ctx, cancel := context.WithTimeout(context.Background(), srv.drainTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		Logger.Error("HTTP server shutdown error", zap.Error(err))
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	Logger.Info("HTTP server shutdown success")
	return nil
}

// GraceServer starts an HTTP server that shuts down gracefully.
func GraceServer(addr string, handler http.Handler) error {
	return NewServer(addr, handler, DefaultReadTimeout, DefaultWriteTimeout).ListenAndServe()
}
