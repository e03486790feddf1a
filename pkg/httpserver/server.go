package httpserver

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/dmitrymomot/formvalidate/pkg/logger"
)

// Server runs an http.Server until its context ends or the process receives
// SIGINT or SIGTERM, then shuts it down gracefully.
type Server struct {
	opts options

	mu    sync.Mutex
	srv   *http.Server
	ln    net.Listener
	ready chan struct{}
	once  sync.Once
}

// New returns a Server listening on ":8080" unless WithAddr says otherwise.
func New(opts ...Option) *Server {
	o := options{
		addr:              ":8080",
		readHeaderTimeout: 5 * time.Second,
		shutdownTimeout:   10 * time.Second,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = logger.Discard()
	}
	o.logger = o.logger.With(logger.Component("httpserver"))
	return &Server{opts: o, ready: make(chan struct{})}
}

// Run listens and serves handler until ctx is done or a termination signal
// arrives. A nil handler responds 404 to everything. Run returns nil after a
// clean shutdown.
func (s *Server) Run(ctx context.Context, handler http.Handler) error {
	if handler == nil {
		handler = http.NotFoundHandler()
	}

	s.mu.Lock()
	if s.srv != nil {
		s.mu.Unlock()
		return ErrAlreadyRunning
	}
	ln, err := net.Listen("tcp", s.opts.addr)
	if err != nil {
		s.mu.Unlock()
		return errors.Join(ErrStart, err)
	}
	s.ln = ln
	s.srv = &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: s.opts.readHeaderTimeout,
		ReadTimeout:       s.opts.readTimeout,
		WriteTimeout:      s.opts.writeTimeout,
		IdleTimeout:       s.opts.idleTimeout,
		ErrorLog:          slog.NewLogLogger(s.opts.logger.Handler(), slog.LevelWarn),
	}
	for _, fn := range s.opts.onShutdown {
		s.srv.RegisterOnShutdown(fn)
	}
	srv := s.srv
	s.mu.Unlock()
	close(s.ready)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()
	s.opts.logger.InfoContext(ctx, "HTTP server started", slog.String("addr", ln.Addr().String()))

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return errors.Join(ErrStart, err)
	case <-ctx.Done():
	}

	s.opts.logger.Info("HTTP server shutting down", logger.Error(context.Cause(ctx)))
	shutdownErr := s.Shutdown(context.Background())
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.Join(ErrStart, err)
	}
	return shutdownErr
}

// Addr returns the bound listen address once Run has started listening,
// blocking until then or until ctx is done.
func (s *Server) Addr(ctx context.Context) (net.Addr, error) {
	select {
	case <-s.ready:
		return s.ln.Addr(), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Shutdown runs the WithOnShutdown funcs, then waits up to the shutdown
// timeout for active requests. Only the first call has an effect.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.once.Do(func() {
		s.mu.Lock()
		srv := s.srv
		s.mu.Unlock()
		if srv == nil {
			return
		}

		ctx, cancel := context.WithTimeout(ctx, s.opts.shutdownTimeout)
		defer cancel()
		if err = srv.Shutdown(ctx); err != nil {
			s.opts.logger.Error("HTTP server shutdown failed", logger.Error(err))
			_ = srv.Close()
			err = errors.Join(ErrShutdown, err)
			return
		}
		s.opts.logger.Info("HTTP server stopped")
	})
	return err
}
