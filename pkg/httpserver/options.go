package httpserver

import (
	"log/slog"
	"time"
)

// Option configures a Server.
type Option func(*options)

type options struct {
	addr              string
	readHeaderTimeout time.Duration
	readTimeout       time.Duration
	writeTimeout      time.Duration
	idleTimeout       time.Duration
	shutdownTimeout   time.Duration
	logger            *slog.Logger
	onShutdown        []func()
}

// WithAddr sets the listen address. ":0" picks a free port; see Server.Addr.
func WithAddr(addr string) Option {
	if addr == "" {
		panic("httpserver: empty address")
	}
	return func(o *options) { o.addr = addr }
}

func WithReadHeaderTimeout(d time.Duration) Option {
	return durationOption("read header", d, func(o *options) { o.readHeaderTimeout = d })
}

func WithReadTimeout(d time.Duration) Option {
	return durationOption("read", d, func(o *options) { o.readTimeout = d })
}

func WithWriteTimeout(d time.Duration) Option {
	return durationOption("write", d, func(o *options) { o.writeTimeout = d })
}

func WithIdleTimeout(d time.Duration) Option {
	return durationOption("idle", d, func(o *options) { o.idleTimeout = d })
}

// WithShutdownTimeout bounds how long Shutdown waits for in-flight requests.
func WithShutdownTimeout(d time.Duration) Option {
	return durationOption("shutdown", d, func(o *options) { o.shutdownTimeout = d })
}

func durationOption(name string, d time.Duration, fn Option) Option {
	if d <= 0 {
		panic("httpserver: " + name + " timeout must be positive")
	}
	return fn
}

// WithLogger sets the logger. If nil, logs are discarded.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithOnShutdown registers fn to run when shutdown begins. Graceful shutdown
// waits for active connections, so long-lived responses such as SSE streams
// must be ended here.
func WithOnShutdown(fn func()) Option {
	if fn == nil {
		panic("httpserver: nil shutdown func")
	}
	return func(o *options) { o.onShutdown = append(o.onShutdown, fn) }
}
