package httpserver

import "time"

// Config is the env-loaded server configuration. WriteTimeout does not bound
// SSE streams; stream handlers clear their own write deadline.
type Config struct {
	Addr              string        `env:"HTTP_ADDR" envDefault:":8080"`
	ReadHeaderTimeout time.Duration `env:"HTTP_READ_HEADER_TIMEOUT" envDefault:"5s"`
	ReadTimeout       time.Duration `env:"HTTP_READ_TIMEOUT" envDefault:"15s"`
	WriteTimeout      time.Duration `env:"HTTP_WRITE_TIMEOUT" envDefault:"30s"`
	IdleTimeout       time.Duration `env:"HTTP_IDLE_TIMEOUT" envDefault:"120s"`
	ShutdownTimeout   time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

// NewFromConfig creates a Server from cfg. Zero fields keep the defaults;
// opts are applied last.
func NewFromConfig(cfg Config, opts ...Option) *Server {
	return New(append(cfg.options(), opts...)...)
}

func (c Config) options() []Option {
	var opts []Option
	if c.Addr != "" {
		opts = append(opts, WithAddr(c.Addr))
	}
	for _, t := range []struct {
		d   time.Duration
		opt func(time.Duration) Option
	}{
		{c.ReadHeaderTimeout, WithReadHeaderTimeout},
		{c.ReadTimeout, WithReadTimeout},
		{c.WriteTimeout, WithWriteTimeout},
		{c.IdleTimeout, WithIdleTimeout},
		{c.ShutdownTimeout, WithShutdownTimeout},
	} {
		if t.d > 0 {
			opts = append(opts, t.opt(t.d))
		}
	}
	return opts
}
