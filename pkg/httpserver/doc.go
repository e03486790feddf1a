// Package httpserver runs an http.Server with graceful shutdown.
//
// Run listens on the configured address and serves until its context ends or
// the process receives SIGINT or SIGTERM. Shutdown first runs the funcs
// registered with WithOnShutdown, then waits up to the shutdown timeout for
// in-flight requests. The form server registers formhttp.Service.Close there:
// open SSE streams would otherwise hold shutdown until the deadline.
//
// HealthCheckHandler serves liveness (no checks) and readiness probes. A
// readiness probe runs each Check, such as resolver.RedisHealthcheck, with the
// request context and answers 503 when one fails.
//
// Usage:
//
//	var cfg httpserver.Config
//	config.MustLoad(&cfg)
//
//	srv := httpserver.NewFromConfig(cfg,
//		httpserver.WithLogger(log),
//		httpserver.WithOnShutdown(func() { _ = svc.Close() }),
//	)
//	if err := srv.Run(ctx, router); err != nil {
//		log.Error("server stopped", logger.Error(err))
//	}
//
// Listen failures wrap ErrStart and failed graceful shutdowns wrap
// ErrShutdown.
package httpserver
