package httpserver

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/formvalidate/pkg/logger"
)

// Check is a named readiness probe, e.g. a resolver backend ping.
type Check struct {
	Name string
	Fn   func(context.Context) error
}

// HealthCheckHandler serves liveness and readiness probes.
//
//   - Liveness: without checks the handler returns 200 OK with body "ALIVE".
//   - Readiness: every check runs with the request context; if they all
//     succeed the handler returns 200 OK with body "READY", otherwise 503
//     with body "NOT_READY".
func HealthCheckHandler(log *slog.Logger, checks ...Check) http.HandlerFunc {
	if log == nil {
		log = logger.Discard()
	}
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		if len(checks) == 0 {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("ALIVE"))
			return
		}

		for _, c := range checks {
			if err := c.Fn(r.Context()); err != nil {
				log.ErrorContext(r.Context(), "Readiness check failed",
					slog.String("check", c.Name), logger.Error(err))
				w.WriteHeader(http.StatusServiceUnavailable)
				_, _ = w.Write([]byte("NOT_READY"))
				return
			}
		}

		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("READY"))
	}
}
