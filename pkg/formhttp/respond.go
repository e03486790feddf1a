package formhttp

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/goccy/go-json"
	"github.com/starfederation/datastar-go/datastar"

	"github.com/dmitrymomot/formvalidate/pkg/form"
	"github.com/dmitrymomot/formvalidate/pkg/logger"
)

// ErrorDetail is the JSON error body.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type errorResponse struct {
	Error ErrorDetail `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) error {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(v)
}

// statusFor maps package and form errors to HTTP status codes.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, ErrRulesetNotFound):
		return http.StatusNotFound, "ruleset_not_found"
	case errors.Is(err, ErrSessionNotFound), errors.Is(err, form.ErrClosed):
		return http.StatusNotFound, "session_not_found"
	case errors.Is(err, form.ErrInvalidEvent), errors.Is(err, ErrInvalidRequest):
		return http.StatusBadRequest, "invalid_request"
	case errors.Is(err, ErrStreamRequired):
		return http.StatusNotAcceptable, "stream_required"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}

func (s *Service) fail(w http.ResponseWriter, r *http.Request, err error) {
	status, code := statusFor(err)
	level := slog.LevelWarn
	msg := err.Error()
	if status >= http.StatusInternalServerError {
		level = slog.LevelError
		msg = http.StatusText(status)
	}
	s.logger.Log(r.Context(), level, "Form request failed",
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.Int("status", status),
		logger.Error(err),
	)
	_ = writeJSON(w, status, errorResponse{Error: ErrorDetail{Code: code, Message: msg}})
}

// respondState writes st in the representation the client asked for.
// control names the control whose feedback an htmx or DataStar client
// expects; empty means all controls.
func (s *Service) respondState(w http.ResponseWriter, r *http.Request, status int, st State, control string) {
	switch {
	case IsDataStar(r):
		sse := datastar.NewSSE(w, r)
		if err := s.patch(sse, st, control); err != nil {
			s.logger.WarnContext(r.Context(), "DataStar patch failed", logger.Error(err))
		}

	case IsHTMX(r):
		c, ok := st.Controls[control]
		if !ok {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(status)
		if err := s.views.Feedback(FeedbackParams{FormID: st.ID, Control: c}).Render(r.Context(), w); err != nil {
			s.logger.WarnContext(r.Context(), "Feedback render failed", logger.Error(err))
		}

	default:
		if err := writeJSON(w, status, st); err != nil {
			s.logger.WarnContext(r.Context(), "JSON encode failed", logger.Error(err))
		}
	}
}

// patch sends st as signals followed by feedback fragments.
func (s *Service) patch(sse *datastar.ServerSentEventGenerator, st State, control string) error {
	data, err := json.Marshal(signals(st))
	if err != nil {
		return err
	}
	if err := sse.PatchSignals(data); err != nil {
		return err
	}

	names := controlNames(st)
	if control != "" {
		names = []string{control}
	}
	for _, name := range names {
		c, ok := st.Controls[name]
		if !ok {
			continue
		}
		if err := sse.PatchElementTempl(s.views.Feedback(FeedbackParams{FormID: st.ID, Control: c})); err != nil {
			return err
		}
	}
	return nil
}
