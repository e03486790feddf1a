package formhttp

import (
	"context"
	"errors"
	"log/slog"
	"maps"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/starfederation/datastar-go/datastar"

	"github.com/dmitrymomot/formvalidate/pkg/cache"
	"github.com/dmitrymomot/formvalidate/pkg/constraint"
	"github.com/dmitrymomot/formvalidate/pkg/form"
	"github.com/dmitrymomot/formvalidate/pkg/i18n"
	"github.com/dmitrymomot/formvalidate/pkg/logger"
	"github.com/dmitrymomot/formvalidate/pkg/ruleset"
)

// Service serves form sessions built from a set of rule sets.
type Service struct {
	cfg        Config
	sets       *ruleset.Set
	sessions   *cache.LRUCache[string, *session]
	logger     *slog.Logger
	translator *i18n.Translator
	formOpts   []form.Option
	views      Views

	fullMessages bool
}

// NewService returns a service over sets.
func NewService(sets *ruleset.Set, opts ...Option) *Service {
	s := &Service{
		cfg:    DefaultConfig(),
		sets:   sets,
		logger: logger.Discard(),
		views:  defaultViews(),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.sessions = cache.NewLRUCache[string, *session](s.cfg.MaxSessions)
	s.sessions.SetEvictCallback(func(id string, sess *session) {
		if err := sess.close(); err != nil {
			s.logger.Warn("Form session close failed", logger.FormID(id), logger.Error(err))
		}
		s.logger.Debug("Form session closed", logger.FormID(id), logger.Ruleset(sess.ruleset))
	})
	return s
}

// Handle returns the router:
//
//	POST   /{ruleset}                create a session
//	GET    /{ruleset}/{id}           session state
//	POST   /{ruleset}/{id}/validate  apply a change event
//	GET    /{ruleset}/{id}/stream    DataStar SSE of every render
//	DELETE /{ruleset}/{id}           close the session
func (s *Service) Handle() http.Handler {
	r := chi.NewRouter()
	r.Post("/{ruleset}", s.create)
	r.Route("/{ruleset}/{id}", func(r chi.Router) {
		r.Use(s.withSession)
		r.Get("/", s.get)
		r.Delete("/", s.remove)
		r.Post("/validate", s.validate)
		r.Get("/stream", s.stream)
	})
	return r
}

// Len returns the number of live sessions.
func (s *Service) Len() int {
	return s.sessions.Len()
}

// Close closes every session, ending open streams.
func (s *Service) Close() error {
	s.sessions.Clear()
	return nil
}

func (s *Service) create(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "ruleset")
	rs, ok := s.sets.Get(name)
	if !ok {
		s.fail(w, r, ErrRulesetNotFound)
		return
	}

	overrides, err := initialValues(r, rs.Fields(), s.cfg.MaxBodySize)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	defaults := maps.Clone(rs.Defaults)
	if defaults == nil {
		defaults = make(map[string]string, len(overrides))
	}
	maps.Copy(defaults, overrides)

	sess := newSession(rs.Name, s.cfg.StreamBuffer)
	msgOpts := constraint.Options{FullMessages: rs.FullMessages || s.fullMessages}
	if s.translator != nil {
		msgOpts.Translator = s.translator.MessagesContext(r.Context())
	}

	opts := append([]form.Option{
		form.WithLogger(s.logger),
		form.WithRender(sess.render),
	}, s.formOpts...)
	opts = append(opts, form.WithDefaults(defaults), form.WithOptions(msgOpts))

	f, err := form.New(rs.Rules.Clone(), opts...)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	sess.form = f
	sess.publish()
	s.sessions.Put(sess.id, sess)

	s.logger.InfoContext(r.Context(), "Form session created",
		logger.FormID(sess.id), logger.Ruleset(rs.Name))

	w.Header().Set("Location", r.URL.Path+"/"+sess.id)
	s.respondState(w, r, http.StatusCreated, sess.state(), "")
}

type sessionKey struct{}

// withSession resolves the session named by the URL and scopes the request's
// log records to it.
func (s *Service) withSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, ok := s.sessions.Get(chi.URLParam(r, "id"))
		if !ok || sess.ruleset != chi.URLParam(r, "ruleset") {
			s.fail(w, r, ErrSessionNotFound)
			return
		}
		ctx := logger.ContextWith(r.Context(), logger.FormID(sess.id), logger.Ruleset(sess.ruleset))
		ctx = context.WithValue(ctx, sessionKey{}, sess)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func sessionFrom(r *http.Request) *session {
	sess, _ := r.Context().Value(sessionKey{}).(*session)
	return sess
}

func (s *Service) get(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)
	s.respondState(w, r, http.StatusOK, sess.state(), r.URL.Query().Get("control"))
}

func (s *Service) remove(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)
	s.sessions.Remove(sess.id)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Service) validate(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)

	ev, err := eventFromRequest(r, s.cfg.MaxBodySize)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if err := sess.form.Validate(ev); err != nil {
		s.fail(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.cfg.SettleTimeout)
	defer cancel()
	start := time.Now()
	if err := sess.form.Wait(ctx); err != nil {
		// Async rules still running; the stream delivers their outcome.
		s.logger.DebugContext(r.Context(), "Form not settled",
			logger.Field(ev.ControlName()),
			logger.Duration(time.Since(start)), logger.Error(err))
	}

	s.respondState(w, r, http.StatusOK, sess.state(), ev.ControlName())
}

func (s *Service) stream(w http.ResponseWriter, r *http.Request) {
	if !IsDataStar(r) {
		s.fail(w, r, ErrStreamRequired)
		return
	}
	sess := sessionFrom(r)

	// Streams outlive the server write timeout.
	_ = http.NewResponseController(w).SetWriteDeadline(time.Time{})

	sub := sess.stream.Subscribe(r.Context())
	defer sub.Close()

	sse := datastar.NewSSE(w, r)
	s.logger.DebugContext(r.Context(), "Form stream opened")

	for {
		select {
		case <-r.Context().Done():
			s.logger.DebugContext(r.Context(), "Form stream closed by client")
			return
		case msg, ok := <-sub.Receive(r.Context()):
			if !ok {
				s.logger.DebugContext(r.Context(), "Form stream ended")
				return
			}
			if err := s.patch(sse, msg.Data, ""); err != nil {
				if !errors.Is(err, context.Canceled) {
					s.logger.WarnContext(r.Context(), "Form stream patch failed", logger.Error(err))
				}
				return
			}
		}
	}
}
