package httpserver_test

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/formvalidate/pkg/httpserver"
)

func start(t *testing.T, srv *httpserver.Server, ctx context.Context, h http.Handler) (string, <-chan error) {
	t.Helper()
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx, h) }()

	actx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	addr, err := srv.Addr(actx)
	require.NoError(t, err)
	return "http://" + addr.String(), done
}

func wait(t *testing.T, done <-chan error) error {
	t.Helper()
	select {
	case err := <-done:
		return err
	case <-time.After(2 * time.Second):
		require.FailNow(t, "run did not return")
		return nil
	}
}

func TestRun_ServesUntilContextDone(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	srv := httpserver.New(httpserver.WithAddr("127.0.0.1:0"))
	url, done := start(t, srv, ctx, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, "ok")
	}))

	resp, err := http.Get(url)
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, "ok", string(body))

	cancel()
	assert.NoError(t, wait(t, done))
}

func TestRun_NilHandler(t *testing.T) {
	t.Parallel()

	srv := httpserver.New(httpserver.WithAddr("127.0.0.1:0"))
	url, done := start(t, srv, context.Background(), nil)

	resp, err := http.Get(url)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	require.NoError(t, srv.Shutdown(context.Background()))
	require.NoError(t, srv.Shutdown(context.Background()))
	assert.NoError(t, wait(t, done))
}

func TestRun_Errors(t *testing.T) {
	t.Parallel()

	t.Run("listen failure", func(t *testing.T) {
		ln, err := net.Listen("tcp", "127.0.0.1:0")
		require.NoError(t, err)
		defer ln.Close()

		err = httpserver.New(httpserver.WithAddr(ln.Addr().String())).Run(context.Background(), nil)
		assert.ErrorIs(t, err, httpserver.ErrStart)
	})

	t.Run("already running", func(t *testing.T) {
		srv := httpserver.New(httpserver.WithAddr("127.0.0.1:0"))
		_, done := start(t, srv, context.Background(), nil)

		assert.ErrorIs(t, srv.Run(context.Background(), nil), httpserver.ErrAlreadyRunning)
		require.NoError(t, srv.Shutdown(context.Background()))
		assert.NoError(t, wait(t, done))
	})
}

func TestOnShutdown_EndsStreams(t *testing.T) {
	t.Parallel()

	// The handler blocks like an SSE stream until the shutdown func releases it.
	release := make(chan struct{})
	var calls atomic.Int32
	srv := httpserver.New(
		httpserver.WithAddr("127.0.0.1:0"),
		httpserver.WithShutdownTimeout(time.Second),
		httpserver.WithOnShutdown(func() {
			calls.Add(1)
			close(release)
		}),
	)
	streaming := make(chan struct{})
	url, done := start(t, srv, context.Background(), http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.(http.Flusher).Flush()
		close(streaming)
		<-release
	}))

	go func() {
		resp, err := http.Get(url)
		if err == nil {
			_, _ = io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
		}
	}()
	<-streaming

	require.NoError(t, srv.Shutdown(context.Background()))
	assert.NoError(t, wait(t, done))
	assert.Equal(t, int32(1), calls.Load())
}

func TestOptions(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() { httpserver.WithAddr("") })
	assert.Panics(t, func() { httpserver.WithReadTimeout(0) })
	assert.Panics(t, func() { httpserver.WithShutdownTimeout(-time.Second) })
	assert.Panics(t, func() { httpserver.WithOnShutdown(nil) })
	assert.NotPanics(t, func() { httpserver.New(httpserver.WithLogger(nil)) })
}

func TestNewFromConfig(t *testing.T) {
	t.Parallel()

	// Zero durations keep defaults instead of panicking.
	srv := httpserver.NewFromConfig(httpserver.Config{Addr: "127.0.0.1:0"})
	_, done := start(t, srv, context.Background(), nil)
	require.NoError(t, srv.Shutdown(context.Background()))
	assert.NoError(t, wait(t, done))
}

func TestHealthCheckHandler(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		checks []httpserver.Check
		code   int
		body   string
	}{
		{"liveness", nil, http.StatusOK, "ALIVE"},
		{"ready", []httpserver.Check{{Name: "redis", Fn: func(context.Context) error { return nil }}}, http.StatusOK, "READY"},
		{"not ready", []httpserver.Check{
			{Name: "redis", Fn: func(context.Context) error { return nil }},
			{Name: "postgres", Fn: func(context.Context) error { return errors.New("down") }},
		}, http.StatusServiceUnavailable, "NOT_READY"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			rec := httptest.NewRecorder()
			httpserver.HealthCheckHandler(nil, tt.checks...).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
			assert.Equal(t, tt.code, rec.Code)
			assert.Equal(t, tt.body, rec.Body.String())
		})
	}
}
