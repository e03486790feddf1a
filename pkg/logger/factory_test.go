package logger_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/formvalidate/pkg/logger"
)

func decode(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	return entry
}

func TestNew(t *testing.T) {
	t.Run("creates JSON logger", func(t *testing.T) {
		buf := &bytes.Buffer{}
		log := logger.New(logger.WithOutput(buf))
		require.NotNil(t, log)
		log.Info("hello")
		entry := decode(t, buf)
		assert.Equal(t, "INFO", entry["level"])
		assert.Equal(t, "hello", entry["msg"])
	})

	t.Run("text formatter option", func(t *testing.T) {
		buf := &bytes.Buffer{}
		log := logger.New(logger.WithOutput(buf), logger.WithTextFormatter())
		log.Info("hello")
		assert.Contains(t, buf.String(), "level=INFO")
		assert.Contains(t, buf.String(), "hello")
	})

	t.Run("includes default attributes", func(t *testing.T) {
		buf := &bytes.Buffer{}
		log := logger.New(logger.WithOutput(buf), logger.WithAttr(logger.Component("form")))
		log.Info("msg")
		assert.Equal(t, "form", decode(t, buf)["component"])
	})

	t.Run("extracts from context", func(t *testing.T) {
		buf := &bytes.Buffer{}
		type key string
		ctxKey := key("id")
		log := logger.New(
			logger.WithOutput(buf),
			logger.WithContextValue("request_id", ctxKey),
		)
		ctx := context.WithValue(context.Background(), ctxKey, "42")
		log.InfoContext(ctx, "context msg")
		assert.Equal(t, "42", decode(t, buf)["request_id"])
	})
}

func TestContextWith(t *testing.T) {
	buf := &bytes.Buffer{}
	log := logger.New(logger.WithOutput(buf))

	ctx := logger.ContextWith(context.Background(), logger.FormID("f1"))
	child := logger.ContextWith(ctx, logger.Field("email"))
	assert.Equal(t, ctx, logger.ContextWith(ctx))

	log.InfoContext(child, "validated")
	entry := decode(t, buf)
	assert.Equal(t, "f1", entry["form_id"])
	assert.Equal(t, "email", entry["field"])

	buf.Reset()
	log.InfoContext(ctx, "parent")
	entry = decode(t, buf)
	assert.Equal(t, "f1", entry["form_id"])
	assert.NotContains(t, entry, "field")
}

func TestEnvironments(t *testing.T) {
	t.Run("development uses text and debug", func(t *testing.T) {
		buf := &bytes.Buffer{}
		log := logger.New(logger.WithDevelopment("svc"), logger.WithOutput(buf))
		log.Debug("msg")
		assert.Contains(t, buf.String(), "DEBUG")
		assert.Contains(t, buf.String(), "service=svc")
		assert.Contains(t, buf.String(), "env=development")
	})

	t.Run("production uses json", func(t *testing.T) {
		buf := &bytes.Buffer{}
		log := logger.New(logger.WithEnvironment("prod", "svc"), logger.WithOutput(buf))
		log.Info("msg")
		entry := decode(t, buf)
		assert.Equal(t, "svc", entry["service"])
		assert.Equal(t, logger.EnvProduction, entry["env"])
	})
}

func TestNewFromConfig(t *testing.T) {
	buf := &bytes.Buffer{}
	log := logger.NewFromConfig(
		logger.Config{Service: "formvalidate", Env: logger.EnvStaging, Level: "warn"},
		logger.WithOutput(buf),
	)

	log.Info("dropped")
	assert.Empty(t, buf.String())

	log.Warn("kept")
	entry := decode(t, buf)
	assert.Equal(t, "kept", entry["msg"])
	assert.Equal(t, logger.EnvStaging, entry["env"])
}

func TestDiscard(t *testing.T) {
	log := logger.Discard()
	require.NotNil(t, log)
	log.Error("nothing happens")
}

func TestSetAsDefault(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	buf := &bytes.Buffer{}
	logger.SetAsDefault(logger.New(logger.WithOutput(buf)))
	slog.Info("default")
	assert.Equal(t, "default", decode(t, buf)["msg"])
}

func TestWithFormatPanics(t *testing.T) {
	assert.Panics(t, func() {
		logger.New(logger.WithFormat(logger.Format("xml")))
	})
}
