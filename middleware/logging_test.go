package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/biosecret/go-todo/apperror"
)

func TestRequestLogger(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	log := zap.New(core)

	app := fiber.New(fiber.Config{ErrorHandler: apperror.ErrorHandler(zap.NewNop())})
	app.Use(RequestLogger(log))
	app.Get("/ok", func(c *fiber.Ctx) error { return c.SendStatus(http.StatusNoContent) })
	app.Get("/missing", func(c *fiber.Ctx) error { return apperror.NewNotFoundError("todo not found", nil) })
	app.Get("/boom", func(c *fiber.Ctx) error { return assert.AnError })

	tests := []struct {
		path       string
		wantStatus int
		wantLevel  zapcore.Level
	}{
		{"/ok", http.StatusNoContent, zapcore.InfoLevel},
		{"/missing", http.StatusNotFound, zapcore.WarnLevel},
		{"/boom", http.StatusInternalServerError, zapcore.ErrorLevel},
	}

	for _, tt := range tests {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, tt.path, nil))
		require.NoError(t, err)
		assert.Equal(t, tt.wantStatus, resp.StatusCode, tt.path)

		entries := logs.TakeAll()
		require.Len(t, entries, 1, tt.path)
		assert.Equal(t, tt.wantLevel, entries[0].Level, tt.path)

		fields := entries[0].ContextMap()
		assert.Equal(t, tt.path, fields["path"])
		assert.Equal(t, int64(tt.wantStatus), fields["status"])
		assert.Equal(t, http.MethodGet, fields["method"])
	}
}
