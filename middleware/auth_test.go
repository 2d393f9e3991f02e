package middleware

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/biosecret/go-todo/apperror"
	"github.com/biosecret/go-todo/auth"
)

const testSecret = "middleware-secret"

// newGatedApp mounts the middleware like the router does and records whether
// the protected handler ran and with which user id.
func newGatedApp(t *testing.T, called *bool, gotUser *string) *fiber.App {
	t.Helper()
	tokens, err := auth.NewTokens(testSecret)
	require.NoError(t, err)

	app := fiber.New(fiber.Config{ErrorHandler: apperror.ErrorHandler(zap.NewNop())})
	api := app.Group("/api", JWTMiddleware(tokens, "/api/register", "/api/login"))

	public := func(c *fiber.Ctx) error {
		*called = true
		return c.SendString("public")
	}
	api.Post("/register", public)
	api.Post("/login", public)
	api.Get("/todos", WithUser(func(c *fiber.Ctx, userID string) error {
		*called = true
		*gotUser = userID
		return c.SendString("protected")
	}))
	return app
}

func issue(t *testing.T, secret, userID string, now time.Time) string {
	t.Helper()
	tokens, err := auth.NewTokens(secret, auth.WithClock(func() time.Time { return now }))
	require.NoError(t, err)
	token, err := tokens.Issue(userID)
	require.NoError(t, err)
	return token
}

func TestJWTMiddleware_PublicPathsBypass(t *testing.T) {
	for _, path := range []string{"/api/register", "/api/login"} {
		var called bool
		var user string
		app := newGatedApp(t, &called, &user)

		resp, err := app.Test(httptest.NewRequest(http.MethodPost, path, nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode, path)
		assert.True(t, called, path)
	}
}

func TestJWTMiddleware_Rejects(t *testing.T) {
	valid := issue(t, testSecret, "u-1", time.Now())

	tests := []struct {
		name    string
		header  string
		path    string
		wantMsg string
	}{
		{"no header", "", "/api/todos", "missing token"},
		{"wrong scheme", "Basic " + valid, "/api/todos", "invalid token format"},
		{"lowercase scheme", "bearer " + valid, "/api/todos", "invalid token format"},
		{"bare token", valid, "/api/todos", "invalid token format"},
		{"empty token", "Bearer ", "/api/todos", "invalid token format"},
		{"garbage", "Bearer not-a-jwt", "/api/todos", "invalid or expired token"},
		{"other secret", "Bearer " + issue(t, "other-secret", "u-1", time.Now()), "/api/todos", "invalid or expired token"},
		{"expired", "Bearer " + issue(t, testSecret, "u-1", time.Now().Add(-25*time.Hour)), "/api/todos", "invalid or expired token"},
		{"public prefix is not public", "", "/api/register/extra", "missing token"},
		{"unknown route", "", "/api/anything", "missing token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var called bool
			var user string
			app := newGatedApp(t, &called, &user)

			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
			assert.False(t, called, "handler must not run")

			raw, err := io.ReadAll(resp.Body)
			require.NoError(t, err)
			var body apperror.ErrorResponse
			require.NoError(t, json.Unmarshal(raw, &body))
			assert.Equal(t, tt.wantMsg, body.Error)
		})
	}
}

func TestJWTMiddleware_AttachesUser(t *testing.T) {
	var called bool
	var user string
	app := newGatedApp(t, &called, &user)

	req := httptest.NewRequest(http.MethodGet, "/api/todos", nil)
	req.Header.Set("Authorization", "Bearer "+issue(t, testSecret, "u-42", time.Now()))
	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, called)
	assert.Equal(t, "u-42", user)
}

func TestWithUser_WithoutClaims(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: apperror.ErrorHandler(zap.NewNop())})
	called := false
	app.Get("/", WithUser(func(c *fiber.Ctx, userID string) error {
		called = true
		return nil
	}))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.False(t, called)
}
