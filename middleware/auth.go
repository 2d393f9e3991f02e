// Package middleware holds the fiber middleware of the API: bearer token
// gating and request logging.
package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/biosecret/go-todo/apperror"
	"github.com/biosecret/go-todo/auth"
)

const claimsKey = "auth_claims"

// TokenVerifier validates a bearer token and returns its claims.
type TokenVerifier interface {
	Verify(token string) (*auth.Claims, error)
}

// JWTMiddleware rejects requests without a valid "Authorization: Bearer
// <token>" header. Requests whose path equals one of publicPaths pass
// through untouched. Verified claims are stored on the request for WithUser.
func JWTMiddleware(verifier TokenVerifier, publicPaths ...string) fiber.Handler {
	public := make(map[string]struct{}, len(publicPaths))
	for _, p := range publicPaths {
		public[p] = struct{}{}
	}

	return func(c *fiber.Ctx) error {
		if _, ok := public[c.Path()]; ok {
			return c.Next()
		}

		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			return apperror.NewAuthError("missing token", nil)
		}

		// "Bearer <token>"
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader || strings.TrimSpace(tokenString) == "" {
			return apperror.NewAuthError("invalid token format", nil)
		}

		claims, err := verifier.Verify(tokenString)
		if err != nil {
			return apperror.NewAuthError("invalid or expired token", err)
		}

		c.Locals(claimsKey, claims)
		return c.Next()
	}
}

// ClaimsFromCtx returns the claims stored by JWTMiddleware.
func ClaimsFromCtx(c *fiber.Ctx) (*auth.Claims, bool) {
	claims, ok := c.Locals(claimsKey).(*auth.Claims)
	return claims, ok && claims != nil
}

// UserHandler is a handler that needs the authenticated user id.
type UserHandler func(c *fiber.Ctx, userID string) error

// WithUser adapts h to fiber, passing the authenticated user id explicitly.
// Without verified claims the request is rejected.
func WithUser(h UserHandler) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, ok := ClaimsFromCtx(c)
		if !ok {
			return apperror.NewAuthError("authentication required", nil)
		}
		return h(c, claims.UserID())
	}
}
