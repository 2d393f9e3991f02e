package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/biosecret/go-todo/handlers"
	"github.com/biosecret/go-todo/middleware"
)

// PublicPaths are the /api paths reachable without a bearer token. Matching
// is exact.
var PublicPaths = []string{"/api/register", "/api/login"}

// SetupRoutes mounts every endpoint. gate guards the whole /api group.
func SetupRoutes(app *fiber.App, h *handlers.Handler, gate fiber.Handler) {
	app.Get("/health", h.HandleHealthCheck)

	api := app.Group("/api", gate)

	api.Post("/register", h.RegisterHandler)
	api.Post("/login", h.LoginHandler)

	api.Get("/todos", middleware.WithUser(h.HandleAllTodos))
	api.Post("/todos", middleware.WithUser(h.HandleCreateTodo))
	// Registered before /todos/:id so "events" is not taken for an id.
	api.Get("/todos/events", middleware.WithUser(h.HandleTodoEvents))
	api.Get("/todos/:id", middleware.WithUser(h.HandleGetOneTodo))
	api.Patch("/todos/:id", middleware.WithUser(h.HandleUpdateTodo))
	api.Delete("/todos/:id", middleware.WithUser(h.HandleDeleteTodo))
}
