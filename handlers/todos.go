package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	fiberutils "github.com/gofiber/fiber/v2/utils"

	"github.com/biosecret/go-todo/apperror"
	"github.com/biosecret/go-todo/events"
	"github.com/biosecret/go-todo/models"
	"github.com/biosecret/go-todo/store"
	"github.com/biosecret/go-todo/utils"
)

func todoNotFound(err error) error {
	return apperror.NewNotFoundError("todo not found", err)
}

// HandleAllTodos lists the caller's todos, newest first.
//
//	@Summary	List todos
//	@Tags		todos
//	@Produce	json
//	@Security	BearerAuth
//	@Success	200	{array}		models.Todo
//	@Failure	401	{object}	apperror.ErrorResponse
//	@Router		/todos [get]
func (h *Handler) HandleAllTodos(c *fiber.Ctx, userID string) error {
	todos, err := h.Todos.List(c.UserContext(), userID)
	if err != nil {
		return apperror.NewDatabaseError("failed to list todos", err)
	}
	return c.Status(fiber.StatusOK).JSON(todos)
}

// HandleCreateTodo creates a todo owned by the caller.
//
//	@Summary	Create a todo
//	@Tags		todos
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		body	body		models.CreateTodoRequest	true	"Todo"
//	@Success	200		{object}	models.Todo
//	@Failure	400		{object}	apperror.ErrorResponse
//	@Failure	401		{object}	apperror.ErrorResponse
//	@Router		/todos [post]
func (h *Handler) HandleCreateTodo(c *fiber.Ctx, userID string) error {
	var req models.CreateTodoRequest
	if err := c.BodyParser(&req); err != nil {
		return apperror.NewValidationError("invalid request body", err)
	}
	if err := req.Validate(); err != nil {
		return apperror.NewValidationError(err.Error(), err)
	}

	now := h.now()
	todo := models.Todo{
		ID:          utils.GenerateID(),
		UserID:      userID,
		Title:       req.Title,
		Description: req.Description,
		Completed:   false,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := h.Todos.Create(c.UserContext(), todo); err != nil {
		return apperror.NewDatabaseError("failed to create todo", err)
	}

	h.publish(c.UserContext(), events.Event{Type: events.TodoCreated, UserID: userID, TodoID: todo.ID, Todo: &todo, At: now})
	return c.Status(fiber.StatusOK).JSON(todo)
}

// HandleGetOneTodo returns one of the caller's todos.
//
//	@Summary	Get a todo
//	@Tags		todos
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id	path		string	true	"Todo ID"
//	@Success	200	{object}	models.Todo
//	@Failure	404	{object}	apperror.ErrorResponse
//	@Router		/todos/{id} [get]
func (h *Handler) HandleGetOneTodo(c *fiber.Ctx, userID string) error {
	todo, err := h.Todos.Get(c.UserContext(), userID, c.Params("id"))
	if errors.Is(err, store.ErrNotFound) {
		return todoNotFound(err)
	}
	if err != nil {
		return apperror.NewDatabaseError("failed to load todo", err)
	}
	return c.Status(fiber.StatusOK).JSON(todo)
}

// HandleUpdateTodo applies a partial update; omitted fields keep their value.
//
//	@Summary	Update a todo
//	@Tags		todos
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id		path		string				true	"Todo ID"
//	@Param		body	body		models.TodoUpdate	true	"Fields to change"
//	@Success	200		{object}	models.Todo
//	@Failure	400		{object}	apperror.ErrorResponse
//	@Failure	404		{object}	apperror.ErrorResponse
//	@Router		/todos/{id} [patch]
func (h *Handler) HandleUpdateTodo(c *fiber.Ctx, userID string) error {
	var update models.TodoUpdate
	if err := c.BodyParser(&update); err != nil {
		return apperror.NewValidationError("invalid request body", err)
	}
	if err := update.Validate(); err != nil {
		return apperror.NewValidationError(err.Error(), err)
	}

	now := h.now()
	todo, err := h.Todos.Update(c.UserContext(), userID, c.Params("id"), update, now)
	if errors.Is(err, store.ErrNotFound) {
		return todoNotFound(err)
	}
	if err != nil {
		return apperror.NewDatabaseError("failed to update todo", err)
	}

	h.publish(c.UserContext(), events.Event{Type: events.TodoUpdated, UserID: userID, TodoID: todo.ID, Todo: &todo, At: now})
	return c.Status(fiber.StatusOK).JSON(todo)
}

// HandleDeleteTodo deletes one of the caller's todos.
//
//	@Summary	Delete a todo
//	@Tags		todos
//	@Security	BearerAuth
//	@Param		id	path	string	true	"Todo ID"
//	@Success	204
//	@Failure	404	{object}	apperror.ErrorResponse
//	@Router		/todos/{id} [delete]
func (h *Handler) HandleDeleteTodo(c *fiber.Ctx, userID string) error {
	// The event outlives the request; params alias the request buffer.
	id := fiberutils.CopyString(c.Params("id"))
	err := h.Todos.Delete(c.UserContext(), userID, id)
	if errors.Is(err, store.ErrNotFound) {
		return todoNotFound(err)
	}
	if err != nil {
		return apperror.NewDatabaseError("failed to delete todo", err)
	}

	h.publish(c.UserContext(), events.Event{Type: events.TodoDeleted, UserID: userID, TodoID: id, At: h.now()})
	return c.SendStatus(fiber.StatusNoContent)
}
