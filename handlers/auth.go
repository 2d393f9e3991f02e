package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/biosecret/go-todo/apperror"
	"github.com/biosecret/go-todo/auth"
	"github.com/biosecret/go-todo/models"
	"github.com/biosecret/go-todo/store"
	"github.com/biosecret/go-todo/utils"
)

// RegisterHandler creates an account and returns a session token for it.
//
//	@Summary	Register a new user
//	@Tags		auth
//	@Accept		json
//	@Produce	json
//	@Param		body	body		models.RegisterRequest	true	"Account"
//	@Success	200		{object}	models.AuthResponse
//	@Failure	400		{object}	apperror.ErrorResponse
//	@Failure	409		{object}	apperror.ErrorResponse
//	@Router		/register [post]
func (h *Handler) RegisterHandler(c *fiber.Ctx) error {
	var req models.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return apperror.NewValidationError("invalid request body", err)
	}
	req.Normalize()
	if err := req.Validate(); err != nil {
		return apperror.NewValidationError(err.Error(), err)
	}

	// Hash the password; the plaintext goes no further
	hashedPassword, err := auth.HashPassword(req.Password)
	if errors.Is(err, auth.ErrPasswordTooLong) {
		return apperror.NewValidationError("password must be at most 72 bytes", err)
	}
	if err != nil {
		return apperror.NewInternalError("could not hash password", err)
	}

	user := models.User{
		ID:           utils.GenerateID(),
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hashedPassword,
		CreatedAt:    h.now(),
	}
	if err := h.Users.Create(c.UserContext(), user); err != nil {
		if errors.Is(err, store.ErrConflict) {
			return apperror.NewConflictError("username or email already exists", err)
		}
		return apperror.NewDatabaseError("failed to create user", err)
	}

	token, err := h.Tokens.Issue(user.ID)
	if err != nil {
		return apperror.NewInternalError("failed to issue token", err)
	}

	return c.Status(fiber.StatusOK).JSON(models.AuthResponse{
		Message: "User created successfully",
		Token:   token,
	})
}

// LoginHandler exchanges email and password for a session token.
//
//	@Summary	Log in
//	@Tags		auth
//	@Accept		json
//	@Produce	json
//	@Param		body	body		models.LoginRequest	true	"Credentials"
//	@Success	200		{object}	models.AuthResponse
//	@Failure	400		{object}	apperror.ErrorResponse
//	@Failure	401		{object}	apperror.ErrorResponse
//	@Router		/login [post]
func (h *Handler) LoginHandler(c *fiber.Ctx) error {
	var req models.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperror.NewValidationError("invalid request body", err)
	}
	req.Email = models.NormalizeEmail(req.Email)
	if err := req.Validate(); err != nil {
		return apperror.NewValidationError(err.Error(), err)
	}

	user, err := h.Users.GetByEmail(c.UserContext(), req.Email)
	if errors.Is(err, store.ErrNotFound) {
		return apperror.NewAuthError("invalid credentials", nil)
	}
	if err != nil {
		return apperror.NewDatabaseError("failed to load user", err)
	}

	ok, err := auth.CheckPassword(req.Password, user.PasswordHash)
	if err != nil {
		return apperror.NewInternalError("failed to verify password", err)
	}
	if !ok {
		return apperror.NewAuthError("invalid credentials", nil)
	}

	token, err := h.Tokens.Issue(user.ID)
	if err != nil {
		return apperror.NewInternalError("failed to issue token", err)
	}

	return c.Status(fiber.StatusOK).JSON(models.AuthResponse{
		Message: "Login successful",
		Token:   token,
	})
}
