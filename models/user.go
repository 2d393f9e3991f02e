package models

import (
	"errors"
	"strings"
	"time"
)

// User is a registered account. PasswordHash is a bcrypt digest and is never
// serialized.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// RegisterRequest is the body of POST /api/register.
type RegisterRequest struct {
	Username string `json:"username" example:"alice"`
	Email    string `json:"email" example:"alice@example.com"`
	Password string `json:"password" example:"correct horse battery staple"`
}

// Normalize trims the username and lower-cases the email.
func (r *RegisterRequest) Normalize() {
	r.Username = strings.TrimSpace(r.Username)
	r.Email = NormalizeEmail(r.Email)
}

// Validate checks that every field is present and the email looks like one.
func (r *RegisterRequest) Validate() error {
	switch {
	case r.Username == "":
		return errors.New("username is required")
	case r.Email == "":
		return errors.New("email is required")
	case !strings.Contains(r.Email, "@"):
		return errors.New("email is malformed")
	case r.Password == "":
		return errors.New("password is required")
	}
	return nil
}

// LoginRequest is the body of POST /api/login.
type LoginRequest struct {
	Email    string `json:"email" example:"alice@example.com"`
	Password string `json:"password" example:"correct horse battery staple"`
}

// Validate checks that both credentials are present.
func (r *LoginRequest) Validate() error {
	if r.Email == "" || r.Password == "" {
		return errors.New("email and password are required")
	}
	return nil
}

// AuthResponse is returned by register and login.
type AuthResponse struct {
	Message string `json:"message" example:"Login successful"`
	Token   string `json:"token"`
}

// NormalizeEmail trims and lower-cases an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
