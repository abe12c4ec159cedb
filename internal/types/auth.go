package types

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Credentials is the login/registration request body.
type Credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RegisterRequest applies the stricter password rules used at registration.
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=128"`
}

// AuthResponse carries the Credential Token issued by the auth service.
type AuthResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// User is the account returned by /auth/me.
type User struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
}

var credentialMessages = map[string]string{
	"Email":    "A valid email address is required.",
	"Password": "Password is required.",
}

var registerMessages = map[string]string{
	"Email":    "A valid email address is required.",
	"Password": "Password must be between 8 and 128 characters.",
}

// Validate normalizes the email and checks the request.
func (c *Credentials) Validate() error {
	c.Email = strings.ToLower(strings.TrimSpace(c.Email))
	return firstFieldError(validate.Struct(c), credentialMessages)
}

// Validate normalizes the email and checks the request.
func (r *RegisterRequest) Validate() error {
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	return firstFieldError(validate.Struct(r), registerMessages)
}
