package service

import (
	"context"
	"log/slog"
	"net/mail"
	"strings"

	"github.com/google/uuid"
)

// CreateUserInput is the body accepted by the user endpoint.
type CreateUserInput struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
}

// Validate requires both names and a single well-formed address.
func (in *CreateUserInput) Validate() error {
	if strings.TrimSpace(in.FirstName) == "" {
		return &ValidationError{Field: "first_name", Cause: "is required"}
	}
	if strings.TrimSpace(in.LastName) == "" {
		return &ValidationError{Field: "last_name", Cause: "is required"}
	}
	addr, err := mail.ParseAddress(in.Email)
	// A display name form such as "Ann <ann@example.com>" parses too; only the
	// bare address is accepted.
	if err != nil || addr.Address != in.Email {
		return &ValidationError{Field: "email", Cause: "must be a valid email address"}
	}
	return nil
}

// User is the echoed user payload.
type User struct {
	ID        string `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
}

// UserService is a stub: it assigns an id and echoes the input. Nothing is stored.
type UserService struct{}

// NewUserService creates a user service.
func NewUserService() *UserService {
	return &UserService{}
}

// Create validates the input and returns it with a fresh id.
func (s *UserService) Create(ctx context.Context, in CreateUserInput) (*User, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	user := &User{
		ID:        uuid.NewString(),
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Email:     in.Email,
	}
	slog.DebugContext(ctx, "user stub created", "id", user.ID)
	return user, nil
}
