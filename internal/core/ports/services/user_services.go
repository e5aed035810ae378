package services

import (
	"context"

	"github.com/antsoup/auth-backend/internal/core/domain"
	"github.com/antsoup/auth-backend/internal/dto"
)

// UserReaderSvc defines read operations for user data
type UserReaderSvc interface {
	// GetUserByID retrieves a non-deleted user by ID.
	GetUserByID(ctx context.Context, userID string) (*domain.User, error)

	// IsEmailTaken reports whether a non-deleted user already holds the email.
	IsEmailTaken(ctx context.Context, email string) (bool, error)

	// IsUsernameTaken reports whether a non-deleted user already holds the username.
	IsUsernameTaken(ctx context.Context, username string) (bool, error)
}

// UserWriterSvc defines write operations for user data
type UserWriterSvc interface {
	// CreateUser creates a new local user from a signup request.
	CreateUser(ctx context.Context, req dto.SignupRequest) (*domain.User, error)

	// UpdateUser updates profile fields of an existing user.
	UpdateUser(ctx context.Context, userID string, req dto.UpdateUserRequest) (*domain.User, error)

	// GetOrCreateGoogleUser resolves a verified Google identity assertion to a
	// user: by provider linkage, then by email (linking the provider to an
	// existing local account), creating a new account otherwise.
	GetOrCreateGoogleUser(ctx context.Context, info domain.GoogleUserInfo) (*domain.User, error)
}

// UserLifecycleSvc defines operations for managing user lifecycle
type UserLifecycleSvc interface {
	// DeleteUser marks a user as deleted (soft delete).
	DeleteUser(ctx context.Context, userID string) error
}

// UserAuthSvc defines operations for user authentication
type UserAuthSvc interface {
	// AuthenticateUser authenticates a user with email and password. Unknown
	// email and wrong password both return apperrors.ErrUnauthorized; a known
	// but non-active account returns apperrors.ErrForbidden. The returned user
	// has the password hash stripped.
	AuthenticateUser(ctx context.Context, email, password string) (*domain.User, error)
}

// UserSvcFacade combines all user-related service interfaces
type UserSvcFacade interface {
	UserReaderSvc
	UserWriterSvc
	UserLifecycleSvc
	UserAuthSvc
}
