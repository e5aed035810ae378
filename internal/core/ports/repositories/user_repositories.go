package repositories

import (
	"context"
	"time"

	"github.com/antsoup/auth-backend/internal/core/domain"
)

// UserRepository defines persistence operations for user records.
// Lookups exclude soft-deleted rows; implementations return
// apperrors.ErrNotFound when no matching row exists.
type UserRepository interface {
	// SaveUser inserts a new user record.
	SaveUser(ctx context.Context, user domain.User) error

	// FindUserByID retrieves a non-deleted user by ID.
	FindUserByID(ctx context.Context, userID string) (*domain.User, error)

	// FindUserByEmail retrieves a non-deleted user by email.
	FindUserByEmail(ctx context.Context, email string) (*domain.User, error)

	// FindUserByUsername retrieves a non-deleted user by username.
	FindUserByUsername(ctx context.Context, username string) (*domain.User, error)

	// FindUserByProviderDetails retrieves a non-deleted user by external provider linkage.
	FindUserByProviderDetails(ctx context.Context, provider domain.AuthProvider, providerUserID string) (*domain.User, error)

	// UpdateUser persists profile fields (username, phone, profile image) of an existing user.
	UpdateUser(ctx context.Context, user domain.User) error

	// UpdateLastLogin records a successful login time. Callers treat failure as non-fatal.
	UpdateLastLogin(ctx context.Context, userID string, at time.Time) error

	// LinkProvider attaches external provider details to an existing user.
	LinkProvider(ctx context.Context, userID string, provider domain.AuthProvider, providerUserID string, at time.Time) error

	// MarkUserDeleted soft-deletes a user.
	MarkUserDeleted(ctx context.Context, userID string, deletedAt time.Time) error
}
