package domain

import "time"

// AuthProvider identifies how an account authenticates.
type AuthProvider string

const (
	ProviderLocal  AuthProvider = "local"
	ProviderGoogle AuthProvider = "google"
)

// UserStatus is the account lifecycle status.
type UserStatus string

const (
	StatusActive   UserStatus = "active"
	StatusInactive UserStatus = "inactive"
)

// User represents an identity record in the domain.
// PasswordHash is nil for users created through an external provider.
type User struct {
	UserID          string       `json:"userID"`
	Username        string       `json:"username"`
	Email           string       `json:"email"`
	PasswordHash    *string      `json:"-"`
	PhoneNumber     *string      `json:"phoneNumber,omitempty"`
	ProfileImage    *string      `json:"profileImage,omitempty"`
	AuthProvider    AuthProvider `json:"authProvider"`
	ProviderUserID  *string      `json:"-"`
	EmailVerified   bool         `json:"emailVerified"`
	EmailVerifiedAt *time.Time   `json:"emailVerifiedAt,omitempty"`
	PhoneVerified   bool         `json:"phoneVerified"`
	PhoneVerifiedAt *time.Time   `json:"phoneVerifiedAt,omitempty"`
	Status          UserStatus   `json:"status"`
	LastLoginAt     *time.Time   `json:"lastLoginAt,omitempty"`
	CreatedAt       time.Time    `json:"createdAt"`
	LastUpdatedAt   time.Time    `json:"lastUpdatedAt"`
	DeletedAt       *time.Time   `json:"deletedAt,omitempty"` // Used for soft delete
}

// GoogleUserInfo is the subset of the Google userinfo payload the backend consumes.
type GoogleUserInfo struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}
