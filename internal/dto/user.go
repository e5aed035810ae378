package dto

import (
	"github.com/antsoup/auth-backend/internal/core/domain"
)

// SignupRequest defines the data required to register a local account.
type SignupRequest struct {
	Username    string  `json:"username" binding:"required,username"`
	Email       string  `json:"email" binding:"required,email"`
	Password    string  `json:"password" binding:"required,min=6"`
	PhoneNumber *string `json:"phone_number" binding:"omitempty,phone_kr"`
}

// UpdateUserRequest defines the data allowed for updating a user.
// Using pointers to differentiate between omitted fields and zero-value fields.
type UpdateUserRequest struct {
	Username     *string `json:"username" binding:"omitempty,username"`
	PhoneNumber  *string `json:"phone_number" binding:"omitempty,phone_kr"`
	ProfileImage *string `json:"profile_image" binding:"omitempty,url"`
}

// UserResponse is the client-facing user representation. The password hash
// and provider-assigned ID never appear here.
type UserResponse struct {
	UserID        string  `json:"userID"`
	Username      string  `json:"username"`
	Email         string  `json:"email"`
	PhoneNumber   *string `json:"phoneNumber,omitempty"`
	ProfileImage  *string `json:"profileImage,omitempty"`
	AuthProvider  string  `json:"authProvider"`
	EmailVerified bool    `json:"emailVerified"`
	PhoneVerified bool    `json:"phoneVerified"`
	Status        string  `json:"status"`
	CreatedAt     string  `json:"createdAt"`
	LastUpdatedAt string  `json:"lastUpdatedAt"`
}

// ToUserResponse converts a domain.User to its response DTO.
func ToUserResponse(user *domain.User) UserResponse {
	return UserResponse{
		UserID:        user.UserID,
		Username:      user.Username,
		Email:         user.Email,
		PhoneNumber:   user.PhoneNumber,
		ProfileImage:  user.ProfileImage,
		AuthProvider:  string(user.AuthProvider),
		EmailVerified: user.EmailVerified,
		PhoneVerified: user.PhoneVerified,
		Status:        string(user.Status),
		CreatedAt:     user.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		LastUpdatedAt: user.LastUpdatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

// AvailabilityResponse answers the signup availability checks.
type AvailabilityResponse struct {
	Available bool   `json:"available"`
	Message   string `json:"message,omitempty"`
}
