package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/antsoup/auth-backend/internal/apperrors"
	"github.com/antsoup/auth-backend/internal/core/domain"
	portsrepo "github.com/antsoup/auth-backend/internal/core/ports/repositories"
	portssvc "github.com/antsoup/auth-backend/internal/core/ports/services"
	"github.com/antsoup/auth-backend/internal/dto"
	"github.com/antsoup/auth-backend/internal/utils"
	"github.com/google/uuid"
)

type userService struct {
	userRepo portsrepo.UserRepository
	activity *utils.PosthogClientWrapper
}

// NewUserService creates a new instance of userService. The activity sink is
// optional; a zero wrapper disables tracking without affecting outcomes.
func NewUserService(userRepo portsrepo.UserRepository, activity *utils.PosthogClientWrapper) portssvc.UserSvcFacade {
	if activity == nil {
		activity = &utils.PosthogClientWrapper{}
	}
	return &userService{
		userRepo: userRepo,
		activity: activity,
	}
}

var _ portssvc.UserSvcFacade = (*userService)(nil)

func (s *userService) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get user by ID: %w", err)
	}
	return user, nil
}

func (s *userService) IsEmailTaken(ctx context.Context, email string) (bool, error) {
	_, err := s.userRepo.FindUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to check email availability: %w", err)
	}
	return true, nil
}

func (s *userService) IsUsernameTaken(ctx context.Context, username string) (bool, error) {
	_, err := s.userRepo.FindUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to check username availability: %w", err)
	}
	return true, nil
}

func (s *userService) CreateUser(ctx context.Context, req dto.SignupRequest) (*domain.User, error) {
	if err := utils.ValidatePasswordStrength(req.Password); err != nil {
		return nil, apperrors.NewBadRequestError(err.Error())
	}

	if taken, err := s.IsEmailTaken(ctx, req.Email); err != nil {
		return nil, err
	} else if taken {
		return nil, apperrors.NewConflictError("Email address is already registered.")
	}
	if taken, err := s.IsUsernameTaken(ctx, req.Username); err != nil {
		return nil, err
	} else if taken {
		return nil, apperrors.NewConflictError("Username is already taken.")
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	var phone *string
	if req.PhoneNumber != nil {
		normalized := dto.NormalizePhoneNumber(*req.PhoneNumber)
		phone = &normalized
	}

	now := time.Now()
	user := domain.User{
		UserID:        uuid.NewString(),
		Username:      req.Username,
		Email:         req.Email,
		PasswordHash:  &hash,
		PhoneNumber:   phone,
		AuthProvider:  domain.ProviderLocal,
		Status:        domain.StatusActive,
		CreatedAt:     now,
		LastUpdatedAt: now,
	}

	if err := s.userRepo.SaveUser(ctx, user); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			// Lost a race with a concurrent signup for the same email/username.
			return nil, apperrors.NewConflictError("Email address or username is already registered.")
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.activity.Enqueue(user.UserID, "user_signup", map[string]any{"provider": string(user.AuthProvider)})

	created := user
	created.PasswordHash = nil
	return &created, nil
}

func (s *userService) UpdateUser(ctx context.Context, userID string, req dto.UpdateUserRequest) (*domain.User, error) {
	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to load user for update: %w", err)
	}

	if req.Username != nil && *req.Username != user.Username {
		if taken, err := s.IsUsernameTaken(ctx, *req.Username); err != nil {
			return nil, err
		} else if taken {
			return nil, apperrors.NewConflictError("Username is already taken.")
		}
		user.Username = *req.Username
	}
	if req.PhoneNumber != nil {
		normalized := dto.NormalizePhoneNumber(*req.PhoneNumber)
		user.PhoneNumber = &normalized
	}
	if req.ProfileImage != nil {
		user.ProfileImage = req.ProfileImage
	}
	user.LastUpdatedAt = time.Now()

	if err := s.userRepo.UpdateUser(ctx, *user); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, apperrors.NewConflictError("Username is already taken.")
		}
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	updated := *user
	updated.PasswordHash = nil
	return &updated, nil
}

func (s *userService) DeleteUser(ctx context.Context, userID string) error {
	if err := s.userRepo.MarkUserDeleted(ctx, userID, time.Now()); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return err
		}
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return nil
}

// AuthenticateUser verifies the credential pair. Unknown email and wrong
// password produce the same apperrors.ErrUnauthorized so the two cases are
// indistinguishable to the client.
func (s *userService) AuthenticateUser(ctx context.Context, email, password string) (*domain.User, error) {
	user, err := s.userRepo.FindUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			s.trackLoginAttempt(email, false, "unknown_email")
			return nil, apperrors.ErrUnauthorized
		}
		return nil, fmt.Errorf("failed to look up user for authentication: %w", err)
	}

	if user.PasswordHash == nil || !utils.CheckPasswordHash(password, *user.PasswordHash) {
		s.trackLoginAttempt(email, false, "bad_password")
		return nil, apperrors.ErrUnauthorized
	}

	if user.Status != domain.StatusActive {
		s.trackLoginAttempt(email, false, "account_disabled")
		return nil, apperrors.ErrForbidden
	}

	// Best-effort: a failed timestamp update must not fail the login.
	now := time.Now()
	if err := s.userRepo.UpdateLastLogin(ctx, user.UserID, now); err == nil {
		user.LastLoginAt = &now
	}

	s.trackLoginAttempt(email, true, "")

	authenticated := *user
	authenticated.PasswordHash = nil
	return &authenticated, nil
}

// trackLoginAttempt is fire-and-forget: the sink never influences the result.
func (s *userService) trackLoginAttempt(email string, success bool, reason string) {
	props := map[string]any{"success": success}
	if reason != "" {
		props["failure_reason"] = reason
	}
	s.activity.Enqueue(email, "login_attempt", props)
}

func (s *userService) GetOrCreateGoogleUser(ctx context.Context, info domain.GoogleUserInfo) (*domain.User, error) {
	user, err := s.userRepo.FindUserByProviderDetails(ctx, domain.ProviderGoogle, info.ID)
	if err == nil {
		resolved := *user
		resolved.PasswordHash = nil
		return &resolved, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to look up user by provider: %w", err)
	}

	// No linkage yet: match by email and attach the provider to an existing
	// local account, the way the first Google login of a known user works.
	existing, err := s.userRepo.FindUserByEmail(ctx, info.Email)
	if err == nil {
		if existing.AuthProvider != domain.ProviderLocal && existing.AuthProvider != domain.ProviderGoogle {
			return nil, apperrors.NewConflictError("This email is registered through another provider.")
		}
		if err := s.userRepo.LinkProvider(ctx, existing.UserID, domain.ProviderGoogle, info.ID, time.Now()); err != nil {
			return nil, fmt.Errorf("failed to link Google provider: %w", err)
		}
		existing.AuthProvider = domain.ProviderGoogle
		existing.ProviderUserID = &info.ID
		resolved := *existing
		resolved.PasswordHash = nil
		return &resolved, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to look up user by email: %w", err)
	}

	username, err := s.deriveUsername(ctx, info.Email)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	providerID := info.ID
	newUser := domain.User{
		UserID:         uuid.NewString(),
		Username:       username,
		Email:          info.Email,
		AuthProvider:   domain.ProviderGoogle,
		ProviderUserID: &providerID,
		EmailVerified:  info.VerifiedEmail,
		Status:         domain.StatusActive,
		CreatedAt:      now,
		LastUpdatedAt:  now,
	}
	if info.VerifiedEmail {
		newUser.EmailVerifiedAt = &now
	}
	if info.Picture != "" {
		picture := info.Picture
		newUser.ProfileImage = &picture
	}

	if err := s.userRepo.SaveUser(ctx, newUser); err != nil {
		return nil, fmt.Errorf("failed to create Google user: %w", err)
	}

	s.activity.Enqueue(newUser.UserID, "user_signup", map[string]any{"provider": string(domain.ProviderGoogle)})
	return &newUser, nil
}

var usernameSanitizer = regexp.MustCompile(`[^a-zA-Z0-9_]`)

// deriveUsername builds a unique, policy-conformant username from the email
// local part, appending a random suffix while the candidate is taken.
func (s *userService) deriveUsername(ctx context.Context, email string) (string, error) {
	base := email
	if at := strings.Index(email, "@"); at > 0 {
		base = email[:at]
	}
	base = usernameSanitizer.ReplaceAllString(base, "")
	base = strings.Trim(base, "_")
	if len(base) > 14 {
		base = base[:14]
	}
	candidate := base
	if len(base) < 3 {
		base = "user"
		suffix, err := utils.GenerateNumericCode(4)
		if err != nil {
			return "", err
		}
		candidate = base + suffix
	}
	for attempt := 0; attempt < 5; attempt++ {
		taken, err := s.IsUsernameTaken(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
		suffix, err := utils.GenerateNumericCode(4)
		if err != nil {
			return "", err
		}
		candidate = base + suffix
	}
	return "", fmt.Errorf("failed to derive a unique username")
}
