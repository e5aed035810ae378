package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/antsoup/auth-backend/internal/apperrors"
	"github.com/antsoup/auth-backend/internal/core/domain"
	portsrepo "github.com/antsoup/auth-backend/internal/core/ports/repositories"
	portssvc "github.com/antsoup/auth-backend/internal/core/ports/services"
	"github.com/antsoup/auth-backend/internal/platform/config"
	"github.com/antsoup/auth-backend/internal/utils"
	"github.com/google/uuid"
)

const (
	verificationCodeLength = 6
	verificationCooldown   = 60 * time.Second
	resetCooldown          = 5 * time.Minute
	resetTokenBytes        = 32
)

type verificationService struct {
	cfg        *config.Config
	secretRepo portsrepo.SecretRepository
	userRepo   portsrepo.UserRepository
	mailer     portssvc.MailSvc
	activity   *utils.PosthogClientWrapper
}

// NewVerificationService creates a new instance of verificationService.
func NewVerificationService(cfg *config.Config, secretRepo portsrepo.SecretRepository, userRepo portsrepo.UserRepository, mailer portssvc.MailSvc, activity *utils.PosthogClientWrapper) portssvc.VerificationSvcFacade {
	if activity == nil {
		activity = &utils.PosthogClientWrapper{}
	}
	return &verificationService{
		cfg:        cfg,
		secretRepo: secretRepo,
		userRepo:   userRepo,
		mailer:     mailer,
		activity:   activity,
	}
}

var _ portssvc.VerificationSvcFacade = (*verificationService)(nil)

func (s *verificationService) RequestEmailVerification(ctx context.Context, user *domain.User) error {
	if user.EmailVerified {
		return apperrors.ErrAlreadyVerified
	}

	if err := s.checkCooldown(ctx, user.UserID, domain.SecretKindEmailVerification, verificationCooldown); err != nil {
		return err
	}

	code, err := utils.GenerateNumericCode(verificationCodeLength)
	if err != nil {
		return fmt.Errorf("failed to generate verification code: %w", err)
	}

	now := time.Now()
	secret := domain.OneTimeSecret{
		SecretID:  uuid.NewString(),
		UserID:    user.UserID,
		Kind:      domain.SecretKindEmailVerification,
		Value:     code,
		ExpiresAt: now.Add(s.cfg.VerificationCodeTTL),
		CreatedAt: now,
	}
	if err := s.secretRepo.SupersedeAndCreate(ctx, secret); err != nil {
		return fmt.Errorf("failed to store verification code: %w", err)
	}

	if err := s.mailer.SendVerificationCode(ctx, user.Email, code, user.Username); err != nil {
		return fmt.Errorf("failed to send verification email: %w", err)
	}

	s.activity.Enqueue(user.UserID, "email_verification_requested", nil)
	return nil
}

func (s *verificationService) ConfirmEmailVerification(ctx context.Context, user *domain.User, code string) error {
	if user.EmailVerified {
		return apperrors.ErrAlreadyVerified
	}

	// Supersede-on-issue guarantees at most one unused code per user, so the
	// newest unused secret is the only redeemable candidate.
	now := time.Now()
	secret, err := s.secretRepo.FindLatestUnusedSecret(ctx, user.UserID, domain.SecretKindEmailVerification)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return apperrors.ErrInvalidOrExpired
		}
		return fmt.Errorf("failed to load verification code: %w", err)
	}
	if !secret.Active(now) {
		return apperrors.ErrInvalidOrExpired
	}

	if !utils.ConstantTimeEquals(secret.Value, code) {
		return apperrors.ErrInvalidOrExpired
	}

	// The guarded update inside the transaction is what makes redemption
	// exactly-once under concurrent confirms.
	if err := s.secretRepo.RedeemEmailVerification(ctx, user.UserID, secret.SecretID, now); err != nil {
		if errors.Is(err, apperrors.ErrInvalidOrExpired) {
			return err
		}
		return fmt.Errorf("failed to redeem verification code: %w", err)
	}

	s.activity.Enqueue(user.UserID, "email_verified", nil)
	return nil
}

func (s *verificationService) RequestPasswordReset(ctx context.Context, email string) error {
	user, err := s.userRepo.FindUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			// Report success for unknown emails so the endpoint cannot be used
			// to probe which addresses hold accounts.
			return nil
		}
		return fmt.Errorf("failed to look up user for password reset: %w", err)
	}

	if err := s.checkCooldown(ctx, user.UserID, domain.SecretKindPasswordReset, resetCooldown); err != nil {
		return err
	}

	token, err := utils.GenerateSecureRandomString(resetTokenBytes)
	if err != nil {
		return fmt.Errorf("failed to generate reset token: %w", err)
	}

	// Only the digest is stored. A database read never yields a usable token.
	now := time.Now()
	secret := domain.OneTimeSecret{
		SecretID:  uuid.NewString(),
		UserID:    user.UserID,
		Kind:      domain.SecretKindPasswordReset,
		Value:     utils.HashSecret(token),
		ExpiresAt: now.Add(s.cfg.ResetTokenTTL),
		CreatedAt: now,
	}
	if err := s.secretRepo.SupersedeAndCreate(ctx, secret); err != nil {
		return fmt.Errorf("failed to store reset token: %w", err)
	}

	if err := s.mailer.SendPasswordResetEmail(ctx, user.Email, token, user.Username); err != nil {
		return fmt.Errorf("failed to send password reset email: %w", err)
	}

	s.activity.Enqueue(user.UserID, "password_reset_requested", nil)
	return nil
}

func (s *verificationService) ResetPassword(ctx context.Context, token, newPassword string) error {
	if err := utils.ValidatePasswordStrength(newPassword); err != nil {
		return apperrors.NewBadRequestError(err.Error())
	}

	hash, err := utils.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash new password: %w", err)
	}

	secret, err := s.secretRepo.RedeemPasswordReset(ctx, utils.HashSecret(token), hash, time.Now())
	if err != nil {
		if errors.Is(err, apperrors.ErrInvalidOrExpired) {
			return err
		}
		return fmt.Errorf("failed to redeem reset token: %w", err)
	}

	s.activity.Enqueue(secret.UserID, "password_reset_completed", nil)
	return nil
}

// checkCooldown enforces the per-kind issuance cooldown, measured against the
// newest unused secret regardless of its expiry.
func (s *verificationService) checkCooldown(ctx context.Context, userID string, kind domain.SecretKind, cooldown time.Duration) error {
	latest, err := s.secretRepo.FindLatestUnusedSecret(ctx, userID, kind)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("failed to check issuance cooldown: %w", err)
	}
	if time.Since(latest.CreatedAt) < cooldown {
		return apperrors.ErrRateLimited
	}
	return nil
}
