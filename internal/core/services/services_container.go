package services

import (
	portsrepo "github.com/antsoup/auth-backend/internal/core/ports/repositories"
	portssvc "github.com/antsoup/auth-backend/internal/core/ports/services"
	"github.com/antsoup/auth-backend/internal/platform/config"
	"github.com/antsoup/auth-backend/internal/utils"
)

// NewServiceContainer wires every core service against the repository provider
// and the shared collaborators.
func NewServiceContainer(repos *portsrepo.RepositoryProvider, cfg *config.Config, mailer portssvc.MailSvc, activity *utils.PosthogClientWrapper) *portssvc.ServiceContainer {
	userSvc := NewUserService(repos.UserRepo, activity)
	tokenSvc := NewTokenService(cfg, userSvc, repos.RevokedTokenRepo)
	verificationSvc := NewVerificationService(cfg, repos.SecretRepo, repos.UserRepo, mailer, activity)
	googleSvc := NewGoogleOAuthHandlerService(cfg)

	return &portssvc.ServiceContainer{
		User:               userSvc,
		Token:              tokenSvc,
		Verification:       verificationSvc,
		GoogleOAuthHandler: googleSvc,
		Mail:               mailer,
	}
}
