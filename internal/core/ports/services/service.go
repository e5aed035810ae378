package services

// ServiceContainer bundles every service facade for injection into the
// handler layer.
type ServiceContainer struct {
	User               UserSvcFacade
	Token              TokenSvcFacade
	Verification       VerificationSvcFacade
	GoogleOAuthHandler GoogleOAuthHandlerSvcFacade
	Mail               MailSvc
}
