package repositories

// RepositoryProvider bundles every repository implementation for injection
// into the service layer.
type RepositoryProvider struct {
	UserRepo         UserRepository
	SecretRepo       SecretRepository
	RevokedTokenRepo RevokedTokenRepository
}
