package pgsql

import (
	portsrepo "github.com/antsoup/auth-backend/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) *portsrepo.RepositoryProvider {
	return &portsrepo.RepositoryProvider{
		UserRepo:         newPgxUserRepository(dbPool),
		SecretRepo:       newPgxSecretRepository(dbPool),
		RevokedTokenRepo: newPgxRevokedTokenRepository(dbPool),
	}
}
