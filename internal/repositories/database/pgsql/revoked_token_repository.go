package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/antsoup/auth-backend/internal/core/domain"
	portsrepo "github.com/antsoup/auth-backend/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxRevokedTokenRepository struct {
	BaseRepository
}

func newPgxRevokedTokenRepository(db *pgxpool.Pool) portsrepo.RevokedTokenRepository {
	return &PgxRevokedTokenRepository{BaseRepository: BaseRepository{Pool: db}}
}

// Ensure PgxRevokedTokenRepository implements portsrepo.RevokedTokenRepository
var _ portsrepo.RevokedTokenRepository = (*PgxRevokedTokenRepository)(nil)

func (r *PgxRevokedTokenRepository) Revoke(ctx context.Context, entry domain.RevokedToken) error {
	query := `
		INSERT INTO revoked_tokens (token_hash, user_id, expires_at, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (token_hash) DO UPDATE SET
			created_at = EXCLUDED.created_at,
			expires_at = GREATEST(revoked_tokens.expires_at, EXCLUDED.expires_at);
	`
	_, err := r.Pool.Exec(ctx, query,
		entry.TokenHash,
		entry.UserID,
		entry.ExpiresAt,
		entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	return nil
}

func (r *PgxRevokedTokenRepository) IsRevoked(ctx context.Context, tokenHash string, now time.Time) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM revoked_tokens WHERE token_hash = $1 AND expires_at > $2);`
	var revoked bool
	if err := r.Pool.QueryRow(ctx, query, tokenHash, now).Scan(&revoked); err != nil {
		return false, fmt.Errorf("failed to check token revocation: %w", err)
	}
	return revoked, nil
}
