package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/antsoup/auth-backend/internal/apperrors"
	"github.com/antsoup/auth-backend/internal/core/domain"
	portsrepo "github.com/antsoup/auth-backend/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxSecretRepository struct {
	BaseRepository
}

func newPgxSecretRepository(db *pgxpool.Pool) portsrepo.SecretRepository {
	return &PgxSecretRepository{BaseRepository: BaseRepository{Pool: db}}
}

// Ensure PgxSecretRepository implements portsrepo.SecretRepository
var _ portsrepo.SecretRepository = (*PgxSecretRepository)(nil)

const secretColumns = `secret_id, user_id, kind, secret_value, expires_at, used, used_at, created_at`

func scanSecret(row pgx.Row) (*domain.OneTimeSecret, error) {
	var s domain.OneTimeSecret
	err := row.Scan(
		&s.SecretID,
		&s.UserID,
		&s.Kind,
		&s.Value,
		&s.ExpiresAt,
		&s.Used,
		&s.UsedAt,
		&s.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

func (r *PgxSecretRepository) FindLatestUnusedSecret(ctx context.Context, userID string, kind domain.SecretKind) (*domain.OneTimeSecret, error) {
	query := `
		SELECT ` + secretColumns + `
		FROM one_time_secrets
		WHERE user_id = $1 AND kind = $2 AND used = FALSE
		ORDER BY created_at DESC
		LIMIT 1;
	`
	secret, err := scanSecret(r.Pool.QueryRow(ctx, query, userID, kind))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to find latest unused secret: %w", err)
	}
	return secret, nil
}

// SupersedeAndCreate invalidates every unused secret of the kind for the user
// and inserts the replacement. Both statements share one transaction so
// concurrent issuance cannot leave two redeemable secrets: the supersede
// UPDATE serializes conflicting transactions on the same rows.
func (r *PgxSecretRepository) SupersedeAndCreate(ctx context.Context, secret domain.OneTimeSecret) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx) // Will be ignored if transaction is committed successfully

	supersedeQuery := `
		UPDATE one_time_secrets
		SET used = TRUE
		WHERE user_id = $1 AND kind = $2 AND used = FALSE;
	`
	if _, err := tx.Exec(ctx, supersedeQuery, secret.UserID, secret.Kind); err != nil {
		return fmt.Errorf("failed to supersede prior secrets: %w", err)
	}

	insertQuery := `
		INSERT INTO one_time_secrets (secret_id, user_id, kind, secret_value, expires_at, used, created_at)
		VALUES ($1, $2, $3, $4, $5, FALSE, $6);
	`
	_, err = tx.Exec(ctx, insertQuery,
		secret.SecretID,
		secret.UserID,
		secret.Kind,
		secret.Value,
		secret.ExpiresAt,
		secret.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert secret: %w", err)
	}

	return r.Commit(ctx, tx)
}

// RedeemEmailVerification consumes the identified verification code and flips
// the owner's email-verified flag in one transaction. The guarded UPDATE on
// the secret row makes redemption exactly-once under concurrency.
func (r *PgxSecretRepository) RedeemEmailVerification(ctx context.Context, userID, secretID string, now time.Time) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	consumeQuery := `
		UPDATE one_time_secrets
		SET used = TRUE, used_at = $3
		WHERE secret_id = $1 AND user_id = $2 AND used = FALSE AND expires_at > $3;
	`
	tag, err := tx.Exec(ctx, consumeQuery, secretID, userID, now)
	if err != nil {
		return fmt.Errorf("failed to consume verification code: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrInvalidOrExpired
	}

	verifyQuery := `
		UPDATE users
		SET email_verified = TRUE, email_verified_at = $2, last_updated_at = $2
		WHERE user_id = $1 AND deleted_at IS NULL;
	`
	tag, err = tx.Exec(ctx, verifyQuery, userID, now)
	if err != nil {
		return fmt.Errorf("failed to set email verified flag: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	return r.Commit(ctx, tx)
}

// RedeemPasswordReset consumes the active reset secret matching the digest and
// installs the new password hash on its owner, atomically.
func (r *PgxSecretRepository) RedeemPasswordReset(ctx context.Context, tokenDigest, newPasswordHash string, now time.Time) (*domain.OneTimeSecret, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Rollback(ctx, tx)

	selectQuery := `
		SELECT ` + secretColumns + `
		FROM one_time_secrets
		WHERE kind = $1 AND secret_value = $2 AND used = FALSE AND expires_at > $3
		FOR UPDATE;
	`
	secret, err := scanSecret(tx.QueryRow(ctx, selectQuery, domain.SecretKindPasswordReset, tokenDigest, now))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrInvalidOrExpired
		}
		return nil, fmt.Errorf("failed to look up reset secret: %w", err)
	}

	consumeQuery := `UPDATE one_time_secrets SET used = TRUE, used_at = $2 WHERE secret_id = $1;`
	if _, err := tx.Exec(ctx, consumeQuery, secret.SecretID, now); err != nil {
		return nil, fmt.Errorf("failed to consume reset secret: %w", err)
	}

	passwordQuery := `
		UPDATE users
		SET password_hash = $2, last_updated_at = $3
		WHERE user_id = $1 AND deleted_at IS NULL;
	`
	tag, err := tx.Exec(ctx, passwordQuery, secret.UserID, newPasswordHash, now)
	if err != nil {
		return nil, fmt.Errorf("failed to update password: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, apperrors.ErrInvalidOrExpired
	}

	if err := r.Commit(ctx, tx); err != nil {
		return nil, err
	}
	secret.Used = true
	secret.UsedAt = &now
	return secret, nil
}
