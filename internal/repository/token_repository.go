package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/mzurek/drumtrack/internal/model"
)

// SetupTokenRepo persists password-setup tokens (single row per NIP,
// 'token_hash' column only; the raw token is never stored).
type SetupTokenRepo struct{ DB *sql.DB }

func NewSetupTokenRepo(db *sql.DB) *SetupTokenRepo { return &SetupTokenRepo{DB: db} }

// Upsert stores a token hash for a NIP, overwriting any outstanding
// token. NIP is the primary key, so at most one token per company can
// ever be valid; the database's atomic upsert is the idempotency
// guarantee under concurrent requests for the same NIP.
func (r *SetupTokenRepo) Upsert(ctx context.Context, nip, tokenHash string, expiresAt time.Time) error {
	_, err := r.DB.ExecContext(ctx,
		`INSERT INTO password_setup_tokens (nip, token_hash, expires_at) VALUES (?,?,?)
		 ON DUPLICATE KEY UPDATE token_hash=VALUES(token_hash), expires_at=VALUES(expires_at), created_at=NOW()`,
		nip, tokenHash, expiresAt.UTC())
	return err
}

// GetByHash looks up a token row by its SHA-256 digest. A consumed
// token and a token that never existed both come back as
// sql.ErrNoRows; callers cannot tell them apart, by construction.
func (r *SetupTokenRepo) GetByHash(ctx context.Context, tokenHash string) (model.SetupToken, error) {
	var t model.SetupToken
	err := r.DB.QueryRowContext(ctx,
		`SELECT nip, token_hash, expires_at, created_at
		   FROM password_setup_tokens WHERE token_hash=? LIMIT 1`,
		tokenHash).Scan(&t.NIP, &t.TokenHash, &t.ExpiresAt, &t.CreatedAt)
	return t, err
}

// Delete removes the token row for a NIP, either because it was
// consumed or because it was found expired.
func (r *SetupTokenRepo) Delete(ctx context.Context, nip string) error {
	_, err := r.DB.ExecContext(ctx,
		"DELETE FROM password_setup_tokens WHERE nip=?", nip)
	return err
}
