package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/mzurek/drumtrack/internal/model"
)

// AdminUserRepo persists administrator accounts. Admins are keyed by
// an NIP-like identifier of their own and are not tied to a company.
type AdminUserRepo struct{ DB *sql.DB }

func NewAdminUserRepo(db *sql.DB) *AdminUserRepo { return &AdminUserRepo{DB: db} }

// GetByNIP fetches one admin account.
func (r *AdminUserRepo) GetByNIP(ctx context.Context, nip string) (model.AdminUser, error) {
	var u model.AdminUser
	var hash sql.NullString
	var lastLogin sql.NullTime
	err := r.DB.QueryRowContext(ctx,
		`SELECT nip, username, role, is_active, password_hash, email, last_login_at
		   FROM admin_users WHERE nip=? LIMIT 1`,
		nip).Scan(&u.NIP, &u.Username, &u.Role, &u.IsActive, &hash, &u.Email, &lastLogin)
	if err != nil {
		return model.AdminUser{}, err
	}
	u.PasswordHash = hash.String
	if lastLogin.Valid {
		t := lastLogin.Time
		u.LastLoginAt = &t
	}
	return u, nil
}

// TouchLastLogin records a successful admin login; best-effort.
func (r *AdminUserRepo) TouchLastLogin(ctx context.Context, nip string, at time.Time) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE admin_users SET last_login_at=? WHERE nip=?", at.UTC(), nip)
	return err
}
