package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/mzurek/drumtrack/internal/model"
)

// ClientUserRepo persists company credential records. A row exists
// only after the company completed first-time password setup; reads
// join the owning company for display fields.
type ClientUserRepo struct{ DB *sql.DB }

func NewClientUserRepo(db *sql.DB) *ClientUserRepo { return &ClientUserRepo{DB: db} }

// GetByNIP fetches the credential view of a company. The query
// starts from companies, so a provisioned company that never finished
// password setup still comes back, with an empty hash and the
// first-login flag raised. Only an unknown NIP yields sql.ErrNoRows.
func (r *ClientUserRepo) GetByNIP(ctx context.Context, nip string) (model.ClientUser, error) {
	var u model.ClientUser
	var hash sql.NullString
	var lastLogin sql.NullTime
	err := r.DB.QueryRowContext(ctx,
		`SELECT c.nip, u.password_hash, COALESCE(u.first_login, TRUE), u.last_login_at, c.name, c.email
		   FROM companies c LEFT JOIN client_users u ON u.nip = c.nip
		  WHERE c.nip=? LIMIT 1`,
		nip).Scan(&u.NIP, &hash, &u.FirstLogin, &lastLogin, &u.Name, &u.Email)
	if err != nil {
		return model.ClientUser{}, err
	}
	u.PasswordHash = hash.String
	if lastLogin.Valid {
		t := lastLogin.Time
		u.LastLoginAt = &t
	}
	return u, nil
}

// Upsert creates or replaces the credential record for a NIP with the
// given password hash and clears the first-login flag. Redeeming a
// setup token and resetting a password both land here, which is what
// makes redemption idempotent per NIP.
func (r *ClientUserRepo) Upsert(ctx context.Context, nip, passwordHash string) error {
	_, err := r.DB.ExecContext(ctx,
		`INSERT INTO client_users (nip, password_hash, first_login) VALUES (?,?,FALSE)
		 ON DUPLICATE KEY UPDATE password_hash=VALUES(password_hash), first_login=FALSE`,
		nip, passwordHash)
	return err
}

// TouchLastLogin records a successful login. Not part of the
// authentication path; callers ignore the error.
func (r *ClientUserRepo) TouchLastLogin(ctx context.Context, nip string, at time.Time) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE client_users SET last_login_at=? WHERE nip=?", at.UTC(), nip)
	return err
}
